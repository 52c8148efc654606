// Package note はフォルダ整理されたリッチテキストノートのドメインロジックを提供する。
package note

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
	"github.com/hitoshi/taskdeck/internal/security"
)

// DefaultFolderName はフォルダ未指定のノートが入る既定フォルダの名前。
const DefaultFolderName = "General"

// Service はノートとフォルダ管理のサービス層。
// ノート本文は保存前に必ずサニタイズされる。
type Service struct {
	noteRepo   repository.NoteRepository
	folderRepo repository.FolderRepository
	sanitizer  security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(noteRepo repository.NoteRepository, folderRepo repository.FolderRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		noteRepo:   noteRepo,
		folderRepo: folderRepo,
		sanitizer:  sanitizer,
	}
}

// ListFolders はユーザーのフォルダ一覧を名前昇順で返す。
func (s *Service) ListFolders(ctx context.Context, userID int64) ([]*model.Folder, error) {
	folders, err := s.folderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("フォルダ一覧の取得に失敗しました: %w", err)
	}
	return folders, nil
}

// CreateFolder は新しいフォルダを作成する。
// 同名フォルダが既に存在する場合は既存のフォルダを返す。
func (s *Service) CreateFolder(ctx context.Context, userID int64, name string) (*model.Folder, error) {
	existing, err := s.folderRepo.FindByName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("フォルダの確認に失敗しました: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	folder := &model.Folder{
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("フォルダの作成に失敗しました: %w", err)
	}

	return folder, nil
}

// RenameFolder はフォルダ名を変更する。
func (s *Service) RenameFolder(ctx context.Context, userID, folderID int64, name string) (*model.Folder, error) {
	folder, err := s.folderRepo.Rename(ctx, userID, folderID, name)
	if err != nil {
		return nil, fmt.Errorf("フォルダの更新に失敗しました: %w", err)
	}
	if folder == nil {
		return nil, model.NewFolderNotFoundError(folderID)
	}
	return folder, nil
}

// DeleteFolder は空のフォルダを削除する。
// ノートが1件でも残っている場合は削除を拒否する。
func (s *Service) DeleteFolder(ctx context.Context, userID, folderID int64) error {
	folder, err := s.folderRepo.FindByID(ctx, userID, folderID)
	if err != nil {
		return fmt.Errorf("フォルダの確認に失敗しました: %w", err)
	}
	if folder == nil {
		return model.NewFolderNotFoundError(folderID)
	}

	count, err := s.noteRepo.CountByFolderID(ctx, userID, folderID)
	if err != nil {
		return fmt.Errorf("フォルダ内ノート数の取得に失敗しました: %w", err)
	}
	if count > 0 {
		return model.NewFolderNotEmptyError()
	}

	deleted, err := s.folderRepo.DeleteByID(ctx, userID, folderID)
	if err != nil {
		return fmt.Errorf("フォルダの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewFolderNotFoundError(folderID)
	}
	return nil
}

// ListNotes はユーザーのノート一覧を返す。
// folderIDが指定された場合はフォルダの所有を検証した上で絞り込む。
func (s *Service) ListNotes(ctx context.Context, userID int64, folderID *int64) ([]*model.Note, error) {
	if folderID != nil {
		folder, err := s.folderRepo.FindByID(ctx, userID, *folderID)
		if err != nil {
			return nil, fmt.Errorf("フォルダの確認に失敗しました: %w", err)
		}
		if folder == nil {
			return nil, model.NewFolderNotFoundError(*folderID)
		}
	}

	notes, err := s.noteRepo.ListByUserID(ctx, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("ノート一覧の取得に失敗しました: %w", err)
	}
	return notes, nil
}

// GetNote は指定IDのノートを返す。
func (s *Service) GetNote(ctx context.Context, userID, noteID int64) (*model.Note, error) {
	note, err := s.noteRepo.FindByID(ctx, userID, noteID)
	if err != nil {
		return nil, fmt.Errorf("ノートの取得に失敗しました: %w", err)
	}
	if note == nil {
		return nil, model.NewNoteNotFoundError(noteID)
	}
	return note, nil
}

// CreateNote は新しいノートを作成する。
// folderIDがnilの場合は既定フォルダ(General)に入れる。
// 既定フォルダが存在しない場合はこの時点で作成する。
func (s *Service) CreateNote(ctx context.Context, userID int64, title, content string, folderID *int64) (*model.Note, error) {
	targetFolderID, err := s.resolveFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note := &model.Note{
		UserID:    userID,
		FolderID:  targetFolderID,
		Title:     title,
		Content:   s.sanitizer.Sanitize(content),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("ノートの作成に失敗しました: %w", err)
	}

	return s.GetNote(ctx, userID, note.ID)
}

// UpdateNote はノートのタイトル・本文・所属フォルダを更新する。
// folderIDがnilの場合は所属フォルダを変更しない。
func (s *Service) UpdateNote(ctx context.Context, userID, noteID int64, title, content string, folderID *int64) (*model.Note, error) {
	if folderID != nil {
		folder, err := s.folderRepo.FindByID(ctx, userID, *folderID)
		if err != nil {
			return nil, fmt.Errorf("フォルダの確認に失敗しました: %w", err)
		}
		if folder == nil {
			return nil, model.NewFolderNotFoundError(*folderID)
		}
	}

	note, err := s.noteRepo.Update(ctx, userID, noteID, title, s.sanitizer.Sanitize(content), folderID)
	if err != nil {
		return nil, fmt.Errorf("ノートの更新に失敗しました: %w", err)
	}
	if note == nil {
		return nil, model.NewNoteNotFoundError(noteID)
	}
	return note, nil
}

// MoveNote はノートを指定フォルダへ移動する。
// ノートと移動先フォルダの両方の所有を検証する。
func (s *Service) MoveNote(ctx context.Context, userID, noteID, folderID int64) (*model.Note, error) {
	folder, err := s.folderRepo.FindByID(ctx, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("フォルダの確認に失敗しました: %w", err)
	}
	if folder == nil {
		return nil, model.NewFolderNotFoundError(folderID)
	}

	note, err := s.noteRepo.Move(ctx, userID, noteID, folderID)
	if err != nil {
		return nil, fmt.Errorf("ノートの移動に失敗しました: %w", err)
	}
	if note == nil {
		return nil, model.NewNoteNotFoundError(noteID)
	}
	return note, nil
}

// DeleteNote は指定IDのノートを削除する。
func (s *Service) DeleteNote(ctx context.Context, userID, noteID int64) error {
	deleted, err := s.noteRepo.DeleteByID(ctx, userID, noteID)
	if err != nil {
		return fmt.Errorf("ノートの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewNoteNotFoundError(noteID)
	}
	return nil
}

// resolveFolder は保存先フォルダIDを決定する。
func (s *Service) resolveFolder(ctx context.Context, userID int64, folderID *int64) (int64, error) {
	if folderID != nil {
		folder, err := s.folderRepo.FindByID(ctx, userID, *folderID)
		if err != nil {
			return 0, fmt.Errorf("フォルダの確認に失敗しました: %w", err)
		}
		if folder == nil {
			return 0, model.NewFolderNotFoundError(*folderID)
		}
		return folder.ID, nil
	}

	folder, err := s.CreateFolder(ctx, userID, DefaultFolderName)
	if err != nil {
		return 0, err
	}
	return folder.ID, nil
}

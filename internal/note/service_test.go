package note

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
	"github.com/hitoshi/taskdeck/internal/security"
)

// mockNoteRepo はNoteRepositoryのテスト用モック。
type mockNoteRepo struct {
	listByUserIDFn    func(ctx context.Context, userID int64, folderID *int64) ([]*model.Note, error)
	findByIDFn        func(ctx context.Context, userID, id int64) (*model.Note, error)
	createFn          func(ctx context.Context, note *model.Note) error
	updateFn          func(ctx context.Context, userID, id int64, title, content string, folderID *int64) (*model.Note, error)
	moveFn            func(ctx context.Context, userID, id, folderID int64) (*model.Note, error)
	deleteByIDFn      func(ctx context.Context, userID, id int64) (bool, error)
	countByFolderIDFn func(ctx context.Context, userID, folderID int64) (int, error)
}

func (m *mockNoteRepo) ListByUserID(ctx context.Context, userID int64, folderID *int64) ([]*model.Note, error) {
	return m.listByUserIDFn(ctx, userID, folderID)
}

func (m *mockNoteRepo) FindByID(ctx context.Context, userID, id int64) (*model.Note, error) {
	return m.findByIDFn(ctx, userID, id)
}

func (m *mockNoteRepo) Create(ctx context.Context, note *model.Note) error {
	return m.createFn(ctx, note)
}

func (m *mockNoteRepo) Update(ctx context.Context, userID, id int64, title, content string, folderID *int64) (*model.Note, error) {
	return m.updateFn(ctx, userID, id, title, content, folderID)
}

func (m *mockNoteRepo) Move(ctx context.Context, userID, id, folderID int64) (*model.Note, error) {
	return m.moveFn(ctx, userID, id, folderID)
}

func (m *mockNoteRepo) DeleteByID(ctx context.Context, userID, id int64) (bool, error) {
	return m.deleteByIDFn(ctx, userID, id)
}

func (m *mockNoteRepo) CountByFolderID(ctx context.Context, userID, folderID int64) (int, error) {
	return m.countByFolderIDFn(ctx, userID, folderID)
}

var _ repository.NoteRepository = (*mockNoteRepo)(nil)

// mockFolderRepo はFolderRepositoryのテスト用モック。
type mockFolderRepo struct {
	listByUserIDFn func(ctx context.Context, userID int64) ([]*model.Folder, error)
	findByIDFn     func(ctx context.Context, userID, id int64) (*model.Folder, error)
	findByNameFn   func(ctx context.Context, userID int64, name string) (*model.Folder, error)
	createFn       func(ctx context.Context, folder *model.Folder) error
	renameFn       func(ctx context.Context, userID, id int64, name string) (*model.Folder, error)
	deleteByIDFn   func(ctx context.Context, userID, id int64) (bool, error)
}

func (m *mockFolderRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Folder, error) {
	return m.listByUserIDFn(ctx, userID)
}

func (m *mockFolderRepo) FindByID(ctx context.Context, userID, id int64) (*model.Folder, error) {
	return m.findByIDFn(ctx, userID, id)
}

func (m *mockFolderRepo) FindByName(ctx context.Context, userID int64, name string) (*model.Folder, error) {
	return m.findByNameFn(ctx, userID, name)
}

func (m *mockFolderRepo) Create(ctx context.Context, folder *model.Folder) error {
	return m.createFn(ctx, folder)
}

func (m *mockFolderRepo) Rename(ctx context.Context, userID, id int64, name string) (*model.Folder, error) {
	return m.renameFn(ctx, userID, id, name)
}

func (m *mockFolderRepo) DeleteByID(ctx context.Context, userID, id int64) (bool, error) {
	return m.deleteByIDFn(ctx, userID, id)
}

var _ repository.FolderRepository = (*mockFolderRepo)(nil)

// assertAPIErrorCode はerrのAPIErrorコードを検証するヘルパー。
func assertAPIErrorCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q", wantCode)
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T: %v", err, err)
	}
	if apiErr.Code != wantCode {
		t.Errorf("error code = %q, want %q", apiErr.Code, wantCode)
	}
}

// TestService_CreateFolder_New は新規フォルダの作成を検証する。
func TestService_CreateFolder_New(t *testing.T) {
	folderRepo := &mockFolderRepo{
		findByNameFn: func(ctx context.Context, userID int64, name string) (*model.Folder, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, folder *model.Folder) error {
			folder.ID = 1
			return nil
		},
	}
	svc := NewService(&mockNoteRepo{}, folderRepo, security.NewContentSanitizer())

	folder, err := svc.CreateFolder(context.Background(), 1, "仕事")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if folder.ID != 1 || folder.Name != "仕事" {
		t.Errorf("folder = %+v, want ID=1 Name=仕事", folder)
	}
}

// TestService_CreateFolder_DuplicateReturnsExisting は同名フォルダが
// 既に存在する場合に既存フォルダが返ることを検証する。
func TestService_CreateFolder_DuplicateReturnsExisting(t *testing.T) {
	created := false
	folderRepo := &mockFolderRepo{
		findByNameFn: func(ctx context.Context, userID int64, name string) (*model.Folder, error) {
			return &model.Folder{ID: 5, UserID: userID, Name: name}, nil
		},
		createFn: func(ctx context.Context, folder *model.Folder) error {
			created = true
			return nil
		},
	}
	svc := NewService(&mockNoteRepo{}, folderRepo, security.NewContentSanitizer())

	folder, err := svc.CreateFolder(context.Background(), 1, "仕事")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if folder.ID != 5 {
		t.Errorf("folder.ID = %d, want existing folder 5", folder.ID)
	}
	if created {
		t.Error("should not create a new folder when one exists with the same name")
	}
}

// TestService_DeleteFolder_Empty は空フォルダの削除が成功することを検証する。
func TestService_DeleteFolder_Empty(t *testing.T) {
	folderRepo := &mockFolderRepo{
		findByIDFn: func(ctx context.Context, userID, id int64) (*model.Folder, error) {
			return &model.Folder{ID: id, UserID: userID, Name: "空フォルダ"}, nil
		},
		deleteByIDFn: func(ctx context.Context, userID, id int64) (bool, error) {
			return true, nil
		},
	}
	noteRepo := &mockNoteRepo{
		countByFolderIDFn: func(ctx context.Context, userID, folderID int64) (int, error) {
			return 0, nil
		},
	}
	svc := NewService(noteRepo, folderRepo, security.NewContentSanitizer())

	if err := svc.DeleteFolder(context.Background(), 1, 3); err != nil {
		t.Fatalf("DeleteFolder failed: %v", err)
	}
}

// TestService_DeleteFolder_NotEmpty はノートが残るフォルダの削除が
// FOLDER_NOT_EMPTYで拒否されることを検証する。
func TestService_DeleteFolder_NotEmpty(t *testing.T) {
	folderRepo := &mockFolderRepo{
		findByIDFn: func(ctx context.Context, userID, id int64) (*model.Folder, error) {
			return &model.Folder{ID: id, UserID: userID, Name: "使用中フォルダ"}, nil
		},
	}
	noteRepo := &mockNoteRepo{
		countByFolderIDFn: func(ctx context.Context, userID, folderID int64) (int, error) {
			return 3, nil
		},
	}
	svc := NewService(noteRepo, folderRepo, security.NewContentSanitizer())

	err := svc.DeleteFolder(context.Background(), 1, 3)
	assertAPIErrorCode(t, err, model.ErrCodeFolderNotEmpty)
}

// TestService_DeleteFolder_NotFound は未存在フォルダの削除で
// FOLDER_NOT_FOUNDが返ることを検証する。
func TestService_DeleteFolder_NotFound(t *testing.T) {
	folderRepo := &mockFolderRepo{
		findByIDFn: func(ctx context.Context, userID, id int64) (*model.Folder, error) {
			return nil, nil
		},
	}
	svc := NewService(&mockNoteRepo{}, folderRepo, security.NewContentSanitizer())

	err := svc.DeleteFolder(context.Background(), 1, 999)
	assertAPIErrorCode(t, err, model.ErrCodeFolderNotFound)
}

// TestService_CreateNote_DefaultFolder はフォルダ未指定のノートが
// 既定フォルダGeneralに入ることを検証する。
func TestService_CreateNote_DefaultFolder(t *testing.T) {
	var searchedName string
	folderRepo := &mockFolderRepo{
		findByNameFn: func(ctx context.Context, userID int64, name string) (*model.Folder, error) {
			searchedName = name
			return nil, nil
		},
		createFn: func(ctx context.Context, folder *model.Folder) error {
			folder.ID = 1
			return nil
		},
	}
	noteRepo := &mockNoteRepo{
		createFn: func(ctx context.Context, note *model.Note) error {
			note.ID = 10
			return nil
		},
		findByIDFn: func(ctx context.Context, userID, id int64) (*model.Note, error) {
			return &model.Note{ID: id, UserID: userID, FolderID: 1, FolderName: DefaultFolderName}, nil
		},
	}
	svc := NewService(noteRepo, folderRepo, security.NewContentSanitizer())

	note, err := svc.CreateNote(context.Background(), 1, "メモ", "<p>本文</p>", nil)
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if searchedName != DefaultFolderName {
		t.Errorf("searched folder name = %q, want %q", searchedName, DefaultFolderName)
	}
	if note.FolderName != DefaultFolderName {
		t.Errorf("note.FolderName = %q, want %q", note.FolderName, DefaultFolderName)
	}
}

// TestService_CreateNote_SanitizesContent は保存前に本文がサニタイズされることを検証する。
func TestService_CreateNote_SanitizesContent(t *testing.T) {
	var savedContent string
	folderRepo := &mockFolderRepo{
		findByIDFn: func(ctx context.Context, userID, id int64) (*model.Folder, error) {
			return &model.Folder{ID: id, UserID: userID, Name: "仕事"}, nil
		},
	}
	noteRepo := &mockNoteRepo{
		createFn: func(ctx context.Context, note *model.Note) error {
			note.ID = 10
			savedContent = note.Content
			return nil
		},
		findByIDFn: func(ctx context.Context, userID, id int64) (*model.Note, error) {
			return &model.Note{ID: id, UserID: userID, FolderID: 2, Content: savedContent}, nil
		},
	}
	svc := NewService(noteRepo, folderRepo, security.NewContentSanitizer())

	folderID := int64(2)
	_, err := svc.CreateNote(context.Background(), 1, "メモ",
		`<p>本文</p><script>alert('xss')</script>`, &folderID)
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if savedContent == "" {
		t.Fatal("content should be persisted")
	}
	if containsAny(savedContent, "<script", "alert") {
		t.Errorf("persisted content %q should be sanitized", savedContent)
	}
}

// TestService_CreateNote_FolderNotOwned は他ユーザーのフォルダ指定が
// FOLDER_NOT_FOUNDで拒否されることを検証する。
func TestService_CreateNote_FolderNotOwned(t *testing.T) {
	folderRepo := &mockFolderRepo{
		findByIDFn: func(ctx context.Context, userID, id int64) (*model.Folder, error) {
			return nil, nil
		},
	}
	svc := NewService(&mockNoteRepo{}, folderRepo, security.NewContentSanitizer())

	folderID := int64(99)
	_, err := svc.CreateNote(context.Background(), 1, "メモ", "<p>本文</p>", &folderID)
	assertAPIErrorCode(t, err, model.ErrCodeFolderNotFound)
}

// TestService_UpdateNote_SanitizesContent は更新時も本文がサニタイズされることを検証する。
func TestService_UpdateNote_SanitizesContent(t *testing.T) {
	var savedContent string
	noteRepo := &mockNoteRepo{
		updateFn: func(ctx context.Context, userID, id int64, title, content string, folderID *int64) (*model.Note, error) {
			savedContent = content
			return &model.Note{ID: id, UserID: userID, Title: title, Content: content}, nil
		},
	}
	svc := NewService(noteRepo, &mockFolderRepo{}, security.NewContentSanitizer())

	_, err := svc.UpdateNote(context.Background(), 1, 10, "更新",
		`<p>更新本文</p><iframe src="https://evil.com"></iframe>`, nil)
	if err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}

	if containsAny(savedContent, "<iframe", "evil.com") {
		t.Errorf("persisted content %q should be sanitized", savedContent)
	}
}

// TestService_UpdateNote_NotFound は未存在ノートの更新でNOTE_NOT_FOUNDが返ることを検証する。
func TestService_UpdateNote_NotFound(t *testing.T) {
	noteRepo := &mockNoteRepo{
		updateFn: func(ctx context.Context, userID, id int64, title, content string, folderID *int64) (*model.Note, error) {
			return nil, nil
		},
	}
	svc := NewService(noteRepo, &mockFolderRepo{}, security.NewContentSanitizer())

	_, err := svc.UpdateNote(context.Background(), 1, 999, "更新", "<p>本文</p>", nil)
	assertAPIErrorCode(t, err, model.ErrCodeNoteNotFound)
}

// TestService_MoveNote_Success はノートのフォルダ間移動を検証する。
func TestService_MoveNote_Success(t *testing.T) {
	var movedTo int64
	folderRepo := &mockFolderRepo{
		findByIDFn: func(ctx context.Context, userID, id int64) (*model.Folder, error) {
			return &model.Folder{ID: id, UserID: userID, Name: "移動先"}, nil
		},
	}
	noteRepo := &mockNoteRepo{
		moveFn: func(ctx context.Context, userID, id, folderID int64) (*model.Note, error) {
			movedTo = folderID
			return &model.Note{ID: id, UserID: userID, FolderID: folderID, FolderName: "移動先"}, nil
		},
	}
	svc := NewService(noteRepo, folderRepo, security.NewContentSanitizer())

	note, err := svc.MoveNote(context.Background(), 1, 10, 3)
	if err != nil {
		t.Fatalf("MoveNote failed: %v", err)
	}
	if movedTo != 3 || note.FolderID != 3 {
		t.Errorf("note moved to folder %d (returned %d), want 3", movedTo, note.FolderID)
	}
}

// TestService_MoveNote_TargetFolderNotFound は移動先フォルダが未存在の場合に
// FOLDER_NOT_FOUNDが返ることを検証する。
func TestService_MoveNote_TargetFolderNotFound(t *testing.T) {
	folderRepo := &mockFolderRepo{
		findByIDFn: func(ctx context.Context, userID, id int64) (*model.Folder, error) {
			return nil, nil
		},
	}
	svc := NewService(&mockNoteRepo{}, folderRepo, security.NewContentSanitizer())

	_, err := svc.MoveNote(context.Background(), 1, 10, 999)
	assertAPIErrorCode(t, err, model.ErrCodeFolderNotFound)
}

// TestService_ListNotes_FolderFilter はフォルダ絞り込み時に所有検証が行われることを検証する。
func TestService_ListNotes_FolderFilter(t *testing.T) {
	folderRepo := &mockFolderRepo{
		findByIDFn: func(ctx context.Context, userID, id int64) (*model.Folder, error) {
			return &model.Folder{ID: id, UserID: userID, Name: "仕事"}, nil
		},
	}
	noteRepo := &mockNoteRepo{
		listByUserIDFn: func(ctx context.Context, userID int64, folderID *int64) ([]*model.Note, error) {
			if folderID == nil {
				t.Error("folderID should be passed through to the repository")
			}
			return []*model.Note{{ID: 1, UserID: userID, FolderID: *folderID}}, nil
		},
	}
	svc := NewService(noteRepo, folderRepo, security.NewContentSanitizer())

	folderID := int64(2)
	notes, err := svc.ListNotes(context.Background(), 1, &folderID)
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("len(notes) = %d, want 1", len(notes))
	}
}

// TestService_ListNotes_UnownedFolder は他ユーザーのフォルダ絞り込みが
// FOLDER_NOT_FOUNDで拒否されることを検証する。
func TestService_ListNotes_UnownedFolder(t *testing.T) {
	folderRepo := &mockFolderRepo{
		findByIDFn: func(ctx context.Context, userID, id int64) (*model.Folder, error) {
			return nil, nil
		},
	}
	svc := NewService(&mockNoteRepo{}, folderRepo, security.NewContentSanitizer())

	folderID := int64(99)
	_, err := svc.ListNotes(context.Background(), 1, &folderID)
	assertAPIErrorCode(t, err, model.ErrCodeFolderNotFound)
}

// TestService_DeleteNote_NotFound は未存在ノートの削除でNOTE_NOT_FOUNDが返ることを検証する。
func TestService_DeleteNote_NotFound(t *testing.T) {
	noteRepo := &mockNoteRepo{
		deleteByIDFn: func(ctx context.Context, userID, id int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewService(noteRepo, &mockFolderRepo{}, security.NewContentSanitizer())

	err := svc.DeleteNote(context.Background(), 1, 999)
	assertAPIErrorCode(t, err, model.ErrCodeNoteNotFound)
}

// containsAny はいずれかの部分文字列を含むかを返すヘルパー。
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

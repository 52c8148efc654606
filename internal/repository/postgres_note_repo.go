package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskdeck/internal/model"
)

// PostgresNoteRepo はPostgreSQLを使用したノートリポジトリ。
type PostgresNoteRepo struct {
	db *sql.DB
}

// NewPostgresNoteRepo はPostgresNoteRepoを生成する。
func NewPostgresNoteRepo(db *sql.DB) *PostgresNoteRepo {
	return &PostgresNoteRepo{db: db}
}

// ListByUserID はユーザーのノート一覧をフォルダ名付きでupdated_at降順で返す。
// folderIDが指定された場合はそのフォルダ内に絞り込む。
func (r *PostgresNoteRepo) ListByUserID(ctx context.Context, userID int64, folderID *int64) ([]*model.Note, error) {
	query := `SELECT n.id, n.user_id, n.folder_id, f.name, n.title, n.content, n.created_at, n.updated_at
	          FROM notes n
	          JOIN folders f ON n.folder_id = f.id
	          WHERE n.user_id = $1`
	args := []any{userID}

	if folderID != nil {
		query += ` AND n.folder_id = $2`
		args = append(args, *folderID)
	}
	query += ` ORDER BY n.updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ノート一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var notes []*model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// FindByID は指定IDのノートをフォルダ名付きで取得する。
// 他ユーザー所有または未存在の場合はnilを返す。
func (r *PostgresNoteRepo) FindByID(ctx context.Context, userID, id int64) (*model.Note, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT n.id, n.user_id, n.folder_id, f.name, n.title, n.content, n.created_at, n.updated_at
		 FROM notes n
		 JOIN folders f ON n.folder_id = f.id
		 WHERE n.id = $1 AND n.user_id = $2`,
		id, userID,
	)

	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Create はノートを作成し、採番されたIDをnote.IDに書き戻す。
func (r *PostgresNoteRepo) Create(ctx context.Context, note *model.Note) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO notes (user_id, folder_id, title, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		note.UserID, note.FolderID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt,
	).Scan(&note.ID)
	if err != nil {
		return fmt.Errorf("ノートの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はタイトル・本文・所属フォルダを更新しupdated_atを進める。
// folderIDがnilの場合は所属フォルダを変更しない。
// 他ユーザー所有または未存在の場合はnilを返す。
func (r *PostgresNoteRepo) Update(ctx context.Context, userID, id int64, title, content string, folderID *int64) (*model.Note, error) {
	var noteID int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE notes
		 SET title = $1, content = $2,
		     folder_id = COALESCE($3, folder_id),
		     updated_at = now()
		 WHERE id = $4 AND user_id = $5
		 RETURNING id`,
		title, content, folderID, id, userID,
	).Scan(&noteID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ノートの更新に失敗しました: %w", err)
	}

	// フォルダ名付きで返すため更新後の行を再取得する
	return r.FindByID(ctx, userID, noteID)
}

// Move はノートを指定フォルダへ移動する。
// 他ユーザー所有または未存在の場合はnilを返す。
// 移動先フォルダの所有権は呼び出し側（サービス層）で事前に確認する。
func (r *PostgresNoteRepo) Move(ctx context.Context, userID, id, folderID int64) (*model.Note, error) {
	var noteID int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE notes
		 SET folder_id = $1, updated_at = now()
		 WHERE id = $2 AND user_id = $3
		 RETURNING id`,
		folderID, id, userID,
	).Scan(&noteID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ノートの移動に失敗しました: %w", err)
	}

	return r.FindByID(ctx, userID, noteID)
}

// DeleteByID は指定IDのノートを削除する。削除できた場合はtrueを返す。
func (r *PostgresNoteRepo) DeleteByID(ctx context.Context, userID, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("ノートの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// CountByFolderID はフォルダ内のノート数を返す。
func (r *PostgresNoteRepo) CountByFolderID(ctx context.Context, userID, folderID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE folder_id = $1 AND user_id = $2`,
		folderID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ノート数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// scanNote は1行分のノートを読み取る。
func scanNote(row rowScanner) (*model.Note, error) {
	note := &model.Note{}
	if err := row.Scan(
		&note.ID, &note.UserID, &note.FolderID, &note.FolderName,
		&note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("ノートの読み取りに失敗しました: %w", err)
	}
	return note, nil
}

// compile-time interface check
var _ NoteRepository = (*PostgresNoteRepo)(nil)

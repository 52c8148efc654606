package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskdeck/internal/model"
)

// PostgresFolderRepo はPostgreSQLを使用したフォルダリポジトリ。
type PostgresFolderRepo struct {
	db *sql.DB
}

// NewPostgresFolderRepo はPostgresFolderRepoを生成する。
func NewPostgresFolderRepo(db *sql.DB) *PostgresFolderRepo {
	return &PostgresFolderRepo{db: db}
}

// ListByUserID はユーザーのフォルダ一覧を名前昇順で返す。
func (r *PostgresFolderRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Folder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM folders
		 WHERE user_id = $1
		 ORDER BY name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("フォルダ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var folders []*model.Folder
	for rows.Next() {
		folder := &model.Folder{}
		if err := rows.Scan(&folder.ID, &folder.UserID, &folder.Name, &folder.CreatedAt, &folder.UpdatedAt); err != nil {
			return nil, fmt.Errorf("フォルダの読み取りに失敗しました: %w", err)
		}
		folders = append(folders, folder)
	}

	return folders, rows.Err()
}

// FindByID は指定IDのフォルダを取得する。他ユーザー所有または未存在の場合はnilを返す。
func (r *PostgresFolderRepo) FindByID(ctx context.Context, userID, id int64) (*model.Folder, error) {
	folder := &model.Folder{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM folders
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&folder.ID, &folder.UserID, &folder.Name, &folder.CreatedAt, &folder.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("フォルダの取得に失敗しました: %w", err)
	}

	return folder, nil
}

// FindByName はフォルダ名で検索する。見つからない場合はnilを返す。
func (r *PostgresFolderRepo) FindByName(ctx context.Context, userID int64, name string) (*model.Folder, error) {
	folder := &model.Folder{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM folders
		 WHERE user_id = $1 AND name = $2
		 LIMIT 1`,
		userID, name,
	).Scan(&folder.ID, &folder.UserID, &folder.Name, &folder.CreatedAt, &folder.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("フォルダ名での検索に失敗しました: %w", err)
	}

	return folder, nil
}

// Create はフォルダを作成し、採番されたIDをfolder.IDに書き戻す。
func (r *PostgresFolderRepo) Create(ctx context.Context, folder *model.Folder) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO folders (user_id, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		folder.UserID, folder.Name, folder.CreatedAt, folder.UpdatedAt,
	).Scan(&folder.ID)
	if err != nil {
		return fmt.Errorf("フォルダの作成に失敗しました: %w", err)
	}
	return nil
}

// Rename はフォルダ名を変更する。他ユーザー所有または未存在の場合はnilを返す。
func (r *PostgresFolderRepo) Rename(ctx context.Context, userID, id int64, name string) (*model.Folder, error) {
	folder := &model.Folder{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE folders
		 SET name = $1, updated_at = now()
		 WHERE id = $2 AND user_id = $3
		 RETURNING id, user_id, name, created_at, updated_at`,
		name, id, userID,
	).Scan(&folder.ID, &folder.UserID, &folder.Name, &folder.CreatedAt, &folder.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("フォルダ名の変更に失敗しました: %w", err)
	}

	return folder, nil
}

// DeleteByID は指定IDのフォルダを削除する。削除できた場合はtrueを返す。
// フォルダ内のノート有無は呼び出し側（サービス層）で事前に確認する。
func (r *PostgresFolderRepo) DeleteByID(ctx context.Context, userID, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM folders WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("フォルダの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ FolderRepository = (*PostgresFolderRepo)(nil)

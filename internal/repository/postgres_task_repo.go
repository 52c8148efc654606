package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
)

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

// ListByUserID はユーザーのタスク一覧をcreated_at降順で返す。
func (r *PostgresTaskRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, status, completed_at, created_at
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// FindByID は指定IDのタスクを取得する。他ユーザー所有または未存在の場合はnilを返す。
func (r *PostgresTaskRepo) FindByID(ctx context.Context, userID, id int64) (*model.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, status, completed_at, created_at
		 FROM tasks
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Create はタスクを作成し、採番されたIDをtask.IDに書き戻す。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.Task) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (user_id, title, description, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		task.UserID, task.Title, task.Description, task.Status, task.CreatedAt,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("タスクの作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateStatus はタスクの状態とcompleted_atを更新する。
// 他ユーザー所有または未存在の場合はnilを返す。
func (r *PostgresTaskRepo) UpdateStatus(ctx context.Context, userID, id int64, status model.TaskStatus, completedAt *time.Time) (*model.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE tasks
		 SET status = $1, completed_at = $2
		 WHERE id = $3 AND user_id = $4
		 RETURNING id, user_id, title, description, status, completed_at, created_at`,
		status, completedAt, id, userID,
	)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteByID は指定IDのタスクを削除する。削除できた場合はtrueを返す。
func (r *PostgresTaskRepo) DeleteByID(ctx context.Context, userID, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("タスクの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteByUserID はユーザーの全タスクを削除する。
func (r *PostgresTaskRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("タスクの一括削除に失敗しました: %w", err)
	}
	return nil
}

// rowScanner はsql.Rowとsql.Rowsの共通Scanインターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask は1行分のタスクを読み取る。
func scanTask(row rowScanner) (*model.Task, error) {
	task := &model.Task{}
	var completedAt sql.NullTime

	if err := row.Scan(
		&task.ID, &task.UserID, &task.Title, &task.Description,
		&task.Status, &completedAt, &task.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("タスクの読み取りに失敗しました: %w", err)
	}

	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}
	return task, nil
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)

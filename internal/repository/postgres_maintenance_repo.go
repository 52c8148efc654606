package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresMaintenanceRepo はPostgreSQLを使用したユーザーデータ一括削除リポジトリ。
type PostgresMaintenanceRepo struct {
	db *sql.DB
}

// NewPostgresMaintenanceRepo はPostgresMaintenanceRepoを生成する。
func NewPostgresMaintenanceRepo(db *sql.DB) *PostgresMaintenanceRepo {
	return &PostgresMaintenanceRepo{db: db}
}

// ClearAllByUserID はユーザーのタスク・タイマー・リマインダーを
// 同一トランザクションで全削除する。ノートとフォルダは残す。
func (r *PostgresMaintenanceRepo) ClearAllByUserID(ctx context.Context, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// タイマーはtask_id参照があるためタスクより先に削除する
	if _, err := tx.ExecContext(ctx, `DELETE FROM timers WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("タイマーの一括削除に失敗しました: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("タスクの一括削除に失敗しました: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reminders WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("リマインダーの一括削除に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// compile-time interface check
var _ MaintenanceRepository = (*PostgresMaintenanceRepo)(nil)

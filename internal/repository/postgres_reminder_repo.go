package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
)

// PostgresReminderRepo はPostgreSQLを使用したリマインダーリポジトリ。
type PostgresReminderRepo struct {
	db *sql.DB
}

// NewPostgresReminderRepo はPostgresReminderRepoを生成する。
func NewPostgresReminderRepo(db *sql.DB) *PostgresReminderRepo {
	return &PostgresReminderRepo{db: db}
}

// ListByUserID はユーザーのリマインダー一覧をcreated_at降順で返す。
func (r *PostgresReminderRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, kind, interval_seconds, next_trigger_at, is_active, created_at
		 FROM reminders
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("リマインダー一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var reminders []*model.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}

	return reminders, rows.Err()
}

// Create はリマインダーを作成し、採番されたIDをreminder.IDに書き戻す。
func (r *PostgresReminderRepo) Create(ctx context.Context, reminder *model.Reminder) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO reminders (user_id, name, kind, interval_seconds, next_trigger_at, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		reminder.UserID, reminder.Name, reminder.Kind, reminder.IntervalSeconds,
		reminder.NextTriggerAt, reminder.IsActive, reminder.CreatedAt,
	).Scan(&reminder.ID)
	if err != nil {
		return fmt.Errorf("リマインダーの作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateSchedule は次回発火時刻と有効フラグを更新する。
// 他ユーザー所有または未存在の場合はnilを返す。
func (r *PostgresReminderRepo) UpdateSchedule(ctx context.Context, userID, id int64, nextTriggerAt time.Time, isActive bool) (*model.Reminder, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE reminders
		 SET next_trigger_at = $1, is_active = $2
		 WHERE id = $3 AND user_id = $4
		 RETURNING id, user_id, name, kind, interval_seconds, next_trigger_at, is_active, created_at`,
		nextTriggerAt, isActive, id, userID,
	)

	reminder, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

// DeleteByID は指定IDのリマインダーを削除する。削除できた場合はtrueを返す。
func (r *PostgresReminderRepo) DeleteByID(ctx context.Context, userID, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("リマインダーの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteByUserID はユーザーの全リマインダーを削除する。
func (r *PostgresReminderRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("リマインダーの一括削除に失敗しました: %w", err)
	}
	return nil
}

// ListDue は発火時刻を過ぎた有効なリマインダーを
// FOR UPDATE SKIP LOCKEDで排他的に取得する。
// 複数ワーカーが同時に走っても同じリマインダーを二重処理しない。
func (r *PostgresReminderRepo) ListDue(ctx context.Context) ([]*model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, kind, interval_seconds, next_trigger_at, is_active, created_at
		 FROM reminders
		 WHERE next_trigger_at <= now()
		   AND is_active
		 ORDER BY next_trigger_at ASC
		 FOR UPDATE SKIP LOCKED`,
	)
	if err != nil {
		return nil, fmt.Errorf("発火対象リマインダーの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var reminders []*model.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}

	return reminders, rows.Err()
}

// MarkTriggered は発火処理の結果を記録する。
func (r *PostgresReminderRepo) MarkTriggered(ctx context.Context, id int64, nextTriggerAt time.Time, isActive bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reminders
		 SET next_trigger_at = $1, is_active = $2
		 WHERE id = $3`,
		nextTriggerAt, isActive, id,
	)
	if err != nil {
		return fmt.Errorf("リマインダー発火結果の記録に失敗しました: %w", err)
	}
	return nil
}

// scanReminder は1行分のリマインダーを読み取る。
func scanReminder(row rowScanner) (*model.Reminder, error) {
	reminder := &model.Reminder{}
	var intervalSeconds sql.NullInt64

	if err := row.Scan(
		&reminder.ID, &reminder.UserID, &reminder.Name, &reminder.Kind,
		&intervalSeconds, &reminder.NextTriggerAt, &reminder.IsActive, &reminder.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("リマインダーの読み取りに失敗しました: %w", err)
	}

	if intervalSeconds.Valid {
		reminder.IntervalSeconds = &intervalSeconds.Int64
	}
	return reminder, nil
}

// compile-time interface check
var _ ReminderRepository = (*PostgresReminderRepo)(nil)

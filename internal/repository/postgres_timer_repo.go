package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskdeck/internal/model"
)

// PostgresTimerRepo はPostgreSQLを使用したタイマーリポジトリ。
type PostgresTimerRepo struct {
	db *sql.DB
}

// NewPostgresTimerRepo はPostgresTimerRepoを生成する。
func NewPostgresTimerRepo(db *sql.DB) *PostgresTimerRepo {
	return &PostgresTimerRepo{db: db}
}

// ListByUserID はユーザーのタイマー一覧をcreated_at降順で返す。
func (r *PostgresTimerRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Timer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, task_id, name, description, duration_seconds,
		        remaining_seconds, is_running, is_completed, started_at, ended_at, created_at
		 FROM timers
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("タイマー一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var timers []*model.Timer
	for rows.Next() {
		timer, err := scanTimer(rows)
		if err != nil {
			return nil, err
		}
		timers = append(timers, timer)
	}

	return timers, rows.Err()
}

// Create はタイマーを作成し、採番されたIDをtimer.IDに書き戻す。
func (r *PostgresTimerRepo) Create(ctx context.Context, timer *model.Timer) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO timers (user_id, task_id, name, description, duration_seconds,
		                     remaining_seconds, is_running, is_completed, started_at, ended_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		timer.UserID, timer.TaskID, timer.Name, timer.Description, timer.DurationSeconds,
		timer.RemainingSeconds, timer.IsRunning, timer.IsCompleted, timer.StartedAt, timer.EndedAt, timer.CreatedAt,
	).Scan(&timer.ID)
	if err != nil {
		return fmt.Errorf("タイマーの作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateProgress は残り秒数・実行中フラグ・完了フラグを更新する。
// 他ユーザー所有または未存在の場合はnilを返す。
func (r *PostgresTimerRepo) UpdateProgress(ctx context.Context, userID, id int64, remainingSeconds int64, isRunning, isCompleted bool) (*model.Timer, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE timers
		 SET remaining_seconds = $1, is_running = $2, is_completed = $3,
		     ended_at = CASE WHEN $3 AND ended_at IS NULL THEN now() ELSE ended_at END
		 WHERE id = $4 AND user_id = $5
		 RETURNING id, user_id, task_id, name, description, duration_seconds,
		           remaining_seconds, is_running, is_completed, started_at, ended_at, created_at`,
		remainingSeconds, isRunning, isCompleted, id, userID,
	)

	timer, err := scanTimer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return timer, nil
}

// DeleteByID は指定IDのタイマーを削除する。削除できた場合はtrueを返す。
func (r *PostgresTimerRepo) DeleteByID(ctx context.Context, userID, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM timers WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("タイマーの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteByUserID はユーザーの全タイマーを削除する。
func (r *PostgresTimerRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM timers WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("タイマーの一括削除に失敗しました: %w", err)
	}
	return nil
}

// scanTimer は1行分のタイマーを読み取る。
func scanTimer(row rowScanner) (*model.Timer, error) {
	timer := &model.Timer{}
	var taskID sql.NullInt64
	var startedAt, endedAt sql.NullTime

	if err := row.Scan(
		&timer.ID, &timer.UserID, &taskID, &timer.Name, &timer.Description,
		&timer.DurationSeconds, &timer.RemainingSeconds, &timer.IsRunning,
		&timer.IsCompleted, &startedAt, &endedAt, &timer.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("タイマーの読み取りに失敗しました: %w", err)
	}

	if taskID.Valid {
		timer.TaskID = &taskID.Int64
	}
	if startedAt.Valid {
		timer.StartedAt = &startedAt.Time
	}
	if endedAt.Valid {
		timer.EndedAt = &endedAt.Time
	}
	return timer, nil
}

// compile-time interface check
var _ TimerRepository = (*PostgresTimerRepo)(nil)

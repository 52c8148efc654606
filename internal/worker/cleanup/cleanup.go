// Package cleanup は完了済みデータの自動削除ジョブを提供する。
// 保持期間（デフォルト90日）を超過した完了済みタイマーと、
// 発火済みの一回限りリマインダーを日次バッチで削除する。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CleanupJob は保持期間を超過した完了済みデータの自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	db            Executor
	logger        *slog.Logger
	RetentionDays int // 完了済みデータの保持日数（デフォルト: 90）
}

// NewCleanupJob は新しいCleanupJobを生成する。
// デフォルトの保持日数は90日。
func NewCleanupJob(db Executor, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		db:            db,
		logger:        logger,
		RetentionDays: 90,
	}
}

// Run は保持期間を超過した完了済みタイマーと発火済みの一回限り
// リマインダーを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	interval := fmt.Sprintf("%d days", j.RetentionDays)

	timerQuery := `DELETE FROM timers WHERE is_completed = true AND created_at < now() - $1::interval`
	timerResult, err := j.db.ExecContext(ctx, timerQuery, interval)
	if err != nil {
		j.logger.Error("タイマークリーンアップの実行に失敗しました",
			slog.String("error", err.Error()),
			slog.Int("retention_days", j.RetentionDays),
		)
		return fmt.Errorf("タイマークリーンアップの実行に失敗: %w", err)
	}

	deletedTimers, err := timerResult.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	reminderQuery := `DELETE FROM reminders WHERE kind = 'once' AND is_active = false AND next_trigger_at < now() - $1::interval`
	reminderResult, err := j.db.ExecContext(ctx, reminderQuery, interval)
	if err != nil {
		j.logger.Error("リマインダークリーンアップの実行に失敗しました",
			slog.String("error", err.Error()),
			slog.Int("retention_days", j.RetentionDays),
		)
		return fmt.Errorf("リマインダークリーンアップの実行に失敗: %w", err)
	}

	deletedReminders, err := reminderResult.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("クリーンアップジョブが完了しました",
		slog.Int64("deleted_timers", deletedTimers),
		slog.Int64("deleted_reminders", deletedReminders),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

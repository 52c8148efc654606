// Package remind はリマインダーのバックグラウンド発火処理を提供する。
// スケジューラとディスパッチャを含む。
package remind

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// MetricsRecorder はディスパッチャが記録するメトリクスのインターフェース。
type MetricsRecorder interface {
	RecordReminderDispatched()
	RecordReminderFailed()
}

// Dispatcher は期限を迎えたリマインダーを発火し、スケジュールを前進させる。
// 発火レートはトークンバケットで制御され、大量のリマインダーが同時に
// 期限を迎えてもDBへの書き込みが集中しないようにする。
type Dispatcher struct {
	reminderRepo repository.ReminderRepository
	limiter      *rate.Limiter
	metrics      MetricsRecorder
	logger       *slog.Logger
}

// NewDispatcher はDispatcherの新しいインスタンスを生成する。
// dispatchPerSecondが0以下の場合はデフォルト値10を使用する。
func NewDispatcher(
	reminderRepo repository.ReminderRepository,
	dispatchPerSecond float64,
	metrics MetricsRecorder,
	logger *slog.Logger,
) *Dispatcher {
	if dispatchPerSecond <= 0 {
		dispatchPerSecond = 10
	}
	return &Dispatcher{
		reminderRepo: reminderRepo,
		limiter:      rate.NewLimiter(rate.Limit(dispatchPerSecond), 1),
		metrics:      metrics,
		logger:       logger,
	}
}

// Dispatch は1件のリマインダーを発火する。
// recurringは次回発火時刻を周期分だけ前進させ（処理遅延があっても
// 元のスケジュール刻みを維持する）、onceは無効化する。
func (d *Dispatcher) Dispatch(ctx context.Context, reminder *model.Reminder) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("発火レート制御の待機に失敗しました: %w", err)
	}

	nextTriggerAt, isActive := d.advance(reminder, time.Now())

	if err := d.reminderRepo.MarkTriggered(ctx, reminder.ID, nextTriggerAt, isActive); err != nil {
		d.metrics.RecordReminderFailed()
		return fmt.Errorf("発火結果の記録に失敗しました: %w", err)
	}

	d.metrics.RecordReminderDispatched()
	d.logger.Info("リマインダーを発火しました",
		slog.Int64("reminder_id", reminder.ID),
		slog.Int64("user_id", reminder.UserID),
		slog.String("kind", string(reminder.Kind)),
		slog.Time("next_trigger_at", nextTriggerAt),
		slog.Bool("is_active", isActive),
	)

	return nil
}

// advance は発火後の次回発火時刻と有効フラグを計算する。
func (d *Dispatcher) advance(reminder *model.Reminder, now time.Time) (time.Time, bool) {
	if reminder.Kind != model.ReminderKindRecurring || reminder.IntervalSeconds == nil {
		return reminder.NextTriggerAt, false
	}

	interval := time.Duration(*reminder.IntervalSeconds) * time.Second
	next := reminder.NextTriggerAt
	for !next.After(now) {
		next = next.Add(interval)
	}
	return next, true
}

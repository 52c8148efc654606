package remind

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// ReminderDispatcher はリマインダー発火の実行インターフェース。
type ReminderDispatcher interface {
	// Dispatch は指定リマインダーを発火し、スケジュールを更新する。
	Dispatch(ctx context.Context, reminder *model.Reminder) error
}

// Scheduler はリマインダー発火のスケジューリングと並列制御を行う。
// ティッカーで期限を迎えたリマインダーを取得し、
// semaphoreパターンで最大並列数を制御しながら発火を実行する。
// 対象の取得はFOR UPDATE SKIP LOCKEDで行うため、複数プロセスで
// 動かしても同じリマインダーを二重に発火しない。
type Scheduler struct {
	reminderRepo   repository.ReminderRepository
	dispatcher     ReminderDispatcher
	logger         *slog.Logger
	maxConcurrency int
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
// maxConcurrencyが0以下の場合はデフォルト値10を使用する。
func NewScheduler(
	reminderRepo repository.ReminderRepository,
	dispatcher ReminderDispatcher,
	logger *slog.Logger,
	maxConcurrency int,
) *Scheduler {
	if maxConcurrency <= 0 {
		maxConcurrency = 10
	}
	return &Scheduler{
		reminderRepo:   reminderRepo,
		dispatcher:     dispatcher,
		logger:         logger,
		maxConcurrency: maxConcurrency,
	}
}

// Start は指定間隔のティッカーでスケジューラを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("リマインドスケジューラを開始しました",
		slog.Duration("interval", interval),
		slog.Int("max_concurrency", s.maxConcurrency),
	)

	// 起動直後に1回実行
	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("リマインドサイクルの実行に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("リマインドスケジューラを停止しました")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error("リマインドサイクルの実行に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce は期限を迎えたリマインダーを1回取得し、並列で発火する。
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()

	reminders, err := s.reminderRepo.ListDue(ctx)
	if err != nil {
		return err
	}

	if len(reminders) == 0 {
		return nil
	}

	s.logger.Info("リマインドサイクルを開始します",
		slog.Int("reminder_count", len(reminders)),
	)

	// semaphoreパターンで並列数を制御
	sem := make(chan struct{}, s.maxConcurrency)
	var wg sync.WaitGroup

	for _, reminder := range reminders {
		wg.Add(1)
		sem <- struct{}{}

		go func(rem *model.Reminder) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := s.dispatcher.Dispatch(ctx, rem); err != nil {
				s.logger.Error("リマインダーの発火に失敗しました",
					slog.Int64("reminder_id", rem.ID),
					slog.String("error", err.Error()),
				)
			}
		}(reminder)
	}

	wg.Wait()

	duration := time.Since(start)
	s.logger.Info("リマインドサイクルが完了しました",
		slog.Int("reminder_count", len(reminders)),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// Package timer はカウントダウンタイマーのドメインロジックを提供する。
package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// Service はタイマー管理のサービス層。
type Service struct {
	timerRepo repository.TimerRepository
	taskRepo  repository.TaskRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(timerRepo repository.TimerRepository, taskRepo repository.TaskRepository) *Service {
	return &Service{
		timerRepo: timerRepo,
		taskRepo:  taskRepo,
	}
}

// List はユーザーのタイマー一覧を返す。
func (s *Service) List(ctx context.Context, userID int64) ([]*model.Timer, error) {
	timers, err := s.timerRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("タイマー一覧の取得に失敗しました: %w", err)
	}
	return timers, nil
}

// Create は新しいタイマーを作成する。
// taskIDが指定されている場合は自分のタスクであることを検証する。
// 作成直後のタイマーは停止状態で、残り時間は総時間に等しい。
func (s *Service) Create(ctx context.Context, userID int64, name, description string, durationSeconds int64, taskID *int64) (*model.Timer, error) {
	if taskID != nil {
		task, err := s.taskRepo.FindByID(ctx, userID, *taskID)
		if err != nil {
			return nil, fmt.Errorf("タスクの確認に失敗しました: %w", err)
		}
		if task == nil {
			return nil, model.NewTaskNotFoundError(*taskID)
		}
	}

	timer := &model.Timer{
		UserID:           userID,
		TaskID:           taskID,
		Name:             name,
		Description:      description,
		DurationSeconds:  durationSeconds,
		RemainingSeconds: durationSeconds,
		IsRunning:        false,
		IsCompleted:      false,
		CreatedAt:        time.Now(),
	}

	if err := s.timerRepo.Create(ctx, timer); err != nil {
		return nil, fmt.Errorf("タイマーの作成に失敗しました: %w", err)
	}

	return timer, nil
}

// UpdateProgress はタイマーの進行状態を更新する。
// クライアント側で計測した残り秒数をそのまま永続化する方式で、
// 残り秒数が0以下の場合は完了扱いに正規化する。
func (s *Service) UpdateProgress(ctx context.Context, userID, timerID int64, remainingSeconds int64, isRunning, isCompleted bool) (*model.Timer, error) {
	if remainingSeconds <= 0 {
		remainingSeconds = 0
		isRunning = false
		isCompleted = true
	}

	timer, err := s.timerRepo.UpdateProgress(ctx, userID, timerID, remainingSeconds, isRunning, isCompleted)
	if err != nil {
		return nil, fmt.Errorf("タイマーの更新に失敗しました: %w", err)
	}
	if timer == nil {
		return nil, model.NewTimerNotFoundError(timerID)
	}

	return timer, nil
}

// Delete は指定IDのタイマーを削除する。
func (s *Service) Delete(ctx context.Context, userID, timerID int64) error {
	deleted, err := s.timerRepo.DeleteByID(ctx, userID, timerID)
	if err != nil {
		return fmt.Errorf("タイマーの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewTimerNotFoundError(timerID)
	}
	return nil
}

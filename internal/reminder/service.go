// Package reminder はリマインダーのドメインロジックを提供する。
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// Service はリマインダー管理のサービス層。
type Service struct {
	reminderRepo repository.ReminderRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(reminderRepo repository.ReminderRepository) *Service {
	return &Service{reminderRepo: reminderRepo}
}

// List はユーザーのリマインダー一覧を返す。
func (s *Service) List(ctx context.Context, userID int64) ([]*model.Reminder, error) {
	reminders, err := s.reminderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("リマインダー一覧の取得に失敗しました: %w", err)
	}
	return reminders, nil
}

// Create は新しいリマインダーを作成する。
// recurringの場合はintervalSecondsが正の値であることを要求する。
// onceの場合はintervalSecondsを無視して破棄する。
func (s *Service) Create(ctx context.Context, userID int64, name string, kind model.ReminderKind, intervalSeconds *int64, nextTriggerAt time.Time) (*model.Reminder, error) {
	if !kind.IsValid() {
		return nil, model.NewInvalidRequestError("kindはonceまたはrecurringを指定してください")
	}
	if kind == model.ReminderKindRecurring {
		if intervalSeconds == nil || *intervalSeconds <= 0 {
			return nil, model.NewInvalidRequestError("recurringには正のinterval_secondsが必要です")
		}
	} else {
		intervalSeconds = nil
	}

	reminder := &model.Reminder{
		UserID:          userID,
		Name:            name,
		Kind:            kind,
		IntervalSeconds: intervalSeconds,
		NextTriggerAt:   nextTriggerAt,
		IsActive:        true,
		CreatedAt:       time.Now(),
	}

	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("リマインダーの作成に失敗しました: %w", err)
	}

	return reminder, nil
}

// UpdateSchedule は次回発火時刻と有効フラグを更新する。
// 停止したリマインダーの再開や発火時刻の繰り下げに使う。
func (s *Service) UpdateSchedule(ctx context.Context, userID, reminderID int64, nextTriggerAt time.Time, isActive bool) (*model.Reminder, error) {
	reminder, err := s.reminderRepo.UpdateSchedule(ctx, userID, reminderID, nextTriggerAt, isActive)
	if err != nil {
		return nil, fmt.Errorf("リマインダーの更新に失敗しました: %w", err)
	}
	if reminder == nil {
		return nil, model.NewReminderNotFoundError(reminderID)
	}

	return reminder, nil
}

// Delete は指定IDのリマインダーを削除する。
func (s *Service) Delete(ctx context.Context, userID, reminderID int64) error {
	deleted, err := s.reminderRepo.DeleteByID(ctx, userID, reminderID)
	if err != nil {
		return fmt.Errorf("リマインダーの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewReminderNotFoundError(reminderID)
	}
	return nil
}

// DeleteAll はユーザーの全リマインダーを削除する。
func (s *Service) DeleteAll(ctx context.Context, userID int64) error {
	if err := s.reminderRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("リマインダーの一括削除に失敗しました: %w", err)
	}
	return nil
}

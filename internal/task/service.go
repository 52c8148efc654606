// Package task はタスク管理のドメインロジックを提供する。
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// Service はタスク管理のサービス層。
// すべての操作は認証済みプリンシパルのuser_idにスコープされる。
type Service struct {
	taskRepo repository.TaskRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(taskRepo repository.TaskRepository) *Service {
	return &Service{taskRepo: taskRepo}
}

// List はユーザーのタスク一覧を返す。
func (s *Service) List(ctx context.Context, userID int64) ([]*model.Task, error) {
	tasks, err := s.taskRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
	}
	return tasks, nil
}

// Create は新しいタスクを作成する。
// タイトルの必須検証はハンドラーで行われている前提。
func (s *Service) Create(ctx context.Context, userID int64, title, description string) (*model.Task, error) {
	task := &model.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      model.TaskStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("タスクの作成に失敗しました: %w", err)
	}

	return task, nil
}

// UpdateStatus はタスクの状態を更新する。
// completedへの遷移時はcompleted_atを現在時刻に設定し、
// pendingへの遷移時はクリアする。
func (s *Service) UpdateStatus(ctx context.Context, userID, taskID int64, status model.TaskStatus) (*model.Task, error) {
	var completedAt *time.Time
	if status == model.TaskStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	task, err := s.taskRepo.UpdateStatus(ctx, userID, taskID, status, completedAt)
	if err != nil {
		return nil, fmt.Errorf("タスクの更新に失敗しました: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(taskID)
	}

	return task, nil
}

// Delete は指定IDのタスクを削除する。
func (s *Service) Delete(ctx context.Context, userID, taskID int64) error {
	deleted, err := s.taskRepo.DeleteByID(ctx, userID, taskID)
	if err != nil {
		return fmt.Errorf("タスクの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewTaskNotFoundError(taskID)
	}
	return nil
}

// DeleteAll はユーザーの全タスクを削除する。
func (s *Service) DeleteAll(ctx context.Context, userID int64) error {
	if err := s.taskRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("タスクの一括削除に失敗しました: %w", err)
	}
	return nil
}

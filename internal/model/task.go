// Package model はドメインモデルを定義する。
package model

import "time"

// TaskStatus はタスクの進行状態を表す。
type TaskStatus string

const (
	// TaskStatusPending は未完了のタスクを示す。
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusCompleted は完了済みのタスクを示す。
	TaskStatusCompleted TaskStatus = "completed"
)

// IsValid はサポートされているタスク状態かどうかを返す。
func (s TaskStatus) IsValid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

// Task はユーザーのタスクを表す。
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Status      TaskStatus
	CompletedAt *time.Time
	CreatedAt   time.Time
}

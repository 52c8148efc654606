// Package model はドメインモデルを定義する。
package model

import "time"

// Timer はカウントダウンタイマーを表す。
// TaskIDが設定されている場合は特定タスクの作業時間計測に紐づく。
type Timer struct {
	ID               int64
	UserID           int64
	TaskID           *int64
	Name             string
	Description      string
	DurationSeconds  int64
	RemainingSeconds int64
	IsRunning        bool
	IsCompleted      bool
	StartedAt        *time.Time
	EndedAt          *time.Time
	CreatedAt        time.Time
}

// Package model はドメインモデルを定義する。
package model

import "time"

// ReminderKind はリマインダーの種別を表す。
type ReminderKind string

const (
	// ReminderKindOnce は一度だけ発火するリマインダーを示す。
	ReminderKindOnce ReminderKind = "once"
	// ReminderKindRecurring は一定間隔で繰り返し発火するリマインダーを示す。
	ReminderKindRecurring ReminderKind = "recurring"
)

// IsValid はサポートされているリマインダー種別かどうかを返す。
func (k ReminderKind) IsValid() bool {
	return k == ReminderKindOnce || k == ReminderKindRecurring
}

// Reminder はリマインダーを表す。
// recurringの場合はIntervalSecondsが必須で、発火後にNextTriggerAtが前進する。
// onceの場合は発火後にIsActiveがfalseになる。
type Reminder struct {
	ID              int64
	UserID          int64
	Name            string
	Kind            ReminderKind
	IntervalSeconds *int64
	NextTriggerAt   time.Time
	IsActive        bool
	CreatedAt       time.Time
}

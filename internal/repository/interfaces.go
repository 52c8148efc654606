// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByEmail は小文字正規化済みメールアドレスでユーザーを検索する。
	// 見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成し、採番されたIDをuser.IDに書き戻す。
	Create(ctx context.Context, user *model.User) error
}

// TaskRepository はタスクデータの永続化インターフェース。
// すべての操作は所有者のuser_idでフィルタされる。
type TaskRepository interface {
	// ListByUserID はユーザーのタスク一覧をcreated_at降順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]*model.Task, error)

	// FindByID は指定IDのタスクを取得する。他ユーザー所有または未存在の場合はnilを返す。
	FindByID(ctx context.Context, userID, id int64) (*model.Task, error)

	// Create はタスクを作成し、採番されたIDをtask.IDに書き戻す。
	Create(ctx context.Context, task *model.Task) error

	// UpdateStatus はタスクの状態とcompleted_atを更新する。
	// 他ユーザー所有または未存在の場合はnilを返す。
	UpdateStatus(ctx context.Context, userID, id int64, status model.TaskStatus, completedAt *time.Time) (*model.Task, error)

	// DeleteByID は指定IDのタスクを削除する。削除できた場合はtrueを返す。
	DeleteByID(ctx context.Context, userID, id int64) (bool, error)

	// DeleteByUserID はユーザーの全タスクを削除する。
	DeleteByUserID(ctx context.Context, userID int64) error
}

// TimerRepository はタイマーデータの永続化インターフェース。
type TimerRepository interface {
	// ListByUserID はユーザーのタイマー一覧をcreated_at降順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]*model.Timer, error)

	// Create はタイマーを作成し、採番されたIDをtimer.IDに書き戻す。
	Create(ctx context.Context, timer *model.Timer) error

	// UpdateProgress は残り秒数・実行中フラグ・完了フラグを更新する。
	// 他ユーザー所有または未存在の場合はnilを返す。
	UpdateProgress(ctx context.Context, userID, id int64, remainingSeconds int64, isRunning, isCompleted bool) (*model.Timer, error)

	// DeleteByID は指定IDのタイマーを削除する。削除できた場合はtrueを返す。
	DeleteByID(ctx context.Context, userID, id int64) (bool, error)

	// DeleteByUserID はユーザーの全タイマーを削除する。
	DeleteByUserID(ctx context.Context, userID int64) error
}

// ReminderRepository はリマインダーデータの永続化インターフェース。
type ReminderRepository interface {
	// ListByUserID はユーザーのリマインダー一覧をcreated_at降順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]*model.Reminder, error)

	// Create はリマインダーを作成し、採番されたIDをreminder.IDに書き戻す。
	Create(ctx context.Context, reminder *model.Reminder) error

	// UpdateSchedule は次回発火時刻と有効フラグを更新する。
	// 他ユーザー所有または未存在の場合はnilを返す。
	UpdateSchedule(ctx context.Context, userID, id int64, nextTriggerAt time.Time, isActive bool) (*model.Reminder, error)

	// DeleteByID は指定IDのリマインダーを削除する。削除できた場合はtrueを返す。
	DeleteByID(ctx context.Context, userID, id int64) (bool, error)

	// DeleteByUserID はユーザーの全リマインダーを削除する。
	DeleteByUserID(ctx context.Context, userID int64) error

	// ListDue は発火時刻を過ぎた有効なリマインダーを
	// FOR UPDATE SKIP LOCKEDで排他的に取得する。ワーカー専用。
	ListDue(ctx context.Context) ([]*model.Reminder, error)

	// MarkTriggered は発火処理の結果を記録する。
	// recurringは次回発火時刻を前進させ、onceは無効化する。
	MarkTriggered(ctx context.Context, id int64, nextTriggerAt time.Time, isActive bool) error
}

// FolderRepository はノートフォルダの永続化インターフェース。
type FolderRepository interface {
	// ListByUserID はユーザーのフォルダ一覧を名前昇順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]*model.Folder, error)

	// FindByID は指定IDのフォルダを取得する。他ユーザー所有または未存在の場合はnilを返す。
	FindByID(ctx context.Context, userID, id int64) (*model.Folder, error)

	// FindByName はフォルダ名で検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, userID int64, name string) (*model.Folder, error)

	// Create はフォルダを作成し、採番されたIDをfolder.IDに書き戻す。
	Create(ctx context.Context, folder *model.Folder) error

	// Rename はフォルダ名を変更する。他ユーザー所有または未存在の場合はnilを返す。
	Rename(ctx context.Context, userID, id int64, name string) (*model.Folder, error)

	// DeleteByID は指定IDのフォルダを削除する。削除できた場合はtrueを返す。
	DeleteByID(ctx context.Context, userID, id int64) (bool, error)
}

// NoteRepository はノートデータの永続化インターフェース。
type NoteRepository interface {
	// ListByUserID はユーザーのノート一覧をフォルダ名付きでupdated_at降順で返す。
	// folderIDが指定された場合はそのフォルダ内に絞り込む。
	ListByUserID(ctx context.Context, userID int64, folderID *int64) ([]*model.Note, error)

	// FindByID は指定IDのノートをフォルダ名付きで取得する。
	// 他ユーザー所有または未存在の場合はnilを返す。
	FindByID(ctx context.Context, userID, id int64) (*model.Note, error)

	// Create はノートを作成し、採番されたIDをnote.IDに書き戻す。
	Create(ctx context.Context, note *model.Note) error

	// Update はタイトル・本文・所属フォルダを更新しupdated_atを進める。
	// folderIDがnilの場合は所属フォルダを変更しない。
	// 他ユーザー所有または未存在の場合はnilを返す。
	Update(ctx context.Context, userID, id int64, title, content string, folderID *int64) (*model.Note, error)

	// Move はノートを指定フォルダへ移動する。
	// 他ユーザー所有または未存在の場合はnilを返す。
	Move(ctx context.Context, userID, id, folderID int64) (*model.Note, error)

	// DeleteByID は指定IDのノートを削除する。削除できた場合はtrueを返す。
	DeleteByID(ctx context.Context, userID, id int64) (bool, error)

	// CountByFolderID はフォルダ内のノート数を返す。
	CountByFolderID(ctx context.Context, userID, folderID int64) (int, error)
}

// MaintenanceRepository はユーザーデータの一括削除インターフェース。
type MaintenanceRepository interface {
	// ClearAllByUserID はユーザーのタスク・タイマー・リマインダーを
	// 同一トランザクションで全削除する。ノートとフォルダは残す。
	ClearAllByUserID(ctx context.Context, userID int64) error
}

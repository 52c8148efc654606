// Package model はドメインモデルを定義する。
package model

import "time"

// Folder はノートを整理するフォルダを表す。
type Folder struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Note はリッチテキストノートを表す。
// ContentはサニタイズされたHTML。必ずいずれかのフォルダに属する。
type Note struct {
	ID         int64
	UserID     int64
	FolderID   int64
	FolderName string
	Title      string
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

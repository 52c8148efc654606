// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// Emailは保存・検索の前に必ず小文字へ正規化される。
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Principal はトークン検証を通過したリクエストの認証済みアイデンティティを表す。
// 永続化されず、リクエストごとに有効なトークンから再構築される。
type Principal struct {
	UserID int64
	Email  string
}

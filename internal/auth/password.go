// Package auth はパスワード認証情報のハッシュ化とトークンの発行・検証を提供する。
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost はパスワードハッシュのコストパラメータ。
// オフライン総当たり攻撃への耐性のため、1回あたり数十ミリ秒かかる値に固定する。
const bcryptCost = 12

// HashPassword はパスワードをbcryptでハッシュ化したダイジェストを返す。
// ソルトは呼び出しごとにランダム生成されるため、同一パスワードでも
// 出力はほぼ必ず異なる。ソルトはダイジェスト文字列に埋め込まれる。
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword は候補パスワードを保存済みダイジェストと照合する。
// ダイジェストが不正な形式の場合もfalseを返す（フェイルクローズ）。
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

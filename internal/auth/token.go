package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/taskdeck/internal/model"
)

// TokenTTL は発行するトークンの有効期間。
const TokenTTL = 7 * 24 * time.Hour

// Claims はトークンに埋め込むクレームを表す。
// userId/emailに加え、登録クレームとしてiat/expを持つ。
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec はHMAC-SHA256署名付きJWTの発行と検証を行う。
// secretはプロセス起動時に1回読み込まれ、以降は読み取り専用のため
// 複数goroutineから安全に共有できる。
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec はTokenCodecを生成する。
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Issue はユーザーID・メールアドレスからトークンを発行する。
// iatは現在時刻、expは現在時刻+TokenTTLが設定される。
func (c *TokenCodec) Issue(userID int64, email string) (string, error) {
	return c.issueAt(userID, email, time.Now())
}

// issueAt は指定時刻を発行時刻としてトークンを生成する。
// 期限切れトークンの検証テストで使用するため分離している。
func (c *TokenCodec) issueAt(userID int64, email string, now time.Time) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークンを検証し、有効な場合のみPrincipalを返す。
// 署名検証はペイロードのいかなるフィールドを信頼するよりも先に行われる。
// セグメント数不正・署名不一致・JSON不正・期限切れはすべて同一の
// 失敗（nil）に収束させ、どの検査で失敗したかを呼び出し側に区別させない。
func (c *TokenCodec) Verify(tokenString string) *model.Principal {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		// alg混同攻撃の防止: HMAC系以外の署名方式は鍵を渡す前に拒否する
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil
	}

	return &model.Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
	}
}

// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hitoshi/taskdeck/internal/model"
)

// AuthCookieName は認証トークンを保持するCookieの正規名。
// ヘッダーとCookieの両方で同じトークン形式を受け付ける。
const AuthCookieName = "auth_token"

// bearerPrefix はAuthorizationヘッダーのスキーム接頭辞。
const bearerPrefix = "Bearer "

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// principalContextKey はリクエストコンテキストに認証済みプリンシパルを格納するためのキー。
var principalContextKey = contextKey("principal")

// TokenVerifier はトークン検証に必要なインターフェース。
// auth.TokenCodecの部分集合として定義する。
type TokenVerifier interface {
	// Verify はトークンを検証し、有効な場合のみPrincipalを返す。
	// あらゆる失敗（トークン不正・期限切れ等）はnilに収束する。
	Verify(token string) *model.Principal
}

// NewAuthMiddleware はベアラーヘッダーまたはCookieからトークンを取り出し、
// 検証するミドルウェアを返す。Authorizationヘッダーを優先し、なければ
// auth_token Cookieを参照する。
// 認証済みプリンシパルをリクエストコンテキストに注入する。
// トークン不在・検証失敗のいずれも401 Unauthorizedを返し、後続処理を行わない。
func NewAuthMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. ヘッダー優先でトークンを取得
			token := ExtractToken(r)
			if token == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 2. トークンを検証（署名→ペイロード→期限の順はcodecが保証する）
			principal := verifier.Verify(token)
			if principal == nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 3. 認証済みプリンシパルをコンテキストに注入
			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken はリクエストから認証トークンを取り出す。
// Authorization: Bearer ヘッダーを優先し、なければauth_token Cookieを参照する。
// どちらにも存在しない場合は空文字列を返す。
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimPrefix(authHeader, bearerPrefix)
	}

	cookie, err := r.Cookie(AuthCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// PrincipalFromContext はリクエストコンテキストから認証済みプリンシパルを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func PrincipalFromContext(ctx context.Context) (*model.Principal, error) {
	principal, ok := ctx.Value(principalContextKey).(*model.Principal)
	if !ok || principal == nil {
		return nil, fmt.Errorf("principal not found in context")
	}
	return principal, nil
}

// ContextWithPrincipal はコンテキストにプリンシパルを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithPrincipal(ctx context.Context, principal *model.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/taskdeck/internal/model"
)

// mockTokenVerifier はトークン検証のモック。
type mockTokenVerifier struct {
	verifyFn func(token string) *model.Principal
}

func (m *mockTokenVerifier) Verify(token string) *model.Principal {
	if m.verifyFn != nil {
		return m.verifyFn(token)
	}
	return nil
}

// compile-time interface check
var _ TokenVerifier = (*mockTokenVerifier)(nil)

func TestAuthMiddleware_NoToken_Returns401(t *testing.T) {
	verifier := &mockTokenVerifier{}
	handler := NewAuthMiddleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want %q", body.Code, "UNAUTHORIZED")
	}
}

func TestAuthMiddleware_InvalidToken_Returns401(t *testing.T) {
	verifier := &mockTokenVerifier{
		verifyFn: func(token string) *model.Principal {
			return nil
		},
	}
	handler := NewAuthMiddleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_BearerHeader_InjectsPrincipal(t *testing.T) {
	verifier := &mockTokenVerifier{
		verifyFn: func(token string) *model.Principal {
			if token != "valid-token" {
				return nil
			}
			return &model.Principal{UserID: 42, Email: "user@example.com"}
		},
	}

	var captured *model.Principal
	handler := NewAuthMiddleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if captured == nil {
		t.Fatal("principal should be injected into context")
	}
	if captured.UserID != 42 {
		t.Errorf("UserID = %d, want %d", captured.UserID, 42)
	}
	if captured.Email != "user@example.com" {
		t.Errorf("Email = %q, want %q", captured.Email, "user@example.com")
	}
}

func TestAuthMiddleware_Cookie_InjectsPrincipal(t *testing.T) {
	verifier := &mockTokenVerifier{
		verifyFn: func(token string) *model.Principal {
			if token != "cookie-token" {
				return nil
			}
			return &model.Principal{UserID: 7, Email: "cookie@example.com"}
		},
	}

	var captured *model.Principal
	handler := NewAuthMiddleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "cookie-token"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if captured == nil {
		t.Fatal("principal should be injected into context")
	}
	if captured.UserID != 7 {
		t.Errorf("UserID = %d, want %d", captured.UserID, 7)
	}
}

// TestAuthMiddleware_HeaderTakesPrecedenceOverCookie は両方存在する場合に
// Authorizationヘッダーが優先されることを検証する。
func TestAuthMiddleware_HeaderTakesPrecedenceOverCookie(t *testing.T) {
	var verifiedToken string
	verifier := &mockTokenVerifier{
		verifyFn: func(token string) *model.Principal {
			verifiedToken = token
			return &model.Principal{UserID: 1, Email: "a@example.com"}
		},
	}

	handler := NewAuthMiddleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "cookie-token"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if verifiedToken != "header-token" {
		t.Errorf("verified token = %q, want %q", verifiedToken, "header-token")
	}
}

func TestExtractToken_NoCredentials_ReturnsEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	if token := ExtractToken(req); token != "" {
		t.Errorf("token = %q, want empty", token)
	}
}

func TestExtractToken_NonBearerHeader_FallsBackToCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "cookie-token"})

	if token := ExtractToken(req); token != "cookie-token" {
		t.Errorf("token = %q, want %q", token, "cookie-token")
	}
}

func TestPrincipalFromContext_NotSet_ReturnsError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := PrincipalFromContext(req.Context())
	if err == nil {
		t.Fatal("expected error for missing principal")
	}
}

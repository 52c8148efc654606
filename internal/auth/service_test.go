package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// mockUserRepo はUserRepositoryのテスト用モック。
type mockUserRepo struct {
	findByIDFn    func(ctx context.Context, id int64) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	createFn      func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findByEmailFn(ctx, email)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.createFn(ctx, user)
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

// mockMetrics はMetricsRecorderのテスト用モック。呼び出し回数を数える。
type mockMetrics struct {
	loginSuccess  int
	loginFailure  int
	registrations int
}

func (m *mockMetrics) RecordLoginSuccess() { m.loginSuccess++ }
func (m *mockMetrics) RecordLoginFailure() { m.loginFailure++ }
func (m *mockMetrics) RecordRegistration() { m.registrations++ }

// apiErrorCode はerrからAPIErrorのコードを取り出すヘルパー。
func apiErrorCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T: %v", err, err)
	}
	return apiErr.Code
}

// TestService_Register_Success は新規登録でユーザーとトークンが返ることを検証する。
func TestService_Register_Success(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 10
			created = user
			return nil
		},
	}
	metrics := &mockMetrics{}
	codec := NewTokenCodec("test-secret")
	svc := NewService(repo, codec, metrics)

	user, token, err := svc.Register(context.Background(), "New@Example.COM", "新規ユーザー", "secret123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.ID != 10 {
		t.Errorf("user.ID = %d, want 10", user.ID)
	}
	// メールアドレスは小文字へ正規化されて保存される
	if created.Email != "new@example.com" {
		t.Errorf("created.Email = %q, want %q", created.Email, "new@example.com")
	}
	// パスワードは平文のままで保存されない
	if created.PasswordHash == "secret123" || created.PasswordHash == "" {
		t.Error("password should be stored as a bcrypt digest")
	}
	if !VerifyPassword("secret123", created.PasswordHash) {
		t.Error("stored digest should verify against the original password")
	}

	// 発行されたトークンで本人のPrincipalが復元できること
	principal := codec.Verify(token)
	if principal == nil || principal.UserID != 10 {
		t.Errorf("token should verify to user 10, got %+v", principal)
	}

	if metrics.registrations != 1 {
		t.Errorf("registrations = %d, want 1", metrics.registrations)
	}
}

// TestService_Register_EmailTaken は登録済みメールアドレスでEMAIL_TAKENが返ることを検証する。
func TestService_Register_EmailTaken(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 1, Email: email}, nil
		},
	}
	svc := NewService(repo, NewTokenCodec("test-secret"), nil)

	_, _, err := svc.Register(context.Background(), "taken@example.com", "ユーザー", "secret123")
	if err == nil {
		t.Fatal("expected error for duplicate email")
	}
	if code := apiErrorCode(t, err); code != model.ErrCodeEmailTaken {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeEmailTaken)
	}
}

// TestService_Register_CaseInsensitiveDuplicate は大文字小文字違いの
// メールアドレスも重複として扱われることを検証する。
func TestService_Register_CaseInsensitiveDuplicate(t *testing.T) {
	var searched string
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			searched = email
			return &model.User{ID: 1, Email: email}, nil
		},
	}
	svc := NewService(repo, NewTokenCodec("test-secret"), nil)

	_, _, err := svc.Register(context.Background(), "Taken@Example.com", "ユーザー", "secret123")
	if err == nil {
		t.Fatal("expected error for duplicate email")
	}
	if searched != "taken@example.com" {
		t.Errorf("repository searched with %q, want lowercased email", searched)
	}
}

// TestService_Login_Success は正しい認証情報でユーザーとトークンが返ることを検証する。
func TestService_Login_Success(t *testing.T) {
	digest, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:           5,
				Email:        email,
				Name:         "ログインユーザー",
				PasswordHash: digest,
				CreatedAt:    time.Now(),
			}, nil
		},
	}
	metrics := &mockMetrics{}
	codec := NewTokenCodec("test-secret")
	svc := NewService(repo, codec, metrics)

	user, token, err := svc.Login(context.Background(), "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != 5 {
		t.Errorf("user.ID = %d, want 5", user.ID)
	}
	if principal := codec.Verify(token); principal == nil || principal.UserID != 5 {
		t.Errorf("token should verify to user 5, got %+v", principal)
	}
	if metrics.loginSuccess != 1 {
		t.Errorf("loginSuccess = %d, want 1", metrics.loginSuccess)
	}
}

// TestService_Login_UnknownEmail は未登録メールアドレスで
// INVALID_CREDENTIALSが返ることを検証する。
func TestService_Login_UnknownEmail(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, nil
		},
	}
	metrics := &mockMetrics{}
	svc := NewService(repo, NewTokenCodec("test-secret"), metrics)

	_, _, err := svc.Login(context.Background(), "unknown@example.com", "secret123")
	if err == nil {
		t.Fatal("expected error for unknown email")
	}
	if code := apiErrorCode(t, err); code != model.ErrCodeInvalidCredentials {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeInvalidCredentials)
	}
	if metrics.loginFailure != 1 {
		t.Errorf("loginFailure = %d, want 1", metrics.loginFailure)
	}
}

// TestService_Login_WrongPassword はパスワード不一致でも未登録メールと
// 同一のINVALID_CREDENTIALSに収束することを検証する。
func TestService_Login_WrongPassword(t *testing.T) {
	digest, err := HashPassword("correct-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 5, Email: email, PasswordHash: digest}, nil
		},
	}
	metrics := &mockMetrics{}
	svc := NewService(repo, NewTokenCodec("test-secret"), metrics)

	_, _, err = svc.Login(context.Background(), "user@example.com", "wrong-password")
	if err == nil {
		t.Fatal("expected error for wrong password")
	}
	if code := apiErrorCode(t, err); code != model.ErrCodeInvalidCredentials {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeInvalidCredentials)
	}
	if metrics.loginFailure != 1 {
		t.Errorf("loginFailure = %d, want 1", metrics.loginFailure)
	}
}

// TestService_CurrentUser_Found はDB上の最新ユーザー情報が返ることを検証する。
func TestService_CurrentUser_Found(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Email: "user@example.com", Name: "現在のユーザー"}, nil
		},
	}
	svc := NewService(repo, NewTokenCodec("test-secret"), nil)

	user, err := svc.CurrentUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("user.ID = %d, want 7", user.ID)
	}
}

// TestService_CurrentUser_NotFound は削除済みユーザーでUSER_NOT_FOUNDが返ることを検証する。
func TestService_CurrentUser_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, NewTokenCodec("test-secret"), nil)

	_, err := svc.CurrentUser(context.Background(), 999)
	if err == nil {
		t.Fatal("expected error for missing user")
	}
	if code := apiErrorCode(t, err); code != model.ErrCodeUserNotFound {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeUserNotFound)
	}
}

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// MetricsRecorder は認証結果のメトリクス記録インターフェース。
// 未設定（nil）の場合は記録をスキップする。
type MetricsRecorder interface {
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordRegistration()
}

// Service はパスワード認証とトークン発行のビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	codec    *TokenCodec
	metrics  MetricsRecorder
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(userRepo repository.UserRepository, codec *TokenCodec, metrics MetricsRecorder) *Service {
	return &Service{
		userRepo: userRepo,
		codec:    codec,
		metrics:  metrics,
	}
}

// Register は新規ユーザーを登録し、トークンを発行する。
// メールアドレスは小文字へ正規化してから重複確認・保存する。
// パスワードの形式検証は呼び出し側（ハンドラー）で行われている前提。
func (s *Service) Register(ctx context.Context, email, name, password string) (*model.User, string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, "", fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, "", model.NewEmailTakenError()
	}

	digest, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	user := &model.User{
		Email:        normalized,
		Name:         name,
		PasswordHash: digest,
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	token, err := s.codec.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("トークンの発行に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}
	slog.Info("new user registered", slog.Int64("user_id", user.ID))

	return user, token, nil
}

// Login はメールアドレスとパスワードでユーザーを認証し、トークンを発行する。
// メールアドレス未登録とパスワード不一致は同一のエラーに収束させる。
// どちらで失敗したかはログにのみ記録する。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, "", fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if user == nil {
		slog.Warn("login failed: unknown email")
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return nil, "", model.NewInvalidCredentialsError()
	}

	if !VerifyPassword(password, user.PasswordHash) {
		slog.Warn("login failed: password mismatch", slog.Int64("user_id", user.ID))
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return nil, "", model.NewInvalidCredentialsError()
	}

	token, err := s.codec.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("トークンの発行に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}
	slog.Info("user logged in", slog.Int64("user_id", user.ID))

	return user, token, nil
}

// CurrentUser は認証済みユーザーの最新情報をDBから取得する。
// トークンのクレームではなくDBの値を返すことで、表示名等の更新を反映する。
func (s *Service) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

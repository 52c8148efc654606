// Package maintenance はユーザーデータの一括削除を提供する。
package maintenance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/taskdeck/internal/repository"
)

// Service はメンテナンス操作のサービス層。
type Service struct {
	maintenanceRepo repository.MaintenanceRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(maintenanceRepo repository.MaintenanceRepository) *Service {
	return &Service{maintenanceRepo: maintenanceRepo}
}

// ClearAll はユーザーのタスク・タイマー・リマインダーを全削除する。
// ノートとフォルダは対象外。削除は単一トランザクションで行われる。
func (s *Service) ClearAll(ctx context.Context, userID int64) error {
	if err := s.maintenanceRepo.ClearAllByUserID(ctx, userID); err != nil {
		return fmt.Errorf("データの一括削除に失敗しました: %w", err)
	}

	slog.Info("ユーザーデータを一括削除しました", "user_id", userID)
	return nil
}

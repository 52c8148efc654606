package handler

import (
	"context"
	"net/http"
)

// MaintenanceServiceInterface はメンテナンスハンドラーが必要とするサービスインターフェース。
type MaintenanceServiceInterface interface {
	ClearAll(ctx context.Context, userID int64) error
}

// MaintenanceHandler はデータ一括削除のHTTPハンドラー。
type MaintenanceHandler struct {
	service MaintenanceServiceInterface
}

// NewMaintenanceHandler はMaintenanceHandlerを生成する。
func NewMaintenanceHandler(service MaintenanceServiceInterface) *MaintenanceHandler {
	return &MaintenanceHandler{service: service}
}

// ClearAll はユーザーのタスク・タイマー・リマインダーを全削除する。
// ノートとフォルダは対象外。
// DELETE /api/clear-all
func (h *MaintenanceHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.service.ClearAll(r.Context(), principal.UserID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

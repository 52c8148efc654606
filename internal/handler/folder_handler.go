package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
)

// FolderServiceInterface はフォルダハンドラーが必要とするサービスインターフェース。
type FolderServiceInterface interface {
	ListFolders(ctx context.Context, userID int64) ([]*model.Folder, error)
	CreateFolder(ctx context.Context, userID int64, name string) (*model.Folder, error)
	RenameFolder(ctx context.Context, userID, folderID int64, name string) (*model.Folder, error)
	DeleteFolder(ctx context.Context, userID, folderID int64) error
}

// FolderHandler はノートフォルダ管理のHTTPハンドラー。
type FolderHandler struct {
	service FolderServiceInterface
}

// NewFolderHandler はFolderHandlerを生成する。
func NewFolderHandler(service FolderServiceInterface) *FolderHandler {
	return &FolderHandler{service: service}
}

// folderRequest はフォルダ作成・更新リクエストのボディ。
type folderRequest struct {
	Name string `json:"name"`
}

// folderResponse はフォルダ情報のAPIレスポンス。
type folderResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListFolders はフォルダ一覧を名前昇順で返す。
// GET /api/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	folders, err := h.service.ListFolders(r.Context(), principal.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]folderResponse, 0, len(folders))
	for _, folder := range folders {
		responses = append(responses, toFolderResponse(folder))
	}
	writeJSON(w, http.StatusOK, responses)
}

// CreateFolder は新しいフォルダを作成する。
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req folderRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("nameは必須です"))
		return
	}

	folder, err := h.service.CreateFolder(r.Context(), principal.UserID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFolderResponse(folder))
}

// RenameFolder はフォルダ名を変更する。
// PUT /api/folders/{id}
func (h *FolderHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	folderID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req folderRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("nameは必須です"))
		return
	}

	folder, err := h.service.RenameFolder(r.Context(), principal.UserID, folderID, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFolderResponse(folder))
}

// DeleteFolder は空のフォルダを削除する。
// ノートが残っている場合はFOLDER_NOT_EMPTYで拒否される。
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	folderID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteFolder(r.Context(), principal.UserID, folderID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toFolderResponse はmodel.FolderからAPIレスポンスに変換する。
func toFolderResponse(folder *model.Folder) folderResponse {
	return folderResponse{
		ID:        folder.ID,
		Name:      folder.Name,
		CreatedAt: folder.CreatedAt.Format(time.RFC3339),
		UpdatedAt: folder.UpdatedAt.Format(time.RFC3339),
	}
}

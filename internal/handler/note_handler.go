package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
)

// NoteServiceInterface はノートハンドラーが必要とするサービスインターフェース。
type NoteServiceInterface interface {
	ListNotes(ctx context.Context, userID int64, folderID *int64) ([]*model.Note, error)
	GetNote(ctx context.Context, userID, noteID int64) (*model.Note, error)
	CreateNote(ctx context.Context, userID int64, title, content string, folderID *int64) (*model.Note, error)
	UpdateNote(ctx context.Context, userID, noteID int64, title, content string, folderID *int64) (*model.Note, error)
	MoveNote(ctx context.Context, userID, noteID, folderID int64) (*model.Note, error)
	DeleteNote(ctx context.Context, userID, noteID int64) error
}

// NoteHandler はノート管理のHTTPハンドラー。
type NoteHandler struct {
	service NoteServiceInterface
}

// NewNoteHandler はNoteHandlerを生成する。
func NewNoteHandler(service NoteServiceInterface) *NoteHandler {
	return &NoteHandler{service: service}
}

// noteRequest はノート作成・更新リクエストのボディ。
type noteRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	FolderID *int64 `json:"folder_id"`
}

// moveNoteRequest はノート移動リクエストのボディ。
type moveNoteRequest struct {
	FolderID int64 `json:"folder_id"`
}

// noteResponse はノート情報のAPIレスポンス。フォルダ名を含む。
type noteResponse struct {
	ID         int64  `json:"id"`
	FolderID   int64  `json:"folder_id"`
	FolderName string `json:"folder_name"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// ListNotes はノート一覧を返す。folder_idクエリで絞り込み可能。
// GET /api/notes?folder_id=N
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	var folderID *int64
	if raw := r.URL.Query().Get("folder_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("folder_idは整数で指定してください"))
			return
		}
		folderID = &id
	}

	notes, err := h.service.ListNotes(r.Context(), principal.UserID, folderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, toNoteResponse(note))
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetNote は指定IDのノートを返す。
// GET /api/notes/{id}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	noteID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	note, err := h.service.GetNote(r.Context(), principal.UserID, noteID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// CreateNote は新しいノートを作成する。
// POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("titleは必須です"))
		return
	}

	note, err := h.service.CreateNote(r.Context(), principal.UserID, req.Title, req.Content, req.FolderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

// UpdateNote はノートを更新する。
// PUT /api/notes/{id}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	noteID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("titleは必須です"))
		return
	}

	note, err := h.service.UpdateNote(r.Context(), principal.UserID, noteID, req.Title, req.Content, req.FolderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// MoveNote はノートを別フォルダへ移動する。
// PUT /api/notes/{id}/move
func (h *NoteHandler) MoveNote(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	noteID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req moveNoteRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	note, err := h.service.MoveNote(r.Context(), principal.UserID, noteID, req.FolderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// DeleteNote は指定IDのノートを削除する。
// DELETE /api/notes/{id}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	noteID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteNote(r.Context(), principal.UserID, noteID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toNoteResponse はmodel.NoteからAPIレスポンスに変換する。
func toNoteResponse(note *model.Note) noteResponse {
	return noteResponse{
		ID:         note.ID,
		FolderID:   note.FolderID,
		FolderName: note.FolderName,
		Title:      note.Title,
		Content:    note.Content,
		CreatedAt:  note.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  note.UpdatedAt.Format(time.RFC3339),
	}
}

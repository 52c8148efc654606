package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
)

// TimerServiceInterface はタイマーハンドラーが必要とするサービスインターフェース。
type TimerServiceInterface interface {
	List(ctx context.Context, userID int64) ([]*model.Timer, error)
	Create(ctx context.Context, userID int64, name, description string, durationSeconds int64, taskID *int64) (*model.Timer, error)
	UpdateProgress(ctx context.Context, userID, timerID int64, remainingSeconds int64, isRunning, isCompleted bool) (*model.Timer, error)
	Delete(ctx context.Context, userID, timerID int64) error
}

// TimerDeleter はタイマーの一括削除インターフェース。
type TimerDeleter interface {
	DeleteByUserID(ctx context.Context, userID int64) error
}

// TimerHandler はタイマー管理のHTTPハンドラー。
type TimerHandler struct {
	service TimerServiceInterface
	deleter TimerDeleter
}

// NewTimerHandler はTimerHandlerを生成する。
func NewTimerHandler(service TimerServiceInterface, deleter TimerDeleter) *TimerHandler {
	return &TimerHandler{
		service: service,
		deleter: deleter,
	}
}

// createTimerRequest はタイマー作成リクエストのボディ。
type createTimerRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationSeconds int64  `json:"duration_seconds"`
	TaskID          *int64 `json:"task_id"`
}

// updateTimerRequest はタイマー更新リクエストのボディ。
type updateTimerRequest struct {
	RemainingSeconds int64 `json:"remaining_seconds"`
	IsRunning        bool  `json:"is_running"`
	IsCompleted      bool  `json:"is_completed"`
}

// timerResponse はタイマー情報のAPIレスポンス。
type timerResponse struct {
	ID               int64   `json:"id"`
	TaskID           *int64  `json:"task_id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	DurationSeconds  int64   `json:"duration_seconds"`
	RemainingSeconds int64   `json:"remaining_seconds"`
	IsRunning        bool    `json:"is_running"`
	IsCompleted      bool    `json:"is_completed"`
	StartedAt        *string `json:"started_at"`
	EndedAt          *string `json:"ended_at"`
	CreatedAt        string  `json:"created_at"`
}

// ListTimers はタイマー一覧を返す。
// GET /api/timers
func (h *TimerHandler) ListTimers(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	timers, err := h.service.List(r.Context(), principal.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]timerResponse, 0, len(timers))
	for _, timer := range timers {
		responses = append(responses, toTimerResponse(timer))
	}
	writeJSON(w, http.StatusOK, responses)
}

// CreateTimer は新しいタイマーを作成する。
// POST /api/timers
func (h *TimerHandler) CreateTimer(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req createTimerRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("nameは必須です"))
		return
	}
	if req.DurationSeconds <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("duration_secondsは正の値で指定してください"))
		return
	}

	timer, err := h.service.Create(r.Context(), principal.UserID, req.Name, req.Description, req.DurationSeconds, req.TaskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTimerResponse(timer))
}

// UpdateTimer はタイマーの進行状態を更新する。
// PUT /api/timers/{id}
func (h *TimerHandler) UpdateTimer(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	timerID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req updateTimerRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	timer, err := h.service.UpdateProgress(r.Context(), principal.UserID, timerID, req.RemainingSeconds, req.IsRunning, req.IsCompleted)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTimerResponse(timer))
}

// DeleteTimer は指定IDのタイマーを削除する。
// DELETE /api/timers/{id}
func (h *TimerHandler) DeleteTimer(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	timerID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal.UserID, timerID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllTimers はユーザーの全タイマーを削除する。
// DELETE /api/timers
func (h *TimerHandler) DeleteAllTimers(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.deleter.DeleteByUserID(r.Context(), principal.UserID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toTimerResponse はmodel.TimerからAPIレスポンスに変換する。
func toTimerResponse(timer *model.Timer) timerResponse {
	resp := timerResponse{
		ID:               timer.ID,
		TaskID:           timer.TaskID,
		Name:             timer.Name,
		Description:      timer.Description,
		DurationSeconds:  timer.DurationSeconds,
		RemainingSeconds: timer.RemainingSeconds,
		IsRunning:        timer.IsRunning,
		IsCompleted:      timer.IsCompleted,
		CreatedAt:        timer.CreatedAt.Format(time.RFC3339),
	}
	if timer.StartedAt != nil {
		startedAt := timer.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &startedAt
	}
	if timer.EndedAt != nil {
		endedAt := timer.EndedAt.Format(time.RFC3339)
		resp.EndedAt = &endedAt
	}
	return resp
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
)

// ReminderServiceInterface はリマインダーハンドラーが必要とするサービスインターフェース。
type ReminderServiceInterface interface {
	List(ctx context.Context, userID int64) ([]*model.Reminder, error)
	Create(ctx context.Context, userID int64, name string, kind model.ReminderKind, intervalSeconds *int64, nextTriggerAt time.Time) (*model.Reminder, error)
	UpdateSchedule(ctx context.Context, userID, reminderID int64, nextTriggerAt time.Time, isActive bool) (*model.Reminder, error)
	Delete(ctx context.Context, userID, reminderID int64) error
	DeleteAll(ctx context.Context, userID int64) error
}

// ReminderHandler はリマインダー管理のHTTPハンドラー。
type ReminderHandler struct {
	service ReminderServiceInterface
}

// NewReminderHandler はReminderHandlerを生成する。
func NewReminderHandler(service ReminderServiceInterface) *ReminderHandler {
	return &ReminderHandler{service: service}
}

// createReminderRequest はリマインダー作成リクエストのボディ。
type createReminderRequest struct {
	Name            string `json:"name"`
	Kind            string `json:"kind"`
	IntervalSeconds *int64 `json:"interval_seconds"`
	NextTriggerAt   string `json:"next_trigger_at"`
}

// updateReminderRequest はリマインダー更新リクエストのボディ。
type updateReminderRequest struct {
	NextTriggerAt string `json:"next_trigger_at"`
	IsActive      bool   `json:"is_active"`
}

// reminderResponse はリマインダー情報のAPIレスポンス。
type reminderResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Kind            string `json:"kind"`
	IntervalSeconds *int64 `json:"interval_seconds"`
	NextTriggerAt   string `json:"next_trigger_at"`
	IsActive        bool   `json:"is_active"`
	CreatedAt       string `json:"created_at"`
}

// ListReminders はリマインダー一覧を返す。
// GET /api/reminders
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	reminders, err := h.service.List(r.Context(), principal.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]reminderResponse, 0, len(reminders))
	for _, reminder := range reminders {
		responses = append(responses, toReminderResponse(reminder))
	}
	writeJSON(w, http.StatusOK, responses)
}

// CreateReminder は新しいリマインダーを作成する。
// POST /api/reminders
func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req createReminderRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("nameは必須です"))
		return
	}

	nextTriggerAt, err := time.Parse(time.RFC3339, req.NextTriggerAt)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("next_trigger_atはRFC3339形式で指定してください"))
		return
	}

	reminder, err := h.service.Create(r.Context(), principal.UserID, req.Name, model.ReminderKind(req.Kind), req.IntervalSeconds, nextTriggerAt)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toReminderResponse(reminder))
}

// UpdateReminder はリマインダーのスケジュールを更新する。
// PUT /api/reminders/{id}
func (h *ReminderHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	reminderID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req updateReminderRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	nextTriggerAt, err := time.Parse(time.RFC3339, req.NextTriggerAt)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("next_trigger_atはRFC3339形式で指定してください"))
		return
	}

	reminder, err := h.service.UpdateSchedule(r.Context(), principal.UserID, reminderID, nextTriggerAt, req.IsActive)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toReminderResponse(reminder))
}

// DeleteReminder は指定IDのリマインダーを削除する。
// DELETE /api/reminders/{id}
func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	reminderID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal.UserID, reminderID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllReminders はユーザーの全リマインダーを削除する。
// DELETE /api/reminders
func (h *ReminderHandler) DeleteAllReminders(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteAll(r.Context(), principal.UserID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toReminderResponse はmodel.ReminderからAPIレスポンスに変換する。
func toReminderResponse(reminder *model.Reminder) reminderResponse {
	return reminderResponse{
		ID:              reminder.ID,
		Name:            reminder.Name,
		Kind:            string(reminder.Kind),
		IntervalSeconds: reminder.IntervalSeconds,
		NextTriggerAt:   reminder.NextTriggerAt.Format(time.RFC3339),
		IsActive:        reminder.IsActive,
		CreatedAt:       reminder.CreatedAt.Format(time.RFC3339),
	}
}

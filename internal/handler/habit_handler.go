package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/habitflow/internal/middleware"
	"github.com/hitoshi/habitflow/internal/model"
)

// HabitServiceInterface は習慣ハンドラーが必要とするサービスインターフェース。
type HabitServiceInterface interface {
	// ListHabits はユーザーの習慣一覧を今日の完了フラグ付きで返す。
	ListHabits(ctx context.Context, userID string) ([]habitResponse, error)
	// GetHabit は習慣を今日の完了フラグ付きで取得する。
	GetHabit(ctx context.Context, userID, habitID string) (*habitResponse, error)
	// CreateHabit は習慣を作成する。
	CreateHabit(ctx context.Context, userID string, in habitInput) (*habitResponse, error)
	// UpdateHabit は習慣の名前・説明・頻度を更新する。
	UpdateHabit(ctx context.Context, userID, habitID string, in habitInput) (*habitResponse, error)
	// DeleteHabit は習慣と関連する完了記録を削除する。
	DeleteHabit(ctx context.Context, userID, habitID string) error
	// ToggleToday は今日の完了状態を反転し、再計算済みストリークを返す。
	ToggleToday(ctx context.Context, userID, habitID string) (*habitResponse, error)
	// Summary は直近7日間のサマリーを古い順で返す。
	Summary(ctx context.Context, userID string) ([]summaryDayResponse, error)
}

// HabitHandler は習慣管理のHTTPハンドラー。
type HabitHandler struct {
	service HabitServiceInterface
}

// NewHabitHandler はHabitHandlerを生成する。
func NewHabitHandler(service HabitServiceInterface) *HabitHandler {
	return &HabitHandler{
		service: service,
	}
}

// habitResponse は習慣のAPIレスポンス。
type habitResponse struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Frequency      string    `json:"frequency"`
	FrequencyLabel string    `json:"frequency_label"`
	CurrentStreak  int       `json:"current_streak"`
	BestStreak     int       `json:"best_streak"`
	DoneToday      bool      `json:"done_today"`
	CreatedAt      time.Time `json:"created_at"`
}

// summaryDayResponse はサマリー1日分のAPIレスポンス。
type summaryDayResponse struct {
	Date           string `json:"date"`
	Weekday        string `json:"weekday"`
	Completed      int    `json:"completed"`
	TotalHabits    int    `json:"total_habits"`
	CompletionRate int    `json:"completion_rate"`
}

// habitInput は習慣の作成・更新リクエストのボディ。
type habitInput struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Frequency      string `json:"frequency"`
	FrequencyLabel string `json:"frequency_label"`
}

// ListHabits はユーザーの習慣一覧を取得する。
// GET /api/habits
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	habits, err := h.service.ListHabits(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(habits)
}

// CreateHabit は習慣を作成する。
// POST /api/habits
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req habitInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	habit, err := h.service.CreateHabit(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(habit)
}

// GetHabit は習慣を取得する。
// GET /api/habits/:id
func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	habitID := chi.URLParam(r, "id")

	habit, err := h.service.GetHabit(r.Context(), userID, habitID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(habit)
}

// UpdateHabit は習慣の名前・説明・頻度を更新する。
// PATCH /api/habits/:id
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	habitID := chi.URLParam(r, "id")

	var req habitInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	habit, err := h.service.UpdateHabit(r.Context(), userID, habitID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(habit)
}

// DeleteHabit は習慣を削除する。
// DELETE /api/habits/:id
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	habitID := chi.URLParam(r, "id")

	if err := h.service.DeleteHabit(r.Context(), userID, habitID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleToday は今日の完了状態を反転する。
// POST /api/habits/:id/toggle-today
func (h *HabitHandler) ToggleToday(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	habitID := chi.URLParam(r, "id")

	habit, err := h.service.ToggleToday(r.Context(), userID, habitID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(habit)
}

// Summary はユーザーの全習慣に対する直近7日間のサマリーを取得する。
// GET /api/habits/summary
func (h *HabitHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	days, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(days)
}

// --- ヘルパー関数 ---

// apiErrorResponse はAPIエラーレスポンスのボディ。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeHabitNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidHabitInput, "INVALID_REQUEST":
		return http.StatusBadRequest
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

package handler

import (
	"context"

	"github.com/hitoshi/habitflow/internal/habit"
	"github.com/hitoshi/habitflow/internal/model"
	"github.com/hitoshi/habitflow/internal/repository"
	"github.com/hitoshi/habitflow/internal/summary"
)

// HabitServiceAdapter は habit.Service を HabitServiceInterface に適合させるアダプタ。
type HabitServiceAdapter struct {
	svc *habit.Service
}

// NewHabitServiceAdapter はHabitServiceAdapterを生成する。
func NewHabitServiceAdapter(svc *habit.Service) *HabitServiceAdapter {
	return &HabitServiceAdapter{svc: svc}
}

// ListHabits はユーザーの習慣一覧をhandlerレスポンス型で返す。
func (a *HabitServiceAdapter) ListHabits(ctx context.Context, userID string) ([]habitResponse, error) {
	infos, err := a.svc.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make([]habitResponse, len(infos))
	for i, info := range infos {
		results[i] = toHabitResponse(info.Habit, info.DoneToday)
	}
	return results, nil
}

// GetHabit は習慣をhandlerレスポンス型で返す。
func (a *HabitServiceAdapter) GetHabit(ctx context.Context, userID, habitID string) (*habitResponse, error) {
	info, err := a.svc.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	resp := toHabitResponse(info.Habit, info.DoneToday)
	return &resp, nil
}

// CreateHabit は習慣を作成しhandlerレスポンス型で返す。
func (a *HabitServiceAdapter) CreateHabit(ctx context.Context, userID string, in habitInput) (*habitResponse, error) {
	created, err := a.svc.CreateHabit(ctx, userID, habit.CreateInput{
		Name:           in.Name,
		Description:    in.Description,
		Frequency:      in.Frequency,
		FrequencyLabel: in.FrequencyLabel,
	})
	if err != nil {
		return nil, err
	}
	resp := toHabitResponse(*created, false)
	return &resp, nil
}

// UpdateHabit は習慣を更新しhandlerレスポンス型で返す。
func (a *HabitServiceAdapter) UpdateHabit(ctx context.Context, userID, habitID string, in habitInput) (*habitResponse, error) {
	updated, err := a.svc.UpdateHabit(ctx, userID, habitID, habit.UpdateInput{
		Name:           in.Name,
		Description:    in.Description,
		Frequency:      in.Frequency,
		FrequencyLabel: in.FrequencyLabel,
	})
	if err != nil {
		return nil, err
	}
	resp := toHabitResponse(*updated, false)
	return &resp, nil
}

// DeleteHabit は習慣と関連する完了記録を削除する。
func (a *HabitServiceAdapter) DeleteHabit(ctx context.Context, userID, habitID string) error {
	return a.svc.DeleteHabit(ctx, userID, habitID)
}

// ToggleToday は今日の完了状態を反転しhandlerレスポンス型で返す。
func (a *HabitServiceAdapter) ToggleToday(ctx context.Context, userID, habitID string) (*habitResponse, error) {
	result, err := a.svc.ToggleToday(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	resp := toHabitResponse(result.Habit, result.DoneToday)
	return &resp, nil
}

// Summary は直近7日間のサマリーをhandlerレスポンス型で返す。
func (a *HabitServiceAdapter) Summary(ctx context.Context, userID string) ([]summaryDayResponse, error) {
	entries, err := a.svc.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make([]summaryDayResponse, len(entries))
	for i, e := range entries {
		results[i] = toSummaryDayResponse(e)
	}
	return results, nil
}

// toHabitResponse はドメインのHabitをhandlerのレスポンス型に変換する。
func toHabitResponse(h model.Habit, doneToday bool) habitResponse {
	return habitResponse{
		ID:             h.ID,
		OwnerID:        h.OwnerID,
		Name:           h.Name,
		Description:    h.Description,
		Frequency:      h.Frequency,
		FrequencyLabel: h.FrequencyLabel,
		CurrentStreak:  h.CurrentStreak,
		BestStreak:     h.BestStreak,
		DoneToday:      doneToday,
		CreatedAt:      h.CreatedAt,
	}
}

// toSummaryDayResponse はドメインのDayEntryをhandlerのレスポンス型に変換する。
func toSummaryDayResponse(e summary.DayEntry) summaryDayResponse {
	return summaryDayResponse{
		Date:           e.Date.String(),
		Weekday:        e.Weekday,
		Completed:      e.Completed,
		TotalHabits:    e.TotalHabits,
		CompletionRate: e.CompletionRate,
	}
}

// UserServiceAdapter は repository.UserRepository を UserServiceInterface に適合させるアダプタ。
type UserServiceAdapter struct {
	userRepo repository.UserRepository
}

// NewUserServiceAdapter はUserServiceAdapterを生成する。
func NewUserServiceAdapter(userRepo repository.UserRepository) *UserServiceAdapter {
	return &UserServiceAdapter{userRepo: userRepo}
}

// GetUser は指定IDのユーザーをhandlerレスポンス型で返す。
func (a *UserServiceAdapter) GetUser(ctx context.Context, userID string) (*userResponse, error) {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return &userResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}, nil
}

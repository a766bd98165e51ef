package habit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hitoshi/habitflow/internal/model"
)

// --- テスト用モック ---

// mockHabitRepo はサービステスト用のHabitRepositoryモック。
type mockHabitRepo struct {
	findByIDFn      func(ctx context.Context, id string) (*model.Habit, error)
	listByOwnerIDFn func(ctx context.Context, ownerID string) ([]*model.Habit, error)
	createFn        func(ctx context.Context, habit *model.Habit) error
	updateFn        func(ctx context.Context, habit *model.Habit) error
	updateStreaksFn func(ctx context.Context, habitID string, currentStreak, bestStreak int) error
	deleteFn        func(ctx context.Context, habitID string) error
}

func (m *mockHabitRepo) FindByID(ctx context.Context, id string) (*model.Habit, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockHabitRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Habit, error) {
	if m.listByOwnerIDFn != nil {
		return m.listByOwnerIDFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockHabitRepo) Create(ctx context.Context, habit *model.Habit) error {
	if m.createFn != nil {
		return m.createFn(ctx, habit)
	}
	return nil
}

func (m *mockHabitRepo) Update(ctx context.Context, habit *model.Habit) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, habit)
	}
	return nil
}

func (m *mockHabitRepo) UpdateStreaks(ctx context.Context, habitID string, currentStreak, bestStreak int) error {
	if m.updateStreaksFn != nil {
		return m.updateStreaksFn(ctx, habitID, currentStreak, bestStreak)
	}
	return nil
}

func (m *mockHabitRepo) Delete(ctx context.Context, habitID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, habitID)
	}
	return nil
}

// mockCompletionRepo はサービステスト用のCompletionRepositoryモック。
// デフォルトではインメモリの完了記録集合として振る舞う。
type mockCompletionRepo struct {
	mu   sync.Mutex
	days map[string]map[model.DayKey]struct{} // habitID -> 完了日集合

	listDaysFn func(ctx context.Context, habitID string) ([]model.DayKey, error)
	createFn   func(ctx context.Context, completion *model.Completion) error
}

func newMockCompletionRepo() *mockCompletionRepo {
	return &mockCompletionRepo{
		days: make(map[string]map[model.DayKey]struct{}),
	}
}

func (m *mockCompletionRepo) ListDaysByHabitID(ctx context.Context, habitID string) ([]model.DayKey, error) {
	if m.listDaysFn != nil {
		return m.listDaysFn(ctx, habitID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.DayKey
	for day := range m.days[habitID] {
		result = append(result, day)
	}
	return result, nil
}

func (m *mockCompletionRepo) HasCompletionOn(_ context.Context, habitID string, day model.DayKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.days[habitID][day]
	return ok, nil
}

func (m *mockCompletionRepo) Create(ctx context.Context, completion *model.Completion) error {
	if m.createFn != nil {
		return m.createFn(ctx, completion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.days[completion.HabitID]
	if !ok {
		set = make(map[model.DayKey]struct{})
		m.days[completion.HabitID] = set
	}
	if _, exists := set[completion.Day]; exists {
		return errors.New("duplicate completion")
	}
	set[completion.Day] = struct{}{}
	return nil
}

func (m *mockCompletionRepo) DeleteByHabitAndDay(_ context.Context, habitID string, day model.DayKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.days[habitID], day)
	return nil
}

func (m *mockCompletionRepo) DeleteByHabitID(_ context.Context, habitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.days, habitID)
	return nil
}

func (m *mockCompletionRepo) ListHabitIDsCompletedOn(_ context.Context, habitIDs []string, day model.DayKey) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []string
	for _, id := range habitIDs {
		if _, ok := m.days[id][day]; ok {
			result = append(result, id)
		}
	}
	return result, nil
}

func (m *mockCompletionRepo) ListByHabitIDsInWindow(_ context.Context, habitIDs []string, startDay, endDay model.DayKey) ([]model.CompletionDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.CompletionDay
	for _, id := range habitIDs {
		for day := range m.days[id] {
			if day >= startDay && day <= endDay {
				result = append(result, model.CompletionDay{HabitID: id, Day: day})
			}
		}
	}
	return result, nil
}

// fixedTime はテスト用の固定基準時刻（2026-08-30 12:00 UTC）。
var fixedTime = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func newTestService(habitRepo *mockHabitRepo, completionRepo *mockCompletionRepo) *Service {
	svc := NewService(habitRepo, completionRepo, nil, nil, time.UTC)
	svc.now = func() time.Time { return fixedTime }
	return svc
}

func testHabit(id, ownerID string) *model.Habit {
	return &model.Habit{
		ID:             id,
		OwnerID:        ownerID,
		Name:           "朝のランニング",
		Frequency:      "daily",
		FrequencyLabel: "毎日",
		CreatedAt:      fixedTime,
		UpdatedAt:      fixedTime,
	}
}

// --- CreateHabit テスト ---

// TestCreateHabit_Success は必須項目が揃っていれば習慣が作成されることをテストする。
func TestCreateHabit_Success(t *testing.T) {
	var created *model.Habit
	habitRepo := &mockHabitRepo{
		createFn: func(_ context.Context, h *model.Habit) error {
			created = h
			return nil
		},
	}
	svc := newTestService(habitRepo, newMockCompletionRepo())

	habit, err := svc.CreateHabit(context.Background(), "user-1", CreateInput{
		Name:      "読書",
		Frequency: "daily",
	})
	if err != nil {
		t.Fatalf("CreateHabit returned error: %v", err)
	}

	if habit.ID == "" {
		t.Error("habit ID should be generated")
	}
	if habit.OwnerID != "user-1" {
		t.Errorf("ownerID = %q, want %q", habit.OwnerID, "user-1")
	}
	if habit.FrequencyLabel != "daily" {
		t.Errorf("frequencyLabel = %q, want default %q", habit.FrequencyLabel, "daily")
	}
	if created == nil {
		t.Fatal("habit should be persisted via repository")
	}
}

// TestCreateHabit_MissingName は名前が空の場合に入力エラーを返すことをテストする。
func TestCreateHabit_MissingName(t *testing.T) {
	svc := newTestService(&mockHabitRepo{}, newMockCompletionRepo())

	_, err := svc.CreateHabit(context.Background(), "user-1", CreateInput{
		Frequency: "daily",
	})
	if err == nil {
		t.Fatal("CreateHabit should return error for missing name")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeInvalidHabitInput {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeInvalidHabitInput)
	}
}

// TestCreateHabit_MissingFrequency は頻度が空の場合に入力エラーを返すことをテストする。
func TestCreateHabit_MissingFrequency(t *testing.T) {
	svc := newTestService(&mockHabitRepo{}, newMockCompletionRepo())

	_, err := svc.CreateHabit(context.Background(), "user-1", CreateInput{
		Name: "読書",
	})
	if err == nil {
		t.Fatal("CreateHabit should return error for missing frequency")
	}
}

// TestCreateHabit_WhitespaceOnlyName は空白のみの名前が空として扱われることをテストする。
func TestCreateHabit_WhitespaceOnlyName(t *testing.T) {
	svc := newTestService(&mockHabitRepo{}, newMockCompletionRepo())

	_, err := svc.CreateHabit(context.Background(), "user-1", CreateInput{
		Name:      "   ",
		Frequency: "daily",
	})
	if err == nil {
		t.Fatal("CreateHabit should return error for whitespace-only name")
	}
}

// sanitizerFunc はTextSanitizerの関数アダプタ。
type sanitizerFunc func(string) string

func (f sanitizerFunc) Sanitize(raw string) string { return f(raw) }

// TestCreateHabit_SanitizesInput はサニタイザがユーザー入力に適用されることをテストする。
func TestCreateHabit_SanitizesInput(t *testing.T) {
	habitRepo := &mockHabitRepo{}
	svc := newTestService(habitRepo, newMockCompletionRepo())
	svc.sanitizer = sanitizerFunc(func(raw string) string {
		return strings.ReplaceAll(raw, "<script>", "")
	})

	habit, err := svc.CreateHabit(context.Background(), "user-1", CreateInput{
		Name:      "<script>読書",
		Frequency: "daily",
	})
	if err != nil {
		t.Fatalf("CreateHabit returned error: %v", err)
	}
	if habit.Name != "読書" {
		t.Errorf("name = %q, want sanitized %q", habit.Name, "読書")
	}
}

// --- GetHabit / ListHabits テスト ---

// TestGetHabit_NotFound は存在しない習慣でHabitNotFoundエラーを返すことをテストする。
func TestGetHabit_NotFound(t *testing.T) {
	svc := newTestService(&mockHabitRepo{}, newMockCompletionRepo())

	_, err := svc.GetHabit(context.Background(), "user-1", "missing")
	if err == nil {
		t.Fatal("GetHabit should return error for missing habit")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeHabitNotFound {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeHabitNotFound)
	}
}

// TestGetHabit_OtherOwner は他ユーザー所有の習慣が存在しない扱いになることをテストする。
func TestGetHabit_OtherOwner(t *testing.T) {
	habitRepo := &mockHabitRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Habit, error) {
			return testHabit(id, "other-user"), nil
		},
	}
	svc := newTestService(habitRepo, newMockCompletionRepo())

	_, err := svc.GetHabit(context.Background(), "user-1", "habit-1")
	if err == nil {
		t.Fatal("GetHabit should return error for habit owned by another user")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeHabitNotFound {
		t.Errorf("error code = %q, want %q (must not leak existence)", apiErr.Code, model.ErrCodeHabitNotFound)
	}
}

// TestListHabits_Empty は習慣が0件のとき空スライスを返すことをテストする。
func TestListHabits_Empty(t *testing.T) {
	svc := newTestService(&mockHabitRepo{}, newMockCompletionRepo())

	infos, err := svc.ListHabits(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListHabits returned error: %v", err)
	}
	if infos == nil {
		t.Fatal("ListHabits should return empty slice, not nil")
	}
	if len(infos) != 0 {
		t.Errorf("infos count = %d, want 0", len(infos))
	}
}

// TestListHabits_DoneTodayFlag は今日完了済みの習慣だけにフラグが立つことをテストする。
func TestListHabits_DoneTodayFlag(t *testing.T) {
	habitRepo := &mockHabitRepo{
		listByOwnerIDFn: func(_ context.Context, ownerID string) ([]*model.Habit, error) {
			return []*model.Habit{
				testHabit("habit-1", ownerID),
				testHabit("habit-2", ownerID),
			}, nil
		},
	}
	completionRepo := newMockCompletionRepo()
	completionRepo.days["habit-1"] = map[model.DayKey]struct{}{
		"2026-08-30": {},
	}
	svc := newTestService(habitRepo, completionRepo)

	infos, err := svc.ListHabits(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListHabits returned error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("infos count = %d, want 2", len(infos))
	}
	if !infos[0].DoneToday {
		t.Error("habit-1 should be done today")
	}
	if infos[1].DoneToday {
		t.Error("habit-2 should not be done today")
	}
}

// --- UpdateHabit / DeleteHabit テスト ---

// TestUpdateHabit_Success は名前・説明・頻度が更新されることをテストする。
func TestUpdateHabit_Success(t *testing.T) {
	habitRepo := &mockHabitRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Habit, error) {
			return testHabit(id, "user-1"), nil
		},
	}
	svc := newTestService(habitRepo, newMockCompletionRepo())

	updated, err := svc.UpdateHabit(context.Background(), "user-1", "habit-1", UpdateInput{
		Name:        "夜のストレッチ",
		Description: "寝る前に10分",
		Frequency:   "daily",
	})
	if err != nil {
		t.Fatalf("UpdateHabit returned error: %v", err)
	}
	if updated.Name != "夜のストレッチ" {
		t.Errorf("name = %q, want %q", updated.Name, "夜のストレッチ")
	}
	if updated.Description != "寝る前に10分" {
		t.Errorf("description = %q, want %q", updated.Description, "寝る前に10分")
	}
}

// TestUpdateHabit_PreservesStreaks は更新操作がストリークフィールドを
// 変更しないことをテストする。
func TestUpdateHabit_PreservesStreaks(t *testing.T) {
	habitRepo := &mockHabitRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Habit, error) {
			h := testHabit(id, "user-1")
			h.CurrentStreak = 3
			h.BestStreak = 7
			return h, nil
		},
	}
	svc := newTestService(habitRepo, newMockCompletionRepo())

	updated, err := svc.UpdateHabit(context.Background(), "user-1", "habit-1", UpdateInput{
		Name:      "読書",
		Frequency: "daily",
	})
	if err != nil {
		t.Fatalf("UpdateHabit returned error: %v", err)
	}
	if updated.CurrentStreak != 3 || updated.BestStreak != 7 {
		t.Errorf("streaks = (%d, %d), want (3, 7)", updated.CurrentStreak, updated.BestStreak)
	}
}

// TestDeleteHabit_RemovesCompletions は習慣の削除で完了記録も削除されることをテストする。
func TestDeleteHabit_RemovesCompletions(t *testing.T) {
	habitDeleted := false
	habitRepo := &mockHabitRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Habit, error) {
			return testHabit(id, "user-1"), nil
		},
		deleteFn: func(_ context.Context, habitID string) error {
			habitDeleted = true
			return nil
		},
	}
	completionRepo := newMockCompletionRepo()
	completionRepo.days["habit-1"] = map[model.DayKey]struct{}{
		"2026-08-29": {},
		"2026-08-30": {},
	}
	svc := newTestService(habitRepo, completionRepo)

	if err := svc.DeleteHabit(context.Background(), "user-1", "habit-1"); err != nil {
		t.Fatalf("DeleteHabit returned error: %v", err)
	}
	if !habitDeleted {
		t.Error("habit should be deleted")
	}
	if len(completionRepo.days["habit-1"]) != 0 {
		t.Error("completions should be deleted with the habit")
	}
}

// TestDeleteHabit_NotFound は存在しない習慣の削除がHabitNotFoundになることをテストする。
func TestDeleteHabit_NotFound(t *testing.T) {
	svc := newTestService(&mockHabitRepo{}, newMockCompletionRepo())

	err := svc.DeleteHabit(context.Background(), "user-1", "missing")
	if err == nil {
		t.Fatal("DeleteHabit should return error for missing habit")
	}
}

// --- ToggleToday テスト ---

// TestToggleToday_CreatesCompletion は未完了の日にトグルすると
// 完了記録が作成されDoneToday=trueになることをテストする。
func TestToggleToday_CreatesCompletion(t *testing.T) {
	habitRepo := &mockHabitRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Habit, error) {
			return testHabit(id, "user-1"), nil
		},
	}
	completionRepo := newMockCompletionRepo()
	svc := newTestService(habitRepo, completionRepo)

	result, err := svc.ToggleToday(context.Background(), "user-1", "habit-1")
	if err != nil {
		t.Fatalf("ToggleToday returned error: %v", err)
	}
	if !result.DoneToday {
		t.Error("DoneToday should be true after first toggle")
	}
	if result.Habit.CurrentStreak != 1 {
		t.Errorf("currentStreak = %d, want 1", result.Habit.CurrentStreak)
	}
	if result.Habit.BestStreak != 1 {
		t.Errorf("bestStreak = %d, want 1", result.Habit.BestStreak)
	}
}

// TestToggleToday_SelfInverse は2回連続のトグルで元の状態に戻ることをテストする。
func TestToggleToday_SelfInverse(t *testing.T) {
	habitRepo := &mockHabitRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Habit, error) {
			return testHabit(id, "user-1"), nil
		},
	}
	completionRepo := newMockCompletionRepo()
	svc := newTestService(habitRepo, completionRepo)

	first, err := svc.ToggleToday(context.Background(), "user-1", "habit-1")
	if err != nil {
		t.Fatalf("first toggle returned error: %v", err)
	}
	if !first.DoneToday {
		t.Error("first toggle should set DoneToday=true")
	}

	second, err := svc.ToggleToday(context.Background(), "user-1", "habit-1")
	if err != nil {
		t.Fatalf("second toggle returned error: %v", err)
	}
	if second.DoneToday {
		t.Error("second toggle should set DoneToday=false")
	}
	if second.Habit.CurrentStreak != 0 {
		t.Errorf("currentStreak after untoggle = %d, want 0", second.Habit.CurrentStreak)
	}

	if len(completionRepo.days["habit-1"]) != 0 {
		t.Error("completion set should be back to empty after double toggle")
	}
}

// TestToggleToday_RecomputesStreaksFromHistory はトグルのたびに
// 完了履歴全体からストリークが再計算されることをテストする。
func TestToggleToday_RecomputesStreaksFromHistory(t *testing.T) {
	var gotCurrent, gotBest int
	habitRepo := &mockHabitRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Habit, error) {
			return testHabit(id, "user-1"), nil
		},
		updateStreaksFn: func(_ context.Context, habitID string, currentStreak, bestStreak int) error {
			gotCurrent = currentStreak
			gotBest = bestStreak
			return nil
		},
	}
	completionRepo := newMockCompletionRepo()
	// 昨日・一昨日の完了に加えて過去の4連続ラン
	completionRepo.days["habit-1"] = map[model.DayKey]struct{}{
		"2026-08-20": {}, "2026-08-21": {}, "2026-08-22": {}, "2026-08-23": {},
		"2026-08-28": {}, "2026-08-29": {},
	}
	svc := newTestService(habitRepo, completionRepo)

	result, err := svc.ToggleToday(context.Background(), "user-1", "habit-1")
	if err != nil {
		t.Fatalf("ToggleToday returned error: %v", err)
	}

	// 28, 29, 30 の3連続がCurrent、過去の4連続がBest
	if gotCurrent != 3 {
		t.Errorf("persisted currentStreak = %d, want 3", gotCurrent)
	}
	if gotBest != 4 {
		t.Errorf("persisted bestStreak = %d, want 4", gotBest)
	}
	if result.Habit.CurrentStreak != 3 || result.Habit.BestStreak != 4 {
		t.Errorf("result streaks = (%d, %d), want (3, 4)",
			result.Habit.CurrentStreak, result.Habit.BestStreak)
	}
}

// TestToggleToday_NotFound は存在しない習慣のトグルがHabitNotFoundになることをテストする。
func TestToggleToday_NotFound(t *testing.T) {
	svc := newTestService(&mockHabitRepo{}, newMockCompletionRepo())

	_, err := svc.ToggleToday(context.Background(), "user-1", "missing")
	if err == nil {
		t.Fatal("ToggleToday should return error for missing habit")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeHabitNotFound {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeHabitNotFound)
	}
}

// TestToggleToday_ConcurrentTogglesSerialized は同一習慣への並行トグルが
// 直列化され、完了集合が破綻しないことをテストする。
func TestToggleToday_ConcurrentTogglesSerialized(t *testing.T) {
	habitRepo := &mockHabitRepo{
		findByIDFn: func(_ context.Context, id string) (*model.Habit, error) {
			return testHabit(id, "user-1"), nil
		},
	}
	completionRepo := newMockCompletionRepo()
	svc := newTestService(habitRepo, completionRepo)

	const toggles = 10
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ToggleToday(context.Background(), "user-1", "habit-1"); err != nil {
				t.Errorf("concurrent toggle returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	// 偶数回のトグルなので完了集合は空に戻る
	count := len(completionRepo.days["habit-1"])
	if count != 0 {
		t.Errorf("completions after %d toggles = %d, want 0", toggles, count)
	}
}

// --- Summary テスト ---

// TestSummary_ZeroHabits は習慣が0件でも7エントリのゼロ値ウィンドウを返すことをテストする。
func TestSummary_ZeroHabits(t *testing.T) {
	svc := newTestService(&mockHabitRepo{}, newMockCompletionRepo())

	entries, err := svc.Summary(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if len(entries) != 7 {
		t.Fatalf("entries count = %d, want 7", len(entries))
	}
	for _, e := range entries {
		if e.TotalHabits != 0 || e.Completed != 0 || e.CompletionRate != 0 {
			t.Errorf("entry %q should be zero, got %+v", e.Date, e)
		}
	}
}

// TestSummary_AggregatesWindow は7日間ウィンドウの完了記録が
// 日別に集計されることをテストする。
func TestSummary_AggregatesWindow(t *testing.T) {
	habitRepo := &mockHabitRepo{
		listByOwnerIDFn: func(_ context.Context, ownerID string) ([]*model.Habit, error) {
			return []*model.Habit{
				testHabit("habit-1", ownerID),
				testHabit("habit-2", ownerID),
			}, nil
		},
	}
	completionRepo := newMockCompletionRepo()
	completionRepo.days["habit-1"] = map[model.DayKey]struct{}{
		"2026-08-29": {},
		"2026-08-30": {},
	}
	completionRepo.days["habit-2"] = map[model.DayKey]struct{}{
		"2026-08-30": {},
	}
	svc := newTestService(habitRepo, completionRepo)

	entries, err := svc.Summary(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if len(entries) != 7 {
		t.Fatalf("entries count = %d, want 7", len(entries))
	}

	last := entries[6]
	if last.Date != "2026-08-30" {
		t.Fatalf("last date = %q, want %q", last.Date, "2026-08-30")
	}
	if last.Completed != 2 {
		t.Errorf("completed today = %d, want 2", last.Completed)
	}
	if last.CompletionRate != 100 {
		t.Errorf("rate today = %d, want 100", last.CompletionRate)
	}

	yesterday := entries[5]
	if yesterday.Completed != 1 {
		t.Errorf("completed yesterday = %d, want 1", yesterday.Completed)
	}
	if yesterday.CompletionRate != 50 {
		t.Errorf("rate yesterday = %d, want 50", yesterday.CompletionRate)
	}
}

// TestTodayKey_UsesConfiguredTimezone はタイムゾーンによって
// 「今日」の暦日が変わることをテストする。
func TestTodayKey_UsesConfiguredTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("failed to load Asia/Tokyo: %v", err)
	}

	svc := NewService(&mockHabitRepo{}, newMockCompletionRepo(), nil, nil, tokyo)
	// UTC 2026-08-30 23:00 はJSTでは2026-08-31
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC)
	}

	if got := svc.todayKey(); got != "2026-08-31" {
		t.Errorf("todayKey in JST = %q, want %q", got, "2026-08-31")
	}

	utcSvc := NewService(&mockHabitRepo{}, newMockCompletionRepo(), nil, nil, time.UTC)
	utcSvc.now = svc.now
	if got := utcSvc.todayKey(); got != "2026-08-30" {
		t.Errorf("todayKey in UTC = %q, want %q", got, "2026-08-30")
	}
}

// Package habit は習慣管理のドメインロジックを提供する。
// 習慣のCRUD、今日の完了トグル、7日間サマリーのビジネスロジックを持つ。
package habit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/habitflow/internal/model"
	"github.com/hitoshi/habitflow/internal/repository"
	"github.com/hitoshi/habitflow/internal/streak"
	"github.com/hitoshi/habitflow/internal/summary"
)

// TextSanitizer はユーザー入力テキストのサニタイズインターフェース。
type TextSanitizer interface {
	Sanitize(raw string) string
}

// MetricsRecorder はメトリクス収集のインターフェース。
// nilの場合は記録しない。
type MetricsRecorder interface {
	RecordToggle()
	RecordHabitCreated()
	RecordStreakRecompute(duration time.Duration)
}

// HabitInfo は習慣と「今日完了済みか」のフラグを結合したドメインオブジェクト。
type HabitInfo struct {
	model.Habit
	DoneToday bool
}

// ToggleResult はトグル操作の結果を表す。
// Habitのストリークフィールドは再計算後の値を持つ。
type ToggleResult struct {
	Habit     model.Habit
	DoneToday bool
}

// CreateInput は習慣作成の入力。NameとFrequencyは必須。
type CreateInput struct {
	Name           string
	Description    string
	Frequency      string
	FrequencyLabel string
}

// UpdateInput は習慣更新の入力。
type UpdateInput struct {
	Name           string
	Description    string
	Frequency      string
	FrequencyLabel string
}

// defaultFrequencyLabel はFrequencyLabel未指定時の既定値。
const defaultFrequencyLabel = "daily"

// Service は習慣管理のサービス層。
type Service struct {
	habitRepo      repository.HabitRepository
	completionRepo repository.CompletionRepository
	sanitizer      TextSanitizer
	metrics        MetricsRecorder
	location       *time.Location
	locks          *habitLocks

	// now はテストで基準日を固定するために差し替え可能にしている。
	now func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// locationは暦日の境界判定に使用するタイムゾーン。
func NewService(
	habitRepo repository.HabitRepository,
	completionRepo repository.CompletionRepository,
	sanitizer TextSanitizer,
	metrics MetricsRecorder,
	location *time.Location,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		sanitizer:      sanitizer,
		metrics:        metrics,
		location:       location,
		locks:          newHabitLocks(),
		now:            time.Now,
	}
}

// todayKey は設定タイムゾーンにおける今日のDayKeyを返す。
func (s *Service) todayKey() model.DayKey {
	return model.NewDayKey(s.now(), s.location)
}

// sanitize はサニタイザ設定時に入力テキストからHTMLを除去する。
func (s *Service) sanitize(raw string) string {
	if s.sanitizer == nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(s.sanitizer.Sanitize(raw))
}

// findOwnedHabit は所有チェック付きで習慣を取得する。
// 存在しない場合と他ユーザー所有の場合は同一のHabitNotFoundエラーを返す。
func (s *Service) findOwnedHabit(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	habit, err := s.habitRepo.FindByID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("習慣の取得に失敗しました: %w", err)
	}
	if habit == nil || habit.OwnerID != userID {
		return nil, model.NewHabitNotFoundError(habitID)
	}
	return habit, nil
}

// ListHabits はユーザーの習慣一覧を今日の完了フラグ付きで作成日昇順で返す。
func (s *Service) ListHabits(ctx context.Context, userID string) ([]HabitInfo, error) {
	habits, err := s.habitRepo.ListByOwnerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("習慣一覧の取得に失敗しました: %w", err)
	}
	if len(habits) == 0 {
		return []HabitInfo{}, nil
	}

	habitIDs := make([]string, len(habits))
	for i, h := range habits {
		habitIDs[i] = h.ID
	}

	doneIDs, err := s.completionRepo.ListHabitIDsCompletedOn(ctx, habitIDs, s.todayKey())
	if err != nil {
		return nil, fmt.Errorf("今日の完了記録の取得に失敗しました: %w", err)
	}
	doneSet := make(map[string]struct{}, len(doneIDs))
	for _, id := range doneIDs {
		doneSet[id] = struct{}{}
	}

	infos := make([]HabitInfo, len(habits))
	for i, h := range habits {
		_, done := doneSet[h.ID]
		infos[i] = HabitInfo{Habit: *h, DoneToday: done}
	}

	return infos, nil
}

// GetHabit は習慣を今日の完了フラグ付きで取得する。
func (s *Service) GetHabit(ctx context.Context, userID, habitID string) (*HabitInfo, error) {
	habit, err := s.findOwnedHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	done, err := s.completionRepo.HasCompletionOn(ctx, habitID, s.todayKey())
	if err != nil {
		return nil, fmt.Errorf("今日の完了記録の取得に失敗しました: %w", err)
	}

	return &HabitInfo{Habit: *habit, DoneToday: done}, nil
}

// CreateHabit は習慣を作成する。名前と頻度は必須。
func (s *Service) CreateHabit(ctx context.Context, userID string, in CreateInput) (*model.Habit, error) {
	name := s.sanitize(in.Name)
	frequency := s.sanitize(in.Frequency)
	if name == "" || frequency == "" {
		return nil, model.NewInvalidHabitInputError("名前と頻度は必須です")
	}

	label := s.sanitize(in.FrequencyLabel)
	if label == "" {
		label = defaultFrequencyLabel
	}

	now := s.now()
	habit := &model.Habit{
		ID:             uuid.NewString(),
		OwnerID:        userID,
		Name:           name,
		Description:    s.sanitize(in.Description),
		Frequency:      frequency,
		FrequencyLabel: label,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.habitRepo.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("習慣の作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordHabitCreated()
	}

	slog.Info("habit created",
		slog.String("habit_id", habit.ID),
		slog.String("owner_id", userID),
	)

	return habit, nil
}

// UpdateHabit は習慣の名前・説明・頻度を更新する。
// ストリークフィールドはこの操作では変更されない。
func (s *Service) UpdateHabit(ctx context.Context, userID, habitID string, in UpdateInput) (*model.Habit, error) {
	habit, err := s.findOwnedHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	name := s.sanitize(in.Name)
	frequency := s.sanitize(in.Frequency)
	if name == "" || frequency == "" {
		return nil, model.NewInvalidHabitInputError("名前と頻度は必須です")
	}

	habit.Name = name
	habit.Description = s.sanitize(in.Description)
	habit.Frequency = frequency
	if label := s.sanitize(in.FrequencyLabel); label != "" {
		habit.FrequencyLabel = label
	}
	habit.UpdatedAt = s.now()

	if err := s.habitRepo.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("習慣の更新に失敗しました: %w", err)
	}

	return habit, nil
}

// DeleteHabit は習慣と関連する完了記録を削除する。
func (s *Service) DeleteHabit(ctx context.Context, userID, habitID string) error {
	if _, err := s.findOwnedHabit(ctx, userID, habitID); err != nil {
		return err
	}

	// 完了記録を先に削除する（スキーマのCASCADEに加えて明示的に削除）
	if err := s.completionRepo.DeleteByHabitID(ctx, habitID); err != nil {
		return fmt.Errorf("完了記録の削除に失敗しました: %w", err)
	}

	if err := s.habitRepo.Delete(ctx, habitID); err != nil {
		return fmt.Errorf("習慣の削除に失敗しました: %w", err)
	}

	s.locks.release(habitID)

	slog.Info("habit deleted",
		slog.String("habit_id", habitID),
		slog.String("owner_id", userID),
	)

	return nil
}

// ToggleToday は今日の完了状態を反転し、ストリークを再計算して永続化する。
//
// 操作列: 今日の記録の有無を確認 → 削除または作成 → 完了履歴全体を取得 →
// ストリーク再計算 → 習慣のストリークフィールドを更新。
// この列は習慣ごとのロックで直列化され、並行トグルによる
// 完了集合とストリークフィールドの不整合を防ぐ。
// トグルは自己逆元: 2回連続で呼ぶと元の状態に戻る。
func (s *Service) ToggleToday(ctx context.Context, userID, habitID string) (*ToggleResult, error) {
	habit, err := s.findOwnedHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	lock := s.locks.get(habitID)
	lock.Lock()
	defer lock.Unlock()

	today := s.todayKey()

	existed, err := s.completionRepo.HasCompletionOn(ctx, habitID, today)
	if err != nil {
		return nil, fmt.Errorf("今日の完了記録の取得に失敗しました: %w", err)
	}

	if existed {
		if err := s.completionRepo.DeleteByHabitAndDay(ctx, habitID, today); err != nil {
			return nil, fmt.Errorf("完了記録の削除に失敗しました: %w", err)
		}
	} else {
		completion := &model.Completion{
			ID:        uuid.NewString(),
			HabitID:   habitID,
			Day:       today,
			CreatedAt: s.now(),
		}
		if err := s.completionRepo.Create(ctx, completion); err != nil {
			return nil, fmt.Errorf("完了記録の作成に失敗しました: %w", err)
		}
	}

	// ストリークは毎回完了履歴全体から再計算する。
	// O(n)だが全走査アルゴリズムを正とする。
	days, err := s.completionRepo.ListDaysByHabitID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("完了履歴の取得に失敗しました: %w", err)
	}

	start := time.Now()
	result := streak.Compute(days, today)
	if s.metrics != nil {
		s.metrics.RecordStreakRecompute(time.Since(start))
		s.metrics.RecordToggle()
	}

	if err := s.habitRepo.UpdateStreaks(ctx, habitID, result.Current, result.Best); err != nil {
		return nil, fmt.Errorf("ストリークの更新に失敗しました: %w", err)
	}

	habit.CurrentStreak = result.Current
	habit.BestStreak = result.Best
	habit.UpdatedAt = s.now()

	return &ToggleResult{
		Habit:     *habit,
		DoneToday: !existed,
	}, nil
}

// Summary はユーザーの全習慣に対する直近7日間のサマリーを古い順で返す。
// 習慣が1つもない場合も日付を埋めたゼロ値の7エントリを返す。
func (s *Service) Summary(ctx context.Context, userID string) ([]summary.DayEntry, error) {
	habits, err := s.habitRepo.ListByOwnerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("習慣一覧の取得に失敗しました: %w", err)
	}

	today := s.todayKey()

	if len(habits) == 0 {
		return summary.Compute(0, nil, today), nil
	}

	habitIDs := make([]string, len(habits))
	for i, h := range habits {
		habitIDs[i] = h.ID
	}

	completions, err := s.completionRepo.ListByHabitIDsInWindow(
		ctx, habitIDs, today.AddDays(-(summary.WindowDays-1)), today,
	)
	if err != nil {
		return nil, fmt.Errorf("完了記録の取得に失敗しました: %w", err)
	}

	return summary.Compute(len(habits), completions, today), nil
}

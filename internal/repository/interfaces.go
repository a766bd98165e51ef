// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/habitflow/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// HabitRepository は習慣データの永続化インターフェース。
type HabitRepository interface {
	// FindByID は指定IDの習慣を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Habit, error)

	// ListByOwnerID は指定ユーザーの習慣一覧を作成日昇順で返す。
	ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Habit, error)

	// Create は習慣を作成する。
	Create(ctx context.Context, habit *model.Habit) error

	// Update は習慣の名前・説明・頻度を更新する。
	Update(ctx context.Context, habit *model.Habit) error

	// UpdateStreaks は習慣の非正規化ストリークフィールドのみを更新する。
	UpdateStreaks(ctx context.Context, habitID string, currentStreak, bestStreak int) error

	// Delete は指定IDの習慣を削除する。関連する完了記録はCASCADE削除される。
	Delete(ctx context.Context, habitID string) error
}

// CompletionRepository は完了記録の永続化インターフェース。
// 完了記録は(habit_id, day)で一意であり、dayは暦日粒度に正規化されている。
type CompletionRepository interface {
	// ListDaysByHabitID は指定習慣の全完了日を重複なし昇順で返す。
	ListDaysByHabitID(ctx context.Context, habitID string) ([]model.DayKey, error)

	// HasCompletionOn は指定習慣が指定日に完了記録を持つかを返す。
	HasCompletionOn(ctx context.Context, habitID string, day model.DayKey) (bool, error)

	// Create は完了記録を作成する。
	// (habit_id, day)の一意制約違反はエラーとして返る。
	Create(ctx context.Context, completion *model.Completion) error

	// DeleteByHabitAndDay は指定習慣・指定日の完了記録を削除する。
	DeleteByHabitAndDay(ctx context.Context, habitID string, day model.DayKey) error

	// DeleteByHabitID は指定習慣の全完了記録を削除する。
	DeleteByHabitID(ctx context.Context, habitID string) error

	// ListHabitIDsCompletedOn は指定習慣集合のうち指定日に完了記録を持つ
	// 習慣IDを重複なしで返す。
	ListHabitIDsCompletedOn(ctx context.Context, habitIDs []string, day model.DayKey) ([]string, error)

	// ListByHabitIDsInWindow は指定習慣集合の[startDay, endDay]（両端含む）の
	// 完了記録を(習慣ID, 暦日)ペアの一覧で返す。
	ListByHabitIDsInWindow(ctx context.Context, habitIDs []string, startDay, endDay model.DayKey) ([]model.CompletionDay, error)
}

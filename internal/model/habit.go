// Package model はドメインモデルを定義する。
package model

import "time"

// Habit はユーザーが登録した習慣を表す。
// CurrentStreakとBestStreakは完了記録から導出される非正規化フィールドで、
// トグル操作のたびにストリーク計算エンジンで再計算される。
type Habit struct {
	ID             string
	OwnerID        string
	Name           string
	Description    string
	Frequency      string
	FrequencyLabel string
	CurrentStreak  int
	BestStreak     int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Completion は習慣が特定の暦日に実行されたことを表す。
// レコードの存在が「完了」を意味し、(habit_id, day)の組で一意。
type Completion struct {
	ID        string
	HabitID   string
	Day       DayKey
	CreatedAt time.Time
}

// CompletionDay はサマリー集計用の(習慣ID, 暦日)のペア。
// 7日間ウィンドウの完了記録取得で使用される。
type CompletionDay struct {
	HabitID string
	Day     DayKey
}

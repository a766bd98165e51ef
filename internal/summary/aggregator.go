// Package summary はユーザーの習慣全体に対する7日間サマリーの集計を提供する。
package summary

import (
	"math"

	"github.com/hitoshi/habitflow/internal/model"
)

// WindowDays はサマリー集計ウィンドウの日数。今日を含む直近7日間。
const WindowDays = 7

// DayEntry はサマリーの1日分のエントリを表す。
type DayEntry struct {
	Date           model.DayKey
	Weekday        string
	Completed      int
	TotalHabits    int
	CompletionRate int
}

// Compute は[today-6, today]のウィンドウに対する7エントリの時系列を
// 古い順で返す。completedはその日に完了記録を持つ相異なる習慣の数で、
// 同一習慣の重複レコードは1回だけ数える。
// totalHabitsが0の場合も日付と曜日は埋めた上で全エントリ0を返す。
func Compute(totalHabits int, completions []model.CompletionDay, today model.DayKey) []DayEntry {
	// 暦日ごとに相異なる習慣IDをバケツ分けする
	byDay := make(map[model.DayKey]map[string]struct{})
	for _, c := range completions {
		habits, ok := byDay[c.Day]
		if !ok {
			habits = make(map[string]struct{})
			byDay[c.Day] = habits
		}
		habits[c.HabitID] = struct{}{}
	}

	entries := make([]DayEntry, 0, WindowDays)
	for i := WindowDays - 1; i >= 0; i-- {
		day := today.AddDays(-i)
		completed := len(byDay[day])

		rate := 0
		if totalHabits > 0 {
			rate = int(math.Round(float64(completed) / float64(totalHabits) * 100))
		}

		entries = append(entries, DayEntry{
			Date:           day,
			Weekday:        day.Weekday(),
			Completed:      completed,
			TotalHabits:    totalHabits,
			CompletionRate: rate,
		})
	}

	return entries
}

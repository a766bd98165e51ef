// Package streak は習慣の連続達成日数（ストリーク）の計算エンジンを提供する。
//
// 計算は完了日の集合と基準日「今日」のみに依存する純粋関数で、
// 隠れた状態を持たない。Habitに保持されるストリークフィールドは
// この計算結果の非正規化キャッシュであり、トグルのたびに
// 完了履歴全体からの再計算を正とする。
package streak

import (
	"slices"

	"github.com/hitoshi/habitflow/internal/model"
)

// Result はストリーク計算の結果を表す。
type Result struct {
	// Current は今日を末尾とする連続完了日数。今日の完了記録がなければ0。
	Current int
	// Best は履歴全体で最長の連続完了日数。
	Best int
}

// Compute は1つの習慣の完了日集合からCurrent/Bestストリークを計算する。
// daysは順不同・重複ありでもよく、内部で正規化される（冪等）。
// todayは呼び出し側が与える基準日で、テスト容易性のため固定可能。
func Compute(days []model.DayKey, today model.DayKey) Result {
	keys := normalize(days)
	if len(keys) == 0 {
		return Result{}
	}

	// 昇順の単一スキャンで最長ランを求める。
	// 直前の日との差がちょうど1日ならランを伸ばし、それ以外はリセットする。
	best := 0
	run := 0
	for i, d := range keys {
		if i > 0 && keys[i-1].DaysUntil(d) == 1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}

	// 今日を末尾とするランを後方に数える。
	current := 0
	if idx, ok := slices.BinarySearch(keys, today); ok {
		current = 1
		for i := idx; i > 0; i-- {
			if keys[i-1].DaysUntil(keys[i]) != 1 {
				break
			}
			current++
		}
	}

	return Result{Current: current, Best: best}
}

// normalize は完了日集合を重複排除して昇順にソートする。
// 永続化層が(habit, day)一意性を破っていても単一の日として扱う。
func normalize(days []model.DayKey) []model.DayKey {
	if len(days) == 0 {
		return nil
	}
	keys := slices.Clone(days)
	slices.Sort(keys)
	return slices.Compact(keys)
}

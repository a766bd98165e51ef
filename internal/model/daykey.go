// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"time"
)

// dayKeyLayout はDayKeyの文字列フォーマット。
const dayKeyLayout = "2006-01-02"

// DayKey は暦日粒度に正規化された日付（"YYYY-MM-DD"）を表す。
// 完了記録とストリーク計算の基本単位として使用される。
// 日付の境界判定はアプリケーション全体で単一のタイムゾーン
// （config.Location、デフォルトUTC）に統一する。
type DayKey string

// NewDayKey は時刻tを指定タイムゾーンの暦日に正規化してDayKeyを生成する。
func NewDayKey(t time.Time, loc *time.Location) DayKey {
	return DayKey(t.In(loc).Format(dayKeyLayout))
}

// ParseDayKey は"YYYY-MM-DD"形式の文字列を検証してDayKeyを返す。
func ParseDayKey(s string) (DayKey, error) {
	if _, err := time.Parse(dayKeyLayout, s); err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", s, err)
	}
	return DayKey(s), nil
}

// Time はDayKeyをUTC深夜0時のtime.Timeに変換する。
// DayKeyは純粋な暦日値のため、日数演算はDSTの影響を受けないUTCで行う。
// 不正なDayKeyはゼロ値のtime.Timeになる。
func (d DayKey) Time() time.Time {
	t, _ := time.Parse(dayKeyLayout, string(d))
	return t
}

// AddDays はn日後（負の場合はn日前）のDayKeyを返す。
func (d DayKey) AddDays(n int) DayKey {
	return DayKey(d.Time().AddDate(0, 0, n).Format(dayKeyLayout))
}

// DaysUntil はdからotherまでの日数差を返す。
// otherがdより過去の場合は負の値になる。
func (d DayKey) DaysUntil(other DayKey) int {
	return int(other.Time().Sub(d.Time()) / (24 * time.Hour))
}

// Weekday は曜日の3文字ラベル（"Mon"〜"Sun"）を返す。
// 表示ロケールに依存しない決定的なマッピング。
func (d DayKey) Weekday() string {
	return d.Time().Weekday().String()[:3]
}

// String はDayKeyの文字列表現を返す。
func (d DayKey) String() string {
	return string(d)
}

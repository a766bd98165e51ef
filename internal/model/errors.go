// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, habit, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeHabitNotFound     = "HABIT_NOT_FOUND"
	ErrCodeInvalidHabitInput = "INVALID_HABIT_INPUT"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
)

// NewHabitNotFoundError は習慣未検出エラーを生成する。
// 存在しないIDと他ユーザー所有のIDは区別せず、同一のエラーを返す。
func NewHabitNotFoundError(habitID string) *APIError {
	return &APIError{
		Code:     ErrCodeHabitNotFound,
		Message:  fmt.Sprintf("指定された習慣が見つかりません: %s", habitID),
		Category: "habit",
		Action:   "習慣IDを確認してください。",
	}
}

// NewInvalidHabitInputError は習慣の入力バリデーションエラーを生成する。
func NewInvalidHabitInputError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidHabitInput,
		Message:  fmt.Sprintf("習慣の入力が不正です: %s", reason),
		Category: "validation",
		Action:   "名前と頻度を入力してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewUnauthorizedError は認証されていないリクエストのエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ページを再読み込みしてください。",
	}
}

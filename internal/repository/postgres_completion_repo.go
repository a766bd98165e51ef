package repository

import (
	"context"
	"fmt"

	"database/sql"

	"github.com/lib/pq"

	"github.com/hitoshi/habitflow/internal/model"
)

// PostgresCompletionRepo はPostgreSQLを使用した完了記録リポジトリ。
// dayカラムはDATE型で、DayKeyとの変換はto_char/"YYYY-MM-DD"で行う。
type PostgresCompletionRepo struct {
	db *sql.DB
}

// NewPostgresCompletionRepo はPostgresCompletionRepoを生成する。
func NewPostgresCompletionRepo(db *sql.DB) *PostgresCompletionRepo {
	return &PostgresCompletionRepo{db: db}
}

// ListDaysByHabitID は指定習慣の全完了日を重複なし昇順で返す。
func (r *PostgresCompletionRepo) ListDaysByHabitID(ctx context.Context, habitID string) ([]model.DayKey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT to_char(day, 'YYYY-MM-DD')
		 FROM habit_completions
		 WHERE habit_id = $1
		 ORDER BY 1 ASC`,
		habitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list completion days: %w", err)
	}
	defer rows.Close()

	var days []model.DayKey
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan completion day: %w", err)
		}
		days = append(days, model.DayKey(day))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completion days: %w", err)
	}

	return days, nil
}

// HasCompletionOn は指定習慣が指定日に完了記録を持つかを返す。
func (r *PostgresCompletionRepo) HasCompletionOn(ctx context.Context, habitID string, day model.DayKey) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM habit_completions WHERE habit_id = $1 AND day = $2::date
		 )`,
		habitID, day.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check completion: %w", err)
	}
	return exists, nil
}

// Create は完了記録を作成する。
// (habit_id, day)の一意制約違反はエラーとして返る。
func (r *PostgresCompletionRepo) Create(ctx context.Context, completion *model.Completion) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO habit_completions (id, habit_id, day, created_at)
		 VALUES ($1, $2, $3::date, $4)`,
		completion.ID, completion.HabitID, completion.Day.String(), completion.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert completion: %w", err)
	}
	return nil
}

// DeleteByHabitAndDay は指定習慣・指定日の完了記録を削除する。
func (r *PostgresCompletionRepo) DeleteByHabitAndDay(ctx context.Context, habitID string, day model.DayKey) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM habit_completions WHERE habit_id = $1 AND day = $2::date`,
		habitID, day.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete completion: %w", err)
	}
	return nil
}

// DeleteByHabitID は指定習慣の全完了記録を削除する。
func (r *PostgresCompletionRepo) DeleteByHabitID(ctx context.Context, habitID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM habit_completions WHERE habit_id = $1`,
		habitID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete completions: %w", err)
	}
	return nil
}

// ListHabitIDsCompletedOn は指定習慣集合のうち指定日に完了記録を持つ習慣IDを返す。
func (r *PostgresCompletionRepo) ListHabitIDsCompletedOn(ctx context.Context, habitIDs []string, day model.DayKey) ([]string, error) {
	if len(habitIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT habit_id
		 FROM habit_completions
		 WHERE habit_id = ANY($1) AND day = $2::date`,
		pq.Array(habitIDs), day.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed habit IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan habit ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habit IDs: %w", err)
	}

	return ids, nil
}

// ListByHabitIDsInWindow は指定習慣集合の[startDay, endDay]の完了記録を返す。
func (r *PostgresCompletionRepo) ListByHabitIDsInWindow(ctx context.Context, habitIDs []string, startDay, endDay model.DayKey) ([]model.CompletionDay, error) {
	if len(habitIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT habit_id, to_char(day, 'YYYY-MM-DD')
		 FROM habit_completions
		 WHERE habit_id = ANY($1) AND day >= $2::date AND day <= $3::date
		 ORDER BY day ASC`,
		pq.Array(habitIDs), startDay.String(), endDay.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions in window: %w", err)
	}
	defer rows.Close()

	var completions []model.CompletionDay
	for rows.Next() {
		var c model.CompletionDay
		var day string
		if err := rows.Scan(&c.HabitID, &day); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		c.Day = model.DayKey(day)
		completions = append(completions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completions: %w", err)
	}

	return completions, nil
}

// compile-time interface check
var _ CompletionRepository = (*PostgresCompletionRepo)(nil)

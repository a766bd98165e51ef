package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/habitflow/internal/model"
)

// PostgresHabitRepo はPostgreSQLを使用した習慣リポジトリ。
type PostgresHabitRepo struct {
	db *sql.DB
}

// NewPostgresHabitRepo はPostgresHabitRepoを生成する。
func NewPostgresHabitRepo(db *sql.DB) *PostgresHabitRepo {
	return &PostgresHabitRepo{db: db}
}

const habitColumns = `id, owner_id, name, description, frequency, frequency_label,
	current_streak, best_streak, created_at, updated_at`

// scanHabit は1行分の習慣をスキャンする。
func scanHabit(row interface{ Scan(dest ...any) error }) (*model.Habit, error) {
	habit := &model.Habit{}
	err := row.Scan(
		&habit.ID, &habit.OwnerID, &habit.Name, &habit.Description,
		&habit.Frequency, &habit.FrequencyLabel,
		&habit.CurrentStreak, &habit.BestStreak,
		&habit.CreatedAt, &habit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return habit, nil
}

// FindByID は指定IDの習慣を取得する。見つからない場合はnilを返す。
func (r *PostgresHabitRepo) FindByID(ctx context.Context, id string) (*model.Habit, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = $1`,
		id,
	)

	habit, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find habit by ID: %w", err)
	}

	return habit, nil
}

// ListByOwnerID は指定ユーザーの習慣一覧を作成日昇順で返す。
func (r *PostgresHabitRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Habit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE owner_id = $1 ORDER BY created_at ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	var habits []*model.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}

	return habits, nil
}

// Create は習慣を作成する。
func (r *PostgresHabitRepo) Create(ctx context.Context, habit *model.Habit) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO habits (id, owner_id, name, description, frequency, frequency_label,
		 current_streak, best_streak, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		habit.ID, habit.OwnerID, habit.Name, habit.Description,
		habit.Frequency, habit.FrequencyLabel,
		habit.CurrentStreak, habit.BestStreak,
		habit.CreatedAt, habit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

// Update は習慣の名前・説明・頻度を更新する。
func (r *PostgresHabitRepo) Update(ctx context.Context, habit *model.Habit) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE habits
		 SET name = $2, description = $3, frequency = $4, frequency_label = $5, updated_at = $6
		 WHERE id = $1`,
		habit.ID, habit.Name, habit.Description, habit.Frequency, habit.FrequencyLabel, habit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("habit not found: %s", habit.ID)
	}
	return nil
}

// UpdateStreaks は習慣の非正規化ストリークフィールドのみを更新する。
func (r *PostgresHabitRepo) UpdateStreaks(ctx context.Context, habitID string, currentStreak, bestStreak int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE habits
		 SET current_streak = $2, best_streak = $3, updated_at = now()
		 WHERE id = $1`,
		habitID, currentStreak, bestStreak,
	)
	if err != nil {
		return fmt.Errorf("failed to update habit streaks: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("habit not found: %s", habitID)
	}
	return nil
}

// Delete は指定IDの習慣を削除する。関連する完了記録はCASCADE削除される。
func (r *PostgresHabitRepo) Delete(ctx context.Context, habitID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM habits WHERE id = $1`,
		habitID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("habit not found: %s", habitID)
	}
	return nil
}

// compile-time interface check
var _ HabitRepository = (*PostgresHabitRepo)(nil)

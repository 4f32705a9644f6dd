package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stsysd/hibi/model"
)

const (
	pgSelectHabits = `
		SELECT h.id, h.name, h.created_at, h.updated_at,
			COALESCE(array_agg(to_char(c.day, 'YYYY-MM-DD') ORDER BY c.day) FILTER (WHERE c.day IS NOT NULL), '{}')
		FROM habits h
		LEFT JOIN completions c ON c.habit_id = h.id`

	pgListHabits = pgSelectHabits + `
		GROUP BY h.id
		ORDER BY h.created_at ASC, h.id ASC`

	pgGetHabit = pgSelectHabits + `
		WHERE h.id = $1
		GROUP BY h.id`

	pgCreateHabit = `INSERT INTO habits (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`

	pgUpdateHabit = `UPDATE habits SET name = $2, updated_at = $3 WHERE id = $1`

	pgDeleteHabit = `DELETE FROM habits WHERE id = $1`

	pgDeleteCompletions = `DELETE FROM completions WHERE habit_id = $1`

	// 達成日は配列で一括挿入する
	pgInsertCompletions = `
		INSERT INTO completions (habit_id, day)
		SELECT $1, d FROM unnest($2::date[]) AS d`
)

// PostgresStore はPostgreSQLを使用したStoreの実装です。
type PostgresStore struct {
	conn *sql.DB
}

// NewPostgresStore は新しいPostgresStoreを作成します。
// migrate が nil でなければ接続直後に実行されます。
func NewPostgresStore(connStr string, migrate func(*sql.DB) error) (*PostgresStore, error) {
	connector, err := pq.NewConnector(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}
	conn := sql.OpenDB(connector)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, model.NewTransportError("connect to PostgreSQL database", err)
	}

	if migrate != nil {
		if err := migrate(conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return &PostgresStore{conn: conn}, nil
}

// Close はデータベース接続を閉じます。
func (s *PostgresStore) Close() error {
	return s.conn.Close()
}

// ListHabits はすべての習慣を取得します。
func (s *PostgresStore) ListHabits(ctx context.Context) ([]*model.Habit, error) {
	rows, err := s.conn.QueryContext(ctx, pgListHabits)
	if err != nil {
		return nil, model.NewTransportError("list habits", err)
	}
	defer rows.Close()

	habits := []*model.Habit{}
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewTransportError("list habits", err)
	}
	return habits, nil
}

// CreateHabit は新しい習慣をデータベースに保存します。
func (s *PostgresStore) CreateHabit(ctx context.Context, habit *model.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, "create habit", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, pgCreateHabit, habit.ID, habit.Name, habit.CreatedAt.UTC(), habit.UpdatedAt.UTC())
		if err != nil {
			return model.NewTransportError("create habit", err)
		}
		return pgInsertDays(ctx, tx, habit)
	})
}

// GetHabit は指定されたIDの習慣を取得します。
func (s *PostgresStore) GetHabit(ctx context.Context, id uuid.UUID) (*model.Habit, error) {
	return pgGetHabitBy(ctx, s.conn, id)
}

// UpdateHabitName は習慣名を変更します。
func (s *PostgresStore) UpdateHabitName(ctx context.Context, id uuid.UUID, name string) (*model.Habit, error) {
	n, err := model.NewHabitName(name)
	if err != nil {
		return nil, err
	}

	var habit *model.Habit
	err = s.withTx(ctx, "update habit", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, pgUpdateHabit, id, n.String(), time.Now().UTC())
		if err := checkAffected(result, err, "update habit"); err != nil {
			return err
		}
		habit, err = pgGetHabitBy(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return habit, nil
}

// DeleteHabit は指定されたIDの習慣を削除します。
func (s *PostgresStore) DeleteHabit(ctx context.Context, id uuid.UUID) (*model.Habit, error) {
	var habit *model.Habit
	err := s.withTx(ctx, "delete habit", func(tx *sql.Tx) error {
		var err error
		habit, err = pgGetHabitBy(ctx, tx, id)
		if err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, pgDeleteHabit, id)
		return checkAffected(result, err, "delete habit")
	})
	if err != nil {
		return nil, err
	}
	return habit, nil
}

// SaveHabit は習慣の名前と達成日を上書き保存します。
func (s *PostgresStore) SaveHabit(ctx context.Context, habit *model.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, "save habit", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, pgUpdateHabit, habit.ID, habit.Name, habit.UpdatedAt.UTC())
		if err := checkAffected(result, err, "save habit"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, pgDeleteCompletions, habit.ID); err != nil {
			return model.NewTransportError("delete completions", err)
		}
		return pgInsertDays(ctx, tx, habit)
	})
}

func (s *PostgresStore) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return model.NewTransportError(op, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return model.NewTransportError(op, fmt.Errorf("failed to commit transaction: %w", err))
	}
	tx = nil
	return nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func pgGetHabitBy(ctx context.Context, q rowQuerier, id uuid.UUID) (*model.Habit, error) {
	habit, err := scanHabit(q.QueryRowContext(ctx, pgGetHabit, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrHabitNotFound
	}
	return habit, err
}

func pgInsertDays(ctx context.Context, tx *sql.Tx, habit *model.Habit) error {
	if len(habit.CompletedDates) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, pgInsertCompletions, habit.ID, pq.Array(formatDays(habit.CompletedDates)))
	if err != nil {
		return model.NewTransportError("create completions", err)
	}
	return nil
}

func scanHabit(row scanner) (*model.Habit, error) {
	var (
		id                   uuid.UUID
		name                 string
		createdAt, updatedAt time.Time
		dayStrs              pq.StringArray
	)
	if err := row.Scan(&id, &name, &createdAt, &updatedAt, &dayStrs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, model.NewTransportError("scan habit", err)
	}

	days, err := parseDays(dayStrs)
	if err != nil {
		return nil, err
	}
	return model.LoadHabit(id, name, days, createdAt, updatedAt)
}

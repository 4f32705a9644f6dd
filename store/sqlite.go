package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stsysd/hibi/db"
	"github.com/stsysd/hibi/model"
)

// SQLiteStore はSQLiteを使用したStoreの実装です。
type SQLiteStore struct {
	conn    *sql.DB
	queries *db.Queries
}

// NewSQLiteStore は新しいSQLiteStoreを作成します。
// migrate が nil でなければ接続直後に実行されます。
func NewSQLiteStore(dataDir string, migrate func(*sql.DB) error) (*SQLiteStore, error) {
	// データディレクトリの作成（存在しない場合）
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// SQLiteデータベースファイルのパス
	dbPath := filepath.Join(dataDir, "hibi.db")

	// SQLiteデータベースへの接続（外部キー制約は接続ごとに有効化する）
	conn, err := sql.Open("sqlite3", "file:"+dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, model.NewTransportError("connect to SQLite database", err)
	}

	if migrate != nil {
		if err := migrate(conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return &SQLiteStore{
		conn:    conn,
		queries: db.New(conn),
	}, nil
}

// Close はデータベース接続を閉じます。
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// ListHabits はすべての習慣を取得します。
func (s *SQLiteStore) ListHabits(ctx context.Context) ([]*model.Habit, error) {
	// sqlcで生成されたクエリを使用
	dbHabits, err := s.queries.ListHabits(ctx)
	if err != nil {
		return nil, model.NewTransportError("list habits", err)
	}

	dbCompletions, err := s.queries.ListCompletions(ctx)
	if err != nil {
		return nil, model.NewTransportError("list completions", err)
	}

	// 習慣IDごとに達成日をまとめる
	completions := make(map[string][]string, len(dbHabits))
	for _, c := range dbCompletions {
		completions[c.HabitID] = append(completions[c.HabitID], c.Day)
	}

	habits := make([]*model.Habit, 0, len(dbHabits))
	for _, dbHabit := range dbHabits {
		habit, err := toHabit(dbHabit, completions[dbHabit.ID])
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}

	return habits, nil
}

// CreateHabit は新しい習慣をデータベースに保存します。
func (s *SQLiteStore) CreateHabit(ctx context.Context, habit *model.Habit) error {
	// バリデーション
	if err := habit.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, "create habit", func(q *db.Queries) error {
		err := q.CreateHabit(ctx, db.CreateHabitParams{
			ID:        habit.ID.String(),
			Name:      habit.Name,
			CreatedAt: formatTime(habit.CreatedAt),
			UpdatedAt: formatTime(habit.UpdatedAt),
		})
		if err != nil {
			return model.NewTransportError("create habit", err)
		}
		return insertCompletions(ctx, q, habit)
	})
}

// GetHabit は指定されたIDの習慣を取得します。
func (s *SQLiteStore) GetHabit(ctx context.Context, id uuid.UUID) (*model.Habit, error) {
	return getHabit(ctx, s.queries, id)
}

// UpdateHabitName は習慣名を変更します。
func (s *SQLiteStore) UpdateHabitName(ctx context.Context, id uuid.UUID, name string) (*model.Habit, error) {
	n, err := model.NewHabitName(name)
	if err != nil {
		return nil, err
	}

	var habit *model.Habit
	err = s.withTx(ctx, "update habit", func(q *db.Queries) error {
		result, err := q.UpdateHabit(ctx, db.UpdateHabitParams{
			Name:      n.String(),
			UpdatedAt: formatTime(time.Now()),
			ID:        id.String(),
		})
		if err := checkAffected(result, err, "update habit"); err != nil {
			return err
		}

		habit, err = getHabit(ctx, q, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return habit, nil
}

// DeleteHabit は指定されたIDの習慣を削除します。
// 達成日は外部キー制約によって一緒に削除されます。
func (s *SQLiteStore) DeleteHabit(ctx context.Context, id uuid.UUID) (*model.Habit, error) {
	var habit *model.Habit
	err := s.withTx(ctx, "delete habit", func(q *db.Queries) error {
		var err error
		habit, err = getHabit(ctx, q, id)
		if err != nil {
			return err
		}

		result, err := q.DeleteHabit(ctx, id.String())
		return checkAffected(result, err, "delete habit")
	})
	if err != nil {
		return nil, err
	}
	return habit, nil
}

// SaveHabit は習慣の名前と達成日を上書き保存します。
func (s *SQLiteStore) SaveHabit(ctx context.Context, habit *model.Habit) error {
	// バリデーション
	if err := habit.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, "save habit", func(q *db.Queries) error {
		// 習慣の基本情報を更新
		result, err := q.UpdateHabit(ctx, db.UpdateHabitParams{
			Name:      habit.Name,
			UpdatedAt: formatTime(habit.UpdatedAt),
			ID:        habit.ID.String(),
		})
		if err := checkAffected(result, err, "save habit"); err != nil {
			return err
		}

		// 既存の達成日を削除してから入れ直す
		if err := q.DeleteHabitCompletions(ctx, habit.ID.String()); err != nil {
			return model.NewTransportError("delete completions", err)
		}
		return insertCompletions(ctx, q, habit)
	})
}

// withTx はトランザクション内で fn を実行します。
func (s *SQLiteStore) withTx(ctx context.Context, op string, fn func(q *db.Queries) error) error {
	// トランザクションの開始
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return model.NewTransportError(op, fmt.Errorf("failed to begin transaction: %w", err))
	}

	// トランザクションをロールバックするための遅延関数
	defer func() {
		if tx != nil {
			tx.Rollback() // 成功した場合は既にnilになっているためエラーは無視
		}
	}()

	// sqlcで生成されたクエリを使用（トランザクション内で）
	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}

	// トランザクションのコミット
	if err := tx.Commit(); err != nil {
		return model.NewTransportError(op, fmt.Errorf("failed to commit transaction: %w", err))
	}
	tx = nil // コミットが成功したのでnilにして遅延関数でのロールバックを防ぐ

	return nil
}

func getHabit(ctx context.Context, q *db.Queries, id uuid.UUID) (*model.Habit, error) {
	dbHabit, err := q.GetHabit(ctx, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrHabitNotFound
	}
	if err != nil {
		return nil, model.NewTransportError("get habit", err)
	}

	days, err := q.ListHabitCompletions(ctx, dbHabit.ID)
	if err != nil {
		return nil, model.NewTransportError("list completions", err)
	}

	return toHabit(dbHabit, days)
}

func insertCompletions(ctx context.Context, q *db.Queries, habit *model.Habit) error {
	// 達成日を個別に挿入
	for _, day := range formatDays(habit.CompletedDates) {
		err := q.CreateCompletion(ctx, db.CreateCompletionParams{
			HabitID: habit.ID.String(),
			Day:     day,
		})
		if err != nil {
			return model.NewTransportError("create completion", fmt.Errorf("day %s: %w", day, err))
		}
	}
	return nil
}

// checkAffected は更新・削除の結果を確認し、対象がなければ ErrHabitNotFound を返します。
func checkAffected(result sql.Result, err error, op string) error {
	if err != nil {
		return model.NewTransportError(op, err)
	}

	// 更新された行数を確認
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.NewTransportError(op, fmt.Errorf("failed to get rows affected: %w", err))
	}

	if rowsAffected == 0 {
		return model.ErrHabitNotFound
	}
	return nil
}

func toHabit(dbHabit db.Habit, dayStrs []string) (*model.Habit, error) {
	// UUIDの解析
	id, err := uuid.Parse(dbHabit.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID in database: %w", err)
	}

	// 文字列から時間に変換
	createdAt, err := time.Parse(time.RFC3339Nano, dbHabit.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, dbHabit.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	days, err := parseDays(dayStrs)
	if err != nil {
		return nil, err
	}

	return model.LoadHabit(id, dbHabit.Name, days, createdAt, updatedAt)
}

// timeFormat は並び順が時刻順と一致するよう小数部の桁数を固定したRFC3339形式です。
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime は日時をUTCの timeFormat に統一します。
func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

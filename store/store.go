// Package store は、習慣データの永続化機能を提供します。
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stsysd/hibi/config"
	"github.com/stsysd/hibi/db"
	"github.com/stsysd/hibi/model"
)

// Store は習慣の保存と取得を行うインターフェースです。
// 見つからない場合は model.ErrHabitNotFound、接続や実行に失敗した場合は *model.TransportError を返します。
type Store interface {
	// ListHabits はすべての習慣を作成日時順に取得します。
	ListHabits(ctx context.Context) ([]*model.Habit, error)
	// CreateHabit は新しい習慣を作成します。
	CreateHabit(ctx context.Context, habit *model.Habit) error
	// UpdateHabitName は習慣名を変更し、変更後の習慣を返します。
	UpdateHabitName(ctx context.Context, id uuid.UUID, name string) (*model.Habit, error)
	// DeleteHabit は習慣を削除し、削除した習慣を返します。
	DeleteHabit(ctx context.Context, id uuid.UUID) (*model.Habit, error)
	// GetHabit は指定されたIDの習慣を取得します。
	GetHabit(ctx context.Context, id uuid.UUID) (*model.Habit, error)
	// SaveHabit は習慣全体（名前と達成日）を上書き保存します。
	SaveHabit(ctx context.Context, habit *model.Habit) error
	// Close はストアの接続を閉じます。
	Close() error
}

// Open は設定に応じたストアを開きます。
// DatabaseURL が postgres:// で始まる場合はPostgreSQL、それ以外はデータディレクトリ内のSQLiteを使用します。
func Open(cfg *config.Config) (Store, error) {
	if isPostgresURL(cfg.DatabaseURL) {
		s, err := NewPostgresStore(cfg.DatabaseURL, db.MigratePostgres)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return s, nil
	}
	if cfg.DatabaseURL != "" {
		return nil, fmt.Errorf("unsupported database URL scheme: %q", cfg.DatabaseURL)
	}

	s, err := NewSQLiteStore(cfg.DataDir, db.Migrate)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	return s, nil
}

func isPostgresURL(u string) bool {
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}

// parseDays はYYYY-MM-DD形式の文字列をDayに変換します。
func parseDays(values []string) ([]model.Day, error) {
	days := make([]model.Day, 0, len(values))
	for _, v := range values {
		d, err := model.ParseDay(v, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid day in database: %w", err)
		}
		days = append(days, d)
	}
	return days, nil
}

func formatDays(days []model.Day) []string {
	values := make([]string, 0, len(days))
	for _, d := range days {
		values = append(values, d.String())
	}
	return values
}

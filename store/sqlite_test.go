package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stsysd/hibi/config"
	"github.com/stsysd/hibi/db"
	"github.com/stsysd/hibi/model"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// テスト用のSQLiteストアを一時ディレクトリに初期化
	store, err := NewSQLiteStore(t.TempDir(), db.Migrate)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestHabit(t *testing.T, name string, days ...model.Day) *model.Habit {
	t.Helper()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	habit, err := model.LoadHabit(uuid.New(), name, days, now, now)
	if err != nil {
		t.Fatalf("Failed to build habit: %v", err)
	}
	return habit
}

func TestSQLiteStore_CreateAndGetHabit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	habit := newTestHabit(t, "Read", model.NewDay(2025, 4, 30), model.NewDay(2025, 4, 28))
	if err := store.CreateHabit(ctx, habit); err != nil {
		t.Fatalf("Failed to create habit: %v", err)
	}

	got, err := store.GetHabit(ctx, habit.ID)
	if err != nil {
		t.Fatalf("Failed to get habit: %v", err)
	}

	if diff := cmp.Diff(habit, got); diff != "" {
		t.Errorf("Habit mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStore_CreateHabitValidation(t *testing.T) {
	store := setupTestStore(t)

	habit := newTestHabit(t, "Read")
	habit.Name = "  "
	err := store.CreateHabit(context.Background(), habit)

	var validationErr *model.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}

func TestSQLiteStore_GetHabitNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetHabit(context.Background(), uuid.New())
	if !errors.Is(err, model.ErrHabitNotFound) {
		t.Errorf("Expected ErrHabitNotFound, got %v", err)
	}
}

func TestSQLiteStore_ListHabits(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// 空の場合は空スライス
	habits, err := store.ListHabits(ctx)
	if err != nil {
		t.Fatalf("Failed to list habits: %v", err)
	}
	if habits == nil || len(habits) != 0 {
		t.Errorf("Expected empty list, got %v", habits)
	}

	first := newTestHabit(t, "Walk", model.NewDay(2025, 1, 1))
	second := newTestHabit(t, "Sleep early")
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	second.UpdatedAt = second.CreatedAt
	third := newTestHabit(t, "Journal", model.NewDay(2025, 2, 1), model.NewDay(2025, 2, 2))
	third.CreatedAt = first.CreatedAt.Add(2 * time.Hour)
	third.UpdatedAt = third.CreatedAt

	for _, h := range []*model.Habit{third, first, second} {
		if err := store.CreateHabit(ctx, h); err != nil {
			t.Fatalf("Failed to create habit: %v", err)
		}
	}

	habits, err = store.ListHabits(ctx)
	if err != nil {
		t.Fatalf("Failed to list habits: %v", err)
	}

	// 作成日時の昇順で、それぞれの達成日を保持していること
	want := []*model.Habit{first, second, third}
	if diff := cmp.Diff(want, habits); diff != "" {
		t.Errorf("ListHabits mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStore_UpdateHabitName(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	habit := newTestHabit(t, "Run", model.NewDay(2025, 3, 3))
	if err := store.CreateHabit(ctx, habit); err != nil {
		t.Fatalf("Failed to create habit: %v", err)
	}

	updated, err := store.UpdateHabitName(ctx, habit.ID, "  Run 5k ")
	if err != nil {
		t.Fatalf("Failed to update habit: %v", err)
	}
	if updated.Name != "Run 5k" {
		t.Errorf("Expected name %q, got %q", "Run 5k", updated.Name)
	}
	if !updated.UpdatedAt.After(habit.UpdatedAt) {
		t.Error("Expected UpdatedAt to advance")
	}
	// 名前の変更で達成日は変わらない
	if diff := cmp.Diff(habit.CompletedDates, updated.CompletedDates); diff != "" {
		t.Errorf("CompletedDates changed (-want +got):\n%s", diff)
	}

	if _, err := store.UpdateHabitName(ctx, habit.ID, ""); err == nil {
		t.Error("Expected error for empty name")
	}
	if _, err := store.UpdateHabitName(ctx, uuid.New(), "x"); !errors.Is(err, model.ErrHabitNotFound) {
		t.Errorf("Expected ErrHabitNotFound, got %v", err)
	}
}

func TestSQLiteStore_DeleteHabit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	habit := newTestHabit(t, "Floss", model.NewDay(2025, 1, 10))
	if err := store.CreateHabit(ctx, habit); err != nil {
		t.Fatalf("Failed to create habit: %v", err)
	}

	deleted, err := store.DeleteHabit(ctx, habit.ID)
	if err != nil {
		t.Fatalf("Failed to delete habit: %v", err)
	}
	if diff := cmp.Diff(habit, deleted); diff != "" {
		t.Errorf("Deleted habit mismatch (-want +got):\n%s", diff)
	}

	if _, err := store.GetHabit(ctx, habit.ID); !errors.Is(err, model.ErrHabitNotFound) {
		t.Errorf("Expected ErrHabitNotFound after delete, got %v", err)
	}

	// 存在しないIDの削除は成功扱いにしない
	if _, err := store.DeleteHabit(ctx, habit.ID); !errors.Is(err, model.ErrHabitNotFound) {
		t.Errorf("Expected ErrHabitNotFound on second delete, got %v", err)
	}
}

func TestSQLiteStore_DeleteHabitCascadesCompletions(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	habit := newTestHabit(t, "Stretch", model.NewDay(2025, 1, 1), model.NewDay(2025, 1, 2))
	if err := store.CreateHabit(ctx, habit); err != nil {
		t.Fatalf("Failed to create habit: %v", err)
	}
	if _, err := store.DeleteHabit(ctx, habit.ID); err != nil {
		t.Fatalf("Failed to delete habit: %v", err)
	}

	completions, err := store.queries.ListCompletions(ctx)
	if err != nil {
		t.Fatalf("Failed to list completions: %v", err)
	}
	if len(completions) != 0 {
		t.Errorf("Expected completions to be deleted with the habit, got %v", completions)
	}
}

func TestSQLiteStore_SaveHabitToggle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := []model.Day{model.NewDay(2025, 6, 1), model.NewDay(2025, 6, 2)}
	habit := newTestHabit(t, "Meditate", base...)
	if err := store.CreateHabit(ctx, habit); err != nil {
		t.Fatalf("Failed to create habit: %v", err)
	}

	target := model.NewDay(2025, 6, 3)
	for i, wantCompleted := range []bool{true, false} {
		loaded, err := store.GetHabit(ctx, habit.ID)
		if err != nil {
			t.Fatalf("toggle %d: failed to get habit: %v", i, err)
		}
		loaded.Toggle(target)
		if err := store.SaveHabit(ctx, loaded); err != nil {
			t.Fatalf("toggle %d: failed to save habit: %v", i, err)
		}

		saved, err := store.GetHabit(ctx, habit.ID)
		if err != nil {
			t.Fatalf("toggle %d: failed to reload habit: %v", i, err)
		}
		if saved.Completed(target) != wantCompleted {
			t.Errorf("toggle %d: expected completed=%v", i, wantCompleted)
		}
	}

	final, err := store.GetHabit(ctx, habit.ID)
	if err != nil {
		t.Fatalf("Failed to get habit: %v", err)
	}
	if diff := cmp.Diff(base, final.CompletedDates); diff != "" {
		t.Errorf("Expected original set after two toggles (-want +got):\n%s", diff)
	}
}

func TestSQLiteStore_SaveHabitNotFound(t *testing.T) {
	store := setupTestStore(t)

	habit := newTestHabit(t, "Ghost", model.NewDay(2025, 1, 1))
	if err := store.SaveHabit(context.Background(), habit); !errors.Is(err, model.ErrHabitNotFound) {
		t.Errorf("Expected ErrHabitNotFound, got %v", err)
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewSQLiteStore(dir, db.Migrate)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	habit := newTestHabit(t, "Persist", model.NewDay(2024, 2, 29))
	if err := s1.CreateHabit(ctx, habit); err != nil {
		t.Fatalf("Failed to create habit: %v", err)
	}
	s1.Close()

	// マイグレーションは再実行しても問題ないこと
	s2, err := NewSQLiteStore(dir, db.Migrate)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer s2.Close()

	got, err := s2.GetHabit(ctx, habit.ID)
	if err != nil {
		t.Fatalf("Failed to get habit after reopen: %v", err)
	}
	if diff := cmp.Diff(habit, got); diff != "" {
		t.Errorf("Habit mismatch after reopen (-want +got):\n%s", diff)
	}
}

func TestSQLiteStore_TransportError(t *testing.T) {
	store := setupTestStore(t)
	store.Close()

	_, err := store.ListHabits(context.Background())
	var transportErr *model.TransportError
	if !errors.As(err, &transportErr) {
		t.Errorf("Expected TransportError on closed store, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir()}
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("Expected *SQLiteStore, got %T", s)
	}

	if _, err := Open(&config.Config{DataDir: t.TempDir(), DatabaseURL: "mysql://localhost/hibi"}); err == nil {
		t.Error("Expected error for unsupported database URL")
	}
}

// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Habit は習慣エンティティを表すモデルです。
type Habit struct {
	ID             uuid.UUID `json:"id"`              // 習慣ID
	Name           string    `json:"name"`            // 習慣名
	CompletedDates []Day     `json:"completed_dates"` // 達成日（昇順、重複なし）
	CreatedAt      time.Time `json:"created_at"`      // 作成日時
	UpdatedAt      time.Time `json:"updated_at"`      // 更新日時
}

// NewHabit は新しいHabitインスタンスを作成します。
func NewHabit(name string) (*Habit, error) {
	now := time.Now()
	h := &Habit{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(name),
		CompletedDates: []Day{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// LoadHabit は既存のHabitインスタンスを作成します。
// 達成日は並べ替えられ、重複は取り除かれます。
func LoadHabit(id uuid.UUID, name string, completed []Day, createdAt, updatedAt time.Time) (*Habit, error) {
	h := &Habit{
		ID:             id,
		Name:           name,
		CompletedDates: normalizeDays(completed),
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Validate は習慣のデータバリデーションを行います。
func (h *Habit) Validate() error {
	if h.ID == uuid.Nil {
		return errors.New("id is required")
	}
	if strings.TrimSpace(h.Name) == "" {
		return NewValidationError("name is required")
	}
	if h.CreatedAt.IsZero() {
		return errors.New("created_at is required")
	}
	if h.UpdatedAt.IsZero() {
		return errors.New("updated_at is required")
	}
	return nil
}

// Rename は習慣名を変更します。
func (h *Habit) Rename(name string) error {
	n, err := NewHabitName(name)
	if err != nil {
		return err
	}
	h.Name = n.String()
	h.UpdatedAt = time.Now()
	return nil
}

// Completed は指定日が達成済みかどうかを返します。
func (h *Habit) Completed(day Day) bool {
	_, found := slices.BinarySearch(h.CompletedDates, day)
	return found
}

// Toggle は指定日の達成状態を反転します。
// 未達成なら追加し、達成済みなら取り除きます。戻り値は反転後の状態です。
func (h *Habit) Toggle(day Day) bool {
	i, found := slices.BinarySearch(h.CompletedDates, day)
	h.UpdatedAt = time.Now()
	if found {
		h.CompletedDates = slices.Delete(h.CompletedDates, i, i+1)
		return false
	}
	h.CompletedDates = slices.Insert(h.CompletedDates, i, day)
	return true
}

// normalizeDays は日付を昇順に並べ替え、重複を取り除きます。
func normalizeDays(days []Day) []Day {
	out := slices.Clone(days)
	if out == nil {
		return []Day{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stsysd/hibi/calendar"
	"github.com/stsysd/hibi/model"
)

// HabitResponse は習慣に現在のストリークを加えたレスポンスです。
type HabitResponse struct {
	*model.Habit
	Streak int `json:"streak"`
}

// ToggleResponse はトグル後の習慣と対象日の状態を返します。
type ToggleResponse struct {
	HabitResponse
	Date      model.Day `json:"date"`
	Completed bool      `json:"completed"`
}

// StreakResponse はストリーク取得のレスポンスです。
type StreakResponse struct {
	HabitID string    `json:"habit_id"`
	Today   model.Day `json:"today"`
	Streak  int       `json:"streak"`
}

func (s *Server) habitResponse(h *model.Habit) HabitResponse {
	return HabitResponse{Habit: h, Streak: calendar.Streak(h.CompletedDates, s.today())}
}

// HabitPathParams represents the habit ID taken from the URL path.
type HabitPathParams struct {
	HabitID *model.HabitID
}

// NewHabitPathParams creates parameters from the {habit_id} path segment.
func NewHabitPathParams(r *http.Request) (*HabitPathParams, error) {
	habitID, err := model.NewHabitID(r.PathValue("habit_id"))
	if err != nil {
		return nil, err
	}
	return &HabitPathParams{HabitID: habitID}, nil
}

// CreateHabitParams represents parameters for creating a habit.
type CreateHabitParams struct {
	Name *model.HabitName
}

// NewCreateHabitParams creates parameters for habit creation from HTTP request.
func NewCreateHabitParams(r *http.Request) (*CreateHabitParams, error) {
	// Parse request body
	var requestBody struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("invalid request body: %v", err))
	}

	name, err := model.NewHabitName(requestBody.Name)
	if err != nil {
		return nil, err
	}

	return &CreateHabitParams{Name: name}, nil
}

// UpdateHabitParams represents parameters for renaming a habit.
type UpdateHabitParams struct {
	HabitID *model.HabitID
	Name    *model.HabitName
}

// NewUpdateHabitParams creates parameters for habit update from HTTP request.
func NewUpdateHabitParams(r *http.Request) (*UpdateHabitParams, error) {
	path, err := NewHabitPathParams(r)
	if err != nil {
		return nil, err
	}

	var requestBody struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("invalid request body: %v", err))
	}

	name, err := model.NewHabitName(requestBody.Name)
	if err != nil {
		return nil, err
	}

	return &UpdateHabitParams{HabitID: path.HabitID, Name: name}, nil
}

// ToggleHabitParams represents parameters for toggling a day.
type ToggleHabitParams struct {
	HabitID *model.HabitID
	Date    *model.TargetDate
}

// NewToggleHabitParams creates parameters for toggling from HTTP request.
// The body is optional; a missing date means today.
func NewToggleHabitParams(r *http.Request, now time.Time, loc *time.Location) (*ToggleHabitParams, error) {
	path, err := NewHabitPathParams(r)
	if err != nil {
		return nil, err
	}

	var requestBody struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil && !errors.Is(err, io.EOF) {
		return nil, model.NewValidationError(fmt.Sprintf("invalid request body: %v", err))
	}

	date, err := model.NewTargetDate(requestBody.Date, now, loc)
	if err != nil {
		return nil, err
	}

	return &ToggleHabitParams{HabitID: path.HabitID, Date: date}, nil
}

// handleListHabits は習慣一覧を取得するハンドラーです。
func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := s.store.ListHabits(r.Context())
	if err != nil {
		writeStoreError(w, err, "list habits")
		return
	}

	resp := make([]HabitResponse, 0, len(habits))
	for _, h := range habits {
		resp = append(resp, s.habitResponse(h))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateHabit は習慣作成エンドポイントのハンドラーです。
func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	params, err := NewCreateHabitParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// 新しい習慣の作成
	habit, err := model.NewHabit(params.Name.String())
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// 習慣の保存
	if err := s.store.CreateHabit(r.Context(), habit); err != nil {
		writeStoreError(w, err, "create habit")
		return
	}

	writeJSON(w, http.StatusCreated, s.habitResponse(habit))
}

// handleGetHabit は特定のIDの習慣を取得するハンドラーです。
func (s *Server) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	params, err := NewHabitPathParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	habit, err := s.store.GetHabit(r.Context(), params.HabitID.UUID())
	if err != nil {
		writeStoreError(w, err, "retrieve habit")
		return
	}

	writeJSON(w, http.StatusOK, s.habitResponse(habit))
}

// handleUpdateHabit は習慣名を変更するハンドラーです。
func (s *Server) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	params, err := NewUpdateHabitParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	habit, err := s.store.UpdateHabitName(r.Context(), params.HabitID.UUID(), params.Name.String())
	if err != nil {
		writeStoreError(w, err, "update habit")
		return
	}

	writeJSON(w, http.StatusOK, s.habitResponse(habit))
}

// handleDeleteHabit は習慣を削除し、削除した習慣を返すハンドラーです。
// 存在しないIDは404になります。
func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	params, err := NewHabitPathParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	habit, err := s.store.DeleteHabit(r.Context(), params.HabitID.UUID())
	if err != nil {
		writeStoreError(w, err, "delete habit")
		return
	}

	writeJSON(w, http.StatusOK, s.habitResponse(habit))
}

// handleToggleHabit は指定日の達成状態を反転するハンドラーです。
// 読み込みと保存の間に排他制御はなく、同時に反転した場合は後の保存が勝ちます。
func (s *Server) handleToggleHabit(w http.ResponseWriter, r *http.Request) {
	params, err := NewToggleHabitParams(r, s.now(), s.location())
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	habit, err := s.store.GetHabit(r.Context(), params.HabitID.UUID())
	if err != nil {
		writeStoreError(w, err, "retrieve habit")
		return
	}

	day := params.Date.Day()
	completed := habit.Toggle(day)

	if err := s.store.SaveHabit(r.Context(), habit); err != nil {
		writeStoreError(w, err, "toggle habit")
		return
	}

	writeJSON(w, http.StatusOK, ToggleResponse{
		HabitResponse: s.habitResponse(habit),
		Date:          day,
		Completed:     completed,
	})
}

// handleGetStreak は今日時点のストリークを返すハンドラーです。
func (s *Server) handleGetStreak(w http.ResponseWriter, r *http.Request) {
	params, err := NewHabitPathParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	habit, err := s.store.GetHabit(r.Context(), params.HabitID.UUID())
	if err != nil {
		writeStoreError(w, err, "retrieve habit")
		return
	}

	today := s.today()
	writeJSON(w, http.StatusOK, StreakResponse{
		HabitID: habit.ID.String(),
		Today:   today,
		Streak:  calendar.Streak(habit.CompletedDates, today),
	})
}

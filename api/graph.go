package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/stsysd/hibi/calendar"
	"github.com/stsysd/hibi/heatmap"
	"github.com/stsysd/hibi/model"
)

// CalendarResponse は年間グリッドの月ブロック一覧です。
type CalendarResponse struct {
	Year    int                   `json:"year"`
	Mode    calendar.Mode         `json:"mode"`
	Columns int                   `json:"columns"`
	Months  []calendar.MonthBlock `json:"months"`
}

// LayoutParams represents the year and layout mode of a calendar grid.
type LayoutParams struct {
	Year *model.Year
	Mode calendar.Mode
}

// NewLayoutParams creates layout parameters from the year string and the ?layout= query.
func NewLayoutParams(r *http.Request, yearStr string, now time.Time, loc *time.Location) (*LayoutParams, error) {
	year, err := model.NewYear(yearStr, now, loc)
	if err != nil {
		return nil, err
	}

	mode, err := calendar.ParseMode(r.URL.Query().Get("layout"))
	if err != nil {
		return nil, model.NewValidationError(err.Error())
	}

	return &LayoutParams{Year: year, Mode: mode}, nil
}

// Layout builds the calendar layout.
func (p *LayoutParams) Layout() *calendar.Layout {
	return calendar.NewLayout(p.Year.Int(), p.Mode)
}

// GetGraphParams represents parameters for getting a graph.
type GetGraphParams struct {
	HabitID *model.HabitID
	*LayoutParams
}

// NewGetGraphParams creates parameters for graph generation from HTTP request.
func NewGetGraphParams(r *http.Request, now time.Time, loc *time.Location) (*GetGraphParams, error) {
	path, err := NewHabitPathParams(r)
	if err != nil {
		return nil, err
	}

	layout, err := NewLayoutParams(r, r.URL.Query().Get("year"), now, loc)
	if err != nil {
		return nil, err
	}

	return &GetGraphParams{HabitID: path.HabitID, LayoutParams: layout}, nil
}

// handleGetCalendar は指定年の月ブロック一覧を返すハンドラーです。
func (s *Server) handleGetCalendar(w http.ResponseWriter, r *http.Request) {
	params, err := NewLayoutParams(r, r.PathValue("year"), s.now(), s.location())
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	layout := params.Layout()
	writeJSON(w, http.StatusOK, CalendarResponse{
		Year:    layout.Year,
		Mode:    layout.Mode,
		Columns: layout.Columns(),
		Months:  layout.Blocks,
	})
}

// handleGetGraph は指定習慣のヒートマップグラフを生成・返却するハンドラーです。
func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	params, err := NewGetGraphParams(r, s.now(), s.location())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// 習慣を取得（グラフ生成時のタイトル用）
	habit, err := s.store.GetHabit(r.Context(), params.HabitID.UUID())
	if err != nil {
		status := http.StatusInternalServerError
		if isNotFound(err) {
			status = http.StatusNotFound
		} else {
			logStoreError(err, "retrieve habit")
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	today := s.today()

	// SVGの生成
	opts := heatmap.DefaultOptions()
	opts.Colors = []string{"#ebedf0", "#40c463"}
	opts.FutureColor = "#f6f8fa"
	opts.HabitName = habit.Name
	opts.Streak = calendar.Streak(habit.CompletedDates, today)
	opts.Today = today

	svg := heatmap.GenerateYearlyHeatmapSVG(params.Layout(), habit.CompletedDates, opts)

	// レスポンスの返却
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	fmt.Fprint(w, svg)
}

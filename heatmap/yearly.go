// yearly.go
// Generates a GitHub-like yearly habit heatmap as an SVG string in Go.
package heatmap

import (
	"fmt"
	"html"
	"strings"

	"github.com/stsysd/hibi/calendar"
	"github.com/stsysd/hibi/model"
)

// CellPoint returns the top-left pixel of day's cell.
// ok is false when day is outside the layout's year.
func CellPoint(layout *calendar.Layout, day model.Day, opts *Options) (x, y int, ok bool) {
	if opts == nil {
		opts = DefaultOptions()
	}
	cell, ok := layout.Position(day)
	if !ok {
		return 0, 0, false
	}
	return columnX(layout, cell.Column, cell.Block, opts), opts.gridTop() + opts.CellPadding + cell.Row*(opts.CellSize+opts.CellPadding), true
}

func columnX(layout *calendar.Layout, column, block int, opts *Options) int {
	x := opts.CellPadding + column*(opts.CellSize+opts.CellPadding)
	if layout.Mode == calendar.Segmented {
		x += block * opts.MonthGutter
	}
	return x
}

// GenerateYearlyHeatmapSVG returns an SVG string representing the habit's year.
// completed may be unordered and contain days outside the layout's year.
func GenerateYearlyHeatmapSVG(layout *calendar.Layout, completed []model.Day, opts *Options) string {
	// default options
	if opts == nil {
		opts = DefaultOptions()
	}

	done := make(map[model.Day]struct{}, len(completed))
	for _, d := range completed {
		done[d] = struct{}{}
	}

	// compute dimensions
	titleHeight := opts.titleHeight()
	width := columnX(layout, layout.Columns(), len(layout.Blocks)-1, opts)
	height := opts.gridTop() + 7*(opts.CellSize+opts.CellPadding) + opts.CellPadding

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", width, height))
	sb.WriteString(fmt.Sprintf(`  <style>.label{font-family:%s;font-size:%dpx;fill:#666}.title{font-family:%s;font-size:%dpx;fill:#333;font-weight:bold}</style>`+"\n",
		opts.FontFamily, opts.FontSize, opts.FontFamily, opts.FontSize))

	// render title if habit name is provided
	if opts.HabitName != "" {
		title := fmt.Sprintf("%s (streak: %d)", html.EscapeString(opts.HabitName), opts.Streak)
		sb.WriteString(fmt.Sprintf(`  <text x="%d" y="%d" class="title">%s</text>`+"\n",
			opts.CellPadding, opts.FontSize, title))
	}

	// month labels
	monthLabelY := opts.FontSize + titleHeight
	for i, b := range layout.Blocks {
		x := columnX(layout, b.StartColumn, i, opts)
		sb.WriteString(fmt.Sprintf(`  <text x="%d" y="%d" class="label">%s</text>`+"\n",
			x, monthLabelY, b.Name))
	}

	for _, day := range layout.Days() {
		x, y, _ := CellPoint(layout, day, opts)
		_, isDone := done[day]
		fill := opts.color(isDone)
		if !isDone && opts.FutureColor != "" && day > opts.Today {
			fill = opts.FutureColor
		}
		key := day.String()

		// 各セルに矩形と、その中にtitle要素（ツールチップ）を追加
		sb.WriteString(fmt.Sprintf(`  <rect x="%d" y="%d" width="%d" height="%d" fill="%s" data-date="%s" data-completed="%t">`+"\n",
			x, y, opts.CellSize, opts.CellSize, fill, key, isDone))

		status := "not completed"
		if isDone {
			status = "completed"
		}
		sb.WriteString(fmt.Sprintf(`    <title>%s: %s</title>`+"\n", key, status))
		sb.WriteString(`  </rect>` + "\n")
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

package heatmap

import (
	"github.com/stsysd/hibi/model"
)

// Options configures rendering parameters.
type Options struct {
	CellSize    int      // size of each day cell (px)
	CellPadding int      // padding between cells (px)
	MonthGutter int      // extra space between month blocks in segmented layouts (px)
	Colors      []string // [not completed, completed]
	FutureColor string   // color for days after Today; empty disables
	FontSize    int      // font size for month labels (px)
	FontFamily  string   // font family for labels
	HabitName   string   // habit name for title
	Streak      int      // current streak shown next to the name
	Today       model.Day
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		CellSize:    12,
		CellPadding: 2,
		MonthGutter: 4,
		Colors:      []string{"#ebedf0", "#40c463"},
		FontSize:    10,
		FontFamily:  "sans-serif",
	}
}

func (o *Options) titleHeight() int {
	if o.HabitName == "" {
		return 0
	}
	return o.FontSize + 8 // title text + padding
}

// gridTop is the y coordinate of the first row, below the title and month labels.
func (o *Options) gridTop() int {
	return o.titleHeight() + o.FontSize + 4
}

func (o *Options) color(completed bool) string {
	if completed && len(o.Colors) > 1 {
		return o.Colors[1]
	}
	if len(o.Colors) > 0 {
		return o.Colors[0]
	}
	return "#ebedf0"
}

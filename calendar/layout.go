package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/stsysd/hibi/model"
)

// MonthBlock は1か月分のセルをまとめたレイアウト単位です。
type MonthBlock struct {
	Name         string       `json:"name"`          // 月の略称（Jan, Feb, ...）
	Month        time.Month   `json:"month"`         // 月（1-12）
	DayCount     int          `json:"day_count"`     // 日数
	FirstWeekday time.Weekday `json:"first_weekday"` // 1日の曜日（日曜=0）
	FirstDay     model.Day    `json:"first_day"`     // 1日のDay
	StartColumn  int          `json:"start_column"`  // ブロック先頭の列
	Weeks        int          `json:"weeks"`         // ブロックが占める列数
}

// Contains は day がこのブロックに含まれるかを返します。
func (b MonthBlock) Contains(day model.Day) bool {
	return day >= b.FirstDay && day < b.FirstDay.AddDays(b.DayCount)
}

// weekOffset はブロック内での列オフセットを返します。
func (b MonthBlock) weekOffset(day model.Day) int {
	return (int(b.FirstWeekday) + int(day-b.FirstDay)) / 7
}

// MonthBlocks は year の12か月分のブロックを順に返します。
// StartColumn と Weeks は月ごとに区切るレイアウトでの値です。
func MonthBlocks(year int) []MonthBlock {
	blocks := make([]MonthBlock, 0, 12)
	col := 0
	for m := time.January; m <= time.December; m++ {
		first := model.NewDay(year, m, 1)
		next := model.NewDay(year, m+1, 1) // 12月は翌年1月に正規化される
		b := MonthBlock{
			Name:         m.String()[:3],
			Month:        m,
			DayCount:     int(next - first),
			FirstWeekday: first.Weekday(),
			FirstDay:     first,
			StartColumn:  col,
		}
		b.Weeks = (int(b.FirstWeekday) + b.DayCount + 6) / 7
		col += b.Weeks
		blocks = append(blocks, b)
	}
	return blocks
}

// Mode はグリッドの列の数え方です。
type Mode string

const (
	// Segmented は月ごとにブロックを区切り、月の境界で週を揃え直しません。
	Segmented Mode = "segmented"
	// Continuous は年全体を日曜始まりの週で連続して並べます。
	Continuous Mode = "continuous"
)

// ParseMode は文字列からModeを返します。空文字列は Segmented です。
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Segmented:
		return Segmented, nil
	case Continuous:
		return Continuous, nil
	default:
		return "", fmt.Errorf("unknown layout mode %q", s)
	}
}

// Cell はグリッド上の位置です。Row は曜日（日曜=0）、Block は月のインデックス（0-11）です。
type Cell struct {
	Column int `json:"column"`
	Row    int `json:"row"`
	Block  int `json:"block"`
}

// Layout は1年分のカレンダーグリッドです。
type Layout struct {
	Year   int          `json:"year"`
	Mode   Mode         `json:"mode"`
	Blocks []MonthBlock `json:"months"`

	first  model.Day
	last   model.Day
	jan1WD int
}

// NewLayout は year のレイアウトを作成します。
// Continuous の場合、各ブロックの StartColumn と Weeks は連続した週の列に置き換えられます。
func NewLayout(year int, mode Mode) *Layout {
	if mode == "" {
		mode = Segmented
	}
	l := &Layout{
		Year:   year,
		Mode:   mode,
		Blocks: MonthBlocks(year),
		first:  model.NewDay(year, time.January, 1),
		last:   model.NewDay(year, time.December, 31),
	}
	l.jan1WD = int(l.first.Weekday())

	if mode == Continuous {
		for i := range l.Blocks {
			b := &l.Blocks[i]
			start := l.continuousColumn(b.FirstDay)
			end := l.continuousColumn(b.FirstDay.AddDays(b.DayCount - 1))
			b.StartColumn = start
			b.Weeks = end - start + 1
		}
	}
	return l
}

// First は年の最初の日を返します。
func (l *Layout) First() model.Day {
	return l.first
}

// Last は年の最後の日を返します。
func (l *Layout) Last() model.Day {
	return l.last
}

// Contains は day がこの年に含まれるかを返します。
func (l *Layout) Contains(day model.Day) bool {
	return day >= l.first && day <= l.last
}

// Columns はグリッド全体の列数を返します。
func (l *Layout) Columns() int {
	if l.Mode == Continuous {
		return l.continuousColumn(l.last) + 1
	}
	b := l.Blocks[len(l.Blocks)-1]
	return b.StartColumn + b.Weeks
}

// Position は day のセル位置を返します。年外の日付なら ok は false です。
func (l *Layout) Position(day model.Day) (Cell, bool) {
	if !l.Contains(day) {
		return Cell{}, false
	}
	_, m, _ := day.Date()
	idx := int(m) - 1
	b := l.Blocks[idx]

	col := b.StartColumn + b.weekOffset(day)
	if l.Mode == Continuous {
		col = l.continuousColumn(day)
	}
	return Cell{Column: col, Row: int(day.Weekday()), Block: idx}, true
}

// Days は年内の日付を昇順で返します。
func (l *Layout) Days() []model.Day {
	days := make([]model.Day, 0, int(l.last-l.first)+1)
	for d := l.first; d <= l.last; d++ {
		days = append(days, d)
	}
	return days
}

func (l *Layout) continuousColumn(day model.Day) int {
	return (int(day-l.first) + l.jan1WD) / 7
}

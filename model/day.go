package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat は日付の文字列表現です。
const DateFormat = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Day は1970-01-01からの経過日数で表した暦日です。
// 時刻やタイムゾーンを持たないため、集合の要素や日数の差分計算にそのまま使えます。
type Day int

// DayOf は t のロケーションにおける暦日を返します。
// 時刻部分は捨てられます。
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

// DayIn は t を loc に変換した上での暦日を返します。
func DayIn(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	return DayOf(t.In(loc))
}

// Today は now を loc で見たときの今日を返します。
func Today(now time.Time, loc *time.Location) Day {
	return DayIn(now, loc)
}

// NewDay は年月日からDayを生成します。
func NewDay(year int, month time.Month, day int) Day {
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DaysIn は時刻の一覧を loc における暦日の一覧に変換します。
// 重複はそのまま残ります。
func DaysIn(ts []time.Time, loc *time.Location) []Day {
	days := make([]Day, 0, len(ts))
	for _, t := range ts {
		days = append(days, DayIn(t, loc))
	}
	return days
}

// ParseDay は日付文字列をDayに変換します。
// YYYY-MM-DD はそのままの暦日として、RFC3339 の日時は loc に変換してから暦日に切り詰めます。
func ParseDay(s string, loc *time.Location) (Day, error) {
	if t, err := time.Parse(DateFormat, s); err == nil {
		return DayOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DayIn(t, loc), nil
	}
	return 0, fmt.Errorf("unable to parse date %q", s)
}

// Time はその日のUTC 00:00を返します。
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

// In はその日の loc における 00:00 を返します。
func (d Day) In(loc *time.Location) time.Time {
	y, m, dd := d.Time().Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, loc)
}

// Date は年・月・日を返します。
func (d Day) Date() (int, time.Month, int) {
	return d.Time().Date()
}

// Weekday は曜日を返します。
func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// YearDay は年内の通算日（1始まり）を返します。
func (d Day) YearDay() int {
	return d.Time().YearDay()
}

// AddDays は n 日後のDayを返します。
func (d Day) AddDays(n int) Day {
	return d + Day(n)
}

// String は YYYY-MM-DD 形式の文字列を返します。
func (d Day) String() string {
	return d.Time().Format(DateFormat)
}

// MarshalJSON は YYYY-MM-DD 形式の文字列としてエンコードします。
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON は YYYY-MM-DD もしくは RFC3339 の文字列をデコードします。
// RFC3339 の場合はUTCで暦日に切り詰めます。
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDay(s, time.UTC)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Package calendar は、達成日の集合からストリークと年間カレンダーのグリッド配置を導出します。
// すべて副作用のない関数で、日付は model.Day（1970-01-01からの経過日数）で扱います。
package calendar

import (
	"time"

	"github.com/stsysd/hibi/model"
)

// Streak は today から遡って連続して達成している日数を返します。
// today が未達成なら0です。未来の日付や重複は結果に影響しません。
func Streak(days []model.Day, today model.Day) int {
	set := make(map[model.Day]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}

	n := 0
	for d := today; ; d-- {
		if _, ok := set[d]; !ok {
			return n
		}
		n++
	}
}

// StreakAt は時刻の一覧を loc の暦日に揃えてから Streak を計算します。
// 同じ日の異なる時刻は1日として数えます。
func StreakAt(ts []time.Time, now time.Time, loc *time.Location) int {
	return Streak(model.DaysIn(ts, loc), model.Today(now, loc))
}

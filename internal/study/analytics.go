// Package study holds the pure calendar math behind study analytics.
package study

import (
	"math"
	"time"
)

// Accuracy is the percentage of correct answers, rounded to the nearest
// whole number. Zero answers yields zero rather than NaN.
func Accuracy(correct, incorrect int) int {
	total := correct + incorrect
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// DayOf truncates t to its local calendar day.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Streak counts consecutive study days ending at now. starts must be the
// start times of completed sessions, newest first. The streak is broken
// (zero) unless the most recent study day is today or yesterday; a lapsed
// day further back ends the count rather than resetting it.
func Streak(starts []time.Time, now time.Time) int {
	if len(starts) == 0 {
		return 0
	}

	var days []time.Time
	for _, t := range starts {
		day := DayOf(t)
		if len(days) == 0 || !days[len(days)-1].Equal(day) {
			days = append(days, day)
		}
	}

	today := DayOf(now)
	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			streak++
		} else {
			break
		}
	}
	return streak
}

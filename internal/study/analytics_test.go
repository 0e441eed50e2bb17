package study_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"flashdeck/internal/study"
)

func day(offset int) time.Time {
	base := time.Date(2026, 8, 20, 14, 30, 0, 0, time.Local)
	return base.AddDate(0, 0, offset)
}

func TestStreak_Empty(t *testing.T) {
	assert.Equal(t, 0, study.Streak(nil, day(0)))
}

func TestStreak_StudiedToday(t *testing.T) {
	starts := []time.Time{day(0)}

	assert.Equal(t, 1, study.Streak(starts, day(0)))
}

func TestStreak_ConsecutiveDays(t *testing.T) {
	starts := []time.Time{day(0), day(-1), day(-2)}

	assert.Equal(t, 3, study.Streak(starts, day(0)))
}

func TestStreak_GraceDayYesterday(t *testing.T) {
	starts := []time.Time{day(-1), day(-2)}

	assert.Equal(t, 2, study.Streak(starts, day(0)), "a streak ending yesterday is still alive")
}

func TestStreak_BrokenByOldLastStudy(t *testing.T) {
	starts := []time.Time{day(-2), day(-3), day(-4)}

	assert.Equal(t, 0, study.Streak(starts, day(0)), "last study two days ago breaks the streak")
}

func TestStreak_GapEndsCount(t *testing.T) {
	starts := []time.Time{day(0), day(-1), day(-3), day(-4)}

	assert.Equal(t, 2, study.Streak(starts, day(0)), "counting stops at the first gap")
}

func TestStreak_MultipleSessionsSameDay(t *testing.T) {
	starts := []time.Time{
		day(0).Add(2 * time.Hour),
		day(0),
		day(-1),
	}

	assert.Equal(t, 2, study.Streak(starts, day(0)), "several sessions on one day count once")
}

func TestDayOf_TruncatesToMidnight(t *testing.T) {
	d := study.DayOf(time.Date(2026, 8, 20, 23, 59, 59, 0, time.Local))

	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.Local), d)
}

func TestAccuracy_Rounds(t *testing.T) {
	assert.Equal(t, 67, study.Accuracy(2, 1))
	assert.Equal(t, 33, study.Accuracy(1, 2))
	assert.Equal(t, 50, study.Accuracy(1, 1))
	assert.Equal(t, 100, study.Accuracy(5, 0))
	assert.Equal(t, 0, study.Accuracy(0, 4))
}

func TestAccuracy_ZeroAnswers(t *testing.T) {
	assert.Equal(t, 0, study.Accuracy(0, 0), "no answers yields zero, not a division error")
}

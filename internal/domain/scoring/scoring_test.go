package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(n int64) time.Time {
	return time.Unix(n*secondsPerDay+3600, 0).UTC()
}

func TestIdeaXP(t *testing.T) {
	tests := []struct {
		ideas int
		want  int
	}{
		{0, 0},
		{1, 20},
		{2, 35},
		{3, 45},
		{4, 50},
		{7, 65},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IdeaXP(tt.ideas), "ideas=%d", tt.ideas)
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []int64
		want int
	}{
		{"empty", nil, 0},
		{"single day", []int64{10}, 1},
		{"two runs", []int64{1, 2, 3, 7, 8}, 3},
		{"no consecutive days", []int64{1, 3, 5}, 1},
		{"duplicates and order", []int64{5, 4, 4, 6, 5, 9}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LongestStreak(tt.days))
		})
	}
}

func TestLongestStreak_DoesNotMutateInput(t *testing.T) {
	days := []int64{3, 1, 2}
	LongestStreak(days)
	assert.Equal(t, []int64{3, 1, 2}, days)
}

func TestDayOf(t *testing.T) {
	assert.Equal(t, int64(0), DayOf(time.Unix(0, 0)))
	assert.Equal(t, int64(0), DayOf(time.Unix(86399, 0)))
	assert.Equal(t, int64(1), DayOf(time.Unix(86400, 0)))
	assert.Equal(t, int64(-1), DayOf(time.Unix(-1, 0)))
	assert.Equal(t, int64(-1), DayOf(time.Unix(-86400, 0)))
	assert.Equal(t, int64(-2), DayOf(time.Unix(-86401, 0)))

	// the last second before the epoch and the first after it are two days
	streak := LongestStreak([]int64{DayOf(time.Unix(-1, 0)), DayOf(time.Unix(1, 0))})
	assert.Equal(t, 2, streak)
}

func TestCompute(t *testing.T) {
	t.Run("no activity yields zero stats", func(t *testing.T) {
		assert.Equal(t, Stats{}, Compute(PlayerActivity{}))
	})

	t.Run("single idea earns first idea and one streak day", func(t *testing.T) {
		s := Compute(PlayerActivity{IdeaTimes: []time.Time{day(100)}})
		assert.Equal(t, 1, s.Ideas)
		assert.Equal(t, 1, s.LongestStreak)
		assert.Equal(t, 25, s.XP)
	})

	t.Run("combines every source", func(t *testing.T) {
		s := Compute(PlayerActivity{
			IdeaTimes:       []time.Time{day(1), day(2)},
			CommentTimes:    []time.Time{day(3), day(3), day(7)},
			EvaluationTimes: []time.Time{day(8)},
			InspiredCount:   2,
		})
		// ideas 35, comments 6, evaluations 2, inspired 20, streak 3*5
		assert.Equal(t, Stats{
			Ideas:         2,
			Comments:      3,
			Inspired:      2,
			Evaluations:   1,
			LongestStreak: 3,
			XP:            35 + 6 + 2 + 20 + 15,
		}, s)
	})

	t.Run("zero timestamps count but do not extend streaks", func(t *testing.T) {
		s := Compute(PlayerActivity{
			IdeaTimes:    []time.Time{{}, day(4)},
			CommentTimes: []time.Time{{}},
		})
		assert.Equal(t, 2, s.Ideas)
		assert.Equal(t, 1, s.Comments)
		assert.Equal(t, 1, s.LongestStreak)
		assert.Equal(t, 35+2+5, s.XP)
	})

	t.Run("negative inspiration count is clamped", func(t *testing.T) {
		s := Compute(PlayerActivity{InspiredCount: -3})
		assert.Equal(t, 0, s.Inspired)
		assert.Equal(t, 0, s.XP)
	})

	t.Run("activity in any order gives the same result", func(t *testing.T) {
		a := Compute(PlayerActivity{CommentTimes: []time.Time{day(9), day(7), day(8)}})
		b := Compute(PlayerActivity{CommentTimes: []time.Time{day(7), day(8), day(9)}})
		assert.Equal(t, a, b)
		assert.Equal(t, 3, a.LongestStreak)
	})
}

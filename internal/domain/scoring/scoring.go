// Package scoring computes experience points and streaks from a player's
// activity, and ranks players by those stats. Everything here is a pure
// function of its inputs; totals are replayed from source records on every
// call.
package scoring

import (
	"sort"
	"time"
)

// XP weights
const (
	FirstIdeaXP   = 20
	SecondIdeaXP  = 15
	ThirdIdeaXP   = 10
	LaterIdeaXP   = 5
	CommentXP     = 2
	EvaluationXP  = 2
	InspirationXP = 10
	StreakDayXP   = 5

	secondsPerDay = 24 * 60 * 60
)

var ideaXPByPosition = []int{FirstIdeaXP, SecondIdeaXP, ThirdIdeaXP}

// PlayerActivity is the input to Compute: timestamps of a single player's
// ideas, comments and evaluations, plus how many times another player's
// idea listed one of theirs as an inspiration.
type PlayerActivity struct {
	IdeaTimes       []time.Time
	CommentTimes    []time.Time
	EvaluationTimes []time.Time
	InspiredCount   int
}

// Stats is the result of Compute
type Stats struct {
	Ideas         int `json:"ideas"`
	Comments      int `json:"comments"`
	Inspired      int `json:"inspired"`
	Evaluations   int `json:"evaluations"`
	LongestStreak int `json:"longest_streak"`
	XP            int `json:"xp"`
}

// Compute derives a player's stats. A player with no activity gets zero
// stats.
func Compute(a PlayerActivity) Stats {
	s := Stats{
		Ideas:       len(a.IdeaTimes),
		Comments:    len(a.CommentTimes),
		Inspired:    a.InspiredCount,
		Evaluations: len(a.EvaluationTimes),
	}
	if s.Inspired < 0 {
		s.Inspired = 0
	}

	days := make([]int64, 0, s.Ideas+s.Comments+s.Evaluations)
	for _, group := range [][]time.Time{a.IdeaTimes, a.CommentTimes, a.EvaluationTimes} {
		for _, t := range group {
			if t.IsZero() {
				continue
			}
			days = append(days, DayOf(t))
		}
	}
	s.LongestStreak = LongestStreak(days)

	s.XP = IdeaXP(s.Ideas) +
		s.Comments*CommentXP +
		s.Evaluations*EvaluationXP +
		s.Inspired*InspirationXP +
		s.LongestStreak*StreakDayXP
	return s
}

// IdeaXP returns the XP earned by n ideas: 20, 15 and 10 for the first
// three, then 5 each.
func IdeaXP(n int) int {
	xp := 0
	for i := 0; i < n; i++ {
		if i < len(ideaXPByPosition) {
			xp += ideaXPByPosition[i]
			continue
		}
		xp += LaterIdeaXP
	}
	return xp
}

// DayOf buckets a timestamp into a calendar day number: unix seconds
// divided by 86400, rounded down so days before the epoch are negative.
func DayOf(t time.Time) int64 {
	secs := t.Unix()
	day := secs / secondsPerDay
	if secs%secondsPerDay < 0 {
		day--
	}
	return day
}

// LongestStreak returns the length of the longest run of consecutive day
// numbers. Duplicates are ignored and the input order does not matter.
func LongestStreak(days []int64) int {
	if len(days) == 0 {
		return 0
	}
	sorted := append([]int64(nil), days...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	longest, current := 1, 1
	for i := 1; i < len(sorted); i++ {
		switch sorted[i] - sorted[i-1] {
		case 0:
			continue
		case 1:
			current++
		default:
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

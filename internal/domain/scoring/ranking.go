package scoring

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/player"
	"github.com/shopspring/decimal"
)

// ErrUnknownColumn is returned when sorting by a column that does not exist
var ErrUnknownColumn = errors.New("unknown ranking column")

// ErrUnknownDirection is returned for a sort direction other than asc/desc
var ErrUnknownDirection = errors.New("unknown sort direction")

// Column is a sortable ranking column
type Column string

const (
	ColumnName        Column = "name"
	ColumnTeam        Column = "team"
	ColumnIdeas       Column = "ideas"
	ColumnComments    Column = "comments"
	ColumnInspired    Column = "inspired"
	ColumnEvaluations Column = "evaluations"
	ColumnStreak      Column = "streak"
	ColumnXP          Column = "xp"
)

// NumericColumns lists the columns that are summed in the totals row
var NumericColumns = []Column{
	ColumnIdeas, ColumnComments, ColumnInspired, ColumnEvaluations, ColumnStreak, ColumnXP,
}

// Direction is a sort direction
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Row is one player's line in the ranking
type Row struct {
	PlayerID    uuid.UUID `json:"player_id"`
	DisplayName string    `json:"display_name"`
	Team        string    `json:"team"`
	PictureRef  string    `json:"picture_ref,omitempty"`
	Stats
}

// Totals is the footer of the ranking: per-column sums and averages
type Totals struct {
	Players  int                        `json:"players"`
	Sums     map[Column]int             `json:"sums"`
	Averages map[Column]decimal.Decimal `json:"averages"`
}

// InspirationCounts credits the author of each inspiring idea once per
// reference, skipping references to the author's own ideas and to ideas
// that do not exist.
func InspirationCounts(ideas []ideation.Idea) map[uuid.UUID]int {
	authorOf := make(map[uuid.UUID]uuid.UUID, len(ideas))
	for i := range ideas {
		authorOf[ideas[i].ID] = ideas[i].CreatorID
	}

	counts := make(map[uuid.UUID]int)
	for i := range ideas {
		for _, ref := range ideas[i].InspiredBy {
			author, ok := authorOf[ref.IdeaID]
			if !ok || author == ideas[i].CreatorID {
				continue
			}
			counts[author]++
		}
	}
	return counts
}

// BuildRanking computes one row per player, in player order, from the full
// idea, comment and evaluation collections.
func BuildRanking(players []player.Player, ideas []ideation.Idea, comments []ideation.Comment, evaluations []ideation.Evaluation) []Row {
	inspired := InspirationCounts(ideas)

	activity := make(map[uuid.UUID]*PlayerActivity, len(players))
	for i := range players {
		activity[players[i].ID] = &PlayerActivity{InspiredCount: inspired[players[i].ID]}
	}
	for i := range ideas {
		if a, ok := activity[ideas[i].CreatorID]; ok {
			a.IdeaTimes = append(a.IdeaTimes, ideas[i].CreatedAt)
		}
	}
	for i := range comments {
		if a, ok := activity[comments[i].AuthorID]; ok {
			a.CommentTimes = append(a.CommentTimes, comments[i].CreatedAt)
		}
	}
	for i := range evaluations {
		if a, ok := activity[evaluations[i].EvaluatorID]; ok {
			a.EvaluationTimes = append(a.EvaluationTimes, evaluations[i].EvaluatedAt)
		}
	}

	rows := make([]Row, 0, len(players))
	for i := range players {
		p := &players[i]
		a := activity[p.ID]
		sortTimes(a.IdeaTimes)
		rows = append(rows, Row{
			PlayerID:    p.ID,
			DisplayName: p.NameOrDefault(),
			Team:        p.Team,
			PictureRef:  p.PictureRef,
			Stats:       Compute(*a),
		})
	}
	return rows
}

// ParseColumn validates a column key
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case ColumnName, ColumnTeam, ColumnIdeas, ColumnComments, ColumnInspired,
		ColumnEvaluations, ColumnStreak, ColumnXP:
		return c, nil
	}
	return "", ErrUnknownColumn
}

// ParseDirection validates a sort direction
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if d == Ascending || d == Descending {
		return d, nil
	}
	return "", ErrUnknownDirection
}

// SortRows returns a copy of rows stably sorted by column. Equal keys keep
// their relative order in both directions.
func SortRows(rows []Row, column Column, dir Direction) ([]Row, error) {
	if _, err := ParseColumn(string(column)); err != nil {
		return nil, err
	}
	if dir != Ascending && dir != Descending {
		return nil, ErrUnknownDirection
	}

	sorted := append([]Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := compareRows(&sorted[i], &sorted[j], column)
		if dir == Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return sorted, nil
}

func compareRows(a, b *Row, column Column) int {
	switch column {
	case ColumnName:
		return strings.Compare(a.DisplayName, b.DisplayName)
	case ColumnTeam:
		return strings.Compare(a.Team, b.Team)
	}
	return a.numeric(column) - b.numeric(column)
}

func (r *Row) numeric(column Column) int {
	switch column {
	case ColumnIdeas:
		return r.Ideas
	case ColumnComments:
		return r.Comments
	case ColumnInspired:
		return r.Inspired
	case ColumnEvaluations:
		return r.Evaluations
	case ColumnStreak:
		return r.LongestStreak
	case ColumnXP:
		return r.XP
	}
	return 0
}

// ComputeTotals sums every numeric column and averages it over the rows,
// rounded to two decimals.
func ComputeTotals(rows []Row) Totals {
	t := Totals{
		Players:  len(rows),
		Sums:     make(map[Column]int, len(NumericColumns)),
		Averages: make(map[Column]decimal.Decimal, len(NumericColumns)),
	}
	for _, c := range NumericColumns {
		sum := 0
		for i := range rows {
			sum += rows[i].numeric(c)
		}
		t.Sums[c] = sum
		if len(rows) == 0 {
			t.Averages[c] = decimal.Zero
			continue
		}
		t.Averages[c] = decimal.NewFromInt(int64(sum)).
			Div(decimal.NewFromInt(int64(len(rows)))).
			Round(2)
	}
	return t
}

func sortTimes(ts []time.Time) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
}

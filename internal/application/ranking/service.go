// Package ranking serves the player leaderboard. Rows are rebuilt from the
// full idea, comment and evaluation collections and memoised in a Cache
// until a write event invalidates them.
package ranking

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/player"
	"github.com/ideation/backend/internal/domain/scoring"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const rebuildKey = "ranking"

// Default sort
const (
	DefaultColumn    = scoring.ColumnXP
	DefaultDirection = scoring.Descending
)

// Cache memoises the unsorted ranking rows
type Cache interface {
	// Get returns the cached rows; ok is false on a miss
	Get(ctx context.Context) (rows []scoring.Row, ok bool, err error)
	Set(ctx context.Context, rows []scoring.Row) error
	Invalidate(ctx context.Context) error
}

// Response is a sorted ranking with its totals footer
type Response struct {
	Rows      []scoring.Row     `json:"rows"`
	Totals    scoring.Totals    `json:"totals"`
	Column    scoring.Column    `json:"sort"`
	Direction scoring.Direction `json:"dir"`
	Cached    bool              `json:"cached"`
}

// Service computes the ranking
type Service struct {
	playerRepo  player.Repository
	ideaRepo    ideation.IdeaRepository
	commentRepo ideation.CommentRepository
	evalRepo    ideation.EvaluationRepository
	cache       Cache
	logger      *zap.Logger

	group singleflight.Group
	// generation is bumped by every Invalidate; a rebuild only caches its
	// rows if no invalidation happened while it ran
	generation atomic.Uint64
}

// NewService creates a new ranking Service. cache may be nil.
func NewService(
	playerRepo player.Repository,
	ideaRepo ideation.IdeaRepository,
	commentRepo ideation.CommentRepository,
	evalRepo ideation.EvaluationRepository,
	cache Cache,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		playerRepo:  playerRepo,
		ideaRepo:    ideaRepo,
		commentRepo: commentRepo,
		evalRepo:    evalRepo,
		cache:       cache,
		logger:      logger,
	}
}

// Get returns the ranking sorted by column and direction. Empty values use
// the defaults.
func (s *Service) Get(ctx context.Context, column, direction string) (*Response, error) {
	col, dir := DefaultColumn, DefaultDirection
	var err error
	if column != "" {
		if col, err = scoring.ParseColumn(column); err != nil {
			return nil, err
		}
	}
	if direction != "" {
		if dir, err = scoring.ParseDirection(direction); err != nil {
			return nil, err
		}
	}

	rows, cached, err := s.Rows(ctx)
	if err != nil {
		return nil, err
	}
	sorted, err := scoring.SortRows(rows, col, dir)
	if err != nil {
		return nil, err
	}
	return &Response{
		Rows:      sorted,
		Totals:    scoring.ComputeTotals(sorted),
		Column:    col,
		Direction: dir,
		Cached:    cached,
	}, nil
}

// Rows returns the unsorted rows, from cache when possible. Concurrent
// misses share one rebuild.
func (s *Service) Rows(ctx context.Context) ([]scoring.Row, bool, error) {
	if s.cache != nil {
		rows, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("Ranking cache read failed", zap.Error(err))
		} else if ok {
			return rows, true, nil
		}
	}

	v, err, _ := s.group.Do(rebuildKey, func() (interface{}, error) {
		gen := s.generation.Load()
		rows, err := s.build(ctx)
		if err != nil {
			return nil, err
		}
		s.store(ctx, gen, rows)
		return rows, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]scoring.Row), false, nil
}

// store caches rows built at generation gen. Rows that an invalidation
// overtook are never left in the cache.
func (s *Service) store(ctx context.Context, gen uint64, rows []scoring.Row) {
	if s.cache == nil {
		return
	}
	if s.generation.Load() != gen {
		s.logger.Debug("Ranking changed during rebuild, not caching")
		return
	}
	if err := s.cache.Set(ctx, rows); err != nil {
		s.logger.Warn("Ranking cache write failed", zap.Error(err))
		return
	}
	// an invalidation may have landed between the check and the write
	if s.generation.Load() != gen {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("Ranking cache invalidation failed", zap.Error(err))
		}
	}
}

// Invalidate drops the cached rows. Callers arriving after it never share
// a rebuild that started before it.
func (s *Service) Invalidate(ctx context.Context) error {
	s.generation.Add(1)
	s.group.Forget(rebuildKey)
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *Service) build(ctx context.Context) ([]scoring.Row, error) {
	players, err := s.playerRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	ideas, err := s.ideaRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	comments, err := s.commentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	evals, err := s.evalRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}

	rows := scoring.BuildRanking(players, ideas, comments, evals)
	s.logger.Debug("Ranking rebuilt",
		zap.Int("players", len(players)),
		zap.Int("ideas", len(ideas)),
		zap.Int("comments", len(comments)),
		zap.Int("evaluations", len(evals)))
	return rows, nil
}

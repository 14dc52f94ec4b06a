package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCommentRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCommentRepository(db)
	ctx := context.Background()
	ideaID, author := uuid.New(), uuid.New()

	first, err := ideation.NewComment(ideaID, author, "First!", nil)
	require.NoError(t, err)
	first.CreatedAt = time.Now().Add(-time.Hour)
	second, err := ideation.NewComment(ideaID, author, "Second", []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	other, err := ideation.NewComment(uuid.New(), author, "Elsewhere", nil)
	require.NoError(t, err)

	for _, c := range []*ideation.Comment{second, first, other} {
		require.NoError(t, repo.Create(ctx, c))
	}

	t.Run("FindByIdea oldest first", func(t *testing.T) {
		comments, err := repo.FindByIdea(ctx, ideaID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "First!", comments[0].Text)
		assert.Len(t, comments[1].TaggedUserIDs, 1)
	})

	t.Run("Save updates text", func(t *testing.T) {
		require.NoError(t, first.Edit(author, "First, edited", nil))
		require.NoError(t, repo.Save(ctx, first))

		found, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "First, edited", found.Text)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("Save rejects a stale copy", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		fresh, err := repo.FindByID(ctx, second.ID)
		require.NoError(t, err)

		require.NoError(t, fresh.Edit(author, "Second, edited", nil))
		require.NoError(t, repo.Save(ctx, fresh))
		require.NoError(t, stale.Edit(author, "Second, again", nil))
		assert.ErrorIs(t, repo.Save(ctx, stale), shared.ErrConflict)

		found, err := repo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "Second, edited", found.Text)
	})

	t.Run("ListAll", func(t *testing.T) {
		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormEvaluationRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormEvaluationRepository(db)
	ctx := context.Background()
	ideaID, evaluator := uuid.New(), uuid.New()

	e, err := ideation.NewEvaluation(ideaID, evaluator, "< 1k", "Hard")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, e))

	again, err := ideation.NewEvaluation(ideaID, evaluator, "> 500k", "Very Easy")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, again))

	list, err := repo.FindByIdea(ctx, ideaID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ideation.Impact("> 500k"), list[0].Impact)
	assert.Equal(t, ideation.CategoryGreen, list[0].Category())

	one, err := repo.FindOne(ctx, ideaID, evaluator)
	require.NoError(t, err)
	assert.Equal(t, ideation.Feasibility("Very Easy"), one.Feasibility)

	_, err = repo.FindOne(ctx, ideaID, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGormVoteRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormVoteRepository(db)
	ctx := context.Background()
	target := uuid.New()
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	cast := func(user uuid.UUID, value ideation.VoteValue) {
		v, err := ideation.NewVote(target, user, value)
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, v))
	}
	cast(alice, ideation.VoteAgree)
	cast(bob, ideation.VoteAgree)
	cast(carol, ideation.VoteDisagree)
	cast(bob, ideation.VoteDisagree)

	t.Run("last write wins", func(t *testing.T) {
		v, err := repo.FindOne(ctx, target, bob)
		require.NoError(t, err)
		assert.Equal(t, ideation.VoteDisagree, v.Value)
	})

	t.Run("tally", func(t *testing.T) {
		tally, err := repo.Tally(ctx, target)
		require.NoError(t, err)
		assert.Equal(t, target, tally.TargetID)
		assert.Equal(t, int64(1), tally.Agree)
		assert.Equal(t, int64(2), tally.Disagree)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, target, carol))
		require.NoError(t, repo.Delete(ctx, target, carol))

		_, err := repo.FindOne(ctx, target, carol)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("empty tally", func(t *testing.T) {
		tally, err := repo.Tally(ctx, uuid.New())
		require.NoError(t, err)
		assert.Zero(t, tally.Agree)
		assert.Zero(t, tally.Disagree)
	})
}

package ideation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCommentService_Create(t *testing.T) {
	ctx := context.Background()
	author := uuid.New()

	t.Run("comments on existing idea", func(t *testing.T) {
		ideas := new(MockIdeaRepository)
		comments := new(MockCommentRepository)
		pub := new(MockEventPublisher)
		svc := NewCommentService(ideas, comments, pub, nil)
		idea := newTestIdea(t, uuid.New())
		tagged := uuid.New()

		ideas.On("FindByID", ctx, idea.ID).Return(idea, nil)
		comments.On("Create", ctx, mock.AnythingOfType("*ideation.Comment")).Return(nil)
		pub.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			e, ok := events[0].(*ideation.CommentWrittenEvent)
			return ok && e.IdeaID == idea.ID && len(e.AfterTags) == 1
		})).Return(nil)

		resp, err := svc.Create(ctx, author, idea.ID, CreateCommentRequest{
			Text:          "Great, let's try it",
			TaggedUserIDs: []uuid.UUID{tagged},
		})

		require.NoError(t, err)
		assert.Equal(t, author, resp.AuthorID)
		pub.AssertExpectations(t)
	})

	t.Run("unknown idea", func(t *testing.T) {
		ideas := new(MockIdeaRepository)
		comments := new(MockCommentRepository)
		svc := NewCommentService(ideas, comments, nil, nil)
		id := uuid.New()
		ideas.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, author, id, CreateCommentRequest{Text: "hi"})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCommentService_Update(t *testing.T) {
	ctx := context.Background()
	author := uuid.New()
	comments := new(MockCommentRepository)
	svc := NewCommentService(new(MockIdeaRepository), comments, nil, nil)

	c, err := ideation.NewComment(uuid.New(), author, "first", nil)
	require.NoError(t, err)
	comments.On("FindByID", ctx, c.ID).Return(c, nil)
	comments.On("Save", ctx, c).Return(nil)

	resp, err := svc.Update(ctx, author, c.ID, UpdateCommentRequest{Text: "second"})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Text)

	_, err = svc.Update(ctx, uuid.New(), c.ID, UpdateCommentRequest{Text: "hijack"})
	assert.Error(t, err)
}

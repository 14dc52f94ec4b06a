package ideation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validIdeaInput(creator uuid.UUID) NewIdeaInput {
	return NewIdeaInput{
		Title:            "Recycle pallets",
		ShortDescription: "Reuse inbound pallets for outbound shipments",
		Reasoning:        "We throw away hundreds of pallets a month.",
		CostEstimate:     "1k - 5k",
		CreatorID:        creator,
	}
}

func TestNewIdea(t *testing.T) {
	creator := uuid.New()

	t.Run("creates idea and raises written event", func(t *testing.T) {
		tagged := uuid.New()
		input := validIdeaInput(creator)
		input.TaggedUserIDs = []uuid.UUID{tagged, tagged, uuid.Nil}

		idea, err := NewIdea(input)

		require.NoError(t, err)
		assert.Equal(t, "Recycle pallets", idea.Title)
		assert.Equal(t, []uuid.UUID{tagged}, idea.TaggedUserIDs)
		assert.False(t, idea.Approved)

		events := idea.GetDomainEvents()
		require.Len(t, events, 1)
		written, ok := events[0].(*IdeaWrittenEvent)
		require.True(t, ok)
		assert.True(t, written.Created)
		assert.Empty(t, written.BeforeTags)
		assert.Equal(t, []uuid.UUID{tagged}, written.AfterTags)
		assert.Equal(t, creator, written.CreatorID)
	})

	t.Run("trims title whitespace", func(t *testing.T) {
		input := validIdeaInput(creator)
		input.Title = "   Recycle pallets  "

		idea, err := NewIdea(input)

		require.NoError(t, err)
		assert.Equal(t, "Recycle pallets", idea.Title)
	})

	t.Run("fails with short title", func(t *testing.T) {
		input := validIdeaInput(creator)
		input.Title = "ab"

		_, err := NewIdea(input)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Title")
	})

	t.Run("fails with long short description", func(t *testing.T) {
		input := validIdeaInput(creator)
		input.ShortDescription = strings.Repeat("x", MaxShortDescriptionLength+1)

		_, err := NewIdea(input)

		assert.Error(t, err)
	})

	t.Run("fails without cost estimate", func(t *testing.T) {
		input := validIdeaInput(creator)
		input.CostEstimate = " "

		_, err := NewIdea(input)

		assert.Error(t, err)
	})

	t.Run("fails without creator", func(t *testing.T) {
		_, err := NewIdea(validIdeaInput(uuid.Nil))

		assert.Error(t, err)
	})

	t.Run("drops duplicate inspirations", func(t *testing.T) {
		prior := uuid.New()
		input := validIdeaInput(creator)
		input.InspiredBy = []InspirationRef{{IdeaID: prior, Title: "a"}, {IdeaID: prior, Title: "b"}, {}}

		idea, err := NewIdea(input)

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{prior}, idea.InspiringIdeaIDs())
	})
}

func TestIdea_Update(t *testing.T) {
	creator := uuid.New()
	a, b := uuid.New(), uuid.New()

	newIdea := func(t *testing.T) *Idea {
		input := validIdeaInput(creator)
		input.TaggedUserIDs = []uuid.UUID{a}
		idea, err := NewIdea(input)
		require.NoError(t, err)
		idea.ClearDomainEvents()
		return idea
	}

	t.Run("carries previous tags on the event", func(t *testing.T) {
		idea := newIdea(t)
		tags := []uuid.UUID{a, b}

		err := idea.Update(creator, UpdateIdeaInput{TaggedUserIDs: &tags})

		require.NoError(t, err)
		events := idea.GetDomainEvents()
		require.Len(t, events, 1)
		written := events[0].(*IdeaWrittenEvent)
		assert.False(t, written.Created)
		assert.Equal(t, []uuid.UUID{a}, written.BeforeTags)
		assert.Equal(t, []uuid.UUID{a, b}, written.AfterTags)
	})

	t.Run("keeps tags when not provided", func(t *testing.T) {
		idea := newIdea(t)
		title := "Recycle all pallets"

		err := idea.Update(creator, UpdateIdeaInput{Title: &title})

		require.NoError(t, err)
		assert.Equal(t, title, idea.Title)
		assert.Equal(t, []uuid.UUID{a}, idea.TaggedUserIDs)
	})

	t.Run("rejects other users", func(t *testing.T) {
		idea := newIdea(t)
		title := "Hijacked"

		err := idea.Update(uuid.New(), UpdateIdeaInput{Title: &title})

		assert.Error(t, err)
		assert.Equal(t, "Recycle pallets", idea.Title)
		assert.Empty(t, idea.GetDomainEvents())
	})

	t.Run("rejects invalid title without partial update", func(t *testing.T) {
		idea := newIdea(t)
		title := "x"
		tags := []uuid.UUID{b}

		err := idea.Update(creator, UpdateIdeaInput{Title: &title, TaggedUserIDs: &tags})

		assert.Error(t, err)
		assert.Equal(t, []uuid.UUID{a}, idea.TaggedUserIDs)
	})
}

func TestIdea_Approve(t *testing.T) {
	idea, err := NewIdea(validIdeaInput(uuid.New()))
	require.NoError(t, err)
	idea.ClearDomainEvents()
	assert.Equal(t, 1, idea.Version)

	require.NoError(t, idea.Approve())
	assert.True(t, idea.Approved)
	assert.Equal(t, 2, idea.Version)

	written := idea.GetDomainEvents()[0].(*IdeaWrittenEvent)
	assert.Empty(t, NewlyTagged(written.BeforeTags, written.AfterTags))

	assert.Error(t, idea.Approve())
	assert.Equal(t, 2, idea.Version, "rejected changes keep the version")
}

func TestNewlyTagged(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	t.Run("returns additions in after order", func(t *testing.T) {
		assert.Equal(t, []uuid.UUID{c, b}, NewlyTagged([]uuid.UUID{a}, []uuid.UUID{c, a, b}))
	})

	t.Run("unchanged list yields nothing", func(t *testing.T) {
		assert.Empty(t, NewlyTagged([]uuid.UUID{a, b}, []uuid.UUID{a, b}))
	})

	t.Run("nil before treats all as new", func(t *testing.T) {
		assert.Equal(t, []uuid.UUID{a, b}, NewlyTagged(nil, []uuid.UUID{a, b}))
	})

	t.Run("removals are ignored", func(t *testing.T) {
		assert.Empty(t, NewlyTagged([]uuid.UUID{a, b}, []uuid.UUID{a}))
	})

	t.Run("duplicates in after reported once", func(t *testing.T) {
		assert.Equal(t, []uuid.UUID{b}, NewlyTagged(nil, []uuid.UUID{b, b}))
	})
}

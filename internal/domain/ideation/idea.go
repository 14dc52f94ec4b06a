package ideation

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/shared"
)

// Field limits for idea submission
const (
	MinTitleLength            = 3
	MaxTitleLength            = 120
	MaxShortDescriptionLength = 280
	MaxReasoningLength        = 5000
)

// InspirationRef is a back-reference from an idea to a prior idea that
// inspired it. Title and image are cached at submission time.
type InspirationRef struct {
	IdeaID   uuid.UUID `json:"idea_id"`
	Title    string    `json:"title"`
	ImageRef string    `json:"image_ref,omitempty"`
}

// Idea is the aggregate root for a submitted improvement idea
type Idea struct {
	shared.BaseAggregateRoot
	Number           int
	Title            string
	ShortDescription string
	Reasoning        string
	CostEstimate     string
	ImageRef         string
	CreatorID        uuid.UUID
	TaggedUserIDs    []uuid.UUID
	InspiredBy       []InspirationRef
	Approved         bool
}

// NewIdeaInput carries the fields of a new idea
type NewIdeaInput struct {
	Title            string
	ShortDescription string
	Reasoning        string
	CostEstimate     string
	ImageRef         string
	CreatorID        uuid.UUID
	TaggedUserIDs    []uuid.UUID
	InspiredBy       []InspirationRef
}

// NewIdea validates the input and creates a new idea. The idea number is
// assigned by the repository on insert.
func NewIdea(input NewIdeaInput) (*Idea, error) {
	if input.CreatorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Creator ID cannot be empty")
	}
	title := strings.TrimSpace(input.Title)
	short := strings.TrimSpace(input.ShortDescription)
	if err := validateIdeaText(title, short, input.Reasoning); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.CostEstimate) == "" {
		return nil, shared.NewDomainError("INVALID_COST_ESTIMATE", "Cost estimate is required")
	}

	idea := &Idea{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		ShortDescription:  short,
		Reasoning:         input.Reasoning,
		CostEstimate:      strings.TrimSpace(input.CostEstimate),
		ImageRef:          input.ImageRef,
		CreatorID:         input.CreatorID,
		TaggedUserIDs:     DedupeTags(input.TaggedUserIDs),
		InspiredBy:        dedupeInspirations(input.InspiredBy),
	}

	idea.AddDomainEvent(NewIdeaWrittenEvent(idea, nil, true))
	return idea, nil
}

// UpdateIdeaInput carries editable idea fields. Nil fields are left unchanged.
type UpdateIdeaInput struct {
	Title            *string
	ShortDescription *string
	Reasoning        *string
	CostEstimate     *string
	ImageRef         *string
	TaggedUserIDs    *[]uuid.UUID
}

// Update applies changes made by actorID, who must be the creator. The
// previous tag list is carried on the raised event so newly added tags can
// be told apart from tags that were already notified.
func (i *Idea) Update(actorID uuid.UUID, input UpdateIdeaInput) error {
	if actorID != i.CreatorID {
		return shared.NewDomainError("FORBIDDEN", "Only the creator can edit an idea")
	}

	title, short, reasoning := i.Title, i.ShortDescription, i.Reasoning
	if input.Title != nil {
		title = strings.TrimSpace(*input.Title)
	}
	if input.ShortDescription != nil {
		short = strings.TrimSpace(*input.ShortDescription)
	}
	if input.Reasoning != nil {
		reasoning = *input.Reasoning
	}
	if err := validateIdeaText(title, short, reasoning); err != nil {
		return err
	}
	if input.CostEstimate != nil {
		if strings.TrimSpace(*input.CostEstimate) == "" {
			return shared.NewDomainError("INVALID_COST_ESTIMATE", "Cost estimate is required")
		}
		i.CostEstimate = strings.TrimSpace(*input.CostEstimate)
	}
	if input.ImageRef != nil {
		i.ImageRef = *input.ImageRef
	}

	before := append([]uuid.UUID(nil), i.TaggedUserIDs...)
	if input.TaggedUserIDs != nil {
		i.TaggedUserIDs = DedupeTags(*input.TaggedUserIDs)
	}
	i.Title, i.ShortDescription, i.Reasoning = title, short, reasoning
	i.Touch()
	i.IncrementVersion()

	i.AddDomainEvent(NewIdeaWrittenEvent(i, before, false))
	return nil
}

// Approve marks the idea as approved
func (i *Idea) Approve() error {
	if i.Approved {
		return shared.NewDomainError("INVALID_STATE", "Idea is already approved")
	}
	i.Approved = true
	i.Touch()
	i.IncrementVersion()
	i.AddDomainEvent(NewIdeaWrittenEvent(i, i.TaggedUserIDs, false))
	return nil
}

// InspiringIdeaIDs returns the ids of the ideas this idea references
func (i *Idea) InspiringIdeaIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(i.InspiredBy))
	for _, ref := range i.InspiredBy {
		ids = append(ids, ref.IdeaID)
	}
	return ids
}

func validateIdeaText(title, short, reasoning string) error {
	titleLen := utf8.RuneCountInString(title)
	if titleLen < MinTitleLength || titleLen > MaxTitleLength {
		return shared.NewDomainError("INVALID_TITLE", "Title must be between 3 and 120 characters")
	}
	shortLen := utf8.RuneCountInString(short)
	if shortLen == 0 || shortLen > MaxShortDescriptionLength {
		return shared.NewDomainError("INVALID_SHORT_DESCRIPTION", "Short description must be between 1 and 280 characters")
	}
	if utf8.RuneCountInString(reasoning) > MaxReasoningLength {
		return shared.NewDomainError("INVALID_REASONING", "Reasoning cannot exceed 5000 characters")
	}
	return nil
}

func dedupeInspirations(refs []InspirationRef) []InspirationRef {
	seen := make(map[uuid.UUID]struct{}, len(refs))
	out := make([]InspirationRef, 0, len(refs))
	for _, ref := range refs {
		if ref.IdeaID == uuid.Nil {
			continue
		}
		if _, ok := seen[ref.IdeaID]; ok {
			continue
		}
		seen[ref.IdeaID] = struct{}{}
		out = append(out, ref)
	}
	return out
}

package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVoteRepository implements ideation.VoteRepository using GORM
type GormVoteRepository struct {
	db *gorm.DB
}

// NewGormVoteRepository creates a new GormVoteRepository
func NewGormVoteRepository(db *gorm.DB) *GormVoteRepository {
	return &GormVoteRepository{db: db}
}

var _ ideation.VoteRepository = (*GormVoteRepository)(nil)

// Upsert creates or overwrites the vote for (target, user)
func (r *GormVoteRepository) Upsert(ctx context.Context, vote *ideation.Vote) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "target_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(models.VoteModelFromDomain(vote)).Error
}

// Delete removes the vote for (target, user). Deleting a missing vote succeeds.
func (r *GormVoteRepository) Delete(ctx context.Context, targetID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("target_id = ? AND user_id = ?", targetID, userID).
		Delete(&models.VoteModel{}).Error
}

// FindOne returns the user's vote on a target
func (r *GormVoteRepository) FindOne(ctx context.Context, targetID, userID uuid.UUID) (*ideation.Vote, error) {
	var model models.VoteModel
	if err := r.db.WithContext(ctx).
		Where("target_id = ? AND user_id = ?", targetID, userID).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain()
}

type voteCount struct {
	Value string
	Total int64
}

// Tally counts agree and disagree votes on a target
func (r *GormVoteRepository) Tally(ctx context.Context, targetID uuid.UUID) (*ideation.VoteTally, error) {
	var counts []voteCount
	if err := r.db.WithContext(ctx).
		Model(&models.VoteModel{}).
		Select("value, COUNT(*) AS total").
		Where("target_id = ?", targetID).
		Group("value").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	tally := &ideation.VoteTally{TargetID: targetID}
	for _, c := range counts {
		switch ideation.VoteValue(c.Value) {
		case ideation.VoteAgree:
			tally.Agree = c.Total
		case ideation.VoteDisagree:
			tally.Disagree = c.Total
		}
	}
	return tally, nil
}

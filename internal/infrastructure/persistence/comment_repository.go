package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCommentRepository implements ideation.CommentRepository using GORM
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

var _ ideation.CommentRepository = (*GormCommentRepository)(nil)

// FindByID finds a comment by its ID
func (r *GormCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ideation.Comment, error) {
	var model models.CommentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain()
}

// FindByIdea returns the comments on an idea, oldest first
func (r *GormCommentRepository) FindByIdea(ctx context.Context, ideaID uuid.UUID) ([]ideation.Comment, error) {
	var rows []models.CommentModel
	if err := r.db.WithContext(ctx).
		Where("idea_id = ?", ideaID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return commentsToDomain(rows)
}

// ListAll returns every comment ordered by creation time
func (r *GormCommentRepository) ListAll(ctx context.Context) ([]ideation.Comment, error) {
	var rows []models.CommentModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return commentsToDomain(rows)
}

// Create inserts a new comment
func (r *GormCommentRepository) Create(ctx context.Context, comment *ideation.Comment) error {
	return r.db.WithContext(ctx).Create(models.CommentModelFromDomain(comment)).Error
}

// Save updates an edited comment under the same version check as ideas
func (r *GormCommentRepository) Save(ctx context.Context, comment *ideation.Comment) error {
	return updateWithLock(ctx, r.db, models.CommentModelFromDomain(comment), comment.ID, comment.Version,
		"id", "idea_id", "author_id", "created_at")
}

func commentsToDomain(rows []models.CommentModel) ([]ideation.Comment, error) {
	out := make([]ideation.Comment, 0, len(rows))
	for i := range rows {
		c, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

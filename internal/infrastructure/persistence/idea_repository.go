package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/ideation/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// maxNumberAttempts bounds the retries when two inserts race for the same number
const maxNumberAttempts = 5

// GormIdeaRepository implements ideation.IdeaRepository using GORM
type GormIdeaRepository struct {
	db *gorm.DB
}

// NewGormIdeaRepository creates a new GormIdeaRepository
func NewGormIdeaRepository(db *gorm.DB) *GormIdeaRepository {
	return &GormIdeaRepository{db: db}
}

var _ ideation.IdeaRepository = (*GormIdeaRepository)(nil)

// FindByID finds an idea by its ID
func (r *GormIdeaRepository) FindByID(ctx context.Context, id uuid.UUID) (*ideation.Idea, error) {
	var model models.IdeaModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain()
}

// FindByIDs returns the ideas with the given IDs; unknown IDs are skipped
func (r *GormIdeaRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ideation.Idea, error) {
	if len(ids) == 0 {
		return []ideation.Idea{}, nil
	}
	var rows []models.IdeaModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return ideasToDomain(rows)
}

// FindAll returns a page of ideas matching the filter
func (r *GormIdeaRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ideation.Idea, error) {
	var rows []models.IdeaModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.IdeaModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return ideasToDomain(rows)
}

// ListAll returns every idea ordered by creation time
func (r *GormIdeaRepository) ListAll(ctx context.Context) ([]ideation.Idea, error) {
	var rows []models.IdeaModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return ideasToDomain(rows)
}

// Count counts ideas matching the filter search
func (r *GormIdeaRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.IdeaModel{}), filter.Search)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts the idea with the next free number. A concurrent insert
// that takes the same number makes this one retry with a fresh maximum.
func (r *GormIdeaRepository) Create(ctx context.Context, idea *ideation.Idea) error {
	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var last int
			if err := tx.Model(&models.IdeaModel{}).
				Select("COALESCE(MAX(number), 0)").
				Scan(&last).Error; err != nil {
				return err
			}
			idea.Number = last + 1
			return tx.Create(models.IdeaModelFromDomain(idea)).Error
		})
		if !isUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		idea.Number = 0
		if isUniqueViolation(err) {
			return shared.WrapDomainError("IDEA_NUMBER_CONFLICT", "Could not assign an idea number", err)
		}
		return err
	}
	return nil
}

// Save updates an existing idea. A concurrent edit saved since the idea was
// loaded yields shared.ErrConflict.
func (r *GormIdeaRepository) Save(ctx context.Context, idea *ideation.Idea) error {
	return updateWithLock(ctx, r.db, models.IdeaModelFromDomain(idea), idea.ID, idea.Version,
		"id", "number", "created_at")
}

// applyFilter applies search, ordering and pagination to the query
func (r *GormIdeaRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter.Search)

	query = query.Clauses(ideaSortColumns.orderBy(filter.OrderBy, filter.OrderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// applySearch matches title or short description, case-insensitively
func (r *GormIdeaRepository) applySearch(query *gorm.DB, search string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return query
	}
	pattern := "%" + strings.ToLower(search) + "%"
	return query.Where("LOWER(title) LIKE ? OR LOWER(short_description) LIKE ?", pattern, pattern)
}

func ideasToDomain(rows []models.IdeaModel) ([]ideation.Idea, error) {
	out := make([]ideation.Idea, 0, len(rows))
	for i := range rows {
		idea, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *idea)
	}
	return out, nil
}

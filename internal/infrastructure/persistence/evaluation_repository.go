package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEvaluationRepository implements ideation.EvaluationRepository using GORM
type GormEvaluationRepository struct {
	db *gorm.DB
}

// NewGormEvaluationRepository creates a new GormEvaluationRepository
func NewGormEvaluationRepository(db *gorm.DB) *GormEvaluationRepository {
	return &GormEvaluationRepository{db: db}
}

var _ ideation.EvaluationRepository = (*GormEvaluationRepository)(nil)

// Upsert creates or overwrites the evaluation for (idea, evaluator)
func (r *GormEvaluationRepository) Upsert(ctx context.Context, evaluation *ideation.Evaluation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idea_id"}, {Name: "evaluator_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"impact", "feasibility", "evaluated_at"}),
		}).
		Create(models.EvaluationModelFromDomain(evaluation)).Error
}

// FindByIdea returns every evaluation of an idea
func (r *GormEvaluationRepository) FindByIdea(ctx context.Context, ideaID uuid.UUID) ([]ideation.Evaluation, error) {
	var rows []models.EvaluationModel
	if err := r.db.WithContext(ctx).
		Where("idea_id = ?", ideaID).
		Order("evaluated_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return evaluationsToDomain(rows)
}

// FindOne returns the evaluator's evaluation of an idea
func (r *GormEvaluationRepository) FindOne(ctx context.Context, ideaID, evaluatorID uuid.UUID) (*ideation.Evaluation, error) {
	var model models.EvaluationModel
	if err := r.db.WithContext(ctx).
		Where("idea_id = ? AND evaluator_id = ?", ideaID, evaluatorID).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain()
}

// ListAll returns every evaluation
func (r *GormEvaluationRepository) ListAll(ctx context.Context) ([]ideation.Evaluation, error) {
	var rows []models.EvaluationModel
	if err := r.db.WithContext(ctx).Order("evaluated_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return evaluationsToDomain(rows)
}

func evaluationsToDomain(rows []models.EvaluationModel) ([]ideation.Evaluation, error) {
	out := make([]ideation.Evaluation, 0, len(rows))
	for i := range rows {
		e, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

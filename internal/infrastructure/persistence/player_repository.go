package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/player"
	"github.com/ideation/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPlayerRepository implements player.Repository using GORM
type GormPlayerRepository struct {
	db *gorm.DB
}

// NewGormPlayerRepository creates a new GormPlayerRepository
func NewGormPlayerRepository(db *gorm.DB) *GormPlayerRepository {
	return &GormPlayerRepository{db: db}
}

var _ player.Repository = (*GormPlayerRepository)(nil)

// FindByID finds a player by user ID
func (r *GormPlayerRepository) FindByID(ctx context.Context, id uuid.UUID) (*player.Player, error) {
	var model models.PlayerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain()
}

// FindByIDs returns the players with the given IDs; unknown IDs are skipped
func (r *GormPlayerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]player.Player, error) {
	if len(ids) == 0 {
		return []player.Player{}, nil
	}
	var rows []models.PlayerModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return playersToDomain(rows)
}

// ListAll returns every player ordered by creation time
func (r *GormPlayerRepository) ListAll(ctx context.Context) ([]player.Player, error) {
	var rows []models.PlayerModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return playersToDomain(rows)
}

// Save creates or updates a player profile
func (r *GormPlayerRepository) Save(ctx context.Context, p *player.Player) error {
	return r.db.WithContext(ctx).Save(models.PlayerModelFromDomain(p)).Error
}

// FindDetails returns the player's settings or shared.ErrNotFound
func (r *GormPlayerRepository) FindDetails(ctx context.Context, userID uuid.UUID) (*player.Details, error) {
	var model models.PlayerDetailsModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain()
}

// SaveDetails creates or overwrites the player's settings
func (r *GormPlayerRepository) SaveDetails(ctx context.Context, d *player.Details) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_admin", "receive_recap_emails", "updated_at"}),
		}).
		Create(models.PlayerDetailsModelFromDomain(d)).Error
}

func playersToDomain(rows []models.PlayerModel) ([]player.Player, error) {
	out := make([]player.Player, 0, len(rows))
	for i := range rows {
		p, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

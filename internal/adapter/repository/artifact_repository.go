package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/minhledev/podcast-marketer/internal/domain/entities"
)

// ArtifactRepository handles content artifact data operations
type ArtifactRepository struct {
	db *gorm.DB
}

// NewArtifactRepository creates a new artifact repository
func NewArtifactRepository(db *gorm.DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

// UpsertArtifact stores an artifact, replacing any previous artifact of the
// same kind for the episode. Regeneration overwrites rather than duplicates.
func (r *ArtifactRepository) UpsertArtifact(ctx context.Context, artifact *entities.ContentArtifact) error {
	if artifact == nil {
		return errors.New("artifact cannot be nil")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "episode_id"}, {Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "was_fallback", "attempts", "model_used", "updated_at"}),
		}).
		Create(artifact).Error
}

// GetArtifactsByEpisodeID retrieves all artifacts for an episode
func (r *ArtifactRepository) GetArtifactsByEpisodeID(ctx context.Context, episodeID uuid.UUID) ([]entities.ContentArtifact, error) {
	var artifacts []entities.ContentArtifact
	if err := r.db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Order("kind ASC").
		Find(&artifacts).Error; err != nil {
		return nil, err
	}
	return artifacts, nil
}

// GetArtifactByKind retrieves one artifact kind for an episode
func (r *ArtifactRepository) GetArtifactByKind(ctx context.Context, episodeID uuid.UUID, kind entities.ArtifactKind) (*entities.ContentArtifact, error) {
	var artifact entities.ContentArtifact
	if err := r.db.WithContext(ctx).
		Where("episode_id = ? AND kind = ?", episodeID, kind).
		First(&artifact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &artifact, nil
}

// DeleteArtifactsByEpisodeID deletes every artifact for an episode
func (r *ArtifactRepository) DeleteArtifactsByEpisodeID(ctx context.Context, episodeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Delete(&entities.ContentArtifact{}).Error
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhledev/podcast-marketer/internal/domain/entities"
)

// ContentJobRepository handles content job data operations
type ContentJobRepository struct {
	db *gorm.DB
}

// NewContentJobRepository creates a new content job repository
func NewContentJobRepository(db *gorm.DB) *ContentJobRepository {
	return &ContentJobRepository{db: db}
}

// GetDB exposes the underlying handle for atomic claim updates
func (r *ContentJobRepository) GetDB() *gorm.DB {
	return r.db
}

// CreateContentJob creates a new content job
func (r *ContentJobRepository) CreateContentJob(ctx context.Context, job *entities.ContentJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// GetContentJobByID retrieves a content job by ID
func (r *ContentJobRepository) GetContentJobByID(ctx context.Context, jobID uuid.UUID) (*entities.ContentJob, error) {
	var job entities.ContentJob
	if err := r.db.WithContext(ctx).Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// GetContentJobByEpisodeID retrieves the latest content job for an episode
func (r *ContentJobRepository) GetContentJobByEpisodeID(ctx context.Context, episodeID uuid.UUID) (*entities.ContentJob, error) {
	var job entities.ContentJob
	if err := r.db.WithContext(ctx).
		Where("episode_id = ?", episodeID).
		Order("created_at DESC").
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// GetJobsByStatus retrieves jobs with a specific status, oldest first
func (r *ContentJobRepository) GetJobsByStatus(ctx context.Context, status entities.ContentJobStatus, limit int) ([]entities.ContentJob, error) {
	var jobs []entities.ContentJob
	if limit == 0 {
		limit = 100
	}
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJobsForSubmission retrieves jobs waiting to be sent to transcription
func (r *ContentJobRepository) GetJobsForSubmission(ctx context.Context, limit int) ([]entities.ContentJob, error) {
	var jobs []entities.ContentJob
	if limit == 0 {
		limit = 10
	}
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []entities.ContentJobStatus{entities.ContentJobStatusPending, entities.ContentJobStatusRetrying}).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetStuckJobs retrieves submitted jobs whose webhook never arrived
func (r *ContentJobRepository) GetStuckJobs(ctx context.Context, olderThan time.Duration, limit int) ([]entities.ContentJob, error) {
	var jobs []entities.ContentJob
	if limit == 0 {
		limit = 10
	}
	cutoff := time.Now().Add(-olderThan)
	if err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", entities.ContentJobStatusSubmitted, cutoff).
		Order("updated_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetZombieJobs retrieves jobs stuck mid-generation, usually after a crash
func (r *ContentJobRepository) GetZombieJobs(ctx context.Context, olderThan time.Duration, limit int) ([]entities.ContentJob, error) {
	var jobs []entities.ContentJob
	if limit == 0 {
		limit = 10
	}
	cutoff := time.Now().Add(-olderThan)
	if err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", entities.ContentJobStatusGenerating, cutoff).
		Order("updated_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkJobAsSubmitted marks a job as submitted with the external job ID
func (r *ContentJobRepository) MarkJobAsSubmitted(ctx context.Context, jobID uuid.UUID, externalID string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.ContentJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":          entities.ContentJobStatusSubmitted,
			"external_job_id": externalID,
			"started_at":      now,
			"updated_at":      now,
		}).Error
}

// MarkJobAsTranscriptReady records the transcript and hands the job to the
// generation workers
func (r *ContentJobRepository) MarkJobAsTranscriptReady(ctx context.Context, jobID, transcriptID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.ContentJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":        entities.ContentJobStatusTranscriptReady,
			"transcript_id": transcriptID,
			"updated_at":    now,
		}).Error
}

// ClaimJobForGeneration atomically moves a job from transcript_ready to
// generating. Returns false when another worker claimed it first.
func (r *ContentJobRepository) ClaimJobForGeneration(ctx context.Context, jobID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.ContentJob{}).
		Where("id = ? AND status = ?", jobID, entities.ContentJobStatusTranscriptReady).
		Updates(map[string]interface{}{
			"status":     entities.ContentJobStatusGenerating,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkJobAsCompleted marks a job as completed
func (r *ContentJobRepository) MarkJobAsCompleted(ctx context.Context, jobID uuid.UUID, metadata entities.ContentJobMetadata) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.ContentJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":       entities.ContentJobStatusCompleted,
			"metadata":     metadata,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// MarkJobAsFailed marks a job as failed with the error message
func (r *ContentJobRepository) MarkJobAsFailed(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.ContentJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":     entities.ContentJobStatusFailed,
			"last_error": errMsg,
			"updated_at": now,
		}).Error
}

// IncrementRetryCount bumps the retry count and re-queues the job
func (r *ContentJobRepository) IncrementRetryCount(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.ContentJob{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"retry_count": gorm.Expr("retry_count + 1"),
			"status":      entities.ContentJobStatusRetrying,
			"last_error":  errMsg,
			"updated_at":  now,
		}).Error
}

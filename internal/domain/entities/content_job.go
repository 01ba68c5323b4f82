package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ContentJobStatus represents the status of a content pipeline job
type ContentJobStatus string

const (
	ContentJobStatusPending         ContentJobStatus = "pending"          // Waiting to be submitted to AssemblyAI
	ContentJobStatusSubmitted       ContentJobStatus = "submitted"        // Submitted to AssemblyAI, waiting for transcript
	ContentJobStatusTranscriptReady ContentJobStatus = "transcript_ready" // Transcript stored, waiting for a marketing worker
	ContentJobStatusGenerating      ContentJobStatus = "generating"       // Marketing artifacts being generated
	ContentJobStatusCompleted       ContentJobStatus = "completed"        // All processing done
	ContentJobStatusFailed          ContentJobStatus = "failed"           // Processing failed
	ContentJobStatusRetrying        ContentJobStatus = "retrying"         // Retrying after failure
)

// ContentJob represents one episode's pass through the pipeline
type ContentJob struct {
	ID            uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EpisodeID     uuid.UUID        `json:"episode_id" gorm:"type:uuid;not null;index"`
	Status        ContentJobStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`
	ExternalJobID *string          `json:"external_job_id,omitempty" gorm:"type:varchar(255);index"` // AssemblyAI transcript ID
	AudioURL      string           `json:"audio_url" gorm:"type:text;not null"`
	TranscriptID  *uuid.UUID       `json:"transcript_id,omitempty" gorm:"type:uuid;index"`

	// Processing details
	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`
	RetryCount  int        `json:"retry_count" gorm:"type:integer;default:0"`
	MaxRetries  int        `json:"max_retries" gorm:"type:integer;default:3"`
	LastError   *string    `json:"last_error,omitempty" gorm:"type:text"`

	// Metadata
	Metadata ContentJobMetadata `json:"metadata,omitempty" gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ContentJobMetadata stores additional metadata for content jobs
type ContentJobMetadata struct {
	DurationSeconds  int    `json:"duration_seconds,omitempty"`
	Language         string `json:"language,omitempty"`
	ChapterCount     int    `json:"chapter_count,omitempty"`
	FallbackCount    int    `json:"fallback_count,omitempty"`
	TimingError      string `json:"timing_error,omitempty"`
	ProcessingTimeMs int64  `json:"processing_time_ms,omitempty"`
}

// Scan implements sql.Scanner interface for GORM
func (m *ContentJobMetadata) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &m)
}

// Value implements driver.Valuer interface for GORM
func (m ContentJobMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// NewContentJob creates a new content job
func NewContentJob(episodeID uuid.UUID, audioURL string) *ContentJob {
	return &ContentJob{
		ID:         uuid.New(),
		EpisodeID:  episodeID,
		Status:     ContentJobStatusPending,
		AudioURL:   audioURL,
		RetryCount: 0,
		MaxRetries: 3,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// IsRetryable checks if job can be retried
func (j *ContentJob) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries && j.Status == ContentJobStatusFailed
}

// MarkAsSubmitted marks job as submitted to the speech service
func (j *ContentJob) MarkAsSubmitted(externalJobID string) {
	j.Status = ContentJobStatusSubmitted
	j.ExternalJobID = &externalJobID
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted marks job as completed successfully
func (j *ContentJob) MarkAsCompleted() {
	j.Status = ContentJobStatusCompleted
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed marks job as failed with error message
func (j *ContentJob) MarkAsFailed(errMsg string) {
	j.Status = ContentJobStatusFailed
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}

// IncrementRetry increments retry count and marks for retry
func (j *ContentJob) IncrementRetry(errMsg string) {
	j.RetryCount++
	j.Status = ContentJobStatusRetrying
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}

// TableName specifies the table name for GORM
func (ContentJob) TableName() string {
	return "content_jobs"
}

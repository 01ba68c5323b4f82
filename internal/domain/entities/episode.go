package entities

import (
	"time"

	"github.com/google/uuid"
)

// EpisodeStatus tracks where an episode sits in the content pipeline
type EpisodeStatus string

const (
	EpisodeStatusUploaded     EpisodeStatus = "uploaded"     // Audio stored, transcription not yet submitted
	EpisodeStatusTranscribing EpisodeStatus = "transcribing" // Waiting for the speech service
	EpisodeStatusGenerating   EpisodeStatus = "generating"   // Marketing content being generated
	EpisodeStatusReady        EpisodeStatus = "ready"        // All artifacts stored
	EpisodeStatusFailed       EpisodeStatus = "failed"
)

// Episode is one podcast episode registered with the pipeline
type Episode struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string        `json:"title" gorm:"type:varchar(512);not null"`
	ShowName    string        `json:"show_name,omitempty" gorm:"type:varchar(255)"`
	AudioURL    string        `json:"audio_url" gorm:"type:text;not null"`
	Status      EpisodeStatus `json:"status" gorm:"type:varchar(32);not null;index;default:'uploaded'"`
	DurationSec int           `json:"duration_sec,omitempty"`
	CreatedAt   time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Episode) TableName() string {
	return "episodes"
}

// NewEpisode creates a new episode
func NewEpisode(title, showName, audioURL string) *Episode {
	return &Episode{
		ID:        uuid.New(),
		Title:     title,
		ShowName:  showName,
		AudioURL:  audioURL,
		Status:    EpisodeStatusUploaded,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Chapter is a speech-service-produced time-anchored segment of the episode.
// Start and End are offsets in milliseconds from the beginning of the audio.
type Chapter struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Gist     string `json:"gist"`
}

// Transcript is the stored transcript model. Immutable once written by the
// transcription webhook; artifact generation only reads it.
type Transcript struct {
	ID              uuid.UUID                                  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EpisodeID       uuid.UUID                                  `json:"episode_id" gorm:"type:uuid;not null;index"`
	Text            string                                     `json:"text" gorm:"type:text"`
	Chapters        []Chapter                                  `json:"chapters,omitempty" gorm:"type:jsonb;serializer:json"`
	Language        string                                     `json:"language,omitempty" gorm:"type:varchar(20)"`
	ConfidenceScore float64                                    `json:"confidence_score,omitempty"`
	AudioDuration   int                                        `json:"audio_duration,omitempty"` // in seconds
	ModelUsed       string                                     `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	RawData         datatypes.JSONType[map[string]interface{}] `json:"raw_data,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time                                  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time                                  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a new transcript
func NewTranscript(episodeID uuid.UUID) *Transcript {
	return &Transcript{
		ID:        uuid.New(),
		EpisodeID: episodeID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

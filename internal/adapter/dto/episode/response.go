package episode

import (
	"encoding/json"
	"time"

	"github.com/minhledev/podcast-marketer/internal/domain/entities"
)

// EpisodeResponse is the API shape of an episode
type EpisodeResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ShowName    string    `json:"show_name,omitempty"`
	AudioURL    string    `json:"audio_url"`
	Status      string    `json:"status"`
	DurationSec int       `json:"duration_sec,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobResponse is the API shape of a content job
type JobResponse struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	RetryCount  int        `json:"retry_count"`
	LastError   string     `json:"last_error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// EpisodeDetailResponse bundles an episode with its processing state
type EpisodeDetailResponse struct {
	Episode EpisodeResponse `json:"episode"`
	Job     *JobResponse    `json:"job,omitempty"`
}

// ArtifactResponse is one stored marketing artifact. WasFallback marks
// placeholder content that needs human attention before publishing.
type ArtifactResponse struct {
	Kind        string          `json:"kind"`
	Payload     json.RawMessage `json:"payload"`
	WasFallback bool            `json:"was_fallback"`
	Attempts    int             `json:"attempts"`
	ModelUsed   string          `json:"model_used,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// ContentResponse is the full artifact set for an episode
type ContentResponse struct {
	EpisodeID string             `json:"episode_id"`
	Artifacts []ArtifactResponse `json:"artifacts"`
}

// FromEpisode converts an episode entity to its API shape
func FromEpisode(e *entities.Episode) EpisodeResponse {
	return EpisodeResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		ShowName:    e.ShowName,
		AudioURL:    e.AudioURL,
		Status:      string(e.Status),
		DurationSec: e.DurationSec,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// FromJob converts a content job entity to its API shape
func FromJob(j *entities.ContentJob) *JobResponse {
	if j == nil {
		return nil
	}
	resp := &JobResponse{
		ID:          j.ID.String(),
		Status:      string(j.Status),
		RetryCount:  j.RetryCount,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
	if j.LastError != nil {
		resp.LastError = *j.LastError
	}
	return resp
}

// FromArtifacts converts stored artifacts to the API content shape
func FromArtifacts(episodeID string, artifacts []entities.ContentArtifact) ContentResponse {
	resp := ContentResponse{
		EpisodeID: episodeID,
		Artifacts: make([]ArtifactResponse, 0, len(artifacts)),
	}
	for _, a := range artifacts {
		resp.Artifacts = append(resp.Artifacts, ArtifactResponse{
			Kind:        string(a.Kind),
			Payload:     json.RawMessage(a.Payload),
			WasFallback: a.WasFallback,
			Attempts:    a.Attempts,
			ModelUsed:   a.ModelUsed,
			GeneratedAt: a.UpdatedAt,
		})
	}
	return resp
}

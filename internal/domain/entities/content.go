package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ArtifactKind identifies one marketing artifact type
type ArtifactKind string

const (
	ArtifactKindSummary           ArtifactKind = "summary"
	ArtifactKindSocialPosts       ArtifactKind = "social_posts"
	ArtifactKindTitles            ArtifactKind = "titles"
	ArtifactKindYouTubeTimestamps ArtifactKind = "youtube_timestamps"
)

// EpisodeSummary is the long-form summary artifact
type EpisodeSummary struct {
	Full     string   `json:"full"`
	Bullets  []string `json:"bullets"`
	Insights []string `json:"insights"`
	TLDR     string   `json:"tldr"`
}

// SocialPosts holds one ready-to-publish post per platform
type SocialPosts struct {
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
	TikTok    string `json:"tiktok"`
	YouTube   string `json:"youtube"`
	Facebook  string `json:"facebook"`
}

// TitleSet holds title and keyword suggestions
type TitleSet struct {
	YouTubeShort  []string `json:"youtubeShort"`
	YouTubeLong   []string `json:"youtubeLong"`
	PodcastTitles []string `json:"podcastTitles"`
	SEOKeywords   []string `json:"seoKeywords"`
}

// TimestampEntry is one line of a YouTube chapter listing. Timestamp is
// formatted M:SS below one hour and H:MM:SS above.
type TimestampEntry struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
}

// ContentArtifact is one stored generation result for an episode. WasFallback
// records whether the payload is the static placeholder rather than genuine
// model output, so downstream consumers can surface degraded results.
type ContentArtifact struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EpisodeID   uuid.UUID      `json:"episode_id" gorm:"type:uuid;not null;index:idx_artifact_episode_kind,unique"`
	Kind        ArtifactKind   `json:"kind" gorm:"type:varchar(32);not null;index:idx_artifact_episode_kind,unique"`
	Payload     datatypes.JSON `json:"payload" gorm:"type:jsonb;not null"`
	WasFallback bool           `json:"was_fallback" gorm:"default:false"`
	Attempts    int            `json:"attempts" gorm:"type:integer;default:0"`
	ModelUsed   string         `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ContentArtifact) TableName() string {
	return "content_artifacts"
}

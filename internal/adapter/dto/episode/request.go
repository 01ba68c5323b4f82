package episode

// CreateEpisodeRequest registers a new episode for processing. AudioURL must
// be publicly fetchable by the transcription provider.
type CreateEpisodeRequest struct {
	Title    string `json:"title" validate:"required,max=512"`
	ShowName string `json:"show_name" validate:"max=255"`
	AudioURL string `json:"audio_url" validate:"required,audiourl"`
}

// ListEpisodesRequest holds pagination parameters
type ListEpisodesRequest struct {
	Page     int `query:"page" validate:"min=0"`
	PageSize int `query:"page_size" validate:"min=0,max=200"`
}

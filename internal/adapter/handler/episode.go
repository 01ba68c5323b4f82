package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/minhledev/podcast-marketer/errors"
	"github.com/minhledev/podcast-marketer/internal/adapter/dto/common"
	episodedto "github.com/minhledev/podcast-marketer/internal/adapter/dto/episode"
	"github.com/minhledev/podcast-marketer/internal/domain/entities"
	contentuse "github.com/minhledev/podcast-marketer/internal/usecase/content"
)

// EpisodeHandler handles episode API endpoints
type EpisodeHandler struct {
	svc    contentuse.Service
	logger *zap.Logger
}

// NewEpisodeHandler creates a new episode handler
func NewEpisodeHandler(svc contentuse.Service, logger *zap.Logger) *EpisodeHandler {
	return &EpisodeHandler{svc: svc, logger: logger}
}

// CreateEpisode registers an episode and starts the content pipeline
func (h *EpisodeHandler) CreateEpisode(c echo.Context) error {
	var req episodedto.CreateEpisodeRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	ep, job, err := h.svc.CreateEpisode(c.Request().Context(), req.Title, req.ShowName, req.AudioURL)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleAccepted(h.logger, c, episodedto.EpisodeDetailResponse{
		Episode: episodedto.FromEpisode(ep),
		Job:     episodedto.FromJob(job),
	})
}

// ListEpisodes returns registered episodes, newest first
func (h *EpisodeHandler) ListEpisodes(c echo.Context) error {
	var req episodedto.ListEpisodesRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 200 {
		req.PageSize = 50
	}

	episodes, err := h.svc.ListEpisodes(c.Request().Context(), req.PageSize, (req.Page-1)*req.PageSize)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("list episodes", err))
	}

	items := make([]episodedto.EpisodeResponse, 0, len(episodes))
	for i := range episodes {
		items = append(items, episodedto.FromEpisode(&episodes[i]))
	}

	return HandleSuccess(h.logger, c, common.ListResponse{
		Data: items,
		Pagination: &common.PaginationResponse{
			Page:     req.Page,
			PageSize: req.PageSize,
			Count:    len(items),
		},
	})
}

// GetEpisode returns an episode with its processing state
func (h *EpisodeHandler) GetEpisode(c echo.Context) error {
	episodeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid episode id"))
	}

	ep, job, err := h.svc.GetEpisode(c.Request().Context(), episodeID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("get episode", err))
	}
	if ep == nil {
		return HandleError(h.logger, c, errors.ErrEpisodeNotFound(episodeID.String()))
	}

	return HandleSuccess(h.logger, c, episodedto.EpisodeDetailResponse{
		Episode: episodedto.FromEpisode(ep),
		Job:     episodedto.FromJob(job),
	})
}

// GetEpisodeContent returns the generated marketing artifacts for an episode
func (h *EpisodeHandler) GetEpisodeContent(c echo.Context) error {
	episodeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid episode id"))
	}

	ep, job, err := h.svc.GetEpisode(c.Request().Context(), episodeID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("get episode", err))
	}
	if ep == nil {
		return HandleError(h.logger, c, errors.ErrEpisodeNotFound(episodeID.String()))
	}

	artifacts, err := h.svc.GetEpisodeContent(c.Request().Context(), episodeID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("get artifacts", err))
	}
	if len(artifacts) == 0 {
		if job != nil && job.Status == entities.ContentJobStatusFailed {
			lastError := ""
			if job.LastError != nil {
				lastError = *job.LastError
			}
			return HandleError(h.logger, c, errors.ErrGenerationFailed(nil).WithDetail("last_error", lastError))
		}
		return HandleError(h.logger, c, errors.ErrContentNotReady(episodeID.String()))
	}

	return HandleSuccess(h.logger, c, episodedto.FromArtifacts(episodeID.String(), artifacts))
}

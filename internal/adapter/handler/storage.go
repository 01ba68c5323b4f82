package handler

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/minhledev/podcast-marketer/errors"
	episodedto "github.com/minhledev/podcast-marketer/internal/adapter/dto/episode"
	"github.com/minhledev/podcast-marketer/internal/infrastructure/storage"
	contentuse "github.com/minhledev/podcast-marketer/internal/usecase/content"
)

// maxAudioUploadBytes caps direct uploads at 500 MB, roughly five hours of
// 192 kbps audio.
const maxAudioUploadBytes = 500 << 20

// StorageHandler handles direct audio uploads into object storage
type StorageHandler struct {
	svc     contentuse.Service
	storage *storage.MinIOClient
	logger  *zap.Logger
}

// NewStorageHandler creates a new storage handler
func NewStorageHandler(svc contentuse.Service, storageClient *storage.MinIOClient, logger *zap.Logger) *StorageHandler {
	return &StorageHandler{svc: svc, storage: storageClient, logger: logger}
}

// UploadEpisode accepts a multipart audio file, stores it, and registers an
// episode for processing. For audio already hosted at a public URL, use
// POST /v1/episodes instead.
func (h *StorageHandler) UploadEpisode(c echo.Context) error {
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("title is required"))
	}
	showName := strings.TrimSpace(c.FormValue("show_name"))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrEpisodeAudioMissing())
	}
	if fileHeader.Size > maxAudioUploadBytes {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("audio file too large"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	audioURL, err := h.storage.UploadAudio(c.Request().Context(), uuid.New(), fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("upload audio", err))
	}

	ep, job, err := h.svc.CreateEpisode(c.Request().Context(), title, showName, audioURL)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleAccepted(h.logger, c, episodedto.EpisodeDetailResponse{
		Episode: episodedto.FromEpisode(ep),
		Job:     episodedto.FromJob(job),
	})
}

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhledev/podcast-marketer/internal/adapter/repository"
	"github.com/minhledev/podcast-marketer/internal/domain/entities"
	"github.com/minhledev/podcast-marketer/internal/infrastructure/cache"
	"github.com/minhledev/podcast-marketer/internal/usecase/marketing"
	pkgai "github.com/minhledev/podcast-marketer/pkg/ai"
	"github.com/minhledev/podcast-marketer/pkg/config"
	"github.com/minhledev/podcast-marketer/pkg/jobcontext"
	"github.com/minhledev/podcast-marketer/pkg/jwt"
)

// Service defines content pipeline orchestration methods
type Service interface {
	CreateEpisode(ctx context.Context, title, showName, audioURL string) (*entities.Episode, *entities.ContentJob, error)
	GetEpisode(ctx context.Context, episodeID uuid.UUID) (*entities.Episode, *entities.ContentJob, error)
	ListEpisodes(ctx context.Context, limit, offset int) ([]entities.Episode, error)
	GetEpisodeContent(ctx context.Context, episodeID uuid.UUID) ([]entities.ContentArtifact, error)
	HandleTranscriptionWebhook(ctx context.Context, token string, payload []byte) error
	SubmitToTranscription(ctx context.Context, jobID uuid.UUID, audioURL string) error
	StartWorkerPool(ctx context.Context, workerCount int) error
	StopWorkerPool() error
}

type contentService struct {
	episodeRepo    *repository.EpisodeRepository
	jobRepo        *repository.ContentJobRepository
	transcriptRepo *repository.TranscriptRepository
	artifactRepo   *repository.ArtifactRepository
	asmClient      *pkgai.AssemblyAIClient
	asmSDKClient   *aai.Client // Official SDK client, used to fetch completed transcripts
	generator      *marketing.Generator
	signer         *jwt.WebhookSigner
	cache          *cache.RedisClient
	cfg            *config.Config
	logger         *zap.Logger

	submitSemaphore     chan struct{} // Limit concurrent transcription submissions
	workerStopChan      chan struct{}
	workerWg            sync.WaitGroup
	isWorkerPoolRunning bool
	workerMutex         sync.Mutex
}

// NewContentService constructs the content pipeline service
func NewContentService(
	episodeRepo *repository.EpisodeRepository,
	jobRepo *repository.ContentJobRepository,
	transcriptRepo *repository.TranscriptRepository,
	artifactRepo *repository.ArtifactRepository,
	asm *pkgai.AssemblyAIClient,
	generator *marketing.Generator,
	signer *jwt.WebhookSigner,
	redisCache *cache.RedisClient,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	asmSDKClient := aai.NewClient(cfg.Assembly.APIKey)

	return &contentService{
		episodeRepo:     episodeRepo,
		jobRepo:         jobRepo,
		transcriptRepo:  transcriptRepo,
		artifactRepo:    artifactRepo,
		asmClient:       asm,
		asmSDKClient:    asmSDKClient,
		generator:       generator,
		signer:          signer,
		cache:           redisCache,
		cfg:             cfg,
		logger:          logger,
		submitSemaphore: make(chan struct{}, 2), // Max 2 concurrent submissions
		workerStopChan:  make(chan struct{}),
	}
}

func contentCacheKey(episodeID uuid.UUID) string {
	return "content:" + episodeID.String()
}

// CreateEpisode registers an episode and queues its content job. The pending
// job worker submits it to transcription shortly after.
func (s *contentService) CreateEpisode(ctx context.Context, title, showName, audioURL string) (*entities.Episode, *entities.ContentJob, error) {
	if strings.TrimSpace(audioURL) == "" {
		return nil, nil, fmt.Errorf("audio URL is required")
	}

	episode := entities.NewEpisode(title, showName, audioURL)
	if err := s.episodeRepo.CreateEpisode(ctx, episode); err != nil {
		return nil, nil, fmt.Errorf("failed to create episode: %w", err)
	}

	job := entities.NewContentJob(episode.ID, audioURL)
	if err := s.jobRepo.CreateContentJob(ctx, job); err != nil {
		return nil, nil, fmt.Errorf("failed to create content job: %w", err)
	}

	s.logger.Info("🎙️ Episode registered",
		zap.String("episode_id", episode.ID.String()),
		zap.String("job_id", job.ID.String()),
		zap.String("title", title),
	)

	return episode, job, nil
}

// GetEpisode returns an episode with its latest content job
func (s *contentService) GetEpisode(ctx context.Context, episodeID uuid.UUID) (*entities.Episode, *entities.ContentJob, error) {
	episode, err := s.episodeRepo.GetEpisodeByID(ctx, episodeID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get episode: %w", err)
	}
	if episode == nil {
		return nil, nil, nil
	}

	job, err := s.jobRepo.GetContentJobByEpisodeID(ctx, episodeID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get content job: %w", err)
	}

	return episode, job, nil
}

// ListEpisodes returns registered episodes, newest first
func (s *contentService) ListEpisodes(ctx context.Context, limit, offset int) ([]entities.Episode, error) {
	episodes, err := s.episodeRepo.ListEpisodes(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	return episodes, nil
}

// GetEpisodeContent returns all stored artifacts for an episode. Completed
// episodes are served from cache.
func (s *contentService) GetEpisodeContent(ctx context.Context, episodeID uuid.UUID) ([]entities.ContentArtifact, error) {
	if s.cache != nil {
		var cached []entities.ContentArtifact
		hit, err := s.cache.GetJSON(ctx, contentCacheKey(episodeID), &cached)
		if err != nil {
			s.logger.Warn("⚠️ Content cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	artifacts, err := s.artifactRepo.GetArtifactsByEpisodeID(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get artifacts: %w", err)
	}

	if len(artifacts) > 0 && s.cache != nil {
		if err := s.cache.SetJSON(ctx, contentCacheKey(episodeID), artifacts, 10*time.Minute); err != nil {
			s.logger.Warn("⚠️ Content cache write failed", zap.Error(err))
		}
	}

	return artifacts, nil
}

// SubmitToTranscription submits an episode's audio to AssemblyAI.
// Expects the job to already exist and be claimed by the caller.
func (s *contentService) SubmitToTranscription(ctx context.Context, jobID uuid.UUID, audioURL string) error {
	if audioURL == "" {
		return fmt.Errorf("audio URL is required")
	}

	job, err := s.jobRepo.GetContentJobByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to get content job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("content job not found: %s", jobID)
	}

	// Blocks while 2 submissions are already in flight
	s.submitSemaphore <- struct{}{}
	defer func() { <-s.submitSemaphore }()

	webhookToken, err := s.signer.Sign(job.ID)
	if err != nil {
		return fmt.Errorf("failed to sign webhook token: %w", err)
	}

	webhookURL := strings.TrimRight(s.cfg.Assembly.WebhookBaseURL, "/") + "/v1/webhooks/assemblyai"

	var transcriptID string
	submitFn := func() error {
		cleanURL := strings.TrimSpace(audioURL)

		s.logger.Info("📤 Submitting audio for transcription",
			zap.String("job_id", job.ID.String()),
			zap.String("audio_url", cleanURL),
			zap.String("webhook_url", webhookURL),
		)

		id, err := s.asmClient.TranscribeAudio(ctx, cleanURL, webhookURL, webhookToken)
		if err != nil {
			s.logger.Error("❌ Transcription submission failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
			return err
		}
		transcriptID = id

		// Record external_job_id immediately; the webhook can arrive within
		// seconds and must be able to find this job.
		if err := s.jobRepo.MarkJobAsSubmitted(ctx, job.ID, transcriptID); err != nil {
			return fmt.Errorf("failed to record external job id: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxElapsedTime = 30 * time.Second
	bo.MaxInterval = 10 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		s.jobRepo.MarkJobAsFailed(ctx, job.ID, fmt.Sprintf("failed to submit to transcription: %v", err))
		s.episodeRepo.UpdateEpisodeStatus(ctx, job.EpisodeID, entities.EpisodeStatusFailed)
		s.logger.Error("❌ Failed to submit to transcription after retries",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		return err
	}

	s.episodeRepo.UpdateEpisodeStatus(ctx, job.EpisodeID, entities.EpisodeStatusTranscribing)

	s.logger.Info("✅ Transcription job submitted",
		zap.String("job_id", job.ID.String()),
		zap.String("transcript_id", transcriptID),
	)

	return nil
}

// HandleTranscriptionWebhook processes an AssemblyAI completion webhook. The
// token was attached at submission and ties the delivery to one content job.
func (s *contentService) HandleTranscriptionWebhook(ctx context.Context, token string, payload []byte) error {
	jobID, err := s.signer.Verify(token)
	if err != nil {
		s.logger.Warn("⚠️ Rejected webhook with invalid token", zap.Error(err))
		return fmt.Errorf("invalid webhook token: %w", err)
	}

	var body struct {
		TranscriptID string `json:"transcript_id"`
		ID           string `json:"id"`
		Status       string `json:"status"`
		Error        string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	transcriptID := body.TranscriptID
	if transcriptID == "" {
		transcriptID = body.ID
	}
	if transcriptID == "" {
		return fmt.Errorf("transcript ID missing in webhook")
	}

	s.logger.Info("📥 Received transcription webhook",
		zap.String("job_id", jobID.String()),
		zap.String("transcript_id", transcriptID),
		zap.String("status", body.Status),
	)

	// Process each delivery once; AssemblyAI retries webhooks on slow responses
	if s.cache != nil {
		first, err := s.cache.SetNX(ctx, "webhook:"+transcriptID+":"+body.Status, "1", time.Hour)
		if err != nil {
			s.logger.Warn("⚠️ Webhook idempotency check failed", zap.Error(err))
		} else if !first {
			s.logger.Info("⏭️ Duplicate webhook delivery ignored",
				zap.String("transcript_id", transcriptID),
			)
			return nil
		}
	}

	job, err := s.jobRepo.GetContentJobByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to find content job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("content job not found for webhook: %s", jobID)
	}
	if job.ExternalJobID != nil && *job.ExternalJobID != transcriptID {
		s.logger.Warn("⚠️ Webhook transcript ID does not match job",
			zap.String("job_id", job.ID.String()),
			zap.String("expected", *job.ExternalJobID),
			zap.String("got", transcriptID),
		)
		return fmt.Errorf("transcript ID mismatch for job %s", jobID)
	}

	switch body.Status {
	case "completed":
		if err := s.handleCompletedTranscript(ctx, job, transcriptID); err != nil {
			s.logger.Error("❌ Failed to handle completed transcript", zap.Error(err))
			return err
		}

	case "error":
		errorMsg := fmt.Sprintf("transcription error: %s", body.Error)
		if job.RetryCount < job.MaxRetries {
			s.jobRepo.IncrementRetryCount(ctx, job.ID, errorMsg)
			s.logger.Warn("🔁 Transcription failed, job queued for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount+1),
			)
		} else {
			s.jobRepo.MarkJobAsFailed(ctx, job.ID, errorMsg)
			s.episodeRepo.UpdateEpisodeStatus(ctx, job.EpisodeID, entities.EpisodeStatusFailed)
			s.logger.Error("❌ Transcription failed permanently",
				zap.String("job_id", job.ID.String()),
				zap.String("error", errorMsg),
			)
		}

	default:
		s.logger.Info("⏳ Ignoring non-terminal webhook status",
			zap.String("status", body.Status),
		)
	}

	return nil
}

// handleCompletedTranscript fetches the full transcript from AssemblyAI,
// stores it, and hands the job to the marketing workers
func (s *contentService) handleCompletedTranscript(ctx context.Context, job *entities.ContentJob, transcriptID string) error {
	s.logger.Info("📥 Fetching full transcript",
		zap.String("transcript_id", transcriptID),
		zap.String("job_id", job.ID.String()),
	)

	transcript, err := s.asmSDKClient.Transcripts.Get(ctx, transcriptID)
	if err != nil {
		return fmt.Errorf("failed to fetch transcript: %w", err)
	}

	entity := entities.NewTranscript(job.EpisodeID)
	entity.ModelUsed = "assemblyai"

	if transcript.Text != nil {
		entity.Text = *transcript.Text
	}
	if transcript.LanguageCode != "" {
		entity.Language = string(transcript.LanguageCode)
	}
	if transcript.Confidence != nil {
		entity.ConfidenceScore = *transcript.Confidence
	}
	if transcript.AudioDuration != nil {
		entity.AudioDuration = int(*transcript.AudioDuration)
	}

	// Auto-chapters carry the timing needed for the YouTube chapter listing.
	// Offsets stay in milliseconds.
	if len(transcript.Chapters) > 0 {
		chapters := make([]entities.Chapter, 0, len(transcript.Chapters))
		for _, ch := range transcript.Chapters {
			chapter := entities.Chapter{}
			if ch.Start != nil {
				chapter.Start = int(*ch.Start)
			}
			if ch.End != nil {
				chapter.End = int(*ch.End)
			}
			if ch.Headline != nil {
				chapter.Headline = *ch.Headline
			}
			if ch.Summary != nil {
				chapter.Summary = *ch.Summary
			}
			if ch.Gist != nil {
				chapter.Gist = *ch.Gist
			}
			chapters = append(chapters, chapter)
		}
		entity.Chapters = chapters
	}

	if err := s.transcriptRepo.CreateTranscript(ctx, entity); err != nil {
		return fmt.Errorf("failed to store transcript: %w", err)
	}

	s.logger.Info("✅ Transcript stored",
		zap.String("transcript_id", entity.ID.String()),
		zap.String("episode_id", job.EpisodeID.String()),
		zap.Int("text_length", len(entity.Text)),
		zap.Int("chapter_count", len(entity.Chapters)),
	)

	if entity.AudioDuration > 0 {
		s.episodeRepo.UpdateEpisodeDuration(ctx, job.EpisodeID, entity.AudioDuration)
	}
	s.episodeRepo.UpdateEpisodeStatus(ctx, job.EpisodeID, entities.EpisodeStatusGenerating)

	if err := s.jobRepo.MarkJobAsTranscriptReady(ctx, job.ID, entity.ID); err != nil {
		return fmt.Errorf("failed to mark job as transcript_ready: %w", err)
	}

	s.logger.Info("✅ Job marked as transcript_ready, will be picked up by worker pool",
		zap.String("job_id", job.ID.String()),
	)

	return nil
}

// StartWorkerPool starts background workers for the content pipeline
func (s *contentService) StartWorkerPool(ctx context.Context, workerCount int) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool already running")
	}

	s.isWorkerPoolRunning = true
	s.workerStopChan = make(chan struct{})

	s.logger.Info("🚀 Starting content worker pool",
		zap.Int("worker_count", workerCount),
	)

	for i := 0; i < workerCount; i++ {
		s.workerWg.Add(1)
		go s.marketingWorker(ctx, i)
	}

	s.workerWg.Add(1)
	go s.pendingJobWorker(ctx)

	s.workerWg.Add(1)
	go s.cleanupZombieJobs(ctx)

	s.workerWg.Add(1)
	go s.webhookTimeoutWorker(ctx)

	return nil
}

// StopWorkerPool gracefully stops all worker goroutines
func (s *contentService) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool not running")
	}

	s.logger.Info("🛑 Stopping content worker pool...")

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerPoolRunning = false

	s.logger.Info("✅ Content worker pool stopped")

	return nil
}

// marketingWorker polls for transcript_ready jobs and generates artifacts
func (s *contentService) marketingWorker(parentCtx context.Context, workerID int) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	s.logger.Info("👷 Marketing worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-s.workerStopChan:
			s.logger.Info("👷 Marketing worker stopping", zap.Int("worker_id", workerID))
			return

		case <-ticker.C:
			jobs, err := s.jobRepo.GetJobsByStatus(parentCtx, entities.ContentJobStatusTranscriptReady, 1)
			if err != nil {
				s.logger.Error("❌ Failed to poll jobs",
					zap.Int("worker_id", workerID),
					zap.Error(err),
				)
				continue
			}
			if len(jobs) == 0 {
				continue
			}

			job := jobs[0]

			// Only one worker wins the claim when several see the same job
			claimed, err := s.jobRepo.ClaimJobForGeneration(parentCtx, job.ID)
			if err != nil {
				s.logger.Error("❌ Failed to claim job",
					zap.String("job_id", job.ID.String()),
					zap.Error(err),
				)
				continue
			}
			if !claimed {
				s.logger.Info("⏭️ Job already claimed by another worker",
					zap.String("job_id", job.ID.String()),
				)
				continue
			}

			s.logger.Info("👷 Worker claimed job",
				zap.Int("worker_id", workerID),
				zap.String("job_id", job.ID.String()),
				zap.String("episode_id", job.EpisodeID.String()),
			)

			jobCtx, cancel := jobcontext.Begin(parentCtx, job.ID, "marketing_generation", workerID)

			err = jobcontext.Run(jobCtx, 3, func(ctx context.Context) error {
				return s.generateEpisodeContent(ctx, &job)
			})

			cancel()

			if err != nil {
				s.logger.Error("❌ Job failed after retries",
					zap.String("job_id", job.ID.String()),
					zap.Error(err),
				)
				s.jobRepo.MarkJobAsFailed(parentCtx, job.ID, err.Error())
				s.episodeRepo.UpdateEpisodeStatus(parentCtx, job.EpisodeID, entities.EpisodeStatusFailed)
			} else {
				s.logger.Info("✅ Job completed successfully",
					zap.String("job_id", job.ID.String()),
					zap.String("episode_id", job.EpisodeID.String()),
				)
			}
		}
	}
}

// generateEpisodeContent runs all four artifact generations for a claimed job
// and persists the results. Summary, social posts, and titles run
// concurrently; each resolves to a value even when the model misbehaves.
// The timestamp listing is the exception: without chapter timing it is
// skipped entirely and the job still completes.
func (s *contentService) generateEpisodeContent(ctx context.Context, job *entities.ContentJob) error {
	startTime := time.Now()

	var transcript *entities.Transcript
	var err error
	if job.TranscriptID != nil {
		transcript, err = s.transcriptRepo.GetTranscriptByID(ctx, *job.TranscriptID)
	} else {
		transcript, err = s.transcriptRepo.GetTranscriptByEpisodeID(ctx, job.EpisodeID)
	}
	if err != nil {
		return fmt.Errorf("failed to get transcript: %w", err)
	}
	if transcript == nil {
		return fmt.Errorf("transcript not found for episode %s", job.EpisodeID)
	}
	if strings.TrimSpace(transcript.Text) == "" {
		// An empty transcript is not a failure. The prompts will be
		// under-informed and the generators resolve to real or fallback
		// values either way.
		s.logger.Warn("⚠️ Transcript text is empty",
			zap.String("episode_id", job.EpisodeID.String()),
		)
	}

	s.logger.Info("🤖 Generating marketing content",
		zap.String("episode_id", job.EpisodeID.String()),
		zap.Int("text_length", len(transcript.Text)),
		zap.Int("chapter_count", len(transcript.Chapters)),
	)

	var (
		summaryRes marketing.Result[entities.EpisodeSummary]
		socialRes  marketing.Result[entities.SocialPosts]
		titlesRes  marketing.Result[entities.TitleSet]
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		summaryRes = s.generator.Summary(ctx, transcript)
	}()
	go func() {
		defer wg.Done()
		socialRes = s.generator.SocialPosts(ctx, transcript)
	}()
	go func() {
		defer wg.Done()
		titlesRes = s.generator.Titles(ctx, transcript)
	}()
	wg.Wait()

	metadata := entities.ContentJobMetadata{
		DurationSeconds: transcript.AudioDuration,
		Language:        transcript.Language,
		ChapterCount:    len(transcript.Chapters),
	}

	if err := s.storeArtifact(ctx, job.EpisodeID, entities.ArtifactKindSummary, summaryRes.Value, summaryRes.WasFallback, summaryRes.Attempts); err != nil {
		return err
	}
	if err := s.storeArtifact(ctx, job.EpisodeID, entities.ArtifactKindSocialPosts, socialRes.Value, socialRes.WasFallback, socialRes.Attempts); err != nil {
		return err
	}
	if err := s.storeArtifact(ctx, job.EpisodeID, entities.ArtifactKindTitles, titlesRes.Value, titlesRes.WasFallback, titlesRes.Attempts); err != nil {
		return err
	}

	for _, wasFallback := range []bool{summaryRes.WasFallback, socialRes.WasFallback, titlesRes.WasFallback} {
		if wasFallback {
			metadata.FallbackCount++
		}
	}

	timestampsRes, err := s.generator.YouTubeTimestamps(ctx, transcript)
	if err != nil {
		// No chapter timing. The other artifacts still stand; record why the
		// listing is absent and let the job complete.
		metadata.TimingError = err.Error()
		s.logger.Warn("⚠️ Skipping YouTube chapter listing",
			zap.String("episode_id", job.EpisodeID.String()),
			zap.Error(err),
		)
	} else {
		if err := s.storeArtifact(ctx, job.EpisodeID, entities.ArtifactKindYouTubeTimestamps, timestampsRes.Value, timestampsRes.WasFallback, timestampsRes.Attempts); err != nil {
			return err
		}
		if timestampsRes.WasFallback {
			metadata.FallbackCount++
		}
	}

	metadata.ProcessingTimeMs = time.Since(startTime).Milliseconds()

	if err := s.jobRepo.MarkJobAsCompleted(ctx, job.ID, metadata); err != nil {
		return fmt.Errorf("failed to mark job as completed: %w", err)
	}
	if err := s.episodeRepo.UpdateEpisodeStatus(ctx, job.EpisodeID, entities.EpisodeStatusReady); err != nil {
		s.logger.Warn("⚠️ Failed to update episode status", zap.Error(err))
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, contentCacheKey(job.EpisodeID)); err != nil {
			s.logger.Warn("⚠️ Failed to invalidate content cache", zap.Error(err))
		}
	}

	s.logger.Info("✅ Marketing content generated",
		zap.String("episode_id", job.EpisodeID.String()),
		zap.Int("fallback_count", metadata.FallbackCount),
		zap.Int64("processing_time_ms", metadata.ProcessingTimeMs),
	)

	return nil
}

// storeArtifact persists one generation result, overwriting any previous
// artifact of the same kind
func (s *contentService) storeArtifact(ctx context.Context, episodeID uuid.UUID, kind entities.ArtifactKind, value interface{}, wasFallback bool, attempts int) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s artifact: %w", kind, err)
	}

	artifact := &entities.ContentArtifact{
		ID:          uuid.New(),
		EpisodeID:   episodeID,
		Kind:        kind,
		Payload:     payload,
		WasFallback: wasFallback,
		Attempts:    attempts,
		ModelUsed:   s.cfg.Groq.Model,
	}

	if err := s.artifactRepo.UpsertArtifact(ctx, artifact); err != nil {
		return fmt.Errorf("failed to store %s artifact: %w", kind, err)
	}

	if wasFallback {
		s.logger.Warn("⚠️ Stored fallback artifact",
			zap.String("episode_id", episodeID.String()),
			zap.String("kind", string(kind)),
			zap.Int("attempts", attempts),
		)
	}

	return nil
}

// pendingJobWorker polls for pending/retrying jobs and submits them
func (s *contentService) pendingJobWorker(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	s.logger.Info("👷 Pending job worker started")

	for {
		select {
		case <-s.workerStopChan:
			s.logger.Info("👷 Pending job worker stopping")
			return

		case <-ticker.C:
			jobs, err := s.jobRepo.GetJobsForSubmission(parentCtx, 5)
			if err != nil {
				s.logger.Error("❌ Failed to poll pending jobs", zap.Error(err))
				continue
			}
			if len(jobs) == 0 {
				continue
			}

			s.logger.Info("📋 Found pending jobs", zap.Int("count", len(jobs)))

			for _, job := range jobs {
				// Claim from the current status so only one worker submits
				result := s.jobRepo.GetDB().WithContext(parentCtx).
					Model(&entities.ContentJob{}).
					Where("id = ? AND status = ?", job.ID, job.Status).
					Updates(map[string]interface{}{
						"status":     entities.ContentJobStatusSubmitted,
						"started_at": time.Now(),
						"updated_at": time.Now(),
					})
				if result.Error != nil {
					s.logger.Error("❌ Failed to claim job",
						zap.String("job_id", job.ID.String()),
						zap.Error(result.Error),
					)
					continue
				}
				if result.RowsAffected == 0 {
					continue
				}

				if err := s.SubmitToTranscription(parentCtx, job.ID, job.AudioURL); err != nil {
					s.logger.Error("❌ Failed to submit job",
						zap.String("job_id", job.ID.String()),
						zap.Error(err),
					)
					// SubmitToTranscription already marked the job failed
				}
			}
		}
	}
}

// cleanupZombieJobs resets jobs stuck in generating status, usually after a
// crash mid-generation
func (s *contentService) cleanupZombieJobs(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.workerStopChan:
			return

		case <-ticker.C:
			jobs, err := s.jobRepo.GetZombieJobs(parentCtx, 10*time.Minute, 0)
			if err != nil {
				continue
			}

			for _, job := range jobs {
				s.logger.Warn("🧹 Cleaning up zombie job",
					zap.String("job_id", job.ID.String()),
					zap.Time("updated_at", job.UpdatedAt),
				)
				if job.TranscriptID != nil {
					s.jobRepo.MarkJobAsTranscriptReady(parentCtx, job.ID, *job.TranscriptID)
				} else {
					s.jobRepo.MarkJobAsFailed(parentCtx, job.ID, "stuck in generating with no transcript")
				}
			}
		}
	}
}

// webhookTimeoutWorker polls AssemblyAI for jobs whose webhook never arrived
func (s *contentService) webhookTimeoutWorker(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(2 * time.Minute)
	defer ticker.Stop()

	s.logger.Info("👷 Webhook timeout worker started")

	for {
		select {
		case <-s.workerStopChan:
			s.logger.Info("👷 Webhook timeout worker stopping")
			return

		case <-ticker.C:
			stuckJobs, err := s.jobRepo.GetStuckJobs(parentCtx, 10*time.Minute, 0)
			if err != nil {
				s.logger.Error("❌ Failed to query stuck jobs", zap.Error(err))
				continue
			}
			if len(stuckJobs) == 0 {
				continue
			}

			s.logger.Warn("⏰ Found jobs stuck in submitted status",
				zap.Int("count", len(stuckJobs)),
			)

			for _, job := range stuckJobs {
				if job.ExternalJobID == nil || *job.ExternalJobID == "" {
					s.jobRepo.MarkJobAsFailed(parentCtx, job.ID, "no external transcript ID")
					continue
				}
				transcriptID := *job.ExternalJobID

				s.logger.Info("🔍 Polling transcription status for stuck job",
					zap.String("job_id", job.ID.String()),
					zap.String("transcript_id", transcriptID),
					zap.Duration("stuck_for", time.Since(job.UpdatedAt)),
				)

				transcript, err := s.asmSDKClient.Transcripts.Get(parentCtx, transcriptID)
				if err != nil {
					// Might be a temporary API error, try again next tick
					s.logger.Error("❌ Failed to poll transcription status",
						zap.String("transcript_id", transcriptID),
						zap.Error(err),
					)
					continue
				}

				switch transcript.Status {
				case aai.TranscriptStatusCompleted:
					s.logger.Info("✅ Transcript completed (webhook missed), processing now",
						zap.String("job_id", job.ID.String()),
					)
					if err := s.handleCompletedTranscript(parentCtx, &job, transcriptID); err != nil {
						s.jobRepo.MarkJobAsFailed(parentCtx, job.ID, fmt.Sprintf("failed to process transcript: %v", err))
					}

				case aai.TranscriptStatusError:
					errorMsg := "transcription failed"
					if transcript.Error != nil {
						errorMsg = fmt.Sprintf("transcription error: %s", *transcript.Error)
					}
					s.jobRepo.MarkJobAsFailed(parentCtx, job.ID, errorMsg)
					s.episodeRepo.UpdateEpisodeStatus(parentCtx, job.EpisodeID, entities.EpisodeStatusFailed)

				case aai.TranscriptStatusQueued, aai.TranscriptStatusProcessing:
					// Still working; push the timeout out
					s.jobRepo.GetDB().WithContext(parentCtx).
						Model(&entities.ContentJob{}).
						Where("id = ?", job.ID).
						Update("updated_at", time.Now())

				default:
					s.logger.Warn("⚠️ Unknown transcript status",
						zap.String("job_id", job.ID.String()),
						zap.String("status", string(transcript.Status)),
					)
				}
			}
		}
	}
}

package marketing

import (
	"context"

	"go.uber.org/zap"

	"github.com/minhledev/podcast-marketer/internal/domain/entities"
	"github.com/minhledev/podcast-marketer/pkg/ai"
)

// CompletionInvoker sends a prompt pair to a text-completion endpoint.
// Implemented by *ai.GroqClient; tests substitute a recording fake.
type CompletionInvoker interface {
	ChatCompletion(ctx context.Context, systemPrompt, userPrompt string, cfg ai.SamplingConfig) (string, error)
}

// Result wraps a generated artifact with its provenance: whether the value is
// the static fallback and how many completion calls were spent on it.
type Result[T any] struct {
	Value       T
	WasFallback bool
	Attempts    int
}

// Generator runs the generate → validate → repair-once → fallback flow for
// every artifact kind. Stateless; safe for concurrent use.
type Generator struct {
	invoker CompletionInvoker
	model   string
	logger  *zap.Logger
}

// NewGenerator constructs a generator. model may be empty to use the
// invoker's default.
func NewGenerator(invoker CompletionInvoker, model string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{invoker: invoker, model: model, logger: logger}
}

// task binds one artifact kind's prompts, parser, fallback, and sampling
// parameters into a single generation request.
type task[T any] struct {
	kind     entities.ArtifactKind
	prompt   string
	parse    func(string) (T, error)
	fallback func() T
	first    ai.SamplingConfig
	repair   ai.SamplingConfig
}

// Summary generates the episode summary artifact.
func (g *Generator) Summary(ctx context.Context, tr *entities.Transcript) Result[entities.EpisodeSummary] {
	return generate(ctx, g, task[entities.EpisodeSummary]{
		kind:     entities.ArtifactKindSummary,
		prompt:   BuildSummaryPrompt(tr),
		parse:    parseSummary,
		fallback: fallbackSummary,
		first:    g.sampling(0.7, 1500),
		repair:   g.sampling(0.1, 1000),
	})
}

// SocialPosts generates the per-platform social posts artifact.
func (g *Generator) SocialPosts(ctx context.Context, tr *entities.Transcript) Result[entities.SocialPosts] {
	return generate(ctx, g, task[entities.SocialPosts]{
		kind:     entities.ArtifactKindSocialPosts,
		prompt:   BuildSocialPostsPrompt(tr),
		parse:    parseSocialPosts,
		fallback: fallbackSocialPosts,
		first:    g.sampling(0.8, 1200),
		repair:   g.sampling(0.1, 800),
	})
}

// Titles generates the title suggestions artifact.
func (g *Generator) Titles(ctx context.Context, tr *entities.Transcript) Result[entities.TitleSet] {
	return generate(ctx, g, task[entities.TitleSet]{
		kind:     entities.ArtifactKindTitles,
		prompt:   BuildTitlesPrompt(tr),
		parse:    parseTitles,
		fallback: fallbackTitles,
		first:    g.sampling(0.8, 800),
		repair:   g.sampling(0.1, 600),
	})
}

func (g *Generator) sampling(temperature float64, maxTokens int) ai.SamplingConfig {
	return ai.SamplingConfig{Model: g.model, Temperature: temperature, MaxTokens: maxTokens}
}

// generate runs the bounded flow: one completion, one validation, at most one
// repair completion, then the static fallback. It never returns an error:
// transport and validation failures both terminate in the fallback value so
// the surrounding job always has a shape-valid artifact to store.
func generate[T any](ctx context.Context, g *Generator, t task[T]) Result[T] {
	raw, err := g.invoker.ChatCompletion(ctx, systemPrompt, t.prompt, t.first)
	if err != nil {
		g.logger.Warn("completion call failed, using fallback",
			zap.String("kind", string(t.kind)),
			zap.Int("attempt", 1),
			zap.Error(err),
		)
		return Result[T]{Value: t.fallback(), WasFallback: true, Attempts: 1}
	}

	value, verr := t.parse(raw)
	if verr == nil {
		return Result[T]{Value: value, Attempts: 1}
	}
	g.logger.Info("first response failed validation, attempting repair",
		zap.String("kind", string(t.kind)),
		zap.Error(verr),
	)

	raw, err = g.invoker.ChatCompletion(ctx, systemPrompt, buildRepairPrompt(t.prompt), t.repair)
	if err != nil {
		g.logger.Warn("repair completion call failed, using fallback",
			zap.String("kind", string(t.kind)),
			zap.Int("attempt", 2),
			zap.Error(err),
		)
		return Result[T]{Value: t.fallback(), WasFallback: true, Attempts: 2}
	}

	value, verr = t.parse(raw)
	if verr == nil {
		return Result[T]{Value: value, Attempts: 2}
	}
	g.logger.Warn("repair response failed validation, using fallback",
		zap.String("kind", string(t.kind)),
		zap.Int("attempt", 2),
		zap.Error(verr),
	)
	return Result[T]{Value: t.fallback(), WasFallback: true, Attempts: 2}
}

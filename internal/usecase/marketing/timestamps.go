package marketing

import (
	"context"
	"fmt"
	"strings"

	"github.com/minhledev/podcast-marketer/internal/domain/entities"
)

// YouTubeTimestamps generates the YouTube chapter listing. Unlike the other
// kinds it requires externally supplied timing: with no chapters it fails with
// ErrMissingTiming before any completion call. The model contributes only the
// per-chapter title text; a slot the model left empty or missing falls back to
// that chapter's original headline, per slot, not as a whole-request fallback.
func (g *Generator) YouTubeTimestamps(ctx context.Context, tr *entities.Transcript) (Result[[]entities.TimestampEntry], error) {
	if len(tr.Chapters) == 0 {
		return Result[[]entities.TimestampEntry]{}, ErrMissingTiming
	}

	chapters := tr.Chapters
	if len(chapters) > maxTimestampChapters {
		chapters = chapters[:maxTimestampChapters]
	}

	titles := generate(ctx, g, task[[]string]{
		kind:     entities.ArtifactKindYouTubeTimestamps,
		prompt:   BuildTimestampsPrompt(chapters),
		parse:    parseTimestampTitles,
		fallback: func() []string { return nil },
		first:    g.sampling(0.5, 1200),
		repair:   g.sampling(0.1, 800),
	})

	entries := make([]entities.TimestampEntry, len(chapters))
	for i, ch := range chapters {
		description := ch.Headline
		if i < len(titles.Value) && strings.TrimSpace(titles.Value[i]) != "" {
			description = strings.TrimSpace(titles.Value[i])
		}

		timestamp := formatTimestamp(ch.Start)
		if i == 0 {
			// YouTube only recognizes a chapter listing that starts at zero.
			timestamp = "0:00"
		}
		entries[i] = entities.TimestampEntry{Timestamp: timestamp, Description: description}
	}

	return Result[[]entities.TimestampEntry]{
		Value:       entries,
		WasFallback: titles.WasFallback,
		Attempts:    titles.Attempts,
	}, nil
}

// formatTimestamp renders a millisecond offset as M:SS, or H:MM:SS past one hour.
func formatTimestamp(ms int) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

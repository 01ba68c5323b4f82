package marketing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/minhledev/podcast-marketer/internal/domain/entities"
)

// TwitterMaxRunes is the hard cap on the twitter post field. Exceeding it is
// repaired by truncation, not treated as a validation failure.
const TwitterMaxRunes = 280

// extractJSON extracts JSON content from markdown code blocks or plain text.
// Models routinely wrap JSON in ```json fences despite instructions not to.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

// decodeObject parses raw as a JSON object and checks every required key is
// present. Key presence is checked on the raw message so that a missing key is
// reported as a shape failure, not a zero value.
func decodeObject(kind entities.ArtifactKind, raw string, required []string) (map[string]json.RawMessage, *ValidationError) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(extractJSON(raw)), &obj); err != nil {
		return nil, parseErr(kind, err)
	}
	for _, key := range required {
		if _, ok := obj[key]; !ok {
			return nil, shapeErr(kind, key)
		}
	}
	return obj, nil
}

func decodeString(kind entities.ArtifactKind, obj map[string]json.RawMessage, key string) (string, *ValidationError) {
	var s string
	if err := json.Unmarshal(obj[key], &s); err != nil {
		return "", constraintErr(kind, key, fmt.Errorf("expected string: %w", err))
	}
	if strings.TrimSpace(s) == "" {
		return "", constraintErr(kind, key, fmt.Errorf("empty value"))
	}
	return s, nil
}

func decodeStringList(kind entities.ArtifactKind, obj map[string]json.RawMessage, key string) ([]string, *ValidationError) {
	var list []string
	if err := json.Unmarshal(obj[key], &list); err != nil {
		return nil, constraintErr(kind, key, fmt.Errorf("expected array of strings: %w", err))
	}
	return list, nil
}

// parseSummary validates the summary shape: full, bullets, insights, tldr all
// present and non-empty.
func parseSummary(raw string) (entities.EpisodeSummary, error) {
	kind := entities.ArtifactKindSummary
	var out entities.EpisodeSummary

	obj, verr := decodeObject(kind, raw, []string{"full", "bullets", "insights", "tldr"})
	if verr != nil {
		return out, verr
	}

	var err *ValidationError
	if out.Full, err = decodeString(kind, obj, "full"); err != nil {
		return entities.EpisodeSummary{}, err
	}
	if out.TLDR, err = decodeString(kind, obj, "tldr"); err != nil {
		return entities.EpisodeSummary{}, err
	}
	if out.Bullets, err = decodeStringList(kind, obj, "bullets"); err != nil {
		return entities.EpisodeSummary{}, err
	}
	if out.Insights, err = decodeStringList(kind, obj, "insights"); err != nil {
		return entities.EpisodeSummary{}, err
	}
	if len(out.Bullets) == 0 {
		return entities.EpisodeSummary{}, constraintErr(kind, "bullets", fmt.Errorf("empty array"))
	}
	if len(out.Insights) == 0 {
		return entities.EpisodeSummary{}, constraintErr(kind, "insights", fmt.Errorf("empty array"))
	}
	return out, nil
}

// parseSocialPosts validates the social posts shape. The twitter length cap is
// enforced post-hoc by truncation rather than rejection.
func parseSocialPosts(raw string) (entities.SocialPosts, error) {
	kind := entities.ArtifactKindSocialPosts
	keys := []string{"twitter", "linkedin", "instagram", "tiktok", "youtube", "facebook"}

	obj, verr := decodeObject(kind, raw, keys)
	if verr != nil {
		return entities.SocialPosts{}, verr
	}

	values := make(map[string]string, len(keys))
	for _, key := range keys {
		s, err := decodeString(kind, obj, key)
		if err != nil {
			return entities.SocialPosts{}, err
		}
		values[key] = s
	}

	return entities.SocialPosts{
		Twitter:   truncateWithEllipsis(values["twitter"], TwitterMaxRunes),
		LinkedIn:  values["linkedin"],
		Instagram: values["instagram"],
		TikTok:    values["tiktok"],
		YouTube:   values["youtube"],
		Facebook:  values["facebook"],
	}, nil
}

// parseTitles validates the title set shape: three entries in each title list,
// five to ten seo keywords.
func parseTitles(raw string) (entities.TitleSet, error) {
	kind := entities.ArtifactKindTitles
	obj, verr := decodeObject(kind, raw, []string{"youtubeShort", "youtubeLong", "podcastTitles", "seoKeywords"})
	if verr != nil {
		return entities.TitleSet{}, verr
	}

	var out entities.TitleSet
	var err *ValidationError
	if out.YouTubeShort, err = decodeStringList(kind, obj, "youtubeShort"); err != nil {
		return entities.TitleSet{}, err
	}
	if out.YouTubeLong, err = decodeStringList(kind, obj, "youtubeLong"); err != nil {
		return entities.TitleSet{}, err
	}
	if out.PodcastTitles, err = decodeStringList(kind, obj, "podcastTitles"); err != nil {
		return entities.TitleSet{}, err
	}
	if out.SEOKeywords, err = decodeStringList(kind, obj, "seoKeywords"); err != nil {
		return entities.TitleSet{}, err
	}

	for field, list := range map[string][]string{
		"youtubeShort":  out.YouTubeShort,
		"youtubeLong":   out.YouTubeLong,
		"podcastTitles": out.PodcastTitles,
	} {
		if len(list) != 3 {
			return entities.TitleSet{}, constraintErr(kind, field, fmt.Errorf("expected 3 entries, got %d", len(list)))
		}
	}
	if n := len(out.SEOKeywords); n < 5 || n > 10 {
		return entities.TitleSet{}, constraintErr(kind, "seoKeywords", fmt.Errorf("expected 5-10 entries, got %d", n))
	}
	return out, nil
}

// parseTimestampTitles validates the chapter title list. Count mismatches are
// not failures here: missing slots fall back per-slot to the chapter headline.
func parseTimestampTitles(raw string) ([]string, error) {
	kind := entities.ArtifactKindYouTubeTimestamps
	obj, verr := decodeObject(kind, raw, []string{"titles"})
	if verr != nil {
		return nil, verr
	}
	titles, err := decodeStringList(kind, obj, "titles")
	if err != nil {
		return nil, err
	}
	return titles, nil
}

// truncateWithEllipsis caps s at limit runes, replacing the tail with a single
// ellipsis rune so the result is exactly limit runes long.
func truncateWithEllipsis(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

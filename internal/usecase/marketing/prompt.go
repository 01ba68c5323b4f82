package marketing

import (
	"fmt"
	"strings"

	"github.com/minhledev/podcast-marketer/internal/domain/entities"
)

// Transcript prefix caps per artifact kind, in characters. Prompting on the
// full transcript of a long episode would blow the token budget; the opening
// plus chapter headlines carries enough signal for marketing copy.
const (
	summaryTranscriptCap = 3000
	socialTranscriptCap  = 2500
	titlesTranscriptCap  = 2000

	// At most this many chapter headlines are included for topical context.
	maxPromptChapters = 5

	// AssemblyAI can emit hundreds of auto-chapters for long episodes;
	// YouTube caps a chapter listing at 100 entries.
	maxTimestampChapters = 100
)

// systemPrompt is shared by all artifact kinds; the per-kind user prompt
// carries the shape contract.
const systemPrompt = "You are a podcast marketing copywriter. You turn episode transcripts into publish-ready marketing content. You always answer with a single JSON value and nothing else: no markdown, no commentary."

// BuildSummaryPrompt returns the user prompt for the episode summary artifact.
// Pure and deterministic for identical transcript content.
func BuildSummaryPrompt(tr *entities.Transcript) string {
	var sb strings.Builder
	sb.WriteString("Write marketing summary content for this podcast episode.\n\n")
	sb.WriteString("Return a JSON object with exactly these keys:\n")
	sb.WriteString(`- "full": a 2-3 paragraph episode summary` + "\n")
	sb.WriteString(`- "bullets": an array of key takeaway strings` + "\n")
	sb.WriteString(`- "insights": an array of notable insight strings` + "\n")
	sb.WriteString(`- "tldr": a single-sentence summary` + "\n")
	writeTranscriptContext(&sb, tr, summaryTranscriptCap)
	return sb.String()
}

// BuildSocialPostsPrompt returns the user prompt for the social posts artifact.
func BuildSocialPostsPrompt(tr *entities.Transcript) string {
	var sb strings.Builder
	sb.WriteString("Write one social media post per platform promoting this podcast episode.\n\n")
	sb.WriteString("Return a JSON object with exactly these keys, each a single post string:\n")
	sb.WriteString(`- "twitter": at most 280 characters` + "\n")
	sb.WriteString(`- "linkedin": professional tone` + "\n")
	sb.WriteString(`- "instagram": caption with a hook` + "\n")
	sb.WriteString(`- "tiktok": short and punchy` + "\n")
	sb.WriteString(`- "youtube": community post` + "\n")
	sb.WriteString(`- "facebook": conversational` + "\n")
	writeTranscriptContext(&sb, tr, socialTranscriptCap)
	return sb.String()
}

// BuildTitlesPrompt returns the user prompt for the title suggestions artifact.
func BuildTitlesPrompt(tr *entities.Transcript) string {
	var sb strings.Builder
	sb.WriteString("Suggest titles and keywords for this podcast episode.\n\n")
	sb.WriteString("Return a JSON object with exactly these keys:\n")
	sb.WriteString(`- "youtubeShort": exactly 3 YouTube titles under 60 characters` + "\n")
	sb.WriteString(`- "youtubeLong": exactly 3 longer, descriptive YouTube titles` + "\n")
	sb.WriteString(`- "podcastTitles": exactly 3 podcast directory titles` + "\n")
	sb.WriteString(`- "seoKeywords": 5 to 10 search keywords` + "\n")
	writeTranscriptContext(&sb, tr, titlesTranscriptCap)
	return sb.String()
}

// BuildTimestampsPrompt returns the user prompt for YouTube chapter titles.
// The chapters slice must already be capped to maxTimestampChapters.
func BuildTimestampsPrompt(chapters []entities.Chapter) string {
	var sb strings.Builder
	sb.WriteString("Write a short YouTube chapter title (under 60 characters) for each numbered segment of this podcast episode.\n\n")
	sb.WriteString(`Return a JSON object with exactly one key "titles": an array with one title string per segment, in the same order.` + "\n\n")
	sb.WriteString("Segments:\n")
	for i, ch := range chapters {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s — %s\n", i+1, formatTimestamp(ch.Start), ch.Headline, ch.Gist))
	}
	return sb.String()
}

// buildRepairPrompt is the terser instruction used for the single repair
// attempt: same shape contract, stripped of the editorial brief.
func buildRepairPrompt(userPrompt string) string {
	return "Your previous reply was not valid JSON for this request. Respond again with ONLY the JSON value described below. No markdown fences, no explanation, no extra keys.\n\n" + userPrompt
}

// writeTranscriptContext appends the transcript prefix and up to
// maxPromptChapters chapter headlines.
func writeTranscriptContext(sb *strings.Builder, tr *entities.Transcript, textCap int) {
	if len(tr.Chapters) > 0 {
		sb.WriteString("\nEpisode topics:\n")
		for i, ch := range tr.Chapters {
			if i >= maxPromptChapters {
				break
			}
			sb.WriteString("- " + ch.Headline + "\n")
		}
	}
	sb.WriteString("\nTranscript (opening):\n")
	sb.WriteString(truncateText(tr.Text, textCap))
	sb.WriteString("\n")
}

// truncateText returns a rune-safe prefix of s of at most n runes.
func truncateText(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

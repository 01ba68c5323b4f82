package marketing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/minhledev/podcast-marketer/internal/domain/entities"
	"github.com/minhledev/podcast-marketer/pkg/ai"
)

type recordedCall struct {
	system string
	user   string
	cfg    ai.SamplingConfig
}

// fakeInvoker replays canned responses and records every call.
type fakeInvoker struct {
	responses []string
	errs      []error
	calls     []recordedCall
}

func (f *fakeInvoker) ChatCompletion(_ context.Context, system, user string, cfg ai.SamplingConfig) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, recordedCall{system: system, user: user, cfg: cfg})
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("fakeInvoker: no response configured")
}

func testTranscript() *entities.Transcript {
	return &entities.Transcript{
		Text: "Welcome back to the show. Today we talk about growing an audience from zero, why consistency beats virality, and what we learned from a year of weekly publishing.",
		Chapters: []entities.Chapter{
			{Start: 0, End: 300000, Headline: "Intro and catching up", Summary: "The hosts catch up.", Gist: "intro"},
			{Start: 300000, End: 900000, Headline: "Growing from zero", Summary: "Audience growth tactics.", Gist: "growth"},
		},
	}
}

const validSummaryJSON = `{
	"full": "A deep conversation about audience growth and the discipline of weekly publishing.",
	"bullets": ["Consistency beats virality", "Ship every week"],
	"insights": ["Small audiences compound"],
	"tldr": "Publish weekly and let the audience compound."
}`

const validSocialJSON = `{
	"twitter": "New episode: growing an audience from zero.",
	"linkedin": "We discuss what a year of weekly publishing taught us.",
	"instagram": "From zero to an audience — new episode out now.",
	"tiktok": "Zero to audience. New episode.",
	"youtube": "New episode on audience growth is live.",
	"facebook": "Our new episode on audience growth is out."
}`

const validTitlesJSON = `{
	"youtubeShort": ["Growing From Zero", "Consistency Beats Virality", "A Year of Weekly Shows"],
	"youtubeLong": ["What a Year of Weekly Publishing Taught Us", "Growing a Podcast Audience From Zero", "Why Consistency Beats Virality Every Time"],
	"podcastTitles": ["Growing From Zero", "The Weekly Publishing Experiment", "Consistency Over Virality"],
	"seoKeywords": ["podcast growth", "audience building", "consistency", "publishing", "creator economy"]
}`

func TestSummaryFirstAttemptValid(t *testing.T) {
	inv := &fakeInvoker{responses: []string{validSummaryJSON}}
	g := NewGenerator(inv, "test-model", nil)

	res := g.Summary(context.Background(), testTranscript())

	if len(inv.calls) != 1 {
		t.Fatalf("expected 1 completion call, got %d", len(inv.calls))
	}
	if res.WasFallback {
		t.Fatal("expected genuine result, got fallback")
	}
	if res.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", res.Attempts)
	}
	if res.Value.TLDR != "Publish weekly and let the audience compound." {
		t.Fatalf("unexpected tldr: %q", res.Value.TLDR)
	}
	if len(res.Value.Bullets) != 2 {
		t.Fatalf("expected 2 bullets, got %d", len(res.Value.Bullets))
	}
}

func TestSummaryRepairSucceeds(t *testing.T) {
	inv := &fakeInvoker{responses: []string{"here is your summary!", validSummaryJSON}}
	g := NewGenerator(inv, "test-model", nil)

	res := g.Summary(context.Background(), testTranscript())

	if len(inv.calls) != 2 {
		t.Fatalf("expected exactly 2 completion calls, got %d", len(inv.calls))
	}
	if res.WasFallback {
		t.Fatal("expected repaired result, got fallback")
	}
	if res.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", res.Attempts)
	}

	// Repair runs colder and with a smaller budget than the first attempt.
	first, repair := inv.calls[0].cfg, inv.calls[1].cfg
	if repair.Temperature >= first.Temperature {
		t.Fatalf("repair temperature %v not below first attempt %v", repair.Temperature, first.Temperature)
	}
	if repair.MaxTokens >= first.MaxTokens {
		t.Fatalf("repair token budget %d not below first attempt %d", repair.MaxTokens, first.MaxTokens)
	}
	if inv.calls[0].system != inv.calls[1].system {
		t.Fatal("repair must reuse the same system prompt")
	}
}

func TestSummaryFallbackAfterRepairFailure(t *testing.T) {
	inv := &fakeInvoker{responses: []string{"not json", "still not json"}}
	g := NewGenerator(inv, "test-model", nil)

	res := g.Summary(context.Background(), testTranscript())

	if len(inv.calls) != 2 {
		t.Fatalf("expected exactly 2 completion calls, got %d", len(inv.calls))
	}
	if !res.WasFallback {
		t.Fatal("expected fallback result")
	}
	if !strings.Contains(res.Value.Full, "[Placeholder]") {
		t.Fatalf("fallback summary not recognizable as placeholder: %q", res.Value.Full)
	}
	if len(res.Value.Bullets) == 0 || len(res.Value.Insights) == 0 {
		t.Fatal("fallback summary must still satisfy the shape")
	}
}

func TestSummaryTransportErrorFallsBack(t *testing.T) {
	inv := &fakeInvoker{errs: []error{&ai.TransportError{Op: "chat completion", Status: 429, Err: errors.New("rate limited")}}}
	g := NewGenerator(inv, "test-model", nil)

	res := g.Summary(context.Background(), testTranscript())

	if len(inv.calls) != 1 {
		t.Fatalf("expected 1 completion call, got %d", len(inv.calls))
	}
	if !res.WasFallback {
		t.Fatal("transport failure must resolve to fallback, not an error")
	}
}

func TestSocialPostsTwitterTruncation(t *testing.T) {
	longTweet := strings.Repeat("a", 300)
	response := strings.Replace(validSocialJSON, "New episode: growing an audience from zero.", longTweet, 1)

	inv := &fakeInvoker{responses: []string{response}}
	g := NewGenerator(inv, "test-model", nil)

	res := g.SocialPosts(context.Background(), testTranscript())

	if res.WasFallback {
		t.Fatal("truncation is a post-hoc repair, not a validation failure")
	}
	if got := utf8.RuneCountInString(res.Value.Twitter); got != 280 {
		t.Fatalf("expected twitter post of exactly 280 runes, got %d", got)
	}
	if !strings.HasSuffix(res.Value.Twitter, "…") {
		t.Fatal("truncated twitter post must end in an ellipsis")
	}
}

func TestSocialPostsShortTwitterUntouched(t *testing.T) {
	inv := &fakeInvoker{responses: []string{validSocialJSON}}
	g := NewGenerator(inv, "test-model", nil)

	res := g.SocialPosts(context.Background(), testTranscript())

	if res.Value.Twitter != "New episode: growing an audience from zero." {
		t.Fatalf("short twitter post modified: %q", res.Value.Twitter)
	}
}

func TestTitlesWrongCountTriggersRepair(t *testing.T) {
	twoShort := `{
		"youtubeShort": ["Only", "Two"],
		"youtubeLong": ["A", "B", "C"],
		"podcastTitles": ["A", "B", "C"],
		"seoKeywords": ["a", "b", "c", "d", "e"]
	}`
	inv := &fakeInvoker{responses: []string{twoShort, validTitlesJSON}}
	g := NewGenerator(inv, "test-model", nil)

	res := g.Titles(context.Background(), testTranscript())

	if len(inv.calls) != 2 {
		t.Fatalf("count violation must trigger repair: expected 2 calls, got %d", len(inv.calls))
	}
	if res.WasFallback {
		t.Fatal("expected repaired title set")
	}
	if len(res.Value.YouTubeShort) != 3 {
		t.Fatalf("expected 3 short titles, got %d", len(res.Value.YouTubeShort))
	}
}

func TestTitlesFencedJSONAccepted(t *testing.T) {
	inv := &fakeInvoker{responses: []string{"```json\n" + validTitlesJSON + "\n```"}}
	g := NewGenerator(inv, "test-model", nil)

	res := g.Titles(context.Background(), testTranscript())

	if len(inv.calls) != 1 {
		t.Fatalf("fenced JSON should parse on the first attempt, got %d calls", len(inv.calls))
	}
	if res.WasFallback {
		t.Fatal("expected genuine result")
	}
}

func TestAllKindsFallbackNeverEscapes(t *testing.T) {
	tr := testTranscript()

	inv := &fakeInvoker{responses: []string{"x", "y"}}
	g := NewGenerator(inv, "test-model", nil)
	if res := g.SocialPosts(context.Background(), tr); !res.WasFallback || res.Value.Twitter == "" {
		t.Fatal("social posts fallback must be shape-valid")
	}

	inv = &fakeInvoker{responses: []string{"x", "y"}}
	g = NewGenerator(inv, "test-model", nil)
	if res := g.Titles(context.Background(), tr); !res.WasFallback || len(res.Value.SEOKeywords) < 5 {
		t.Fatal("titles fallback must be shape-valid")
	}
}

func TestPromptBuilderDeterministic(t *testing.T) {
	tr := testTranscript()
	if BuildSummaryPrompt(tr) != BuildSummaryPrompt(tr) {
		t.Fatal("summary prompt not deterministic")
	}
	if BuildSocialPostsPrompt(tr) != BuildSocialPostsPrompt(tr) {
		t.Fatal("social posts prompt not deterministic")
	}
	if BuildTitlesPrompt(tr) != BuildTitlesPrompt(tr) {
		t.Fatal("titles prompt not deterministic")
	}
}

func TestPromptBuilderEmptyTranscript(t *testing.T) {
	prompt := BuildSummaryPrompt(&entities.Transcript{})
	if prompt == "" {
		t.Fatal("empty transcript must still produce a prompt")
	}
	if !strings.Contains(prompt, "Transcript (opening):") {
		t.Fatal("prompt missing transcript section")
	}
}

func TestEmptyTranscriptStillGenerates(t *testing.T) {
	// An episode with no recognized speech is under-informed, not broken.
	// Generation proceeds with whatever the transcript has.
	inv := &fakeInvoker{responses: []string{validSummaryJSON, validSocialJSON, validTitlesJSON}}
	g := NewGenerator(inv, "test-model", nil)
	empty := &entities.Transcript{}

	summary := g.Summary(context.Background(), empty)
	social := g.SocialPosts(context.Background(), empty)
	titles := g.Titles(context.Background(), empty)

	if len(inv.calls) != 3 {
		t.Fatalf("expected 3 completion calls, got %d", len(inv.calls))
	}
	if summary.WasFallback || social.WasFallback || titles.WasFallback {
		t.Fatal("valid responses on an empty transcript must not fall back")
	}
	for i, call := range inv.calls {
		if !strings.Contains(call.user, "Transcript") {
			t.Fatalf("call %d prompt missing transcript section", i)
		}
	}
}

func TestPromptBuilderCapsChapterHeadlines(t *testing.T) {
	tr := testTranscript()
	for i := 0; i < 10; i++ {
		tr.Chapters = append(tr.Chapters, entities.Chapter{Headline: "Extra topic"})
	}

	// 2 original chapters leave room for 3 of the 10 extras.
	prompt := BuildSummaryPrompt(tr)
	if got := strings.Count(prompt, "Extra topic"); got != maxPromptChapters-2 {
		t.Fatalf("expected %d extra headlines in prompt, found %d", maxPromptChapters-2, got)
	}
}

package marketing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/minhledev/podcast-marketer/internal/domain/entities"
)

func chapteredTranscript(n int) *entities.Transcript {
	tr := &entities.Transcript{Text: "A long episode."}
	for i := 0; i < n; i++ {
		tr.Chapters = append(tr.Chapters, entities.Chapter{
			Start:    i * 90000,
			End:      (i + 1) * 90000,
			Headline: fmt.Sprintf("Segment %d headline", i+1),
			Gist:     fmt.Sprintf("gist %d", i+1),
		})
	}
	return tr
}

func titlesResponse(n int) string {
	titles := make([]string, n)
	for i := range titles {
		titles[i] = fmt.Sprintf("Chapter title %d", i+1)
	}
	raw, _ := json.Marshal(map[string][]string{"titles": titles})
	return string(raw)
}

func TestTimestampsEmptyChaptersMissingTiming(t *testing.T) {
	inv := &fakeInvoker{}
	g := NewGenerator(inv, "test-model", nil)

	_, err := g.YouTubeTimestamps(context.Background(), &entities.Transcript{Text: "no chapters"})

	if !errors.Is(err, ErrMissingTiming) {
		t.Fatalf("expected ErrMissingTiming, got %v", err)
	}
	if len(inv.calls) != 0 {
		t.Fatalf("missing timing must be detected before any completion call, got %d calls", len(inv.calls))
	}
}

func TestTimestampsHappyPath(t *testing.T) {
	inv := &fakeInvoker{responses: []string{titlesResponse(4)}}
	g := NewGenerator(inv, "test-model", nil)

	res, err := g.YouTubeTimestamps(context.Background(), chapteredTranscript(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.WasFallback {
		t.Fatal("expected genuine result")
	}
	if len(res.Value) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(res.Value))
	}
	if res.Value[0].Timestamp != "0:00" {
		t.Fatalf("first entry must start at 0:00, got %q", res.Value[0].Timestamp)
	}
	if res.Value[1].Timestamp != "1:30" {
		t.Fatalf("expected 1:30 for second chapter, got %q", res.Value[1].Timestamp)
	}
	if res.Value[2].Description != "Chapter title 3" {
		t.Fatalf("expected model title, got %q", res.Value[2].Description)
	}
}

func TestTimestampsChapterCap(t *testing.T) {
	inv := &fakeInvoker{responses: []string{titlesResponse(maxTimestampChapters)}}
	g := NewGenerator(inv, "test-model", nil)

	res, err := g.YouTubeTimestamps(context.Background(), chapteredTranscript(150))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Value) != maxTimestampChapters {
		t.Fatalf("expected %d entries, got %d", maxTimestampChapters, len(res.Value))
	}
	if strings.Contains(inv.calls[0].user, "101.") {
		t.Fatal("prompt must not include segments past the cap")
	}
}

func TestTimestampsHeadlineFallbackPerSlot(t *testing.T) {
	// Model returns fewer titles than chapters; count mismatch is tolerated
	// and uncovered slots fall back to the chapter headline.
	inv := &fakeInvoker{responses: []string{titlesResponse(2)}}
	g := NewGenerator(inv, "test-model", nil)

	res, err := g.YouTubeTimestamps(context.Background(), chapteredTranscript(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inv.calls) != 1 {
		t.Fatalf("a short titles array is not a validation failure, got %d calls", len(inv.calls))
	}
	if res.Value[1].Description != "Chapter title 2" {
		t.Fatalf("covered slot should use the model title, got %q", res.Value[1].Description)
	}
	if res.Value[3].Description != "Segment 4 headline" {
		t.Fatalf("uncovered slot should use the chapter headline, got %q", res.Value[3].Description)
	}
}

func TestTimestampsFullFallbackUsesHeadlines(t *testing.T) {
	inv := &fakeInvoker{responses: []string{"not json", "still not json"}}
	g := NewGenerator(inv, "test-model", nil)

	res, err := g.YouTubeTimestamps(context.Background(), chapteredTranscript(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.WasFallback {
		t.Fatal("expected fallback result")
	}
	if len(res.Value) != 3 {
		t.Fatalf("fallback must still cover every chapter, got %d entries", len(res.Value))
	}
	for i, entry := range res.Value {
		want := fmt.Sprintf("Segment %d headline", i+1)
		if entry.Description != want {
			t.Fatalf("entry %d: expected headline %q, got %q", i, want, entry.Description)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		ms   int
		want string
	}{
		{0, "0:00"},
		{5000, "0:05"},
		{65000, "1:05"},
		{600000, "10:00"},
		{3600000, "1:00:00"},
		{3725000, "1:02:05"},
		{45296000, "12:34:56"},
	}
	for _, c := range cases {
		if got := formatTimestamp(c.ms); got != c.want {
			t.Errorf("formatTimestamp(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}

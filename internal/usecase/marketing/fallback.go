package marketing

import "github.com/minhledev/podcast-marketer/internal/domain/entities"

// Static fallback artifacts returned when generation and repair both fail.
// The wording is deliberately recognizable as placeholder copy so a reviewer
// never mistakes it for genuine marketing content.

func fallbackSummary() entities.EpisodeSummary {
	return entities.EpisodeSummary{
		Full:     "[Placeholder] An automatic summary could not be generated for this episode. Listen to the episode and write a short summary covering the main discussion points.",
		Bullets:  []string{"[Placeholder] Key takeaways pending manual review."},
		Insights: []string{"[Placeholder] Insights pending manual review."},
		TLDR:     "[Placeholder] Summary unavailable — needs manual review.",
	}
}

func fallbackSocialPosts() entities.SocialPosts {
	return entities.SocialPosts{
		Twitter:   "[Placeholder] New episode is live — link in bio. (Auto-generated copy unavailable.)",
		LinkedIn:  "[Placeholder] A new episode of the show is out now. (Auto-generated copy unavailable.)",
		Instagram: "[Placeholder] New episode out now. (Auto-generated copy unavailable.)",
		TikTok:    "[Placeholder] New episode out now. (Auto-generated copy unavailable.)",
		YouTube:   "[Placeholder] New episode out now. (Auto-generated copy unavailable.)",
		Facebook:  "[Placeholder] New episode out now. (Auto-generated copy unavailable.)",
	}
}

func fallbackTitles() entities.TitleSet {
	return entities.TitleSet{
		YouTubeShort: []string{
			"[Placeholder] New Episode",
			"[Placeholder] Latest Episode",
			"[Placeholder] This Week's Episode",
		},
		YouTubeLong: []string{
			"[Placeholder] New Episode — title pending manual review",
			"[Placeholder] Latest Episode — title pending manual review",
			"[Placeholder] This Week's Episode — title pending manual review",
		},
		PodcastTitles: []string{
			"[Placeholder] New Episode",
			"[Placeholder] Latest Episode",
			"[Placeholder] This Week's Episode",
		},
		SEOKeywords: []string{"podcast", "episode", "interview", "conversation", "show"},
	}
}

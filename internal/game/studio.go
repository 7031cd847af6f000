package game

import "context"

// ContentStudio generates flavor content for a channel: comments, ideas,
// collaborator rosters, trending topics, rival personas and banner art. The
// engine never calls it directly; the service invokes it off the tick path
// and merges results into saves afterwards. A failing or absent studio only
// costs flavor, never progress.
type ContentStudio interface {
	Comments(ctx context.Context, v Video) ([]Comment, error)
	VideoIdeas(ctx context.Context, category VideoCategory) ([]VideoIdea, error)
	Collaborators(ctx context.Context, subscribers int64) ([]Collaborator, error)
	TrendingTopics(ctx context.Context) ([]TopicSuggestion, error)
	RivalPersonas(ctx context.Context, n int) ([]RivalPersona, error)
	VideoTip(ctx context.Context, v Video) (string, error)
	BannerArt(ctx context.Context, prompt string) ([]byte, error)
}

package game

import "time"

type VideoCategory string

const (
	CategoryGaming   VideoCategory = "Gaming"
	CategoryVlog     VideoCategory = "Vlog"
	CategoryTutorial VideoCategory = "Tutorial"
	CategoryMusic    VideoCategory = "Music"
	CategoryComedy   VideoCategory = "Comedy"
	CategoryTech     VideoCategory = "Tech Review"
)

var VideoCategories = []VideoCategory{
	CategoryGaming,
	CategoryVlog,
	CategoryTutorial,
	CategoryMusic,
	CategoryComedy,
	CategoryTech,
}

type VideoType string

const (
	VideoTypeLong  VideoType = "video"
	VideoTypeShort VideoType = "short"
)

// ChannelStats is the per-channel scalar state mutated once per tick and by
// player actions between ticks.
type ChannelStats struct {
	Subscribers     int64     `json:"subscribers"`
	TotalWatchHours float64   `json:"total_watch_hours"`
	Money           float64   `json:"money"`
	CreativeEnergy  float64   `json:"creative_energy"`
	TalentPoints    int       `json:"talent_points"`
	Prestige        int       `json:"prestige"`
	ChannelStrikes  int       `json:"channel_strikes"`
	SuspendedUntil  time.Time `json:"suspended_until,omitzero"`
}

type Comment struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

// Video identity fields (id, title, category, type, uploadedAt) and the
// production snapshot (quality, audienceRetention) never change after upload;
// the rest are performance fields advanced by the tick.
type Video struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Category    VideoCategory `json:"category"`
	Type        VideoType     `json:"type"`
	UploadedAt  time.Time     `json:"uploaded_at"`

	Quality           float64 `json:"quality"`
	AudienceRetention float64 `json:"audience_retention"`

	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	WatchHours  float64   `json:"watch_hours"`
	Comments    []Comment `json:"comments,omitempty"`
	ViewHistory []int64   `json:"view_history,omitempty"`

	IsTrending         bool      `json:"is_trending"`
	TrendingUntil      time.Time `json:"trending_until,omitzero"`
	TrendingMultiplier float64   `json:"trending_multiplier,omitempty"`

	SeriesName    string `json:"series_name,omitempty"`
	SeriesEpisode int    `json:"series_episode,omitempty"`

	StudioTip string `json:"studio_tip,omitempty"`
}

type CommunityPost struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	PostedAt time.Time `json:"posted_at"`
	Likes    int64     `json:"likes"`
}

type TrendingTopic struct {
	Topic     string        `json:"topic"`
	Category  VideoCategory `json:"category"`
	ExpiresAt time.Time     `json:"expires_at"`
}

type RivalChannel struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Theme            string    `json:"theme"`
	Subscribers      int64     `json:"subscribers"`
	LatestVideoTitle string    `json:"latest_video_title"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

type Collaborator struct {
	Name        string `json:"name"`
	Theme       string `json:"theme"`
	Subscribers int64  `json:"subscribers"`
}

// PendingEvent is a surfaced narrative event awaiting a player choice. The
// description carries the bound video's title already substituted in.
type PendingEvent struct {
	EventID     string    `json:"event_id"`
	VideoID     string    `json:"video_id,omitempty"`
	Description string    `json:"description"`
	SurfacedAt  time.Time `json:"surfaced_at"`
}

type AwardNominee struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type AwardResult struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Nominees  []AwardNominee `json:"nominees"`
	Winner    AwardNominee   `json:"winner"`
	PlayerWon bool           `json:"player_won"`
}

// StatsSample is one entry of the rolling analytics history.
type StatsSample struct {
	At              time.Time `json:"at"`
	Subscribers     int64     `json:"subscribers"`
	TotalWatchHours float64   `json:"total_watch_hours"`
	Money           float64   `json:"money"`
	CreativeEnergy  float64   `json:"creative_energy"`
}

// ChannelState is the full versioned save blob for one channel. Everything
// the engine reads or writes lives here; the hosting service owns the timer
// and persistence around it.
type ChannelState struct {
	Version int `json:"version"`

	Stats     ChannelStats `json:"stats"`
	Monetized bool         `json:"monetized"`
	GameOver  bool         `json:"game_over"`

	Videos []*Video        `json:"videos"`
	Posts  []CommunityPost `json:"posts"`

	Upgrades map[string]int `json:"upgrades"`
	Staff    map[string]int `json:"staff"`

	Talents           []string `json:"talents"`
	AwardedMilestones []int64  `json:"awarded_milestones"`
	Achievements      []string `json:"achievements"`

	ViralBoosts           int           `json:"viral_boosts"`
	CompletedSponsorships []string      `json:"completed_sponsorships"`
	PendingSponsorship    string        `json:"pending_sponsorship,omitempty"`
	PendingEvent          *PendingEvent `json:"pending_event,omitempty"`

	TotalMoneyEarned float64 `json:"total_money_earned"`
	TicksUntilBill   int     `json:"ticks_until_bill"`
	TicksUntilAwards int     `json:"ticks_until_awards"`

	CollabCooldownUntil time.Time `json:"collab_cooldown_until,omitzero"`

	TrendingTopics   []TrendingTopic `json:"trending_topics"`
	LastTrendRefresh time.Time       `json:"last_trend_refresh,omitzero"`

	NicheID      string `json:"niche_id,omitempty"`
	BannerPrompt string `json:"banner_prompt,omitempty"`

	Rivals []*RivalChannel `json:"rivals"`

	LatestAwards  []AwardResult `json:"latest_awards,omitempty"`
	AwardShowOpen bool          `json:"award_show_open"`

	// Set by the VIRAL_MEME "embrace" resolution, consumed at the next upload.
	NextUploadQualityPenalty float64 `json:"next_upload_quality_penalty,omitempty"`

	History []StatsSample `json:"history"`
}

// ChannelView is the API read model for the dashboard.
type ChannelView struct {
	Stats            ChannelStats    `json:"stats"`
	Monetized        bool            `json:"monetized"`
	GameOver         bool            `json:"game_over"`
	Suspended        bool            `json:"suspended"`
	VideoCount       int             `json:"video_count"`
	ViralBoosts      int             `json:"viral_boosts"`
	NicheID          string          `json:"niche_id,omitempty"`
	TicksUntilBill   int             `json:"ticks_until_bill"`
	TicksUntilAwards int             `json:"ticks_until_awards"`
	TrendingTopics   []TrendingTopic `json:"trending_topics"`
	PendingEvent     *PendingEvent   `json:"pending_event,omitempty"`
	PendingSponsor   string          `json:"pending_sponsorship,omitempty"`
	History          []StatsSample   `json:"history"`
}

type LeaderboardRow struct {
	Rank        int64  `json:"rank"`
	Username    string `json:"username"`
	Subscribers int64  `json:"subscribers"`
	Prestige    int    `json:"prestige"`
}

// VideoIdea and TopicSuggestion are collaborator outputs (see ContentStudio).
type VideoIdea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type TopicSuggestion struct {
	Topic    string        `json:"topic"`
	Category VideoCategory `json:"category"`
}

type RivalPersona struct {
	Name        string `json:"name"`
	Theme       string `json:"theme"`
	Subscribers int64  `json:"subscribers"`
}

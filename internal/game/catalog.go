package game

// Static content tables: package-level slices iterated in declared order,
// with declared order doubling as the tie-break wherever one is needed.

type UpgradeConfig struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	MaxLevel int       `json:"max_level"`
	Costs    []float64 `json:"costs"`
	Effect   float64   `json:"effect"`
}

var upgradeCatalog = []UpgradeConfig{
	{ID: "camera", Name: "Camera", MaxLevel: 5, Costs: []float64{50, 250, 1000, 5000, 20000}, Effect: 0.1},
	{ID: "microphone", Name: "Microphone", MaxLevel: 5, Costs: []float64{30, 150, 750, 3000, 15000}, Effect: 0.08},
	{ID: "editing_software", Name: "Editing Software", MaxLevel: 5, Costs: []float64{100, 500, 2500, 10000, 50000}, Effect: 0.12},
}

func findUpgrade(id string) *UpgradeConfig {
	for i := range upgradeCatalog {
		if upgradeCatalog[i].ID == id {
			return &upgradeCatalog[i]
		}
	}
	return nil
}

const (
	StaffEditor  = "editor"
	StaffManager = "manager"

	editorQualityPerLevel  = 0.1
	managerSubsPerLevel    = 1
)

type StaffConfig struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	MaxLevel int       `json:"max_level"`
	Costs    []float64 `json:"costs"`
	Salaries []float64 `json:"salaries"`
}

var staffCatalog = []StaffConfig{
	{ID: StaffEditor, Name: "Video Editor", MaxLevel: 3, Costs: []float64{2000, 8000, 20000}, Salaries: []float64{500, 1500, 4000}},
	{ID: StaffManager, Name: "Channel Manager", MaxLevel: 3, Costs: []float64{3000, 10000, 25000}, Salaries: []float64{750, 2000, 5000}},
}

func findStaff(id string) *StaffConfig {
	for i := range staffCatalog {
		if staffCatalog[i].ID == id {
			return &staffCatalog[i]
		}
	}
	return nil
}

type SponsorshipConfig struct {
	ID            string        `json:"id"`
	Brand         string        `json:"brand"`
	Offer         float64       `json:"offer"`
	SubscriberReq int64         `json:"subscriber_req"`
	Category      VideoCategory `json:"category"`
}

// Ordered by subscriber requirement ascending; the surfacing pass offers the
// first eligible, not yet completed deal.
var sponsorshipCatalog = []SponsorshipConfig{
	{ID: "sponsor1", Brand: "GamerFuel Energy", Offer: 500, SubscriberReq: 5000, Category: CategoryGaming},
	{ID: "sponsor2", Brand: "PixelPerfect Keyboards", Offer: 1200, SubscriberReq: 15000, Category: CategoryTech},
	{ID: "sponsor3", Brand: "StreamPro Chairs", Offer: 3000, SubscriberReq: 50000, Category: CategoryVlog},
	{ID: "sponsor4", Brand: "CloudSys Hosting", Offer: 7500, SubscriberReq: 100000, Category: CategoryTech},
}

func findSponsorship(id string) *SponsorshipConfig {
	for i := range sponsorshipCatalog {
		if sponsorshipCatalog[i].ID == id {
			return &sponsorshipCatalog[i]
		}
	}
	return nil
}

type TalentConfig struct {
	ID          string `json:"id"`
	Branch      string `json:"branch"`
	Tier        int    `json:"tier"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Requires    string `json:"requires,omitempty"`
}

// Three branches of five tiers each; each tier requires the previous one in
// its branch. Effects live in ComputeBonuses.
var talentCatalog = []TalentConfig{
	{ID: "CREATOR_1", Branch: "creator", Tier: 1, Name: "Audience Whisperer", Description: "+5% subscriber gain from all sources."},
	{ID: "CREATOR_2", Branch: "creator", Tier: 2, Name: "Community Builder", Description: "Community posts cost 5 less energy and convert 25% better.", Requires: "CREATOR_1"},
	{ID: "CREATOR_3", Branch: "creator", Tier: 3, Name: "Storyteller", Description: "+5 base audience retention on new uploads.", Requires: "CREATOR_2"},
	{ID: "CREATOR_4", Branch: "creator", Tier: 4, Name: "Stream Star", Description: "Going live costs 10 less energy and donations pay 20% more.", Requires: "CREATOR_3"},
	{ID: "CREATOR_5", Branch: "creator", Tier: 5, Name: "Beloved Icon", Description: "Negative events no longer cost subscribers; subscriber gain +100%.", Requires: "CREATOR_4"},

	{ID: "PRODUCER_1", Branch: "producer", Tier: 1, Name: "Sharp Eye", Description: "+10% views on all content.", Requires: ""},
	{ID: "PRODUCER_2", Branch: "producer", Tier: 2, Name: "Gear Head", Description: "Equipment upgrades grant 10% more quality.", Requires: "PRODUCER_1"},
	{ID: "PRODUCER_3", Branch: "producer", Tier: 3, Name: "Algorithm Surfer", Description: "Trending videos earn double the trending multiplier.", Requires: "PRODUCER_2"},
	{ID: "PRODUCER_4", Branch: "producer", Tier: 4, Name: "Hype Engineer", Description: "Viral boosts cost 15 less energy; grants one free boost.", Requires: "PRODUCER_3"},
	{ID: "PRODUCER_5", Branch: "producer", Tier: 5, Name: "Trendsetter", Description: "Trending periods last 50% longer.", Requires: "PRODUCER_4"},

	{ID: "ENTREPRENEUR_1", Branch: "entrepreneur", Tier: 1, Name: "Ad Optimizer", Description: "+10% ad revenue.", Requires: ""},
	{ID: "ENTREPRENEUR_2", Branch: "entrepreneur", Tier: 2, Name: "Frugal Operator", Description: "Weekly expenses reduced by 25%.", Requires: "ENTREPRENEUR_1"},
	{ID: "ENTREPRENEUR_3", Branch: "entrepreneur", Tier: 3, Name: "Deal Maker", Description: "Sponsorship offers pay 20% more.", Requires: "ENTREPRENEUR_2"},
	{ID: "ENTREPRENEUR_4", Branch: "entrepreneur", Tier: 4, Name: "Business Mind", Description: "Unlocks the final entrepreneur tier.", Requires: "ENTREPRENEUR_3"},
	{ID: "ENTREPRENEUR_5", Branch: "entrepreneur", Tier: 5, Name: "Merch Mogul", Description: "Weekly merchandise income based on subscriber count.", Requires: "ENTREPRENEUR_4"},
}

func findTalent(id string) *TalentConfig {
	for i := range talentCatalog {
		if talentCatalog[i].ID == id {
			return &talentCatalog[i]
		}
	}
	return nil
}

type NicheConfig struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    VideoCategory `json:"category"`
	Description string        `json:"description"`
}

var nicheCatalog = []NicheConfig{
	{ID: "gaming_wholesome", Name: "Wholesome Gaming", Category: CategoryGaming, Description: "+10% subscriber gain on gaming videos."},
	{ID: "gaming_pro", Name: "Pro Gaming", Category: CategoryGaming, Description: "+20% views on gaming videos, -5% on everything else."},
	{ID: "vlog_lifestyle", Name: "Lifestyle Vlogs", Category: CategoryVlog, Description: "+15% payout on vlog sponsorships."},
	{ID: "tutorial_indepth", Name: "In-Depth Tutorials", Category: CategoryTutorial, Description: "+10 base audience retention."},
	{ID: "comedy_skits", Name: "Comedy Skits", Category: CategoryComedy, Description: "Viral boosts are 20% more effective."},
	{ID: "tech_reviews", Name: "Tech Reviews", Category: CategoryTech, Description: "+25% ad revenue on tech videos."},
}

func findNiche(id string) *NicheConfig {
	for i := range nicheCatalog {
		if nicheCatalog[i].ID == id {
			return &nicheCatalog[i]
		}
	}
	return nil
}

// Relative popularity of each category, used to scale the rival proxy view
// counts at award season.
var categoryTrendFactors = map[VideoCategory]float64{
	CategoryGaming:   1.5,
	CategoryComedy:   1.4,
	CategoryMusic:    1.2,
	CategoryVlog:     1.1,
	CategoryTech:     1.0,
	CategoryTutorial: 0.8,
}

type EventChoice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type EventConfig struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Choices     []EventChoice `json:"choices"`
}

// Narrative events. Descriptions reference a randomly bound video; the
// surfacing pass substitutes its quoted title in.
var eventCatalog = []EventConfig{
	{
		ID:          "SHOUTOUT",
		Title:       "A Big Creator Noticed You!",
		Description: "A famous creator gave one of your videos a shoutout. How do you ride the wave?",
		Choices: []EventChoice{
			{ID: "sub_boost", Text: "Welcome their audience (burst of subscribers)"},
			{ID: "view_boost", Text: "Push the featured video (long-term view boost)"},
		},
	},
	{
		ID:          "COPYRIGHT_CLAIM",
		Title:       "Copyright Claim",
		Description: "Your latest video received a copyright claim. What do you do?",
		Choices: []EventChoice{
			{ID: "dispute", Text: "Dispute the claim"},
			{ID: "remove", Text: "Remove the video"},
		},
	},
	{
		ID:          "CONTROVERSIAL_CONTENT",
		Title:       "Controversy Brewing",
		Description: "Your video is being called controversial. The internet wants a response.",
		Choices: []EventChoice{
			{ID: "apologize", Text: "Apologize and remove it"},
			{ID: "defend", Text: "Defend the video"},
		},
	},
	{
		ID:          "VIRAL_MEME",
		Title:       "You're a Meme",
		Description: "One of your videos became a meme overnight. Lean in?",
		Choices: []EventChoice{
			{ID: "embrace", Text: "Embrace the meme"},
			{ID: "ignore", Text: "Stay above it"},
		},
	},
	{
		ID:          "NEGATIVE_PRESS",
		Title:       "Negative Press",
		Description: "A news site ran a hit piece about your video. Respond?",
		Choices: []EventChoice{
			{ID: "apologize", Text: "Post an apology video"},
			{ID: "ignore", Text: "Ignore it"},
		},
	},
}

// FindEvent resolves an event id to its config, or nil.
func FindEvent(id string) *EventConfig {
	for i := range eventCatalog {
		if eventCatalog[i].ID == id {
			return &eventCatalog[i]
		}
	}
	return nil
}

type AchievementConfig struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var achievementCatalog = []AchievementConfig{
	{ID: "FIRST_VIDEO", Name: "Hello, World", Description: "Upload your first video."},
	{ID: "FIRST_SHORT", Name: "Short and Sweet", Description: "Upload your first short."},
	{ID: "MONETIZED", Name: "Open for Business", Description: "Get your channel monetized."},
	{ID: "FIRST_TRENDING", Name: "On the Board", Description: "Have a video hit the trending page."},
	{ID: "VIRAL_HIT", Name: "Certified Viral", Description: "Reach 1,000,000 views on a single video."},
	{ID: "SUB_10K", Name: "Five Figures", Description: "Reach 10,000 subscribers."},
	{ID: "SUB_100K", Name: "Silver Button", Description: "Reach 100,000 subscribers."},
	{ID: "MONEY_10K", Name: "Real Money", Description: "Earn $10,000 in total."},
	{ID: "TECH_GURU", Name: "Fully Loaded", Description: "Max out every equipment upgrade."},
	{ID: "SPONSOR_PRO", Name: "Brand Darling", Description: "Complete three sponsorship deals."},
	{ID: "VIDEO_PROLIFIC", Name: "Content Machine", Description: "Upload ten videos."},
	{ID: "FIRST_STREAM", Name: "Live and Unscripted", Description: "Finish your first live stream."},
	{ID: "HIRE_STAFF", Name: "Boss Mode", Description: "Hire your first staff member."},
	{ID: "FIRST_AWARD", Name: "Acceptance Speech", Description: "Win a channel award."},
	{ID: "RIVAL_BEATEN", Name: "Top Dog", Description: "Surpass a rival channel in subscribers."},
}

func findAchievement(id string) *AchievementConfig {
	for i := range achievementCatalog {
		if achievementCatalog[i].ID == id {
			return &achievementCatalog[i]
		}
	}
	return nil
}

// Catalog accessors for the API layer.
func UpgradeCatalog() []UpgradeConfig         { return upgradeCatalog }
func StaffCatalog() []StaffConfig             { return staffCatalog }
func TalentCatalog() []TalentConfig           { return talentCatalog }
func NicheCatalog() []NicheConfig             { return nicheCatalog }
func SponsorshipCatalog() []SponsorshipConfig { return sponsorshipCatalog }
func AchievementCatalog() []AchievementConfig { return achievementCatalog }
func EventCatalog() []EventConfig             { return eventCatalog }
func SubscriberMilestones() []int64           { return subscriberMilestones }

package game

import (
	"errors"
	"math"
	"time"
)

// SaveVersion is written into every save blob. Older blobs are upgraded in
// place by DecodeState.
const SaveVersion = 2

// Core pacing and economy constants. One tick is one simulated beat; the
// worker fires them on a wall clock, the engine itself only counts.
const (
	MaxCreativeEnergy = 100.0
	EnergyRegenRate   = 1.0

	UploadVideoCost   = 30.0
	UploadShortCost   = 15.0
	ViralBoostCost    = 50.0
	GoLiveCost        = 20.0
	CommunityPostCost = 10.0
	CollabCost        = 75.0

	WeeklyExpensesAmount = 150.0
	TicksPerWeek         = 210
	TicksPerYear         = 840

	GameOverMoneyThreshold = -2000.0

	MaxChannelStrikes  = 3
	SuspensionDuration = 2 * time.Minute
	CollabCooldown     = 5 * time.Minute
)

// Monetization and revenue.
const (
	MonetizationSubscriberReq = 1000
	MonetizationWatchHourReq  = 4000

	BaseCPM             = 4.5
	ShortsCPMMultiplier = 0.1
	LongFormRPMFactor   = 12.0
)

// Content aging. Decay follows a reciprocal curve of the video's age in
// minutes, with a quality-scaled half-life and a hard floor so old uploads
// never stop earning entirely.
const (
	longDecayFloor          = 0.1
	shortDecayFloor         = 0.05
	longHalfLifeBase        = 10.0
	longHalfLifeQualityGain = 20.0
	shortHalfLifeBase       = 2.0
	shortHalfLifeQualityGain = 5.0

	longBaseViewsMin  = 10.0
	longBaseViewsSpan = 50.0
	shortBaseViewsMin  = 50.0
	shortBaseViewsSpan = 200.0

	longAvgWatchMinutes  = 5.0
	shortAvgWatchMinutes = 0.75

	VideoSubscriberDivisor = 200.0
	ShortSubscriberDivisor = 600.0
)

// Trending, virality and series momentum.
const (
	TrendingTopicDuration     = 10 * time.Minute
	TrendingTopicRefreshEvery = 5 * time.Minute

	TrendingDuration   = 5 * time.Minute
	TrendingMultiplier = 5.0

	ViralMultiplier   = 10.0
	ViralInstantViews = 100000.0

	SeriesMomentumBonus = 0.1
	SeriesMomentumCap   = 5

	RediscoveryChance       = 0.005
	RediscoveryMultiplier   = 4.0
	RediscoveryDuration     = 3 * time.Minute
	rediscoveryQualityFloor = 0.5
)

// Rivals, events, awards.
const (
	NumberOfRivals    = 3
	RivalUpdateChance = 0.4

	EventChancePerTick = 0.02

	PrestigePerAward = 10

	StaffUnlockSubscriberReq = 10000

	StatsHistoryLimit = 60
)

// Named probability and payout constants for event resolution.
const (
	disputeWinChance  = 0.5
	disputeWinPayout  = 500.0
	defendFailChance  = 0.6
	apologyWinChance  = 0.5
	apologyVideoCost  = 100.0

	apologySubRetainFactor = 0.95
	defendFailSubFactor    = 0.90
	defendWinSubFactor     = 1.05
	defendWinPrestige      = 5

	pressApologyGainPct = 0.03
	pressApologyLossPct = 0.05
	pressIgnoreLossPct  = 0.04

	shoutoutSubBoostPct   = 0.15
	shoutoutSubBoostBase  = 250
	shoutoutViewMult      = 3.0
	shoutoutBoostDuration = 10 * time.Minute

	memeEmbraceSubPct    = 0.10
	memeEmbraceSubBase   = 100
	memeIgnoreSubPct     = 0.02
	memeIgnoreSubBase    = 50
	memeQualityPenalty   = 0.1

	strikeSubPenaltyFactor   = 0.8
	strikeMoneyPenaltyFactor = 0.5
)

// Subscriber milestones. Each crossing awards one talent point, once.
var subscriberMilestones = []int64{
	100, 500, 1000, 2500, 5000, 10000, 25000, 50000,
	75000, 100000, 150000, 200000, 250000, 300000,
}

// Domain errors surfaced to players. The API layer maps these onto HTTP
// status codes.
var (
	ErrInsufficientEnergy  = errors.New("not enough creative energy")
	ErrInsufficientFunds   = errors.New("not enough money")
	ErrInsufficientTalent  = errors.New("not enough talent points")
	ErrChannelSuspended    = errors.New("channel is suspended")
	ErrGameOver            = errors.New("channel is bankrupt")
	ErrTalentLocked        = errors.New("talent prerequisite not unlocked")
	ErrStaffLocked         = errors.New("staff hiring not unlocked yet")
	ErrNicheAlreadyChosen  = errors.New("channel niche already chosen")
	ErrCollabOnCooldown    = errors.New("collaboration on cooldown")
	ErrNoViralBoosts       = errors.New("no viral boosts left")
	ErrNoPendingEvent      = errors.New("no event awaiting a decision")
	ErrNoPendingSponsor    = errors.New("no sponsorship offer pending")
	ErrVideoNotFound       = errors.New("video not found")
	ErrEmptyTitle          = errors.New("title must not be empty")
	ErrDuplicateIdempotency = errors.New("idempotency key already used for a different action")
	ErrTxConflict           = errors.New("transaction conflict, retry")
	ErrUnauthorized         = errors.New("unauthorized")
)

// RNG is the randomness source for the engine. *math/rand.Rand satisfies it;
// tests inject scripted sequences.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

// NewChannelState returns a fresh save for a brand-new channel.
func NewChannelState(now time.Time) *ChannelState {
	return &ChannelState{
		Version: SaveVersion,
		Stats: ChannelStats{
			Money:          100,
			CreativeEnergy: MaxCreativeEnergy,
		},
		Videos:                []*Video{},
		Posts:                 []CommunityPost{},
		Upgrades:              map[string]int{},
		Staff:                 map[string]int{},
		Talents:               []string{},
		AwardedMilestones:     []int64{},
		Achievements:          []string{},
		CompletedSponsorships: []string{},
		ViralBoosts:           2,
		TicksUntilBill:        TicksPerWeek,
		TicksUntilAwards:      TicksPerYear,
		TrendingTopics:        []TrendingTopic{},
		Rivals:                []*RivalChannel{},
		History:               []StatsSample{},
	}
}

// Suspended reports whether the channel is under an active suspension.
func (st *ChannelState) Suspended(now time.Time) bool {
	return !st.Stats.SuspendedUntil.IsZero() && now.Before(st.Stats.SuspendedUntil)
}

func (st *ChannelState) HasTalent(id string) bool {
	for _, t := range st.Talents {
		if t == id {
			return true
		}
	}
	return false
}

func (st *ChannelState) HasAchievement(id string) bool {
	for _, a := range st.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

func (st *ChannelState) hasMilestone(m int64) bool {
	for _, v := range st.AwardedMilestones {
		if v == m {
			return true
		}
	}
	return false
}

func (st *ChannelState) hasCompletedSponsorship(id string) bool {
	for _, s := range st.CompletedSponsorships {
		if s == id {
			return true
		}
	}
	return false
}

func (st *ChannelState) findVideo(id string) *Video {
	for _, v := range st.Videos {
		if v.ID == id {
			return v
		}
	}
	return nil
}

func (st *ChannelState) removeVideo(id string) bool {
	for i, v := range st.Videos {
		if v.ID == id {
			st.Videos = append(st.Videos[:i], st.Videos[i+1:]...)
			return true
		}
	}
	return false
}

// videoQuality derives the frozen production quality for a new upload from
// current upgrade levels, the hired editor and talent bonuses.
func videoQuality(st *ChannelState, b BonusSet) float64 {
	q := 0.1
	for _, u := range upgradeCatalog {
		if lvl := st.Upgrades[u.ID]; lvl > 0 {
			q += float64(lvl) * u.Effect * b.UpgradeQualityMultiplier
		}
	}
	if lvl := st.Staff[StaffEditor]; lvl > 0 {
		q += float64(lvl) * editorQualityPerLevel
	}
	q -= st.NextUploadQualityPenalty
	if q < 0.1 {
		q = 0.1
	}
	return q
}

// baseRetention derives the frozen audience retention percentage for a new
// upload. Capped at 95 before jitter so even perfect channels keep variance.
func baseRetention(quality float64, b BonusSet, jitter float64) float64 {
	r := 30 + quality*100 + b.AudienceRetentionBonus
	if r > 95 {
		r = 95
	}
	r += jitter*10 - 5
	if r < 1 {
		r = 1
	}
	return r
}

func clampEnergy(v float64) float64 {
	return math.Min(MaxCreativeEnergy, math.Max(0, v))
}

package game

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Player actions. Each verb validates gates (suspension, bankruptcy,
// resources), mutates the state, and finishes with the derived sweep so
// milestones and achievements land in the same call that earned them.

type UploadInput struct {
	Title       string
	Description string
	Category    VideoCategory
	Type        VideoType
	SeriesName  string
	ViralBoost  bool
}

type UploadResult struct {
	Video *Video         `json:"video"`
	Notes []Notification `json:"notes"`
}

func (e *Engine) checkActive(st *ChannelState, now time.Time) error {
	if st.GameOver {
		return ErrGameOver
	}
	if st.Suspended(now) {
		return ErrChannelSuspended
	}
	return nil
}

// Upload publishes a new video or short. Quality and retention are computed
// once here and never change afterwards.
func (e *Engine) Upload(st *ChannelState, in UploadInput, now time.Time) (*UploadResult, error) {
	if err := e.checkActive(st, now); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}

	b := ComputeBonuses(st.Talents, st.NicheID, st.Stats.Subscribers)

	cost := UploadVideoCost
	if in.Type == VideoTypeShort {
		cost = UploadShortCost
	}
	if in.ViralBoost {
		if st.ViralBoosts < 1 {
			return nil, ErrNoViralBoosts
		}
		cost = b.ViralBoostEnergyCost
	}
	if st.Stats.CreativeEnergy < cost {
		return nil, ErrInsufficientEnergy
	}
	st.Stats.CreativeEnergy -= cost

	quality := videoQuality(st, b)
	st.NextUploadQualityPenalty = 0
	retention := baseRetention(quality, b, e.rng.Float64())

	v := &Video{
		ID:                uuid.NewString(),
		Title:             strings.TrimSpace(in.Title),
		Description:       in.Description,
		Category:          in.Category,
		Type:              in.Type,
		UploadedAt:        now,
		Quality:           quality,
		AudienceRetention: retention,
	}

	if in.SeriesName != "" {
		v.SeriesName = in.SeriesName
		v.SeriesEpisode = 1
		for _, prev := range st.Videos {
			if prev.SeriesName == in.SeriesName && prev.SeriesEpisode >= v.SeriesEpisode {
				v.SeriesEpisode = prev.SeriesEpisode + 1
			}
		}
	}

	var notes []Notification

	if in.ViralBoost {
		st.ViralBoosts--
		views := math.Floor(ViralInstantViews * b.ViralBoostEffectiveness)
		v.Views = int64(views)
		v.IsTrending = true
		v.TrendingMultiplier = ViralMultiplier
		v.TrendingUntil = now.Add(time.Duration(float64(TrendingDuration) * b.TrendingDurationMult))
		subs := math.Floor(views/(VideoSubscriberDivisor-quality*50)) * b.SubGainMultiplier
		st.Stats.Subscribers += int64(subs)
		notes = append(notes, note(NoteSuccess, "%q went viral instantly!", v.Title))
	} else if topic := st.matchTopic(v); topic != nil {
		v.IsTrending = true
		v.TrendingMultiplier = TrendingMultiplier * b.TrendingMultiplierBonus
		v.TrendingUntil = now.Add(time.Duration(float64(TrendingDuration) * b.TrendingDurationMult))
		notes = append(notes, note(NoteSuccess, "%q is riding the %q trend!", v.Title, topic.Topic))
	}

	st.Videos = append(st.Videos, v)

	if v.Type == VideoTypeShort {
		notes = append(notes, e.unlockAchievement(st, "FIRST_SHORT")...)
	} else {
		notes = append(notes, e.unlockAchievement(st, "FIRST_VIDEO")...)
	}
	if v.IsTrending && !in.ViralBoost {
		notes = append(notes, e.unlockAchievement(st, "FIRST_TRENDING")...)
	}

	notes = append(notes, e.refreshDerived(st)...)
	return &UploadResult{Video: v, Notes: notes}, nil
}

// matchTopic returns the live trending topic the upload rides, if any. The
// category must match and the title must contain the topic, case folded.
func (st *ChannelState) matchTopic(v *Video) *TrendingTopic {
	title := strings.ToLower(v.Title)
	for i := range st.TrendingTopics {
		t := &st.TrendingTopics[i]
		if t.Category == v.Category && strings.Contains(title, strings.ToLower(t.Topic)) {
			return t
		}
	}
	return nil
}

// BoostVideo spends a viral boost on an already published video.
func (e *Engine) BoostVideo(st *ChannelState, videoID string, now time.Time) ([]Notification, error) {
	if err := e.checkActive(st, now); err != nil {
		return nil, err
	}
	v := st.findVideo(videoID)
	if v == nil {
		return nil, ErrVideoNotFound
	}
	if st.ViralBoosts < 1 {
		return nil, ErrNoViralBoosts
	}

	b := ComputeBonuses(st.Talents, st.NicheID, st.Stats.Subscribers)
	if st.Stats.CreativeEnergy < b.ViralBoostEnergyCost {
		return nil, ErrInsufficientEnergy
	}
	st.Stats.CreativeEnergy -= b.ViralBoostEnergyCost
	st.ViralBoosts--

	v.Views += int64(math.Floor(ViralInstantViews * b.ViralBoostEffectiveness))
	v.IsTrending = true
	v.TrendingMultiplier = ViralMultiplier
	v.TrendingUntil = now.Add(time.Duration(float64(TrendingDuration) * b.TrendingDurationMult))

	notes := []Notification{note(NoteSuccess, "%q is going viral!", v.Title)}
	notes = append(notes, e.refreshDerived(st)...)
	return notes, nil
}

// BuyUpgrade levels up one piece of equipment. Unknown ids and maxed
// upgrades are no-ops.
func (e *Engine) BuyUpgrade(st *ChannelState, id string, now time.Time) ([]Notification, error) {
	if err := e.checkActive(st, now); err != nil {
		return nil, err
	}
	cfg := findUpgrade(id)
	if cfg == nil {
		return nil, nil
	}
	lvl := st.Upgrades[id]
	if lvl >= cfg.MaxLevel {
		return nil, nil
	}
	cost := cfg.Costs[lvl]
	if st.Stats.Money < cost {
		return nil, ErrInsufficientFunds
	}
	st.Stats.Money -= cost
	st.Upgrades[id] = lvl + 1

	notes := []Notification{note(NoteSuccess, "%s upgraded to level %d.", cfg.Name, lvl+1)}
	notes = append(notes, e.refreshDerived(st)...)
	return notes, nil
}

// HireStaff hires or levels up a staff member. Gated behind the subscriber
// unlock; salaries bill weekly.
func (e *Engine) HireStaff(st *ChannelState, id string, now time.Time) ([]Notification, error) {
	if err := e.checkActive(st, now); err != nil {
		return nil, err
	}
	cfg := findStaff(id)
	if cfg == nil {
		return nil, nil
	}
	if st.Stats.Subscribers < StaffUnlockSubscriberReq {
		return nil, ErrStaffLocked
	}
	lvl := st.Staff[id]
	if lvl >= cfg.MaxLevel {
		return nil, nil
	}
	cost := cfg.Costs[lvl]
	if st.Stats.Money < cost {
		return nil, ErrInsufficientFunds
	}
	st.Stats.Money -= cost
	st.Staff[id] = lvl + 1

	notes := []Notification{note(NoteSuccess, "%s hired at level %d.", cfg.Name, lvl+1)}
	notes = append(notes, e.unlockAchievement(st, "HIRE_STAFF")...)
	notes = append(notes, e.refreshDerived(st)...)
	return notes, nil
}

// UnlockTalent spends one talent point. Tiers unlock strictly in order
// within a branch.
func (e *Engine) UnlockTalent(st *ChannelState, id string, now time.Time) ([]Notification, error) {
	if err := e.checkActive(st, now); err != nil {
		return nil, err
	}
	cfg := findTalent(id)
	if cfg == nil || st.HasTalent(id) {
		return nil, nil
	}
	if cfg.Requires != "" && !st.HasTalent(cfg.Requires) {
		return nil, ErrTalentLocked
	}
	if st.Stats.TalentPoints < 1 {
		return nil, ErrInsufficientTalent
	}
	st.Stats.TalentPoints--
	st.Talents = append(st.Talents, id)

	notes := []Notification{note(NoteSuccess, "Talent unlocked: %s.", cfg.Name)}
	if id == "PRODUCER_4" {
		st.ViralBoosts++
		notes = append(notes, note(NoteInfo, "Free viral boost added."))
	}
	notes = append(notes, e.refreshDerived(st)...)
	return notes, nil
}

// ChooseNiche commits the channel to a specialization. One-time.
func (e *Engine) ChooseNiche(st *ChannelState, id string, now time.Time) ([]Notification, error) {
	if err := e.checkActive(st, now); err != nil {
		return nil, err
	}
	cfg := findNiche(id)
	if cfg == nil {
		return nil, nil
	}
	if st.NicheID != "" {
		return nil, ErrNicheAlreadyChosen
	}
	st.NicheID = id
	return []Notification{note(NoteSuccess, "Channel niche set: %s.", cfg.Name)}, nil
}

// CreateCommunityPost trades energy for a small, subscriber-scaled gain.
func (e *Engine) CreateCommunityPost(st *ChannelState, text string, now time.Time) ([]Notification, error) {
	if err := e.checkActive(st, now); err != nil {
		return nil, err
	}
	b := ComputeBonuses(st.Talents, st.NicheID, st.Stats.Subscribers)
	if st.Stats.CreativeEnergy < b.CommunityPostEnergyCost {
		return nil, ErrInsufficientEnergy
	}
	st.Stats.CreativeEnergy -= b.CommunityPostEnergyCost

	likes := int64(math.Floor(float64(st.Stats.Subscribers) * 0.1 * e.rng.Float64()))
	gain := int64(math.Floor(float64(st.Stats.Subscribers) * 0.001 * (1 + e.rng.Float64()) * b.CommunityPostSubMult * b.SubGainMultiplier))
	st.Stats.Subscribers += gain

	st.Posts = append([]CommunityPost{{
		ID:       uuid.NewString(),
		Text:     text,
		PostedAt: now,
		Likes:    likes,
	}}, st.Posts...)

	notes := []Notification{note(NoteSuccess, "Community post published. +%d subscribers.", gain)}
	notes = append(notes, e.refreshDerived(st)...)
	return notes, nil
}

// Collab runs a collaboration with another creator, borrowing a slice of
// their audience. Rate limited by a wall-clock cooldown.
func (e *Engine) Collab(st *ChannelState, partner Collaborator, now time.Time) ([]Notification, error) {
	if err := e.checkActive(st, now); err != nil {
		return nil, err
	}
	if now.Before(st.CollabCooldownUntil) {
		return nil, ErrCollabOnCooldown
	}
	if st.Stats.CreativeEnergy < CollabCost {
		return nil, ErrInsufficientEnergy
	}
	st.Stats.CreativeEnergy -= CollabCost

	b := ComputeBonuses(st.Talents, st.NicheID, st.Stats.Subscribers)
	gain := int64(math.Floor(float64(partner.Subscribers) * (0.05 + e.rng.Float64()*0.1) * b.SubGainMultiplier))
	st.Stats.Subscribers += gain
	st.CollabCooldownUntil = now.Add(CollabCooldown)

	notes := []Notification{note(NoteSuccess, "Collab with %s brought in %d subscribers!", partner.Name, gain)}
	notes = append(notes, e.refreshDerived(st)...)
	return notes, nil
}

// StartStream spends the go-live energy cost. The stream's outcome arrives
// via FinishStream once the session ends.
func (e *Engine) StartStream(st *ChannelState, now time.Time) ([]Notification, error) {
	if err := e.checkActive(st, now); err != nil {
		return nil, err
	}
	b := ComputeBonuses(st.Talents, st.NicheID, st.Stats.Subscribers)
	if st.Stats.CreativeEnergy < b.GoLiveEnergyCost {
		return nil, ErrInsufficientEnergy
	}
	st.Stats.CreativeEnergy -= b.GoLiveEnergyCost
	return []Notification{note(NoteInfo, "You're live!")}, nil
}

// FinishStream settles a live session: donations scaled by the creator's
// stream talent, plus the subscribers who stuck around.
func (e *Engine) FinishStream(st *ChannelState, donations float64, newSubs int64, now time.Time) ([]Notification, error) {
	if st.GameOver {
		return nil, ErrGameOver
	}
	if donations < 0 {
		donations = 0
	}
	if newSubs < 0 {
		newSubs = 0
	}
	b := ComputeBonuses(st.Talents, st.NicheID, st.Stats.Subscribers)
	payout := donations * b.StreamDonationMult
	st.Stats.Money += payout
	st.TotalMoneyEarned += payout
	st.Stats.Subscribers += int64(math.Floor(float64(newSubs) * b.SubGainMultiplier))

	notes := []Notification{note(NoteSuccess, "Stream ended: $%.2f in donations, +%d subscribers.", payout, newSubs)}
	notes = append(notes, e.unlockAchievement(st, "FIRST_STREAM")...)
	notes = append(notes, e.refreshDerived(st)...)
	return notes, nil
}

// RespondSponsorship accepts or declines the pending offer. The payout is
// computed at accept time so late talent unlocks still count.
func (e *Engine) RespondSponsorship(st *ChannelState, accept bool, now time.Time) ([]Notification, error) {
	if err := e.checkActive(st, now); err != nil {
		return nil, err
	}
	if st.PendingSponsorship == "" {
		return nil, ErrNoPendingSponsor
	}
	cfg := findSponsorship(st.PendingSponsorship)
	st.PendingSponsorship = ""
	if cfg == nil {
		return []Notification{note(NoteInfo, "Sponsorship declined.")}, nil
	}
	if !accept {
		// Declined deals are done deals; the brand does not come back.
		st.CompletedSponsorships = append(st.CompletedSponsorships, cfg.ID)
		return []Notification{note(NoteInfo, "Sponsorship declined.")}, nil
	}

	b := ComputeBonuses(st.Talents, st.NicheID, st.Stats.Subscribers)
	payout := cfg.Offer * b.SponsorOfferMultiplier
	if cfg.Category == CategoryVlog {
		payout *= 1 + b.VlogSponsorBonus
	}
	st.Stats.Money += payout
	st.TotalMoneyEarned += payout
	st.CompletedSponsorships = append(st.CompletedSponsorships, cfg.ID)

	notes := []Notification{note(NoteSuccess, "Sponsorship with %s complete: $%.2f.", cfg.Brand, payout)}
	notes = append(notes, e.refreshDerived(st)...)
	return notes, nil
}

// AcknowledgeAwards closes the award ceremony so rediscovery resumes.
func (e *Engine) AcknowledgeAwards(st *ChannelState) {
	st.AwardShowOpen = false
}

// SetBannerPrompt records the channel banner concept for the studio.
func (e *Engine) SetBannerPrompt(st *ChannelState, prompt string) {
	st.BannerPrompt = strings.TrimSpace(prompt)
}

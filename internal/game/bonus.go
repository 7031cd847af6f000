package game

import "math"

// BonusSet is the aggregate of every passive modifier a channel currently
// enjoys. It is recomputed from scratch each time, never stored, so save
// blobs can't drift out of sync with the talent table.
type BonusSet struct {
	SubGainMultiplier        float64
	ViewMultiplier           float64
	UpgradeQualityMultiplier float64
	AudienceRetentionBonus   float64
	MonetizationMultiplier   float64
	WeeklyExpenseMultiplier  float64
	SponsorOfferMultiplier   float64

	CommunityPostEnergyCost float64
	CommunityPostSubMult    float64

	GoLiveEnergyCost        float64
	StreamDonationMult      float64

	ViralBoostEnergyCost    float64
	ViralBoostEffectiveness float64

	TrendingMultiplierBonus   float64 // extra factor applied to trending multipliers
	TrendingDurationMult      float64

	MerchIncomePerWeek float64

	// Niche modifiers keyed by the video's or deal's category at apply time.
	GamingSubBonus  float64
	GamingViewBonus float64
	OtherViewPenalty float64 // applied to non-gaming categories when gaming_pro is set
	TechIncomeBonus  float64
	VlogSponsorBonus float64 // applied only to VLOG-category sponsorships

	NegativeEventProtection bool
}

// ComputeBonuses folds unlocked talents and the chosen niche into a BonusSet.
// Unknown talent or niche ids are skipped.
func ComputeBonuses(talents []string, nicheID string, subscribers int64) BonusSet {
	b := BonusSet{
		SubGainMultiplier:        1,
		ViewMultiplier:           1,
		UpgradeQualityMultiplier: 1,
		MonetizationMultiplier:   1,
		WeeklyExpenseMultiplier:  1,
		SponsorOfferMultiplier:   1,
		CommunityPostEnergyCost:  CommunityPostCost,
		CommunityPostSubMult:     1,
		GoLiveEnergyCost:         GoLiveCost,
		StreamDonationMult:       1,
		ViralBoostEnergyCost:     ViralBoostCost,
		ViralBoostEffectiveness:  1,
		TrendingMultiplierBonus:  1,
		TrendingDurationMult:     1,
	}

	for _, id := range talents {
		switch id {
		case "CREATOR_1":
			b.SubGainMultiplier += 0.05
		case "CREATOR_2":
			b.CommunityPostEnergyCost -= 5
			b.CommunityPostSubMult += 0.25
		case "CREATOR_3":
			b.AudienceRetentionBonus += 5
		case "CREATOR_4":
			b.GoLiveEnergyCost -= 10
			b.StreamDonationMult += 0.2
		case "CREATOR_5":
			b.SubGainMultiplier += 1
			b.NegativeEventProtection = true
		case "PRODUCER_1":
			b.ViewMultiplier += 0.1
		case "PRODUCER_2":
			b.UpgradeQualityMultiplier += 0.1
		case "PRODUCER_3":
			b.TrendingMultiplierBonus *= 2
		case "PRODUCER_4":
			b.ViralBoostEnergyCost -= 15
		case "PRODUCER_5":
			b.TrendingDurationMult += 0.5
		case "ENTREPRENEUR_1":
			b.MonetizationMultiplier += 0.1
		case "ENTREPRENEUR_2":
			b.WeeklyExpenseMultiplier -= 0.25
		case "ENTREPRENEUR_3":
			b.SponsorOfferMultiplier += 0.2
		case "ENTREPRENEUR_5":
			b.MerchIncomePerWeek = math.Floor(float64(subscribers) * 0.02)
		}
	}

	switch nicheID {
	case "gaming_wholesome":
		b.GamingSubBonus += 0.1
	case "gaming_pro":
		b.GamingViewBonus += 0.2
		b.OtherViewPenalty += 0.05
	case "vlog_lifestyle":
		b.VlogSponsorBonus += 0.15
	case "tutorial_indepth":
		b.AudienceRetentionBonus += 10
	case "comedy_skits":
		b.ViralBoostEffectiveness += 0.2
	case "tech_reviews":
		b.TechIncomeBonus += 0.25
	}

	if b.CommunityPostEnergyCost < 0 {
		b.CommunityPostEnergyCost = 0
	}
	if b.GoLiveEnergyCost < 0 {
		b.GoLiveEnergyCost = 0
	}
	if b.ViralBoostEnergyCost < 0 {
		b.ViralBoostEnergyCost = 0
	}
	return b
}

// categoryViewFactor resolves the niche view modifier for one video.
func (b BonusSet) categoryViewFactor(cat VideoCategory) float64 {
	if cat == CategoryGaming {
		return 1 + b.GamingViewBonus
	}
	return 1 - b.OtherViewPenalty
}

// categorySubBonus resolves the niche subscriber gain modifier for one video.
func (b BonusSet) categorySubBonus(cat VideoCategory) float64 {
	if cat == CategoryGaming {
		return b.GamingSubBonus
	}
	return 0
}

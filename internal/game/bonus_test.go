package game

import "testing"

func TestComputeBonusesDefaults(t *testing.T) {
	b := ComputeBonuses(nil, "", 0)
	if b.SubGainMultiplier != 1 || b.ViewMultiplier != 1 || b.MonetizationMultiplier != 1 {
		t.Fatalf("unexpected defaults: %+v", b)
	}
	if b.CommunityPostEnergyCost != CommunityPostCost || b.GoLiveEnergyCost != GoLiveCost || b.ViralBoostEnergyCost != ViralBoostCost {
		t.Fatalf("unexpected energy defaults: %+v", b)
	}
	if b.NegativeEventProtection {
		t.Fatalf("protection on by default")
	}
}

func TestComputeBonusesTalents(t *testing.T) {
	tests := []struct {
		id    string
		check func(b BonusSet) bool
	}{
		{"CREATOR_1", func(b BonusSet) bool { return b.SubGainMultiplier == 1.05 }},
		{"CREATOR_2", func(b BonusSet) bool { return b.CommunityPostEnergyCost == 5 && b.CommunityPostSubMult == 1.25 }},
		{"CREATOR_3", func(b BonusSet) bool { return b.AudienceRetentionBonus == 5 }},
		{"CREATOR_4", func(b BonusSet) bool { return b.GoLiveEnergyCost == 10 && b.StreamDonationMult == 1.2 }},
		{"CREATOR_5", func(b BonusSet) bool { return b.SubGainMultiplier == 2 && b.NegativeEventProtection }},
		{"PRODUCER_1", func(b BonusSet) bool { return b.ViewMultiplier == 1.1 }},
		{"PRODUCER_2", func(b BonusSet) bool { return b.UpgradeQualityMultiplier == 1.1 }},
		{"PRODUCER_3", func(b BonusSet) bool { return b.TrendingMultiplierBonus == 2 }},
		{"PRODUCER_4", func(b BonusSet) bool { return b.ViralBoostEnergyCost == 35 }},
		{"PRODUCER_5", func(b BonusSet) bool { return b.TrendingDurationMult == 1.5 }},
		{"ENTREPRENEUR_1", func(b BonusSet) bool { return b.MonetizationMultiplier == 1.1 }},
		{"ENTREPRENEUR_2", func(b BonusSet) bool { return b.WeeklyExpenseMultiplier == 0.75 }},
		{"ENTREPRENEUR_3", func(b BonusSet) bool { return b.SponsorOfferMultiplier == 1.2 }},
	}
	for _, tc := range tests {
		b := ComputeBonuses([]string{tc.id}, "", 0)
		if !tc.check(b) {
			t.Fatalf("talent %s not applied: %+v", tc.id, b)
		}
	}
}

func TestComputeBonusesMerchScalesWithAudience(t *testing.T) {
	b := ComputeBonuses([]string{"ENTREPRENEUR_5"}, "", 12345)
	if b.MerchIncomePerWeek != 246 { // floor(12345*0.02)
		t.Fatalf("merch got %v want 246", b.MerchIncomePerWeek)
	}
}

func TestComputeBonusesNiches(t *testing.T) {
	b := ComputeBonuses(nil, "gaming_pro", 0)
	if b.categoryViewFactor(CategoryGaming) != 1.2 {
		t.Fatalf("gaming factor got %v", b.categoryViewFactor(CategoryGaming))
	}
	if b.categoryViewFactor(CategoryComedy) != 0.95 {
		t.Fatalf("off-niche factor got %v", b.categoryViewFactor(CategoryComedy))
	}

	b = ComputeBonuses(nil, "gaming_wholesome", 0)
	if b.categorySubBonus(CategoryGaming) != 0.1 || b.categorySubBonus(CategoryVlog) != 0 {
		t.Fatalf("wholesome sub bonus mismatch: %+v", b)
	}

	b = ComputeBonuses(nil, "tutorial_indepth", 0)
	if b.AudienceRetentionBonus != 10 {
		t.Fatalf("tutorial retention got %v", b.AudienceRetentionBonus)
	}

	b = ComputeBonuses(nil, "comedy_skits", 0)
	if b.ViralBoostEffectiveness != 1.2 {
		t.Fatalf("comedy boost got %v", b.ViralBoostEffectiveness)
	}

	b = ComputeBonuses(nil, "tech_reviews", 0)
	if b.TechIncomeBonus != 0.25 {
		t.Fatalf("tech income got %v", b.TechIncomeBonus)
	}

	// The vlog niche bonus is category-scoped and stays out of the general
	// sponsor multiplier.
	b = ComputeBonuses(nil, "vlog_lifestyle", 0)
	if b.VlogSponsorBonus != 0.15 {
		t.Fatalf("vlog sponsor bonus got %v", b.VlogSponsorBonus)
	}
	if b.SponsorOfferMultiplier != 1 {
		t.Fatalf("sponsor multiplier got %v want 1", b.SponsorOfferMultiplier)
	}
}

func TestComputeBonusesIgnoresUnknownIDs(t *testing.T) {
	b := ComputeBonuses([]string{"CREATOR_99", "totally_real"}, "astrology", 0)
	base := ComputeBonuses(nil, "", 0)
	if b != base {
		t.Fatalf("unknown ids changed bonuses: %+v vs %+v", b, base)
	}
}

func TestComputeBonusesEnergyCostsNeverNegative(t *testing.T) {
	// Stacked discounts floor at zero rather than refunding energy.
	b := ComputeBonuses([]string{"CREATOR_2", "CREATOR_2", "CREATOR_2"}, "", 0)
	if b.CommunityPostEnergyCost != 0 {
		t.Fatalf("post cost got %v want 0", b.CommunityPostEnergyCost)
	}
}

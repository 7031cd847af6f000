package game

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestUploadRequiresTitle(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)

	_, err := e.Upload(st, UploadInput{Title: "   ", Type: VideoTypeLong, Category: CategoryGaming}, now)
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("got %v want ErrEmptyTitle", err)
	}
}

func TestUploadFreezesQualityAndRetention(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)

	out, err := e.Upload(st, UploadInput{Title: "First Video", Type: VideoTypeLong, Category: CategoryGaming}, now)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if st.Stats.CreativeEnergy != MaxCreativeEnergy-UploadVideoCost {
		t.Fatalf("energy got %v", st.Stats.CreativeEnergy)
	}
	// No upgrades or staff: floor quality, and midpoint jitter cancels out.
	if out.Video.Quality != 0.1 {
		t.Fatalf("quality got %v want 0.1", out.Video.Quality)
	}
	if out.Video.AudienceRetention != 40 {
		t.Fatalf("retention got %v want 40", out.Video.AudienceRetention)
	}
	if !hasNote(out.Notes, "Hello, World") {
		t.Fatalf("expected first-video achievement, got %v", out.Notes)
	}
}

func TestUploadShortCostsLess(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)

	if _, err := e.Upload(st, UploadInput{Title: "Quick One", Type: VideoTypeShort, Category: CategoryComedy}, now); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if st.Stats.CreativeEnergy != MaxCreativeEnergy-UploadShortCost {
		t.Fatalf("energy got %v", st.Stats.CreativeEnergy)
	}
}

func TestUploadInsufficientEnergy(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.CreativeEnergy = UploadVideoCost - 1

	_, err := e.Upload(st, UploadInput{Title: "Too Tired", Type: VideoTypeLong, Category: CategoryVlog}, now)
	if !errors.Is(err, ErrInsufficientEnergy) {
		t.Fatalf("got %v want ErrInsufficientEnergy", err)
	}
}

func TestUploadGatesBlockSuspendedAndBankrupt(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()

	st := NewChannelState(now)
	st.Stats.SuspendedUntil = now.Add(time.Minute)
	if _, err := e.Upload(st, UploadInput{Title: "x", Type: VideoTypeLong, Category: CategoryGaming}, now); !errors.Is(err, ErrChannelSuspended) {
		t.Fatalf("got %v want ErrChannelSuspended", err)
	}

	st = NewChannelState(now)
	st.GameOver = true
	if _, err := e.Upload(st, UploadInput{Title: "x", Type: VideoTypeLong, Category: CategoryGaming}, now); !errors.Is(err, ErrGameOver) {
		t.Fatalf("got %v want ErrGameOver", err)
	}
}

func TestUploadMatchesTrendingTopic(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.MergeTrendingTopics([]TopicSuggestion{{Topic: "Speedrun", Category: CategoryGaming}}, now)

	out, err := e.Upload(st, UploadInput{Title: "My SPEEDRUN Attempt", Type: VideoTypeLong, Category: CategoryGaming}, now)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !out.Video.IsTrending || out.Video.TrendingMultiplier != TrendingMultiplier {
		t.Fatalf("expected trending x%v, got %+v", TrendingMultiplier, out.Video)
	}
	if !hasNote(out.Notes, "On the Board") {
		t.Fatalf("expected trending achievement, got %v", out.Notes)
	}

	// Category mismatch does not trend.
	out, err = e.Upload(st, UploadInput{Title: "Speedrun Reaction", Type: VideoTypeLong, Category: CategoryComedy}, now)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if out.Video.IsTrending {
		t.Fatalf("cross-category upload trended")
	}
}

func TestUploadViralBoost(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)

	out, err := e.Upload(st, UploadInput{Title: "Launch Day", Type: VideoTypeLong, Category: CategoryTech, ViralBoost: true}, now)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if st.ViralBoosts != 1 {
		t.Fatalf("boosts got %d want 1", st.ViralBoosts)
	}
	if out.Video.Views != int64(ViralInstantViews) {
		t.Fatalf("views got %d want %v", out.Video.Views, ViralInstantViews)
	}
	if out.Video.TrendingMultiplier != ViralMultiplier {
		t.Fatalf("multiplier got %v want %v", out.Video.TrendingMultiplier, ViralMultiplier)
	}
	// floor(100000 / (200 - 0.1*50)) = 512
	if st.Stats.Subscribers != 512 {
		t.Fatalf("subscribers got %d want 512", st.Stats.Subscribers)
	}
	if st.Stats.CreativeEnergy != MaxCreativeEnergy-ViralBoostCost {
		t.Fatalf("energy got %v", st.Stats.CreativeEnergy)
	}
}

func TestUploadViralBoostNeedsCharges(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.ViralBoosts = 0

	_, err := e.Upload(st, UploadInput{Title: "Please Go Viral", Type: VideoTypeLong, Category: CategoryMusic, ViralBoost: true}, now)
	if !errors.Is(err, ErrNoViralBoosts) {
		t.Fatalf("got %v want ErrNoViralBoosts", err)
	}
}

func TestUploadSeriesEpisodeNumbers(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)

	for want := 1; want <= 3; want++ {
		out, err := e.Upload(st, UploadInput{Title: "100 Days", Type: VideoTypeLong, Category: CategoryGaming, SeriesName: "Hardcore"}, now)
		if err != nil {
			t.Fatalf("upload %d: %v", want, err)
		}
		if out.Video.SeriesEpisode != want {
			t.Fatalf("episode got %d want %d", out.Video.SeriesEpisode, want)
		}
	}
}

func TestUploadConsumesMemePenalty(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Upgrades["camera"] = 2 // quality 0.1 + 0.2
	st.NextUploadQualityPenalty = memeQualityPenalty

	out, err := e.Upload(st, UploadInput{Title: "Comeback", Type: VideoTypeLong, Category: CategoryVlog}, now)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if got := out.Video.Quality; got < 0.199 || got > 0.201 {
		t.Fatalf("quality got %v want 0.2", got)
	}
	if st.NextUploadQualityPenalty != 0 {
		t.Fatalf("penalty not consumed")
	}

	out, err = e.Upload(st, UploadInput{Title: "Back to Normal", Type: VideoTypeLong, Category: CategoryVlog}, now)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if got := out.Video.Quality; got < 0.299 || got > 0.301 {
		t.Fatalf("penalty persisted, quality %v", got)
	}
}

func TestBoostVideo(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Videos = append(st.Videos, &Video{ID: "v1", Title: "Sleeper Hit"})

	if _, err := e.BoostVideo(st, "missing", now); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("got %v want ErrVideoNotFound", err)
	}

	notes, err := e.BoostVideo(st, "v1", now)
	if err != nil {
		t.Fatalf("boost: %v", err)
	}
	if !hasNote(notes, "going viral") {
		t.Fatalf("expected viral note, got %v", notes)
	}
	v := st.Videos[0]
	if !v.IsTrending || v.Views != int64(ViralInstantViews) {
		t.Fatalf("boost did not apply: %+v", v)
	}
	if st.ViralBoosts != 1 {
		t.Fatalf("boosts got %d want 1", st.ViralBoosts)
	}

	st.ViralBoosts = 0
	if _, err := e.BoostVideo(st, "v1", now); !errors.Is(err, ErrNoViralBoosts) {
		t.Fatalf("got %v want ErrNoViralBoosts", err)
	}
}

func TestBuyUpgrade(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)

	notes, err := e.BuyUpgrade(st, "camera", now)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if st.Upgrades["camera"] != 1 || st.Stats.Money != 50 {
		t.Fatalf("state after buy: level=%d money=%v", st.Upgrades["camera"], st.Stats.Money)
	}
	if !hasNote(notes, "Camera upgraded") {
		t.Fatalf("expected upgrade note, got %v", notes)
	}

	if _, err := e.BuyUpgrade(st, "camera", now); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v want ErrInsufficientFunds", err)
	}

	// Unknown ids and maxed upgrades are quiet no-ops.
	if notes, err := e.BuyUpgrade(st, "gold_play_button", now); err != nil || notes != nil {
		t.Fatalf("unknown id: notes=%v err=%v", notes, err)
	}
	st.Stats.Money = 1_000_000
	st.Upgrades["camera"] = 5
	if notes, err := e.BuyUpgrade(st, "camera", now); err != nil || notes != nil {
		t.Fatalf("maxed: notes=%v err=%v", notes, err)
	}
}

func TestHireStaffGatedBySubscribers(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.Money = 5000

	if _, err := e.HireStaff(st, StaffEditor, now); !errors.Is(err, ErrStaffLocked) {
		t.Fatalf("got %v want ErrStaffLocked", err)
	}

	st.Stats.Subscribers = StaffUnlockSubscriberReq
	notes, err := e.HireStaff(st, StaffEditor, now)
	if err != nil {
		t.Fatalf("hire: %v", err)
	}
	if st.Staff[StaffEditor] != 1 || st.Stats.Money != 3000 {
		t.Fatalf("state after hire: level=%d money=%v", st.Staff[StaffEditor], st.Stats.Money)
	}
	if !hasNote(notes, "hired at level 1") {
		t.Fatalf("expected hire note, got %v", notes)
	}
}

func TestUnlockTalent(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.TalentPoints = 1

	if _, err := e.UnlockTalent(st, "CREATOR_2", now); !errors.Is(err, ErrTalentLocked) {
		t.Fatalf("got %v want ErrTalentLocked", err)
	}

	if _, err := e.UnlockTalent(st, "CREATOR_1", now); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if !st.HasTalent("CREATOR_1") || st.Stats.TalentPoints != 0 {
		t.Fatalf("state after unlock: talents=%v points=%d", st.Talents, st.Stats.TalentPoints)
	}

	if _, err := e.UnlockTalent(st, "CREATOR_2", now); !errors.Is(err, ErrInsufficientTalent) {
		t.Fatalf("got %v want ErrInsufficientTalent", err)
	}

	// Re-unlocking an owned talent is a no-op, not an error.
	if notes, err := e.UnlockTalent(st, "CREATOR_1", now); err != nil || notes != nil {
		t.Fatalf("re-unlock: notes=%v err=%v", notes, err)
	}
}

func TestUnlockProducerFourGrantsBoost(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Talents = []string{"PRODUCER_1", "PRODUCER_2", "PRODUCER_3"}
	st.Stats.TalentPoints = 1

	if _, err := e.UnlockTalent(st, "PRODUCER_4", now); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if st.ViralBoosts != 3 {
		t.Fatalf("boosts got %d want 3", st.ViralBoosts)
	}
}

func TestChooseNicheIsPermanent(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)

	if _, err := e.ChooseNiche(st, "gaming_pro", now); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if st.NicheID != "gaming_pro" {
		t.Fatalf("niche got %q", st.NicheID)
	}
	if _, err := e.ChooseNiche(st, "tech_reviews", now); !errors.Is(err, ErrNicheAlreadyChosen) {
		t.Fatalf("got %v want ErrNicheAlreadyChosen", err)
	}

	// Unknown ids do nothing and leave the slot open.
	st = NewChannelState(now)
	if notes, err := e.ChooseNiche(st, "crypto_bro", now); err != nil || notes != nil || st.NicheID != "" {
		t.Fatalf("unknown niche: notes=%v err=%v niche=%q", notes, err, st.NicheID)
	}
}

func TestCreateCommunityPost(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.Subscribers = 10000

	notes, err := e.CreateCommunityPost(st, "New video Friday!", now)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if st.Stats.CreativeEnergy != MaxCreativeEnergy-CommunityPostCost {
		t.Fatalf("energy got %v", st.Stats.CreativeEnergy)
	}
	// gain = floor(10000 * 0.001 * 1.5) = 15
	if st.Stats.Subscribers != 10015 {
		t.Fatalf("subscribers got %d want 10015", st.Stats.Subscribers)
	}
	if len(st.Posts) != 1 || st.Posts[0].Text != "New video Friday!" {
		t.Fatalf("post not recorded: %+v", st.Posts)
	}
	if !hasNote(notes, "+15 subscribers") {
		t.Fatalf("expected gain note, got %v", notes)
	}
}

func TestCollabCooldown(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	partner := Collaborator{Name: "TechTonic", Subscribers: 10000}

	if _, err := e.Collab(st, partner, now); err != nil {
		t.Fatalf("collab: %v", err)
	}
	// gain = floor(10000 * (0.05 + 0.5*0.1)) = 1000
	if st.Stats.Subscribers != 1000 {
		t.Fatalf("subscribers got %d want 1000", st.Stats.Subscribers)
	}
	if st.Stats.CreativeEnergy != MaxCreativeEnergy-CollabCost {
		t.Fatalf("energy got %v", st.Stats.CreativeEnergy)
	}

	if _, err := e.Collab(st, partner, now.Add(time.Minute)); !errors.Is(err, ErrCollabOnCooldown) {
		t.Fatalf("got %v want ErrCollabOnCooldown", err)
	}
	st.Stats.CreativeEnergy = MaxCreativeEnergy
	if _, err := e.Collab(st, partner, now.Add(CollabCooldown+time.Second)); err != nil {
		t.Fatalf("collab after cooldown: %v", err)
	}
}

func TestStreamLifecycle(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)

	if _, err := e.StartStream(st, now); err != nil {
		t.Fatalf("start: %v", err)
	}
	if st.Stats.CreativeEnergy != MaxCreativeEnergy-GoLiveCost {
		t.Fatalf("energy got %v", st.Stats.CreativeEnergy)
	}

	notes, err := e.FinishStream(st, 200, 10, now)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if st.Stats.Money != 300 {
		t.Fatalf("money got %v want 300", st.Stats.Money)
	}
	if st.Stats.Subscribers != 10 {
		t.Fatalf("subscribers got %d want 10", st.Stats.Subscribers)
	}
	if !hasNote(notes, "Stream ended") {
		t.Fatalf("expected stream summary, got %v", notes)
	}
}

func TestStreamTalentDiscountsAndScales(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Talents = []string{"CREATOR_4"}

	if _, err := e.StartStream(st, now); err != nil {
		t.Fatalf("start: %v", err)
	}
	if st.Stats.CreativeEnergy != MaxCreativeEnergy-(GoLiveCost-10) {
		t.Fatalf("energy got %v", st.Stats.CreativeEnergy)
	}
	if _, err := e.FinishStream(st, 100, 0, now); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if st.Stats.Money != 220 { // 100 starting + 100*1.2
		t.Fatalf("money got %v want 220", st.Stats.Money)
	}
}

func TestRespondSponsorship(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)

	if _, err := e.RespondSponsorship(st, true, now); !errors.Is(err, ErrNoPendingSponsor) {
		t.Fatalf("got %v want ErrNoPendingSponsor", err)
	}

	st.Talents = []string{"ENTREPRENEUR_3"}
	st.NicheID = "vlog_lifestyle"

	// Gaming deal: the niche's vlog payout bonus must not apply. 500 * 1.2 = 600.
	start := st.Stats.Money
	st.PendingSponsorship = "sponsor1"
	notes, err := e.RespondSponsorship(st, true, now)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if math.Abs(st.Stats.Money-(start+600)) > 1e-9 {
		t.Fatalf("money got %v want %v", st.Stats.Money, start+600)
	}
	if !st.hasCompletedSponsorship("sponsor1") || st.PendingSponsorship != "" {
		t.Fatalf("completion not recorded: %+v", st)
	}
	if !hasNote(notes, "GamerFuel") {
		t.Fatalf("expected brand note, got %v", notes)
	}

	// Vlog deal: 3000 * 1.2 * 1.15 = 4140.
	start = st.Stats.Money
	st.PendingSponsorship = "sponsor3"
	if _, err := e.RespondSponsorship(st, true, now); err != nil {
		t.Fatalf("accept vlog: %v", err)
	}
	if math.Abs(st.Stats.Money-(start+4140)) > 1e-6 {
		t.Fatalf("money got %v want %v", st.Stats.Money, start+4140)
	}
}

func TestDeclinedSponsorshipNeverReturns(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.Subscribers = 20000
	st.CompletedSponsorships = []string{"sponsor1"}
	st.PendingSponsorship = "sponsor2"

	if _, err := e.RespondSponsorship(st, false, now); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if st.PendingSponsorship != "" {
		t.Fatalf("pending not cleared: %q", st.PendingSponsorship)
	}
	if !st.hasCompletedSponsorship("sponsor2") {
		t.Fatalf("declined deal not marked done")
	}

	// The declined brand must not come knocking again.
	e.surfaceSponsorship(st)
	if st.PendingSponsorship != "" {
		t.Fatalf("declined deal re-offered: %q", st.PendingSponsorship)
	}
}

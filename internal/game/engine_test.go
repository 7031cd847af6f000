package game

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"
)

// scriptRNG replays a fixed sequence of floats, cycling when exhausted.
// Intn derives from the same sequence so scripted runs stay deterministic.
type scriptRNG struct {
	vals []float64
	i    int
}

func (r *scriptRNG) Float64() float64 {
	if len(r.vals) == 0 {
		return 0.5
	}
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func (r *scriptRNG) Intn(n int) int {
	return int(r.Float64() * float64(n))
}

func newTestEngine(vals ...float64) *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(&scriptRNG{vals: vals}, logger)
}

func hasNote(notes []Notification, substr string) bool {
	for _, n := range notes {
		if strings.Contains(n.Message, substr) {
			return true
		}
	}
	return false
}

func TestTickEnergyRegen(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.CreativeEnergy = 50

	e.Tick(st, now)
	if st.Stats.CreativeEnergy != 51 {
		t.Fatalf("energy got %v want 51", st.Stats.CreativeEnergy)
	}

	st.Stats.CreativeEnergy = MaxCreativeEnergy
	e.Tick(st, now)
	if st.Stats.CreativeEnergy != MaxCreativeEnergy {
		t.Fatalf("energy exceeded cap: %v", st.Stats.CreativeEnergy)
	}
}

func TestTickGameOverBelowThreshold(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.Money = GameOverMoneyThreshold - 1

	notes := e.Tick(st, now)
	if !st.GameOver {
		t.Fatalf("expected game over")
	}
	if !hasNote(notes, "bankrupt") {
		t.Fatalf("expected bankruptcy note, got %v", notes)
	}
	if got := e.Tick(st, now); got != nil {
		t.Fatalf("expected no-op tick after game over, got %v", got)
	}
}

func TestTickSuspendedIsNoop(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.SuspendedUntil = now.Add(time.Minute)
	st.Stats.CreativeEnergy = 40

	if notes := e.Tick(st, now); notes != nil {
		t.Fatalf("expected nil notes, got %v", notes)
	}
	if st.Stats.CreativeEnergy != 40 {
		t.Fatalf("suspended tick mutated energy: %v", st.Stats.CreativeEnergy)
	}

	// Once the suspension lapses the channel ticks again.
	later := st.Stats.SuspendedUntil.Add(time.Second)
	e.Tick(st, later)
	if st.Stats.CreativeEnergy != 41 {
		t.Fatalf("post-suspension tick did not regen: %v", st.Stats.CreativeEnergy)
	}
}

func TestAgeVideoMidpointFormula(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	v := &Video{
		Type:              VideoTypeLong,
		Quality:           0.5,
		AudienceRetention: 50,
		UploadedAt:        now,
	}
	b := ComputeBonuses(nil, "", 0)

	subs, income := e.ageVideo(st, v, b, now)

	// base = 0.5*50+10 = 35; decay = 1 at age zero; 35 * 1.5 * (50/50) = 52.5
	if v.Views != 52 {
		t.Fatalf("views got %d want 52", v.Views)
	}
	if v.Likes != 50 {
		t.Fatalf("likes got %d want 50", v.Likes)
	}
	wantHours := 52 * 0.5 * 5.0 / 60
	if math.Abs(v.WatchHours-wantHours) > 1e-9 {
		t.Fatalf("watch hours got %v want %v", v.WatchHours, wantHours)
	}
	if subs != 0 {
		t.Fatalf("midpoint roll should not convert subscribers, got %d", subs)
	}
	if income != 0 {
		t.Fatalf("unmonetized channel earned %v", income)
	}
}

func TestAgeVideoMonetizedIncome(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Monetized = true
	b := ComputeBonuses(nil, "", 0)

	long := &Video{Type: VideoTypeLong, Quality: 0.5, AudienceRetention: 50, UploadedAt: now}
	_, income := e.ageVideo(st, long, b, now)
	wantHours := 52 * 0.5 * 5.0 / 60
	want := wantHours * (BaseCPM / 1000) * LongFormRPMFactor
	if math.Abs(income-want) > 1e-9 {
		t.Fatalf("long income got %v want %v", income, want)
	}

	short := &Video{Type: VideoTypeShort, Quality: 0.5, AudienceRetention: 50, UploadedAt: now}
	_, income = e.ageVideo(st, short, b, now)
	// base = 0.5*200+50 = 150; 150 * 1.5 * 1 = 225 views
	want = 225.0 / 1000 * (BaseCPM * ShortsCPMMultiplier)
	if math.Abs(income-want) > 1e-9 {
		t.Fatalf("short income got %v want %v", income, want)
	}
}

func TestViewsOnlyGrow(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Videos = append(st.Videos, &Video{
		ID:                "v1",
		Title:             "Old Upload",
		Type:              VideoTypeLong,
		Quality:           0.4,
		AudienceRetention: 60,
		UploadedAt:        now.Add(-4 * time.Hour),
	})

	v := st.Videos[0]
	prevViews := v.Views
	prevHours := v.WatchHours
	for i := 0; i < 5; i++ {
		e.Tick(st, now.Add(time.Duration(i)*time.Second))
		if v.Views < prevViews {
			t.Fatalf("views shrank: %d -> %d", prevViews, v.Views)
		}
		if v.WatchHours < prevHours {
			t.Fatalf("watch hours shrank: %v -> %v", prevHours, v.WatchHours)
		}
		prevViews = v.Views
		prevHours = v.WatchHours
	}
}

func TestBillingChargesExpensesAndSalaries(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.TicksUntilBill = 1
	st.Staff[StaffEditor] = 1

	notes := e.Tick(st, now)
	want := 100.0 - (WeeklyExpensesAmount + 500)
	if st.Stats.Money != want {
		t.Fatalf("money got %v want %v", st.Stats.Money, want)
	}
	if !hasNote(notes, "Weekly expenses") {
		t.Fatalf("expected billing note, got %v", notes)
	}
	if st.TicksUntilBill != TicksPerWeek {
		t.Fatalf("bill countdown not reset: %d", st.TicksUntilBill)
	}
}

func TestBillingMerchCanTurnProfit(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.TicksUntilBill = 1
	st.Stats.Subscribers = 10000
	st.Talents = []string{"ENTREPRENEUR_5"}

	notes := e.Tick(st, now)
	// merch floor(10000*0.02)=200 beats the 150 base bill
	if st.Stats.Money != 150 {
		t.Fatalf("money got %v want 150", st.Stats.Money)
	}
	if !hasNote(notes, "Merch sales") {
		t.Fatalf("expected merch note, got %v", notes)
	}
}

func TestManagerPassiveSubscribers(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Staff[StaffManager] = 2

	e.Tick(st, now)
	if st.Stats.Subscribers != 2 {
		t.Fatalf("subscribers got %d want 2", st.Stats.Subscribers)
	}
}

func TestManagerSubsScaleWithTalents(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Staff[StaffManager] = 2
	st.Talents = []string{"CREATOR_5"} // doubles subscriber gain

	e.Tick(st, now)
	if st.Stats.Subscribers != 4 {
		t.Fatalf("subscribers got %d want 4", st.Stats.Subscribers)
	}
}

func TestAddStrikeBelowCapWarns(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)

	notes := e.addStrike(st, now, 1)
	if st.Stats.ChannelStrikes != 1 {
		t.Fatalf("strikes got %d want 1", st.Stats.ChannelStrikes)
	}
	if !hasNote(notes, "strike 1 of 3") {
		t.Fatalf("expected strike warning, got %v", notes)
	}
}

func TestThirdStrikeSuspendsAndDemonetizes(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.Subscribers = 1000
	st.Stats.Money = 500
	st.Stats.ChannelStrikes = 2
	st.Monetized = true

	e.addStrike(st, now, 1)
	if st.Stats.Subscribers != 800 {
		t.Fatalf("subscribers got %d want 800", st.Stats.Subscribers)
	}
	if st.Stats.Money != 250 {
		t.Fatalf("money got %v want 250", st.Stats.Money)
	}
	if !st.Suspended(now.Add(time.Second)) {
		t.Fatalf("expected suspension")
	}
	if st.Stats.ChannelStrikes != 0 {
		t.Fatalf("strike counter not reset: %d", st.Stats.ChannelStrikes)
	}
	if st.Monetized {
		t.Fatalf("expected demonetization")
	}
}

func TestMonetizationFlipsExactlyOnce(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.Subscribers = MonetizationSubscriberReq
	st.Videos = append(st.Videos, &Video{ID: "v1", WatchHours: MonetizationWatchHourReq, UploadedAt: now})

	notes := e.refreshDerived(st)
	if !st.Monetized {
		t.Fatalf("expected monetization at exact thresholds")
	}
	if !hasNote(notes, "now monetized") {
		t.Fatalf("expected monetization note, got %v", notes)
	}

	notes = e.refreshDerived(st)
	if hasNote(notes, "now monetized") {
		t.Fatalf("monetization announced twice")
	}
}

func TestMilestonesAwardOnePerSweep(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.Subscribers = 600

	e.refreshDerived(st)
	if st.Stats.TalentPoints != 1 || !st.hasMilestone(100) {
		t.Fatalf("first sweep: points=%d milestones=%v", st.Stats.TalentPoints, st.AwardedMilestones)
	}
	e.refreshDerived(st)
	if st.Stats.TalentPoints != 2 || !st.hasMilestone(500) {
		t.Fatalf("second sweep: points=%d milestones=%v", st.Stats.TalentPoints, st.AwardedMilestones)
	}
	e.refreshDerived(st)
	if st.Stats.TalentPoints != 2 {
		t.Fatalf("milestone above subscriber count awarded: points=%d", st.Stats.TalentPoints)
	}
}

func TestRediscoveryPausedWhileAwardShowOpen(t *testing.T) {
	now := time.Now().UTC()

	build := func(open bool) (*Engine, *ChannelState) {
		e := newTestEngine(0)
		st := NewChannelState(now)
		st.AwardShowOpen = open
		st.Videos = append(st.Videos, &Video{
			ID:                "v1",
			Title:             "Deep Cut",
			Type:              VideoTypeLong,
			Quality:           0.9,
			AudienceRetention: 70,
			UploadedAt:        now.Add(-time.Hour),
		})
		return e, st
	}

	e, st := build(false)
	e.Tick(st, now)
	if !st.Videos[0].IsTrending {
		t.Fatalf("expected rediscovery with zero roll")
	}

	e, st = build(true)
	e.Tick(st, now)
	if st.Videos[0].IsTrending {
		t.Fatalf("rediscovery fired during award show")
	}
}

func TestRediscoveryTrendsOneVideoPerTick(t *testing.T) {
	e := newTestEngine(0)
	now := time.Now().UTC()
	st := NewChannelState(now)
	for i := 0; i < 3; i++ {
		st.Videos = append(st.Videos, &Video{
			ID:                fmt.Sprintf("v%d", i),
			Title:             fmt.Sprintf("Deep Cut %d", i),
			Type:              VideoTypeLong,
			Quality:           0.9,
			AudienceRetention: 70,
			UploadedAt:        now.Add(-time.Hour),
		})
	}

	notes := e.tryRediscovery(st, now)

	trending := 0
	for _, v := range st.Videos {
		if v.IsTrending {
			trending++
		}
	}
	if trending != 1 {
		t.Fatalf("trending videos got %d want 1", trending)
	}
	if len(notes) != 1 {
		t.Fatalf("notifications got %d want 1", len(notes))
	}
}

func TestRediscoverySkipsLowQualityAndTrending(t *testing.T) {
	e := newTestEngine(0)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Videos = append(st.Videos,
		&Video{ID: "low", Quality: 0.3, UploadedAt: now},
		&Video{ID: "hot", Quality: 0.9, IsTrending: true, TrendingMultiplier: TrendingMultiplier, UploadedAt: now},
	)

	if notes := e.tryRediscovery(st, now); notes != nil {
		t.Fatalf("expected no rediscovery with no eligible videos, got %v", notes)
	}
}

func TestSeriesMomentumSkipsFirstEpisode(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	b := ComputeBonuses(nil, "", 0)

	ep1 := &Video{
		Type:              VideoTypeLong,
		Quality:           0.5,
		AudienceRetention: 50,
		UploadedAt:        now,
		SeriesName:        "Lore Dive",
		SeriesEpisode:     1,
	}
	e.ageVideo(st, ep1, b, now)
	if ep1.Views != 52 {
		t.Fatalf("episode 1 views got %d want 52 (no momentum)", ep1.Views)
	}

	ep2 := &Video{
		Type:              VideoTypeLong,
		Quality:           0.5,
		AudienceRetention: 50,
		UploadedAt:        now,
		SeriesName:        "Lore Dive",
		SeriesEpisode:     2,
	}
	e.ageVideo(st, ep2, b, now)
	if ep2.Views != 63 {
		t.Fatalf("episode 2 views got %d want 63", ep2.Views)
	}
}

func TestTickSafeAcrossGoroutines(t *testing.T) {
	e := NewEngine(rand.New(rand.NewSource(1)), slog.New(slog.NewTextHandler(io.Discard, nil)))
	now := time.Now().UTC()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st := NewChannelState(now)
			st.Videos = append(st.Videos, &Video{
				ID:                "v1",
				Title:             "Upload",
				Type:              VideoTypeLong,
				Quality:           0.6,
				AudienceRetention: 55,
				UploadedAt:        now,
			})
			for j := 0; j < 50; j++ {
				e.Tick(st, now.Add(time.Duration(j)*time.Minute))
			}
		}()
	}
	wg.Wait()
}

func TestSurfaceSponsorshipSkipsCompleted(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.Subscribers = 20000
	st.CompletedSponsorships = []string{"sponsor1"}

	e.surfaceSponsorship(st)
	if st.PendingSponsorship != "sponsor2" {
		t.Fatalf("pending got %q want sponsor2", st.PendingSponsorship)
	}

	// A pending offer blocks further surfacing.
	st.CompletedSponsorships = nil
	e.surfaceSponsorship(st)
	if st.PendingSponsorship != "sponsor2" {
		t.Fatalf("pending offer replaced: %q", st.PendingSponsorship)
	}
}

func TestSurfaceEventBindsVideoTitle(t *testing.T) {
	// First roll passes the 2% gate, then Intn picks event 0 and video 0.
	e := newTestEngine(0)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Videos = append(st.Videos, &Video{ID: "v1", Title: "Cooking Fails", UploadedAt: now})

	notes := e.surfaceEvent(st, now)
	if st.PendingEvent == nil {
		t.Fatalf("expected pending event")
	}
	if st.PendingEvent.VideoID != "v1" {
		t.Fatalf("bound video got %q", st.PendingEvent.VideoID)
	}
	if !strings.Contains(st.PendingEvent.Description, `"Cooking Fails"`) {
		t.Fatalf("title not substituted: %q", st.PendingEvent.Description)
	}
	if len(notes) != 1 {
		t.Fatalf("expected one surfacing note, got %v", notes)
	}
}

func TestMergeAndExpireTopics(t *testing.T) {
	now := time.Now().UTC()
	st := NewChannelState(now)

	st.MergeTrendingTopics([]TopicSuggestion{
		{Topic: "Speedrun", Category: CategoryGaming},
		{Topic: "Desk Tour", Category: CategoryTech},
	}, now)
	if len(st.TrendingTopics) != 2 {
		t.Fatalf("topics got %d want 2", len(st.TrendingTopics))
	}
	if !st.LastTrendRefresh.Equal(now) {
		t.Fatalf("refresh timestamp not recorded")
	}

	st.expireTopics(now.Add(TrendingTopicDuration + time.Second))
	if len(st.TrendingTopics) != 0 {
		t.Fatalf("expired topics survived: %v", st.TrendingTopics)
	}
}

func TestHistoryRingIsBounded(t *testing.T) {
	now := time.Now().UTC()
	st := NewChannelState(now)
	for i := 0; i < StatsHistoryLimit+5; i++ {
		st.Stats.Subscribers = int64(i)
		st.pushHistory(now.Add(time.Duration(i) * time.Second))
	}
	if len(st.History) != StatsHistoryLimit {
		t.Fatalf("history len got %d want %d", len(st.History), StatsHistoryLimit)
	}
	last := st.History[len(st.History)-1]
	if last.Subscribers != int64(StatsHistoryLimit+4) {
		t.Fatalf("latest sample lost: %+v", last)
	}
}

func TestViewReflectsState(t *testing.T) {
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.SuspendedUntil = now.Add(time.Minute)
	st.PendingSponsorship = "sponsor1"
	st.Videos = append(st.Videos, &Video{ID: "v1"})

	v := st.View(now)
	if !v.Suspended || v.VideoCount != 1 || v.PendingSponsor != "sponsor1" {
		t.Fatalf("view mismatch: %+v", v)
	}
}

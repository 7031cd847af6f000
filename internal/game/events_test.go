package game

import (
	"errors"
	"testing"
	"time"
)

func pendingStateWith(now time.Time, eventID string) *ChannelState {
	st := NewChannelState(now)
	st.Stats.Subscribers = 1000
	st.Videos = append(st.Videos, &Video{ID: "v1", Title: "The Video"})
	st.PendingEvent = &PendingEvent{EventID: eventID, VideoID: "v1", SurfacedAt: now}
	return st
}

func TestResolveEventGuards(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()

	st := NewChannelState(now)
	if _, err := e.ResolveEvent(st, "SHOUTOUT", "sub_boost", now); !errors.Is(err, ErrNoPendingEvent) {
		t.Fatalf("got %v want ErrNoPendingEvent", err)
	}

	st = pendingStateWith(now, "SHOUTOUT")
	if _, err := e.ResolveEvent(st, "COPYRIGHT_CLAIM", "dispute", now); !errors.Is(err, ErrNoPendingEvent) {
		t.Fatalf("mismatched id: got %v want ErrNoPendingEvent", err)
	}
	if st.PendingEvent == nil {
		t.Fatalf("mismatched resolve cleared the pending event")
	}

	st.GameOver = true
	if _, err := e.ResolveEvent(st, "SHOUTOUT", "sub_boost", now); !errors.Is(err, ErrGameOver) {
		t.Fatalf("got %v want ErrGameOver", err)
	}
}

func TestResolveEventUnknownChoiceStillClears(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := pendingStateWith(now, "SHOUTOUT")

	if _, err := e.ResolveEvent(st, "SHOUTOUT", "panic", now); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if st.PendingEvent != nil {
		t.Fatalf("pending event survived an unknown choice")
	}
	if st.Stats.Subscribers != 1000 {
		t.Fatalf("unknown choice mutated subscribers: %d", st.Stats.Subscribers)
	}
}

func TestShoutoutSubBoost(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := pendingStateWith(now, "SHOUTOUT")

	notes, err := e.ResolveEvent(st, "SHOUTOUT", "sub_boost", now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// floor(1000*0.15) + 250 = 400
	if st.Stats.Subscribers != 1400 {
		t.Fatalf("subscribers got %d want 1400", st.Stats.Subscribers)
	}
	if !hasNote(notes, "400 new subscribers") {
		t.Fatalf("expected gain note, got %v", notes)
	}
}

func TestShoutoutViewBoost(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := pendingStateWith(now, "SHOUTOUT")

	if _, err := e.ResolveEvent(st, "SHOUTOUT", "view_boost", now); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	v := st.Videos[0]
	if !v.IsTrending || v.TrendingMultiplier != shoutoutViewMult {
		t.Fatalf("view boost not applied: %+v", v)
	}
}

func TestCopyrightDispute(t *testing.T) {
	now := time.Now().UTC()

	e := newTestEngine(0.4) // under disputeWinChance
	st := pendingStateWith(now, "COPYRIGHT_CLAIM")
	notes, err := e.ResolveEvent(st, "COPYRIGHT_CLAIM", "dispute", now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if st.Stats.Money != 100+disputeWinPayout {
		t.Fatalf("money got %v want %v", st.Stats.Money, 100+disputeWinPayout)
	}
	if !hasNote(notes, "won the dispute") {
		t.Fatalf("expected win note, got %v", notes)
	}

	e = newTestEngine(0.7) // over disputeWinChance
	st = pendingStateWith(now, "COPYRIGHT_CLAIM")
	notes, err = e.ResolveEvent(st, "COPYRIGHT_CLAIM", "dispute", now)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if st.Stats.ChannelStrikes != 1 {
		t.Fatalf("strikes got %d want 1", st.Stats.ChannelStrikes)
	}
	if !hasNote(notes, "strike 1 of 3") {
		t.Fatalf("expected strike note, got %v", notes)
	}
}

func TestCopyrightRemoveDropsVideo(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := pendingStateWith(now, "COPYRIGHT_CLAIM")

	if _, err := e.ResolveEvent(st, "COPYRIGHT_CLAIM", "remove", now); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(st.Videos) != 0 {
		t.Fatalf("video not removed: %v", st.Videos)
	}
}

func TestControversyApologize(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := pendingStateWith(now, "CONTROVERSIAL_CONTENT")

	if _, err := e.ResolveEvent(st, "CONTROVERSIAL_CONTENT", "apologize", now); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if st.Stats.Subscribers != 950 {
		t.Fatalf("subscribers got %d want 950", st.Stats.Subscribers)
	}
	if len(st.Videos) != 0 {
		t.Fatalf("video not pulled")
	}
}

func TestControversyDefend(t *testing.T) {
	now := time.Now().UTC()

	e := newTestEngine(0.5) // under defendFailChance: backfires
	st := pendingStateWith(now, "CONTROVERSIAL_CONTENT")
	if _, err := e.ResolveEvent(st, "CONTROVERSIAL_CONTENT", "defend", now); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if st.Stats.Subscribers != 900 || st.Stats.ChannelStrikes != 1 {
		t.Fatalf("failed defense: subs=%d strikes=%d", st.Stats.Subscribers, st.Stats.ChannelStrikes)
	}

	e = newTestEngine(0.9) // defense holds
	st = pendingStateWith(now, "CONTROVERSIAL_CONTENT")
	if _, err := e.ResolveEvent(st, "CONTROVERSIAL_CONTENT", "defend", now); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if st.Stats.Subscribers != 1050 || st.Stats.Prestige != defendWinPrestige {
		t.Fatalf("won defense: subs=%d prestige=%d", st.Stats.Subscribers, st.Stats.Prestige)
	}
}

func TestCreatorFiveProtectsSubscribers(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := pendingStateWith(now, "CONTROVERSIAL_CONTENT")
	st.Talents = []string{"CREATOR_5"}

	if _, err := e.ResolveEvent(st, "CONTROVERSIAL_CONTENT", "apologize", now); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if st.Stats.Subscribers != 1000 {
		t.Fatalf("protected subscribers dropped: %d", st.Stats.Subscribers)
	}
	if len(st.Videos) != 0 {
		t.Fatalf("video should still be pulled")
	}
}

func TestMemeEmbrace(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := pendingStateWith(now, "VIRAL_MEME")

	if _, err := e.ResolveEvent(st, "VIRAL_MEME", "embrace", now); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// floor(1000*0.10) + 100 = 200
	if st.Stats.Subscribers != 1200 {
		t.Fatalf("subscribers got %d want 1200", st.Stats.Subscribers)
	}
	if st.NextUploadQualityPenalty != memeQualityPenalty {
		t.Fatalf("penalty got %v want %v", st.NextUploadQualityPenalty, memeQualityPenalty)
	}
	if !st.Videos[0].IsTrending {
		t.Fatalf("meme video should trend")
	}
}

func TestMemeIgnore(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := pendingStateWith(now, "VIRAL_MEME")

	if _, err := e.ResolveEvent(st, "VIRAL_MEME", "ignore", now); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// floor(1000*0.02) + 50 = 70
	if st.Stats.Subscribers != 1070 {
		t.Fatalf("subscribers got %d want 1070", st.Stats.Subscribers)
	}
	if st.NextUploadQualityPenalty != 0 {
		t.Fatalf("ignore should not penalize uploads")
	}
}

func TestNegativePress(t *testing.T) {
	now := time.Now().UTC()

	e := newTestEngine(0.4) // apology lands
	st := pendingStateWith(now, "NEGATIVE_PRESS")
	if _, err := e.ResolveEvent(st, "NEGATIVE_PRESS", "apologize", now); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// -100 video cost, +floor(1000*0.03)=30 subscribers
	if st.Stats.Money != 0 {
		t.Fatalf("money got %v want 0", st.Stats.Money)
	}
	if st.Stats.Subscribers != 1030 {
		t.Fatalf("subscribers got %d want 1030", st.Stats.Subscribers)
	}

	e = newTestEngine(0.9) // apology flops
	st = pendingStateWith(now, "NEGATIVE_PRESS")
	if _, err := e.ResolveEvent(st, "NEGATIVE_PRESS", "apologize", now); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if st.Stats.Subscribers != 950 {
		t.Fatalf("subscribers got %d want 950", st.Stats.Subscribers)
	}

	e = newTestEngine(0.5)
	st = pendingStateWith(now, "NEGATIVE_PRESS")
	if _, err := e.ResolveEvent(st, "NEGATIVE_PRESS", "ignore", now); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if st.Stats.Subscribers != 960 {
		t.Fatalf("subscribers got %d want 960", st.Stats.Subscribers)
	}
}

package game

import (
	"testing"
	"time"
)

func TestRankNomineesTieKeepsInsertionOrder(t *testing.T) {
	ranked := rankNominees([]AwardNominee{
		{Name: "first", Value: 10},
		{Name: "second", Value: 10},
		{Name: "third", Value: 20},
	})
	if ranked[0].Name != "third" || ranked[1].Name != "first" || ranked[2].Name != "second" {
		t.Fatalf("unexpected order: %v", ranked)
	}
}

func TestAwardShowRivalWins(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.Subscribers = 1000
	st.Rivals = []*RivalChannel{{ID: "r1", Name: "MegaPlays", Theme: "Gaming", Subscribers: 80000}}

	e.runAwardShow(st, now)

	if !st.AwardShowOpen {
		t.Fatalf("award show not flagged open")
	}
	if len(st.LatestAwards) != 3 { // no videos, so no video of the year
		t.Fatalf("awards got %d want 3", len(st.LatestAwards))
	}
	creator := st.LatestAwards[0]
	if creator.ID != "creator_of_year" || creator.PlayerWon || creator.Winner.Name != "MegaPlays" {
		t.Fatalf("creator award mismatch: %+v", creator)
	}
	if st.Stats.Prestige != 0 {
		t.Fatalf("losing player earned prestige: %d", st.Stats.Prestige)
	}
	if st.HasAchievement("FIRST_AWARD") {
		t.Fatalf("losing player unlocked FIRST_AWARD")
	}
}

func TestAwardShowPlayerSweep(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Stats.Subscribers = 1_000_000
	st.Rivals = []*RivalChannel{{ID: "r1", Name: "GhostTown", Theme: "Vlogs", Subscribers: 0}}

	notes := e.runAwardShow(st, now)

	// Creator, gaming and vlog categories all resolve in the player's favor:
	// zero-subscriber rivals proxy to zero views, and ties break by insertion.
	if st.Stats.Prestige != 3*PrestigePerAward {
		t.Fatalf("prestige got %d want %d", st.Stats.Prestige, 3*PrestigePerAward)
	}
	for _, r := range st.LatestAwards {
		if !r.PlayerWon {
			t.Fatalf("expected player win in %s: %+v", r.ID, r)
		}
	}
	if !st.HasAchievement("FIRST_AWARD") {
		t.Fatalf("FIRST_AWARD not unlocked")
	}
	if !hasNote(notes, "Creator of the Year") {
		t.Fatalf("expected win note, got %v", notes)
	}
}

func TestVideoOfTheYear(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.Videos = append(st.Videos, &Video{
		ID:                "v1",
		Title:             "Magnum Opus",
		Quality:           1,
		AudienceRetention: 100,
		Views:             1000,
		UploadedAt:        now.Add(-time.Hour),
	})
	// Rival uploads never compete here, no matter how large the channel.
	st.Rivals = []*RivalChannel{{ID: "r1", Name: "MegaPlays", Subscribers: 5000000, LatestVideoTitle: "Clickbait Supreme"}}

	result, ok := e.videoOfTheYear(st, now)
	if !ok {
		t.Fatalf("expected a video of the year result")
	}
	if !result.PlayerWon || result.Winner.Name != "Magnum Opus" {
		t.Fatalf("winner mismatch: %+v", result)
	}
	if len(result.Nominees) > videoOfYearNominees {
		t.Fatalf("nominee list too long: %d", len(result.Nominees))
	}
	for _, n := range result.Nominees {
		if n.Name == "Clickbait Supreme" {
			t.Fatalf("rival upload nominated: %+v", result.Nominees)
		}
	}

	st.Videos = nil
	if _, ok := e.videoOfTheYear(st, now); ok {
		t.Fatalf("no videos should mean no category")
	}
}

func TestTickRunsAwardShowOnCountdown(t *testing.T) {
	e := newTestEngine(0.5)
	now := time.Now().UTC()
	st := NewChannelState(now)
	st.TicksUntilAwards = 1

	notes := e.Tick(st, now)
	if !st.AwardShowOpen {
		t.Fatalf("award show did not open")
	}
	if st.TicksUntilAwards != TicksPerYear {
		t.Fatalf("award countdown not reset: %d", st.TicksUntilAwards)
	}
	if !hasNote(notes, "Creator Awards") {
		t.Fatalf("expected ceremony note, got %v", notes)
	}

	e.AcknowledgeAwards(st)
	if st.AwardShowOpen {
		t.Fatalf("acknowledge did not close the show")
	}
}

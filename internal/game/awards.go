package game

import (
	"math"
	"sort"
	"time"
)

// Annual award show. Each category ranks a nominee list by a category score,
// descending, with insertion order breaking ties. The player earns prestige
// only for categories they win.

const (
	playerAwardName = "You"

	// Rivals don't track real view counts, so category awards compare the
	// player's genuine category views against a subscriber-scaled proxy.
	rivalGamingViewFactor = 50.0
	rivalVlogViewFactor   = 40.0

	videoOfYearNominees = 4
)

func (e *Engine) runAwardShow(st *ChannelState, now time.Time) []Notification {
	results := []AwardResult{
		e.creatorOfTheYear(st),
		e.channelCategoryAward(st, "gaming_channel", "Gaming Channel of the Year", CategoryGaming, rivalGamingViewFactor),
		e.channelCategoryAward(st, "vlog_channel", "Vlog Channel of the Year", CategoryVlog, rivalVlogViewFactor),
	}
	if voy, ok := e.videoOfTheYear(st, now); ok {
		results = append(results, voy)
	}

	notes := []Notification{note(NoteInfo, "The annual Creator Awards are here!")}
	var wins int
	for _, r := range results {
		if r.PlayerWon {
			wins++
			st.Stats.Prestige += PrestigePerAward
			notes = append(notes, note(NoteSuccess, "You won %s! Prestige +%d.", r.Name, PrestigePerAward))
		}
	}
	if wins > 0 {
		notes = append(notes, e.unlockAchievement(st, "FIRST_AWARD")...)
	}

	st.LatestAwards = results
	st.AwardShowOpen = true
	return notes
}

// rankNominees sorts descending by value. sort.SliceStable keeps insertion
// order for equal scores, which is the documented tie-break.
func rankNominees(nominees []AwardNominee) []AwardNominee {
	ranked := make([]AwardNominee, len(nominees))
	copy(ranked, nominees)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	return ranked
}

func (e *Engine) creatorOfTheYear(st *ChannelState) AwardResult {
	nominees := []AwardNominee{{Name: playerAwardName, Value: float64(st.Stats.Subscribers)}}
	for _, r := range st.Rivals {
		nominees = append(nominees, AwardNominee{Name: r.Name, Value: float64(r.Subscribers)})
	}
	ranked := rankNominees(nominees)
	return AwardResult{
		ID:        "creator_of_year",
		Name:      "Creator of the Year",
		Nominees:  ranked,
		Winner:    ranked[0],
		PlayerWon: ranked[0].Name == playerAwardName,
	}
}

// videoOfTheYear ranks the player's own catalog by a virality index (views
// per hour of age, weighted by quality and retention). Rivals compete in the
// channel categories, not here.
func (e *Engine) videoOfTheYear(st *ChannelState, now time.Time) (AwardResult, bool) {
	if len(st.Videos) == 0 {
		return AwardResult{}, false
	}
	nominees := make([]AwardNominee, 0, len(st.Videos))
	for _, v := range st.Videos {
		ageHours := math.Max(1, now.Sub(v.UploadedAt).Hours())
		virality := float64(v.Views) / ageHours * v.Quality * (v.AudienceRetention / 100)
		nominees = append(nominees, AwardNominee{Name: v.Title, Value: virality})
	}
	ranked := rankNominees(nominees)
	if len(ranked) > videoOfYearNominees {
		ranked = ranked[:videoOfYearNominees]
	}
	return AwardResult{
		ID:        "video_of_year",
		Name:      "Video of the Year",
		Nominees:  ranked,
		Winner:    ranked[0],
		PlayerWon: true,
	}, true
}

func (e *Engine) channelCategoryAward(st *ChannelState, id, name string, cat VideoCategory, rivalViewFactor float64) AwardResult {
	var playerViews float64
	for _, v := range st.Videos {
		if v.Category == cat {
			playerViews += float64(v.Views)
		}
	}
	nominees := []AwardNominee{{Name: playerAwardName, Value: playerViews}}
	for _, r := range st.Rivals {
		proxy := math.Floor(float64(r.Subscribers) * rivalViewFactor * categoryTrendFactors[cat] * e.rng.Float64())
		nominees = append(nominees, AwardNominee{Name: r.Name, Value: proxy})
	}
	ranked := rankNominees(nominees)
	return AwardResult{
		ID:        id,
		Name:      name,
		Nominees:  ranked,
		Winner:    ranked[0],
		PlayerWon: ranked[0].Name == playerAwardName,
	}
}

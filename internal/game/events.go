package game

import (
	"math"
	"time"
)

// ResolveEvent applies the player's choice to the pending event. The pending
// slot is cleared no matter what, so a mangled save can't wedge the channel.
// Unrecognized event or choice ids resolve to nothing.
func (e *Engine) ResolveEvent(st *ChannelState, eventID, choiceID string, now time.Time) ([]Notification, error) {
	if st.GameOver {
		return nil, ErrGameOver
	}
	if st.PendingEvent == nil {
		return nil, ErrNoPendingEvent
	}
	if st.PendingEvent.EventID != eventID {
		return nil, ErrNoPendingEvent
	}

	videoID := st.PendingEvent.VideoID
	st.PendingEvent = nil

	b := ComputeBonuses(st.Talents, st.NicheID, st.Stats.Subscribers)

	var notes []Notification
	switch eventID {
	case "SHOUTOUT":
		notes = e.resolveShoutout(st, choiceID, videoID, now, b)
	case "COPYRIGHT_CLAIM":
		notes = e.resolveCopyrightClaim(st, choiceID, videoID, now)
	case "CONTROVERSIAL_CONTENT":
		notes = e.resolveControversy(st, choiceID, videoID, now, b)
	case "VIRAL_MEME":
		notes = e.resolveMeme(st, choiceID, videoID, now, b)
	case "NEGATIVE_PRESS":
		notes = e.resolveNegativePress(st, choiceID, b)
	}

	notes = append(notes, e.refreshDerived(st)...)
	return notes, nil
}

func (e *Engine) resolveShoutout(st *ChannelState, choice, videoID string, now time.Time, b BonusSet) []Notification {
	switch choice {
	case "sub_boost":
		gain := int64(math.Floor(float64(st.Stats.Subscribers)*shoutoutSubBoostPct*b.SubGainMultiplier)) + shoutoutSubBoostBase
		st.Stats.Subscribers += gain
		return []Notification{note(NoteSuccess, "The shoutout brought %d new subscribers!", gain)}
	case "view_boost":
		if v := st.findVideo(videoID); v != nil {
			v.IsTrending = true
			v.TrendingMultiplier = shoutoutViewMult
			v.TrendingUntil = now.Add(shoutoutBoostDuration)
			return []Notification{note(NoteSuccess, "%q is getting steady traffic from the shoutout.", v.Title)}
		}
	}
	return nil
}

func (e *Engine) resolveCopyrightClaim(st *ChannelState, choice, videoID string, now time.Time) []Notification {
	switch choice {
	case "dispute":
		if e.rng.Float64() < disputeWinChance {
			st.Stats.Money += disputeWinPayout
			st.TotalMoneyEarned += disputeWinPayout
			return []Notification{note(NoteSuccess, "You won the dispute and $%.0f in damages.", disputeWinPayout)}
		}
		return e.addStrike(st, now, 1)
	case "remove":
		if st.removeVideo(videoID) {
			return []Notification{note(NoteInfo, "Video removed. The claim is dropped.")}
		}
	}
	return nil
}

func (e *Engine) resolveControversy(st *ChannelState, choice, videoID string, now time.Time, b BonusSet) []Notification {
	switch choice {
	case "apologize":
		if !b.NegativeEventProtection {
			st.Stats.Subscribers = int64(math.Floor(float64(st.Stats.Subscribers) * apologySubRetainFactor))
		}
		st.removeVideo(videoID)
		return []Notification{note(NoteWarning, "You apologized and pulled the video.")}
	case "defend":
		if e.rng.Float64() < defendFailChance {
			var notes []Notification
			if !b.NegativeEventProtection {
				st.Stats.Subscribers = int64(math.Floor(float64(st.Stats.Subscribers) * defendFailSubFactor))
			}
			notes = append(notes, note(NoteError, "The defense backfired."))
			notes = append(notes, e.addStrike(st, now, 1)...)
			return notes
		}
		st.Stats.Subscribers = int64(math.Floor(float64(st.Stats.Subscribers) * defendWinSubFactor))
		st.Stats.Prestige += defendWinPrestige
		return []Notification{note(NoteSuccess, "Your stand won people over. Prestige +%d.", defendWinPrestige)}
	}
	return nil
}

func (e *Engine) resolveMeme(st *ChannelState, choice, videoID string, now time.Time, b BonusSet) []Notification {
	switch choice {
	case "embrace":
		gain := int64(math.Floor(float64(st.Stats.Subscribers)*memeEmbraceSubPct*b.SubGainMultiplier)) + memeEmbraceSubBase
		st.Stats.Subscribers += gain
		if v := st.findVideo(videoID); v != nil {
			v.IsTrending = true
			v.TrendingMultiplier = ViralMultiplier
			v.TrendingUntil = now.Add(RediscoveryDuration)
		}
		st.NextUploadQualityPenalty = memeQualityPenalty
		return []Notification{note(NoteSuccess, "You leaned into the meme. +%d subscribers!", gain)}
	case "ignore":
		gain := int64(math.Floor(float64(st.Stats.Subscribers)*memeIgnoreSubPct*b.SubGainMultiplier)) + memeIgnoreSubBase
		st.Stats.Subscribers += gain
		return []Notification{note(NoteInfo, "You stayed above it. +%d subscribers.", gain)}
	}
	return nil
}

func (e *Engine) resolveNegativePress(st *ChannelState, choice string, b BonusSet) []Notification {
	switch choice {
	case "apologize":
		st.Stats.Money -= apologyVideoCost
		if e.rng.Float64() < apologyWinChance {
			gain := int64(math.Floor(float64(st.Stats.Subscribers) * pressApologyGainPct))
			st.Stats.Subscribers += gain
			return []Notification{note(NoteSuccess, "The apology landed well. +%d subscribers.", gain)}
		}
		if !b.NegativeEventProtection {
			st.Stats.Subscribers -= int64(math.Floor(float64(st.Stats.Subscribers) * pressApologyLossPct))
		}
		return []Notification{note(NoteWarning, "The apology made things worse.")}
	case "ignore":
		if !b.NegativeEventProtection {
			st.Stats.Subscribers -= int64(math.Floor(float64(st.Stats.Subscribers) * pressIgnoreLossPct))
		}
		return []Notification{note(NoteWarning, "The story cost you some subscribers before blowing over.")}
	}
	return nil
}

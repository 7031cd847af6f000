package game

// unlockAchievement grants an achievement at most once per channel lifetime.
func (e *Engine) unlockAchievement(st *ChannelState, id string) []Notification {
	if st.HasAchievement(id) {
		return nil
	}
	cfg := findAchievement(id)
	if cfg == nil {
		return nil
	}
	st.Achievements = append(st.Achievements, id)
	return []Notification{note(NoteAchievement, "Achievement unlocked: %s", cfg.Name)}
}

// checkAchievements sweeps the predicate-based achievements. Action-scoped
// ones (firsts) unlock at their action sites instead.
func (e *Engine) checkAchievements(st *ChannelState) []Notification {
	var notes []Notification

	if st.Monetized {
		notes = append(notes, e.unlockAchievement(st, "MONETIZED")...)
	}
	if st.Stats.Subscribers >= 10000 {
		notes = append(notes, e.unlockAchievement(st, "SUB_10K")...)
	}
	if st.Stats.Subscribers >= 100000 {
		notes = append(notes, e.unlockAchievement(st, "SUB_100K")...)
	}
	if st.TotalMoneyEarned >= 10000 {
		notes = append(notes, e.unlockAchievement(st, "MONEY_10K")...)
	}
	if len(st.Videos) >= 10 {
		notes = append(notes, e.unlockAchievement(st, "VIDEO_PROLIFIC")...)
	}
	if len(st.CompletedSponsorships) >= 3 {
		notes = append(notes, e.unlockAchievement(st, "SPONSOR_PRO")...)
	}

	for _, v := range st.Videos {
		if v.Views >= 1000000 {
			notes = append(notes, e.unlockAchievement(st, "VIRAL_HIT")...)
			break
		}
	}

	maxed := len(upgradeCatalog) > 0
	for _, u := range upgradeCatalog {
		if st.Upgrades[u.ID] < u.MaxLevel {
			maxed = false
			break
		}
	}
	if maxed {
		notes = append(notes, e.unlockAchievement(st, "TECH_GURU")...)
	}

	for _, r := range st.Rivals {
		if r.Subscribers > 0 && st.Stats.Subscribers > r.Subscribers {
			notes = append(notes, e.unlockAchievement(st, "RIVAL_BEATEN")...)
			break
		}
	}

	return notes
}

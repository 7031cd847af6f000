package game

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"
)

type NotificationType string

const (
	NoteInfo        NotificationType = "info"
	NoteSuccess     NotificationType = "success"
	NoteWarning     NotificationType = "warning"
	NoteError       NotificationType = "error"
	NoteAchievement NotificationType = "achievement"
)

// Notification is a player-facing message produced by a tick or an action.
// The engine returns them; delivery is the caller's problem.
type Notification struct {
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
}

func note(t NotificationType, format string, args ...any) Notification {
	return Notification{Message: fmt.Sprintf(format, args...), Type: t}
}

// Engine advances channel saves. It holds no per-channel state of its own,
// so one engine serves every save the worker touches.
type Engine struct {
	rng RNG
	log *slog.Logger
}

func NewEngine(rng RNG, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{rng: &lockedRNG{src: rng}, log: logger}
}

// lockedRNG serializes draws from the underlying source. One engine serves
// every HTTP handler and the worker, and *rand.Rand is not goroutine safe.
type lockedRNG struct {
	mu  sync.Mutex
	src RNG
}

func (l *lockedRNG) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

func (l *lockedRNG) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

// Tick advances one simulated beat. Ordering is load-bearing: suspension and
// bankruptcy gates first, then regen, timers, passive income, rivals,
// content aging, rediscovery, surfacing, and finally the derived sweeps.
func (e *Engine) Tick(st *ChannelState, now time.Time) []Notification {
	if st.GameOver {
		return nil
	}
	if st.Suspended(now) {
		return nil
	}

	var notes []Notification

	if st.Stats.Money < GameOverMoneyThreshold {
		st.GameOver = true
		return []Notification{note(NoteError, "Your channel has gone bankrupt. Game over.")}
	}

	st.Stats.CreativeEnergy = clampEnergy(st.Stats.CreativeEnergy + EnergyRegenRate)

	st.expireTopics(now)

	bonuses := ComputeBonuses(st.Talents, st.NicheID, st.Stats.Subscribers)

	notes = append(notes, e.runBilling(st, bonuses)...)
	notes = append(notes, e.runAwardCountdown(st, now)...)

	if lvl := st.Staff[StaffManager]; lvl > 0 {
		st.Stats.Subscribers += int64(math.Floor(float64(lvl*managerSubsPerLevel) * bonuses.SubGainMultiplier))
	}

	e.tickRivals(st, now)

	var subsDelta int64
	var earned float64
	for _, v := range st.Videos {
		s, m := e.ageVideo(st, v, bonuses, now)
		subsDelta += s
		earned += m
	}

	if !st.AwardShowOpen {
		notes = append(notes, e.tryRediscovery(st, now)...)
	}

	st.Stats.Subscribers += subsDelta
	st.Stats.Money += earned
	st.TotalMoneyEarned += earned

	notes = append(notes, e.surfaceSponsorship(st)...)
	notes = append(notes, e.surfaceEvent(st, now)...)

	notes = append(notes, e.refreshDerived(st)...)
	st.pushHistory(now)

	return notes
}

// ageVideo advances a single video one beat and returns the subscriber and
// money deltas it produced. Views and watch hours only ever grow.
func (e *Engine) ageVideo(st *ChannelState, v *Video, b BonusSet, now time.Time) (int64, float64) {
	if v.IsTrending && now.After(v.TrendingUntil) {
		v.IsTrending = false
		v.TrendingMultiplier = 0
	}

	ageMinutes := now.Sub(v.UploadedAt).Minutes()
	if ageMinutes < 0 {
		ageMinutes = 0
	}

	var decay, base, divisor, avgMinutes float64
	if v.Type == VideoTypeShort {
		half := shortHalfLifeBase + v.Quality*shortHalfLifeQualityGain
		decay = math.Max(shortDecayFloor, 1/(ageMinutes/half+1))
		base = e.rng.Float64()*shortBaseViewsSpan + shortBaseViewsMin
		divisor = ShortSubscriberDivisor
		avgMinutes = shortAvgWatchMinutes
	} else {
		half := longHalfLifeBase + v.Quality*longHalfLifeQualityGain
		decay = math.Max(longDecayFloor, 1/(ageMinutes/half+1))
		base = e.rng.Float64()*longBaseViewsSpan + longBaseViewsMin
		divisor = VideoSubscriberDivisor
		avgMinutes = longAvgWatchMinutes
	}

	views := base * decay * (1 + v.Quality) * (v.AudienceRetention / 50) * b.ViewMultiplier
	views *= b.categoryViewFactor(v.Category)
	if v.IsTrending {
		views *= v.TrendingMultiplier
	}
	// Series momentum kicks in from the second episode on.
	if v.SeriesName != "" && v.SeriesEpisode > 1 {
		ep := v.SeriesEpisode
		if ep > SeriesMomentumCap {
			ep = SeriesMomentumCap
		}
		views *= 1 + SeriesMomentumBonus*float64(ep)
	}
	newViews := int64(math.Floor(views))
	if newViews < 0 {
		newViews = 0
	}

	var subGain int64
	if newViews > 0 {
		p := float64(newViews) / (divisor - v.Quality*50)
		if e.rng.Float64() < p {
			gain := math.Floor(e.rng.Float64() * (1 + v.Quality*2) * b.SubGainMultiplier * (1 + b.categorySubBonus(v.Category)))
			subGain = int64(gain) + 1
		}
	}

	v.Views += newViews
	v.Likes = int64(math.Floor(float64(v.Views) * (0.95 + e.rng.Float64()*0.04)))
	newWatchHours := float64(newViews) * (v.AudienceRetention / 100) * avgMinutes / 60
	v.WatchHours += newWatchHours

	v.ViewHistory = append(v.ViewHistory, newViews)
	if len(v.ViewHistory) > StatsHistoryLimit {
		v.ViewHistory = v.ViewHistory[len(v.ViewHistory)-StatsHistoryLimit:]
	}

	var income float64
	if st.Monetized {
		if v.Type == VideoTypeShort {
			income = float64(newViews) / 1000 * (BaseCPM * ShortsCPMMultiplier)
		} else {
			income = newWatchHours * (BaseCPM / 1000) * LongFormRPMFactor
		}
		income *= b.MonetizationMultiplier
		if v.Category == CategoryTech {
			income *= 1 + b.TechIncomeBonus
		}
	}

	return subGain, income
}

// runBilling counts down the weekly bill and charges base expenses plus
// staff salaries, minus merch income.
func (e *Engine) runBilling(st *ChannelState, b BonusSet) []Notification {
	st.TicksUntilBill--
	if st.TicksUntilBill > 0 {
		return nil
	}
	st.TicksUntilBill = TicksPerWeek

	bill := WeeklyExpensesAmount * b.WeeklyExpenseMultiplier
	for _, sc := range staffCatalog {
		if lvl := st.Staff[sc.ID]; lvl > 0 && lvl <= len(sc.Salaries) {
			bill += sc.Salaries[lvl-1]
		}
	}
	bill -= b.MerchIncomePerWeek
	st.Stats.Money -= bill

	if bill >= 0 {
		return []Notification{note(NoteWarning, "Weekly expenses charged: $%.2f", bill)}
	}
	return []Notification{note(NoteSuccess, "Merch sales covered your expenses and earned $%.2f", -bill)}
}

func (e *Engine) runAwardCountdown(st *ChannelState, now time.Time) []Notification {
	st.TicksUntilAwards--
	if st.TicksUntilAwards > 0 {
		return nil
	}
	st.TicksUntilAwards = TicksPerYear
	return e.runAwardShow(st, now)
}

// tickRivals gives each rival an independent chance to grow and occasionally
// publish a new video themed on a popular category.
func (e *Engine) tickRivals(st *ChannelState, now time.Time) {
	for _, r := range st.Rivals {
		if e.rng.Float64() >= RivalUpdateChance {
			continue
		}
		gain := math.Floor(float64(r.Subscribers) * (0.001 + e.rng.Float64()*0.005))
		r.Subscribers += int64(gain)
		if e.rng.Float64() < 0.1 {
			r.LatestVideoTitle = rivalVideoTitle(e.rng, r.Theme)
			r.UploadedAt = now
		}
	}
}

var rivalTitleStems = []string{
	"I Tried %s for a Week",
	"The Truth About %s",
	"%s Tier List",
	"Why Everyone Is Wrong About %s",
	"My %s Setup Tour",
}

func rivalVideoTitle(rng RNG, theme string) string {
	stem := rivalTitleStems[rng.Intn(len(rivalTitleStems))]
	return fmt.Sprintf(stem, theme)
}

// tryRediscovery makes one small-probability roll per tick; on success a
// random settled, decent video is picked back up by the recommendation
// system. At most one video trends per tick.
func (e *Engine) tryRediscovery(st *ChannelState, now time.Time) []Notification {
	if e.rng.Float64() >= RediscoveryChance {
		return nil
	}
	var eligible []*Video
	for _, v := range st.Videos {
		if v.IsTrending || v.Quality <= rediscoveryQualityFloor {
			continue
		}
		eligible = append(eligible, v)
	}
	if len(eligible) == 0 {
		return nil
	}
	v := eligible[e.rng.Intn(len(eligible))]
	v.IsTrending = true
	v.TrendingMultiplier = RediscoveryMultiplier
	v.TrendingUntil = now.Add(RediscoveryDuration)
	return []Notification{note(NoteSuccess, "The algorithm rediscovered %q!", v.Title)}
}

// surfaceSponsorship offers the first deal the channel qualifies for. Only
// one offer can be pending and completed deals never repeat.
func (e *Engine) surfaceSponsorship(st *ChannelState) []Notification {
	if st.PendingSponsorship != "" {
		return nil
	}
	for _, sc := range sponsorshipCatalog {
		if st.Stats.Subscribers < sc.SubscriberReq || st.hasCompletedSponsorship(sc.ID) {
			continue
		}
		st.PendingSponsorship = sc.ID
		return []Notification{note(NoteInfo, "%s wants to sponsor your channel!", sc.Brand)}
	}
	return nil
}

// surfaceEvent rolls the per-tick event chance, binds a random video and
// substitutes its title into the event description.
func (e *Engine) surfaceEvent(st *ChannelState, now time.Time) []Notification {
	if st.PendingEvent != nil || len(st.Videos) == 0 {
		return nil
	}
	if e.rng.Float64() >= EventChancePerTick {
		return nil
	}
	ev := eventCatalog[e.rng.Intn(len(eventCatalog))]
	v := st.Videos[e.rng.Intn(len(st.Videos))]

	desc := ev.Description
	quoted := fmt.Sprintf("%q", v.Title)
	for _, ref := range []string{"one of your videos", "Your latest video", "Your video", "your video"} {
		desc = strings.ReplaceAll(desc, ref, quoted)
	}

	st.PendingEvent = &PendingEvent{
		EventID:     ev.ID,
		VideoID:     v.ID,
		Description: desc,
		SurfacedAt:  now,
	}
	return []Notification{note(NoteWarning, "%s", ev.Title)}
}

// refreshDerived re-evaluates everything that reacts to stat changes:
// aggregate watch hours, the monetization gate, milestone talent points and
// achievements. Called at the end of every tick and every mutating action.
func (e *Engine) refreshDerived(st *ChannelState) []Notification {
	var notes []Notification

	var hours float64
	for _, v := range st.Videos {
		hours += v.WatchHours
	}
	st.Stats.TotalWatchHours = hours

	if !st.Monetized &&
		st.Stats.Subscribers >= MonetizationSubscriberReq &&
		st.Stats.TotalWatchHours >= MonetizationWatchHourReq {
		st.Monetized = true
		notes = append(notes, note(NoteSuccess, "Your channel is now monetized!"))
	}

	for _, m := range subscriberMilestones {
		if st.Stats.Subscribers >= m && !st.hasMilestone(m) {
			st.AwardedMilestones = append(st.AwardedMilestones, m)
			st.Stats.TalentPoints++
			notes = append(notes, note(NoteSuccess, "Milestone reached: %d subscribers. +1 talent point!", m))
			break
		}
	}

	notes = append(notes, e.checkAchievements(st)...)
	return notes
}

func (st *ChannelState) expireTopics(now time.Time) {
	live := st.TrendingTopics[:0]
	for _, t := range st.TrendingTopics {
		if t.ExpiresAt.After(now) {
			live = append(live, t)
		}
	}
	st.TrendingTopics = live
}

// MergeTrendingTopics replaces the live topic set with a fresh batch. Each
// suggestion gets the standard lifetime from now.
func (st *ChannelState) MergeTrendingTopics(suggestions []TopicSuggestion, now time.Time) {
	topics := make([]TrendingTopic, 0, len(suggestions))
	for _, s := range suggestions {
		topics = append(topics, TrendingTopic{
			Topic:     s.Topic,
			Category:  s.Category,
			ExpiresAt: now.Add(TrendingTopicDuration),
		})
	}
	st.TrendingTopics = topics
	st.LastTrendRefresh = now
}

func (st *ChannelState) pushHistory(now time.Time) {
	st.History = append(st.History, StatsSample{
		At:              now,
		Subscribers:     st.Stats.Subscribers,
		TotalWatchHours: st.Stats.TotalWatchHours,
		Money:           st.Stats.Money,
		CreativeEnergy:  st.Stats.CreativeEnergy,
	})
	if len(st.History) > StatsHistoryLimit {
		st.History = st.History[len(st.History)-StatsHistoryLimit:]
	}
}

// addStrike applies n strikes. At the cap the channel loses a fifth of its
// subscribers and half its money, gets suspended, loses monetization and the
// counter resets.
func (e *Engine) addStrike(st *ChannelState, now time.Time, n int) []Notification {
	st.Stats.ChannelStrikes += n
	if st.Stats.ChannelStrikes < MaxChannelStrikes {
		return []Notification{note(NoteWarning, "Channel strike %d of %d.", st.Stats.ChannelStrikes, MaxChannelStrikes)}
	}

	st.Stats.Subscribers = int64(math.Floor(float64(st.Stats.Subscribers) * strikeSubPenaltyFactor))
	st.Stats.Money = math.Max(0, st.Stats.Money*strikeMoneyPenaltyFactor)
	st.Stats.SuspendedUntil = now.Add(SuspensionDuration)
	st.Stats.ChannelStrikes = 0
	st.Monetized = false

	return []Notification{note(NoteError, "Three strikes. Your channel is suspended and demonetized.")}
}

// View builds the dashboard read model.
func (st *ChannelState) View(now time.Time) ChannelView {
	return ChannelView{
		Stats:            st.Stats,
		Monetized:        st.Monetized,
		GameOver:         st.GameOver,
		Suspended:        st.Suspended(now),
		VideoCount:       len(st.Videos),
		ViralBoosts:      st.ViralBoosts,
		NicheID:          st.NicheID,
		TicksUntilBill:   st.TicksUntilBill,
		TicksUntilAwards: st.TicksUntilAwards,
		TrendingTopics:   st.TrendingTopics,
		PendingEvent:     st.PendingEvent,
		PendingSponsor:   st.PendingSponsorship,
		History:          st.History,
	}
}

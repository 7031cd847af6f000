package game

import (
	"encoding/json"
	"fmt"
)

// EncodeState serializes a save blob at the current version.
func EncodeState(st *ChannelState) ([]byte, error) {
	st.Version = SaveVersion
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return raw, nil
}

// DecodeState parses a save blob of the current or any older version and
// upgrades it in place. Missing fields get safe defaults so saves written
// before a feature existed keep working.
func DecodeState(raw []byte) (*ChannelState, error) {
	var st ChannelState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	normalizeState(&st)
	return &st, nil
}

func normalizeState(st *ChannelState) {
	if st.Videos == nil {
		st.Videos = []*Video{}
	}
	if st.Posts == nil {
		st.Posts = []CommunityPost{}
	}
	if st.Upgrades == nil {
		st.Upgrades = map[string]int{}
	}
	if st.Staff == nil {
		st.Staff = map[string]int{}
	}
	if st.Talents == nil {
		st.Talents = []string{}
	}
	if st.AwardedMilestones == nil {
		st.AwardedMilestones = []int64{}
	}
	if st.Achievements == nil {
		st.Achievements = []string{}
	}
	if st.CompletedSponsorships == nil {
		st.CompletedSponsorships = []string{}
	}
	if st.TrendingTopics == nil {
		st.TrendingTopics = []TrendingTopic{}
	}
	if st.Rivals == nil {
		st.Rivals = []*RivalChannel{}
	}
	if st.History == nil {
		st.History = []StatsSample{}
	}

	// Pre-versioned saves could mark a video trending without recording the
	// multiplier; a zero multiplier would wipe its views.
	for _, v := range st.Videos {
		if v.IsTrending && v.TrendingMultiplier <= 0 {
			v.TrendingMultiplier = TrendingMultiplier
		}
	}

	// Pre-versioned saves carried no countdowns; zero means "missing", not
	// "due this tick".
	if st.TicksUntilBill <= 0 {
		st.TicksUntilBill = TicksPerWeek
	}
	if st.TicksUntilAwards <= 0 {
		st.TicksUntilAwards = TicksPerYear
	}

	st.Stats.CreativeEnergy = clampEnergy(st.Stats.CreativeEnergy)
	if st.Stats.Subscribers < 0 {
		st.Stats.Subscribers = 0
	}

	st.Version = SaveVersion
}

package studio

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tubesim/internal/game"
)

// Offline is a word-list backed ContentStudio. Everything is generated
// locally and instantly; it exists so a deployment without an external
// content provider still has comments, topics and rivals.
type Offline struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ game.ContentStudio = (*Offline)(nil)

func NewOffline(seed int64) *Offline {
	return &Offline{rng: rand.New(rand.NewSource(seed))}
}

func (o *Offline) float() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rng.Float64()
}

func (o *Offline) pick(list []string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return list[o.rng.Intn(len(list))]
}

var commentUsers = []string{
	"pixel_pat", "notify_squad", "lurker2001", "firstcomment",
	"grandma_gamer", "chai_break", "sub4sub_no", "midnight_viewer",
	"keyboard_cat", "casual_carl",
}

var commentTemplates = []string{
	"This is exactly what I needed today",
	"Who else is watching this at 3am?",
	"The editing keeps getting better",
	"I've been subscribed since 100 subs!",
	"Underrated channel honestly",
	"Wait, that part at the start was wild",
	"Algorithm finally brought me somewhere good",
	"Please make a part 2",
	"My whole family watches %s now",
	"Can't believe this is free content",
}

func (o *Offline) Comments(_ context.Context, v game.Video) ([]game.Comment, error) {
	n := 2 + int(o.float()*3)
	out := make([]game.Comment, 0, n)
	for i := 0; i < n; i++ {
		text := o.pick(commentTemplates)
		if strings.Contains(text, "%s") {
			text = fmt.Sprintf(text, v.Title)
		}
		out = append(out, game.Comment{
			ID:       uuid.NewString(),
			Username: o.pick(commentUsers),
			Text:     text,
		})
	}
	return out, nil
}

var ideaStems = map[game.VideoCategory][]string{
	game.CategoryGaming:   {"Beating %s Without Taking Damage", "100 Days in %s", "Ranking Every %s Boss"},
	game.CategoryVlog:     {"A Day in My Life: %s Edition", "I Moved! %s Apartment Tour", "Trying %s for the First Time"},
	game.CategoryTutorial: {"%s Explained in 10 Minutes", "The %s Mistake Everyone Makes", "%s From Zero to Hero"},
	game.CategoryMusic:    {"I Made a Song Using Only %s", "%s But It's Lofi", "Reacting to %s Covers"},
	game.CategoryComedy:   {"Types of People at %s", "If %s Was Honest", "POV: %s Goes Wrong"},
	game.CategoryTech:     {"%s Review: Worth It?", "I Used %s for 30 Days", "%s vs the Competition"},
}

var ideaSubjects = []string{
	"Minecraft", "the Gym", "Sourdough", "Mechanical Keyboards", "Budget Travel",
	"Synthwave", "Speedrunning", "Meal Prep", "Home Studios", "Retro Consoles",
}

func (o *Offline) VideoIdeas(_ context.Context, category game.VideoCategory) ([]game.VideoIdea, error) {
	stems, ok := ideaStems[category]
	if !ok {
		stems = ideaStems[game.CategoryVlog]
	}
	out := make([]game.VideoIdea, 0, len(stems))
	for _, stem := range stems {
		subject := o.pick(ideaSubjects)
		out = append(out, game.VideoIdea{
			Title:       fmt.Sprintf(stem, subject),
			Description: fmt.Sprintf("A %s video about %s.", strings.ToLower(string(category)), subject),
		})
	}
	return out, nil
}

var collabNames = []string{
	"StreamQueenSasha", "TechTonic", "DailyDoseOfDev", "CozyCraftCorner",
	"LoudLuke", "QuietQuinn", "FrameByFrame", "TheMorningGrind",
}

var collabThemes = []string{"Gaming", "Tech", "Vlogging", "Comedy", "Music", "Tutorials"}

// Collaborators returns a roster sized around the channel: partners range
// from half to five times the requesting channel's audience.
func (o *Offline) Collaborators(_ context.Context, subscribers int64) ([]game.Collaborator, error) {
	if subscribers < 100 {
		subscribers = 100
	}
	out := make([]game.Collaborator, 0, 4)
	for i := 0; i < 4; i++ {
		scale := 0.5 + o.float()*4.5
		out = append(out, game.Collaborator{
			Name:        o.pick(collabNames),
			Theme:       o.pick(collabThemes),
			Subscribers: int64(float64(subscribers) * scale),
		})
	}
	return out, nil
}

var topicPool = []game.TopicSuggestion{
	{Topic: "Speedrun", Category: game.CategoryGaming},
	{Topic: "Indie Horror", Category: game.CategoryGaming},
	{Topic: "Morning Routine", Category: game.CategoryVlog},
	{Topic: "Van Life", Category: game.CategoryVlog},
	{Topic: "Excel Tricks", Category: game.CategoryTutorial},
	{Topic: "Home Server", Category: game.CategoryTutorial},
	{Topic: "Lofi Remix", Category: game.CategoryMusic},
	{Topic: "Vocal Covers", Category: game.CategoryMusic},
	{Topic: "Skit Compilation", Category: game.CategoryComedy},
	{Topic: "Fake Ads", Category: game.CategoryComedy},
	{Topic: "Budget Phone", Category: game.CategoryTech},
	{Topic: "Keyboard Build", Category: game.CategoryTech},
}

func (o *Offline) TrendingTopics(_ context.Context) ([]game.TopicSuggestion, error) {
	o.mu.Lock()
	idx := o.rng.Perm(len(topicPool))
	o.mu.Unlock()

	out := make([]game.TopicSuggestion, 0, 3)
	for _, i := range idx[:3] {
		out = append(out, topicPool[i])
	}
	return out, nil
}

var rivalNames = []string{
	"PixelPete", "VloggerVicky", "TechTitan", "GamerGwen",
	"ComedyCentralYT", "MusicMania", "TutorialTom", "StreamSupreme",
}

func (o *Offline) RivalPersonas(_ context.Context, n int) ([]game.RivalPersona, error) {
	o.mu.Lock()
	idx := o.rng.Perm(len(rivalNames))
	o.mu.Unlock()
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]game.RivalPersona, 0, n)
	for _, i := range idx[:n] {
		out = append(out, game.RivalPersona{
			Name:        rivalNames[i],
			Theme:       o.pick(collabThemes),
			Subscribers: int64(500 + o.float()*9500),
		})
	}
	return out, nil
}

var tips = []string{
	"Front-load the hook: the first 15 seconds decide retention.",
	"A custom thumbnail with a face outperforms screenshots.",
	"End screens pointing at a series keep sessions going.",
	"Post when your audience is awake, not when you finish editing.",
	"Chapters help tutorials get recommended from search.",
}

func (o *Offline) VideoTip(_ context.Context, _ game.Video) (string, error) {
	return o.pick(tips), nil
}

// BannerArt renders a trivial SVG placeholder for the prompt.
func (o *Offline) BannerArt(_ context.Context, prompt string) ([]byte, error) {
	safe := strings.ReplaceAll(prompt, "<", "")
	safe = strings.ReplaceAll(safe, ">", "")
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="1024" height="256"><rect width="100%%" height="100%%" fill="#1f1f2e"/><text x="50%%" y="50%%" fill="#fafafa" font-size="32" text-anchor="middle" dominant-baseline="middle">%s</text></svg>`,
		safe)
	return []byte(svg), nil
}

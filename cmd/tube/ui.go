package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"tubesim/internal/game"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

type notificationsPayload struct {
	Notifications []game.Notification `json:"notifications"`
}

type videosPayload struct {
	Videos []game.Video `json:"videos"`
}

type postsPayload struct {
	Posts []game.CommunityPost `json:"posts"`
}

type upgradesPayload struct {
	Catalog []game.UpgradeConfig `json:"catalog"`
	Levels  map[string]int       `json:"levels"`
}

type staffPayload struct {
	Catalog []game.StaffConfig `json:"catalog"`
	Levels  map[string]int     `json:"levels"`
}

type talentsPayload struct {
	Catalog  []game.TalentConfig `json:"catalog"`
	Unlocked []string            `json:"unlocked"`
	Points   int                 `json:"points"`
}

type nichesPayload struct {
	Catalog []game.NicheConfig `json:"catalog"`
	Chosen  string             `json:"chosen"`
}

type collaboratorsPayload struct {
	Collaborators []game.Collaborator `json:"collaborators"`
}

type rivalsPayload struct {
	Rivals []game.RivalChannel `json:"rivals"`
}

type topicsPayload struct {
	Topics []game.TrendingTopic `json:"topics"`
}

type ideasPayload struct {
	Ideas []game.VideoIdea `json:"ideas"`
}

type awardsPayload struct {
	Awards []game.AwardResult `json:"awards"`
	Open   bool               `json:"open"`
}

type achievementsPayload struct {
	Unlocked []string                 `json:"unlocked"`
	Catalog  []game.AchievementConfig `json:"catalog"`
}

type leaderboardPayload struct {
	Rows []game.LeaderboardRow `json:"rows"`
}

type syncResultsPayload struct {
	Results []syncResult `json:"results"`
}

type syncResult struct {
	Action  string `json:"action"`
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped"`
	Error   string `json:"error"`
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptFloat(label string, min float64) (float64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			printWarn("Enter a valid number.")
			continue
		}
		if v <= min {
			printWarn(fmt.Sprintf("Value must be > %.2f", min))
			continue
		}
		return v, nil
	}
}

func promptInt64(label string, min int64) (int64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

func renderDashboard(raw map[string]any) error {
	v, err := decodeInto[game.ChannelView](raw)
	if err != nil {
		return err
	}

	accent.Println("\n== CHANNEL DASHBOARD ==")
	fmt.Printf("Subscribers:      %s\n", comma(v.Stats.Subscribers))
	fmt.Printf("Watch Hours:      %.1f\n", v.Stats.TotalWatchHours)
	fmt.Printf("Money:            %s\n", colorizeMoney(v.Stats.Money))
	fmt.Printf("Creative Energy:  %.0f/%d\n", v.Stats.CreativeEnergy, int(game.MaxCreativeEnergy))
	fmt.Printf("Talent Points:    %d\n", v.Stats.TalentPoints)
	fmt.Printf("Prestige:         %d\n", v.Stats.Prestige)
	fmt.Printf("Videos:           %d\n", v.VideoCount)
	fmt.Printf("Viral Boosts:     %d\n", v.ViralBoosts)
	fmt.Printf("Monetized:        %t\n", v.Monetized)
	if v.NicheID != "" {
		fmt.Printf("Niche:            %s\n", v.NicheID)
	}
	fmt.Printf("Next Bill In:     %d ticks\n", v.TicksUntilBill)
	fmt.Printf("Awards In:        %d ticks\n", v.TicksUntilAwards)

	if v.Stats.ChannelStrikes > 0 {
		printWarn(fmt.Sprintf("Channel strikes: %d/%d", v.Stats.ChannelStrikes, game.MaxChannelStrikes))
	}
	if v.Suspended {
		danger.Printf("SUSPENDED until %s\n", v.Stats.SuspendedUntil.Local().Format("15:04:05"))
	}
	if v.GameOver {
		danger.Println("GAME OVER. Run `tube reset` to start again.")
	}

	if len(v.TrendingTopics) > 0 {
		fmt.Println()
		accent.Println("Trending Now")
		for _, t := range v.TrendingTopics {
			fmt.Printf("  [%s] %s\n", t.Category, t.Topic)
		}
	}
	if v.PendingSponsor != "" {
		fmt.Println()
		warn.Println("Sponsorship offer waiting. Run `tube sponsor`.")
	}
	if v.PendingEvent != nil {
		fmt.Println()
		warn.Printf("Event waiting: %s\n", v.PendingEvent.Description)
		warn.Println("Run `tube event` to respond.")
	}
	fmt.Println()
	return nil
}

func renderUploadResult(raw map[string]any) error {
	out, err := decodeInto[game.UploadResult](raw)
	if err != nil {
		return err
	}
	if out.Video != nil {
		accent.Printf("\n== UPLOADED: %s ==\n", out.Video.Title)
		fmt.Printf("ID:        %s\n", out.Video.ID)
		fmt.Printf("Type:      %s\n", out.Video.Type)
		fmt.Printf("Category:  %s\n", out.Video.Category)
		fmt.Printf("Quality:   %.2f\n", out.Video.Quality)
		fmt.Printf("Retention: %.1f%%\n", out.Video.AudienceRetention)
		if out.Video.SeriesName != "" {
			fmt.Printf("Series:    %s (episode %d)\n", out.Video.SeriesName, out.Video.SeriesEpisode)
		}
		if out.Video.IsTrending {
			success.Println("TRENDING!")
		}
	}
	printNotes(out.Notes)
	fmt.Println()
	return nil
}

func renderNotifications(raw map[string]any) error {
	out, err := decodeInto[notificationsPayload](raw)
	if err != nil {
		return err
	}
	if len(out.Notifications) == 0 {
		printInfo("Done.")
		return nil
	}
	printNotes(out.Notifications)
	return nil
}

func printNotes(notes []game.Notification) {
	for _, n := range notes {
		switch n.Type {
		case game.NoteSuccess, game.NoteAchievement:
			success.Println(n.Message)
		case game.NoteWarning:
			warn.Println(n.Message)
		case game.NoteError:
			danger.Println(n.Message)
		default:
			neutral.Println(n.Message)
		}
	}
}

func renderVideos(raw map[string]any) error {
	out, err := decodeInto[videosPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== VIDEOS ==")
	if len(out.Videos) == 0 {
		printInfo("No videos uploaded yet.")
		return nil
	}
	fmt.Printf("%-10s %-32s %-12s %-6s %10s %10s %7s %6s\n", "ID", "TITLE", "CATEGORY", "TYPE", "VIEWS", "LIKES", "QUAL", "TREND")
	for _, v := range out.Videos {
		trending := ""
		if v.IsTrending {
			trending = "yes"
		}
		fmt.Printf("%-10s %-32s %-12s %-6s %10s %10s %7.2f %6s\n",
			truncate(v.ID, 10),
			truncate(v.Title, 32),
			truncate(string(v.Category), 12),
			v.Type,
			comma(v.Views),
			comma(v.Likes),
			v.Quality,
			trending,
		)
	}
	fmt.Println()
	return nil
}

func renderPosts(raw map[string]any) error {
	out, err := decodeInto[postsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== COMMUNITY POSTS ==")
	if len(out.Posts) == 0 {
		printInfo("No posts yet.")
		return nil
	}
	for _, p := range out.Posts {
		fmt.Printf("[%s] %s (%s likes)\n",
			p.PostedAt.Local().Format("2006-01-02 15:04"),
			truncate(p.Text, 60),
			comma(p.Likes),
		)
	}
	fmt.Println()
	return nil
}

func renderUpgrades(raw map[string]any) error {
	out, err := decodeInto[upgradesPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== STUDIO EQUIPMENT ==")
	fmt.Printf("%-18s %-20s %7s %12s\n", "ID", "NAME", "LEVEL", "NEXT COST")
	for _, u := range out.Catalog {
		level := out.Levels[u.ID]
		next := "maxed"
		if level < u.MaxLevel {
			next = formatMoney(u.Costs[level])
		}
		fmt.Printf("%-18s %-20s %3d/%-3d %12s\n", u.ID, u.Name, level, u.MaxLevel, next)
	}
	fmt.Println()
	return nil
}

func renderStaff(raw map[string]any) error {
	out, err := decodeInto[staffPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== STAFF ==")
	fmt.Printf("%-10s %-18s %7s %12s %12s\n", "ID", "ROLE", "LEVEL", "NEXT COST", "SALARY/WK")
	for _, s := range out.Catalog {
		level := out.Levels[s.ID]
		next := "maxed"
		salary := "-"
		if level < s.MaxLevel {
			next = formatMoney(s.Costs[level])
		}
		if level > 0 {
			salary = formatMoney(s.Salaries[level-1])
		}
		fmt.Printf("%-10s %-18s %3d/%-3d %12s %12s\n", s.ID, s.Name, level, s.MaxLevel, next, salary)
	}
	fmt.Println()
	return nil
}

func renderTalents(raw map[string]any) error {
	out, err := decodeInto[talentsPayload](raw)
	if err != nil {
		return err
	}
	unlocked := make(map[string]struct{}, len(out.Unlocked))
	for _, id := range out.Unlocked {
		unlocked[id] = struct{}{}
	}
	accent.Printf("\n== TALENT TREE (points: %d) ==\n", out.Points)
	branch := ""
	for _, t := range out.Catalog {
		if t.Branch != branch {
			branch = t.Branch
			fmt.Println()
			neutral.Println(strings.ToUpper(branch))
		}
		marker := "[ ]"
		if _, ok := unlocked[t.ID]; ok {
			marker = "[x]"
		}
		fmt.Printf("%s %-16s %-22s %s\n", marker, t.ID, t.Name, truncate(t.Description, 56))
	}
	fmt.Println()
	return nil
}

func renderNiches(raw map[string]any) error {
	out, err := decodeInto[nichesPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== NICHES ==")
	if out.Chosen != "" {
		printInfo("Current niche: " + out.Chosen)
	}
	fmt.Printf("%-18s %-20s %-12s %s\n", "ID", "NAME", "CATEGORY", "EFFECT")
	for _, n := range out.Catalog {
		fmt.Printf("%-18s %-20s %-12s %s\n", n.ID, n.Name, n.Category, truncate(n.Description, 48))
	}
	fmt.Println()
	return nil
}

func renderCollabOptions(raw map[string]any) ([]game.Collaborator, error) {
	out, err := decodeInto[collaboratorsPayload](raw)
	if err != nil {
		return nil, err
	}
	accent.Println("\n== COLLAB PARTNERS ==")
	if len(out.Collaborators) == 0 {
		printInfo("No partners available right now.")
		return nil, nil
	}
	fmt.Printf("%-4s %-22s %-24s %12s\n", "#", "NAME", "THEME", "SUBSCRIBERS")
	for i, c := range out.Collaborators {
		fmt.Printf("%-4d %-22s %-24s %12s\n", i+1, truncate(c.Name, 22), truncate(c.Theme, 24), comma(c.Subscribers))
	}
	fmt.Println()
	return out.Collaborators, nil
}

func renderRivals(raw map[string]any) error {
	out, err := decodeInto[rivalsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== RIVAL CHANNELS ==")
	if len(out.Rivals) == 0 {
		printInfo("No rivals tracked yet.")
		return nil
	}
	fmt.Printf("%-22s %-20s %12s %-36s\n", "NAME", "THEME", "SUBSCRIBERS", "LATEST UPLOAD")
	for _, r := range out.Rivals {
		fmt.Printf("%-22s %-20s %12s %-36s\n",
			truncate(r.Name, 22),
			truncate(r.Theme, 20),
			comma(r.Subscribers),
			truncate(r.LatestVideoTitle, 36),
		)
	}
	fmt.Println()
	return nil
}

func renderTopics(raw map[string]any) error {
	out, err := decodeInto[topicsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== TRENDING TOPICS ==")
	if len(out.Topics) == 0 {
		printInfo("Nothing is trending right now.")
		return nil
	}
	fmt.Printf("%-36s %-12s %-20s\n", "TOPIC", "CATEGORY", "EXPIRES")
	for _, t := range out.Topics {
		fmt.Printf("%-36s %-12s %-20s\n",
			truncate(t.Topic, 36),
			t.Category,
			t.ExpiresAt.Local().Format("15:04:05"),
		)
	}
	fmt.Println()
	return nil
}

func renderIdeas(raw map[string]any, category string) error {
	out, err := decodeInto[ideasPayload](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== VIDEO IDEAS (%s) ==\n", category)
	if len(out.Ideas) == 0 {
		printInfo("The studio has no ideas right now. Worrying.")
		return nil
	}
	for i, idea := range out.Ideas {
		fmt.Printf("%d. %s\n", i+1, idea.Title)
		if idea.Description != "" {
			neutral.Println("   " + truncate(idea.Description, 72))
		}
	}
	fmt.Println()
	return nil
}

func renderAwards(raw map[string]any) error {
	out, err := decodeInto[awardsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== CHANNEL AWARDS ==")
	if len(out.Awards) == 0 {
		printInfo("No award show results yet.")
		return nil
	}
	for _, a := range out.Awards {
		fmt.Println()
		neutral.Println(a.Name)
		for _, n := range a.Nominees {
			fmt.Printf("  %-28s %14.1f\n", truncate(n.Name, 28), n.Value)
		}
		if a.PlayerWon {
			success.Printf("  Winner: %s (that's you!)\n", a.Winner.Name)
		} else {
			fmt.Printf("  Winner: %s\n", a.Winner.Name)
		}
	}
	if out.Open {
		fmt.Println()
		printInfo("Run `tube awards ack` to dismiss the show.")
	}
	fmt.Println()
	return nil
}

func renderAchievements(raw map[string]any) error {
	out, err := decodeInto[achievementsPayload](raw)
	if err != nil {
		return err
	}
	unlocked := make(map[string]struct{}, len(out.Unlocked))
	for _, id := range out.Unlocked {
		unlocked[id] = struct{}{}
	}
	accent.Printf("\n== ACHIEVEMENTS (%d/%d) ==\n", len(out.Unlocked), len(out.Catalog))
	for _, a := range out.Catalog {
		marker := "[ ]"
		if _, ok := unlocked[a.ID]; ok {
			marker = "[x]"
		}
		fmt.Printf("%s %-22s %s\n", marker, a.Name, truncate(a.Description, 52))
	}
	fmt.Println()
	return nil
}

func renderLeaderboard(raw map[string]any) error {
	out, err := decodeInto[leaderboardPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== GLOBAL LEADERBOARD ==")
	if len(out.Rows) == 0 {
		printInfo("No channels on the board yet.")
		return nil
	}
	fmt.Printf("%-6s %-24s %14s %10s\n", "RANK", "CHANNEL", "SUBSCRIBERS", "PRESTIGE")
	for _, row := range out.Rows {
		fmt.Printf("%-6d %-24s %14s %10d\n",
			row.Rank,
			truncate(row.Username, 24),
			comma(row.Subscribers),
			row.Prestige,
		)
	}
	fmt.Println()
	return nil
}

func renderSyncResults(raw map[string]any) error {
	out, err := decodeInto[syncResultsPayload](raw)
	if err != nil {
		return err
	}
	replayed := 0
	for _, r := range out.Results {
		switch {
		case r.OK && r.Skipped:
			printInfo(fmt.Sprintf("%s: already applied", r.Action))
		case r.OK:
			replayed++
			printSuccess(fmt.Sprintf("%s: applied", r.Action))
		default:
			danger.Printf("%s: %s\n", r.Action, r.Error)
		}
	}
	printSuccess(fmt.Sprintf("Sync complete: replayed=%d total=%d", replayed, len(out.Results)))
	return nil
}

// renderPendingEvent prints the pending event with its choices and returns
// the event id, or "" when nothing is pending.
func renderPendingEvent(raw map[string]any) (string, error) {
	v, err := decodeInto[game.ChannelView](raw)
	if err != nil {
		return "", err
	}
	if v.PendingEvent == nil {
		return "", nil
	}
	accent.Println("\n== CHANNEL EVENT ==")
	fmt.Println(v.PendingEvent.Description)
	if ev := game.FindEvent(v.PendingEvent.EventID); ev != nil {
		fmt.Println()
		for _, c := range ev.Choices {
			fmt.Printf("  %-12s %s\n", c.ID, c.Text)
		}
	}
	fmt.Println()
	return v.PendingEvent.EventID, nil
}

func decodeInto[T any](in any) (T, error) {
	var out T
	raw, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func colorizeMoney(v float64) string {
	text := formatMoney(v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func formatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := int64(v)
	frac := int64((v-float64(whole))*100 + 0.5)
	if frac >= 100 {
		whole++
		frac -= 100
	}
	return fmt.Sprintf("%s$%s.%02d", sign, comma(whole), frac)
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

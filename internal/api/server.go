package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tubesim/internal/auth"
	"tubesim/internal/cache"
	"tubesim/internal/config"
	"tubesim/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "user"

type UserContext struct {
	UserID   string
	Username string
	Token    string
}

type Server struct {
	cfg    config.APIConfig
	log    *slog.Logger
	auth   *auth.Service
	game   *game.Service
	studio game.ContentStudio
	cache  *cache.Cache
	mux    *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, authSvc *auth.Service, gameSvc *game.Service, studio game.ContentStudio, c *cache.Cache) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		log:    logger,
		auth:   authSvc,
		game:   gameSvc,
		studio: studio,
		cache:  c,
		mux:    chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/channel", s.handleChannel)
			r.Get("/channel/videos", s.handleVideos)
			r.Get("/channel/posts", s.handlePosts)
			r.Get("/channel/achievements", s.handleAchievements)
			r.Get("/channel/awards", s.handleAwards)
			r.Post("/channel/awards/ack", s.handleAckAwards)
			r.Post("/channel/reset", s.handleReset)

			r.Post("/videos", s.handleUpload)
			r.Post("/videos/{id}/boost", s.handleBoostVideo)

			r.Get("/upgrades", s.handleUpgrades)
			r.Post("/upgrades/{id}/buy", s.handleBuyUpgrade)
			r.Get("/staff", s.handleStaff)
			r.Post("/staff/{id}/hire", s.handleHireStaff)
			r.Get("/talents", s.handleTalents)
			r.Post("/talents/{id}/unlock", s.handleUnlockTalent)
			r.Get("/niches", s.handleNiches)
			r.Post("/niche", s.handleChooseNiche)

			r.Post("/posts", s.handleCommunityPost)
			r.Get("/collab/options", s.handleCollabOptions)
			r.Post("/collab", s.handleCollab)
			r.Post("/stream/start", s.handleStartStream)
			r.Post("/stream/finish", s.handleFinishStream)
			r.Post("/sponsorship", s.handleSponsorship)
			r.Post("/events/resolve", s.handleResolveEvent)

			r.Get("/rivals", s.handleRivals)
			r.Get("/topics", s.handleTopics)
			r.Get("/ideas", s.handleIdeas)
			r.Get("/banner", s.handleBanner)
			r.Post("/banner", s.handleSetBanner)

			r.Get("/leaderboard", s.handleLeaderboard)
			r.Post("/sync/replay", s.handleSyncReplay)
		})
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := s.auth.VerifyAccessToken(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, fmt.Sprintf("invalid token: %v", err))
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, UserContext{
			UserID:   user.ID,
			Username: user.Username,
			Token:    token,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) (UserContext, error) {
	v := ctx.Value(userContextKey)
	user, ok := v.(UserContext)
	if !ok || user.UserID == "" {
		return UserContext{}, errors.New("missing auth context")
	}
	return user, nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := s.auth.SignUp(r.Context(), in.Username, in.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.game.EnsureSave(r.Context(), session.User.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := s.auth.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err := s.game.EnsureSave(r.Context(), session.User.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleChannel(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.game.State(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st.View(time.Now().UTC()))
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.game.State(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"videos": st.Videos})
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.game.State(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": st.Posts})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.game.State(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"unlocked": st.Achievements,
		"catalog":  game.AchievementCatalog(),
	})
}

func (s *Server) handleAwards(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.game.State(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"awards": st.LatestAwards,
		"open":   st.AwardShowOpen,
	})
}

func (s *Server) handleAckAwards(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err := s.game.AcknowledgeAwards(r.Context(), user.UserID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err := s.game.ResetSave(r.Context(), user.UserID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Type        string `json:"type"`
		SeriesName  string `json:"series_name"`
		ViralBoost  bool   `json:"viral_boost"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vType := game.VideoTypeLong
	if in.Type == string(game.VideoTypeShort) {
		vType = game.VideoTypeShort
	}
	out, err := s.game.UploadVideo(r.Context(), user.UserID, idempotencyKey(r), game.UploadInput{
		Title:       in.Title,
		Description: in.Description,
		Category:    game.VideoCategory(in.Category),
		Type:        vType,
		SeriesName:  in.SeriesName,
		ViralBoost:  in.ViralBoost,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleBoostVideo(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	notes, err := s.game.BoostVideo(r.Context(), user.UserID, idempotencyKey(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes})
}

func (s *Server) handleUpgrades(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.game.State(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"catalog": game.UpgradeCatalog(),
		"levels":  st.Upgrades,
	})
}

func (s *Server) handleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	notes, err := s.game.BuyUpgrade(r.Context(), user.UserID, idempotencyKey(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes})
}

func (s *Server) handleStaff(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.game.State(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"catalog": game.StaffCatalog(),
		"levels":  st.Staff,
	})
}

func (s *Server) handleHireStaff(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	notes, err := s.game.HireStaff(r.Context(), user.UserID, idempotencyKey(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes})
}

func (s *Server) handleTalents(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.game.State(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"catalog":  game.TalentCatalog(),
		"unlocked": st.Talents,
		"points":   st.Stats.TalentPoints,
	})
}

func (s *Server) handleUnlockTalent(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	notes, err := s.game.UnlockTalent(r.Context(), user.UserID, idempotencyKey(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes})
}

func (s *Server) handleNiches(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.game.State(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"catalog": game.NicheCatalog(),
		"chosen":  st.NicheID,
	})
}

func (s *Server) handleChooseNiche(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		NicheID string `json:"niche_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	notes, err := s.game.ChooseNiche(r.Context(), user.UserID, idempotencyKey(r), in.NicheID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes})
}

func (s *Server) handleCommunityPost(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	notes, err := s.game.CreateCommunityPost(r.Context(), user.UserID, idempotencyKey(r), in.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"notifications": notes})
}

func (s *Server) handleCollabOptions(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.game.State(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	options, err := s.studio.Collaborators(r.Context(), st.Stats.Subscribers)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"collaborators": options})
}

func (s *Server) handleCollab(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Name        string `json:"name"`
		Theme       string `json:"theme"`
		Subscribers int64  `json:"subscribers"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	notes, err := s.game.Collab(r.Context(), user.UserID, idempotencyKey(r), game.Collaborator{
		Name:        in.Name,
		Theme:       in.Theme,
		Subscribers: in.Subscribers,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes})
}

func (s *Server) handleStartStream(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	notes, err := s.game.StartStream(r.Context(), user.UserID, idempotencyKey(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes})
}

func (s *Server) handleFinishStream(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Donations      float64 `json:"donations"`
		NewSubscribers int64   `json:"new_subscribers"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	notes, err := s.game.FinishStream(r.Context(), user.UserID, idempotencyKey(r), in.Donations, in.NewSubscribers)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes})
}

func (s *Server) handleSponsorship(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Accept bool `json:"accept"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	notes, err := s.game.RespondSponsorship(r.Context(), user.UserID, idempotencyKey(r), in.Accept)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes})
}

func (s *Server) handleResolveEvent(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		EventID  string `json:"event_id"`
		ChoiceID string `json:"choice_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	notes, err := s.game.ResolveEvent(r.Context(), user.UserID, idempotencyKey(r), in.EventID, in.ChoiceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notes})
}

func (s *Server) handleRivals(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.game.State(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rivals": st.Rivals})
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.game.State(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": st.TrendingTopics})
}

func (s *Server) handleIdeas(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromContext(r.Context()); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	category := game.VideoCategory(r.URL.Query().Get("category"))
	ideas, err := s.studio.VideoIdeas(r.Context(), category)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ideas": ideas})
}

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	st, err := s.game.State(r.Context(), user.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	prompt := st.BannerPrompt
	if prompt == "" {
		prompt = user.Username
	}
	art, err := s.studio.BannerArt(r.Context(), prompt)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art)
}

func (s *Server) handleSetBanner(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Prompt string `json:"prompt"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.game.SetBannerPrompt(r.Context(), user.UserID, in.Prompt); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

const leaderboardCacheKey = "tubesim:leaderboard"

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromContext(r.Context()); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	var rows []game.LeaderboardRow
	key := fmt.Sprintf("%s:%d", leaderboardCacheKey, limit)
	if s.cache.GetJSON(r.Context(), key, &rows) {
		writeJSON(w, http.StatusOK, map[string]any{"rows": rows, "cached": true})
		return
	}

	rows, err := s.game.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.cache.SetJSON(r.Context(), key, rows, 30*time.Second)
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// handleSyncReplay executes a batch of queued offline commands in order.
// Each command carries its own idempotency key, so replaying the same queue
// twice is harmless.
func (s *Server) handleSyncReplay(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Commands []SyncCommand `json:"commands"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := make([]map[string]any, 0, len(in.Commands))
	for _, cmd := range in.Commands {
		err := s.applySyncCommand(r.Context(), user.UserID, cmd)
		entry := map[string]any{"action": cmd.Action, "ok": err == nil}
		if err != nil {
			if errors.Is(err, game.ErrDuplicateIdempotency) {
				entry["ok"] = true
				entry["skipped"] = true
			} else {
				entry["error"] = err.Error()
			}
		}
		results = append(results, entry)
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

type SyncCommand struct {
	Action         string          `json:"action"`
	IdempotencyKey string          `json:"idempotency_key"`
	Payload        json.RawMessage `json:"payload"`
}

func (s *Server) applySyncCommand(ctx context.Context, userID string, cmd SyncCommand) error {
	key := cmd.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	switch cmd.Action {
	case "upload_video":
		var p struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Category    string `json:"category"`
			Type        string `json:"type"`
			SeriesName  string `json:"series_name"`
			ViralBoost  bool   `json:"viral_boost"`
		}
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			return err
		}
		vType := game.VideoTypeLong
		if p.Type == string(game.VideoTypeShort) {
			vType = game.VideoTypeShort
		}
		_, err := s.game.UploadVideo(ctx, userID, key, game.UploadInput{
			Title:       p.Title,
			Description: p.Description,
			Category:    game.VideoCategory(p.Category),
			Type:        vType,
			SeriesName:  p.SeriesName,
			ViralBoost:  p.ViralBoost,
		})
		return err
	case "buy_upgrade":
		var p struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			return err
		}
		_, err := s.game.BuyUpgrade(ctx, userID, key, p.ID)
		return err
	case "community_post":
		var p struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			return err
		}
		_, err := s.game.CreateCommunityPost(ctx, userID, key, p.Text)
		return err
	case "resolve_event":
		var p struct {
			EventID  string `json:"event_id"`
			ChoiceID string `json:"choice_id"`
		}
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			return err
		}
		_, err := s.game.ResolveEvent(ctx, userID, key, p.EventID, p.ChoiceID)
		return err
	default:
		return fmt.Errorf("unknown action %q", cmd.Action)
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrDuplicateIdempotency), errors.Is(err, game.ErrTxConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrInsufficientEnergy),
		errors.Is(err, game.ErrInsufficientTalent),
		errors.Is(err, game.ErrEmptyTitle),
		errors.Is(err, game.ErrNoViralBoosts),
		errors.Is(err, game.ErrNicheAlreadyChosen),
		errors.Is(err, game.ErrCollabOnCooldown),
		errors.Is(err, game.ErrNoPendingEvent),
		errors.Is(err, game.ErrNoPendingSponsor):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrChannelSuspended),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrStaffLocked),
		errors.Is(err, game.ErrTalentLocked),
		errors.Is(err, game.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrVideoNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func idempotencyKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key != "" {
		return key
	}
	return uuid.NewString()
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service wraps the engine with persistence. Saves live as one versioned
// JSONB blob per user; every mutating call runs in a serializable
// transaction guarded by an idempotency key.
type Service struct {
	db     *pgxpool.Pool
	log    *slog.Logger
	engine *Engine
	studio ContentStudio

	mu            sync.Mutex
	topicBatch    []TopicSuggestion
	topicBatchAt  time.Time
	topicFetching bool
}

func NewService(db *pgxpool.Pool, logger *slog.Logger, engine *Engine, studio ContentStudio) *Service {
	return &Service{db: db, log: logger, engine: engine, studio: studio}
}

// EnsureSave creates a fresh save for the user if none exists, seeding the
// rival roster from the studio. Idempotent.
func (s *Service) EnsureSave(ctx context.Context, userID string) error {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM game.saves WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check save: %w", err)
	}
	if exists {
		return nil
	}

	now := time.Now().UTC()
	st := NewChannelState(now)
	s.seedRivals(ctx, st, now)

	raw, err := EncodeState(st)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO game.saves (user_id, state, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO NOTHING`, userID, raw)
	if err != nil {
		return fmt.Errorf("create save: %w", err)
	}
	return nil
}

func (s *Service) seedRivals(ctx context.Context, st *ChannelState, now time.Time) {
	sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	personas, err := s.studio.RivalPersonas(sctx, NumberOfRivals)
	if err != nil {
		s.log.Warn("rival seeding failed, starting without rivals", "error", err)
		return
	}
	for _, p := range personas {
		st.Rivals = append(st.Rivals, &RivalChannel{
			ID:          uuid.NewString(),
			Name:        p.Name,
			Theme:       p.Theme,
			Subscribers: p.Subscribers,
			UploadedAt:  now,
		})
	}
}

// State loads a user's save. A blob that fails to parse is treated as lost
// and replaced with a fresh channel rather than wedging the account.
func (s *Service) State(ctx context.Context, userID string) (*ChannelState, error) {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT state FROM game.saves WHERE user_id = $1`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		if err := s.EnsureSave(ctx, userID); err != nil {
			return nil, err
		}
		return s.State(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("load save: %w", err)
	}

	st, derr := DecodeState(raw)
	if derr != nil {
		s.log.Error("corrupt save, resetting", "user_id", userID, "error", derr)
		return s.resetLocked(ctx, userID)
	}
	return st, nil
}

func (s *Service) resetLocked(ctx context.Context, userID string) (*ChannelState, error) {
	now := time.Now().UTC()
	st := NewChannelState(now)
	s.seedRivals(ctx, st, now)
	raw, err := EncodeState(st)
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(ctx,
		`UPDATE game.saves SET state = $2, updated_at = now() WHERE user_id = $1`, userID, raw)
	if err != nil {
		return nil, fmt.Errorf("reset save: %w", err)
	}
	return st, nil
}

// ResetSave wipes the user's channel back to a fresh start.
func (s *Service) ResetSave(ctx context.Context, userID string) error {
	if err := s.EnsureSave(ctx, userID); err != nil {
		return err
	}
	_, err := s.resetLocked(ctx, userID)
	return err
}

// withSave runs fn against the user's save inside a serializable
// transaction. A non-empty idempotency key is claimed first; replays of the
// same key for the same action return ErrDuplicateIdempotency.
func (s *Service) withSave(ctx context.Context, userID, idemKey, action string, fn func(st *ChannelState) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if idemKey != "" {
		if err := claimIdempotency(ctx, tx, userID, idemKey, action); err != nil {
			return err
		}
	}

	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT state FROM game.saves WHERE user_id = $1 FOR UPDATE`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("load save: %w", err)
	}

	st, err := DecodeState(raw)
	if err != nil {
		return fmt.Errorf("decode save: %w", err)
	}

	if err := fn(st); err != nil {
		return err
	}

	out, err := EncodeState(st)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE game.saves SET state = $2, updated_at = now() WHERE user_id = $1`, userID, out); err != nil {
		return fmt.Errorf("store save: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isSerializationError(err) {
			return ErrTxConflict
		}
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func claimIdempotency(ctx context.Context, tx pgx.Tx, userID, key, action string) error {
	tag, err := tx.Exec(ctx,
		`INSERT INTO game.idempotency_keys (user_id, key, action) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, key) DO NOTHING`, userID, key, action)
	if err != nil {
		return fmt.Errorf("claim idempotency key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateIdempotency
	}
	return nil
}

func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

// UploadVideo publishes a new upload and schedules studio flavor (comments,
// a production tip) to be attached off the request path.
func (s *Service) UploadVideo(ctx context.Context, userID, idemKey string, in UploadInput) (*UploadResult, error) {
	var res *UploadResult
	err := s.withSave(ctx, userID, idemKey, "upload_video", func(st *ChannelState) error {
		r, err := s.engine.Upload(st, in, time.Now().UTC())
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.attachVideoFlavor(userID, *res.Video)
	return res, nil
}

// attachVideoFlavor asks the studio for comments and a tip, then merges them
// into the save in a later transaction. Fire and forget: failures only cost
// flavor.
func (s *Service) attachVideoFlavor(userID string, v Video) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		comments, cerr := s.studio.Comments(ctx, v)
		tip, terr := s.studio.VideoTip(ctx, v)
		if cerr != nil {
			s.log.Warn("studio comments failed", "video_id", v.ID, "error", cerr)
		}
		if terr != nil {
			s.log.Warn("studio tip failed", "video_id", v.ID, "error", terr)
		}
		if len(comments) == 0 && tip == "" {
			return
		}

		err := s.withSave(ctx, userID, "", "attach_flavor", func(st *ChannelState) error {
			vid := st.findVideo(v.ID)
			if vid == nil {
				return nil
			}
			vid.Comments = append(vid.Comments, comments...)
			if tip != "" {
				vid.StudioTip = tip
			}
			return nil
		})
		if err != nil {
			s.log.Warn("attach flavor failed", "video_id", v.ID, "error", err)
		}
	}()
}

func (s *Service) BoostVideo(ctx context.Context, userID, idemKey, videoID string) ([]Notification, error) {
	return s.mutate(ctx, userID, idemKey, "boost_video", func(st *ChannelState, now time.Time) ([]Notification, error) {
		return s.engine.BoostVideo(st, videoID, now)
	})
}

func (s *Service) BuyUpgrade(ctx context.Context, userID, idemKey, upgradeID string) ([]Notification, error) {
	return s.mutate(ctx, userID, idemKey, "buy_upgrade", func(st *ChannelState, now time.Time) ([]Notification, error) {
		return s.engine.BuyUpgrade(st, upgradeID, now)
	})
}

func (s *Service) HireStaff(ctx context.Context, userID, idemKey, staffID string) ([]Notification, error) {
	return s.mutate(ctx, userID, idemKey, "hire_staff", func(st *ChannelState, now time.Time) ([]Notification, error) {
		return s.engine.HireStaff(st, staffID, now)
	})
}

func (s *Service) UnlockTalent(ctx context.Context, userID, idemKey, talentID string) ([]Notification, error) {
	return s.mutate(ctx, userID, idemKey, "unlock_talent", func(st *ChannelState, now time.Time) ([]Notification, error) {
		return s.engine.UnlockTalent(st, talentID, now)
	})
}

func (s *Service) ChooseNiche(ctx context.Context, userID, idemKey, nicheID string) ([]Notification, error) {
	return s.mutate(ctx, userID, idemKey, "choose_niche", func(st *ChannelState, now time.Time) ([]Notification, error) {
		return s.engine.ChooseNiche(st, nicheID, now)
	})
}

func (s *Service) CreateCommunityPost(ctx context.Context, userID, idemKey, text string) ([]Notification, error) {
	return s.mutate(ctx, userID, idemKey, "community_post", func(st *ChannelState, now time.Time) ([]Notification, error) {
		return s.engine.CreateCommunityPost(st, text, now)
	})
}

func (s *Service) Collab(ctx context.Context, userID, idemKey string, partner Collaborator) ([]Notification, error) {
	return s.mutate(ctx, userID, idemKey, "collab", func(st *ChannelState, now time.Time) ([]Notification, error) {
		return s.engine.Collab(st, partner, now)
	})
}

func (s *Service) StartStream(ctx context.Context, userID, idemKey string) ([]Notification, error) {
	return s.mutate(ctx, userID, idemKey, "start_stream", func(st *ChannelState, now time.Time) ([]Notification, error) {
		return s.engine.StartStream(st, now)
	})
}

func (s *Service) FinishStream(ctx context.Context, userID, idemKey string, donations float64, newSubs int64) ([]Notification, error) {
	return s.mutate(ctx, userID, idemKey, "finish_stream", func(st *ChannelState, now time.Time) ([]Notification, error) {
		return s.engine.FinishStream(st, donations, newSubs, now)
	})
}

func (s *Service) RespondSponsorship(ctx context.Context, userID, idemKey string, accept bool) ([]Notification, error) {
	return s.mutate(ctx, userID, idemKey, "respond_sponsorship", func(st *ChannelState, now time.Time) ([]Notification, error) {
		return s.engine.RespondSponsorship(st, accept, now)
	})
}

func (s *Service) ResolveEvent(ctx context.Context, userID, idemKey, eventID, choiceID string) ([]Notification, error) {
	return s.mutate(ctx, userID, idemKey, "resolve_event", func(st *ChannelState, now time.Time) ([]Notification, error) {
		return s.engine.ResolveEvent(st, eventID, choiceID, now)
	})
}

func (s *Service) AcknowledgeAwards(ctx context.Context, userID string) error {
	return s.withSave(ctx, userID, "", "ack_awards", func(st *ChannelState) error {
		s.engine.AcknowledgeAwards(st)
		return nil
	})
}

func (s *Service) SetBannerPrompt(ctx context.Context, userID, prompt string) error {
	return s.withSave(ctx, userID, "", "set_banner", func(st *ChannelState) error {
		s.engine.SetBannerPrompt(st, prompt)
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, userID, idemKey, action string, fn func(st *ChannelState, now time.Time) ([]Notification, error)) ([]Notification, error) {
	var notes []Notification
	err := s.withSave(ctx, userID, idemKey, action, func(st *ChannelState) error {
		n, err := fn(st, time.Now().UTC())
		if err != nil {
			return err
		}
		notes = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// TickAll advances every save one beat. Each user ticks in its own
// transaction so one conflict never stalls the fleet.
func (s *Service) TickAll(ctx context.Context, now time.Time) error {
	rows, err := s.db.Query(ctx, `SELECT user_id FROM game.saves`)
	if err != nil {
		return fmt.Errorf("list saves: %w", err)
	}
	userIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan save row: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate saves: %w", err)
	}

	s.maybeRefreshTopics(now)
	batch, batchAt := s.currentTopicBatch()

	var ticked, failed int
	for _, userID := range userIDs {
		err := s.withSave(ctx, userID, "", "tick", func(st *ChannelState) error {
			if len(batch) > 0 && st.LastTrendRefresh.Before(batchAt) {
				st.MergeTrendingTopics(batch, now)
			}
			notes := s.engine.Tick(st, now)
			if len(notes) > 0 {
				s.log.Debug("tick notifications", "user_id", userID, "count", len(notes))
			}
			return nil
		})
		if err != nil {
			failed++
			s.log.Error("tick failed", "user_id", userID, "error", err)
			continue
		}
		ticked++
	}

	s.log.Info("tick pass complete", "ticked", ticked, "failed", failed)
	return nil
}

// maybeRefreshTopics kicks off an async studio fetch when the cached topic
// batch goes stale. The tick never waits on it; saves pick the new batch up
// on a later pass.
func (s *Service) maybeRefreshTopics(now time.Time) {
	s.mu.Lock()
	stale := now.Sub(s.topicBatchAt) >= TrendingTopicRefreshEvery
	if !stale || s.topicFetching {
		s.mu.Unlock()
		return
	}
	s.topicFetching = true
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		topics, err := s.studio.TrendingTopics(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.topicFetching = false
		if err != nil {
			s.log.Warn("trending topics refresh failed", "error", err)
			return
		}
		s.topicBatch = topics
		s.topicBatchAt = time.Now().UTC()
	}()
}

func (s *Service) currentTopicBatch() ([]TopicSuggestion, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topicBatch, s.topicBatchAt
}

// Leaderboard ranks channels by subscriber count straight out of the JSONB
// saves.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	rows, err := s.db.Query(ctx, `
		SELECT p.username,
		       COALESCE((s.state->'stats'->>'subscribers')::bigint, 0) AS subscribers,
		       COALESCE((s.state->'stats'->>'prestige')::int, 0) AS prestige
		FROM game.saves s
		JOIN users.profiles p ON p.id = s.user_id
		ORDER BY subscribers DESC, p.username ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	defer rows.Close()

	out := []LeaderboardRow{}
	rank := int64(0)
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(&row.Username, &row.Subscribers, &row.Prestige); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		rank++
		row.Rank = rank
		out = append(out, row)
	}
	return out, rows.Err()
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	cl "tubesim/internal/cli"
	"tubesim/internal/config"
	"tubesim/internal/game"
	"tubesim/internal/syncq"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "tube",
		Short:        "TubeSim CLI game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newSignupCmd(&apiBase),
		newLoginCmd(&apiBase),
		newLogoutCmd(),
		newDashCmd(&apiBase),
		newSyncCmd(&apiBase),
		newVideosCmd(&apiBase),
		newUploadCmd(&apiBase),
		newBoostCmd(&apiBase),
		newUpgradesCmd(&apiBase),
		newStaffCmd(&apiBase),
		newTalentsCmd(&apiBase),
		newNicheCmd(&apiBase),
		newPostCmd(&apiBase),
		newPostsCmd(&apiBase),
		newCollabCmd(&apiBase),
		newStreamCmd(&apiBase),
		newSponsorCmd(&apiBase),
		newEventCmd(&apiBase),
		newRivalsCmd(&apiBase),
		newTopicsCmd(&apiBase),
		newIdeasCmd(&apiBase),
		newBannerCmd(&apiBase),
		newAwardsCmd(&apiBase),
		newAchievementsCmd(&apiBase),
		newLeaderboardCmd(&apiBase),
		newResetCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newSignupCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create a TubeSim account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := promptRequired("Username")
			if err != nil {
				return err
			}
			password, err := promptRequired("Password")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Signup(ctx, username, password)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken: session.AccessToken,
				Username:    session.User.Username,
				UserID:      session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Channel created. Session saved.")
			return nil
		},
	}
}

func newLoginCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login to TubeSim",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := promptRequired("Username")
			if err != nil {
				return err
			}
			password, err := promptRequired("Password")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Login(ctx, username, password)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken: session.AccessToken,
				Username:    session.User.Username,
				UserID:      session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Login successful.")
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear local session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Logged out.")
			return nil
		},
	}
}

func newDashCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Show your channel dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Channel(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderDashboard(out)
		},
	}
}

func newSyncCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay locally queued offline actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			queue, err := syncq.Load()
			if err != nil {
				return err
			}
			if len(queue) == 0 {
				printInfo("Sync queue is empty.")
				return nil
			}
			commands := make([]map[string]any, 0, len(queue))
			for _, q := range queue {
				commands = append(commands, map[string]any{
					"action":          q.Action,
					"payload":         q.Payload,
					"idempotency_key": q.IdempotencyKey,
				})
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			out, err := client.SyncReplay(ctx, sess.AccessToken, commands)
			if err != nil {
				return err
			}
			if err := renderSyncResults(out); err != nil {
				return err
			}
			return syncq.Clear()
		},
	}
}

func newVideosCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "videos",
		Short: "List your uploaded videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Videos(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderVideos(out)
		},
	}
}

func newUploadCmd(apiBase *string) *cobra.Command {
	var (
		videoType string
		category  string
		series    string
		boost     bool
	)
	cmd := &cobra.Command{
		Use:   "upload [title]",
		Short: "Upload a video or short",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			title := ""
			if len(args) > 0 {
				title = strings.TrimSpace(args[0])
			} else {
				title, err = promptRequired("Title")
				if err != nil {
					return err
				}
			}
			if videoType == "" {
				videoType, err = promptChoice("Type", []string{"video", "short"}, "video")
				if err != nil {
					return err
				}
			}
			if category == "" {
				category, err = promptCategory()
				if err != nil {
					return err
				}
			}

			idem := uuid.NewString()
			body := map[string]any{
				"title":       title,
				"category":    category,
				"type":        videoType,
				"series_name": strings.TrimSpace(series),
				"viral_boost": boost,
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.Upload(ctx, sess.AccessToken, idem, body)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Action:         "upload_video",
					Payload:        body,
					IdempotencyKey: idem,
				})
			}
			return renderUploadResult(out)
		},
	}
	cmd.Flags().StringVar(&videoType, "type", "", "video or short")
	cmd.Flags().StringVar(&category, "category", "", "video category")
	cmd.Flags().StringVar(&series, "series", "", "series name for episode momentum")
	cmd.Flags().BoolVar(&boost, "boost", false, "spend a viral boost on this upload")
	return cmd
}

func newBoostCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "boost [video_id]",
		Short: "Spend a viral boost on an existing video",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			videoID, err := stringFromArgsOrPrompt(args, "Video ID")
			if err != nil {
				return err
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.BoostVideo(ctx, sess.AccessToken, videoID, uuid.NewString())
			if err != nil {
				return err
			}
			return renderNotifications(out)
		},
	}
}

func newUpgradesCmd(apiBase *string) *cobra.Command {
	upgrades := &cobra.Command{
		Use:   "upgrades",
		Short: "Studio equipment commands",
	}
	upgrades.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List equipment and current levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.Upgrades(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderUpgrades(out)
		},
	})
	upgrades.AddCommand(&cobra.Command{
		Use:   "buy [id]",
		Short: "Buy the next level of an upgrade",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			id, err := stringFromArgsOrPrompt(args, "Upgrade ID")
			if err != nil {
				return err
			}
			idem := uuid.NewString()
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.BuyUpgrade(ctx, sess.AccessToken, id, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Action:         "buy_upgrade",
					Payload:        map[string]any{"id": id},
					IdempotencyKey: idem,
				})
			}
			return renderNotifications(out)
		},
	})
	return upgrades
}

func newStaffCmd(apiBase *string) *cobra.Command {
	staff := &cobra.Command{
		Use:   "staff",
		Short: "Staff hiring commands",
	}
	staff.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List staff roles and current levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.Staff(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderStaff(out)
		},
	})
	staff.AddCommand(&cobra.Command{
		Use:   "hire [id]",
		Short: "Hire or promote a staff member",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			id, err := stringFromArgsOrPrompt(args, "Staff ID")
			if err != nil {
				return err
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.HireStaff(ctx, sess.AccessToken, id, uuid.NewString())
			if err != nil {
				return err
			}
			return renderNotifications(out)
		},
	})
	return staff
}

func newTalentsCmd(apiBase *string) *cobra.Command {
	talents := &cobra.Command{
		Use:   "talents",
		Short: "Talent tree commands",
	}
	talents.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the talent tree and unlocked talents",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.Talents(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderTalents(out)
		},
	})
	talents.AddCommand(&cobra.Command{
		Use:   "unlock [id]",
		Short: "Spend a talent point",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			id, err := stringFromArgsOrPrompt(args, "Talent ID")
			if err != nil {
				return err
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.UnlockTalent(ctx, sess.AccessToken, strings.ToUpper(id), uuid.NewString())
			if err != nil {
				return err
			}
			return renderNotifications(out)
		},
	})
	return talents
}

func newNicheCmd(apiBase *string) *cobra.Command {
	niche := &cobra.Command{
		Use:   "niche",
		Short: "Channel niche commands",
	}
	niche.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available niches",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.Niches(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderNiches(out)
		},
	})
	niche.AddCommand(&cobra.Command{
		Use:   "choose [id]",
		Short: "Commit your channel to a niche (permanent)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			id, err := stringFromArgsOrPrompt(args, "Niche ID")
			if err != nil {
				return err
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.ChooseNiche(ctx, sess.AccessToken, id, uuid.NewString())
			if err != nil {
				return err
			}
			return renderNotifications(out)
		},
	})
	return niche
}

func newPostCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "post [text]",
		Short: "Publish a community post",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			text := ""
			if len(args) > 0 {
				text = strings.TrimSpace(args[0])
			} else {
				text, err = promptRequired("Post text")
				if err != nil {
					return err
				}
			}
			idem := uuid.NewString()
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.CommunityPost(ctx, sess.AccessToken, text, idem)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Action:         "community_post",
					Payload:        map[string]any{"text": text},
					IdempotencyKey: idem,
				})
			}
			return renderNotifications(out)
		},
	}
}

func newPostsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "List your community posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Posts(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderPosts(out)
		},
	}
}

func newCollabCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "collab",
		Short: "Collaborate with another creator",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			out, err := client.CollabOptions(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			options, err := renderCollabOptions(out)
			if err != nil {
				return err
			}
			if len(options) == 0 {
				return nil
			}
			pick, err := promptInt64(fmt.Sprintf("Partner (1-%d)", len(options)), 1)
			if err != nil {
				return err
			}
			if pick > int64(len(options)) {
				return fmt.Errorf("no partner numbered %d", pick)
			}
			partner := options[pick-1]
			res, err := client.Collab(ctx, sess.AccessToken, uuid.NewString(), map[string]any{
				"name":        partner.Name,
				"theme":       partner.Theme,
				"subscribers": partner.Subscribers,
			})
			if err != nil {
				return err
			}
			return renderNotifications(res)
		},
	}
}

func newStreamCmd(apiBase *string) *cobra.Command {
	stream := &cobra.Command{
		Use:   "stream",
		Short: "Live stream commands",
	}
	stream.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Go live",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.StartStream(ctx, sess.AccessToken, uuid.NewString())
			if err != nil {
				return err
			}
			return renderNotifications(out)
		},
	})
	stream.AddCommand(&cobra.Command{
		Use:   "finish",
		Short: "End the stream and bank donations",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			donations, err := promptFloat("Donations collected", -1)
			if err != nil {
				return err
			}
			newSubs, err := promptInt64("New subscribers", 0)
			if err != nil {
				return err
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.FinishStream(ctx, sess.AccessToken, uuid.NewString(), donations, newSubs)
			if err != nil {
				return err
			}
			return renderNotifications(out)
		},
	})
	return stream
}

func newSponsorCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sponsor [accept|decline]",
		Short: "Respond to the pending sponsorship offer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			choice := ""
			if len(args) > 0 {
				choice = strings.ToLower(strings.TrimSpace(args[0]))
			} else {
				choice, err = promptChoice("Response", []string{"accept", "decline"}, "accept")
				if err != nil {
					return err
				}
			}
			if choice != "accept" && choice != "decline" {
				return fmt.Errorf("response must be accept or decline")
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := client.RespondSponsorship(ctx, sess.AccessToken, uuid.NewString(), choice == "accept")
			if err != nil {
				return err
			}
			return renderNotifications(out)
		},
	}
}

func newEventCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "event [event_id] [choice_id]",
		Short: "Resolve the pending channel event",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			eventID := ""
			choiceID := ""
			if len(args) >= 1 {
				eventID = strings.ToUpper(strings.TrimSpace(args[0]))
			}
			if len(args) >= 2 {
				choiceID = strings.ToLower(strings.TrimSpace(args[1]))
			}
			if eventID == "" || choiceID == "" {
				channel, err := client.Channel(ctx, sess.AccessToken)
				if err != nil {
					return err
				}
				pending, err := renderPendingEvent(channel)
				if err != nil {
					return err
				}
				if pending == "" {
					printInfo("No pending event.")
					return nil
				}
				eventID = pending
				choiceID, err = promptRequired("Choice")
				if err != nil {
					return err
				}
				choiceID = strings.ToLower(strings.TrimSpace(choiceID))
			}

			idem := uuid.NewString()
			out, err := client.ResolveEvent(ctx, sess.AccessToken, idem, eventID, choiceID)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Action:         "resolve_event",
					Payload:        map[string]any{"event_id": eventID, "choice_id": choiceID},
					IdempotencyKey: idem,
				})
			}
			return renderNotifications(out)
		},
	}
}

func newRivalsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rivals",
		Short: "Show rival channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Rivals(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderRivals(out)
		},
	}
}

func newTopicsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "Show active trending topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Topics(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderTopics(out)
		},
	}
}

func newIdeasCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ideas [category]",
		Short: "Get video ideas from the content studio",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			category := ""
			if len(args) > 0 {
				category = strings.TrimSpace(args[0])
			} else {
				category, err = promptCategory()
				if err != nil {
					return err
				}
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Ideas(ctx, sess.AccessToken, category)
			if err != nil {
				return err
			}
			return renderIdeas(out, category)
		},
	}
}

func newBannerCmd(apiBase *string) *cobra.Command {
	var out string
	var prompt string
	cmd := &cobra.Command{
		Use:   "banner",
		Short: "Render the channel banner to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			client := newClient(apiBase)
			if prompt != "" {
				if _, err := client.SetBanner(ctx, sess.AccessToken, prompt); err != nil {
					return err
				}
			}
			art, err := client.Banner(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, art, 0o644); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Banner written to %s", out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "banner.svg", "output file")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "set a new banner prompt before rendering")
	return cmd
}

func newAwardsCmd(apiBase *string) *cobra.Command {
	awards := &cobra.Command{
		Use:   "awards",
		Short: "Show the latest award show results",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Awards(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderAwards(out)
		},
	}
	awards.AddCommand(&cobra.Command{
		Use:   "ack",
		Short: "Dismiss the award show results",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			if _, err := client.AckAwards(ctx, sess.AccessToken); err != nil {
				return err
			}
			printSuccess("Award show dismissed.")
			return nil
		},
	})
	return awards
}

func newAchievementsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "Show achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Achievements(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderAchievements(out)
		},
	}
}

func newLeaderboardCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Global subscriber leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Leaderboard(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderLeaderboard(out)
		},
	}
}

func newResetCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Wipe your save and start over",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			confirm, err := promptChoice("Really wipe your channel", []string{"yes", "no"}, "no")
			if err != nil {
				return err
			}
			if confirm != "yes" {
				printInfo("Reset cancelled.")
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			if _, err := client.ResetChannel(ctx, sess.AccessToken); err != nil {
				return err
			}
			printSuccess("Channel reset. Good luck out there.")
			return nil
		},
	}
}

// queueOnNetworkError stores the command locally when the API was unreachable
// so `tube sync` can replay it. Structured API rejections are not retried.
func queueOnNetworkError(err error, cmd syncq.Command) error {
	if err == nil {
		return nil
	}
	if isAPIStructuredError(err) {
		return err
	}
	if pushErr := syncq.Push(cmd); pushErr != nil {
		return fmt.Errorf("request failed and could not queue offline: %v (original: %w)", pushErr, err)
	}
	printWarn(fmt.Sprintf("API unreachable, queued %s for `tube sync`.", cmd.Action))
	return nil
}

func isAPIStructuredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "api status")
}

func stringFromArgsOrPrompt(args []string, label string) (string, error) {
	if len(args) > 0 {
		v := strings.TrimSpace(args[0])
		if v != "" {
			return v, nil
		}
	}
	return promptRequired(label)
}

func promptCategory() (string, error) {
	options := make([]string, 0, len(game.VideoCategories))
	for _, c := range game.VideoCategories {
		options = append(options, string(c))
	}
	choice, err := promptChoice("Category", options, string(game.CategoryGaming))
	if err != nil {
		return "", err
	}
	// promptChoice lowercases; the API wants the catalog casing.
	for _, c := range game.VideoCategories {
		if strings.EqualFold(string(c), choice) {
			return string(c), nil
		}
	}
	return choice, nil
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tubesim/internal/auth"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Signup(ctx context.Context, username, password string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/signup", "", map[string]any{
		"username": username,
		"password": password,
	}, &out, "")
	return out, err
}

func (c *Client) Login(ctx context.Context, username, password string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"username": username,
		"password": password,
	}, &out, "")
	return out, err
}

func (c *Client) Channel(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/channel", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) Videos(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/channel/videos", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) Posts(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/channel/posts", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) Achievements(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/channel/achievements", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) Awards(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/channel/awards", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) AckAwards(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/channel/awards/ack", accessToken, map[string]any{}, &out, "")
	return out, err
}

func (c *Client) ResetChannel(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/channel/reset", accessToken, map[string]any{}, &out, "")
	return out, err
}

func (c *Client) Upload(ctx context.Context, accessToken, idem string, body map[string]any) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/videos", accessToken, body, &out, idem)
	return out, err
}

func (c *Client) BoostVideo(ctx context.Context, accessToken, videoID, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/videos/"+url.PathEscape(videoID)+"/boost", accessToken, map[string]any{}, &out, idem)
	return out, err
}

func (c *Client) Upgrades(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/upgrades", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) BuyUpgrade(ctx context.Context, accessToken, id, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/upgrades/"+url.PathEscape(id)+"/buy", accessToken, map[string]any{}, &out, idem)
	return out, err
}

func (c *Client) Staff(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/staff", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) HireStaff(ctx context.Context, accessToken, id, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/staff/"+url.PathEscape(id)+"/hire", accessToken, map[string]any{}, &out, idem)
	return out, err
}

func (c *Client) Talents(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/talents", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) UnlockTalent(ctx context.Context, accessToken, id, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/talents/"+url.PathEscape(id)+"/unlock", accessToken, map[string]any{}, &out, idem)
	return out, err
}

func (c *Client) Niches(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/niches", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) ChooseNiche(ctx context.Context, accessToken, id, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/niche", accessToken, map[string]any{
		"niche_id": id,
	}, &out, idem)
	return out, err
}

func (c *Client) CommunityPost(ctx context.Context, accessToken, text, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/posts", accessToken, map[string]any{
		"text": text,
	}, &out, idem)
	return out, err
}

func (c *Client) CollabOptions(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/collab/options", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) Collab(ctx context.Context, accessToken, idem string, partner map[string]any) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/collab", accessToken, partner, &out, idem)
	return out, err
}

func (c *Client) StartStream(ctx context.Context, accessToken, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/stream/start", accessToken, map[string]any{}, &out, idem)
	return out, err
}

func (c *Client) FinishStream(ctx context.Context, accessToken, idem string, donations float64, newSubs int64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/stream/finish", accessToken, map[string]any{
		"donations":       donations,
		"new_subscribers": newSubs,
	}, &out, idem)
	return out, err
}

func (c *Client) RespondSponsorship(ctx context.Context, accessToken, idem string, accept bool) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sponsorship", accessToken, map[string]any{
		"accept": accept,
	}, &out, idem)
	return out, err
}

func (c *Client) ResolveEvent(ctx context.Context, accessToken, idem, eventID, choiceID string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/events/resolve", accessToken, map[string]any{
		"event_id":  eventID,
		"choice_id": choiceID,
	}, &out, idem)
	return out, err
}

func (c *Client) Rivals(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/rivals", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) Topics(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/topics", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) Ideas(ctx context.Context, accessToken, category string) (map[string]any, error) {
	path := "/v1/ideas"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, path, accessToken, nil, &out, "")
	return out, err
}

func (c *Client) SetBanner(ctx context.Context, accessToken, prompt string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/banner", accessToken, map[string]any{
		"prompt": prompt,
	}, &out, "")
	return out, err
}

// Banner fetches the rendered channel banner as raw image bytes.
func (c *Client) Banner(ctx context.Context, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/banner", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

func (c *Client) Leaderboard(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/leaderboard", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) SyncReplay(ctx context.Context, accessToken string, commands []map[string]any) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sync/replay", accessToken, map[string]any{
		"commands": commands,
	}, &out, "")
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path, accessToken string, in any, out any, idem string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if idem != "" {
		req.Header.Set("Idempotency-Key", idem)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

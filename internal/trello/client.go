package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nexus-manager/backend/internal/models"
)

const DefaultBaseURL = "https://api.trello.com/1"

var (
	// ErrMissingConfig is returned before any network I/O when a
	// credential field is empty.
	ErrMissingConfig = errors.New("trello: missing api key, token or board id")

	ErrUnauthorized  = errors.New("trello: unauthorized, check your API key and token")
	ErrBoardNotFound = errors.New("trello: board not found, check your board id")
)

// APIError carries the operation name, status and best-effort response body
// of a failed board call.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trello: %s failed (%d): %s", e.Op, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrBoardNotFound
	}
	return nil
}

// Client is a thin read-only accessor for the board API. Credentials are
// passed per call because they live in the mutable persisted snapshot.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// BoardSnapshot is the joined result of one reconciliation run's fetches.
type BoardSnapshot struct {
	Lists   []models.TrelloList
	Cards   []models.TrelloCard
	Members []models.TrelloMember
}

func cleanConfig(cfg models.TrelloConfig) (models.TrelloConfig, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.BoardID = strings.TrimSpace(cfg.BoardID)
	if cfg.APIKey == "" || cfg.Token == "" || cfg.BoardID == "" {
		return models.TrelloConfig{}, ErrMissingConfig
	}
	return cfg, nil
}

func (c *Client) get(ctx context.Context, op string, cfg models.TrelloConfig, path string, query url.Values, out any) error {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	httpClient := c.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("key", cfg.APIKey)
	query.Set("token", cfg.Token)
	endpoint := fmt.Sprintf("%s%s?%s", base, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("trello: %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("trello: %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: readBody(resp.Body, resp.Status)}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("trello: %s: decode response: %w", op, err)
	}
	return nil
}

func readBody(r io.Reader, fallback string) string {
	b, err := io.ReadAll(io.LimitReader(r, 4<<10))
	if err != nil || len(strings.TrimSpace(string(b))) == 0 {
		return fallback
	}
	return strings.TrimSpace(string(b))
}

// VerifyConnection checks that the credentials can read the board.
func (c *Client) VerifyConnection(ctx context.Context, cfg models.TrelloConfig) error {
	cfg, err := cleanConfig(cfg)
	if err != nil {
		return err
	}
	return c.get(ctx, "connection test", cfg, "/boards/"+cfg.BoardID, nil, nil)
}

// FetchLists returns the board's open lists.
func (c *Client) FetchLists(ctx context.Context, cfg models.TrelloConfig) ([]models.TrelloList, error) {
	cfg, err := cleanConfig(cfg)
	if err != nil {
		return nil, err
	}
	q := url.Values{"filter": {"open"}}
	var lists []models.TrelloList
	if err := c.get(ctx, "fetching lists", cfg, "/boards/"+cfg.BoardID+"/lists", q, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// FetchCards returns the board's visible cards with member attachments.
func (c *Client) FetchCards(ctx context.Context, cfg models.TrelloConfig) ([]models.TrelloCard, error) {
	cfg, err := cleanConfig(cfg)
	if err != nil {
		return nil, err
	}
	q := url.Values{
		"fields": {"name,desc,idList,url,idMembers"},
		"filter": {"visible"},
	}
	var cards []models.TrelloCard
	if err := c.get(ctx, "fetching cards", cfg, "/boards/"+cfg.BoardID+"/cards", q, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// FetchMembers returns everyone on the board.
func (c *Client) FetchMembers(ctx context.Context, cfg models.TrelloConfig) ([]models.TrelloMember, error) {
	cfg, err := cleanConfig(cfg)
	if err != nil {
		return nil, err
	}
	var members []models.TrelloMember
	if err := c.get(ctx, "fetching members", cfg, "/boards/"+cfg.BoardID+"/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// FetchBoard issues the three read calls concurrently and joins them.
// All-or-nothing: any single failure fails the whole fetch.
func (c *Client) FetchBoard(ctx context.Context, cfg models.TrelloConfig) (BoardSnapshot, error) {
	if _, err := cleanConfig(cfg); err != nil {
		return BoardSnapshot{}, err
	}

	var snap BoardSnapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lists, err := c.FetchLists(ctx, cfg)
		snap.Lists = lists
		return err
	})
	g.Go(func() error {
		cards, err := c.FetchCards(ctx, cfg)
		snap.Cards = cards
		return err
	})
	g.Go(func() error {
		members, err := c.FetchMembers(ctx, cfg)
		snap.Members = members
		return err
	})
	if err := g.Wait(); err != nil {
		return BoardSnapshot{}, err
	}
	return snap, nil
}

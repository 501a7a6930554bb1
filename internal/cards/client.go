package cards

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	scryfallBaseURL = "https://api.scryfall.com"

	// Scryfall asks clients to stay under 10 requests per second.
	scryfallRateLimit = 100 * time.Millisecond

	requestTimeout = 30 * time.Second
)

// Client is a rate-limited Scryfall API client. It is used only by the
// ingestion path; the analysis core never performs network I/O.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	userAgent   string
}

// NewClient creates a new Scryfall API client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(scryfallRateLimit), 1),
		baseURL:     scryfallBaseURL,
		userAgent:   "decklab/1.0",
	}
}

// GetCardByName fetches a card by its exact name.
func (c *Client) GetCardByName(ctx context.Context, name string) (*Card, error) {
	u := fmt.Sprintf("%s/cards/named?exact=%s", c.baseURL, url.QueryEscape(name))

	var sc ScryfallCard
	if err := c.doRequest(ctx, u, &sc); err != nil {
		return nil, fmt.Errorf("fetch card %q: %w", name, err)
	}

	return sc.ToCard(), nil
}

// FetchDecklistCards resolves every distinct name in a decklist via the API
// and returns the fetched cards. Names that cannot be resolved are reported
// in the second return value rather than failing the whole fetch.
func (c *Client) FetchDecklistCards(ctx context.Context, deck *Decklist) ([]*Card, []string, error) {
	var fetched []*Card
	var missing []string

	seen := make(map[string]bool)
	for _, entry := range deck.Cards {
		if seen[entry.Name] {
			continue
		}
		seen[entry.Name] = true

		card, err := c.GetCardByName(ctx, entry.Name)
		if err != nil {
			if ctx.Err() != nil {
				return fetched, missing, ctx.Err()
			}
			missing = append(missing, entry.Name)
			continue
		}
		fetched = append(fetched, card)
	}

	return fetched, missing, nil
}

// doRequest performs a rate-limited GET and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, url string, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("not found")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	return nil
}

package ratings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public chess.com API root.
const DefaultBaseURL = "https://api.chess.com/pub"

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 15 * time.Second

const userAgent = "EChessSocietyClubAPI/1.0"

// Client fetches player data from the external rating provider. Reads are
// routed through the cache, so repeated lookups within the TTL cost no
// network calls. Each invocation of the underlying fetch issues exactly one
// outbound request; all failure modes come back as a *ProviderError.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *Cache
	logger     *zap.Logger
}

// NewClient creates a provider client. Empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, cache *Cache, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    baseURL,
		cache:      cache,
		logger:     logger,
	}
}

// FetchStats returns the player's stats payload, cached.
func (c *Client) FetchStats(ctx context.Context, username string) (Payload, error) {
	return c.cache.GetOrFetch(ctx, KindStats, username, nil, func(ctx context.Context) (Payload, error) {
		return c.get(ctx, fmt.Sprintf("%s/player/%s/stats", c.baseURL, NormalizeUsername(username)))
	})
}

// FetchProfile returns the player's profile payload, cached.
func (c *Client) FetchProfile(ctx context.Context, username string) (Payload, error) {
	return c.cache.GetOrFetch(ctx, KindProfile, username, nil, c.profileFetcher(username))
}

// FetchGames returns the player's monthly game archive, cached per month.
// Zero year or month defaults to the current UTC year and month.
func (c *Client) FetchGames(ctx context.Context, username string, year int, month time.Month) (Payload, error) {
	if year == 0 || month == 0 {
		now := time.Now().UTC()
		year, month = now.Year(), now.Month()
	}

	period := &Period{Year: year, Month: month}

	return c.cache.GetOrFetch(ctx, KindGames, username, period, func(ctx context.Context) (Payload, error) {
		return c.get(ctx, fmt.Sprintf("%s/player/%s/games/%04d/%02d",
			c.baseURL, NormalizeUsername(username), year, int(month)))
	})
}

// RefreshStats bypasses any live cache entry and fetches current stats,
// overwriting the cache on success. Bulk rating sync depends on this.
func (c *Client) RefreshStats(ctx context.Context, username string) (Payload, error) {
	return c.cache.Refresh(ctx, KindStats, username, nil, func(ctx context.Context) (Payload, error) {
		return c.get(ctx, fmt.Sprintf("%s/player/%s/stats", c.baseURL, NormalizeUsername(username)))
	})
}

// VerifyUsername reports whether the username exists on the provider. It
// force-refreshes the profile so a stale cache entry can never vouch for a
// deleted account.
func (c *Client) VerifyUsername(ctx context.Context, username string) (bool, error) {
	_, err := c.cache.Refresh(ctx, KindProfile, username, nil, c.profileFetcher(username))
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) && perr.Kind == KindNotFound {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (c *Client) profileFetcher(username string) Fetcher {
	return func(ctx context.Context) (Payload, error) {
		return c.get(ctx, fmt.Sprintf("%s/player/%s", c.baseURL, NormalizeUsername(username)))
	}
}

// get performs one outbound call and classifies the outcome.
func (c *Client) get(ctx context.Context, url string) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, transportError(err.Error())
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("provider timeout", zap.String("url", url))

			return nil, timeoutError()
		}

		c.logger.Warn("provider unreachable", zap.String("url", url), zap.Error(err))

		return nil, transportError(err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, transportError(err.Error())
		}

		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, notFoundError()
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Warn("provider rate limit hit", zap.String("url", url))

		return nil, rateLimitedError()
	default:
		c.logger.Warn("provider error",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)

		return nil, upstreamError(resp.StatusCode)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

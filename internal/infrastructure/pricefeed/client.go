package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"annuity-exchange/internal/domain/oracle"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "pricefeed:quote"

// Client fetches the collateral/deposit rate from an HTTP price feed. A short
// redis cache in front of the feed absorbs request bursts from the API and
// keeper hitting the oracle at the same time; staleness policy is enforced by
// the callers via Quote.Check, not here.
type Client struct {
	url      string
	http     *http.Client
	rdb      *redis.Client
	cacheTTL time.Duration
}

// NewClient builds a feed client. rdb may be nil to disable caching.
func NewClient(url string, rdb *redis.Client, cacheTTL time.Duration) *Client {
	return &Client{
		url:      url,
		http:     &http.Client{Timeout: 5 * time.Second},
		rdb:      rdb,
		cacheTTL: cacheTTL,
	}
}

type feedResponse struct {
	Price     string `json:"price"`
	Decimals  uint32 `json:"decimals"`
	Timestamp int64  `json:"timestamp"`
}

func (f feedResponse) toQuote() (oracle.Quote, error) {
	p, ok := new(big.Int).SetString(f.Price, 10)
	if !ok {
		return oracle.Quote{}, fmt.Errorf("%w: bad price %q", oracle.ErrUnavailable, f.Price)
	}
	return oracle.Quote{Price: p, Decimals: f.Decimals, Timestamp: time.Unix(f.Timestamp, 0).UTC()}, nil
}

func (c *Client) GetPrice(ctx context.Context) (oracle.Quote, error) {
	if q, ok := c.cached(ctx); ok {
		return q, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return oracle.Quote{}, fmt.Errorf("%w: %v", oracle.ErrUnavailable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return oracle.Quote{}, fmt.Errorf("%w: %v", oracle.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return oracle.Quote{}, fmt.Errorf("%w: feed returned %d", oracle.ErrUnavailable, resp.StatusCode)
	}

	var fr feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return oracle.Quote{}, fmt.Errorf("%w: %v", oracle.ErrUnavailable, err)
	}
	q, err := fr.toQuote()
	if err != nil {
		return oracle.Quote{}, err
	}
	c.cache(ctx, fr)
	return q, nil
}

func (c *Client) cached(ctx context.Context) (oracle.Quote, bool) {
	if c.rdb == nil || c.cacheTTL <= 0 {
		return oracle.Quote{}, false
	}
	b, err := c.rdb.Get(ctx, cacheKey).Bytes()
	if err != nil {
		return oracle.Quote{}, false
	}
	var fr feedResponse
	if err := json.Unmarshal(b, &fr); err != nil {
		return oracle.Quote{}, false
	}
	q, err := fr.toQuote()
	if err != nil {
		return oracle.Quote{}, false
	}
	return q, true
}

func (c *Client) cache(ctx context.Context, fr feedResponse) {
	if c.rdb == nil || c.cacheTTL <= 0 {
		return
	}
	payload, _ := json.Marshal(fr)
	_ = c.rdb.Set(ctx, cacheKey, payload, c.cacheTTL).Err()
}

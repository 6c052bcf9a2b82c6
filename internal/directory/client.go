// Package directory fetches universities from the public Hipo Labs
// directory and normalizes them into University records.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"uniguide/backend/config"
	"uniguide/backend/internal/country"
	"uniguide/backend/internal/model"
)

var (
	// ErrSourceUnavailable the directory failed or timed out. Retryable,
	// and distinct from an empty result.
	ErrSourceUnavailable = errors.New("university directory unavailable")
	// ErrNotFound the directory answered but has no such university.
	ErrNotFound = errors.New("university not found in directory")
)

const (
	usCountry     = "United States"
	usPerTerm     = 5
	usMaxResults  = 50
	searchLimit   = 50
	minQueryLen   = 2
	countryFanout = 4
)

// The US list is too large to fetch whole, so it is assembled from
// name searches.
var usSearchTerms = []string{
	"MIT", "Stanford", "Harvard", "Yale", "Princeton", "Columbia", "Cornell",
	"Berkeley", "UCLA", "Michigan", "Duke", "Northwestern", "Chicago", "NYU", "Carnegie",
	"Georgia Tech", "Purdue", "Texas", "Florida", "Boston",
}

var tracer = otel.Tracer("uniguide/directory")

// Client reads the live university directory.
type Client interface {
	// ByCountry lists universities of one country, capped per config.
	ByCountry(ctx context.Context, country string) ([]model.University, error)
	// Search finds universities by name; queries shorter than two
	// characters return an empty result.
	Search(ctx context.Context, query string) ([]model.University, error)
	// Lookup returns the exact (case-insensitive) name match in country.
	Lookup(ctx context.Context, name, country string) (*model.University, error)
	// ForCountries merges ByCountry over several countries, skipping the
	// ones that fail. It errors only when every country failed.
	ForCountries(ctx context.Context, countries []string, perCountry int) ([]model.University, error)
}

type hipoClient struct {
	baseURL       string
	http          *http.Client
	retries       int
	backoff       time.Duration
	maxPerCountry int
	cache         Cache
	now           func() time.Time
	logger        *zap.Logger
}

// NewClient creates a Hipo Labs client. cache may be nil.
func NewClient(cfg *config.DirectoryConfig, cache Cache, logger *zap.Logger) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &hipoClient{
		baseURL:       cfg.BaseURL,
		http:          &http.Client{Timeout: timeout},
		retries:       max(cfg.Retries, 0),
		backoff:       cfg.RetryBackoff,
		maxPerCountry: cfg.MaxPerCountry,
		cache:         cache,
		now:           time.Now,
		logger:        logger,
	}
}

func (c *hipoClient) ByCountry(ctx context.Context, name string) ([]model.University, error) {
	canon := country.Canonical(name)
	ctx, span := tracer.Start(ctx, "directory.ByCountry", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("country", canon))

	key := "country:" + strings.ToLower(canon)
	if cached, ok := c.cacheGet(ctx, key); ok {
		return cached, nil
	}

	var (
		out []model.University
		err error
	)
	if canon == usCountry {
		out, err = c.fetchUS(ctx)
	} else {
		var raw []apiUniversity
		raw, err = c.get(ctx, url.Values{"country": {canon}})
		out = c.transformAll(raw, canon, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: country %s: %w", ErrSourceUnavailable, canon, err)
	}

	if c.maxPerCountry > 0 && len(out) > c.maxPerCountry {
		out = out[:c.maxPerCountry]
	}
	c.cacheSet(ctx, key, out)
	return out, nil
}

// fetchUS runs every search term, keeping the first five hits per term,
// and stops once enough distinct names were collected.
func (c *hipoClient) fetchUS(ctx context.Context) ([]model.University, error) {
	seen := make(map[string]bool)
	out := []model.University{}
	var failures int
	var lastErr error

	for _, term := range usSearchTerms {
		raw, err := c.get(ctx, url.Values{"name": {term}, "country": {usCountry}})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failures++
			lastErr = err
			c.logger.Warn("directory search term failed", zap.String("term", term), zap.Error(err))
			continue
		}
		for _, u := range c.transformAll(raw, usCountry, usPerTerm) {
			if seen[u.Name] {
				continue
			}
			seen[u.Name] = true
			out = append(out, u)
		}
		if len(out) >= usMaxResults {
			break
		}
	}

	if failures == len(usSearchTerms) {
		return nil, lastErr
	}
	if len(out) > usMaxResults {
		out = out[:usMaxResults]
	}
	return out, nil
}

func (c *hipoClient) Search(ctx context.Context, query string) ([]model.University, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLen {
		return []model.University{}, nil
	}
	ctx, span := tracer.Start(ctx, "directory.Search", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	key := "search:" + strings.ToLower(query)
	if cached, ok := c.cacheGet(ctx, key); ok {
		return cached, nil
	}

	raw, err := c.get(ctx, url.Values{"name": {query}})
	if err != nil {
		return nil, fmt.Errorf("%w: search %q: %w", ErrSourceUnavailable, query, err)
	}
	if len(raw) > searchLimit {
		raw = raw[:searchLimit]
	}
	now := c.now()
	out := make([]model.University, 0, len(raw))
	for _, r := range raw {
		out = append(out, transform(r, country.Canonical(r.Country), now))
	}

	c.cacheSet(ctx, key, out)
	return out, nil
}

func (c *hipoClient) Lookup(ctx context.Context, name, countryName string) (*model.University, error) {
	canon := country.Canonical(countryName)
	ctx, span := tracer.Start(ctx, "directory.Lookup", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	raw, err := c.get(ctx, url.Values{"name": {name}, "country": {canon}})
	if err != nil {
		return nil, fmt.Errorf("%w: lookup %q: %w", ErrSourceUnavailable, name, err)
	}
	for _, r := range raw {
		if strings.EqualFold(r.Name, name) {
			u := transform(r, canon, c.now())
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (c *hipoClient) ForCountries(ctx context.Context, countries []string, perCountry int) ([]model.University, error) {
	countries = country.CanonicalAll(countries)
	if len(countries) == 0 {
		return []model.University{}, nil
	}

	results := make([][]model.University, len(countries))
	var mu sync.Mutex
	var failed []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countryFanout)
	for i, name := range countries {
		g.Go(func() error {
			unis, err := c.ByCountry(gctx, name)
			if err != nil {
				c.logger.Warn("skipping country", zap.String("country", name), zap.Error(err))
				mu.Lock()
				failed = append(failed, name)
				mu.Unlock()
				return nil
			}
			if perCountry > 0 && len(unis) > perCountry {
				unis = unis[:perCountry]
			}
			results[i] = unis
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if len(failed) == len(countries) {
		return nil, fmt.Errorf("%w: all countries failed: %s", ErrSourceUnavailable, strings.Join(failed, ", "))
	}

	out := []model.University{}
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// statusError a non-200 answer from the directory.
type statusError struct {
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("unexpected status %d", e.code) }

// linearBackOff waits step, 2*step, 3*step, ...
type linearBackOff struct {
	step time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return b.step * time.Duration(b.n)
}

func (b *linearBackOff) Reset() { b.n = 0 }

// get performs the request with bounded retries and linear backoff.
// Only transport failures, 5xx and 429 are retried.
func (c *hipoClient) get(ctx context.Context, params url.Values) ([]apiUniversity, error) {
	attempt := 0
	out, err := backoff.Retry(ctx, func() ([]apiUniversity, error) {
		attempt++
		return c.do(ctx, params)
	},
		backoff.WithBackOff(&linearBackOff{step: c.backoff}),
		backoff.WithMaxTries(uint(c.retries+1)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.logger.Debug("directory request failed",
				zap.Int("attempt", attempt),
				zap.Duration("retry_in", wait),
				zap.String("query", params.Encode()),
				zap.Error(err),
			)
		}),
	)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	return out, err
}

func (c *hipoClient) do(ctx context.Context, params url.Values) ([]apiUniversity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		if secs, convErr := strconv.Atoi(resp.Header.Get("Retry-After")); convErr == nil && secs > 0 {
			return nil, fmt.Errorf("%w: %w", &statusError{code: resp.StatusCode}, backoff.RetryAfter(secs))
		}
		return nil, &statusError{code: resp.StatusCode}
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, &statusError{code: resp.StatusCode}
	default:
		return nil, backoff.Permanent(&statusError{code: resp.StatusCode})
	}

	var out []apiUniversity
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return out, nil
}

func (c *hipoClient) transformAll(raw []apiUniversity, countryName string, limit int) []model.University {
	if limit > 0 && len(raw) > limit {
		raw = raw[:limit]
	}
	now := c.now()
	out := make([]model.University, 0, len(raw))
	for _, r := range raw {
		out = append(out, transform(r, countryName, now))
	}
	return out
}

func (c *hipoClient) cacheGet(ctx context.Context, key string) ([]model.University, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(ctx, key)
}

func (c *hipoClient) cacheSet(ctx context.Context, key string, v []model.University) {
	if c.cache != nil {
		c.cache.Set(ctx, key, v)
	}
}

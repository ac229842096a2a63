// Package dataset loads the master session dataset from a local file or
// over HTTP from the portal's object store.
package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/flapwatch/flapwatch/pkg/flapcache"
	"github.com/flapwatch/flapwatch/pkg/session"
)

// Loader fetches dataset documents. The cache is optional.
type Loader struct {
	httpClient *http.Client
	cache      *flapcache.Cache
	logger     *slog.Logger
}

// NewLoader builds a Loader; cache may be nil to disable caching.
func NewLoader(cache *flapcache.Cache, logger *slog.Logger) *Loader {
	return &Loader{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache,
		logger:     logger,
	}
}

// Load reads a dataset from a file path or an http(s) URL and decodes it
// into raw session records.
func (l *Loader) Load(ctx context.Context, source string) ([]session.Record, error) {
	var data []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = l.fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("loading dataset from %s: %w", source, err)
	}

	records, err := session.DecodeDataset(data)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("dataset loaded", "source", source, "records", len(records))
	return records, nil
}

// fetch retrieves a dataset URL with exponential backoff, consulting the
// cache first and filling it on success.
func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.cache != nil {
		if data, found := l.cache.Get(url); found {
			l.logger.Debug("dataset cache hit", "url", url)
			return data, nil
		}
	}

	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
			if err != nil {
				return err
			}
			resp, err := l.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close() //nolint:errcheck // read-only body
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("HTTP %d fetching dataset", resp.StatusCode)
			}
			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(4),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			l.logger.Debug("retrying dataset fetch", "attempt", n+1, "url", url, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		l.cache.Set(url, body)
	}
	return body, nil
}

// WarnOnGaps logs a warning for each gap of more than 14 days between
// consecutive event dates. Large gaps mean missing reports upstream and
// weaker state tracking across them.
func WarnOnGaps(events []session.Event, logger *slog.Logger) {
	for i := 1; i < len(events); i++ {
		gap := events[i].Date.Sub(events[i-1].Date)
		if days := int(gap.Hours() / 24); days > 14 {
			logger.Warn("large gap in dataset",
				"days", days,
				"from", events[i-1].Date.Format("2006-01-02"),
				"to", events[i].Date.Format("2006-01-02"))
		}
	}
}

package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"dental-calls-go/internal/logger"
)

// HTTPSource downloads a CSV export, e.g. a published spreadsheet.
type HTTPSource struct {
	URL        string
	Client     *http.Client
	MaxRetries uint64 // 0 means a single attempt
	Log        *logger.Logger
}

func NewHTTPSource(url string, timeout time.Duration, maxRetries uint64, log *logger.Logger) *HTTPSource {
	return &HTTPSource{
		URL:        url,
		Client:     &http.Client{Timeout: timeout},
		MaxRetries: maxRetries,
		Log:        log,
	}
}

func (s *HTTPSource) Describe() string { return s.URL }

func (s *HTTPSource) Fetch(ctx context.Context) (Table, error) {
	if s.URL == "" {
		return Table{}, fmt.Errorf("source url not configured")
	}
	log := s.Log
	if log == nil {
		log = logger.FromEnv()
	}
	log = log.Component("dataset.fetch")

	var out Table
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := s.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			err := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
			if resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}

		t, err := ReadCSV(resp.Body)
		if err != nil {
			return backoff.Permanent(err)
		}
		out = t
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.MaxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		log.WithError(err).WithField("retry_in_ms", wait.Milliseconds()).Warn("source fetch failed, retrying")
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return Table{}, fmt.Errorf("fetch %s: %w", s.URL, err)
	}

	log.WithField("rows", out.Len()).WithField("columns", len(out.Header)).Info("source fetched")
	return out, nil
}

// NewSource prefers a local file when path is set, the remote export otherwise.
func NewSource(url, path string, timeout time.Duration, maxRetries uint64, log *logger.Logger) Source {
	if path != "" {
		return FileSource{Path: path}
	}
	return NewHTTPSource(url, timeout, maxRetries, log)
}

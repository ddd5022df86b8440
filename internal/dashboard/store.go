package dashboard

import (
	"context"
	"sync"
	"time"

	"dental-calls-go/internal/classifier"
	"dental-calls-go/internal/dataset"
	"dental-calls-go/internal/logger"
	"dental-calls-go/internal/metrics"
	"dental-calls-go/internal/types"
)

// RecordProvider hands out the derived call log.
type RecordProvider interface {
	Records(ctx context.Context) ([]types.CallRecord, error)
}

// Store loads the call log once and serves the same immutable records for
// the lifetime of the process. A failed load is remembered too: callers get
// the error and an empty record set.
type Store struct {
	source  dataset.Source
	log     *logger.Logger
	metrics *metrics.Metrics

	once    sync.Once
	records []types.CallRecord
	err     error
}

func NewStore(source dataset.Source, log *logger.Logger, m *metrics.Metrics) *Store {
	if log == nil {
		log = logger.FromEnv()
	}
	return &Store{source: source, log: log.Component("dashboard.store"), metrics: m}
}

// Records returns the derived records, loading them on first use. The
// returned slice must not be modified.
func (s *Store) Records(ctx context.Context) ([]types.CallRecord, error) {
	s.once.Do(func() { s.load(ctx) })
	return s.records, s.err
}

func (s *Store) load(ctx context.Context) {
	start := time.Now()
	log := s.log.WithField("source", s.source.Describe())
	log.Info("loading call records")

	defer func() {
		if s.metrics != nil {
			s.metrics.LoadDuration.Observe(time.Since(start).Seconds())
		}
	}()

	tbl, err := s.source.Fetch(ctx)
	if err != nil {
		s.err = err
		s.records = []types.CallRecord{}
		log.WithField("error", err.Error()).Error("failed to load call records")
		if s.metrics != nil {
			s.metrics.LoadFailures.Inc()
			s.metrics.RecordsLoaded.Set(0)
		}
		return
	}

	s.records = dataset.Derive(tbl)
	if s.metrics != nil {
		s.metrics.RecordsLoaded.Set(float64(len(s.records)))
		counts := map[classifier.Category]int{}
		for _, r := range s.records {
			counts[r.Category]++
		}
		for _, c := range classifier.All() {
			s.metrics.RecordsByCategory.WithLabelValues(string(c)).Set(float64(counts[c]))
		}
	}
	log.WithField("records", len(s.records)).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("call records loaded")
}

package sheet

import (
	"context"
	"time"

	"github.com/htu-dlearn/courseboard/internal/config"
	"github.com/htu-dlearn/courseboard/internal/course"
	applog "github.com/htu-dlearn/courseboard/internal/log"
	"github.com/htu-dlearn/courseboard/internal/ui"
)

// Store serves the datasets of the configured sources.
type Store struct {
	cfg     *config.Config
	fetcher *Fetcher
	cache   *Cache
	loads   *ui.LoadLogStore
}

// NewStore wires cfg's sources to a fetcher and an empty cache. loads may
// be nil.
func NewStore(cfg *config.Config, loads *ui.LoadLogStore) *Store {
	own := *cfg
	own.Sources = append([]config.SourceConfig(nil), cfg.Sources...)
	return &Store{
		cfg:     &own,
		fetcher: NewFetcher(cfg.FetchTimeout()),
		cache:   NewCache(),
		loads:   loads,
	}
}

func (s *Store) Sources() []config.SourceConfig {
	return append([]config.SourceConfig(nil), s.cfg.Sources...)
}

func (s *Store) Source(key string) (config.SourceConfig, bool) {
	return s.cfg.SourceByKey(key)
}

func cacheKey(src config.SourceConfig) Key {
	return Key{Source: src.Key, Params: src.Format + "|" + src.Sheet + "|" + src.URL}
}

// Dataset returns the normalized dataset of source key, fetching it on
// first use.
func (s *Store) Dataset(ctx context.Context, key string) (*course.Dataset, error) {
	src, ok := s.Source(key)
	if !ok {
		return nil, ErrUnknownSource
	}
	return s.cache.Get(ctx, cacheKey(src), func(ctx context.Context) (*course.Dataset, error) {
		return s.load(ctx, src)
	})
}

func (s *Store) load(ctx context.Context, src config.SourceConfig) (d *course.Dataset, err error) {
	start := time.Now()
	defer func() {
		entry := ui.LoadEntry{When: start, Source: src.Key, Duration: time.Since(start)}
		if err != nil {
			entry.Err = err.Error()
			applog.Warnf("load %s failed: %v", src.Key, err)
		} else {
			entry.Rows = len(d.Records)
			applog.Infof("loaded %s: %d rows, %d task columns in %s", src.Key, len(d.Records), len(d.Tasks), entry.Duration.Round(time.Millisecond))
		}
		if s.loads != nil {
			s.loads.Append(entry)
		}
	}()

	body, err := s.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, &LoadError{Source: src.Key, Stage: "fetch", Err: err}
	}
	t, err := Parse(src.Format, src.Sheet, body)
	if err != nil {
		return nil, &LoadError{Source: src.Key, Stage: "parse", Err: err}
	}
	return course.NewDataset(src.Key, t.Header, t.Rows), nil
}

// Refresh invalidates source key, or every source when key is empty.
func (s *Store) Refresh(key string) error {
	if key == "" {
		n := s.cache.InvalidateAll()
		applog.Infof("cache cleared (%d datasets)", n)
		return nil
	}
	if _, ok := s.Source(key); !ok {
		return ErrUnknownSource
	}
	n := s.cache.Invalidate(key)
	applog.Infof("cache cleared for %s (%d datasets)", key, n)
	return nil
}

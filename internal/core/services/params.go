package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/parchment-labs/noteseek/internal/core/domain"
	"github.com/parchment-labs/noteseek/internal/core/ports/driven"
	"github.com/parchment-labs/noteseek/internal/logger"
)

// ParamsService provides the live-tunable search parameter snapshot.
// Persisted overrides are merged over the hard-wired defaults on Reload;
// Snapshot never blocks and always returns one consistent value, so a
// query captures its parameters once and is unaffected by a concurrent
// reload.
type ParamsService struct {
	store    driven.ParamStore
	snapshot atomic.Pointer[domain.SearchParams]
}

// NewParamsService creates a params provider seeded with the defaults.
// store may be nil, in which case only defaults are served.
func NewParamsService(store driven.ParamStore) *ParamsService {
	s := &ParamsService{store: store}
	p := domain.DefaultSearchParams()
	s.snapshot.Store(&p)
	return s
}

// Snapshot returns the current parameter values by copy.
func (s *ParamsService) Snapshot() domain.SearchParams {
	return *s.snapshot.Load()
}

// Reload merges persisted overrides over the defaults and swaps the
// snapshot. Unknown parameter names are warned about and skipped.
func (s *ParamsService) Reload(ctx context.Context) error {
	p := domain.DefaultSearchParams()
	if s.store != nil {
		overrides, err := s.store.LoadParams(ctx)
		if err != nil {
			return fmt.Errorf("load search params: %w", err)
		}
		for name, value := range overrides {
			if !p.Apply(name, value) {
				logger.Warn("Ignoring unknown search parameter %q", name)
			}
		}
	}
	s.snapshot.Store(&p)
	return nil
}

// Set validates and persists one override, then reloads the snapshot so
// the change takes effect on the next query without restart.
func (s *ParamsService) Set(ctx context.Context, name string, value float64) error {
	probe := domain.DefaultSearchParams()
	if !probe.Apply(name, value) {
		return fmt.Errorf("%w: unknown parameter %q", domain.ErrInvalidInput, name)
	}
	if s.store == nil {
		return fmt.Errorf("%w: no parameter store configured", domain.ErrInvalidInput)
	}
	if err := s.store.SaveParam(ctx, name, value); err != nil {
		return fmt.Errorf("save search param %q: %w", name, err)
	}
	return s.Reload(ctx)
}

// Watch reloads the snapshot whenever path changes on disk, until ctx is
// cancelled. Used to pick up external tuning of the settings store while
// a long-lived process is serving queries.
func (s *ParamsService) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create params watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				logger.Debug("Params file changed (%s), reloading", event.Name)
				if err := s.Reload(ctx); err != nil {
					logger.Warn("Params reload failed: %v", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Params watcher error: %v", err)
			}
		}
	}()

	return nil
}

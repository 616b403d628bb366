package mcpserver

import (
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/erraggy/typeschema/internal/config"
	"github.com/erraggy/typeschema/internal/loader"
	"github.com/erraggy/typeschema/synth"
)

// state holds one engine per loaded source. Engines are not safe for
// concurrent use, so every tool call holds mu for its whole duration.
type state struct {
	mu      sync.Mutex
	cfg     *config.Config
	logger  *slog.Logger
	engines *lru.Cache[string, *synth.Engine]
}

func newState(cfg *config.Config, logger *slog.Logger) (*state, error) {
	engines, err := lru.NewWithEvict(cfg.MaxSources, func(key string, e *synth.Engine) {
		logger.Debug("dropping source", "key", key)
		_ = e.Dispose()
	})
	if err != nil {
		return nil, err
	}
	return &state{cfg: cfg, logger: logger, engines: engines}, nil
}

// engine returns the engine for src, loading the source on first use.
// Callers must hold mu.
func (st *state) engine(src loader.Source) (*synth.Engine, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	key, err := src.Key()
	if err != nil {
		return nil, err
	}
	if e, ok := st.engines.Get(key); ok {
		return e, nil
	}
	provider, err := loader.Open(src)
	if err != nil {
		return nil, err
	}
	e, err := synth.New(provider, st.cfg.Options(st.logger)...)
	if err != nil {
		return nil, err
	}
	st.engines.Add(key, e)
	st.logger.Debug("loaded source", "key", key)
	return e, nil
}

// drop removes the engine for src and reports whether one was loaded.
func (st *state) drop(src loader.Source) (bool, error) {
	key, err := src.Key()
	if err != nil {
		return false, err
	}
	return st.engines.Remove(key), nil
}

func (st *state) close() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.engines.Purge()
}

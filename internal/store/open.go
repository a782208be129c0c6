package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ejcents/schoolfix-minicapstone/internal/config"
)

// Open builds the configured store backend and applies the startup slot
// policy: the issues slot is cleared (issues intentionally do not survive a
// restart) while the users slot is left untouched.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Store.Backend {
	case "", "memory":
		s = NewMemoryStore()
	case "redis":
		s = NewRedisStore(cfg.Redis, logger)
	case "postgres":
		s, err = NewPostgresStore(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Store.ResetIssuesOnStart {
		if err := s.Delete(ctx, SlotIssues); err != nil {
			logger.Warn("failed to reset issues slot", zap.Error(err))
		}
	}
	return s, nil
}

package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ejcents/schoolfix-minicapstone/internal/config"
)

// PostgresStore persists slots as rows in a single kv_slots table, one JSON
// document per slot. There is no relational schema beyond the slot table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore establishes a connection pool and ensures the slot table
// exists.
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, errors.New("POSTGRES_DSN required for postgres store backend")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	const schema = `
        CREATE TABLE IF NOT EXISTS kv_slots (
            key TEXT PRIMARY KEY,
            doc JSONB NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT doc FROM kv_slots WHERE key=$1`
	var doc []byte
	if err := p.pool.QueryRow(ctx, query, key).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return doc, true, nil
}

func (p *PostgresStore) Put(ctx context.Context, key string, doc []byte) error {
	const query = `
        INSERT INTO kv_slots (key, doc, updated_at) VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET doc=EXCLUDED.doc, updated_at=NOW()`
	_, err := p.pool.Exec(ctx, query, key, doc)
	return err
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM kv_slots WHERE key=$1`
	_, err := p.pool.Exec(ctx, query, key)
	return err
}

// Ping verifies database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.pool.Ping(ctx)
}

// Close releases pool resources.
func (p *PostgresStore) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

// Package store implements the persisted key-value slots backing the user
// directory and the issue ledger. Each slot holds one JSON document; the
// whole document is rewritten on every save.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Slot keys. The users slot survives restarts; the issues slot is cleared at
// process start. The session slot holds the sanitized active account.
const (
	SlotUsers   = "users"
	SlotSession = "user"
	SlotIssues  = "issues"
)

// Store is the byte-level slot contract. Get reports absence via the second
// return value rather than an error so callers can branch without sentinel
// comparisons.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, doc []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close()
}

// Load reads and decodes the slice document stored under key. A missing slot
// yields an empty slice and ok=false.
func Load[T any](ctx context.Context, s Store, key string) ([]T, bool, error) {
	doc, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("load slot %s: %w", key, err)
	}
	if !ok {
		return []T{}, false, nil
	}
	var records []T
	if err := json.Unmarshal(doc, &records); err != nil {
		return nil, false, fmt.Errorf("decode slot %s: %w", key, err)
	}
	return records, true, nil
}

// Save encodes records as one JSON document and writes it under key.
func Save[T any](ctx context.Context, s Store, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	doc, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", key, err)
	}
	if err := s.Put(ctx, key, doc); err != nil {
		return fmt.Errorf("save slot %s: %w", key, err)
	}
	return nil
}

// LoadOne reads a single-record slot, such as the active session.
func LoadOne[T any](ctx context.Context, s Store, key string) (*T, bool, error) {
	doc, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("load slot %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	var record T
	if err := json.Unmarshal(doc, &record); err != nil {
		return nil, false, fmt.Errorf("decode slot %s: %w", key, err)
	}
	return &record, true, nil
}

// SaveOne writes a single-record slot.
func SaveOne[T any](ctx context.Context, s Store, key string, record T) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", key, err)
	}
	if err := s.Put(ctx, key, doc); err != nil {
		return fmt.Errorf("save slot %s: %w", key, err)
	}
	return nil
}

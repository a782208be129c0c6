package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ejcents/schoolfix-minicapstone/internal/auth"
	"github.com/ejcents/schoolfix-minicapstone/internal/config"
	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
	"github.com/ejcents/schoolfix-minicapstone/internal/events"
	"github.com/ejcents/schoolfix-minicapstone/internal/store"
	apperrors "github.com/ejcents/schoolfix-minicapstone/pkg/util"
)

// Directory owns the canonical account list. Accounts are never deleted and
// never edited after registration; the list is flushed to the users slot on
// every change, best-effort.
type Directory struct {
	mu         sync.Mutex
	store      store.Store
	hasher     auth.CredentialHasher
	dispatcher events.Dispatcher
	logger     *zap.Logger
	accounts   []domain.Account
}

// DirectoryDependencies bundles collaborators for the directory.
type DirectoryDependencies struct {
	Store      store.Store
	Hasher     auth.CredentialHasher
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewDirectory loads the users slot and seeds the bootstrap admin account
// when the slot is empty or missing.
func NewDirectory(ctx context.Context, seed config.SeedConfig, deps DirectoryDependencies) (*Directory, error) {
	d := &Directory{
		store:      deps.Store,
		hasher:     deps.Hasher,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}

	accounts, _, err := store.Load[domain.Account](ctx, d.store, store.SlotUsers)
	if err != nil {
		return nil, err
	}
	d.accounts = accounts

	if len(d.accounts) == 0 {
		password, err := d.hasher.Hash(seed.AdminPassword)
		if err != nil {
			return nil, err
		}
		d.accounts = append(d.accounts, domain.Account{
			ID:       uuid.NewString(),
			Name:     seed.AdminName,
			Email:    seed.AdminEmail,
			Password: password,
			Role:     domain.RoleAdmin,
		})
		d.flush(ctx)
		d.logger.Info("seeded bootstrap admin", zap.String("email", seed.AdminEmail))
	}

	return d, nil
}

// FindByCredentials authenticates by exact, case-sensitive email match and
// credential comparison. On success the sanitized account is written to the
// session slot.
func (d *Directory) FindByCredentials(ctx context.Context, email, password string) (*domain.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.accounts {
		if d.accounts[i].Email != email {
			continue
		}
		if err := d.hasher.Compare(d.accounts[i].Password, password); err != nil {
			return nil, apperrors.NewAuthError("invalid email or password")
		}
		account := d.accounts[i]
		d.persistSession(ctx, account)
		return &account, nil
	}
	return nil, apperrors.NewAuthError("invalid email or password")
}

// Register creates a new account. Duplicate emails fail without mutating the
// directory; the new account becomes the active session.
func (d *Directory) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, error) {
	if !domain.ValidRole(role) {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.accounts {
		if d.accounts[i].Email == email {
			return nil, apperrors.NewAuthError("email already exists")
		}
	}

	hashed, err := d.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	account := domain.Account{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
	}
	d.accounts = append(d.accounts, account)
	d.flush(ctx)
	d.persistSession(ctx, account)
	d.publish(ctx, account)
	return &account, nil
}

// GetByID looks up an account. Absence is reported, not an error.
func (d *Directory) GetByID(_ context.Context, id string) (*domain.Account, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.accounts {
		if d.accounts[i].ID == id {
			account := d.accounts[i]
			return &account, true
		}
	}
	return nil, false
}

// ListSanitized returns password-stripped projections in insertion order.
func (d *Directory) ListSanitized() []domain.SanitizedAccount {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]domain.SanitizedAccount, 0, len(d.accounts))
	for i := range d.accounts {
		out = append(out, d.accounts[i].Sanitize())
	}
	return out
}

// ListByRole returns the sanitized subset holding the given role.
func (d *Directory) ListByRole(role domain.Role) []domain.SanitizedAccount {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := []domain.SanitizedAccount{}
	for i := range d.accounts {
		if d.accounts[i].Role == role {
			out = append(out, d.accounts[i].Sanitize())
		}
	}
	return out
}

// Logout clears the active session slot.
func (d *Directory) Logout(ctx context.Context) {
	if err := d.store.Delete(ctx, store.SlotSession); err != nil {
		d.logger.Warn("failed to clear session slot", zap.Error(err))
	}
}

// Session returns the persisted active session, if any.
func (d *Directory) Session(ctx context.Context) (*domain.SanitizedAccount, bool) {
	session, ok, err := store.LoadOne[domain.SanitizedAccount](ctx, d.store, store.SlotSession)
	if err != nil {
		d.logger.Warn("failed to load session slot", zap.Error(err))
		return nil, false
	}
	return session, ok
}

// flush persists the full directory. Write failures are logged and not
// surfaced; persistence is best-effort by contract.
func (d *Directory) flush(ctx context.Context) {
	if err := store.Save(ctx, d.store, store.SlotUsers, d.accounts); err != nil {
		d.logger.Warn("failed to persist users", zap.Error(err))
	}
}

func (d *Directory) persistSession(ctx context.Context, account domain.Account) {
	if err := store.SaveOne(ctx, d.store, store.SlotSession, account.Sanitize()); err != nil {
		d.logger.Warn("failed to persist session", zap.Error(err))
	}
}

func (d *Directory) publish(ctx context.Context, account domain.Account) {
	if d.dispatcher == nil {
		return
	}
	_ = d.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAccountRegistered,
		Timestamp: time.Now(),
		Actor: events.Actor{
			AccountID: account.ID,
			Role:      account.Role,
		},
		Payload: events.AccountRegisteredPayload{
			AccountID: account.ID,
			Role:      account.Role,
		},
	})
}

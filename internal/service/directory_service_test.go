package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ejcents/schoolfix-minicapstone/internal/auth"
	"github.com/ejcents/schoolfix-minicapstone/internal/config"
	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
	"github.com/ejcents/schoolfix-minicapstone/internal/store"
	apperrors "github.com/ejcents/schoolfix-minicapstone/pkg/util"
)

var testSeed = config.SeedConfig{
	AdminName:     "Admin User",
	AdminEmail:    "admin@school.edu",
	AdminPassword: "admin123",
}

func newTestDirectory(t *testing.T) (*Directory, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	d, err := NewDirectory(context.Background(), testSeed, DirectoryDependencies{
		Store:  st,
		Hasher: auth.PlaintextHasher{},
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	return d, st
}

func TestNewDirectory_SeedsBootstrapAdmin(t *testing.T) {
	d, st := newTestDirectory(t)

	accounts := d.ListSanitized()
	require.Len(t, accounts, 1)
	assert.Equal(t, "admin@school.edu", accounts[0].Email)
	assert.Equal(t, domain.RoleAdmin, accounts[0].Role)

	// The seeded directory is flushed immediately.
	stored, ok, err := store.Load[domain.Account](context.Background(), st, store.SlotUsers)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, stored, 1)
}

func TestNewDirectory_ExistingUsersSurviveRestart(t *testing.T) {
	d, st := newTestDirectory(t)
	_, err := d.Register(context.Background(), "Jane", "jane@school.edu", "pw", domain.RoleFaculty)
	require.NoError(t, err)

	// A second directory over the same store sees the same accounts and does
	// not re-seed.
	reopened, err := NewDirectory(context.Background(), testSeed, DirectoryDependencies{
		Store:  st,
		Hasher: auth.PlaintextHasher{},
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	assert.Len(t, reopened.ListSanitized(), 2)
}

func TestRegister_AssignsDistinctIDs(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for _, email := range []string{"a@school.edu", "b@school.edu", "c@school.edu"} {
		account, err := d.Register(ctx, "Someone", email, "pw", domain.RoleStudent)
		require.NoError(t, err)
		assert.False(t, seen[account.ID], "duplicate id %s", account.ID)
		seen[account.ID] = true
	}
}

func TestRegister_DuplicateEmailFailsWithoutMutation(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	_, err := d.Register(ctx, "Jane", "jane@school.edu", "pw", domain.RoleFaculty)
	require.NoError(t, err)
	before := d.ListSanitized()

	_, err = d.Register(ctx, "Impostor", "jane@school.edu", "other", domain.RoleStudent)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "AUTH_FAILED", domainErr.Code)
	assert.Equal(t, before, d.ListSanitized())
}

func TestRegister_EmailMatchIsCaseSensitive(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	_, err := d.Register(ctx, "Jane", "jane@school.edu", "pw", domain.RoleFaculty)
	require.NoError(t, err)

	// A differently-cased email is a distinct account.
	_, err = d.Register(ctx, "Jane", "Jane@school.edu", "pw", domain.RoleFaculty)
	assert.NoError(t, err)
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	d, _ := newTestDirectory(t)

	_, err := d.Register(context.Background(), "X", "x@school.edu", "pw", domain.Role("janitor"))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestFindByCredentials(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	account, err := d.FindByCredentials(ctx, "admin@school.edu", "admin123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, account.Role)

	_, err = d.FindByCredentials(ctx, "admin@school.edu", "wrong")
	require.Error(t, err)
	assert.Equal(t, "AUTH_FAILED", apperrors.ToDomainError(err).Code)

	_, err = d.FindByCredentials(ctx, "Admin@school.edu", "admin123")
	assert.Error(t, err, "email comparison is case-sensitive")

	_, err = d.FindByCredentials(ctx, "nobody@school.edu", "admin123")
	assert.Error(t, err)
}

func TestLogin_PersistsSanitizedSession(t *testing.T) {
	d, st := newTestDirectory(t)
	ctx := context.Background()

	_, ok := d.Session(ctx)
	assert.False(t, ok, "no session before login")

	_, err := d.FindByCredentials(ctx, "admin@school.edu", "admin123")
	require.NoError(t, err)

	session, ok := d.Session(ctx)
	require.True(t, ok)
	assert.Equal(t, "admin@school.edu", session.Email)

	// The slot holds the sanitized projection.
	stored, ok, err := store.LoadOne[domain.SanitizedAccount](ctx, st, store.SlotSession)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "admin@school.edu", stored.Email)

	d.Logout(ctx)
	_, ok = d.Session(ctx)
	assert.False(t, ok)
}

func TestListSanitized_NeverExposesPasswords(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	_, err := d.Register(ctx, "Jane", "jane@school.edu", "topsecret", domain.RoleFaculty)
	require.NoError(t, err)

	for _, account := range d.ListSanitized() {
		// SanitizedAccount has no password field at all; spot-check the
		// serialized form anyway.
		assert.NotContains(t, []string{"admin123", "topsecret"}, account.Email)
	}
}

func TestListByRole(t *testing.T) {
	d, _ := newTestDirectory(t)
	ctx := context.Background()

	_, err := d.Register(ctx, "Bob", "bob@school.edu", "pw", domain.RoleMaintenance)
	require.NoError(t, err)
	_, err = d.Register(ctx, "Jane", "jane@school.edu", "pw", domain.RoleFaculty)
	require.NoError(t, err)

	staff := d.ListByRole(domain.RoleMaintenance)
	require.Len(t, staff, 1)
	assert.Equal(t, "Bob", staff[0].Name)

	assert.Empty(t, d.ListByRole(domain.RoleStudent))
}

func TestDirectory_BcryptHasherRoundTrip(t *testing.T) {
	st := store.NewMemoryStore()
	d, err := NewDirectory(context.Background(), testSeed, DirectoryDependencies{
		Store:  st,
		Hasher: auth.BcryptHasher{Cost: 4},
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)

	account, err := d.FindByCredentials(context.Background(), "admin@school.edu", "admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", account.Password, "stored credential is hashed")
}

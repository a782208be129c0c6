package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, exp, err := tm.GenerateToken("acct-1", domain.RoleFaculty)
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims.AccountID)
	assert.Equal(t, domain.RoleFaculty, claims.Role)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 60).GenerateToken("acct-1", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).ParseToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", 60).ParseToken("not-a-token")
	assert.Error(t, err)
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaintextHasher_ExactMatch(t *testing.T) {
	h := PlaintextHasher{}

	stored, err := h.Hash("admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin123", stored)

	assert.NoError(t, h.Compare(stored, "admin123"))
	assert.Error(t, h.Compare(stored, "Admin123"))
	assert.Error(t, h.Compare(stored, "admin1234"))
	assert.Error(t, h.Compare(stored, ""))
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := BcryptHasher{Cost: 4}

	stored, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored)

	assert.NoError(t, h.Compare(stored, "s3cret"))
	assert.Error(t, h.Compare(stored, "wrong"))
}

package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// CredentialHasher isolates password storage format from the directory's
// contract. The directory only ever calls Hash on registration and Compare
// on login, so a deployment can swap implementations without touching it.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Compare(stored, plain string) error
}

// BcryptHasher stores bcrypt digests. The default.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h BcryptHasher) Compare(stored, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain))
}

// PlaintextHasher stores passwords verbatim, reproducing the legacy behavior
// this service replaces. Exact, case-sensitive comparison.
type PlaintextHasher struct{}

var errPasswordMismatch = errors.New("password mismatch")

func (PlaintextHasher) Hash(password string) (string, error) {
	return password, nil
}

func (PlaintextHasher) Compare(stored, plain string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) != 1 {
		return errPasswordMismatch
	}
	return nil
}

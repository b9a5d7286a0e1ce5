package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/authgate/resource-api/internal/core/domain"
	"github.com/authgate/resource-api/internal/core/ports"
)

var (
	decoyMu     sync.Mutex
	decoyByCost = map[int][]byte{}
)

// decoyHash returns a hash of the given cost, compared against when the
// username is unknown so that both failure paths cost the same bcrypt work.
func decoyHash(cost int) []byte {
	decoyMu.Lock()
	defer decoyMu.Unlock()
	if h, ok := decoyByCost[cost]; ok {
		return h
	}
	h, err := bcrypt.GenerateFromPassword([]byte("decoy-password"), cost)
	if err != nil {
		h, _ = bcrypt.GenerateFromPassword([]byte("decoy-password"), bcrypt.DefaultCost)
	}
	decoyByCost[cost] = h
	return h
}

// CredentialVerifier checks a username/password pair against the stored bcrypt hash.
type CredentialVerifier struct {
	repo  ports.AuthRepository
	decoy []byte
}

// NewCredentialVerifier builds a verifier whose decoy hash uses cost, which
// must match the cost new passwords are hashed with.
func NewCredentialVerifier(repo ports.AuthRepository, cost int) *CredentialVerifier {
	return &CredentialVerifier{repo: repo, decoy: decoyHash(cost)}
}

// Verify returns the stored identity when password matches. It fails with
// domain.ErrUserNotFound, domain.ErrInvalidCredentials, a wrapped
// domain.ErrStoreUnavailable, or the context error when ctx is done.
func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user, err := v.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(v.decoy, []byte(password))
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

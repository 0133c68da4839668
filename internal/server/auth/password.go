package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mindease/internal/common"
	"github.com/dmitrijs2005/mindease/internal/server/models"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordHasher hashes and verifies secrets with bcrypt. At most
// `workers` bcrypt operations run at once; callers queue on ctx.
type PasswordHasher struct {
	cost  int
	sem   *semaphore.Weighted
	dummy func() string
}

func NewPasswordHasher(cost, workers int) *PasswordHasher {
	if workers < 1 {
		workers = 1
	}
	h := &PasswordHasher{cost: cost, sem: semaphore.NewWeighted(int64(workers))}
	h.dummy = sync.OnceValue(func() string {
		b := make([]byte, 16)
		_, _ = rand.Read(b)
		d, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(b)), cost)
		if err != nil {
			panic(fmt.Sprintf("dummy hash: %v", err))
		}
		return string(d)
	})
	return h
}

// Hash returns the bcrypt digest of raw. Empty or over-long (>72 bytes)
// secrets are rejected with common.ErrValidation.
func (h *PasswordHasher) Hash(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return "", common.WithMessage(common.ErrValidation, "password is required")
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	digest, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.WithMessage(common.ErrValidation, "password is too long")
		}
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether raw matches digest. A mismatch is (false, nil);
// an unparseable digest is an error.
func (h *PasswordHasher) Verify(ctx context.Context, raw, digest string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(raw))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// VerifyDummy burns the same work as a real Verify against a hash no
// password matches. Login uses it for unknown emails.
func (h *PasswordHasher) VerifyDummy(ctx context.Context, raw string) {
	_, _ = h.Verify(ctx, raw, h.dummy())
}

// HashPending hashes the user's pending secret if, and only if, one was
// set through SetPassword since the last hash. A user whose PasswordHash is
// already final is left untouched.
func (h *PasswordHasher) HashPending(ctx context.Context, u *models.User) error {
	if !u.PasswordDirty() {
		return nil
	}
	digest, err := h.Hash(ctx, u.TakePendingPassword())
	if err != nil {
		return err
	}
	u.PasswordHash = digest
	return nil
}

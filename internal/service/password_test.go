package service

import (
	"context"
	"testing"

	"e-library/internal/worker"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	pool := worker.NewPool(2)
	h := NewPasswordHasher(pool)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "secret1")
	require.NoError(t, err)
	require.NoError(t, h.Compare(ctx, hash, "secret1"))
	require.ErrorIs(t, h.Compare(ctx, hash, "nope"), bcrypt.ErrMismatchedHashAndPassword)

	pool.Stop()
	_, err = h.Hash(ctx, "secret1")
	require.ErrorIs(t, err, worker.ErrStopped)
	require.ErrorIs(t, h.Compare(ctx, hash, "secret1"), worker.ErrStopped)
}

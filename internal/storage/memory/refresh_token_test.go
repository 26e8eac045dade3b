package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/storage"
)

func TestMarkRefreshTokenUsed(t *testing.T) {
	repo := NewRefreshTokenRepository()
	ctx := context.Background()

	_, err := repo.CreateRefreshToken(ctx, models.RefreshToken{Token: "tok", UserID: "u1", JwtID: "j1"})
	require.NoError(t, err)

	require.NoError(t, repo.MarkRefreshTokenUsed(ctx, "tok"))

	err = repo.MarkRefreshTokenUsed(ctx, "tok")
	assert.ErrorIs(t, err, storage.ErrRefreshTokenUsed)

	err = repo.MarkRefreshTokenUsed(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrRefreshTokenNotFound)
}

func TestMarkRefreshTokenUsed_RevokedCountsAsConsumed(t *testing.T) {
	repo := NewRefreshTokenRepository()
	ctx := context.Background()

	_, err := repo.CreateRefreshToken(ctx, models.RefreshToken{Token: "tok", UserID: "u1", JwtID: "j1"})
	require.NoError(t, err)
	require.NoError(t, repo.RevokeRefreshToken(ctx, "tok"))

	err = repo.MarkRefreshTokenUsed(ctx, "tok")
	assert.ErrorIs(t, err, storage.ErrRefreshTokenUsed)
}

func TestMarkRefreshTokenUsed_Concurrent(t *testing.T) {
	repo := NewRefreshTokenRepository()
	ctx := context.Background()

	_, err := repo.CreateRefreshToken(ctx, models.RefreshToken{Token: "tok", UserID: "u1", JwtID: "j1"})
	require.NoError(t, err)

	const workers = 16
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.MarkRefreshTokenUsed(ctx, "tok")
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes)
}

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/storage/memory"
	"github.com/rryowa/todoapp/internal/util"
)

var testSecret = []byte("test-signing-secret-of-decent-length")

type tokenFixture struct {
	ts    *TokenService
	store *memory.Storage
	user  *models.User
	base  time.Time
}

func newTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()

	store := memory.NewStorage()
	cfg := &util.TokenConfig{
		JwtSecretKey: testSecret,
		AccessTTL:    time.Hour,
		RefreshTTL:   24 * time.Hour,
	}
	ts := NewTokenService(cfg, store, store, memory.NewTokenBlacklist())

	// whole-second base so jwt's NumericDate truncation cannot shift expiry;
	// anchored to the wall clock because VerifyAccessToken validates lifetime
	// with real time
	base := time.Now().UTC().Truncate(time.Second)
	ts.now = func() time.Time { return base }

	user, err := store.CreateUser(context.Background(), models.User{
		ID:       uuid.NewString(),
		Email:    "alice@example.com",
		Username: "alice",
	})
	require.NoError(t, err)

	return &tokenFixture{ts: ts, store: store, user: user, base: base}
}

func (f *tokenFixture) advance(d time.Duration) {
	now := f.base.Add(d)
	f.ts.now = func() time.Time { return now }
}

func parseClaims(t *testing.T, token string) *accessClaims {
	t.Helper()
	parsed, err := jwt.ParseWithClaims(token, &accessClaims{}, func(*jwt.Token) (interface{}, error) {
		return testSecret, nil
	}, jwt.WithoutClaimsValidation())
	require.NoError(t, err)
	claims, ok := parsed.Claims.(*accessClaims)
	require.True(t, ok)
	return claims
}

func TestIssueTokenPair(t *testing.T) {
	f := newTokenFixture(t)

	pair, err := f.ts.IssueTokenPair(context.Background(), f.user)
	require.NoError(t, err)

	claims := parseClaims(t, pair.AccessToken)
	assert.Equal(t, f.user.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.Time.Equal(f.base.Add(time.Hour)))

	// opaque part plus uuid suffix
	assert.GreaterOrEqual(t, len(pair.RefreshToken), util.RefreshTokenLength+36)

	stored, err := f.store.GetRefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, stored.JwtID)
	assert.Equal(t, f.user.ID, stored.UserID)
	assert.False(t, stored.IsUsed)
	assert.False(t, stored.IsRevoked)
	assert.True(t, stored.ExpiredDate.Equal(f.base.Add(24*time.Hour)))
}

func TestRotateTokenPair_NotYetExpired(t *testing.T) {
	f := newTokenFixture(t)

	pair, err := f.ts.IssueTokenPair(context.Background(), f.user)
	require.NoError(t, err)

	_, err = f.ts.RotateTokenPair(context.Background(), pair.AccessToken, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenNotYetExpired)
}

func TestRotateTokenPair_ExpiryBoundaryIsExclusive(t *testing.T) {
	f := newTokenFixture(t)

	pair, err := f.ts.IssueTokenPair(context.Background(), f.user)
	require.NoError(t, err)

	// exactly at the expiry instant the token no longer counts as unexpired
	f.advance(time.Hour)
	_, err = f.ts.RotateTokenPair(context.Background(), pair.AccessToken, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRotateTokenPair_SuccessThenReuseFails(t *testing.T) {
	f := newTokenFixture(t)

	pair, err := f.ts.IssueTokenPair(context.Background(), f.user)
	require.NoError(t, err)

	f.advance(2 * time.Hour)

	rotated, err := f.ts.RotateTokenPair(context.Background(), pair.AccessToken, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, rotated.AccessToken)

	// the new pair is bound together
	newClaims := parseClaims(t, rotated.AccessToken)
	stored, err := f.store.GetRefreshToken(context.Background(), rotated.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, newClaims.ID, stored.JwtID)

	_, err = f.ts.RotateTokenPair(context.Background(), pair.AccessToken, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenAlreadyUsed)
}

func TestRotateTokenPair_TokenNotFound(t *testing.T) {
	f := newTokenFixture(t)

	pair, err := f.ts.IssueTokenPair(context.Background(), f.user)
	require.NoError(t, err)

	f.advance(2 * time.Hour)

	_, err = f.ts.RotateTokenPair(context.Background(), pair.AccessToken, "no-such-refresh-token")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRotateTokenPair_Revoked(t *testing.T) {
	f := newTokenFixture(t)

	pair, err := f.ts.IssueTokenPair(context.Background(), f.user)
	require.NoError(t, err)

	require.NoError(t, f.store.RevokeRefreshToken(context.Background(), pair.RefreshToken))

	f.advance(2 * time.Hour)

	_, err = f.ts.RotateTokenPair(context.Background(), pair.AccessToken, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRotateTokenPair_JtiMismatch(t *testing.T) {
	f := newTokenFixture(t)

	first, err := f.ts.IssueTokenPair(context.Background(), f.user)
	require.NoError(t, err)
	second, err := f.ts.IssueTokenPair(context.Background(), f.user)
	require.NoError(t, err)

	f.advance(2 * time.Hour)

	// valid, unused refresh token paired with the wrong access token
	_, err = f.ts.RotateTokenPair(context.Background(), first.AccessToken, second.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenMismatch)
}

func TestRotateTokenPair_InvalidSignature(t *testing.T) {
	f := newTokenFixture(t)

	pair, err := f.ts.IssueTokenPair(context.Background(), f.user)
	require.NoError(t, err)

	forged := signToken(t, jwt.SigningMethodHS256, []byte("some-other-secret-entirely-here"), f.base)

	f.advance(2 * time.Hour)

	_, err = f.ts.RotateTokenPair(context.Background(), forged, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = f.ts.RotateTokenPair(context.Background(), "not-a-jwt", pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRotateTokenPair_RejectsWrongAlgorithm(t *testing.T) {
	f := newTokenFixture(t)

	pair, err := f.ts.IssueTokenPair(context.Background(), f.user)
	require.NoError(t, err)

	// correctly signed, but not HS256
	substituted := signToken(t, jwt.SigningMethodHS512, testSecret, f.base)

	f.advance(2 * time.Hour)

	_, err = f.ts.RotateTokenPair(context.Background(), substituted, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRotateTokenPair_ConcurrentRedemption(t *testing.T) {
	f := newTokenFixture(t)

	pair, err := f.ts.IssueTokenPair(context.Background(), f.user)
	require.NoError(t, err)

	f.advance(2 * time.Hour)

	const attempts = 2
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.ts.RotateTokenPair(context.Background(), pair.AccessToken, pair.RefreshToken)
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrTokenAlreadyUsed)
		}
	}
	assert.Equal(t, 1, successes)
}

func TestVerifyAccessToken(t *testing.T) {
	f := newTokenFixture(t)

	pair, err := f.ts.IssueTokenPair(context.Background(), f.user)
	require.NoError(t, err)

	user, err := f.ts.VerifyAccessToken(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, user.ID)
	assert.Equal(t, f.user.Email, user.Email)

	// expired tokens are rejected on protected routes
	expired := signToken(t, jwt.SigningMethodHS256, testSecret, f.base.Add(-2*time.Hour))
	_, err = f.ts.VerifyAccessToken(context.Background(), expired)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestInvalidateAccessToken(t *testing.T) {
	f := newTokenFixture(t)

	pair, err := f.ts.IssueTokenPair(context.Background(), f.user)
	require.NoError(t, err)

	require.NoError(t, f.ts.InvalidateAccessToken(context.Background(), pair.AccessToken, pair.RefreshToken))

	_, err = f.ts.VerifyAccessToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	f.advance(2 * time.Hour)
	_, err = f.ts.RotateTokenPair(context.Background(), pair.AccessToken, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func signToken(t *testing.T, method jwt.SigningMethod, secret []byte, issuedAt time.Time) string {
	t.Helper()
	claims := &accessClaims{
		UserID: uuid.NewString(),
		Email:  "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice@example.com",
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

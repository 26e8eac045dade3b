package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/storage"
	"github.com/rryowa/todoapp/internal/util"
)

var (
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotYetExpired = errors.New("token has not yet expired")
	ErrTokenNotFound      = errors.New("token does not exist")
	ErrTokenAlreadyUsed   = errors.New("token has already been used")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrTokenMismatch      = errors.New("token does not match")
)

const refreshTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TokenService issues access/refresh token pairs and rotates refresh tokens.
// The signing secret and TTLs come from TokenConfig at construction; there is
// no process-global signing state.
type TokenService struct {
	jwtSecretKey  []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	refreshTokens storage.RefreshTokenRepository
	users         storage.UserRepository
	blacklist     storage.TokenStorage
	now           func() time.Time
}

func NewTokenService(
	cfg *util.TokenConfig,
	refreshTokens storage.RefreshTokenRepository,
	users storage.UserRepository,
	blacklist storage.TokenStorage,
) *TokenService {
	return &TokenService{
		jwtSecretKey:  cfg.JwtSecretKey,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		refreshTokens: refreshTokens,
		users:         users,
		blacklist:     blacklist,
		now:           time.Now,
	}
}

type accessClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// IssueTokenPair creates an HS256 access token for an already-authenticated
// user and persists the paired refresh-token row. Exactly one row is inserted
// per call; persistence failures propagate to the caller.
func (ts *TokenService) IssueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	now := ts.now()
	jti := uuid.NewString()

	claims := &accessClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(ts.jwtSecretKey)
	if err != nil {
		return nil, fmt.Errorf("signed string: %w", err)
	}

	opaque, err := randomTokenString(util.RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	refreshToken := models.RefreshToken{
		UserID: user.ID,
		// uuid suffix for collision resistance on the unique index
		Token:       opaque + uuid.NewString(),
		JwtID:       jti,
		IsUsed:      false,
		IsRevoked:   false,
		AddedDate:   now,
		ExpiredDate: now.Add(ts.refreshTTL),
	}

	if _, err := ts.refreshTokens.CreateRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &models.TokenPair{AccessToken: signedToken, RefreshToken: refreshToken.Token}, nil
}

// RotateTokenPair validates a presented access/refresh pair and, on success,
// consumes the stored refresh token and issues a fresh pair. The checks run
// in order and short-circuit with a distinct sentinel error each.
//
// The expiry check is intentionally inverted relative to common refresh
// semantics: rotation is allowed only once the presented access token has
// expired. See the open-questions section of DESIGN.md.
func (ts *TokenService) RotateTokenPair(ctx context.Context, accessToken, refreshToken string) (*models.TokenPair, error) {
	claims, err := ts.parseForRotation(accessToken)
	if err != nil {
		return nil, err
	}

	if claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}
	if claims.ExpiresAt.Time.After(ts.now()) {
		return nil, ErrTokenNotYetExpired
	}

	stored, err := ts.refreshTokens.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrRefreshTokenNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}

	if stored.IsUsed {
		return nil, ErrTokenAlreadyUsed
	}
	if stored.IsRevoked {
		return nil, ErrTokenRevoked
	}
	if stored.JwtID != claims.ID {
		return nil, ErrTokenMismatch
	}

	if err := ts.refreshTokens.MarkRefreshTokenUsed(ctx, refreshToken); err != nil {
		if errors.Is(err, storage.ErrRefreshTokenUsed) {
			// lost the race against a concurrent redemption
			return nil, ErrTokenAlreadyUsed
		}
		return nil, fmt.Errorf("mark refresh token used: %w", err)
	}

	user, err := ts.users.GetUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("get token owner: %w", err)
	}

	return ts.IssueTokenPair(ctx, user)
}

// parseForRotation verifies signature and algorithm only. Claims validation is
// disabled because an expired access token is the expected input here.
func (ts *TokenService) parseForRotation(accessToken string) (*accessClaims, error) {
	parsedToken, err := jwt.ParseWithClaims(
		accessToken,
		&accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, ErrTokenInvalid
			}
			return ts.jwtSecretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsedToken.Claims.(*accessClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// VerifyAccessToken authenticates a bearer token for protected endpoints:
// blacklist first, then signature and expiry.
func (ts *TokenService) VerifyAccessToken(ctx context.Context, accessToken string) (*models.User, error) {
	invalidated, err := ts.blacklist.IsTokenInvalidated(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("check token blacklist: %w", err)
	}
	if invalidated {
		return nil, ErrTokenRevoked
	}

	parsedToken, err := jwt.ParseWithClaims(
		accessToken,
		&accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, ErrTokenInvalid
			}
			return ts.jwtSecretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsedToken.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsedToken.Claims.(*accessClaims)
	if !ok || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return &models.User{ID: claims.UserID, Email: claims.Email}, nil
}

// InvalidateAccessToken blacklists the token for its remaining lifetime and
// revokes the refresh token presented alongside it, if any.
func (ts *TokenService) InvalidateAccessToken(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := ts.parseForRotation(accessToken)
	if err != nil {
		return err
	}

	var remaining time.Duration
	if claims.ExpiresAt != nil {
		remaining = claims.ExpiresAt.Time.Sub(ts.now())
	}
	if err := ts.blacklist.InvalidateToken(ctx, accessToken, remaining); err != nil {
		return fmt.Errorf("invalidate token: %w", err)
	}

	if refreshToken != "" {
		if err := ts.refreshTokens.RevokeRefreshToken(ctx, refreshToken); err != nil &&
			!errors.Is(err, storage.ErrRefreshTokenNotFound) {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
	}
	return nil
}

func randomTokenString(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = refreshTokenAlphabet[int(b)%len(refreshTokenAlphabet)]
	}
	return string(buf), nil
}

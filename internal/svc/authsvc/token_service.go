package authsvc

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"acebook/internal/domain"
	"acebook/internal/infra/logging"
)

// TokenConfig contains configuration parameters for the token service.
// Both values are fixed per process; the lifetime is never negotiated
// per call.
type TokenConfig struct {
	// Secret is the HMAC key used to sign session tokens
	Secret string `env:"SECRET"`

	// TokenDuration is the validity duration of session tokens in seconds
	TokenDuration int64 `env:"TOKEN_DURATION" default:"600"` // 10m
}

// TokenService mints and verifies the self-contained session tokens of
// the sliding-session protocol. It holds no state besides its
// configuration: every call is a pure function of the secret, its
// input, and the clock. Rotation therefore needs no locking, and two
// rotations racing from the same source token both yield tokens that
// stay valid until their own expiry.
type TokenService struct {
	Config TokenConfig
	Log    logging.Logger

	now func() time.Time
}

// NewTokenService creates a TokenService with the given configuration.
func NewTokenService(cfg TokenConfig) *TokenService {
	return &TokenService{
		Config: cfg,
		Log:    logging.GetLogger("svc.authsvc.token_service"),
		now:    time.Now,
	}
}

// Issue mints a signed session token for the given user identity with
// issuedAt = now and expiresAt = now + the configured lifetime.
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	expiry := now.Add(time.Duration(s.Config.TokenDuration * int64(time.Second)))

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Config.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Rotate mints the replacement token after a successful verification.
// Equivalent to Issue; the separate name marks the protocol step. The
// clock reads at mint time, so along any chain of requests where the
// client replaces its token with the response token, issuedAt values
// are non-decreasing.
func (s *TokenService) Rotate(userID string) (string, error) {
	return s.Issue(userID)
}

// Verify validates a presented token's signature and expiry and
// returns its decoded payload. Returns domain.ErrNoAuthToken when no
// token is supplied, domain.ErrExpiredAuthToken once the clock passes
// the token's expiry, and domain.ErrInvalidAuthToken for everything
// else that fails to parse or verify.
func (s *TokenService) Verify(tokenString string) (domain.SessionToken, error) {
	if tokenString == "" {
		return domain.SessionToken{}, domain.ErrNoAuthToken
	}

	parsed, err := jwt.ParseWithClaims(
		tokenString,
		//nolint:exhaustruct
		&jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return []byte(s.Config.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.SessionToken{}, errors.Join(domain.ErrExpiredAuthToken, err)
		}

		return domain.SessionToken{}, errors.Join(domain.ErrInvalidAuthToken, err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return domain.SessionToken{}, domain.ErrInvalidAuthToken
	}

	token := domain.SessionToken{
		UserID:    claims.Subject,
		IssuedAt:  0,
		ExpiresAt: 0,
	}
	if claims.IssuedAt != nil {
		token.IssuedAt = claims.IssuedAt.Unix()
	}

	if claims.ExpiresAt != nil {
		token.ExpiresAt = claims.ExpiresAt.Unix()
	}

	return token, nil
}

// Package token issues and verifies stateless authentication tokens.
//
// Tokens are self-contained HS512-signed JWTs carrying the account email as
// subject and the role claim. There is no revocation list; the expiry window
// is the only lifetime bound and is supplied by configuration.
package token

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/bookmarket/internal/market/user"
	apperrors "github.com/louisbranch/bookmarket/internal/platform/errors"
)

// signingMethod is the only accepted JWS algorithm.
const signingMethod = "HS512"

// tokenEnv holds raw env values before post-parse validation.
type tokenEnv struct {
	Issuer     string        `env:"BOOKMARKET_TOKEN_ISSUER" envDefault:"bookmarket"`
	SigningKey string        `env:"BOOKMARKET_TOKEN_SIGNING_KEY"`
	TTL        time.Duration `env:"BOOKMARKET_TOKEN_TTL" envDefault:"1h"`
}

// Config defines how tokens are issued and verified.
type Config struct {
	Issuer string
	Key    []byte
	TTL    time.Duration
	Now    func() time.Time
}

// Claims captures the validated identity carried by a token.
type Claims struct {
	Subject   string
	Role      user.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// tokenClaims is the internal claims type used for JWT parsing.
type tokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// LoadConfigFromEnv reads token configuration from the environment.
// The signing key is hex-encoded and must decode to at least 32 bytes.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw tokenEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse token env: %w", err)
	}
	signingKey := strings.TrimSpace(raw.SigningKey)
	if signingKey == "" {
		return Config{}, fmt.Errorf("BOOKMARKET_TOKEN_SIGNING_KEY is required")
	}
	key, err := hex.DecodeString(signingKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode token signing key: %w", err)
	}
	if len(key) < 32 {
		return Config{}, fmt.Errorf("token signing key must be at least 32 bytes")
	}
	if raw.TTL <= 0 {
		return Config{}, fmt.Errorf("BOOKMARKET_TOKEN_TTL must be positive")
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Issuer: strings.TrimSpace(raw.Issuer),
		Key:    key,
		TTL:    raw.TTL,
		Now:    now,
	}, nil
}

// Service issues and verifies signed tokens with a server-held symmetric key.
type Service struct {
	cfg Config
}

// NewService creates a token service from validated configuration.
func NewService(cfg Config) (*Service, error) {
	if len(cfg.Key) < 32 {
		return nil, errors.New("token signing key must be at least 32 bytes")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("token issuer is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{cfg: cfg}, nil
}

// Issue signs a token for the given subject identity and role.
func (s *Service) Issue(subject string, role user.Role) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", errors.New("token subject is required")
	}

	now := s.cfg.Now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		Role: role.String(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.cfg.Key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its identity claims.
// Any failure (bad signature, wrong algorithm, malformed encoding, expiry)
// is rejected; no partial trust is extended.
func (s *Service) Verify(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, apperrors.New(apperrors.CodeTokenInvalid, "token is required")
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(token *jwt.Token) (any, error) {
		return s.cfg.Key, nil
	},
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer != s.cfg.Issuer {
		return Claims{}, apperrors.New(apperrors.CodeTokenInvalid, "token issuer mismatch")
	}
	subject := strings.TrimSpace(parsed.Subject)
	if subject == "" {
		return Claims{}, apperrors.New(apperrors.CodeTokenInvalid, "token subject is required")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeTokenInvalid, "token exp is required")
	}

	now := s.cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, apperrors.New(apperrors.CodeTokenExpired, "token is expired")
	}

	role, err := user.ParseRole(parsed.Role)
	if err != nil {
		return Claims{}, apperrors.New(apperrors.CodeTokenInvalid, "token role is invalid")
	}

	claims := Claims{
		Subject:   subject,
		Role:      role,
		ExpiresAt: exp,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return apperrors.New(apperrors.CodeTokenInvalid, "token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeTokenInvalid, "token alg is invalid")
	}
	return apperrors.New(apperrors.CodeTokenInvalid, "token is invalid")
}

// KeyFingerprint returns a short stable fingerprint of the signing key for logs.
func (s *Service) KeyFingerprint() string {
	sum := sha512.Sum512(s.cfg.Key)
	return hex.EncodeToString(sum[:4])
}

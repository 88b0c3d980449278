package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PlaceholderToken is the fixed token the stub login policy hands out.
const PlaceholderToken = "dummy-token"

var ErrInvalidToken = errors.New("invalid or expired token")

// Issuer mints the session token stored after login or signup and checks
// tokens presented to the local API.
type Issuer interface {
	Issue(subject string) (string, error)
	Verify(token string) error
}

// PlaceholderIssuer always returns PlaceholderToken. It performs no real
// authentication.
type PlaceholderIssuer struct{}

var _ Issuer = PlaceholderIssuer{}

func (PlaceholderIssuer) Issue(string) (string, error) {
	return PlaceholderToken, nil
}

func (PlaceholderIssuer) Verify(token string) error {
	if token != PlaceholderToken {
		return ErrInvalidToken
	}
	return nil
}

// JWTIssuer signs HS256 tokens carrying the login name as subject.
type JWTIssuer struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

var _ Issuer = (*JWTIssuer)(nil)

type JWTOption func(*JWTIssuer)

// WithTTL sets an expiry on issued tokens. Zero means no expiry.
func WithTTL(ttl time.Duration) JWTOption {
	return func(j *JWTIssuer) { j.ttl = ttl }
}

func WithNowTime(now func() time.Time) JWTOption {
	return func(j *JWTIssuer) { j.now = now }
}

func NewJWTIssuer(secret string, opts ...JWTOption) *JWTIssuer {
	j := &JWTIssuer{
		secretKey: []byte(secret),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *JWTIssuer) Issue(subject string) (string, error) {
	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if j.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (j *JWTIssuer) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shashiranjanraj/shopfront/config"
)

// Kind distinguishes the two principal tables a token can refer to.
type Kind string

const (
	KindUser  Kind = "user"
	KindAdmin Kind = "admin"
)

// ErrInvalidToken is returned for every verification failure.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims holds the typed JWT payload. The principal id travels in Subject.
type Claims struct {
	Kind Kind `json:"kind"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies access tokens.
type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an Issuer for one of HS256, HS384 or HS512.
func NewIssuer(secret, alg string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("auth: empty signing secret")
	}

	var method jwt.SigningMethod
	switch alg {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("auth: unsupported JWT algorithm %q", alg)
	}

	return &Issuer{secret: []byte(secret), method: method, ttl: ttl, now: time.Now}, nil
}

// NewIssuerFromConfig reads JWT_SECRET, JWT_ALGORITHM and
// ACCESS_TOKEN_EXPIRE_MINUTES.
func NewIssuerFromConfig() (*Issuer, error) {
	return NewIssuer(config.JWTSecret(), config.JWTAlgorithm(), config.AccessTokenTTL())
}

// TTL is the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue creates a signed token for principal id of the given kind.
func (i *Issuer) Issue(id uint, kind Kind) (string, error) {
	now := i.now()
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
}

// Verify checks signature, algorithm, expiry and kind, and returns the
// principal id carried in the subject.
func (i *Issuer) Verify(token string, expected Kind) (uint, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return 0, ErrInvalidToken
	}
	if claims.Kind != expected {
		return 0, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, expected, claims.Kind)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return uint(id), nil
}

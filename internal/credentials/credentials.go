// Package credentials hashes and verifies user passwords and issues and
// verifies signed session tokens. Passwords use bcrypt with a fixed work
// factor; tokens are HS256 JWTs signed with a server-held secret.
package credentials

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is the fixed bcrypt work factor.
const passwordHashCost = 8

// ErrInvalidToken is returned when a token fails signature or structural
// verification.
var ErrInvalidToken = errors.New("invalid token")

// ErrExpiredToken is returned when a token is well-formed and correctly
// signed but past its expiry.
var ErrExpiredToken = errors.New("token expired")

// Claims represents the JWT claims used by the system.
// It embeds standard JWT claims and adds a user-specific identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// Credentials signs and verifies session tokens and hashes passwords.
type Credentials struct {
	// signingSecretKey is the key used to sign JWTs.
	signingSecretKey []byte

	// tokenTTL bounds token validity. Zero means tokens never expire.
	tokenTTL time.Duration
}

// New creates a Credentials manager with the given JWT signing secret and
// token lifetime. A zero tokenTTL disables expiry.
func New(signingSecretKey []byte, tokenTTL time.Duration) *Credentials {
	return &Credentials{
		signingSecretKey: signingSecretKey,
		tokenTTL:         tokenTTL,
	}
}

// HashPassword returns the bcrypt hash of the given plain-text password.
func (c *Credentials) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("error while `bcrypt.GenerateFromPassword()` calling: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func (c *Credentials) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IssueToken signs a session token carrying the given user ID.
// The token expires after the configured TTL, if one is set.
func (c *Credentials) IssueToken(userID string) (string, error) {
	claims := Claims{UserID: userID}
	if c.tokenTTL != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(c.tokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(c.signingSecretKey)
	if err != nil {
		return "", fmt.Errorf("error while `token.SignedString()` calling: %w", err)
	}

	return tokenString, nil
}

// VerifyToken checks the signature and expiry of tokenString and returns the
// user ID it carries. Failures are classified as ErrExpiredToken or
// ErrInvalidToken.
func (c *Credentials) VerifyToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return c.signingSecretKey, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}

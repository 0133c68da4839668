// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"time"

	"github.com/dmitrijs2005/mindease/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the standard registered claims plus the identity the token
// was issued to.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// TokenIssuer signs and verifies HS256 session tokens. It keeps no
// per-token state: a token is valid while its signature checks out against
// the current secret and its expiry is in the future.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

type IssuerOption func(*TokenIssuer)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *TokenIssuer) { i.now = now }
}

func NewTokenIssuer(secret []byte, validity time.Duration, opts ...IssuerOption) *TokenIssuer {
	i := &TokenIssuer{secret: secret, validity: validity, now: time.Now}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Issue mints a token for userID expiring validity from now.
func (i *TokenIssuer) Issue(userID string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		UserID: userID,
	})

	return token.SignedString(i.secret)
}

// Verify returns the user id embedded in tokenString. Every failure
// (malformed, wrong algorithm, bad signature, expired, no subject) is
// reported as common.ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

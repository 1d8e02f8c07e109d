// Package cube is a thin client for the Cube Cloud analytics-chat API:
// short-lived bearer credential issuance plus a single streaming chat call.
package cube

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "cubemcp"
	tokenAudience = "cube-cloud"

	// Tokens are single use per request, so a fresh one is issued every
	// call with a fixed one hour lifetime. No caching.
	tokenTTL = time.Hour
)

// TokenIssuer mints HS256-signed bearer credentials for the Cube API.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Issue returns a signed credential valid for one hour from now, bound to
// the fixed issuer/audience pair.
func (i *TokenIssuer) Issue() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

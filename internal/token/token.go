package token

import (
	"errors"
	"fmt"
	"time"

	"login-service/internal/session"
	"login-service/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenInvalid covers expired, tampered, and malformed tokens alike.
	// Callers must force re-authentication, never degrade to an anonymous
	// session.
	ErrTokenInvalid = errors.New("token invalid or expired")
)

// Claims is the identity attribute set embedded in the signed session token.
// The subject registered claim carries the user id. Password hashes and
// second-factor secrets are never part of it.
type Claims struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with HS256. It holds no mutable
// state and is safe for concurrent use across requests.
type Codec struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewCodec(signingKey string, issuer string, ttl time.Duration) *Codec {
	return &Codec{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Encode mints a signed token for a verified user. Only display metadata,
// the role, and the user id cross into the claim set.
func (c *Codec) Encode(u user.User) (string, error) {
	now := time.Now()

	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Name:    u.Name,
		Email:   u.Email,
		Role:    u.Role,
		Picture: u.Image,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    c.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := newToken.SignedString(c.signingKey)
	if err != nil {
		return "", fmt.Errorf("token: signing failed: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and projects the embedded claims into
// a session view verbatim. Any verification failure is a hard rejection.
func (c *Codec) Decode(tokenString string) (session.View, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenUnverifiable
			}
			return c.signingKey, nil
		},
	)
	if err != nil || !parsed.Valid {
		return session.View{}, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return session.View{}, ErrTokenInvalid
	}

	// a token without subject or role never hydrates a session
	if claims.Subject == "" || claims.Role == "" {
		return session.View{}, ErrTokenInvalid
	}

	return session.View{
		User: session.UserView{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  claims.Role,
			Image: claims.Picture,
		},
	}, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthorizer checks HS256 tokens carrying a role claim.
type JWTAuthorizer struct {
	secret []byte
	issuer string
}

func NewJWTAuthorizer(secret, issuer string) (*JWTAuthorizer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &JWTAuthorizer{secret: []byte(secret), issuer: issuer}, nil
}

func (a *JWTAuthorizer) Authorize(_ context.Context, token string, role domain.Role) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}
	if a.issuer != "" && !claims.VerifyIssuer(a.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", domain.ErrUnauthorized, claims.Issuer)
	}
	if domain.Role(claims.Role) != role {
		return nil, domain.ErrForbidden
	}

	return &domain.Principal{Subject: claims.Subject, Role: domain.Role(claims.Role)}, nil
}

// Issue signs a token; used by ops tooling and tests.
func (a *JWTAuthorizer) Issue(subject string, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

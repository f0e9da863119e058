package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

func TestAuthorizeAdmin(t *testing.T) {
	a, err := NewJWTAuthorizer("secret", "shvark-admin")
	require.NoError(t, err)

	token, err := a.Issue("ops@shvark", domain.RoleAdmin, time.Hour)
	require.NoError(t, err)

	p, err := a.Authorize(context.Background(), token, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "ops@shvark", p.Subject)
	assert.Equal(t, domain.RoleAdmin, p.Role)
}

func TestAuthorizeWrongRole(t *testing.T) {
	a, err := NewJWTAuthorizer("secret", "")
	require.NoError(t, err)

	token, err := a.Issue("vendor-1", domain.RoleVendor, time.Hour)
	require.NoError(t, err)

	_, err = a.Authorize(context.Background(), token, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAuthorizeRejectsInvalidTokens(t *testing.T) {
	a, err := NewJWTAuthorizer("secret", "shvark-admin")
	require.NoError(t, err)
	other, err := NewJWTAuthorizer("other-secret", "shvark-admin")
	require.NoError(t, err)
	foreignIssuer, err := NewJWTAuthorizer("secret", "someone-else")
	require.NoError(t, err)

	expired, err := a.Issue("ops", domain.RoleAdmin, -time.Minute)
	require.NoError(t, err)
	forged, err := other.Issue("ops", domain.RoleAdmin, time.Hour)
	require.NoError(t, err)
	wrongIssuer, err := foreignIssuer.Issue("ops", domain.RoleAdmin, time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: "admin"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"expired":      expired,
		"forged":       forged,
		"wrong issuer": wrongIssuer,
		"alg none":     none,
	} {
		_, err := a.Authorize(context.Background(), token, domain.RoleAdmin)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, name)
	}
}

func TestNewJWTAuthorizerRequiresSecret(t *testing.T) {
	_, err := NewJWTAuthorizer("", "")
	assert.Error(t, err)
}

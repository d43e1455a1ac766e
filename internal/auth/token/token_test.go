package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	now := time.Now().UTC()

	signed, expiresAt, err := issuer.Issue("12345", "user@acme.test", "67890", now)
	require.NoError(t, err)
	require.WithinDuration(t, now.Add(time.Hour), expiresAt, time.Second)

	claims, err := issuer.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, "12345", claims.Subject)
	require.Equal(t, "user@acme.test", claims.Email)
	require.Equal(t, "67890", claims.TenantID)
}

func TestParseExpiredToken(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)

	signed, _, err := issuer.Issue("12345", "user@acme.test", "67890", time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)

	_, err = issuer.Parse(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseWrongSecret(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	other := NewIssuer("other-secret", time.Hour)

	signed, _, err := issuer.Issue("12345", "user@acme.test", "67890", time.Now().UTC())
	require.NoError(t, err)

	_, err = other.Parse(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	_, err := issuer.Parse("")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestDefaultTTL(t *testing.T) {
	issuer := NewIssuer("secret", 0)
	require.Equal(t, time.Hour, issuer.TTL())
}

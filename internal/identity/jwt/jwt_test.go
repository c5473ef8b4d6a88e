package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, secret string) *Service {
	t.Helper()
	svc, err := NewService(Config{SecretKey: secret, TokenTTL: time.Hour})
	require.NoError(t, err)
	return svc
}

func TestNewService_InvalidConfig(t *testing.T) {
	_, err := NewService(Config{SecretKey: "", TokenTTL: time.Hour})
	assert.Error(t, err)

	_, err = NewService(Config{SecretKey: "secret", TokenTTL: 0})
	assert.Error(t, err)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := newTestService(t, "test-secret")

	token, err := svc.Issue("foo@bar.com", "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "foo@bar.com", claims.Subject)
	assert.Equal(t, "customer", string(claims.Role))
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestService(t, "test-secret")

	token, err := svc.IssueWithTTL("foo@bar.com", "customer", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_BadSignature(t *testing.T) {
	issuer := newTestService(t, "one-secret")
	verifier := newTestService(t, "another-secret")

	token, err := issuer.Issue("foo@bar.com", "customer")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerify_Malformed(t *testing.T) {
	svc := newTestService(t, "test-secret")

	for _, input := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(input)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", input)
	}
}

func TestIssue_RolePropagatedVerbatim(t *testing.T) {
	svc := newTestService(t, "test-secret")

	// Role is a free-form label; whatever was stored is what the token carries.
	token, err := svc.Issue("foo@bar.com", "night-shift-operator")
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "night-shift-operator", string(claims.Role))
}

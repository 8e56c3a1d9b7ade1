package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	iss, err := NewIssuer("test-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)
	return iss
}

func TestIssueAndVerify(t *testing.T) {
	iss := newTestIssuer(t)

	tok, err := iss.Issue(42, KindUser)
	require.NoError(t, err)

	id, err := iss.Verify(tok, KindUser)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	iss := newTestIssuer(t)

	userTok, err := iss.Issue(1, KindUser)
	require.NoError(t, err)
	_, err = iss.Verify(userTok, KindAdmin)
	assert.ErrorIs(t, err, ErrInvalidToken)

	adminTok, err := iss.Issue(1, KindAdmin)
	require.NoError(t, err)
	_, err = iss.Verify(adminTok, KindUser)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	iss := newTestIssuer(t)
	iss.now = func() time.Time { return time.Now().Add(-time.Hour) }

	tok, err := iss.Issue(7, KindUser)
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.Verify(tok, KindUser)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	iss := newTestIssuer(t)
	other, err := NewIssuer("another-secret", "HS256", time.Minute)
	require.NoError(t, err)

	tok, err := other.Issue(1, KindUser)
	require.NoError(t, err)

	_, err = iss.Verify(tok, KindUser)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithm(t *testing.T) {
	iss := newTestIssuer(t)
	hs512, err := NewIssuer("test-secret", "HS512", time.Minute)
	require.NoError(t, err)

	tok, err := hs512.Issue(1, KindUser)
	require.NoError(t, err)

	_, err = iss.Verify(tok, KindUser)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	iss := newTestIssuer(t)
	claims := Claims{
		Kind: KindUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = iss.Verify(tok, KindUser)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuerRejectsUnknownAlgorithm(t *testing.T) {
	_, err := NewIssuer("s", "RS256", time.Minute)
	assert.Error(t, err)

	_, err = NewIssuer("", "HS256", time.Minute)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
}

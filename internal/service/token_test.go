package service

import (
	"testing"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef-test-secret"

func TestTokenService_IssueAndVerify(t *testing.T) {
	ts := NewTokenService(testSecret, time.Hour, "robosphere")
	u := &model.User{Base: model.Base{ID: uuid.New()}, Email: "ada@example.com", Role: model.RoleInstructor}

	token, expiresAt, err := ts.Issue(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	id, claims, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, model.RoleInstructor, claims.Role)
	assert.Equal(t, "robosphere", claims.Issuer)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	ts := NewTokenService(testSecret, time.Minute, "robosphere")
	ts.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := ts.Issue(&model.User{Base: model.Base{ID: uuid.New()}})
	require.NoError(t, err)

	ts.now = time.Now
	_, _, err = ts.Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenService_RejectsOtherIssuerAndSecret(t *testing.T) {
	u := &model.User{Base: model.Base{ID: uuid.New()}}

	other, _, err := NewTokenService(testSecret, time.Hour, "someone-else").Issue(u)
	require.NoError(t, err)
	_, _, err = NewTokenService(testSecret, time.Hour, "robosphere").Verify(other)
	assert.Error(t, err)

	forged, _, err := NewTokenService("another-secret-of-length", time.Hour, "robosphere").Issue(u)
	require.NoError(t, err)
	_, _, err = NewTokenService(testSecret, time.Hour, "robosphere").Verify(forged)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Issuer:    "robosphere",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	ts := NewTokenService(testSecret, time.Hour, "robosphere")
	for _, token := range []string{hs512, none, "not-a-token"} {
		_, _, err := ts.Verify(token)
		assert.Error(t, err)
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := hashPassword("servo-secret")
	require.NoError(t, err)
	assert.True(t, checkPassword("servo-secret", hash))
	assert.False(t, checkPassword("wrong", hash))

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err = hashPassword(string(long))
	assert.ErrorIs(t, err, errPasswordTooLong)
}

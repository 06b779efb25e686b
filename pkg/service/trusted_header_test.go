package service

import (
	"encoding/base64"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-service/internal/dto"
	apperrors "user-service/pkg/errors"
	"user-service/pkg/validation"
)

const testSecret = "test-secret"

func TestParse_UnsignedJSON(t *testing.T) {
	svc := NewTrustedHeaderService("", validation.New())

	payload, err := svc.Parse(`{"userId":42,"roles":["Admin","Voter"]}`)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), payload.UserID)
	assert.Equal(t, []string{"Admin", "Voter"}, payload.Roles)
	assert.True(t, payload.HasRoles())
}

func TestParse_UnsignedStringUserID(t *testing.T) {
	svc := NewTrustedHeaderService("", validation.New())

	payload, err := svc.Parse(`{"userId":"17"}`)
	require.NoError(t, err)
	assert.Equal(t, uint64(17), payload.UserID)
	assert.False(t, payload.HasRoles())
}

func TestParse_Base64JSON(t *testing.T) {
	svc := NewTrustedHeaderService("", validation.New())
	raw := base64.StdEncoding.EncodeToString([]byte(`{"userId":5}`))

	payload, err := svc.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), payload.UserID)
}

func TestParse_Rejects(t *testing.T) {
	svc := NewTrustedHeaderService("", validation.New())

	testCases := []struct {
		name string
		raw  string
	}{
		{"not json", "garbage"},
		{"negative id", `{"userId":-3}`},
		{"zero id", `{"userId":0}`},
		{"fractional id", `{"userId":1.5}`},
		{"missing id", `{"roles":["Admin"]}`},
		{"blank role", `{"userId":1,"roles":[""]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Parse(tc.raw)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTrustedHeader)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	svc := NewTrustedHeaderService("", nil)

	_, err := svc.Parse("   ")
	assert.ErrorIs(t, err, apperrors.ErrTrustedHeaderAbsent)
}

func TestSign_UnsignedRoundTrip(t *testing.T) {
	svc := NewTrustedHeaderService("", validation.New())
	assert.False(t, svc.Signed())

	raw, err := svc.Sign(dto.TrustedPayload{UserID: 9, Roles: []string{"Voter"}}, 0)
	require.NoError(t, err)

	payload, err := svc.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), payload.UserID)
	assert.Equal(t, []string{"Voter"}, payload.Roles)
}

func TestSign_SignedRoundTrip(t *testing.T) {
	svc := NewTrustedHeaderService(testSecret, validation.New())
	assert.True(t, svc.Signed())

	token, err := svc.Sign(dto.TrustedPayload{UserID: 42, Roles: []string{"Admin"}}, time.Minute)
	require.NoError(t, err)

	payload, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), payload.UserID)
	assert.Equal(t, []string{"Admin"}, payload.Roles)
}

func TestParse_SignedRejectsPlainJSON(t *testing.T) {
	svc := NewTrustedHeaderService(testSecret, validation.New())

	_, err := svc.Parse(`{"userId":42}`)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTrustedHeader)
}

func TestParse_SignedRejectsWrongSecret(t *testing.T) {
	other := NewTrustedHeaderService("another-secret", nil)
	token, err := other.Sign(dto.TrustedPayload{UserID: 42}, time.Minute)
	require.NoError(t, err)

	svc := NewTrustedHeaderService(testSecret, validation.New())
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTrustedHeader)
}

func TestParse_SignedRejectsExpired(t *testing.T) {
	claims := &TrustedClaims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := NewTrustedHeaderService(testSecret, validation.New())
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTrustedHeader)
}

func TestParse_SignedRejectsNoneAlgorithm(t *testing.T) {
	claims := &TrustedClaims{UserID: 42}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	svc := NewTrustedHeaderService(testSecret, validation.New())
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTrustedHeader)
}

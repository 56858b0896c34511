package token

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"login-service/internal/session"
	"login-service/internal/user"

	"github.com/stretchr/testify/require"
)

func testUser() user.User {
	return user.User{
		ID:              "3f1c2a9e-0000-4000-8000-000000000001",
		Email:           "a@x.com",
		Name:            "Ada",
		Image:           "https://cdn.example/ada.png",
		Role:            "admin",
		PasswordHash:    "$2a$10$secret-material-not-for-tokens",
		TwoFactorSecret: "JBSWY3DPEHPK3PXP",
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := NewCodec("test-signing-key", "login-service", time.Hour)
	u := testUser()

	signed, err := codec.Encode(u)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	view, err := codec.Decode(signed)
	require.NoError(t, err)

	require.Equal(t, u.ID, view.User.ID)
	require.Equal(t, u.Role, view.User.Role)
	require.Equal(t, u.Email, view.User.Email)
	require.Equal(t, u.Name, view.User.Name)
	require.Equal(t, u.Image, view.User.Image)
}

func TestDecodeMatchesDirectProjection(t *testing.T) {
	// at login the view is built straight from the user record; on later
	// requests it is rebuilt from the token. Both must agree.
	codec := NewCodec("test-signing-key", "login-service", time.Hour)
	u := testUser()

	signed, err := codec.Encode(u)
	require.NoError(t, err)

	fromToken, err := codec.Decode(signed)
	require.NoError(t, err)

	require.Equal(t, session.FromUser(u), fromToken)
}

func TestDecodeIsIdempotent(t *testing.T) {
	codec := NewCodec("test-signing-key", "login-service", time.Hour)

	signed, err := codec.Encode(testUser())
	require.NoError(t, err)

	first, err := codec.Decode(signed)
	require.NoError(t, err)
	second, err := codec.Decode(signed)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEncodeNeverEmbedsSecretMaterial(t *testing.T) {
	codec := NewCodec("test-signing-key", "login-service", time.Hour)
	u := testUser()

	signed, err := codec.Encode(u)
	require.NoError(t, err)

	// JWT payloads are base64 of plain JSON, so a substring scan over the
	// decoded segments is enough to spot leaked material.
	require.NotContains(t, signed, "secret-material")
	payload := decodeSegment(t, signed)
	require.NotContains(t, payload, u.PasswordHash)
	require.NotContains(t, payload, u.TwoFactorSecret)
}

func TestDecodeExpiredToken(t *testing.T) {
	codec := NewCodec("test-signing-key", "login-service", -time.Minute)

	signed, err := codec.Encode(testUser())
	require.NoError(t, err)

	_, err = codec.Decode(signed)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeTamperedToken(t *testing.T) {
	codec := NewCodec("test-signing-key", "login-service", time.Hour)
	other := NewCodec("another-signing-key", "login-service", time.Hour)

	signed, err := other.Encode(testUser())
	require.NoError(t, err)

	_, err = codec.Decode(signed)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeGarbage(t *testing.T) {
	codec := NewCodec("test-signing-key", "login-service", time.Hour)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := codec.Decode(raw)
		require.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestDecodeRejectsClaimsWithoutSubjectOrRole(t *testing.T) {
	codec := NewCodec("test-signing-key", "login-service", time.Hour)

	noID := testUser()
	noID.ID = ""
	signed, err := codec.Encode(noID)
	require.NoError(t, err)
	_, err = codec.Decode(signed)
	require.ErrorIs(t, err, ErrTokenInvalid)

	noRole := testUser()
	noRole.Role = ""
	signed, err = codec.Encode(noRole)
	require.NoError(t, err)
	_, err = codec.Decode(signed)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func decodeSegment(t *testing.T, signed string) string {
	t.Helper()
	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)

	decoded, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	return string(decoded)
}

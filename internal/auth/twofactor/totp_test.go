package twofactor

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

const testSecret = "JBSWY3DPEHPK3PXP"

func codeAt(t *testing.T, at time.Time) string {
	t.Helper()
	code, err := totp.GenerateCode(testSecret, at)
	require.NoError(t, err)
	return code
}

func TestCheckAtAcceptsCurrentStep(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	ok := TOTP{}.CheckAt(testSecret, codeAt(t, now), now)
	require.True(t, ok)
}

func TestCheckAtToleratesOneStepOfSkew(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	require.True(t, TOTP{}.CheckAt(testSecret, codeAt(t, now.Add(-30*time.Second)), now))
	require.True(t, TOTP{}.CheckAt(testSecret, codeAt(t, now.Add(30*time.Second)), now))
}

func TestCheckAtRejectsOutsideSkewWindow(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	require.False(t, TOTP{}.CheckAt(testSecret, codeAt(t, now.Add(-2*time.Minute)), now))
	require.False(t, TOTP{}.CheckAt(testSecret, codeAt(t, now.Add(2*time.Minute)), now))
}

func TestCheckAtRejectsMalformedCodes(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"too short", "123"},
		{"too long", "12345678"},
		{"non-numeric", "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, TOTP{}.CheckAt(testSecret, tt.code, now))
		})
	}
}

func TestCheckAtRejectsEmptySecret(t *testing.T) {
	require.False(t, TOTP{}.CheckAt("", "123456", time.Now().UTC()))
}

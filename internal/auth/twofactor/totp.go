package twofactor

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// period is the RFC 6238 time step.
	period = 30
	// skew allows one step either way for client clock drift.
	skew = 1
)

// TOTP validates time-based one-time codes: 6 digits, SHA-1, 30-second step,
// ±1 step tolerance. Pure function of (secret, code, clock); nothing is
// retained between calls.
type TOTP struct{}

func New() TOTP {
	return TOTP{}
}

func (t TOTP) Check(secret string, code string) bool {
	return t.CheckAt(secret, code, time.Now().UTC())
}

// CheckAt validates against an explicit clock. Malformed codes (wrong
// length, non-digits) report false, never an error to the caller.
func (TOTP) CheckAt(secret string, code string, now time.Time) bool {
	if secret == "" || code == "" {
		return false
	}

	ok, err := totp.ValidateCustom(code, secret, now, totp.ValidateOpts{
		Period:    period,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}

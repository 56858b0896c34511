package credentials

import (
	"context"
	"errors"
	"fmt"

	"login-service/internal/user"
)

// SecondFactor validates a submitted one-time code against the user's
// enrolled secret.
type SecondFactor interface {
	Check(secret string, code string) bool
}

// Verifier decides pass/fail/second-factor for a local login attempt. It
// reads the user store and nothing else; no state survives between calls.
type Verifier struct {
	users  user.Store
	second SecondFactor
}

func NewVerifier(users user.Store, second SecondFactor) *Verifier {
	return &Verifier{
		users:  users,
		second: second,
	}
}

// Verify walks one attempt through the credential policy:
//
//  1. empty email or password rejects without a lookup
//  2. unknown email or a federated-only account (no stored hash) rejects,
//     paying a dummy bcrypt comparison so timing matches a wrong password
//  3. password mismatch rejects
//  4. accounts without a second factor are authenticated
//  5. a missing code on a second-factor account demands re-submission
//  6. the code is checked against the enrolled secret
//
// The rejected outcome never distinguishes which of 1-3 fired.
func (v *Verifier) Verify(ctx context.Context, a Attempt) (Result, error) {

	if a.Email == "" || a.Password == "" {
		return Result{Outcome: OutcomeRejected}, nil
	}

	u, err := v.users.FindByEmail(ctx, a.Email)
	if errors.Is(err, user.ErrNotFound) {
		compareDummy(a.Password)
		return Result{Outcome: OutcomeRejected}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("credentials: user lookup failed: %w", err)
	}

	if u.PasswordHash == "" {
		// federated-only account, local login never succeeds
		compareDummy(a.Password)
		return Result{Outcome: OutcomeRejected}, nil
	}

	if err := VerifyPassword(u.PasswordHash, a.Password); err != nil {
		return Result{Outcome: OutcomeRejected}, nil
	}

	if !u.TwoFactorEnabled {
		return Result{Outcome: OutcomeAuthenticated, User: u}, nil
	}

	if a.Code == "" {
		return Result{Outcome: OutcomeSecondFactorRequired}, nil
	}

	if !v.second.Check(u.TwoFactorSecret, a.Code) {
		return Result{Outcome: OutcomeSecondFactorInvalid}, nil
	}

	return Result{Outcome: OutcomeAuthenticated, User: u}, nil
}

package credentials

import "login-service/internal/user"

// Attempt is one submitted local login. It lives for a single request and is
// never persisted or logged.
type Attempt struct {
	Email    string
	Password string
	Code     string // optional second-factor code
}

// Outcome is the decision of one verification attempt. Authentication
// branches are outcomes, not errors; the error return of Verify is reserved
// for upstream failures.
type Outcome int

const (
	OutcomeRejected Outcome = iota
	OutcomeAuthenticated
	OutcomeSecondFactorRequired
	OutcomeSecondFactorInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeSecondFactorRequired:
		return "second_factor_required"
	case OutcomeSecondFactorInvalid:
		return "second_factor_invalid"
	default:
		return "unknown"
	}
}

// Result carries the outcome of a verification. User is set only when
// Outcome is OutcomeAuthenticated.
type Result struct {
	Outcome Outcome
	User    user.User
}

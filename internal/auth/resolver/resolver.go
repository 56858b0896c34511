package resolver

import (
	"context"

	"login-service/internal/auth"
	"login-service/internal/user"
)

// Resolver determines which internal user a federated identity belongs to.
// It is the ONLY place where identity-to-user mapping logic lives.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (user.User, error)
}

package user

import "context"

// Store defines how user records are looked up and how federated
// identities are mapped onto them. Lookups return ErrNotFound on miss.
type Store interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)

	// FindByProvider resolves a (provider, provider_user_id) mapping.
	FindByProvider(ctx context.Context, provider, providerUserID string) (User, error)

	// LinkProvider attaches a federated identity to an existing user.
	LinkProvider(ctx context.Context, userID, provider, providerUserID string) error

	// CreateFederated provisions a new user from a federated identity
	// and links the provider mapping in one step.
	CreateFederated(ctx context.Context, nu FederatedUser, provider, providerUserID string) (User, error)
}

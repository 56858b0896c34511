package user

import "errors"

// ErrNotFound keeps lookup misses consistent across store implementations.
var ErrNotFound = errors.New("user not found")

// User is the primary identity record. The service only reads it during
// authentication; account mutation (beyond federated auto-provisioning)
// lives outside this service.
type User struct {
	ID    string
	Email string
	Name  string
	Image string

	// PasswordHash is empty for federated-only accounts. Such accounts
	// can never pass local credential verification.
	PasswordHash string

	Role string

	TwoFactorEnabled bool
	TwoFactorSecret  string
}

// FederatedUser captures what a new user looks like when it is
// auto-provisioned from a federated identity.
type FederatedUser struct {
	Email string
	Name  string
	Image string
	Role  string
}

package auth

// Identity represents a normalized external authentication identity
// returned by a federated provider. It contains facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "google", "github"
	ProviderUserID string // provider-scoped unique user identifier (sub)
	Email          string // verified email returned by provider
	EmailVerified  bool   // whether provider asserts email ownership
	Name           string // display name, may be empty
	Picture        string // avatar URL, may be empty
}

package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"login-service/internal/auth"
	"login-service/internal/logger"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const (
	providerName = "github"

	userEndpoint   = "https://api.github.com/user"
	emailsEndpoint = "https://api.github.com/user/emails"
)

// Provider implements OAuth authentication against GitHub. GitHub issues no
// id_token, so identity facts come from its user API after the exchange.
type Provider struct {
	oauthConfig *oauth2.Config
}

func New(
	clientID string,
	clientSecret string,
	redirectURL string,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     githuboauth.Endpoint,
		Scopes: []string{
			"read:user",
			"user:email",
		},
	}

	return &Provider{
		oauthConfig: oauthCfg,
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// ExchangeCode exchanges the authorization code and returns a normalized
// identity. This method MUST NOT create users, sessions, or linking logic.
func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		logger.Error("github token exchange failed", map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	client := p.oauthConfig.Client(ctx, token)

	var ghUser struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, userEndpoint, &ghUser); err != nil {
		return nil, fmt.Errorf("github user fetch failed: %w", err)
	}
	if ghUser.ID == 0 {
		return nil, errors.New("github user response missing id")
	}

	email := ghUser.Email
	verified := email != ""

	// The profile email is often hidden; fall back to the primary
	// verified address from the emails endpoint.
	if email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, emailsEndpoint, &emails); err != nil {
			return nil, fmt.Errorf("github emails fetch failed: %w", err)
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				verified = true
				break
			}
		}
	}

	if email == "" {
		return nil, errors.New("github account has no usable verified email")
	}

	name := ghUser.Name
	if name == "" {
		name = ghUser.Login
	}

	logger.Info("github oauth verified", map[string]any{
		"email_verified": verified,
	})

	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: strconv.FormatInt(ghUser.ID, 10),
		Email:          email,
		EmailVerified:  verified,
		Name:           name,
		Picture:        ghUser.AvatarURL,
	}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

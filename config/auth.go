package config

import (
	"strings"
	"time"
)

// OAuthConfig contains optional OIDC single sign-on configuration.
// SSO is offered on the login page only when discovery URL, client ID, and
// client secret are all set.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/sso/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// Enabled reports whether enough configuration is present to offer SSO.
func (o *OAuthConfig) Enabled() bool {
	return o.DiscoveryURL != "" && o.ClientID != "" && o.ClientSecret != ""
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// SessionTTL caps how long a server-side session lives when the identity
	// backend does not supply its own expiry.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// OAuth configuration for optional SSO.
	OAuth OAuthConfig `envPrefix:"OAUTH_"`
}

// Sanitize applies defaults to auth configuration.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 12 * time.Hour
	}
	a.OAuth.DiscoveryURL = strings.TrimSpace(a.OAuth.DiscoveryURL)
	a.OAuth.ClientID = strings.TrimSpace(a.OAuth.ClientID)
}

package oidc

// Package oidc provides the optional single sign-on adapter for recruiters.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/navix1456/recruiter-platform/internal/domain/auth"
	"github.com/navix1456/recruiter-platform/internal/ports"
	"golang.org/x/oauth2"
)

var _ ports.AuthProvider = (*Provider)(nil)

// Provider implements ports.AuthProvider using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	logoutURL  string
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	LogoutURL    string
	HTTPClient   *http.Client // Optional
}

// DiscoveryDocument represents the OIDC discovery document.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// NewProvider creates a new OIDC provider. It performs a single discovery fetch.
func NewProvider(config ProviderConfig) (*Provider, error) {
	switch {
	case config.ClientID == "":
		return nil, errors.New("client ID is required")
	case config.ClientSecret == "":
		return nil, errors.New("client secret is required")
	case config.RedirectURL == "":
		return nil, errors.New("redirect URL is required")
	case config.DiscoveryURL == "":
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Provider{
		logoutURL:    config.LogoutURL,
		httpClient:   httpClient,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       strings.Fields(config.Scope),
			Endpoint:     op.Endpoint(),
		},
	}, nil
}

// LogoutURL returns the IdP end-session URL, if configured.
func (p *Provider) LogoutURL() string { return p.logoutURL }

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	// redirect_uri must match the configured RedirectURL exactly, so it is not overridden here.
	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	fields, err := p.extractFromIDToken(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("extract id_token: %w", err)
	}

	if fields.email == "" || fields.userID == "" {
		ui, uiErr := p.getUserInfo(ctx, token.AccessToken)
		if uiErr != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", uiErr)
		}
		fillFromUserInfo(&fields, ui)
	}
	if fields.email == "" {
		return domainauth.Identity{}, errors.New("identity provider did not return an email address")
	}
	if fields.emailVerified != nil && !*fields.emailVerified {
		return domainauth.Identity{}, errors.New("email address is not verified")
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	return domainauth.Identity{
		UserID:    fields.userID,
		Email:     strings.ToLower(fields.email),
		Name:      fields.name,
		ExpiresAt: expiresAt,
	}, nil
}

// claims covers the standard OIDC profile and email scopes.
type claims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	Name          string `json:"name"`
	Nonce         string `json:"nonce"`
}

type idFields struct {
	userID        string
	email         string
	emailVerified *bool
	name          string
}

func (p *Provider) getUserInfo(ctx context.Context, accessToken string) (claims, error) {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return claims{}, fmt.Errorf("fetch user info: %w", err)
	}
	var c claims
	if claimsErr := ui.Claims(&c); claimsErr != nil {
		return claims{}, fmt.Errorf("decode user info: %w", claimsErr)
	}
	return c, nil
}

func (p *Provider) extractFromIDToken(ctx context.Context, tok *oauth2.Token, expectedNonce string) (idFields, error) {
	if !slices.Contains(p.config.Scopes, "openid") {
		return idFields{}, nil
	}
	rawID, err := getIDTokenFromToken(tok)
	if err != nil {
		return idFields{}, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return idFields{}, fmt.Errorf("verify id_token: %w", err)
	}
	var c claims
	if claimsErr := idTok.Claims(&c); claimsErr != nil {
		return idFields{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if c.Nonce != expectedNonce {
		return idFields{}, errors.New("invalid nonce")
	}
	return mapClaims(c), nil
}

func mapClaims(c claims) idFields {
	return idFields{userID: c.Sub, email: c.Email, emailVerified: c.EmailVerified, name: c.Name}
}

func fillFromUserInfo(f *idFields, ui claims) {
	if f.userID == "" {
		f.userID = ui.Sub
	}
	if f.email == "" {
		f.email = ui.Email
		f.emailVerified = ui.EmailVerified
	}
	if f.name == "" {
		f.name = ui.Name
	}
}

// generateRandomString generates a cryptographically secure URL-safe random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	b := make([]byte, (length*3+3)/4+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}

// getIDTokenFromToken extracts the id_token from oauth2.Token.
func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}

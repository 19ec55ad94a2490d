package auth

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// Identity is what a federated provider tells us about the signed-in person.
type Identity struct {
	Provider    string
	Subject     string
	Email       string
	DisplayName string
}

// Provider is one redirect-based sign-in flow.
type Provider interface {
	Name() string
	// AuthCodeURL is where the browser is sent to sign in.
	AuthCodeURL(state string) string
	// Exchange redeems the authorization code. form holds the callback's
	// query or POST form, which some providers use for extra fields.
	Exchange(ctx context.Context, code string, form url.Values) (*Identity, error)
}

var ErrMissingIdentity = errors.New("provider returned no usable identity")

// CallbackPath is the path the providers redirect back to.
func CallbackPath(provider string) string {
	return "/api/auth/oauth/" + provider + "/callback"
}

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// Google signs users in with Google's OpenID Connect userinfo endpoint.
type Google struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogle(clientID, clientSecret, baseURL string) *Google {
	return &Google{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  strings.TrimRight(baseURL, "/") + CallbackPath(models.ProviderGoogle),
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoints.Google,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (g *Google) Name() string { return models.ProviderGoogle }

func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (g *Google) Exchange(ctx context.Context, code string, _ url.Values) (*Identity, error) {
	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.config.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("google userinfo: %s; body: %s", resp.Status, b)
	}

	var info struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	// Unverified addresses are refused.
	if info.Sub == "" || info.Email == "" || !info.EmailVerified {
		return nil, ErrMissingIdentity
	}

	return &Identity{
		Provider:    models.ProviderGoogle,
		Subject:     info.Sub,
		Email:       info.Email,
		DisplayName: info.Name,
	}, nil
}

const appleAudience = "https://appleid.apple.com"

var appleEndpoint = oauth2.Endpoint{
	AuthURL:   "https://appleid.apple.com/auth/authorize",
	TokenURL:  "https://appleid.apple.com/auth/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Apple implements Sign in with Apple. Apple posts the callback as a form
// and only sends the user's name, in the "user" field, on the first sign-in.
type Apple struct {
	config *oauth2.Config
	teamID string
	keyID  string
	key    *ecdsa.PrivateKey
	now    func() time.Time
}

// NewApple parses the PEM private key of the Sign in with Apple key. Escaped
// newlines ("\n" as two characters) are accepted so the key fits in an
// environment variable.
func NewApple(clientID, teamID, keyID, privateKeyPEM, baseURL string) (*Apple, error) {
	pemData := strings.ReplaceAll(privateKeyPEM, `\n`, "\n")
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(pemData))
	if err != nil {
		return nil, fmt.Errorf("apple private key: %w", err)
	}

	return &Apple{
		config: &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: strings.TrimRight(baseURL, "/") + CallbackPath(models.ProviderApple),
			Scopes:      []string{"name", "email"},
			Endpoint:    appleEndpoint,
		},
		teamID: teamID,
		keyID:  keyID,
		key:    key,
		now:    time.Now,
	}, nil
}

func (a *Apple) Name() string { return models.ProviderApple }

func (a *Apple) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.SetAuthURLParam("response_mode", "form_post"))
}

// clientSecret builds the short-lived ES256 JWT Apple expects in place of a
// static client secret.
func (a *Apple) clientSecret() (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.RegisteredClaims{
		Issuer:    a.teamID,
		Subject:   a.config.ClientID,
		Audience:  jwt.ClaimStrings{appleAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	})
	token.Header["kid"] = a.keyID
	return token.SignedString(a.key)
}

func (a *Apple) Exchange(ctx context.Context, code string, form url.Values) (*Identity, error) {
	secret, err := a.clientSecret()
	if err != nil {
		return nil, fmt.Errorf("apple client secret: %w", err)
	}

	cfg := *a.config
	cfg.ClientSecret = secret

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("apple exchange: %w", err)
	}

	rawIDToken, _ := tok.Extra("id_token").(string)
	if rawIDToken == "" {
		return nil, ErrMissingIdentity
	}

	// The id_token comes straight from Apple's token endpoint over TLS, so
	// its claims are read without verifying the signature.
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawIDToken, claims); err != nil {
		return nil, fmt.Errorf("apple id_token: %w", err)
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return nil, ErrMissingIdentity
	}

	return &Identity{
		Provider:    models.ProviderApple,
		Subject:     sub,
		Email:       email,
		DisplayName: appleDisplayName(form.Get("user")),
	}, nil
}

func appleDisplayName(user string) string {
	if user == "" {
		return ""
	}
	var u struct {
		Name struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
		} `json:"name"`
	}
	if err := json.Unmarshal([]byte(user), &u); err != nil {
		return ""
	}
	return strings.TrimSpace(u.Name.FirstName + " " + u.Name.LastName)
}

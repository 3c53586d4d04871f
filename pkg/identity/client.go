package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"file-concierge-be/internal/entity"
	"file-concierge-be/internal/repository/contract"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// Config holds the app registration for the directory tenant
type Config struct {
	ClientID     string
	ClientSecret string
	TenantID     string
	RedirectURL  string
	Scopes       []string
}

// Identity is the resolved principal after a successful code exchange
type Identity struct {
	AccountID string
	Email     string
	Token     *oauth2.Token
}

// Client drives the authorization-code flow and keeps refresh tokens in
// the token cache so later turns can mint access tokens silently.
type Client struct {
	oauth  *oauth2.Config
	tokens contract.TokenCacheRepository
	logger *log.Logger
}

func NewClient(cfg Config, tokens contract.TokenCacheRepository, logger *log.Logger) *Client {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"offline_access", "User.Read", "Files.Read.All", "Mail.Send"}
	}
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     microsoft.AzureADEndpoint(cfg.TenantID),
		},
		tokens: tokens,
		logger: logger,
	}
}

// AuthCodeURL builds the login redirect for the given CSRF state
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange redeems the authorization code, extracts the principal from the
// id_token and persists the token material for silent refresh.
func (c *Client) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	rawIDToken, _ := token.Extra("id_token").(string)
	accountID, email, err := parseIdentityClaims(rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("id_token parsing failed: %w", err)
	}

	if err := c.persist(ctx, accountID, email, token); err != nil {
		return nil, fmt.Errorf("token cache write failed: %w", err)
	}

	return &Identity{
		AccountID: accountID,
		Email:     email,
		Token:     token,
	}, nil
}

// RefreshSilent mints a fresh access token for the account from the cached
// refresh token. Implements the dialogue guard's Refresher contract.
func (c *Client) RefreshSilent(ctx context.Context, accountID string) (string, error) {
	record, err := c.tokens.FindByAccountID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("token cache read failed: %w", err)
	}
	if record == nil {
		return "", fmt.Errorf("no cached token for account %s", accountID)
	}

	var cached persistedToken
	if err := json.Unmarshal(record.Cache, &cached); err != nil {
		return "", fmt.Errorf("token cache corrupt for account %s: %w", accountID, err)
	}

	current := cached.toToken()
	refreshed, err := c.oauth.TokenSource(ctx, current).Token()
	if err != nil {
		return "", fmt.Errorf("silent refresh failed: %w", err)
	}

	if refreshed.AccessToken != current.AccessToken {
		if err := c.persist(ctx, accountID, record.UserEmail, refreshed); err != nil {
			// The caller still gets a valid token; only the cache write failed.
			c.logger.Printf("[IDENTITY] Token cache update failed for %s: %v", accountID, err)
		}
	}
	return refreshed.AccessToken, nil
}

// Logout drops the cached token material for the account
func (c *Client) Logout(ctx context.Context, accountID string) error {
	return c.tokens.DeleteByAccountID(ctx, accountID)
}

func (c *Client) persist(ctx context.Context, accountID, email string, token *oauth2.Token) error {
	payload, err := json.Marshal(fromToken(token))
	if err != nil {
		return err
	}
	return c.tokens.Upsert(ctx, &entity.TokenCache{
		AccountID: accountID,
		UserEmail: email,
		Cache:     payload,
	})
}

// persistedToken is the JSON shape stored in the token cache table
type persistedToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
}

func fromToken(t *oauth2.Token) persistedToken {
	return persistedToken{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

func (p persistedToken) toToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		Expiry:       p.Expiry,
	}
}

// parseIdentityClaims reads oid/tid/preferred_username from the id_token.
// The token arrives over the code-exchange TLS channel straight from the
// issuer, so signature verification is not repeated here.
func parseIdentityClaims(rawIDToken string) (accountID, email string, err error) {
	if rawIDToken == "" {
		return "", "", fmt.Errorf("no id_token in response")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawIDToken, claims); err != nil {
		return "", "", err
	}

	oid, _ := claims["oid"].(string)
	tid, _ := claims["tid"].(string)
	email, _ = claims["preferred_username"].(string)

	if oid == "" || email == "" {
		return "", "", fmt.Errorf("id_token missing oid or preferred_username")
	}

	// Home account id format: <oid>.<tid>
	accountID = oid
	if tid != "" {
		accountID = oid + "." + tid
	}
	return accountID, email, nil
}

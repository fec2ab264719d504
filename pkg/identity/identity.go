// Package identity resolves who is editing: the username the tenant is
// keyed by and the bearer token attached to saves.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim names carried by editor tokens.
const (
	ClaimUsername    = "username"
	ClaimTenantID    = "tenant_id"
	ClaimWebsiteName = "website_name"
)

var (
	// ErrNoToken is returned when a token is required but absent.
	ErrNoToken = errors.New("no auth token")

	// ErrInvalidToken is returned for tokens that fail verification or lack
	// a username.
	ErrInvalidToken = errors.New("invalid auth token")
)

// Identity is the authenticated editor.
type Identity struct {
	Username    string
	Token       string
	TenantID    string
	WebsiteName string
}

// Authenticated reports whether a token is present.
func (i Identity) Authenticated() bool {
	return i.Token != ""
}

// TenantKey is the key the tenant document is fetched and saved under.
// It is the website name when set, the username otherwise.
func (i Identity) TenantKey() string {
	if i.WebsiteName != "" {
		return i.WebsiteName
	}
	return i.Username
}

// Provider returns the current identity.
type Provider interface {
	Current(ctx context.Context) (Identity, error)
}

// Static is a Provider that always returns the same identity.
type Static Identity

// Current implements Provider.
func (s Static) Current(context.Context) (Identity, error) {
	return Identity(s), nil
}

// FromToken reads the identity claims of a token without verifying its
// signature. Editors hold tokens issued elsewhere and only need to know
// whose they are; the server verifies them.
func FromToken(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrNoToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("%v: %w", err, ErrInvalidToken)
	}
	id := identityFromClaims(claims)
	if id.Username == "" {
		return Identity{}, fmt.Errorf("missing %s claim: %w", ClaimUsername, ErrInvalidToken)
	}
	id.Token = token
	return id, nil
}

// TokenProvider is a Provider backed by a bearer token.
type TokenProvider struct {
	Token string
}

// Current implements Provider.
func (p TokenProvider) Current(context.Context) (Identity, error) {
	return FromToken(p.Token)
}

// Issuer signs and verifies editor tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an issuer. A zero ttl issues tokens valid for a day.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for id.
func (i *Issuer) Issue(id Identity) (string, error) {
	if id.Username == "" {
		return "", errors.New("identity has no username")
	}
	now := i.now()
	claims := jwt.MapClaims{
		"sub":         id.Username,
		ClaimUsername: id.Username,
		"iat":         now.Unix(),
		"exp":         now.Add(i.ttl).Unix(),
	}
	if id.TenantID != "" {
		claims[ClaimTenantID] = id.TenantID
	}
	if id.WebsiteName != "" {
		claims[ClaimWebsiteName] = id.WebsiteName
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its identity.
func (i *Issuer) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrNoToken
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		return Identity{}, fmt.Errorf("%v: %w", err, ErrInvalidToken)
	}
	id := identityFromClaims(claims)
	if id.Username == "" {
		return Identity{}, fmt.Errorf("missing %s claim: %w", ClaimUsername, ErrInvalidToken)
	}
	id.Token = token
	return id, nil
}

func identityFromClaims(claims jwt.MapClaims) Identity {
	var id Identity
	if s, ok := claims[ClaimUsername].(string); ok {
		id.Username = s
	}
	if id.Username == "" {
		if s, ok := claims["sub"].(string); ok {
			id.Username = s
		}
	}
	if s, ok := claims[ClaimTenantID].(string); ok {
		id.TenantID = s
	}
	if s, ok := claims[ClaimWebsiteName].(string); ok {
		id.WebsiteName = s
	}
	return id
}

// Verifier checks a bearer token and returns whose it is. *Issuer is a
// Verifier.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// Unverified is a Verifier that trusts the claims of any well-formed token.
// It is meant for local development servers without a secret.
type Unverified struct{}

// Verify implements Verifier.
func (Unverified) Verify(token string) (Identity, error) {
	return FromToken(token)
}

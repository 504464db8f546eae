// Package auth turns bearer tokens into principals. Tokens only prove who
// the caller is; the role always comes from the profiles table.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bakery-storefront/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// ErrInvalidToken is returned for any token that fails parsing or validation.
var ErrInvalidToken = errors.New("invalid or expired token")

// ProfileLookup resolves a user id to its profile.
type ProfileLookup interface {
	GetByID(ctx context.Context, id string) (*model.Profile, error)
}

// Verifier validates HMAC-signed JWTs.
type Verifier struct {
	secret   []byte
	profiles ProfileLookup
	logger   zerolog.Logger
}

// NewVerifier creates a verifier for tokens signed with secret.
func NewVerifier(secret string, profiles ProfileLookup, logger zerolog.Logger) *Verifier {
	return &Verifier{
		secret:   []byte(secret),
		profiles: profiles,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// UserID validates tokenString and returns its subject.
func (v *Verifier) UserID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		userID, _ = claims["sub"].(string)
	}
	if userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// Authenticate resolves a token to a principal. A user without a profile
// row is treated as a customer.
func (v *Verifier) Authenticate(ctx context.Context, tokenString string) (*model.Principal, error) {
	userID, err := v.UserID(tokenString)
	if err != nil {
		return nil, err
	}

	profile, err := v.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	p := &model.Principal{UserID: userID, Role: model.RoleCustomer}
	if profile != nil {
		p.Role = profile.Role
		p.FullName = profile.FullName
	} else {
		v.logger.Debug().Str("user_id", userID).Msg("no profile, defaulting to customer")
	}
	return p, nil
}

// SignToken issues an HS256 token for userID. It backs the dev tooling
// and tests; production tokens come from the identity provider.
func SignToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

type contextKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *model.Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFrom returns the authenticated principal, or nil for anonymous callers.
func PrincipalFrom(ctx context.Context) *model.Principal {
	p, _ := ctx.Value(contextKey{}).(*model.Principal)
	return p
}

package service

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"basic-api/internal/domain"
)

// AuthGate admits or rejects a request based on its bearer token.
type AuthGate struct {
	tokens TokenService
	logger logrus.FieldLogger
}

func NewAuthGate(tokens TokenService, logger logrus.FieldLogger) *AuthGate {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &AuthGate{tokens: tokens, logger: logger}
}

// Authenticate extracts the token from the Authorization header and verifies it.
// Every verification failure is reported as domain.ErrUnauthorized.
func (g *AuthGate) Authenticate(header http.Header) (*domain.TokenClaims, error) {
	authHeader := header.Get("Authorization")
	if authHeader == "" {
		return nil, domain.ErrMissingHeader
	}

	g.logger.WithField("scheme", schemeOf(authHeader)).Debug("auth header received")

	token := tokenSegment(authHeader)
	if token == "" {
		return nil, domain.ErrMissingToken
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		g.logger.WithError(err).Debug("token rejected")
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// tokenSegment returns the second space-separated segment of the header.
func tokenSegment(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func schemeOf(authHeader string) string {
	scheme, _, _ := strings.Cut(authHeader, " ")
	return scheme
}

type identityKey struct{}

// WithIdentity attaches verified claims to ctx.
func WithIdentity(ctx context.Context, claims *domain.TokenClaims) context.Context {
	return context.WithValue(ctx, identityKey{}, claims)
}

// IdentityFromContext returns the claims attached by WithIdentity.
func IdentityFromContext(ctx context.Context) (*domain.TokenClaims, bool) {
	claims, ok := ctx.Value(identityKey{}).(*domain.TokenClaims)
	return claims, ok && claims != nil
}

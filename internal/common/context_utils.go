package common

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"bizportal/internal/models"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
	RequestIDKey contextKey = "request_id"
)

var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WithPrincipal stores the authenticated principal in ctx
func WithPrincipal(ctx context.Context, principal *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

// GetPrincipalFromContext extracts the authenticated principal from the request context.
// A nil result means the request is anonymous.
func GetPrincipalFromContext(ctx context.Context) *models.Principal {
	principal, ok := ctx.Value(PrincipalKey).(*models.Principal)
	if !ok || principal == nil || strings.TrimSpace(principal.UserID) == "" {
		return nil
	}
	return principal
}

// GetRequestIDFromContext returns the request ID set by the request ID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// ValidateNamespace checks that a customer folder is a single safe path segment
func ValidateNamespace(namespace string) error {
	if !namespacePattern.MatchString(namespace) {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, namespace)
	}
	return nil
}

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bizportal/internal/common"
	"bizportal/internal/models"
)

// JWTCustomClaims carries the claims issued by the hosted identity provider (Cognito)
type JWTCustomClaims struct {
	Email    string   `json:"email,omitempty"`
	Username string   `json:"cognito:username,omitempty"`
	Groups   []string `json:"cognito:groups,omitempty"`
	TokenUse string   `json:"token_use,omitempty"`
	ClientID string   `json:"client_id,omitempty"`
	jwt.RegisteredClaims

	expectedClientID string
}

// Validate is called by the jwt parser after the registered claims pass. With an
// app client configured, only ID tokens for that audience and access tokens
// issued to that client are accepted.
func (c *JWTCustomClaims) Validate() error {
	if c.expectedClientID == "" {
		return nil
	}
	switch c.TokenUse {
	case "id":
		if !slices.Contains(c.Audience, c.expectedClientID) {
			return errors.New("id token issued for another app client")
		}
	case "access":
		if c.ClientID != c.expectedClientID {
			return errors.New("access token issued to another app client")
		}
	default:
		return fmt.Errorf("unexpected token_use %q", c.TokenUse)
	}
	return nil
}

// JWTConfig selects how bearer tokens are verified. KeyFunc wins over SigningKey.
type JWTConfig struct {
	SigningKey []byte
	KeyFunc    jwt.Keyfunc
	// ClientID is the Cognito app client tokens must be issued for; empty skips the check.
	ClientID string
	// AdminGroup members are marked as admins on the principal.
	AdminGroup string
}

// JWTMiddleware validates the bearer token and stores the principal in the request context
func JWTMiddleware(cfg JWTConfig) echo.MiddlewareFunc {
	jwtConfig := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &JWTCustomClaims{expectedClientID: cfg.ClientID}
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*JWTCustomClaims)
			if !ok || claims.Subject == "" {
				return
			}

			principal := &models.Principal{
				UserID: claims.Subject,
				Email:  claims.Email,
				Admin:  cfg.AdminGroup != "" && slices.Contains(claims.Groups, cfg.AdminGroup),
			}
			c.SetRequest(c.Request().WithContext(common.WithPrincipal(c.Request().Context(), principal)))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized").SetInternal(err)
		},
	}

	if cfg.KeyFunc != nil {
		jwtConfig.KeyFunc = cfg.KeyFunc
	} else {
		jwtConfig.SigningKey = cfg.SigningKey
	}

	return echojwt.WithConfig(jwtConfig)
}

// NewCognitoKeyFunc fetches the user pool's JWKS and keeps it refreshed in the background.
// The returned stop function ends the refresh goroutine.
func NewCognitoKeyFunc(ctx context.Context, jwksURL string, refresh time.Duration, logger *zap.Logger) (jwt.Keyfunc, func(), error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   refresh,
		RefreshRateLimit:  time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("failed to refresh JWKS", zap.String("url", jwksURL), zap.Error(err))
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("fetch JWKS from %s: %w", jwksURL, err)
	}
	return jwks.Keyfunc, jwks.EndBackground, nil
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/infrastructure/auth"
	"github.com/sarva/backend/internal/infrastructure/logger"
	"github.com/sarva/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Identity context keys and headers
const (
	IdentityKey    = "identity"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
	UserIDHeader   = "X-User-ID"
	UserRoleHeader = "X-User-Role"
)

// IdentityConfig holds configuration for the identity middleware
type IdentityConfig struct {
	// JWTService validates bearer tokens. Required.
	JWTService *auth.JWTService
	// HeaderFallback reads X-User-ID / X-User-Role when no Authorization header is sent
	HeaderFallback bool
	Logger         *zap.Logger
}

// Identity resolves the caller of each request. A request without credentials
// continues as a guest and the services decide whether that is enough. A
// request that presents a bad token is rejected with 401.
func Identity(cfg IdentityConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		id, err := resolveIdentity(c, cfg)
		if err != nil {
			log.Warn("Token validation failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			code := dto.ErrCodeTokenInvalid
			message := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
				message = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(code, message, c.GetString(logger.RequestIDKey)))
			return
		}

		c.Set(IdentityKey, id)
		if id.IsResolved() {
			ctx, _ := logger.WithIdentity(c.Request.Context(), logger.FromContext(c.Request.Context()), id)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func resolveIdentity(c *gin.Context, cfg IdentityConfig) (identity.Identity, error) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" {
		if cfg.HeaderFallback {
			return identity.New(c.GetHeader(UserIDHeader), identity.ParseRole(c.GetHeader(UserRoleHeader))), nil
		}
		return identity.Identity{}, nil
	}

	token, ok := strings.CutPrefix(header, BearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return identity.Identity{}, auth.ErrInvalidToken
	}
	claims, err := cfg.JWTService.ValidateToken(strings.TrimSpace(token))
	if err != nil {
		return identity.Identity{}, err
	}
	return claims.Identity(), nil
}

// GetIdentity returns the caller stored by the Identity middleware.
// A request that never went through it yields an unresolved identity.
func GetIdentity(c *gin.Context) identity.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if id, ok := v.(identity.Identity); ok {
			return id
		}
	}
	return identity.Identity{}
}

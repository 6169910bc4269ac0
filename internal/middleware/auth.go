package middleware

import (
	"errors"
	"fmt"
	"strings"

	"workforce/config"
	"workforce/internal/core"
	cErr "workforce/internal/pkg/error"
	"workforce/internal/pkg/response"
	"workforce/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// Auth 驗證上游簽發的 Bearer token，取出 tenantId / role / userId 給下游
type Auth struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	config *config.Configuration
}

func NewAuth(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
) *Auth {
	return &Auth{logger: logger, trace: trace, config: config}
}

func (middleware *Auth) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanAuthMiddleware))
		meta := core.TraceAuthMiddlewareMeta{}
		fail := func(status string, err *cErr.Error) {
			meta.Status = status
			middleware.trace.ApplyTraceAttributes(span, meta)
			response.AbortWithError(c, err)
			end(err)
		}

		token := bearerToken(c)
		if token == "" {
			fail("missing_token", cErr.Unauthorized("Missing bearer token"))
			return
		}

		claims, err := middleware.parse(token)
		if err != nil {
			middleware.logger.Debug("[Auth] token rejected", zap.Error(err))
			fail("invalid_token", cErr.InvalidSession("Invalid or expired token").Wrap(err))
			return
		}
		meta.UserID, meta.TenantID, meta.Role = claims.UserID, claims.CompanyID, claims.Role

		if strings.TrimSpace(claims.CompanyID) == "" {
			fail("missing_tenant", cErr.Forbidden("Company ID not found in token"))
			return
		}
		if strings.TrimSpace(claims.Role) == "" {
			fail("missing_role", cErr.Forbidden("Role not found in token"))
			return
		}

		meta.Status = "success"
		middleware.trace.ApplyTraceAttributes(span, meta)
		end(nil)

		c.Set(core.ContextUserIDKey, claims.UserID)
		c.Set(core.ContextTenantIDKey, claims.CompanyID)
		c.Set(core.ContextRoleKey, claims.Role)
		c.Next()
	}
}

func (middleware *Auth) parse(raw string) (*core.Claims, error) {
	secret := []byte(middleware.config.Auth.JWTSecret)
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is not configured")
	}
	claims := &core.Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if iss := middleware.config.Auth.Issuer; iss != "" && !claims.VerifyIssuer(iss, true) {
		return nil, fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}
	return claims, nil
}

func bearerToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(auth) > len("bearer ") && strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}

package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tenantdomain "github.com/smallbiznis/relaycrm/internal/tenant/domain"
	"github.com/smallbiznis/relaycrm/internal/tenantctx"
	"go.uber.org/zap"
)

const (
	HeaderRequestID       = "X-Request-ID"
	HeaderTenantID        = "X-Tenant-ID"
	HeaderTenantSubdomain = "X-Tenant-Subdomain"

	contextRequestIDKey = "request_id"
	contextTenantIDKey  = "tenant_id"
	contextUserIDKey    = "user_id"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextRequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func AccessLog(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http.access")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(contextRequestIDKey)),
		}
		if tenantID := c.GetString(contextTenantIDKey); tenantID != "" {
			fields = append(fields, zap.String("tenant_id", tenantID))
		}
		if lastErr := c.Errors.Last(); lastErr != nil {
			fields = append(fields, zap.Error(lastErr.Err))
		}

		log.Info("request", fields...)
	}
}

// TenantContext resolves the tenant from the identification headers and
// stores it in the request context. Every handler behind it operates on
// that tenant's rows only.
func (s *Server) TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, err := s.tenantSvc.Resolve(c.Request.Context(), tenantdomain.ResolveRequest{
			ID:        c.GetHeader(HeaderTenantID),
			Subdomain: c.GetHeader(HeaderTenantSubdomain),
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextTenantIDKey, tenant.ID.String())
		c.Request = c.Request.WithContext(tenantctx.WithTenantID(c.Request.Context(), tenant.ID))
		c.Next()
	}
}

// AuthRequired validates the bearer token. A token minted for one tenant is
// rejected on requests resolved to another, regardless of signature validity.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.issuer.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if tenantID := c.GetString(contextTenantIDKey); tenantID != "" && claims.TenantID != tenantID {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextUserIDKey, claims.Subject)
		if parsed, ok := parseSnowflake(claims.Subject); ok {
			c.Request = c.Request.WithContext(tenantctx.WithUserID(c.Request.Context(), parsed))
		}
		c.Next()
	}
}

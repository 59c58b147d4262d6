package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	obscontext "github.com/lodgeops/lodgeops/internal/observability/context"
	"github.com/lodgeops/lodgeops/internal/propertyctx"
)

const HeaderProperty = "X-Property-Id"

// PropertyContext resolves the acting property from the request header
// and injects it into the request context. Single-property deployments
// fall back to the configured default.
func (s *Server) PropertyContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderProperty))

		var propertyID snowflake.ID
		if raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil || parsed == 0 {
				AbortWithError(c, newValidationError("property_id", "invalid_property", "invalid property id"))
				return
			}
			propertyID = parsed
		} else if s.cfg.DefaultPropertyID != 0 {
			propertyID = snowflake.ParseInt64(s.cfg.DefaultPropertyID)
		}

		if propertyID == 0 {
			AbortWithError(c, newValidationError("property_id", "invalid_property", "missing property id"))
			return
		}

		ctx := propertyctx.WithPropertyID(c.Request.Context(), propertyID)
		ctx = obscontext.WithPropertyID(ctx, propertyID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Set("property_id", propertyID.String())
		c.Next()
	}
}

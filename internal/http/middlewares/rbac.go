package middlewares

import (
	"github.com/geocoder89/todohub/internal/http/respond"
	"github.com/gin-gonic/gin"
)

func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := PrincipalFromContext(c); !ok {
			respond.Unauthorized(c)
			return
		}
		c.Next()
	}
}

// RequireAnyRole lets the request through when the principal holds at
// least one of roles.
func RequireAnyRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFromContext(c)
		if !ok {
			respond.Unauthorized(c)
			return
		}
		if !p.HasAnyRole(roles...) {
			respond.Forbidden(c, roles...)
			return
		}
		c.Next()
	}
}

package middlewares

import (
	"strings"

	"github.com/geocoder89/todohub/internal/actorctx"
	"github.com/geocoder89/todohub/internal/auth"
	"github.com/geocoder89/todohub/internal/domain/user"
	"github.com/geocoder89/todohub/internal/http/respond"
	"github.com/geocoder89/todohub/internal/observability"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
	prom   *observability.Prom
}

func NewAuthMiddleware(tokens TokenVerifier, prom *observability.Prom) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, prom: prom}
}

var (
	publicPrefixes = []string{"/api/v1/auth/", "/api/v1/public/", "/swagger", "/error"}
	publicPaths    = map[string]struct{}{
		"/healthz": {},
		"/readyz":  {},
		"/metrics": {},
	}
)

// IsPublicPath reports whether path bypasses authentication entirely.
func IsPublicPath(path string) bool {
	if _, ok := publicPaths[path]; ok {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// bearerToken extracts the token from "Bearer <token>"; the scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate attaches the principal of a valid bearer token. Requests
// without an Authorization header continue anonymously; a header that does
// not verify ends the request with 401.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		raw, ok := bearerToken(header)
		if !ok {
			m.prom.AuthEvent("token", "malformed_header")
			respond.Unauthorized(c, "invalid_authorization_header")
			return
		}

		claims, err := m.tokens.Verify(raw)
		if err != nil {
			m.prom.AuthEvent("token", "invalid")
			respond.Unauthorized(c, "invalid_token")
			return
		}

		roles := knownRoles(claims.Roles)
		if len(roles) == 0 {
			m.prom.AuthEvent("token", "no_known_role")
			respond.Unauthorized(c, "invalid_token")
			return
		}

		p := actorctx.Principal{Email: claims.Email(), Roles: roles}
		c.Request = c.Request.WithContext(actorctx.WithPrincipal(c.Request.Context(), p))
		c.Set(CtxPrincipal, p)

		c.Next()
	}
}

// knownRoles drops role claims the gate does not understand.
func knownRoles(claimed []string) []string {
	out := make([]string, 0, len(claimed))
	for _, r := range claimed {
		if user.IsKnownRole(r) {
			out = append(out, r)
		}
	}
	return out
}

// PrincipalFromContext returns the principal set by Authenticate, falling
// back to the request context for handlers mounted without the gin key.
func PrincipalFromContext(c *gin.Context) (actorctx.Principal, bool) {
	if v, ok := c.Get(CtxPrincipal); ok {
		if p, ok := v.(actorctx.Principal); ok && p.Email != "" {
			return p, true
		}
	}
	return actorctx.PrincipalFrom(c.Request.Context())
}

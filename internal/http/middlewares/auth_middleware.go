package middlewares

import (
	"context"
	"strings"

	"github.com/geocoder89/accounthub/internal/account"
	"github.com/geocoder89/accounthub/internal/auth"
	"github.com/geocoder89/accounthub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep these interfaces small so tests can fake them easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthMiddleware struct {
	jwt   TokenVerifier
	users UserGetter
}

func NewAuthMiddleware(jwt TokenVerifier, users UserGetter) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users}
}

// Authenticate resolves a Bearer token into the caller's record and stashes
// it on the gin context. It never rejects: operations that need a caller
// fail with their own Unauthorized kind, exactly like the anonymous ones
// succeed without a token. Bad or stale tokens just leave the context empty.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))

		if raw == "" {
			c.Next()
			return
		}

		claims, err := m.jwt.Verify(raw)

		if err != nil {
			c.Next()
			return
		}

		u, err := m.users.GetByID(c.Request.Context(), claims.UserID)

		if err != nil {
			c.Next()
			return
		}

		c.Set(CtxAuthUser, &u)

		c.Next()
	}
}

// AuthContextFrom builds the explicit AuthContext value handlers pass into
// the service, so handlers don't need to know the magic keys.
func AuthContextFrom(c *gin.Context) account.AuthContext {
	v, ok := c.Get(CtxAuthUser)

	if !ok {
		return account.AuthContext{}
	}

	u, ok := v.(*user.User)

	if !ok {
		return account.AuthContext{}
	}

	return account.AuthContext{User: u}
}

package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
)

const principalContextKey = "bookingd.principal"

// AuthMiddleware trusts identity headers set by the edge proxy. The service
// itself holds no credentials; X-Actor-ID and X-Actor-Roles are stamped
// upstream after authentication.
type AuthMiddleware struct{}

func (m AuthMiddleware) Handle(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader("X-Actor-ID"))
	if id == "" {
		c.Next()
		return
	}
	actor := policies.Actor{
		ID:    id,
		Name:  strings.TrimSpace(c.GetHeader("X-Actor-Name")),
		Roles: splitRoles(c.GetHeader("X-Actor-Roles")),
	}
	c.Set(principalContextKey, actor)
	c.Request = c.Request.WithContext(policies.ContextWithActor(c.Request.Context(), actor))
	c.Next()
}

func splitRoles(header string) []string {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	parts := strings.Split(header, ",")
	roles := make([]string, 0, len(parts))
	for _, part := range parts {
		role := strings.ToLower(strings.TrimSpace(part))
		if role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

func currentActor(c *gin.Context) (policies.Actor, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return policies.Actor{}, false
	}
	actor, ok := val.(policies.Actor)
	return actor, ok
}

func requireActor(c *gin.Context) (policies.Actor, bool) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return policies.Actor{}, false
	}
	return actor, true
}

package helpers

import (
	"strings"

	market "auction-marketplace/internal/marketService"

	"github.com/gin-gonic/gin"
)

const actorKey = "market.actor"

// SetActor stores the authenticated caller on the request context
func SetActor(c *gin.Context, actor market.Actor) {
	c.Set(actorKey, actor)
}

// CurrentActor returns the caller stored by the session middleware, or the anonymous actor
func CurrentActor(c *gin.Context) market.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(market.Actor); ok {
			return actor
		}
	}
	return market.Actor{}
}

// SessionToken reads the session token from the named cookie, falling back to an
// "Authorization: Bearer" header
func SessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

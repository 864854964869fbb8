package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdur28/boarding-sky-sub000/access"
	"github.com/abdur28/boarding-sky-sub000/utils"
)

// IdentityHeader is set by the identity provider's gateway.
const IdentityHeader = "X-User-Email"

const actorKey = "actor"

type ActorResolver interface {
	ResolveActor(ctx context.Context, email string) (access.Actor, error)
}

// Identify resolves the caller's role once per request.
func Identify(r ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := r.ResolveActor(c.Request.Context(), c.GetHeader(IdentityHeader))
		if err != nil {
			log.Printf("❌ resolve actor: %v", err)
			utils.JSONError(c, http.StatusInternalServerError, "internal error")
			c.Abort()
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the actor set by Identify, or an anonymous user.
func ActorFrom(c *gin.Context) access.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(access.Actor); ok {
			return a
		}
	}
	return access.Actor{Role: access.RoleUser}
}

// RequireSection stops the request before the handler unless the actor's role
// may open at least one of sections.
func RequireSection(sections ...access.Section) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := ActorFrom(c).Role
		for _, s := range sections {
			if access.CanAccess(s, role) {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, "no access")
		c.Abort()
	}
}

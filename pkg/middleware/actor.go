package middleware

import (
	"strings"

	"sporcu-lisans-takip/pkg/errutil"

	"github.com/gin-gonic/gin"
)

const (
	// ActorIDHeader carries the authenticated user id resolved by the
	// identity layer in front of this service. The registry never
	// authenticates; it only records who performed an action.
	ActorIDHeader = "X-Actor-ID"

	actorIDKey = "actor_id"
)

// RequireActor rejects mutating requests that arrive without an actor
// identity, since every lifecycle transition must be attributable.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(ActorIDHeader))
		if actor == "" {
			err := errutil.BadRequest("missing " + ActorIDHeader + " header")
			c.AbortWithStatusJSON(err.(errutil.BaseError).Code.HTTPStatus(), err.(errutil.BaseError).JSON())
			return
		}
		c.Set(actorIDKey, actor)
		c.Next()
	}
}

// ActorID returns the actor recorded by RequireActor, or "" on read paths.
func ActorID(c *gin.Context) string {
	return c.GetString(actorIDKey)
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/rentaltax/internal/models"
)

const (
	// ActorKey is the context key for the acting user
	ActorKey = "actor"
	// ActorIDHeader names the user a request acts on behalf of
	ActorIDHeader = "X-Actor-ID"
	// ActorNameHeader optionally carries the user's display name
	ActorNameHeader = "X-Actor-Name"
)

// Actor resolves who is making the request from the X-Actor-ID header,
// falling back to defaultUserID. There is no authentication; the header is trusted.
func Actor(defaultUserID string) gin.HandlerFunc {
	if defaultUserID == "" {
		defaultUserID = models.DefaultActorID
	}
	return func(c *gin.Context) {
		actor := models.Actor{
			UserID:      strings.TrimSpace(c.GetHeader(ActorIDHeader)),
			DisplayName: strings.TrimSpace(c.GetHeader(ActorNameHeader)),
		}
		if actor.UserID == "" {
			actor.UserID = defaultUserID
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}

// GetActor returns the request's actor, or the default actor when the
// Actor middleware did not run.
func GetActor(c *gin.Context) models.Actor {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(models.Actor); ok {
			return actor
		}
	}
	return models.DefaultActor()
}

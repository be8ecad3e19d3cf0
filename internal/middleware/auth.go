package middleware

import (
	"net/http"

	"naebak/internal/db"
	"naebak/internal/identity"
	"naebak/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"
const ActorKey = "actor"
const UnreadCountKey = "unread_count"

// LoadUser resolves the acting party once per request: the session user with
// their role, or an anonymous actor keyed by client IP. Everything downstream
// reads the resolved actor instead of re-querying role tables.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := identity.ClientIP(c)
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			if err := db.DB.First(&user, userID).Error; err == nil {
				c.Set(CheckUserKey, &user)
				c.Set(ActorKey, identity.ForUser(&user, ip))

				var count int64
				db.DB.Model(&models.Notification{}).
					Where("user_id = ? AND is_read = ?", user.ID, false).
					Count(&count)
				c.Set(UnreadCountKey, count)
				c.Next()
				return
			}
		}
		c.Set(ActorKey, identity.Anonymous(ip))
		c.Next()
	}
}

// GetActor returns the request-scoped actor resolved by LoadUser.
func GetActor(c *gin.Context) identity.Actor {
	if v, ok := c.Get(ActorKey); ok {
		return v.(identity.Actor)
	}
	return identity.Anonymous(identity.ClientIP(c))
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleRequired gates a route group to the given roles.
func RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		for _, role := range roles {
			if actor.Is(role) {
				c.Next()
				return
			}
		}
		c.Status(http.StatusForbidden)
		c.Abort()
	}
}

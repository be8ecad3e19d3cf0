// Package identity resolves the acting party of a request once, so workflow
// operations receive an explicit actor instead of re-querying role tables.
package identity

import (
	"fmt"
	"strings"

	"naebak/internal/models"

	"github.com/gin-gonic/gin"
)

// AnonSentinel is used when no client address can be determined at all.
const AnonSentinel = "unknown"

// Actor identifies who is performing a workflow operation: an authenticated
// user with a role set, or an anonymous visitor keyed by client IP.
type Actor struct {
	UserID uint
	IP     string
	Roles  []models.Role
}

// Anonymous builds an actor for an unauthenticated visitor.
func Anonymous(ip string) Actor {
	if ip == "" {
		ip = AnonSentinel
	}
	return Actor{IP: ip}
}

// ForUser builds an actor for an authenticated user.
func ForUser(u *models.User, ip string) Actor {
	return Actor{UserID: u.ID, IP: ip, Roles: []models.Role{u.Role}}
}

func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

// Key returns the stable ledger key for this actor. The same visitor behind
// the same IP always resolves to the same key, which is what makes anonymous
// vote toggling idempotent. IP spoofing and shared IPs are accepted
// limitations, not something this layer tries to defend against.
func (a Actor) Key() string {
	if a.Authenticated() {
		return fmt.Sprintf("user:%d", a.UserID)
	}
	return "ip:" + a.IP
}

func (a Actor) Is(role models.Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff reports whether the actor is a manager or admin.
func (a Actor) IsStaff() bool {
	return a.Is(models.RoleManager) || a.Is(models.RoleAdmin)
}

// ClientIP extracts the visitor address: first entry of X-Forwarded-For, else
// X-Real-IP, else the sentinel.
func ClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return real
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return AnonSentinel
}

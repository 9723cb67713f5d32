package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/neelam/internal/models"
)

const userContextKey = "currentUser"

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"

// SessionAuth resolves opaque session tokens to users. It is
// constructor-injected into every component that needs the current
// user; nothing resolves sessions through a global helper.
type SessionAuth struct {
	db *gorm.DB
}

// NewSessionAuth constructs a SessionAuth over the given database.
func NewSessionAuth(db *gorm.DB) *SessionAuth {
	return &SessionAuth{db: db}
}

// Resolve maps the request credential to a user, or nil when the
// request is unauthenticated. The cookie wins over the Authorization
// header. Expired sessions are not deleted; they simply stop resolving,
// as does a session whose owning user record has gone away.
func (a *SessionAuth) Resolve(c *fiber.Ctx) *models.User {
	token := c.Cookies(SessionCookieName)
	if token == "" {
		token = bearerToken(c.Get("Authorization"))
	}
	if token == "" {
		return nil
	}

	var session models.Session
	if err := a.db.First(&session, "session_token = ?", token).Error; err != nil {
		return nil
	}

	if !session.ExpiresAt.UTC().After(time.Now().UTC()) {
		return nil
	}

	var user models.User
	if err := a.db.First(&user, "id = ?", session.UserID).Error; err != nil {
		return nil
	}

	return &user
}

// LoadUser stashes the current user in the request context when a valid
// session is presented, and lets the request through either way.
func (a *SessionAuth) LoadUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user := a.Resolve(c); user != nil {
			c.Locals(userContextKey, user)
		}
		return c.Next()
	}
}

// RequireUser rejects unauthenticated requests.
func (a *SessionAuth) RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := a.Resolve(c)
		if user == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
		}
		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// RequireAdmin rejects unauthenticated requests and authenticated
// requests whose user is not an admin.
func (a *SessionAuth) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := a.Resolve(c)
		if user == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
		}
		if user.Role != models.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}
		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// CurrentUser extracts the resolved user from the request context.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	if user, ok := c.Locals(userContextKey).(*models.User); ok {
		return user, true
	}
	return nil, false
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

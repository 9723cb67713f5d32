package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/neelam/internal/config"
	"github.com/example/neelam/internal/middleware"
	"github.com/example/neelam/internal/models"
	"github.com/example/neelam/internal/utils"
)

// Sessions live a fixed 7 days from creation.
const sessionTTL = 7 * 24 * time.Hour

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db         *gorm.DB
	cfg        *config.Config
	httpClient *http.Client
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:         db,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin authenticates the configured admin account.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email != h.cfg.AdminEmail || !utils.CheckPassword(h.cfg.AdminPasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	var admin models.User
	err := h.db.First(&admin, "email = ?", h.cfg.AdminEmail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		admin = models.User{
			Email: h.cfg.AdminEmail,
			Name:  "Admin",
			Role:  models.RoleAdmin,
		}
		if err := h.db.Create(&admin).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if err := h.createSession(c, admin.ID, utils.NewSessionToken()); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user_id": admin.ID,
		"email":   admin.Email,
		"name":    admin.Name,
		"role":    admin.Role,
	})
}

type oauthSessionData struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

// OAuthSession exchanges an identity-provider session id for a local
// session. The provider-issued token becomes our session token.
func (h *AuthHandler) OAuthSession(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
	}

	req, err := http.NewRequestWithContext(c.UserContext(), http.MethodGet, h.cfg.OAuthSessionURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		log.Printf("[Auth] identity provider call failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "identity provider unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid session")
	}

	var data oauthSessionData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Printf("[Auth] identity provider response decode failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "identity provider unavailable")
	}

	var user models.User
	err = h.db.First(&user, "email = ?", data.Email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Email:   data.Email,
			Name:    data.Name,
			Picture: data.Picture,
			Role:    models.RoleCustomer,
		}
		if err := h.db.Create(&user).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	} else {
		if err := h.db.Model(&user).Updates(map[string]any{
			"name":    data.Name,
			"picture": data.Picture,
		}).Error; err != nil {
			return err
		}
	}

	if err := h.createSession(c, user.ID, data.SessionToken); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user_id": user.ID,
		"email":   user.Email,
		"name":    data.Name,
		"role":    user.Role,
	})
}

type guestAuthRequest struct {
	Phone string `json:"phone"`
}

// GuestLogin authenticates a guest by phone number, creating the guest
// user on first contact.
func (h *AuthHandler) GuestLogin(c *fiber.Ctx) error {
	var req guestAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone is required")
	}

	var guest models.User
	err := h.db.First(&guest, "phone = ? AND role = ?", req.Phone, models.RoleGuest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		guest = models.User{
			ID:    utils.NewID("user"),
			Phone: req.Phone,
			Name:  "Guest",
			Role:  models.RoleGuest,
		}
		guest.Email = fmt.Sprintf("guest_%s@houseofneelam.com", guest.ID)
		if err := h.db.Create(&guest).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if err := h.createSession(c, guest.ID, utils.NewSessionToken()); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user_id": guest.ID,
		"phone":   guest.Phone,
		"role":    guest.Role,
	})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}
	return c.JSON(user)
}

// Logout deletes the presented session and clears the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(middleware.SessionCookieName); token != "" {
		if err := h.db.Delete(&models.Session{}, "session_token = ?", token).Error; err != nil {
			return err
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		Path:     "/",
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})

	return c.JSON(fiber.Map{"message": "logged out successfully"})
}

func (h *AuthHandler) createSession(c *fiber.Ctx, userID, token string) error {
	session := models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(sessionTTL),
	}
	if err := h.db.Create(&session).Error; err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		MaxAge:   int(sessionTTL.Seconds()),
		Path:     "/",
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})

	return nil
}

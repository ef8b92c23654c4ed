// Package authapi exposes the authentication HTTP surface. It owns the
// cookie shaping: tokens travel in httpOnly, same-site-strict cookies, the
// refresh cookie scoped to the refresh endpoint only.
package authapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mensajero-app/mensajero/pkg/config"
	"github.com/mensajero-app/mensajero/pkg/iam/auth"
	"github.com/mensajero-app/mensajero/pkg/iam/auth/authsrv"
)

const refreshPath = "/auth/refresh"

type AuthHandlers struct {
	svc    *authsrv.AuthService
	guard  *auth.Guard
	jwt    config.JWTConfig
	secure bool
}

func NewAuthHandlers(svc *authsrv.AuthService, guard *auth.Guard, cfg *config.Config) *AuthHandlers {
	return &AuthHandlers{
		svc:    svc,
		guard:  guard,
		jwt:    cfg.Auth.JWT,
		secure: cfg.Server.IsProduction(),
	}
}

// RegisterRoutes wires the auth endpoints with their access class.
func (h *AuthHandlers) RegisterRoutes(app *fiber.App) {
	app.Post("/auth/register", h.guard.Middleware(auth.AccessPublic), h.register)
	app.Post("/auth/login", h.guard.Middleware(auth.AccessPublic), h.login)
	app.Post(refreshPath, h.guard.Middleware(auth.AccessRefresh), h.refresh)
	app.Post("/auth/logout", h.guard.Protect(), h.logout)
	app.Get("/auth/me", h.guard.Protect(), h.me)
}

func (h *AuthHandlers) register(c *fiber.Ctx) error {
	var in authsrv.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return auth.ErrInvalidInputMsg("invalid request body")
	}

	session, err := h.svc.Register(c.Context(), in)
	if err != nil {
		return err
	}

	h.setSessionCookies(c, session, false)
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *AuthHandlers) login(c *fiber.Ctx) error {
	var in authsrv.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return auth.ErrInvalidInputMsg("invalid request body")
	}

	session, err := h.svc.Login(c.Context(), in)
	if err != nil {
		return err
	}

	h.setSessionCookies(c, session, in.RememberMe)
	return c.JSON(session)
}

func (h *AuthHandlers) refresh(c *fiber.Ctx) error {
	token := auth.TokenFromRequest(c, auth.RefreshTokenCookie)

	refreshed, err := h.svc.Refresh(c.Context(), token)
	if err != nil {
		return err
	}

	c.Cookie(h.cookie(auth.AccessTokenCookie, refreshed.AccessToken, "/", h.jwt.AccessTTL))
	return c.JSON(refreshed)
}

func (h *AuthHandlers) logout(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)
	if !identity.IsValid() {
		return auth.ErrUnauthorized()
	}

	if err := h.svc.Logout(c.Context(), identity.UserID); err != nil {
		return err
	}

	h.clearSessionCookies(c)
	return c.JSON(fiber.Map{"success": true})
}

func (h *AuthHandlers) me(c *fiber.Ctx) error {
	identity := auth.FromFiber(c)
	if !identity.IsValid() {
		return auth.ErrUnauthorized()
	}
	return c.JSON(identity)
}

// ----------------------------------------------------------------------------
// Cookies
// ----------------------------------------------------------------------------

func (h *AuthHandlers) setSessionCookies(c *fiber.Ctx, session *auth.Session, remembered bool) {
	refreshTTL := h.jwt.RefreshTTL
	if remembered {
		refreshTTL = h.jwt.RefreshTTLRemembered
	}
	c.Cookie(h.cookie(auth.AccessTokenCookie, session.AccessToken, "/", h.jwt.AccessTTL))
	c.Cookie(h.cookie(auth.RefreshTokenCookie, session.RefreshToken, refreshPath, refreshTTL))
}

func (h *AuthHandlers) clearSessionCookies(c *fiber.Ctx) {
	c.Cookie(h.cookie(auth.AccessTokenCookie, "", "/", -time.Hour))
	c.Cookie(h.cookie(auth.RefreshTokenCookie, "", refreshPath, -time.Hour))
}

func (h *AuthHandlers) cookie(name, value, path string, ttl time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

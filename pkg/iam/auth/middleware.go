package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mensajero-app/mensajero/pkg/iam/user"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// RouteAccess classifies a route for the request gate. It is resolved once
// at route registration, never re-inspected per request.
type RouteAccess int

const (
	// AccessProtected requires a valid access token. This is the default.
	AccessProtected RouteAccess = iota

	// AccessPublic bypasses authentication entirely.
	AccessPublic

	// AccessRefresh requires a valid refresh token; used only by the
	// token refresh endpoint.
	AccessRefresh
)

// Cookie names used by the presentation layer. The refresh cookie is
// scoped to the refresh endpoint path so browsers never send the
// long-lived credential anywhere else.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// Guard is the request gate. Per request it either bypasses auth, resolves
// a refresh identity, or resolves an access identity, and attaches the
// result to the request context.
type Guard struct {
	validator Validator
}

func NewGuard(validator Validator) *Guard {
	return &Guard{validator: validator}
}

// Middleware returns the Fiber handler for one access class.
func (g *Guard) Middleware(access RouteAccess) fiber.Handler {
	switch access {
	case AccessPublic:
		return func(c *fiber.Ctx) error { return c.Next() }
	case AccessRefresh:
		return g.require(RefreshTokenCookie, g.validator.ValidateRefreshToken)
	default:
		return g.require(AccessTokenCookie, g.validator.ValidateAccessToken)
	}
}

// Protect is shorthand for the default access-token gate.
func (g *Guard) Protect() fiber.Handler {
	return g.Middleware(AccessProtected)
}

func (g *Guard) require(cookie string, validate func(ctx context.Context, token string) *user.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c, cookie)
		if token == "" {
			return ErrUnauthorized()
		}

		u := validate(c.Context(), token)
		if u == nil {
			return ErrUnauthorized()
		}

		c.Locals(string(kernel.AuthContextKey), &kernel.AuthContext{
			UserID:   u.ID,
			TenantID: u.TenantID,
			Email:    u.Email,
			Name:     u.Name,
		})
		return c.Next()
	}
}

// TokenFromRequest reads the credential from the Authorization header
// ("Bearer <token>") and falls back to the named httpOnly cookie.
func TokenFromRequest(c *fiber.Ctx, cookie string) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1]
		}
	}
	return c.Cookies(cookie)
}

// FromFiber returns the identity attached by the guard, or nil on public
// routes.
func FromFiber(c *fiber.Ctx) *kernel.AuthContext {
	ac, _ := c.Locals(string(kernel.AuthContextKey)).(*kernel.AuthContext)
	return ac
}

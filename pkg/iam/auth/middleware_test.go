package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/iam/auth"
	"github.com/mensajero-app/mensajero/pkg/iam/user"
	"github.com/mensajero-app/mensajero/pkg/kernel"
)

// stubValidator accepts exactly one access and one refresh token value.
type stubValidator struct {
	accessToken  string
	refreshToken string
	user         *user.User
}

func (v *stubValidator) ValidateAccessToken(ctx context.Context, token string) *user.User {
	if token == v.accessToken {
		return v.user
	}
	return nil
}

func (v *stubValidator) ValidateRefreshToken(ctx context.Context, token string) *user.User {
	if token == v.refreshToken {
		return v.user
	}
	return nil
}

func guardedApp(v auth.Validator) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *errx.Error
			if errors.As(err, &e) {
				return c.Status(e.HTTPStatus).JSON(e)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	guard := auth.NewGuard(v)

	app.Get("/public", guard.Middleware(auth.AccessPublic), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/protected", guard.Protect(), func(c *fiber.Ctx) error {
		identity := auth.FromFiber(c)
		if !identity.IsValid() {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(identity.Email)
	})
	app.Post("/refresh", guard.Middleware(auth.AccessRefresh), func(c *fiber.Ctx) error {
		return c.SendString("refreshed")
	})
	return app
}

func newStub() *stubValidator {
	return &stubValidator{
		accessToken:  "good-access",
		refreshToken: "good-refresh",
		user: &user.User{
			ID:       kernel.NewUserID("u1"),
			TenantID: kernel.NewTenantID("t1"),
			Email:    "alice@example.com",
			Name:     "Alice",
			IsActive: true,
		},
	}
}

func TestPublicRouteBypassesAuth(t *testing.T) {
	app := guardedApp(newStub())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/public", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("public route returned %d", resp.StatusCode)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app := guardedApp(newStub())

	cases := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"no credential", func(r *http.Request) {}},
		{"bad bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer wrong") }},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "good-access") }},
		{"refresh token on access route", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good-refresh") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tc.setup(req)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestProtectedRouteAcceptsBearerToken(t *testing.T) {
	app := guardedApp(newStub())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-access")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestProtectedRouteAcceptsCookie(t *testing.T) {
	app := guardedApp(newStub())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: "good-access"})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRefreshRouteUsesRefreshValidator(t *testing.T) {
	app := guardedApp(newStub())

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: "good-refresh"})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	// An access token must not open the refresh gate.
	req = httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: "good-access"})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestHeaderTakesPrecedenceOverCookie(t *testing.T) {
	app := guardedApp(newStub())

	// A stale cookie plus a valid header should authenticate.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-access")
	req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: "stale"})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

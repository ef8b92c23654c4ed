package authapi_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/mensajero-app/mensajero/pkg/config"
	"github.com/mensajero-app/mensajero/pkg/errx"
	"github.com/mensajero-app/mensajero/pkg/iam/auth"
	"github.com/mensajero-app/mensajero/pkg/iam/auth/authapi"
	"github.com/mensajero-app/mensajero/pkg/iam/auth/authinfra"
	"github.com/mensajero-app/mensajero/pkg/iam/auth/authsrv"
	"github.com/mensajero-app/mensajero/pkg/iam/user/userinfra"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "development"},
		Auth: config.AuthConfig{
			JWT: config.JWTConfig{
				Secret:               "handlers-test-secret",
				Issuer:               "mensajero",
				Audience:             "mensajero-api",
				AccessTTL:            15 * time.Minute,
				RefreshTTL:           7 * 24 * time.Hour,
				RefreshTTLRemembered: 30 * 24 * time.Hour,
			},
		},
	}
}

func newApp() *fiber.App {
	cfg := testConfig()
	svc := authsrv.NewAuthService(
		userinfra.NewMemoryUserRepository(),
		authinfra.NewBcryptHasher(bcrypt.MinCost),
		auth.NewJWTCodec(&cfg.Auth.JWT),
		authinfra.NewMemoryTokenStore(),
	)
	guard := auth.NewGuard(svc)
	handlers := authapi.NewAuthHandlers(svc, guard, cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *errx.Error
			if errors.As(err, &e) {
				return c.Status(e.HTTPStatus).JSON(e)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	handlers.RegisterRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any, mutate ...func(*http.Request)) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for _, m := range mutate {
		m(req)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegisterSetsSessionCookies(t *testing.T) {
	app := newApp()

	resp := postJSON(t, app, "/auth/register", fiber.Map{
		"email": "alice@example.com", "password": "hunter22", "name": "Alice",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	access := cookieByName(resp, auth.AccessTokenCookie)
	refresh := cookieByName(resp, auth.RefreshTokenCookie)
	if access == nil || refresh == nil {
		t.Fatal("both session cookies should be set")
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Error("session cookies must be httpOnly")
	}
	if access.Path != "/" {
		t.Errorf("access cookie path should be /, got %q", access.Path)
	}
	if refresh.Path != "/auth/refresh" {
		t.Errorf("refresh cookie must be path-scoped to the refresh endpoint, got %q", refresh.Path)
	}
	if access.Secure || refresh.Secure {
		t.Error("cookies should not be Secure outside production")
	}
}

func TestLoginRememberMeExtendsRefreshCookie(t *testing.T) {
	app := newApp()
	postJSON(t, app, "/auth/register", fiber.Map{
		"email": "alice@example.com", "password": "hunter22", "name": "Alice",
	})

	short := postJSON(t, app, "/auth/login", fiber.Map{
		"email": "alice@example.com", "password": "hunter22",
	})
	long := postJSON(t, app, "/auth/login", fiber.Map{
		"email": "alice@example.com", "password": "hunter22", "remember_me": true,
	})

	shortCookie := cookieByName(short, auth.RefreshTokenCookie)
	longCookie := cookieByName(long, auth.RefreshTokenCookie)
	if shortCookie == nil || longCookie == nil {
		t.Fatal("refresh cookies should be set on both logins")
	}
	if !longCookie.Expires.After(shortCookie.Expires.Add(20 * 24 * time.Hour)) {
		t.Errorf("remembered cookie should expire weeks later: %v vs %v",
			shortCookie.Expires, longCookie.Expires)
	}
}

func TestLoginFailureReturns401(t *testing.T) {
	app := newApp()
	postJSON(t, app, "/auth/register", fiber.Map{
		"email": "alice@example.com", "password": "hunter22", "name": "Alice",
	})

	resp := postJSON(t, app, "/auth/login", fiber.Map{
		"email": "alice@example.com", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if cookieByName(resp, auth.AccessTokenCookie) != nil {
		t.Error("failed login must not set cookies")
	}
}

func TestRefreshFlow(t *testing.T) {
	app := newApp()
	registered := postJSON(t, app, "/auth/register", fiber.Map{
		"email": "alice@example.com", "password": "hunter22", "name": "Alice",
	})
	refresh := cookieByName(registered, auth.RefreshTokenCookie)
	if refresh == nil {
		t.Fatal("register should set a refresh cookie")
	}

	resp := postJSON(t, app, "/auth/refresh", fiber.Map{}, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: refresh.Value})
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if c := cookieByName(resp, auth.AccessTokenCookie); c == nil || c.Value == "" {
		t.Error("refresh should set a fresh access cookie")
	}

	// The access token cannot open the refresh gate.
	access := cookieByName(registered, auth.AccessTokenCookie)
	resp = postJSON(t, app, "/auth/refresh", fiber.Map{}, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: access.Value})
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for access token on refresh gate, got %d", resp.StatusCode)
	}
}

func TestLogoutClearsCookiesAndRevokes(t *testing.T) {
	app := newApp()
	registered := postJSON(t, app, "/auth/register", fiber.Map{
		"email": "alice@example.com", "password": "hunter22", "name": "Alice",
	})
	access := cookieByName(registered, auth.AccessTokenCookie)

	resp := postJSON(t, app, "/auth/logout", fiber.Map{}, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: access.Value})
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout failed with %d", resp.StatusCode)
	}
	if c := cookieByName(resp, auth.AccessTokenCookie); c == nil || !c.Expires.Before(time.Now()) {
		t.Error("logout should expire the access cookie")
	}

	// The token is revoked server-side, not just cleared client-side.
	resp = postJSON(t, app, "/auth/logout", fiber.Map{}, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: access.Value})
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("revoked token should be rejected, got %d", resp.StatusCode)
	}
}

func TestMeReturnsIdentity(t *testing.T) {
	app := newApp()
	registered := postJSON(t, app, "/auth/register", fiber.Map{
		"email": "alice@example.com", "password": "hunter22", "name": "Alice",
	})
	access := cookieByName(registered, auth.AccessTokenCookie)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: access.Value})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var identity struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if identity.Email != "alice@example.com" || identity.Name != "Alice" {
		t.Errorf("unexpected identity %+v", identity)
	}
}

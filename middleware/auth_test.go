package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/utils"
)

type denyList map[string]bool

func (d denyList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return d[tokenID], nil
}

func newProtectedApp(cfg config.Config, revoked denyList) *fiber.App {
	app := fiber.New()
	app.Get("/me", Protected(cfg, revoked), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": UserID(c), "role": Role(c)})
	})
	return app
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", JWTTTLHours: 1, RefreshTTLHours: 24, SessionCookie: "session"}
}

func status(t *testing.T, app *fiber.App, req *http.Request) int {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestProtectedAcceptsBearerHeaderAndCookie(t *testing.T) {
	cfg := testConfig()
	pair, err := utils.IssueTokens(cfg, &models.User{ID: 7, Role: models.RoleCustomer})
	if err != nil {
		t.Fatalf("IssueTokens: %v", err)
	}
	app := newProtectedApp(cfg, denyList{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	if got := status(t, app, req); got != fiber.StatusOK {
		t.Fatalf("bearer header status = %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: cfg.SessionCookie, Value: pair.AccessToken})
	if got := status(t, app, req); got != fiber.StatusOK {
		t.Fatalf("cookie status = %d", got)
	}
}

func TestProtectedRejects(t *testing.T) {
	cfg := testConfig()
	pair, err := utils.IssueTokens(cfg, &models.User{ID: 7, Role: models.RoleCustomer})
	if err != nil {
		t.Fatalf("IssueTokens: %v", err)
	}
	claims, err := utils.ParseToken(cfg.JWTSecret, pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}

	cases := []struct {
		name    string
		header  string
		revoked denyList
	}{
		{"missing", "", denyList{}},
		{"no scheme", pair.AccessToken, denyList{}},
		{"refresh token", "Bearer " + pair.RefreshToken, denyList{}},
		{"garbage", "Bearer not-a-jwt", denyList{}},
		{"revoked", "Bearer " + pair.AccessToken, denyList{claims.TokenID: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newProtectedApp(cfg, tc.revoked)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if got := status(t, app, req); got != fiber.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", got)
			}
		})
	}
}

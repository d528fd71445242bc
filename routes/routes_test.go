package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/db"
	"github.com/meinhoongagan/home-services/logger"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/redis"
	"github.com/meinhoongagan/home-services/services"
	"github.com/meinhoongagan/home-services/storage"
	"github.com/meinhoongagan/home-services/storage/memory"
	"github.com/meinhoongagan/home-services/utils"
)

type testServer struct {
	t   *testing.T
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.Config{
		ServiceName:       "home-services-test",
		AppEnv:            "test",
		JWTSecret:         "test-secret",
		JWTTTLHours:       1,
		RefreshTTLHours:   24,
		SessionCookie:     "session",
		CORSOrigins:       []string{"*"},
		SeedAdminEmail:    "admin@test.local",
		SeedAdminPassword: "admin-pass",
	}
	log := logger.NewNop()
	stg := memory.New()
	svc := services.New(stg, log, utils.NewMailer(cfg, log), utils.DisabledUploader{}, redis.NewLocal(log))

	if err := db.Seed(context.Background(), stg, cfg, log); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &testServer{t: t, app: NewApp(cfg, svc, log)}
}

func (s *testServer) request(req *http.Request, out interface{}) int {
	s.t.Helper()

	resp, err := s.app.Test(req, -1)
	if err != nil {
		s.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		s.t.Fatalf("read body: %v", err)
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			s.t.Fatalf("%s %s: decode %q: %v", req.Method, req.URL.Path, raw, err)
		}
	}
	return resp.StatusCode
}

func (s *testServer) do(method, path, token string, body, out interface{}) int {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.request(req, out)
}

func (s *testServer) register(username string, role models.Role) {
	s.t.Helper()

	status := s.do(http.MethodPost, "/api/register", "", models.RegisterRequest{
		Username: username,
		Email:    username + "@test.local",
		Password: "secret123",
		FullName: username,
		Role:     role,
	}, nil)
	if status != fiber.StatusCreated {
		s.t.Fatalf("register %s: status %d", username, status)
	}
}

func (s *testServer) login(username, password string) models.LoginResponse {
	s.t.Helper()

	var resp models.LoginResponse
	status := s.do(http.MethodPost, "/api/login", "", models.LoginRequest{Username: username, Password: password}, &resp)
	if status != fiber.StatusOK {
		s.t.Fatalf("login %s: status %d", username, status)
	}
	return resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	var body map[string]string
	if status := s.do(http.MethodGet, "/health", "", nil, &body); status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestUnknownRouteReturnsJSONError(t *testing.T) {
	s := newTestServer(t)

	var body utils.ErrorResponse
	if status := s.do(http.MethodGet, "/api/nope", "", nil, &body); status != fiber.StatusNotFound {
		t.Fatalf("status = %d", status)
	}
	if body.Error != "Not Found" {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	var body utils.ErrorResponse
	status := s.do(http.MethodPost, "/api/register", "", map[string]string{"username": "x"}, &body)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	if len(body.Details) == 0 {
		t.Fatal("expected field details")
	}

	s.register("alice", models.RoleCustomer)
	if status := s.do(http.MethodPost, "/api/register", "", models.RegisterRequest{
		Username: "alice", Email: "other@test.local", Password: "secret123", FullName: "A",
	}, nil); status != fiber.StatusConflict {
		t.Fatalf("duplicate register status = %d", status)
	}

	if status := s.do(http.MethodPost, "/api/register", "", models.RegisterRequest{
		Username: "root", Email: "root@test.local", Password: "secret123", FullName: "R", Role: models.RoleAdmin,
	}, nil); status != fiber.StatusBadRequest {
		t.Fatalf("admin self-registration status = %d", status)
	}

	if status := s.do(http.MethodPost, "/api/register", "", models.RegisterRequest{
		Username: "Admin", Email: "squatter@test.local", Password: "secret123", FullName: "S",
	}, nil); status != fiber.StatusConflict {
		t.Fatalf("reserved username status = %d", status)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", models.RoleCustomer)

	if status := s.do(http.MethodPost, "/api/login", "", models.LoginRequest{Username: "alice", Password: "wrong"}, nil); status != fiber.StatusUnauthorized {
		t.Fatalf("bad password status = %d", status)
	}
	if status := s.do(http.MethodGet, "/api/user", "", nil, nil); status != fiber.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", status)
	}

	session := s.login("alice@test.local", "secret123")
	if session.User.Username != "alice" {
		t.Fatalf("login user = %q", session.User.Username)
	}

	var me models.User
	if status := s.do(http.MethodGet, "/api/user", session.Token, nil, &me); status != fiber.StatusOK || me.Username != "alice" {
		t.Fatalf("me status = %d user = %q", status, me.Username)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: session.Token})
	if status := s.request(req, nil); status != fiber.StatusOK {
		t.Fatalf("cookie auth status = %d", status)
	}

	// Refresh rotates the pair and burns the old refresh token.
	var refreshed models.LoginResponse
	if status := s.do(http.MethodPost, "/api/refresh", "", models.RefreshRequest{RefreshToken: session.RefreshToken}, &refreshed); status != fiber.StatusOK {
		t.Fatalf("refresh status = %d", status)
	}
	if status := s.do(http.MethodPost, "/api/refresh", "", models.RefreshRequest{RefreshToken: session.RefreshToken}, nil); status != fiber.StatusUnauthorized {
		t.Fatalf("reused refresh status = %d", status)
	}
	if status := s.do(http.MethodPost, "/api/refresh", "", models.RefreshRequest{RefreshToken: refreshed.Token}, nil); status != fiber.StatusUnauthorized {
		t.Fatalf("access token used as refresh status = %d", status)
	}

	if status := s.do(http.MethodPost, "/api/logout", refreshed.Token, nil, nil); status != fiber.StatusOK {
		t.Fatalf("logout status = %d", status)
	}
	if status := s.do(http.MethodGet, "/api/user", refreshed.Token, nil, nil); status != fiber.StatusUnauthorized {
		t.Fatalf("revoked token status = %d", status)
	}
}

func TestUpdateUserProfile(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", models.RoleCustomer)
	token := s.login("alice", "secret123").Token

	name := "Alice Smith"
	var user models.User
	if status := s.do(http.MethodPatch, "/api/user", token, models.UpdateUserRequest{FullName: &name}, &user); status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if user.FullName != name {
		t.Fatalf("full_name = %q", user.FullName)
	}
}

func TestServiceCatalogWritesAreAdminOnly(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", models.RoleCustomer)
	customer := s.login("alice", "secret123").Token
	admin := s.login("admin", "admin-pass").Token

	var catalog []models.Service
	if status := s.do(http.MethodGet, "/api/services", "", nil, &catalog); status != fiber.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if len(catalog) != len(db.DefaultServices) {
		t.Fatalf("catalog size = %d, want %d", len(catalog), len(db.DefaultServices))
	}

	req := models.ServiceRequest{Name: "Roofing", Category: "roofing", BasePrice: 90}
	if status := s.do(http.MethodPost, "/api/services", customer, req, nil); status != fiber.StatusForbidden {
		t.Fatalf("customer create status = %d", status)
	}

	var created models.Service
	if status := s.do(http.MethodPost, "/api/services", admin, req, &created); status != fiber.StatusCreated {
		t.Fatalf("admin create status = %d", status)
	}

	var filtered []models.Service
	s.do(http.MethodGet, "/api/services?category=roofing", "", nil, &filtered)
	if len(filtered) != 1 || filtered[0].ID != created.ID {
		t.Fatalf("filtered = %+v", filtered)
	}

	path := fmt.Sprintf("/api/services/%d", created.ID)
	if status := s.do(http.MethodDelete, path, admin, nil, nil); status != fiber.StatusNoContent {
		t.Fatalf("delete status = %d", status)
	}
	if status := s.do(http.MethodGet, path, "", nil, nil); status != fiber.StatusNotFound {
		t.Fatalf("get deleted status = %d", status)
	}
	if status := s.do(http.MethodGet, "/api/services/abc", "", nil, nil); status != fiber.StatusBadRequest {
		t.Fatalf("bad id status = %d", status)
	}
}

func TestBookingLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", models.RoleCustomer)
	s.register("bob", models.RoleProvider)
	customer := s.login("alice", "secret123").Token
	provider := s.login("bob", "secret123").Token
	admin := s.login("admin", "admin-pass").Token

	// The provider directory is public even though "/api/provider" routes
	// are protected.
	if status := s.do(http.MethodGet, "/api/providers", "", nil, nil); status != fiber.StatusOK {
		t.Fatalf("directory status = %d", status)
	}
	if status := s.do(http.MethodGet, "/api/provider/profile", provider, nil, nil); status != fiber.StatusNotFound {
		t.Fatalf("missing profile status = %d", status)
	}

	var profile models.ProviderProfile
	if status := s.do(http.MethodPost, "/api/provider/profile", provider, models.ProviderProfileRequest{
		BusinessName: "Bob's Plumbing",
		Category:     "plumbing",
		HourlyRate:   50,
	}, &profile); status != fiber.StatusCreated {
		t.Fatalf("create profile status = %d", status)
	}
	if status := s.do(http.MethodPost, "/api/provider/profile", customer, models.ProviderProfileRequest{
		BusinessName: "Nope", Category: "plumbing",
	}, nil); status != fiber.StatusForbidden {
		t.Fatalf("customer profile status = %d", status)
	}

	var catalog []models.Service
	s.do(http.MethodGet, "/api/services?category=plumbing", "", nil, &catalog)
	if len(catalog) == 0 {
		t.Fatal("no plumbing service seeded")
	}

	var booking storage.BookingDetails
	status := s.do(http.MethodPost, "/api/bookings", customer, models.CreateBookingRequest{
		ProviderID:     profile.ID,
		ServiceID:      catalog[0].ID,
		ScheduledAt:    time.Now().Add(48 * time.Hour),
		Address:        "1 Main St",
		EstimatedHours: 2,
	}, &booking)
	if status != fiber.StatusCreated {
		t.Fatalf("create booking status = %d", status)
	}
	if booking.Status != models.StatusRequested || booking.TotalPrice != 100 {
		t.Fatalf("booking = %+v", booking.Booking)
	}
	if status := s.do(http.MethodPost, "/api/bookings", provider, models.CreateBookingRequest{
		ProviderID: profile.ID, ServiceID: catalog[0].ID, ScheduledAt: time.Now().Add(time.Hour), Address: "x",
	}, nil); status != fiber.StatusForbidden {
		t.Fatalf("provider booking status = %d", status)
	}

	var providerBookings []storage.BookingDetails
	s.do(http.MethodGet, "/api/bookings?status=requested", provider, nil, &providerBookings)
	if len(providerBookings) != 1 || providerBookings[0].ID != booking.ID {
		t.Fatalf("provider bookings = %d", len(providerBookings))
	}

	statusPath := fmt.Sprintf("/api/bookings/%d/status", booking.ID)
	move := func(token string, to models.BookingStatus) int {
		return s.do(http.MethodPatch, statusPath, token, models.UpdateBookingStatusRequest{Status: to}, nil)
	}

	if got := move(customer, models.StatusAccepted); got != fiber.StatusForbidden {
		t.Fatalf("customer accept status = %d", got)
	}
	if got := move(provider, models.StatusApproved); got != fiber.StatusBadRequest {
		t.Fatalf("skip ahead status = %d", got)
	}
	if got := move(provider, models.StatusAccepted); got != fiber.StatusOK {
		t.Fatalf("accept status = %d", got)
	}

	payment := models.CreatePaymentRequest{BookingID: booking.ID, Method: models.MethodCard}
	if got := s.do(http.MethodPost, "/api/payments", customer, payment, nil); got != fiber.StatusBadRequest {
		t.Fatalf("early payment status = %d", got)
	}

	if got := move(provider, models.StatusCompleted); got != fiber.StatusOK {
		t.Fatalf("complete status = %d", got)
	}

	var paid models.Payment
	if got := s.do(http.MethodPost, "/api/payments", customer, payment, &paid); got != fiber.StatusCreated {
		t.Fatalf("payment status = %d", got)
	}
	if paid.Amount != 100 {
		t.Fatalf("amount = %v", paid.Amount)
	}
	if got := s.do(http.MethodPost, "/api/payments", customer, payment, nil); got != fiber.StatusConflict {
		t.Fatalf("double payment status = %d", got)
	}

	var received []models.Payment
	s.do(http.MethodGet, "/api/payments", provider, nil, &received)
	if len(received) != 1 {
		t.Fatalf("provider payments = %d", len(received))
	}

	review := models.CreateReviewRequest{BookingID: booking.ID, Rating: 5, Comment: "great"}
	if got := s.do(http.MethodPost, "/api/reviews", customer, review, nil); got != fiber.StatusCreated {
		t.Fatalf("review status = %d", got)
	}
	if got := s.do(http.MethodPost, "/api/reviews", customer, review, nil); got != fiber.StatusConflict {
		t.Fatalf("double review status = %d", got)
	}

	var public services.PublicProfile
	s.do(http.MethodGet, fmt.Sprintf("/api/providers/%d", profile.ID), "", nil, &public)
	if public.Rating != 5 || public.ReviewCount != 1 || public.CompletedJobs != 1 {
		t.Fatalf("public profile = %+v", public.ProviderProfile)
	}

	var reviews services.ReviewPage
	s.do(http.MethodGet, fmt.Sprintf("/api/providers/%d/reviews", profile.ID), "", nil, &reviews)
	if reviews.Total != 1 || len(reviews.Reviews) != 1 {
		t.Fatalf("reviews = %+v", reviews)
	}

	if got := s.do(http.MethodGet, fmt.Sprintf("/api/bookings/%d/payment", booking.ID), customer, nil, nil); got != fiber.StatusOK {
		t.Fatalf("booking payment status = %d", got)
	}
	if got := s.do(http.MethodGet, fmt.Sprintf("/api/bookings/%d/review", booking.ID), provider, nil, nil); got != fiber.StatusOK {
		t.Fatalf("booking review status = %d", got)
	}

	var dashboard services.Dashboard
	if got := s.do(http.MethodGet, "/api/provider/dashboard", provider, nil, &dashboard); got != fiber.StatusOK {
		t.Fatalf("dashboard status = %d", got)
	}
	if dashboard.TotalEarnings != 100 {
		t.Fatalf("earnings = %v", dashboard.TotalEarnings)
	}

	var stats storage.PlatformStats
	if got := s.do(http.MethodGet, "/api/admin/stats", admin, nil, &stats); got != fiber.StatusOK {
		t.Fatalf("admin stats status = %d", got)
	}
	if stats.TotalBookings != 1 || stats.TotalRevenue != 100 {
		t.Fatalf("stats = %+v", stats)
	}
	if got := s.do(http.MethodGet, "/api/admin/stats", customer, nil, nil); got != fiber.StatusForbidden {
		t.Fatalf("customer admin status = %d", got)
	}
}

func TestAdminVerifiesProviderAndCredential(t *testing.T) {
	s := newTestServer(t)
	s.register("bob", models.RoleProvider)
	provider := s.login("bob", "secret123").Token
	admin := s.login("admin", "admin-pass").Token

	var profile models.ProviderProfile
	s.do(http.MethodPost, "/api/provider/profile", provider, models.ProviderProfileRequest{
		BusinessName: "Bob's Electric", Category: "electrical",
	}, &profile)

	var credential models.Credential
	if got := s.do(http.MethodPost, "/api/provider/credentials", provider, models.CredentialRequest{
		Type: "license", Name: "Electrician License", LicenseNumber: "EL-1",
	}, &credential); got != fiber.StatusCreated {
		t.Fatalf("add credential status = %d", got)
	}

	var queue []models.Credential
	s.do(http.MethodGet, "/api/admin/credentials", admin, nil, &queue)
	if len(queue) != 1 || queue[0].ID != credential.ID {
		t.Fatalf("pending queue = %+v", queue)
	}

	verified := true
	var updated models.Credential
	if got := s.do(http.MethodPatch, fmt.Sprintf("/api/admin/credentials/%d/verify", credential.ID), admin,
		models.VerifyRequest{IsVerified: &verified}, &updated); got != fiber.StatusOK {
		t.Fatalf("verify credential status = %d", got)
	}
	if updated.Status != models.CredentialVerified || updated.VerifiedAt == nil {
		t.Fatalf("credential = %+v", updated)
	}
	if got := s.do(http.MethodDelete, fmt.Sprintf("/api/provider/credentials/%d", credential.ID), provider, nil, nil); got != fiber.StatusConflict {
		t.Fatalf("delete verified credential status = %d", got)
	}

	var unverified services.ProviderPage
	s.do(http.MethodGet, "/api/admin/providers?verified=false", admin, nil, &unverified)
	if unverified.Total != 1 {
		t.Fatalf("unverified total = %d", unverified.Total)
	}

	if got := s.do(http.MethodPatch, fmt.Sprintf("/api/admin/providers/%d/verify", profile.ID), admin,
		models.VerifyRequest{IsVerified: &verified}, nil); got != fiber.StatusOK {
		t.Fatalf("verify provider status = %d", got)
	}

	var directory services.ProviderPage
	s.do(http.MethodGet, "/api/providers?verified=true&category=electrical", "", nil, &directory)
	if directory.Total != 1 || !directory.Providers[0].IsVerified {
		t.Fatalf("directory = %+v", directory)
	}

	var public services.PublicProfile
	s.do(http.MethodGet, fmt.Sprintf("/api/providers/%d", profile.ID), "", nil, &public)
	if len(public.Credentials) != 1 {
		t.Fatalf("public credentials = %d", len(public.Credentials))
	}

	var roles map[models.Role][]models.Permission
	if got := s.do(http.MethodGet, "/api/admin/roles", admin, nil, &roles); got != fiber.StatusOK {
		t.Fatalf("roles status = %d", got)
	}
	if len(roles[models.RoleAdmin]) == 0 {
		t.Fatal("admin has no permissions")
	}
}

func TestCredentialUploadWithoutCloudinary(t *testing.T) {
	s := newTestServer(t)
	s.register("bob", models.RoleProvider)
	provider := s.login("bob", "secret123").Token
	s.do(http.MethodPost, "/api/provider/profile", provider, models.ProviderProfileRequest{
		BusinessName: "Bob's Electric", Category: "electrical",
	}, nil)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	_ = form.WriteField("type", "insurance")
	_ = form.WriteField("name", "Liability")
	_ = form.WriteField("issue_date", "2024-01-01")
	part, err := form.CreateFormFile("document", "policy.pdf")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte("%PDF-1.4"))
	if err := form.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/provider/credentials", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+provider)
	if got := s.request(req, nil); got != fiber.StatusServiceUnavailable {
		t.Fatalf("upload status = %d", got)
	}

	var list []models.Credential
	s.do(http.MethodGet, "/api/provider/credentials", provider, nil, &list)
	if len(list) != 0 {
		t.Fatalf("credentials = %d", len(list))
	}
}

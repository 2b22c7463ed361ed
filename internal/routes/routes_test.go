package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/campus-ride/campus_ride/internal/accounts"
	"github.com/campus-ride/campus_ride/internal/apperrors"
	"github.com/campus-ride/campus_ride/internal/config"
	"github.com/campus-ride/campus_ride/internal/logging"
	"github.com/campus-ride/campus_ride/internal/notification"
)

type testEnv struct {
	app      *fiber.App
	store    *accounts.Store
	recorder *notification.Recorder
}

func setupTestApp(t *testing.T) *testEnv {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	store := accounts.NewStore()
	store.Seed(accounts.DemoSeed())
	recorder := &notification.Recorder{}

	cfg := config.Config{
		AppName:        "CampusRide",
		AppEnv:         "test",
		SessionSecret:  "test-secret",
		SessionTTL:     time.Hour,
		IdempotencyTTL: time.Minute,
		LoginAttempts:  20,
	}
	app := fiber.New(fiber.Config{ErrorHandler: apperrors.Handler})
	if err := Setup(app, Deps{Cfg: cfg, Store: store, Cache: cache, Notifier: recorder, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup routes: %v", err)
	}
	return &testEnv{app: app, store: store, recorder: recorder}
}

func (e *testEnv) call(t *testing.T, method, path, body string, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (e *testEnv) login(t *testing.T, body string) (string, map[string]any) {
	t.Helper()
	resp, decoded := e.call(t, fiber.MethodPost, "/api/v1/auth/login", body, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login %s: expected 200, got %d (%v)", body, resp.StatusCode, decoded)
	}
	token, _ := decoded["token"].(string)
	user, _ := decoded["user"].(map[string]any)
	return token, user
}

func bearer(token string) map[string]string {
	return map[string]string{fiber.HeaderAuthorization: "Bearer " + token}
}

func TestRegistrationReviewLoginFlow(t *testing.T) {
	env := setupTestApp(t)
	form := `{"full_name":"Ann","phone":"0911111111","email":"ann@x.com","password":"secret1","student_id_image":"file:///tmp/id.jpg"}`

	resp, created := env.call(t, fiber.MethodPost, "/api/v1/register/student", form, nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%v)", resp.StatusCode, created)
	}
	annID, _ := created["user"].(map[string]any)["id"].(string)

	resp, body := env.call(t, fiber.MethodPost, "/api/v1/auth/login", `{"email":"ann@x.com","password":"secret1"}`, nil)
	if resp.StatusCode != fiber.StatusForbidden || body["code"] != "not_verified" {
		t.Fatalf("expected 403 not_verified before review, got %d (%v)", resp.StatusCode, body)
	}

	adminToken, admin := env.login(t, `{"username":"admin123","password":"password123"}`)
	if admin["role"] != "admin" {
		t.Fatalf("expected admin role, got %v", admin)
	}

	_, pending := env.call(t, fiber.MethodGet, "/api/v1/admin/verifications/pending", "", bearer(adminToken))
	if pending["count"] != float64(1) {
		t.Fatalf("expected one pending account, got %v", pending)
	}

	resp, _ = env.call(t, fiber.MethodPost, "/api/v1/admin/verifications/"+annID+"/approve", "", bearer(adminToken))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("approve: expected 200, got %d", resp.StatusCode)
	}
	if env.recorder.Last().Kind != notification.KindVerificationApproved {
		t.Fatalf("expected approval notification, got %+v", env.recorder.Last())
	}

	annToken, ann := env.login(t, `{"email":"ann@x.com","password":"secret1"}`)
	if ann["role"] != "student" || ann["verified"] != true {
		t.Fatalf("expected verified student, got %v", ann)
	}

	// Ann's login replaced the admin session.
	resp, _ = env.call(t, fiber.MethodGet, "/api/v1/admin/stats", "", bearer(adminToken))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected stale admin token to be rejected, got %d", resp.StatusCode)
	}

	resp, me := env.call(t, fiber.MethodGet, "/api/v1/me", "", bearer(annToken))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("me: expected 200, got %d", resp.StatusCode)
	}
	if me["user"].(map[string]any)["email"] != "ann@x.com" {
		t.Fatalf("unexpected profile %v", me)
	}

	resp, _ = env.call(t, fiber.MethodPost, "/api/v1/auth/logout", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}
	if _, ok := env.store.CurrentSession(); ok {
		t.Fatalf("expected no session after logout")
	}
	resp, _ = env.call(t, fiber.MethodGet, "/api/v1/auth/session", "", bearer(annToken))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestRegistrationIdempotencyKey(t *testing.T) {
	env := setupTestApp(t)
	form := `{"full_name":"Bo","phone":"0922222222","email":"bo@x.com","password":"secret1","student_id_image":"file:///tmp/id.jpg"}`
	headers := map[string]string{"Idempotency-Key": "signup-bo"}

	first, firstBody := env.call(t, fiber.MethodPost, "/api/v1/register/student", form, headers)
	second, secondBody := env.call(t, fiber.MethodPost, "/api/v1/register/student", form, headers)
	if first.StatusCode != fiber.StatusCreated || second.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201 twice, got %d and %d", first.StatusCode, second.StatusCode)
	}
	if second.Header.Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replayed response")
	}
	firstID := firstBody["user"].(map[string]any)["id"]
	if secondBody["user"].(map[string]any)["id"] != firstID {
		t.Fatalf("replay returned a different account")
	}
	if n := len(env.store.Pending()); n != 1 {
		t.Fatalf("expected a single pending registration, got %d", n)
	}
}

func TestRoleGuards(t *testing.T) {
	env := setupTestApp(t)

	resp, body := env.call(t, fiber.MethodGet, "/api/v1/admin/users", "", nil)
	if resp.StatusCode != fiber.StatusUnauthorized || body["success"] != false {
		t.Fatalf("expected 401 envelope without token, got %d (%v)", resp.StatusCode, body)
	}

	studentToken, _ := env.login(t, `{"email":"student@test.com","password":"demo1234"}`)
	resp, _ = env.call(t, fiber.MethodGet, "/api/v1/admin/users", "", bearer(studentToken))
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for student on admin route, got %d", resp.StatusCode)
	}

	adminToken, _ := env.login(t, `{"username":"admin123","password":"password123"}`)
	resp, _ = env.call(t, fiber.MethodGet, "/api/v1/me", "", bearer(adminToken))
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for admin on profile route, got %d", resp.StatusCode)
	}
	resp, body = env.call(t, fiber.MethodPost, "/api/v1/admin/verifications/nobody/reject", "", bearer(adminToken))
	if resp.StatusCode != fiber.StatusNotFound || body["code"] != "not_found" {
		t.Fatalf("expected 404 for unknown user, got %d (%v)", resp.StatusCode, body)
	}
}

func TestRejectedUserLosesSession(t *testing.T) {
	env := setupTestApp(t)

	token, _ := env.login(t, `{"email":"student@test.com","password":"demo1234"}`)
	if resp, _ := env.call(t, fiber.MethodGet, "/api/v1/me", "", bearer(token)); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 before rejection, got %d", resp.StatusCode)
	}

	env.store.VerifyUser("student-demo", false)

	resp, body := env.call(t, fiber.MethodGet, "/api/v1/me", "", bearer(token))
	if resp.StatusCode != fiber.StatusUnauthorized || body["code"] != "unauthorized" {
		t.Fatalf("expected 401 after rejection, got %d (%v)", resp.StatusCode, body)
	}
	resp, body = env.call(t, fiber.MethodPost, "/api/v1/auth/login", `{"email":"student@test.com","password":"demo1234"}`, nil)
	if resp.StatusCode != fiber.StatusForbidden || body["code"] != "not_verified" {
		t.Fatalf("expected rejected user to be refused at login, got %d (%v)", resp.StatusCode, body)
	}
}

func TestHealthAndPing(t *testing.T) {
	env := setupTestApp(t)

	resp, body := env.call(t, fiber.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("healthz: expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["status"].(map[string]any)["redis"] != "ok" {
		t.Fatalf("expected redis ok, got %v", body["status"])
	}
	if body["accounts"].(map[string]any)["users"] != float64(2) {
		t.Fatalf("expected seeded users in stats, got %v", body["accounts"])
	}

	resp, body = env.call(t, fiber.MethodGet, "/api/v1/ping", "", map[string]string{"X-Request-ID": "req-1"})
	if resp.StatusCode != fiber.StatusOK || body["request_id"] != "req-1" {
		t.Fatalf("unexpected ping response %d (%v)", resp.StatusCode, body)
	}
}

func TestSetupRequiresStore(t *testing.T) {
	err := Setup(fiber.New(), Deps{Cfg: config.Config{AppEnv: "development"}, Logger: logging.Discard()})
	if err == nil {
		t.Fatalf("expected error without a store")
	}
}

package admin

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-ride/campus_ride/internal/accounts"
	"github.com/campus-ride/campus_ride/internal/apperrors"
	"github.com/campus-ride/campus_ride/internal/logging"
	"github.com/campus-ride/campus_ride/internal/notification"
)

func setupApp() (*fiber.App, *accounts.Store, *notification.Recorder) {
	store := accounts.NewStore()
	store.Seed(accounts.DemoSeed())
	recorder := &notification.Recorder{}
	h := NewHandler(store, recorder, logging.Discard())

	app := fiber.New(fiber.Config{ErrorHandler: apperrors.Handler})
	app.Get("/pending", h.Pending)
	app.Get("/verified", h.Verified)
	app.Post("/verifications/:userId/approve", h.Approve)
	app.Post("/verifications/:userId/reject", h.Reject)
	app.Get("/admins", h.Admins)
	app.Post("/admins", h.CreateAdmin)
	return app, store, recorder
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func TestApproveAndReject(t *testing.T) {
	app, store, recorder := setupApp()
	ann := store.RegisterStudent(accounts.StudentRegistration{FullName: "Ann", Email: "ann@x.com", Password: "pw1"})
	bo := store.RegisterStudent(accounts.StudentRegistration{FullName: "Bo", Email: "bo@x.com", Password: "pw2"})

	_, pending := do(t, app, fiber.MethodGet, "/pending", "")
	if pending["count"] != float64(2) {
		t.Fatalf("expected 2 pending, got %v", pending["count"])
	}

	status, body := do(t, app, fiber.MethodPost, "/verifications/"+ann.ID+"/approve", "")
	if status != fiber.StatusOK {
		t.Fatalf("approve: expected 200, got %d (%v)", status, body)
	}
	if recorder.Last().Kind != notification.KindVerificationApproved {
		t.Fatalf("expected approval notification, got %+v", recorder.Last())
	}

	status, _ = do(t, app, fiber.MethodPost, "/verifications/"+bo.ID+"/reject", "")
	if status != fiber.StatusOK {
		t.Fatalf("reject: expected 200, got %d", status)
	}
	if recorder.Last().Kind != notification.KindVerificationRejected || recorder.Last().Destination != "bo@x.com" {
		t.Fatalf("expected rejection notification, got %+v", recorder.Last())
	}

	_, pending = do(t, app, fiber.MethodGet, "/pending", "")
	if pending["count"] != float64(0) {
		t.Fatalf("expected empty pending queue, got %v", pending["count"])
	}
	_, verified := do(t, app, fiber.MethodGet, "/verified", "")
	// Two seeded accounts plus Ann.
	if verified["count"] != float64(3) {
		t.Fatalf("expected 3 verified, got %v", verified["count"])
	}
}

func TestDecideUnknownUser(t *testing.T) {
	app, _, recorder := setupApp()
	status, body := do(t, app, fiber.MethodPost, "/verifications/missing/approve", "")
	if status != fiber.StatusNotFound || body["code"] != "not_found" {
		t.Fatalf("expected 404 not_found, got %d (%v)", status, body)
	}
	if len(recorder.Messages) != 0 {
		t.Fatalf("no notification expected for unknown ids")
	}
}

func TestCreateAdminEndpoint(t *testing.T) {
	app, store, _ := setupApp()

	status, _ := do(t, app, fiber.MethodPost, "/admins", `{"username":"ops","password":"secret"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}

	status, body := do(t, app, fiber.MethodPost, "/admins", `{"username":"admin123","password":"x"}`)
	if status != fiber.StatusConflict || body["code"] != "duplicate_admin" {
		t.Fatalf("expected 409 duplicate_admin, got %d (%v)", status, body)
	}

	status, _ = do(t, app, fiber.MethodPost, "/admins", `{"username":"","password":""}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for empty form, got %d", status)
	}

	if len(store.Admins()) != 2 {
		t.Fatalf("expected seeded admin plus ops, got %d", len(store.Admins()))
	}
	_, listed := do(t, app, fiber.MethodGet, "/admins", "")
	if listed["count"] != float64(2) {
		t.Fatalf("expected 2 admins listed, got %v", listed["count"])
	}
}

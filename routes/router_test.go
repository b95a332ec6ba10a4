package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"bridebuddy.app/services"
	"bridebuddy.app/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func newTestApp(t *testing.T, cfg AppConfig) *fiber.App {
	t.Helper()
	db := testutil.DB(t)
	clock := testutil.NewClock()
	reg := services.NewRegistry(db, testutil.FakeIdentity{}, services.InviteConfig{
		TTL:           7 * 24 * time.Hour,
		PublicBaseURL: "https://bridebuddy.test",
		Now:           clock.Now,
	})
	return NewApp(cfg, reg)
}

func do(t *testing.T, app *fiber.App, method, target string, caller uuid.UUID, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if caller != uuid.Nil {
		req.Header.Set(fiber.HeaderAuthorization, testutil.Bearer(caller))
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	out := map[string]interface{}{}
	if raw, _ := io.ReadAll(resp.Body); len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("%s %s: response is not a JSON object: %s", method, target, raw)
		}
	}
	return resp.StatusCode, out
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, AppConfig{CORSAllowOrigins: "*"})
	status, body := do(t, app, fiber.MethodGet, "/healthz", uuid.Nil, nil)
	if status != fiber.StatusOK || body["status"] != "ok" {
		t.Fatalf("healthz: got %d %v", status, body)
	}
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	app := newTestApp(t, AppConfig{CORSAllowOrigins: "*"})
	status, body := do(t, app, fiber.MethodGet, "/api/nope", uuid.Nil, nil)
	if status != fiber.StatusNotFound || body["reason"] != "not_found" {
		t.Fatalf("404: got %d %v", status, body)
	}
}

func TestAuthenticatedRoutesRequireBearer(t *testing.T) {
	app := newTestApp(t, AppConfig{CORSAllowOrigins: "*"})
	for _, target := range []string{"/api/wedding", "/api/bestie/permissions", "/api/updates/"} {
		status, body := do(t, app, fiber.MethodGet, target, uuid.Nil, nil)
		if status != fiber.StatusUnauthorized || body["reason"] != "unauthenticated" {
			t.Fatalf("%s: want 401 got %d %v", target, status, body)
		}
	}
}

func TestInviteFlow(t *testing.T) {
	app := newTestApp(t, AppConfig{CORSAllowOrigins: "*"})
	owner, partner := uuid.New(), uuid.New()

	status, body := do(t, app, fiber.MethodPost, "/api/weddings", owner, map[string]string{
		"partner1_name": "Emma",
		"partner2_name": "Liam",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create wedding: got %d %v", status, body)
	}

	status, body = do(t, app, fiber.MethodPost, "/api/invites", owner, map[string]string{"role": "partner"})
	if status != fiber.StatusCreated {
		t.Fatalf("create invite: got %d %v", status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("create invite: no token in %v", body)
	}

	status, body = do(t, app, fiber.MethodGet, "/api/invites/"+token, uuid.Nil, nil)
	if status != fiber.StatusOK || body["role"] != "partner" {
		t.Fatalf("invite info: got %d %v", status, body)
	}

	status, body = do(t, app, fiber.MethodPost, "/api/invites/"+token+"/accept", uuid.Nil, nil)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("anonymous accept: want 401 got %d %v", status, body)
	}

	status, body = do(t, app, fiber.MethodPost, "/api/invites/"+token+"/accept", partner, nil)
	if status != fiber.StatusOK || body["success"] != true {
		t.Fatalf("accept: got %d %v", status, body)
	}
	result, _ := body["result"].(map[string]interface{})
	if result["redirect_to"] != "/dashboard.html" {
		t.Fatalf("accept: redirect got %v", result["redirect_to"])
	}

	status, body = do(t, app, fiber.MethodPost, "/api/invites/"+token+"/accept", uuid.New(), nil)
	if status != fiber.StatusBadRequest || body["reason"] != "already_used" {
		t.Fatalf("reuse: want 400 already_used got %d %v", status, body)
	}

	status, body = do(t, app, fiber.MethodGet, "/api/wedding", partner, nil)
	if status != fiber.StatusOK || body["role"] != "partner" {
		t.Fatalf("partner profile: got %d %v", status, body)
	}
}

func TestInviteInfoIsRateLimited(t *testing.T) {
	app := newTestApp(t, AppConfig{CORSAllowOrigins: "*", PublicRateLimit: 2})
	for i := 0; i < 2; i++ {
		if status, _ := do(t, app, fiber.MethodGet, "/api/invites/unknown", uuid.Nil, nil); status != fiber.StatusNotFound {
			t.Fatalf("request %d: want 404 got %d", i, status)
		}
	}
	status, body := do(t, app, fiber.MethodGet, "/api/invites/unknown", uuid.Nil, nil)
	if status != fiber.StatusTooManyRequests || body["reason"] != "rate_limited" {
		t.Fatalf("third request: want 429 got %d %v", status, body)
	}
}

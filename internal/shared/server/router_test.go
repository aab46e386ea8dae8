package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/bootstrap"
	"casefile-backend/internal/shared/config"
)

// A first-time identity's very first request may be a write; the user
// row it references must exist by the time the write lands.
func TestFirstWriteCreatesIdentityRow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Port:            "0",
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}

	body := strings.NewReader(`{"title":"Doe v. Transit Co","clientName":"Jane Doe"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cases", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "fresh-user")
	req.Header.Set("X-User-Email", "fresh@firm.example")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("create case: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	user, err := app.UsersService.GetByID(req.Context(), "fresh-user")
	if err != nil {
		t.Fatalf("expected identity row after first write: %v", err)
	}
	if user.Email != "fresh@firm.example" {
		t.Fatalf("unexpected email: %q", user.Email)
	}
}

func TestReadsDoNotRequireIdentityRow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Port:            "0",
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
	req.Header.Set("X-Guest-Id", "browser-only")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("list cases: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

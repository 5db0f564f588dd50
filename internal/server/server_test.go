package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"parfumerie/internal/db/mock"
	"parfumerie/internal/handlers"
)

func TestNewWiresCatalogRoutes(t *testing.T) {
	db, err := mock.New(context.Background())
	if err != nil {
		t.Fatalf("mock.New returned error: %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(nil, "")
	})

	cfg := Config{Addr: ":8080", Database: db}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	if srv.httpServer.Addr != ":8080" {
		t.Fatalf("expected server addr :8080, got %q", srv.httpServer.Addr)
	}
	if srv.httpServer.Handler == nil {
		t.Fatal("expected handler to be configured")
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/parfums?where[reference][equals]=001", nil)
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected parfum lookup to return 200, got %d", rr.Code)
	}

	var envelope struct {
		TotalDocs int `json:"totalDocs"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.TotalDocs != 1 {
		t.Fatalf("expected one seeded parfum with reference 001, got %d", envelope.TotalDocs)
	}
}

func TestNewRejectsUnauthenticatedWrites(t *testing.T) {
	db, err := mock.New(context.Background())
	if err != nil {
		t.Fatalf("mock.New returned error: %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(nil, "")
	})

	srv, err := New(Config{Addr: ":9090", APIToken: "sesame", Database: db})
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/parfums", nil)
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated delete, got %d", rr.Code)
	}
}

func TestServerHandler(t *testing.T) {
	srv, err := New(Config{Addr: ":9091"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(nil, "")
	})

	handler := srv.Handler()
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected /healthz to return 200, got %d", rr.Code)
	}
}

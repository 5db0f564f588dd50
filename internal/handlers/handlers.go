package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	applog "parfumerie/internal/log"
)

var (
	database *gorm.DB
	apiToken string
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(db *gorm.DB, token string) {
	database = db
	apiToken = token
}

// authorized checks the bearer token on write requests. An empty configured
// token disables the check, which keeps local development friction-free.
func authorized(r *http.Request) bool {
	if apiToken == "" {
		return true
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(apiToken)) == 1
}

func requireToken(w http.ResponseWriter, r *http.Request) bool {
	if authorized(r) {
		return true
	}
	applog.Debug(r.Context(), "rejected unauthenticated write", "path", r.URL.Path)
	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// docsResponse is the list envelope shared with the importer's API sink.
type docsResponse struct {
	Docs      any `json:"docs"`
	TotalDocs int `json:"totalDocs"`
}

// whereParam reads a query filter expressed payload-style, e.g.
// where[reference][equals]=001.
func whereParam(r *http.Request, field, clause string) string {
	return strings.TrimSpace(r.URL.Query().Get("where[" + field + "][" + clause + "]"))
}

func limitParam(r *http.Request, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}

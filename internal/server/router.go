package server

import (
	"context"
	"net/http"

	"parfumerie/internal/handlers"
	applog "parfumerie/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	mux.HandleFunc("/healthz", handlers.Health)
	applog.Debug(context.Background(), "route registered", "path", "/healthz")
	mux.HandleFunc("/api/parfums", handlers.ParfumsResource)
	mux.HandleFunc("/api/parfums/", handlers.ParfumsResource)
	applog.Debug(context.Background(), "route registered", "path", "/api/parfums")
	mux.HandleFunc("/api/familles-olfactives", handlers.FamillesResource)
	mux.HandleFunc("/api/familles-olfactives/", handlers.FamillesResource)
	applog.Debug(context.Background(), "route registered", "path", "/api/familles-olfactives")
	return mux
}

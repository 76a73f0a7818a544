// Package server exposes the persistence service's operations over a thin
// HTTP JSON API for the browser SPA. Handlers decode, delegate to the
// service, and encode; no business logic lives here.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/oggyb/skillswap/internal/config"
	svcErr "github.com/oggyb/skillswap/internal/errors"
	"github.com/oggyb/skillswap/internal/logger"
	"github.com/oggyb/skillswap/internal/service/swap"
)

// New builds the HTTP handler: router, routes, and CORS for the SPA origin.
func New(cfg *config.Config, svc *swap.Service) http.Handler {
	h := &Handler{svc: svc}

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/users", h.ListUsers).Methods("GET")
	api.HandleFunc("/users/search", h.SearchUsers).Methods("GET")
	api.HandleFunc("/users/{id:[0-9]+}", h.GetUser).Methods("GET")
	api.HandleFunc("/users/{id:[0-9]+}", h.DeleteUser).Methods("DELETE")
	api.HandleFunc("/users/{id:[0-9]+}/activities", h.ListActivities).Methods("GET")
	api.HandleFunc("/users/{id:[0-9]+}/activities/read", h.MarkActivitiesRead).Methods("POST")
	api.HandleFunc("/users/{id:[0-9]+}/dashboard", h.Dashboard).Methods("GET")
	api.HandleFunc("/users/{id:[0-9]+}/skills", h.AddUserSkill).Methods("POST")
	api.HandleFunc("/users/{id:[0-9]+}/skills", h.RemoveUserSkill).Methods("DELETE")
	api.HandleFunc("/skills", h.ListSkills).Methods("GET")
	api.HandleFunc("/requests", h.SubmitRequest).Methods("POST")
	api.HandleFunc("/requests", h.ListRequests).Methods("GET")
	api.HandleFunc("/requests/{id:[0-9]+}/accept", h.AcceptRequest).Methods("POST")
	api.HandleFunc("/requests/{id:[0-9]+}/decline", h.DeclineRequest).Methods("POST")
	api.HandleFunc("/requests/{id:[0-9]+}", h.CancelRequest).Methods("DELETE")
	api.HandleFunc("/activities", h.AddActivity).Methods("POST")
	api.HandleFunc("/swaps/{id:[0-9]+}/schedule", h.ScheduleSession).Methods("POST")
	api.HandleFunc("/swaps/{id:[0-9]+}/complete", h.CompleteSession).Methods("POST")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.HTTP.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	return corsHandler
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("failed to encode response", "err", err)
		}
	}
}

// writeError maps the error to an HTTP status and emits a JSON error body.
func writeError(w http.ResponseWriter, err error) {
	status := svcErr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/apigovau/service-catalogue/internal/server"
	"github.com/apigovau/service-catalogue/pkg/catalogue"
)

// NewServiceHandler handles GET /new?space=<space>: create a service
// description with default content in the given space.
func NewServiceHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"path", r.URL.Path,
			"method", r.Method,
		}

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		space := r.URL.Query().Get("space")
		if space == "" {
			http.Error(w, "space query parameter is required", http.StatusBadRequest)
			return
		}

		sd, err := srv.Store.Create(r.Context(), credentialsFrom(r), space)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}

		respondJSON(w, srv.Logger, http.StatusOK, sd)
	})
}

// ServiceHandler handles the /service routes:
//
//	POST /service        create a description from the submitted content
//	GET  /service/{id}   fetch the current content
//	POST /service/{id}   append a revision
func ServiceHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"path", r.URL.Path,
			"method", r.Method,
		}

		id, idErr := parseResourceIDFromURL(r.URL.Path, "service")

		switch {
		case r.Method == http.MethodPost && idErr != nil:
			// No id in the path: create from submitted content. The fresh
			// description starts in the default (empty) space, so the write
			// is authorized against that space, same as the reference
			// behavior.
			var content catalogue.Content
			if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}

			sd, err := srv.Store.CreateWithContent(
				r.Context(), credentialsFrom(r), content, "")
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusCreated, sd)

		case r.Method == http.MethodGet && idErr == nil:
			privileged := srv.Store.IsPrivileged(r.Context(), credentialsFrom(r))
			content, err := srv.Store.Fetch(r.Context(), id, privileged)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusOK, content)

		case r.Method == http.MethodPost && idErr == nil:
			var content catalogue.Content
			if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}

			current, err := srv.Store.Revise(
				r.Context(), credentialsFrom(r), id, content)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusOK, current)

		case idErr != nil:
			http.Error(w, "Service description ID required", http.StatusBadRequest)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

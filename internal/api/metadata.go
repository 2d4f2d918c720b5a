package api

import (
	"encoding/json"
	"net/http"

	"github.com/apigovau/service-catalogue/internal/server"
	"github.com/apigovau/service-catalogue/pkg/catalogue"
)

// MetadataHandler handles POST /metadata/{id}: replace a description's
// metadata wholesale. Requires admin authorization; this is the one write
// that may reassign a document's space.
func MetadataHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"path", r.URL.Path,
			"method", r.Method,
		}

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id, err := parseResourceIDFromURL(r.URL.Path, "metadata")
		if err != nil {
			http.Error(w, "Service description ID required", http.StatusBadRequest)
			return
		}

		var metadata catalogue.Metadata
		if err := json.NewDecoder(r.Body).Decode(&metadata); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		updated, err := srv.Store.SetMetadata(
			r.Context(), credentialsFrom(r), id, metadata)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}

		respondJSON(w, srv.Logger, http.StatusOK, updated)
	})
}

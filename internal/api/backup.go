package api

import (
	"net/http"

	"github.com/apigovau/service-catalogue/internal/server"
	"github.com/apigovau/service-catalogue/pkg/catalogue"
)

// BackupResponse is the response for GET /backup.
type BackupResponse struct {
	Content []*catalogue.ServiceDescription `json:"content"`
}

// BackupHandler handles GET /backup: every service description with full
// history. Requires admin authorization.
func BackupHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"path", r.URL.Path,
			"method", r.Method,
		}

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		docs, err := srv.Store.BackupAll(r.Context(), credentialsFrom(r))
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}

		respondJSON(w, srv.Logger, http.StatusOK, BackupResponse{Content: docs})
	})
}

package api

import (
	"net/http"

	"github.com/apigovau/service-catalogue/internal/server"
	"github.com/apigovau/service-catalogue/pkg/catalogue"
)

// IndexResponse is the response for GET /index.
type IndexResponse struct {
	Content []catalogue.Summary `json:"content"`
}

// IndexHandler handles GET /index: summaries of every visible service
// description. Privilege only affects filtering; the route itself needs no
// authorization.
func IndexHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"path", r.URL.Path,
			"method", r.Method,
		}

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		privileged := srv.Store.IsPrivileged(r.Context(), credentialsFrom(r))
		summaries, err := srv.Store.List(r.Context(), privileged)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}

		respondJSON(w, srv.Logger, http.StatusOK, IndexResponse{Content: summaries})
	})
}

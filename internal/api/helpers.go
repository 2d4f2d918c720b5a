package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/apigovau/service-catalogue/pkg/auth"
	"github.com/apigovau/service-catalogue/pkg/catalogue"
)

// credentialsFrom extracts the caller's credentials from the request. The
// gate owns all interpretation of the header; handlers just pass it along.
func credentialsFrom(r *http.Request) auth.Credentials {
	return auth.Credentials{
		AuthorizationHeader: r.Header.Get("Authorization"),
	}
}

// parseResourceIDFromURL parses a URL path with the format
// "/{apiPath}/{resourceID}" and returns the resource ID.
func parseResourceIDFromURL(url, apiPath string) (string, error) {
	url = strings.TrimPrefix(url, fmt.Sprintf("/%s", apiPath))

	// Remove empty entries and validate path.
	urlPath := strings.Split(url, "/")
	var resultPath []string
	for _, v := range urlPath {
		if v != "" {
			resultPath = append(resultPath, v)
		}
	}
	if len(resultPath) > 1 {
		return "", fmt.Errorf("invalid URL path")
	}
	if len(resultPath) == 0 {
		return "", fmt.Errorf("no resource ID set in URL path")
	}

	return resultPath[0], nil
}

// respondJSON writes v as the JSON response body.
func respondJSON(w http.ResponseWriter, log hclog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding response", "error", err)
	}
}

// respondError maps store errors onto the outward HTTP contract. Forbidden
// responses carry no body detail so policy structure doesn't leak; the
// fetch path's collapsed unauthorized-to-view keeps not-found
// indistinguishable from forbidden.
func respondError(w http.ResponseWriter, log hclog.Logger, err error, logArgs ...interface{}) {
	switch {
	case errors.Is(err, catalogue.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, catalogue.ErrUnauthorizedToView):
		http.Error(w, "Unauthorized to view service description", http.StatusForbidden)
	case errors.Is(err, catalogue.ErrNotFound):
		http.Error(w, "Service description not found", http.StatusNotFound)
	default:
		log.Error("internal error handling request",
			append(logArgs, "error", err)...)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

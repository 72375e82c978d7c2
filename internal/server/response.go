package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/rootasjey/pokestats/internal/resolver"
)

// DataResponse mirrors the data member of a GraphQL response.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ErrorsResponse mirrors the errors member of a GraphQL response.
type ErrorsResponse struct {
	Errors gqlerror.List `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func success(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, DataResponse{Data: data})
}

// failure writes err as a GraphQL error. Validation errors map to 400 and
// anything else to 500.
func failure(w http.ResponseWriter, err error) {
	var gqlErr *gqlerror.Error
	if !errors.As(err, &gqlErr) {
		gqlErr = &gqlerror.Error{
			Message:    "Internal server error",
			Extensions: map[string]interface{}{"code": resolver.CodeInternal},
		}
	}

	status := http.StatusInternalServerError
	if resolver.IsClientError(gqlErr) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, ErrorsResponse{Errors: gqlerror.List{gqlErr}})
}

func badRequest(w http.ResponseWriter, message string) {
	failure(w, &gqlerror.Error{
		Message:    message,
		Extensions: map[string]interface{}{"code": resolver.CodeBadUserInput},
	})
}

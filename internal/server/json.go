package server

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/devstory/internal/model"
	"github.com/maxbolgarin/logze/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logze.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.APIError{Error: message, Status: status})
}

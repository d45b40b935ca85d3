package api

import (
	"encoding/json"
	"net/http"

	"nft-metadata-api/internal/resolver"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// statusForKind maps a resolution failure to its HTTP status.
func statusForKind(kind resolver.Kind) int {
	switch kind {
	case resolver.KindInvalidMint:
		return http.StatusBadRequest
	case resolver.KindNoMetadataAccount:
		return http.StatusNotFound
	case resolver.KindFetchFailed:
		return http.StatusBadGateway
	case resolver.KindDecodeFailed:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// writeResolutionError renders err, keeping upstream detail out of 5xx bodies.
func writeResolutionError(w http.ResponseWriter, err error) {
	kind := resolver.KindOf(err)
	status := statusForKind(kind)

	code := "internal"
	if kind != 0 {
		code = kind.String()
	}

	message := err.Error()
	switch kind {
	case resolver.KindFetchFailed:
		message = resolver.ErrFetchFailed.Error()
	case resolver.KindDecodeFailed:
		message = resolver.ErrDecodeFailed.Error()
	case 0:
		message = "internal error"
	}

	writeError(w, status, code, message)
}

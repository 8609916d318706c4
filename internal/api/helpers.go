package api

import (
	"driveline/internal/apperrors"
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError renders the discriminated error envelope. Unknown errors are
// masked behind a generic internal message so no SQL or provider detail leaks.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.StatusCode(err)
	appErr, ok := apperrors.AsError(err)
	if !ok {
		appErr = &apperrors.Error{Kind: "internal", Message: "internal server error"}
	}
	writeJSON(w, status, map[string]interface{}{"error": appErr})
}

package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"taskhub/internal/apperror"
)

// envelope is the response shape shared by every endpoint.
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Error   *errBody `json:"error,omitempty"`
}

type errBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, envelope{Success: true, Message: message, Data: data})
}

// writeError maps a service error to its status code. Internal causes are
// logged, never leaked to the client.
func writeError(w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)
	message := "internal server error"

	var appErr *apperror.Error
	if errors.As(err, &appErr) && kind != apperror.KindInternal {
		message = appErr.Message
	}
	if kind == apperror.KindInternal {
		log.Printf("internal error: %v", err)
	}

	writeJSON(w, apperror.HTTPStatus(err), envelope{
		Success: false,
		Error:   &errBody{Code: string(kind), Message: message},
	})
}

func decodeJSON(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return apperror.Validationf("invalid request body")
	}
	return nil
}

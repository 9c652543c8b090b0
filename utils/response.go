package utils

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"recipebox/apperr"
)

type M map[string]any

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// RespondWithError converts err into {success:false, message} with the status
// from apperr.Status. fallback is shown for errors that carry no user-facing
// message (storage failures and the like).
func RespondWithError(w http.ResponseWriter, err error, fallback string) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s: %v", fallback, err)
	}
	RespondWithJSON(w, status, M{"success": false, "message": apperr.Message(err, fallback)})
}

// DecodeJSON reads a JSON body of at most 1 MiB into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.ErrBadRequest, "Request body is required")
		}
		return apperr.New(apperr.ErrBadRequest, "Invalid input")
	}
	return nil
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/product-catalog/internal/model"
)

var errInvalidBody = errors.New("invalid request body")

// ErrorResponse is the body of every non-field error.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Details map[string][]string `json:"details,omitempty"`
}

// MessageResponse is returned by endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

func respondValidation(w http.ResponseWriter, ve *model.ValidationError) {
	respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ve.Fields})
}

// respondBadBody reports a request body that could not be decoded.
func respondBadBody(w http.ResponseWriter, err error) {
	if ve, ok := model.IsValidationError(err); ok {
		respondValidation(w, ve)
		return
	}
	respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "invalid request body",
		Details: map[string][]string{"non_field_errors": {"request body must be a JSON object"}},
	})
}

// decodeJSON reads a single JSON object from r into dst. An empty body decodes
// as {}; trailing data after the object is rejected.
// Type mismatches come back as a *model.ValidationError on the offending field.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		// the body must hold exactly one JSON value
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON object", errInvalidBody)
		}
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return model.NewValidationError(typeErr.Field, fmt.Sprintf("expected a %s value", typeErr.Type.Kind()))
	}
	return fmt.Errorf("%w: %v", errInvalidBody, err)
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

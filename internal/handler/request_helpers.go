package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/osse101/wardrobe/internal/logger"
)

// maxRequestBodyBytes caps JSON request bodies
const maxRequestBodyBytes = 1 << 20

// ValidationErrorResponse is returned when request validation fails
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// DecodeAndValidateRequest decodes the JSON body into req and validates it.
// On failure it writes a 400 response and returns false.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) bool {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Warn("Failed to decode "+actionName+" request", "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return false
	}

	if err := GetValidator().ValidateStruct(req); err != nil {
		log.Warn("Invalid "+actionName+" request", "error", err)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return false
	}

	return true
}

// GetQueryParam returns a required query parameter, writing a 400 when it is missing
func GetQueryParam(r *http.Request, w http.ResponseWriter, name string) (string, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		logger.FromContext(r.Context()).Warn("Missing query parameter", "param", name)
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, name))
		return "", false
	}
	return value, true
}

// GetOptionalQueryParam returns a query parameter or the empty string
func GetOptionalQueryParam(r *http.Request, name string) string {
	return r.URL.Query().Get(name)
}

// GetUserIDParam parses the required positive user_id query parameter
func GetUserIDParam(r *http.Request, w http.ResponseWriter) (int64, bool) {
	raw, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return 0, false
	}
	return parsePositiveID(r, w, "user_id", raw)
}

// GetOptionalUserIDParam parses user_id when present; nil means anonymous
func GetOptionalUserIDParam(r *http.Request, w http.ResponseWriter) (*int64, bool) {
	raw := GetOptionalQueryParam(r, "user_id")
	if raw == "" {
		return nil, true
	}
	id, ok := parsePositiveID(r, w, "user_id", raw)
	if !ok {
		return nil, false
	}
	return &id, true
}

func parsePositiveID(r *http.Request, w http.ResponseWriter, name, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		logger.FromContext(r.Context()).Warn("Invalid query parameter", "param", name, "value", raw)
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, name))
		return 0, false
	}
	return id, true
}

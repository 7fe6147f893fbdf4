package adminapi

import (
	"encoding/json"
	"net/http"
)

// problem is an RFC 7807 "problem details" response body.
type problem struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

const contentTypeProblemJSON = "application/problem+json"

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", contentTypeProblemJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

// BadRequest writes a 400 problem response.
func BadRequest(w http.ResponseWriter, detail string) { writeProblem(w, http.StatusBadRequest, "Bad Request", detail) }

// Unauthorized writes a 401 problem response.
func Unauthorized(w http.ResponseWriter, detail string) {
	writeProblem(w, http.StatusUnauthorized, "Unauthorized", detail)
}

// Forbidden writes a 403 problem response.
func Forbidden(w http.ResponseWriter, detail string) { writeProblem(w, http.StatusForbidden, "Forbidden", detail) }

// NotFound writes a 404 problem response.
func NotFound(w http.ResponseWriter, detail string) { writeProblem(w, http.StatusNotFound, "Not Found", detail) }

// Conflict writes a 409 problem response.
func Conflict(w http.ResponseWriter, detail string) { writeProblem(w, http.StatusConflict, "Conflict", detail) }

// InternalServerError writes a 500 problem response.
func InternalServerError(w http.ResponseWriter, detail string) {
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", detail)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteJSONOK writes a 200 OK JSON response.
func WriteJSONOK(w http.ResponseWriter, data any) { writeJSON(w, http.StatusOK, data) }

// WriteJSONCreated writes a 201 Created JSON response.
func WriteJSONCreated(w http.ResponseWriter, data any) { writeJSON(w, http.StatusCreated, data) }

// WriteNoContent writes a 204 No Content response.
func WriteNoContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

// decodeJSONBody decodes r's body into v, writing a 400 response and
// returning false on failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "invalid request body")
		return false
	}
	return true
}

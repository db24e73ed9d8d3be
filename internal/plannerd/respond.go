package plannerd

import (
	"encoding/json"
	"log"
	"net/http"
)

// result is a trimmed version of the teacher's server/result.Result: a
// status code plus a response body, written together so a handler commits
// to exactly one status line instead of calling w.WriteHeader and
// json.Marshal separately in every branch.
type result struct {
	status int
	body   interface{}
}

type errorResponse struct {
	Error string `json:"error"`
}

func ok(body interface{}) result      { return result{status: http.StatusOK, body: body} }
func created(body interface{}) result { return result{status: http.StatusCreated, body: body} }

func badRequest(msg string) result {
	return result{status: http.StatusBadRequest, body: errorResponse{Error: msg}}
}

func unauthorized(msg string) result {
	return result{status: http.StatusUnauthorized, body: errorResponse{Error: msg}}
}

func notFound(msg string) result {
	return result{status: http.StatusNotFound, body: errorResponse{Error: msg}}
}

func internalError(msg string) result {
	return result{status: http.StatusInternalServerError, body: errorResponse{Error: msg}}
}

func (r result) writeTo(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.status)
	if r.body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(r.body); err != nil {
		log.Printf("encode response body: %v", err)
	}
}

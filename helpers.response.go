package main

import (
	"encoding/json"
	"net/http"
)

// APIError is the data model sent when an error occurred during request processing.
type APIError struct {
	RequestID string      `json:"requestid"`
	Status    int         `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
}

// APIResponse is the data model sent when a request succeed.
// We use the omitempty flag on the `total` field. This helps
// set the value for list-style responses only.
type APIResponse struct {
	RequestID string      `json:"requestid"`
	Status    int         `json:"status"`
	Message   string      `json:"message"`
	Total     *int        `json:"total,omitempty"`
	Data      interface{} `json:"data"`
}

func NewAPIError(requestid string, status int, message string, data interface{}) *APIError {
	return &APIError{
		RequestID: requestid,
		Status:    status,
		Message:   message,
		Data:      data,
	}
}

func GenericResponse(requestid string, status int, message string, total *int, data interface{}) *APIResponse {
	return &APIResponse{
		RequestID: requestid,
		Status:    status,
		Message:   message,
		Total:     total,
		Data:      data,
	}
}

// WriteErrorResponse is used to send error response to client.
func WriteErrorResponse(w http.ResponseWriter, errResp *APIError) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(errResp.Status)
	return json.NewEncoder(w).Encode(errResp)
}

// WriteResponse is used to send success api response to client.
func WriteResponse(w http.ResponseWriter, resp *APIResponse) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(resp.Status)
	return json.NewEncoder(w).Encode(resp)
}

// StatsResponseWriter is a wrapper for http.ResponseWriter. It is used
// to record response details like status code and body size for the
// per-status statistics served on the ops endpoints.
type StatsResponseWriter struct {
	http.ResponseWriter
	code  int
	bytes int
	wrote bool
}

// NewStatsResponseWriter provides StatsResponseWriter with 200 as status code.
func NewStatsResponseWriter(rw http.ResponseWriter) *StatsResponseWriter {
	return &StatsResponseWriter{
		ResponseWriter: rw,
		code:           200,
	}
}

// WriteHeader implements http.WriteHeader interface.
func (sw *StatsResponseWriter) WriteHeader(code int) {
	if !sw.wrote {
		sw.code = code
		sw.wrote = true
		sw.ResponseWriter.WriteHeader(code)
	}
}

// Write implements http.Write interface.
func (sw *StatsResponseWriter) Write(bytes []byte) (int, error) {
	if !sw.wrote {
		sw.WriteHeader(sw.code)
	}
	n, err := sw.ResponseWriter.Write(bytes)
	sw.bytes += n
	return n, err
}

// Status returns the written status code.
func (sw *StatsResponseWriter) Status() int {
	return sw.code
}

// Bytes returns bytes written as response body.
func (sw *StatsResponseWriter) Bytes() int {
	return sw.bytes
}

// Unwrap returns native response writer and used by
// the http.ResponseController during its operation.
func (sw *StatsResponseWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

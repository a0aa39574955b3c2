// Package httpresponse builds the uniform response records returned by the
// company handlers. Every response carries the default CORS headers; callers
// may add or override headers per response.
package httpresponse

import (
	"net/http"
)

// ContentTypeJSON is the content type of every JSON body.
const ContentTypeJSON = "application/json; charset=utf-8"

// Headers is a set of response headers keyed by canonical name.
type Headers map[string]string

// Response is a transport-neutral HTTP response.
type Response struct {
	StatusCode int
	Headers    Headers
	// Body is empty when the response has no content.
	Body string
}

// DefaultHeaders returns the headers attached to every response.
func DefaultHeaders() Headers {
	return Headers{
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": "OPTIONS,POST,PUT,GET,DELETE",
		"Access-Control-Allow-Origin":  "*",
	}
}

// JSONHeaders returns the extra headers of a JSON response.
func JSONHeaders() Headers {
	return Headers{"Content-Type": ContentTypeJSON}
}

// New merges headers over the defaults and attaches body only when non-empty.
func New(statusCode int, body string, headers Headers) Response {
	merged := DefaultHeaders()
	for k, v := range headers {
		merged[k] = v
	}
	return Response{
		StatusCode: statusCode,
		Headers:    merged,
		Body:       body,
	}
}

func OK(body string, headers Headers) Response {
	return New(http.StatusOK, body, headers)
}

func Created(body string, headers Headers) Response {
	return New(http.StatusCreated, body, headers)
}

func NoContent(body string, headers Headers) Response {
	return New(http.StatusNoContent, body, headers)
}

func BadRequest(body string, headers Headers) Response {
	return New(http.StatusBadRequest, body, headers)
}

func Unauthorized(body string, headers Headers) Response {
	return New(http.StatusUnauthorized, body, headers)
}

func Forbidden(body string, headers Headers) Response {
	return New(http.StatusForbidden, body, headers)
}

func NotFound(body string, headers Headers) Response {
	return New(http.StatusNotFound, body, headers)
}

func MethodNotAllowed(body string, headers Headers) Response {
	return New(http.StatusMethodNotAllowed, body, headers)
}

func Conflict(body string, headers Headers) Response {
	return New(http.StatusConflict, body, headers)
}

func InternalServerError(body string, headers Headers) Response {
	return New(http.StatusInternalServerError, body, headers)
}

// Preflight answers a CORS preflight request with the same values the API
// gateway advertises.
func Preflight() Response {
	return New(http.StatusNoContent, "", Headers{
		"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token,X-Amz-User-Agent",
		"Access-Control-Allow-Methods": "OPTIONS,GET,PUT,POST,DELETE,PATCH,HEAD",
		"Access-Control-Max-Age":       "300",
	})
}

// Write copies r onto w.
func Write(w http.ResponseWriter, r Response) error {
	for k, v := range r.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(r.StatusCode)
	if r.Body == "" {
		return nil
	}
	_, err := w.Write([]byte(r.Body))
	return err
}

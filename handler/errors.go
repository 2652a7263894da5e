package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError pairs a status code with the message shown to the client.
// Err keeps the underlying cause for logs and errors.Is; it is never rendered.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e HTTPError) Unwrap() error { return e.Err }

// NewHTTPError builds an HTTPError wrapping cause.
func NewHTTPError(code int, message string, cause error) HTTPError {
	return HTTPError{Code: code, Message: message, Err: cause}
}

// GenericMessage is returned for every unclassified failure.
const GenericMessage = "An internal server error occurred."

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Message: "Invalid request body."}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Message: "Not found."}
	ErrMethodNotAllowed    = HTTPError{Code: http.StatusMethodNotAllowed, Message: "Method not allowed."}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Message: GenericMessage}
)

package api

import (
	"encoding/json"
	"errors"
)

// ErrUnauthorized is returned for every 401 response, whatever the body says.
var ErrUnauthorized = errors.New("Unauthorized")

// DefaultErrorMessage is used when a failed response carries no message.
const DefaultErrorMessage = "Something went wrong"

// RequestError is a non-2xx, non-401 response.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

func newRequestError(status int, body []byte) *RequestError {
	var payload struct {
		Message string `json:"message"`
	}
	msg := DefaultErrorMessage
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		msg = payload.Message
	}
	return &RequestError{StatusCode: status, Message: msg}
}

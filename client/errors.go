package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	ConnectionErrorMessage         = "Error while connecting to topcoder. Please check your connection and try again."
	InvalidCredentialsErrorMessage = "Invalid Authentication credentials. Please check your credentials and try again."
)

var (
	// ErrConnection matches every transport-level failure.
	ErrConnection = errors.New(ConnectionErrorMessage)
	// ErrInvalidCredentials is returned when an auth endpoint rejects the credentials.
	ErrInvalidCredentials = errors.New(InvalidCredentialsErrorMessage)
)

// ConnectionError wraps a failure to reach the platform at all.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s (%v)", ConnectionErrorMessage, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// StatusError is a non-2xx response from the platform.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		body = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d - %s", e.StatusCode, body)
}

// StatusCode extracts the HTTP status from err, or 0 if err is not a StatusError.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// isCredentialRejection covers the statuses auth endpoints use for bad credentials.
func isCredentialRejection(code int) bool {
	switch code {
	case http.StatusUnauthorized, http.StatusPaymentRequired, http.StatusForbidden:
		return true
	}
	return false
}

package ai

import (
	"context"
	"errors"
	"net"
)

// Error codes for RemoteError. Backends map their native errors to one of these.
const (
	ErrCodeAuthentication    = "authentication_error"
	ErrCodeRateLimit         = "rate_limit_exceeded"
	ErrCodeInvalidRequest    = "invalid_request"
	ErrCodeServerError       = "server_error"
	ErrCodeTimeout           = "timeout"
	ErrCodeMalformedResponse = "malformed_response"
	ErrCodeUnknown           = "unknown"
)

// ErrRemote matches every *RemoteError via errors.Is
var ErrRemote = errors.New("remote completion failed")

// RemoteError is any transport or provider-side failure of a completion call
type RemoteError struct {
	Code     string // One of the ErrCode* constants
	Provider string
	Message  string
	Err      error // May be nil
}

func (e *RemoteError) Error() string {
	msg := e.Provider + ": " + e.Message
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// NewRemoteError creates a RemoteError
func NewRemoteError(provider, code, message string, err error) *RemoteError {
	return &RemoteError{Code: code, Provider: provider, Message: message, Err: err}
}

// codeForStatus classifies an HTTP status code returned by a provider
func codeForStatus(status int) string {
	switch {
	case status == 401 || status == 403:
		return ErrCodeAuthentication
	case status == 429:
		return ErrCodeRateLimit
	case status == 408:
		return ErrCodeTimeout
	case status >= 500:
		return ErrCodeServerError
	case status >= 400:
		return ErrCodeInvalidRequest
	default:
		return ErrCodeUnknown
	}
}

// codeForTransportError classifies an error that occurred before a status code was received
func codeForTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrCodeTimeout
	}
	return ErrCodeUnknown
}

func IsAuthenticationError(err error) bool {
	return hasCode(err, ErrCodeAuthentication)
}

func IsRateLimitError(err error) bool {
	return hasCode(err, ErrCodeRateLimit)
}

func IsTimeoutError(err error) bool {
	return hasCode(err, ErrCodeTimeout)
}

func IsMalformedResponse(err error) bool {
	return hasCode(err, ErrCodeMalformedResponse)
}

func hasCode(err error, code string) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Code == code
}

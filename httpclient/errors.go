package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
)

// Error codes. Codes 1001-1999 are request errors raised before anything is
// sent; codes 2001-2999 are response errors raised once a send was attempted.
const (
	CodeMissingAPIKey   = 1001
	CodeInvalidRequest  = 1002
	CodeAuthentication  = 1003
	CodeNetwork         = 2001
	CodeEmptyResponse   = 2002
	CodeDecoding        = 2003
	CodeInvalidResponse = 2004
	CodeRequestFailed   = 2005
	CodeUntyped         = -1
)

// Error is implemented by every error returned from Build, Send and Run.
// The set of implementations is closed.
type Error interface {
	error
	// Code returns the stable numeric code of the failure.
	Code() int
	// Message returns a human-readable description without the package prefix.
	Message() string
	sealed()
}

func format(e Error) string {
	return fmt.Sprintf("httpclient: [%d] %s", e.Code(), e.Message())
}

// MissingAPIKeyError reports that a request requires authentication but the
// client has no authentication provider.
type MissingAPIKeyError struct{}

func (e *MissingAPIKeyError) Code() int { return CodeMissingAPIKey }
func (e *MissingAPIKeyError) Message() string {
	return "request requires authentication but no provider is configured"
}
func (e *MissingAPIKeyError) Error() string { return format(e) }
func (e *MissingAPIKeyError) sealed()       {}

// InvalidRequestError reports that no valid wire request could be built, or
// that a composed request found its inputs inconsistent.
type InvalidRequestError struct {
	Reason string
	Err    error
}

func (e *InvalidRequestError) Code() int { return CodeInvalidRequest }
func (e *InvalidRequestError) Message() string {
	msg := "invalid request"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}
func (e *InvalidRequestError) Error() string { return format(e) }
func (e *InvalidRequestError) Unwrap() error { return e.Err }
func (e *InvalidRequestError) sealed()       {}

// AuthenticationError reports that the authentication provider failed to
// supply an access token.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Code() int { return CodeAuthentication }
func (e *AuthenticationError) Message() string {
	return "obtaining access token: " + errString(e.Err)
}
func (e *AuthenticationError) Error() string { return format(e) }
func (e *AuthenticationError) Unwrap() error { return e.Err }
func (e *AuthenticationError) sealed()       {}

// NetworkError reports a transport-level failure. Failure classifies it.
type NetworkError struct {
	Failure FailureKind
	Err     error
}

func (e *NetworkError) Code() int { return CodeNetwork }
func (e *NetworkError) Message() string {
	return fmt.Sprintf("network failure (%s): %s", e.Failure, errString(e.Err))
}
func (e *NetworkError) Error() string { return format(e) }
func (e *NetworkError) Unwrap() error { return e.Err }
func (e *NetworkError) sealed()       {}

// EmptyResponseError reports a successful status with a zero-length body
// where a body was required.
type EmptyResponseError struct {
	StatusCode int
}

func (e *EmptyResponseError) Code() int { return CodeEmptyResponse }
func (e *EmptyResponseError) Message() string {
	return fmt.Sprintf("response body is empty (HTTP %d)", e.StatusCode)
}
func (e *EmptyResponseError) Error() string { return format(e) }
func (e *EmptyResponseError) sealed()       {}

// DecodingError reports that a successful response body could not be decoded.
type DecodingError struct {
	Type reflect.Type
	Data []byte
	Err  error
}

func (e *DecodingError) Code() int { return CodeDecoding }
func (e *DecodingError) Message() string {
	return fmt.Sprintf("decoding response into %s: %s", typeName(e.Type), errString(e.Err))
}
func (e *DecodingError) Error() string { return format(e) }
func (e *DecodingError) Unwrap() error { return e.Err }
func (e *DecodingError) sealed()       {}

// InvalidResponseError reports that the transport returned no usable HTTP
// response. Response holds whatever was returned, possibly nil.
type InvalidResponseError struct {
	Response *RawResponse
}

func (e *InvalidResponseError) Code() int { return CodeInvalidResponse }
func (e *InvalidResponseError) Message() string {
	if e.Response == nil {
		return "transport returned no response"
	}
	return fmt.Sprintf("transport returned an invalid response (status %d)", e.Response.StatusCode)
}
func (e *InvalidResponseError) Error() string { return format(e) }
func (e *InvalidResponseError) sealed()       {}

// RequestFailedError reports a non-2xx HTTP status.
type RequestFailedError struct {
	StatusCode int
	// Reason is the server reason phrase, or the standard text for the status.
	Reason string
	Body   []byte
}

func (e *RequestFailedError) Code() int { return CodeRequestFailed }
func (e *RequestFailedError) Message() string {
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Reason)
}
func (e *RequestFailedError) Error() string { return format(e) }
func (e *RequestFailedError) sealed()       {}

// UntypedError wraps a failure that fits no other variant.
type UntypedError struct {
	Err error
}

func (e *UntypedError) Code() int { return CodeUntyped }
func (e *UntypedError) Message() string {
	return "unexpected error: " + errString(e.Err)
}
func (e *UntypedError) Error() string { return format(e) }
func (e *UntypedError) Unwrap() error { return e.Err }
func (e *UntypedError) sealed()       {}

// Wrap converts err into the taxonomy. Errors that already carry a taxonomy
// variant are returned unchanged; anything else becomes an UntypedError.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var e Error
	if errors.As(err, &e) {
		return err
	}
	return &UntypedError{Err: err}
}

// Code returns the taxonomy code of err: 0 for nil and CodeUntyped for
// errors outside the taxonomy.
func Code(err error) int {
	if err == nil {
		return 0
	}
	var e Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return CodeUntyped
}

// StatusCode returns the HTTP status of a RequestFailedError, or 0.
func StatusCode(err error) int {
	var e *RequestFailedError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsRequestError reports whether err happened before any data was sent.
func IsRequestError(err error) bool {
	c := Code(err)
	return c >= 1001 && c <= 1999
}

// IsResponseError reports whether err happened after a send was attempted.
func IsResponseError(err error) bool {
	c := Code(err)
	return c >= 2001 && c <= 2999
}

// IsCancellation reports whether err was caused by the caller cancelling.
func IsCancellation(err error) bool {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Failure == FailureCancelled
	}
	var ae *AuthenticationError
	if errors.As(err, &ae) {
		return errors.Is(ae.Err, context.Canceled)
	}
	return false
}

// IsRetriable reports whether err is a transient network failure worth
// retrying.
func IsRetriable(err error) bool {
	return networkFailureIn(err,
		FailureHostNotFound,
		FailureCannotConnect,
		FailureDNSFailure,
		FailureConnectionLost,
		FailureTimedOut,
	)
}

// IsNetworkIssue reports whether err indicates the device is offline or the
// host cannot be reached.
func IsNetworkIssue(err error) bool {
	return networkFailureIn(err,
		FailureHostNotFound,
		FailureCannotConnect,
		FailureNotConnected,
		FailureConnectionLost,
		FailureTimedOut,
		FailureDNSFailure,
		FailureDataNotAllowed,
	)
}

// IsCausedBySSL reports whether err is a TLS or certificate failure.
func IsCausedBySSL(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.Failure.IsTLS()
}

// IsUnauthorized reports whether err is an HTTP 401 response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

func networkFailureIn(err error, kinds ...FailureKind) bool {
	var ne *NetworkError
	if !errors.As(err, &ne) {
		return false
	}
	for _, k := range kinds {
		if ne.Failure == k {
			return true
		}
	}
	return false
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

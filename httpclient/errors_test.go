package httpclient

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestError_Codes(t *testing.T) {
	tests := []struct {
		err      Error
		code     int
		request  bool
		response bool
	}{
		{&MissingAPIKeyError{}, 1001, true, false},
		{&InvalidRequestError{Reason: "bad"}, 1002, true, false},
		{&AuthenticationError{Err: errors.New("x")}, 1003, true, false},
		{&NetworkError{Failure: FailureTimedOut}, 2001, false, true},
		{&EmptyResponseError{StatusCode: 200}, 2002, false, true},
		{&DecodingError{Type: reflect.TypeOf(0)}, 2003, false, true},
		{&InvalidResponseError{}, 2004, false, true},
		{&RequestFailedError{StatusCode: 404, Reason: "Not Found"}, 2005, false, true},
		{&UntypedError{Err: errors.New("x")}, -1, false, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%T", tt.err), func(t *testing.T) {
			if tt.err.Code() != tt.code {
				t.Errorf("Code() = %d, want %d", tt.err.Code(), tt.code)
			}
			if Code(tt.err) != tt.code {
				t.Errorf("package Code() = %d, want %d", Code(tt.err), tt.code)
			}
			if IsRequestError(tt.err) != tt.request {
				t.Errorf("IsRequestError() = %v", !tt.request)
			}
			if IsResponseError(tt.err) != tt.response {
				t.Errorf("IsResponseError() = %v", !tt.response)
			}
			prefix := fmt.Sprintf("httpclient: [%d] ", tt.code)
			if !strings.HasPrefix(tt.err.Error(), prefix) {
				t.Errorf("Error() = %q, want prefix %q", tt.err.Error(), prefix)
			}
		})
	}
}

func TestRequestFailedError_Message(t *testing.T) {
	err := &RequestFailedError{StatusCode: 404, Reason: "Not Found"}
	if got := err.Message(); got != "[404] Not Found" {
		t.Errorf("Message() = %q", got)
	}
	if StatusCode(fmt.Errorf("outer: %w", err)) != 404 {
		t.Error("StatusCode should see through wrapping")
	}
}

func TestCode_Foreign(t *testing.T) {
	if Code(nil) != 0 {
		t.Error("Code(nil) should be 0")
	}
	if Code(errors.New("plain")) != CodeUntyped {
		t.Error("foreign errors should report CodeUntyped")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should be nil")
	}

	typed := &EmptyResponseError{StatusCode: 204}
	if Wrap(typed) != error(typed) {
		t.Error("taxonomy errors must pass through unchanged")
	}
	wrapped := fmt.Errorf("step: %w", typed)
	if Wrap(wrapped) != wrapped {
		t.Error("wrapped taxonomy errors must pass through unchanged")
	}

	plain := errors.New("plain")
	var ue *UntypedError
	if !errors.As(Wrap(plain), &ue) || ue.Err != plain {
		t.Errorf("expected UntypedError wrapping plain, got %v", Wrap(plain))
	}
}

func TestPredicates(t *testing.T) {
	net := func(k FailureKind) error { return &NetworkError{Failure: k, Err: errors.New("x")} }

	tests := []struct {
		name                                       string
		err                                        error
		cancel, retriable, network, ssl, unauthorized bool
	}{
		{"cancelled", net(FailureCancelled), true, false, false, false, false},
		{"timed out", net(FailureTimedOut), false, true, true, false, false},
		{"host not found", net(FailureHostNotFound), false, true, true, false, false},
		{"cannot connect", net(FailureCannotConnect), false, true, true, false, false},
		{"dns", net(FailureDNSFailure), false, true, true, false, false},
		{"connection lost", net(FailureConnectionLost), false, true, true, false, false},
		{"not connected", net(FailureNotConnected), false, false, true, false, false},
		{"data not allowed", net(FailureDataNotAllowed), false, false, true, false, false},
		{"unknown root", net(FailureCertificateUnknownRoot), false, false, false, true, false},
		{"secure connection", net(FailureSecureConnectionFailed), false, false, false, true, false},
		{"client cert required", net(FailureClientCertificateRequired), false, false, false, true, false},
		{"401", &RequestFailedError{StatusCode: 401, Reason: "Unauthorized"}, false, false, false, false, true},
		{"403", &RequestFailedError{StatusCode: 403}, false, false, false, false, false},
		{"auth cancelled", &AuthenticationError{Err: context.Canceled}, true, false, false, false, false},
		{"plain", errors.New("x"), false, false, false, false, false},
		{"nil", nil, false, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCancellation(tt.err); got != tt.cancel {
				t.Errorf("IsCancellation() = %v", got)
			}
			if got := IsRetriable(tt.err); got != tt.retriable {
				t.Errorf("IsRetriable() = %v", got)
			}
			if got := IsNetworkIssue(tt.err); got != tt.network {
				t.Errorf("IsNetworkIssue() = %v", got)
			}
			if got := IsCausedBySSL(tt.err); got != tt.ssl {
				t.Errorf("IsCausedBySSL() = %v", got)
			}
			if got := IsUnauthorized(tt.err); got != tt.unauthorized {
				t.Errorf("IsUnauthorized() = %v", got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	for _, err := range []error{
		&InvalidRequestError{Err: cause},
		&AuthenticationError{Err: cause},
		&NetworkError{Err: cause},
		&DecodingError{Err: cause},
		&UntypedError{Err: cause},
	} {
		if !errors.Is(err, cause) {
			t.Errorf("%T does not unwrap to its cause", err)
		}
	}
}

package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// FailureKind classifies a transport-level failure.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureCancelled
	FailureTimedOut
	FailureHostNotFound
	FailureDNSFailure
	FailureCannotConnect
	FailureConnectionLost
	FailureNotConnected
	FailureDataNotAllowed
	FailureSecureConnectionFailed
	FailureCertificateBadDate
	FailureCertificateUntrusted
	FailureCertificateUnknownRoot
	FailureClientCertificateRejected
	FailureClientCertificateRequired
)

var failureNames = map[FailureKind]string{
	FailureUnknown:                   "unknown",
	FailureCancelled:                 "cancelled",
	FailureTimedOut:                  "timed_out",
	FailureHostNotFound:              "host_not_found",
	FailureDNSFailure:                "dns_failure",
	FailureCannotConnect:             "cannot_connect",
	FailureConnectionLost:            "connection_lost",
	FailureNotConnected:              "not_connected",
	FailureDataNotAllowed:            "data_not_allowed",
	FailureSecureConnectionFailed:    "secure_connection_failed",
	FailureCertificateBadDate:        "certificate_bad_date",
	FailureCertificateUntrusted:      "certificate_untrusted",
	FailureCertificateUnknownRoot:    "certificate_unknown_root",
	FailureClientCertificateRejected: "client_certificate_rejected",
	FailureClientCertificateRequired: "client_certificate_required",
}

// String returns the failure name.
func (k FailureKind) String() string {
	if name, ok := failureNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsTLS reports whether the kind is a TLS handshake or certificate failure.
func (k FailureKind) IsTLS() bool {
	return k >= FailureSecureConnectionFailed && k <= FailureClientCertificateRequired
}

// TransportError lets a Transport state the failure kind explicitly, for
// conditions that cannot be inferred from the underlying error.
type TransportError struct {
	Kind FailureKind
	Err  error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("transport: %s", e.Kind)
	}
	return fmt.Sprintf("transport: %s: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TLS alert codes sent by a peer that rejects the client certificate.
const (
	alertBadCertificate      tls.AlertError = 42
	alertCertificateRevoked  tls.AlertError = 44
	alertCertificateExpired  tls.AlertError = 45
	alertCertificateUnknown  tls.AlertError = 46
	alertCertificateRequired tls.AlertError = 116
)

// ClassifyFailure maps an error returned by a transport to a FailureKind.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return FailureUnknown
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Kind
	}

	switch {
	case errors.Is(err, context.Canceled):
		return FailureCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimedOut
	}

	if kind, ok := classifyTLS(err); ok {
		return kind
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return FailureHostNotFound
		}
		return FailureDNSFailure
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimedOut
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return FailureCannotConnect
	case errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETDOWN):
		return FailureNotConnected
	case errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF):
		return FailureConnectionLost
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return FailureCannotConnect
	}

	return FailureUnknown
}

func classifyTLS(err error) (FailureKind, bool) {
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return FailureCertificateUnknownRoot, true
	}
	var invalid x509.CertificateInvalidError
	if errors.As(err, &invalid) {
		if invalid.Reason == x509.Expired {
			return FailureCertificateBadDate, true
		}
		return FailureCertificateUntrusted, true
	}
	var hostname x509.HostnameError
	if errors.As(err, &hostname) {
		return FailureCertificateUntrusted, true
	}
	var verify *tls.CertificateVerificationError
	if errors.As(err, &verify) {
		return FailureCertificateUntrusted, true
	}
	var alert tls.AlertError
	if errors.As(err, &alert) {
		switch alert {
		case alertCertificateRequired:
			return FailureClientCertificateRequired, true
		case alertBadCertificate, alertCertificateRevoked, alertCertificateExpired, alertCertificateUnknown:
			return FailureClientCertificateRejected, true
		default:
			return FailureSecureConnectionFailed, true
		}
	}
	var record tls.RecordHeaderError
	if errors.As(err, &record) {
		return FailureSecureConnectionFailed, true
	}
	return FailureUnknown, false
}

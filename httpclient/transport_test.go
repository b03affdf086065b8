package httpclient_test

import (
	"context"
	"encoding/pem"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kbukum/reqkit/httpclient"
	"github.com/kbukum/reqkit/testutil"
)

func TestHTTPTransport_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.RequestURI() != "/teams/16?a=1&b=2" {
			t.Errorf("unexpected URI %s", r.URL.RequestURI())
		}
		if r.Header.Get("Authorization") != "Bearer tkn" {
			t.Errorf("missing bearer token")
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	c, err := httpclient.New(httpclient.Config{BaseURL: srv.URL, Authentication: httpclient.StaticToken("tkn")})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close(context.Background()) //nolint:errcheck

	tmpl := httpclient.Endpoint[team]{Spec: httpclient.Request{
		Method: httpclient.MethodPut,
		Path:   "/teams/16",
		Query:  httpclient.Query("a", "1", "b", "2"),
		Body:   []byte(`{"id":16,"name":"Chiefs"}`),
		Auth:   httpclient.AuthBearer,
	}}
	resp, err := httpclient.SendResponse[team](context.Background(), c, tmpl)
	if err != nil {
		t.Fatalf("SendResponse() error = %v", err)
	}
	if resp.Value.Name != "Chiefs" || resp.Raw.Header.Get("Content-Type") != "application/json" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestHTTPTransport_ServerReasonPhrase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	c, err := httpclient.New(httpclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = httpclient.Send[team](context.Background(), c, teamEndpoint(1))
	var rf *httpclient.RequestFailedError
	if !errors.As(err, &rf) || rf.Reason != "I'm a teapot" {
		t.Errorf("expected [418] I'm a teapot, got %v", err)
	}
}

func TestHTTPTransport_UnknownRoot(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := httpclient.New(httpclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = httpclient.Send[team](context.Background(), c, teamEndpoint(1))
	var ne *httpclient.NetworkError
	if !errors.As(err, &ne) || ne.Failure != httpclient.FailureCertificateUnknownRoot {
		t.Fatalf("expected certificate_unknown_root, got %v", err)
	}
	if !httpclient.IsCausedBySSL(err) {
		t.Error("expected IsCausedBySSL")
	}
}

func TestHTTPTransport_TrustedCAFile(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"name":"Lions"}`))
	}))
	defer srv.Close()

	caPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	caFile := testutil.WriteFile(t, "ca.pem", caPEM)

	c, err := httpclient.New(httpclient.Config{
		BaseURL:              srv.URL,
		TLS:                  &httpclient.TLSConfig{CAFile: caFile, MinVersion: "1.2"},
		HTTP2ReadIdleTimeout: 30 * time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := httpclient.Send[team](context.Background(), c, teamEndpoint(1))
	if err != nil || got.Name != "Lions" {
		t.Errorf("Send() = %+v, %v", got, err)
	}
}

func TestHTTPTransport_BadCAFile(t *testing.T) {
	caFile := testutil.WriteFile(t, "ca.pem", []byte("not a certificate"))
	_, err := httpclient.New(httpclient.Config{BaseURL: baseURL, TLS: &httpclient.TLSConfig{CAFile: caFile}})
	if err == nil {
		t.Error("expected error for CA file without certificates")
	}
}

func TestHTTPTransport_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := httpclient.New(httpclient.Config{BaseURL: url})
	if err != nil {
		t.Fatal(err)
	}
	_, err = httpclient.Send[team](context.Background(), c, teamEndpoint(1))
	var ne *httpclient.NetworkError
	if !errors.As(err, &ne) || ne.Failure != httpclient.FailureCannotConnect {
		t.Errorf("expected cannot_connect, got %v", err)
	}
}

func TestHTTPTransport_NilRequest(t *testing.T) {
	tr, err := httpclient.NewHTTPTransport(httpclient.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Execute(context.Background(), nil); httpclient.Code(err) != httpclient.CodeInvalidRequest {
		t.Errorf("expected InvalidRequestError, got %v", err)
	}
}

package server

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := func(req *Request) (*Response, error) {
		return HTTP200OK([]byte("test"), true), nil
	}

	wrapped := LoggingMiddleware(logger)(handler)
	resp, err := wrapped(&Request{Method: "GET", Path: "/test", RemoteAddr: "127.0.0.1:1234"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %v, want 200", resp.StatusCode)
	}

	output := buf.String()
	for _, want := range []string{
		`"msg":"request"`,
		`"msg":"response"`,
		`"path":"/test"`,
		`"remote":"127.0.0.1:1234"`,
		`"status":200`,
		`"size":6`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("log output missing %s: %s", want, output)
		}
	}
}

func TestLoggingMiddlewareError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handlerErr := errors.New("boom")

	handler := func(req *Request) (*Response, error) {
		return nil, handlerErr
	}

	_, err := LoggingMiddleware(logger)(handler)(&Request{Method: "GET", Path: "/"})
	if !errors.Is(err, handlerErr) {
		t.Fatalf("error = %v, want %v", err, handlerErr)
	}
	if !strings.Contains(buf.String(), `"msg":"request failed"`) {
		t.Errorf("expected failure to be logged: %s", buf.String())
	}
}

func TestProtocolMiddleware(t *testing.T) {
	t.Run("fills missing fields", func(t *testing.T) {
		handler := func(req *Request) (*Response, error) {
			return &Response{StatusCode: 200, StatusText: "OK"}, nil
		}

		resp, err := ProtocolMiddleware(handler)(&Request{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Protocol != "HTTP/1.0" {
			t.Errorf("Protocol = %v, want HTTP/1.0", resp.Protocol)
		}
		if len(resp.Headers) != 1 || resp.Headers[0].Value != ServerName {
			t.Errorf("Headers = %v, want Server header", resp.Headers)
		}
	})

	t.Run("keeps existing Server header", func(t *testing.T) {
		handler := func(req *Request) (*Response, error) {
			return HTTP404NotFound(false), nil
		}

		resp, err := ProtocolMiddleware(handler)(&Request{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Headers) != 1 {
			t.Errorf("Headers = %v, want exactly one", resp.Headers)
		}
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantReused bool
	}{
		{"no header generates uuid", "", false},
		{"valid header reused", "abc-123", true},
		{"header with spaces replaced", "abc 123", false},
		{"overlong header replaced", strings.Repeat("a", maxIDLength+1), false},
		{"non-ascii header replaced", "請求", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get(RequestIDHeader); got != seen {
				t.Errorf("response header %q does not match context value %q", got, seen)
			}

			if tt.wantReused {
				if seen != tt.header {
					t.Errorf("request id = %q, want %q", seen, tt.header)
				}
				return
			}

			if _, err := uuid.Parse(seen); err != nil {
				t.Errorf("expected generated uuid, got %q", seen)
			}
		})
	}
}

func TestRequestID_TraceID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetTraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "trace-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "trace-42" {
		t.Errorf("trace id = %q, want %q", seen, "trace-42")
	}
	if got := rec.Header().Get(TraceIDHeader); got != "trace-42" {
		t.Errorf("response trace header = %q, want %q", got, "trace-42")
	}
}

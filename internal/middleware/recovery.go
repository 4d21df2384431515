package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// faultResponse is the body written for recovered panics.
type faultResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Recoverer is a middleware that recovers from panics.
// It logs the panic and answers 500 with {"error":"server error","message":<panic>}.
// Nothing is written when the handler already sent its header.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := wrapResponseWriter(w)

			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				// net/http uses this sentinel to abort the connection silently.
				if err, ok := rvr.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rvr)
				}

				message := panicMessage(rvr)

				logger.Error("panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("panic", message),
					slog.String("stack", string(debug.Stack())),
				)

				if wrapped.wroteHeader {
					return
				}

				body, err := json.Marshal(faultResponse{Error: "server error", Message: message})
				if err != nil {
					body = []byte(`{"error":"server error","message":"internal error"}`)
				}

				wrapped.Header().Set("Content-Type", "application/json")
				wrapped.WriteHeader(http.StatusInternalServerError)
				_, _ = wrapped.Write(body)
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}

// panicMessage renders a recovered value as text. A value whose Error or
// String method panics itself yields a fixed message.
func panicMessage(rvr any) (msg string) {
	defer func() {
		if recover() != nil {
			msg = "internal error"
		}
	}()

	switch v := rvr.(type) {
	case error:
		return v.Error()
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

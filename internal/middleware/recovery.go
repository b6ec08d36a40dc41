package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicHandler writes the response after a handler panicked
type PanicHandler func(w http.ResponseWriter, r *http.Request, recovered any)

// Recovery turns a panic into a logged error and a response from onPanic
func Recovery(logger *slog.Logger, onPanic PanicHandler) func(http.Handler) http.Handler {
	if onPanic == nil {
		onPanic = PlainPanicHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				// Let the server abort the connection as usual
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}
				logger.Error("panic recovered",
					slog.Any("error", recovered),
					slog.String("request_id", RequestIDFrom(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				onPanic(w, r, recovered)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// PlainPanicHandler answers with a bare 500
func PlainPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

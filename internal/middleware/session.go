// Package middleware provides HTTP middlewares for session handling and
// request logging.
package middleware

import (
	"context"
	"net/http"

	"github.com/dkorolev/playsave/internal/sessions"
	"go.uber.org/zap"
)

type ctxKey string

const sessionKey ctxKey = "session"

// WithSession resolves the session cookie to a mutable sessions.State and
// exposes it through the request context. After the handler runs, modified
// state is persisted and the signed cookie is set; because cookies must be
// sent before the body, the commit happens just before the first response
// write. Unmodified anonymous sessions are never written.
func WithSession(manager *sessions.Manager, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := manager.Load(r)
			ctx := context.WithValue(r.Context(), sessionKey, state)

			cw := &commitWriter{
				ResponseWriter: w,
				commit: func() error {
					return manager.Commit(w, r, state)
				},
				log: log,
			}
			next.ServeHTTP(cw, r.WithContext(ctx))
			cw.flush()
		})
	}
}

// SessionFromContext extracts the session state placed by WithSession.
// Returns nil when the middleware did not run.
func SessionFromContext(ctx context.Context) *sessions.State {
	val := ctx.Value(sessionKey)
	if s, ok := val.(*sessions.State); ok {
		return s
	}
	return nil
}

// commitWriter runs the session commit once, right before the first byte of
// the response. If the commit fails the handler's response is replaced with
// a generic 500 so a client never sees success for a login that was not
// persisted.
type commitWriter struct {
	http.ResponseWriter
	commit    func() error
	log       *zap.Logger
	committed bool
	failed    bool
}

func (w *commitWriter) flush() {
	if w.committed {
		return
	}
	w.committed = true
	if err := w.commit(); err != nil {
		w.failed = true
		w.log.Error("failed to persist session", zap.Error(err))
		w.ResponseWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.ResponseWriter.WriteHeader(http.StatusInternalServerError)
		_, _ = w.ResponseWriter.Write([]byte(`{"success":false,"message":"An unexpected error occurred. Please try again later."}`))
	}
}

func (w *commitWriter) WriteHeader(statusCode int) {
	w.flush()
	if w.failed {
		return
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *commitWriter) Write(b []byte) (int, error) {
	w.flush()
	if w.failed {
		// Pretend the write succeeded so handlers do not observe errors.
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}

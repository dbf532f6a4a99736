package adapthttp

import (
	"context"
	"log"
	"net/http"
	"time"

	"weblog/internal/domain"

	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "user"

const sessionCookieName = "session"

// authMiddleware resolves the client's identity and stores it in the
// request context. Requests without a valid identity are rejected before
// they reach a gated handler.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Reverse-proxy forward auth, when enabled.
		if s.forwardAuth {
			if remoteUser := r.Header.Get("Remote-User"); remoteUser != "" {
				user, err := s.auth.ValidateRemoteUser(r.Context(), remoteUser)
				if err == nil && user != nil {
					next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
					return
				}
			}
		}

		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, errLoginRequired)
			return
		}

		user, err := s.auth.CurrentUser(r.Context(), cookie.Value)
		if err != nil {
			writeError(w, http.StatusUnauthorized, errLoginRequired)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

func withUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func userFrom(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs one line per request with a generated request id.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		reqID := uuid.NewString()
		start := time.Now()

		next.ServeHTTP(rec, r)

		log.Printf("%s %s %s %d %s", reqID, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

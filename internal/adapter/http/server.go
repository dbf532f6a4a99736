package adapthttp

import (
	"net/http"
	"time"

	"weblog/internal/app"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth  *app.AuthService
	posts *app.PostService

	oidcConfig  *OIDCConfig
	forwardAuth bool
	cookieTTL   time.Duration

	allowedOrigins []string
}

// Option configures optional Server behavior.
type Option func(*Server)

// WithOIDC enables the single sign-on login flow.
func WithOIDC(cfg *OIDCConfig) Option {
	return func(s *Server) { s.oidcConfig = cfg }
}

// WithForwardAuth makes the auth middleware accept the Remote-User header
// set by an authenticating reverse proxy.
func WithForwardAuth() Option {
	return func(s *Server) { s.forwardAuth = true }
}

// WithCORS sets the origins allowed by the CORS layer.
func WithCORS(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// New creates a Server wired to the given application services. cookieTTL
// bounds the session cookie lifetime and should match the session TTL.
func New(auth *app.AuthService, posts *app.PostService, cookieTTL time.Duration, opts ...Option) *Server {
	s := &Server{
		auth:       auth,
		posts:      posts,
		oidcConfig: &OIDCConfig{},
		cookieTTL:  cookieTTL,
	}
	if s.cookieTTL <= 0 {
		s.cookieTTL = 24 * time.Hour
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)

	r.HandleFunc("/", s.handleListPosts).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet, http.MethodPost)

	r.HandleFunc("/sso/login", s.handleSSOLogin).Methods(http.MethodGet)
	r.HandleFunc("/sso/callback", s.handleSSOCallback).Methods(http.MethodGet)

	gated := r.NewRoute().Subrouter()
	gated.Use(s.authMiddleware)
	gated.HandleFunc("/add", s.handleAddPost).Methods(http.MethodPost)
	gated.HandleFunc("/edit/{id:[0-9]+}", s.handleEditPost).Methods(http.MethodGet, http.MethodPost, http.MethodPut)
	gated.HandleFunc("/delete/{id:[0-9]+}", s.handleDeletePost).Methods(http.MethodPost, http.MethodDelete)

	var h http.Handler = r
	if len(s.allowedOrigins) > 0 {
		opts := []handlers.CORSOption{
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
			handlers.AllowedOrigins(s.allowedOrigins),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		}
		// Browsers reject credentialed responses for a wildcard origin,
		// so only explicit origins get cookies across sites.
		if !allowsAnyOrigin(s.allowedOrigins) {
			opts = append(opts, handlers.AllowCredentials())
		}
		h = handlers.CORS(opts...)(h)
	}
	return handlers.RecoveryHandler()(h)
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

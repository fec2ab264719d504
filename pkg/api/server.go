// Package api serves the tenant website API over HTTP: the fetch and save
// endpoints the editor talks to, page rendering, the component catalog,
// revision history and a websocket of save notifications.
package api

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/catalog"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/identity"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/log"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/realtime"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/render"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/storage"
)

// maxBody caps request bodies.
const maxBody = 32 << 20

type Server struct {
	store    *storage.Store
	catalog  *catalog.Catalog
	registry *render.Registry
	hub      *realtime.Hub
	verifier identity.Verifier
	origins  []string
	upgrader websocket.Upgrader
	logger   *log.Logger
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithCatalog replaces the built-in component catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Server) { s.catalog = c }
}

// WithRegistry replaces the HTML renderer registry.
func WithRegistry(r *render.Registry) Option {
	return func(s *Server) { s.registry = r }
}

// WithHub publishes save events on hub.
func WithHub(h *realtime.Hub) Option {
	return func(s *Server) { s.hub = h }
}

// WithAllowedOrigins sets the CORS origins. "*" allows any.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// NewServer returns a server over store. Save requests are authorized with
// verifier; a nil verifier trusts token claims unverified.
func NewServer(store *storage.Store, verifier identity.Verifier, opts ...Option) *Server {
	s := &Server{
		store:    store,
		verifier: verifier,
		origins:  []string{"*"},
		logger:   log.ForService("api"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.verifier == nil {
		s.verifier = identity.Unverified{}
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.registry == nil {
		s.registry = render.NewRegistry()
	}
	if s.hub == nil {
		s.hub = realtime.NewHub(0)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return s.originAllowed(r.Header.Get("Origin")) },
	}
	return s
}

// Hub returns the hub save events are published on.
func (s *Server) Hub() *realtime.Hub { return s.hub }

// Handler returns the router with every route and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	s.Routes(r)
	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

// writeMessage writes the {"message": ...} body the editor reads on
// failures.
func (s *Server) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, MessageResponse{Message: message})
}

func (s *Server) originAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	return slices.Contains(s.origins, "*") || slices.Contains(s.origins, origin)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			if slices.Contains(s.origins, "*") {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debugf("%s %s %d %dB %s [%s]", r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
			time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()))
	})
}

// bearerToken extracts the token of an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// Package server exposes the advisor over a websocket chat endpoint with a
// JSON envelope protocol, plus static assets for the embedded frontend.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sells-group/mortgage-agent/internal/agent"
	"github.com/sells-group/mortgage-agent/internal/config"
	"github.com/sells-group/mortgage-agent/internal/officers"
	"github.com/sells-group/mortgage-agent/internal/tools"
	"github.com/sells-group/mortgage-agent/pkg/anthropic"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The frontend may be served from another origin during development.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server hosts the chat websocket and tracks live sessions.
type Server struct {
	cfg    config.Config
	client anthropic.Client
	kb     tools.KBSearcher
	pool   *officers.Pool

	mu       sync.Mutex
	sessions map[string]*Session

	http *http.Server
}

// New builds a server. kb may be nil; the knowledge capability then answers
// from the model alone.
func New(cfg config.Config, client anthropic.Client, kb tools.KBSearcher, pool *officers.Pool) *Server {
	s := &Server{
		cfg:      cfg,
		client:   client,
		kb:       kb,
		pool:     pool,
		sessions: make(map[string]*Session),
	}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/ws/chat", s.handleChat)

	if s.cfg.Server.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.Server.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, s.sessionCount())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Server.StaticDir != "" {
		http.ServeFile(w, r, s.cfg.Server.StaticDir+"/index.html")
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "mortgage-agent: connect to /ws/chat")
}

// handleChat upgrades the connection and runs the session read loop until
// the client disconnects. Each connection gets its own advisor.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("server: websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	advisor, err := agent.New(agent.Options{
		Client:    s.client,
		KB:        s.kb,
		Pool:      s.pool,
		Anthropic: s.cfg.Anthropic,
		Agent:     s.cfg.Agent,
	})
	if err != nil {
		zap.L().Error("server: advisor init failed", zap.Error(err))
		_ = conn.WriteJSON(errorEnvelope{Type: "error", Error: "Failed to initialize session", Detail: err.Error()})
		return
	}

	sess := NewSession(conn, advisor)
	s.track(sess)
	defer s.untrack(sess)

	sess.Run(r.Context())
}

func (s *Server) track(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *Server) untrack(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.ID)
}

func (s *Server) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	zap.L().Info("server: listening", zap.String("addr", s.http.Addr))
	return s.http.ListenAndServe()
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

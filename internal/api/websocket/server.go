package websocket

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fortuna/courtside/internal/logging"
	"github.com/fortuna/courtside/internal/service"
)

const (
	maxQuestionBytes = 4096
	writeWait        = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// QueryAsker answers questions
type QueryAsker interface {
	Ask(ctx context.Context, question string) service.QueryResponse
}

// Server answers questions sent as WebSocket text frames
type Server struct {
	port    int
	server  *http.Server
	queries QueryAsker
	clients atomic.Int64
	logger  logging.Logger
}

// NewServer creates a new WebSocket server
func NewServer(port int, queries QueryAsker, logger logging.Logger) *Server {
	s := &Server{
		port:    port,
		queries: queries,
		logger:  logger.With("component", "websocket"),
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/query", s.handleQuery)
	mux.HandleFunc("/ws/health", s.handleHealth)
	return mux
}

// Start starts the WebSocket server. After Shutdown it returns
// http.ErrServerClosed, even when Shutdown ran first.
func (s *Server) Start() error {
	s.logger.Info("server listening", "port", s.port)
	return s.server.ListenAndServe()
}

// handleQuery reads one question per text frame and replies with the
// JSON query response
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	s.clients.Add(1)
	defer s.clients.Add(-1)

	conn.SetReadLimit(maxQuestionBytes)
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		question := strings.TrimSpace(string(data))
		if question == "" {
			continue
		}

		resp := s.queries.Ask(r.Context(), question)

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("failed to write answer", "error", err)
			return
		}
	}
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.ClientCount())
}

// ClientCount returns the number of open connections
func (s *Server) ClientCount() int64 {
	return s.clients.Load()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

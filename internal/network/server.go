package network

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/logger"
)

// Server exposes one family's service over HTTP and websockets.
type Server struct {
	svc      *engine.Service
	hub      *Hub
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

func NewServer(svc *engine.Service, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		svc:    svc,
		hub:    NewHub(log),
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients are household devices on the local network.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Hub() *Hub { return s.hub }

// Start runs the hub and the snapshot feed until ctx is done.
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run(ctx)
	s.hub.StartSnapshotFeed(ctx, s.svc)
}

// Handler routes /ws, /api/snapshot, /api/actions and /healthz.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.serveWs(ctx, w, r)
	})
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/actions", s.handleAction)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "clients": s.hub.Clients()})
	})
	return mux
}

// ListenAndServe starts the hub and serves addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.Start(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) serveWs(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade websocket connection: %v", err)
		return
	}

	client := NewClient(s.hub, s.svc, conn)
	if msg, err := snapshotMessage(ctx, s.svc); err == nil {
		client.send <- msg
	} else if !errors.Is(err, engine.ErrNoWorld) {
		s.logger.Error("initial snapshot for %s: %v", client.remote, err)
	}
	if !s.hub.join(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump(ctx)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap, err := s.svc.Snapshot(r.Context())
	switch {
	case errors.Is(err, engine.ErrNoWorld):
		http.Error(w, err.Error(), http.StatusNotFound)
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, snap.Redacted())
	}
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Reply{Error: "malformed request: " + err.Error()})
		return
	}
	reply := Dispatch(r.Context(), s.svc, req)
	status := http.StatusOK
	switch {
	case reply.OK:
	case reply.Rejected:
		status = http.StatusConflict
	default:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, reply)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/feltworks/holdemd/internal/game"
)

// Server ties the HTTP surface to the hub: WebSocket upgrades on /ws plus
// the small room discovery/creation API.
type Server struct {
	cfg      *Config
	hub      *Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
	http     *http.Server
}

// New builds a server. The clock is injected so tests can drive every
// room timer deterministically.
func New(cfg *Config, logger *log.Logger, clock quartz.Clock) *Server {
	timings := DefaultTimings()
	timings.ActTimeout = cfg.ActTimeout()

	s := &Server{
		cfg:    cfg,
		hub:    NewHub(clock, logger, timings, cfg.Server.GodSecret, cfg.ReapDelay()),
		logger: logger.WithPrefix("server"),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/rooms", s.handleRooms)
	s.http = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler: mux,
	}
	return s
}

// Hub exposes the session layer, mainly for tests.
func (s *Server) Hub() *Hub { return s.hub }

// Run serves until the context is cancelled, then drains with a short
// shutdown grace.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// checkOrigin enforces the configured origin allow list. An empty list or
// a "*" entry is permissive.
func (s *Server) checkOrigin(r *http.Request) bool {
	origins := s.cfg.Server.Origins
	if len(origins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "err", err)
		return
	}
	conn := NewConnection(ws, s.hub, s.logger)
	go conn.Start()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// createRoomRequest is the POST /rooms body. Omitted fields take the
// configured room defaults.
type createRoomRequest struct {
	Name       string `json:"name"`
	MaxSeats   int    `json:"maxSeats,omitempty"`
	SmallBlind int    `json:"smallBlind,omitempty"`
	BigBlind   int    `json:"bigBlind,omitempty"`
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{"rooms": s.hub.ListRooms()})

	case http.MethodPost:
		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"malformed body"}`, http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, `{"error":"name is required"}`, http.StatusBadRequest)
			return
		}
		cfg := game.Config{
			MaxSeats:   req.MaxSeats,
			SmallBlind: req.SmallBlind,
			BigBlind:   req.BigBlind,
		}
		if cfg.MaxSeats == 0 {
			cfg.MaxSeats = s.cfg.Rooms.MaxSeats
		}
		if cfg.SmallBlind == 0 {
			cfg.SmallBlind = s.cfg.Rooms.SmallBlind
		}
		if cfg.BigBlind == 0 {
			cfg.BigBlind = s.cfg.Rooms.BigBlind
		}
		if cfg.MaxSeats < 2 || cfg.MaxSeats > 10 || cfg.SmallBlind < 1 || cfg.BigBlind <= cfg.SmallBlind {
			http.Error(w, `{"error":"invalid room parameters"}`, http.StatusBadRequest)
			return
		}
		actor := s.hub.CreateRoom(req.Name, cfg)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"roomId": actor.room.ID})

	default:
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
	}
}

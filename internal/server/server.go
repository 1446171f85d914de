// Package server exposes the dashboard over HTTP: the page, chart images,
// input events and a websocket stream of applied prices.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"portfolio-dashboard/internal/chart"
	"portfolio-dashboard/internal/chart/interactive"
	"portfolio-dashboard/internal/chart/vgsurface"
	"portfolio-dashboard/internal/dashboard"
	"portfolio-dashboard/internal/logger"
	"portfolio-dashboard/internal/pricelog"
	"portfolio-dashboard/internal/trace"
	"portfolio-dashboard/internal/types"
)

const writeWait = 5 * time.Second

type Server struct {
	dash    *dashboard.Dashboard
	journal *pricelog.Journal
	router  *mux.Router
	srv     *http.Server

	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan []types.PriceTick
	stop      chan struct{}
	closeOnce sync.Once
}

// New builds the server and subscribes it to the dashboard's price batches.
// journal may be nil, in which case tick history is not served.
func New(addr string, d *dashboard.Dashboard, journal *pricelog.Journal) *Server {
	s := &Server{
		dash:      d,
		journal:   journal,
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []types.PriceTick, 64),
		stop:      make(chan struct{}),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.traced("page", s.handlePage)).Methods(http.MethodGet)
	r.HandleFunc("/charts/{id}.{ext:svg|png}", s.traced("chart", s.handleChart)).Methods(http.MethodGet)
	r.HandleFunc("/input", s.traced("input", s.handleInput)).Methods(http.MethodPost)
	r.HandleFunc("/interactive", s.traced("interactive", s.handleInteractive)).Methods(http.MethodGet)
	r.HandleFunc("/api/prices", s.traced("prices", s.handlePrices)).Methods(http.MethodGet)
	r.HandleFunc("/api/ticks/{date}", s.traced("ticks", s.handleTicks)).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	s.router = r

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	d.Subscribe(s.enqueue)
	go s.broadcaster()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Dashboard server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.Close()
		if ok {
			return fmt.Errorf("serve %s: %w", s.srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	s.Close()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info(ctx, "Dashboard server stopped")
	return nil
}

// Close stops broadcasting and drops websocket clients.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.clientsMu.Lock()
		for c := range s.clients {
			c.Close()
		}
		s.clients = make(map[*websocket.Conn]bool)
		s.clientsMu.Unlock()
	})
}

func (s *Server) traced(route string, h http.HandlerFunc) http.HandlerFunc {
	name := "server." + route
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := trace.StartSpan(r.Context(), name, trace.WithRoute(route, r.Method))
		defer span.End()
		logger.Debug(ctx, "HTTP request", "route", route, "method", r.Method, "path", r.URL.Path)
		h(w, r.WithContext(ctx))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn(context.Background(), "Failed to encode response", "error", err)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.dash.WriteHTML(w); err != nil {
		logger.ErrorWithErr(r.Context(), "Failed to write page", err)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	f, err := vgsurface.ParseFormat(vars["ext"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, ok := s.dash.Charts().Get(vars["id"]); !ok {
		http.Error(w, chart.ErrUnknownChart.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	if err := s.dash.EncodeChart(w, vars["id"], f); err != nil {
		logger.ErrorWithErr(r.Context(), "Failed to encode chart", err, "chart", vars["id"])
	}
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id := r.PostForm.Get("id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	if !s.dash.Input(id, r.PostForm.Get("value")) {
		http.Error(w, "unknown input "+id, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInteractive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := interactive.Render(w, s.dash.Charts()); err != nil {
		logger.ErrorWithErr(r.Context(), "Failed to render interactive page", err)
	}
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.dash.Prices())
}

func (s *Server) handleTicks(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "price journal disabled", http.StatusNotFound)
		return
	}
	day, err := time.Parse("2006-01-02", mux.Vars(r)["date"])
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	ticks, err := s.journal.ReadDay(day)
	if err != nil {
		logger.ErrorWithErr(r.Context(), "Failed to read price journal", err)
		http.Error(w, "failed to read journal", http.StatusInternalServerError)
		return
	}
	if ticks == nil {
		ticks = []types.PriceTick{}
	}
	writeJSON(w, ticks)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn(r.Context(), "Failed to upgrade websocket", "error", err)
		return
	}
	defer conn.Close()

	s.clientsMu.Lock()
	s.clients[conn] = true
	err = s.send(conn, s.dash.Prices())
	s.clientsMu.Unlock()
	if err != nil {
		s.drop(conn)
		return
	}

	// reads only detect the client going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.drop(conn)
}

func (s *Server) drop(conn *websocket.Conn) {
	s.clientsMu.Lock()
	delete(s.clients, conn)
	s.clientsMu.Unlock()
}

// send must be called with clientsMu held so writes to a connection never
// overlap.
func (s *Server) send(conn *websocket.Conn, ticks []types.PriceTick) error {
	data, err := json.Marshal(ticks)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) enqueue(ticks []types.PriceTick) {
	select {
	case s.broadcast <- ticks:
	case <-s.stop:
	default:
		logger.Warn(context.Background(), "Price broadcast queue full, dropping batch", "ticks", len(ticks))
	}
}

func (s *Server) broadcaster() {
	for {
		select {
		case <-s.stop:
			return
		case ticks := <-s.broadcast:
			s.clientsMu.Lock()
			for c := range s.clients {
				if err := s.send(c, ticks); err != nil {
					c.Close()
					delete(s.clients, c)
				}
			}
			s.clientsMu.Unlock()
		}
	}
}

// Clients reports the number of connected websocket clients.
func (s *Server) Clients() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}

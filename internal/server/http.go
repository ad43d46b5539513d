package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"nuggets-server/internal/engine"
	"nuggets-server/internal/network"
	"nuggets-server/internal/version"
	"nuggets-server/pkg/logger"

	"github.com/matryer/way"
)

const shutdownTimeout = 5 * time.Second

// StatusFunc отдает последний снимок состояния партии
type StatusFunc func() engine.Status

// Server - HTTP фронт: WebSocket транспорт и служебные эндпоинты
type Server struct {
	Addr   string
	WS     *WSTransport
	status StatusFunc
	router *way.Router
}

func New(addr string, router *network.Router, status StatusFunc) *Server {
	ws := NewWSTransport(router)
	router.Register(ws)
	return &Server{
		Addr:   addr,
		WS:     ws,
		status: status,
	}
}

func (s *Server) routes(ctx context.Context) {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", "/ws", s.WS.Handler(ctx))
	s.router.HandleFunc("GET", "/health", enableCORS(s.handleHealth))
	s.router.HandleFunc("GET", "/version", enableCORS(s.handleVersion))

	debugHandler := NewDebugHandler(s.status)
	debugHandler.RegisterRoutes(s.router)
}

// Handler собирает маршруты. Используется в Run и в тестах.
func (s *Server) Handler(ctx context.Context) http.Handler {
	s.routes(ctx)
	return s.router
}

// Run слушает addr до отмены ctx
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает уже открытый listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Warn("HTTP shutdown failed")
		}
	}()

	logger.Log.Infof("HTTP server running on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Log.WithError(err).Debug("health write failed")
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(version.Info()); err != nil {
		logger.Log.WithError(err).Debug("version encode failed")
	}
}

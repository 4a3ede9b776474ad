package server

import (
	"PetAIBackend/internal/config"
	"PetAIBackend/internal/service/diagnosis"
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Diagnoser ядро шлюза, см. diagnosis.Service.
type Diagnoser interface {
	Diagnose(ctx context.Context, req diagnosis.Request) (diagnosis.Response, error)
}

// Server HTTP-шлюз диагностики: health-check, маршруты diagnose и WebSocket.
type Server struct {
	cfg      *config.Config
	svc      Diagnoser
	srv      *http.Server
	upgrader websocket.Upgrader
	logger   *zap.SugaredLogger
	running  atomic.Bool
}

func New(cfg *config.Config, svc Diagnoser, logger *zap.SugaredLogger) *Server {
	s := &Server{cfg: cfg, svc: svc, logger: logger}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkWSOrigin,
	}

	// WriteTimeout не задаём: ответ модели может идти долго, время ограничивает только клиент.
	s.srv = &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler возвращает корневой http.Handler со всеми маршрутами и middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /diagnose_text", s.handleDiagnoseText)
	mux.HandleFunc("POST /diagnose_text/{$}", s.handleDiagnoseText)
	mux.HandleFunc("POST /diagnose_image", s.handleDiagnoseImage)
	mux.HandleFunc("POST /diagnose_image/{$}", s.handleDiagnoseImage)
	mux.HandleFunc("GET /ws", s.handleWS)

	return s.withRequestID(s.withAccessLog(s.withCORS(mux)))
}

// Run слушает BindAddr до отмены ctx, затем корректно останавливает сервер.
func (s *Server) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("server is already running")
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Diagnosis gateway listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) && err != nil {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		s.running.Store(false)
		return err
	case <-ctx.Done():
		return s.Stop(context.WithoutCancel(ctx))
	}
}

func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeoutCause(ctx, 5*time.Second, errors.New("diagnosis gateway shutdown timeout"))
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnw("graceful shutdown error", "error", err)
		return s.srv.Close()
	}
	s.logger.Infow("Diagnosis gateway stopped")
	return nil
}

func (s *Server) Addr() string { return s.srv.Addr }

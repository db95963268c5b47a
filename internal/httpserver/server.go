package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MosinFAM/comment-threads/config"

	"github.com/sirupsen/logrus"
)

type Server struct {
	server          *http.Server
	shutDownTimeout time.Duration
	log             logrus.FieldLogger
}

// New создаёт сервер, ещё не слушающий порт
func New(conf config.HTTPServer, handler http.Handler, log logrus.FieldLogger) *Server {
	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  conf.ReadTimeout,
		WriteTimeout: conf.WriteTimeout,
		Addr:         conf.Addr(),
	}

	return &Server{
		server:          srv,
		shutDownTimeout: conf.ShutdownTimeout,
		log:             log.WithField("source", "httpserver"),
	}
}

func (s *Server) Addr() string {
	return s.server.Addr
}

// Run слушает адрес до SIGINT/SIGTERM или отмены ctx, затем гасит сервер
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает ln до отмены ctx или сигнала и мягко останавливается
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.log.WithField("addr", ln.Addr().String()).Info("listening")

	errCh := make(chan error, 1)
	go func() {
		err := s.server.Serve(ln)
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.log.WithError(err).Error("http server error")
		return err
	case <-ctx.Done():
	}

	s.log.Info("http server shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutDownTimeout)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

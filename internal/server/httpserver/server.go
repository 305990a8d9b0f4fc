package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/yndnr/taskadmin-go/internal/telemetry/logger"
)

// Options configures Server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// TLSConfig enables HTTPS when set. Certificates are taken from
	// TLSConfig.GetCertificate or TLSConfig.Certificates.
	TLSConfig *tls.Config

	Logger logger.Logger
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	tls        bool
}

// New creates a new HTTP server.
func New(opts Options, handler http.Handler) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           handler,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      opts.WriteTimeout,
			TLSConfig:         opts.TLSConfig,
			ErrorLog:          logger.StandardLogger(log.Named("http")),
		},
		handler: handler,
		tls:     opts.TLSConfig != nil,
	}
}

// Serve accepts connections on ln until Shutdown is called. It returns nil
// after a graceful shutdown.
func (s *Server) Serve(ln net.Listener) error {
	var err error
	if s.tls {
		err = s.httpServer.ServeTLS(ln, "", "")
	} else {
		err = s.httpServer.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// TLS reports whether the server serves HTTPS.
func (s *Server) TLS() bool {
	return s.tls
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

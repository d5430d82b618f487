// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package http provides a configurable, gracefully stopping HTTP server runtime.
package http

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/z5labs/returns/app"
	"github.com/z5labs/returns/config"

	"github.com/sourcegraph/conc/pool"
)

// DefaultAddr is used when no listen address is configured.
const DefaultAddr = ":8080"

// TCPListener reads a TCP [net.Listener] bound to Addr.
type TCPListener struct {
	Addr config.Reader[string]
}

// NewTCPListener returns a [TCPListener] bound to addr, or [DefaultAddr] if addr is unset.
func NewTCPListener(addr config.Reader[string]) TCPListener {
	return TCPListener{Addr: addr}
}

// AddrFromEnv reads the listen address from HTTP_ADDR.
func AddrFromEnv() config.Reader[string] {
	return config.Env("HTTP_ADDR")
}

// Read implements the [config.Reader] interface.
func (tcpLn TCPListener) Read(ctx context.Context) (config.Value[net.Listener], error) {
	addr := config.MustOr(ctx, DefaultAddr, tcpLn.Addr)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return config.Value[net.Listener]{}, err
	}
	return config.ValueOf(ln), nil
}

// TLSListener wraps the listener read from ln with TLS.
func TLSListener(ln config.Reader[net.Listener], tlsConfig config.Reader[*tls.Config]) config.Reader[net.Listener] {
	return config.ReaderFunc[net.Listener](func(ctx context.Context) (config.Value[net.Listener], error) {
		baseLn, err := config.Read(ctx, ln)
		if err != nil {
			return config.Value[net.Listener]{}, err
		}
		cfg, err := config.Read(ctx, tlsConfig)
		if err != nil {
			baseLn.Close()
			return config.Value[net.Listener]{}, err
		}
		return config.ValueOf(tls.NewListener(baseLn, cfg)), nil
	})
}

// Server holds the configuration of an [http.Server].
// Any unset reader falls back to the default documented on [NewServer].
type Server struct {
	Listener          config.Reader[net.Listener]
	ReadTimeout       config.Reader[time.Duration]
	ReadHeaderTimeout config.Reader[time.Duration]
	WriteTimeout      config.Reader[time.Duration]
	IdleTimeout       config.Reader[time.Duration]
	ShutdownTimeout   config.Reader[time.Duration]
	MaxHeaderBytes    config.Reader[int]
}

// ServerOption configures a [Server].
type ServerOption func(*Server)

// ReadTimeout sets the maximum duration for reading an entire request.
func ReadTimeout(d config.Reader[time.Duration]) ServerOption {
	return func(srv *Server) {
		srv.ReadTimeout = d
	}
}

// ReadHeaderTimeout sets the maximum duration for reading request headers.
func ReadHeaderTimeout(d config.Reader[time.Duration]) ServerOption {
	return func(srv *Server) {
		srv.ReadHeaderTimeout = d
	}
}

// WriteTimeout sets the maximum duration before timing out a response write.
func WriteTimeout(d config.Reader[time.Duration]) ServerOption {
	return func(srv *Server) {
		srv.WriteTimeout = d
	}
}

// IdleTimeout sets how long keep-alive connections may stay idle.
func IdleTimeout(d config.Reader[time.Duration]) ServerOption {
	return func(srv *Server) {
		srv.IdleTimeout = d
	}
}

// ShutdownTimeout bounds how long a graceful shutdown may take.
func ShutdownTimeout(d config.Reader[time.Duration]) ServerOption {
	return func(srv *Server) {
		srv.ShutdownTimeout = d
	}
}

// MaxHeaderBytes limits the size of request headers.
func MaxHeaderBytes(n config.Reader[int]) ServerOption {
	return func(srv *Server) {
		srv.MaxHeaderBytes = n
	}
}

// FromEnv reads every server setting from its HTTP_* environment variable:
// HTTP_READ_TIMEOUT, HTTP_READ_HEADER_TIMEOUT, HTTP_WRITE_TIMEOUT,
// HTTP_IDLE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT and HTTP_MAX_HEADER_BYTES.
func FromEnv() ServerOption {
	return func(srv *Server) {
		srv.ReadTimeout = config.DurationFromString(config.Env("HTTP_READ_TIMEOUT"))
		srv.ReadHeaderTimeout = config.DurationFromString(config.Env("HTTP_READ_HEADER_TIMEOUT"))
		srv.WriteTimeout = config.DurationFromString(config.Env("HTTP_WRITE_TIMEOUT"))
		srv.IdleTimeout = config.DurationFromString(config.Env("HTTP_IDLE_TIMEOUT"))
		srv.ShutdownTimeout = config.DurationFromString(config.Env("HTTP_SHUTDOWN_TIMEOUT"))
		srv.MaxHeaderBytes = config.IntFromString(config.Env("HTTP_MAX_HEADER_BYTES"))
	}
}

// NewServer returns a [Server] serving on the listener read from listener.
//
// Defaults:
//   - ReadTimeout: 5s
//   - ReadHeaderTimeout: 2s
//   - WriteTimeout: 10s
//   - IdleTimeout: 120s
//   - ShutdownTimeout: 30s
//   - MaxHeaderBytes: 1 MiB
func NewServer(listener config.Reader[net.Listener], opts ...ServerOption) Server {
	srv := Server{
		Listener: listener,
	}
	for _, opt := range opts {
		opt(&srv)
	}
	return srv
}

// App is a runnable HTTP server.
type App struct {
	ls              net.Listener
	srv             *http.Server
	shutdownTimeout time.Duration
}

// Addr returns the address the server is listening on.
func (a App) Addr() net.Addr {
	return a.ls.Addr()
}

// Run serves until ctx is cancelled and then shuts the server down gracefully.
func (a App) Run(ctx context.Context) error {
	p := pool.New().WithContext(ctx)

	p.Go(func(ctx context.Context) error {
		return a.srv.Serve(a.ls)
	})

	p.Go(func(ctx context.Context) error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	})

	err := p.Wait()
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Build returns a [app.Builder] for an [App] serving the handler built by b.
func Build(srv Server, b app.Builder[http.Handler]) app.Builder[App] {
	return app.Bind(b, func(h http.Handler) app.Builder[App] {
		return app.BuilderFunc[App](func(ctx context.Context) (App, error) {
			ln, err := config.Read(ctx, srv.Listener)
			if err != nil {
				return App{}, err
			}
			if ln == nil {
				return App{}, config.ValueNotSetError{}
			}

			httpServer := &http.Server{
				Handler:           h,
				ReadTimeout:       config.MustOr(ctx, 5*time.Second, srv.ReadTimeout),
				ReadHeaderTimeout: config.MustOr(ctx, 2*time.Second, srv.ReadHeaderTimeout),
				WriteTimeout:      config.MustOr(ctx, 10*time.Second, srv.WriteTimeout),
				IdleTimeout:       config.MustOr(ctx, 120*time.Second, srv.IdleTimeout),
				MaxHeaderBytes:    config.MustOr(ctx, 1<<20, srv.MaxHeaderBytes),
			}

			return App{
				ls:              ln,
				srv:             httpServer,
				shutdownTimeout: config.MustOr(ctx, 30*time.Second, srv.ShutdownTimeout),
			}, nil
		})
	})
}

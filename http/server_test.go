// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package http

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/z5labs/returns/app"
	"github.com/z5labs/returns/config"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestTCPListener_Read(t *testing.T) {
	t.Run("will listen on the configured address", func(t *testing.T) {
		val, err := NewTCPListener(config.ReaderOf("127.0.0.1:0")).Read(context.Background())
		require.NoError(t, err)

		ln, ok := val.Value()
		require.True(t, ok)
		defer ln.Close()

		require.Contains(t, ln.Addr().String(), "127.0.0.1:")
	})

	t.Run("will return an error for an invalid address", func(t *testing.T) {
		_, err := NewTCPListener(config.ReaderOf("invalid-address")).Read(context.Background())
		require.Error(t, err)
	})
}

func TestTLSListener(t *testing.T) {
	baseLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer baseLn.Close()

	r := TLSListener(
		config.ReaderOf(baseLn),
		config.ReaderOf(&tls.Config{MinVersion: tls.VersionTLS12}),
	)

	ln, err := config.Read(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, baseLn.Addr(), ln.Addr())
}

func TestBuild(t *testing.T) {
	t.Run("will return an error if the handler fails to build", func(t *testing.T) {
		buildErr := errors.New("failed")
		b := Build(NewServer(config.EmptyReader[net.Listener]()), app.Build(func(ctx context.Context) (http.Handler, error) {
			return nil, buildErr
		}))

		_, err := b.Build(context.Background())
		require.ErrorIs(t, err, buildErr)
	})

	t.Run("will return an error if no listener is configured", func(t *testing.T) {
		b := Build(NewServer(config.EmptyReader[net.Listener]()), app.Build(func(ctx context.Context) (http.Handler, error) {
			return http.NotFoundHandler(), nil
		}))

		_, err := b.Build(context.Background())
		require.ErrorIs(t, err, config.ValueNotSetError{})
	})

	t.Run("will apply configured timeouts", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer ln.Close()

		srv := NewServer(
			config.ReaderOf(ln),
			ReadTimeout(config.ReaderOf(time.Second)),
			MaxHeaderBytes(config.ReaderOf(1024)),
			ShutdownTimeout(config.ReaderOf(3*time.Second)),
		)
		a, err := Build(srv, app.Build(func(ctx context.Context) (http.Handler, error) {
			return http.NotFoundHandler(), nil
		})).Build(context.Background())
		require.NoError(t, err)

		require.Equal(t, time.Second, a.srv.ReadTimeout)
		require.Equal(t, 2*time.Second, a.srv.ReadHeaderTimeout)
		require.Equal(t, 1024, a.srv.MaxHeaderBytes)
		require.Equal(t, 3*time.Second, a.shutdownTimeout)
	})
}

func TestFromEnv(t *testing.T) {
	t.Setenv("HTTP_WRITE_TIMEOUT", "7s")
	t.Setenv("HTTP_MAX_HEADER_BYTES", "2048")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	a, err := Build(NewServer(config.ReaderOf(ln), FromEnv()), app.Build(func(ctx context.Context) (http.Handler, error) {
		return http.NotFoundHandler(), nil
	})).Build(context.Background())
	require.NoError(t, err)

	require.Equal(t, 7*time.Second, a.srv.WriteTimeout)
	require.Equal(t, 2048, a.srv.MaxHeaderBytes)
	require.Equal(t, 120*time.Second, a.srv.IdleTimeout)
}

func TestApp_Run(t *testing.T) {
	t.Run("will serve requests until the context is cancelled", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "hello")
		})
		a, err := Build(NewServer(config.ReaderOf(ln)), app.Build(func(ctx context.Context) (http.Handler, error) {
			return h, nil
		})).Build(context.Background())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		eg, egctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			return a.Run(egctx)
		})

		var body []byte
		eg.Go(func() error {
			defer cancel()

			resp, err := http.Get("http://" + a.Addr().String())
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, err = io.ReadAll(resp.Body)
			return err
		})

		require.NoError(t, eg.Wait())
		require.Equal(t, "hello", string(body))
	})
}

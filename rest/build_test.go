// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"net"
	"net/http"
	"testing"

	"github.com/z5labs/returns/app"
	"github.com/z5labs/returns/config"
	rhttp "github.com/z5labs/returns/http"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestBuild(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	b := Build(rhttp.NewServer(config.ReaderOf(ln)), app.Build(func(ctx context.Context) (*Api, error) {
		return NewApi("Test", "v1", Handle(http.MethodGet, BasePath("/ping"), testHandler{responses: okResponses()})), nil
	}))

	a, err := b.Build(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return a.Run(egctx)
	})

	var statusCode int
	eg.Go(func() error {
		defer cancel()

		resp, err := http.Get("http://" + a.Addr().String() + "/ping")
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		statusCode = resp.StatusCode
		return nil
	})

	require.NoError(t, eg.Wait())
	require.Equal(t, http.StatusOK, statusCode)
}

// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"

	"github.com/z5labs/returns"
	"github.com/z5labs/returns/app"
	"github.com/z5labs/returns/config"
	"github.com/z5labs/returns/example/rest/dummy/endpoint"
	"github.com/z5labs/returns/rest"

	"golang.org/x/time/rate"
)

// Config of the dummy service.
type Config struct {
	Title   config.Reader[string]
	Version config.Reader[string]

	// ListRate is the number of item listings allowed per second.
	ListRate config.Reader[float64]
}

// ConfigFromEnv reads the service settings from DUMMY_* environment variables.
func ConfigFromEnv() Config {
	return Config{
		Title:    config.Or(config.Env("DUMMY_TITLE"), config.ReaderOf("Dummy")),
		Version:  config.Or(config.Env("DUMMY_VERSION"), config.ReaderOf("v0.0.0")),
		ListRate: config.Or(config.Float64FromString(config.Env("DUMMY_LIST_RATE")), config.ReaderOf(10.0)),
	}
}

// BuildApi returns a [app.Builder] for the dummy service [rest.Api].
func BuildApi(cfg Config) app.Builder[*rest.Api] {
	return app.BuilderFunc[*rest.Api](func(ctx context.Context) (*rest.Api, error) {
		title, err := config.Read(ctx, cfg.Title)
		if err != nil {
			return nil, err
		}
		version, err := config.Read(ctx, cfg.Version)
		if err != nil {
			return nil, err
		}
		listRate, err := config.Read(ctx, cfg.ListRate)
		if err != nil {
			return nil, err
		}

		api := rest.NewApi(title, version)
		reg := returns.NewRegistrar(api)

		err = endpoint.GetDummy(reg)
		if err != nil {
			return nil, err
		}

		err = endpoint.Items(reg, endpoint.NewItemStore(), rate.Limit(listRate))
		if err != nil {
			return nil, err
		}
		return api, nil
	})
}

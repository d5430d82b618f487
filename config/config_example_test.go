// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"fmt"
	"strings"
)

func Example() {
	port, _ := Read(
		context.Background(),
		Default(8080, IntFromString(Env("RETURNS_EXAMPLE_UNSET_PORT"))),
	)

	fmt.Println(port)
	// Output: 8080
}

func ExampleUnmarshalYAML() {
	type ApiConfig struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	}

	apiCfg, _ := Read(context.Background(), UnmarshalYAML[ApiConfig](ReaderOf(strings.NewReader(`title: Dummy API
version: v1.0.0
`))))

	fmt.Println("title:", apiCfg.Title)
	fmt.Println("version:", apiCfg.Version)
	// Output:
	// title: Dummy API
	// version: v1.0.0
}

// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// Logger returns a [slog.Logger] which emits its records through the global
// OpenTelemetry logger provider under the given instrumentation scope name.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// LogHandler is like [Logger] but returns the underlying [slog.Handler].
func LogHandler(name string) slog.Handler {
	return otelslog.NewHandler(name)
}

// ParseLevel maps a level name to an OpenTelemetry severity.
// Unknown names map to debug so nothing is dropped.
func ParseLevel(level string) log.Severity {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "info":
		return log.SeverityInfo
	case "warn", "warning":
		return log.SeverityWarn
	case "error":
		return log.SeverityError
	default:
		return log.SeverityDebug
	}
}

// LevelFilter drops log records below a minimum severity configured per
// logger name before handing them to the wrapped processor.
//
// Logger names match by longest prefix, so a level configured for
// "github.com/z5labs/returns" also applies to "github.com/z5labs/returns/rest".
// Records from loggers without a configured level are always kept.
type LevelFilter struct {
	inner    sdklog.Processor
	levels   map[string]log.Severity
	prefixes []string
}

// NewLevelFilter wraps inner with the given minimum levels.
func NewLevelFilter(inner sdklog.Processor, levels map[string]string) *LevelFilter {
	f := &LevelFilter{
		inner:    inner,
		levels:   make(map[string]log.Severity, len(levels)),
		prefixes: make([]string, 0, len(levels)),
	}
	for name, level := range levels {
		f.levels[name] = ParseLevel(level)
		f.prefixes = append(f.prefixes, name)
	}
	sort.Slice(f.prefixes, func(i, j int) bool {
		return len(f.prefixes[i]) > len(f.prefixes[j])
	})
	return f
}

// OnEmit implements the [sdklog.Processor] interface.
func (f *LevelFilter) OnEmit(ctx context.Context, record *sdklog.Record) error {
	if !f.Enabled(record.InstrumentationScope().Name, record.Severity()) {
		return nil
	}
	return f.inner.OnEmit(ctx, record)
}

// Enabled reports whether a record of the given severity from the named logger is kept.
func (f *LevelFilter) Enabled(name string, severity log.Severity) bool {
	for _, prefix := range f.prefixes {
		if strings.HasPrefix(name, prefix) {
			return severity >= f.levels[prefix]
		}
	}
	return true
}

// Shutdown implements the [sdklog.Processor] interface.
func (f *LevelFilter) Shutdown(ctx context.Context) error {
	return f.inner.Shutdown(ctx)
}

// ForceFlush implements the [sdklog.Processor] interface.
func (f *LevelFilter) ForceFlush(ctx context.Context) error {
	return f.inner.ForceFlush(ctx)
}

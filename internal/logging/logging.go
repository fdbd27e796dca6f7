// Package logging builds the zap logger used across flowgen.
//
// Loggers are always passed explicitly; this package keeps no global
// logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured log entries.
const (
	FieldFile       = "file"
	FieldLine       = "line"
	FieldKind       = "kind"
	FieldRewriter   = "rewriter"
	FieldEdits      = "edits"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldCategory   = "category"
	FieldOutput     = "output"
)

// New builds a console logger writing to stderr. quiet yields a no-op
// logger; verbose lowers the level to debug.
func New(verbose, quiet bool) (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

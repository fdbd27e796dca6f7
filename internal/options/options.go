// Package options defines the per-compilation option set.
//
// An Options value is immutable for the lifetime of one compilation. Every
// compilation starts from Defaults and applies its overrides in order, so no
// setting ever leaks from one compilation into the next.
package options

import "sort"

// Options controls how declarations are printed.
type Options struct {
	// EmitDocComments copies JSDoc blocks onto the printed declarations.
	EmitDocComments bool
	// RecordModeInterfaces prints interfaces as exact record type aliases
	// instead of nominal interfaces.
	RecordModeInterfaces bool
	// EmitDefaultExportWrapper prints `export =` as `declare module.exports`.
	EmitDefaultExportWrapper bool
	// SuppressDiagnostics silences unsupported-node diagnostics.
	SuppressDiagnostics bool
}

// Defaults returns the option set every compilation starts from.
func Defaults() Options {
	return Options{
		EmitDocComments:          true,
		RecordModeInterfaces:     false,
		EmitDefaultExportWrapper: true,
		SuppressDiagnostics:      false,
	}
}

// Option overrides one field of an Options value.
type Option func(*Options)

// Resolve applies opts on top of Defaults. Later options win.
func Resolve(opts ...Option) Options {
	o := Defaults()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func WithDocComments(v bool) Option {
	return func(o *Options) { o.EmitDocComments = v }
}

func WithRecordModeInterfaces(v bool) Option {
	return func(o *Options) { o.RecordModeInterfaces = v }
}

func WithDefaultExportWrapper(v bool) Option {
	return func(o *Options) { o.EmitDefaultExportWrapper = v }
}

func WithSuppressDiagnostics(v bool) Option {
	return func(o *Options) { o.SuppressDiagnostics = v }
}

// Set replaces the whole option set. Useful when a caller already holds a
// resolved Options value.
func Set(v Options) Option {
	return func(o *Options) { *o = v }
}

// keys maps accepted option keys to their setters. The short names are the
// ones used by flowgen's original command line configuration.
var keys = map[string]func(bool) Option{
	"emitDocComments":          WithDocComments,
	"jsdoc":                    WithDocComments,
	"recordModeInterfaces":     WithRecordModeInterfaces,
	"interfaceRecords":         WithRecordModeInterfaces,
	"emitDefaultExportWrapper": WithDefaultExportWrapper,
	"moduleExports":            WithDefaultExportWrapper,
	"suppressDiagnostics":      WithSuppressDiagnostics,
	"quiet":                    WithSuppressDiagnostics,
}

// FromMap converts a loosely typed option map (as decoded from a config
// file) into overrides. Unknown keys and non-boolean values are ignored.
// Keys are applied in sorted order so aliases resolve deterministically.
func FromMap(m map[string]any) []Option {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	var out []Option
	for _, k := range names {
		setter, ok := keys[k]
		if !ok {
			continue
		}
		v, ok := m[k].(bool)
		if !ok {
			continue
		}
		out = append(out, setter(v))
	}
	return out
}

// Known reports whether key is a recognized option name.
func Known(key string) bool {
	_, ok := keys[key]
	return ok
}

// Names returns the recognized option names, sorted.
func Names() []string {
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

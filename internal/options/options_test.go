package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	o := Defaults()
	assert.True(t, o.EmitDocComments)
	assert.False(t, o.RecordModeInterfaces)
	assert.True(t, o.EmitDefaultExportWrapper)
	assert.False(t, o.SuppressDiagnostics)
}

func TestResolve_LastWriteWins(t *testing.T) {
	o := Resolve(WithDocComments(false), nil, WithDocComments(true), WithRecordModeInterfaces(true))
	assert.True(t, o.EmitDocComments)
	assert.True(t, o.RecordModeInterfaces)
	assert.True(t, o.EmitDefaultExportWrapper)
}

func TestResolve_StartsFromDefaults(t *testing.T) {
	first := Resolve(WithSuppressDiagnostics(true))
	second := Resolve()
	assert.True(t, first.SuppressDiagnostics)
	assert.False(t, second.SuppressDiagnostics, "options must not leak between resolutions")
}

func TestFromMap(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want Options
	}{
		{
			name: "empty",
			in:   nil,
			want: Defaults(),
		},
		{
			name: "canonical names",
			in: map[string]any{
				"emitDocComments":          false,
				"recordModeInterfaces":     true,
				"emitDefaultExportWrapper": false,
				"suppressDiagnostics":      true,
			},
			want: Options{RecordModeInterfaces: true, SuppressDiagnostics: true},
		},
		{
			name: "aliases",
			in:   map[string]any{"jsdoc": false, "interfaceRecords": true},
			want: Options{RecordModeInterfaces: true, EmitDefaultExportWrapper: true},
		},
		{
			name: "unknown keys and bad values ignored",
			in:   map[string]any{"inexact": true, "quiet": "yes", "jsdoc": 1},
			want: Defaults(),
		},
		{
			// "suppressDiagnostics" sorts after "quiet", so it is applied last.
			name: "alias conflict resolves by key order",
			in:   map[string]any{"suppressDiagnostics": false, "quiet": true},
			want: Options{EmitDocComments: true, EmitDefaultExportWrapper: true, SuppressDiagnostics: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(FromMap(tt.in)...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("jsdoc"))
	assert.True(t, Known("emitDefaultExportWrapper"))
	assert.False(t, Known("inexact"))
}

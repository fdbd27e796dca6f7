package rewrite

import (
	"testing"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgen/flowgen/internal/compiler"
	"github.com/flowgen/flowgen/internal/vfsutil"
)

const testFile = "/flowgen-test/input.ts"

func parse(t *testing.T, source string) *ast.SourceFile {
	t.Helper()
	fs := vfsutil.NewDefault(map[string]string{testFile: source})
	program, _, err := compiler.CreateProgram(fs, "/flowgen-test", []string{testFile})
	require.NoError(t, err)
	sf := program.GetSourceFile(testFile)
	require.NotNil(t, sf)
	return sf
}

func rewrite(t *testing.T, r Rewriter, source string) string {
	t.Helper()
	sf := parse(t, source)
	return Apply(source, r.Rewrite(sf))
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		edits []Edit
		want  string
	}{
		{"no edits", "abc", nil, "abc"},
		{"single", "hello world", []Edit{{Pos: 6, End: 11, Text: "there"}}, "hello there"},
		{"unordered", "aXbYc", []Edit{{Pos: 1, End: 2, Text: "1"}, {Pos: 3, End: 4, Text: "22"}}, "a1b22c"},
		{"insert", "ab", []Edit{{Pos: 1, End: 1, Text: "-"}}, "a-b"},
		{"out of range skipped", "ab", []Edit{{Pos: 1, End: 9, Text: "x"}}, "ab"},
		{"overlap skipped", "abcdef", []Edit{{Pos: 1, End: 4, Text: "X"}, {Pos: 2, End: 5, Text: "Y"}}, "abYf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.text, tt.edits))
		})
	}
}

func TestLegacyModules(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "declare module identifier",
			in:   "declare module Foo {\n  export const x: number;\n}",
			want: "declare namespace Foo {\n  export const x: number;\n}",
		},
		{
			name: "nested legacy module",
			in:   "declare namespace A {\n  module B {}\n}",
			want: "declare namespace A {\n  namespace B {}\n}",
		},
		{
			name: "string module untouched",
			in:   "declare module \"pkg\" {\n  export const x: number;\n}",
			want: "declare module \"pkg\" {\n  export const x: number;\n}",
		},
		{
			name: "namespace untouched",
			in:   "export namespace N {}",
			want: "export namespace N {}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewrite(t, LegacyModules{}, tt.in))
		})
	}
}

func TestImportEquals(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "require",
			in:   `import fs = require("fs");`,
			want: `import * as fs from "fs";`,
		},
		{
			name: "exported require",
			in:   `export import ev = require('events');`,
			want: "import * as ev from 'events';\nexport { ev };",
		},
		{
			name: "inside ambient module",
			in:   "declare module \"m\" {\n  import x = require(\"y\");\n}",
			want: "declare module \"m\" {\n  import * as x from \"y\";\n}",
		},
		{
			name: "entity alias untouched",
			in:   "namespace A { export type T = string }\nimport T = A.T;",
			want: "namespace A { export type T = string }\nimport T = A.T;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewrite(t, ImportEquals{}, tt.in))
		})
	}
}

func TestDefaultOrder(t *testing.T) {
	rs := Default()
	require.Len(t, rs, 2)
	assert.Equal(t, "legacy-modules", rs[0].Name())
	assert.Equal(t, "import-equals", rs[1].Name())
}

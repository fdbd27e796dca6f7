package flowgen_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgen/flowgen"
	"github.com/flowgen/flowgen/internal/diagnostic"
	"github.com/flowgen/flowgen/internal/options"
)

func compile(t *testing.T, source string, opts ...options.Option) string {
	t.Helper()
	c := flowgen.New(flowgen.WithCwd(t.TempDir()))
	out, err := c.CompileString(context.Background(), source, opts...)
	require.NoError(t, err)
	return out
}

func TestCompileString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts []options.Option
		want string
	}{
		{
			name: "enum ordinals",
			in:   "export enum Color { Red, Green, Blue }",
			want: "declare export var Color: {|\n+Red: 0, // 0\n+Green: 1, // 1\n+Blue: 2, // 2\n|};\n",
		},
		{
			name: "enum ordinals ignore explicit initializers",
			in:   "enum E { A, B = 5, C }",
			want: "declare var E: {|\n+A: 0, // 0\n+B: 5, // 5\n+C: 2, // 2\n|};\n",
		},
		{
			name: "string enum",
			in:   `export enum Dir { Up = "UP", Down = "DOWN" }`,
			want: "declare export var Dir: {|\n+Up: \"UP\", // \"UP\"\n+Down: \"DOWN\", // \"DOWN\"\n|};\n",
		},
		{
			name: "optional field and literal union",
			in: `interface MyObj { state?: "APPROVED" | "REQUEST_CHANGES" | "COMMENT" | "PENDING" }
type CompletionsTriggerCharacter = '"' | "'";`,
			want: "declare interface MyObj {\nstate?: \"APPROVED\" | \"REQUEST_CHANGES\" | \"COMMENT\" | \"PENDING\"\n}\n" +
				"declare type CompletionsTriggerCharacter = '\"' | \"'\";\n",
		},
		{
			name: "class heritage becomes mixins",
			in: `interface A { a(): void }
interface B { b(): void }
export declare class C implements A, B {}`,
			want: "declare interface A {\na(): void\n}\n" +
				"declare interface B {\nb(): void\n}\n" +
				"declare export class C mixins A, B {}\n",
		},
		{
			name: "computed optional key widens the value",
			in: `declare const key: unique symbol;
export interface WithKey { [key]?: string }`,
			want: "declare var key: Symbol;\n" +
				"declare export interface WithKey {\n[key]: string | void\n}\n",
		},
		{
			name: "nominal interface heritage",
			in: `interface A { a: string }
export interface C extends A { c: boolean }`,
			want: "declare interface A {\na: string\n}\n" +
				"declare export type C = {\nc: boolean\n} & $Exact<A>;\n",
		},
		{
			name: "record mode spreads supertypes first",
			in: `interface A { a: string }
interface B { b: number }
export interface C extends A, B { c: boolean }`,
			opts: []options.Option{options.WithRecordModeInterfaces(true)},
			want: "declare type A = {\na: string\n};\n" +
				"declare type B = {\nb: number\n};\n" +
				"declare export type C = {\n...$Exact<A>,\n...$Exact<B>,\nc: boolean\n};\n",
		},
		{
			name: "default type arguments are filled in",
			in: `interface Box<T, U = string, V = T> { t: T }
type X = Box<number>;`,
			want: "declare interface Box<T, U = string, V = T> {\nt: T\n}\n" +
				"declare type X = Box<number, string, number>;\n",
		},
		{
			name: "well-known globals",
			in:   "export type R = ReadonlyArray<string>;\nexport type P = Partial<{ a: number }>;",
			want: "declare export type R = $ReadOnlyArray<string>;\n" +
				"declare export type P = $Rest<{\na: number\n}, {...}>;\n",
		},
		{
			name: "type operators",
			in:   "type K = keyof { a: 1 };\ntype RO = readonly string[];\ntype U = unknown;\ntype N = never;",
			want: "declare type K = $Keys<{\na: 1\n}>;\n" +
				"declare type RO = $ReadOnlyArray<string>;\n" +
				"declare type U = mixed;\n" +
				"declare type N = empty;\n",
		},
		{
			name: "indexed access",
			in:   "interface O { a: string }\ntype A = O[\"a\"];\ntype E = string[][number];",
			want: "declare interface O {\na: string\n}\n" +
				"declare type A = $PropertyType<O, \"a\">;\n" +
				"declare type E = $ElementType<string[], number>;\n",
		},
		{
			name: "functions and variables",
			in:   "export declare function f<T>(a: T, b?: number, ...rest: string[]): T;\ndeclare let x: number, y: string;",
			want: "declare export function f<T>(a: T, b?: number, ...rest: string[]): T;\n" +
				"declare var x: number;\ndeclare var y: string;\n",
		},
		{
			name: "export assignment with module wrapper",
			in:   "declare function f(): void;\nexport = f;",
			want: "declare function f(): void;\ndeclare module.exports: typeof f;\n",
		},
		{
			name: "export assignment without module wrapper",
			in:   "declare function f(): void;\nexport = f;",
			opts: []options.Option{options.WithDefaultExportWrapper(false)},
			want: "declare function f(): void;\ndeclare export default typeof f;\n",
		},
		{
			name: "imports",
			in: `import { A, B as C } from "./missing";
import type { D } from "./missing";
import * as ns from "mod";
import def from "mod";
import "side-effect";`,
			want: "import {A, B as C} from \"./missing\";\n" +
				"import type {D} from \"./missing\";\n" +
				"import * as ns from \"mod\";\n" +
				"import def from \"mod\";\n" +
				"import \"side-effect\";\n",
		},
		{
			name: "import equals require",
			in:   `import fs = require("fs");`,
			want: "import * as fs from \"fs\";\n",
		},
		{
			name: "doc comments",
			in:   "/** The answer. */\nexport declare const answer: number;",
			want: "/** The answer. */\ndeclare export var answer: number;\n",
		},
		{
			name: "doc comments disabled",
			in:   "/** The answer. */\nexport declare const answer: number;",
			opts: []options.Option{options.WithDocComments(false)},
			want: "declare export var answer: number;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compile(t, tt.in, tt.opts...))
		})
	}
}

func TestCompileString_PrivateMembersLeaveNoTrace(t *testing.T) {
	out := compile(t, `export class Foo {
  private secret: string;
  #hidden: number;
  visible: boolean;
  protected kept(): void {}
}`)
	assert.NotContains(t, out, "secret")
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, "declare export class Foo {\nvisible: boolean;\nkept(): void\n}\n", out)
}

func TestCompileString_Namespaces(t *testing.T) {
	out := compile(t, `export declare namespace N {
  function f(): void;
  function f(x: number): void;
  type T = string;
  const v: number;
}
export type U = N.T;`)

	want := "declare export function N$f(): void;\n" +
		"declare export function N$f(x: number): void;\n" +
		"declare export type N$T = string;\n" +
		"declare export var N$v: number;\n" +
		"declare export type U = N$T;\n" +
		"declare export var N: {|\n+f: typeof N$f,\n+v: typeof N$v,\n|};\n"
	assert.Equal(t, want, out)
}

func TestCompileString_LegacyModule(t *testing.T) {
	out := compile(t, "declare module Foo {\n  export const x: number;\n}")
	assert.Equal(t, "declare var Foo$x: number;\ndeclare var Foo: {|\n+x: typeof Foo$x,\n|};\n", out)
}

func TestCompileString_AmbientModule(t *testing.T) {
	out := compile(t, `declare module "pkg" {
  interface Options { debug?: boolean }
  function init(opts: Options): void;
}`)
	want := "declare module \"pkg\" {\n" +
		"declare export interface Options {\ndebug?: boolean\n}\n" +
		"declare export function init(opts: Options): void;\n" +
		"}\n"
	assert.Equal(t, want, out)
}

func TestCompileString_UnsupportedStatement(t *testing.T) {
	diags := diagnostic.NewCollector(false, false)
	c := flowgen.New(flowgen.WithCwd(t.TempDir()), flowgen.WithDiagnostics(diags))

	out, err := c.CompileString(context.Background(), "console.log(1);\ndeclare const x: number;")
	require.NoError(t, err)
	assert.Equal(t, "/* flowgen: unsupported ExpressionStatement */\ndeclare var x: number;\n", out)

	require.NotEmpty(t, diags.Diagnostics())
	assert.Equal(t, diagnostic.CategoryStatementUnsupported, diags.Diagnostics()[0].Category)
}

func TestCompileString_ConditionalTypeDegrades(t *testing.T) {
	diags := diagnostic.NewCollector(false, false)
	c := flowgen.New(flowgen.WithCwd(t.TempDir()), flowgen.WithDiagnostics(diags))

	out, err := c.CompileString(context.Background(), "type C<T> = T extends string ? 1 : 2;")
	require.NoError(t, err)
	assert.Equal(t, "declare type C<T> = any;\n", out)
	require.Len(t, diags.Diagnostics(), 1)
	assert.Equal(t, diagnostic.CategoryTypeUnsupported, diags.Diagnostics()[0].Category)

	diags.Reset()
	_, err = c.CompileString(context.Background(), "type C<T> = T extends string ? 1 : 2;", options.WithSuppressDiagnostics(true))
	require.NoError(t, err)
	assert.Empty(t, diags.Diagnostics())
}

func TestCompileString_OptionsResetBetweenCalls(t *testing.T) {
	c := flowgen.New(flowgen.WithCwd(t.TempDir()))
	src := "interface A { a: string }"

	record, err := c.CompileString(context.Background(), src, options.WithRecordModeInterfaces(true))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(record, "declare type A = "))

	nominal, err := c.CompileString(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(nominal, "declare interface A "), "options must not leak into the next compilation")
}

func TestCompileFile_Missing(t *testing.T) {
	c := flowgen.New(flowgen.WithCwd(t.TempDir()))
	out, err := c.CompileFile(context.Background(), "does-not-exist.d.ts")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCompileFile_DecodesByteOrderMark(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.d.ts")
	require.NoError(t, os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, "export declare const a: string;"...), 0o644))

	out, err := flowgen.New(flowgen.WithCwd(dir)).CompileFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "declare export var a: string;\n", out)
}

func TestCompileFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, text string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(text), 0o644))
		return p
	}
	other := write("other.ts", "export interface A { a: string }\nexport declare const b: number;\n")
	main := write("main.ts", "import { A, b } from \"./other\";\nexport declare namespace N { const x: A; }\n")

	c := flowgen.New(flowgen.WithCwd(dir))
	results, err := c.CompileFiles(context.Background(), []string{main, filepath.Join(dir, "missing.ts"), other})
	require.NoError(t, err)
	require.Len(t, results, 2, "missing inputs are skipped")

	assert.Equal(t, filepath.ToSlash(main), results[0].Path)
	assert.Equal(t, "import {type A, b} from \"./other\";\n"+
		"declare export var N$x: A;\n"+
		"declare export var N: {|\n+x: typeof N$x,\n|};\n", results[0].Output)

	assert.Equal(t, filepath.ToSlash(other), results[1].Path)
	assert.Equal(t, "declare export interface A {\na: string\n}\ndeclare export var b: number;\n", results[1].Output,
		"namespace state from main.ts must not leak into other.ts")
}

func TestCompileFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := flowgen.New(flowgen.WithCwd(t.TempDir())).CompileFiles(ctx, []string{"a.ts"})
	assert.ErrorIs(t, err, context.Canceled)
}

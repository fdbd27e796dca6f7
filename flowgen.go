// Package flowgen translates TypeScript declaration files into Flow
// declarations.
//
// A Compiler parses its inputs with typescript-go, normalizes them with the
// pre-pass rewriters, and prints every file with a fresh compilation
// environment. Translation is best effort: constructs Flow cannot express
// degrade to `any` or are dropped, and are reported as diagnostics rather
// than errors.
package flowgen

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"
	"github.com/microsoft/typescript-go/shim/scanner"
	"github.com/microsoft/typescript-go/shim/tspath"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/flowgen/flowgen/internal/compiler"
	"github.com/flowgen/flowgen/internal/diagnostic"
	"github.com/flowgen/flowgen/internal/env"
	"github.com/flowgen/flowgen/internal/identifiers"
	"github.com/flowgen/flowgen/internal/logging"
	"github.com/flowgen/flowgen/internal/options"
	"github.com/flowgen/flowgen/internal/rewrite"
	"github.com/flowgen/flowgen/internal/vfsutil"
	"github.com/flowgen/flowgen/internal/walker"
)

// VirtualFileName is the name CompileString gives its input.
const VirtualFileName = "file.ts"

// Result is the translation of one input file.
type Result struct {
	Path   string
	Output string
}

// Compiler translates TypeScript declarations. A Compiler may be reused;
// every compilation starts from default options and fresh namespace state.
type Compiler struct {
	logger      *zap.Logger
	rewriters   []rewrite.Rewriter
	table       identifiers.Table
	diagnostics *diagnostic.Collector
	reporter    compiler.DiagnosticReporter
	cwd         string
	concurrency int

	stack env.Stack
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) CompilerOption {
	return func(c *Compiler) { c.logger = logging.OrNop(l) }
}

// WithRewriters replaces the pre-pass rewriters.
func WithRewriters(rs ...rewrite.Rewriter) CompilerOption {
	return func(c *Compiler) { c.rewriters = rs }
}

// WithIdentifierTable replaces the well-known identifier table.
func WithIdentifierTable(t identifiers.Table) CompilerOption {
	return func(c *Compiler) { c.table = t }
}

// WithDiagnostics sets the collector translation diagnostics are recorded
// in.
func WithDiagnostics(d *diagnostic.Collector) CompilerOption {
	return func(c *Compiler) { c.diagnostics = d }
}

// WithReporter sets a reporter for parse errors.
func WithReporter(r compiler.DiagnosticReporter) CompilerOption {
	return func(c *Compiler) { c.reporter = r }
}

// WithCwd sets the directory relative input paths resolve against.
func WithCwd(dir string) CompilerOption {
	return func(c *Compiler) { c.cwd = dir }
}

// WithConcurrency bounds the number of files read in parallel.
func WithConcurrency(n int) CompilerOption {
	return func(c *Compiler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// New returns a Compiler.
func New(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		logger:      zap.NewNop(),
		rewriters:   rewrite.Default(),
		diagnostics: diagnostic.NewCollector(false, false),
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			c.cwd = wd
		} else {
			c.cwd = "/"
		}
	}
	c.cwd = tspath.NormalizePath(c.cwd)
	return c
}

// Diagnostics returns the collector translation diagnostics go to.
func (c *Compiler) Diagnostics() *diagnostic.Collector {
	return c.diagnostics
}

// CompileString translates text as if it were the file `file.ts`.
func (c *Compiler) CompileString(ctx context.Context, text string, opts ...options.Option) (string, error) {
	path := tspath.ResolvePath(c.cwd, VirtualFileName)
	results, err := c.compile(ctx, map[string]string{path: text}, []string{path}, opts)
	if err != nil || len(results) == 0 {
		return "", err
	}
	return results[0].Output, nil
}

// CompileFile translates the file at path. A missing file translates to "".
func (c *Compiler) CompileFile(ctx context.Context, path string, opts ...options.Option) (string, error) {
	results, err := c.CompileFiles(ctx, []string{path}, opts...)
	if err != nil || len(results) == 0 {
		return "", err
	}
	return results[0].Output, nil
}

// CompileFiles translates paths as one program, so declarations in one file
// resolve against the others. Results follow the input order; missing files
// are skipped. Each file is printed with its own environment.
func (c *Compiler) CompileFiles(ctx context.Context, paths []string, opts ...options.Option) ([]Result, error) {
	abs := make([]string, len(paths))
	for i, p := range paths {
		abs[i] = tspath.ResolvePath(c.cwd, filepath.ToSlash(p))
	}

	texts := make([]string, len(abs))
	found := make([]bool, len(abs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, path := range abs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, ok, err := readSource(path)
			if err != nil {
				return err
			}
			texts[i], found[i] = text, ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := make(map[string]string, len(abs))
	var roots []string
	for i, path := range abs {
		if !found[i] {
			c.logger.Debug("input file missing, skipped", zap.String(logging.FieldFile, path))
			continue
		}
		if _, dup := files[path]; dup {
			continue
		}
		files[path] = texts[i]
		roots = append(roots, path)
	}
	if len(roots) == 0 {
		return nil, nil
	}
	return c.compile(ctx, files, roots, opts)
}

// readSource reads a file and decodes it to UTF-8, honoring a byte order
// mark. ok is false when the file does not exist.
func readSource(path string) (text string, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "read %s", path)
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", false, errors.Wrapf(err, "decode %s", path)
	}
	return string(decoded), true, nil
}

func (c *Compiler) compile(ctx context.Context, files map[string]string, roots []string, opts []options.Option) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resolved := options.Resolve(opts...)

	overlay := vfsutil.NewDefault(files)
	program, err := c.buildProgram(overlay, roots)
	if err != nil {
		return nil, err
	}
	c.reportSyntax(ctx, program, resolved)

	checker, release := shimcompiler.Program_GetTypeChecker(program, ctx)
	defer release()

	results := make([]Result, 0, len(roots))
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(err, "compilation cancelled")
		}
		sf := program.GetSourceFile(root)
		if sf == nil {
			c.logger.Debug("no source file in program, skipped", zap.String(logging.FieldFile, root))
			continue
		}
		results = append(results, Result{Path: root, Output: c.print(checker, sf, opts)})
	}
	return results, nil
}

// print translates one file inside its own environment.
func (c *Compiler) print(checker *shimchecker.Checker, sf *ast.SourceFile, opts []options.Option) string {
	e := env.New(checker, sf, options.Resolve(opts...), c.rewriters, identifiers.NewResolver(c.table), c.logger, c.diagnostics)
	pop := c.stack.Push(e)
	defer pop()
	return walker.New(e).Walk(sf)
}

// buildProgram creates the program and runs the rewriters over the root
// files. The program is rebuilt after every rewriter that changed a file.
func (c *Compiler) buildProgram(overlay *vfsutil.Overlay, roots []string) (*shimcompiler.Program, error) {
	program, diags, err := compiler.CreateProgram(overlay, c.cwd, roots)
	if err != nil {
		return nil, errors.Wrap(err, "create program")
	}
	for _, d := range diags {
		c.logger.Debug("program diagnostic", zap.String(logging.FieldFile, d.FilePath), zap.String("message", d.Message))
	}

	for _, r := range c.rewriters {
		edits := 0
		for _, root := range roots {
			sf := program.GetSourceFile(root)
			if sf == nil {
				continue
			}
			fileEdits := r.Rewrite(sf)
			if len(fileEdits) == 0 {
				continue
			}
			overlay.Set(root, rewrite.Apply(sf.Text(), fileEdits))
			edits += len(fileEdits)
			c.logger.Debug("rewrote source",
				zap.String(logging.FieldRewriter, r.Name()),
				zap.String(logging.FieldFile, root),
				zap.Int(logging.FieldEdits, len(fileEdits)))
		}
		if edits == 0 {
			continue
		}
		program, _, err = compiler.CreateProgram(overlay, c.cwd, roots)
		if err != nil {
			return nil, errors.Wrapf(err, "rebuild program after %s", r.Name())
		}
	}
	return program, nil
}

// reportSyntax forwards parse errors to the reporter and records them as
// warnings: the parser recovers, and the recovered tree is still printed.
func (c *Compiler) reportSyntax(ctx context.Context, program *shimcompiler.Program, opts options.Options) {
	for _, d := range compiler.GetSyntacticDiagnostics(ctx, program) {
		if c.reporter != nil {
			c.reporter(d)
		}
		if opts.SuppressDiagnostics {
			continue
		}
		file, line := "", 0
		if sf := d.File(); sf != nil {
			file = sf.FileName()
			l, _ := scanner.GetECMALineAndCharacterOfPosition(sf, d.Pos())
			line = l + 1
		}
		c.diagnostics.Warn(diagnostic.CategorySyntax, file, line, d.String())
	}
}

// CompileString translates text with a new Compiler.
func CompileString(ctx context.Context, text string, opts ...options.Option) (string, error) {
	return New().CompileString(ctx, text, opts...)
}

// CompileFile translates the file at path with a new Compiler.
func CompileFile(ctx context.Context, path string, opts ...options.Option) (string, error) {
	return New().CompileFile(ctx, path, opts...)
}

// CompileFiles translates paths with a new Compiler.
func CompileFiles(ctx context.Context, paths []string, opts ...options.Option) ([]Result, error) {
	return New().CompileFiles(ctx, paths, opts...)
}

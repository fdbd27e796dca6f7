package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flowgen/flowgen"
	"github.com/flowgen/flowgen/internal/buildcache"
	"github.com/flowgen/flowgen/internal/compiler"
	"github.com/flowgen/flowgen/internal/config"
	"github.com/flowgen/flowgen/internal/diagnostic"
	"github.com/flowgen/flowgen/internal/logging"
	"github.com/flowgen/flowgen/internal/options"
)

// flags holds the command line flags shared by compile and watch.
type flags struct {
	outputFile      string
	outDir          string
	noJSDoc         bool
	interfaceRecord bool
	noModuleExports bool
	quiet           bool
	verbose         bool
	flowHeader      bool
	flowTypedModule string
	configPath      string
	stdout          bool
	force           bool
	strict          bool
}

func (f *flags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.outputFile, "output-file", "o", "", "write the translation of a single input to this file")
	pf.StringVar(&f.outDir, "out-dir", "", "directory receiving the .js.flow files")
	pf.BoolVar(&f.noJSDoc, "no-jsdoc", false, "drop JSDoc comments")
	pf.BoolVar(&f.interfaceRecord, "interface-records", false, "print interfaces as exact object types")
	pf.BoolVar(&f.noModuleExports, "no-module-exports", false, "print `export =` as a default export")
	pf.BoolVar(&f.quiet, "quiet", false, "suppress translation diagnostics and logging")
	pf.BoolVar(&f.verbose, "verbose", false, "log every compilation step")
	pf.BoolVar(&f.flowHeader, "add-flow-header", false, "prepend // @flow to every output")
	pf.StringVar(&f.flowTypedModule, "flow-typed-module", "", `wrap every output in declare module "name" {...}`)
	pf.StringVar(&f.configPath, "config", "", "path to flowgen.toml or flowgen.json")
	pf.BoolVar(&f.stdout, "stdout", false, "print translations to stdout instead of writing files")
	pf.BoolVar(&f.strict, "strict", false, "fail when a construct cannot be translated")
	pf.BoolVar(&f.force, "force", false, "translate even when the build cache says the outputs are up to date")
}

// job is a resolved compile request: inputs, translation options and the
// output layout.
type job struct {
	inputs  []string
	options []options.Option
	layout  layout
	cwd     string
	force   bool
	strict  bool
}

// resolveJob merges the config file, if any, with the command line. Flags
// given explicitly win over the config.
func resolveJob(cmd *cobra.Command, f *flags, args []string) (*job, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "could not get working directory")
	}

	cfg, err := loadConfig(f.configPath, cwd, len(args) == 0)
	if err != nil {
		return nil, err
	}

	j := &job{cwd: cwd}
	if cfg != nil {
		j.options = cfg.TranslationOptions()
		j.layout = layout{
			outDir:     cfg.OutDir,
			base:       cfg.Dir,
			flowHeader: cfg.FlowHeader,
			moduleName: cfg.ModuleName,
		}
		if j.layout.outDir != "" && !filepath.IsAbs(j.layout.outDir) {
			j.layout.outDir = filepath.Join(cfg.Dir, j.layout.outDir)
		}
	} else {
		j.layout.base = cwd
	}

	if len(args) > 0 {
		j.inputs = args
	} else {
		j.inputs, err = cfg.Inputs()
		if err != nil {
			return nil, err
		}
	}

	set := cmd.Flags()
	if set.Changed("no-jsdoc") {
		j.options = append(j.options, options.WithDocComments(!f.noJSDoc))
	}
	if set.Changed("interface-records") {
		j.options = append(j.options, options.WithRecordModeInterfaces(f.interfaceRecord))
	}
	if set.Changed("no-module-exports") {
		j.options = append(j.options, options.WithDefaultExportWrapper(!f.noModuleExports))
	}
	if f.quiet {
		j.options = append(j.options, options.WithSuppressDiagnostics(true))
	}
	if set.Changed("out-dir") {
		j.layout.outDir = f.outDir
	}
	if set.Changed("add-flow-header") {
		j.layout.flowHeader = f.flowHeader
	}
	if set.Changed("flow-typed-module") {
		j.layout.moduleName = f.flowTypedModule
	}
	j.layout.outputFile = f.outputFile
	j.layout.stdout = f.stdout
	j.force = f.force
	j.strict = f.strict

	if j.layout.outputFile != "" && len(j.inputs) > 1 {
		return nil, errors.WithHint(
			errors.Newf("--output-file needs exactly one input, got %d", len(j.inputs)),
			"use --out-dir for several inputs")
	}
	return j, nil
}

// loadConfig loads the explicit config, or the one found in cwd when the
// inputs must come from a config. A missing config is only an error when
// no inputs were given.
func loadConfig(path, cwd string, required bool) (*config.Config, error) {
	if path == "" {
		path = config.Find(cwd)
	}
	if path == "" {
		if required {
			return nil, errors.WithHint(errors.New("no input files"),
				"pass files as arguments or create flowgen.toml with an include list")
		}
		return nil, nil
	}
	return config.Load(path)
}

func newLogger(f *flags) (*zap.Logger, error) {
	return logging.New(f.verbose, f.quiet)
}

func newCompiler(f *flags, logger *zap.Logger, cwd string, errOut io.Writer) (*flowgen.Compiler, *diagnostic.Collector) {
	diags := diagnostic.NewCollector(f.strict, f.quiet)
	c := flowgen.New(
		flowgen.WithLogger(logger),
		flowgen.WithDiagnostics(diags),
		flowgen.WithCwd(cwd),
		flowgen.WithReporter(compiler.CreateDiagnosticReporter(errOut, cwd, compiler.IsPrettyOutput())),
	)
	return c, diags
}

func runCompile(cmd *cobra.Command, f *flags, args []string) error {
	j, err := resolveJob(cmd, f, args)
	if err != nil {
		return err
	}
	logger, err := newLogger(f)
	if err != nil {
		return errors.Wrap(err, "create logger")
	}
	defer func() { _ = logger.Sync() }()

	c, diags := newCompiler(f, logger, j.cwd, cmd.ErrOrStderr())
	_, err = compileJob(cmd.Context(), c, j, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
	printDiagnostics(cmd.ErrOrStderr(), diags, f.quiet)
	if err == nil {
		if err = strictError(diags); err != nil {
			if path, _, _ := j.cacheKey(); path != "" {
				buildcache.Delete(path)
			}
		}
	}
	return err
}

// strictError fails a strict run that recorded errors. The outputs are
// already written; the cache is dropped so the next run reports them again.
func strictError(diags *diagnostic.Collector) error {
	if !diags.HasErrors() {
		return nil
	}
	return errors.WithHint(
		errors.Newf("%d construct(s) could not be translated", diags.ErrorCount()),
		"rerun without --strict to keep the degraded output")
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

// compileJob translates the job's inputs and writes the results. It returns
// the number of outputs written.
func compileJob(ctx context.Context, c *flowgen.Compiler, j *job, stdout, status io.Writer, logger *zap.Logger) (int, error) {
	start := time.Now()

	cachePath, settings, digests := j.cacheKey()
	if cachePath != "" && !j.force {
		if buildcache.Load(cachePath).IsValid(settings, digests) {
			fmt.Fprintln(status, okColor.Sprintf("%d file(s) up to date", len(j.inputs)))
			logger.Debug("build cache hit", zap.String(logging.FieldFile, cachePath))
			return 0, nil
		}
	}

	results, err := c.CompileFiles(ctx, j.inputs, j.options...)
	if err != nil {
		return 0, errors.Wrap(err, "compile")
	}
	if len(results) == 0 {
		return 0, errors.WithHint(errors.New("none of the input files exist"), "check the paths or the include patterns")
	}

	written, err := j.layout.write(ctx, results, stdout, status)
	if err != nil {
		if cachePath != "" {
			buildcache.Delete(cachePath)
		}
		return written, err
	}
	if cachePath != "" {
		outputs := make([]string, 0, len(results))
		for _, r := range results {
			outputs = append(outputs, j.layout.path(r.Path))
		}
		if err := buildcache.Save(cachePath, buildcache.New(settings, digests, outputs)); err != nil {
			logger.Warn("could not save build cache", zap.Error(err))
		}
	}
	logger.Info("compiled",
		zap.Int(logging.FieldCount, len(results)),
		zap.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
	return written, nil
}

// cacheKey returns where the build cache lives and what it is keyed on.
// The path is empty when the job writes to stdout or a single named file.
func (j *job) cacheKey() (path, settings string, digests map[string]string) {
	if j.layout.stdout || j.layout.outputFile != "" {
		return "", "", nil
	}
	dir := j.layout.outDir
	if dir == "" {
		dir = j.layout.base
	}
	if dir == "" {
		dir = j.cwd
	}
	l := j.layout
	settings = buildcache.HashBytes(fmt.Appendf(nil, "%+v|%t|%t|%q|%q|%q",
		options.Resolve(j.options...), j.strict, l.flowHeader, l.moduleName, l.outDir, l.base))
	return buildcache.CachePath(dir), settings, buildcache.HashFiles(j.inputs)
}

// printDiagnostics prints the collected translation diagnostics and a
// summary line.
func printDiagnostics(w io.Writer, diags *diagnostic.Collector, quiet bool) {
	if quiet || len(diags.Diagnostics()) == 0 {
		return
	}
	fmt.Fprint(w, diags.FormatAll())
	fmt.Fprintln(w, warnColor.Sprint(diags.Summary()))
}

func hints(err error) []string {
	return errors.GetAllHints(err)
}

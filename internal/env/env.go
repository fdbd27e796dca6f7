// Package env holds the per-compilation environment threaded through the
// printers.
//
// An Env bundles everything a printer may consult while translating one
// source file. It is created fresh for every file and passed explicitly;
// nothing here is global.
package env

import (
	"sync"

	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"
	"github.com/microsoft/typescript-go/shim/scanner"
	"go.uber.org/zap"

	"github.com/flowgen/flowgen/internal/diagnostic"
	"github.com/flowgen/flowgen/internal/identifiers"
	"github.com/flowgen/flowgen/internal/logging"
	"github.com/flowgen/flowgen/internal/options"
	"github.com/flowgen/flowgen/internal/rewrite"
)

// Env is the compilation environment for one source file.
type Env struct {
	Checker     *shimchecker.Checker
	SourceFile  *ast.SourceFile
	Options     options.Options
	Rewriters   []rewrite.Rewriter
	Resolver    *identifiers.Resolver
	Namespaces  *Namespaces
	Logger      *zap.Logger
	Diagnostics *diagnostic.Collector
}

// New builds an environment with a fresh namespace set. A nil logger is
// replaced by a no-op logger and a nil resolver by one over the well-known
// table.
func New(checker *shimchecker.Checker, sf *ast.SourceFile, opts options.Options, rewriters []rewrite.Rewriter, resolver *identifiers.Resolver, logger *zap.Logger, diags *diagnostic.Collector) *Env {
	if resolver == nil {
		resolver = identifiers.NewResolver(nil)
	}
	return &Env{
		Checker:     checker,
		SourceFile:  sf,
		Options:     opts,
		Rewriters:   rewriters,
		Resolver:    resolver,
		Namespaces:  NewNamespaces(),
		Logger:      logging.OrNop(logger),
		Diagnostics: diags,
	}
}

// FileName returns the active source file's name, or "" when none is set.
func (e *Env) FileName() string {
	if e.SourceFile == nil {
		return ""
	}
	return e.SourceFile.FileName()
}

// Line returns the 1-based line of node in the active source file.
func (e *Env) Line(node *ast.Node) int {
	if e.SourceFile == nil || node == nil {
		return 0
	}
	pos := scanner.GetTokenPosOfNode(node, e.SourceFile, false)
	line, _ := scanner.GetECMALineAndCharacterOfPosition(e.SourceFile, pos)
	return line + 1
}

// Report records a degraded translation of node. It honors
// SuppressDiagnostics and also logs at debug level.
func (e *Env) Report(category diagnostic.Category, node *ast.Node, message string) {
	line := e.Line(node)
	e.Logger.Debug(message,
		zap.String(logging.FieldFile, e.FileName()),
		zap.Int(logging.FieldLine, line),
		zap.String(logging.FieldCategory, string(category)))
	if e.Options.SuppressDiagnostics {
		return
	}
	e.Diagnostics.Warn(category, e.FileName(), line, message)
}

// Stack tracks the active environment of re-entrant compilations. Each
// Compiler owns its own Stack.
type Stack struct {
	mu   sync.Mutex
	envs []*Env
}

// Push makes e the active environment and returns the function that
// restores the previous one.
func (s *Stack) Push(e *Env) (pop func()) {
	s.mu.Lock()
	s.envs = append(s.envs, e)
	depth := len(s.envs)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if len(s.envs) >= depth {
				s.envs = s.envs[:depth-1]
			}
		})
	}
}

// Current returns the active environment, or nil when idle.
func (s *Stack) Current() *Env {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.envs) == 0 {
		return nil
	}
	return s.envs[len(s.envs)-1]
}

// Depth returns the number of active environments.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.envs)
}

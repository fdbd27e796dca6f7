// Package walker drives the translation of one source file: it visits the
// top-level statements in source order, dispatches each to the declaration
// printer and concatenates the results.
package walker

import (
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	"go.uber.org/zap"

	"github.com/flowgen/flowgen/internal/diagnostic"
	"github.com/flowgen/flowgen/internal/env"
	"github.com/flowgen/flowgen/internal/logging"
	"github.com/flowgen/flowgen/internal/printer"
)

// Walker translates the statements of a source file.
type Walker struct {
	env *env.Env
	p   *printer.Printer
}

// New returns a walker printing with e.
func New(e *env.Env) *Walker {
	return &Walker{env: e, p: printer.New(e)}
}

// scope describes the container a statement is printed in.
type scope struct {
	// exportAll marks ambient module bodies, where every declaration is
	// part of the module's surface.
	exportAll bool
	// ambient marks declaration files and `declare` blocks: namespace
	// members are visible without an export keyword.
	ambient bool
	// namespace is the qualified name of the enclosing namespace.
	namespace string
	// exported is set when the enclosing namespace chain is exported.
	exported bool
	// namespaces collects the namespace objects of the container.
	namespaces *env.Namespaces
}

// Walk translates sf. Each printed statement is followed by a newline.
func (w *Walker) Walk(sf *ast.SourceFile) string {
	if sf == nil {
		return ""
	}
	root := scope{ambient: sf.IsDeclarationFile, namespaces: w.env.Namespaces}
	lines := w.block(sf.Statements.Nodes, root)
	lines = append(lines, w.namespaceObjects(root.namespaces)...)

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	w.env.Logger.Debug("walked source file",
		zap.String(logging.FieldFile, w.env.FileName()),
		zap.Int(logging.FieldCount, len(lines)))
	return sb.String()
}

func (w *Walker) block(stmts []*ast.Node, sc scope) []string {
	var lines []string
	for _, stmt := range stmts {
		lines = append(lines, w.statement(stmt, sc)...)
	}
	return lines
}

// statement prints one statement. Namespace declarations expand to several
// top-level statements, hence the slice.
func (w *Walker) statement(node *ast.Node, sc scope) []string {
	switch node.Kind {
	case ast.KindImportDeclaration:
		return one(w.importDeclaration(node))
	case ast.KindImportEqualsDeclaration:
		return one(w.importEquals(node, sc))
	case ast.KindExportDeclaration:
		return w.exportDeclaration(node)
	case ast.KindExportAssignment:
		return one(w.exportAssignment(node))
	case ast.KindNamespaceExportDeclaration:
		// `export as namespace X` only matters to script consumers.
		return nil

	case ast.KindModuleDeclaration:
		return w.module(node, sc)

	case ast.KindInterfaceDeclaration:
		return one(w.doc(node) + w.p.Interface(node, w.prefix(node, sc, false)))
	case ast.KindTypeAliasDeclaration:
		return one(w.doc(node) + w.p.TypeAlias(node, w.prefix(node, sc, false)))
	case ast.KindClassDeclaration:
		w.addValue(node, sc, shortName(node))
		return one(w.doc(node) + w.p.Class(node, w.prefix(node, sc, true)))
	case ast.KindEnumDeclaration:
		w.addValue(node, sc, shortName(node))
		return one(w.doc(node) + w.p.Enum(node, w.prefix(node, sc, false)))
	case ast.KindFunctionDeclaration:
		if printer.IsOverloadImplementation(node) {
			return nil
		}
		w.addValue(node, sc, shortName(node))
		return one(w.doc(node) + w.p.Function(node, w.prefix(node, sc, true)))
	case ast.KindVariableStatement:
		for _, d := range node.AsVariableStatement().DeclarationList.AsVariableDeclarationList().Declarations.Nodes {
			if ast.IsIdentifier(d.Name()) {
				w.addValue(node, sc, d.Name().Text())
			}
		}
		return one(w.doc(node) + w.p.Variable(node, w.prefix(node, sc, false)))

	case ast.KindEmptyStatement:
		return nil

	default:
		kind := strings.TrimPrefix(node.Kind.String(), "Kind")
		w.env.Report(diagnostic.CategoryStatementUnsupported, node, "unsupported statement "+kind)
		return one("/* flowgen: unsupported " + kind + " */")
	}
}

func one(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

func (w *Walker) doc(node *ast.Node) string {
	return w.p.DocComment(node)
}

// prefix computes the `declare [export ][default ]` prefix. Only classes
// and functions may be default exports in Flow.
func (w *Walker) prefix(node *ast.Node, sc scope, allowDefault bool) string {
	exported := sc.exportAll || printer.HasModifier(node, ast.KindExportKeyword)
	if sc.namespace != "" {
		exported = sc.exported && (sc.ambient || printer.HasModifier(node, ast.KindExportKeyword))
	}
	isDefault := allowDefault && exported && printer.HasModifier(node, ast.KindDefaultKeyword)
	return printer.DeclarePrefix(exported, isDefault)
}

// addValue records a value declared directly in a namespace.
func (w *Walker) addValue(node *ast.Node, sc scope, short string) {
	if sc.namespace == "" || short == "" {
		return
	}
	if !sc.ambient && !printer.HasModifier(node, ast.KindExportKeyword) {
		return
	}
	sc.namespaces.AddValue(sc.namespace, short)
}

func shortName(node *ast.Node) string {
	if name := node.Name(); name != nil && ast.IsIdentifier(name) {
		return name.Text()
	}
	return ""
}

// namespaceObjects prints the value objects standing in for namespaces.
func (w *Walker) namespaceObjects(namespaces *env.Namespaces) []string {
	var out []string
	for _, ns := range namespaces.Objects() {
		var sb strings.Builder
		sb.WriteString(printer.DeclarePrefix(ns.Exported, false))
		sb.WriteString("var " + ns.Name + ": {|\n")
		for _, member := range ns.Values() {
			sb.WriteString("+" + member + ": typeof " + ns.Name + "$" + member + ",\n")
		}
		sb.WriteString("|};")
		out = append(out, sb.String())
	}
	return out
}

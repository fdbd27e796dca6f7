// Package printer renders TypeScript declarations and type expressions as
// Flow.
//
// A Printer is bound to one compilation environment. Every method is a pure
// function of the node it is given plus that environment: unsupported
// constructs degrade to `any` (or are dropped) and are reported through the
// environment, never returned as errors.
package printer

import (
	"fmt"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/microsoft/typescript-go/shim/scanner"

	"github.com/flowgen/flowgen/internal/diagnostic"
	"github.com/flowgen/flowgen/internal/env"
)

// Printer prints nodes of the environment's source file.
type Printer struct {
	env *env.Env

	// subst replaces type parameters while a default type argument from
	// another declaration is printed.
	subst map[*ast.Symbol]string
	// defaulting guards against defaults that refer back to their own
	// declaration.
	defaulting map[*ast.Symbol]bool
}

// New returns a printer bound to e.
func New(e *env.Env) *Printer {
	return &Printer{env: e}
}

// Env returns the printer's environment.
func (p *Printer) Env() *env.Env { return p.env }

// Text returns the source text of node without leading trivia. Nodes from
// other files (default type arguments, for instance) are read from their
// own file.
func (p *Printer) Text(node *ast.Node) string {
	if node == nil {
		return ""
	}
	sf := ast.GetSourceFileOfNode(node)
	if sf == nil {
		sf = p.env.SourceFile
	}
	return scanner.GetSourceTextOfNodeFromSourceFile(sf, node, false)
}

// nameText returns the source text of a declaration's name, or "" for
// anonymous declarations.
func nameText(node *ast.Node) string {
	name := node.Name()
	if name == nil {
		return ""
	}
	return scanner.GetSourceTextOfNodeFromSourceFile(ast.GetSourceFileOfNode(name), name, false)
}

// unsupported reports node and returns the `any` fallback.
func (p *Printer) unsupported(node *ast.Node, what string) string {
	p.env.Report(diagnostic.CategoryTypeUnsupported, node, fmt.Sprintf("%s printed as any", what))
	return "any"
}

// Comment renders text inside a block comment, neutralizing terminators.
func Comment(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.ReplaceAll(text, "*/", "*\\/")
	return "/* " + text + " */"
}

// hasModifier reports whether node carries the given modifier keyword.
func hasModifier(node *ast.Node, kind ast.Kind) bool {
	mods := node.Modifiers()
	if mods == nil {
		return false
	}
	for _, m := range mods.NodeList.Nodes {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

// HasModifier is hasModifier for callers outside the package.
func HasModifier(node *ast.Node, kind ast.Kind) bool {
	return hasModifier(node, kind)
}

func nodes(list *ast.NodeList) []*ast.Node {
	if list == nil {
		return nil
	}
	return list.Nodes
}

// DeclarePrefix returns the statement prefix for a declaration.
func DeclarePrefix(exported, isDefault bool) string {
	switch {
	case exported && isDefault:
		return "declare export default "
	case exported:
		return "declare export "
	default:
		return "declare "
	}
}

// DocComment returns the JSDoc blocks attached to node, each on its own
// line and followed by a newline, or "" when doc comments are disabled.
func (p *Printer) DocComment(node *ast.Node) string {
	if !p.env.Options.EmitDocComments || node == nil {
		return ""
	}
	docs := node.JSDoc(nil)
	if len(docs) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, doc := range docs {
		text := p.jsdocText(doc)
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (p *Printer) jsdocText(doc *ast.Node) string {
	sf := ast.GetSourceFileOfNode(doc)
	if sf == nil {
		sf = p.env.SourceFile
	}
	src := sf.Text()
	if doc.Pos() < 0 || doc.End() > len(src) || doc.Pos() >= doc.End() {
		return ""
	}
	raw := src[doc.Pos():doc.End()]
	start := strings.Index(raw, "/**")
	end := strings.LastIndex(raw, "*/")
	if start < 0 || end < start {
		return ""
	}
	raw = raw[start : end+2]

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if i > 0 && strings.HasPrefix(line, "*") {
			line = " " + line
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

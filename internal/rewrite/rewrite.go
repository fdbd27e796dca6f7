// Package rewrite normalizes TypeScript sources before they are printed.
//
// A Rewriter inspects a parsed file and returns text edits; the caller
// applies them and reparses, so every rewriter sees a tree that already
// reflects the rewriters before it.
package rewrite

import (
	"sort"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/microsoft/typescript-go/shim/scanner"
)

// Edit replaces the source range [Pos, End) with Text.
type Edit struct {
	Pos  int
	End  int
	Text string
}

// Rewriter computes edits for one source file. Rewriters must not retain
// the file.
type Rewriter interface {
	Name() string
	Rewrite(sf *ast.SourceFile) []Edit
}

// Default returns the rewriters every compilation runs, in order.
func Default() []Rewriter {
	return []Rewriter{LegacyModules{}, ImportEquals{}}
}

// Apply applies edits to text. Edits are applied back to front; an edit
// overlapping one already applied is skipped.
func Apply(text string, edits []Edit) string {
	if len(edits) == 0 {
		return text
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pos > sorted[j].Pos
	})

	limit := len(text)
	for _, e := range sorted {
		if e.Pos < 0 || e.End > limit || e.Pos > e.End {
			continue
		}
		text = text[:e.Pos] + e.Text + text[e.End:]
		limit = e.Pos
	}
	return text
}

// tokenStart returns the offset of the node's first token, skipping
// leading trivia.
func tokenStart(sf *ast.SourceFile, node *ast.Node) int {
	return scanner.GetTokenPosOfNode(node, sf, false)
}

func nodeText(sf *ast.SourceFile, node *ast.Node) string {
	return scanner.GetSourceTextOfNodeFromSourceFile(sf, node, false)
}

// forEachStatement visits the statements of sf and of every module body
// nested in it, in document order.
func forEachStatement(sf *ast.SourceFile, visit func(stmt *ast.Node)) {
	var walk func(stmts []*ast.Node)
	walk = func(stmts []*ast.Node) {
		for _, stmt := range stmts {
			visit(stmt)
			if stmt.Kind == ast.KindModuleDeclaration {
				if body := moduleBlock(stmt); body != nil {
					walk(body.AsModuleBlock().Statements.Nodes)
				}
			}
		}
	}
	walk(sf.Statements.Nodes)
}

// moduleBlock follows `namespace A.B.C {}` bodies down to the block.
func moduleBlock(decl *ast.Node) *ast.Node {
	for decl != nil && decl.Kind == ast.KindModuleDeclaration {
		decl = decl.AsModuleDeclaration().Body
	}
	if decl == nil || decl.Kind != ast.KindModuleBlock {
		return nil
	}
	return decl
}

// hasExportModifier reports whether node carries `export`.
func hasExportModifier(node *ast.Node) bool {
	mods := node.Modifiers()
	if mods == nil {
		return false
	}
	for _, m := range mods.NodeList.Nodes {
		if m.Kind == ast.KindExportKeyword {
			return true
		}
	}
	return false
}

func lastWordIndex(s, word string) int {
	i := strings.LastIndex(s, word)
	if i < 0 {
		return -1
	}
	if i > 0 && isIdentChar(s[i-1]) {
		return -1
	}
	if end := i + len(word); end < len(s) && isIdentChar(s[end]) {
		return -1
	}
	return i
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

package rewrite

import (
	"fmt"

	"github.com/microsoft/typescript-go/shim/ast"
)

// LegacyModules turns `module Foo {}` into `namespace Foo {}`. typescript-go
// no longer accepts the module keyword for identifier-named declarations.
// String-named ambient modules (`declare module "x"`) are left alone.
type LegacyModules struct{}

func (LegacyModules) Name() string { return "legacy-modules" }

func (LegacyModules) Rewrite(sf *ast.SourceFile) []Edit {
	var edits []Edit
	text := sf.Text()
	forEachStatement(sf, func(stmt *ast.Node) {
		if stmt.Kind != ast.KindModuleDeclaration {
			return
		}
		decl := stmt.AsModuleDeclaration()
		name := decl.Name()
		if decl.Keyword != ast.KindModuleKeyword || name == nil || name.Kind != ast.KindIdentifier {
			return
		}
		start := tokenStart(sf, stmt)
		if start >= name.Pos() {
			return
		}
		i := lastWordIndex(text[start:name.Pos()], "module")
		if i < 0 {
			return
		}
		pos := start + i
		edits = append(edits, Edit{Pos: pos, End: pos + len("module"), Text: "namespace"})
	})
	return edits
}

// ImportEquals turns `import x = require("m")` into `import * as x from "m";`.
// An exported alias keeps its export through a trailing `export { x };`.
// Entity-name aliases (`import x = A.B`) are left for the printer.
type ImportEquals struct{}

func (ImportEquals) Name() string { return "import-equals" }

func (ImportEquals) Rewrite(sf *ast.SourceFile) []Edit {
	var edits []Edit
	forEachStatement(sf, func(stmt *ast.Node) {
		if stmt.Kind != ast.KindImportEqualsDeclaration {
			return
		}
		decl := stmt.AsImportEqualsDeclaration()
		ref := decl.ModuleReference
		if ref == nil || ref.Kind != ast.KindExternalModuleReference {
			return
		}
		spec := ref.AsExternalModuleReference().Expression
		if spec == nil || !ast.IsStringLiteral(spec) {
			return
		}
		local := stmt.Name().Text()
		replacement := fmt.Sprintf("import * as %s from %s;", local, nodeText(sf, spec))
		if hasExportModifier(stmt) {
			replacement += fmt.Sprintf("\nexport { %s };", local)
		}
		edits = append(edits, Edit{Pos: tokenStart(sf, stmt), End: stmt.End(), Text: replacement})
	})
	return edits
}

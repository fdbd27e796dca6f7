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

const valueMerge = ast.SymbolFlagsFunction | ast.SymbolFlagsClass | ast.SymbolFlagsEnum | ast.SymbolFlagsVariable

func (w *Walker) module(node *ast.Node, sc scope) []string {
	md := node.AsModuleDeclaration()
	switch {
	case md.Keyword == ast.KindGlobalKeyword:
		// Global augmentations print at the top of their container.
		inner := scope{ambient: true, namespaces: sc.namespaces}
		return w.block(moduleStatements(node), inner)
	case printer.IsNamespace(node):
		return w.namespace(node, sc)
	default:
		return one(w.ambientModule(node))
	}
}

func moduleStatements(node *ast.Node) []*ast.Node {
	body := node.AsModuleDeclaration().Body
	if body == nil || body.Kind != ast.KindModuleBlock {
		return nil
	}
	return body.AsModuleBlock().Statements.Nodes
}

// namespace flattens a namespace: members print at the level of the
// namespace with `$`-joined names, and the value members are collected
// for the namespace object emitted at the end of the container.
func (w *Walker) namespace(node *ast.Node, sc scope) []string {
	name := printer.DeclarationName(node)
	ambient := sc.ambient || printer.HasModifier(node, ast.KindDeclareKeyword)

	var exported bool
	switch {
	case sc.namespace == "":
		exported = sc.exportAll || printer.HasModifier(node, ast.KindExportKeyword)
	case node.Parent != nil && node.Parent.Kind == ast.KindModuleDeclaration:
		// The inner part of `namespace A.B {}`.
		exported = sc.exported
	default:
		exported = sc.exported && (sc.ambient || printer.HasModifier(node, ast.KindExportKeyword))
	}

	merged := w.p.SymbolFlags(node.Name())&valueMerge != 0
	if merged {
		w.env.Logger.Debug("namespace merged with a value, object skipped",
			zap.String(logging.FieldFile, w.env.FileName()),
			zap.String(logging.FieldKind, name))
	}
	sc.namespaces.Declare(name, sc.namespace, node.Name().Text(), exported, merged)

	inner := scope{
		ambient:    ambient,
		namespace:  name,
		exported:   exported,
		namespaces: sc.namespaces,
	}
	if body := node.AsModuleDeclaration().Body; body != nil && body.Kind == ast.KindModuleDeclaration {
		return w.namespace(body, inner)
	}
	return w.block(moduleStatements(node), inner)
}

// ambientModule prints `declare module "m" {…}`. Every declaration in the
// body belongs to the module's surface.
func (w *Walker) ambientModule(node *ast.Node) string {
	inner := scope{exportAll: true, ambient: true, namespaces: env.NewNamespaces()}
	lines := w.block(moduleStatements(node), inner)
	lines = append(lines, w.namespaceObjects(inner.namespaces)...)

	head := "declare module " + w.p.Text(node.Name()) + " {"
	if len(lines) == 0 {
		return head + "}"
	}
	return head + "\n" + strings.Join(lines, "\n") + "\n}"
}

func (w *Walker) importDeclaration(node *ast.Node) string {
	id := node.AsImportDeclaration()
	from := w.p.Text(id.ModuleSpecifier)
	if id.ImportClause == nil {
		return "import " + from + ";"
	}

	clause := id.ImportClause.AsImportClause()
	keyword := "import "
	if clause.IsTypeOnly {
		keyword = "import type "
	}

	var parts []string
	if name := clause.Name(); name != nil {
		parts = append(parts, w.p.Text(name))
	}
	if nb := clause.NamedBindings; nb != nil {
		switch nb.Kind {
		case ast.KindNamespaceImport:
			// Flow has no type-only namespace import.
			keyword = "import "
			parts = append(parts, "* as "+w.p.Text(nb.Name()))
		case ast.KindNamedImports:
			var specs []string
			for _, el := range nb.AsNamedImports().Elements.Nodes {
				is := el.AsImportSpecifier()
				spec := ""
				if !clause.IsTypeOnly && (is.IsTypeOnly || w.p.IsTypeOnly(is.Name())) {
					spec = "type "
				}
				if is.PropertyName != nil {
					spec += w.p.Text(is.PropertyName) + " as "
				}
				specs = append(specs, spec+w.p.Text(is.Name()))
			}
			parts = append(parts, "{"+strings.Join(specs, ", ")+"}")
		}
	}
	if len(parts) == 0 {
		return "import " + from + ";"
	}
	return keyword + strings.Join(parts, ", ") + " from " + from + ";"
}

// importEquals prints `import x = require("m")` that survived the
// rewriters and entity aliases such as `import T = A.B`.
func (w *Walker) importEquals(node *ast.Node, sc scope) string {
	ref := node.AsImportEqualsDeclaration().ModuleReference
	if ref.Kind == ast.KindExternalModuleReference {
		from := w.p.Text(ref.AsExternalModuleReference().Expression)
		return "import * as " + w.p.Text(node.Name()) + " from " + from + ";"
	}

	name := printer.DeclarationName(node)
	target := w.p.EntityName(ref)
	prefix := w.prefix(node, sc, false)
	if w.p.IsTypeOnly(node.Name()) {
		return prefix + "type " + name + " = " + target + ";"
	}
	w.addValue(node, sc, shortName(node))
	return prefix + "var " + name + ": typeof " + target + ";"
}

func (w *Walker) exportDeclaration(node *ast.Node) []string {
	ed := node.AsExportDeclaration()
	from := ""
	if ed.ModuleSpecifier != nil {
		from = " from " + w.p.Text(ed.ModuleSpecifier)
	}

	if ed.ExportClause == nil {
		return one("declare export *" + from + ";")
	}
	if ed.ExportClause.Kind == ast.KindNamespaceExport {
		return one("export * as " + w.p.Text(ed.ExportClause.AsNamespaceExport().Name()) + from + ";")
	}

	var values, types []string
	for _, el := range ed.ExportClause.AsNamedExports().Elements.Nodes {
		es := el.AsExportSpecifier()
		spec := ""
		if es.PropertyName != nil {
			spec = w.p.Text(es.PropertyName) + " as "
		}
		spec += w.p.Text(es.Name())
		if ed.IsTypeOnly || es.IsTypeOnly || w.p.IsTypeOnly(es.Name()) {
			types = append(types, spec)
			continue
		}
		values = append(values, spec)
	}

	var out []string
	if len(values) > 0 || len(types) == 0 {
		out = append(out, "export {"+strings.Join(values, ", ")+"}"+from+";")
	}
	if len(types) > 0 {
		out = append(out, "export type {"+strings.Join(types, ", ")+"}"+from+";")
	}
	return out
}

// exportAssignment prints `export = X` as a CommonJS export when the
// default export wrapper is enabled, and `export default X` as a default
// export.
func (w *Walker) exportAssignment(node *ast.Node) string {
	ea := node.AsExportAssignment()
	expr := ea.Expression

	var target string
	switch expr.Kind {
	case ast.KindIdentifier, ast.KindPropertyAccessExpression:
		target = w.p.EntityName(expr)
		if !w.p.IsTypeOnly(expr) {
			target = "typeof " + target
		}
	default:
		w.env.Report(diagnostic.CategoryTypeUnsupported, expr, "exported expression printed as any")
		target = "any " + printer.Comment(w.p.Text(expr))
	}

	if ea.IsExportEquals && w.env.Options.EmitDefaultExportWrapper {
		return "declare module.exports: " + target + ";"
	}
	return "declare export default " + target + ";"
}

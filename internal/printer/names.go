package printer

import (
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"

	"github.com/flowgen/flowgen/internal/identifiers"
)

func (p *Printer) symbolAt(node *ast.Node) *ast.Symbol {
	if p.env.Checker == nil || node == nil {
		return nil
	}
	return p.env.Checker.GetSymbolAtLocation(node)
}

// resolveAlias follows import aliases to the symbol they name. Unresolvable
// aliases are returned unchanged.
func (p *Printer) resolveAlias(sym *ast.Symbol) *ast.Symbol {
	if sym == nil || sym.Flags&ast.SymbolFlagsAlias == 0 || p.env.Checker == nil {
		return sym
	}
	target := p.env.Checker.GetAliasedSymbol(sym)
	if target == nil || len(target.Declarations) == 0 {
		return sym
	}
	return target
}

// project builds the resolver's view of sym.
func (p *Printer) project(sym *ast.Symbol) *identifiers.Symbol {
	if sym == nil || len(sym.Declarations) == 0 {
		return nil
	}
	if sym.Flags&ast.SymbolFlagsAlias != 0 {
		return &identifiers.Symbol{Name: sym.Name}
	}

	out := &identifiers.Symbol{Name: sym.Name, Ambient: true}
	for _, decl := range sym.Declarations {
		sf := ast.GetSourceFileOfNode(decl)
		if sf == p.env.SourceFile {
			out.Local = true
			out.Ambient = false
			out.Path = namespacePath(decl)
			break
		}
		if sf == nil || !sf.IsDeclarationFile || len(namespacePath(decl)) > 0 || inAmbientModule(decl) {
			out.Ambient = false
		}
	}
	return out
}

// namespacePath returns the names of the namespaces that directly contain
// decl, outermost first. Declarations nested in anything other than a
// namespace body (type parameters, members, parameters) have no path.
func namespacePath(decl *ast.Node) []string {
	n := decl
	if n.Kind == ast.KindVariableDeclaration && n.Parent != nil && n.Parent.Parent != nil {
		n = n.Parent.Parent
	}
	parent := n.Parent
	if parent == nil || (parent.Kind != ast.KindModuleBlock && parent.Kind != ast.KindModuleDeclaration) {
		return nil
	}

	var path []string
	for ; parent != nil; parent = parent.Parent {
		switch parent.Kind {
		case ast.KindModuleBlock:
		case ast.KindModuleDeclaration:
			if !isNamespace(parent) {
				return path
			}
			path = append([]string{parent.Name().Text()}, path...)
		default:
			return path
		}
	}
	return path
}

// isNamespace reports whether node is a namespace with an identifier name,
// as opposed to an ambient module or a global augmentation.
func isNamespace(node *ast.Node) bool {
	if node == nil || node.Kind != ast.KindModuleDeclaration {
		return false
	}
	md := node.AsModuleDeclaration()
	if md.Keyword == ast.KindGlobalKeyword {
		return false
	}
	name := node.Name()
	return name != nil && name.Kind == ast.KindIdentifier
}

// IsNamespace is isNamespace for callers outside the package.
func IsNamespace(node *ast.Node) bool { return isNamespace(node) }

func inAmbientModule(decl *ast.Node) bool {
	for parent := decl.Parent; parent != nil; parent = parent.Parent {
		if parent.Kind == ast.KindModuleDeclaration && !isNamespace(parent) {
			return parent.AsModuleDeclaration().Keyword != ast.KindGlobalKeyword
		}
	}
	return false
}

// DeclarationName returns the printed name of a namespace member: the
// enclosing namespace path joined with `$`.
func DeclarationName(node *ast.Node) string {
	name := node.Name()
	if name == nil {
		return ""
	}
	path := namespacePath(node)
	if len(path) == 0 {
		return name.Text()
	}
	return strings.Join(path, identifiers.NamespaceSeparator) + identifiers.NamespaceSeparator + name.Text()
}

// resolve resolves an identifier in reference position.
func (p *Printer) resolve(name *ast.Node) identifiers.Resolution {
	sym := p.symbolAt(name)
	return p.env.Resolver.Resolve(p.project(sym), p.Text(name))
}

// EntityName prints an identifier, qualified name or property access
// chain. Names declared inside namespaces of the printed file collapse into
// their `$`-joined form.
func (p *Printer) EntityName(node *ast.Node) string {
	switch node.Kind {
	case ast.KindIdentifier:
		return p.resolve(node).Name
	case ast.KindQualifiedName:
		qn := node.AsQualifiedName()
		if local := p.localName(qn.Right); local != "" {
			return local
		}
		return p.EntityName(qn.Left) + "." + p.Text(qn.Right)
	case ast.KindPropertyAccessExpression:
		pa := node.AsPropertyAccessExpression()
		if local := p.localName(pa.Name()); local != "" {
			return local
		}
		return p.EntityName(pa.Expression) + "." + p.Text(pa.Name())
	default:
		return p.Text(node)
	}
}

// localName returns the collapsed name of a namespace member declared in
// the printed file, or "".
func (p *Printer) localName(right *ast.Node) string {
	proj := p.project(p.symbolAt(right))
	if proj == nil || !proj.Local || len(proj.Path) == 0 {
		return ""
	}
	return proj.QualifiedName()
}

// Reference prints a reference to a named type with its type arguments.
// Enums become the union of their values, omitted trailing type arguments
// are filled in from the referenced declaration's defaults, and the name
// goes through the identifier table.
func (p *Printer) Reference(name *ast.Node, typeArgs *ast.NodeList) string {
	sym := p.symbolAt(name)
	if sub, ok := p.subst[sym]; ok && sym != nil {
		return sub
	}
	target := p.resolveAlias(sym)

	if target != nil && typeArgs == nil {
		switch {
		case target.Flags&ast.SymbolFlagsEnumMember != 0:
			return "typeof " + p.EntityName(name)
		case target.Flags&ast.SymbolFlagsEnum != 0:
			return "$Values<typeof " + p.EntityName(name) + ">"
		}
	}

	args := p.TypeArguments(typeArgs)
	args = p.withDefaults(target, args)

	if name.Kind == ast.KindIdentifier {
		return p.resolve(name).Print(args)
	}
	return p.EntityName(name) + identifiers.FormatTypeArgs(args)
}

// TypeArguments prints each type argument.
func (p *Printer) TypeArguments(list *ast.NodeList) []string {
	var args []string
	for _, arg := range nodes(list) {
		args = append(args, p.Type(arg))
	}
	return args
}

// withDefaults appends the defaults of type parameters the reference left
// out. A default naming an earlier parameter takes the argument given for
// it, and a parameter without a default becomes `any`.
func (p *Printer) withDefaults(sym *ast.Symbol, args []string) []string {
	if sym == nil {
		return args
	}
	params := declaredTypeParameters(sym)
	if len(params) <= len(args) {
		return args
	}
	if len(args) == 0 && !anyDefault(params) {
		// A bare reference to a generic without defaults is left alone.
		return args
	}
	if p.defaulting[sym] {
		for len(args) < len(params) {
			args = append(args, "any")
		}
		return args
	}

	if p.defaulting == nil {
		p.defaulting = make(map[*ast.Symbol]bool)
	}
	p.defaulting[sym] = true
	defer delete(p.defaulting, sym)

	saved := p.subst
	p.subst = make(map[*ast.Symbol]string, len(params))
	for k, v := range saved {
		p.subst[k] = v
	}
	defer func() { p.subst = saved }()

	for i, param := range params {
		psym := p.symbolAt(param.Name())
		if i < len(args) {
			if psym != nil {
				p.subst[psym] = args[i]
			}
			continue
		}
		printed := "any"
		if def := param.AsTypeParameter().DefaultType; def != nil {
			printed = p.Type(def)
		}
		if psym != nil {
			p.subst[psym] = printed
		}
		args = append(args, printed)
	}
	return args
}

func declaredTypeParameters(sym *ast.Symbol) []*ast.Node {
	for _, decl := range sym.Declarations {
		switch decl.Kind {
		case ast.KindInterfaceDeclaration, ast.KindClassDeclaration, ast.KindTypeAliasDeclaration:
			if list := decl.TypeParameterList(); list != nil && len(list.Nodes) > 0 {
				return list.Nodes
			}
		}
	}
	return nil
}

func anyDefault(params []*ast.Node) bool {
	for _, param := range params {
		if param.AsTypeParameter().DefaultType != nil {
			return true
		}
	}
	return false
}

// IsTypeOnly reports whether name is bound, directly or through an import
// alias, to a declaration with no value meaning. Unresolved names are
// assumed to be values.
func (p *Printer) IsTypeOnly(name *ast.Node) bool {
	sym := p.symbolAt(name)
	target := p.resolveAlias(sym)
	if target == nil || target.Flags&ast.SymbolFlagsAlias != 0 {
		return false
	}
	return target.Flags&ast.SymbolFlagsValue == 0 && target.Flags&ast.SymbolFlagsType != 0
}

// SymbolFlags returns the flags of the symbol name is bound to, or 0.
func (p *Printer) SymbolFlags(name *ast.Node) ast.SymbolFlags {
	if sym := p.resolveAlias(p.symbolAt(name)); sym != nil {
		return sym.Flags
	}
	return 0
}

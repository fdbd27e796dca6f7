package printer

import (
	"strconv"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"

	"github.com/flowgen/flowgen/internal/diagnostic"
)

// Heritage prints every supertype listed in the heritage clauses of a
// class or interface, in source order.
func (p *Printer) Heritage(node *ast.Node) []string {
	var clauses *ast.NodeList
	switch node.Kind {
	case ast.KindInterfaceDeclaration:
		clauses = node.AsInterfaceDeclaration().HeritageClauses
	case ast.KindClassDeclaration:
		clauses = node.AsClassDeclaration().HeritageClauses
	}
	var out []string
	for _, clause := range nodes(clauses) {
		for _, t := range nodes(clause.AsHeritageClause().Types) {
			out = append(out, p.Type(t))
		}
	}
	return out
}

// Interface prints an interface declaration. In record mode it becomes a
// type alias spreading each supertype ahead of its own members; otherwise
// an interface with supertypes becomes an intersection with their exact
// shapes.
func (p *Printer) Interface(node *ast.Node, prefix string) string {
	decl := node.AsInterfaceDeclaration()
	head := DeclarationName(node) + p.TypeParameters(decl.TypeParameters)
	members := nodes(decl.Members)
	supers := p.Heritage(node)

	if p.env.Options.RecordModeInterfaces {
		spreads := make([]string, 0, len(supers))
		for _, s := range supers {
			spreads = append(spreads, "...$Exact<"+s+">")
		}
		return prefix + "type " + head + " = " + p.ObjectBody(members, spreads, ",") + ";"
	}

	if len(supers) == 0 {
		return prefix + "interface " + head + " " + p.ObjectBody(members, nil, ",")
	}
	var sb strings.Builder
	sb.WriteString(prefix + "type " + head + " = " + p.ObjectBody(members, nil, ","))
	for _, s := range supers {
		sb.WriteString(" & $Exact<" + s + ">")
	}
	sb.WriteString(";")
	return sb.String()
}

// Class prints a class declaration. Every supertype, extended or
// implemented, is listed in a single mixins clause.
func (p *Printer) Class(node *ast.Node, prefix string) string {
	decl := node.AsClassDeclaration()
	head := DeclarationName(node) + p.TypeParameters(decl.TypeParameters)
	if supers := p.Heritage(node); len(supers) > 0 {
		head += " mixins " + strings.Join(supers, ", ")
	}

	members := nodes(decl.Members)
	var props []string
	for _, m := range members {
		if m.Kind == ast.KindConstructor && m.Body() != nil {
			props = append(props, p.ParameterProperties(m)...)
		}
	}
	return prefix + "class " + head + " " + p.ObjectBody(members, props, ";")
}

// TypeAlias prints `type Name<G> = T;`.
func (p *Printer) TypeAlias(node *ast.Node, prefix string) string {
	decl := node.AsTypeAliasDeclaration()
	return prefix + "type " + DeclarationName(node) + p.TypeParameters(decl.TypeParameters) + " = " + p.Type(decl.Type) + ";"
}

// Enum prints an enum as an exact, read-only object of its member values.
// Members without an initializer take their index as value.
func (p *Printer) Enum(node *ast.Node, prefix string) string {
	var sb strings.Builder
	sb.WriteString(prefix + "var " + DeclarationName(node) + ": {|\n")
	for i, member := range nodes(node.AsEnumDeclaration().Members) {
		em := member.AsEnumMember()
		name := p.Text(em.Name())

		value := strconv.Itoa(i)
		note := value
		if init := em.Initializer; init != nil {
			value, note = p.enumValue(init)
		}
		sb.WriteString(p.DocComment(member))
		sb.WriteString("+" + name + ": " + value + ", // " + note + "\n")
	}
	sb.WriteString("|};")
	return sb.String()
}

func (p *Printer) enumValue(init *ast.Node) (value, note string) {
	text := p.Text(init)
	switch init.Kind {
	case ast.KindStringLiteral, ast.KindNumericLiteral, ast.KindNoSubstitutionTemplateLiteral:
		return text, text
	case ast.KindPrefixUnaryExpression:
		if init.AsPrefixUnaryExpression().Operand.Kind == ast.KindNumericLiteral {
			return text, text
		}
	}
	p.env.Report(diagnostic.CategoryTypeUnsupported, init, "computed enum initializer printed as number")
	return "number", strings.Join(strings.Fields(text), " ")
}

// Variable prints one `var` declaration per declarator.
func (p *Printer) Variable(node *ast.Node, prefix string) string {
	list := node.AsVariableStatement().DeclarationList.AsVariableDeclarationList()
	out := make([]string, 0, len(nodes(list.Declarations)))
	for _, d := range nodes(list.Declarations) {
		if !ast.IsIdentifier(d.Name()) {
			p.env.Report(diagnostic.CategoryStatementUnsupported, d, "destructuring declaration dropped")
			continue
		}
		vd := d.AsVariableDeclaration()
		typ := "any"
		switch {
		case vd.Type != nil:
			typ = p.Type(vd.Type)
		case vd.Initializer != nil:
			typ = "any " + Comment(p.Text(vd.Initializer))
		}
		out = append(out, prefix+"var "+DeclarationName(d)+": "+typ+";")
	}
	return strings.Join(out, "\n")
}

// Function prints a function signature. Anonymous default exports print
// as a function type.
func (p *Printer) Function(node *ast.Node, prefix string) string {
	sig := p.TypeParameters(node.TypeParameterList()) + p.Parameters(node.ParameterList())
	ret := p.ReturnType(node.Type())
	if node.Name() == nil {
		return prefix + sig + " => " + ret + ";"
	}
	return prefix + "function " + DeclarationName(node) + sig + ": " + ret + ";"
}

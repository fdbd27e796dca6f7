package printer

import (
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"

	"github.com/flowgen/flowgen/internal/diagnostic"
)

// ObjectBody prints members between braces, one per line. Lines in head
// are emitted first, verbatim. Members that print as "" are dropped.
func (p *Printer) ObjectBody(members []*ast.Node, head []string, sep string) string {
	lines := append([]string(nil), head...)
	for _, m := range members {
		printed := p.Member(m)
		if printed == "" {
			continue
		}
		lines = append(lines, p.DocComment(m)+printed)
	}
	if len(lines) == 0 {
		return "{}"
	}
	return "{\n" + strings.Join(lines, sep+"\n") + "\n}"
}

// Member prints a single class or object member. Private members, and
// members Flow cannot express, print as "".
func (p *Printer) Member(node *ast.Node) string {
	if isPrivate(node) {
		return ""
	}

	switch node.Kind {
	case ast.KindPropertySignature:
		ps := node.AsPropertySignatureDeclaration()
		return p.property(node, ps.PostfixToken, ps.Type, nil)
	case ast.KindPropertyDeclaration:
		pd := node.AsPropertyDeclaration()
		return p.property(node, pd.PostfixToken, pd.Type, pd.Initializer)

	case ast.KindMethodSignature:
		ms := node.AsMethodSignatureDeclaration()
		return p.method(node, ms.PostfixToken)
	case ast.KindMethodDeclaration:
		if IsOverloadImplementation(node) {
			return ""
		}
		return p.method(node, node.AsMethodDeclaration().PostfixToken)

	case ast.KindConstructor:
		if IsOverloadImplementation(node) {
			return ""
		}
		return "constructor" + p.Parameters(node.ParameterList()) + ": void"

	case ast.KindGetAccessor:
		ga := node.AsGetAccessorDeclaration()
		name, _ := p.MemberName(node.Name())
		return p.modifiers(node) + "get " + name + "(): " + p.ReturnType(ga.Type)
	case ast.KindSetAccessor:
		name, _ := p.MemberName(node.Name())
		return p.modifiers(node) + "set " + name + p.Parameters(node.ParameterList()) + ": void"

	case ast.KindIndexSignature:
		is := node.AsIndexSignatureDeclaration()
		return p.modifiers(node) + "[" + strings.TrimSuffix(strings.TrimPrefix(p.Parameters(is.Parameters), "("), ")") + "]: " + p.Type(is.Type)

	case ast.KindCallSignature:
		cs := node.AsCallSignatureDeclaration()
		return p.TypeParameters(cs.TypeParameters) + p.Parameters(cs.Parameters) + ": " + p.ReturnType(cs.Type)

	case ast.KindConstructSignature:
		p.env.Report(diagnostic.CategoryMemberDropped, node, "construct signature dropped")
		return ""

	case ast.KindClassStaticBlockDeclaration, ast.KindSemicolonClassElement:
		return ""

	default:
		p.env.Report(diagnostic.CategoryMemberDropped, node, "member kind "+node.Kind.String()+" dropped")
		return ""
	}
}

// ParameterProperties prints the members introduced by constructor
// parameters carrying an accessibility or readonly modifier.
func (p *Printer) ParameterProperties(ctor *ast.Node) []string {
	var out []string
	for _, param := range nodes(ctor.ParameterList()) {
		if !isParameterProperty(param) || isPrivate(param) {
			continue
		}
		pd := param.AsParameterDeclaration()
		if !ast.IsIdentifier(pd.Name()) {
			continue
		}
		name := pd.Name().Text()
		if pd.QuestionToken != nil {
			name += "?"
		}
		out = append(out, p.modifiers(param)+name+": "+p.Type(pd.Type))
	}
	return out
}

func isParameterProperty(param *ast.Node) bool {
	return hasModifier(param, ast.KindPublicKeyword) ||
		hasModifier(param, ast.KindProtectedKeyword) ||
		hasModifier(param, ast.KindPrivateKeyword) ||
		hasModifier(param, ast.KindReadonlyKeyword)
}

func isPrivate(node *ast.Node) bool {
	if hasModifier(node, ast.KindPrivateKeyword) {
		return true
	}
	name := node.Name()
	return name != nil && ast.IsPrivateIdentifier(name)
}

// modifiers prints the `static` and variance prefix of a member.
func (p *Printer) modifiers(node *ast.Node) string {
	out := ""
	if hasModifier(node, ast.KindStaticKeyword) {
		out += "static "
	}
	if hasModifier(node, ast.KindReadonlyKeyword) {
		out += "+"
	}
	return out
}

func (p *Printer) property(node, postfix, typ, initializer *ast.Node) string {
	name, computed := p.MemberName(node.Name())
	optional := postfix != nil && postfix.Kind == ast.KindQuestionToken

	left := p.modifiers(node) + name
	if optional && !computed {
		left += "?"
	}

	var right string
	switch {
	case typ != nil:
		right = p.Type(typ)
		if optional && computed {
			right += " | void"
		}
	case initializer != nil:
		right = "any " + Comment(p.Text(initializer))
	default:
		right = "any"
	}
	return left + ": " + right
}

func (p *Printer) method(node, postfix *ast.Node) string {
	name, computed := p.MemberName(node.Name())
	generics := p.TypeParameters(node.TypeParameterList())
	params := p.Parameters(node.ParameterList())
	ret := p.ReturnType(node.Type())

	if postfix != nil && postfix.Kind == ast.KindQuestionToken {
		fn := "(" + generics + params + " => " + ret + ")"
		if computed {
			return p.modifiers(node) + name + ": " + fn + " | void"
		}
		return p.modifiers(node) + name + "?: " + fn
	}
	return p.modifiers(node) + name + generics + params + ": " + ret
}

// MemberName prints a property name and reports whether it is a computed
// key. Well-known symbol keys use Flow's `@@` names.
func (p *Printer) MemberName(name *ast.Node) (string, bool) {
	if name == nil {
		return "", false
	}
	if name.Kind != ast.KindComputedPropertyName {
		return p.Text(name), false
	}

	expr := name.AsComputedPropertyName().Expression
	if expr.Kind == ast.KindPropertyAccessExpression {
		pa := expr.AsPropertyAccessExpression()
		if ast.IsIdentifier(pa.Expression) && pa.Expression.Text() == "Symbol" {
			switch pa.Name().Text() {
			case "iterator":
				return "@@iterator", false
			case "asyncIterator":
				return "@@asyncIterator", false
			}
		}
	}
	return "[" + p.EntityName(expr) + "]", true
}

// IsOverloadImplementation reports whether node is the body-bearing
// implementation of a function, method or constructor that also has
// overload signatures. Only the signatures are part of the declared
// surface.
func IsOverloadImplementation(node *ast.Node) bool {
	if node.Body() == nil || node.Parent == nil {
		return false
	}
	var siblings []*ast.Node
	switch parent := node.Parent; parent.Kind {
	case ast.KindSourceFile:
		siblings = parent.AsSourceFile().Statements.Nodes
	case ast.KindModuleBlock:
		siblings = parent.AsModuleBlock().Statements.Nodes
	default:
		siblings = nodes(parent.MemberList())
	}

	name := nameText(node)
	for _, sib := range siblings {
		if sib == node {
			break
		}
		if sib.Kind != node.Kind || sib.Body() != nil {
			continue
		}
		if nameText(sib) == name {
			return true
		}
	}
	return false
}

package printer

import (
	"strconv"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"

	"github.com/flowgen/flowgen/internal/identifiers"
)

// Type prints a type expression.
func (p *Printer) Type(node *ast.Node) string {
	if node == nil {
		return "any"
	}

	switch node.Kind {
	case ast.KindAnyKeyword:
		return "any"
	case ast.KindUnknownKeyword:
		return "mixed"
	case ast.KindNeverKeyword:
		return "empty"
	case ast.KindVoidKeyword, ast.KindUndefinedKeyword:
		return "void"
	case ast.KindNullKeyword:
		return "null"
	case ast.KindNumberKeyword:
		return "number"
	case ast.KindBigIntKeyword:
		return "bigint"
	case ast.KindStringKeyword:
		return "string"
	case ast.KindBooleanKeyword:
		return "boolean"
	case ast.KindSymbolKeyword:
		return "Symbol"
	case ast.KindObjectKeyword:
		return "{...}"
	case ast.KindThisType:
		return "this"
	case ast.KindIntrinsicKeyword:
		return "string"

	case ast.KindLiteralType:
		lit := node.AsLiteralTypeNode().Literal
		if lit.Kind == ast.KindNullKeyword {
			return "null"
		}
		return p.Text(lit)

	case ast.KindUnionType:
		return p.joinTypes(node.AsUnionTypeNode().Types, " | ")
	case ast.KindIntersectionType:
		return p.joinTypes(node.AsIntersectionTypeNode().Types, " & ")

	case ast.KindArrayType:
		elem := node.AsArrayTypeNode().ElementType
		return p.operand(elem) + "[]"

	case ast.KindTypeOperator:
		return p.typeOperator(node)

	case ast.KindTupleType:
		return p.tuple(node)

	case ast.KindIndexedAccessType:
		ia := node.AsIndexedAccessTypeNode()
		index := ia.IndexType
		if index.Kind == ast.KindLiteralType && ast.IsStringLiteral(index.AsLiteralTypeNode().Literal) {
			return "$PropertyType<" + p.Type(ia.ObjectType) + ", " + p.Type(index) + ">"
		}
		return "$ElementType<" + p.Type(ia.ObjectType) + ", " + p.Type(index) + ">"

	case ast.KindTypeQuery:
		tq := node.AsTypeQueryNode()
		return "typeof " + p.EntityName(tq.ExprName) + identifiers.FormatTypeArgs(p.TypeArguments(tq.TypeArguments))

	case ast.KindFunctionType:
		fn := node.AsFunctionTypeNode()
		return p.TypeParameters(fn.TypeParameters) + p.Parameters(fn.Parameters) + " => " + p.ReturnType(fn.Type)

	case ast.KindConstructorType:
		return "Class<" + p.Type(node.AsConstructorTypeNode().Type) + ">"

	case ast.KindTypePredicate:
		tp := node.AsTypePredicateNode()
		if tp.AssertsModifier != nil && tp.Type == nil {
			return "void"
		}
		return "boolean"

	case ast.KindTypeLiteral:
		return p.ObjectBody(nodes(node.AsTypeLiteralNode().Members), nil, ",")

	case ast.KindMappedType:
		return p.mapped(node)

	case ast.KindConditionalType:
		return p.unsupported(node, "conditional type")
	case ast.KindInferType:
		return p.unsupported(node, "infer type")

	case ast.KindTemplateLiteralType:
		return "string"

	case ast.KindImportType:
		return p.importType(node)

	case ast.KindParenthesizedType:
		return "(" + p.Type(node.AsParenthesizedTypeNode().Type) + ")"

	case ast.KindTypeReference:
		ref := node.AsTypeReference()
		return p.Reference(ref.TypeName, ref.TypeArguments)

	case ast.KindExpressionWithTypeArguments:
		ewta := node.AsExpressionWithTypeArguments()
		return p.Reference(ewta.Expression, ewta.TypeArguments)

	case ast.KindOptionalType:
		return p.Type(node.AsOptionalTypeNode().Type) + " | void"
	case ast.KindRestType:
		return "..." + p.Type(node.AsRestTypeNode().Type)

	default:
		p.unsupported(node, "type kind "+node.Kind.String())
		return "any " + Comment(p.Text(node))
	}
}

// ReturnType prints a return type annotation, `any` when absent.
func (p *Printer) ReturnType(node *ast.Node) string {
	if node == nil {
		return "any"
	}
	return p.Type(node)
}

// operand prints node parenthesized when it would otherwise bind looser
// than a postfix or infix type operator.
func (p *Printer) operand(node *ast.Node) string {
	printed := p.Type(node)
	switch node.Kind {
	case ast.KindUnionType, ast.KindIntersectionType, ast.KindFunctionType:
		return "(" + printed + ")"
	case ast.KindTypeReference:
		// Table rewrites and enums may expand to a union.
		if hasTopLevel(printed, '|') || hasTopLevel(printed, '&') {
			return "(" + printed + ")"
		}
	}
	return printed
}

func (p *Printer) joinTypes(list *ast.NodeList, sep string) string {
	parts := make([]string, 0, len(nodes(list)))
	for _, t := range nodes(list) {
		if t.Kind == ast.KindFunctionType {
			parts = append(parts, "("+p.Type(t)+")")
			continue
		}
		parts = append(parts, p.Type(t))
	}
	return strings.Join(parts, sep)
}

func (p *Printer) typeOperator(node *ast.Node) string {
	op := node.AsTypeOperatorNode()
	switch op.Operator {
	case ast.KindKeyOfKeyword:
		return "$Keys<" + p.Type(op.Type) + ">"
	case ast.KindUniqueKeyword:
		return "Symbol"
	case ast.KindReadonlyKeyword:
		switch op.Type.Kind {
		case ast.KindArrayType:
			return "$ReadOnlyArray<" + p.Type(op.Type.AsArrayTypeNode().ElementType) + ">"
		case ast.KindTupleType:
			return "$ReadOnly<" + p.Type(op.Type) + ">"
		}
		return p.Type(op.Type)
	default:
		return p.unsupported(node, "type operator")
	}
}

func (p *Printer) tuple(node *ast.Node) string {
	elems := nodes(node.AsTupleTypeNode().Elements)
	parts := make([]string, 0, len(elems))
	for _, elem := range elems {
		if elem.Kind != ast.KindNamedTupleMember {
			parts = append(parts, p.Type(elem))
			continue
		}
		m := elem.AsNamedTupleMember()
		printed := p.Text(m.Name()) + ": " + p.Type(m.Type)
		if m.DotDotDotToken != nil {
			printed = "..." + printed
		}
		if m.QuestionToken != nil {
			printed += " | void"
		}
		parts = append(parts, printed)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// mapped prints `{[K in keyof T]: V}` as an $ObjMapi over T and any other
// mapped type as an indexer over its constraint.
func (p *Printer) mapped(node *ast.Node) string {
	mt := node.AsMappedTypeNode()
	if mt.NameType != nil {
		return p.unsupported(node, "mapped type with key remapping")
	}
	tp := mt.TypeParameter.AsTypeParameter()
	key := p.Text(tp.Name())
	value := p.Type(mt.Type)
	if mt.QuestionToken != nil && mt.QuestionToken.Kind != ast.KindMinusToken {
		value += " | void"
	}

	if c := tp.Constraint; c != nil && c.Kind == ast.KindTypeOperator && c.AsTypeOperatorNode().Operator == ast.KindKeyOfKeyword {
		return "$ObjMapi<" + p.Type(c.AsTypeOperatorNode().Type) + ", <" + key + ">(" + key + ") => " + value + ">"
	}

	variance := ""
	if mt.ReadonlyToken != nil && mt.ReadonlyToken.Kind != ast.KindMinusToken {
		variance = "+"
	}
	return "{" + variance + "[" + key + ": " + p.Type(tp.Constraint) + "]: " + value + ", ...}"
}

func (p *Printer) importType(node *ast.Node) string {
	it := node.AsImportTypeNode()
	arg := it.Argument
	if arg.Kind == ast.KindLiteralType {
		arg = arg.AsLiteralTypeNode().Literal
	}
	out := "$Exports<" + p.Text(arg) + ">"
	if it.Qualifier != nil {
		out += "." + p.Text(it.Qualifier)
	}
	return out + identifiers.FormatTypeArgs(p.TypeArguments(it.TypeArguments))
}

// TypeParameters prints a generic parameter list, or "" when empty.
func (p *Printer) TypeParameters(list *ast.NodeList) string {
	params := nodes(list)
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, param := range params {
		tp := param.AsTypeParameter()
		printed := p.Text(tp.Name())
		if tp.Constraint != nil {
			printed += ": " + p.Type(tp.Constraint)
		}
		if tp.DefaultType != nil {
			printed += " = " + p.Type(tp.DefaultType)
		}
		parts = append(parts, printed)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// Parameters prints a parenthesized parameter list.
func (p *Printer) Parameters(list *ast.NodeList) string {
	params := nodes(list)
	parts := make([]string, 0, len(params))
	for i, param := range params {
		parts = append(parts, p.parameter(param, i))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (p *Printer) parameter(node *ast.Node, index int) string {
	param := node.AsParameterDeclaration()
	name := p.Text(param.Name())
	if param.Name() == nil || !ast.IsIdentifier(param.Name()) {
		name = "arg" + strconv.Itoa(index)
	}

	if param.DotDotDotToken != nil {
		typ := "any[]"
		if param.Type != nil {
			typ = p.Type(param.Type)
		}
		return "..." + name + ": " + typ
	}

	typ := p.Type(param.Type)
	switch {
	case param.QuestionToken != nil:
		return name + "?: " + typ
	case param.Initializer != nil:
		return name + ": " + typ + " | void"
	default:
		return name + ": " + typ
	}
}

// hasTopLevel reports whether op occurs in s outside any bracket pair.
func hasTopLevel(s string, op byte) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[', '{':
			depth++
		case '>':
			if i > 0 && s[i-1] == '=' {
				continue
			}
			depth--
		case ')', ']', '}':
			depth--
		case op:
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

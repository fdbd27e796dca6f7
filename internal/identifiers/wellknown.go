package identifiers

import "fmt"

// WellKnown maps TypeScript library globals to Flow. It is never mutated
// after package initialization.
var WellKnown = Table{
	"ReadonlyArray":    Static("$ReadOnlyArray"),
	"ReadonlyMap":      Static("$ReadOnlyMap"),
	"ReadonlySet":      Static("$ReadOnlySet"),
	"Readonly":         Static("$ReadOnly"),
	"NonNullable":      Static("$NonMaybeType"),
	"RegExpMatchArray": Static("RegExp$matchResult"),
	"PromiseLike":      Static("Promise"),
	"ArrayLike":        Static("$ArrayLike"),
	"Object":           Static("{...}"),
	"PropertyKey":      Static("string | number | Symbol"),

	"Partial": Func(func(args []string) string {
		return fmt.Sprintf("$Rest<%s, {...}>", arg(args, 0))
	}),
	"Required": Func(func(args []string) string {
		return fmt.Sprintf("$ObjMap<%s, <V>(V) => $NonMaybeType<V>>", arg(args, 0))
	}),
	"Record": Func(func(args []string) string {
		return fmt.Sprintf("{[key: %s]: %s, ...}", arg(args, 0), arg(args, 1))
	}),
	"Pick": Func(func(args []string) string {
		return fmt.Sprintf("$ObjMapi<{[key: %s]: mixed, ...}, <P>(P) => $ElementType<%s, P>>", arg(args, 1), arg(args, 0))
	}),
	"Omit": Func(func(args []string) string {
		return fmt.Sprintf("$Diff<%s, {[key: %s]: mixed, ...}>", arg(args, 0), arg(args, 1))
	}),
	"ReturnType": Func(func(args []string) string {
		return fmt.Sprintf("$Call<<R>((...args: any[]) => R) => R, %s>", arg(args, 0))
	}),
	"Parameters": Func(func(args []string) string {
		return fmt.Sprintf("$Call<<A: $ReadOnlyArray<mixed>>((...args: A) => mixed) => A, %s>", arg(args, 0))
	}),
	"InstanceType": Func(func(args []string) string {
		return fmt.Sprintf("$Call<<I>(Class<I>) => I, %s>", arg(args, 0))
	}),
	"Awaited": Func(func(args []string) string {
		return fmt.Sprintf("$Call<<V>(Promise<V> | V) => V, %s>", arg(args, 0))
	}),
	// Flow has no distributive conditional types; keep the closest operand.
	"Exclude": Func(func(args []string) string { return arg(args, 0) }),
	"Extract": Func(func(args []string) string { return arg(args, 1) }),

	"Uppercase":    Func(intrinsicString),
	"Lowercase":    Func(intrinsicString),
	"Capitalize":   Func(intrinsicString),
	"Uncapitalize": Func(intrinsicString),
}

func intrinsicString([]string) string { return "string" }

// arg returns args[i], or `any` when the reference left it out.
func arg(args []string, i int) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}
	return "any"
}

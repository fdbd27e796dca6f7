// Package identifiers maps TypeScript identifiers onto their Flow spelling.
//
// The Resolver combines three sources of truth: the WellKnown table of
// global library names that differ between the two ecosystems, the
// namespace path of declarations local to the printed file, and a reserved
// prefix for ambient declarations that come from other declaration files.
package identifiers

import "strings"

// ForeignPrefix qualifies ambient declarations pulled in from other
// declaration files so they cannot collide with Flow built-ins.
const ForeignPrefix = "$TSGlobal$"

// NamespaceSeparator joins a namespace path into a single Flow identifier.
const NamespaceSeparator = "$"

// RewriteFunc renders a parameterized replacement from the already printed
// type arguments of the reference.
type RewriteFunc func(args []string) string

// Entry is one row of the identifier table: either a static rename or a
// rewrite of the whole reference.
type Entry struct {
	name    string
	rewrite RewriteFunc
}

// Static returns an entry that renames the identifier and keeps its type
// arguments.
func Static(name string) Entry {
	return Entry{name: name}
}

// Func returns an entry that replaces the whole reference with fn(args).
func Func(fn RewriteFunc) Entry {
	return Entry{rewrite: fn}
}

// IsRewrite reports whether the entry consumes the type arguments.
func (e Entry) IsRewrite() bool { return e.rewrite != nil }

// Apply renders the entry against printed type arguments.
func (e Entry) Apply(args []string) string {
	if e.rewrite != nil {
		return e.rewrite(args)
	}
	return e.name + FormatTypeArgs(args)
}

// Table maps a TypeScript name to its Flow replacement. Tables are read-only
// once built and safe for concurrent lookups.
type Table map[string]Entry

// Lookup returns the entry for name, if any.
func (t Table) Lookup(name string) (Entry, bool) {
	e, ok := t[name]
	return e, ok
}

// Symbol is the resolver's view of a checker symbol.
type Symbol struct {
	Name string
	// Path lists the namespaces, declared in the printed file, that
	// enclose the declaration. Outermost first.
	Path []string
	// Local is set when the symbol is declared in the printed file.
	Local bool
	// Ambient is set when every declaration lives in another declaration
	// file at global scope.
	Ambient bool
}

// QualifiedName joins the namespace path and the name with
// NamespaceSeparator.
func (s *Symbol) QualifiedName() string {
	if len(s.Path) == 0 {
		return s.Name
	}
	return strings.Join(s.Path, NamespaceSeparator) + NamespaceSeparator + s.Name
}

// Resolution is the result of resolving an identifier. When Entry is set
// the caller must apply it to the printed type arguments instead of using
// Name directly.
type Resolution struct {
	Name  string
	Entry *Entry
}

// Print renders the resolution followed by its type arguments.
func (r Resolution) Print(args []string) string {
	if r.Entry != nil {
		return r.Entry.Apply(args)
	}
	return r.Name + FormatTypeArgs(args)
}

// Resolver resolves identifiers against a table.
type Resolver struct {
	table Table
}

// NewResolver returns a resolver over table. A nil table means WellKnown.
func NewResolver(table Table) *Resolver {
	if table == nil {
		table = WellKnown
	}
	return &Resolver{table: table}
}

// Resolve produces the printable Flow name for raw. A nil sym means the
// checker could not bind the name; it still goes through the table because
// library globals never bind when no lib files are loaded.
func (r *Resolver) Resolve(sym *Symbol, raw string) Resolution {
	if sym == nil {
		if e, ok := r.table.Lookup(raw); ok {
			return Resolution{Name: raw, Entry: &e}
		}
		return Resolution{Name: raw}
	}
	if sym.Local {
		return Resolution{Name: sym.QualifiedName()}
	}
	if e, ok := r.table.Lookup(sym.Name); ok {
		return Resolution{Name: sym.Name, Entry: &e}
	}
	if sym.Ambient {
		return Resolution{Name: ForeignPrefix + sym.Name}
	}
	return Resolution{Name: raw}
}

// FormatTypeArgs renders `<a, b>`, or nothing for an empty list.
func FormatTypeArgs(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return "<" + strings.Join(args, ", ") + ">"
}

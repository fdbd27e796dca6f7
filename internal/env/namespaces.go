package env

// Namespace is one namespace declared in the file being printed. Name is
// fully qualified with the `$` separator, e.g. `Outer$Inner`.
type Namespace struct {
	Name string
	// Short is the name the namespace has inside its parent.
	Short  string
	Parent string
	// Exported is set when any declaration of the namespace is exported.
	Exported bool
	// Merged is set when the namespace shares its name with a function,
	// class, enum or variable, which then owns the value binding.
	Merged bool

	members []string
	seen    map[string]bool
}

// Values returns the value members in declaration order.
func (ns *Namespace) Values() []string {
	return ns.members
}

// Namespaces records the namespaces declared in one output container and
// the value members each one exposes.
type Namespaces struct {
	order  []string
	byName map[string]*Namespace
}

func NewNamespaces() *Namespaces {
	return &Namespaces{byName: make(map[string]*Namespace)}
}

// Declare registers a namespace. Repeated declarations merge: the flags
// accumulate and the first parent wins.
func (n *Namespaces) Declare(name, parent, short string, exported, merged bool) *Namespace {
	if ns, ok := n.byName[name]; ok {
		ns.Exported = ns.Exported || exported
		ns.Merged = ns.Merged || merged
		return ns
	}
	ns := &Namespace{
		Name:     name,
		Short:    short,
		Parent:   parent,
		Exported: exported,
		Merged:   merged,
		seen:     make(map[string]bool),
	}
	n.order = append(n.order, name)
	n.byName[name] = ns
	return ns
}

// Get returns the namespace called name, or nil.
func (n *Namespaces) Get(name string) *Namespace {
	return n.byName[name]
}

// Has reports whether ns was declared.
func (n *Namespaces) Has(ns string) bool {
	_, ok := n.byName[ns]
	return ok
}

// AddValue records a value member of ns, declaring ns on first use. It
// returns false when the member was already recorded, which happens for
// overloads and merged namespaces.
func (n *Namespaces) AddValue(ns, member string) bool {
	entry, ok := n.byName[ns]
	if !ok {
		entry = n.Declare(ns, "", ns, false, false)
	}
	if entry.seen[member] {
		return false
	}
	entry.seen[member] = true
	entry.members = append(entry.members, member)
	return true
}

// Values returns the value members of ns in declaration order.
func (n *Namespaces) Values(ns string) []string {
	if entry, ok := n.byName[ns]; ok {
		return entry.members
	}
	return nil
}

// Declared returns every namespace name in declaration order.
func (n *Namespaces) Declared() []string {
	return n.order
}

// Objects returns the namespaces that need a value object, in declaration
// order. A nested namespace with values becomes a value of its parent
// first, so a parent whose only members are namespaces still gets an
// object.
func (n *Namespaces) Objects() []*Namespace {
	for i := len(n.order) - 1; i >= 0; i-- {
		ns := n.byName[n.order[i]]
		if ns.Merged || len(ns.members) == 0 || ns.Parent == "" {
			continue
		}
		n.AddValue(ns.Parent, ns.Short)
	}

	var out []*Namespace
	for _, name := range n.order {
		ns := n.byName[name]
		if ns.Merged || len(ns.members) == 0 {
			continue
		}
		out = append(out, ns)
	}
	return out
}

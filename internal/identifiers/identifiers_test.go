package identifiers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_UnresolvedFallsBackToTable(t *testing.T) {
	r := NewResolver(nil)

	res := r.Resolve(nil, "ReadonlyArray")
	require.NotNil(t, res.Entry)
	assert.Equal(t, "$ReadOnlyArray<string>", res.Print([]string{"string"}))

	res = r.Resolve(nil, "Partial")
	assert.Equal(t, "$Rest<Foo, {...}>", res.Print([]string{"Foo"}))

	res = r.Resolve(nil, "SomethingElse")
	assert.Nil(t, res.Entry)
	assert.Equal(t, "SomethingElse<T>", res.Print([]string{"T"}))
}

func TestResolve_LocalShadowsTable(t *testing.T) {
	r := NewResolver(nil)
	res := r.Resolve(&Symbol{Name: "Partial", Local: true}, "Partial")
	assert.Nil(t, res.Entry)
	assert.Equal(t, "Partial", res.Name)
}

func TestResolve_LocalNamespacePath(t *testing.T) {
	r := NewResolver(nil)
	res := r.Resolve(&Symbol{Name: "C", Path: []string{"A", "B"}, Local: true}, "A.B.C")
	assert.Equal(t, "A$B$C", res.Name)
}

func TestResolve_AmbientGetsForeignPrefix(t *testing.T) {
	r := NewResolver(nil)
	res := r.Resolve(&Symbol{Name: "Buffer", Ambient: true}, "Buffer")
	assert.Equal(t, "$TSGlobal$Buffer", res.Name)
}

func TestResolve_AmbientTableEntryWins(t *testing.T) {
	r := NewResolver(nil)
	res := r.Resolve(&Symbol{Name: "ReadonlyMap", Ambient: true}, "ReadonlyMap")
	require.NotNil(t, res.Entry)
	assert.Equal(t, "$ReadOnlyMap<K, V>", res.Print([]string{"K", "V"}))
}

func TestResolve_ImportedNameVerbatim(t *testing.T) {
	r := NewResolver(nil)
	res := r.Resolve(&Symbol{Name: "Thing"}, "Thing")
	assert.Equal(t, "Thing", res.Name)
}

func TestResolve_CustomTable(t *testing.T) {
	r := NewResolver(Table{"Foo": Static("Bar")})
	assert.Equal(t, "Bar", r.Resolve(nil, "Foo").Print(nil))
	assert.Equal(t, "ReadonlyArray", r.Resolve(nil, "ReadonlyArray").Print(nil))
}

func TestWellKnown_Rewrites(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Record", []string{"string", "number"}, "{[key: string]: number, ...}"},
		{"Record", nil, "{[key: any]: any, ...}"},
		{"Required", []string{"T"}, "$ObjMap<T, <V>(V) => $NonMaybeType<V>>"},
		{"Omit", []string{"T", `"a"`}, `$Diff<T, {[key: "a"]: mixed, ...}>`},
		{"Pick", []string{"T", `"a" | "b"`}, `$ObjMapi<{[key: "a" | "b"]: mixed, ...}, <P>(P) => $ElementType<T, P>>`},
		{"ReturnType", []string{"F"}, "$Call<<R>((...args: any[]) => R) => R, F>"},
		{"InstanceType", []string{"C"}, "$Call<<I>(Class<I>) => I, C>"},
		{"Exclude", []string{"A", "B"}, "A"},
		{"Extract", []string{"A", "B"}, "B"},
		{"Uppercase", []string{"S"}, "string"},
		{"NonNullable", []string{"T"}, "$NonMaybeType<T>"},
		{"RegExpMatchArray", nil, "RegExp$matchResult"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := WellKnown.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, e.Apply(tt.args))
		})
	}
}

func TestWellKnown_ConcurrentReads(t *testing.T) {
	r := NewResolver(nil)
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = r.Resolve(nil, "Readonly").Print([]string{"T"})
			}
		}()
	}
	wg.Wait()
}

func TestFormatTypeArgs(t *testing.T) {
	assert.Equal(t, "", FormatTypeArgs(nil))
	assert.Equal(t, "<A, B>", FormatTypeArgs([]string{"A", "B"}))
}

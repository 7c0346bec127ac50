// Package symtab maps type symbols, the names appearing in textual
// constraint expressions, to concrete reflect types.
//
// Resolution is layered. A Table first consults its own definitions,
// then any whole-namespace imports, then selective imports, and
// finally the builtin vocabulary. The first hit wins and there is no
// retry. Unknown symbols surface as configuration errors when a
// checked callable is assembled, never at call time.
package symtab

import (
	"fmt"
	"reflect"
	"sync"

	"facette.io/natsort"
	"github.com/markpock/Validation/errors"
	"github.com/markpock/Validation/lazy"
	"go.uber.org/atomic"
)

// Namespace is a named collection of symbol definitions. It plays the
// role of a library module: consumers import it into a Table wholesale
// or symbol by symbol.
type Namespace struct {
	name string

	mu   sync.RWMutex
	defs map[string]reflect.Type
}

// NewNamespace creates an empty namespace. The name is diagnostic
// only, it never participates in resolution.
func NewNamespace(name string) *Namespace {
	return &Namespace{
		name: name,
		defs: make(map[string]reflect.Type),
	}
}

// Name returns the diagnostic name given at construction.
func (n *Namespace) Name() string {
	return n.name
}

// Define binds a symbol to a type. Redefining a symbol overwrites the
// previous binding. Returns the namespace for chaining.
func (n *Namespace) Define(symbol string, typ reflect.Type) *Namespace {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.defs[symbol] = typ

	return n
}

// DefineIn registers T in the namespace. With no explicit symbol the
// type's own name is used, falling back to its string form for
// unnamed types.
func DefineIn[T any](n *Namespace, symbol ...string) *Namespace {
	typ := reflect.TypeFor[T]()

	name := typ.Name()
	if len(symbol) > 0 {
		name = symbol[0]
	} else if name == "" {
		name = typ.String()
	}

	return n.Define(name, typ)
}

// Lookup returns the type bound to symbol, if any.
func (n *Namespace) Lookup(symbol string) (reflect.Type, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	typ, ok := n.defs[symbol]

	return typ, ok
}

// Names returns every defined symbol in natural sort order.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	names := make([]string, 0, len(n.defs))
	for name := range n.defs {
		names = append(names, name)
	}

	natsort.Sort(names)

	return names
}

// Len returns the number of defined symbols.
func (n *Namespace) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return len(n.defs)
}

var builtins = lazy.New(func() *Namespace {
	ns := NewNamespace("builtin")

	ns.Define("any", reflect.TypeFor[any]())
	ns.Define("bool", reflect.TypeFor[bool]())
	ns.Define("byte", reflect.TypeFor[byte]())
	ns.Define("complex64", reflect.TypeFor[complex64]())
	ns.Define("complex128", reflect.TypeFor[complex128]())
	ns.Define("error", reflect.TypeFor[error]())
	ns.Define("float32", reflect.TypeFor[float32]())
	ns.Define("float64", reflect.TypeFor[float64]())
	ns.Define("int", reflect.TypeFor[int]())
	ns.Define("int8", reflect.TypeFor[int8]())
	ns.Define("int16", reflect.TypeFor[int16]())
	ns.Define("int32", reflect.TypeFor[int32]())
	ns.Define("int64", reflect.TypeFor[int64]())
	ns.Define("rune", reflect.TypeFor[rune]())
	ns.Define("string", reflect.TypeFor[string]())
	ns.Define("uint", reflect.TypeFor[uint]())
	ns.Define("uint8", reflect.TypeFor[uint8]())
	ns.Define("uint16", reflect.TypeFor[uint16]())
	ns.Define("uint32", reflect.TypeFor[uint32]())
	ns.Define("uint64", reflect.TypeFor[uint64]())
	ns.Define("uintptr", reflect.TypeFor[uintptr]())

	return ns
})

// Builtins returns the namespace of predeclared symbols. Every table
// resolves against it last, so "int" or "error" never need importing.
func Builtins() *Namespace {
	return builtins.Get()
}

// selection records one symbol picked out of a source namespace.
type selection struct {
	source *Namespace
	symbol string
}

// Table resolves symbols for one or more checked callables. The zero
// value is not usable, construct with New.
type Table struct {
	mu        sync.RWMutex
	ambient   map[string]reflect.Type
	imports   []*Namespace
	selective []selection

	lookups atomic.Int64
	misses  atomic.Int64
}

// New creates an empty table. It resolves only builtins until
// definitions or imports are added.
func New() *Table {
	return &Table{
		ambient: make(map[string]reflect.Type),
	}
}

var defaultTable = lazy.New(New)

// Default returns the shared process-wide table. Callables assembled
// without an explicit table resolve against it.
func Default() *Table {
	return defaultTable.Get()
}

// Define binds a symbol directly in the table. Direct definitions
// shadow imports and builtins. Returns the table for chaining.
func (t *Table) Define(symbol string, typ reflect.Type) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ambient[symbol] = typ

	return t
}

// Register binds T in the table under the given symbol, or under the
// type's own name when omitted.
func Register[T any](t *Table, symbol ...string) *Table {
	typ := reflect.TypeFor[T]()

	name := typ.Name()
	if len(symbol) > 0 {
		name = symbol[0]
	} else if name == "" {
		name = typ.String()
	}

	return t.Define(name, typ)
}

// Import makes every symbol of the namespace resolvable through the
// table. Later imports are consulted after earlier ones.
func (t *Table) Import(ns *Namespace) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.imports = append(t.imports, ns)

	return t
}

// ImportFrom makes only the named symbols of the namespace
// resolvable. Symbols absent from the source at lookup time simply do
// not resolve. With no symbols the call is a no-op.
func (t *Table) ImportFrom(ns *Namespace, symbols ...string) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, symbol := range symbols {
		t.selective = append(t.selective, selection{source: ns, symbol: symbol})
	}

	return t
}

// Lookup resolves a symbol through the table's layers: own
// definitions, whole-namespace imports, selective imports, builtins.
// First hit wins.
func (t *Table) Lookup(symbol string) (reflect.Type, bool) {
	t.lookups.Inc()

	t.mu.RLock()
	if typ, ok := t.ambient[symbol]; ok {
		t.mu.RUnlock()

		return typ, true
	}

	imports := make([]*Namespace, len(t.imports))
	copy(imports, t.imports)
	selective := make([]selection, len(t.selective))
	copy(selective, t.selective)
	t.mu.RUnlock()

	for _, ns := range imports {
		if typ, ok := ns.Lookup(symbol); ok {
			return typ, true
		}
	}

	for _, sel := range selective {
		if sel.symbol != symbol {
			continue
		}

		if typ, ok := sel.source.Lookup(symbol); ok {
			return typ, true
		}
	}

	if typ, ok := Builtins().Lookup(symbol); ok {
		return typ, true
	}

	t.misses.Inc()

	return nil, false
}

// Resolve is Lookup with a configuration error on miss.
func (t *Table) Resolve(symbol string) (reflect.Type, error) {
	typ, ok := t.Lookup(symbol)
	if !ok {
		return nil, fmt.Errorf("%w %q", errors.ErrUnknownSymbol, symbol)
	}

	return typ, nil
}

// Names returns every symbol the table can currently resolve, in
// natural sort order. Intended for diagnostics.
func (t *Table) Names() []string {
	seen := make(map[string]struct{})

	t.mu.RLock()
	for name := range t.ambient {
		seen[name] = struct{}{}
	}

	imports := make([]*Namespace, len(t.imports))
	copy(imports, t.imports)
	selective := make([]selection, len(t.selective))
	copy(selective, t.selective)
	t.mu.RUnlock()

	for _, ns := range imports {
		for _, name := range ns.Names() {
			seen[name] = struct{}{}
		}
	}

	for _, sel := range selective {
		if _, ok := sel.source.Lookup(sel.symbol); ok {
			seen[sel.symbol] = struct{}{}
		}
	}

	for _, name := range Builtins().Names() {
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	natsort.Sort(names)

	return names
}

// Stats is a point-in-time snapshot of lookup traffic.
type Stats struct {
	Lookups int64
	Misses  int64
}

// Stats reports how many lookups the table has served and how many
// found no binding.
func (t *Table) Stats() Stats {
	return Stats{
		Lookups: t.lookups.Load(),
		Misses:  t.misses.Load(),
	}
}

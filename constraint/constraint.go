// Package constraint implements the type constraints a checked
// callable declares for its arguments.
//
// A constraint is either a single acceptable type, a union of
// alternatives, or universal. Matching follows Go assignability: a
// value of a type that satisfies an interface alternative matches it,
// while types that merely convert to an alternative do not. Untyped
// nil matches only when some alternative can hold nil.
package constraint

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/markpock/Validation/errors"
	"github.com/markpock/Validation/utils"
)

// Resolver turns a type symbol from a textual constraint expression
// into a concrete type. Misses must surface as configuration errors.
type Resolver interface {
	Resolve(symbol string) (reflect.Type, error)
}

// Constraint is an immutable set of acceptable types for one
// argument. The zero value is the empty union, which no value
// matches. Construct with Of, For, Union, Any, From or Parse.
type Constraint struct {
	alts      []reflect.Type
	universal bool
}

var anyType = reflect.TypeFor[any]()

// Any returns the universal constraint. Every value matches it,
// including untyped nil.
func Any() Constraint {
	return Constraint{universal: true}
}

// Of builds a constraint from the given alternatives. One type yields
// a single-type constraint, several a union. Duplicates collapse to
// the first occurrence, nil entries are ignored, and an empty
// interface alternative absorbs the rest into the universal
// constraint.
func Of(types ...reflect.Type) Constraint {
	alts := make([]reflect.Type, 0, len(types))
	seen := make(map[reflect.Type]struct{}, len(types))

	for _, typ := range types {
		if typ == nil {
			continue
		}

		if typ == anyType {
			return Any()
		}

		if _, dup := seen[typ]; dup {
			continue
		}

		seen[typ] = struct{}{}
		alts = append(alts, typ)
	}

	return Constraint{alts: alts}
}

// For returns the single-type constraint accepting T.
func For[T any]() Constraint {
	return Of(reflect.TypeFor[T]())
}

// Union merges constraints into one, flattening nested unions and
// deduplicating alternatives. A universal member makes the result
// universal.
func Union(constraints ...Constraint) Constraint {
	var alts []reflect.Type

	for _, c := range constraints {
		if c.universal {
			return Any()
		}

		alts = append(alts, c.alts...)
	}

	return Of(alts...)
}

// From classifies loose constraint input. Accepted are a Constraint
// itself, a reflect.Type, nil for the universal constraint, a []any
// whose classified members form a union, and any other value as a
// prototype standing for its own dynamic type. Strings are rejected
// with a pointer at Parse, which resolves textual expressions.
func From(x any) (Constraint, error) {
	switch v := x.(type) {
	case nil:
		return Any(), nil
	case Constraint:
		return v, nil
	case reflect.Type:
		return Of(v), nil
	case string:
		return Constraint{}, fmt.Errorf("%w: string %q is not a constraint, resolve expressions with Parse",
			errors.ErrBadConstraint, v)
	case []any:
		members := make([]Constraint, 0, len(v))

		for _, m := range v {
			c, err := From(m)
			if err != nil {
				return Constraint{}, err
			}

			members = append(members, c)
		}

		return Union(members...), nil
	}

	return Of(reflect.TypeOf(x)), nil
}

// IsAny reports whether the constraint is universal.
func (c Constraint) IsAny() bool {
	return c.universal
}

// Types returns the alternatives in declaration order. Universal
// constraints have none.
func (c Constraint) Types() []reflect.Type {
	return slices.Clone(c.alts)
}

// Matches reports whether the value satisfies the constraint. The
// value's dynamic type is checked against each alternative in
// declaration order, first hit wins.
func (c Constraint) Matches(value any) bool {
	return c.MatchesValue(reflect.ValueOf(value))
}

// MatchesValue is Matches at the reflect level. Interface values are
// unwrapped to their dynamic type first. An invalid value or a nil
// interface counts as untyped nil and matches only alternatives that
// can hold nil.
func (c Constraint) MatchesValue(v reflect.Value) bool {
	if c.universal {
		return true
	}

	if v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}

	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		return c.admitsNil()
	}

	rt := v.Type()

	for _, alt := range c.alts {
		if rt.AssignableTo(alt) {
			return true
		}
	}

	return false
}

// Admits reports whether some value carried by a variable of static
// type rt could satisfy the constraint. Used when a checked callable
// is assembled to reject constraints a parameter can never meet.
func (c Constraint) Admits(rt reflect.Type) bool {
	if c.universal {
		return true
	}

	if rt == nil {
		return false
	}

	for _, alt := range c.alts {
		if satisfiable(alt, rt) {
			return true
		}
	}

	return false
}

// satisfiable reports whether a variable of static type rt could hold
// a value matching alt. Two interface types are always considered
// satisfiable, some third type may implement both.
func satisfiable(alt, rt reflect.Type) bool {
	if rt.AssignableTo(alt) || alt.AssignableTo(rt) {
		return true
	}

	return rt.Kind() == reflect.Interface && alt.Kind() == reflect.Interface
}

func (c Constraint) admitsNil() bool {
	for _, alt := range c.alts {
		if utils.CanBeNil(alt) {
			return true
		}
	}

	return false
}

// String renders the constraint the way it appears in failure
// messages: "any" for universal, alternatives joined by " | ", and
// "never" for the empty union.
func (c Constraint) String() string {
	switch {
	case c.universal:
		return "any"
	case len(c.alts) == 0:
		return "never"
	}

	parts := make([]string, len(c.alts))
	for i, alt := range c.alts {
		parts[i] = Name(alt)
	}

	return strings.Join(parts, " | ")
}

// Verbose renders the constraint with fully qualified type names.
func (c Constraint) Verbose() string {
	switch {
	case c.universal:
		return "any"
	case len(c.alts) == 0:
		return "never"
	}

	parts := make([]string, len(c.alts))
	for i, alt := range c.alts {
		parts[i] = VerboseName(alt)
	}

	return strings.Join(parts, " | ")
}

// Name returns the short rendering of a type, as used in failure
// messages.
func Name(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t == anyType {
		return "any"
	}

	return t.String()
}

// VerboseName returns the fully qualified rendering of a type,
// spelling out package import paths.
func VerboseName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t == anyType {
		return "any"
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + VerboseName(t.Elem())
	case reflect.Slice:
		return "[]" + VerboseName(t.Elem())
	case reflect.Map:
		return "map[" + VerboseName(t.Key()) + "]" + VerboseName(t.Elem())
	}

	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}

	return t.String()
}

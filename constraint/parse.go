package constraint

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/markpock/Validation/errors"
)

// Parse builds a constraint from a textual expression such as
// "int | float64". Alternatives are separated by "|" and surrounding
// whitespace is ignored. An alternative is either a symbol resolved
// through r or a composite of resolvable symbols: "*Server",
// "[]string", "map[string]int" and nestings thereof.
func Parse(expr string, r Resolver) (Constraint, error) {
	if r == nil {
		return Constraint{}, fmt.Errorf("%w: no resolver for expression %q", errors.ErrBadConstraint, expr)
	}

	tokens := strings.Split(expr, "|")
	types := make([]reflect.Type, 0, len(tokens))

	for _, token := range tokens {
		symbol := strings.TrimSpace(token)
		if symbol == "" {
			return Constraint{}, fmt.Errorf("%w: empty alternative in expression %q", errors.ErrBadConstraint, expr)
		}

		typ, err := parseType(symbol, r)
		if err != nil {
			return Constraint{}, fmt.Errorf("constraint %q: %w", expr, err)
		}

		types = append(types, typ)
	}

	return Of(types...), nil
}

// parseType resolves one alternative. Composite forms recurse on
// their element types, anything else is a symbol for the resolver.
func parseType(symbol string, r Resolver) (reflect.Type, error) {
	switch {
	case symbol == "":
		return nil, fmt.Errorf("%w: missing type", errors.ErrBadConstraint)

	case strings.HasPrefix(symbol, "*"):
		elem, err := parseType(strings.TrimSpace(symbol[1:]), r)
		if err != nil {
			return nil, err
		}

		return reflect.PointerTo(elem), nil

	case strings.HasPrefix(symbol, "[]"):
		elem, err := parseType(strings.TrimSpace(symbol[2:]), r)
		if err != nil {
			return nil, err
		}

		return reflect.SliceOf(elem), nil

	case strings.HasPrefix(symbol, "map["):
		return parseMap(symbol, r)
	}

	return r.Resolve(symbol)
}

// parseMap splits "map[K]V" at the bracket closing the key. The key
// may itself contain brackets, as in "map[*map[string]int]bool", so
// the scan tracks depth. Non-comparable keys are rejected before
// reflect.MapOf can panic on them.
func parseMap(symbol string, r Resolver) (reflect.Type, error) {
	rest := symbol[len("map["):]

	end := -1
	depth := 1

	for i := 0; i < len(rest) && end < 0; i++ {
		switch rest[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				end = i
			}
		}
	}

	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated map key in %q", errors.ErrBadConstraint, symbol)
	}

	key, err := parseType(strings.TrimSpace(rest[:end]), r)
	if err != nil {
		return nil, err
	}

	if !key.Comparable() {
		return nil, fmt.Errorf("%w: map key type %s is not comparable", errors.ErrBadConstraint, key)
	}

	elem, err := parseType(strings.TrimSpace(rest[end+1:]), r)
	if err != nil {
		return nil, err
	}

	return reflect.MapOf(key, elem), nil
}

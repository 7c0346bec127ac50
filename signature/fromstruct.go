package signature

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
	"unicode"

	"github.com/markpock/Validation/constraint"
	"github.com/markpock/Validation/errors"
	"github.com/markpock/Validation/symtab"
)

// FromStruct derives parameter metadata from the fields of T, in
// field order. Each field names one explicit parameter, with the
// leading initialism lowercased (ID -> id, MaxWeight -> maxWeight).
// The field type becomes the parameter's constraint unless it is
// `any`, and a `check` tag overrides it with a parsed expression;
// `check:"-"` leaves the parameter unchecked. A `default` tag
// supplies a default value, parsed against the field type:
//
//	type greetParams struct {
//		ID     int
//		Weight any    `check:"int | float64"`
//		Mode   string `default:"compact"`
//	}
//
//	sig, err := signature.New(greet, signature.FromStruct[greetParams]())
//
// Explicit options applied to the same parameter win over the
// descriptor.
func FromStruct[T any]() Option {
	return func(c *config) {
		c.descriptor = reflect.TypeFor[T]()
	}
}

func (c *config) applyDescriptor(sig *Signature, errs *errors.Collection) {
	st := c.descriptor
	if st == nil {
		return
	}

	if st.Kind() != reflect.Struct {
		errs.Add(fmt.Errorf("%w: descriptor %s is not a struct", errors.ErrConfiguration, st))

		return
	}

	if st.NumField() > sig.NumParams() {
		errs.Add(fmt.Errorf("%w: descriptor %s has %d fields for %d parameters",
			errors.ErrConfiguration, st, st.NumField(), sig.NumParams()))

		return
	}

	table := c.table
	if table == nil {
		table = symtab.Default()
	}

	offset := sig.offset()

	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		p := &sig.params[offset+i]
		p.Name = paramName(field.Name)

		if expr, ok := field.Tag.Lookup("check"); ok {
			if expr == "-" {
				p.Constraint = constraint.Any()
			} else if cons, err := constraint.Parse(expr, table); err != nil {
				errs.Add(fmt.Errorf("descriptor field %q: %w", field.Name, err))
			} else {
				p.Constraint = cons
			}
		} else if field.Type != anyType {
			ft := field.Type
			if p.Variadic && ft.Kind() == reflect.Slice {
				ft = ft.Elem()
			}

			p.Constraint = constraint.Of(ft)
		}

		lit, ok := field.Tag.Lookup("default")
		if !ok {
			continue
		}

		if p.Variadic {
			errs.Add(fmt.Errorf("%w: variadic parameter %q cannot have a default",
				errors.ErrBadDefault, p.Name))

			continue
		}

		value, err := ParseLiteral(lit, literalType(field.Type, p.Type))
		if err != nil {
			errs.Add(fmt.Errorf("descriptor field %q: %w", field.Name, err))

			continue
		}

		p.Default = value
		p.HasDefault = true
	}
}

// literalType picks the type a default tag is parsed against: the
// field type, or the parameter's static type when the field is `any`.
func literalType(fieldType, paramType reflect.Type) reflect.Type {
	if fieldType == anyType {
		return paramType
	}

	return fieldType
}

// paramName lowercases the leading initialism of an exported field so
// it reads like a parameter: Weight -> weight, ID -> id, IDNumber ->
// idNumber.
func paramName(field string) string {
	runes := []rune(field)

	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}

	// A run followed by more word keeps its last letter for the next
	// word, as in IDNumber.
	if upper > 1 && upper < len(runes) {
		upper--
	}

	for i := 0; i < upper; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}

	return string(runes)
}

var durationType = reflect.TypeFor[time.Duration]()

// ParseLiteral parses a tag literal into a value of type t. Strings
// are taken verbatim, bool, integer and float kinds go through
// strconv, and time.Duration accepts time.ParseDuration syntax.
// Other types cannot be expressed as tag literals.
func ParseLiteral(lit string, t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, fmt.Errorf("%w: no type to parse literal %q against",
			errors.ErrBadDefault, lit)
	}

	if t == durationType {
		d, err := time.ParseDuration(lit)
		if err != nil {
			return reflect.Value{}, parseFailure(lit, t)
		}

		return reflect.ValueOf(d), nil
	}

	out := reflect.New(t).Elem()

	switch t.Kind() {
	case reflect.String:
		out.SetString(lit)
	case reflect.Bool:
		b, err := strconv.ParseBool(lit)
		if err != nil {
			return reflect.Value{}, parseFailure(lit, t)
		}

		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil || out.OverflowInt(n) {
			return reflect.Value{}, parseFailure(lit, t)
		}

		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(lit, 10, 64)
		if err != nil || out.OverflowUint(n) {
			return reflect.Value{}, parseFailure(lit, t)
		}

		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil || out.OverflowFloat(f) {
			return reflect.Value{}, parseFailure(lit, t)
		}

		out.SetFloat(f)
	default:
		return reflect.Value{}, fmt.Errorf("%w: cannot express %s as a tag literal",
			errors.ErrBadDefault, constraint.Name(t))
	}

	return out, nil
}

func parseFailure(lit string, t reflect.Type) error {
	return fmt.Errorf("%w: cannot parse %q as %s", errors.ErrBadDefault, lit, constraint.Name(t))
}

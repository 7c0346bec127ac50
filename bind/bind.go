// Package bind resolves call-site arguments against a signature. The
// result is a set of name to value bindings that the checker walks in
// parameter declaration order.
//
// Binding failures are configuration errors: too many positional
// values, unknown or duplicated keywords, values whose static type
// the parameter cannot hold. They are collected and reported
// together, and they are distinct from the per-call constraint
// violations the checker itself produces.
package bind

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/markpock/Validation/errors"
	"github.com/markpock/Validation/signature"
	"github.com/markpock/Validation/utils"
)

// Bound is one checkable binding: a supplied value attached to a
// parameter. Elements of the variadic parameter bind individually,
// under display names like "tags[1]".
type Bound struct {
	Param signature.Param
	Name  string
	Value reflect.Value
}

type slot struct {
	value    reflect.Value
	supplied bool
}

// Args holds the bindings of one call.
type Args struct {
	sig     *signature.Signature
	slots   []slot
	varargs []reflect.Value
}

// Inputs binds a full input vector, as received by a wrapper
// trampoline. The vector must have one value per declared input, the
// variadic slice included, which reflect guarantees for trampolines.
func Inputs(sig *signature.Signature, in []reflect.Value) (*Args, error) {
	params := sig.Params()
	if len(in) != len(params) {
		return nil, fmt.Errorf("%w: %d inputs for %d parameters of %s",
			errors.ErrConfiguration, len(in), len(params), sig.Name())
	}

	a := &Args{
		sig:   sig,
		slots: make([]slot, len(params)),
	}

	for i, v := range in {
		a.slots[i] = slot{value: v, supplied: true}
	}

	return a, nil
}

// Dynamic binds loose positional and keyword values. Positional
// values fill inputs left to right, the receiver of a construction
// routine first. Keywords address explicit parameters by name; the
// receiver and the variadic parameter cannot be passed by keyword.
func Dynamic(sig *signature.Signature, positional []any, named map[string]any) (*Args, error) {
	params := sig.Params()

	a := &Args{
		sig:   sig,
		slots: make([]slot, len(params)),
	}

	var errs errors.Collection

	limit := len(params)
	if sig.IsVariadic() {
		limit--
	}

	for i, value := range positional {
		if i < limit {
			a.slots[i] = slot{value: valueOf(value), supplied: true}

			continue
		}

		if sig.IsVariadic() {
			a.varargs = append(a.varargs, valueOf(value))

			continue
		}

		errs.Add(fmt.Errorf("%w: %s takes %d, got %d",
			errors.ErrTooManyArgs, sig.Name(), len(params), len(positional)))

		break
	}

	for name, value := range named {
		p, ok := sig.Param(name)
		if !ok {
			errs.Add(fmt.Errorf("%w: %s has no parameter %q", errors.ErrUnknownParam, sig.Name(), name))

			continue
		}

		if p.Variadic {
			errs.Add(fmt.Errorf("%w: variadic parameter %q cannot be passed by keyword",
				errors.ErrConfiguration, name))

			continue
		}

		if a.slots[p.Position].supplied {
			errs.Add(fmt.Errorf("%w: %q", errors.ErrDuplicateParam, name))

			continue
		}

		a.slots[p.Position] = slot{value: valueOf(value), supplied: true}
	}

	if errs.HasError() {
		return nil, errs.GetError()
	}

	return a, nil
}

// valueOf reflects a loose value. Untyped nil stays an invalid Value,
// which downstream code treats as the absence of a type.
func valueOf(value any) reflect.Value {
	if value == nil {
		return reflect.Value{}
	}

	return reflect.ValueOf(value)
}

// All yields the checkable bindings in parameter declaration order.
// The implicit receiver and omitted parameters are skipped, and the
// variadic parameter is flattened into one binding per element.
func (a *Args) All() iter.Seq[Bound] {
	return func(yield func(Bound) bool) {
		for _, p := range a.sig.Params() {
			if p.Implicit {
				continue
			}

			s := a.slots[p.Position]

			if p.Variadic {
				if !a.yieldVariadic(p, s, yield) {
					return
				}

				continue
			}

			if !s.supplied {
				continue
			}

			if !yield(Bound{Param: p, Name: p.Name, Value: s.value}) {
				return
			}
		}
	}
}

func (a *Args) yieldVariadic(p signature.Param, s slot, yield func(Bound) bool) bool {
	n := 0

	if s.supplied && s.value.IsValid() {
		for i := 0; i < s.value.Len(); i++ {
			b := Bound{
				Param: p,
				Name:  fmt.Sprintf("%s[%d]", p.Name, n),
				Value: s.value.Index(i),
			}
			if !yield(b) {
				return false
			}

			n++
		}
	}

	for _, v := range a.varargs {
		b := Bound{
			Param: p,
			Name:  fmt.Sprintf("%s[%d]", p.Name, n),
			Value: v,
		}
		if !yield(b) {
			return false
		}

		n++
	}

	return true
}

// Finalize materializes the input vector for a reflect call: supplied
// values are checked for assignability, omitted parameters take their
// defaults, and variadic elements are appended individually.
func (a *Args) Finalize() ([]reflect.Value, error) {
	params := a.sig.Params()
	in := make([]reflect.Value, 0, len(params)+len(a.varargs))

	var errs errors.Collection

	for _, p := range params {
		if p.Variadic {
			continue
		}

		s := a.slots[p.Position]

		switch {
		case s.supplied:
			if v, ok := conform(p.Name, p.Type, s.value, &errs); ok {
				in = append(in, v)
			}
		case p.HasDefault:
			if p.Default.IsValid() {
				in = append(in, p.Default)
			} else {
				in = append(in, reflect.Zero(p.Type))
			}
		case p.Implicit:
			errs.Add(fmt.Errorf("%w: construction routine %s needs its receiver first",
				errors.ErrMissingParam, a.sig.Name()))
		default:
			errs.Add(fmt.Errorf("%w: %q", errors.ErrMissingParam, p.Name))
		}
	}

	if a.sig.IsVariadic() {
		p := params[len(params)-1]
		elem := p.Type.Elem()

		s := a.slots[p.Position]
		if s.supplied && s.value.IsValid() {
			for i := 0; i < s.value.Len(); i++ {
				in = append(in, s.value.Index(i))
			}
		}

		for i, v := range a.varargs {
			name := fmt.Sprintf("%s[%d]", p.Name, i)
			if cv, ok := conform(name, elem, v, &errs); ok {
				in = append(in, cv)
			}
		}
	}

	if errs.HasError() {
		return nil, errs.GetError()
	}

	return in, nil
}

// conform checks that a supplied value can inhabit the parameter's
// static type, substituting a typed zero for untyped nil.
func conform(name string, t reflect.Type, v reflect.Value, errs *errors.Collection) (reflect.Value, bool) {
	if !v.IsValid() {
		if utils.CanBeNil(t) {
			return reflect.Zero(t), true
		}

		errs.Add(fmt.Errorf("%w: untyped nil for parameter %q of type %s",
			errors.ErrConfiguration, name, t))

		return reflect.Value{}, false
	}

	if !v.Type().AssignableTo(t) {
		errs.Add(fmt.Errorf("%w: argument %q of type %s is not assignable to %s",
			errors.ErrConfiguration, name, v.Type(), t))

		return reflect.Value{}, false
	}

	return v, true
}

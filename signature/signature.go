// Package signature describes checked callables. A Signature is
// derived from a function's reflect type and carries one Param per
// input: its name, static type, constraint, and optional default.
// Constraints default to the declared parameter types, so a checked
// callable needs no configuration beyond what its own signature
// states; `any` parameters are unconstrained until an option or a
// descriptor struct narrows them. Reflection does not expose
// parameter names, so params are named arg0, arg1, ... until options
// or a descriptor struct rename them.
//
// Construction routines carry an implicit receiver as their first
// input. It is named "recv", never checked, and cannot be addressed
// by options or keyword arguments.
//
// All misconfigurations are reported together at build time, wrapped
// in errors.ErrConfiguration, rather than one by one.
package signature

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/markpock/Validation/constraint"
	"github.com/markpock/Validation/errors"
	"github.com/markpock/Validation/symtab"
	"github.com/markpock/Validation/utils"
)

// Tables resolve the symbols in constraint expressions.
var _ constraint.Resolver = (*symtab.Table)(nil)

// RecvName names the implicit receiver of a construction routine.
const RecvName = "recv"

var anyType = reflect.TypeFor[any]()

// Param describes one input of a checked callable.
type Param struct {
	// Name addresses the parameter in options, keyword arguments and
	// failure messages.
	Name string

	// Position is the absolute input index. For construction routines
	// the implicit receiver occupies position 0.
	Position int

	// Type is the static type of the input. For the variadic
	// parameter it is the declared slice type.
	Type reflect.Type

	// Constraint restricts the values accepted at call time. For a
	// variadic parameter it applies to each element. It defaults to
	// the parameter's own declared type; `any` parameters are
	// universal and therefore not checked.
	Constraint constraint.Constraint

	// Default is the value used by dynamic invocation when the
	// parameter is not supplied. The zero Value with HasDefault set
	// means an untyped nil default.
	Default    reflect.Value
	HasDefault bool

	// Implicit marks the receiver of a construction routine.
	Implicit bool

	// Variadic marks the final ...T parameter.
	Variadic bool
}

// Constrained reports whether the parameter is actually checked at
// call time.
func (p Param) Constrained() bool {
	return !p.Implicit && !p.Constraint.IsAny()
}

// ElemType returns the per-value type of the parameter: the element
// type for the variadic parameter, Type itself otherwise.
func (p Param) ElemType() reflect.Type {
	if p.Variadic {
		return p.Type.Elem()
	}

	return p.Type
}

// Signature is the immutable description of one checked callable.
type Signature struct {
	name        string
	fnType      reflect.Type
	params      []Param
	byName      map[string]int
	variadic    bool
	constructor bool
}

// New derives the signature of a plain routine. Options attach names,
// constraints and defaults; every misconfiguration is collected and
// returned as a single error wrapping errors.ErrConfiguration.
func New(fn any, opts ...Option) (*Signature, error) {
	return build(fn, false, opts)
}

// NewConstructor derives the signature of a construction routine. The
// first input is the receiver under construction: it is implicit,
// never checked, and option positions count from the first explicit
// parameter.
func NewConstructor(fn any, opts ...Option) (*Signature, error) {
	return build(fn, true, opts)
}

func build(fn any, constructor bool, opts []Option) (*Signature, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("%w: %s", errors.ErrNotFunc, describe(fn))
	}

	ft := v.Type()
	if constructor && ft.NumIn() == 0 {
		return nil, fmt.Errorf("%w: construction routine %s takes no receiver",
			errors.ErrConfiguration, utils.BaseFuncName(fn))
	}

	sig := &Signature{
		name:        utils.BaseFuncName(fn),
		fnType:      ft,
		variadic:    ft.IsVariadic(),
		constructor: constructor,
	}

	offset := sig.offset()

	sig.params = make([]Param, ft.NumIn())
	for i := range sig.params {
		p := Param{
			Position: i,
			Type:     ft.In(i),
		}

		if sig.variadic && i == ft.NumIn()-1 {
			p.Variadic = true
		}

		if constructor && i == 0 {
			p.Name = RecvName
			p.Implicit = true
			p.Constraint = constraint.Any()
		} else {
			p.Name = fmt.Sprintf("arg%d", i-offset)
			// The declared type is the default constraint; Of turns an
			// `any` parameter into the universal constraint.
			p.Constraint = constraint.Of(p.ElemType())
		}

		sig.params[i] = p
	}

	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	var errs errors.Collection

	cfg.apply(sig, &errs)
	sig.validate(&errs)

	if errs.HasError() {
		return nil, errs.GetError()
	}

	sig.index()

	return sig, nil
}

func describe(fn any) string {
	if fn == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%T", fn)
}

// offset is the number of implicit leading inputs.
func (s *Signature) offset() int {
	if s.constructor {
		return 1
	}

	return 0
}

// validate runs the build-time checks over the configured params,
// collecting every failure.
func (s *Signature) validate(errs *errors.Collection) {
	seen := make(map[string]int, len(s.params))

	for _, p := range s.params {
		if p.Name == "" {
			errs.Add(fmt.Errorf("%w: parameter %d has an empty name", errors.ErrConfiguration, p.Position))

			continue
		}

		if prev, dup := seen[p.Name]; dup {
			errs.Add(fmt.Errorf("%w: duplicate parameter name %q at positions %d and %d",
				errors.ErrConfiguration, p.Name, prev, p.Position))
		} else {
			seen[p.Name] = p.Position
		}

		if p.Constrained() && !p.Constraint.Admits(p.ElemType()) {
			errs.Add(fmt.Errorf("%w: parameter %q of type %s can never satisfy %s",
				errors.ErrBadConstraint, p.Name, constraint.Name(p.ElemType()), p.Constraint))
		}

		if p.HasDefault {
			s.validateDefault(p, errs)
		}
	}
}

func (s *Signature) validateDefault(p Param, errs *errors.Collection) {
	if !p.Default.IsValid() {
		if !utils.CanBeNil(p.Type) {
			errs.Add(fmt.Errorf("%w: nil default for non-nilable parameter %q of type %s",
				errors.ErrBadDefault, p.Name, constraint.Name(p.Type)))
		} else if !p.Constraint.MatchesValue(reflect.Value{}) {
			errs.Add(fmt.Errorf("%w: nil default for parameter %q violates %s",
				errors.ErrBadDefault, p.Name, p.Constraint))
		}

		return
	}

	if !p.Default.Type().AssignableTo(p.Type) {
		errs.Add(fmt.Errorf("%w: default of type %s is not assignable to parameter %q of type %s",
			errors.ErrBadDefault, constraint.Name(p.Default.Type()), p.Name, constraint.Name(p.Type)))

		return
	}

	if !p.Constraint.MatchesValue(p.Default) {
		errs.Add(fmt.Errorf("%w: default for parameter %q violates %s",
			errors.ErrBadDefault, p.Name, p.Constraint))
	}
}

// index builds the keyword lookup. The implicit receiver is excluded,
// it cannot be addressed by name.
func (s *Signature) index() {
	s.byName = make(map[string]int, len(s.params))

	for _, p := range s.params {
		if !p.Implicit {
			s.byName[p.Name] = p.Position
		}
	}
}

// Name returns the diagnostic name of the callable.
func (s *Signature) Name() string {
	return s.name
}

// Type returns the reflect type of the callable.
func (s *Signature) Type() reflect.Type {
	return s.fnType
}

// IsVariadic reports whether the final parameter is ...T.
func (s *Signature) IsVariadic() bool {
	return s.variadic
}

// IsConstructor reports whether the callable is a construction
// routine with an implicit receiver.
func (s *Signature) IsConstructor() bool {
	return s.constructor
}

// NumParams returns the number of explicit parameters.
func (s *Signature) NumParams() int {
	return len(s.params) - s.offset()
}

// Params returns every parameter in positional order, the implicit
// receiver included.
func (s *Signature) Params() []Param {
	return slices.Clone(s.params)
}

// Param looks a parameter up by name. The implicit receiver is not
// addressable.
func (s *Signature) Param(name string) (Param, bool) {
	pos, ok := s.byName[name]
	if !ok {
		return Param{}, false
	}

	return s.params[pos], true
}

// At returns the i-th explicit parameter.
func (s *Signature) At(i int) (Param, bool) {
	pos := i + s.offset()
	if i < 0 || pos >= len(s.params) {
		return Param{}, false
	}

	return s.params[pos], true
}

// String renders the signature for diagnostics. Constrained
// parameters show their constraint in place of the static type.
func (s *Signature) String() string {
	var b strings.Builder

	b.WriteString("func ")
	b.WriteString(s.name)
	b.WriteByte('(')

	first := true

	for _, p := range s.params {
		if p.Implicit {
			continue
		}

		if !first {
			b.WriteString(", ")
		}

		first = false

		b.WriteString(p.Name)
		b.WriteByte(' ')

		if p.Variadic {
			b.WriteString("...")
			b.WriteString(variadicType(p))
		} else {
			b.WriteString(paramType(p))
		}

		if p.HasDefault {
			b.WriteString(" = ")
			b.WriteString(renderValue(p.Default))
		}
	}

	b.WriteByte(')')
	s.renderOuts(&b)

	return b.String()
}

func paramType(p Param) string {
	if p.Constraint.IsAny() {
		return constraint.Name(p.Type)
	}

	return p.Constraint.String()
}

func variadicType(p Param) string {
	if p.Constraint.IsAny() {
		return constraint.Name(p.Type.Elem())
	}

	rendered := p.Constraint.String()
	if strings.Contains(rendered, " | ") {
		return "(" + rendered + ")"
	}

	return rendered
}

func renderValue(v reflect.Value) string {
	if !v.IsValid() {
		return "nil"
	}

	if v.Kind() == reflect.String {
		return fmt.Sprintf("%q", v.Interface())
	}

	return fmt.Sprintf("%v", v.Interface())
}

func (s *Signature) renderOuts(b *strings.Builder) {
	switch s.fnType.NumOut() {
	case 0:
	case 1:
		b.WriteByte(' ')
		b.WriteString(constraint.Name(s.fnType.Out(0)))
	default:
		b.WriteString(" (")

		for i := 0; i < s.fnType.NumOut(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(constraint.Name(s.fnType.Out(i)))
		}

		b.WriteByte(')')
	}
}

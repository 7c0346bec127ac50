package signature

import (
	"fmt"
	"reflect"

	"github.com/markpock/Validation/constraint"
	"github.com/markpock/Validation/errors"
	"github.com/markpock/Validation/symtab"
)

// Option configures a signature while it is built. Options only
// record directives; they are applied in a fixed order (descriptor
// struct, then names, then constraints, then defaults), so the order
// options are passed in does not matter across concerns. Within one
// concern, later options override earlier ones.
type Option func(*config)

// target addresses an explicit parameter either by position or, once
// names are settled, by name.
type target struct {
	pos    int
	name   string
	byName bool
}

func (t target) String() string {
	if t.byName {
		return fmt.Sprintf("%q", t.name)
	}

	return fmt.Sprintf("at position %d", t.pos)
}

type rename struct {
	pos  int
	name string
}

type constraintDirective struct {
	t target
	c constraint.Constraint
}

type exprDirective struct {
	t    target
	expr string
}

type defaultDirective struct {
	t     target
	value any
}

type config struct {
	name        string
	descriptor  reflect.Type
	nameSeq     []string
	renames     []rename
	table       *symtab.Table
	specs       []any
	constraints []constraintDirective
	exprs       []exprDirective
	defaults    []defaultDirective
}

// WithName sets the display name of the callable, as used in failure
// messages. The default is the runtime name of the function.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithNames names the explicit parameters in positional order. Fewer
// names than parameters leaves the rest on their generated names,
// more is a configuration error.
func WithNames(names ...string) Option {
	return func(c *config) {
		c.nameSeq = names
	}
}

// WithRename renames the explicit parameter at the given position.
func WithRename(position int, name string) Option {
	return func(c *config) {
		c.renames = append(c.renames, rename{pos: position, name: name})
	}
}

// WithTable sets the symbol table used to resolve constraint
// expressions. Defaults to symtab.Default().
func WithTable(t *symtab.Table) Option {
	return func(c *config) {
		c.table = t
	}
}

// WithConstraint attaches a constraint to the named parameter. On the
// variadic parameter the constraint applies to each element.
func WithConstraint(name string, cons constraint.Constraint) Option {
	return func(c *config) {
		c.constraints = append(c.constraints, constraintDirective{
			t: target{name: name, byName: true},
			c: cons,
		})
	}
}

// WithConstraintAt is WithConstraint addressed by explicit position.
func WithConstraintAt(position int, cons constraint.Constraint) Option {
	return func(c *config) {
		c.constraints = append(c.constraints, constraintDirective{
			t: target{pos: position},
			c: cons,
		})
	}
}

// WithConstraints attaches loose constraint specs to the explicit
// parameters in positional order, classified by constraint.From: a
// Constraint, a reflect.Type, a value prototype, a []any union, or
// nil to leave the parameter unchecked. Fewer specs than parameters
// keeps the rest on their declared types.
func WithConstraints(specs ...any) Option {
	return func(c *config) {
		c.specs = specs
	}
}

// WithConstraintExpr attaches a textual constraint expression, such
// as "int | float64", to the named parameter. The expression is
// resolved once, through the signature's symbol table.
func WithConstraintExpr(name, expr string) Option {
	return func(c *config) {
		c.exprs = append(c.exprs, exprDirective{
			t:    target{name: name, byName: true},
			expr: expr,
		})
	}
}

// WithConstraintExprAt is WithConstraintExpr addressed by explicit
// position.
func WithConstraintExprAt(position int, expr string) Option {
	return func(c *config) {
		c.exprs = append(c.exprs, exprDirective{
			t:    target{pos: position},
			expr: expr,
		})
	}
}

// WithDefault gives the named parameter a default value for dynamic
// invocation. A nil value is an untyped nil default and requires a
// nilable parameter type.
func WithDefault(name string, value any) Option {
	return func(c *config) {
		c.defaults = append(c.defaults, defaultDirective{
			t:     target{name: name, byName: true},
			value: value,
		})
	}
}

// WithDefaultAt is WithDefault addressed by explicit position.
func WithDefaultAt(position int, value any) Option {
	return func(c *config) {
		c.defaults = append(c.defaults, defaultDirective{
			t:     target{pos: position},
			value: value,
		})
	}
}

// apply folds the recorded directives into the signature, phase by
// phase, collecting every failure.
func (c *config) apply(sig *Signature, errs *errors.Collection) {
	offset := sig.offset()

	if c.name != "" {
		sig.name = c.name
	}

	c.applyDescriptor(sig, errs)

	if len(c.nameSeq) > sig.NumParams() {
		errs.Add(fmt.Errorf("%w: %d names for %d parameters",
			errors.ErrConfiguration, len(c.nameSeq), sig.NumParams()))
	} else {
		for i, name := range c.nameSeq {
			sig.params[offset+i].Name = name
		}
	}

	for _, r := range c.renames {
		pos, ok := sig.explicitAt(r.pos)
		if !ok {
			errs.Add(fmt.Errorf("%w: no parameter at position %d", errors.ErrUnknownParam, r.pos))

			continue
		}

		sig.params[pos].Name = r.name
	}

	if len(c.specs) > sig.NumParams() {
		errs.Add(fmt.Errorf("%w: %d constraint specs for %d parameters",
			errors.ErrConfiguration, len(c.specs), sig.NumParams()))
	} else {
		for i, spec := range c.specs {
			cons, err := constraint.From(spec)
			if err != nil {
				errs.Add(fmt.Errorf("parameter %q: %w", sig.params[offset+i].Name, err))

				continue
			}

			sig.params[offset+i].Constraint = cons
		}
	}

	table := c.table
	if table == nil {
		table = symtab.Default()
	}

	for _, d := range c.constraints {
		pos, ok := c.resolve(sig, d.t)
		if !ok {
			errs.Add(fmt.Errorf("%w: constraint for parameter %s", errors.ErrUnknownParam, d.t))

			continue
		}

		sig.params[pos].Constraint = d.c
	}

	for _, d := range c.exprs {
		pos, ok := c.resolve(sig, d.t)
		if !ok {
			errs.Add(fmt.Errorf("%w: constraint for parameter %s", errors.ErrUnknownParam, d.t))

			continue
		}

		cons, err := constraint.Parse(d.expr, table)
		if err != nil {
			errs.Add(fmt.Errorf("parameter %q: %w", sig.params[pos].Name, err))

			continue
		}

		sig.params[pos].Constraint = cons
	}

	for _, d := range c.defaults {
		pos, ok := c.resolve(sig, d.t)
		if !ok {
			errs.Add(fmt.Errorf("%w: default for parameter %s", errors.ErrUnknownParam, d.t))

			continue
		}

		p := &sig.params[pos]
		if p.Variadic {
			errs.Add(fmt.Errorf("%w: variadic parameter %q cannot have a default",
				errors.ErrBadDefault, p.Name))

			continue
		}

		if d.value == nil {
			p.Default = reflect.Value{}
		} else {
			p.Default = reflect.ValueOf(d.value)
		}

		p.HasDefault = true
	}
}

// resolve maps a directive target to an absolute parameter position.
// The implicit receiver is never addressable.
func (c *config) resolve(sig *Signature, t target) (int, bool) {
	if t.byName {
		for _, p := range sig.params {
			if !p.Implicit && p.Name == t.name {
				return p.Position, true
			}
		}

		return 0, false
	}

	return sig.explicitAt(t.pos)
}

// explicitAt maps an explicit position to the absolute one.
func (s *Signature) explicitAt(i int) (int, bool) {
	pos := i + s.offset()
	if i < 0 || pos >= len(s.params) {
		return 0, false
	}

	return pos, true
}

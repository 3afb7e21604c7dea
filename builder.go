// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rules

import (
	"context"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Builder is the fluent declaration surface over a [Rule]. Constraint
// methods append units; refinement methods ([Builder.WithMessage],
// [Builder.WithCode], ...) target the most recently added unit.
//
// Builders are declaration-time only and are not safe for concurrent use;
// the rules they produce are, once declaration is done.
//
// Example:
//
//	rules.RuleFor(v, surname).
//	    NotEmpty().WithMessage("surname is required").
//	    Unit(rules.Length[Person](5, 10)).WithCode("surname_length")
type Builder[T, P any] struct {
	rule *Rule[T, P]
}

// RuleFor declares a rule for the member identified by accessor, registers
// it on the validator, and returns a builder for it.
func RuleFor[T, P any](v *Validator[T], accessor Accessor[T, P]) *Builder[T, P] {
	r := NewRule(accessor)
	v.Add(r)

	return &Builder[T, P]{rule: r}
}

// RuleForModel declares a model-level rule receiving the whole instance as
// its value, registers it on the validator, and returns a builder for it.
func RuleForModel[T any](v *Validator[T]) *Builder[T, T] {
	r := NewModelRule[T]()
	v.Add(r)

	return &Builder[T, T]{rule: r}
}

// BuildRule declares a standalone rule without a validator, for callers that
// drive [Rule.Run] directly.
func BuildRule[T, P any](accessor Accessor[T, P]) *Builder[T, P] {
	return &Builder[T, P]{rule: NewRule(accessor)}
}

// Rule returns the underlying rule.
func (b *Builder[T, P]) Rule() *Rule[T, P] {
	return b.rule
}

// Unit appends any validator unit to the rule.
func (b *Builder[T, P]) Unit(u Unit[T, P]) *Builder[T, P] {
	b.rule.AddUnit(u)
	return b
}

// Must appends a predicate-backed unit (see [Must]).
func (b *Builder[T, P]) Must(fn func(vctx *Context[T], value P) bool) *Builder[T, P] {
	return b.Unit(Must[T, P](fn))
}

// MustContext appends an asynchronous predicate-backed unit
// (see [MustWithContext]).
func (b *Builder[T, P]) MustContext(fn func(ctx context.Context, vctx *Context[T], value P) (bool, error)) *Builder[T, P] {
	return b.Unit(MustWithContext[T, P](fn))
}

// NotNil appends a presence unit rejecting nil values (see [NotNil]).
func (b *Builder[T, P]) NotNil() *Builder[T, P] {
	return b.Unit(NotNil[T, P]())
}

// NotEmpty appends a presence unit rejecting nil, zero, and empty values
// (see [NotEmpty]).
func (b *Builder[T, P]) NotEmpty() *Builder[T, P] {
	return b.Unit(NotEmpty[T, P]())
}

// Tag appends a go-playground/validator tag-syntax unit (see [Tag]).
func (b *Builder[T, P]) Tag(tag string) *Builder[T, P] {
	return b.Unit(Tag[T, P](tag))
}

// Schema appends a JSON Schema unit checking the member against a compiled
// schema (see [Schema]).
func (b *Builder[T, P]) Schema(schema *jsonschema.Schema) *Builder[T, P] {
	return b.Unit(Schema[T, P](schema))
}

// WithMessage overrides the message template of the most recent unit.
// Templates may interpolate message arguments: "{PropertyName} is bad".
func (b *Builder[T, P]) WithMessage(template string) *Builder[T, P] {
	b.rule.WithMessage(template)
	return b
}

// WithCode overrides the failure code of the most recent unit.
func (b *Builder[T, P]) WithCode(code string) *Builder[T, P] {
	b.rule.WithCode(code)
	return b
}

// WithSeverity overrides the failure severity of the most recent unit.
func (b *Builder[T, P]) WithSeverity(s Severity) *Builder[T, P] {
	b.rule.WithSeverity(s)
	return b
}

// WithState attaches caller-defined state to failures of the most recent unit.
func (b *Builder[T, P]) WithState(state any) *Builder[T, P] {
	b.rule.WithState(state)
	return b
}

// When gates units on a synchronous condition. Without a scope argument it
// applies to all units declared so far and to dependent rules
// ([ApplyToAllUnits]); pass [ApplyToCurrentUnit] to gate only the most
// recent unit.
func (b *Builder[T, P]) When(cond Condition[T], scope ...ConditionScope) *Builder[T, P] {
	b.rule.ApplyCondition(cond, scopeOf(scope))
	return b
}

// Unless is [Builder.When] with the condition negated.
func (b *Builder[T, P]) Unless(cond Condition[T], scope ...ConditionScope) *Builder[T, P] {
	return b.When(func(vctx *Context[T]) bool { return !cond(vctx) }, scope...)
}

// WhenContext gates units on an asynchronous condition.
func (b *Builder[T, P]) WhenContext(cond ConditionContext[T], scope ...ConditionScope) *Builder[T, P] {
	b.rule.ApplyConditionContext(cond, scopeOf(scope))
	return b
}

// UnlessContext is [Builder.WhenContext] with the condition negated.
func (b *Builder[T, P]) UnlessContext(cond ConditionContext[T], scope ...ConditionScope) *Builder[T, P] {
	return b.WhenContext(func(ctx context.Context, vctx *Context[T]) (bool, error) {
		ok, err := cond(ctx, vctx)
		return !ok, err
	}, scope...)
}

// SharedWhen gates the whole rule, and its dependent rules, on a condition
// checked once per invocation (see [Rule.ApplySharedCondition]).
func (b *Builder[T, P]) SharedWhen(cond Condition[T]) *Builder[T, P] {
	b.rule.ApplySharedCondition(cond)
	return b
}

// SharedWhenContext is the asynchronous counterpart of [Builder.SharedWhen].
func (b *Builder[T, P]) SharedWhenContext(cond ConditionContext[T]) *Builder[T, P] {
	b.rule.ApplySharedConditionContext(cond)
	return b
}

// WithName fixes the rule's display name.
func (b *Builder[T, P]) WithName(name string) *Builder[T, P] {
	b.rule.SetDisplayName(name)
	return b
}

// WithNameFunc installs a display-name factory evaluated per run.
func (b *Builder[T, P]) WithNameFunc(f func(*Context[T]) string) *Builder[T, P] {
	b.rule.SetDisplayNameFunc(f)
	return b
}

// Cascade fixes the rule's cascade mode.
func (b *Builder[T, P]) Cascade(c Cascade) *Builder[T, P] {
	b.rule.SetCascade(c)
	return b
}

// InRuleSets tags the rule with rule-set labels.
func (b *Builder[T, P]) InRuleSets(names ...string) *Builder[T, P] {
	b.rule.SetRuleSets(names...)
	return b
}

// OnFailure installs the rule's failure callback.
func (b *Builder[T, P]) OnFailure(fn func(instance T, failures []Failure)) *Builder[T, P] {
	b.rule.SetOnFailure(fn)
	return b
}

// DependentRules attaches child rules that run only when this rule passes.
func (b *Builder[T, P]) DependentRules(children ...RuleRunner[T]) *Builder[T, P] {
	b.rule.AddDependentRules(children...)
	return b
}

func scopeOf(scope []ConditionScope) ConditionScope {
	if len(scope) > 0 {
		return scope[len(scope)-1]
	}

	return ApplyToAllUnits
}

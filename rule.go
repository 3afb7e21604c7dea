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
	"sync/atomic"
)

// Reserved rule-set selector names.
const (
	// RuleSetDefault selects rules without rule-set tags.
	RuleSetDefault = "default"

	// RuleSetAll selects every rule regardless of tags.
	RuleSetAll = "*"
)

// Cascade controls whether a rule keeps evaluating units after one fails.
type Cascade int

const (
	// CascadeContinue evaluates every unit and collects all failures.
	CascadeContinue Cascade = iota

	// CascadeStopOnFirstFailure stops the unit loop at the first failure.
	CascadeStopOnFirstFailure
)

// String returns the name of the cascade mode.
func (c Cascade) String() string {
	if c == CascadeStopOnFirstFailure {
		return "stop_on_first_failure"
	}

	return "continue"
}

// defaultCascade is the process-wide cascade default. Rules without an
// explicit override read through it at evaluation time, so changing the
// default affects already-declared rules.
var defaultCascade atomic.Int32

// SetDefaultCascade changes the process-wide cascade default.
// Safe for concurrent use, though it is normally set once at startup.
func SetDefaultCascade(c Cascade) {
	defaultCascade.Store(int32(c))
}

// DefaultCascade returns the process-wide cascade default.
func DefaultCascade() Cascade {
	return Cascade(defaultCascade.Load())
}

// Unit is a single constraint check against one value. Implementations
// report validity from Validate and, on failure, record message-formatting
// arguments on the context before returning false.
//
// A Unit must not panic to signal an invalid value; returning false is the
// only failure path. A panicking Validate indicates a programming defect and
// propagates uncaught to the Validate caller.
type Unit[T, P any] interface {
	// Name returns the unit's stable kind name, used as the default failure
	// code and for diagnostics (e.g. "not_empty", "inclusive_between").
	Name() string

	// Validate reports whether value satisfies the constraint.
	Validate(vctx *Context[T], value P) bool
}

// UnitWithContext is a [Unit] whose evaluation may suspend: the context-aware
// execution path prefers ValidateContext when a unit implements it.
// ValidateContext must observe ctx before starting slow work and return
// ctx.Err() on cancellation.
type UnitWithContext[T, P any] interface {
	Unit[T, P]

	ValidateContext(ctx context.Context, vctx *Context[T], value P) (bool, error)
}

// messageTemplater is implemented by units that carry a default message
// template. Units without one fall back to a generic message.
type messageTemplater interface {
	MessageTemplate() string
}

// defaultMessageTemplate is used when a unit has no template and no override.
const defaultMessageTemplate = "the specified condition was not met for '{PropertyName}'"

// component wraps one unit together with its per-unit condition and failure
// metadata overrides. Conditions live here rather than on the unit so a unit
// value stays reusable across rules.
type component[T, P any] struct {
	unit     Unit[T, P]
	cond     condition[T]
	message  string
	code     string
	severity Severity
	state    any
}

// RuleRunner is the type-erased face of a [Rule], used for dependent rules
// and for the aggregate [Validator]'s rule list: children validating
// different member types all hang off the same parent.
type RuleRunner[T any] interface {
	// Run executes the rule synchronously and returns its failures.
	Run(vctx *Context[T]) []Failure

	// RunContext executes the rule on the context-aware path. A non-nil
	// error aborts the run; the in-flight rule's partial failures are
	// discarded, never returned alongside the error.
	RunContext(ctx context.Context, vctx *Context[T]) ([]Failure, error)

	// ApplyCondition composes a synchronous condition onto the rule's units
	// per the given scope (see [ConditionScope]).
	ApplyCondition(cond Condition[T], scope ConditionScope)

	// ApplyConditionContext composes an asynchronous condition onto the
	// rule's units per the given scope.
	ApplyConditionContext(cond ConditionContext[T], scope ConditionScope)
}

// Rule is the composition unit of the engine: an ordered list of validator
// units bound to one member of T (or to the whole instance), together with a
// cascade policy, shared conditions, rule-set tags, a display name, and an
// optional tree of dependent rules that run only when this rule passes.
//
// Rules are declared once, typically at startup, and then invoked
// concurrently by many Validate calls. Mutating a rule (adding, replacing,
// or removing units, changing names or conditions) while a Validate call is
// in flight on the same rule is not supported; declaration and execution
// must not overlap.
type Rule[T, P any] struct {
	accessor   *Accessor[T, P]
	components []*component[T, P]
	cascade    *Cascade
	shared     condition[T]
	ruleSets   []string
	name       string
	nameFunc   func(*Context[T]) string
	onFailure  func(instance T, failures []Failure)
	dependent  []RuleRunner[T]
}

// NewRule declares a rule bound to the member identified by accessor.
func NewRule[T, P any](accessor Accessor[T, P]) *Rule[T, P] {
	return &Rule[T, P]{accessor: &accessor}
}

// NewModelRule declares a model-level rule: it has no member accessor and
// receives the whole instance as its value.
func NewModelRule[T any]() *Rule[T, T] {
	return &Rule[T, T]{}
}

// AddUnit appends a unit; units execute in the order they were added.
func (r *Rule[T, P]) AddUnit(u Unit[T, P]) {
	if u == nil {
		panic("rules: cannot add a nil unit")
	}
	r.components = append(r.components, &component[T, P]{unit: u, severity: SeverityError})
}

// ReplaceUnit swaps old for replacement in place, preserving the unit's
// position but resetting its condition and metadata overrides. It is a no-op
// when old is not attached to the rule.
func (r *Rule[T, P]) ReplaceUnit(old, replacement Unit[T, P]) {
	if replacement == nil {
		panic("rules: cannot replace with a nil unit")
	}
	for _, c := range r.components {
		if c.unit == old {
			*c = component[T, P]{unit: replacement, severity: SeverityError}
			return
		}
	}
}

// RemoveUnit detaches a unit. It is a no-op when the unit is not attached.
func (r *Rule[T, P]) RemoveUnit(u Unit[T, P]) {
	for i, c := range r.components {
		if c.unit == u {
			r.components = append(r.components[:i], r.components[i+1:]...)
			return
		}
	}
}

// ClearUnits detaches every unit from the rule.
func (r *Rule[T, P]) ClearUnits() {
	r.components = nil
}

// Units returns the attached units in execution order.
func (r *Rule[T, P]) Units() []Unit[T, P] {
	out := make([]Unit[T, P], len(r.components))
	for i, c := range r.components {
		out[i] = c.unit
	}

	return out
}

// CurrentUnit returns the most recently added unit.
// Panics with [ErrNoUnits] when the rule has no units; asking for the
// current unit of an empty rule is a declaration bug.
func (r *Rule[T, P]) CurrentUnit() Unit[T, P] {
	return r.currentComponent().unit
}

func (r *Rule[T, P]) currentComponent() *component[T, P] {
	if len(r.components) == 0 {
		panic(ErrNoUnits)
	}

	return r.components[len(r.components)-1]
}

// SetCascade fixes the rule's cascade mode, overriding the process-wide
// default for this rule only.
func (r *Rule[T, P]) SetCascade(c Cascade) {
	r.cascade = &c
}

// Cascade resolves the rule's effective cascade mode. Without an explicit
// override it reads the process-wide default at evaluation time, so a
// default changed after declaration still takes effect.
func (r *Rule[T, P]) Cascade() Cascade {
	if r.cascade != nil {
		return *r.cascade
	}

	return DefaultCascade()
}

// SetRuleSets tags the rule with rule-set labels. A tagged rule runs only
// when the active selector intersects its tags (see [WithRuleSets]).
func (r *Rule[T, P]) SetRuleSets(names ...string) {
	r.ruleSets = names
}

// RuleSets returns the rule's rule-set tags.
func (r *Rule[T, P]) RuleSets() []string {
	return r.ruleSets
}

// SetDisplayName fixes the rule's display name and clears any display-name
// factory; the two are mutually exclusive and the last writer wins.
func (r *Rule[T, P]) SetDisplayName(name string) {
	r.name = name
	r.nameFunc = nil
}

// SetDisplayNameFunc installs a display-name factory evaluated per run and
// clears any fixed display name.
func (r *Rule[T, P]) SetDisplayNameFunc(f func(*Context[T]) string) {
	r.nameFunc = f
	r.name = ""
}

// DisplayName resolves the rule's display name: factory, then fixed name,
// then the member name split at word boundaries ("GenderString" becomes
// "Gender String"), then empty for an unnamed model-level rule.
func (r *Rule[T, P]) DisplayName(vctx *Context[T]) string {
	switch {
	case r.nameFunc != nil:
		return r.nameFunc(vctx)
	case r.name != "":
		return r.name
	case r.accessor != nil:
		return splitPascalCase(r.accessor.Name())
	default:
		return ""
	}
}

// PropertyName returns the raw member name the rule is bound to, or empty
// for a model-level rule.
func (r *Rule[T, P]) PropertyName() string {
	if r.accessor == nil {
		return ""
	}

	return r.accessor.Name()
}

// ApplyCondition composes a synchronous condition with AND semantics onto
// the rule's units. With [ApplyToAllUnits] it targets every attached unit
// and propagates to all dependent rules; with [ApplyToCurrentUnit] only the
// most recently added unit (panics with [ErrNoUnits] when there is none).
func (r *Rule[T, P]) ApplyCondition(cond Condition[T], scope ConditionScope) {
	if scope == ApplyToCurrentUnit {
		r.currentComponent().cond.combineSync(cond)
		return
	}

	for _, c := range r.components {
		c.cond.combineSync(cond)
	}
	for _, d := range r.dependent {
		d.ApplyCondition(cond, ApplyToAllUnits)
	}
}

// ApplyConditionContext is the asynchronous counterpart of [Rule.ApplyCondition].
func (r *Rule[T, P]) ApplyConditionContext(cond ConditionContext[T], scope ConditionScope) {
	if scope == ApplyToCurrentUnit {
		r.currentComponent().cond.combineAsync(cond)
		return
	}

	for _, c := range r.components {
		c.cond.combineAsync(cond)
	}
	for _, d := range r.dependent {
		d.ApplyConditionContext(cond, ApplyToAllUnits)
	}
}

// ApplySharedCondition composes a synchronous condition checked once per
// rule invocation, before any unit runs. A shared condition that is false
// skips the entire rule and its dependent rules without evaluating any
// unit's own condition. Panics with [ErrMixedConditionKinds] if the rule
// already carries an asynchronous shared condition.
func (r *Rule[T, P]) ApplySharedCondition(cond Condition[T]) {
	r.shared.combineSync(cond)
}

// ApplySharedConditionContext is the asynchronous counterpart of
// [Rule.ApplySharedCondition]. Panics with [ErrMixedConditionKinds] if the
// rule already carries a synchronous shared condition.
func (r *Rule[T, P]) ApplySharedConditionContext(cond ConditionContext[T]) {
	r.shared.combineAsync(cond)
}

// SetOnFailure installs a callback invoked once per validated instance when
// the rule's own units produced at least one failure. The callback receives
// the instance and the rule's failures, excluding dependent-rule failures.
// Panics raised by the callback propagate to the Validate caller.
func (r *Rule[T, P]) SetOnFailure(fn func(instance T, failures []Failure)) {
	r.onFailure = fn
}

// AddDependentRules attaches child rules that execute, in order, only when
// this rule produced zero failures. Dependent rules form a tree traversed
// depth-first at evaluation time.
func (r *Rule[T, P]) AddDependentRules(children ...RuleRunner[T]) {
	r.dependent = append(r.dependent, children...)
}

// DependentRules returns the attached dependent rules in execution order.
func (r *Rule[T, P]) DependentRules() []RuleRunner[T] {
	return r.dependent
}

// WithMessage overrides the message template of the most recently added
// unit. Panics with [ErrNoUnits] when the rule has no units.
func (r *Rule[T, P]) WithMessage(template string) {
	r.currentComponent().message = template
}

// WithCode overrides the failure code of the most recently added unit.
func (r *Rule[T, P]) WithCode(code string) {
	r.currentComponent().code = code
}

// WithSeverity overrides the failure severity of the most recently added unit.
func (r *Rule[T, P]) WithSeverity(s Severity) {
	r.currentComponent().severity = s
}

// WithState attaches caller-defined state to failures of the most recently
// added unit.
func (r *Rule[T, P]) WithState(state any) {
	r.currentComponent().state = state
}

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

import "context"

// Run executes the rule synchronously against the context and returns its
// failures in order: this rule's units in declaration order, then dependent
// rules in declaration order.
//
// Execution per invocation:
//
//  1. Rules whose rule-set tags do not match the active selector are skipped.
//  2. A false shared condition skips the rule and its dependent rules.
//  3. The value is resolved through the member accessor, or is the instance
//     itself for a model-level rule.
//  4. Units run in declaration order. A unit whose own condition is false is
//     skipped without affecting cascade. Under [CascadeStopOnFirstFailure]
//     the loop stops at the first failure.
//  5. Dependent rules run only when this rule produced zero failures; a
//     cascade short-circuit counts as a failed rule and skips them too.
//  6. The OnFailure callback, if set, fires once when the rule's own units
//     produced at least one failure.
//
// Run panics with [ErrAsyncRunInvokedSynchronously] if the rule carries an
// asynchronous condition or unit anywhere on its evaluation path; such rule
// chains must use [Rule.RunContext].
func (r *Rule[T, P]) Run(vctx *Context[T]) []Failure {
	if !vctx.selectorMatches(r.ruleSets) {
		return nil
	}
	if !r.shared.holds(vctx) {
		return nil
	}

	value := r.resolveValue(vctx)

	var failures []Failure
	for _, c := range r.components {
		if !c.cond.holds(vctx) {
			continue
		}

		vctx.clearArgs()
		if !c.unit.Validate(vctx, value) {
			failures = append(failures, r.newFailure(vctx, c, value))
			if r.Cascade() == CascadeStopOnFirstFailure {
				break
			}
		}
	}

	if len(failures) > 0 {
		if r.onFailure != nil {
			r.onFailure(vctx.instance, failures)
		}

		return failures
	}

	for _, d := range r.dependent {
		failures = append(failures, d.Run(vctx)...)
	}

	return failures
}

// RunContext executes the rule on the context-aware path. It mirrors
// [Rule.Run] exactly (same ordering, same cascade and dependent-rule
// semantics) but evaluates asynchronous conditions and units, observing
// ctx before each suspension point.
//
// On cancellation (or any error from an asynchronous condition or unit) the
// in-flight rule's partial failures are discarded and the error is returned;
// a cancelled evaluation never yields a truncated failure list.
//
// For rule graphs with no asynchronous conditions or units, RunContext
// produces the identical failure sequence to Run.
func (r *Rule[T, P]) RunContext(ctx context.Context, vctx *Context[T]) ([]Failure, error) {
	if !vctx.selectorMatches(r.ruleSets) {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prevCtx := vctx.ctx
	vctx.ctx = ctx
	defer func() { vctx.ctx = prevCtx }()

	ok, err := r.shared.holdsContext(ctx, vctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	value := r.resolveValue(vctx)

	var failures []Failure
	for _, c := range r.components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := c.cond.holdsContext(ctx, vctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		vctx.clearArgs()
		valid, err := r.validateUnit(ctx, vctx, c, value)
		if err != nil {
			return nil, err
		}
		if !valid {
			failures = append(failures, r.newFailure(vctx, c, value))
			if r.Cascade() == CascadeStopOnFirstFailure {
				break
			}
		}
	}

	if len(failures) > 0 {
		if r.onFailure != nil {
			r.onFailure(vctx.instance, failures)
		}

		return failures, nil
	}

	for _, d := range r.dependent {
		dependentFailures, err := d.RunContext(ctx, vctx)
		if err != nil {
			return nil, err
		}
		failures = append(failures, dependentFailures...)
	}

	return failures, nil
}

// validateUnit invokes one unit, preferring its context-aware form.
func (r *Rule[T, P]) validateUnit(ctx context.Context, vctx *Context[T], c *component[T, P], value P) (bool, error) {
	if uc, ok := c.unit.(UnitWithContext[T, P]); ok {
		return uc.ValidateContext(ctx, vctx, value)
	}

	return c.unit.Validate(vctx, value), nil
}

// resolveValue reads the member value, or returns the whole instance for a
// model-level rule.
func (r *Rule[T, P]) resolveValue(vctx *Context[T]) P {
	if r.accessor != nil {
		return r.accessor.Get(vctx.instance)
	}

	// Model-level rules are always Rule[T, T]; the conversion through any
	// recovers the static type lost to the P parameter.
	return any(vctx.instance).(P)
}

// newFailure builds the failure record for one failed unit, reading the
// message-formatting arguments the unit recorded during Validate.
func (r *Rule[T, P]) newFailure(vctx *Context[T], c *component[T, P], value P) Failure {
	name := r.DisplayName(vctx)
	vctx.SetArg(ArgPropertyName, name)
	vctx.SetArg(ArgPropertyValue, value)

	template := c.message
	if template == "" {
		if mt, ok := c.unit.(messageTemplater); ok {
			template = mt.MessageTemplate()
		} else {
			template = defaultMessageTemplate
		}
	}

	code := c.code
	if code == "" {
		code = c.unit.Name()
	}

	return Failure{
		PropertyName:   name,
		Message:        formatMessage(template, vctx.args),
		AttemptedValue: value,
		Code:           code,
		Severity:       c.severity,
		State:          c.state,
	}
}

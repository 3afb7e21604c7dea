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

// Validator aggregates rules for one object type and drives a validation
// call across them in declaration order.
//
// Declare all rules before the first Validate call; after that a Validator
// is safe for concurrent use by multiple goroutines, each call getting its
// own [Context]. Mutating rules concurrently with Validate calls is not
// supported (single-writer, many-reader discipline).
//
// Example:
//
//	v := rules.New[Person]()
//	rules.RuleFor(v, surname).Unit(rules.Length[Person](5, 10))
//	result := v.Validate(person)
type Validator[T any] struct {
	rules []RuleRunner[T]
}

// New creates an empty [Validator] for T.
func New[T any]() *Validator[T] {
	return &Validator[T]{}
}

// Add appends rules; rules execute in the order they were added.
func (v *Validator[T]) Add(rules ...RuleRunner[T]) {
	v.rules = append(v.rules, rules...)
}

// Rules returns the validator's rules in execution order.
func (v *Validator[T]) Rules() []RuleRunner[T] {
	return v.rules
}

// Validate runs every matching rule synchronously against instance and
// collects the failures in rule-declaration order.
//
// Validate panics with [ErrAsyncRunInvokedSynchronously] if any rule
// carries asynchronous conditions or units; use [Validator.ValidateContext]
// for those.
func (v *Validator[T]) Validate(instance T, opts ...RunOption) *Result {
	vctx := NewContext(instance, opts...)

	result := &Result{RuleSetsExecuted: vctx.RuleSets()}
	for _, r := range v.rules {
		result.Failures = append(result.Failures, r.Run(vctx)...)
	}

	return result
}

// ValidateContext runs every matching rule on the context-aware path.
// On cancellation (or any error from an asynchronous condition or unit)
// the partial result is discarded and the error returned; for rule graphs
// with no asynchronous parts the result is identical to [Validator.Validate].
func (v *Validator[T]) ValidateContext(ctx context.Context, instance T, opts ...RunOption) (*Result, error) {
	vctx := NewContext(instance, opts...)
	vctx.ctx = ctx

	result := &Result{RuleSetsExecuted: vctx.RuleSets()}
	for _, r := range v.rules {
		failures, err := r.RunContext(ctx, vctx)
		if err != nil {
			return nil, err
		}
		result.Failures = append(result.Failures, failures...)
	}

	return result, nil
}

// Result holds the outcome of one Validate call.
type Result struct {
	// Failures lists every constraint violation in rule-declaration order,
	// then unit order within a rule, then dependent-rule order.
	Failures []Failure `json:"failures"`

	// RuleSetsExecuted echoes the rule-set selector the call ran with;
	// empty means the default selection.
	RuleSetsExecuted []string `json:"ruleSetsExecuted,omitempty"`
}

// IsValid reports whether the call produced no failures.
func (r *Result) IsValid() bool {
	return len(r.Failures) == 0
}

// Err bridges the result to the error domain: nil when valid, otherwise an
// [*Error] aggregating the failures.
func (r *Result) Err() error {
	if r.IsValid() {
		return nil
	}

	return &Error{Failures: r.Failures}
}

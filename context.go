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
	"slices"
)

// Context carries the state of one top-level validation call: the instance
// under validation, the active rule-set selector, the message-formatting
// scratch space, and the cancellation signal for asynchronous execution.
//
// A Context is created per Validate call and threaded by reference through
// every nested rule invocation. It is never shared across concurrent
// Validate calls and must not be retained after the call returns.
type Context[T any] struct {
	instance T
	ruleSets []string
	args     map[string]any
	ctx      context.Context
}

// NewContext creates a validation context for one run against instance.
// Most callers go through [Validator.Validate]; NewContext is exported for
// running a single [Rule] directly.
func NewContext[T any](instance T, opts ...RunOption) *Context[T] {
	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Context[T]{
		instance: instance,
		ruleSets: cfg.ruleSets,
		args:     make(map[string]any),
		ctx:      context.Background(),
	}
}

// Instance returns the object under validation.
func (c *Context[T]) Instance() T {
	return c.instance
}

// RuleSets returns the active rule-set selector. An empty selector means
// "default rules": only rules without rule-set tags run.
func (c *Context[T]) RuleSets() []string {
	return c.ruleSets
}

// Context returns the cancellation context of the run.
// It is context.Background() on the synchronous path.
func (c *Context[T]) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}

	return c.ctx
}

// SetArg records a named message-formatting argument. Units call SetArg
// before reporting a failure so the message template can interpolate the
// values (e.g. "From", "To", "Value" for a range check).
func (c *Context[T]) SetArg(name string, value any) {
	c.args[name] = value
}

// Arg returns a previously recorded message-formatting argument.
func (c *Context[T]) Arg(name string) (any, bool) {
	v, ok := c.args[name]
	return v, ok
}

// clearArgs resets the scratch space. Called before every unit invocation so
// one unit's arguments never leak into another unit's message.
func (c *Context[T]) clearArgs() {
	clear(c.args)
}

// selectorMatches reports whether a rule tagged with the given rule sets
// should run under this context's selector.
//
// An untagged rule runs when the selector is empty, or when the selector
// names "default" or the wildcard "*". A tagged rule runs only when the
// selector intersects its tags, or names the wildcard.
func (c *Context[T]) selectorMatches(ruleSets []string) bool {
	if len(ruleSets) == 0 {
		if len(c.ruleSets) == 0 {
			return true
		}

		return slices.Contains(c.ruleSets, RuleSetDefault) || slices.Contains(c.ruleSets, RuleSetAll)
	}

	for _, selected := range c.ruleSets {
		if selected == RuleSetAll || slices.Contains(ruleSets, selected) {
			return true
		}
	}

	return false
}

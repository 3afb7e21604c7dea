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

// Condition is a synchronous predicate gating whether validation logic runs.
type Condition[T any] func(*Context[T]) bool

// ConditionContext is an asynchronous predicate gating whether validation
// logic runs. It must observe ctx before starting any slow work and return
// ctx.Err() on cancellation.
type ConditionContext[T any] func(ctx context.Context, vctx *Context[T]) (bool, error)

// ConditionScope selects which units a condition applied to a rule targets.
type ConditionScope int

const (
	// ApplyToAllUnits targets every unit currently attached to the rule and
	// all of its dependent rules. This is the default, used when refining a
	// whole rule retroactively.
	ApplyToAllUnits ConditionScope = iota

	// ApplyToCurrentUnit targets only the most recently added unit, used
	// when a condition refines just the last constraint in a chain.
	ApplyToCurrentUnit
)

// conditionKind tags the variant stored in a condition cell.
type conditionKind int

const (
	condNone conditionKind = iota
	condSync
	condAsync
)

// condition is a tagged cell holding either a sync or an async predicate,
// never both. Combination is defined only within the same tag; mixing tags
// is a declaration bug and panics with [ErrMixedConditionKinds].
type condition[T any] struct {
	kind  conditionKind
	sync  Condition[T]
	async ConditionContext[T]
}

// combineSync merges next into the cell with AND semantics. The new
// predicate runs first, and both predicates are always evaluated so
// message-formatting side effects of the existing one are preserved.
func (c *condition[T]) combineSync(next Condition[T]) {
	switch c.kind {
	case condNone:
		c.kind = condSync
		c.sync = next
	case condSync:
		prev := c.sync
		c.sync = func(vctx *Context[T]) bool {
			a := next(vctx)
			b := prev(vctx)

			return a && b
		}
	case condAsync:
		panic(ErrMixedConditionKinds)
	}
}

// combineAsync merges next into the cell with AND semantics, awaiting the
// new predicate first. Cancellation of the outer call aborts both awaits.
func (c *condition[T]) combineAsync(next ConditionContext[T]) {
	switch c.kind {
	case condNone:
		c.kind = condAsync
		c.async = next
	case condAsync:
		prev := c.async
		c.async = func(ctx context.Context, vctx *Context[T]) (bool, error) {
			a, err := next(ctx, vctx)
			if err != nil {
				return false, err
			}
			if err := ctx.Err(); err != nil {
				return false, err
			}

			b, err := prev(ctx, vctx)
			if err != nil {
				return false, err
			}

			return a && b, nil
		}
	case condSync:
		panic(ErrMixedConditionKinds)
	}
}

// holds evaluates the cell on the synchronous path. An empty cell holds
// trivially. Panics with [ErrAsyncRunInvokedSynchronously] for async cells.
func (c *condition[T]) holds(vctx *Context[T]) bool {
	switch c.kind {
	case condNone:
		return true
	case condSync:
		return c.sync(vctx)
	default:
		panic(ErrAsyncRunInvokedSynchronously)
	}
}

// holdsContext evaluates the cell on the context-aware path. Sync cells are
// evaluated directly so both paths produce identical outcomes when nothing
// is actually asynchronous.
func (c *condition[T]) holdsContext(ctx context.Context, vctx *Context[T]) (bool, error) {
	switch c.kind {
	case condNone:
		return true, nil
	case condSync:
		return c.sync(vctx), nil
	default:
		if err := ctx.Err(); err != nil {
			return false, err
		}

		return c.async(ctx, vctx)
	}
}

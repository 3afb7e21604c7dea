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

//go:build !integration

package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Surname      string
	Forename     string
	Age          int
	Nickname     *string
	GenderString string
}

var (
	surnameMember  = Member("Surname", func(p person) string { return p.Surname })
	forenameMember = Member("Forename", func(p person) string { return p.Forename })
	ageMember      = Member("Age", func(p person) int { return p.Age })
	genderMember   = Member("GenderString", func(p person) string { return p.GenderString })
)

// failing returns a unit that always fails and counts its invocations.
func failing[P any](calls *int) Unit[person, P] {
	return Must[person, P](func(_ *Context[person], _ P) bool {
		*calls++
		return false
	})
}

// passing returns a unit that always passes and counts its invocations.
func passing[P any](calls *int) Unit[person, P] {
	return Must[person, P](func(_ *Context[person], _ P) bool {
		*calls++
		return true
	})
}

func TestRun_CascadeStopOnFirstFailure(t *testing.T) {
	t.Parallel()

	var first, second int
	r := NewRule(surnameMember)
	r.SetCascade(CascadeStopOnFirstFailure)
	r.AddUnit(failing[string](&first))
	r.AddUnit(failing[string](&second))

	failures := r.Run(NewContext(person{Surname: "x"}))

	require.Len(t, failures, 1, "stop-on-first-failure must produce exactly one failure")
	assert.Equal(t, 1, first, "first unit runs once")
	assert.Zero(t, second, "second unit must never be invoked after the first failure")
}

func TestRun_CascadeContinue(t *testing.T) {
	t.Parallel()

	var first, second int
	r := NewRule(surnameMember)
	r.SetCascade(CascadeContinue)
	r.AddUnit(failing[string](&first))
	r.WithCode("v1")
	r.AddUnit(failing[string](&second))
	r.WithCode("v2")

	failures := r.Run(NewContext(person{Surname: "x"}))

	require.Len(t, failures, 2)
	assert.Equal(t, "v1", failures[0].Code, "failures must preserve declaration order")
	assert.Equal(t, "v2", failures[1].Code)
}

func TestRun_CascadeDefaultResolvedLazily(t *testing.T) {
	// Mutates the process-wide cascade default; must not run in parallel.
	t.Cleanup(func() { SetDefaultCascade(CascadeContinue) })

	var first, second int
	r := NewRule(surnameMember)
	r.AddUnit(failing[string](&first))
	r.AddUnit(failing[string](&second))

	failures := r.Run(NewContext(person{}))
	require.Len(t, failures, 2, "default cascade is continue")

	// Changing the default after declaration changes the effective mode.
	SetDefaultCascade(CascadeStopOnFirstFailure)
	failures = r.Run(NewContext(person{}))
	require.Len(t, failures, 1, "rule must read the cascade default at evaluation time")
}

func TestRun_DependentRulesSkippedOnOwnerFailure(t *testing.T) {
	t.Parallel()

	var dependentCalls int
	dep := NewRule(forenameMember)
	dep.AddUnit(failing[string](&dependentCalls))

	var ownerCalls int
	r := NewRule(surnameMember)
	r.AddUnit(failing[string](&ownerCalls))
	r.AddDependentRules(dep)

	failures := r.Run(NewContext(person{}))

	require.Len(t, failures, 1, "only the owner's failure appears")
	assert.Zero(t, dependentCalls, "dependent rule must not run when the owner failed")
}

func TestRun_DependentRulesRunAfterOwnerPasses(t *testing.T) {
	t.Parallel()

	depA := NewRule(forenameMember)
	depA.AddUnit(failing[string](new(int)))
	depA.WithCode("dep_a")
	depB := NewRule(ageMember)
	depB.AddUnit(failing[int](new(int)))
	depB.WithCode("dep_b")

	var ownerCalls int
	r := NewRule(surnameMember)
	r.AddUnit(passing[string](&ownerCalls))
	r.AddDependentRules(depA, depB)

	failures := r.Run(NewContext(person{}))

	require.Len(t, failures, 2)
	assert.Equal(t, "dep_a", failures[0].Code, "dependent rules run in declaration order")
	assert.Equal(t, "dep_b", failures[1].Code)
}

func TestRun_DependentRulesSkippedOnCascadeShortCircuit(t *testing.T) {
	t.Parallel()

	var dependentCalls int
	dep := NewRule(forenameMember)
	dep.AddUnit(failing[string](&dependentCalls))

	r := NewRule(surnameMember)
	r.SetCascade(CascadeStopOnFirstFailure)
	r.AddUnit(failing[string](new(int)))
	r.AddUnit(passing[string](new(int)))
	r.AddDependentRules(dep)

	failures := r.Run(NewContext(person{}))

	require.Len(t, failures, 1)
	assert.Zero(t, dependentCalls, "a short-circuited rule counts as failed; dependents are skipped")
}

func TestRun_SharedConditionFalseSkipsRuleAndDependents(t *testing.T) {
	t.Parallel()

	var unitCalls, unitCondCalls, dependentCalls int
	dep := NewRule(forenameMember)
	dep.AddUnit(failing[string](&dependentCalls))

	r := NewRule(surnameMember)
	r.AddUnit(failing[string](&unitCalls))
	r.ApplyCondition(func(*Context[person]) bool {
		unitCondCalls++
		return true
	}, ApplyToAllUnits)
	r.AddDependentRules(dep)
	r.ApplySharedCondition(func(*Context[person]) bool { return false })

	failures := r.Run(NewContext(person{}))

	assert.Empty(t, failures)
	assert.Zero(t, unitCalls, "no unit runs under a false shared condition")
	assert.Zero(t, unitCondCalls, "unit-level conditions are not even evaluated")
	assert.Zero(t, dependentCalls, "dependent rules are skipped too")
}

func TestRun_RuleSetFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ruleSets  []string
		selector  []string
		wantRun   bool
	}{
		{"tagged rule, empty selector", []string{"Update"}, nil, false},
		{"tagged rule, other selector", []string{"Update"}, []string{"Create"}, false},
		{"tagged rule, matching selector", []string{"Update"}, []string{"Update"}, true},
		{"tagged rule, wildcard selector", []string{"Update"}, []string{RuleSetAll}, true},
		{"untagged rule, empty selector", nil, nil, true},
		{"untagged rule, named selector", nil, []string{"Create"}, false},
		{"untagged rule, default selector", nil, []string{RuleSetDefault}, true},
		{"untagged rule, wildcard selector", nil, []string{RuleSetAll}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewRule(surnameMember)
			r.AddUnit(failing[string](new(int)))
			if tt.ruleSets != nil {
				r.SetRuleSets(tt.ruleSets...)
			}

			failures := r.Run(NewContext(person{}, WithRuleSets(tt.selector...)))
			if tt.wantRun {
				assert.Len(t, failures, 1)
			} else {
				assert.Empty(t, failures)
			}
		})
	}
}

func TestRun_ModelRuleReceivesWholeInstance(t *testing.T) {
	t.Parallel()

	var seen person
	r := NewModelRule[person]()
	r.AddUnit(Must[person, person](func(_ *Context[person], value person) bool {
		seen = value
		return false
	}))

	p := person{Surname: "Leibowitz", Age: 42}
	failures := r.Run(NewContext(p))

	require.Len(t, failures, 1)
	assert.Equal(t, p, seen, "model-level rule validates the instance itself")
	assert.Equal(t, p, failures[0].AttemptedValue)
	assert.Empty(t, failures[0].PropertyName, "an unnamed model rule has no property name")
}

func TestRun_RuleWithoutUnitsIsNoop(t *testing.T) {
	t.Parallel()

	r := NewModelRule[person]()
	assert.Empty(t, r.Run(NewContext(person{})))
}

func TestRun_OnFailureCallback(t *testing.T) {
	t.Parallel()

	dep := NewRule(forenameMember)
	dep.AddUnit(failing[string](new(int)))

	var gotInstance person
	var gotFailures []Failure
	calls := 0

	r := NewRule(surnameMember)
	r.SetCascade(CascadeContinue)
	r.AddUnit(failing[string](new(int)))
	r.AddUnit(failing[string](new(int)))
	r.AddDependentRules(dep)
	r.SetOnFailure(func(instance person, failures []Failure) {
		calls++
		gotInstance = instance
		gotFailures = failures
	})

	p := person{Surname: "Matthew"}
	r.Run(NewContext(p))

	require.Equal(t, 1, calls, "callback fires once per validated instance")
	assert.Equal(t, p, gotInstance)
	assert.Len(t, gotFailures, 2, "callback receives the rule's own failures, not dependent-rule failures")
}

func TestRun_OnFailureNotInvokedWhenValid(t *testing.T) {
	t.Parallel()

	calls := 0
	r := NewRule(surnameMember)
	r.AddUnit(passing[string](new(int)))
	r.SetOnFailure(func(person, []Failure) { calls++ })

	r.Run(NewContext(person{}))
	assert.Zero(t, calls)
}

func TestRun_UnitConditionSkipDoesNotAffectCascade(t *testing.T) {
	t.Parallel()

	var second int
	r := NewRule(surnameMember)
	r.SetCascade(CascadeStopOnFirstFailure)
	r.AddUnit(failing[string](new(int)))
	r.ApplyCondition(func(*Context[person]) bool { return false }, ApplyToCurrentUnit)
	r.AddUnit(failing[string](&second))
	r.WithCode("second")

	failures := r.Run(NewContext(person{}))

	require.Len(t, failures, 1, "a skipped unit is not a failure; the loop continues")
	assert.Equal(t, "second", failures[0].Code)
	assert.Equal(t, 1, second)
}

func TestRun_PanicsWhenRuleHasAsyncCondition(t *testing.T) {
	t.Parallel()

	r := NewRule(surnameMember)
	r.AddUnit(failing[string](new(int)))
	r.ApplySharedConditionContext(func(context.Context, *Context[person]) (bool, error) {
		return true, nil
	})

	assert.PanicsWithValue(t, ErrAsyncRunInvokedSynchronously, func() {
		r.Run(NewContext(person{}))
	})
}

func TestRunContext_MatchesSynchronousOutput(t *testing.T) {
	t.Parallel()

	build := func() *Rule[person, string] {
		r := NewRule(surnameMember)
		r.SetCascade(CascadeContinue)
		r.AddUnit(Length[person](5, 10))
		r.AddUnit(Matches[person](`^[A-Z]`))

		dep := NewRule(forenameMember)
		dep.AddUnit(NotEmpty[person, string]())
		r.AddDependentRules(dep)

		return r
	}

	p := person{Surname: "ok"}

	syncFailures := build().Run(NewContext(p))
	asyncFailures, err := build().RunContext(context.Background(), NewContext(p))

	require.NoError(t, err)
	assert.Equal(t, syncFailures, asyncFailures,
		"both paths must produce identical failure sequences for a fully synchronous rule graph")
}

func TestRunContext_CancelledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRule(surnameMember)
	r.AddUnit(failing[string](new(int)))

	failures, err := r.RunContext(ctx, NewContext(person{}))

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, failures)
}

func TestRunContext_CancellationDiscardsPartialFailures(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	r := NewRule(surnameMember)
	r.SetCascade(CascadeContinue)
	r.AddUnit(MustWithContext[person, string](func(context.Context, *Context[person], string) (bool, error) {
		cancel() // fail and cancel the rest of the run
		return false, nil
	}))
	r.AddUnit(failing[string](new(int)))

	failures, err := r.RunContext(ctx, NewContext(person{}))

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, failures, "a cancelled evaluation must not return partial failures")
}

func TestRunContext_AsyncUnit(t *testing.T) {
	t.Parallel()

	r := NewRule(ageMember)
	r.AddUnit(MustWithContext[person, int](func(_ context.Context, _ *Context[person], age int) (bool, error) {
		return age >= 18, nil
	}))

	vctx := NewContext(person{Age: 15})
	failures, err := r.RunContext(context.Background(), vctx)
	require.NoError(t, err)
	require.Len(t, failures, 1)

	failures, err = r.RunContext(context.Background(), NewContext(person{Age: 30}))
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestRunContext_AsyncUnitPanicsOnSyncPath(t *testing.T) {
	t.Parallel()

	r := NewRule(ageMember)
	r.AddUnit(MustWithContext[person, int](func(context.Context, *Context[person], int) (bool, error) {
		return true, nil
	}))

	assert.PanicsWithValue(t, ErrAsyncRunInvokedSynchronously, func() {
		r.Run(NewContext(person{}))
	})
}

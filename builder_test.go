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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_RefinementsTargetMostRecentUnit(t *testing.T) {
	t.Parallel()

	v := New[person]()
	RuleFor(v, surnameMember).
		NotEmpty().
		Unit(Length[person](5, 10)).WithMessage("length is off").WithCode("surname_length")

	result := v.Validate(person{Surname: "ab"})

	require.Len(t, result.Failures, 1, "NotEmpty passes; only the length unit fails")
	assert.Equal(t, "length is off", result.Failures[0].Message)
	assert.Equal(t, "surname_length", result.Failures[0].Code)

	result = v.Validate(person{})
	require.Len(t, result.Failures, 2)
	assert.Equal(t, "not_empty", result.Failures[0].Code,
		"the earlier unit keeps its default metadata")
}

func TestBuilder_WhenDefaultsToAllUnits(t *testing.T) {
	t.Parallel()

	v := New[person]()
	RuleFor(v, surnameMember).
		NotEmpty().
		Unit(Length[person](5, 10)).
		When(func(vctx *Context[person]) bool { return vctx.Instance().Age >= 18 })

	assert.True(t, v.Validate(person{Age: 12}).IsValid(), "both units are gated")
	assert.Len(t, v.Validate(person{Age: 30}).Failures, 2)
}

func TestBuilder_WhenCurrentUnitOnly(t *testing.T) {
	t.Parallel()

	v := New[person]()
	RuleFor(v, surnameMember).
		NotEmpty().
		Unit(Length[person](5, 10)).
		When(func(vctx *Context[person]) bool { return vctx.Instance().Age >= 18 }, ApplyToCurrentUnit)

	result := v.Validate(person{Age: 12})
	require.Len(t, result.Failures, 1, "only the length unit is gated")
	assert.Equal(t, "not_empty", result.Failures[0].Code)
}

func TestBuilder_Unless(t *testing.T) {
	t.Parallel()

	v := New[person]()
	RuleFor(v, surnameMember).
		NotEmpty().
		Unless(func(vctx *Context[person]) bool { return vctx.Instance().Age < 18 })

	assert.True(t, v.Validate(person{Age: 12}).IsValid())
	assert.False(t, v.Validate(person{Age: 30}).IsValid())
}

func TestBuilder_SharedWhen(t *testing.T) {
	t.Parallel()

	var unitCondCalls int
	v := New[person]()
	RuleFor(v, surnameMember).
		NotEmpty().
		When(func(*Context[person]) bool {
			unitCondCalls++
			return true
		}).
		SharedWhen(func(vctx *Context[person]) bool { return vctx.Instance().Age >= 18 })

	assert.True(t, v.Validate(person{Age: 12}).IsValid())
	assert.Zero(t, unitCondCalls, "a false shared condition skips unit conditions entirely")

	assert.False(t, v.Validate(person{Age: 30}).IsValid())
	assert.Equal(t, 1, unitCondCalls)
}

func TestBuilder_DependentRules(t *testing.T) {
	t.Parallel()

	dep := BuildRule(forenameMember).NotEmpty().WithCode("forename_required").Rule()

	v := New[person]()
	RuleFor(v, surnameMember).NotEmpty().DependentRules(dep)

	result := v.Validate(person{})
	require.Len(t, result.Failures, 1, "dependent rule skipped while the owner fails")
	assert.Equal(t, "not_empty", result.Failures[0].Code)

	result = v.Validate(person{Surname: "Leibowitz"})
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "forename_required", result.Failures[0].Code)
}

func TestBuilder_WithNameAndCascade(t *testing.T) {
	t.Parallel()

	v := New[person]()
	RuleFor(v, surnameMember).
		NotEmpty().
		Unit(Length[person](5, 10)).
		WithName("Family Name").
		Cascade(CascadeStopOnFirstFailure)

	result := v.Validate(person{})
	require.Len(t, result.Failures, 1, "cascade stops after the first failure")
	assert.Equal(t, "Family Name", result.Failures[0].PropertyName)
}

func TestBuilder_OnFailure(t *testing.T) {
	t.Parallel()

	var calls int
	v := New[person]()
	RuleFor(v, surnameMember).NotEmpty().OnFailure(func(person, []Failure) { calls++ })

	v.Validate(person{})
	assert.Equal(t, 1, calls)
}

func TestBuilder_MustChain(t *testing.T) {
	t.Parallel()

	v := New[person]()
	RuleFor(v, ageMember).
		Must(func(_ *Context[person], age int) bool { return age >= 0 }).
		WithMessage("age cannot be negative")

	result := v.Validate(person{Age: -1})
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "age cannot be negative", result.Failures[0].Message)
}

func TestRuleForModel(t *testing.T) {
	t.Parallel()

	v := New[person]()
	RuleForModel(v).
		Must(func(_ *Context[person], p person) bool { return p.Surname != p.Forename }).
		WithName("Person").
		WithMessage("surname and forename must differ")

	result := v.Validate(person{Surname: "Sam", Forename: "Sam"})
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "Person", result.Failures[0].PropertyName)
}

func TestBuildRule_Standalone(t *testing.T) {
	t.Parallel()

	r := BuildRule(surnameMember).NotEmpty().Rule()

	failures := r.Run(NewContext(person{}))
	assert.Len(t, failures, 1)
}

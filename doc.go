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

// Package rules provides a declarative rule-composition engine for
// validating typed domain objects: rules are bound to members through
// explicit accessors, gated by composable conditions, and executed to
// produce structured failures rather than errors.
//
// # Getting Started
//
// Declare accessors and rules once, typically at startup, then validate
// instances:
//
//	type Person struct {
//		Surname string
//		Age     int
//	}
//
//	var (
//		surname = rules.Member("Surname", func(p Person) string { return p.Surname })
//		age     = rules.Member("Age", func(p Person) int { return p.Age })
//	)
//
//	v := rules.New[Person]()
//	rules.RuleFor(v, surname).NotEmpty().Unit(rules.Length[Person](5, 10))
//	rules.RuleFor(v, age).Unit(rules.InclusiveBetween[Person](0, 130))
//
//	result := v.Validate(person)
//	if !result.IsValid() {
//		for _, f := range result.Failures {
//			fmt.Printf("%s: %s\n", f.PropertyName, f.Message)
//		}
//	}
//
// # Rule Composition
//
// A [Rule] owns an ordered list of validator units for one member (or the
// whole object for model-level rules). Conditions declared with When/Unless
// accumulate with AND semantics rather than overwriting each other, and can
// target every unit of the rule or only the most recently added one (see
// [ConditionScope]). Shared conditions ([Rule.ApplySharedCondition]) are
// checked once per invocation and skip the whole rule, including its
// dependent rules, when false.
//
// Cascade behavior is controlled per rule or process-wide: under
// [CascadeStopOnFirstFailure] the first failing unit ends the rule's unit
// loop. Dependent rules ([Rule.AddDependentRules]) run only when their owner
// produced zero failures.
//
// # Rule Sets
//
// Rules can be tagged with rule-set labels and selected per call:
//
//	rules.RuleFor(v, age).Unit(rules.InclusiveBetween[Person](18, 130)).InRuleSets("Update")
//
//	v.Validate(person)                              // untagged rules only
//	v.Validate(person, rules.WithRuleSets("Update")) // "Update" rules only
//
// # Synchronous and Asynchronous Execution
//
// [Validator.Validate] runs on a plain call stack. [Validator.ValidateContext]
// additionally evaluates asynchronous conditions and units
// ([MustWithContext], [Builder.WhenContext]) and observes cancellation: a
// cancelled call discards the in-flight rule's partial failures and returns
// the context error. For rule graphs with no asynchronous parts both paths
// produce identical failure sequences.
//
// # Error Taxonomy
//
// The engine distinguishes three outcomes:
//
//   - Validation failures are data: collected as [Failure] records and
//     returned in a [Result]; they never raise an error.
//   - Declaration bugs (combining sync and async conditions on one rule,
//     asking for the current unit of an empty rule, running async rules
//     synchronously) panic immediately rather than silently degrading.
//   - Cancellation is an ordinary error returned from the context-aware
//     path, distinguishable from both of the above.
//
// Panics raised by unit predicates or conditions are not recovered; a
// throwing predicate indicates a programming defect, not an invalid value.
//
// # Thread Safety
//
// Rules and validators follow single-writer, many-reader discipline: declare
// everything before the first Validate call, after which any number of
// goroutines may validate concurrently. Each call gets its own [Context];
// contexts are never shared or retained.
//
// # Standalone Usage
//
// This package can be used independently of any framework:
//
//	import "rivaas.dev/rules"
//
//	v := rules.New[Person]()
//	result := v.Validate(person)
package rules

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
	"strings"
	"unicode"
)

// Accessor binds a rule to one member of T. It pairs a stable member name
// with a getter closure, constructed once at rule-declaration time; the
// engine performs no reflection of its own.
//
// Example:
//
//	surname := rules.Member("Surname", func(p Person) string { return p.Surname })
type Accessor[T, P any] struct {
	name string
	get  func(T) P
	set  func(*T, P)
}

// Member creates an [Accessor] for the named member of T.
// Member panics if get is nil or name is empty; an accessor without a getter
// is a declaration bug, not a validation outcome.
func Member[T, P any](name string, get func(T) P) Accessor[T, P] {
	if name == "" {
		panic("rules: accessor requires a non-empty member name")
	}
	if get == nil {
		panic("rules: accessor requires a getter")
	}

	return Accessor[T, P]{name: name, get: get}
}

// WithSet returns a copy of the accessor that also supports writing the
// member. Setters are used by test tooling only; rule execution never writes.
func (a Accessor[T, P]) WithSet(set func(*T, P)) Accessor[T, P] {
	a.set = set
	return a
}

// Name returns the stable member name the accessor was declared with.
func (a Accessor[T, P]) Name() string {
	return a.name
}

// Get reads the member value from an instance.
func (a Accessor[T, P]) Get(instance T) P {
	return a.get(instance)
}

// CanSet reports whether the accessor was built with a setter.
func (a Accessor[T, P]) CanSet() bool {
	return a.set != nil
}

// Set writes the member value on an instance.
// Set panics if the accessor has no setter (see [Accessor.WithSet]).
func (a Accessor[T, P]) Set(instance *T, value P) {
	if a.set == nil {
		panic("rules: accessor for " + a.name + " has no setter")
	}
	a.set(instance, value)
}

// splitPascalCase inserts spaces at word boundaries of a PascalCase
// identifier: "GenderString" becomes "Gender String", "CustomerID"
// becomes "Customer ID".
func splitPascalCase(name string) string {
	runes := []rune(name)

	var b strings.Builder
	b.Grow(len(name) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			acronymEnd := unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || acronymEnd {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}

	return b.String()
}

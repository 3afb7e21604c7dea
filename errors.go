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
	"errors"
	"strings"
)

// ErrValidation is a sentinel error for validation failures.
// Use errors.Is(err, ErrValidation) to check if an error is a validation error.
var ErrValidation = errors.New("validation")

// Contract-violation sentinels. These describe bugs in rule declaration, not
// validation outcomes, and are raised via panic so misconfigured rules fail
// loudly the first time they run (see the package documentation's
// error-taxonomy section).
var (
	// ErrMixedConditionKinds is raised when a sync condition is combined
	// with an async condition on the same rule or unit.
	ErrMixedConditionKinds = errors.New("rules: cannot combine synchronous and asynchronous conditions")

	// ErrNoUnits is raised when an operation that targets the most recently
	// added unit runs against a rule with no units.
	ErrNoUnits = errors.New("rules: rule has no validator units")

	// ErrAsyncRunInvokedSynchronously is raised when Run is called on a rule
	// that carries an asynchronous condition or unit; use RunContext instead.
	ErrAsyncRunInvokedSynchronously = errors.New("rules: rule contains asynchronous conditions or units and must be run with RunContext")
)

// Error aggregates validation failures into an error value.
// Error implements error and can be used with errors.Is/errors.As.
//
// Example:
//
//	var verr *rules.Error
//	if errors.As(err, &verr) {
//	    for _, f := range verr.Failures {
//	        fmt.Printf("%s: %s\n", f.PropertyName, f.Message)
//	    }
//	}
type Error struct {
	Failures []Failure `json:"failures"`
}

// Error returns a formatted message: a single failure formats as
// "property: message", multiple failures are joined with "; ".
func (e *Error) Error() string {
	switch len(e.Failures) {
	case 0:
		return ""
	case 1:
		return e.Failures[0].Error()
	}

	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}

	return strings.Join(msgs, "; ")
}

// Unwrap returns [ErrValidation] for errors.Is compatibility.
func (e *Error) Unwrap() error {
	return ErrValidation
}

// HasCode reports whether any failure carries the given code.
func (e *Error) HasCode(code string) bool {
	if code == "" {
		return false
	}
	for _, f := range e.Failures {
		if f.Code == code {
			return true
		}
	}

	return false
}

// ForProperty returns the failures recorded against the given property name.
func (e *Error) ForProperty(name string) []Failure {
	var out []Failure
	for _, f := range e.Failures {
		if f.PropertyName == name {
			out = append(out, f)
		}
	}

	return out
}

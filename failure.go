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

import "fmt"

// Severity classifies how serious a [Failure] is. Failures default to
// [SeverityError]; use the builder's WithSeverity to downgrade a unit's
// failures to warnings or informational notices.
type Severity int

const (
	// SeverityError marks a failure that should block the operation.
	SeverityError Severity = iota

	// SeverityWarning marks a failure the caller may choose to ignore.
	SeverityWarning

	// SeverityInfo marks an informational notice.
	SeverityInfo
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Failure describes one constraint violation. Failures are produced
// immutable, in rule-declaration order, then unit-declaration order within a
// rule, then dependent-rule order.
//
// A Failure is data, not an error condition: rule execution collects failures
// and returns them; it never aborts because a value was invalid.
type Failure struct {
	// PropertyName is the rule's resolved display name
	// (e.g. "Gender String" for a member named GenderString).
	PropertyName string `json:"propertyName"`

	// Message is the formatted error message.
	Message string `json:"message"`

	// AttemptedValue is the value that was validated.
	AttemptedValue any `json:"attemptedValue,omitempty"`

	// Code is a stable identifier for the failed constraint.
	// It defaults to the unit's name (e.g. "inclusive_between").
	Code string `json:"code"`

	// Severity classifies the failure; defaults to [SeverityError].
	Severity Severity `json:"severity"`

	// State carries optional caller-supplied state attached to the unit.
	State any `json:"state,omitempty"`
}

// Error returns the failure formatted as "property: message", or just the
// message when the rule has no resolvable name.
func (f Failure) Error() string {
	if f.PropertyName == "" {
		return f.Message
	}

	return fmt.Sprintf("%s: %s", f.PropertyName, f.Message)
}

// Unwrap returns [ErrValidation] for errors.Is compatibility.
func (f Failure) Unwrap() error {
	return ErrValidation
}

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
	"sync"

	"github.com/go-playground/validator/v10"
)

// tagEngine is the process-wide go-playground/validator instance backing
// [Tag] units. Created once; the instance is safe for concurrent use.
var tagEngine = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// Tag creates a unit that delegates a single value to go-playground/validator
// tag syntax, so constraints like "email", "uuid4", or "min=3" can be
// attached to a member through this engine without re-implementing them.
//
// A nil value passes without consulting the tag; pair with [NotNil] to
// reject absent values. An invalid tag expression is a declaration bug and
// panics on first evaluation (go-playground/validator panics on malformed
// tags passed to Var).
//
// Example:
//
//	rules.Tag[Person, string]("email")
func Tag[T, P any](tag string) Unit[T, P] {
	if tag == "" {
		panic("rules: Tag requires a non-empty tag expression")
	}

	return &tagUnit[T, P]{tag: tag}
}

type tagUnit[T, P any] struct {
	tag string
}

func (u *tagUnit[T, P]) Name() string { return "tag" }

func (u *tagUnit[T, P]) MessageTemplate() string {
	return "'{PropertyName}' does not satisfy '{Tag}'"
}

func (u *tagUnit[T, P]) Validate(vctx *Context[T], value P) bool {
	if isNil(value) {
		return true
	}

	err := tagEngine().Var(value, u.tag)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Var reports anything other than field errors (e.g. an invalid
		// value kind for the tag) as a hard error: a declaration bug.
		panic(err)
	}

	vctx.SetArg("Tag", u.tag)
	if len(verrs) > 0 {
		vctx.SetArg("FailedTag", verrs[0].Tag())
		vctx.SetArg("Param", verrs[0].Param())
	}

	return false
}

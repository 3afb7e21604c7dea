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
	"cmp"
	"context"
	"fmt"
	"reflect"
	"regexp"
	"unicode/utf8"
)

// Built-in units follow one shared convention: a nil value is never a
// comparison or format violation. Only the presence units ([NotNil],
// [NotEmpty]) reject nil, which keeps "is it present" decoupled from
// "is it well-formed". Pointer-typed members get the Ptr constructors.

// Must creates a unit from a predicate. The predicate may record
// message-formatting arguments on the context before returning false.
func Must[T, P any](fn func(vctx *Context[T], value P) bool) Unit[T, P] {
	if fn == nil {
		panic("rules: Must requires a predicate")
	}

	return &mustUnit[T, P]{fn: fn}
}

type mustUnit[T, P any] struct {
	fn func(*Context[T], P) bool
}

func (u *mustUnit[T, P]) Name() string { return "must" }

func (u *mustUnit[T, P]) MessageTemplate() string { return defaultMessageTemplate }

func (u *mustUnit[T, P]) Validate(vctx *Context[T], value P) bool {
	return u.fn(vctx, value)
}

// MustWithContext creates a unit from an asynchronous predicate. Rules
// carrying such a unit must be run through the context-aware path; the
// synchronous path panics with [ErrAsyncRunInvokedSynchronously].
func MustWithContext[T, P any](fn func(ctx context.Context, vctx *Context[T], value P) (bool, error)) Unit[T, P] {
	if fn == nil {
		panic("rules: MustWithContext requires a predicate")
	}

	return &mustContextUnit[T, P]{fn: fn}
}

type mustContextUnit[T, P any] struct {
	fn func(context.Context, *Context[T], P) (bool, error)
}

func (u *mustContextUnit[T, P]) Name() string { return "must" }

func (u *mustContextUnit[T, P]) MessageTemplate() string { return defaultMessageTemplate }

func (u *mustContextUnit[T, P]) Validate(*Context[T], P) bool {
	panic(ErrAsyncRunInvokedSynchronously)
}

func (u *mustContextUnit[T, P]) ValidateContext(ctx context.Context, vctx *Context[T], value P) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	return u.fn(ctx, vctx, value)
}

// NotNil creates a presence unit that fails for nil pointers, interfaces,
// maps, slices, channels, and functions. Non-nillable values always pass.
func NotNil[T, P any]() Unit[T, P] {
	return &notNilUnit[T, P]{}
}

type notNilUnit[T, P any] struct{}

func (u *notNilUnit[T, P]) Name() string { return "not_nil" }

func (u *notNilUnit[T, P]) MessageTemplate() string {
	return "'{PropertyName}' must not be nil"
}

func (u *notNilUnit[T, P]) Validate(_ *Context[T], value P) bool {
	return !isNil(value)
}

// NotEmpty creates a presence unit that fails for nil values, zero values,
// and empty strings, slices, and maps.
func NotEmpty[T, P any]() Unit[T, P] {
	return &notEmptyUnit[T, P]{}
}

type notEmptyUnit[T, P any] struct{}

func (u *notEmptyUnit[T, P]) Name() string { return "not_empty" }

func (u *notEmptyUnit[T, P]) MessageTemplate() string {
	return "'{PropertyName}' must not be empty"
}

func (u *notEmptyUnit[T, P]) Validate(_ *Context[T], value P) bool {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return false
	}
	if isNilValue(rv) {
		return false
	}

	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return rv.Elem().IsValid() && !rv.Elem().IsZero()
	default:
		return !rv.IsZero()
	}
}

// Length creates a unit requiring the rune count of a string to be between
// min and max, inclusive on both ends.
// Panics if min is negative or max is less than min.
func Length[T any](min, max int) Unit[T, string] {
	if min < 0 || max < min {
		panic(fmt.Sprintf("rules: invalid length bounds [%d, %d]", min, max))
	}

	return &lengthUnit[T]{min: min, max: max}
}

// LengthPtr is [Length] for pointer-typed members; a nil value passes.
func LengthPtr[T any](min, max int) Unit[T, *string] {
	if min < 0 || max < min {
		panic(fmt.Sprintf("rules: invalid length bounds [%d, %d]", min, max))
	}

	return &lengthPtrUnit[T]{min: min, max: max}
}

type lengthUnit[T any] struct {
	min, max int
}

func (u *lengthUnit[T]) Name() string { return "length" }

func (u *lengthUnit[T]) MessageTemplate() string {
	return "'{PropertyName}' must be between {Min} and {Max} characters; {Length} entered"
}

func (u *lengthUnit[T]) Validate(vctx *Context[T], value string) bool {
	return checkLength(vctx, value, u.min, u.max)
}

type lengthPtrUnit[T any] struct {
	min, max int
}

func (u *lengthPtrUnit[T]) Name() string { return "length" }

func (u *lengthPtrUnit[T]) MessageTemplate() string {
	return "'{PropertyName}' must be between {Min} and {Max} characters; {Length} entered"
}

func (u *lengthPtrUnit[T]) Validate(vctx *Context[T], value *string) bool {
	if value == nil {
		return true
	}

	return checkLength(vctx, *value, u.min, u.max)
}

func checkLength[T any](vctx *Context[T], value string, min, max int) bool {
	n := utf8.RuneCountInString(value)
	if n >= min && n <= max {
		return true
	}

	vctx.SetArg("Min", min)
	vctx.SetArg("Max", max)
	vctx.SetArg("Length", n)

	return false
}

// Matches creates a unit requiring a string to match the regular expression.
// The pattern is compiled at declaration time; an invalid pattern panics,
// it is a declaration bug.
func Matches[T any](pattern string) Unit[T, string] {
	return &matchesUnit[T]{re: regexp.MustCompile(pattern)}
}

// MatchesPtr is [Matches] for pointer-typed members; a nil value passes.
func MatchesPtr[T any](pattern string) Unit[T, *string] {
	return &matchesPtrUnit[T]{re: regexp.MustCompile(pattern)}
}

type matchesUnit[T any] struct {
	re *regexp.Regexp
}

func (u *matchesUnit[T]) Name() string { return "matches" }

func (u *matchesUnit[T]) MessageTemplate() string {
	return "'{PropertyName}' is not in the correct format"
}

func (u *matchesUnit[T]) Validate(vctx *Context[T], value string) bool {
	if u.re.MatchString(value) {
		return true
	}

	vctx.SetArg("Pattern", u.re.String())

	return false
}

type matchesPtrUnit[T any] struct {
	re *regexp.Regexp
}

func (u *matchesPtrUnit[T]) Name() string { return "matches" }

func (u *matchesPtrUnit[T]) MessageTemplate() string {
	return "'{PropertyName}' is not in the correct format"
}

func (u *matchesPtrUnit[T]) Validate(vctx *Context[T], value *string) bool {
	if value == nil {
		return true
	}
	if u.re.MatchString(*value) {
		return true
	}

	vctx.SetArg("Pattern", u.re.String())

	return false
}

// InclusiveBetween creates a unit requiring from <= value <= to.
// Panics if to is less than from.
func InclusiveBetween[T any, P cmp.Ordered](from, to P) Unit[T, P] {
	checkBounds(from, to)
	return &rangeUnit[T, P]{from: from, to: to}
}

// InclusiveBetweenPtr is [InclusiveBetween] for pointer-typed members;
// a nil value passes, per the presence/format split described above.
func InclusiveBetweenPtr[T any, P cmp.Ordered](from, to P) Unit[T, *P] {
	checkBounds(from, to)
	return &rangePtrUnit[T, P]{from: from, to: to}
}

// ExclusiveBetween creates a unit requiring from < value < to.
// Panics if to is less than from.
func ExclusiveBetween[T any, P cmp.Ordered](from, to P) Unit[T, P] {
	checkBounds(from, to)
	return &rangeUnit[T, P]{from: from, to: to, exclusive: true}
}

// ExclusiveBetweenPtr is [ExclusiveBetween] for pointer-typed members;
// a nil value passes.
func ExclusiveBetweenPtr[T any, P cmp.Ordered](from, to P) Unit[T, *P] {
	checkBounds(from, to)
	return &rangePtrUnit[T, P]{from: from, to: to, exclusive: true}
}

func checkBounds[P cmp.Ordered](from, to P) {
	if cmp.Less(to, from) {
		panic(fmt.Sprintf("rules: invalid range bounds [%v, %v]", from, to))
	}
}

type rangeUnit[T any, P cmp.Ordered] struct {
	from, to  P
	exclusive bool
}

func (u *rangeUnit[T, P]) Name() string {
	if u.exclusive {
		return "exclusive_between"
	}

	return "inclusive_between"
}

func (u *rangeUnit[T, P]) MessageTemplate() string {
	if u.exclusive {
		return "'{PropertyName}' must be between {From} and {To} (exclusive); {Value} entered"
	}

	return "'{PropertyName}' must be between {From} and {To}; {Value} entered"
}

func (u *rangeUnit[T, P]) Validate(vctx *Context[T], value P) bool {
	return checkRange(vctx, value, u.from, u.to, u.exclusive)
}

type rangePtrUnit[T any, P cmp.Ordered] struct {
	from, to  P
	exclusive bool
}

func (u *rangePtrUnit[T, P]) Name() string {
	if u.exclusive {
		return "exclusive_between"
	}

	return "inclusive_between"
}

func (u *rangePtrUnit[T, P]) MessageTemplate() string {
	if u.exclusive {
		return "'{PropertyName}' must be between {From} and {To} (exclusive); {Value} entered"
	}

	return "'{PropertyName}' must be between {From} and {To}; {Value} entered"
}

func (u *rangePtrUnit[T, P]) Validate(vctx *Context[T], value *P) bool {
	if value == nil {
		return true
	}

	return checkRange(vctx, *value, u.from, u.to, u.exclusive)
}

func checkRange[T any, P cmp.Ordered](vctx *Context[T], value, from, to P, exclusive bool) bool {
	var ok bool
	if exclusive {
		ok = cmp.Less(from, value) && cmp.Less(value, to)
	} else {
		ok = !cmp.Less(value, from) && !cmp.Less(to, value)
	}
	if ok {
		return true
	}

	vctx.SetArg("From", from)
	vctx.SetArg("To", to)
	vctx.SetArg("Value", value)

	return false
}

// isNil reports whether a boxed value is nil or holds a nil pointer,
// interface, map, slice, channel, or function.
func isNil(value any) bool {
	if value == nil {
		return true
	}

	return isNilValue(reflect.ValueOf(value))
}

func isNilValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// MustCompileSchema compiles a JSON Schema document for use with [Schema].
// Panics on an invalid schema; schemas are declared alongside rules at
// startup, and a malformed schema is a declaration bug.
func MustCompileSchema(id, schemaJSON string) *jsonschema.Schema {
	schema, err := compileSchema(id, schemaJSON)
	if err != nil {
		panic(fmt.Sprintf("rules.MustCompileSchema: %v", err))
	}

	return schema
}

func compileSchema(id, schemaJSON string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	compiler.AssertContent()

	var doc any
	if err := json.Unmarshal([]byte(schemaJSON), &doc); err != nil {
		return nil, fmt.Errorf("invalid schema JSON: %w", err)
	}

	if id == "" {
		id = "inline://schema"
	}
	if err := compiler.AddResource(id, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	schema, err := compiler.Compile(id)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return schema, nil
}

// Schema creates a unit that validates a member against a compiled JSON
// Schema. The value is marshaled to JSON and checked against the schema, so
// any JSON-serializable member type works.
//
// A nil value passes; pair with [NotNil] to reject absent values.
//
// Example:
//
//	addressSchema := rules.MustCompileSchema("address", `{
//	    "type": "object",
//	    "required": ["city"],
//	    "properties": {"city": {"type": "string", "minLength": 1}}
//	}`)
//	rules.Schema[Person, Address](addressSchema)
func Schema[T, P any](schema *jsonschema.Schema) Unit[T, P] {
	if schema == nil {
		panic("rules: Schema requires a compiled schema")
	}

	return &schemaUnit[T, P]{schema: schema}
}

type schemaUnit[T, P any] struct {
	schema *jsonschema.Schema
}

func (u *schemaUnit[T, P]) Name() string { return "schema" }

func (u *schemaUnit[T, P]) MessageTemplate() string {
	return "'{PropertyName}' does not conform to the schema: {Detail}"
}

func (u *schemaUnit[T, P]) Validate(vctx *Context[T], value P) bool {
	if isNil(value) {
		return true
	}

	raw, err := json.Marshal(value)
	if err != nil {
		vctx.SetArg("Detail", err.Error())
		return false
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		vctx.SetArg("Detail", err.Error())
		return false
	}

	if err := u.schema.Validate(data); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			vctx.SetArg("Detail", verr.Error())
		} else {
			vctx.SetArg("Detail", err.Error())
		}

		return false
	}

	return true
}

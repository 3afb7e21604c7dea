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
	"fmt"
	"strings"
)

// Well-known message-formatting argument names populated by the engine for
// every failure. Units add their own (e.g. "From"/"To"/"Value" for ranges).
const (
	// ArgPropertyName interpolates the rule's resolved display name.
	ArgPropertyName = "PropertyName"

	// ArgPropertyValue interpolates the validated value.
	ArgPropertyValue = "PropertyValue"
)

// formatMessage interpolates {Name} placeholders in template from the
// message-formatting arguments. Placeholders with no recorded argument are
// left intact so a missing value is visible rather than silently blanked.
func formatMessage(template string, args map[string]any) string {
	if !strings.ContainsRune(template, '{') {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	for {
		open := strings.IndexByte(template, '{')
		if open < 0 {
			b.WriteString(template)
			break
		}

		closing := strings.IndexByte(template[open:], '}')
		if closing < 0 {
			b.WriteString(template)
			break
		}
		closing += open

		name := template[open+1 : closing]
		if value, ok := args[name]; ok {
			b.WriteString(template[:open])
			b.WriteString(fmt.Sprint(value))
		} else {
			b.WriteString(template[:closing+1])
		}

		template = template[closing+1:]
	}

	return b.String()
}

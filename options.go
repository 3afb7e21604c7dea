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

// runConfig holds per-call configuration assembled from [RunOption] values.
type runConfig struct {
	ruleSets []string
}

// RunOption configures one Validate call.
type RunOption func(*runConfig)

// WithRuleSets selects the rule sets to run. Rules tagged with any of the
// named sets run; untagged rules run only when the selection also names
// [RuleSetDefault]. Without this option only untagged rules run.
//
// Example:
//
//	result := v.Validate(person, rules.WithRuleSets("Update"))
func WithRuleSets(names ...string) RunOption {
	return func(cfg *runConfig) {
		cfg.ruleSets = append(cfg.ruleSets, names...)
	}
}

// WithAllRuleSets selects every rule regardless of rule-set tags.
func WithAllRuleSets() RunOption {
	return func(cfg *runConfig) {
		cfg.ruleSets = append(cfg.ruleSets, RuleSetAll)
	}
}

// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package examples provides a corpus of AsciiDoc sources
// paired with their expected HTML rendering.
package examples

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// Example is a single AsciiDoc source and its rendering.
type Example struct {
	// Name is unique among all examples.
	Name     string
	Section  string
	AsciiDoc string
	HTML     string
}

//go:embed examples.json
var examplesData []byte

// Load returns the examples in the corpus.
func Load() ([]Example, error) {
	var corpus []Example
	if err := json.Unmarshal(examplesData, &corpus); err != nil {
		return nil, fmt.Errorf("load examples: %w", err)
	}
	return corpus, nil
}

// Sections returns the distinct sections of the given examples
// in order of first appearance.
func Sections(corpus []Example) []string {
	var sections []string
	seen := make(map[string]struct{})
	for _, ex := range corpus {
		if _, ok := seen[ex.Section]; !ok {
			seen[ex.Section] = struct{}{}
			sections = append(sections, ex.Section)
		}
	}
	return sections
}

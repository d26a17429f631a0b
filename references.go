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

package asciidoc

// A type that implements IDMatcher
// can be checked for the presence of element IDs.
type IDMatcher interface {
	MatchID(id string) bool
}

// IDMap is a mapping of element IDs to the section headers that define them.
type IDMap map[string]*Header

// MatchID reports whether the ID appears in the map.
func (m IDMap) MatchID(id string) bool {
	_, ok := m[id]
	return ok
}

// Extract adds the IDs of any headers contained in node to the map.
// In case of conflicts,
// Extract will not replace any existing entries in the map
// and will use the first header in document order.
func (m IDMap) Extract(node Node) {
	Walk(node, &WalkOptions{
		Pre: func(c *Cursor) bool {
			switch n := c.Node().(type) {
			case *Header:
				if _, exists := m[n.ID]; n.ID != "" && !exists {
					m[n.ID] = n
				}
				return false
			case Inline:
				return false
			default:
				return true
			}
		},
	})
}

// Title returns the plain text of the header with the given ID
// or the empty string if the ID is not in the map.
func (m IDMap) Title(id string) string {
	h := m[id]
	if h == nil {
		return ""
	}
	return PlainText(h.Content)
}

// BrokenCrossRefs returns the cross references in node
// whose targets do not match any ID in ids,
// in document order.
func BrokenCrossRefs(node Node, ids IDMatcher) []*CrossRef {
	var broken []*CrossRef
	Walk(node, &WalkOptions{
		Pre: func(c *Cursor) bool {
			if ref, ok := c.Node().(*CrossRef); ok && !ids.MatchID(ref.Target) {
				broken = append(broken, ref)
			}
			return true
		},
	})
	return broken
}

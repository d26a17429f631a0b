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

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWalk(t *testing.T) {
	doc := Parse([]byte("== Title\n\n* a *b*\n** c\n"), nil)

	t.Run("Order", func(t *testing.T) {
		var got []string
		Walk(doc, &WalkOptions{
			Pre: func(c *Cursor) bool {
				got = append(got, fmt.Sprintf("%s%T", strings.Repeat(" ", c.Depth()), c.Node()))
				return true
			},
		})
		want := []string{
			"*asciidoc.Document",
			" *asciidoc.Header",
			"  *asciidoc.Text",
			" *asciidoc.UnorderedList",
			"  *asciidoc.ListItem",
			"   *asciidoc.Text",
			"   *asciidoc.Bold",
			"    *asciidoc.Text",
			"   *asciidoc.UnorderedList",
			"    *asciidoc.ListItem",
			"     *asciidoc.Text",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("pre-order (-want +got):\n%s", diff)
		}
	})

	t.Run("SkipChildren", func(t *testing.T) {
		var got []string
		Walk(doc, &WalkOptions{
			Pre: func(c *Cursor) bool {
				got = append(got, fmt.Sprintf("%T", c.Node()))
				_, isList := c.Node().(*UnorderedList)
				return !isList
			},
			Post: func(c *Cursor) bool {
				if _, ok := c.Node().(*UnorderedList); ok {
					t.Error("Post called for skipped node")
				}
				return true
			},
		})
		want := []string{
			"*asciidoc.Document",
			"*asciidoc.Header",
			"*asciidoc.Text",
			"*asciidoc.UnorderedList",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("visited (-want +got):\n%s", diff)
		}
	})

	t.Run("StopInPost", func(t *testing.T) {
		var got []string
		Walk(doc, &WalkOptions{
			Post: func(c *Cursor) bool {
				got = append(got, fmt.Sprintf("%T", c.Node()))
				_, isHeader := c.Node().(*Header)
				return !isHeader
			},
		})
		want := []string{"*asciidoc.Text", "*asciidoc.Header"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("post-order (-want +got):\n%s", diff)
		}
	})

	t.Run("Parent", func(t *testing.T) {
		Walk(doc, &WalkOptions{
			Pre: func(c *Cursor) bool {
				if _, ok := c.Node().(*Bold); ok {
					if _, ok := c.Parent().(*ListItem); !ok {
						t.Errorf("Parent of Bold = %T; want *asciidoc.ListItem", c.Parent())
					}
				}
				return true
			},
		})
	})

	t.Run("ChildrenOverride", func(t *testing.T) {
		n := 0
		Walk(doc, &WalkOptions{
			Pre: func(c *Cursor) bool {
				n++
				return true
			},
			Children: func(n Node) []Node {
				if _, ok := n.(*Document); ok {
					return Children(n)
				}
				return nil
			},
		})
		if n != 3 {
			t.Errorf("visited %d nodes; want 3", n)
		}
	})
}

func TestChildren(t *testing.T) {
	tests := []struct {
		node Node
		want int
	}{
		{&Text{Text: "x"}, 0},
		{&Paragraph{Content: text("x")}, 1},
		{&ListItem{Content: text("x"), Nested: &UnorderedList{}}, 2},
		{&DefinitionItem{Term: text("t"), Description: text("d")}, 2},
		{&Table{Rows: []*TableRow{{Cells: []*TableCell{{}, {}}}}}, 1},
		{&CodeBlock{Content: "x"}, 0},
		{&CrossRef{Target: "a", Content: text("a")}, 1},
	}
	for _, test := range tests {
		if got := len(Children(test.node)); got != test.want {
			t.Errorf("len(Children(%T)) = %d; want %d", test.node, got, test.want)
		}
	}
}

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

// Node is any element of a parsed document:
// a [*Document], a [Block], an [Inline],
// or one of the structural parts of a block
// ([*ListItem], [*DefinitionItem], [*TableRow], [*TableCell]).
type Node interface {
	node()
}

func (*Document) node()       {}
func (*ListItem) node()       {}
func (*DefinitionItem) node() {}
func (*TableRow) node()       {}
func (*TableCell) node()      {}

func (*Header) node()           {}
func (*Paragraph) node()        {}
func (*CodeBlock) node()        {}
func (*BlockQuote) node()       {}
func (*Admonition) node()       {}
func (*UnorderedList) node()    {}
func (*OrderedList) node()      {}
func (*DefinitionList) node()   {}
func (*Table) node()            {}
func (*HorizontalRule) node()   {}
func (*PassthroughBlock) node() {}

func (*Text) node()        {}
func (*Bold) node()        {}
func (*Italic) node()      {}
func (*Monospace) node()   {}
func (*Subscript) node()   {}
func (*Superscript) node() {}
func (*Link) node()        {}
func (*Image) node()       {}
func (*CrossRef) node()    {}
func (*Math) node()        {}
func (*LineBreak) node()   {}

// Children returns the direct children of n in document order.
// A [*DefinitionItem]'s children are its term inlines
// followed by its description inlines.
// Calling Children on nil or on a leaf node returns nil.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Document:
		return blockNodes(n.Blocks)
	case *Header:
		return inlineNodes(n.Content)
	case *Paragraph:
		return inlineNodes(n.Content)
	case *BlockQuote:
		return blockNodes(n.Blocks)
	case *Admonition:
		return blockNodes(n.Blocks)
	case *UnorderedList:
		return itemNodes(n.Items)
	case *OrderedList:
		return itemNodes(n.Items)
	case *ListItem:
		children := inlineNodes(n.Content)
		if n.Nested != nil {
			children = append(children, n.Nested)
		}
		return children
	case *DefinitionList:
		children := make([]Node, 0, len(n.Items))
		for _, item := range n.Items {
			children = append(children, item)
		}
		return children
	case *DefinitionItem:
		children := make([]Node, 0, len(n.Term)+len(n.Description))
		children = append(children, inlineNodes(n.Term)...)
		return append(children, inlineNodes(n.Description)...)
	case *Table:
		children := make([]Node, 0, len(n.Rows))
		for _, row := range n.Rows {
			children = append(children, row)
		}
		return children
	case *TableRow:
		children := make([]Node, 0, len(n.Cells))
		for _, cell := range n.Cells {
			children = append(children, cell)
		}
		return children
	case *TableCell:
		return inlineNodes(n.Content)
	case *Bold:
		return inlineNodes(n.Content)
	case *Italic:
		return inlineNodes(n.Content)
	case *Subscript:
		return inlineNodes(n.Content)
	case *Superscript:
		return inlineNodes(n.Content)
	case *Link:
		return inlineNodes(n.Content)
	case *CrossRef:
		return inlineNodes(n.Content)
	default:
		return nil
	}
}

func blockNodes(blocks []Block) []Node {
	if len(blocks) == 0 {
		return nil
	}
	nodes := make([]Node, len(blocks))
	for i, b := range blocks {
		nodes[i] = b
	}
	return nodes
}

func inlineNodes(inlines []Inline) []Node {
	if len(inlines) == 0 {
		return nil
	}
	nodes := make([]Node, len(inlines))
	for i, in := range inlines {
		nodes[i] = in
	}
	return nodes
}

func itemNodes(items []*ListItem) []Node {
	if len(items) == 0 {
		return nil
	}
	nodes := make([]Node, len(items))
	for i, item := range items {
		nodes[i] = item
	}
	return nodes
}

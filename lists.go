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
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var (
	unorderedMarkerRE  = regexp.MustCompile(`^[ \t]*(\*+|-)[ \t]+(\S.*)$`)
	orderedMarkerRE    = regexp.MustCompile(`^[ \t]*(\.+|\d+\.)[ \t]+(\S.*)$`)
	definitionMarkerRE = regexp.MustCompile(`^[ \t]*(\S(?:.*?[^:])?)::(?:[ \t]+(.*))?$`)
)

// orderedListStyles is the default numbering style of an ordered list
// by depth, repeating after the last entry.
var orderedListStyles = []string{
	"arabic",
	"loweralpha",
	"lowerroman",
	"upperalpha",
	"upperroman",
}

// listMarker is a parsed list item marker.
type listMarker struct {
	kind  BlockKind // UnorderedListKind or OrderedListKind
	depth int
	// number is the explicit number of an "N." marker or zero.
	number int
	text   string
}

// parseListMarker parses an unordered or ordered list item line.
// "*" and "." markers nest by repetition;
// "-" and "N." markers are always at depth 1.
func parseListMarker(line string) (listMarker, bool) {
	line = strings.TrimRight(line, " \t")
	if m := unorderedMarkerRE.FindStringSubmatch(line); m != nil {
		marker := listMarker{
			kind:  UnorderedListKind,
			depth: len(m[1]),
			text:  m[2],
		}
		if m[1] == "-" {
			marker.depth = 1
		}
		return marker, true
	}
	if m := orderedMarkerRE.FindStringSubmatch(line); m != nil {
		marker := listMarker{
			kind:  OrderedListKind,
			depth: len(m[1]),
			text:  m[2],
		}
		if m[1][0] != '.' {
			marker.depth = 1
			marker.number, _ = strconv.Atoi(strings.TrimSuffix(m[1], "."))
		}
		return marker, true
	}
	return listMarker{}, false
}

func parseListStart(p *parser) ([]Block, parseResult) {
	pre := p.preamble()
	line := p.peek(pre.next)
	if marker, ok := parseListMarker(line); ok {
		p.pos = pre.next
		list := p.parseList(marker.kind, marker.depth, nil)
		applyListPreamble(list, pre)
		return []Block{list}, matched
	}
	if definitionMarkerRE.MatchString(strings.TrimRight(line, " \t")) {
		p.pos = pre.next
		return []Block{p.parseDefinitionList()}, matched
	}
	return nil, noMatch
}

// parseList consumes list items of the given kind at the given depth.
// ancestors is the kinds of the enclosing lists.
// The returned list has no items if every line it consumed was dropped.
func (p *parser) parseList(kind BlockKind, depth int, ancestors []BlockKind) Block {
	var items []*ListItem
	start := 0
	ancestors = append(ancestors[:len(ancestors):len(ancestors)], kind)
loop:
	for {
		// Blank lines between items are skipped
		// as long as another item follows.
		i := p.pos
		for i < len(p.lines) && isBlankLine(p.lines[i]) {
			i++
		}
		if i >= len(p.lines) {
			break
		}
		marker, ok := parseListMarker(p.lines[i])
		if !ok {
			break
		}

		switch {
		case marker.kind == kind && marker.depth == depth:
			p.pos = i + 1
			if len(items) == 0 && marker.number > 1 {
				start = marker.number
			}
			items = append(items, &ListItem{
				Content: ParseInline(p.itemText(marker.text), p.attrs),
			})
		case marker.kind == kind && marker.depth > depth:
			if len(items) == 0 {
				p.log.Debug("dropped list item without parent",
					zap.String("path", p.path),
					zap.Int("line", p.lineno(i)))
				p.pos = i + 1
				continue
			}
			p.pos = i
			attachNestedList(items[len(items)-1], p.parseList(kind, depth+1, ancestors))
		case marker.kind == kind:
			break loop
		case len(items) == 0 || slices.Contains(ancestors, marker.kind):
			break loop
		default:
			p.pos = i
			attachNestedList(items[len(items)-1], p.parseList(marker.kind, marker.depth, ancestors))
		}
	}

	if kind == UnorderedListKind {
		return &UnorderedList{Items: items}
	}
	list := &OrderedList{
		Items: items,
		Style: orderedListStyles[(depth-1)%len(orderedListStyles)],
	}
	if start > 1 {
		list.Attributes = Attributes{"start": strconv.Itoa(start)}
	}
	return list
}

// itemText consumes the continuation lines of a list item
// and returns the item's text.
func (p *parser) itemText(first string) string {
	lines := []string{first}
	for !p.eof() {
		line := p.lines[p.pos]
		if isBlankLine(line) || isBlockStart(line) {
			break
		}
		if _, ok := parseAttributeLine(line); ok {
			break
		}
		lines = append(lines, line)
		p.pos++
	}
	return joinParagraphLines(lines)
}

// attachNestedList sets the nested list of item.
// Items of a second list of the same kind are merged into the first.
func attachNestedList(item *ListItem, nested Block) {
	switch nested := nested.(type) {
	case *UnorderedList:
		if len(nested.Items) == 0 {
			return
		}
		if prev, ok := item.Nested.(*UnorderedList); ok {
			prev.Items = append(prev.Items, nested.Items...)
			return
		}
	case *OrderedList:
		if len(nested.Items) == 0 {
			return
		}
		if prev, ok := item.Nested.(*OrderedList); ok {
			prev.Items = append(prev.Items, nested.Items...)
			return
		}
	}
	item.Nested = nested
}

// applyListPreamble merges the attribute line preceding a list into it.
func applyListPreamble(list Block, pre blockPreamble) {
	attrs := pre.attributes()
	switch list := list.(type) {
	case *UnorderedList:
		if style := pre.attrs.style(); style != "" {
			if attrs == nil {
				attrs = make(Attributes)
			}
			attrs["style"] = style
		}
		list.Attributes = attrs
	case *OrderedList:
		if style := pre.attrs.style(); slices.Contains(orderedListStyles, style) {
			list.Style = style
		}
		if start := list.Attributes["start"]; start != "" && attrs["start"] == "" {
			if attrs == nil {
				attrs = make(Attributes)
			}
			attrs["start"] = start
		}
		list.Attributes = attrs
	}
}

func (p *parser) parseDefinitionList() *DefinitionList {
	list := new(DefinitionList)
	for {
		i := p.pos
		for i < len(p.lines) && isBlankLine(p.lines[i]) {
			i++
		}
		m := definitionMarkerRE.FindStringSubmatch(strings.TrimRight(p.peek(i), " \t"))
		if m == nil {
			return list
		}
		p.pos = i + 1
		item := &DefinitionItem{
			Term: ParseInline(strings.TrimSpace(m[1]), p.attrs),
		}
		var lines []string
		if desc := strings.TrimSpace(m[2]); desc != "" {
			lines = append(lines, desc)
		}
		for !p.eof() {
			line := p.lines[p.pos]
			if isBlankLine(line) || isBlockStart(line) {
				break
			}
			if _, ok := parseAttributeLine(line); ok {
				break
			}
			lines = append(lines, line)
			p.pos++
		}
		if len(lines) > 0 {
			item.Description = ParseInline(joinParagraphLines(lines), p.attrs)
		}
		list.Items = append(list.Items, item)
	}
}

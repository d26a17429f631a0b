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
	"strconv"
	"strings"
)

var (
	// spanRE matches a cell span marker:
	// "N+" (colspan), ".N+" (rowspan), or "N.M+" (both).
	spanRE = regexp.MustCompile(`^(?:(\d+)|(\d*)\.(\d+))\+$`)
	// trailingSpanRE matches a span marker at the end of a cell's text,
	// which applies to the following cell.
	trailingSpanRE = regexp.MustCompile(`(?:^|[ \t])((?:\d+|\d*\.\d+)\+)$`)
)

// tableCell is a cell before inline parsing.
type tableCell struct {
	text    string
	colspan int
	rowspan int
}

func (c *tableCell) attributes() Attributes {
	var attrs Attributes
	if c.colspan > 1 {
		attrs = Attributes{"colspan": strconv.Itoa(c.colspan)}
	}
	if c.rowspan > 1 {
		if attrs == nil {
			attrs = make(Attributes)
		}
		attrs["rowspan"] = strconv.Itoa(c.rowspan)
	}
	return attrs
}

func parseTableStart(p *parser) ([]Block, parseResult) {
	pre := p.preamble()
	fence := strings.TrimRight(p.peek(pre.next), " \t")
	if !tableFenceRE.MatchString(fence) {
		return nil, noMatch
	}
	end := p.findClosingFence(pre.next+1, fence)
	table := &Table{Attributes: pre.attributes()}

	var rows [][]*tableCell
	if ncols := columnCount(table.Attributes["cols"]); ncols > 0 {
		var cells []*tableCell
		for _, row := range splitTableRows(p.lines[pre.next+1 : end]) {
			cells = append(cells, row...)
		}
		// A row never holds more columns than there are cells.
		rows = flowTableCells(cells, min(ncols, max(len(cells), 1)))
	} else {
		rows = splitTableRows(p.lines[pre.next+1 : end])
	}

	header := !table.Attributes.HasOption("noheader")
	for i, cells := range rows {
		row := &TableRow{Header: header && i == 0}
		for _, c := range cells {
			row.Cells = append(row.Cells, &TableCell{
				Content:    ParseInline(c.text, p.attrs),
				Attributes: c.attributes(),
			})
		}
		table.Rows = append(table.Rows, row)
	}
	p.pos = min(end+1, len(p.lines))
	return []Block{table}, matched
}

// splitTableRows splits the content lines of a table into cells,
// one row per line.
// A line without any cell separator continues the previous cell.
func splitTableRows(lines []string) [][]*tableCell {
	var rows [][]*tableCell
	var last *tableCell
	appendText := func(text string) {
		if last == nil || text == "" {
			return
		}
		if last.text == "" {
			last.text = text
		} else {
			last.text += " " + text
		}
	}

	for _, line := range lines {
		if isBlankLine(line) {
			continue
		}
		toks := splitCells(line)
		prefix := strings.TrimSpace(toks[0])
		toks = toks[1:]
		if len(toks) == 0 {
			appendText(prefix)
			continue
		}

		var row []*tableCell
		pending := new(tableCell)
		if !parseSpan(prefix, pending) {
			appendText(prefix)
		}
		for j, tok := range toks {
			text := strings.TrimSpace(tok)
			next := new(tableCell)
			if j < len(toks)-1 {
				if parseSpan(text, pending) {
					continue
				}
				if m := trailingSpanRE.FindStringSubmatchIndex(text); m != nil && parseSpan(text[m[2]:m[3]], next) {
					text = strings.TrimSpace(text[:m[0]])
				}
			}
			pending.text = text
			row = append(row, pending)
			last = pending
			pending = next
		}
		rows = append(rows, row)
	}
	return rows
}

// splitCells splits a table line on unescaped "|".
// The first element is the text before the first separator.
func splitCells(line string) []string {
	var toks []string
	sb := new(strings.Builder)
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			sb.WriteByte('|')
			i++
		case line[i] == '|':
			toks = append(toks, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(line[i])
		}
	}
	return append(toks, sb.String())
}

// parseSpan parses a span marker into c.
// It reports whether s is a span marker.
func parseSpan(s string, c *tableCell) bool {
	m := spanRE.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	if m[1] != "" {
		c.colspan, _ = strconv.Atoi(m[1])
		return true
	}
	if m[2] != "" {
		c.colspan, _ = strconv.Atoi(m[2])
	}
	c.rowspan, _ = strconv.Atoi(m[3])
	return true
}

// maxTableColumns bounds the column count a cols attribute can request.
const maxTableColumns = 1000

// columnCount returns the number of columns described by a cols attribute
// like "3", "1,2,1", or "2*,1", at most maxTableColumns.
// It returns zero if cols is empty.
func columnCount(cols string) int {
	cols = strings.TrimSpace(cols)
	if cols == "" {
		return 0
	}
	if n, err := strconv.Atoi(cols); err == nil {
		return min(n, maxTableColumns)
	}
	n := 0
	for _, col := range strings.FieldsFunc(cols, func(c rune) bool { return c == ',' || c == ';' }) {
		if mult, _, ok := strings.Cut(strings.TrimSpace(col), "*"); ok {
			if k, err := strconv.Atoi(mult); err == nil && k > 0 {
				n += min(k, maxTableColumns)
			} else {
				n++
			}
		} else {
			n++
		}
		if n >= maxTableColumns {
			return maxTableColumns
		}
	}
	return n
}

// flowTableCells arranges cells into rows of ncols columns,
// accounting for column and row spans.
func flowTableCells(cells []*tableCell, ncols int) [][]*tableCell {
	var rows [][]*tableCell
	var row []*tableCell
	// occupied[i] is the number of rows, including the current one,
	// that column i is covered by a cell from a previous row.
	occupied := make([]int, ncols)
	col := 0
	skipOccupied := func() {
		for col < ncols && occupied[col] > 0 {
			col++
		}
	}
	endRow := func() {
		if len(row) > 0 {
			rows = append(rows, row)
		}
		row = nil
		for i := range occupied {
			if occupied[i] > 0 {
				occupied[i]--
			}
		}
		col = 0
		skipOccupied()
	}

	skipOccupied()
	for _, c := range cells {
		for col >= ncols {
			endRow()
		}
		row = append(row, c)
		for n := max(c.colspan, 1); n > 0 && col < ncols; n-- {
			if c.rowspan > 1 {
				occupied[col] = c.rowspan
			}
			col++
		}
		skipOccupied()
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func cell(s string, attrs Attributes) *TableCell {
	return &TableCell{Content: text(s), Attributes: attrs}
}

func TestTables(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   *Table
	}{
		{
			name:   "Simple",
			source: "|===\n|Name |Value\n|a |1\n|===",
			want: &Table{Rows: []*TableRow{
				{Header: true, Cells: []*TableCell{cell("Name", nil), cell("Value", nil)}},
				{Cells: []*TableCell{cell("a", nil), cell("1", nil)}},
			}},
		},
		{
			name:   "Colspan",
			source: "|===\n|2+|Spans two|End\n|A|B|C\n|===",
			want: &Table{Rows: []*TableRow{
				{Header: true, Cells: []*TableCell{
					cell("Spans two", Attributes{"colspan": "2"}),
					cell("End", nil),
				}},
				{Cells: []*TableCell{cell("A", nil), cell("B", nil), cell("C", nil)}},
			}},
		},
		{
			name:   "LeadingSpan",
			source: "[%noheader]\n|===\n2+|wide\n.3+|tall\n2.2+|block\n|===",
			want: &Table{
				Attributes: Attributes{"options": "noheader"},
				Rows: []*TableRow{
					{Cells: []*TableCell{cell("wide", Attributes{"colspan": "2"})}},
					{Cells: []*TableCell{cell("tall", Attributes{"rowspan": "3"})}},
					{Cells: []*TableCell{cell("block", Attributes{"colspan": "2", "rowspan": "2"})}},
				},
			},
		},
		{
			name:   "TrailingSpan",
			source: "[%noheader]\n|===\n|a 2+|b\n|===",
			want: &Table{
				Attributes: Attributes{"options": "noheader"},
				Rows: []*TableRow{
					{Cells: []*TableCell{cell("a", nil), cell("b", Attributes{"colspan": "2"})}},
				},
			},
		},
		{
			name:   "Columns",
			source: "[cols=\"3\"]\n|===\n|h1 |h2 |h3\n|a\n|b\n|c\n|d |e |f\n|===",
			want: &Table{
				Attributes: Attributes{"cols": "3"},
				Rows: []*TableRow{
					{Header: true, Cells: []*TableCell{cell("h1", nil), cell("h2", nil), cell("h3", nil)}},
					{Cells: []*TableCell{cell("a", nil), cell("b", nil), cell("c", nil)}},
					{Cells: []*TableCell{cell("d", nil), cell("e", nil), cell("f", nil)}},
				},
			},
		},
		{
			name:   "ColumnsWithRowspan",
			source: "[cols=\"2\",options=\"noheader\"]\n|===\n.2+|tall |a\n|b\n|c |d\n|===",
			want: &Table{
				Attributes: Attributes{"cols": "2", "options": "noheader"},
				Rows: []*TableRow{
					{Cells: []*TableCell{cell("tall", Attributes{"rowspan": "2"}), cell("a", nil)}},
					{Cells: []*TableCell{cell("b", nil)}},
					{Cells: []*TableCell{cell("c", nil), cell("d", nil)}},
				},
			},
		},
		{
			name:   "ColumnsHuge",
			source: "[cols=99999999999999999]\n|===\n|a|b\n|===",
			want: &Table{
				Attributes: Attributes{"cols": "99999999999999999"},
				Rows: []*TableRow{
					{Header: true, Cells: []*TableCell{cell("a", nil), cell("b", nil)}},
				},
			},
		},
		{
			name:   "ColumnsHugeMultiplier",
			source: "[cols=\"1000000000*,2\"]\n|===\n|a|b\n|===",
			want: &Table{
				Attributes: Attributes{"cols": "1000000000*,2"},
				Rows: []*TableRow{
					{Header: true, Cells: []*TableCell{cell("a", nil), cell("b", nil)}},
				},
			},
		},
		{
			name:   "RaggedRows",
			source: "|===\n|a |b |c\n|d\n|===",
			want: &Table{Rows: []*TableRow{
				{Header: true, Cells: []*TableCell{cell("a", nil), cell("b", nil), cell("c", nil)}},
				{Cells: []*TableCell{cell("d", nil)}},
			}},
		},
		{
			name:   "EscapedPipe",
			source: "|===\n|a \\| b |c\n|===",
			want: &Table{Rows: []*TableRow{
				{Header: true, Cells: []*TableCell{cell("a | b", nil), cell("c", nil)}},
			}},
		},
		{
			name:   "ContinuationLine",
			source: "|===\n|first\nmore text |second\n|===",
			want: &Table{Rows: []*TableRow{
				{Header: true, Cells: []*TableCell{cell("first more text", nil)}},
				{Cells: []*TableCell{cell("second", nil)}},
			}},
		},
		{
			name:   "InlineMarkup",
			source: "|===\n|*bold* |`code`\n|===",
			want: &Table{Rows: []*TableRow{
				{Header: true, Cells: []*TableCell{
					{Content: []Inline{&Bold{Content: text("bold")}}},
					{Content: []Inline{&Monospace{Text: "code"}}},
				}},
			}},
		},
		{
			name:   "Title",
			source: ".Results\n|===\n|x\n|===",
			want: &Table{
				Attributes: Attributes{"title": "Results"},
				Rows: []*TableRow{
					{Header: true, Cells: []*TableCell{cell("x", nil)}},
				},
			},
		},
		{
			name:   "Empty",
			source: "|===\n|===",
			want:   &Table{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := Parse([]byte(test.source), nil)
			want := []Block{test.want}
			if diff := cmp.Diff(want, doc.Blocks, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Input:\n%s\nBlocks (-want +got):\n%s", test.source, diff)
			}
		})
	}
}

func TestColumnCount(t *testing.T) {
	tests := []struct {
		cols string
		want int
	}{
		{"", 0},
		{"3", 3},
		{"1,2,1", 3},
		{"2*,1", 3},
		{"3*", 3},
		{"<,^,>", 3},
		{"1;1", 2},
		{"99999999999999999", maxTableColumns},
		{"1000000000*,2", maxTableColumns},
		{"9223372036854775807*,9223372036854775807*", maxTableColumns},
	}
	for _, test := range tests {
		if got := columnCount(test.cols); got != test.want {
			t.Errorf("columnCount(%q) = %d; want %d", test.cols, got, test.want)
		}
	}
}

func TestSplitCells(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", []string{""}},
		{"|a", []string{"", "a"}},
		{"|a |b", []string{"", "a ", "b"}},
		{`|a \| b`, []string{"", "a | b"}},
		{"2+|x", []string{"2+", "x"}},
	}
	for _, test := range tests {
		if diff := cmp.Diff(test.want, splitCells(test.line)); diff != "" {
			t.Errorf("splitCells(%q) (-want +got):\n%s", test.line, diff)
		}
	}
}

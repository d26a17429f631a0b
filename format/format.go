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

// Package format provides a function to write a parsed AsciiDoc document
// back out as normalized AsciiDoc.
package format

import (
	"bytes"
	"io"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"zombiezen.com/go/asciidoc"
)

// Format writes the given document as AsciiDoc to the given writer.
// Attribute references have already been substituted in a parsed document,
// so the output contains no attribute entries.
// Parsing the output yields a document with the same blocks as doc,
// provided that the text of doc does not itself contain markup.
func Format(w io.Writer, doc *asciidoc.Document) error {
	ww := &errWriter{w: w}
	f := new(formatter)
	f.blocks(ww, doc.Blocks)
	return ww.err
}

type formatter struct{}

func (f *formatter) blocks(w *errWriter, blocks []asciidoc.Block) {
	for i, b := range blocks {
		if i > 0 {
			w.WriteString("\n")
			if isList(blocks[i-1]) && isList(b) {
				// Keep adjacent lists apart.
				w.WriteString("//\n\n")
			}
		}
		f.block(w, b)
	}
}

func isList(b asciidoc.Block) bool {
	switch b.Kind() {
	case asciidoc.UnorderedListKind, asciidoc.OrderedListKind, asciidoc.DefinitionListKind:
		return true
	default:
		return false
	}
}

func (f *formatter) block(w *errWriter, block asciidoc.Block) {
	switch b := block.(type) {
	case *asciidoc.Header:
		w.WriteString(strings.Repeat("=", b.Level))
		w.WriteString(" ")
		f.inlines(w, b.Content)
		if b.ID != asciidoc.GenerateID(asciidoc.PlainText(b.Content)) {
			w.WriteString(" [#")
			w.WriteString(b.ID)
			w.WriteString("]")
		}
		w.WriteString("\n")
	case *asciidoc.Paragraph:
		if len(b.Content) == 1 {
			if img, ok := b.Content[0].(*asciidoc.Image); ok {
				attrs := img.Attributes
				if title := attrs["title"]; title != "" {
					writeTitle(w, title)
					attrs = without(attrs, "title")
				}
				w.WriteString("image::")
				writeImageTarget(w, img.URL, img.Alt, attrs)
				w.WriteString("\n")
				return
			}
		}
		f.inlines(w, b.Content)
		w.WriteString("\n")
	case *asciidoc.CodeBlock:
		writeTitle(w, b.Attributes["title"])
		var positional []string
		if b.Language != "" || len(b.Attributes) > 0 {
			positional = []string{"listing", ""}
			if b.Language != "" {
				positional = []string{"source", b.Language}
			}
		}
		named := make(asciidoc.Attributes)
		for k, v := range b.Attributes {
			switch {
			case k == "title":
			case v == "" && k != "options":
				positional = append(positional, k)
			default:
				named[k] = v
			}
		}
		if len(positional) > 0 {
			w.WriteString(attributeLine(positional, named))
			w.WriteString("\n")
		}
		fence := fenceFor('-', b.Content)
		w.WriteString(fence)
		w.WriteString("\n")
		if b.Content != "" {
			w.WriteString(b.Content)
			w.WriteString("\n")
		}
		w.WriteString(fence)
		w.WriteString("\n")
		numbers := make([]int, 0, len(b.Callouts))
		for n := range b.Callouts {
			numbers = append(numbers, n)
		}
		sort.Ints(numbers)
		for _, n := range numbers {
			w.WriteString("<")
			w.WriteString(strconv.Itoa(n))
			w.WriteString("> ")
			w.WriteString(b.Callouts[n])
			w.WriteString("\n")
		}
	case *asciidoc.PassthroughBlock:
		writeTitle(w, b.Attributes["title"])
		var positional []string
		named := make(asciidoc.Attributes)
		if style := b.Attributes["style"]; style != "" {
			positional = append(positional, style)
		}
		for k, v := range b.Attributes {
			switch {
			case k == "style" || k == "title":
			case v == "" && k != "options":
				positional = append(positional, k)
			default:
				named[k] = v
			}
		}
		if len(positional) > 0 || len(named) > 0 {
			w.WriteString(attributeLine(positional, named))
			w.WriteString("\n")
		}
		fence := fenceFor('+', b.Content)
		w.WriteString(fence)
		w.WriteString("\n")
		if b.Content != "" {
			w.WriteString(b.Content)
			w.WriteString("\n")
		}
		w.WriteString(fence)
		w.WriteString("\n")
	case *asciidoc.BlockQuote:
		if b.Attribution != "" || b.CiteTitle != "" {
			positional := []string{"quote", b.Attribution}
			if b.CiteTitle != "" {
				positional = append(positional, b.CiteTitle)
			}
			w.WriteString(attributeLine(positional, nil))
			w.WriteString("\n")
		}
		f.delimited(w, '_', b.Blocks)
	case *asciidoc.Admonition:
		writeTitle(w, b.Title)
		w.WriteString("[")
		w.WriteString(b.Type.String())
		w.WriteString("]\n")
		f.delimited(w, '=', b.Blocks)
	case *asciidoc.UnorderedList:
		writeTitle(w, b.Attributes["title"])
		var positional []string
		if style := b.Attributes["style"]; style != "" {
			positional = append(positional, style)
		}
		named := without(b.Attributes, "style", "title")
		if len(positional) > 0 || len(named) > 0 {
			w.WriteString(attributeLine(positional, named))
			w.WriteString("\n")
		}
		f.listItems(w, b, 1, 1)
	case *asciidoc.OrderedList:
		writeTitle(w, b.Attributes["title"])
		var positional []string
		if b.Style != "" && b.Style != "arabic" {
			positional = append(positional, b.Style)
		}
		named := without(b.Attributes, "title")
		if len(positional) > 0 || len(named) > 0 {
			w.WriteString(attributeLine(positional, named))
			w.WriteString("\n")
		}
		f.listItems(w, b, 1, 1)
	case *asciidoc.DefinitionList:
		for _, item := range b.Items {
			f.inlines(w, item.Term)
			w.WriteString("::")
			if len(item.Description) > 0 {
				w.WriteString(" ")
				f.inlines(w, item.Description)
			}
			w.WriteString("\n")
		}
	case *asciidoc.Table:
		f.table(w, b)
	case *asciidoc.HorizontalRule:
		w.WriteString("'''\n")
	}
}

// delimited writes blocks between fences of c
// long enough to not collide with any fence inside.
func (f *formatter) delimited(w *errWriter, c byte, blocks []asciidoc.Block) {
	buf := new(bytes.Buffer)
	inner := &errWriter{w: buf}
	f.blocks(inner, blocks)
	if inner.err != nil {
		w.err = inner.err
		return
	}
	fence := fenceFor(c, buf.String())
	w.WriteString(fence)
	w.WriteString("\n")
	w.Write(buf.Bytes())
	w.WriteString(fence)
	w.WriteString("\n")
}

// listItems writes the items of list at the given depths.
// Each list kind counts its depth separately.
func (f *formatter) listItems(w *errWriter, list asciidoc.Block, unorderedDepth, orderedDepth int) {
	var items []*asciidoc.ListItem
	var marker string
	switch list := list.(type) {
	case *asciidoc.UnorderedList:
		items = list.Items
		marker = strings.Repeat("*", unorderedDepth)
	case *asciidoc.OrderedList:
		items = list.Items
		marker = strings.Repeat(".", orderedDepth)
	default:
		return
	}
	for _, item := range items {
		w.WriteString(marker)
		w.WriteString(" ")
		f.inlines(w, item.Content)
		w.WriteString("\n")
		switch item.Nested.(type) {
		case *asciidoc.UnorderedList:
			f.listItems(w, item.Nested, unorderedDepth+1, orderedDepth)
		case *asciidoc.OrderedList:
			f.listItems(w, item.Nested, unorderedDepth, orderedDepth+1)
		}
	}
}

func (f *formatter) table(w *errWriter, b *asciidoc.Table) {
	writeTitle(w, b.Attributes["title"])
	named := without(b.Attributes, "title")
	if len(b.Rows) > 0 && !b.Rows[0].Header && !named.HasOption("noheader") {
		named = named.Clone()
		if named["options"] == "" {
			named["options"] = "noheader"
		} else {
			named["options"] += ",noheader"
		}
	}
	if len(named) > 0 {
		w.WriteString(attributeLine(nil, named))
		w.WriteString("\n")
	}
	w.WriteString("|===\n")
	for _, row := range b.Rows {
		for i, cell := range row.Cells {
			span := spanMarker(cell.Attributes)
			if i > 0 && span != "" {
				w.WriteString(" ")
			}
			w.WriteString(span)
			w.WriteString("|")
			buf := new(bytes.Buffer)
			f.inlines(&errWriter{w: buf}, cell.Content)
			w.WriteString(strings.ReplaceAll(buf.String(), "|", `\|`))
		}
		w.WriteString("\n")
	}
	w.WriteString("|===\n")
}

func spanMarker(attrs asciidoc.Attributes) string {
	colspan, rowspan := attrs["colspan"], attrs["rowspan"]
	switch {
	case colspan != "" && rowspan != "":
		return colspan + "." + rowspan + "+"
	case colspan != "":
		return colspan + "+"
	case rowspan != "":
		return "." + rowspan + "+"
	default:
		return ""
	}
}

var attributeReferenceRE = regexp.MustCompile(`\{[A-Za-z0-9_][A-Za-z0-9_-]*\}`)

// inlines writes a sequence of inline nodes on the current line.
func (f *formatter) inlines(w *errWriter, inlines []asciidoc.Inline) {
	for _, in := range inlines {
		asciidoc.Walk(in, &asciidoc.WalkOptions{
			Pre: func(c *asciidoc.Cursor) bool {
				return f.preInline(w, c.Node())
			},
			Post: func(c *asciidoc.Cursor) bool {
				postInline(w, c.Node())
				return true
			},
		})
	}
}

func (f *formatter) preInline(w *errWriter, node asciidoc.Node) bool {
	switch n := node.(type) {
	case *asciidoc.Text:
		// Parsing strips the backslash from any escaped reference,
		// so escaping every reference keeps it literal.
		w.WriteString(attributeReferenceRE.ReplaceAllString(n.Text, `\$0`))
		return false
	case *asciidoc.Bold:
		w.WriteString("*")
	case *asciidoc.Italic:
		w.WriteString("_")
	case *asciidoc.Subscript:
		w.WriteString("~")
	case *asciidoc.Superscript:
		w.WriteString("^")
	case *asciidoc.Monospace:
		w.WriteString("`")
		w.WriteString(n.Text)
		w.WriteString("`")
		return false
	case *asciidoc.Link:
		bare := strings.HasPrefix(n.URL, "http://") || strings.HasPrefix(n.URL, "https://")
		if !bare {
			w.WriteString("link:")
		}
		w.WriteString(n.URL)
		if !n.TextPresent {
			if !bare {
				w.WriteString("[]")
			}
			return false
		}
		w.WriteString("[")
	case *asciidoc.Image:
		w.WriteString("image:")
		writeImageTarget(w, n.URL, n.Alt, n.Attributes)
		return false
	case *asciidoc.CrossRef:
		w.WriteString("<<")
		w.WriteString(n.Target)
		if !n.TextPresent {
			w.WriteString(">>")
			return false
		}
		w.WriteString(",")
	case *asciidoc.Math:
		w.WriteString("stem:[")
		w.WriteString(n.Content)
		w.WriteString("]")
		return false
	case *asciidoc.LineBreak:
		w.WriteString(" +\n")
		return false
	default:
		return false
	}
	return true
}

func postInline(w *errWriter, node asciidoc.Node) {
	switch node.(type) {
	case *asciidoc.Bold:
		w.WriteString("*")
	case *asciidoc.Italic:
		w.WriteString("_")
	case *asciidoc.Subscript:
		w.WriteString("~")
	case *asciidoc.Superscript:
		w.WriteString("^")
	case *asciidoc.Link:
		w.WriteString("]")
	case *asciidoc.CrossRef:
		w.WriteString(">>")
	}
}

func writeTitle(w *errWriter, title string) {
	if title == "" {
		return
	}
	w.WriteString(".")
	w.WriteString(title)
	w.WriteString("\n")
}

func writeImageTarget(w *errWriter, url, alt string, attrs asciidoc.Attributes) {
	w.WriteString(url)
	var positional []string
	if alt != "" {
		positional = append(positional, alt)
	}
	line := attributeLine(positional, attrs)
	w.WriteString(line)
}

// attributeLine formats a bracketed attribute list.
// Named attributes are written in sorted order.
func attributeLine(positional []string, named asciidoc.Attributes) string {
	sb := new(strings.Builder)
	sb.WriteString("[")
	for i, v := range positional {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(quoteAttribute(v))
	}
	keys := make([]string, 0, len(named))
	for k := range named {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 || len(positional) > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(quoteAttribute(named[k]))
	}
	sb.WriteString("]")
	return sb.String()
}

func quoteAttribute(v string) string {
	if strings.ContainsAny(v, `,=`) || strings.TrimSpace(v) != v {
		return `"` + v + `"`
	}
	return v
}

// without returns a copy of attrs without the given keys,
// or nil if nothing remains.
func without(attrs asciidoc.Attributes, keys ...string) asciidoc.Attributes {
	var result asciidoc.Attributes
	for k, v := range attrs {
		if slices.Contains(keys, k) {
			continue
		}
		if result == nil {
			result = make(asciidoc.Attributes)
		}
		result[k] = v
	}
	return result
}

// fenceFor returns a delimiter line of c
// that does not appear as a line of content.
func fenceFor(c byte, content string) string {
	n := 4
	for _, line := range strings.Split(content, "\n") {
		if len(line) >= n && strings.Trim(line, string(c)) == "" {
			n = len(line) + 1
		}
	}
	return strings.Repeat(string(c), n)
}

type errWriter struct {
	w          io.Writer
	hasWritten bool
	err        error
}

func (w *errWriter) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = w.w.Write(p)
	w.hasWritten = w.hasWritten || n > 0
	return n, w.err
}

func (w *errWriter) WriteString(s string) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = io.WriteString(w.w, s)
	w.hasWritten = w.hasWritten || n > 0
	return n, w.err
}

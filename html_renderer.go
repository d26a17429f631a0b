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
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// An HTMLRenderer converts parsed AsciiDoc documents into HTML.
//
// # Security considerations
//
// AsciiDoc permits passthrough blocks, which are copied to the output verbatim
// and can introduce [Cross-Site Scripting (XSS)] vulnerabilities
// when used with untrusted inputs.
// There are a few options to mitigate this risk:
//
//   - The resulting HTML can be sent through an HTML sanitizer.
//     This is highly recommended.
//   - Set IgnoreRaw to skip passthrough blocks.
//     Math passthroughs are still rendered, escaped.
//   - FilterTag can be used to prevent some tags from being used
//     while still showing the source text.
//
// [Cross-Site Scripting (XSS)]: https://owasp.org/www-community/attacks/xss/
type HTMLRenderer struct {
	// IDMap holds the document's section headers.
	// Cross references without text use the title of the header they point to.
	IDMap IDMap
	// If IgnoreRaw is true, the renderer skips any raw passthrough blocks.
	IgnoreRaw bool
	// FilterTag is a predicate function
	// that reports whether an element with the given lowercased tag name
	// in a passthrough block should have its leading angle bracket escaped.
	// If FilterTag is nil, then no filtering will occur.
	//
	// FilterTag functions must not modify the byte slice
	// nor retain the slice after the function returns.
	FilterTag func(tag []byte) bool
	// Highlighter, if not nil, renders the content of code blocks
	// that have a language and no callouts.
	Highlighter CodeHighlighter
	// Logger receives a debug message for each node the renderer skips.
	// If nil, nothing is logged.
	Logger *zap.Logger
}

// A CodeHighlighter converts source code into HTML markup.
type CodeHighlighter interface {
	// AppendHighlighted appends the highlighted HTML of code to dst
	// and returns the resulting byte slice.
	// If the language is not supported,
	// AppendHighlighted returns dst unchanged and false.
	AppendHighlighted(dst []byte, lang, code string) ([]byte, bool)
}

// RenderHTML writes the given document to the given writer as HTML
// using the default options for [HTMLRenderer].
// It will return the first error encountered, if any.
func RenderHTML(w io.Writer, doc *Document) error {
	ids := make(IDMap)
	ids.Extract(doc)
	return (&HTMLRenderer{IDMap: ids}).Render(w, doc)
}

// Render writes the given document to the given writer as HTML.
// Each top-level block is followed by a newline.
// It will return the first error encountered, if any.
func (r *HTMLRenderer) Render(w io.Writer, doc *Document) error {
	var buf []byte
	for _, b := range doc.Blocks {
		buf = r.AppendBlock(buf[:0], b)
		if len(buf) == 0 {
			continue
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("render asciidoc to html: %w", err)
		}
	}
	return nil
}

// AppendBlock appends the rendered HTML of a block to dst
// and returns the resulting byte slice.
func (r *HTMLRenderer) AppendBlock(dst []byte, block Block) []byte {
	state := &renderState{
		HTMLRenderer: r,
		dst:          dst,
	}
	state.block(block)
	return state.dst
}

// AppendInline appends the rendered HTML of an inline node to dst
// and returns the resulting byte slice.
func (r *HTMLRenderer) AppendInline(dst []byte, inline Inline) []byte {
	state := &renderState{
		HTMLRenderer: r,
		dst:          dst,
	}
	state.inline(inline)
	return state.dst
}

type renderState struct {
	*HTMLRenderer
	dst      []byte
	lowerBuf []byte
}

func (r *renderState) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *renderState) openTagAttr(name atom.Atom) {
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, name.String()...)
}

func (r *renderState) openTag(name atom.Atom) {
	r.openTagAttr(name)
	r.dst = append(r.dst, '>')
}

func (r *renderState) closeTag(name atom.Atom) {
	r.dst = append(r.dst, "</"...)
	r.dst = append(r.dst, name.String()...)
	r.dst = append(r.dst, '>')
}

func (r *renderState) attr(name, value string) {
	r.dst = append(r.dst, ' ')
	r.dst = append(r.dst, name...)
	r.dst = append(r.dst, `="`...)
	r.dst = append(r.dst, html.EscapeString(value)...)
	r.dst = append(r.dst, '"')
}

// title writes a block title paragraph if attrs has one.
func (r *renderState) title(attrs Attributes) {
	if title := attrs["title"]; title != "" {
		r.openTagAttr(atom.P)
		r.attr("class", "title")
		r.dst = append(r.dst, '>')
		r.dst = escapeHTML(r.dst, title)
		r.closeTag(atom.P)
		r.dst = append(r.dst, '\n')
	}
}

func (r *renderState) block(block Block) {
	switch block := block.(type) {
	case *Paragraph:
		r.openTag(atom.P)
		r.inlines(block.Content)
		r.closeTag(atom.P)
	case *HorizontalRule:
		r.openTag(atom.Hr)
	case *Header:
		var tagName atom.Atom
		switch block.Level {
		case 1:
			tagName = atom.H1
		case 2:
			tagName = atom.H2
		case 3:
			tagName = atom.H3
		case 4:
			tagName = atom.H4
		case 5:
			tagName = atom.H5
		default:
			tagName = atom.H6
		}
		r.openTagAttr(tagName)
		if block.ID != "" {
			r.attr("id", block.ID)
		}
		r.dst = append(r.dst, '>')
		r.inlines(block.Content)
		r.closeTag(tagName)
	case *CodeBlock:
		r.codeBlock(block)
	case *BlockQuote:
		r.openTag(atom.Blockquote)
		r.dst = append(r.dst, '\n')
		r.blocks(block.Blocks)
		if block.Attribution != "" || block.CiteTitle != "" {
			r.openTag(atom.Footer)
			r.dst = append(r.dst, "&#8212; "...)
			r.dst = escapeHTML(r.dst, block.Attribution)
			if block.CiteTitle != "" {
				if block.Attribution != "" {
					r.dst = append(r.dst, ", "...)
				}
				r.openTag(atom.Cite)
				r.dst = escapeHTML(r.dst, block.CiteTitle)
				r.closeTag(atom.Cite)
			}
			r.closeTag(atom.Footer)
			r.dst = append(r.dst, '\n')
		}
		r.closeTag(atom.Blockquote)
	case *Admonition:
		r.openTagAttr(atom.Div)
		r.attr("class", "admonition "+strings.ToLower(block.Type.String()))
		r.dst = append(r.dst, ">\n"...)
		if block.Title != "" {
			r.title(Attributes{"title": block.Title})
		}
		r.blocks(block.Blocks)
		r.closeTag(atom.Div)
	case *UnorderedList:
		r.title(block.Attributes)
		r.openTag(atom.Ul)
		r.dst = append(r.dst, '\n')
		r.listItems(block.Items)
		r.closeTag(atom.Ul)
	case *OrderedList:
		r.title(block.Attributes)
		r.openTagAttr(atom.Ol)
		if typ := orderedListType(block.Style); typ != "" {
			r.attr("type", typ)
		}
		if start, err := strconv.Atoi(block.Attributes["start"]); err == nil && start != 1 {
			r.dst = append(r.dst, ` start="`...)
			r.dst = strconv.AppendInt(r.dst, int64(start), 10)
			r.dst = append(r.dst, `"`...)
		}
		if block.Attributes.HasOption("reversed") {
			r.dst = append(r.dst, " reversed"...)
		}
		r.dst = append(r.dst, ">\n"...)
		r.listItems(block.Items)
		r.closeTag(atom.Ol)
	case *DefinitionList:
		r.openTag(atom.Dl)
		r.dst = append(r.dst, '\n')
		for _, item := range block.Items {
			r.openTag(atom.Dt)
			r.inlines(item.Term)
			r.closeTag(atom.Dt)
			r.dst = append(r.dst, '\n')
			if len(item.Description) > 0 {
				r.openTag(atom.Dd)
				r.inlines(item.Description)
				r.closeTag(atom.Dd)
				r.dst = append(r.dst, '\n')
			}
		}
		r.closeTag(atom.Dl)
	case *Table:
		r.table(block)
	case *PassthroughBlock:
		if block.Attributes["style"] == "stem" {
			r.openTagAttr(atom.Div)
			r.attr("class", "stem")
			r.dst = append(r.dst, `>\[`...)
			r.dst = escapeHTML(r.dst, block.Content)
			r.dst = append(r.dst, `\]`...)
			r.closeTag(atom.Div)
			return
		}
		if r.IgnoreRaw {
			r.logger().Debug("skipped raw passthrough block", zap.Int("size", len(block.Content)))
			return
		}
		if r.FilterTag == nil {
			r.dst = append(r.dst, block.Content...)
		} else {
			r.filterRaw(block.Content)
		}
	default:
		r.logger().Debug("skipped unknown block", zap.String("type", fmt.Sprintf("%T", block)))
	}
}

// blocks renders each block followed by a newline.
func (r *renderState) blocks(blocks []Block) {
	for _, b := range blocks {
		start := len(r.dst)
		r.block(b)
		if len(r.dst) > start {
			r.dst = append(r.dst, '\n')
		}
	}
}

func (r *renderState) listItems(items []*ListItem) {
	for _, item := range items {
		r.openTag(atom.Li)
		r.inlines(item.Content)
		if item.Nested != nil {
			r.dst = append(r.dst, '\n')
			r.block(item.Nested)
			r.dst = append(r.dst, '\n')
		}
		r.closeTag(atom.Li)
		r.dst = append(r.dst, '\n')
	}
}

func orderedListType(style string) string {
	switch style {
	case "loweralpha":
		return "a"
	case "upperalpha":
		return "A"
	case "lowerroman":
		return "i"
	case "upperroman":
		return "I"
	default:
		return ""
	}
}

// calloutMarkerRE matches the callout markers at the end of a line of code.
var calloutMarkerRE = regexp.MustCompile(`((?:[ \t]*<\d+>)+)[ \t]*$`)

func (r *renderState) codeBlock(block *CodeBlock) {
	r.title(block.Attributes)
	r.openTagAttr(atom.Pre)
	if _, ok := block.Attributes["linenums"]; ok {
		r.attr("class", "linenums")
	}
	r.dst = append(r.dst, '>')
	r.openTagAttr(atom.Code)
	if block.Language != "" {
		r.attr("class", "language-"+block.Language)
	}
	r.dst = append(r.dst, '>')
	if len(block.Callouts) == 0 {
		highlighted := false
		if r.Highlighter != nil && block.Language != "" {
			r.dst, highlighted = r.Highlighter.AppendHighlighted(r.dst, block.Language, block.Content)
			if !highlighted {
				r.logger().Debug("no highlighter for language", zap.String("language", block.Language))
			}
		}
		if !highlighted {
			r.dst = escapeHTML(r.dst, block.Content)
		}
	} else {
		for i, line := range strings.Split(block.Content, "\n") {
			if i > 0 {
				r.dst = append(r.dst, '\n')
			}
			m := calloutMarkerRE.FindStringSubmatchIndex(line)
			if m == nil {
				r.dst = escapeHTML(r.dst, line)
				continue
			}
			r.dst = escapeHTML(r.dst, line[:m[0]])
			for _, marker := range strings.Fields(strings.NewReplacer("<", " ", ">", " ").Replace(line[m[2]:m[3]])) {
				r.dst = append(r.dst, ` <b class="conum">(`...)
				r.dst = append(r.dst, marker...)
				r.dst = append(r.dst, `)</b>`...)
			}
		}
	}
	r.closeTag(atom.Code)
	r.closeTag(atom.Pre)

	if len(block.Callouts) == 0 {
		return
	}
	numbers := make([]int, 0, len(block.Callouts))
	for n := range block.Callouts {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	r.dst = append(r.dst, '\n')
	r.openTagAttr(atom.Ol)
	r.attr("class", "colist")
	r.dst = append(r.dst, ">\n"...)
	for _, n := range numbers {
		r.openTagAttr(atom.Li)
		r.dst = append(r.dst, ` value="`...)
		r.dst = strconv.AppendInt(r.dst, int64(n), 10)
		r.dst = append(r.dst, `">`...)
		r.dst = escapeHTML(r.dst, block.Callouts[n])
		r.closeTag(atom.Li)
		r.dst = append(r.dst, '\n')
	}
	r.closeTag(atom.Ol)
}

func (r *renderState) table(block *Table) {
	r.openTag(atom.Table)
	r.dst = append(r.dst, '\n')
	if title := block.Attributes["title"]; title != "" {
		r.openTag(atom.Caption)
		r.dst = escapeHTML(r.dst, title)
		r.closeTag(atom.Caption)
		r.dst = append(r.dst, '\n')
	}
	var section atom.Atom
	for _, row := range block.Rows {
		want := atom.Tbody
		if row.Header {
			want = atom.Thead
		}
		if want != section {
			if section != 0 {
				r.closeTag(section)
				r.dst = append(r.dst, '\n')
			}
			section = want
			r.openTag(section)
			r.dst = append(r.dst, '\n')
		}
		cellTag := atom.Td
		if row.Header {
			cellTag = atom.Th
		}
		r.openTag(atom.Tr)
		r.dst = append(r.dst, '\n')
		for _, cell := range row.Cells {
			r.openTagAttr(cellTag)
			if v := cell.Attributes["colspan"]; v != "" {
				r.attr("colspan", v)
			}
			if v := cell.Attributes["rowspan"]; v != "" {
				r.attr("rowspan", v)
			}
			r.dst = append(r.dst, '>')
			r.inlines(cell.Content)
			r.closeTag(cellTag)
			r.dst = append(r.dst, '\n')
		}
		r.closeTag(atom.Tr)
		r.dst = append(r.dst, '\n')
	}
	if section != 0 {
		r.closeTag(section)
		r.dst = append(r.dst, '\n')
	}
	r.closeTag(atom.Table)
}

func (r *renderState) inlines(inlines []Inline) {
	for _, c := range inlines {
		r.inline(c)
	}
}

func (r *renderState) inline(inline Inline) {
	const hardLineBreak = "<br>\n"
	switch inline := inline.(type) {
	case *Text:
		r.dst = escapeHTML(r.dst, inline.Text)
	case *LineBreak:
		r.dst = append(r.dst, hardLineBreak...)
	case *Italic:
		r.openTag(atom.Em)
		r.inlines(inline.Content)
		r.closeTag(atom.Em)
	case *Bold:
		r.openTag(atom.Strong)
		r.inlines(inline.Content)
		r.closeTag(atom.Strong)
	case *Monospace:
		r.openTag(atom.Code)
		r.dst = escapeHTML(r.dst, inline.Text)
		r.closeTag(atom.Code)
	case *Subscript:
		r.openTag(atom.Sub)
		r.inlines(inline.Content)
		r.closeTag(atom.Sub)
	case *Superscript:
		r.openTag(atom.Sup)
		r.inlines(inline.Content)
		r.closeTag(atom.Sup)
	case *Link:
		r.openTagAttr(atom.A)
		r.attr("href", NormalizeURI(inline.URL))
		r.dst = append(r.dst, '>')
		r.inlines(inline.Content)
		r.closeTag(atom.A)
	case *Image:
		r.openTagAttr(atom.Img)
		r.attr("src", NormalizeURI(inline.URL))
		r.attr("alt", inline.Alt)
		for _, name := range []string{"width", "height", "title"} {
			if v := inline.Attributes[name]; v != "" {
				r.attr(name, v)
			}
		}
		r.dst = append(r.dst, '>')
	case *CrossRef:
		r.openTagAttr(atom.A)
		r.attr("href", "#"+inline.Target)
		r.dst = append(r.dst, '>')
		if title := r.IDMap.Title(inline.Target); !inline.TextPresent && title != "" {
			r.dst = escapeHTML(r.dst, title)
		} else {
			r.inlines(inline.Content)
		}
		r.closeTag(atom.A)
	case *Math:
		r.openTagAttr(atom.Span)
		r.attr("class", "stem")
		r.dst = append(r.dst, `>\(`...)
		r.dst = escapeHTML(r.dst, inline.Content)
		r.dst = append(r.dst, `\)`...)
		r.closeTag(atom.Span)
	default:
		r.logger().Debug("skipped unknown inline", zap.String("type", fmt.Sprintf("%T", inline)))
	}
}

// filterRaw escapes the leading angle bracket of any tag in rawHTML
// that FilterTag reports.
func (r *renderState) filterRaw(rawHTML string) {
	z := nethtml.NewTokenizer(strings.NewReader(rawHTML))
	for {
		tt := z.Next()
		if tt == nethtml.ErrorToken {
			// Anything left unconsumed at EOF is in z.Raw().
			r.dst = append(r.dst, z.Raw()...)
			return
		}
		raw := z.Raw()
		if tt == nethtml.StartTagToken || tt == nethtml.EndTagToken || tt == nethtml.SelfClosingTagToken {
			// TagName lowercases the tokenizer's buffer in place.
			raw = bytes.Clone(raw)
			name, _ := z.TagName()
			if r.FilterTag(maybeLower(name, &r.lowerBuf)) {
				r.dst = append(r.dst, "&lt;"...)
				r.dst = append(r.dst, raw[1:]...)
				continue
			}
		}
		r.dst = append(r.dst, raw...)
	}
}

// escapeHTML appends the HTML-escaped version of a string to a byte slice.
func escapeHTML(dst []byte, src string) []byte {
	verbatimStart := 0
	for i := 0; i < len(src); i++ {
		var esc string
		switch src[i] {
		case '&':
			esc = "&amp;"
		case '\'':
			// "&#39;" is shorter than "&apos;" and apos was not in HTML until HTML5.
			esc = "&#39;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '"':
			esc = "&quot;"
		default:
			continue
		}
		dst = append(dst, src[verbatimStart:i]...)
		dst = append(dst, esc...)
		verbatimStart = i + 1
	}
	if verbatimStart < len(src) {
		dst = append(dst, src[verbatimStart:]...)
	}
	return dst
}

func maybeLower(x []byte, buf *[]byte) []byte {
	if !bytes.ContainsAny(x, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return x
	}
	*buf = append((*buf)[:0], x...)
	for i, b := range *buf {
		if 'A' <= b && b <= 'Z' {
			(*buf)[i] = b - 'A' + 'a'
		}
	}
	return *buf
}

// FilterTagGFM performs the same tag filtering as the
// GitHub Flavored Markdown [tagfilter extension].
// It is suitable for use as the FilterTag field in [HTMLRenderer].
//
// [tagfilter extension]: https://github.github.com/gfm/#disallowed-raw-html-extension-
func FilterTagGFM(tag []byte) bool {
	tagAtom := atom.Lookup(tag)
	return tagAtom == atom.Title ||
		tagAtom == atom.Textarea ||
		tagAtom == atom.Style ||
		tagAtom == atom.Xmp ||
		tagAtom == atom.Iframe ||
		tagAtom == atom.Noembed ||
		tagAtom == atom.Noframes ||
		tagAtom == atom.Script ||
		tagAtom == atom.Plaintext
}

// NormalizeURI percent-encodes any characters in a string
// that are not reserved or unreserved URI characters.
// This is commonly used for transforming AsciiDoc link targets
// into strings suitable for href or src attributes.
func NormalizeURI(s string) string {
	// RFC 3986 reserved and unreserved characters.
	const safeSet = `;/?:@&=+$,-_.!~*'()#`

	sb := new(strings.Builder)
	sb.Grow(len(s))
	skip := 0
	var buf [utf8.UTFMax]byte
	for i, c := range s {
		if skip > 0 {
			skip--
			sb.WriteRune(c)
			continue
		}
		switch {
		case c == '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				skip = 2
				sb.WriteByte('%')
			} else {
				sb.WriteString("%25")
			}
		case (c < 0x80 && isAlnum(c)) || strings.ContainsRune(safeSet, c):
			sb.WriteRune(c)
		default:
			n := utf8.EncodeRune(buf[:], c)
			for _, b := range buf[:n] {
				sb.WriteByte('%')
				sb.WriteByte(urlHexDigit(b >> 4))
				sb.WriteByte(urlHexDigit(b & 0x0f))
			}
		}
	}
	return sb.String()
}

func isHex(c byte) bool {
	return 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F' || '0' <= c && c <= '9'
}

func urlHexDigit(x byte) byte {
	switch {
	case x < 0xa:
		return '0' + x
	case x < 0x10:
		return 'A' + x - 0xa
	default:
		panic("out of bounds")
	}
}

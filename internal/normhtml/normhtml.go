// Copyright 2023 Ross Light
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

// Package normhtml provides a function for normalizing HTML
// which ignores insignificant output differences,
// like whitespace around block elements, attribute order,
// and the order of class names.
package normhtml

import (
	"bytes"
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

type htmlAttribute struct {
	key   string
	value string
}

// NormalizeHTML strips insignificant output differences from HTML.
// Character references are decoded,
// so "&#8212;" and "\u2014" normalize to the same output.
func NormalizeHTML(b []byte) []byte {
	n := &normalizer{last: html.StartTagToken}
	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return n.output
		case html.TextToken:
			n.text(tok.Text())
		case html.EndTagToken:
			tagBytes, _ := tok.TagName()
			n.endTag(string(tagBytes))
		case html.StartTagToken, html.SelfClosingTagToken:
			tagBytes, hasAttr := tok.TagName()
			var attrs []htmlAttribute
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = tok.TagAttr()
				attrs = append(attrs, htmlAttribute{string(k), string(v)})
			}
			n.startTag(string(tagBytes), attrs)
		case html.CommentToken:
			n.output = append(n.output, tok.Raw()...)
		}

		n.last = tt
		if tt == html.SelfClosingTagToken {
			n.last = html.EndTagToken
		}
	}
}

type normalizer struct {
	output  []byte
	last    html.TokenType
	lastTag string
	inPre   bool
}

func (n *normalizer) text(data []byte) {
	afterTag := n.last == html.EndTagToken || n.last == html.StartTagToken
	afterBlockTag := afterTag && isBlockTag(n.lastTag)
	if afterTag && n.lastTag == "br" {
		data = bytes.TrimLeft(data, "\n")
	}
	if !n.inPre {
		data = whitespaceRE.ReplaceAll(data, []byte(" "))
	}
	if afterBlockTag && !n.inPre {
		if n.last == html.StartTagToken {
			data = bytes.TrimLeftFunc(data, unicode.IsSpace)
		} else if n.last == html.EndTagToken {
			data = bytes.TrimSpace(data)
		}
	}
	n.output = append(n.output, htmlEscaper.Replace(bytes.Clone(data))...)
}

func (n *normalizer) endTag(tag string) {
	if tag == "pre" {
		n.inPre = false
	} else if isBlockTag(tag) {
		n.output = bytes.TrimRightFunc(n.output, unicode.IsSpace)
	}
	n.output = append(n.output, "</"...)
	n.output = append(n.output, tag...)
	n.output = append(n.output, ">"...)
	n.lastTag = tag
}

func (n *normalizer) startTag(tag string, attrs []htmlAttribute) {
	if tag == "pre" {
		n.inPre = true
	}
	if isBlockTag(tag) {
		n.output = bytes.TrimRightFunc(n.output, unicode.IsSpace)
	}
	n.output = append(n.output, "<"...)
	n.output = append(n.output, tag...)
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].key < attrs[j].key
	})
	for _, attr := range attrs {
		if attr.key == "class" {
			attr.value = normalizeClass(attr.value)
		}
		n.output = append(n.output, " "...)
		n.output = append(n.output, attr.key...)
		if attr.value != "" {
			n.output = append(n.output, `="`...)
			n.output = append(n.output, html.EscapeString(attr.value)...)
			n.output = append(n.output, `"`...)
		}
	}
	n.output = append(n.output, ">"...)
	n.lastTag = tag
}

// normalizeClass sorts the space-separated names of a class attribute
// and removes duplicates.
func normalizeClass(value string) string {
	names := strings.Fields(value)
	sort.Strings(names)
	return strings.Join(slices.Compact(names), " ")
}

var blockTags = map[string]struct{}{
	atom.Article.String():    {},
	atom.Header.String():     {},
	atom.Aside.String():      {},
	atom.Hgroup.String():     {},
	atom.Blockquote.String(): {},
	atom.Hr.String():         {},
	atom.Iframe.String():     {},
	atom.Body.String():       {},
	atom.Li.String():         {},
	atom.Map.String():        {},
	atom.Button.String():     {},
	atom.Object.String():     {},
	atom.Canvas.String():     {},
	atom.Ol.String():         {},
	atom.Caption.String():    {},
	atom.Output.String():     {},
	atom.Col.String():        {},
	atom.P.String():          {},
	atom.Colgroup.String():   {},
	atom.Pre.String():        {},
	atom.Dd.String():         {},
	atom.Progress.String():   {},
	atom.Div.String():        {},
	atom.Section.String():    {},
	atom.Dl.String():         {},
	atom.Table.String():      {},
	atom.Td.String():         {},
	atom.Dt.String():         {},
	atom.Tbody.String():      {},
	atom.Embed.String():      {},
	atom.Textarea.String():   {},
	atom.Fieldset.String():   {},
	atom.Tfoot.String():      {},
	atom.Figcaption.String(): {},
	atom.Th.String():         {},
	atom.Figure.String():     {},
	atom.Thead.String():      {},
	atom.Footer.String():     {},
	atom.Tr.String():         {},
	atom.Form.String():       {},
	atom.Ul.String():         {},
	atom.H1.String():         {},
	atom.H2.String():         {},
	atom.H3.String():         {},
	atom.H4.String():         {},
	atom.H5.String():         {},
	atom.H6.String():         {},
	atom.Video.String():      {},
	atom.Script.String():     {},
	atom.Style.String():      {},
}

func isBlockTag(tag string) bool {
	_, ok := blockTags[tag]
	return ok
}

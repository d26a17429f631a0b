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
	"strings"
)

// hardBreak separates the lines of a paragraph
// that were joined with a hard line break (" +").
const hardBreak = "\n"

// ParseInline converts a span of AsciiDoc text into inline nodes.
// Attribute references are substituted using attrs before tokenizing,
// so markup in attribute values is recognized.
// A nil attrs substitutes only the built-in attributes.
// Newlines in text become [*LineBreak] nodes.
func ParseInline(text string, attrs Attributes) []Inline {
	if attrs == nil {
		attrs = builtinAttributes
	}
	return Tokenize(Substitute(text, attrs))
}

// inlineMatcher is a single alternative of the inline pattern.
type inlineMatcher struct {
	pattern string
	convert func(groups []string) []Inline
}

// inlineMatchers is the list of inline patterns in priority order.
// At any position, the first matcher that matches wins.
// Span patterns use a lazy optional tail so that
// the closest closing delimiter ends the span.
//
// inlineMatchers, inlineRE, and inlineGroups are populated in init
// because span contents are parsed with Tokenize.
var (
	inlineMatchers []inlineMatcher

	// inlineRE is the alternation of all inlineMatchers patterns.
	inlineRE *regexp.Regexp
	// inlineGroups[i] is the index of the submatch
	// that wraps inlineMatchers[i] in inlineRE.
	inlineGroups []int
)

func init() {
	inlineMatchers = []inlineMatcher{
		// Cross reference.
		{
			pattern: `<<([^<>,\n]+)(?:,([^<>]*))?>>`,
			convert: func(groups []string) []Inline {
				target := strings.TrimSpace(groups[0])
				text := strings.TrimSpace(groups[1])
				ref := &CrossRef{Target: target, TextPresent: text != ""}
				if ref.TextPresent {
					ref.Content = Tokenize(text)
				} else {
					ref.Content = []Inline{&Text{Text: target}}
				}
				return []Inline{ref}
			},
		},

		// Inline image.
		{
			pattern: `image:([^\s\[\]:][^\s\[\]]*)\[([^\]\n]*)\]`,
			convert: func(groups []string) []Inline {
				return []Inline{newImage(groups[0], groups[1])}
			},
		},

		// Link macro.
		{
			pattern: `link:([^\s\[\]]+)\[([^\]]*)\]`,
			convert: func(groups []string) []Inline {
				return []Inline{newLink(groups[0], groups[1])}
			},
		},

		// Inline math passthrough.
		{
			pattern: `stem:\[([^\]\n]*)\]`,
			convert: func(groups []string) []Inline {
				return []Inline{&Math{Content: groups[0]}}
			},
		},

		// Bare URL.
		{
			pattern: `(https?://[^\s\[\]<>]+)(?:\[([^\]]*)\])?`,
			convert: func(groups []string) []Inline {
				url, text := groups[0], groups[1]
				if text != "" {
					return []Inline{newLink(url, text)}
				}
				// Sentence punctuation directly after a bare URL
				// is not part of it.
				trimmed := strings.TrimRight(url, ".,;:!?)")
				if trimmed == url || !strings.Contains(trimmed, "://") || strings.HasSuffix(trimmed, "://") {
					return []Inline{newLink(url, "")}
				}
				return []Inline{newLink(trimmed, ""), &Text{Text: url[len(trimmed):]}}
			},
		},

		// Monospace.
		{
			pattern: "``([^`\n]+)``",
			convert: func(groups []string) []Inline {
				return []Inline{&Monospace{Text: groups[0]}}
			},
		},
		{
			pattern: "`([^`\n]+)`",
			convert: func(groups []string) []Inline {
				return []Inline{&Monospace{Text: groups[0]}}
			},
		},

		// Bold.
		{
			pattern: `\*\*(\S(?s:.*?\S)??)\*\*`,
			convert: func(groups []string) []Inline {
				return []Inline{&Bold{Content: Tokenize(groups[0])}}
			},
		},
		{
			pattern: `\*(\S(?s:.*?\S)??)\*`,
			convert: func(groups []string) []Inline {
				return []Inline{&Bold{Content: Tokenize(groups[0])}}
			},
		},

		// Italic.
		{
			pattern: `__(\S(?s:.*?\S)??)__`,
			convert: func(groups []string) []Inline {
				return []Inline{&Italic{Content: Tokenize(groups[0])}}
			},
		},
		{
			pattern: `_(\S(?s:.*?\S)??)_`,
			convert: func(groups []string) []Inline {
				return []Inline{&Italic{Content: Tokenize(groups[0])}}
			},
		},

		// Subscript.
		{
			pattern: `~(\S(?s:.*?\S)??)~`,
			convert: func(groups []string) []Inline {
				return []Inline{&Subscript{Content: Tokenize(groups[0])}}
			},
		},

		// Superscript.
		{
			pattern: `\^(\S(?s:.*?\S)??)\^`,
			convert: func(groups []string) []Inline {
				return []Inline{&Superscript{Content: Tokenize(groups[0])}}
			},
		},
	}
	inlineRE, inlineGroups = compileInlineMatchers(inlineMatchers)
}

func compileInlineMatchers(matchers []inlineMatcher) (*regexp.Regexp, []int) {
	sb := new(strings.Builder)
	groups := make([]int, len(matchers))
	group := 1
	for i, m := range matchers {
		if i > 0 {
			sb.WriteString("|")
		}
		sb.WriteString("(")
		sb.WriteString(m.pattern)
		sb.WriteString(")")
		groups[i] = group
		group += 1 + regexp.MustCompile(m.pattern).NumSubexp()
	}
	return regexp.MustCompile(sb.String()), groups
}

// Tokenize converts a single span of AsciiDoc text into inline nodes
// without performing attribute substitution.
// Text that does not match any inline markup is returned as [*Text] nodes.
// Spans may cross newlines, which become [*LineBreak] nodes.
func Tokenize(text string) []Inline {
	if text == "" {
		return nil
	}
	matches := inlineRE.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return appendText(nil, text)
	}

	var result []Inline
	plainStart := 0
	for _, m := range matches {
		if plainStart < m[0] {
			result = appendText(result, text[plainStart:m[0]])
		}
		result = append(result, convertInlineMatch(text, m)...)
		plainStart = m[1]
	}
	if plainStart < len(text) {
		result = appendText(result, text[plainStart:])
	}
	return mergeText(result)
}

// appendText appends text to dst as [*Text] nodes
// separated by a [*LineBreak] at each hard break.
func appendText(dst []Inline, text string) []Inline {
	for i, line := range strings.Split(text, hardBreak) {
		if i > 0 {
			dst = append(dst, &LineBreak{})
		}
		if line != "" {
			dst = append(dst, &Text{Text: line})
		}
	}
	return dst
}

func convertInlineMatch(text string, m []int) []Inline {
	for i, g := range inlineGroups {
		if m[2*g] < 0 {
			continue
		}
		end := len(m) / 2
		if i+1 < len(inlineGroups) {
			end = inlineGroups[i+1]
		}
		groups := make([]string, 0, end-g-1)
		for j := g + 1; j < end; j++ {
			if m[2*j] >= 0 {
				groups = append(groups, text[m[2*j]:m[2*j+1]])
			} else {
				groups = append(groups, "")
			}
		}
		return inlineMatchers[i].convert(groups)
	}
	return []Inline{&Text{Text: text[m[0]:m[1]]}}
}

// mergeText joins adjacent [*Text] nodes.
func mergeText(inlines []Inline) []Inline {
	n := 0
	for _, in := range inlines {
		if t, ok := in.(*Text); ok && n > 0 {
			if prev, ok := inlines[n-1].(*Text); ok {
				inlines[n-1] = &Text{Text: prev.Text + t.Text}
				continue
			}
		}
		inlines[n] = in
		n++
	}
	for i := n; i < len(inlines); i++ {
		inlines[i] = nil
	}
	return inlines[:n]
}

func newLink(url, text string) *Link {
	text = strings.TrimSpace(text)
	link := &Link{URL: url, TextPresent: text != ""}
	if link.TextPresent {
		link.Content = Tokenize(text)
	} else {
		link.Content = []Inline{&Text{Text: url}}
	}
	return link
}

// newImage builds an image from a target and the contents of its brackets.
// The first entry without an equals sign is the alt text;
// key=value entries become attributes.
func newImage(url, attrText string) *Image {
	img := &Image{URL: url}
	for _, tok := range splitAttributeList(attrText) {
		if isNamedAttribute(tok) {
			k, v, _ := strings.Cut(tok, "=")
			if img.Attributes == nil {
				img.Attributes = make(Attributes)
			}
			img.Attributes[strings.TrimSpace(k)] = unquote(strings.TrimSpace(v))
		} else if img.Alt == "" && tok != "" {
			img.Alt = unquote(tok)
		}
	}
	return img
}

// PlainText returns the literal text of a sequence of inline nodes
// with all markup removed.
// Line breaks become spaces and images contribute their alt text.
func PlainText(inlines []Inline) string {
	sb := new(strings.Builder)
	for _, in := range inlines {
		Walk(in, &WalkOptions{
			Pre: func(c *Cursor) bool {
				switch n := c.Node().(type) {
				case *Text:
					sb.WriteString(n.Text)
				case *Monospace:
					sb.WriteString(n.Text)
				case *Math:
					sb.WriteString(n.Content)
				case *Image:
					sb.WriteString(n.Alt)
				case *LineBreak:
					sb.WriteString(" ")
				}
				return true
			},
		})
	}
	return sb.String()
}

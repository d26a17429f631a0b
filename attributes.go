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

// Attributes is a table of named string values.
// Names are case-sensitive.
type Attributes map[string]string

// builtinAttributes is the set of attributes every document starts with.
var builtinAttributes = Attributes{
	"nbsp":           "\u00a0",
	"sp":             " ",
	"empty":          "",
	"blank":          "",
	"zwsp":           "\u200b",
	"wj":             "\u2060",
	"amp":            "&",
	"lt":             "<",
	"gt":             ">",
	"quot":           `"`,
	"apos":           "'",
	"lsquo":          "\u2018",
	"rsquo":          "\u2019",
	"ldquo":          "\u201c",
	"rdquo":          "\u201d",
	"mdash":          "\u2014",
	"ndash":          "\u2013",
	"deg":            "\u00b0",
	"plus":           "+",
	"pp":             "++",
	"cpp":            "C++",
	"startsb":        "[",
	"endsb":          "]",
	"vbar":           "|",
	"caret":          "^",
	"asterisk":       "*",
	"tilde":          "~",
	"backslash":      `\`,
	"backtick":       "`",
	"two-colons":     "::",
	"two-semicolons": ";;",
}

// NewAttributes returns a new table holding the built-in attributes,
// like "nbsp" or "startsb".
func NewAttributes() Attributes {
	return builtinAttributes.Clone()
}

// Clone returns a copy of the table.
// Clone of a nil table returns an empty, non-nil table.
func (attrs Attributes) Clone() Attributes {
	clone := make(Attributes, len(attrs))
	for k, v := range attrs {
		clone[k] = v
	}
	return clone
}

// Get returns the value of the named attribute
// and whether it is set.
func (attrs Attributes) Get(name string) (string, bool) {
	v, ok := attrs[name]
	return v, ok
}

// Set sets the named attribute to value.
func (attrs Attributes) Set(name, value string) {
	attrs[name] = value
}

// Unset removes the named attribute.
// Unsetting an attribute that is not set is a no-op.
func (attrs Attributes) Unset(name string) {
	delete(attrs, name)
}

// HasOption reports whether the comma-separated "options" attribute
// contains the given option.
func (attrs Attributes) HasOption(name string) bool {
	for _, opt := range strings.Split(attrs["options"], ",") {
		if strings.TrimSpace(opt) == name {
			return true
		}
	}
	return false
}

func (attrs Attributes) addOption(name string) {
	if name == "" || attrs.HasOption(name) {
		return
	}
	if attrs["options"] == "" {
		attrs["options"] = name
	} else {
		attrs["options"] += "," + name
	}
}

var attributeReferenceRE = regexp.MustCompile(`\\?\{([A-Za-z0-9_][A-Za-z0-9_-]*)\}`)

// Substitute replaces every {name} reference in text
// with the value of name in attrs.
// References to names that are not in attrs are left as-is.
// A reference preceded by a backslash is left as-is
// and the backslash is removed.
//
// Substitution is a single pass:
// references appearing in substituted values are not expanded.
func Substitute(text string, attrs Attributes) string {
	if !strings.Contains(text, "{") {
		return text
	}
	return attributeReferenceRE.ReplaceAllStringFunc(text, func(ref string) string {
		if ref[0] == '\\' {
			return ref[1:]
		}
		name := ref[1 : len(ref)-1]
		if v, ok := attrs.Get(name); ok {
			return v
		}
		return ref
	})
}

// attributeEntryRE matches a document attribute entry line:
// ":name: value", ":name!:", or ":!name:".
var attributeEntryRE = regexp.MustCompile(`^:(!?)([A-Za-z0-9_][A-Za-z0-9_-]*)(!?):(?:[ \t]+(.*))?$`)

type attributeEntry struct {
	name  string
	value string
	unset bool
}

func parseAttributeEntry(line string) (attributeEntry, bool) {
	m := attributeEntryRE.FindStringSubmatch(strings.TrimRight(line, " \t"))
	if m == nil {
		return attributeEntry{}, false
	}
	return attributeEntry{
		name:  m[2],
		value: strings.TrimSpace(m[4]),
		unset: m[1] != "" || m[3] != "",
	}, true
}

// attributeLineRE matches a block attribute line like "[source,go]".
// Anchors ("[[id]]") are not attribute lines.
var attributeLineRE = regexp.MustCompile(`^\[([^\[\]]*)\]$`)

// parseAttributeLine returns the text between the brackets
// of a block attribute line.
func parseAttributeLine(line string) (string, bool) {
	m := attributeLineRE.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// attrList is a parsed block attribute list.
type attrList struct {
	// positional holds the unnamed entries in order.
	// The first is the block style.
	positional []string
	// named holds key=value entries.
	// Any %option shorthand is folded into "options".
	named Attributes
}

func (list attrList) style() string {
	if len(list.positional) == 0 {
		return ""
	}
	return list.positional[0]
}

func (list attrList) at(i int) string {
	if i >= len(list.positional) {
		return ""
	}
	return list.positional[i]
}

// parseAttributeList parses the contents of a bracketed attribute list.
// Entries are separated by commas;
// double-quoted values may contain commas.
func parseAttributeList(text string) attrList {
	list := attrList{named: make(Attributes)}
	for i, tok := range splitAttributeList(text) {
		switch {
		case strings.HasPrefix(tok, "%"):
			addShorthandOptions(list.named, tok)
		case isNamedAttribute(tok):
			k, v, _ := strings.Cut(tok, "=")
			k = strings.TrimSpace(k)
			v = unquote(strings.TrimSpace(v))
			if k == "options" || k == "opts" {
				for _, opt := range strings.Split(v, ",") {
					list.named.addOption(strings.TrimSpace(opt))
				}
			} else {
				list.named[k] = v
			}
		case i == 0 && strings.Contains(tok, "%"):
			style, opts, _ := strings.Cut(tok, "%")
			list.positional = append(list.positional, style)
			addShorthandOptions(list.named, "%"+opts)
		default:
			list.positional = append(list.positional, unquote(tok))
		}
	}
	return list
}

func addShorthandOptions(attrs Attributes, tok string) {
	for _, opt := range strings.Split(tok, "%") {
		attrs.addOption(strings.TrimSpace(opt))
	}
}

func isNamedAttribute(tok string) bool {
	i := strings.IndexByte(tok, '=')
	if i <= 0 {
		return false
	}
	for _, c := range tok[:i] {
		if !(c == '-' || c == '_' || isAlnum(c)) {
			return false
		}
	}
	return true
}

func splitAttributeList(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var toks []string
	var quote rune
	start := 0
	for i, c := range text {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"':
			quote = c
		case c == ',':
			toks = append(toks, strings.TrimSpace(text[start:i]))
			start = i + 1
		}
	}
	return append(toks, strings.TrimSpace(text[start:]))
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

func isAlnum(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

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

// Package highlight provides syntax highlighting for AsciiDoc source blocks
// using [Chroma].
//
// [Chroma]: https://github.com/alecthomas/chroma
package highlight

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the name of the style used when none is given.
const DefaultStyle = "github"

// A Highlighter marks up source code with CSS classes.
// It implements asciidoc.CodeHighlighter.
// A Highlighter is safe to use from multiple goroutines.
type Highlighter struct {
	style     *chroma.Style
	formatter *html.Formatter
}

// New returns a new Highlighter that uses the named Chroma style
// for its stylesheet.
// An empty name selects [DefaultStyle].
func New(style string) (*Highlighter, error) {
	if style == "" {
		style = DefaultStyle
	}
	s := styles.Registry[strings.ToLower(style)]
	if s == nil {
		return nil, fmt.Errorf("new highlighter: unknown style %q", style)
	}
	return &Highlighter{
		style: s,
		formatter: html.New(
			html.WithClasses(true),
			html.PreventSurroundingPre(true),
		),
	}, nil
}

// AppendHighlighted appends code marked up with <span> elements to dst.
// The markup is wrapped in a <span class="chroma"> element
// so that the stylesheet from [Highlighter.WriteCSS] applies to it.
// It returns false if there is no lexer for lang.
func (h *Highlighter) AppendHighlighted(dst []byte, lang, code string) ([]byte, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return dst, false
	}
	iter, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return dst, false
	}
	n := len(dst)
	buf := bytes.NewBuffer(dst)
	buf.WriteString(`<span class="chroma">`)
	start := buf.Len()
	if err := h.formatter.Format(buf, h.style, iter); err != nil {
		return dst[:n], false
	}
	out := buf.Bytes()
	if !strings.HasSuffix(code, "\n") {
		// Lexers may add a final newline to their input.
		out = trimFinalNewline(out, start)
	}
	return append(out, "</span>"...), true
}

func trimFinalNewline(b []byte, start int) []byte {
	tail := b[start:]
	switch {
	case bytes.HasSuffix(tail, []byte("\n")):
		return b[:len(b)-1]
	case bytes.HasSuffix(tail, []byte("\n</span>")):
		i := len(b) - len("\n</span>")
		return append(b[:i], "</span>"...)
	default:
		return b
	}
}

// WriteCSS writes the stylesheet for the Highlighter's style to w.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	if err := h.formatter.WriteCSS(w, h.style); err != nil {
		return fmt.Errorf("write highlight css: %w", err)
	}
	return nil
}

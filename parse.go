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

// Package asciidoc provides an [AsciiDoc] parser.
//
// [AsciiDoc]: https://asciidoc.org/
package asciidoc

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxIncludeDepth is the number of nested include directives
// followed when [ParseOptions.MaxIncludeDepth] is zero.
const DefaultMaxIncludeDepth = 64

// ParseOptions is the set of optional parameters to [Parse].
type ParseOptions struct {
	// BaseDir is the directory that relative include paths are resolved against.
	// An empty BaseDir means the current working directory.
	BaseDir string
	// Attributes are applied after the built-in attributes
	// and before any attribute entries in the document.
	Attributes map[string]string
	// FileSystem is used to read included files.
	// If nil, OSFileSystem is used.
	FileSystem FileSystem
	// Logger receives diagnostics as warnings
	// and dropped lines as debug messages.
	// If nil, nothing is logged.
	Logger *zap.Logger
	// MaxIncludeDepth limits how deep include directives may nest.
	// Zero means DefaultMaxIncludeDepth.
	MaxIncludeDepth int
}

func (opts *ParseOptions) fileSystem() FileSystem {
	if opts == nil || opts.FileSystem == nil {
		return OSFileSystem{}
	}
	return opts.FileSystem
}

func (opts *ParseOptions) logger() *zap.Logger {
	if opts == nil || opts.Logger == nil {
		return zap.NewNop()
	}
	return opts.Logger
}

func (opts *ParseOptions) maxIncludeDepth() int {
	if opts == nil || opts.MaxIncludeDepth <= 0 {
		return DefaultMaxIncludeDepth
	}
	return opts.MaxIncludeDepth
}

// Parse parses an AsciiDoc document.
// Parse always returns a document:
// problems like a missing include file are reported
// in [Document.Diagnostics].
// opts may be nil.
func Parse(source []byte, opts *ParseOptions) *Document {
	return parseDocument(source, "", nil, opts)
}

// ParseString parses an AsciiDoc document,
// resolving include directives relative to baseDir.
func ParseString(text string, baseDir string) *Document {
	return Parse([]byte(text), &ParseOptions{BaseDir: baseDir})
}

// ParseFile reads and parses the AsciiDoc file at the given path.
// Include directives are resolved relative to the file's directory.
// The returned error is only non-nil if the file itself could not be read.
func ParseFile(path string, opts *ParseOptions) (*Document, error) {
	fsys := opts.fileSystem()
	source, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse asciidoc: %w", err)
	}
	canon, err := fsys.Canonical(path)
	if err != nil {
		return nil, fmt.Errorf("parse asciidoc: %w", err)
	}
	fileOpts := new(ParseOptions)
	if opts != nil {
		*fileOpts = *opts
	}
	fileOpts.BaseDir = filepath.Dir(path)
	return parseDocument(source, path, []string{canon}, fileOpts), nil
}

func parseDocument(source []byte, path string, includeStack []string, opts *ParseOptions) *Document {
	attrs := NewAttributes()
	if opts != nil {
		for k, v := range opts.Attributes {
			attrs.Set(k, v)
		}
	}
	ctx := &parseContext{
		fsys:            opts.fileSystem(),
		log:             opts.logger(),
		maxIncludeDepth: opts.maxIncludeDepth(),
	}
	p := &parser{
		parseContext: ctx,
		lines:        splitLines(source),
		firstLine:    1,
		path:         path,
		attrs:        attrs,
		includeStack: includeStack,
	}
	if opts != nil {
		p.baseDir = opts.BaseDir
	}
	blocks := p.parseBlocks()
	return &Document{
		Attributes:  p.attrs,
		Blocks:      blocks,
		Diagnostics: ctx.diagnostics,
	}
}

// parseContext holds the state shared by every parser
// working on the same document, including parsers for included files.
type parseContext struct {
	fsys            FileSystem
	log             *zap.Logger
	maxIncludeDepth int
	diagnostics     []Diagnostic
}

// parser is the state of a block-level parse over a sequence of lines.
// Delimited blocks are parsed by a parser over a sub-slice of the lines
// that shares the attribute table.
// Included files are parsed by a parser with a copy of the attribute table.
type parser struct {
	*parseContext

	lines     []string
	pos       int // index into lines of the next line to parse
	firstLine int // line number of lines[0]
	path      string

	attrs        Attributes
	baseDir      string
	includeStack []string // canonical paths of the files being included
}

// parseBlocks parses blocks until the end of input.
func (p *parser) parseBlocks() []Block {
	var blocks []Block
	for {
		p.skipBlankLines()
		if p.eof() {
			return blocks
		}
		start := p.pos
		found := false
		for _, startFunc := range blockStarts {
			newBlocks, result := startFunc(p)
			if result == matched {
				blocks = append(blocks, newBlocks...)
				found = true
				break
			}
			p.pos = start
		}
		if !found || p.pos == start {
			p.pos = start
			p.log.Debug("skipped unrecognized line",
				zap.String("path", p.path),
				zap.Int("line", p.lineno(start)),
				zap.String("text", p.lines[start]))
			p.pos++
		}
	}
}

// nested returns a parser for the lines in [start, end)
// that shares p's attribute table.
func (p *parser) nested(start, end int) *parser {
	return &parser{
		parseContext: p.parseContext,
		lines:        p.lines[start:end],
		firstLine:    p.firstLine + start,
		path:         p.path,
		attrs:        p.attrs,
		baseDir:      p.baseDir,
		includeStack: p.includeStack,
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.lines)
}

// peek returns the line at index i or the empty string if i is out of range.
func (p *parser) peek(i int) string {
	if i < 0 || i >= len(p.lines) {
		return ""
	}
	return p.lines[i]
}

func (p *parser) skipBlankLines() {
	for !p.eof() && isBlankLine(p.lines[p.pos]) {
		p.pos++
	}
}

// lineno returns the 1-based line number of p.lines[i].
func (p *parser) lineno(i int) int {
	return p.firstLine + i
}

// diagnose records a recoverable problem found at p.lines[i].
func (p *parser) diagnose(i int, format string, args ...any) {
	d := Diagnostic{
		Path:    p.path,
		Line:    p.lineno(i),
		Message: fmt.Sprintf(format, args...),
	}
	p.diagnostics = append(p.diagnostics, d)
	p.log.Warn(d.Message, zap.String("path", d.Path), zap.Int("line", d.Line))
}

// findClosingFence returns the index of the first line after start
// that is identical to fence, or len(p.lines) if the block is never closed.
func (p *parser) findClosingFence(start int, fence string) int {
	for i := start; i < len(p.lines); i++ {
		if strings.TrimRight(p.lines[i], " \t") == fence {
			return i
		}
	}
	return len(p.lines)
}

// splitLines normalizes source text and splits it into lines
// without line terminators.
func splitLines(source []byte) []string {
	if bytes.IndexByte(source, 0) >= 0 {
		// Contains one or more NUL bytes.
		// Replace with Unicode replacement character.
		source = bytes.ReplaceAll(source, []byte{0}, []byte("\ufffd"))
	}
	source = bytes.TrimPrefix(source, []byte("\ufeff"))
	if len(source) == 0 {
		return nil
	}
	text := string(source)
	if strings.Contains(text, "\r") {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

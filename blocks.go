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
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type parseResult int8

const (
	noMatch parseResult = iota
	matched
)

// blockStarts is the list of block parsers in priority order.
// Each function inspects lines starting at p.pos
// and either returns noMatch without consuming anything
// or advances p.pos past the lines it consumed.
// A match may produce zero blocks (comments, attribute entries)
// or several (includes).
//
// blockStarts is populated in init because delimited blocks
// parse their contents with parseBlocks.
var blockStarts []func(*parser) ([]Block, parseResult)

func init() {
	blockStarts = []func(*parser) ([]Block, parseResult){
		// Comment.
		func(p *parser) ([]Block, parseResult) {
			line := strings.TrimRight(p.lines[p.pos], " \t")
			if isFence(line, '/') {
				end := p.findClosingFence(p.pos+1, line)
				p.pos = min(end+1, len(p.lines))
				return nil, matched
			}
			if !strings.HasPrefix(line, "//") {
				return nil, noMatch
			}
			p.pos++
			return nil, matched
		},

		// Attribute entry.
		func(p *parser) ([]Block, parseResult) {
			entry, ok := parseAttributeEntry(p.lines[p.pos])
			if !ok {
				return nil, noMatch
			}
			p.pos++
			if entry.unset {
				p.attrs.Unset(entry.name)
				return nil, matched
			}
			value := entry.value
			for strings.HasSuffix(value, ` \`) && !p.eof() {
				value = strings.TrimSuffix(value, `\`) + strings.TrimSpace(p.lines[p.pos])
				p.pos++
			}
			p.attrs.Set(entry.name, Substitute(value, p.attrs))
			return nil, matched
		},

		// Section title.
		func(p *parser) ([]Block, parseResult) {
			pre := p.preamble()
			h, ok := parseHeaderLine(p.peek(pre.next))
			if !ok {
				return nil, noMatch
			}
			p.pos = pre.next + 1
			header := &Header{
				Level:   h.level,
				Content: ParseInline(h.text, p.attrs),
				ID:      h.id,
			}
			if header.ID == "" {
				header.ID = pre.attrs.id()
			}
			if header.ID == "" {
				header.ID = GenerateID(PlainText(header.Content))
			}
			return []Block{header}, matched
		},

		// Listing.
		func(p *parser) ([]Block, parseResult) {
			pre := p.preamble()
			style := pre.attrs.style()
			if !(style == "" || style == "source" || style == "listing") {
				return nil, noMatch
			}
			fence := strings.TrimRight(p.peek(pre.next), " \t")
			if !isFence(fence, '-') {
				if next := p.peek(pre.next); style != "source" || isBlankLine(next) || isDelimiter(next) {
					return nil, noMatch
				}
				// A source paragraph.
				p.pos = pre.next
				start := p.pos
				for !p.eof() && !isBlankLine(p.lines[p.pos]) {
					p.pos++
				}
				return []Block{p.newCodeBlock(pre, strings.Join(p.lines[start:p.pos], "\n"))}, matched
			}
			end := p.findClosingFence(pre.next+1, fence)
			content := strings.Join(p.lines[pre.next+1:end], "\n")
			p.pos = min(end+1, len(p.lines))
			block := p.newCodeBlock(pre, content)
			for ; !p.eof(); p.pos++ {
				m := calloutRE.FindStringSubmatch(strings.TrimRight(p.lines[p.pos], " \t"))
				if m == nil {
					break
				}
				n, err := strconv.Atoi(m[1])
				if err != nil {
					break
				}
				if block.Callouts == nil {
					block.Callouts = make(map[int]string)
				}
				block.Callouts[n] = m[2]
			}
			return []Block{block}, matched
		},

		// Passthrough.
		func(p *parser) ([]Block, parseResult) {
			pre := p.preamble()
			fence := strings.TrimRight(p.peek(pre.next), " \t")
			if !isFence(fence, '+') {
				return nil, noMatch
			}
			end := p.findClosingFence(pre.next+1, fence)
			block := &PassthroughBlock{
				Content:    strings.Join(p.lines[pre.next+1:end], "\n"),
				Attributes: pre.attributes(),
			}
			for i, tok := range pre.attrs.positional {
				if block.Attributes == nil {
					block.Attributes = make(Attributes)
				}
				if i == 0 {
					block.Attributes["style"] = tok
				} else {
					block.Attributes[tok] = ""
				}
			}
			p.pos = min(end+1, len(p.lines))
			return []Block{block}, matched
		},

		// Quote.
		func(p *parser) ([]Block, parseResult) {
			pre := p.preamble()
			style := pre.attrs.style()
			if !(style == "" || style == "quote" || style == "verse") {
				return nil, noMatch
			}
			quote := &BlockQuote{}
			if style != "" {
				quote.Attribution = pre.attrs.at(1)
				quote.CiteTitle = pre.attrs.at(2)
			}
			fence := strings.TrimRight(p.peek(pre.next), " \t")
			if !isFence(fence, '_') {
				if style == "" || isBlankLine(p.peek(pre.next)) {
					return nil, noMatch
				}
				// A quoted paragraph.
				p.pos = pre.next
				lines := p.paragraphLines(false)
				if len(lines) == 0 {
					return nil, noMatch
				}
				quote.Blocks = []Block{p.newParagraph(lines)}
				return []Block{quote}, matched
			}
			end := p.findClosingFence(pre.next+1, fence)
			quote.Blocks = p.nested(pre.next+1, end).parseBlocks()
			p.pos = min(end+1, len(p.lines))
			return []Block{quote}, matched
		},

		// Admonition.
		func(p *parser) ([]Block, parseResult) {
			pre := p.preamble()
			if typ := parseAdmonitionType(pre.attrs.style()); pre.hasAttrs && typ != 0 {
				adm := &Admonition{Type: typ, Title: pre.title}
				fence := strings.TrimRight(p.peek(pre.next), " \t")
				if isFence(fence, '=') {
					end := p.findClosingFence(pre.next+1, fence)
					adm.Blocks = p.nested(pre.next+1, end).parseBlocks()
					p.pos = min(end+1, len(p.lines))
					return []Block{adm}, matched
				}
				p.pos = pre.next
				if lines := p.paragraphLines(false); len(lines) > 0 {
					adm.Blocks = []Block{p.newParagraph(lines)}
				}
				return []Block{adm}, matched
			}

			m := admonitionParagraphRE.FindStringSubmatch(p.peek(pre.next))
			if m == nil {
				return nil, noMatch
			}
			p.pos = pre.next + 1
			lines := append([]string{m[2]}, p.paragraphLines(true)...)
			adm := &Admonition{
				Type:   parseAdmonitionType(m[1]),
				Blocks: []Block{p.newParagraph(lines)},
				Title:  pre.title,
			}
			return []Block{adm}, matched
		},

		// Include directive.
		func(p *parser) ([]Block, parseResult) {
			m := includeRE.FindStringSubmatch(strings.TrimRight(p.lines[p.pos], " \t"))
			if m == nil {
				return nil, noMatch
			}
			i := p.pos
			p.pos++
			return p.include(i, m[1], parseAttributeList(m[2])), matched
		},

		// Horizontal rule.
		func(p *parser) ([]Block, parseResult) {
			if !isHorizontalRule(p.lines[p.pos]) {
				return nil, noMatch
			}
			p.pos++
			return []Block{&HorizontalRule{}}, matched
		},

		parseListStart,
		parseTableStart,

		// Block image.
		func(p *parser) ([]Block, parseResult) {
			pre := p.preamble()
			m := blockImageRE.FindStringSubmatch(strings.TrimRight(p.peek(pre.next), " \t"))
			if m == nil {
				return nil, noMatch
			}
			p.pos = pre.next + 1
			img := newImage(Substitute(m[1], p.attrs), m[2])
			if pre.title != "" {
				if img.Attributes == nil {
					img.Attributes = make(Attributes)
				}
				img.Attributes["title"] = pre.title
			}
			return []Block{&Paragraph{Content: []Inline{img}}}, matched
		},

		// Unused block attributes and titles.
		// Paragraphs carry neither.
		func(p *parser) ([]Block, parseResult) {
			line := strings.TrimSpace(p.lines[p.pos])
			msg := "dropped block attribute line"
			if blockTitleRE.MatchString(line) {
				msg = "dropped block title"
			} else if _, ok := parseAttributeLine(line); !ok && !anchorRE.MatchString(line) {
				return nil, noMatch
			}
			p.log.Debug(msg,
				zap.String("path", p.path),
				zap.Int("line", p.lineno(p.pos)))
			p.pos++
			return nil, matched
		},

		// Paragraph.
		func(p *parser) ([]Block, parseResult) {
			lines := p.paragraphLines(false)
			if len(lines) == 0 {
				return nil, noMatch
			}
			return []Block{p.newParagraph(lines)}, matched
		},
	}
}

var (
	headerRE              = regexp.MustCompile(`^(=+)[ \t]+(\S.*?)(?:[ \t]+\[#([^\]\s]+)\])?[ \t]*$`)
	calloutRE             = regexp.MustCompile(`^<(\d+)>[ \t]+(.*)$`)
	admonitionParagraphRE = regexp.MustCompile(`^(NOTE|TIP|IMPORTANT|WARNING|CAUTION):[ \t]+(.*)$`)
	includeRE             = regexp.MustCompile(`^include::([^\[\s][^\[]*)\[(.*)\]$`)
	blockImageRE          = regexp.MustCompile(`^image::([^\s\[]+)\[(.*)\]$`)
	blockTitleRE          = regexp.MustCompile(`^\.([^.\s].*)$`)
	anchorRE              = regexp.MustCompile(`^\[\[[^\[\]]+\]\]$`)
	tableFenceRE          = regexp.MustCompile(`^\|={3,}$`)
)

// maxHeaderLevel is the deepest section level.
const maxHeaderLevel = 6

type headerLine struct {
	level int // 1-6
	text  string
	id    string
}

func parseHeaderLine(line string) (headerLine, bool) {
	m := headerRE.FindStringSubmatch(line)
	if m == nil || len(m[1]) > maxHeaderLevel {
		return headerLine{}, false
	}
	return headerLine{
		level: len(m[1]),
		text:  m[2],
		id:    m[3],
	}, true
}

// GenerateID returns the automatic ID for a header with the given plain text:
// the lowercased text with each run of characters other than letters and digits
// replaced by a hyphen.
func GenerateID(text string) string {
	text = cases.Lower(language.Und).String(text)
	sb := new(strings.Builder)
	sep := false
	for _, c := range text {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			sep = true
			continue
		}
		if sep && sb.Len() > 0 {
			sb.WriteByte('-')
		}
		sep = false
		sb.WriteRune(c)
	}
	id := sb.String()
	if id == "" {
		return "_"
	}
	if c, _ := utf8.DecodeRuneInString(id); unicode.IsDigit(c) {
		return "_" + id
	}
	return id
}

// blockPreamble is the optional attribute line and title line
// that may precede a block.
type blockPreamble struct {
	attrs    attrList
	hasAttrs bool
	title    string
	// next is the index of the first line after the preamble.
	next int
}

// preamble reads the attribute line and title line (in either order)
// starting at p.pos without consuming them.
func (p *parser) preamble() blockPreamble {
	pre := blockPreamble{next: p.pos}
	hasTitle := false
	for n := 0; n < 2; n++ {
		line := strings.TrimRight(p.peek(pre.next), " \t")
		if text, ok := parseAttributeLine(line); ok && !pre.hasAttrs {
			pre.attrs = parseAttributeList(text)
			pre.hasAttrs = true
			pre.next++
			continue
		}
		if m := blockTitleRE.FindStringSubmatch(line); m != nil && !hasTitle {
			pre.title = m[1]
			hasTitle = true
			pre.next++
			continue
		}
		break
	}
	return pre
}

// attributes returns the named attributes and title of the preamble,
// or nil if there are none.
func (pre blockPreamble) attributes() Attributes {
	attrs := pre.attrs.named.Clone()
	if pre.title != "" {
		attrs["title"] = pre.title
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// id returns the ID given by a "#id" shorthand in the style position.
func (list attrList) id() string {
	style := list.style()
	if !strings.HasPrefix(style, "#") {
		return ""
	}
	id := style[1:]
	if i := strings.IndexAny(id, ".%"); i >= 0 {
		id = id[:i]
	}
	return id
}

func (p *parser) newCodeBlock(pre blockPreamble, content string) *CodeBlock {
	block := &CodeBlock{
		Content:    content,
		Attributes: pre.attributes(),
	}
	if pre.attrs.style() == "source" {
		block.Language = pre.attrs.at(1)
		if block.Language == "" {
			block.Language = p.attrs["source-language"]
		}
	}
	for _, tok := range pre.attrs.positional[min(2, len(pre.attrs.positional)):] {
		if block.Attributes == nil {
			block.Attributes = make(Attributes)
		}
		block.Attributes[tok] = ""
	}
	if pre.attrs.named.HasOption("linenums") {
		block.Attributes["linenums"] = ""
	}
	return block
}

func (p *parser) newParagraph(lines []string) *Paragraph {
	return &Paragraph{Content: ParseInline(joinParagraphLines(lines), p.attrs)}
}

// paragraphLines consumes lines up to the next blank line or block start.
// The first line is taken even if it looks like a block start
// (unless it is a delimiter) when continued is false.
func (p *parser) paragraphLines(continued bool) []string {
	var lines []string
	for !p.eof() {
		line := p.lines[p.pos]
		if isBlankLine(line) || isDelimiter(line) {
			break
		}
		if (continued || len(lines) > 0) && isBlockStart(line) {
			break
		}
		lines = append(lines, line)
		p.pos++
	}
	return lines
}

// joinParagraphLines joins the lines of a paragraph with spaces.
// A line ending in " +" is joined to the next with a hard break.
func joinParagraphLines(lines []string) string {
	sb := new(strings.Builder)
	sep := ""
	for i, line := range lines {
		line = strings.TrimSpace(line)
		sb.WriteString(sep)
		sep = " "
		if i < len(lines)-1 && strings.HasSuffix(line, " +") {
			line = strings.TrimRight(strings.TrimSuffix(line, "+"), " \t")
			sep = hardBreak
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// isFence reports whether line is a delimiter made of
// four or more of the character c.
func isFence(line string, c byte) bool {
	if len(line) < 4 {
		return false
	}
	for i := 0; i < len(line); i++ {
		if line[i] != c {
			return false
		}
	}
	return true
}

// isDelimiter reports whether the line opens or closes a delimited block.
func isDelimiter(line string) bool {
	line = strings.TrimRight(line, " \t")
	return isFence(line, '-') ||
		isFence(line, '+') ||
		isFence(line, '_') ||
		isFence(line, '=') ||
		isFence(line, '/') ||
		tableFenceRE.MatchString(line)
}

func isHorizontalRule(line string) bool {
	line = strings.TrimSpace(line)
	return line == "'''" || line == "---"
}

// isBlockStart reports whether the line ends a paragraph.
func isBlockStart(line string) bool {
	line = strings.TrimRight(line, " \t")
	if _, ok := parseHeaderLine(line); ok {
		return true
	}
	if _, ok := parseListMarker(line); ok {
		return true
	}
	return isDelimiter(line) ||
		isHorizontalRule(line) ||
		strings.HasPrefix(line, "//") ||
		includeRE.MatchString(line) ||
		blockImageRE.MatchString(line) ||
		definitionMarkerRE.MatchString(line)
}

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

import "fmt"

// Document is the result of parsing an AsciiDoc source.
type Document struct {
	// Attributes is the attribute table as it stood
	// at the end of the parse, built-in attributes included.
	Attributes Attributes
	// Blocks is the ordered list of top-level blocks.
	Blocks []Block
	// Diagnostics lists recoverable problems found while parsing,
	// like missing or circular includes.
	Diagnostics []Diagnostic
}

// Diagnostic describes a non-fatal problem encountered during a parse.
type Diagnostic struct {
	// Path is the file the problem was found in.
	// It is empty for the top-level source unless it was read with [ParseFile].
	Path string
	// Line is the 1-based line number within Path.
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s", d.Path, d.Line, d.Message)
}

// A Block is a structural element in an AsciiDoc document.
// The set of implementations is closed:
// it is one of [*Header], [*Paragraph], [*CodeBlock], [*BlockQuote],
// [*Admonition], [*UnorderedList], [*OrderedList], [*DefinitionList],
// [*Table], [*HorizontalRule], or [*PassthroughBlock].
type Block interface {
	Node
	Kind() BlockKind
	block()
}

// BlockKind is an enumeration of values returned by [Block.Kind].
type BlockKind uint16

const (
	HeaderKind BlockKind = 1 + iota
	ParagraphKind
	CodeBlockKind
	BlockQuoteKind
	AdmonitionKind
	UnorderedListKind
	OrderedListKind
	DefinitionListKind
	TableKind
	HorizontalRuleKind
	PassthroughBlockKind
)

var blockKindNames = [...]string{
	HeaderKind:           "Header",
	ParagraphKind:        "Paragraph",
	CodeBlockKind:        "CodeBlock",
	BlockQuoteKind:       "BlockQuote",
	AdmonitionKind:       "Admonition",
	UnorderedListKind:    "UnorderedList",
	OrderedListKind:      "OrderedList",
	DefinitionListKind:   "DefinitionList",
	TableKind:            "Table",
	HorizontalRuleKind:   "HorizontalRule",
	PassthroughBlockKind: "PassthroughBlock",
}

func (kind BlockKind) String() string {
	if int(kind) < len(blockKindNames) && blockKindNames[kind] != "" {
		return blockKindNames[kind]
	}
	return fmt.Sprintf("BlockKind(%d)", uint16(kind))
}

// Header is a section title.
type Header struct {
	Level   int // 1-6
	Content []Inline
	// ID is the explicit [#id] given in the source
	// or an ID generated from the title text.
	ID string
}

// Paragraph is a run of text.
// A standalone block image is represented as a Paragraph
// holding a single [*Image].
type Paragraph struct {
	Content []Inline
}

// CodeBlock is a verbatim listing.
type CodeBlock struct {
	// Content is the raw text between the fences,
	// with lines separated by "\n".
	Content  string
	Language string
	// Attributes holds the remaining entries of the block's attribute line,
	// like "linenums" or "title".
	Attributes Attributes
	// Callouts maps a callout number to its explanation.
	Callouts map[int]string
}

// BlockQuote is a quotation containing arbitrary blocks.
type BlockQuote struct {
	Blocks      []Block
	Attribution string
	CiteTitle   string
}

// Admonition is a callout box like a note or a warning.
type Admonition struct {
	Type   AdmonitionType
	Blocks []Block
	Title  string
}

// AdmonitionType is an enumeration of admonition labels.
type AdmonitionType uint8

const (
	Note AdmonitionType = 1 + iota
	Tip
	Important
	Warning
	Caution
)

// String returns the label as it is spelled in source, like "NOTE".
func (typ AdmonitionType) String() string {
	switch typ {
	case Note:
		return "NOTE"
	case Tip:
		return "TIP"
	case Important:
		return "IMPORTANT"
	case Warning:
		return "WARNING"
	case Caution:
		return "CAUTION"
	default:
		return fmt.Sprintf("AdmonitionType(%d)", uint8(typ))
	}
}

func parseAdmonitionType(s string) AdmonitionType {
	switch s {
	case "NOTE":
		return Note
	case "TIP":
		return Tip
	case "IMPORTANT":
		return Important
	case "WARNING":
		return Warning
	case "CAUTION":
		return Caution
	default:
		return 0
	}
}

// UnorderedList is a bulleted list.
type UnorderedList struct {
	Items      []*ListItem
	Attributes Attributes
}

// OrderedList is a numbered list.
type OrderedList struct {
	Items []*ListItem
	// Style is the numbering style:
	// "arabic", "loweralpha", "lowerroman", "upperalpha", or "upperroman".
	Style string
	// Attributes holds the list's attribute line.
	// "start" gives the first number if it is not 1.
	Attributes Attributes
}

// ListItem is an entry in an [*UnorderedList] or an [*OrderedList].
type ListItem struct {
	Content []Inline
	// Nested is nil, an [*UnorderedList], or an [*OrderedList].
	Nested Block
}

// DefinitionList is a list of terms and their descriptions.
type DefinitionList struct {
	Items []*DefinitionItem
}

// DefinitionItem is a single term of a [*DefinitionList].
type DefinitionItem struct {
	Term []Inline
	// Description is empty if the term has no description.
	Description []Inline
}

// Table is a grid of cells.
type Table struct {
	Rows []*TableRow
	// Attributes holds the table's attribute line, like "cols" and "options".
	Attributes Attributes
}

// TableRow is a single row of a [*Table].
// Rows in a table are not guaranteed to have the same number of cells.
type TableRow struct {
	Cells  []*TableCell
	Header bool
}

// TableCell is a single cell of a [*TableRow].
type TableCell struct {
	Content []Inline
	// Attributes may hold "colspan" and "rowspan" as decimal strings.
	Attributes Attributes
}

// HorizontalRule is a thematic break.
type HorizontalRule struct{}

// PassthroughBlock is content that is passed to the output unprocessed.
type PassthroughBlock struct {
	Content string
	// Attributes holds the block's attribute line.
	// A bare style token like [stem] is stored as "style".
	Attributes Attributes
}

func (*Header) Kind() BlockKind           { return HeaderKind }
func (*Paragraph) Kind() BlockKind        { return ParagraphKind }
func (*CodeBlock) Kind() BlockKind        { return CodeBlockKind }
func (*BlockQuote) Kind() BlockKind       { return BlockQuoteKind }
func (*Admonition) Kind() BlockKind       { return AdmonitionKind }
func (*UnorderedList) Kind() BlockKind    { return UnorderedListKind }
func (*OrderedList) Kind() BlockKind      { return OrderedListKind }
func (*DefinitionList) Kind() BlockKind   { return DefinitionListKind }
func (*Table) Kind() BlockKind            { return TableKind }
func (*HorizontalRule) Kind() BlockKind   { return HorizontalRuleKind }
func (*PassthroughBlock) Kind() BlockKind { return PassthroughBlockKind }

func (*Header) block()           {}
func (*Paragraph) block()        {}
func (*CodeBlock) block()        {}
func (*BlockQuote) block()       {}
func (*Admonition) block()       {}
func (*UnorderedList) block()    {}
func (*OrderedList) block()      {}
func (*DefinitionList) block()   {}
func (*Table) block()            {}
func (*HorizontalRule) block()   {}
func (*PassthroughBlock) block() {}

// Inline represents AsciiDoc content elements like text, links, or emphasis.
// The set of implementations is closed:
// it is one of [*Text], [*Bold], [*Italic], [*Monospace], [*Subscript],
// [*Superscript], [*Link], [*Image], [*CrossRef], [*Math], or [*LineBreak].
type Inline interface {
	Node
	Kind() InlineKind
	inline()
}

// InlineKind is an enumeration of values returned by [Inline.Kind].
type InlineKind uint16

const (
	TextKind InlineKind = 1 + iota
	BoldKind
	ItalicKind
	MonospaceKind
	SubscriptKind
	SuperscriptKind
	LinkKind
	ImageKind
	CrossRefKind
	MathKind
	LineBreakKind
)

var inlineKindNames = [...]string{
	TextKind:        "Text",
	BoldKind:        "Bold",
	ItalicKind:      "Italic",
	MonospaceKind:   "Monospace",
	SubscriptKind:   "Subscript",
	SuperscriptKind: "Superscript",
	LinkKind:        "Link",
	ImageKind:       "Image",
	CrossRefKind:    "CrossRef",
	MathKind:        "Math",
	LineBreakKind:   "LineBreak",
}

func (kind InlineKind) String() string {
	if int(kind) < len(inlineKindNames) && inlineKindNames[kind] != "" {
		return inlineKindNames[kind]
	}
	return fmt.Sprintf("InlineKind(%d)", uint16(kind))
}

// Text is a run of literal text.
type Text struct {
	Text string
}

// Bold is strong emphasis (*text*).
type Bold struct {
	Content []Inline
}

// Italic is emphasis (_text_).
type Italic struct {
	Content []Inline
}

// Monospace is literal code text (`text`).
// Its content is never parsed for further markup.
type Monospace struct {
	Text string
}

// Subscript is lowered text (~text~).
type Subscript struct {
	Content []Inline
}

// Superscript is raised text (^text^).
type Superscript struct {
	Content []Inline
}

// Link is a hyperlink.
type Link struct {
	URL string
	// Content is the link text.
	// If the source did not give any, it is a single [*Text] holding URL.
	Content []Inline
	// TextPresent reports whether the source gave link text.
	TextPresent bool
}

// Image is an inline or block image.
type Image struct {
	URL        string
	Alt        string
	Attributes Attributes
}

// CrossRef is a reference to an element ID in the document.
type CrossRef struct {
	Target string
	// Content is the reference text.
	// If the source did not give any, it is a single [*Text] holding Target.
	Content []Inline
	// TextPresent reports whether the source gave reference text.
	TextPresent bool
}

// Math is an inline stem:[] passthrough.
type Math struct {
	Content string
}

// LineBreak is a hard line break.
type LineBreak struct{}

func (*Text) Kind() InlineKind        { return TextKind }
func (*Bold) Kind() InlineKind        { return BoldKind }
func (*Italic) Kind() InlineKind      { return ItalicKind }
func (*Monospace) Kind() InlineKind   { return MonospaceKind }
func (*Subscript) Kind() InlineKind   { return SubscriptKind }
func (*Superscript) Kind() InlineKind { return SuperscriptKind }
func (*Link) Kind() InlineKind        { return LinkKind }
func (*Image) Kind() InlineKind       { return ImageKind }
func (*CrossRef) Kind() InlineKind    { return CrossRefKind }
func (*Math) Kind() InlineKind        { return MathKind }
func (*LineBreak) Kind() InlineKind   { return LineBreakKind }

func (*Text) inline()        {}
func (*Bold) inline()        {}
func (*Italic) inline()      {}
func (*Monospace) inline()   {}
func (*Subscript) inline()   {}
func (*Superscript) inline() {}
func (*Link) inline()        {}
func (*Image) inline()       {}
func (*CrossRef) inline()    {}
func (*Math) inline()        {}
func (*LineBreak) inline()   {}

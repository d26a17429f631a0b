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

func text(s string) []Inline {
	return []Inline{&Text{Text: s}}
}

func paragraph(s string) *Paragraph {
	return &Paragraph{Content: text(s)}
}

func TestBlocks(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []Block
	}{
		{
			name:   "HeaderLevels",
			source: "== Two\n\n====== Six\n",
			want: []Block{
				&Header{Level: 2, Content: text("Two"), ID: "two"},
				&Header{Level: 6, Content: text("Six"), ID: "six"},
			},
		},
		{
			name:   "HeaderTooDeep",
			source: "======= Seven",
			want:   []Block{paragraph("======= Seven")},
		},
		{
			name:   "HeaderNeedsSpace",
			source: "==Nope",
			want:   []Block{paragraph("==Nope")},
		},
		{
			name:   "HeaderExplicitID",
			source: "== Setup [#setup-guide]",
			want: []Block{
				&Header{Level: 2, Content: text("Setup"), ID: "setup-guide"},
			},
		},
		{
			name:   "HeaderAttributeLineID",
			source: "[#intro]\n== Introduction",
			want: []Block{
				&Header{Level: 2, Content: text("Introduction"), ID: "intro"},
			},
		},
		{
			name:   "HeaderMarkup",
			source: "== The *Bold* Move",
			want: []Block{
				&Header{
					Level: 2,
					Content: []Inline{
						&Text{Text: "The "},
						&Bold{Content: text("Bold")},
						&Text{Text: " Move"},
					},
					ID: "the-bold-move",
				},
			},
		},
		{
			name:   "ParagraphEndsAtBlockStart",
			source: "Some text\n* item",
			want: []Block{
				paragraph("Some text"),
				&UnorderedList{Items: []*ListItem{{Content: text("item")}}},
			},
		},
		{
			name:   "Listing",
			source: "----\nfunc main() {\n\n}\n----",
			want: []Block{
				&CodeBlock{Content: "func main() {\n\n}"},
			},
		},
		{
			name:   "ListingLongFence",
			source: "------\n----\n------",
			want: []Block{
				&CodeBlock{Content: "----"},
			},
		},
		{
			name:   "ListingUnclosed",
			source: "----\nrest of\nfile",
			want: []Block{
				&CodeBlock{Content: "rest of\nfile"},
			},
		},
		{
			name:   "ListingNoSubstitution",
			source: ":x: y\n\n----\n{x} *not bold*\n----",
			want: []Block{
				&CodeBlock{Content: "{x} *not bold*"},
			},
		},
		{
			name:   "SourceBlock",
			source: "[source,go]\n----\nfmt.Println()\n----",
			want: []Block{
				&CodeBlock{Content: "fmt.Println()", Language: "go"},
			},
		},
		{
			name:   "SourceLinenums",
			source: "[source,go,linenums]\n----\nx\n----",
			want: []Block{
				&CodeBlock{Content: "x", Language: "go", Attributes: Attributes{"linenums": ""}},
			},
		},
		{
			name:   "SourceLinenumsShorthand",
			source: "[source%linenums,go]\n----\nx\n----",
			want: []Block{
				&CodeBlock{
					Content:    "x",
					Language:   "go",
					Attributes: Attributes{"options": "linenums", "linenums": ""},
				},
			},
		},
		{
			name:   "SourceLanguageAttribute",
			source: ":source-language: rust\n\n[source]\n----\nfn main() {}\n----",
			want: []Block{
				&CodeBlock{Content: "fn main() {}", Language: "rust"},
			},
		},
		{
			name:   "SourceParagraph",
			source: "[source,sh]\necho hi\necho bye\n\nAfter.",
			want: []Block{
				&CodeBlock{Content: "echo hi\necho bye", Language: "sh"},
				paragraph("After."),
			},
		},
		{
			name:   "CodeTitle",
			source: ".Example\n[source,go]\n----\nx\n----",
			want: []Block{
				&CodeBlock{Content: "x", Language: "go", Attributes: Attributes{"title": "Example"}},
			},
		},
		{
			name:   "Callouts",
			source: "[source,ruby]\n----\nrequire 'sinatra' <1>\nget '/' do <2>\n----\n<1> Library import\n<2> URL mapping\n\nAfter.",
			want: []Block{
				&CodeBlock{
					Content:  "require 'sinatra' <1>\nget '/' do <2>",
					Language: "ruby",
					Callouts: map[int]string{
						1: "Library import",
						2: "URL mapping",
					},
				},
				paragraph("After."),
			},
		},
		{
			name:   "Passthrough",
			source: "++++\n<video src=\"a.mp4\"></video>\n++++",
			want: []Block{
				&PassthroughBlock{Content: `<video src="a.mp4"></video>`},
			},
		},
		{
			name:   "StemPassthrough",
			source: "[stem]\n++++\nsqrt(4) = 2\n++++",
			want: []Block{
				&PassthroughBlock{Content: "sqrt(4) = 2", Attributes: Attributes{"style": "stem"}},
			},
		},
		{
			name:   "Quote",
			source: "[quote, Albert Einstein, Relativity]\n____\nImagination.\n\nKnowledge.\n____",
			want: []Block{
				&BlockQuote{
					Blocks:      []Block{paragraph("Imagination."), paragraph("Knowledge.")},
					Attribution: "Albert Einstein",
					CiteTitle:   "Relativity",
				},
			},
		},
		{
			name:   "QuoteNested",
			source: "______\n____\nInner.\n____\n______",
			want: []Block{
				&BlockQuote{Blocks: []Block{
					&BlockQuote{Blocks: []Block{paragraph("Inner.")}},
				}},
			},
		},
		{
			name:   "QuoteParagraph",
			source: "[quote, Someone]\nShort and sweet.",
			want: []Block{
				&BlockQuote{
					Blocks:      []Block{paragraph("Short and sweet.")},
					Attribution: "Someone",
				},
			},
		},
		{
			name:   "QuoteSharesAttributes",
			source: "____\n:who: me\n____\n\n{who}",
			want: []Block{
				&BlockQuote{},
				paragraph("me"),
			},
		},
		{
			name:   "AdmonitionParagraph",
			source: "WARNING: Hot\nstuff.",
			want: []Block{
				&Admonition{Type: Warning, Blocks: []Block{paragraph("Hot stuff.")}},
			},
		},
		{
			name:   "AdmonitionBlock",
			source: "[TIP]\n.Pro tip\n====\nFirst.\n\n* list\n====",
			want: []Block{
				&Admonition{
					Type:  Tip,
					Title: "Pro tip",
					Blocks: []Block{
						paragraph("First."),
						&UnorderedList{Items: []*ListItem{{Content: text("list")}}},
					},
				},
			},
		},
		{
			name:   "AdmonitionStyledParagraph",
			source: "[CAUTION]\nMind the gap.",
			want: []Block{
				&Admonition{Type: Caution, Blocks: []Block{paragraph("Mind the gap.")}},
			},
		},
		{
			name:   "AdmonitionLowercaseIsText",
			source: "note: not an admonition",
			want:   []Block{paragraph("note: not an admonition")},
		},
		{
			name:   "HorizontalRule",
			source: "'''\n\n---",
			want:   []Block{&HorizontalRule{}, &HorizontalRule{}},
		},
		{
			name:   "BlockImage",
			source: "image::sunset.jpg[Sunset,300,200]",
			want: []Block{
				&Paragraph{Content: []Inline{&Image{URL: "sunset.jpg", Alt: "Sunset"}}},
			},
		},
		{
			name:   "BlockImageAttributes",
			source: ".Dusk\nimage::sunset.jpg[Sunset,width=300]",
			want: []Block{
				&Paragraph{Content: []Inline{&Image{
					URL:        "sunset.jpg",
					Alt:        "Sunset",
					Attributes: Attributes{"width": "300", "title": "Dusk"},
				}}},
			},
		},
		{
			name:   "LineComment",
			source: "// comment\nText",
			want:   []Block{paragraph("Text")},
		},
		{
			name:   "BlockComment",
			source: "////\n* not a list\n////\nText",
			want:   []Block{paragraph("Text")},
		},
		{
			name:   "OrphanAttributeLine",
			source: "[.lead]\n\nText\n\n[[anchor]]",
			want:   []Block{paragraph("Text")},
		},
		{
			name:   "ParagraphTitleDropped",
			source: ".Title\nSome text",
			want:   []Block{paragraph("Some text")},
		},
		{
			name:   "ParagraphTitleAndAttributesDropped",
			source: "[.lead]\n.Title\nSome text",
			want:   []Block{paragraph("Some text")},
		},
		{
			name:   "ParagraphDotText",
			source: "Version\n.NET 8",
			want:   []Block{paragraph("Version .NET 8")},
		},
		{
			name:   "ParagraphSpansClosest",
			source: "a *b* and *c*",
			want: []Block{&Paragraph{Content: []Inline{
				&Text{Text: "a "},
				&Bold{Content: text("b")},
				&Text{Text: " and "},
				&Bold{Content: text("c")},
			}}},
		},
		{
			name:   "ParagraphSpanAcrossHardBreak",
			source: "*a +\nb*",
			want: []Block{&Paragraph{Content: []Inline{
				&Bold{Content: []Inline{&Text{Text: "a"}, &LineBreak{}, &Text{Text: "b"}}},
			}}},
		},
		{
			name:   "LoneDelimiterSkipped",
			source: "====\n\nText",
			want:   []Block{paragraph("Text")},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := Parse([]byte(test.source), nil)
			if diff := cmp.Diff(test.want, doc.Blocks, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Input:\n%s\nBlocks (-want +got):\n%s", test.source, diff)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Title", "title"},
		{"Getting Started", "getting-started"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"What's new?", "what-s-new"},
		{"C++ & Go", "c-go"},
		{"2024 Roadmap", "_2024-roadmap"},
		{"!!!", "_"},
		{"", "_"},
		{"ÜBER Straße", "über-straße"},
		{"Multiple---dashes", "multiple-dashes"},
	}
	for _, test := range tests {
		if got := GenerateID(test.text); got != test.want {
			t.Errorf("GenerateID(%q) = %q; want %q", test.text, got, test.want)
		}
	}
}

func TestParseHeaderLine(t *testing.T) {
	tests := []struct {
		line   string
		want   headerLine
		wantOK bool
	}{
		{"= A", headerLine{level: 1, text: "A"}, true},
		{"===   Spaced out   ", headerLine{level: 3, text: "Spaced out"}, true},
		{"== Title [#id]", headerLine{level: 2, text: "Title", id: "id"}, true},
		{"== Title [#bad id]", headerLine{level: 2, text: "Title [#bad id]"}, true},
		{"=======  Too deep", headerLine{}, false},
		{"=No space", headerLine{}, false},
		{"== ", headerLine{}, false},
	}
	for _, test := range tests {
		got, ok := parseHeaderLine(test.line)
		if got != test.want || ok != test.wantOK {
			t.Errorf("parseHeaderLine(%q) = %+v, %t; want %+v, %t", test.line, got, ok, test.want, test.wantOK)
		}
	}
}

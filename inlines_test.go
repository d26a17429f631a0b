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

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []Inline
	}{
		{"", nil},
		{"plain text", text("plain text")},
		{
			"*bold _and italic_*",
			[]Inline{&Bold{Content: []Inline{
				&Text{Text: "bold "},
				&Italic{Content: text("and italic")},
			}}},
		},
		{
			"a *b* c",
			[]Inline{&Text{Text: "a "}, &Bold{Content: text("b")}, &Text{Text: " c"}},
		},
		{"* not bold *", text("* not bold *")},
		{"**", text("**")},
		{"a * b", text("a * b")},
		{
			"**un**constrained",
			[]Inline{&Bold{Content: text("un")}, &Text{Text: "constrained"}},
		},
		{
			"__un__constrained",
			[]Inline{&Italic{Content: text("un")}, &Text{Text: "constrained"}},
		},
		{
			"``un``constrained",
			[]Inline{&Monospace{Text: "un"}, &Text{Text: "constrained"}},
		},
		{
			"`*literal*`",
			[]Inline{&Monospace{Text: "*literal*"}},
		},
		{
			"H~2~O",
			[]Inline{&Text{Text: "H"}, &Subscript{Content: text("2")}, &Text{Text: "O"}},
		},
		{
			"x^2^",
			[]Inline{&Text{Text: "x"}, &Superscript{Content: text("2")}},
		},
		{
			"<<intro>>",
			[]Inline{&CrossRef{Target: "intro", Content: text("intro")}},
		},
		{
			"<<intro, the *intro*>>",
			[]Inline{&CrossRef{
				Target:      "intro",
				Content:     []Inline{&Text{Text: "the "}, &Bold{Content: text("intro")}},
				TextPresent: true,
			}},
		},
		{
			"image:logo.png[Logo, width=32, height=\"16\"]",
			[]Inline{&Image{
				URL:        "logo.png",
				Alt:        "Logo",
				Attributes: Attributes{"width": "32", "height": "16"},
			}},
		},
		{
			"image:logo.png[]",
			[]Inline{&Image{URL: "logo.png"}},
		},
		{
			"link:/docs[Docs]",
			[]Inline{&Link{URL: "/docs", Content: text("Docs"), TextPresent: true}},
		},
		{
			"link:/docs[]",
			[]Inline{&Link{URL: "/docs", Content: text("/docs")}},
		},
		{
			"see https://example.com.",
			[]Inline{
				&Text{Text: "see "},
				&Link{URL: "https://example.com", Content: text("https://example.com")},
				&Text{Text: "."},
			},
		},
		{
			"(https://example.com/a_b)",
			[]Inline{
				&Text{Text: "("},
				&Link{URL: "https://example.com/a_b", Content: text("https://example.com/a_b")},
				&Text{Text: ")"},
			},
		},
		{
			"https://example.com[*Example*]",
			[]Inline{&Link{
				URL:         "https://example.com",
				Content:     []Inline{&Bold{Content: text("Example")}},
				TextPresent: true,
			}},
		},
		{
			"stem:[a_1 + b_2]",
			[]Inline{&Math{Content: "a_1 + b_2"}},
		},
		{
			"`a` and `b`",
			[]Inline{&Monospace{Text: "a"}, &Text{Text: " and "}, &Monospace{Text: "b"}},
		},
		{
			"*a* and *b*",
			[]Inline{&Bold{Content: text("a")}, &Text{Text: " and "}, &Bold{Content: text("b")}},
		},
		{
			"**a** and **b**",
			[]Inline{&Bold{Content: text("a")}, &Text{Text: " and "}, &Bold{Content: text("b")}},
		},
		{
			"_a_ and _b_",
			[]Inline{&Italic{Content: text("a")}, &Text{Text: " and "}, &Italic{Content: text("b")}},
		},
		{
			"__a__ and __b__",
			[]Inline{&Italic{Content: text("a")}, &Text{Text: " and "}, &Italic{Content: text("b")}},
		},
		{
			"~a~ ~b~",
			[]Inline{&Subscript{Content: text("a")}, &Text{Text: " "}, &Subscript{Content: text("b")}},
		},
		{
			"^a^ ^b^",
			[]Inline{&Superscript{Content: text("a")}, &Text{Text: " "}, &Superscript{Content: text("b")}},
		},
		{
			"*bold words* and *more words*",
			[]Inline{
				&Bold{Content: text("bold words")},
				&Text{Text: " and "},
				&Bold{Content: text("more words")},
			},
		},
		{
			"*a\nb*",
			[]Inline{&Bold{Content: []Inline{&Text{Text: "a"}, &LineBreak{}, &Text{Text: "b"}}}},
		},
		{
			"`a\nb`",
			[]Inline{&Text{Text: "`a"}, &LineBreak{}, &Text{Text: "b`"}},
		},
		{
			"_italic *bold*_",
			[]Inline{&Italic{Content: []Inline{&Text{Text: "italic "}, &Bold{Content: text("bold")}}}},
		},
	}
	for _, test := range tests {
		got := Tokenize(test.text)
		if diff := cmp.Diff(test.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Tokenize(%q) (-want +got):\n%s", test.text, diff)
		}
	}
}

func TestParseInline(t *testing.T) {
	attrs := NewAttributes()
	attrs.Set("greeting", "*hi*")
	attrs.Set("url", "https://example.com")
	tests := []struct {
		text  string
		attrs Attributes
		want  []Inline
	}{
		{
			text:  "{greeting} there",
			attrs: attrs,
			want:  []Inline{&Bold{Content: text("hi")}, &Text{Text: " there"}},
		},
		{
			text:  "{url}[Home]",
			attrs: attrs,
			want:  []Inline{&Link{URL: "https://example.com", Content: text("Home"), TextPresent: true}},
		},
		{
			text:  "{greeting}",
			attrs: nil,
			want:  text("{greeting}"),
		},
		{
			text:  "a{plus}b",
			attrs: nil,
			want:  text("a+b"),
		},
		{
			text:  "\\{greeting}",
			attrs: attrs,
			want:  text("{greeting}"),
		},
		{
			text:  "one" + hardBreak + "*two*",
			attrs: nil,
			want: []Inline{
				&Text{Text: "one"},
				&LineBreak{},
				&Bold{Content: text("two")},
			},
		},
		{
			text:  "*a" + hardBreak + "b*",
			attrs: nil,
			want: []Inline{&Bold{Content: []Inline{
				&Text{Text: "a"},
				&LineBreak{},
				&Text{Text: "b"},
			}}},
		},
	}
	for _, test := range tests {
		got := ParseInline(test.text, test.attrs)
		if diff := cmp.Diff(test.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("ParseInline(%q, attrs) (-want +got):\n%s", test.text, diff)
		}
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		inlines []Inline
		want    string
	}{
		{nil, ""},
		{text("hello"), "hello"},
		{Tokenize("The *Bold* `Move`"), "The Bold Move"},
		{Tokenize("see <<intro,the _intro_>>"), "see the intro"},
		{Tokenize("image:a.png[Alt] stem:[x]"), "Alt x"},
		{[]Inline{&Text{Text: "a"}, &LineBreak{}, &Text{Text: "b"}}, "a b"},
	}
	for _, test := range tests {
		if got := PlainText(test.inlines); got != test.want {
			t.Errorf("PlainText(%v) = %q; want %q", test.inlines, got, test.want)
		}
	}
}

func TestMergeText(t *testing.T) {
	got := mergeText([]Inline{
		&Text{Text: "a"},
		&Text{Text: "b"},
		&Bold{Content: text("c")},
		&Text{Text: "d"},
		&Text{Text: "e"},
	})
	want := []Inline{
		&Text{Text: "ab"},
		&Bold{Content: text("c")},
		&Text{Text: "de"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mergeText(...) (-want +got):\n%s", diff)
	}
}

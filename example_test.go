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

package asciidoc_test

import (
	"fmt"
	"os"
	"testing/fstest"

	"zombiezen.com/go/asciidoc"
)

func Example() {
	// Convert AsciiDoc to a document tree.
	doc := asciidoc.Parse([]byte("Hello, *World*!\n"), nil)
	// Render the document to HTML.
	asciidoc.RenderHTML(os.Stdout, doc)
	// Output:
	// <p>Hello, <strong>World</strong>!</p>
}

func ExampleParseFile() {
	fsys := fstest.MapFS{
		"guide/main.adoc":  {Data: []byte("= Guide\n\ninclude::intro.adoc[]\n")},
		"guide/intro.adoc": {Data: []byte("Welcome to *{product}*.\n")},
	}
	doc, err := asciidoc.ParseFile("guide/main.adoc", &asciidoc.ParseOptions{
		FileSystem: asciidoc.IOFS{FS: fsys},
		Attributes: map[string]string{"product": "Widget"},
	})
	if err != nil {
		// The top-level file is in the map.
		panic(err)
	}
	for _, d := range doc.Diagnostics {
		fmt.Println(d)
	}
	asciidoc.RenderHTML(os.Stdout, doc)
	// Output:
	// <h1 id="guide">Guide</h1>
	// <p>Welcome to <strong>Widget</strong>.</p>
}

func ExampleBrokenCrossRefs() {
	doc := asciidoc.Parse([]byte("== Setup\n\nSee <<setup>> and <<teardown>>.\n"), nil)
	ids := make(asciidoc.IDMap)
	ids.Extract(doc)
	for _, ref := range asciidoc.BrokenCrossRefs(doc, ids) {
		fmt.Println(ref.Target)
	}
	// Output:
	// teardown
}

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
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// FileSystem is the interface used to read included files.
type FileSystem interface {
	// ReadFile returns the contents of the named file.
	// If the file does not exist,
	// the error should satisfy errors.Is(err, fs.ErrNotExist).
	ReadFile(name string) ([]byte, error)
	// Canonical returns a name that is the same for every name
	// that refers to the same file.
	// It is used to detect circular includes.
	Canonical(name string) (string, error)
}

// OSFileSystem is a [FileSystem] that reads from the operating system.
type OSFileSystem struct{}

// ReadFile calls [os.ReadFile].
func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Canonical returns the absolute path of name with symbolic links resolved.
func (OSFileSystem) Canonical(name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// IOFS adapts an [fs.FS] into a [FileSystem].
// Names are interpreted as slash-separated paths relative to the root of FS.
type IOFS struct {
	FS fs.FS
}

// ReadFile calls [fs.ReadFile].
func (fsys IOFS) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(fsys.FS, ioFSName(name))
}

// Canonical returns the cleaned path of name
// or an error if the file does not exist.
func (fsys IOFS) Canonical(name string) (string, error) {
	name = ioFSName(name)
	if _, err := fs.Stat(fsys.FS, name); err != nil {
		return "", err
	}
	return name, nil
}

func ioFSName(name string) string {
	name = path.Clean(filepath.ToSlash(name))
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "."
	}
	return name
}

// include parses the file named by an include directive at p.lines[i]
// and returns its blocks.
// Problems are recorded as diagnostics and produce no blocks.
func (p *parser) include(i int, target string, list attrList) []Block {
	target = strings.TrimSpace(Substitute(target, p.attrs))
	name := target
	if !filepath.IsAbs(name) {
		name = filepath.Join(p.baseDir, name)
	}

	canon, err := p.fsys.Canonical(name)
	if errors.Is(err, fs.ErrNotExist) {
		p.diagnose(i, "include file not found: %s", target)
		return nil
	}
	if err != nil {
		p.diagnose(i, "include %s: %v", target, err)
		return nil
	}
	if slices.Contains(p.includeStack, canon) {
		p.diagnose(i, "circular include of %s", target)
		return nil
	}
	if len(p.includeStack) >= p.maxIncludeDepth {
		p.diagnose(i, "include %s: maximum include depth (%d) exceeded", target, p.maxIncludeDepth)
		return nil
	}
	source, err := p.fsys.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		p.diagnose(i, "include file not found: %s", target)
		return nil
	}
	if err != nil {
		p.diagnose(i, "include %s: %v", target, err)
		return nil
	}

	lines := splitLines(source)
	if spec, ok := list.named["lines"]; ok {
		lines = selectLines(lines, spec)
	}
	child := &parser{
		parseContext: p.parseContext,
		lines:        lines,
		firstLine:    1,
		path:         name,
		attrs:        p.attrs.Clone(),
		baseDir:      filepath.Dir(name),
		includeStack: append(slices.Clip(p.includeStack), canon),
	}
	return child.parseBlocks()
}

// selectLines returns the lines picked out by a lines attribute
// like "1..3;7" or "2,5..".
// Ranges are applied in order and may repeat lines.
// Line numbers outside of lines are ignored.
func selectLines(lines []string, spec string) []string {
	var selected []string
	ranges := strings.FieldsFunc(spec, func(c rune) bool { return c == ';' || c == ',' })
	for _, r := range ranges {
		first, last, isRange := strings.Cut(strings.TrimSpace(r), "..")
		start, err := strconv.Atoi(first)
		if err != nil {
			continue
		}
		end := start
		if isRange {
			if last == "" || last == "-1" {
				end = len(lines)
			} else if end, err = strconv.Atoi(last); err != nil {
				continue
			}
		}
		start = max(start, 1)
		end = min(end, len(lines))
		for n := start; n <= end; n++ {
			selected = append(selected, lines[n-1])
		}
	}
	return selected
}

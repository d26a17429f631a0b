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

// adoc converts an AsciiDoc file to HTML or to normalized AsciiDoc.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"zombiezen.com/go/asciidoc"
	"zombiezen.com/go/asciidoc/format"
	"zombiezen.com/go/asciidoc/highlight"
	"zombiezen.com/go/asciidoc/internal/config"
)

type options struct {
	configPath     string
	backend        string
	attributes     []string
	output         string
	verbose        bool
	ignoreRaw      bool
	filterTags     bool
	highlight      bool
	highlightStyle string
	highlightCSS   string
	maxDepth       int
	watch          bool
}

// loggerFunc builds the logger for a run.
type loggerFunc func(verbose bool) (*zap.Logger, error)

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newRootCommand(mkLogger loggerFunc) *cobra.Command {
	opts := new(options)
	c := &cobra.Command{
		Use:           "adoc [flags] FILE",
		Short:         "Convert AsciiDoc to HTML",
		Long:          "adoc parses an AsciiDoc file, following include directives, and writes it as HTML or as normalized AsciiDoc.\nA FILE of \"-\" reads from standard input.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.Flags().StringVar(&opts.configPath, "config", "", "TOML or YAML configuration `file`")
	c.Flags().StringVarP(&opts.backend, "to", "t", config.BackendHTML, "output `format` (html or adoc)")
	c.Flags().StringArrayVarP(&opts.attributes, "attribute", "a", nil, "set a document attribute (`name=value`, name, or name!)")
	c.Flags().StringVarP(&opts.output, "output", "o", "", "write to `file` instead of stdout")
	c.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log skipped lines and other debug output")
	c.Flags().BoolVar(&opts.ignoreRaw, "ignore-raw", false, "skip raw passthrough blocks in HTML output")
	c.Flags().BoolVar(&opts.filterTags, "filter-tags", false, "escape unsafe tags like <script> in passthrough blocks")
	c.Flags().BoolVar(&opts.highlight, "highlight", false, "syntax highlight source blocks in HTML output")
	c.Flags().StringVar(&opts.highlightStyle, "highlight-style", "", "Chroma `style` of the --highlight-css stylesheet")
	c.Flags().StringVar(&opts.highlightCSS, "highlight-css", "", "write the highlighting stylesheet to `file`")
	c.Flags().IntVar(&opts.maxDepth, "max-include-depth", 0, "maximum nesting of include directives (0 for default)")
	c.Flags().BoolVarP(&opts.watch, "watch", "w", false, "convert again whenever an AsciiDoc file next to FILE changes")

	c.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := opts.config(cmd)
		if err != nil {
			return err
		}
		if opts.watch && args[0] == "-" {
			return errors.New("--watch requires a file")
		}
		logger, err := mkLogger(opts.verbose)
		if err != nil {
			return err
		}
		defer logger.Sync()

		conv := &converter{
			cfg:    cfg,
			logger: logger,
			input:  args[0],
			output: opts.output,
			stdin:  cmd.InOrStdin(),
			stdout: cmd.OutOrStdout(),
		}
		if cfg.Highlight || opts.highlightCSS != "" {
			conv.highlighter, err = highlight.New(cfg.HighlightStyle)
			if err != nil {
				return err
			}
		}
		if opts.highlightCSS != "" {
			if err := writeCSS(opts.highlightCSS, conv.highlighter); err != nil {
				return err
			}
		}
		if !opts.watch {
			return conv.convert()
		}

		if err := conv.convert(); err != nil {
			logger.Error("conversion failed", zap.Error(err))
		}
		dir := filepath.Dir(args[0])
		w, err := newWatcher(dir)
		if err != nil {
			return err
		}
		logger.Info("watching for changes", zap.String("dir", dir))
		return watchLoop(cmd.Context(), logger, w, opts.output, conv.convert)
	}
	return c
}

// config merges the configuration file with the flags set on the command line.
func (opts *options) config(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("to") {
		cfg.Backend = opts.backend
	}
	if flags.Changed("ignore-raw") {
		cfg.IgnoreRaw = opts.ignoreRaw
	}
	if flags.Changed("filter-tags") {
		cfg.FilterTags = opts.filterTags
	}
	if flags.Changed("highlight") {
		cfg.Highlight = opts.highlight
	}
	if flags.Changed("highlight-style") {
		cfg.HighlightStyle = opts.highlightStyle
	}
	if flags.Changed("max-include-depth") {
		cfg.MaxIncludeDepth = opts.maxDepth
	}
	for _, a := range opts.attributes {
		if err := cfg.SetAttribute(a); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// converter converts one input according to a configuration.
type converter struct {
	cfg         *config.Config
	logger      *zap.Logger
	highlighter *highlight.Highlighter
	input       string
	output      string
	stdin       io.Reader
	stdout      io.Writer
}

func (conv *converter) parse() (*asciidoc.Document, error) {
	opts := &asciidoc.ParseOptions{
		Attributes:      conv.cfg.Attributes,
		Logger:          conv.logger,
		MaxIncludeDepth: conv.cfg.MaxIncludeDepth,
	}
	if conv.input != "-" {
		return asciidoc.ParseFile(conv.input, opts)
	}
	source, err := io.ReadAll(conv.stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	opts.BaseDir = "."
	return asciidoc.Parse(source, opts), nil
}

func (conv *converter) convert() error {
	doc, err := conv.parse()
	if err != nil {
		return err
	}
	if conv.output == "" {
		return conv.write(conv.stdout, doc)
	}
	f, err := os.Create(conv.output)
	if err != nil {
		return err
	}
	err = conv.write(f, doc)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("write output: %w", closeErr)
	}
	return err
}

func (conv *converter) write(w io.Writer, doc *asciidoc.Document) error {
	bw := bufio.NewWriter(w)
	switch conv.cfg.Backend {
	case config.BackendAsciiDoc:
		if err := format.Format(bw, doc); err != nil {
			return err
		}
	default:
		ids := make(asciidoc.IDMap)
		ids.Extract(doc)
		for _, ref := range asciidoc.BrokenCrossRefs(doc, ids) {
			conv.logger.Warn("cross reference to unknown ID", zap.String("target", ref.Target))
		}
		r := &asciidoc.HTMLRenderer{
			IDMap:     ids,
			IgnoreRaw: conv.cfg.IgnoreRaw,
			Logger:    conv.logger,
		}
		if conv.cfg.FilterTags {
			r.FilterTag = asciidoc.FilterTagGFM
		}
		if conv.cfg.Highlight {
			r.Highlighter = conv.highlighter
		}
		if err := r.Render(bw, doc); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	conv.logger.Debug("converted document",
		zap.String("input", conv.input),
		zap.String("backend", conv.cfg.Backend),
		zap.Int("blocks", len(doc.Blocks)),
		zap.Int("diagnostics", len(doc.Diagnostics)))
	return nil
}

func writeCSS(path string, h *highlight.Highlighter) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = h.WriteCSS(f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	return err
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand(newLogger).ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "adoc:", err)
		os.Exit(1)
	}
}

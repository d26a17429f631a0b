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

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceDelay is how long the watch loop waits for changes to settle
// before converting.
const debounceDelay = 100 * time.Millisecond

func newWatcher(dir string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return w, nil
}

// watchLoop calls convert after AsciiDoc files watched by w change
// until ctx is done.
// Changes to the file named ignore are skipped.
// watchLoop closes w before returning.
func watchLoop(ctx context.Context, logger *zap.Logger, w *fsnotify.Watcher, ignore string, convert func() error) error {
	defer w.Close()
	if ignore != "" {
		ignore = filepath.Clean(ignore)
	}
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isAsciiDocFile(ev.Name) || filepath.Clean(ev.Name) == ignore {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("file changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			pending = time.After(debounceDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		case <-pending:
			pending = nil
			if err := convert(); err != nil {
				logger.Error("conversion failed", zap.Error(err))
			} else {
				logger.Info("converted")
			}
		}
	}
}

func isAsciiDocFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".adoc", ".asciidoc", ".asc", ".ad":
		return true
	default:
		return false
	}
}

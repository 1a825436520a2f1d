// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package collect

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/artifactrc/pkg/log"
	"github.com/walteh/artifactrc/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// 📋 Plan walks the source tree and classifies every regular file
// against the rule set, assigning collision-free destination names as
// accepted candidates are discovered. Planning is read-only and always
// sequential, which keeps collision numbering deterministic no matter
// how the copies are later executed.
func (c *Collector) Plan(ctx context.Context) ([]Action, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(c.config.SourceDir)
	if err != nil || !info.IsDir() {
		return nil, errors.Errorf("%w: %s", ErrInvalidSource, c.config.SourceDir)
	}

	// The output directory may be nested inside the source root; it
	// must never feed itself.
	absOut, err := filepath.Abs(c.config.OutputDir)
	if err != nil {
		return nil, errors.Errorf("resolving output directory: %w", err)
	}

	var actions []Action
	err = filepath.WalkDir(c.config.SourceDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			c.warn(fmt.Sprintf("cannot read %s: %v", path, walkErr))
			return nil
		}

		rel, err := filepath.Rel(c.config.SourceDir, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == absOut {
				logger.Debug().Str("dir", path).Msg("skipping output directory")
				return fs.SkipDir
			}
			if rel == "." {
				return nil
			}
			if c.rules.ExcludesDir(rel) {
				logger.Debug().Str("dir", rel).Msg("pruning excluded directory")
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			logger.Debug().Str("path", rel).Msg("skipping irregular file")
			return nil
		}

		decision := c.rules.Decide(rel)
		if decision != rules.DecisionIncluded {
			c.skipped++
			if c.config.Verbose {
				c.logSkip(ctx, rel, decision)
			}
			return nil
		}

		dest, collided := c.reserveName(d.Name())
		actions = append(actions, Action{
			AbsPath:  path,
			RelPath:  rel,
			DestName: dest,
			Collided: collided,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking source tree: %w", err)
	}

	logger.Debug().
		Int("planned", len(actions)).
		Int("skipped", c.skipped).
		Msg("planning complete")
	return actions, nil
}

// 🔢 reserveName claims a destination filename for this run. On a
// collision, a monotonically increasing counter is inserted before the
// extension; counter values are never reused within a run, even when a
// numbered name itself turns out to be taken.
func (c *Collector) reserveName(base string) (string, bool) {
	if _, taken := c.names[base]; !taken {
		c.names[base] = struct{}{}
		return base, false
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for {
		c.seq++
		candidate := fmt.Sprintf("%s_%d%s", stem, c.seq, ext)
		if _, taken := c.names[candidate]; !taken {
			c.names[candidate] = struct{}{}
			return candidate, true
		}
	}
}

// logSkip reports a rejected candidate and the rule that rejected it.
func (c *Collector) logSkip(ctx context.Context, rel string, decision rules.Decision) {
	status := decision.String()
	if rule, ok := c.rules.DecidingRule(rel); ok {
		status = fmt.Sprintf("%s (%s)", decision, rule.Raw)
	}
	c.logger.LogFileOperation(ctx, log.FileOperation{
		Path:      rel,
		Status:    status,
		IsSkipped: true,
	})
}

// warn records a non-fatal per-file problem without aborting the run.
func (c *Collector) warn(msg string) {
	c.warnMu.Lock()
	c.warnings++
	c.warnMu.Unlock()
	c.logger.Warning(msg)
}

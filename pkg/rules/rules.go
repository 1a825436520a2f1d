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

// Package rules turns the line-oriented .artifacts file into compiled
// include/exclude matchers evaluated against slash-normalized paths
// relative to the source root.
package rules

import (
	"context"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ⚖️ Decision is the outcome of evaluating a path against a rule set
type Decision int

const (
	DecisionNoMatch Decision = iota
	DecisionIncluded
	DecisionExcluded
)

// String returns a string representation of Decision
func (d Decision) String() string {
	switch d {
	case DecisionIncluded:
		return "included"
	case DecisionExcluded:
		return "excluded"
	default:
		return "no-match"
	}
}

// 📏 Rule is one parsed line from the rules file
type Rule struct {
	Raw     string // Original line text, as authored
	Pattern string // Compiled doublestar pattern
	Exclude bool   // Whether the line carried a leading !
}

// 🔍 Match reports whether the rule matches a slash-normalized relative path.
// Patterns are validated at parse time, so doublestar cannot fail here.
func (r Rule) Match(relPath string) bool {
	ok, err := doublestar.Match(r.Pattern, relPath)
	if err != nil {
		return false
	}
	return ok
}

// 📚 RuleSet holds the ordered rules of one run
type RuleSet struct {
	rules    []Rule
	includes []Rule
	excludes []Rule
}

// Rules returns all rules in declaration order.
func (rs *RuleSet) Rules() []Rule {
	return rs.rules
}

// Empty reports whether no usable rule survived parsing.
func (rs *RuleSet) Empty() bool {
	return len(rs.rules) == 0
}

// ⚖️ Decide classifies a relative path. Exclude rules always win: any
// exclude match rejects the path no matter what the include rules say.
// Paths matching no rule at all are left alone (DecisionNoMatch).
func (rs *RuleSet) Decide(relPath string) Decision {
	for _, r := range rs.excludes {
		if r.Match(relPath) {
			return DecisionExcluded
		}
	}
	for _, r := range rs.includes {
		if r.Match(relPath) {
			return DecisionIncluded
		}
	}
	return DecisionNoMatch
}

// DecidingRule returns the rule that determined the decision for a path,
// if any. Useful for verbose reporting.
func (rs *RuleSet) DecidingRule(relPath string) (Rule, bool) {
	for _, r := range rs.excludes {
		if r.Match(relPath) {
			return r, true
		}
	}
	for _, r := range rs.includes {
		if r.Match(relPath) {
			return r, true
		}
	}
	return Rule{}, false
}

// 🌳 ExcludesDir reports whether a directory path is rejected by an
// exclude rule. A match here means the whole subtree can be pruned, so
// excludes apply tree-wide rather than only to already-included files.
func (rs *RuleSet) ExcludesDir(relPath string) bool {
	for _, r := range rs.excludes {
		if r.Match(relPath) {
			return true
		}
	}
	return false
}

// 📝 ParseRules parses rule lines. Comments (#) and blank lines are
// skipped, a leading ! marks an exclusion, and a line that is empty
// after stripping ! and whitespace is dropped silently.
func ParseRules(ctx context.Context, data []byte) (*RuleSet, error) {
	logger := zerolog.Ctx(ctx)

	rs := &RuleSet{}
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		raw := line
		exclude := false
		if strings.HasPrefix(line, "!") {
			exclude = true
			line = strings.TrimSpace(line[1:])
		}
		if line == "" {
			logger.Debug().Int("line", i+1).Msg("dropping empty pattern")
			continue
		}

		pattern, err := compilePattern(line)
		if err != nil {
			return nil, errors.Errorf("rule %q (line %d): %w", raw, i+1, err)
		}

		rule := Rule{Raw: raw, Pattern: pattern, Exclude: exclude}
		rs.rules = append(rs.rules, rule)
		if exclude {
			rs.excludes = append(rs.excludes, rule)
		} else {
			rs.includes = append(rs.includes, rule)
		}

		logger.Debug().
			Str("raw", raw).
			Str("pattern", pattern).
			Bool("exclude", exclude).
			Msg("compiled rule")
	}

	return rs, nil
}

// 🔧 compilePattern normalizes one pattern for doublestar matching.
// A literal bare filename with no separator matches at any depth
// (implicit **/ prefix, the simple-dialect recursive semantics); a
// pattern carrying separators or glob metacharacters is anchored at
// the source root, so *.json never crosses into subdirectories. A
// trailing slash marks a directory rule; the slash is stripped and
// subtree pruning handles the contents.
func compilePattern(pattern string) (string, error) {
	pattern = strings.TrimSuffix(pattern, "/")
	if pattern == "" {
		return "", errors.New("pattern is empty")
	}

	// Relative paths are matched from the source root; normalize any
	// author-supplied leading ./ or /
	pattern = strings.TrimPrefix(pattern, "./")
	pattern = strings.TrimPrefix(pattern, "/")

	if !strings.Contains(pattern, "/") && !strings.ContainsAny(pattern, "*?[{") {
		pattern = "**/" + pattern
	}

	if !doublestar.ValidatePattern(pattern) {
		return "", errors.Errorf("invalid glob pattern %q", pattern)
	}

	return pattern, nil
}

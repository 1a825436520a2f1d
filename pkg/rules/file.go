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

package rules

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultFilename is the rules file looked up when none is given.
const DefaultFilename = ".artifacts"

// ErrConfigMissing is returned by LoadRulesFile when the rules file did
// not exist. A template file has been written in its place by the time
// this error is seen.
var ErrConfigMissing = errors.Base("rules file not found")

const template = `# artifactrc rules file
#
# One rule per line. Lines starting with # are comments, blank lines
# are ignored.
#
#   readme.md       a bare filename matches at any depth
#   docs/intro.md   a relative path matches from the source root
#   app/*.php       * matches within one path segment
#   src/**/*.go     ** matches across path segments
#   !vendor         a leading ! excludes, and excludes always win
#
# Add your rules below, then re-run artifactrc.
`

// 📂 LoadRulesFile reads and parses the rules file at path. If the file
// is absent, a commented template is written there and ErrConfigMissing
// is returned so the caller can prompt the user to fill it in.
func LoadRulesFile(ctx context.Context, path string) (*RuleSet, error) {
	logger := zerolog.Ctx(ctx)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug().Str("path", path).Msg("rules file absent, writing template")
		if werr := os.WriteFile(path, []byte(template), 0644); werr != nil {
			return nil, errors.Errorf("writing template rules file: %w", werr)
		}
		return nil, errors.Errorf("%w: created template at %s", ErrConfigMissing, path)
	}
	if err != nil {
		return nil, errors.Errorf("reading rules file: %w", err)
	}

	rs, err := ParseRules(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing rules file %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Int("rules", len(rs.rules)).Msg("loaded rules file")
	return rs, nil
}

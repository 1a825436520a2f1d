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

// Package config holds the resolved option set of one run and the
// optional .artifactrc settings file that seeds its defaults.
package config

import (
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// Defaults applied by Validate when a field is unset.
const (
	DefaultSourceDir = "."
	DefaultRulesFile = ".artifacts"
	DefaultOutputDir = "artifacts"
)

// 📚 RunConfig is the resolved option set for a single run. Created
// once from settings and command-line arguments, read-only afterwards.
type RunConfig struct {
	SourceDir string // Directory tree to collect from
	RulesFile string // Path to the rules file
	OutputDir string // Flat destination directory

	Verbose bool // Log every classification decision
	DryRun  bool // Report actions without touching the filesystem
	Force   bool // Proceed when the output directory already exists
	Clear   bool // Empty the output directory before collecting
	Async   bool // Copy files concurrently
}

// 🔍 Validate fills defaults and cleans paths
func (cfg *RunConfig) Validate() error {
	if cfg.SourceDir == "" {
		cfg.SourceDir = DefaultSourceDir
	}
	if cfg.RulesFile == "" {
		cfg.RulesFile = DefaultRulesFile
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	cfg.SourceDir = filepath.Clean(cfg.SourceDir)
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)

	absSource, err := filepath.Abs(cfg.SourceDir)
	if err != nil {
		return errors.Errorf("resolving source directory: %w", err)
	}
	cfg.SourceDir = absSource

	return nil
}

// 📝 String returns a string representation of the run configuration
func (cfg *RunConfig) String() string {
	return cfg.SourceDir + " -> " + cfg.OutputDir
}

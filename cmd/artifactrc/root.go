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

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/artifactrc/pkg/collect"
	"github.com/walteh/artifactrc/pkg/config"
	"github.com/walteh/artifactrc/pkg/log"
	"github.com/walteh/artifactrc/pkg/manifest"
	"github.com/walteh/artifactrc/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	outputDir    string
	settingsFile string
	verbose      bool
	dryRun       bool
	force        bool
	clearFirst   bool
	async        bool
)

// newRootCmd creates the root collect command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifactrc [flags] [source_dir] [rules_file]",
		Short: "Collect files scattered across a source tree into a flat artifacts directory",
		Long: `artifactrc walks a source tree, selects files with the gitignore-like
rules in .artifacts, and copies them into a single flat output
directory together with a metadata.json recording each file's original
path, size and type.

Rules: one pattern per line, # comments, leading ! excludes (and
excludes always win). Bare filenames match at any depth; patterns with
separators or wildcards are anchored at the source root.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCollect,
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default \"artifacts\")")
	cmd.Flags().StringVar(&settingsFile, "settings", "", "settings file path (default: discover .artifactrc.*)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every classification decision")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "report actions without touching the filesystem")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "proceed when the output directory already exists")
	cmd.Flags().BoolVarP(&clearFirst, "clear", "c", false, "empty the output directory before collecting")
	cmd.Flags().BoolVar(&async, "async", false, "copy files concurrently")

	return cmd
}

// setupLogging builds the console logger and a context carrying a
// zerolog logger at the requested level.
func setupLogging(parent context.Context, debug bool) (*log.Logger, context.Context) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := log.New(os.Stdout, level)
	zlog := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
	return logger, zlog.WithContext(parent)
}

// loadSettings loads the explicit settings file, or discovers one in
// the working directory when none was named.
func loadSettings(ctx context.Context) (*config.Settings, error) {
	if settingsFile != "" {
		return config.LoadSettings(ctx, settingsFile)
	}
	return config.DiscoverSettings(ctx, ".")
}

// runCollect wires up config, rules, manifest and collector for one run
func runCollect(cmd *cobra.Command, args []string) error {
	logger, ctx := setupLogging(cmd.Context(), verbose)

	cfg := &config.RunConfig{
		OutputDir: outputDir,
		Verbose:   verbose,
		DryRun:    dryRun,
		Force:     force,
		Clear:     clearFirst,
		Async:     async,
	}
	if len(args) > 0 {
		cfg.SourceDir = args[0]
	}
	if len(args) > 1 {
		cfg.RulesFile = args[1]
	}

	// Settings only seed defaults, flags and positionals win
	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	settings.ApplyTo(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Settings may have switched verbose on after the first setup
	if cfg.Verbose && !verbose {
		logger, ctx = setupLogging(cmd.Context(), true)
	}

	logger.Header("collecting " + cfg.String())

	ruleSet, err := rules.LoadRulesFile(ctx, cfg.RulesFile)
	if err != nil {
		if errors.Is(err, rules.ErrConfigMissing) {
			logger.Warningf("%v", err)
			logger.Info("populate it with rules and re-run artifactrc")
		}
		return err
	}
	if ruleSet.Empty() {
		logger.Warning("rules file contains no usable rules, nothing to collect")
	}

	collector, err := collect.New(collect.Options{
		Config:   cfg,
		Rules:    ruleSet,
		Manifest: manifest.NewManager(cfg.OutputDir),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	result, err := collector.Run(ctx)
	if err != nil {
		return err
	}

	logger.LogSummary(log.Summary{
		Planned:  result.Planned,
		Copied:   result.Copied,
		Skipped:  result.Skipped,
		Warnings: result.Warnings,
		Removed:  result.Removed,
		DryRun:   cfg.DryRun,
	})
	return nil
}

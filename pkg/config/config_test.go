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

package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/artifactrc/pkg/config"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

// 🧪 TestValidate tests defaulting and path resolution
func TestValidate(t *testing.T) {
	t.Run("fills_defaults", func(t *testing.T) {
		cfg := &config.RunConfig{}
		require.NoError(t, cfg.Validate())

		assert.Equal(t, config.DefaultRulesFile, cfg.RulesFile)
		assert.Equal(t, config.DefaultOutputDir, cfg.OutputDir)
		assert.True(t, filepath.IsAbs(cfg.SourceDir), "source dir is made absolute")
	})

	t.Run("keeps_explicit_values", func(t *testing.T) {
		cfg := &config.RunConfig{
			SourceDir: "/tmp",
			RulesFile: "custom.rules",
			OutputDir: "out",
		}
		require.NoError(t, cfg.Validate())

		assert.Equal(t, "/tmp", cfg.SourceDir)
		assert.Equal(t, "custom.rules", cfg.RulesFile)
		assert.Equal(t, "out", cfg.OutputDir)
	})
}

// 🧪 TestLoadSettings tests the format-dispatched settings loader
func TestLoadSettings(t *testing.T) {
	ctx := setupTestLogger(t)

	write := func(t *testing.T, name, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("yaml", func(t *testing.T) {
		path := write(t, "settings.yaml", "output: dist\nrules_file: pack.rules\nasync: true\n")
		s, err := config.LoadSettings(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "dist", s.Output)
		assert.Equal(t, "pack.rules", s.RulesFile)
		assert.True(t, s.Async)
	})

	t.Run("json", func(t *testing.T) {
		path := write(t, "settings.json", `{"output":"dist","verbose":true}`)
		s, err := config.LoadSettings(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "dist", s.Output)
		assert.True(t, s.Verbose)
	})

	t.Run("hcl", func(t *testing.T) {
		path := write(t, "settings.hcl", "output = \"dist\"\nrules_file = \"pack.rules\"\n")
		s, err := config.LoadSettings(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "dist", s.Output)
		assert.Equal(t, "pack.rules", s.RulesFile)
	})

	t.Run("bare_artifactrc_tries_yaml_then_hcl", func(t *testing.T) {
		path := write(t, ".artifactrc", "output = \"dist\"\n")
		s, err := config.LoadSettings(ctx, path)
		require.NoError(t, err, "HCL content in a bare .artifactrc should parse")
		assert.Equal(t, "dist", s.Output)
	})

	t.Run("unknown_yaml_field_rejected", func(t *testing.T) {
		path := write(t, "settings.yaml", "outputt: dist\n")
		_, err := config.LoadSettings(ctx, path)
		require.Error(t, err)
	})

	t.Run("unsupported_extension", func(t *testing.T) {
		path := write(t, "settings.toml", "output = \"dist\"\n")
		_, err := config.LoadSettings(ctx, path)
		require.Error(t, err)
	})
}

// 🧪 TestDiscoverSettings tests candidate lookup
func TestDiscoverSettings(t *testing.T) {
	ctx := setupTestLogger(t)

	t.Run("no_settings_is_fine", func(t *testing.T) {
		s, err := config.DiscoverSettings(ctx, t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, &config.Settings{}, s)
	})

	t.Run("finds_yaml_candidate", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".artifactrc.yaml"), []byte("output: dist\n"), 0644))

		s, err := config.DiscoverSettings(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, "dist", s.Output)
	})
}

// 🧪 TestApplyTo tests that settings never beat explicit flags
func TestApplyTo(t *testing.T) {
	s := &config.Settings{Output: "dist", RulesFile: "pack.rules", Async: true}

	t.Run("fills_unset_fields", func(t *testing.T) {
		cfg := &config.RunConfig{}
		s.ApplyTo(cfg)
		assert.Equal(t, "dist", cfg.OutputDir)
		assert.Equal(t, "pack.rules", cfg.RulesFile)
		assert.True(t, cfg.Async)
	})

	t.Run("flags_win", func(t *testing.T) {
		cfg := &config.RunConfig{OutputDir: "flagged", RulesFile: "flagged.rules"}
		s.ApplyTo(cfg)
		assert.Equal(t, "flagged", cfg.OutputDir)
		assert.Equal(t, "flagged.rules", cfg.RulesFile)
	})
}

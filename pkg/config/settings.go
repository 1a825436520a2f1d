package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Settings is the optional .artifactrc settings file. It only seeds
// defaults; command-line flags always win.
type Settings struct {
	Output    string `json:"output,omitempty" yaml:"output,omitempty" hcl:"output,optional"`
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty" hcl:"rules_file,optional"`
	Verbose   bool   `json:"verbose,omitempty" yaml:"verbose,omitempty" hcl:"verbose,optional"`
	Async     bool   `json:"async,omitempty" yaml:"async,omitempty" hcl:"async,optional"`
}

// settingsCandidates are tried in order when no explicit path is given.
var settingsCandidates = []string{
	".artifactrc.yaml",
	".artifactrc.yml",
	".artifactrc.hcl",
	".artifactrc.json",
	".artifactrc",
}

// LoadSettings loads a settings file from the given path.
// The format is determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// - .artifactrc will try both YAML and HCL formats
func LoadSettings(ctx context.Context, path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading settings file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))

	// For bare .artifactrc files, try both YAML and HCL
	if ext == ".artifactrc" || filepath.Base(path) == ".artifactrc" {
		s, yerr := loadYAML(data)
		if yerr == nil {
			return s, nil
		}
		s, herr := loadHCL(data, path)
		if herr == nil {
			return s, nil
		}
		return nil, errors.Errorf("failed to parse %s as YAML or HCL: %w", path, herr)
	}

	switch ext {
	case ".json":
		return loadJSON(data)
	case ".yaml", ".yml":
		return loadYAML(data)
	case ".hcl":
		return loadHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported settings file extension %q", ext)
	}
}

// DiscoverSettings looks for a settings file in dir, trying the known
// candidate names in order. Absence is not an error: a run without a
// settings file just uses the built-in defaults.
func DiscoverSettings(ctx context.Context, dir string) (*Settings, error) {
	logger := zerolog.Ctx(ctx)

	for _, name := range settingsCandidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		logger.Debug().Str("path", path).Msg("found settings file")
		s, err := LoadSettings(ctx, path)
		if err != nil {
			return nil, errors.Errorf("loading settings %s: %w", path, err)
		}
		return s, nil
	}

	return &Settings{}, nil
}

// ApplyTo copies settings into unset RunConfig fields.
func (s *Settings) ApplyTo(cfg *RunConfig) {
	if cfg.OutputDir == "" && s.Output != "" {
		cfg.OutputDir = s.Output
	}
	if cfg.RulesFile == "" && s.RulesFile != "" {
		cfg.RulesFile = s.RulesFile
	}
	if s.Verbose {
		cfg.Verbose = true
	}
	if s.Async {
		cfg.Async = true
	}
}

// loadJSON loads settings from JSON data
func loadJSON(data []byte) (*Settings, error) {
	var s Settings
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &s, nil
}

// loadYAML loads settings from YAML data
func loadYAML(data []byte) (*Settings, error) {
	var s Settings
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil // empty file, defaults apply
		}
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &s, nil
}

// loadHCL loads settings from HCL data
func loadHCL(data []byte, filename string) (*Settings, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var s Settings
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &s)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &s, nil
}

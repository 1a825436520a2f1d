package collect

import (
	"context"
	"sync"

	"github.com/walteh/artifactrc/pkg/config"
	"github.com/walteh/artifactrc/pkg/filetype"
	"github.com/walteh/artifactrc/pkg/log"
	"github.com/walteh/artifactrc/pkg/manifest"
	"github.com/walteh/artifactrc/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidSource means the source directory does not exist or is
	// not a directory. Fatal before any mutation.
	ErrInvalidSource = errors.Base("invalid source directory")

	// ErrOutputExists means the output directory already exists and
	// --force was not given. Fatal before any mutation.
	ErrOutputExists = errors.Base("output directory already exists")
)

// 🎯 Action is one planned copy: a classified source file bound to its
// collision-free destination name
type Action struct {
	AbsPath  string // Absolute source path
	RelPath  string // Slash-normalized path relative to the source root
	DestName string // Flattened destination filename, unique per run
	Collided bool   // Whether the name needed disambiguation
}

// 📊 Result summarizes one run
type Result struct {
	Planned  int // Candidates accepted by the rules
	Copied   int // Files copied (in dry-run, files that would be copied)
	Skipped  int // Candidates rejected or unmatched
	Warnings int // Per-file failures that did not abort the run
	Removed  int // Files removed by --clear before the run
}

// 🔧 Options contains the collaborators of a collector
type Options struct {
	// Config is the resolved option set for this run
	Config *config.RunConfig
	// Rules is the compiled rule set
	Rules *rules.RuleSet
	// Manifest manages the output directory and metadata document
	Manifest *manifest.Manager
	// Detector labels copied files with a MIME type. Defaults to the
	// standard two-tier detector when nil.
	Detector *filetype.Detector
	// Logger renders per-file console lines
	Logger *log.Logger
}

// 🎮 Collector owns the run-scoped state: reserved destination names,
// the monotonic collision counter, and the outcome counters. One
// collector serves exactly one run.
type Collector struct {
	config   *config.RunConfig
	rules    *rules.RuleSet
	manifest *manifest.Manager
	detector *filetype.Detector
	logger   *log.Logger

	names   map[string]struct{}
	seq     int
	skipped int

	// warnings can be bumped from concurrent copies in async mode
	warnMu   sync.Mutex
	warnings int
}

// 🏭 New creates a collector with the given options
func New(opts Options) (*Collector, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Rules == nil {
		return nil, errors.New("rules are required")
	}
	if opts.Manifest == nil {
		return nil, errors.New("manifest manager is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Detector == nil {
		opts.Detector = filetype.NewDetector()
	}

	return &Collector{
		config:   opts.Config,
		rules:    opts.Rules,
		manifest: opts.Manifest,
		detector: opts.Detector,
		logger:   opts.Logger,
		// metadata.json and the sentinel live in the output directory
		// too, artifacts must never shadow them
		names: map[string]struct{}{
			manifest.MetadataFilename: {},
			manifest.SentinelFilename: {},
		},
	}, nil
}

// 🏃 Run plans and executes a full collection
func (c *Collector) Run(ctx context.Context) (*Result, error) {
	actions, err := c.Plan(ctx)
	if err != nil {
		return nil, err
	}

	if c.config.DryRun {
		return c.reportDryRun(ctx, actions), nil
	}

	removed, err := c.prepareOutput(ctx)
	if err != nil {
		return nil, err
	}

	records, err := c.Execute(ctx, actions)
	if err != nil {
		return nil, err
	}

	doc := manifest.NewDocument(c.config.SourceDir, records)
	if err := c.manifest.WriteDocument(ctx, doc); err != nil {
		return nil, err
	}

	return &Result{
		Planned:  len(actions),
		Copied:   len(records),
		Skipped:  c.skipped,
		Warnings: c.warnings,
		Removed:  removed,
	}, nil
}

// 🏗️ prepareOutput enforces the force/clear semantics before any copy:
// a pre-existing output directory aborts the run unless --force, and
// --clear empties it first.
func (c *Collector) prepareOutput(ctx context.Context) (int, error) {
	exists, err := c.manifest.Exists()
	if err != nil {
		return 0, err
	}

	if exists && !c.config.Force {
		return 0, errors.Errorf("%w: %s (use --force to overwrite)", ErrOutputExists, c.manifest.Dir())
	}

	removed := 0
	if exists && c.config.Clear {
		removed, err = c.manifest.ClearContents(ctx)
		if err != nil {
			return 0, errors.Errorf("clearing output directory: %w", err)
		}
	}

	if err := c.manifest.Create(ctx); err != nil {
		return removed, err
	}
	return removed, nil
}

// 🔍 reportDryRun renders every planned action without touching the
// filesystem. The copied count still reflects what a real run would do.
func (c *Collector) reportDryRun(ctx context.Context, actions []Action) *Result {
	for _, a := range actions {
		c.logger.LogFileOperation(ctx, log.FileOperation{
			Path:        a.RelPath,
			Dest:        a.DestName,
			Status:      "would copy",
			IsPlanned:   true,
			IsCollision: a.Collided,
		})
	}
	return &Result{
		Planned: len(actions),
		Copied:  len(actions),
		Skipped: c.skipped,
	}
}

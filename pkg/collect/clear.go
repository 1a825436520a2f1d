package collect

import (
	"context"

	"github.com/walteh/artifactrc/pkg/manifest"
)

// 🧹 Clear is the standalone clear operation: it removes the output
// directory tree entirely, metadata document included, and reports how
// many files went away. An absent directory removes zero files and is
// not an error.
func Clear(ctx context.Context, outputDir string) (int, error) {
	return manifest.NewManager(outputDir).Remove(ctx)
}

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
	"runtime"

	"github.com/walteh/artifactrc/pkg/log"
	"github.com/walteh/artifactrc/pkg/manifest"
	"golang.org/x/sync/errgroup"
)

// 🏃 Execute realizes the planned actions as copies and metadata
// records. A failed copy logs a warning and never aborts the run or,
// in async mode, its sibling copies. Records come back in discovery
// order regardless of execution order.
func (c *Collector) Execute(ctx context.Context, actions []Action) ([]manifest.Artifact, error) {
	// Destination names were fixed at planning time, so parallel
	// execution only races on the byte copies, which are independent.
	slots := make([]*manifest.Artifact, len(actions))

	if c.config.Async {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, a := range actions {
			i, a := i, a
			g.Go(func() error {
				slots[i] = c.copyOne(gctx, a)
				return nil
			})
		}
		// Copy failures are warnings, not errors, so Wait cannot fail.
		_ = g.Wait()
	} else {
		for i, a := range actions {
			slots[i] = c.copyOne(ctx, a)
		}
	}

	records := make([]manifest.Artifact, 0, len(actions))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// 📥 copyOne copies a single planned file and builds its metadata
// record. Returns nil when the source vanished or became unreadable
// between discovery and copy; that is logged and the run moves on.
func (c *Collector) copyOne(ctx context.Context, a Action) *manifest.Artifact {
	size, err := c.manifest.CopyFile(ctx, a.AbsPath, a.DestName)
	if err != nil {
		c.warn(fmt.Sprintf("skipping %s: %v", a.RelPath, err))
		c.logger.LogFileOperation(ctx, log.FileOperation{
			Path:    a.RelPath,
			Dest:    a.DestName,
			Status:  "error",
			IsError: true,
		})
		return nil
	}

	c.logger.LogFileOperation(ctx, log.FileOperation{
		Path:        a.RelPath,
		Dest:        a.DestName,
		Status:      "copied",
		IsCopied:    true,
		IsCollision: a.Collided,
	})

	return &manifest.Artifact{
		Filename:     a.DestName,
		OriginalPath: a.AbsPath,
		SizeBytes:    size,
		Type:         c.detector.Detect(a.AbsPath),
	}
}

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

package manifest

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Manager handles all file system operations on the output directory
type Manager struct {
	outDir string
}

// 🏭 NewManager creates a manager for the given output directory
func NewManager(outDir string) *Manager {
	return &Manager{outDir: filepath.Clean(outDir)}
}

// Dir returns the managed output directory.
func (m *Manager) Dir() string {
	return m.outDir
}

// 🔒 getAbsPath returns the absolute path for a name inside the output directory
func (m *Manager) getAbsPath(name string) string {
	return filepath.Join(m.outDir, name)
}

// 🔍 Exists reports whether the output directory already exists
func (m *Manager) Exists() (bool, error) {
	info, err := os.Stat(m.outDir)
	if err == nil {
		if !info.IsDir() {
			return false, errors.Errorf("output path %s exists and is not a directory", m.outDir)
		}
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking output directory: %w", err)
}

// 🏗️ Create makes the output directory and drops the sentinel file in it
func (m *Manager) Create(ctx context.Context) error {
	zerolog.Ctx(ctx).Debug().Str("dir", m.outDir).Msg("creating output directory")

	if err := os.MkdirAll(m.outDir, 0755); err != nil {
		return errors.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(m.getAbsPath(SentinelFilename), nil, 0644); err != nil {
		return errors.Errorf("writing sentinel file: %w", err)
	}
	return nil
}

// 📥 CopyFile copies source bytes into the output directory under
// destName and returns the number of bytes written.
func (m *Manager) CopyFile(ctx context.Context, src, destName string) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, errors.Errorf("opening source file: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(m.getAbsPath(destName))
	if err != nil {
		return 0, errors.Errorf("creating destination file: %w", err)
	}
	defer dstFile.Close()

	n, err := io.Copy(dstFile, srcFile)
	if err != nil {
		return n, errors.Errorf("copying file content: %w", err)
	}
	return n, nil
}

// 🧹 ClearContents removes every entry in the output directory except
// the sentinel file, keeping the directory itself. Returns the number
// of files removed. An absent or empty directory removes zero and is
// not an error.
func (m *Manager) ClearContents(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(m.outDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Errorf("reading output directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.Name() == SentinelFilename {
			continue
		}
		path := m.getAbsPath(entry.Name())
		count := 1
		if entry.IsDir() {
			count = countFiles(path)
		}
		if err := os.RemoveAll(path); err != nil {
			return removed, errors.Errorf("removing %s: %w", path, err)
		}
		removed += count
	}

	zerolog.Ctx(ctx).Debug().Int("removed", removed).Str("dir", m.outDir).Msg("cleared output directory")
	return removed, nil
}

// 🗑️ Remove deletes the whole output directory tree. Returns the number
// of files that were removed; an absent directory removes zero.
func (m *Manager) Remove(ctx context.Context) (int, error) {
	if _, err := os.Stat(m.outDir); os.IsNotExist(err) {
		return 0, nil
	}

	removed := countFiles(m.outDir)
	if err := os.RemoveAll(m.outDir); err != nil {
		return 0, errors.Errorf("removing output directory: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Int("removed", removed).Str("dir", m.outDir).Msg("removed output directory")
	return removed, nil
}

// countFiles counts regular files under root, best effort.
func countFiles(root string) int {
	count := 0
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			count++
		}
		return nil
	})
	return count
}

// 💾 writeFileAtomic writes via a temp file and rename so a crashed run
// never leaves a half-written document behind
func (m *Manager) writeFileAtomic(name string, content []byte) error {
	absPath := m.getAbsPath(name)
	tempPath := absPath + ".tmp"

	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (m *Manager) readFile(name string) ([]byte, error) {
	content, err := os.ReadFile(m.getAbsPath(name))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

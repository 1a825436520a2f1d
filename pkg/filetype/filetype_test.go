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

package filetype_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/artifactrc/pkg/filetype"
)

// 🧪 TestDetectByExtension tests the static table tier
func TestDetectByExtension(t *testing.T) {
	d := filetype.NewDetectorWithSniffer(nil)

	tests := []struct {
		path string
		want string
	}{
		{"readme.md", "text/markdown"},
		{"config.json", "application/json"},
		{"a/b/deep.PNG", "image/png"},
		{"index.php", "text/x-php"},
		{"archive.tar", "application/x-tar"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.path))
		})
	}
}

// 🧪 TestDetectFallback tests unknown extensions with sniffing disabled
func TestDetectFallback(t *testing.T) {
	d := filetype.NewDetectorWithSniffer(nil)
	assert.Equal(t, filetype.FallbackType, d.Detect("mystery.zzzz"))
	assert.Equal(t, filetype.FallbackType, d.Detect("no-extension"))
}

// 🧪 TestDetectSniffs tests content sniffing for unknown extensions
func TestDetectSniffs(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "notes.zzzz")
	require.NoError(t, os.WriteFile(textPath, []byte("plain old text content\n"), 0644))

	d := filetype.NewDetector()
	assert.Equal(t, "text/plain", d.Detect(textPath), "sniffer should classify text content")
}

// 🧪 fixedSniffer always answers with one type
type fixedSniffer struct{ typ string }

func (s *fixedSniffer) Sniff(path string) (string, error) {
	return s.typ, nil
}

// 🧪 TestPluggableSniffer tests that a custom sniffer is consulted only
// when the extension tiers give no answer
func TestPluggableSniffer(t *testing.T) {
	d := filetype.NewDetectorWithSniffer(&fixedSniffer{typ: "application/x-custom"})

	assert.Equal(t, "application/x-custom", d.Detect("mystery.zzzz"))
	assert.Equal(t, "text/markdown", d.Detect("readme.md"), "table wins over sniffer")
}

// 🧪 TestDetectUnreadable tests that unreadable files still get a label
func TestDetectUnreadable(t *testing.T) {
	d := filetype.NewDetector()
	assert.Equal(t, filetype.FallbackType, d.Detect(filepath.Join(t.TempDir(), "gone.zzzz")))
}

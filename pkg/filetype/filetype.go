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

// Package filetype labels files with a best-effort MIME type using a
// static extension table backed by an optional content sniffer.
package filetype

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// FallbackType is used when neither the table nor the sniffer can
// classify a file.
const FallbackType = "application/octet-stream"

// 🗂️ extTypes maps common extensions to MIME types. Checked before the
// platform mime database so results are stable across hosts.
var extTypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".csv":  "text/csv",
	".xml":  "application/xml",
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".js":   "application/javascript",
	".go":   "text/x-go",
	".py":   "text/x-python",
	".php":  "text/x-php",
	".rb":   "text/x-ruby",
	".sh":   "application/x-sh",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".ico":  "image/vnd.microsoft.icon",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".wasm": "application/wasm",
	".woff": "font/woff",
}

// 👃 Sniffer inspects file content when the extension gives no answer
type Sniffer interface {
	Sniff(path string) (string, error)
}

// 🔎 Detector resolves MIME types, extension table first, sniffer second
type Detector struct {
	sniffer Sniffer
}

// 🏭 NewDetector creates a detector with the default content sniffer
func NewDetector() *Detector {
	return &Detector{sniffer: &httpSniffer{}}
}

// 🏭 NewDetectorWithSniffer creates a detector with a custom sniffer.
// A nil sniffer disables content inspection entirely.
func NewDetectorWithSniffer(s Sniffer) *Detector {
	return &Detector{sniffer: s}
}

// 🔎 Detect returns the MIME type for path. Never fails: unknown or
// unreadable files come back as FallbackType.
func (d *Detector) Detect(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if typ, ok := extTypes[ext]; ok {
		return typ
	}
	if typ := mime.TypeByExtension(ext); typ != "" {
		return stripParams(typ)
	}
	if d.sniffer != nil {
		if typ, err := d.sniffer.Sniff(path); err == nil && typ != "" {
			return typ
		}
	}
	return FallbackType
}

// stripParams drops "; charset=..." suffixes from a media type.
func stripParams(typ string) string {
	if i := strings.IndexByte(typ, ';'); i >= 0 {
		return strings.TrimSpace(typ[:i])
	}
	return typ
}

// 👃 httpSniffer classifies content from the first 512 bytes, the same
// window http.DetectContentType is specified for
type httpSniffer struct{}

func (s *httpSniffer) Sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening file for sniffing: %w", err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", errors.Errorf("reading file for sniffing: %w", err)
	}

	return stripParams(http.DetectContentType(buf[:n])), nil
}

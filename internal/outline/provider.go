// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline extracts document outlines (tables of contents) from PDF
// and EPUB attachment files and turns them into chapter maps for annotation
// grouping. Every failure path yields a nil map; rendering then proceeds
// without chapter headings.
package outline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

const defaultMaxLevel = 2

// Provider resolves attachment files under the Zotero storage directory and
// extracts their chapter maps. It implements the render engine's
// ChapterMapProvider.
type Provider struct {
	// StorageDir is the Zotero storage root used for relative attachment
	// paths (<StorageDir>/<attachmentID>/<filename>).
	StorageDir string

	// MaxLevel is the deepest outline level to include. Zero means 2.
	MaxLevel int

	exec executor
}

// NewProvider builds a provider from configuration.
func NewProvider(cfg types.OutlineConfig) *Provider {
	return &Provider{
		StorageDir: cfg.StorageDir,
		MaxLevel:   cfg.MaxLevel,
		exec:       &osExecutor{},
	}
}

// ChapterMap extracts the chapter map for an attachment's file. Returns nil
// when the file cannot be located or parsed, or has no outline.
func (p *Provider) ChapterMap(att types.Attachment) []types.ChapterMapEntry {
	path := p.resolvePath(att)
	if path == "" {
		return nil
	}

	maxLevel := p.MaxLevel
	if maxLevel <= 0 {
		maxLevel = defaultMaxLevel
	}

	if att.IsEPUB() || strings.EqualFold(filepath.Ext(path), ".epub") {
		return epubChapterMap(path, maxLevel)
	}

	entries := pdfChapterMap(path, maxLevel)
	if entries == nil {
		entries = p.mutoolChapterMap(path, maxLevel)
	}
	return entries
}

// resolvePath locates the attachment file on disk. Absolute paths are used
// as-is; anything else resolves under the storage directory by attachment
// id and filename.
func (p *Provider) resolvePath(att types.Attachment) string {
	if att.Path != "" && filepath.IsAbs(att.Path) {
		if fileExists(att.Path) {
			return att.Path
		}
		return ""
	}

	filename := att.Filename
	if filename == "" && att.Path != "" {
		filename = filepath.Base(att.Path)
	}
	if p.StorageDir == "" || att.ID == "" || filename == "" {
		return ""
	}

	candidate := filepath.Join(p.StorageDir, att.ID, filename)
	if fileExists(candidate) {
		return candidate
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// dedupeConsecutive drops entries repeating the previous title. Outlines
// often carry one bookmark per column or sub-destination of the same
// heading.
func dedupeConsecutive(entries []types.ChapterMapEntry) []types.ChapterMapEntry {
	var out []types.ChapterMapEntry
	for _, e := range entries {
		if len(out) > 0 && out[len(out)-1].Title == e.Title {
			continue
		}
		out = append(out, e)
	}
	return out
}

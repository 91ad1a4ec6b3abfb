// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for collaborators that talk to the
// local Zotero services.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "annotation-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ZoteroConfig holds settings for the Zotero local API client.
type ZoteroConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the local API endpoint (default "http://localhost:23119").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// LibraryID selects the library scope: 1 is the personal library, any
	// other value is a group library.
	LibraryID int `json:"library_id" yaml:"library_id"`
}

// BBTConfig holds settings for the Better BibTeX JSON-RPC client.
type BBTConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the BBT endpoint root (default "http://127.0.0.1:23119").
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// OutlineConfig holds settings for chapter-map extraction from attachment
// files.
type OutlineConfig struct {
	// StorageDir is the Zotero storage root used to resolve relative
	// attachment paths (default "~/Zotero/storage").
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// MaxLevel is the deepest outline level included in chapter maps
	// (default 2).
	MaxLevel int `json:"max_level" yaml:"max_level"`

	// Disabled turns chapter grouping off entirely.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// OutputSyntax selects the rendered document syntax.
type OutputSyntax string

const (
	SyntaxOrg      OutputSyntax = "org"
	SyntaxMarkdown OutputSyntax = "markdown"
)

// RenderConfig holds settings for document rendering.
type RenderConfig struct {
	// Syntax selects the output syntax: org or markdown.
	Syntax OutputSyntax `json:"syntax" yaml:"syntax"`
}

// ExportConfig holds settings for batch export.
type ExportConfig struct {
	// OutputDir is the directory rendered documents are written to
	// (default "annotations").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// StateDir is the directory for the export-tracking database
	// (default OutputDir).
	StateDir string `json:"state_dir" yaml:"state_dir"`

	// Frontmatter adds a YAML metadata block to markdown exports.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter"`
}

// Config groups all component configurations.
type Config struct {
	Zotero  ZoteroConfig  `json:"zotero" yaml:"zotero"`
	BBT     BBTConfig     `json:"bbt" yaml:"bbt"`
	Outline OutlineConfig `json:"outline" yaml:"outline"`
	Render  RenderConfig  `json:"render" yaml:"render"`
	Export  ExportConfig  `json:"export" yaml:"export"`
}

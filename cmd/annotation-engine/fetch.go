// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/annotation-engine/internal/bbt"
	"github.com/pdiddy/annotation-engine/internal/outline"
	"github.com/pdiddy/annotation-engine/internal/render"
	"github.com/pdiddy/annotation-engine/internal/zotero"
	"github.com/pdiddy/annotation-engine/pkg/types"
)

// clients bundles the two local API clients. Better BibTeX availability is
// probed once per invocation; when the plugin is down every lookup goes
// straight to the native API.
type clients struct {
	zot   *zotero.Client
	bbt   *bbt.Client
	bbtUp bool
}

func newClients(ctx context.Context, cfg types.Config) *clients {
	zc := zotero.NewClient(cfg.Zotero)
	zc.Log = os.Stderr

	bc := bbt.NewClient(cfg.BBT)
	return &clients{zot: zc, bbt: bc, bbtUp: bc.Available(ctx)}
}

// fetchItem retrieves one item with all its annotations, Better BibTeX
// first with a fallback to the native API. Native items get their citation
// key resolved through a BibTeX export.
func (cl *clients) fetchItem(ctx context.Context, itemKey string) types.Item {
	if cl.bbtUp {
		item, err := cl.bbt.AnnotationsForItem(ctx, itemKey, cl.zot.LibraryID())
		if err == nil {
			return item
		}
		fmt.Fprintf(os.Stderr, "warning: Better BibTeX lookup for %s failed (%v), using Zotero API\n", itemKey, err)
	}

	item := cl.zot.AnnotationsForItem(ctx, itemKey)
	if item.Err == "" && item.CitationKey == "" {
		item.CitationKey = cl.citationKey(ctx, itemKey)
	}
	return item
}

// citationKey resolves the citation key for an item, returning "" when none
// can be found. Resolution failures are not fatal anywhere a citation key is
// used.
func (cl *clients) citationKey(ctx context.Context, itemKey string) string {
	if cl.bbtUp {
		if key, err := cl.bbt.CitationKey(ctx, itemKey, cl.zot.LibraryID()); err == nil && key != "" {
			return key
		}
	}
	key, err := cl.zot.CitationKey(ctx, itemKey)
	if err != nil {
		return ""
	}
	return key
}

// newAssembler builds the document assembler for the configured syntax.
// Chapter grouping is wired in unless disabled by config or flag.
func newAssembler(cfg types.Config, noChapters bool) *render.Assembler {
	as := &render.Assembler{
		Syntax:    render.ForSyntax(cfg.Render.Syntax),
		LibraryID: cfg.Zotero.LibraryID,
	}
	if !noChapters && !cfg.Outline.Disabled {
		as.Chapters = outline.NewProvider(cfg.Outline)
	}
	return as
}

// applyFormatFlag overrides the configured output syntax from the --format
// flag when set.
func applyFormatFlag(cfg *types.Config, format string) error {
	switch format {
	case "":
	case "org":
		cfg.Render.Syntax = types.SyntaxOrg
	case "markdown", "md":
		cfg.Render.Syntax = types.SyntaxMarkdown
	default:
		return fmt.Errorf("unknown format %q (want org or markdown)", format)
	}
	return nil
}

// writeDocument sends the rendered document to stdout or to a file. Status
// lines go to stderr so piped stdout stays clean.
func writeDocument(doc, path string, toStdout bool) error {
	if toStdout {
		fmt.Print(doc)
		return nil
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Annotations written to %s\n", path)
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

// Mode selects between the two block-rendering call sites. Compact blocks
// are used by per-item listings: empty note comments are skipped and
// fallback text is passed through raw. Full blocks are used by the
// chapter-aware document assembly: note comment blocks are always present
// and fallback text goes through Repair.
type Mode int

const (
	ModeCompact Mode = iota
	ModeFull
)

// BlockContext carries the per-document settings a block render needs.
type BlockContext struct {
	Syntax      Syntax
	Mode        Mode
	CitationKey string
}

// RenderBlock emits the self-contained text block for one annotation: link
// line, body, optional comment, optional citation marker, optional tags.
// A highlight or underline without text renders nothing at all. Unknown
// annotation types degrade to a generic link-plus-text block instead of
// failing.
func RenderBlock(a types.Annotation, uri, label string, ctx BlockContext) []string {
	linkLine := ctx.Syntax.Link(uri, label) + ":"

	switch a.Type {
	case types.AnnotationHighlight, types.AnnotationUnderline:
		return renderHighlight(a, linkLine, ctx)
	case types.AnnotationNote:
		return renderNote(a, linkLine, ctx)
	case types.AnnotationImage, types.AnnotationInk:
		return renderFigure(a, linkLine, label, ctx)
	default:
		return renderFallback(a, linkLine, ctx)
	}
}

func renderHighlight(a types.Annotation, linkLine string, ctx BlockContext) []string {
	text := Repair(a.Text)
	if text == "" {
		return nil
	}

	lines := []string{linkLine}
	lines = appendGap(lines, ctx)
	lines = append(lines, ctx.Syntax.QuoteBlock(text)...)

	if comment := Repair(a.Comment); comment != "" {
		lines = append(lines, "", comment)
	}

	if ctx.CitationKey != "" {
		page := a.PageLabel
		if page == "" {
			page = "?"
		}
		lines = append(lines, "", fmt.Sprintf("[cite:@%s, p.%s]", ctx.CitationKey, page))
	}

	return appendTags(lines, a, ctx)
}

func renderNote(a types.Annotation, linkLine string, ctx BlockContext) []string {
	lines := []string{linkLine}

	comment := Repair(a.Comment)
	if comment != "" || ctx.Mode == ModeFull {
		lines = appendGap(lines, ctx)
		lines = append(lines, ctx.Syntax.CommentBlock(comment)...)
	}

	return appendTags(lines, a, ctx)
}

func renderFigure(a types.Annotation, linkLine, label string, ctx BlockContext) []string {
	kind := "Image"
	if a.Type == types.AnnotationInk {
		kind = "Ink"
	}
	placeholder := fmt.Sprintf("[%s annotation on %s]", kind, label)

	lines := []string{linkLine}
	lines = appendGap(lines, ctx)
	lines = append(lines, ctx.Syntax.Placeholder(placeholder, ctx.Mode == ModeCompact)...)

	if comment := Repair(a.Comment); comment != "" {
		lines = append(lines, "", comment)
	}

	return appendTags(lines, a, ctx)
}

func renderFallback(a types.Annotation, linkLine string, ctx BlockContext) []string {
	text := a.Text
	if text == "" {
		text = a.Comment
	}
	if ctx.Mode == ModeFull {
		text = Repair(text)
	}

	lines := []string{linkLine}
	if text != "" {
		lines = appendGap(lines, ctx)
		lines = append(lines, text)
	}

	return appendTags(lines, a, ctx)
}

// appendGap inserts the blank line Markdown needs between a link line and
// the block that follows; org blocks attach directly.
func appendGap(lines []string, ctx BlockContext) []string {
	if ctx.Syntax.Name() == "markdown" {
		return append(lines, "")
	}
	return lines
}

func appendTags(lines []string, a types.Annotation, ctx BlockContext) []string {
	names := a.TagNames()
	if len(names) == 0 {
		return lines
	}
	tagLine := ctx.Syntax.Tags(names, ctx.Mode == ModeCompact)
	if ctx.Syntax.Name() == "markdown" {
		lines = append(lines, "")
	}
	return append(lines, tagLine)
}

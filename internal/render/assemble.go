// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strings"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

// ChapterMapProvider supplies the pre-fetched document outline for an
// attachment. A nil result means no headings are available and chapter
// grouping is skipped for that attachment.
type ChapterMapProvider interface {
	ChapterMap(att types.Attachment) []types.ChapterMapEntry
}

// Assembler builds complete documents from annotated items. It holds no
// mutable state across calls, so one Assembler may serve concurrent renders.
type Assembler struct {
	// Syntax selects the output syntax adapter.
	Syntax Syntax

	// LibraryID scopes the deep links (1 = personal library).
	LibraryID int

	// Chapters provides document outlines for chapter grouping. Nil
	// disables grouping entirely.
	Chapters ChapterMapProvider
}

// AssembleItem renders one item's annotations as a single document. An item
// carrying an error marker renders as a one-line error comment and nothing
// else.
func (as *Assembler) AssembleItem(item types.Item) string {
	if item.Err != "" {
		return errorLine(item.Err)
	}

	title := Repair(item.Title)
	if title == "" {
		title = "Unknown"
	}

	var out []string
	out = append(out, as.Syntax.ItemHeader(title, item.ItemType, item.ID, item.CitationKey)...)
	out = append(out, "")

	multi := len(item.Attachments) > 1
	baseDepth := 1
	if multi {
		baseDepth = 2
	}

	for _, att := range item.Attachments {
		if multi {
			attTitle := Repair(att.Title)
			if attTitle == "" {
				attTitle = att.Filename
			}
			out = append(out, as.Syntax.Heading(2, attTitle), "")
		}

		if len(att.Annotations) == 0 {
			out = append(out, "No annotations found.", "")
			continue
		}

		out = as.assembleAttachment(out, item, att, baseDepth)
	}

	return strings.Join(out, "\n")
}

func (as *Assembler) assembleAttachment(out []string, item types.Item, att types.Attachment, baseDepth int) []string {
	sorted := SortReadingOrder(att.Annotations)

	var chapterMap []types.ChapterMapEntry
	if as.Chapters != nil {
		chapterMap = as.Chapters.ChapterMap(att)
	}

	ctx := BlockContext{
		Syntax:      as.Syntax,
		Mode:        ModeFull,
		CitationKey: item.CitationKey,
	}

	// One heading stack per attachment: it remembers which heading is open
	// at each level so the loop emits a heading only when it changes.
	var stack HeadingStack

	for _, ann := range sorted {
		if chapterMap != nil {
			pos := EffectivePosition(ann)
			for _, ref := range ChaptersAt(chapterMap, pos) {
				if stack.Enter(ref.Title, ref.Level) {
					out = append(out, as.Syntax.Heading(baseDepth+ref.Level, ref.Title), "")
				}
			}
		}

		uri, label := BuildLink(att.ID, as.LibraryID, ann.Key, ann.PageLabel, att.ContentType)
		block := RenderBlock(ann, uri, label, ctx)
		if len(block) == 0 {
			continue
		}
		out = append(out, block...)
		out = append(out, "")
	}

	return out
}

// AssembleCollection renders every annotated item of a collection into one
// document, nesting each item's headings one level below the collection
// header.
func (as *Assembler) AssembleCollection(col types.Collection) string {
	if col.Err != "" {
		return errorLine(col.Err)
	}

	name := Repair(col.Name)
	if name == "" {
		name = "Unknown"
	}

	var out []string
	out = append(out, as.Syntax.CollectionHeader(name, col.ID, col.LibraryID, col.ItemsTotal, len(col.Items))...)
	out = append(out, "")

	if len(col.Items) == 0 {
		out = append(out, "No items with annotations found in this collection.", "")
		return strings.Join(out, "\n")
	}

	for _, item := range col.Items {
		doc := as.AssembleItem(item)
		for _, line := range strings.Split(doc, "\n") {
			out = append(out, as.Syntax.ShiftHeading(line))
		}
		out = append(out, "")
	}

	return strings.Join(out, "\n")
}

// errorLine renders the aggregate error marker. Both syntaxes use the same
// comment form.
func errorLine(msg string) string {
	return "# Error: " + msg + "\n"
}

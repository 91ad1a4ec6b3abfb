// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// AnnotationType identifies the kind of a Zotero annotation.
type AnnotationType string

const (
	AnnotationHighlight AnnotationType = "highlight"
	AnnotationUnderline AnnotationType = "underline"
	AnnotationNote      AnnotationType = "note"
	AnnotationImage     AnnotationType = "image"
	AnnotationInk       AnnotationType = "ink"
	AnnotationUnknown   AnnotationType = "unknown"
)

// Tag is a Zotero tag record ({"tag": "name"}).
type Tag struct {
	Tag string `json:"tag" yaml:"tag"`
}

// UnmarshalJSON accepts both the native API object form {"tag": "name"} and
// the bare string form Better BibTeX uses.
func (t *Tag) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.Tag)
	}
	var obj struct {
		Tag string `json:"tag"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	t.Tag = obj.Tag
	return nil
}

// Annotation is a read-only snapshot of one annotation record, fetched once
// per render request and never mutated. Every field except Type defaults to
// empty when absent.
type Annotation struct {
	// Key is the opaque stable identifier, unique within an attachment.
	Key string `json:"key" yaml:"key"`

	// Type is the annotation kind. Always present.
	Type AnnotationType `json:"annotation_type" yaml:"annotation_type"`

	// Text is the highlighted or underlined passage, when there is one.
	Text string `json:"annotation_text,omitempty" yaml:"annotation_text,omitempty"`

	// Comment is the reader's free-text note on the annotation.
	Comment string `json:"annotation_comment,omitempty" yaml:"annotation_comment,omitempty"`

	// Color is the hex highlight color (e.g. "#ffd400").
	Color string `json:"annotation_color,omitempty" yaml:"annotation_color,omitempty"`

	// PageLabel is the display page string: numeric, a chapter label, or an
	// EPUB spine index.
	PageLabel string `json:"annotation_page_label,omitempty" yaml:"annotation_page_label,omitempty"`

	// SortIndex is the composite positional string Zotero assigns for
	// fine-grained reading order (e.g. "00005|001000|00100").
	SortIndex string `json:"annotation_sort_index,omitempty" yaml:"annotation_sort_index,omitempty"`

	// Tags lists the tags attached to the annotation.
	Tags []Tag `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// TagNames returns the non-empty tag strings in order.
func (a Annotation) TagNames() []string {
	var names []string
	for _, t := range a.Tags {
		if t.Tag != "" {
			names = append(names, t.Tag)
		}
	}
	return names
}

// Content types that select the link-addressing scheme.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeEPUB = "application/epub+zip"
)

// Attachment is one file attachment of an item together with its annotations
// in fetch order.
type Attachment struct {
	// ID is the Zotero key of the attachment item.
	ID string `json:"attachment_id" yaml:"attachment_id"`

	// Title is the attachment's display title.
	Title string `json:"attachment_title" yaml:"attachment_title"`

	// Filename is the stored file name (e.g. "paper.pdf").
	Filename string `json:"filename" yaml:"filename"`

	// Path is the resolved filesystem path when known, otherwise empty.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// ContentType drives the link scheme (PDF vs EPUB).
	ContentType string `json:"content_type" yaml:"content_type"`

	// Annotations holds the raw annotation records.
	Annotations []Annotation `json:"annotations" yaml:"annotations"`
}

// IsEPUB reports whether the attachment uses EPUB addressing.
func (a Attachment) IsEPUB() bool {
	return a.ContentType == ContentTypeEPUB
}

// Item aggregates everything needed to render one document: item metadata,
// its file attachments, and an optional citation key. Err carries the
// aggregate error marker when an upstream lookup failed; the renderer checks
// it before anything else.
type Item struct {
	ID          string       `json:"item_id" yaml:"item_id"`
	Title       string       `json:"item_title" yaml:"item_title"`
	ItemType    string       `json:"item_type" yaml:"item_type"`
	CitationKey string       `json:"citation_key,omitempty" yaml:"citation_key,omitempty"`
	Attachments []Attachment `json:"attachments" yaml:"attachments"`
	Err         string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// AnnotationCount returns the total number of annotations across attachments.
func (i Item) AnnotationCount() int {
	n := 0
	for _, att := range i.Attachments {
		n += len(att.Annotations)
	}
	return n
}

// Collection aggregates the annotated items of one Zotero collection.
type Collection struct {
	ID        string `json:"collection_id" yaml:"collection_id"`
	Name      string `json:"collection_name" yaml:"collection_name"`
	LibraryID int    `json:"library_id" yaml:"library_id"`
	// ItemsTotal counts all top-level items in the collection, including
	// those without annotations.
	ItemsTotal int    `json:"items_total" yaml:"items_total"`
	Items      []Item `json:"items" yaml:"items"`
	Err        string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ChapterMapEntry is one heading of a document outline. The map an engine
// receives is already ordered ascending by position; the engine never sorts
// it.
type ChapterMapEntry struct {
	// Title is the heading text.
	Title string `json:"title" yaml:"title"`

	// PositionLabel is the heading's position: numeric-as-string for PDF
	// page numbers and zero-padded spine indices for EPUB, or an exact
	// non-numeric label (e.g. roman numerals).
	PositionLabel string `json:"position_label" yaml:"position_label"`

	// Level is the nesting depth, 1 = top.
	Level int `json:"level" yaml:"level"`
}

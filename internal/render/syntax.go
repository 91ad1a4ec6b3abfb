// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

// Syntax abstracts the differences between the two output syntaxes: block
// delimiters, link and heading markup, and tag decoration. Keeping both
// formats behind one interface stops them drifting apart.
type Syntax interface {
	// Name returns the syntax identifier ("org" or "markdown").
	Name() string

	// FileExt returns the conventional file extension without a dot.
	FileExt() string

	// Link formats a deep link with a display label.
	Link(uri, label string) string

	// Heading formats a heading line at the given depth (1 = top).
	Heading(depth int, title string) string

	// QuoteBlock formats highlighted text as a block quotation.
	QuoteBlock(text string) []string

	// CommentBlock formats a reader's note as a comment-styled block.
	CommentBlock(text string) []string

	// Placeholder formats the fixed marker line for image and ink
	// annotations. Compact call sites use the lighter decoration.
	Placeholder(text string, compact bool) []string

	// Tags formats a tag line. Decorations guarantee that no raw
	// whitespace or colon survives inside a tag token.
	Tags(names []string, compact bool) string

	// ItemHeader formats the document title plus its metadata block.
	ItemHeader(title, itemType, itemID, citationKey string) []string

	// CollectionHeader formats the top-level header of a collection
	// document. A zero libraryID means the personal library and is
	// omitted.
	CollectionHeader(name, id string, libraryID, totalItems, annotatedItems int) []string

	// ShiftHeading pushes a heading line one level deeper, leaving
	// non-heading lines alone. Used when nesting item documents inside a
	// collection document.
	ShiftHeading(line string) string
}

// ForSyntax returns the adapter for an output syntax, defaulting to org.
func ForSyntax(s types.OutputSyntax) Syntax {
	if s == types.SyntaxMarkdown {
		return Markdown
	}
	return Org
}

// Org renders org-mode. Markdown renders CommonMark-flavored Markdown.
var (
	Org      Syntax = orgSyntax{}
	Markdown Syntax = markdownSyntax{}
)

type orgSyntax struct{}

func (orgSyntax) Name() string    { return "org" }
func (orgSyntax) FileExt() string { return "org" }

func (orgSyntax) Link(uri, label string) string {
	return fmt.Sprintf("[[%s][%s]]", uri, label)
}

func (orgSyntax) Heading(depth int, title string) string {
	return strings.Repeat("*", depth) + " " + title
}

func (orgSyntax) QuoteBlock(text string) []string {
	return []string{"#+begin_quote", text, "#+end_quote"}
}

func (orgSyntax) CommentBlock(text string) []string {
	return []string{"#+begin_comment", text, "#+end_comment"}
}

func (orgSyntax) Placeholder(text string, _ bool) []string {
	return []string{"#+begin_example", text, "#+end_example"}
}

func (orgSyntax) Tags(names []string, _ bool) string {
	tokens := make([]string, 0, len(names))
	for _, n := range names {
		tokens = append(tokens, orgTagToken(n))
	}
	return ":" + strings.Join(tokens, ":") + ":"
}

// orgTagToken keeps a tag parseable as an org tag: spaces become
// underscores and colons become hyphens.
func orgTagToken(name string) string {
	name = strings.Join(strings.Fields(name), "_")
	return strings.ReplaceAll(name, ":", "-")
}

func (orgSyntax) ItemHeader(title, itemType, itemID, citationKey string) []string {
	lines := []string{
		"* " + title,
		"  :PROPERTIES:",
		"  :ITEM_TYPE: " + itemType,
		"  :ZOTERO_KEY: " + itemID,
	}
	if citationKey != "" {
		lines = append(lines, "  :CUSTOM_ID: "+citationKey)
	}
	return append(lines, "  :END:")
}

func (orgSyntax) CollectionHeader(name, id string, libraryID, totalItems, annotatedItems int) []string {
	lines := []string{
		"* Collection: " + name,
		"  :PROPERTIES:",
		"  :COLLECTION_ID: " + id,
	}
	if libraryID != 0 {
		lines = append(lines, fmt.Sprintf("  :LIBRARY_ID: %d", libraryID))
	}
	lines = append(lines,
		fmt.Sprintf("  :TOTAL_ITEMS: %d", totalItems),
		fmt.Sprintf("  :ITEMS_WITH_ANNOTATIONS: %d", annotatedItems),
		"  :END:",
	)
	return lines
}

func (orgSyntax) ShiftHeading(line string) string {
	if strings.HasPrefix(line, "*") {
		return "*" + line
	}
	return line
}

type markdownSyntax struct{}

func (markdownSyntax) Name() string    { return "markdown" }
func (markdownSyntax) FileExt() string { return "md" }

func (markdownSyntax) Link(uri, label string) string {
	return fmt.Sprintf("[%s](%s)", label, uri)
}

func (markdownSyntax) Heading(depth int, title string) string {
	return strings.Repeat("#", depth) + " " + title
}

func (markdownSyntax) QuoteBlock(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return lines
}

func (markdownSyntax) CommentBlock(text string) []string {
	return []string{"*" + text + "*"}
}

func (markdownSyntax) Placeholder(text string, compact bool) []string {
	if compact {
		return []string{"`" + text + "`"}
	}
	return []string{"*" + text + "*"}
}

func (markdownSyntax) Tags(names []string, compact bool) string {
	tokens := make([]string, 0, len(names))
	for _, n := range names {
		tokens = append(tokens, markdownTagToken(n))
	}
	if compact {
		for i, t := range tokens {
			tokens[i] = "#" + t
		}
		return strings.Join(tokens, " ")
	}
	for i, t := range tokens {
		tokens[i] = "`" + t + "`"
	}
	return "Tags: " + strings.Join(tokens, ", ")
}

// markdownTagToken hyphenates whitespace and colons so a tag stays one token.
func markdownTagToken(name string) string {
	name = strings.Join(strings.Fields(name), "-")
	return strings.ReplaceAll(name, ":", "-")
}

func (markdownSyntax) ItemHeader(title, itemType, itemID, citationKey string) []string {
	lines := []string{
		"# " + title,
		"",
		"**Item Type:** " + itemType,
		"**Zotero Key:** " + itemID,
	}
	if citationKey != "" {
		lines = append(lines, "**Citation Key:** "+citationKey)
	}
	return lines
}

func (markdownSyntax) CollectionHeader(name, id string, libraryID, totalItems, annotatedItems int) []string {
	lines := []string{
		"# Collection: " + name,
		"",
		"**Collection ID:** " + id,
	}
	if libraryID != 0 {
		lines = append(lines, fmt.Sprintf("**Library ID:** %d", libraryID))
	}
	return append(lines,
		fmt.Sprintf("**Total Items:** %d", totalItems),
		fmt.Sprintf("**Items with Annotations:** %d", annotatedItems),
	)
}

func (markdownSyntax) ShiftHeading(line string) string {
	if strings.HasPrefix(line, "#") {
		return "#" + line
	}
	return line
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strconv"
	"strings"
)

// personalLibraryID is the Better BibTeX convention for the personal library.
const personalLibraryID = 1

// libraryPath returns the URI path segment for a library scope: the personal
// library maps to "library", any group maps to "groups/{id}".
func libraryPath(libraryID int) string {
	if libraryID == personalLibraryID || libraryID == 0 {
		return "library"
	}
	return fmt.Sprintf("groups/%d", libraryID)
}

// BuildLink constructs the zotero:// URI addressing one annotation inside an
// attachment, plus a human-readable label for the link text.
//
// EPUB attachments use the open-epub scheme: the location (chapter name or
// EPUBCFI) becomes the display label verbatim, defaulting to "Location" when
// empty, and no page parameter is ever emitted. Everything else uses
// open-pdf with a numeric page parameter, defaulting to page 1 when the
// label does not parse.
func BuildLink(attachmentID string, libraryID int, annotationKey, pageOrLocation, contentType string) (uri, label string) {
	if contentType == "application/epub+zip" {
		uri = fmt.Sprintf("zotero://open-epub/%s/items/%s", libraryPath(libraryID), attachmentID)
		if annotationKey != "" {
			uri += "?annotation=" + annotationKey
		}
		label = pageOrLocation
		if label == "" {
			label = "Location"
		}
		return uri, label
	}

	page, err := strconv.Atoi(strings.TrimSpace(pageOrLocation))
	if err != nil || page < 1 {
		page = 1
	}

	uri = fmt.Sprintf("zotero://open-pdf/%s/items/%s?page=%d", libraryPath(libraryID), attachmentID, page)
	if annotationKey != "" {
		uri += "&annotation=" + annotationKey
	}
	return uri, fmt.Sprintf("Page %d", page)
}

// BuildOpenPDFLink builds the personal-library open-pdf link with
// independently optional page and annotation parameters. With both empty the
// link carries no query string at all.
func BuildOpenPDFLink(attachmentID, pageLabel, annotationKey string) string {
	link := "zotero://open-pdf/library/items/" + attachmentID

	var params []string
	if pageLabel != "" {
		params = append(params, "page="+pageLabel)
	}
	if annotationKey != "" {
		params = append(params, "annotation="+annotationKey)
	}
	if len(params) > 0 {
		link += "?" + strings.Join(params, "&")
	}
	return link
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"context"
	"fmt"
	"regexp"

	"github.com/pdiddy/annotation-engine/internal/httputil"
)

// citeKeyRe extracts the citation key from the head of a BibTeX entry,
// e.g. "@book{smith2020," yields "smith2020".
var citeKeyRe = regexp.MustCompile(`@\w+\s*\{\s*([^,\s]+)\s*,`)

// ItemBibTeX exports a single item as BibTeX text.
func (c *Client) ItemBibTeX(ctx context.Context, itemKey string) (string, error) {
	url := c.url(c.libraryPrefix() + "/items/" + itemKey + "?format=bibtex")
	text, err := httputil.GetText(ctx, c.http, url, c.userAgent)
	if err != nil {
		return "", fmt.Errorf("exporting BibTeX for %s: %w", itemKey, err)
	}
	return text, nil
}

// CitationKey derives an item's citation key by exporting it as BibTeX and
// parsing the entry head. Returns the empty string when the item has no
// usable BibTeX representation.
func (c *Client) CitationKey(ctx context.Context, itemKey string) (string, error) {
	bibtex, err := c.ItemBibTeX(ctx, itemKey)
	if err != nil {
		return "", err
	}

	m := citeKeyRe.FindStringSubmatch(bibtex)
	if m == nil {
		return "", nil
	}
	return m[1], nil
}

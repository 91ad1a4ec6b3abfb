// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/pdiddy/annotation-engine/internal/render"
)

// Metadata is the bibliographic summary of an item, shaped for YAML
// frontmatter of exported markdown documents. Author holds a single string
// for one creator and a string slice otherwise.
type Metadata struct {
	Title       string `yaml:"title"`
	ZoteroKey   string `yaml:"zotero_key"`
	ItemType    string `yaml:"item_type"`
	Author      any    `yaml:"author,omitempty"`
	Year        int    `yaml:"year,omitempty"`
	CitationKey string `yaml:"citation_key,omitempty"`
	Publication string `yaml:"publication,omitempty"`
	Volume      string `yaml:"volume,omitempty"`
	Issue       string `yaml:"issue,omitempty"`
	Pages       string `yaml:"pages,omitempty"`
	DOI         string `yaml:"doi,omitempty"`
	URL         string `yaml:"url,omitempty"`
}

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Metadata fetches the bibliographic metadata of an item, including its
// citation key.
func (c *Client) Metadata(ctx context.Context, itemKey string) (Metadata, error) {
	it, err := c.item(ctx, itemKey)
	if err != nil {
		return Metadata{}, fmt.Errorf("fetching item %s: %w", itemKey, err)
	}

	title := render.Repair(it.Data.Title)
	if title == "" {
		title = "Unknown Title"
	}

	meta := Metadata{
		Title:       title,
		ZoteroKey:   itemKey,
		ItemType:    it.Data.ItemType,
		Publication: render.Repair(it.Data.PublicationTitle),
		Volume:      it.Data.Volume,
		Issue:       it.Data.Issue,
		Pages:       it.Data.Pages,
		DOI:         it.Data.DOI,
		URL:         it.Data.URL,
	}

	var authors []string
	for _, creator := range it.Data.Creators {
		switch creator.CreatorType {
		case "author", "editor":
		default:
			continue
		}
		switch {
		case creator.FirstName != "" && creator.LastName != "":
			authors = append(authors, creator.FirstName+" "+creator.LastName)
		case creator.LastName != "":
			authors = append(authors, creator.LastName)
		case creator.Name != "":
			// Organization name.
			authors = append(authors, creator.Name)
		}
	}
	switch len(authors) {
	case 0:
	case 1:
		meta.Author = authors[0]
	default:
		meta.Author = authors
	}

	if m := yearRe.FindString(it.Data.Date); m != "" {
		if year, err := strconv.Atoi(m); err == nil {
			meta.Year = year
		}
	}

	if key, err := c.CitationKey(ctx, itemKey); err == nil {
		meta.CitationKey = key
	}

	return meta, nil
}

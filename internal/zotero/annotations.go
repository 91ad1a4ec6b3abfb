// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"context"
	"fmt"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

// AnnotationsForItem aggregates an item with all annotations from its PDF
// and EPUB attachments. Lookup failures do not return an error; they are
// recorded in the Err field so the renderer emits the error marker instead
// of a document.
func (c *Client) AnnotationsForItem(ctx context.Context, itemKey string) types.Item {
	it, err := c.item(ctx, itemKey)
	if err != nil {
		return types.Item{ID: itemKey, Err: fmt.Sprintf("Item %s not found", itemKey)}
	}

	result := types.Item{
		ID:       itemKey,
		Title:    it.Data.Title,
		ItemType: it.Data.ItemType,
	}

	atts, err := c.FileAttachments(ctx, itemKey)
	if err != nil {
		c.warnf("listing attachments of %s: %v", itemKey, err)
		return result
	}

	for _, att := range atts {
		anns, err := c.AttachmentAnnotations(ctx, att.ID)
		if err != nil {
			c.warnf("fetching annotations of %s: %v", att.ID, err)
		}
		att.Annotations = anns
		result.Attachments = append(result.Attachments, att)
	}
	return result
}

// CollectionAnnotations aggregates every annotated top-level item of a
// collection. Items without annotations are omitted; child items
// (attachments, notes, annotations) are never treated as collection
// members. A failed collection lookup is recorded in Err.
func (c *Client) CollectionAnnotations(ctx context.Context, collectionKey string) types.Collection {
	info, err := c.collectionInfo(ctx, collectionKey)
	if err != nil {
		return types.Collection{ID: collectionKey, Err: fmt.Sprintf("Collection %s not found", collectionKey)}
	}

	result := types.Collection{
		ID:        collectionKey,
		Name:      info.Data.Name,
		LibraryID: c.libraryID,
	}

	members, err := c.collectionItems(ctx, collectionKey, 1000)
	if err != nil {
		c.warnf("listing items of collection %s: %v", collectionKey, err)
		return result
	}
	result.ItemsTotal = len(members)

	for _, member := range members {
		switch member.Data.ItemType {
		case "attachment", "note", "annotation":
			continue
		}

		item := c.AnnotationsForItem(ctx, member.key())
		if item.Err != "" || item.AnnotationCount() == 0 {
			continue
		}
		result.Items = append(result.Items, item)
	}
	return result
}

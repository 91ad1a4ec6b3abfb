// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zotero implements a client for the Zotero local HTTP API. It
// fetches items, attachments, annotations and collections and aggregates
// them into the shapes the render engine consumes.
package zotero

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/annotation-engine/internal/httputil"
	"github.com/pdiddy/annotation-engine/pkg/types"
)

const defaultBaseURL = "http://localhost:23119"

// Client talks to the Zotero local API. The zero LibraryID and id 1 both
// address the personal library; any other id addresses a group library.
type Client struct {
	// Log receives warning lines for partial failures during aggregation.
	// Nil discards them.
	Log io.Writer

	baseURL   string
	http      *http.Client
	userAgent string
	libraryID int
}

// NewClient builds a client from configuration, applying defaults for the
// base URL and timeout.
func NewClient(cfg types.ZoteroConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(base, "/"),
		http:      &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		libraryID: cfg.LibraryID,
	}
}

// LibraryID returns the configured library scope.
func (c *Client) LibraryID() int { return c.libraryID }

// libraryPrefix maps the library scope onto the local API path space. The
// local API addresses the personal library as user 0.
func (c *Client) libraryPrefix() string {
	if c.libraryID <= 1 {
		return "/api/users/0"
	}
	return fmt.Sprintf("/api/groups/%d", c.libraryID)
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	return httputil.GetJSON(ctx, c.http, c.url(path), c.userAgent, v)
}

func (c *Client) warnf(format string, args ...any) {
	if c.Log != nil {
		fmt.Fprintf(c.Log, "warning: "+format+"\n", args...)
	}
}

// wireItem is the local API item envelope. Item fields live under "data";
// the top-level key duplicates data.key.
type wireItem struct {
	Key  string   `json:"key"`
	Data wireData `json:"data"`
}

type wireData struct {
	Key        string `json:"key"`
	ItemType   string `json:"itemType"`
	Title      string `json:"title"`
	ParentItem string `json:"parentItem"`

	// Attachment fields.
	ContentType string `json:"contentType"`
	Filename    string `json:"filename"`
	Path        string `json:"path"`

	// Annotation fields.
	AnnotationType      string      `json:"annotationType"`
	AnnotationText      string      `json:"annotationText"`
	AnnotationComment   string      `json:"annotationComment"`
	AnnotationColor     string      `json:"annotationColor"`
	AnnotationPageLabel string      `json:"annotationPageLabel"`
	AnnotationSortIndex string      `json:"annotationSortIndex"`
	Tags                []types.Tag `json:"tags"`

	// Bibliographic fields used for export metadata.
	Creators         []wireCreator `json:"creators"`
	Date             string        `json:"date"`
	PublicationTitle string        `json:"publicationTitle"`
	Volume           string        `json:"volume"`
	Issue            string        `json:"issue"`
	Pages            string        `json:"pages"`
	DOI              string        `json:"DOI"`
	URL              string        `json:"url"`
}

type wireCreator struct {
	CreatorType string `json:"creatorType"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Name        string `json:"name"`
}

func (w wireItem) key() string {
	if w.Data.Key != "" {
		return w.Data.Key
	}
	return w.Key
}

// item fetches a single item.
func (c *Client) item(ctx context.Context, itemKey string) (wireItem, error) {
	var it wireItem
	err := c.getJSON(ctx, c.libraryPrefix()+"/items/"+itemKey, &it)
	return it, err
}

// children fetches all child items of an item (attachments, notes,
// annotations).
func (c *Client) children(ctx context.Context, itemKey string) ([]wireItem, error) {
	var kids []wireItem
	if err := c.getJSON(ctx, c.libraryPrefix()+"/items/"+itemKey+"/children", &kids); err != nil {
		return nil, err
	}
	return kids, nil
}

// fileContentTypes are the attachment content types the engine renders.
var fileContentTypes = map[string]bool{
	types.ContentTypePDF:  true,
	types.ContentTypeEPUB: true,
}

// FileAttachments returns the item's PDF and EPUB attachments, without
// their annotations.
func (c *Client) FileAttachments(ctx context.Context, itemKey string) ([]types.Attachment, error) {
	kids, err := c.children(ctx, itemKey)
	if err != nil {
		return nil, fmt.Errorf("fetching children of %s: %w", itemKey, err)
	}

	var atts []types.Attachment
	for _, kid := range kids {
		if kid.Data.ItemType != "attachment" || !fileContentTypes[kid.Data.ContentType] {
			continue
		}
		atts = append(atts, types.Attachment{
			ID:          kid.key(),
			Title:       kid.Data.Title,
			Filename:    kid.Data.Filename,
			Path:        kid.Data.Path,
			ContentType: kid.Data.ContentType,
		})
	}
	return atts, nil
}

// AttachmentAnnotations returns all annotations of an attachment in API
// order. Annotations normally appear as children of the attachment; some
// library configurations only expose them as top-level annotation items, so
// an empty child list falls back to scanning those for a matching parent.
func (c *Client) AttachmentAnnotations(ctx context.Context, attachmentID string) ([]types.Annotation, error) {
	kids, err := c.children(ctx, attachmentID)
	if err != nil {
		return nil, fmt.Errorf("fetching annotations of %s: %w", attachmentID, err)
	}

	var anns []types.Annotation
	for _, kid := range kids {
		if kid.Data.ItemType == "annotation" {
			anns = append(anns, toAnnotation(kid))
		}
	}
	if len(anns) > 0 {
		return anns, nil
	}

	all, err := c.items(ctx, 1000, "annotation")
	if err != nil {
		return nil, fmt.Errorf("scanning annotation items: %w", err)
	}
	for _, it := range all {
		if it.Data.ParentItem == attachmentID {
			anns = append(anns, toAnnotation(it))
		}
	}
	return anns, nil
}

func toAnnotation(it wireItem) types.Annotation {
	annType := types.AnnotationType(it.Data.AnnotationType)
	if annType == "" {
		annType = types.AnnotationUnknown
	}
	return types.Annotation{
		Key:       it.key(),
		Type:      annType,
		Text:      it.Data.AnnotationText,
		Comment:   it.Data.AnnotationComment,
		Color:     it.Data.AnnotationColor,
		PageLabel: it.Data.AnnotationPageLabel,
		SortIndex: it.Data.AnnotationSortIndex,
		Tags:      it.Data.Tags,
	}
}

// items fetches library items, optionally filtered by item type.
func (c *Client) items(ctx context.Context, limit int, itemType string) ([]wireItem, error) {
	path := fmt.Sprintf("%s/items?limit=%d", c.libraryPrefix(), limit)
	if itemType != "" {
		path += "&itemType=" + itemType
	}
	var items []wireItem
	if err := c.getJSON(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ItemSummary is one row of an item listing.
type ItemSummary struct {
	Key      string
	Title    string
	ItemType string
}

// TopLevelItems lists top-level items of the library, excluding child items
// like attachments and notes.
func (c *Client) TopLevelItems(ctx context.Context, limit int) ([]ItemSummary, error) {
	path := fmt.Sprintf("%s/items?limit=%d&top=1", c.libraryPrefix(), limit)
	var items []wireItem
	if err := c.getJSON(ctx, path, &items); err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	summaries := make([]ItemSummary, 0, len(items))
	for _, it := range items {
		summaries = append(summaries, ItemSummary{
			Key:      it.key(),
			Title:    it.Data.Title,
			ItemType: it.Data.ItemType,
		})
	}
	return summaries, nil
}

// CollectionSummary is one row of a collection listing.
type CollectionSummary struct {
	Key      string
	Name     string
	ParentID string
}

type wireCollection struct {
	Key  string `json:"key"`
	Data struct {
		Key              string `json:"key"`
		Name             string `json:"name"`
		ParentCollection any    `json:"parentCollection"`
	} `json:"data"`
}

func (w wireCollection) key() string {
	if w.Data.Key != "" {
		return w.Data.Key
	}
	return w.Key
}

// parentID normalizes the parentCollection field, which the API reports as
// false for top-level collections and as a key string otherwise.
func (w wireCollection) parentID() string {
	if s, ok := w.Data.ParentCollection.(string); ok {
		return s
	}
	return ""
}

// Collections lists all collections of the library.
func (c *Client) Collections(ctx context.Context) ([]CollectionSummary, error) {
	var cols []wireCollection
	if err := c.getJSON(ctx, c.libraryPrefix()+"/collections", &cols); err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	summaries := make([]CollectionSummary, 0, len(cols))
	for _, col := range cols {
		summaries = append(summaries, CollectionSummary{
			Key:      col.key(),
			Name:     col.Data.Name,
			ParentID: col.parentID(),
		})
	}
	return summaries, nil
}

func (c *Client) collectionInfo(ctx context.Context, collectionKey string) (wireCollection, error) {
	var col wireCollection
	err := c.getJSON(ctx, c.libraryPrefix()+"/collections/"+collectionKey, &col)
	return col, err
}

func (c *Client) collectionItems(ctx context.Context, collectionKey string, limit int) ([]wireItem, error) {
	path := fmt.Sprintf("%s/collections/%s/items?limit=%d", c.libraryPrefix(), collectionKey, limit)
	var items []wireItem
	if err := c.getJSON(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Group is one Zotero group library the local client knows about.
type Group struct {
	ID   int
	Name string
}

type wireGroup struct {
	ID   int `json:"id"`
	Data struct {
		Name string `json:"name"`
	} `json:"data"`
}

// Groups lists the group libraries available through the local API.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var groups []wireGroup
	if err := c.getJSON(ctx, "/api/users/0/groups", &groups); err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, Group{ID: g.ID, Name: g.Data.Name})
	}
	return out, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zotero

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

// newTestClient wires a client against a fake local API.
func newTestClient(t *testing.T, libraryID int, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(types.ZoteroConfig{
		BaseURL:   ts.URL,
		LibraryID: libraryID,
	})
}

func jsonHandler(routes map[string]string) http.Handler {
	mux := http.NewServeMux()
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		})
	}
	return mux
}

func TestFileAttachmentsFiltersContentTypes(t *testing.T) {
	c := newTestClient(t, 1, jsonHandler(map[string]string{
		"/api/users/0/items/ITEM01/children": `[
			{"key":"ATT001","data":{"key":"ATT001","itemType":"attachment","contentType":"application/pdf","title":"Full Text PDF","filename":"paper.pdf"}},
			{"key":"ATT002","data":{"key":"ATT002","itemType":"attachment","contentType":"application/epub+zip","filename":"book.epub"}},
			{"key":"ATT003","data":{"key":"ATT003","itemType":"attachment","contentType":"text/html","title":"Snapshot"}},
			{"key":"NOTE01","data":{"key":"NOTE01","itemType":"note"}}
		]`,
	}))

	atts, err := c.FileAttachments(context.Background(), "ITEM01")
	if err != nil {
		t.Fatalf("FileAttachments: %v", err)
	}
	if len(atts) != 2 {
		t.Fatalf("want 2 file attachments, got %d: %+v", len(atts), atts)
	}
	if atts[0].ID != "ATT001" || atts[0].ContentType != types.ContentTypePDF {
		t.Errorf("first attachment = %+v", atts[0])
	}
	if atts[1].ID != "ATT002" || !atts[1].IsEPUB() {
		t.Errorf("second attachment = %+v", atts[1])
	}
}

func TestAttachmentAnnotationsFromChildren(t *testing.T) {
	c := newTestClient(t, 1, jsonHandler(map[string]string{
		"/api/users/0/items/ATT001/children": `[
			{"key":"ANN001","data":{"key":"ANN001","itemType":"annotation","annotationType":"highlight","annotationText":"quoted","annotationPageLabel":"5","annotationSortIndex":"00004|001234|00100","tags":[{"tag":"keep"}]}},
			{"key":"NOTE01","data":{"key":"NOTE01","itemType":"note"}}
		]`,
	}))

	anns, err := c.AttachmentAnnotations(context.Background(), "ATT001")
	if err != nil {
		t.Fatalf("AttachmentAnnotations: %v", err)
	}
	if len(anns) != 1 {
		t.Fatalf("want 1 annotation, got %d", len(anns))
	}
	ann := anns[0]
	if ann.Key != "ANN001" || ann.Type != types.AnnotationHighlight {
		t.Errorf("annotation = %+v", ann)
	}
	if ann.Text != "quoted" || ann.PageLabel != "5" || ann.SortIndex != "00004|001234|00100" {
		t.Errorf("annotation fields = %+v", ann)
	}
	if len(ann.Tags) != 1 || ann.Tags[0].Tag != "keep" {
		t.Errorf("annotation tags = %+v", ann.Tags)
	}
}

func TestAttachmentAnnotationsParentFallback(t *testing.T) {
	c := newTestClient(t, 1, jsonHandler(map[string]string{
		// No annotation children for the attachment.
		"/api/users/0/items/ATT001/children": `[]`,
		"/api/users/0/items": `[
			{"key":"ANN001","data":{"key":"ANN001","itemType":"annotation","parentItem":"ATT001","annotationType":"note","annotationComment":"orphaned"}},
			{"key":"ANN002","data":{"key":"ANN002","itemType":"annotation","parentItem":"OTHER","annotationType":"note"}}
		]`,
	}))

	anns, err := c.AttachmentAnnotations(context.Background(), "ATT001")
	if err != nil {
		t.Fatalf("AttachmentAnnotations: %v", err)
	}
	if len(anns) != 1 || anns[0].Key != "ANN001" || anns[0].Comment != "orphaned" {
		t.Errorf("fallback annotations = %+v", anns)
	}
}

func TestAttachmentAnnotationsUnknownType(t *testing.T) {
	c := newTestClient(t, 1, jsonHandler(map[string]string{
		"/api/users/0/items/ATT001/children": `[
			{"key":"ANN001","data":{"key":"ANN001","itemType":"annotation"}}
		]`,
	}))

	anns, err := c.AttachmentAnnotations(context.Background(), "ATT001")
	if err != nil {
		t.Fatalf("AttachmentAnnotations: %v", err)
	}
	if len(anns) != 1 || anns[0].Type != types.AnnotationUnknown {
		t.Errorf("missing type should normalize to unknown, got %+v", anns)
	}
}

func TestAnnotationsForItem(t *testing.T) {
	c := newTestClient(t, 1, jsonHandler(map[string]string{
		"/api/users/0/items/ITEM01": `{"key":"ITEM01","data":{"key":"ITEM01","itemType":"book","title":"Deep Work"}}`,
		"/api/users/0/items/ITEM01/children": `[
			{"key":"ATT001","data":{"key":"ATT001","itemType":"attachment","contentType":"application/pdf","title":"PDF","filename":"dw.pdf"}}
		]`,
		"/api/users/0/items/ATT001/children": `[
			{"key":"ANN001","data":{"key":"ANN001","itemType":"annotation","annotationType":"highlight","annotationText":"focus"}}
		]`,
	}))

	item := c.AnnotationsForItem(context.Background(), "ITEM01")
	if item.Err != "" {
		t.Fatalf("unexpected error marker: %q", item.Err)
	}
	if item.Title != "Deep Work" || item.ItemType != "book" {
		t.Errorf("item = %+v", item)
	}
	if item.AnnotationCount() != 1 {
		t.Errorf("annotation count = %d", item.AnnotationCount())
	}
}

func TestAnnotationsForItemNotFound(t *testing.T) {
	c := newTestClient(t, 1, http.NotFoundHandler())

	item := c.AnnotationsForItem(context.Background(), "MISSING")
	if item.Err != "Item MISSING not found" {
		t.Errorf("error marker = %q", item.Err)
	}
}

func TestCollectionAnnotations(t *testing.T) {
	c := newTestClient(t, 1, jsonHandler(map[string]string{
		"/api/users/0/collections/COL001": `{"key":"COL001","data":{"key":"COL001","name":"Reading List","parentCollection":false}}`,
		"/api/users/0/collections/COL001/items": `[
			{"key":"ITEM01","data":{"key":"ITEM01","itemType":"book","title":"Annotated"}},
			{"key":"ITEM02","data":{"key":"ITEM02","itemType":"book","title":"Unannotated"}},
			{"key":"ATT009","data":{"key":"ATT009","itemType":"attachment","contentType":"application/pdf"}}
		]`,
		"/api/users/0/items/ITEM01": `{"key":"ITEM01","data":{"key":"ITEM01","itemType":"book","title":"Annotated"}}`,
		"/api/users/0/items/ITEM01/children": `[
			{"key":"ATT001","data":{"key":"ATT001","itemType":"attachment","contentType":"application/pdf"}}
		]`,
		"/api/users/0/items/ATT001/children": `[
			{"key":"ANN001","data":{"key":"ANN001","itemType":"annotation","annotationType":"highlight","annotationText":"x"}}
		]`,
		"/api/users/0/items/ITEM02":          `{"key":"ITEM02","data":{"key":"ITEM02","itemType":"book","title":"Unannotated"}}`,
		"/api/users/0/items/ITEM02/children": `[]`,
	}))

	col := c.CollectionAnnotations(context.Background(), "COL001")
	if col.Err != "" {
		t.Fatalf("unexpected error marker: %q", col.Err)
	}
	if col.Name != "Reading List" || col.ItemsTotal != 3 {
		t.Errorf("collection = %+v", col)
	}
	if len(col.Items) != 1 || col.Items[0].ID != "ITEM01" {
		t.Errorf("annotated items = %+v", col.Items)
	}
}

func TestCollectionAnnotationsNotFound(t *testing.T) {
	c := newTestClient(t, 1, http.NotFoundHandler())

	col := c.CollectionAnnotations(context.Background(), "NOPE")
	if col.Err != "Collection NOPE not found" {
		t.Errorf("error marker = %q", col.Err)
	}
}

func TestGroupLibraryPaths(t *testing.T) {
	var gotPath string
	c := newTestClient(t, 42, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"key":"ITEM01","data":{"key":"ITEM01"}}`))
	}))

	if _, err := c.item(context.Background(), "ITEM01"); err != nil {
		t.Fatalf("item: %v", err)
	}
	if gotPath != "/api/groups/42/items/ITEM01" {
		t.Errorf("group path = %q", gotPath)
	}
}

func TestCitationKey(t *testing.T) {
	c := newTestClient(t, 1, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "bibtex" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("@book{ smith2020 ,\n  title = {Deep Work},\n}\n"))
	}))

	key, err := c.CitationKey(context.Background(), "ITEM01")
	if err != nil {
		t.Fatalf("CitationKey: %v", err)
	}
	if key != "smith2020" {
		t.Errorf("citation key = %q", key)
	}
}

func TestCitationKeyNoEntry(t *testing.T) {
	c := newTestClient(t, 1, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not bibtex at all"))
	}))

	key, err := c.CitationKey(context.Background(), "ITEM01")
	if err != nil {
		t.Fatalf("CitationKey: %v", err)
	}
	if key != "" {
		t.Errorf("citation key = %q, want empty", key)
	}
}

func TestMetadata(t *testing.T) {
	c := newTestClient(t, 1, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") == "bibtex" {
			w.Write([]byte("@article{doe2019,\n}"))
			return
		}
		w.Write([]byte(`{"key":"ITEM01","data":{
			"key":"ITEM01","itemType":"journalArticle","title":"A Study",
			"creators":[
				{"creatorType":"author","firstName":"Jane","lastName":"Doe"},
				{"creatorType":"author","lastName":"Smith"},
				{"creatorType":"translator","firstName":"X","lastName":"Y"}
			],
			"date":"2019-06-01","publicationTitle":"Journal of Studies",
			"volume":"12","DOI":"10.1000/xyz"
		}}`))
	}))

	meta, err := c.Metadata(context.Background(), "ITEM01")
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if meta.Title != "A Study" || meta.ItemType != "journalArticle" {
		t.Errorf("metadata = %+v", meta)
	}
	authors, ok := meta.Author.([]string)
	if !ok || len(authors) != 2 || authors[0] != "Jane Doe" || authors[1] != "Smith" {
		t.Errorf("authors = %v", meta.Author)
	}
	if meta.Year != 2019 || meta.CitationKey != "doe2019" {
		t.Errorf("year/key = %d %q", meta.Year, meta.CitationKey)
	}
	if meta.Publication != "Journal of Studies" || meta.DOI != "10.1000/xyz" {
		t.Errorf("publication fields = %+v", meta)
	}
}

func TestListings(t *testing.T) {
	c := newTestClient(t, 1, jsonHandler(map[string]string{
		"/api/users/0/items": `[
			{"key":"ITEM01","data":{"key":"ITEM01","itemType":"book","title":"One"}},
			{"key":"ITEM02","data":{"key":"ITEM02","itemType":"report","title":"Two"}}
		]`,
		"/api/users/0/collections": `[
			{"key":"COL001","data":{"key":"COL001","name":"Top","parentCollection":false}},
			{"key":"COL002","data":{"key":"COL002","name":"Nested","parentCollection":"COL001"}}
		]`,
		"/api/users/0/groups": `[
			{"id":42,"data":{"name":"Lab Shared"}}
		]`,
	}))

	ctx := context.Background()

	items, err := c.TopLevelItems(ctx, 25)
	if err != nil {
		t.Fatalf("TopLevelItems: %v", err)
	}
	if len(items) != 2 || items[0].Title != "One" {
		t.Errorf("items = %+v", items)
	}

	cols, err := c.Collections(ctx)
	if err != nil {
		t.Fatalf("Collections: %v", err)
	}
	if len(cols) != 2 || cols[1].ParentID != "COL001" {
		t.Errorf("collections = %+v", cols)
	}

	groups, err := c.Groups(ctx)
	if err != nil {
		t.Fatalf("Groups: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != 42 || groups[0].Name != "Lab Shared" {
		t.Errorf("groups = %+v", groups)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "testing"

func TestBuildOpenPDFLink(t *testing.T) {
	tests := []struct {
		name       string
		page       string
		annotation string
		want       string
	}{
		{
			"page and annotation",
			"5", "ANN001",
			"zotero://open-pdf/library/items/ATT001?page=5&annotation=ANN001",
		},
		{
			"annotation only",
			"", "ANN001",
			"zotero://open-pdf/library/items/ATT001?annotation=ANN001",
		},
		{
			"page only",
			"12", "",
			"zotero://open-pdf/library/items/ATT001?page=12",
		},
		{
			"no parameters no query string",
			"", "",
			"zotero://open-pdf/library/items/ATT001",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildOpenPDFLink("ATT001", tt.page, tt.annotation)
			if got != tt.want {
				t.Errorf("BuildOpenPDFLink = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildLinkPDF(t *testing.T) {
	tests := []struct {
		name      string
		libraryID int
		page      string
		wantURI   string
		wantLabel string
	}{
		{
			"personal library numeric page",
			1, "5",
			"zotero://open-pdf/library/items/ATT001?page=5&annotation=ANN001",
			"Page 5",
		},
		{
			"group library",
			42, "5",
			"zotero://open-pdf/groups/42/items/ATT001?page=5&annotation=ANN001",
			"Page 5",
		},
		{
			"unparseable page defaults to 1",
			1, "xiv",
			"zotero://open-pdf/library/items/ATT001?page=1&annotation=ANN001",
			"Page 1",
		},
		{
			"empty page defaults to 1",
			1, "",
			"zotero://open-pdf/library/items/ATT001?page=1&annotation=ANN001",
			"Page 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, label := BuildLink("ATT001", tt.libraryID, "ANN001", tt.page, "application/pdf")
			if uri != tt.wantURI {
				t.Errorf("uri = %q, want %q", uri, tt.wantURI)
			}
			if label != tt.wantLabel {
				t.Errorf("label = %q, want %q", label, tt.wantLabel)
			}
		})
	}
}

func TestBuildLinkEPUB(t *testing.T) {
	uri, label := BuildLink("ATT001", 1, "ANN001", "Chapter 3", "application/epub+zip")
	wantURI := "zotero://open-epub/library/items/ATT001?annotation=ANN001"
	if uri != wantURI {
		t.Errorf("uri = %q, want %q", uri, wantURI)
	}
	if label != "Chapter 3" {
		t.Errorf("label = %q, want %q", label, "Chapter 3")
	}

	// EPUB links never carry a page parameter, and an empty location falls
	// back to the generic label.
	uri, label = BuildLink("ATT001", 7, "", "", "application/epub+zip")
	wantURI = "zotero://open-epub/groups/7/items/ATT001"
	if uri != wantURI {
		t.Errorf("uri = %q, want %q", uri, wantURI)
	}
	if label != "Location" {
		t.Errorf("label = %q, want %q", label, "Location")
	}
}

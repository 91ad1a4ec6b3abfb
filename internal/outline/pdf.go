// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"os"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

// pdfChapterMap reads the PDF bookmark tree and flattens it into chapter
// map entries. Position labels are the bookmarks' physical page numbers.
// Returns nil on any read error or when the PDF has no outline.
func pdfChapterMap(path string, maxLevel int) []types.ChapterMapEntry {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	bms, err := api.Bookmarks(f, model.NewDefaultConfiguration())
	if err != nil || len(bms) == 0 {
		return nil
	}

	var entries []types.ChapterMapEntry
	flattenBookmarks(bms, 1, maxLevel, &entries)
	return dedupeConsecutive(entries)
}

func flattenBookmarks(bms []pdfcpu.Bookmark, level, maxLevel int, out *[]types.ChapterMapEntry) {
	for _, bm := range bms {
		title := strings.TrimSpace(bm.Title)
		if level <= maxLevel && title != "" {
			*out = append(*out, types.ChapterMapEntry{
				Title:         title,
				PositionLabel: strconv.Itoa(bm.PageFrom),
				Level:         level,
			})
		}
		if len(bm.Kids) > 0 {
			flattenBookmarks(bm.Kids, level+1, maxLevel, out)
		}
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

// maxSortKey sorts annotations with unparseable positions after everything
// with a real page number.
const maxSortKey = "99999"

// readingOrderKey derives the sort key for one annotation. The composite
// sort index is used verbatim when present; Zotero zero-pads its components,
// so lexicographic comparison matches reading order. Without one, the page
// label is parsed and zero-padded to five digits so "5" sorts before "20".
func readingOrderKey(a types.Annotation) string {
	if a.SortIndex != "" {
		return a.SortIndex
	}
	page, err := strconv.Atoi(strings.TrimSpace(a.PageLabel))
	if err != nil {
		return maxSortKey
	}
	return fmt.Sprintf("%05d", page)
}

// SortReadingOrder returns the annotations sorted into reading order. The
// sort is stable: annotations with equal keys keep their original relative
// order, so repeated renders of the same input produce identical documents.
// The input slice is not modified.
func SortReadingOrder(anns []types.Annotation) []types.Annotation {
	sorted := make([]types.Annotation, len(anns))
	copy(sorted, anns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return readingOrderKey(sorted[i]) < readingOrderKey(sorted[j])
	})
	return sorted
}

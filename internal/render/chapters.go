// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

// ChapterRef is one ancestor heading active at a position.
type ChapterRef struct {
	Title string
	Level int
}

// IsSpineIndex reports whether a page label looks like a synthetic EPUB
// spine index: all digits and at least five characters. Real printed page
// numbers are shorter, so the length cut distinguishes the two.
func IsSpineIndex(label string) bool {
	if len(label) < 5 {
		return false
	}
	for _, r := range label {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// EffectivePosition derives the position used for chapter lookup. The page
// label wins when it is a real one; when it is absent or is itself a spine
// index, the leading field of the sort index (the digits before the first
// "|") takes over. With neither available the position is "0", which the
// resolver treats as unresolvable.
func EffectivePosition(a types.Annotation) string {
	if a.PageLabel != "" && !IsSpineIndex(a.PageLabel) {
		return a.PageLabel
	}
	if field, _, ok := strings.Cut(a.SortIndex, "|"); ok && isDigits(field) {
		return field
	}
	if a.PageLabel != "" {
		return a.PageLabel
	}
	return "0"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ChaptersAt returns the chain of ancestor headings active at the given
// position, ordered shallowest first. An empty map or empty label yields no
// headings.
//
// Numeric positions take the nearest preceding entry at each level: scanning
// the (already ordered) map, every entry at or before the target position is
// recorded at its level and evicts anything deeper, since a new heading at
// some depth invalidates the deeper headings that preceded it. Non-numeric
// positions (roman-numeral front matter) match their entry's label exactly
// and return just that heading.
func ChaptersAt(chapterMap []types.ChapterMapEntry, positionLabel string) []ChapterRef {
	if len(chapterMap) == 0 || positionLabel == "" {
		return nil
	}

	target, err := strconv.Atoi(positionLabel)
	if err != nil || target == 0 {
		return chaptersExact(chapterMap, positionLabel)
	}
	return chaptersNumeric(chapterMap, target)
}

func chaptersNumeric(chapterMap []types.ChapterMapEntry, target int) []ChapterRef {
	byLevel := make(map[int]string)
	for _, entry := range chapterMap {
		pos, err := strconv.Atoi(entry.PositionLabel)
		if err != nil || pos > target {
			continue
		}
		byLevel[entry.Level] = entry.Title
		for lvl := range byLevel {
			if lvl > entry.Level {
				delete(byLevel, lvl)
			}
		}
	}

	if len(byLevel) == 0 {
		return nil
	}

	refs := make([]ChapterRef, 0, len(byLevel))
	for lvl, title := range byLevel {
		refs = append(refs, ChapterRef{Title: title, Level: lvl})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Level < refs[j].Level })
	return refs
}

func chaptersExact(chapterMap []types.ChapterMapEntry, label string) []ChapterRef {
	for _, entry := range chapterMap {
		if entry.PositionLabel == label {
			return []ChapterRef{{Title: entry.Title, Level: entry.Level}}
		}
	}
	// A label absent from the map emits no headings rather than guessing a
	// nearest match.
	return nil
}

// headingEntry is one open heading in a HeadingStack.
type headingEntry struct {
	level int
	title string
}

// HeadingStack tracks the currently-open heading per level during a single
// assembly pass, suppressing repeated or superseded headings. Levels are
// small bounded integers, so a sorted slice is the right structure. A fresh
// stack is created per attachment and discarded afterwards.
type HeadingStack struct {
	entries []headingEntry
}

// Enter records a heading at a level. It reports whether the heading is new
// at that level (and therefore should be emitted); entering a heading evicts
// every deeper entry with the same rule ChaptersAt uses, so emission and
// lookup never diverge.
func (s *HeadingStack) Enter(title string, level int) bool {
	for i, e := range s.entries {
		if e.level == level {
			if e.title == title {
				return false
			}
			s.entries[i].title = title
			s.evictDeeper(level)
			return true
		}
	}

	s.entries = append(s.entries, headingEntry{level: level, title: title})
	sort.Slice(s.entries, func(i, j int) bool { return s.entries[i].level < s.entries[j].level })
	s.evictDeeper(level)
	return true
}

func (s *HeadingStack) evictDeeper(level int) {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.level <= level {
			kept = append(kept, e)
		}
	}
	s.entries = kept
}

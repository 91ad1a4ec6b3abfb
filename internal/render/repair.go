// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns normalized annotation records into ordered org-mode or
// Markdown documents: reading-order sorting, chapter-heading grouping,
// per-annotation blocks with deep links, and repair of historically
// mis-encoded text.
package render

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// encodingPairs maps UTF-8/Latin-1 mojibake sequences to the characters they
// were meant to be. Three-byte corruptions come first so they win over their
// two-byte prefixes.
var encodingPairs = []string{
	// Smart quotes and dashes.
	"â", "“", // left double quotation mark
	"â", "”", // right double quotation mark
	"â", "‘", // left single quotation mark
	"â", "’", // right single quotation mark
	"â", "—", // em dash
	"â", "–", // en dash
	// Symbols.
	"â¢", "•", // bullet
	"â¦", "…", // ellipsis
	// Accented characters.
	"Ã¡", "á", "Ã©", "é",
	"Ã­", "í", "Ã³", "ó",
	"Ãº", "ú", "Ã±", "ñ",
	"Ã", "À", "Ã¨", "è",
	"Ã¬", "ì", "Ã²", "ò",
	"Ã¹", "ù", "Ã¤", "ä",
	"Ã«", "ë", "Ã¯", "ï",
	"Ã¶", "ö", "Ã¼", "ü",
	"Ã§", "ç",
	"Â°", "°", // degree
	"Â±", "±", // plus-minus
	"Â²", "²", // superscript 2
	"Â³", "³", // superscript 3
	"Â½", "½", // 1/2
	"Â¼", "¼", // 1/4
	"Â¾", "¾", // 3/4
	"Â©", "©", // copyright
	"Â®", "®", // registered
	"Â«", "«", // left guillemet
	"Â»", "»", // right guillemet
}

// wordPairs fixes word-specific corruption observed in scanned sources where
// a soft hyphen or ligature turned into a stray quote or masculine ordinal.
var wordPairs = []string{
	"peÂºple", "people",
	"pe\"ºple", "people",
	"peºple", "people",
	"house\"hold", "household",
	"house\"wives", "housewives",
	"single\"family", "single-family",
	"well\"publicized", "well-publicized",
	"car\"ried", "carried",
	"in\"dustrialization", "industrialization",
	"self\"sufficient", "self-sufficient",
	"water\"cooled", "water-cooled",
	"home\"places", "home places",
	"work\"places", "work places",
	"ex\"pected", "expected",
}

// replacer applies the literal tables in one pass, earlier (longer) patterns
// first. Built once.
var replacer = strings.NewReplacer(append(append([]string{}, encodingPairs...), wordPairs...)...)

// contextualFixes handles corruption that needs surrounding context: the
// broken joiner varies, so a literal table cannot enumerate it.
var contextualFixes = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`contempo[\x{00e2}"\x{2014}]raries`), "contemporaries"},
	{regexp.MustCompile(`pe[\x{00e2}"]\x{00ba}ple`), "people"},
}

// Repair fixes known UTF-8/Latin-1 mis-encoding artifacts in annotation text.
// Empty input passes through unchanged, unmatched text is returned as-is, and
// the function is idempotent so callers may apply it more than once.
//
// It first attempts the standard double-encoding fix (reinterpret the code
// points as Latin-1 bytes and decode them as UTF-8); when that does not
// apply it falls back to the replacement tables.
func Repair(text string) string {
	if text == "" {
		return text
	}

	if fixed, ok := undoDoubleEncoding(text); ok {
		// The recovered text can still carry word-level corruption, so it
		// goes through the tables like everything else. That also keeps
		// Repair(Repair(x)) == Repair(x).
		text = fixed
	}

	out := replacer.Replace(text)
	for _, f := range contextualFixes {
		out = f.re.ReplaceAllString(out, f.repl)
	}
	return out
}

// undoDoubleEncoding reverses the classic corruption where UTF-8 bytes were
// decoded as Latin-1. It reports false when the text contains code points
// outside Latin-1, when the recovered bytes are not valid UTF-8, or when the
// fix would change nothing.
func undoDoubleEncoding(text string) (string, bool) {
	buf := make([]byte, 0, len(text))
	for _, r := range text {
		if r > 0xff {
			return "", false
		}
		buf = append(buf, byte(r))
	}
	if !utf8.Valid(buf) {
		return "", false
	}
	fixed := string(buf)
	if fixed == text {
		return "", false
	}
	return fixed, true
}

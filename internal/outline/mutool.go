// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"os/exec"
	"regexp"
	"strings"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

const binMutool = "mutool"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunOutput(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// mutoolChapterMap extracts the PDF outline via "mutool show <file>
// outline". Some PDFs carry outlines pdfcpu cannot decode; mutool handles
// those. Returns nil when mutool is not installed or produces nothing
// usable.
func (p *Provider) mutoolChapterMap(path string, maxLevel int) []types.ChapterMapEntry {
	ex := p.exec
	if ex == nil {
		ex = &osExecutor{}
	}

	if _, err := ex.LookPath(binMutool); err != nil {
		return nil
	}

	out, err := ex.RunOutput(binMutool, "show", path, "outline")
	if err != nil {
		return nil
	}
	return dedupeConsecutive(parseMutoolOutline(string(out), maxLevel))
}

var mutoolPageRe = regexp.MustCompile(`#(?:page=)?(\d+)`)

// parseMutoolOutline parses mutool outline lines, e.g.
//
//	+	"Introduction"	#page=1
//	|		"1.1 History"	#page=6
//
// Nesting depth is the number of leading tabs; the title is the first
// quoted string; the page is the number in the destination fragment. Lines
// missing any of these are skipped.
func parseMutoolOutline(out string, maxLevel int) []types.ChapterMapEntry {
	var entries []types.ChapterMapEntry
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		start := strings.IndexByte(line, '"')
		if start < 0 {
			continue
		}

		level := strings.Count(line[:start], "\t")
		if level == 0 {
			level = 1
		}
		if level > maxLevel {
			continue
		}
		end := strings.IndexByte(line[start+1:], '"')
		if end < 0 {
			continue
		}
		title := strings.TrimSpace(line[start+1 : start+1+end])
		if title == "" {
			continue
		}

		m := mutoolPageRe.FindStringSubmatch(line[start+1+end:])
		if m == nil {
			continue
		}

		entries = append(entries, types.ChapterMapEntry{
			Title:         title,
			PositionLabel: m[1],
			Level:         level,
		})
	}
	return entries
}

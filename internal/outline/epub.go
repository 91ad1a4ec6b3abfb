// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/beevik/etree"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

// epubChapterMap reads the EPUB navigation (NCX) and maps each nav target
// onto its spine position. Position labels are zero-padded spine indices so
// they compare against the spine field of EPUB annotation sort indices.
// Returns nil on any structural problem.
func epubChapterMap(filePath string, maxLevel int) []types.ChapterMapEntry {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[path.Clean(f.Name)] = f
	}

	opfPath, err := rootfilePath(files)
	if err != nil {
		return nil
	}
	opfDir := path.Dir(opfPath)

	spineIndex, ncxPath, err := readPackage(files, opfPath, opfDir)
	if err != nil {
		return nil
	}

	entries, err := readNCX(files, ncxPath, spineIndex, maxLevel)
	if err != nil || len(entries) == 0 {
		return nil
	}
	return dedupeConsecutive(entries)
}

// rootfilePath reads META-INF/container.xml and returns the OPF package
// path.
func rootfilePath(files map[string]*zip.File) (string, error) {
	doc, err := readZipXML(files, "META-INF/container.xml")
	if err != nil {
		return "", err
	}

	rootfile := doc.FindElement("//rootfile")
	if rootfile == nil {
		return "", fmt.Errorf("container.xml has no rootfile")
	}
	full := rootfile.SelectAttrValue("full-path", "")
	if full == "" {
		return "", fmt.Errorf("rootfile has no full-path")
	}
	return path.Clean(full), nil
}

// readPackage parses the OPF package: it maps each spine document onto its
// reading-order index and locates the NCX navigation document.
func readPackage(files map[string]*zip.File, opfPath, opfDir string) (map[string]int, string, error) {
	doc, err := readZipXML(files, opfPath)
	if err != nil {
		return nil, "", err
	}

	hrefByID := make(map[string]string)
	mediaByID := make(map[string]string)
	for _, item := range doc.FindElements("//manifest/item") {
		id := item.SelectAttrValue("id", "")
		href := item.SelectAttrValue("href", "")
		if id == "" || href == "" {
			continue
		}
		hrefByID[id] = href
		mediaByID[id] = item.SelectAttrValue("media-type", "")
	}

	spine := doc.FindElement("//spine")
	if spine == nil {
		return nil, "", fmt.Errorf("package has no spine")
	}

	spineIndex := make(map[string]int)
	for i, ref := range spine.SelectElements("itemref") {
		href, ok := hrefByID[ref.SelectAttrValue("idref", "")]
		if !ok {
			continue
		}
		spineIndex[resolveHref(opfDir, href)] = i
	}

	ncxID := spine.SelectAttrValue("toc", "")
	if ncxID == "" {
		for id, media := range mediaByID {
			if media == "application/x-dtbncx+xml" {
				ncxID = id
				break
			}
		}
	}
	ncxHref, ok := hrefByID[ncxID]
	if !ok {
		return nil, "", fmt.Errorf("package has no NCX document")
	}

	return spineIndex, resolveHref(opfDir, ncxHref), nil
}

// readNCX walks the navMap and emits one entry per nav point whose target
// appears in the spine.
func readNCX(files map[string]*zip.File, ncxPath string, spineIndex map[string]int, maxLevel int) ([]types.ChapterMapEntry, error) {
	doc, err := readZipXML(files, ncxPath)
	if err != nil {
		return nil, err
	}

	navMap := doc.FindElement("//navMap")
	if navMap == nil {
		return nil, fmt.Errorf("NCX has no navMap")
	}

	ncxDir := path.Dir(ncxPath)
	var entries []types.ChapterMapEntry
	walkNavPoints(navMap.SelectElements("navPoint"), 1, maxLevel, ncxDir, spineIndex, &entries)
	return entries, nil
}

func walkNavPoints(points []*etree.Element, level, maxLevel int, ncxDir string, spineIndex map[string]int, out *[]types.ChapterMapEntry) {
	for _, np := range points {
		if level <= maxLevel {
			title := navPointTitle(np)
			if target, ok := navPointTarget(np, ncxDir, spineIndex); ok && title != "" {
				*out = append(*out, types.ChapterMapEntry{
					Title:         title,
					PositionLabel: fmt.Sprintf("%05d", target),
					Level:         level,
				})
			}
		}
		if kids := np.SelectElements("navPoint"); len(kids) > 0 {
			walkNavPoints(kids, level+1, maxLevel, ncxDir, spineIndex, out)
		}
	}
}

func navPointTitle(np *etree.Element) string {
	text := np.FindElement("navLabel/text")
	if text == nil {
		return ""
	}
	return strings.TrimSpace(text.Text())
}

func navPointTarget(np *etree.Element, ncxDir string, spineIndex map[string]int) (int, bool) {
	content := np.FindElement("content")
	if content == nil {
		return 0, false
	}
	src := content.SelectAttrValue("src", "")
	if src == "" {
		return 0, false
	}
	if i := strings.IndexByte(src, '#'); i >= 0 {
		src = src[:i]
	}
	idx, ok := spineIndex[resolveHref(ncxDir, src)]
	return idx, ok
}

// resolveHref joins a document-relative href onto its base directory using
// the zip's forward-slash name space.
func resolveHref(dir, href string) string {
	if dir == "." || dir == "" {
		return path.Clean(href)
	}
	return path.Clean(path.Join(dir, href))
}

func readZipXML(files map[string]*zip.File, name string) (*etree.Document, error) {
	f, ok := files[path.Clean(name)]
	if !ok {
		return nil, fmt.Errorf("missing %s", name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return doc, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pdiddy/annotation-engine/pkg/types"
)

const containerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const contentOPF = `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    <item id="cover" href="text/cover.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="cover"/>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`

const tocNCX = `<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <navMap>
    <navPoint id="n1">
      <navLabel><text>Chapter One</text></navLabel>
      <content src="text/ch1.xhtml"/>
      <navPoint id="n1a">
        <navLabel><text>Part A</text></navLabel>
        <content src="text/ch1.xhtml#part-a"/>
        <navPoint id="n1a1">
          <navLabel><text>Too Deep</text></navLabel>
          <content src="text/ch1.xhtml#deep"/>
        </navPoint>
      </navPoint>
    </navPoint>
    <navPoint id="n2">
      <navLabel><text>Chapter Two</text></navLabel>
      <content src="text/ch2.xhtml"/>
    </navPoint>
  </navMap>
</ncx>`

func writeEPUB(t *testing.T, files map[string]string) string {
	t.Helper()
	epubPath := filepath.Join(t.TempDir(), "book.epub")

	f, err := os.Create(epubPath)
	if err != nil {
		t.Fatalf("creating epub: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip entry %s: %v", name, err)
		}
		fmt.Fprint(w, content)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return epubPath
}

func TestEPUBChapterMap(t *testing.T) {
	epubPath := writeEPUB(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      contentOPF,
		"OEBPS/toc.ncx":          tocNCX,
	})

	got := epubChapterMap(epubPath, 2)
	want := []types.ChapterMapEntry{
		{Title: "Chapter One", PositionLabel: "00001", Level: 1},
		{Title: "Part A", PositionLabel: "00001", Level: 2},
		{Title: "Chapter Two", PositionLabel: "00002", Level: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("epub chapter map:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestEPUBChapterMapMissingNCX(t *testing.T) {
	epubPath := writeEPUB(t, map[string]string{
		"META-INF/container.xml": containerXML,
	})
	if got := epubChapterMap(epubPath, 2); got != nil {
		t.Errorf("broken epub should yield nil, got %+v", got)
	}
}

func TestEPUBChapterMapNotAZip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.epub")
	if err := os.WriteFile(p, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := epubChapterMap(p, 2); got != nil {
		t.Errorf("non-zip should yield nil, got %+v", got)
	}
}

func TestParseMutoolOutline(t *testing.T) {
	out := "+\t\"Introduction\"\t#page=1\n" +
		"|\t\"Background\"\t#page=5\n" +
		"|\t\t\"1.1 History\"\t#page=6\n" +
		"|\t\t\t\"Way Too Deep\"\t#page=7\n" +
		"garbage line without quotes\n" +
		"|\t\"No Destination\"\n" +
		"|\t\"Methods\"\t#20\n"

	got := parseMutoolOutline(out, 2)
	want := []types.ChapterMapEntry{
		{Title: "Introduction", PositionLabel: "1", Level: 1},
		{Title: "Background", PositionLabel: "5", Level: 1},
		{Title: "1.1 History", PositionLabel: "6", Level: 2},
		{Title: "Methods", PositionLabel: "20", Level: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mutool outline:\ngot  %+v\nwant %+v", got, want)
	}
}

type fakeExec struct {
	lookPathErr error
	output      []byte
	outputErr   error
}

func (f *fakeExec) LookPath(string) (string, error) {
	if f.lookPathErr != nil {
		return "", f.lookPathErr
	}
	return "/usr/bin/mutool", nil
}

func (f *fakeExec) RunOutput(string, ...string) ([]byte, error) {
	return f.output, f.outputErr
}

func TestMutoolChapterMap(t *testing.T) {
	p := &Provider{exec: &fakeExec{
		output: []byte("+\t\"Intro\"\t#page=1\n+\t\"Intro\"\t#page=2\n+\t\"Body\"\t#page=3\n"),
	}}

	got := p.mutoolChapterMap("doc.pdf", 2)
	want := []types.ChapterMapEntry{
		{Title: "Intro", PositionLabel: "1", Level: 1},
		{Title: "Body", PositionLabel: "3", Level: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mutool map (with dedupe):\ngot  %+v\nwant %+v", got, want)
	}
}

func TestMutoolChapterMapNotInstalled(t *testing.T) {
	p := &Provider{exec: &fakeExec{lookPathErr: os.ErrNotExist}}
	if got := p.mutoolChapterMap("doc.pdf", 2); got != nil {
		t.Errorf("missing mutool should yield nil, got %+v", got)
	}
}

func TestResolvePathStorageLayout(t *testing.T) {
	storage := t.TempDir()
	attDir := filepath.Join(storage, "ATT001")
	if err := os.MkdirAll(attDir, 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(attDir, "paper.pdf")
	if err := os.WriteFile(file, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := &Provider{StorageDir: storage}

	got := p.resolvePath(types.Attachment{ID: "ATT001", Filename: "paper.pdf"})
	if got != file {
		t.Errorf("resolved = %q, want %q", got, file)
	}

	if got := p.resolvePath(types.Attachment{ID: "ATT002", Filename: "missing.pdf"}); got != "" {
		t.Errorf("missing file should resolve empty, got %q", got)
	}

	if got := p.resolvePath(types.Attachment{ID: "ATT001", Path: file}); got != file {
		t.Errorf("absolute path should be used as-is, got %q", got)
	}
}

func TestChapterMapUnreadableFile(t *testing.T) {
	p := &Provider{StorageDir: t.TempDir()}
	att := types.Attachment{ID: "NOPE", Filename: "gone.pdf", ContentType: types.ContentTypePDF}
	if got := p.ChapterMap(att); got != nil {
		t.Errorf("unresolvable attachment should yield nil, got %+v", got)
	}
}

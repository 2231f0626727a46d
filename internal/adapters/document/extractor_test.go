package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func stubbed(pages, paragraphs []string, err error) *Extractor {
	e := NewExtractor(zap.NewNop())
	e.readPDF = func([]byte) ([]string, error) { return pages, err }
	e.readDOCX = func([]byte) ([]string, error) { return paragraphs, err }
	return e
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		pages      []string
		paragraphs []string
		err        error
		want       string
	}{
		{
			name:     "pdf pages joined",
			filename: "cv.pdf",
			pages:    []string{"Ann Lee", "Go developer"},
			want:     "Document name: cv.pdf\nAnn Lee\nGo developer",
		},
		{
			name:     "image-only page contributes nothing",
			filename: "scan.PDF",
			pages:    []string{"Page one", "", "  ", "Page three"},
			want:     "Document name: scan.PDF\nPage one\nPage three",
		},
		{
			name:       "docx paragraphs",
			filename:   "cv.docx",
			paragraphs: []string{"Ann Lee", "Skills: Go"},
			want:       "Document name: cv.docx\nAnn Lee\nSkills: Go",
		},
		{
			name:     "unsupported extension",
			filename: "cv.doc",
			pages:    []string{"ignored"},
			want:     "",
		},
		{
			name:     "no extension",
			filename: "README",
			want:     "",
		},
		{
			name:     "parser error",
			filename: "broken.pdf",
			err:      errors.New("malformed xref"),
			want:     "",
		},
		{
			name:     "image-only pdf keeps header",
			filename: "scan.pdf",
			pages:    []string{"", ""},
			want:     "Document name: scan.pdf\n",
		},
		{
			name:     "empty docx keeps header",
			filename: "blank.docx",
			want:     "Document name: blank.docx\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stubbed(tt.pages, tt.paragraphs, tt.err).Extract(tt.filename, []byte("data"))
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractKeepsPagesReadBeforeFailure(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	e.readPDF = func([]byte) ([]string, error) {
		return []string{"Ann Lee"}, errors.New("bad content stream on page 2")
	}

	want := "Document name: cv.pdf\nAnn Lee"
	if got := e.Extract("cv.pdf", nil); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExtractRecoversFromParserPanic(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	e.readPDF = func([]byte) ([]string, error) { panic("index out of range") }

	if got := e.Extract("cv.pdf", nil); got != "" {
		t.Fatalf("expected empty text after panic, got %q", got)
	}
}

func TestExtractGarbageBytes(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	for _, name := range []string{"cv.pdf", "cv.docx"} {
		if got := e.Extract(name, []byte("definitely not a document")); got != "" {
			t.Fatalf("%s: expected empty text, got %q", name, got)
		}
	}
}

func TestExtractRealDocx(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:r><w:t>Ann Lee</w:t></w:r></w:p>`+
			`<w:p></w:p>`+
			`<w:p><w:r><w:t xml:space="preserve">  Go developer  </w:t></w:r></w:p>`)

	got := NewExtractor(zap.NewNop()).Extract("ann.docx", data)
	want := "Document name: ann.docx\nAnn Lee\nGo developer"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExtractDocxSkipsHeadersAndFooters(t *testing.T) {
	part := func(root, text string) string {
		return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:` + root + ` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:p><w:r><w:t>` +
			text + `</w:t></w:r></w:p></w:` + root + `>`
	}
	data := buildDocx(t, `<w:p><w:r><w:t>Ann Lee</w:t></w:r></w:p>`,
		[2]string{"word/header1.xml", part("hdr", "Confidential")},
		[2]string{"word/footer1.xml", part("ftr", "Page 1")})

	got := NewExtractor(zap.NewNop()).Extract("ann.docx", data)
	if want := "Document name: ann.docx\nAnn Lee"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSupported(t *testing.T) {
	for name, want := range map[string]bool{
		"a.pdf": true, "a.DOCX": true, "a.doc": false, "a.txt": false, "pdf": false,
	} {
		if got := Supported(name); got != want {
			t.Fatalf("Supported(%q) = %v, want %v", name, got, want)
		}
	}
}

func buildDocx(t *testing.T, body string, parts ...[2]string) []byte {
	t.Helper()

	files := []struct{ name, content string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`},
	}

	for _, p := range parts {
		files = append(files, struct{ name, content string }{p[0], p[1]})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(f.content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

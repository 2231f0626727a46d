package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// HeaderPrefix starts the first line of every extracted document
const HeaderPrefix = "Document name: "

// Extractor converts PDF and DOCX attachments to plain text
type Extractor struct {
	logger   *zap.Logger
	readPDF  func(data []byte) ([]string, error)
	readDOCX func(data []byte) ([]string, error)
}

// NewExtractor creates an extractor backed by ledongthuc/pdf and docconv
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		logger:   logger,
		readPDF:  pdfPages,
		readDOCX: docxParagraphs,
	}
}

// Supported reports whether the filename has an extension the extractor reads
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx":
		return true
	}
	return false
}

// Extract returns the document text preceded by a header naming the file.
// A readable document without text yields the header alone; unsupported and
// unreadable documents yield an empty string.
func (e *Extractor) Extract(filename string, data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("Document parser panicked",
				zap.String("filename", filename),
				zap.Any("panic", r))
			text = ""
		}
	}()

	var (
		parts []string
		err   error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		parts, err = e.readPDF(data)
	case ".docx":
		parts, err = e.readDOCX(data)
	default:
		e.logger.Debug("Unsupported document type", zap.String("filename", filename))
		return ""
	}
	if err != nil {
		// parts may still hold the pages read before the failure
		e.logger.Warn("Failed to extract document text",
			zap.String("filename", filename),
			zap.Int("parts_read", len(parts)),
			zap.Error(err))
	}

	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		if err != nil {
			return ""
		}
		e.logger.Debug("Document has no text layer", zap.String("filename", filename))
	}

	return HeaderPrefix + filename + "\n" + strings.Join(kept, "\n")
}

// pdfPages returns the plain text of every page; pages without a text
// layer come back empty. A failing page ends the read and the pages before
// it are returned with the error.
func pdfPages(data []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return pages, fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// docxBodyPart holds the main document; headers and footers live in
// separate parts and are not read
const docxBodyPart = "word/document.xml"

// docxParagraphs returns the trimmed non-empty paragraphs of the document body
func docxParagraphs(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx: %w", err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return nil, fmt.Errorf("docx has no %s", docxBodyPart)
	}

	rc, err := body.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open docx body: %w", err)
	}
	defer rc.Close()

	raw, err := docconv.DocxXMLToText(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert docx: %w", err)
	}

	var paragraphs []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs, nil
}

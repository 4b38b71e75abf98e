package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// DocumentType is the declared format of an uploaded document
type DocumentType string

const (
	TypeText DocumentType = "txt"
	TypePDF  DocumentType = "pdf"
	TypeDOCX DocumentType = "docx"
)

// MIME types accepted for each document type
const (
	MIMEText = "text/plain"
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrUnsupportedType is returned for formats other than PDF, DOCX and TXT
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrEmptyDocument is returned when a document has no bytes or no text
	ErrEmptyDocument = errors.New("document is empty")
	// ErrMalformedDocument is returned when a document cannot be decoded
	ErrMalformedDocument = errors.New("malformed document")
)

// ExtractionError describes a failed text extraction
type ExtractionError struct {
	Type    DocumentType
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract %s text: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to extract %s text: %s", e.Type, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// ParseDocumentType resolves a declared type given as an extension, file
// name or MIME type.
func ParseDocumentType(declared string) (DocumentType, error) {
	d := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(d, ";"); i >= 0 {
		d = strings.TrimSpace(d[:i])
	}

	switch d {
	case "txt", "text", MIMEText:
		return TypeText, nil
	case "pdf", MIMEPDF:
		return TypePDF, nil
	case "docx", MIMEDOCX:
		return TypeDOCX, nil
	}

	if ext := strings.TrimPrefix(filepath.Ext(d), "."); ext != "" && ext != d {
		return ParseDocumentType(ext)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedType, declared)
}

// ExtractText returns the plain text of a document of the declared type.
// Malformed input fails with an *ExtractionError wrapping ErrMalformedDocument.
func ExtractText(data []byte, docType DocumentType) (string, error) {
	if len(data) == 0 {
		return "", &ExtractionError{Type: docType, Message: "no content", Cause: ErrEmptyDocument}
	}

	var (
		text string
		err  error
	)
	switch docType {
	case TypeText:
		text, err = extractPlainText(data)
	case TypePDF:
		text, err = extractPDFText(data)
	case TypeDOCX:
		text, err = extractDOCXText(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, docType)
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", &ExtractionError{Type: docType, Message: "no text found", Cause: ErrEmptyDocument}
	}
	return text, nil
}

func extractPlainText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", &ExtractionError{Type: TypeText, Message: "text is not valid UTF-8", Cause: ErrMalformedDocument}
	}
	return string(data), nil
}

func extractPDFText(data []byte) (text string, err error) {
	// The PDF reader panics on some corrupt cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = &ExtractionError{Type: TypePDF, Message: "corrupt PDF", Cause: fmt.Errorf("%w: %v", ErrMalformedDocument, r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Type: TypePDF, Message: "failed to read PDF", Cause: fmt.Errorf("%w: %w", ErrMalformedDocument, err)}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Type: TypePDF, Message: fmt.Sprintf("failed to read page %d", i), Cause: fmt.Errorf("%w: %w", ErrMalformedDocument, err)}
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

var (
	docxBreakRe = regexp.MustCompile(`</w:p>|<w:br[^>]*/>|<w:cr[^>]*/>`)
	docxTabRe   = regexp.MustCompile(`<w:tab[^>]*/>`)
	xmlTagRe    = regexp.MustCompile(`<[^>]+>`)
)

func extractDOCXText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Type: TypeDOCX, Message: "failed to parse DOCX", Cause: fmt.Errorf("%w: %w", ErrMalformedDocument, err)}
	}
	defer func() { _ = doc.Close() }()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

// docxXMLToText flattens WordprocessingML into text, one paragraph per line
func docxXMLToText(content string) string {
	content = docxBreakRe.ReplaceAllString(content, "\n")
	content = docxTabRe.ReplaceAllString(content, "\t")
	content = xmlTagRe.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}

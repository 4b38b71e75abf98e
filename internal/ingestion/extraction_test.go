package ingestion

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		declared string
		want     DocumentType
		wantErr  bool
	}{
		{"pdf", TypePDF, false},
		{"PDF", TypePDF, false},
		{"docx", TypeDOCX, false},
		{"txt", TypeText, false},
		{"resume.pdf", TypePDF, false},
		{"My Resume.DOCX", TypeDOCX, false},
		{"notes.txt", TypeText, false},
		{"application/pdf", TypePDF, false},
		{"text/plain; charset=utf-8", TypeText, false},
		{MIMEDOCX, TypeDOCX, false},
		{"doc", "", true},
		{"resume.rtf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.declared, func(t *testing.T) {
			got, err := ParseDocumentType(tt.declared)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractText_PlainText(t *testing.T) {
	text, err := ExtractText([]byte("\xef\xbb\xbfExperience\r\n\r\n\r\n- Led   Python work"), TypeText)
	require.NoError(t, err)
	assert.Equal(t, "Experience\n\n- Led   Python work", text)
}

func TestExtractText_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		docType DocumentType
		wantErr error
	}{
		{"empty bytes", nil, TypePDF, ErrEmptyDocument},
		{"whitespace only", []byte(" \n\t "), TypeText, ErrEmptyDocument},
		{"invalid utf-8", []byte{0xff, 0xfe, 0xfd}, TypeText, ErrMalformedDocument},
		{"not a pdf", []byte("definitely not a pdf"), TypePDF, ErrMalformedDocument},
		{"not a docx", []byte("PK but not a zip"), TypeDOCX, ErrMalformedDocument},
		{"unknown type", []byte("text"), DocumentType("rtf"), ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractText(tt.data, tt.docType)
			assert.Empty(t, text)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractText_ExtractionErrorCarriesType(t *testing.T) {
	_, err := ExtractText([]byte("garbage"), TypePDF)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, TypePDF, extractionErr.Type)
	assert.Contains(t, err.Error(), "pdf")
}

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml":            `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText_DOCX(t *testing.T) {
	data := buildDOCX(t,
		`<w:p><w:r><w:t>Experience</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Led R&amp;D work in</w:t></w:r><w:r><w:t xml:space="preserve"> Python</w:t></w:r></w:p>`)

	text, err := ExtractText(data, TypeDOCX)
	require.NoError(t, err)
	assert.Equal(t, "Experience\nLed R&D work in Python", text)
}

func TestDocxXMLToText(t *testing.T) {
	xml := `<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>SQL</w:t><w:br/><w:t>Docker</w:t></w:r></w:p>`
	assert.Equal(t, "Go\tSQL\nDocker\n", docxXMLToText(xml))
}

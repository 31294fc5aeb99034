package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Backend engineer who builds APIs.</w:t></w:r></w:p>` +
	`</w:body></w:document>`

func TestExtractTextFromBytesDOCX(t *testing.T) {
	data := buildDOCX(t, sampleDocument)

	tests := []struct {
		name     string
		mime     string
		fileName string
	}{
		{name: "docx mime", mime: MimeDOCX, fileName: "cv.docx"},
		{name: "zip mime", mime: "application/zip", fileName: "cv.docx"},
		{name: "octet stream", mime: "application/octet-stream", fileName: "cv"},
		{name: "no mime", mime: "", fileName: "cv.docx"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractTextFromBytes(context.Background(), data, tt.mime, tt.fileName)
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if text != "Jane Doe\nBackend engineer who builds APIs." {
				t.Fatalf("unexpected text %q", text)
			}
		})
	}
}

func TestExtractTextFromBytesRejectsPlainZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestExtractTextFromBytesRejectsOtherTypes(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("hello"), "text/plain", "notes.txt")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestExtractTextFromBytesHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractTextFromBytes(ctx, nil, MimePDF, "cv.pdf"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

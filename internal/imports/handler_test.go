package imports

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func docxBytes(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` +
		text + `</w:t></w:r></w:p></w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, field, fileName string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/resume", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestImportResumeExtractsDOCX(t *testing.T) {
	resp := httptest.NewRecorder()
	newRouter().ServeHTTP(resp, uploadRequest(t, "file", "cv.docx", docxBytes(t, "Senior engineer")))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out importResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Text != "Senior engineer" || out.FileName != "cv.docx" {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestImportResumeRejects(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		fileName string
		data     []byte
		wantCode string
	}{
		{name: "missing file", field: "other", fileName: "cv.docx", data: []byte("x"), wantCode: "validation_error"},
		{name: "plain text", field: "file", fileName: "cv.txt", data: []byte("hello"), wantCode: "unsupported_format"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			newRouter().ServeHTTP(resp, uploadRequest(t, tt.field, tt.fileName, tt.data))
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
			var envelope struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if envelope.Error.Code != tt.wantCode {
				t.Fatalf("expected %s, got %s", tt.wantCode, envelope.Error.Code)
			}
		})
	}
}

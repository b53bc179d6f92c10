package testutil

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Upload is one file part of a multipart request.
type Upload struct {
	Field    string
	Filename string
	Data     []byte
}

// NewMultipartRequest creates an HTTP request carrying file uploads and form fields.
// This helper simplifies testing the upload handlers that read r.MultipartForm.
//
// Example:
//
//	req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/loans",
//	    []testutil.Upload{{Field: "file", Filename: "master.xlsx", Data: data}},
//	    map[string]string{"as_of": "2025-06-30"},
//	)
func NewMultipartRequest(t *testing.T, method, path string, files []Upload, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write form field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

package media

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fileHeader(t *testing.T, fieldName, fileName string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("creating form file failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("writing form file failed: %v", err)
	}
	_ = writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("reading form failed: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File[fieldName][0]
}

func TestDiskUploaderStoresFileAndReturnsURL(t *testing.T) {
	root := t.TempDir()
	uploader := NewDiskUploader(root)

	url, err := uploader.Upload(context.Background(), fileHeader(t, "image", "plant.jpg", []byte("jpegdata")))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("unexpected url: %s", url)
	}

	stored := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(url, "/")))
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "jpegdata" {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestDiskUploaderRejectsUnsupportedExtension(t *testing.T) {
	uploader := NewDiskUploader(t.TempDir())

	if _, err := uploader.Upload(context.Background(), fileHeader(t, "image", "script.exe", []byte("x"))); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if _, err := uploader.Upload(context.Background(), fileHeader(t, "image", "noext", []byte("x"))); err == nil {
		t.Fatal("expected error for missing extension")
	}
}

func TestDiskUploaderRejectsOversizedFile(t *testing.T) {
	uploader := NewDiskUploader(t.TempDir())

	header := fileHeader(t, "image", "big.jpg", []byte("x"))
	header.Size = maxImageSize + 1

	if _, err := uploader.Upload(context.Background(), header); err == nil {
		t.Fatal("expected error for oversized file")
	}
}

func TestDiskUploaderDeleteConstrainedToUploads(t *testing.T) {
	root := t.TempDir()
	uploader := NewDiskUploader(root)

	if err := uploader.Delete("../etc/passwd"); err == nil {
		t.Fatal("expected refusal for path outside uploads")
	}
	if err := uploader.Delete("/secrets/key.pem"); err == nil {
		t.Fatal("expected refusal for non-upload path")
	}

	// Remote URLs and blanks are ignored.
	if err := uploader.Delete("https://media.example.com/abc.jpg"); err != nil {
		t.Fatalf("remote url should be ignored, got %v", err)
	}
	if err := uploader.Delete("  "); err != nil {
		t.Fatalf("blank path should be ignored, got %v", err)
	}

	// Missing files are not an error.
	if err := uploader.Delete("/uploads/gone.jpg"); err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
}

func TestRemoteUploaderReturnsSecureURL(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if _, ok := r.MultipartForm.File["file"]; !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://media.example.com/abc123.jpg",
		})
	}))
	defer server.Close()

	uploader := NewRemoteUploader(server.URL, "api-key")

	url, err := uploader.Upload(context.Background(), fileHeader(t, "image", "plant.jpg", []byte("jpegdata")))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if url != "https://media.example.com/abc123.jpg" {
		t.Fatalf("unexpected url: %s", url)
	}
	if gotAuth != "Bearer api-key" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}
}

func TestRemoteUploaderSurfacesUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer server.Close()

	uploader := NewRemoteUploader(server.URL, "api-key")

	if _, err := uploader.Upload(context.Background(), fileHeader(t, "image", "plant.jpg", []byte("x"))); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

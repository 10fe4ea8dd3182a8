package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"tutor_backend/internal/model"
	"tutor_backend/internal/util"
)

type memFiles struct {
	objects map[string][]byte
	err     error
}

func (m *memFiles) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[filename] = data
	return "/files/" + filename, nil
}

type stubExtractor struct {
	text string
	err  error
}

func (e stubExtractor) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	return e.text, e.err
}

func TestUploadStoresDocument(t *testing.T) {
	f := newFixture()
	files := &memFiles{}
	svc := NewUploadService(f.documents, files, stubExtractor{text: "Cell biology notes"}, f.progressService(), 1024)

	got, err := svc.Upload(context.Background(), UploadInput{
		StudentID:      "s1",
		FileName:       "Notes.PDF",
		MimeType:       "application/pdf",
		Data:           []byte("%PDF-1.4"),
		Classification: model.Classification{Subject: model.OptionalString("Biology")},
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if got.Status != "success" || got.FileID == "" {
		t.Fatalf("unexpected result %+v", got)
	}

	if len(files.objects) != 1 {
		t.Fatalf("expected one stored object, got %d", len(files.objects))
	}
	for name := range files.objects {
		if !strings.HasPrefix(name, "uploads/s1/") || !strings.HasSuffix(name, ".pdf") {
			t.Fatalf("unexpected object name %q", name)
		}
	}

	doc := f.documents.docs[0]
	if doc.ID != got.FileID || doc.ExtractedText != "Cell biology notes" || doc.FileSize != 8 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if !strings.HasPrefix(doc.FileURL, "/files/uploads/s1/") {
		t.Fatalf("unexpected file url %q", doc.FileURL)
	}
	if model.StringValue(doc.Subject) != "Biology" {
		t.Fatalf("classification should be stored, got %+v", doc.Classification)
	}
	if f.progress.records["s1"].TotalUploads != 1 {
		t.Fatal("progress should count the new upload")
	}
}

func TestUploadExtractionFailureStoresPlaceholder(t *testing.T) {
	f := newFixture()
	svc := NewUploadService(f.documents, &memFiles{}, stubExtractor{err: errors.New("ocr down")}, f.progressService(), 0)

	if _, err := svc.Upload(context.Background(), UploadInput{
		StudentID: "s1",
		FileName:  "scan.png",
		MimeType:  "image/png",
		Data:      []byte{0x89, 'P', 'N', 'G'},
	}); err != nil {
		t.Fatalf("extraction failure must not fail the upload: %v", err)
	}
	if f.documents.docs[0].ExtractedText != model.ExtractionFailedText {
		t.Fatalf("expected placeholder text, got %q", f.documents.docs[0].ExtractedText)
	}
}

func TestUploadRejects(t *testing.T) {
	tests := []struct {
		name string
		in   UploadInput
		want error
	}{
		{"missing student", UploadInput{FileName: "a.pdf", MimeType: "application/pdf", Data: []byte("x")}, util.ErrMissingStudentID},
		{"unsupported type", UploadInput{StudentID: "s1", FileName: "a.docx", MimeType: "application/msword", Data: []byte("x")}, util.ErrUnsupportedFileType},
		{"too large", UploadInput{StudentID: "s1", FileName: "a.pdf", MimeType: "application/pdf", Data: make([]byte, 11)}, util.ErrFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			files := &memFiles{}
			svc := NewUploadService(f.documents, files, stubExtractor{text: "x"}, f.progressService(), 10)

			if _, err := svc.Upload(context.Background(), tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(files.objects) != 0 || len(f.documents.docs) != 0 {
				t.Fatal("nothing should be stored for a rejected upload")
			}
		})
	}
}

func TestUploadStorageFailure(t *testing.T) {
	f := newFixture()
	// 根目录是普通文件，无法创建子目录
	root := filepath.Join(t.TempDir(), "root")
	if err := os.WriteFile(root, nil, 0644); err != nil {
		t.Fatal(err)
	}
	storage := &StorageService{Provider: &LocalStorageProvider{Root: root}}
	svc := NewUploadService(f.documents, storage, stubExtractor{text: "x"}, f.progressService(), 0)

	_, err := svc.Upload(context.Background(), UploadInput{StudentID: "s1", FileName: "a.pdf", MimeType: "application/pdf", Data: []byte("x")})
	if !errors.Is(err, util.ErrStorageFailed) {
		t.Fatalf("expected storage failure, got %v", err)
	}
	if len(f.documents.docs) != 0 {
		t.Fatal("no document should be recorded when storage fails")
	}
}

func TestLocalStorageProvider(t *testing.T) {
	root := t.TempDir()
	p := &LocalStorageProvider{Root: root}

	url, err := p.Upload(context.Background(), "uploads/s1/a.txt", bytes.NewReader([]byte("hello")), 5, "text/plain")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if url != "/files/uploads/s1/a.txt" {
		t.Fatalf("unexpected url %q", url)
	}
	data, err := os.ReadFile(filepath.Join(root, "uploads", "s1", "a.txt"))
	if err != nil || string(data) != "hello" {
		t.Fatalf("file not written: %q, %v", data, err)
	}

	if _, err := p.Upload(context.Background(), "../escape.txt", strings.NewReader("x"), 1, "text/plain"); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected path escape to be rejected, got %v", err)
	}
}

func TestPlainTextExtractor(t *testing.T) {
	var e PlainTextExtractor
	if got, err := e.ExtractText(context.Background(), []byte("  notes \n"), "text/plain"); err != nil || got != "notes" {
		t.Fatalf("unexpected extraction %q, %v", got, err)
	}
	if _, err := e.ExtractText(context.Background(), []byte("   "), "text/plain"); !errors.Is(err, ErrEmptyExtraction) {
		t.Fatalf("expected empty extraction, got %v", err)
	}
	if _, err := e.ExtractText(context.Background(), []byte("%PDF"), "application/pdf"); err == nil {
		t.Fatal("binary documents need an extraction endpoint")
	}
}

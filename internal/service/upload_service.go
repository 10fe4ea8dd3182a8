package service

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"strings"
	"tutor_backend/internal/model"
	"tutor_backend/internal/util"
	"tutor_backend/pkg/logger"
	"tutor_backend/pkg/tracing"

	"go.uber.org/zap"
)

type UploadInput struct {
	StudentID string
	FileName  string
	MimeType  string
	Data      []byte
	model.Classification
}

type UploadResult struct {
	Status string `json:"status"`
	FileID string `json:"fileId"`
}

type UploadService struct {
	Documents DocumentStore
	Files     FileStore
	Extractor Extractor
	Progress  ProgressRecomputer
	MaxBytes  int64
}

func NewUploadService(documents DocumentStore, files FileStore, extractor Extractor, progress ProgressRecomputer, maxBytes int64) *UploadService {
	return &UploadService{
		Documents: documents,
		Files:     files,
		Extractor: extractor,
		Progress:  progress,
		MaxBytes:  maxBytes,
	}
}

// Upload 保存文件并识别文字。识别失败时写入占位文本，上传仍然成功。
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (_ *UploadResult, err error) {
	ctx, span := tracing.StartStudentSpan(ctx, "upload.document", in.StudentID)
	defer func() { tracing.End(span, err) }()

	if in.StudentID == "" {
		return nil, util.ErrMissingStudentID
	}
	if !util.IsSupportedDocumentType(in.MimeType) {
		return nil, util.ErrUnsupportedFileType
	}
	size := int64(len(in.Data))
	if s.MaxBytes > 0 && size > s.MaxBytes {
		return nil, util.ErrFileTooLarge
	}

	objectName := path.Join("uploads", in.StudentID, model.GenerateUUID()+strings.ToLower(filepath.Ext(in.FileName)))
	fileURL, err := s.Files.Upload(ctx, objectName, bytes.NewReader(in.Data), size, in.MimeType)
	if err != nil {
		return nil, err
	}

	text, err := s.Extractor.ExtractText(ctx, in.Data, in.MimeType)
	if err != nil {
		logger.Log.Warn("Text extraction failed, storing placeholder",
			zap.String("studentId", in.StudentID),
			zap.String("fileName", in.FileName),
			zap.Error(err),
		)
		text = model.ExtractionFailedText
	}

	doc := &model.DocumentUpload{
		StudentID:      in.StudentID,
		FileName:       in.FileName,
		FileURL:        fileURL,
		FileSize:       size,
		MimeType:       in.MimeType,
		Classification: in.Classification,
		ExtractedText:  text,
	}
	if err := s.Documents.Create(ctx, doc); err != nil {
		return nil, util.StoreError(err)
	}

	if _, err := s.Progress.RecomputeProgress(ctx, in.StudentID); err != nil {
		return nil, err
	}

	logger.Log.Info("Document uploaded",
		zap.String("studentId", in.StudentID),
		zap.String("documentId", doc.ID),
		zap.Int64("size", size),
	)
	return &UploadResult{Status: "success", FileID: doc.ID}, nil
}

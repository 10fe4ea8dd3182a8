package model

import "time"

// ExtractionFailedText 文字识别失败时写入的占位内容，上传本身仍视为成功
const ExtractionFailedText = "Text extraction failed. Document uploaded successfully."

// swagger:model DocumentUpload
type DocumentUpload struct {
	UUIDBase
	StudentID string `gorm:"size:128;not null;index:idx_upload_student_created,priority:1" json:"studentId"`
	FileName  string `gorm:"size:255;not null" json:"fileName"`
	FileURL   string `gorm:"size:512" json:"fileUrl"`
	FileSize  int64  `json:"fileSize"`
	MimeType  string `gorm:"size:100" json:"mimeType"`
	Classification
	ExtractedText string    `gorm:"type:longtext" json:"extractedText"`
	CreatedAt     time.Time `gorm:"index:idx_upload_student_created,priority:2" json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (DocumentUpload) TableName() string {
	return "document_uploads"
}

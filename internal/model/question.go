package model

import (
	"time"

	"gorm.io/datatypes"
)

// SourceChunk 回答所引用的资料片段
type SourceChunk struct {
	Content  string  `json:"content"`
	UploadID string  `json:"uploadId"`
	Subject  *string `json:"subject,omitempty"`
	Topic    *string `json:"topic,omitempty"`
	Subtopic *string `json:"subtopic,omitempty"`
}

// swagger:model Question
type Question struct {
	UUIDBase
	StudentID    string `gorm:"size:128;not null;index:idx_question_student_created,priority:1" json:"studentId"`
	QuestionText string `gorm:"type:text;not null" json:"questionText"`
	AnswerText   string `gorm:"type:longtext" json:"answerText"`
	Classification
	SourceChunks datatypes.JSONSlice[SourceChunk] `gorm:"type:json" json:"sourceChunks"`
	CreatedAt    time.Time                        `gorm:"index:idx_question_student_created,priority:2" json:"createdAt"`
}

func (Question) TableName() string {
	return "questions"
}

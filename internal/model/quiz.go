package model

import (
	"time"

	"gorm.io/datatypes"
)

const QuizOptionCount = 4

type QuizItem struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Valid 恰好 4 个选项且正确答案下标在 [0,3]
func (q QuizItem) Valid() bool {
	return q.Question != "" &&
		len(q.Options) == QuizOptionCount &&
		q.CorrectAnswer >= 0 && q.CorrectAnswer < QuizOptionCount
}

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	StudentID string                        `gorm:"size:128;not null;index" json:"studentId"`
	Title     string                        `gorm:"size:255" json:"title"`
	Questions datatypes.JSONSlice[QuizItem] `gorm:"type:json" json:"questions"`
	Classification
	CreatedAt time.Time `json:"createdAt"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	QuizID         string                    `gorm:"type:varchar(36);not null;index" json:"quizId"`
	StudentID      string                    `gorm:"size:128;not null;index:idx_attempt_student_completed,priority:1" json:"studentId"`
	Answers        datatypes.JSONSlice[int]  `gorm:"type:json" json:"answers"`
	Score          int                       `gorm:"not null" json:"score"`
	TotalQuestions int                       `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers datatypes.JSONSlice[bool] `gorm:"type:json" json:"correctAnswers"`
	Feedback       string                    `gorm:"size:255" json:"feedback"`
	CompletedAt    time.Time                 `gorm:"autoCreateTime;index:idx_attempt_student_completed,priority:2" json:"completedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// CorrectCount 正确向量中 true 的个数
func (a *QuizAttempt) CorrectCount() int {
	n := 0
	for _, ok := range a.CorrectAnswers {
		if ok {
			n++
		}
	}
	return n
}

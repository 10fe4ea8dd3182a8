package model

import (
	"time"

	"gorm.io/datatypes"
)

type WeakTopic struct {
	Subject      string `json:"subject"`
	Topic        string `json:"topic"`
	Subtopic     string `json:"subtopic,omitempty"`
	MasteryScore int    `json:"mastery_score"`
}

type ActivityType string

const (
	ActivityQuestion ActivityType = "question"
	ActivityQuiz     ActivityType = "quiz"
)

type RecentActivity struct {
	Type      ActivityType `json:"type"`
	Title     string       `json:"title"`
	Score     *int         `json:"score,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

type TopicMastery struct {
	Topic              string `json:"topic"`
	MasteryScore       int    `json:"mastery_score"`
	QuestionsAttempted int    `json:"questions_attempted"`
}

type SubjectProgress struct {
	Subject string         `json:"subject"`
	Topics  []TopicMastery `json:"topics"`
}

// Progress 每个学生一条，每次重算整体替换
// swagger:model Progress
type Progress struct {
	StudentID         string                               `gorm:"primaryKey;size:128" json:"studentId"`
	TotalQuestions    int                                  `json:"totalQuestions"`
	TotalQuizzes      int                                  `json:"totalQuizzes"`
	AverageScore      float64                              `json:"averageScore"`
	TotalUploads      int                                  `json:"totalUploads"`
	WeakTopics        datatypes.JSONSlice[WeakTopic]       `gorm:"type:json" json:"weakTopics"`
	RecentActivity    datatypes.JSONSlice[RecentActivity]  `gorm:"type:json" json:"recentActivity"`
	ProgressBySubject datatypes.JSONSlice[SubjectProgress] `gorm:"type:json" json:"progressBySubject"`
	UpdatedAt         time.Time                            `json:"updatedAt"`
}

func (Progress) TableName() string {
	return "progress"
}

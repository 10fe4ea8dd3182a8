package model

import "time"

// LeaderboardEntry Rank 仅在读取时按排序位置赋值，不落库
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	StudentID      string    `gorm:"primaryKey;size:128" json:"studentId"`
	StudentName    string    `gorm:"size:100" json:"studentName"`
	Score          int       `gorm:"index:idx_leaderboard_order,priority:1" json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	AverageScore   float64   `json:"averageScore"`
	Rank           int       `gorm:"-" json:"rank"`
	UpdatedAt      time.Time `gorm:"index:idx_leaderboard_order,priority:2" json:"updatedAt"`
}

func (LeaderboardEntry) TableName() string {
	return "leaderboard_entries"
}

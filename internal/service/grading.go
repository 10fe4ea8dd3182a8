package service

import (
	"fmt"
	"math"
	"tutor_backend/internal/model"
	"tutor_backend/internal/util"
)

type GradeResult struct {
	Score          int
	Total          int
	Percentage     int
	CorrectAnswers []bool
	Feedback       string
}

// GradeQuiz 按位置逐题比对答案，纯函数。
// 答案数量与题目数量不一致时返回 ErrAnswerCountMismatch，调用方不得落库。
func GradeQuiz(quiz *model.Quiz, answers []int) (*GradeResult, error) {
	total := len(quiz.Questions)
	if len(answers) != total {
		return nil, util.ErrAnswerCountMismatch
	}

	correct := make([]bool, total)
	score := 0
	for i, item := range quiz.Questions {
		if answers[i] == item.CorrectAnswer {
			correct[i] = true
			score++
		}
	}

	pct := percentage(score, total)
	return &GradeResult{
		Score:          score,
		Total:          total,
		Percentage:     pct,
		CorrectAnswers: correct,
		Feedback:       fmt.Sprintf("You scored %d out of %d (%d%%)", score, total, pct),
	}, nil
}

// percentage round(part/whole*100)，whole 为 0 时返回 0
func percentage(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

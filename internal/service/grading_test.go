package service

import (
	"errors"
	"reflect"
	"testing"
	"tutor_backend/internal/model"
	"tutor_backend/internal/util"
)

func quizWithAnswers(answers ...int) *model.Quiz {
	items := make([]model.QuizItem, len(answers))
	for i, a := range answers {
		items[i] = model.QuizItem{Question: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: a}
	}
	return &model.Quiz{Questions: items}
}

func TestGradeQuiz(t *testing.T) {
	got, err := GradeQuiz(quizWithAnswers(1, 0, 2), []int{1, 1, 2})
	if err != nil {
		t.Fatalf("grade failed: %v", err)
	}
	if got.Score != 2 || got.Total != 3 || got.Percentage != 67 {
		t.Fatalf("unexpected result %+v", got)
	}
	if !reflect.DeepEqual(got.CorrectAnswers, []bool{true, false, true}) {
		t.Fatalf("unexpected correctness %v", got.CorrectAnswers)
	}
	if got.Feedback != "You scored 2 out of 3 (67%)" {
		t.Fatalf("unexpected feedback %q", got.Feedback)
	}
}

func TestGradeQuizAnswerCountMismatch(t *testing.T) {
	tests := []struct {
		name    string
		answers []int
	}{
		{"too few", []int{1}},
		{"too many", []int{1, 0, 2, 3}},
		{"empty", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GradeQuiz(quizWithAnswers(1, 0, 2), tt.answers)
			if !errors.Is(err, util.ErrAnswerCountMismatch) {
				t.Fatalf("expected answer count mismatch, got %v", err)
			}
		})
	}
}

func TestGradeEmptyQuiz(t *testing.T) {
	got, err := GradeQuiz(&model.Quiz{}, []int{})
	if err != nil {
		t.Fatalf("grade failed: %v", err)
	}
	if got.Percentage != 0 || got.Feedback != "You scored 0 out of 0 (0%)" {
		t.Fatalf("unexpected result %+v", got)
	}
}

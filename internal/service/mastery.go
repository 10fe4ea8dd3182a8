package service

import (
	"sort"
	"tutor_backend/internal/model"
)

const (
	maxWeakTopics         = 5
	minWeakTopicAttempts  = 2
	recentItemsPerKind    = 5
	maxRecentActivity     = 10
	activityTitleMaxRunes = 50
	quizCompletedTitle    = "Quiz completed"
	unknownSubject        = "Unknown"
)

// topicKey 作为 map 键直接使用，避免拼接字符串再拆分时名称中含分隔符导致错位
type topicKey struct {
	subject  string
	topic    string
	subtopic string
}

type topicTally struct {
	total   int
	correct int
	count   int
}

// averageScore 各次作答得分率的平均值，百分制；无作答时为 0
func averageScore(attempts []model.QuizAttempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	var sum float64
	for _, a := range attempts {
		if a.TotalQuestions == 0 {
			continue
		}
		sum += float64(a.Score) / float64(a.TotalQuestions)
	}
	return sum / float64(len(attempts)) * 100
}

// weakTopics 按 (学科, 主题, 子主题) 分组，至少 2 次作答的分组参与排名，
// 掌握度升序取前 5。total 累加作答得分，correct 累加正确题数。
func weakTopics(attempts []model.QuizAttempt, quizzes map[string]*model.Quiz) []model.WeakTopic {
	tallies := make(map[topicKey]*topicTally)
	var order []topicKey

	for i := range attempts {
		a := &attempts[i]
		quiz, ok := quizzes[a.QuizID]
		if !ok || model.StringValue(quiz.Topic) == "" {
			continue
		}

		subject := model.StringValue(quiz.Subject)
		if subject == "" {
			subject = unknownSubject
		}
		key := topicKey{
			subject:  subject,
			topic:    model.StringValue(quiz.Topic),
			subtopic: model.StringValue(quiz.Subtopic),
		}

		t, ok := tallies[key]
		if !ok {
			t = &topicTally{}
			tallies[key] = t
			order = append(order, key)
		}
		t.total += a.Score
		t.correct += a.CorrectCount()
		t.count++
	}

	result := make([]model.WeakTopic, 0, len(order))
	for _, key := range order {
		t := tallies[key]
		if t.count < minWeakTopicAttempts {
			continue
		}
		result = append(result, model.WeakTopic{
			Subject:      key.subject,
			Topic:        key.topic,
			Subtopic:     key.subtopic,
			MasteryScore: percentage(t.correct, t.total),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].MasteryScore < result[j].MasteryScore
	})
	if len(result) > maxWeakTopics {
		result = result[:maxWeakTopics]
	}
	return result
}

// recentActivity 最近 5 条提问与最近 5 次测验合并，按时间倒序最多 10 条。
// 入参均已按时间倒序。
func recentActivity(questions []model.Question, attempts []model.QuizAttempt) []model.RecentActivity {
	activities := make([]model.RecentActivity, 0, recentItemsPerKind*2)

	for i := 0; i < len(questions) && i < recentItemsPerKind; i++ {
		q := questions[i]
		activities = append(activities, model.RecentActivity{
			Type:      model.ActivityQuestion,
			Title:     truncateRunes(q.QuestionText, activityTitleMaxRunes) + "...",
			Timestamp: q.CreatedAt,
		})
	}

	for i := 0; i < len(attempts) && i < recentItemsPerKind; i++ {
		a := attempts[i]
		score := percentage(a.Score, a.TotalQuestions)
		activities = append(activities, model.RecentActivity{
			Type:      model.ActivityQuiz,
			Title:     quizCompletedTitle,
			Score:     &score,
			Timestamp: a.CompletedAt,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > maxRecentActivity {
		activities = activities[:maxRecentActivity]
	}
	return activities
}

type subjectTally struct {
	subject string
	topics  map[string]*topicTally
	order   []string
}

// progressBySubject 学科与主题均存在的测验参与统计。
// 主题按掌握度降序，学科按其主题平均掌握度降序。
func progressBySubject(attempts []model.QuizAttempt, quizzes map[string]*model.Quiz) []model.SubjectProgress {
	subjects := make(map[string]*subjectTally)
	var order []string

	for i := range attempts {
		a := &attempts[i]
		quiz, ok := quizzes[a.QuizID]
		if !ok {
			continue
		}
		subject, topic := model.StringValue(quiz.Subject), model.StringValue(quiz.Topic)
		if subject == "" || topic == "" {
			continue
		}

		st, ok := subjects[subject]
		if !ok {
			st = &subjectTally{subject: subject, topics: make(map[string]*topicTally)}
			subjects[subject] = st
			order = append(order, subject)
		}
		t, ok := st.topics[topic]
		if !ok {
			t = &topicTally{}
			st.topics[topic] = t
			st.order = append(st.order, topic)
		}
		t.total += a.TotalQuestions
		t.correct += a.CorrectCount()
		t.count++
	}

	result := make([]model.SubjectProgress, 0, len(order))
	means := make(map[string]float64, len(order))
	for _, name := range order {
		st := subjects[name]
		topics := make([]model.TopicMastery, 0, len(st.order))
		sum := 0
		for _, topic := range st.order {
			t := st.topics[topic]
			m := percentage(t.correct, t.total)
			sum += m
			topics = append(topics, model.TopicMastery{
				Topic:              topic,
				MasteryScore:       m,
				QuestionsAttempted: t.count,
			})
		}
		sort.SliceStable(topics, func(i, j int) bool {
			return topics[i].MasteryScore > topics[j].MasteryScore
		})
		means[name] = float64(sum) / float64(len(topics))
		result = append(result, model.SubjectProgress{Subject: name, Topics: topics})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return means[result[i].Subject] > means[result[j].Subject]
	})
	return result
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}


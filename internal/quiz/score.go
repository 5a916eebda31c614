package quiz

import "study-quiz-service/internal/domain"

const (
	excellentThreshold = 80.0
	goodThreshold      = 60.0
)

// GradeFor buckets a percentage into a grade.
func GradeFor(percentage float64) domain.Grade {
	switch {
	case percentage >= excellentThreshold:
		return domain.GradeExcellent
	case percentage >= goodThreshold:
		return domain.GradeGood
	default:
		return domain.GradeKeepLearning
	}
}

// Score computes the result for a captured session state.
func (snap Snapshot) Score() domain.ScoreResult {
	return score(snap.Questions, snap.Answers)
}

func isCorrect(q domain.Question, selected string) bool {
	return q.AnswerKey != "" && selected == q.AnswerKey
}

func score(questions []domain.Question, answers map[int]string) domain.ScoreResult {
	result := domain.ScoreResult{
		Total:    len(questions),
		Answered: len(answers),
	}
	for _, q := range questions {
		if selected, ok := answers[q.ID]; ok && isCorrect(q, selected) {
			result.Correct++
		}
	}
	if result.Total > 0 {
		result.Percentage = float64(result.Correct) / float64(result.Total) * 100
	}
	result.Grade = GradeFor(result.Percentage)
	return result
}

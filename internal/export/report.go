package export

import (
	"time"

	"study-quiz-service/internal/domain"
	"study-quiz-service/internal/quiz"
	"study-quiz-service/internal/summary"
)

const (
	appTitle   = "STUDY ASSISTANT - QUIZ GENERATOR"
	footerLine = "Generated using Study Assistant"
)

// Report is everything an export needs, captured once from a session so that
// every output format shows the same questions, statuses and score.
type Report struct {
	Summary       string
	SummaryBlocks []domain.Block
	QuizText      string
	Views         []domain.QuestionView
	// Score is nil until the quiz has been submitted.
	Score       *domain.ScoreResult
	GeneratedAt time.Time
}

// NewReport derives a report from the summary text and the quiz session.
// A nil session yields a report without questions.
func NewReport(summaryText string, s *quiz.Session, now time.Time) Report {
	r := Report{
		Summary:       summaryText,
		SummaryBlocks: summary.Format(summaryText),
		GeneratedAt:   now,
	}
	if s == nil {
		return r
	}

	snap := s.Snapshot()
	r.QuizText = quiz.Format(snap.Questions)
	r.Views = quiz.RenderSnapshot(snap, domain.ModeReview)
	if snap.Submitted {
		score := snap.Score()
		r.Score = &score
	}
	return r
}

func (r Report) Submitted() bool {
	return r.Score != nil
}

func statusLabel(status domain.QuestionStatus) string {
	switch status {
	case domain.StatusCorrect:
		return "CORRECT"
	case domain.StatusIncorrect:
		return "INCORRECT"
	default:
		return "NOT ANSWERED"
	}
}

func selectedOption(v domain.QuestionView) (domain.OptionView, bool) {
	for _, opt := range v.Options {
		if opt.Selected {
			return opt, true
		}
	}
	return domain.OptionView{}, false
}

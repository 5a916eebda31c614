package quiz

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"study-quiz-service/internal/domain"
)

// Render builds the per-question view-model for a session.
// Review mode and submitted sessions lock the options and reveal the answer;
// correctness is only reported once the session is submitted.
func Render(s *Session, mode domain.Mode) []domain.QuestionView {
	return RenderSnapshot(s.Snapshot(), mode)
}

// RenderSnapshot renders an already captured session state.
func RenderSnapshot(snap Snapshot, mode domain.Mode) []domain.QuestionView {
	locked := snap.Submitted || mode == domain.ModeReview

	views := make([]domain.QuestionView, 0, len(snap.Questions))
	for _, q := range snap.Questions {
		selected := snap.Answers[q.ID]
		view := domain.QuestionView{
			ID:           q.ID,
			Prompt:       q.Prompt,
			Options:      optionViews(q, selected),
			Selected:     selected,
			Submitted:    snap.Submitted,
			Locked:       locked,
			RevealAnswer: locked,
		}
		if locked {
			view.AnswerText = q.AnswerText
		}
		if snap.Submitted {
			view.IsCorrect = isCorrect(q, selected)
			view.Status = statusOf(q, selected)
		}
		views = append(views, view)
	}
	return views
}

// SortedKeys returns the option keys of q in display order.
func SortedKeys(q domain.Question) []string {
	keys := lo.Keys(q.Options)
	slices.Sort(keys)
	return keys
}

func optionViews(q domain.Question, selected string) []domain.OptionView {
	return lo.Map(SortedKeys(q), func(key string, _ int) domain.OptionView {
		return domain.OptionView{Key: key, Text: q.Options[key], Selected: key == selected}
	})
}

func statusOf(q domain.Question, selected string) domain.QuestionStatus {
	switch {
	case selected == "":
		return domain.StatusUnanswered
	case isCorrect(q, selected):
		return domain.StatusCorrect
	default:
		return domain.StatusIncorrect
	}
}

// Format writes questions back into the quiz text grammar accepted by Parse.
func Format(questions []domain.Question) string {
	var sb strings.Builder
	for i, q := range questions {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Question %d: %s\n", q.ID, q.Prompt)
		for _, key := range SortedKeys(q) {
			fmt.Fprintf(&sb, "%s) %s\n", key, q.Options[key])
		}
		if q.AnswerText != "" {
			fmt.Fprintf(&sb, "Answer: %s\n", q.AnswerText)
		}
	}
	return sb.String()
}

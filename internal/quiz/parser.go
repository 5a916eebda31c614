package quiz

import (
	"regexp"
	"strings"

	"study-quiz-service/internal/domain"
)

var (
	questionMarker = regexp.MustCompile(`Question\s*\d+\s*:`)
	optionLine     = regexp.MustCompile(`(?i)^([a-d])\)\s*(.+)$`)
	answerLine     = regexp.MustCompile(`(?i)^answer:\s*`)
	answerKeyLead  = regexp.MustCompile(`(?i)^([a-d])\)`)
)

// Parse turns generated quiz text into ordered questions. The number in each
// "Question N:" marker is ignored; IDs are assigned by position starting at 1.
// Malformed blocks are kept with empty options or answer fields.
func Parse(text string) []domain.Question {
	fragments := questionMarker.Split(text, -1)

	questions := make([]domain.Question, 0, len(fragments))
	for _, fragment := range fragments {
		block := strings.TrimSpace(fragment)
		if block == "" {
			continue
		}
		questions = append(questions, parseBlock(len(questions)+1, block))
	}
	return questions
}

func parseBlock(id int, block string) domain.Question {
	q := domain.Question{
		ID:      id,
		Options: make(map[string]string),
	}

	var prompt []string
	seenAnswer := false
	for _, raw := range strings.Split(block, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := optionLine.FindStringSubmatch(line); m != nil {
			key := strings.ToLower(m[1])
			if _, dup := q.Options[key]; !dup {
				q.Options[key] = strings.TrimSpace(m[2])
			}
			continue
		}

		if loc := answerLine.FindStringIndex(line); loc != nil {
			seenAnswer = true
			q.AnswerText = strings.TrimSpace(line[loc[1]:])
			q.AnswerKey = ""
			if m := answerKeyLead.FindStringSubmatch(q.AnswerText); m != nil {
				q.AnswerKey = strings.ToLower(m[1])
			}
			continue
		}

		if len(q.Options) == 0 && !seenAnswer {
			prompt = append(prompt, line)
		}
	}

	q.Prompt = strings.TrimSpace(strings.Join(prompt, " "))
	return q
}

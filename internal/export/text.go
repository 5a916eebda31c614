package export

import (
	"fmt"
	"strings"
)

const ruleWidth = 70

var (
	rule      = strings.Repeat("=", ruleWidth)
	thinRule  = strings.Repeat("-", ruleWidth)
	boxBorder = strings.Repeat("═", ruleWidth)
)

// Text renders the plain-text report. Sections always appear in the order
// header, summary, quiz, results (submitted quizzes only), footer.
func Text(r Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "╔%s╗\n", boxBorder)
	fmt.Fprintf(&sb, "║%s║\n", center(appTitle, ruleWidth))
	fmt.Fprintf(&sb, "╚%s╝\n\n", boxBorder)

	writeSection(&sb, "SUMMARY")
	sb.WriteString(strings.TrimSpace(r.Summary))
	sb.WriteString("\n\n")

	writeSection(&sb, "QUIZ QUESTIONS")
	sb.WriteString(strings.TrimSpace(r.QuizText))
	sb.WriteString("\n")

	if r.Submitted() {
		writeResults(&sb, r)
	}

	fmt.Fprintf(&sb, "\n%s\n\n", rule)
	fmt.Fprintf(&sb, "%s\n", footerLine)
	fmt.Fprintf(&sb, "Date: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "%s\n", rule)
	return sb.String()
}

func writeSection(sb *strings.Builder, title string) {
	fmt.Fprintf(sb, "%s\n%s\n%s\n\n", rule, center(title, ruleWidth), rule)
}

func writeResults(sb *strings.Builder, r Report) {
	score := r.Score
	sb.WriteString("\n\n")
	writeSection(sb, "QUIZ RESULTS")

	sb.WriteString("PERFORMANCE SUMMARY:\n")
	fmt.Fprintf(sb, "%s\n", thinRule)
	fmt.Fprintf(sb, "  Score:           %d/%d questions correct\n", score.Correct, score.Total)
	fmt.Fprintf(sb, "  Percentage:      %.1f%%\n", score.Percentage)
	fmt.Fprintf(sb, "  Answered:        %d/%d questions\n", score.Answered, score.Total)
	fmt.Fprintf(sb, "  Grade:           %s\n", score.Grade.Label())
	fmt.Fprintf(sb, "%s\n\n", thinRule)

	sb.WriteString("DETAILED ANSWER REVIEW:\n")
	fmt.Fprintf(sb, "%s\n", rule)
	for _, v := range r.Views {
		yourAnswer := "Not answered"
		if v.Selected != "" {
			text := "N/A"
			if opt, ok := selectedOption(v); ok {
				text = opt.Text
			}
			yourAnswer = fmt.Sprintf("%s) %s", strings.ToUpper(v.Selected), text)
		}
		correct := v.AnswerText
		if correct == "" {
			correct = "N/A"
		}

		fmt.Fprintf(sb, "\nQuestion %d: %s\n", v.ID, v.Prompt)
		fmt.Fprintf(sb, "%s\n", thinRule)
		fmt.Fprintf(sb, "  Your Answer:     %s\n", yourAnswer)
		fmt.Fprintf(sb, "  Correct Answer:  %s\n", correct)
		fmt.Fprintf(sb, "  Status:          %s\n", statusLabel(v.Status))
		fmt.Fprintf(sb, "%s\n", rule)
	}
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

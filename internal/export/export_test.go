package export

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"study-quiz-service/internal/quiz"
)

const (
	testSummary = "### Key Ideas\n• **Clarity** matters\nContext helps"
	testQuiz    = "Question 1: What is 2+2?\na) 3\nb) 4\nc) 5\nd) 6\nAnswer: b) 4\n\nQuestion 2: Capital of France?\na) Paris\nb) Rome\nAnswer: a) Paris\n\nQuestion 3: Unanswered?\na) yes\nb) no\nAnswer: a) yes"
)

var fixedTime = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func TestNewReportBeforeSubmit(t *testing.T) {
	s := quiz.NewSession(quiz.Parse(testQuiz))
	_ = s.Select(1, "b")

	r := NewReport(testSummary, s, fixedTime)
	if r.Submitted() || r.Score != nil {
		t.Fatalf("expected no score before submission")
	}
	if len(r.Views) != 3 || r.Views[0].AnswerText != "b) 4" {
		t.Fatalf("expected review-style views with revealed answers, got %+v", r.Views)
	}
	if len(r.SummaryBlocks) != 3 {
		t.Fatalf("expected 3 summary blocks, got %d", len(r.SummaryBlocks))
	}
}

func TestTextWithoutSubmission(t *testing.T) {
	s := quiz.NewSession(quiz.Parse(testQuiz))
	out := Text(NewReport(testSummary, s, fixedTime))

	if strings.Contains(out, "QUIZ RESULTS") || strings.Contains(out, "Status:") {
		t.Fatalf("unsubmitted export must not contain results:\n%s", out)
	}
	if !strings.Contains(out, "Answer: b) 4") {
		t.Fatalf("unsubmitted export must reveal correct answers:\n%s", out)
	}
	assertOrder(t, out, appTitle, "SUMMARY", "QUIZ QUESTIONS", footerLine, "Date: 2026-10-19 09:30:00")
}

func TestTextWithResults(t *testing.T) {
	s := quiz.NewSession(quiz.Parse(testQuiz))
	_ = s.Select(1, "b")
	_ = s.Select(2, "b")
	_, _ = s.Submit()

	out := Text(NewReport(testSummary, s, fixedTime))
	assertOrder(t, out, "SUMMARY", "QUIZ QUESTIONS", "QUIZ RESULTS", footerLine)
	for _, want := range []string{
		"Score:           1/3 questions correct",
		"Percentage:      33.3%",
		"Answered:        2/3 questions",
		"Grade:           Keep Learning",
		"Your Answer:     B) 4",
		"Your Answer:     B) Rome",
		"Your Answer:     Not answered",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in export:\n%s", want, out)
		}
	}
	review := out[strings.Index(out, "DETAILED ANSWER REVIEW"):]
	assertOrder(t, review, "Status:          CORRECT", "Status:          INCORRECT", "Status:          NOT ANSWERED")
}

func TestTextQuizSectionParsesBack(t *testing.T) {
	s := quiz.NewSession(quiz.Parse(testQuiz))
	r := NewReport(testSummary, s, fixedTime)
	if got := quiz.Parse(r.QuizText); len(got) != 3 || got[1].AnswerKey != "a" {
		t.Fatalf("quiz section did not parse back: %+v", got)
	}
}

func TestDocumentRenders(t *testing.T) {
	s := quiz.NewSession(quiz.Parse(testQuiz))
	plain, err := Document(NewReport(testSummary, s, fixedTime))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if !bytes.HasPrefix(plain, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", plain[:8])
	}
}

func TestDocumentWithoutSubmission(t *testing.T) {
	s := quiz.NewSession(quiz.Parse(testQuiz))
	_ = s.Select(1, "b")
	out, err := renderDocument(NewReport(testSummary, s, fixedTime), false)
	if err != nil {
		t.Fatalf("document: %v", err)
	}

	assertPDFOrder(t, out, "Summary", "Quiz Questions & Answers", "Question 1: What is 2+2?", "Answer: b) 4", footerLine)
	for _, absent := range []string{"QUIZ RESULTS", "[YOUR ANSWER]", "CORRECT - ", "NOT ANSWERED", "Score: "} {
		if bytes.Contains(out, pdfString(absent)) {
			t.Fatalf("unsubmitted document must not contain %q", absent)
		}
	}
}

func TestDocumentWithResults(t *testing.T) {
	s := quiz.NewSession(quiz.Parse(testQuiz))
	_ = s.Select(1, "b")
	_ = s.Select(2, "b")
	_, _ = s.Submit()

	out, err := renderDocument(NewReport(testSummary, s, fixedTime), false)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	assertPDFOrder(t, out,
		"Summary",
		"Quiz Questions & Answers",
		"[YOUR ANSWER] b) 4",
		"CORRECT - Answer: b) 4",
		"[YOUR ANSWER] b) Rome",
		"INCORRECT - Correct answer: a) Paris",
		"NOT ANSWERED - Correct answer: a) yes",
		"QUIZ RESULTS",
		"Score: 1/3 questions correct",
		"Percentage: 33.3%",
		"Grade: Keep Learning",
		footerLine,
	)
}

func TestDocumentKeepsNonLatinText(t *testing.T) {
	out, err := renderDocument(NewReport("### Ключевые идеи\n- α → β", nil, fixedTime), false)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	assertPDFOrder(t, out, "Ключевые идеи", "- α → β")
}

func TestDocumentWithoutQuiz(t *testing.T) {
	out, err := Document(NewReport("", nil, fixedTime))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("expected a PDF even without content")
	}
}

func assertOrder(t *testing.T, text string, parts ...string) {
	t.Helper()
	pos := 0
	for _, p := range parts {
		i := strings.Index(text[pos:], p)
		if i < 0 {
			t.Fatalf("expected %q after offset %d in:\n%s", p, pos, text)
		}
		pos += i + len(p)
	}
}

// pdfString encodes text the way an uncompressed content stream holds it
// for a UTF-8 font: UTF-16BE with PDF string escapes.
func pdfString(text string) []byte {
	var raw []byte
	for _, u := range utf16.Encode([]rune(text)) {
		raw = append(raw, byte(u>>8), byte(u))
	}
	var out []byte
	for _, b := range raw {
		switch b {
		case '\\', '(', ')':
			out = append(out, '\\', b)
		case '\r':
			out = append(out, '\\', 'r')
		default:
			out = append(out, b)
		}
	}
	return out
}

func assertPDFOrder(t *testing.T, doc []byte, parts ...string) {
	t.Helper()
	pos := 0
	for _, p := range parts {
		i := bytes.Index(doc[pos:], pdfString(p))
		if i < 0 {
			t.Fatalf("expected %q after offset %d in document", p, pos)
		}
		pos += i + len(pdfString(p))
	}
}

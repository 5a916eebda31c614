package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"study-quiz-service/internal/domain"
)

const (
	pageMargin   = 72.0
	bottomMargin = 36.0
	optionIndent = 20.0
	fontFamily   = "Go"
)

type rgb struct{ r, g, b int }

var (
	colorTitle     = rgb{0x1E, 0x88, 0xE5}
	colorHeading   = rgb{0x15, 0x65, 0xC0}
	colorBody      = rgb{0x21, 0x21, 0x21}
	colorCorrect   = rgb{0x28, 0xA7, 0x45}
	colorIncorrect = rgb{0xDC, 0x35, 0x45}
)

// Document renders the report as a paginated US Letter PDF with the same
// section order as Text, set in embedded UTF-8 Go fonts.
func Document(r Report) ([]byte, error) {
	return renderDocument(r, true)
}

func renderDocument(r Report, compress bool) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(compress)
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", goitalic.TTF)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.SetTitle(appTitle, true)
	pdf.SetCreator("study-quiz-service", true)
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.SetModificationDate(r.GeneratedAt)
	pdf.AliasNbPages("")

	w := &docWriter{pdf: pdf}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-bottomMargin + 8)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(0x66, 0x66, 0x66)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	w.paragraph(appTitle, "B", 20, colorTitle, 0, 28)
	w.paragraph("Generated on: "+r.GeneratedAt.Format("2006-01-02 15:04"), "", 10, colorBody, 0, 14)
	pdf.Ln(18)

	w.heading("Summary")
	for _, block := range r.SummaryBlocks {
		text := strings.ReplaceAll(block.Text, "**", "")
		if block.Kind == domain.BlockHeading {
			w.paragraph(text, "B", 13, colorHeading, 0, 18)
			continue
		}
		w.paragraph(text, "", 11, colorBody, 0, 16)
	}
	pdf.Ln(18)

	w.heading("Quiz Questions & Answers")
	for _, v := range r.Views {
		w.question(v, r.Submitted())
	}

	if r.Submitted() {
		pdf.Ln(12)
		w.results(*r.Score)
	}

	pdf.Ln(18)
	w.paragraph(footerLine, "", 10, colorBody, 0, 14)

	var buf bytes.Buffer
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type docWriter struct {
	pdf *fpdf.Fpdf
}

func (w *docWriter) paragraph(text, style string, size float64, c rgb, indent, lineHeight float64) {
	w.pdf.SetFont(fontFamily, style, size)
	w.pdf.SetTextColor(c.r, c.g, c.b)
	w.pdf.SetX(pageMargin + indent)
	w.pdf.MultiCell(0, lineHeight, text, "", "L", false)
}

func (w *docWriter) heading(text string) {
	w.pdf.Ln(6)
	w.paragraph(text, "B", 16, colorHeading, 0, 22)
	w.pdf.Ln(6)
}

func (w *docWriter) results(score domain.ScoreResult) {
	w.paragraph("QUIZ RESULTS", "B", 18, colorIncorrect, 0, 24)
	w.paragraph(rule, "", 8, colorBody, 0, 10)
	w.paragraph("PERFORMANCE SUMMARY:", "B", 12, colorBody, 0, 18)
	w.paragraph(fmt.Sprintf("Score: %d/%d questions correct", score.Correct, score.Total), "B", 12, colorBody, 0, 18)
	w.paragraph(fmt.Sprintf("Percentage: %.1f%%", score.Percentage), "B", 12, colorBody, 0, 18)
	w.paragraph(fmt.Sprintf("Answered: %d/%d questions", score.Answered, score.Total), "B", 12, colorBody, 0, 18)
	w.paragraph("Grade: "+score.Grade.Label(), "B", 13, gradeColor(score.Grade), 0, 20)
	w.paragraph(rule, "", 8, colorBody, 0, 10)
	w.pdf.Ln(18)
}

func (w *docWriter) question(v domain.QuestionView, submitted bool) {
	w.pdf.Ln(6)
	w.paragraph(fmt.Sprintf("Question %d: %s", v.ID, v.Prompt), "B", 12, colorBody, 0, 16)
	for _, opt := range v.Options {
		text := fmt.Sprintf("%s) %s", opt.Key, opt.Text)
		style := ""
		if submitted && opt.Selected {
			text = "[YOUR ANSWER] " + text
			style = "B"
		}
		w.paragraph(text, style, 11, colorBody, optionIndent, 15)
	}

	answer := v.AnswerText
	if answer == "" {
		answer = "N/A"
	}
	switch {
	case !submitted:
		w.paragraph("Answer: "+answer, "B", 11, colorCorrect, optionIndent, 16)
	case v.Status == domain.StatusCorrect:
		w.paragraph("CORRECT - Answer: "+answer, "B", 11, colorCorrect, optionIndent, 16)
	case v.Status == domain.StatusIncorrect:
		w.paragraph("INCORRECT - Correct answer: "+answer, "B", 11, colorIncorrect, optionIndent, 16)
	default:
		w.paragraph("NOT ANSWERED - Correct answer: "+answer, "B", 11, colorCorrect, optionIndent, 16)
	}
	w.pdf.Ln(8)
}

func gradeColor(g domain.Grade) rgb {
	switch g {
	case domain.GradeExcellent:
		return colorCorrect
	case domain.GradeGood:
		return rgb{0x17, 0xA2, 0xB8}
	default:
		return rgb{0xFF, 0xC1, 0x07}
	}
}

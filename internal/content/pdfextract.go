package content

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"study-quiz-service/internal/domain"
)

// ExtractPDFText returns the plain text of a PDF document. A document with no
// extractable text (for example a scanned image) yields ErrEmptyContent.
func ExtractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "", domain.ErrEmptyContent
	}
	return text, nil
}

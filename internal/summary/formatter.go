package summary

import (
	"strings"

	"study-quiz-service/internal/domain"
)

// BulletPrefix is prepended to summary lines that are not already bullets.
const BulletPrefix = "• "

// Format splits generated summary text into display blocks.
// Lines led by '#' become headings, lines led by '-', '•' or '*' stay bullets as written,
// and any other non-blank line is turned into a bullet.
func Format(text string) []domain.Block {
	var blocks []domain.Block
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			level := len(line) - len(strings.TrimLeft(line, "#"))
			blocks = append(blocks, domain.Block{
				Kind:  domain.BlockHeading,
				Level: level,
				Text:  strings.TrimSpace(line[level:]),
			})
			continue
		}

		if !isBullet(line) {
			line = BulletPrefix + line
		}
		blocks = append(blocks, domain.Block{Kind: domain.BlockBullet, Text: line})
	}
	return blocks
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*")
}

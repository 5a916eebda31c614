package summary

import (
	"testing"

	"study-quiz-service/internal/domain"
)

func TestFormatBlocks(t *testing.T) {
	text := "### Summary of Prompt Engineering\n\n• **Definition**:\n  - indented dash\n* star bullet\nplain sentence\n\n## Tips\n#NoSpace"

	got := Format(text)
	want := []domain.Block{
		{Kind: domain.BlockHeading, Level: 3, Text: "Summary of Prompt Engineering"},
		{Kind: domain.BlockBullet, Text: "• **Definition**:"},
		{Kind: domain.BlockBullet, Text: "- indented dash"},
		{Kind: domain.BlockBullet, Text: "* star bullet"},
		{Kind: domain.BlockBullet, Text: "• plain sentence"},
		{Kind: domain.BlockHeading, Level: 2, Text: "Tips"},
		{Kind: domain.BlockHeading, Level: 1, Text: "NoSpace"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d blocks, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("block %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestFormatDropsBlankInput(t *testing.T) {
	if got := Format("\n   \n\t\n"); len(got) != 0 {
		t.Fatalf("expected no blocks, got %+v", got)
	}
}

package content

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an educational assistant helping students study effectively."

func summaryPrompt(material string) string {
	var sb strings.Builder
	sb.WriteString("Study Material:\n")
	sb.WriteString(material)
	sb.WriteString("\n\nPlease summarize the above study material into clear, concise bullet points ")
	sb.WriteString("that capture the key concepts and important information.\n")
	sb.WriteString("Focus on the main ideas and essential facts that students should remember.\n\n")
	sb.WriteString("Summary:")
	return sb.String()
}

// quizPrompt pins the output to the grammar quiz.Parse understands.
func quizPrompt(material string, count int) string {
	var sb strings.Builder
	sb.WriteString("Study Material:\n")
	sb.WriteString(material)
	fmt.Fprintf(&sb, "\n\nBased on the above study material, generate %d multiple-choice quiz questions ", count)
	sb.WriteString("that test understanding of the key concepts.\n\n")
	sb.WriteString("For each question:\n")
	sb.WriteString("1. Create a clear, specific question\n")
	sb.WriteString("2. Provide 4 answer options (a, b, c, d)\n")
	sb.WriteString("3. Make sure only one option is correct\n")
	sb.WriteString("4. Indicate the correct answer\n")
	sb.WriteString("5. Ensure questions cover different aspects of the material\n\n")
	sb.WriteString("Format each question exactly as follows:\n\n")
	sb.WriteString("Question 1: [Your question here]\n")
	sb.WriteString("a) [Option A]\nb) [Option B]\nc) [Option C]\nd) [Option D]\n")
	sb.WriteString("Answer: [Correct option letter]) [Correct answer text]\n\n")
	sb.WriteString("Quiz Questions:")
	return sb.String()
}

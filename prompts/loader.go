package prompts

import (
	_ "embed"
	"fmt"
)

//go:embed research.txt
var Research string

// ResearchPrompt fills the research template with the user's question
func ResearchPrompt(question string) string {
	return fmt.Sprintf(Research, question)
}

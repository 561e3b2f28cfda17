package summarize

import "fmt"

const summaryPromptTemplate = `Write a concise summary of %d to %d characters for the following voice message:

%s`

// SummaryPrompt renders the generation prompt for the given length window.
func SummaryPrompt(min, max int, text string) string {
	return fmt.Sprintf(summaryPromptTemplate, min, max, text)
}

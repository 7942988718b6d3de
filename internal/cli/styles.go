package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yungbote/medqa-backend/internal/prompt"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

func variantLabel(v prompt.Variant) string {
	if v == prompt.MultipleChoice {
		return "multiple choice"
	}
	return "question"
}

// renderAnswer lays out one answer for the terminal. Only the headers are
// styled; the answer text is printed byte for byte and never parsed.
func renderAnswer(transcript string, v prompt.Variant, answer string) string {
	var b strings.Builder
	if transcript != "" {
		fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Heard:"), transcript)
	}
	fmt.Fprintf(&b, "%s %s\n\n", titleStyle.Render("Answer"), labelStyle.Render("("+variantLabel(v)+")"))
	b.WriteString(answer)
	if !strings.HasSuffix(answer, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

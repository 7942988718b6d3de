package cli

import (
	"strings"
	"testing"

	"github.com/yungbote/medqa-backend/internal/prompt"
)

func TestRenderAnswerKeepsTextVerbatim(t *testing.T) {
	answer := "Line one is long enough\n\tDose:\t5 mg\nok"

	out := renderAnswer("", prompt.Plain, answer)

	if !strings.Contains(out, answer+"\n") {
		t.Fatalf("answer not rendered verbatim: %q", out)
	}
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		if strings.HasSuffix(line, " ") {
			t.Fatalf("trailing padding on line %q", line)
		}
	}
}

func TestRenderAnswerWithTranscript(t *testing.T) {
	out := renderAnswer("what is a fever", prompt.MultipleChoice, "B")

	if !strings.Contains(out, "what is a fever") || !strings.Contains(out, "multiple choice") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.HasSuffix(out, "\n\nB\n") {
		t.Fatalf("answer should follow the header: %q", out)
	}
}

package prompt

import (
	"regexp"
	"strings"
)

type Variant string

const (
	Plain          Variant = "plain"
	MultipleChoice Variant = "multiple_choice"
)

func (v Variant) String() string { return string(v) }

// optionLine matches a line opening with an option letter A–E (either case)
// followed by "." or ")" and a space or tab, e.g. "A. Aspirin" or "c) Rest".
var optionLine = regexp.MustCompile(`^[A-Ea-e][.)][ \t]`)

// MinOptionLines is how many option lines make a question multiple choice.
const MinOptionLines = 2

// CountOptionLines reports how many lines of question look like answer options.
func CountOptionLines(question string) int {
	n := 0
	for _, line := range strings.Split(question, "\n") {
		if optionLine.MatchString(strings.TrimRight(line, "\r")) {
			n++
		}
	}
	return n
}

func Classify(question string) Variant {
	if CountOptionLines(question) >= MinOptionLines {
		return MultipleChoice
	}
	return Plain
}

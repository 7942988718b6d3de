package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/medqa-backend/internal/qa"
)

var askAudioPath string

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Answer a question (arguments, stdin, or --audio recording)",
	Long: `Answer a medical question.

The question is taken from the arguments, or from stdin when no arguments are
given. With --audio the recording is transcribed first and the transcript is
answered instead.

Examples:
  medqa ask "What is the normal resting heart rate for adults?"
  printf 'Which is a beta blocker?\nA. Metoprolol\nB. Lisinopril\n' | medqa ask
  medqa ask --audio question.m4a`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askAudioPath, "audio", "", "answer a recorded question instead of text")
	RootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	req := qa.Request{}
	if askAudioPath != "" {
		data, err := os.ReadFile(askAudioPath)
		if err != nil {
			return err
		}
		req.Audio = &qa.AudioInput{File: data, Filename: filepath.Base(askAudioPath)}
	} else {
		q, err := questionFrom(cmd, args)
		if err != nil {
			return err
		}
		req.Question = q
	}

	a, err := loadApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	out := <-a.QA.Submit(cmd.Context(), req)
	if out.Err != nil {
		return out.Err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderAnswer(out.Result.Transcript, out.Result.Variant, out.Result.Answer))
	return nil
}

// questionFrom joins args, or reads stdin when there are none.
func questionFrom(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

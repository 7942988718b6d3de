package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/medqa-backend/internal/platform/shutdown"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API until SIGINT/SIGTERM",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := shutdown.NotifyContext(cmd.Context())
		defer stop()

		a, err := loadApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Run(ctx)
	},
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file>",
	Short: "Print the transcript of a recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		text, err := a.QA.TranscribePath(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var promptCmd = &cobra.Command{
	Use:   "prompt [question...]",
	Short: "Print the prompt that would be sent for a question",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := questionFrom(cmd, args)
		if err != nil {
			return err
		}
		a, err := loadApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.QA.Preview(q)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s %s\n\n", labelStyle.Render("variant:"), p.Variant)
		fmt.Fprintln(w, p.Text)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(serveCmd, transcribeCmd, promptCmd)
}

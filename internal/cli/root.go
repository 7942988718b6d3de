package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/medqa-backend/internal/app"
	"github.com/yungbote/medqa-backend/internal/qa"
)

var configPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "medqa",
	Version: app.Version,
	Short:   "Answer medical questions from approved sources",
	Long: `medqa sends a medical question, typed or spoken, to a language model with
instructions to answer from an approved list of sources and cite them.

Multiple-choice questions (two or more lines starting with A. / B) ...) get an
answer that names the correct option and explains why each other option is wrong.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and prints a failure the way the answer view would.
// This is called by main.main().
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		fmt.Fprintln(RootCmd.ErrOrStderr(), errorStyle.Render("Error: "+errorMessage(err)))
	}
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON or YAML config file")
}

func loadApp(ctx context.Context, quiet bool) (*app.App, error) {
	return app.New(ctx, app.Options{ConfigPath: configPath, Quiet: quiet})
}

// errorMessage is the user-facing text: the underlying message for remote failures.
func errorMessage(err error) string {
	var f *qa.Failure
	if errors.As(err, &f) {
		return f.Message()
	}
	return err.Error()
}

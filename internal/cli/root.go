package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd assembles quizctl and its subcommands.
func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:          "quizctl",
		Short:        "Operate the quiz pipeline from the command line",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline decisions to stderr")

	newLogger := func() *zap.Logger {
		if !verbose {
			return zap.NewNop()
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return l
	}

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewExtractCmd(newLogger))
	cmd.AddCommand(NewGenerateCmd(newLogger))
	cmd.AddCommand(NewGradeCmd())
	return cmd
}

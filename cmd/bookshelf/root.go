package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jeamon/bookshelf"
	"github.com/spf13/cobra"
)

var (
	app *bookshelf.App

	flagConfig  string
	flagEnvFile string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "Keep track of your books, who borrowed them and what to read next",
	Long: `bookshelf manages a personal book catalog with loan tracking.

The catalog is saved on every change. The show command looks up
similar books on a public catalog search service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagNoColor || !isTTY() {
			color.NoColor = true
		}
		var err error
		app, err = bookshelf.NewApp(cmd.Context(), flagConfig, flagEnvFile, GitCommit, GitTag, BuildTime)
		if err != nil {
			return fmt.Errorf("application failed to initialize: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Clean()
		}
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if app != nil {
			app.Clean()
		}
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "./config.yml", "Config file path")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "./config.env", "Optional dotenv file")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newListCmd(),
		newAuthorsCmd(),
		newAddCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newLoanCmd(),
		newLoansCmd(),
		newShowCmd(),
	)
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

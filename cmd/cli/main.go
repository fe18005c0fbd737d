package main

import (
	"fmt"
	"os"

	"github.com/fieldworks/skiptrace/cmd/cli/caseops"
	"github.com/fieldworks/skiptrace/cmd/cli/recon"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(caseops.Group)
	rootCmd.AddCommand(caseops.Report)
	rootCmd.AddGroup(recon.Group)
	rootCmd.AddCommand(recon.Sweep)
}

var rootCmd = &cobra.Command{
	Use:  "skiptrace-cli",
	Long: `Command line utilities for the skiptrace investigation server`,
	Run: func(cmd *cobra.Command, args []string) {
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}

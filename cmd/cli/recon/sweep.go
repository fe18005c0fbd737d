// Package recon holds CLI commands that query the OSINT backend directly.
package recon

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fieldworks/skiptrace/internal/osint"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "recon",
	Title: "Reconnaissance",
}

func init() {
	Sweep.Flags().String("backend", "http://localhost:8000", "OSINT backend URL")
	Sweep.Flags().String("email", "", "email address to sweep")
	Sweep.Flags().String("phone", "", "phone number to sweep")
}

var Sweep = &cobra.Command{
	Use:     "sweep [username]",
	GroupID: "recon",
	Short:   "Run an OSINT sweep",
	Long:    `Sweeps a username (plus optional email and phone) across the OSINT backend tools and prints the findings`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		backend, err := cmd.Flags().GetString("backend")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "invalid backend flag: %v\n", err)
			return
		}
		email, err := cmd.Flags().GetString("email")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "invalid email flag: %v\n", err)
			return
		}
		phone, err := cmd.Flags().GetString("phone")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "invalid phone flag: %v\n", err)
			return
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		client := osint.NewClient(backend, logger)
		ctx := context.Background()

		sweep := client.FullSweep(ctx, osint.Target{
			Username: args[0],
			Email:    email,
			Phone:    phone,
		})
		for _, failure := range sweep.Errors {
			_, _ = fmt.Fprintf(os.Stderr, "tool failed: %s\n", failure)
		}

		findings := client.Findings(ctx, sweep)
		if len(findings) == 0 {
			fmt.Println("no findings")
			return
		}
		for _, finding := range findings {
			if finding.URL != "" {
				fmt.Printf("[%s] %s (%s)\n", finding.Source, finding.Summary, finding.URL)
				continue
			}
			fmt.Printf("[%s] %s\n", finding.Source, finding.Summary)
		}
	},
}

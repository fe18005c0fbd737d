// Package caseops holds CLI commands that operate on stored cases.
package caseops

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fieldworks/skiptrace/internal/db"
	"github.com/fieldworks/skiptrace/internal/intel"
	"github.com/fieldworks/skiptrace/internal/kvstore"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "caseops",
	Title: "Case operations",
}

func init() {
	Report.Flags().String("sqlite-url", "./skiptrace.sqlite", "path to the SQLite database")
	Report.Flags().String("target", "", "target name printed in the report header")
}

var Report = &cobra.Command{
	Use:     "report [caseID]",
	GroupID: "caseops",
	Short:   "Print the case report",
	Long:    `Prints the curated intelligence report for a case from the local database`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		caseID := args[0]
		sqliteURL, err := cmd.Flags().GetString("sqlite-url")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "invalid sqlite-url flag: %v\n", err)
			return
		}
		targetName, err := cmd.Flags().GetString("target")
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "invalid target flag: %v\n", err)
			return
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		dbs, err := db.NewDatabase(sqliteURL)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "open database: %v\n", err)
			return
		}
		defer func() {
			_ = dbs.Close()
		}()

		store := intel.NewStore(kvstore.NewSQLiteStore(dbs, logger), logger)
		state, err := store.Load(context.Background(), caseID)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "load case: %v\n", err)
			return
		}

		fmt.Print(intel.BuildReport(targetName, state))
	},
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/resumatch/resumatch/internal/config"
	"github.com/resumatch/resumatch/internal/logger"
	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/repositories"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analyses, most recent first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runHistory(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "number of records to show (default HISTORY_LIMIT)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print the records as JSON")
}

func runHistory(out io.Writer) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Sync()

	db, err := config.InitDatabase(cfg, lg)
	if err != nil {
		return err
	}
	defer closeDB(db, lg)

	limit := historyLimit
	if limit <= 0 {
		limit = cfg.Server.HistoryLimit
	}

	records, err := repositories.NewHistoryRepository(db).ListAll(limit)
	if err != nil {
		return err
	}

	if historyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(models.HistoryResponse{History: records, Total: len(records)})
	}
	printHistory(out, records)
	return nil
}

func printHistory(out io.Writer, records []models.HistoryRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tSCORE\tROLE\tJOB DESCRIPTION")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%.1f\t%s\t%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.MatchScore,
			r.RoleTemplate,
			logger.Truncate(r.JobDescription, 60),
		)
	}
	w.Flush()
}

package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/incomeadvisor/internal/database"
)

var exportCmd = &cobra.Command{
	Use:   "export <handle>",
	Short: "Export saved recommendations to CSV or JSON",
	Long: `Export a user's saved recommendation runs.

By default only the most recent run is exported.

Supported formats:
  - csv: one row per ranked item (spreadsheet-compatible)
  - json: JSON array of ranked items

Examples:
  incomeadvisor export alex --format=csv > latest.csv
  incomeadvisor export alex --format=json --all > history.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	exportFormat string
	exportAll    bool
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every saved run, not only the latest")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("unknown format: %s (use csv or json)", exportFormat)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.requireUser(cmd, args[0])
	if err != nil {
		return err
	}

	limit := 1
	if exportAll {
		limit = 0
	}
	runs, err := a.db.ListRuns(cmd.Context(), u.ID, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		return fmt.Errorf("no saved recommendations for %s, run 'incomeadvisor recommend %s' first", u.Handle, u.Handle)
	}

	rows := toExportRows(u.Handle, runs)
	if exportFormat == "json" {
		return exportJSON(cmd.OutOrStdout(), rows)
	}
	return exportCSV(cmd.OutOrStdout(), rows)
}

// ExportRow is one ranked item of a saved run
type ExportRow struct {
	RunID     string  `json:"run_id"`
	Handle    string  `json:"handle"`
	Mode      string  `json:"mode"`
	Kind      string  `json:"kind"`
	CreatedAt string  `json:"created_at"`
	Rank      int     `json:"rank"`
	ItemID    int     `json:"item_id"`
	ItemName  string  `json:"item_name"`
	Score     float64 `json:"score"`
}

func toExportRows(handle string, runs []database.RecommendationRun) []ExportRow {
	var rows []ExportRow
	for _, r := range runs {
		for _, e := range r.Entries {
			rows = append(rows, ExportRow{
				RunID:     r.ID,
				Handle:    handle,
				Mode:      r.Mode,
				Kind:      r.Kind,
				CreatedAt: r.CreatedAt.Format(time.RFC3339),
				Rank:      e.Rank,
				ItemID:    e.ItemID,
				ItemName:  e.ItemName,
				Score:     e.Score,
			})
		}
	}
	return rows
}

func exportCSV(out io.Writer, rows []ExportRow) error {
	w := csv.NewWriter(out)

	header := []string{"run_id", "handle", "mode", "kind", "created_at", "rank", "item_id", "item_name", "score"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.RunID,
			row.Handle,
			row.Mode,
			row.Kind,
			row.CreatedAt,
			strconv.Itoa(row.Rank),
			strconv.Itoa(row.ItemID),
			row.ItemName,
			strconv.FormatFloat(row.Score, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func exportJSON(out io.Writer, rows []ExportRow) error {
	if rows == nil {
		rows = []ExportRow{}
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

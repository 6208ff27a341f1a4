package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"sendtg-export/lib/amount"
	"sendtg-export/lib/assets"
	"sendtg-export/lib/browser/cdp"
	"sendtg-export/lib/scrapers/sendtg"
	"sendtg-export/lib/serviceutil"
	"sendtg-export/services/export"
)

var (
	exportFormat  *string
	exportOut     *string
	exportBrowser *string
)

func init() {
	exportFormat = exportCmd.Flags().String("format", "koinly", "Output format, either raw or koinly.")
	exportOut = exportCmd.Flags().String("out", ".", "The directory to write the CSV file to.")
	exportBrowser = exportCmd.Flags().String("browser", "localhost:9222", "The devtools address of the browser to attach to.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--format raw|koinly] [--out <dir>] [--browser <host:port>]",
	Short: "Exports the transaction history of the attached tab to a CSV file. Ctrl+C stops the run without writing anything.",
	Run: func(cmd *cobra.Command, args []string) {
		format, err := export.ParseFormat(*exportFormat)
		if err != nil {
			serviceutil.Fatal("invalid format", err)
		}
		registry := assets.FromConfig(readConfig().Assets)

		ctx := cmd.Context()

		attachCtx, cancel := context.WithTimeout(ctx, time.Second*10)
		defer cancel()
		tab, err := cdp.Attach(attachCtx, cdp.Options{
			Addr:      *exportBrowser,
			TargetURL: sendtg.Host,
		})
		if err != nil {
			serviceutil.Fatal("failed to attach to a browser tab", err)
		}
		defer tab.Close()

		service := &export.Service{
			Page:   tab,
			Assets: registry,
			Sink:   export.DirSink{Dir: *exportOut},
			Callbacks: export.Callbacks{
				Phase: func(name string) {
					slog.Info("entering phase", "phase", name)
				},
				Progress: func(current, total int) {
					if total == 0 {
						slog.Info("scanning transactions", "found", current)
						return
					}
					slog.Info("fetching details", "current", current, "total", total)
				},
			},
		}

		t1 := time.Now()
		result, err := service.Export(ctx, format)
		if errors.Is(err, export.ErrStopped) {
			slog.Info("export stopped, nothing was written")
			return
		}
		if err != nil {
			serviceutil.Fatal("export failed", err)
		}
		t2 := time.Now()

		slog.Info("export complete",
			"file", result.Filename,
			"transactions", result.Transactions,
			"enriched", result.Enriched,
			"seconds", t2.Sub(t1).Seconds(),
		)
		printSummary(result, registry)
	},
}

func printSummary(result export.Result, registry assets.Registry) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Type", "Count", "Last Amount"})

	types := make([]string, 0, len(result.TypeCounts))
	for slug := range result.TypeCounts {
		types = append(types, slug)
	}
	sort.Strings(types)

	for _, slug := range types {
		last := ""
		if amt, ok := result.TypeAmounts[slug]; ok {
			last = amount.ForDisplay(amt.Value, amt.Currency, registry) + " " + amt.Currency
		}
		t.AppendRow(table.Row{slug, result.TypeCounts[slug], last})
	}

	t.AppendFooter(table.Row{"Total", result.Transactions, result.Filename})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

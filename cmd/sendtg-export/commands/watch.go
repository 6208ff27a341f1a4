package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"sendtg-export/lib/browser/cdp"
	"sendtg-export/lib/scrapers/sendtg"
	"sendtg-export/lib/serviceutil"
	"sendtg-export/services/capture"
)

var (
	watchDb      *string
	watchBrowser *string
)

func init() {
	watchDb = watchCmd.Flags().String("db", "captures.db", "The database to merge captured details into.")
	watchBrowser = watchCmd.Flags().String("browser", "localhost:9222", "The devtools address of the browser to attach to.")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [--db <path/to/captures.db>]",
	Short: "Watches the attached tab and captures transaction details as you browse. Runs until Ctrl+C.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database, err := capture.Open(*watchDb)
		if err != nil {
			serviceutil.Fatal("failed to open capture db", err)
		}
		defer database.Close()
		store := capture.NewStore(database)

		attachCtx, cancel := context.WithTimeout(ctx, time.Second*10)
		defer cancel()
		tab, err := cdp.Attach(attachCtx, cdp.Options{
			Addr:      *watchBrowser,
			TargetURL: sendtg.Host,
		})
		if err != nil {
			serviceutil.Fatal("failed to attach to a browser tab", err)
		}
		defer tab.Close()

		existing, err := store.Count(ctx)
		if err != nil {
			serviceutil.Fatal("failed to query capture db", err)
		}
		slog.Info("watching for detail pages", "db", *watchDb, "captured", existing)

		watcher := capture.Watcher{Page: tab, Store: store}
		watcher.Run(ctx)

		total, err := store.Count(context.Background())
		if err == nil {
			slog.Info("watch stopped", "captured", total)
		}
	},
}

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sendtg-export/lib/assets"
	"sendtg-export/lib/configutil"
	"sendtg-export/lib/serviceutil"
	"sendtg-export/lib/telemetry"
)

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "sendtg-export",
	Short: "sendtg-export exports transaction history from app.send.tg through an attached browser tab.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Config is the optional config.json5 next to the binary. Everything has
// a default, the file only adds or overrides assets.
type Config struct {
	Assets assets.Config `json:"assets"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if os.IsNotExist(err) {
		return Config{}
	}
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}

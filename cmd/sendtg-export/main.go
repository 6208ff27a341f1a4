package main

import (
	"os"

	"sendtg-export/cmd/sendtg-export/commands"
	"sendtg-export/lib/serviceutil"
	"sendtg-export/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	err := telemetry.SetupFromEnv(ctx, "sendtg-export")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}

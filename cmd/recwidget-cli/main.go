package main

import (
	"context"

	"recwidget/cmd/recwidget-cli/commands"
	"recwidget/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "recwidget-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}

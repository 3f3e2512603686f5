package main

import (
	"context"

	"telechan-backend/cmd/telechan-cli/commands"
	"telechan-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "telechan-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}

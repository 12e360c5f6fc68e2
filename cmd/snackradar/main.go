package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/snackradar/snackradar/cmd/snackradar/commands"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	root := commands.NewRootCmd(buildVersion, buildCommit)
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

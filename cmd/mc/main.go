package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mission-control/internal/cli"
	"mission-control/internal/config"
	"mission-control/internal/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory := NewTableFactory(metrics.NewMetrics())

	root := cli.NewRootCommand(cli.RootOptions{
		Loader:    config.NewLoader(),
		OpenTable: factory.Open,
	})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

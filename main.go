package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/secmon-lab/stabdash/pkg/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		slog.Error("stabdash failed", "error", err)
		os.Exit(1)
	}
}

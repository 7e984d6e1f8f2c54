// Package main is the entry point for the Parley chat-server API.
package main

import (
	"log/slog"
	"os"

	"github.com/parleychat/parley-server/cmd/parley-api/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

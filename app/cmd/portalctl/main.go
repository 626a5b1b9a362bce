// Package main is the entry point for the portalctl CLI
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"portal-service/app/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

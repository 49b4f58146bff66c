package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	tripctlcmd "github.com/anchorline/tripgate/internal/cmd/tripctl"
)

func main() {
	cfg, err := tripctlcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tripctlcmd.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("tripctl: %v", err)
	}
}

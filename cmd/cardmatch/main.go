// Package main runs a card-matching game over stdin and stdout. Commands are
// read one per line; every game event is written as a JSON line.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/CaBe71/Card-Matching-Game/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	opts, err := parseFlags(flag.CommandLine, os.Args[1:], cfg)
	if err != nil {
		logrus.Fatalf("parse flags: %v", err)
	}

	log := cfg.Logger()
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, os.Stdin, os.Stdout, log); err != nil {
		log.WithError(err).Fatal("Game loop failed.")
	}
}

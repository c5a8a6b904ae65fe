package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// execute runs the CLI and logs the error that ends it, if any.
func execute(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		if logger, lerr := setupLogger(stderr, log.InfoLevel.String()); lerr == nil {
			logger.Error(err)
		}
	}
	return err
}

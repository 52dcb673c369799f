package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
	"github.com/ankit-chaubey/image-metadata-extractor/core/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interruption signals
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		logger.Info("received interrupt signal, stopping")
		cancel()
	}()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		core.PrintError(err.Error())
		cancel()
		os.Exit(1)
	}
}

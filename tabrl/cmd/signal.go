package cmd

import (
	"context"
	"os"
	"os/signal"
)

// interruptContext is cancelled on os.Interrupt or once the returned done
// func is called.
func interruptContext() (context.Context, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

	doneCh := make(chan struct{}) // channel for done signal from application

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, func() { close(doneCh) }
}

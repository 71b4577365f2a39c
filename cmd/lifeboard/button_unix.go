//go:build unix

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lifeboard/internal/device"
)

// notifyButton presses b on every SIGUSR1 until ctx is done.
func notifyButton(ctx context.Context, b *device.LatchButton) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	defer signal.Stop(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			b.Press()
		}
	}
}

//go:build !unix

package main

import (
	"context"

	"lifeboard/internal/device"
)

// notifyButton waits for ctx; there is no button signal on this platform.
func notifyButton(ctx context.Context, _ *device.LatchButton) {
	<-ctx.Done()
}

//go:build !unix

package control

import "context"

// WatchSignals waits for ctx; there are no rate signals on this platform.
func (r *Rates) WatchSignals(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled reports the context's error when it is already done, nil while
// it is live. Blocking operations call this at entry so a canceled command
// never starts a provider exchange or a history write.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// Package workers provides abstractions for managing background workers of
// the sync client. It defines the Worker interface and a Workers aggregate
// that starts and stops several workers as one unit.
package workers

import "context"

// Worker is a long-running background component.
//
// Start must return promptly and keep working in its own goroutines until
// ctx is done or Stop is called. Stop must block until those goroutines have
// exited and must be safe to call when Start was never called.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

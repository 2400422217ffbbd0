// Package utils provides general-purpose helper utilities
// used across different parts of the client.
// Includes type-safe context keys, HTTP response writing, HTTP client
// initialization, JWT inspection and identifier generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// SyncTriggerCtxKey is the key used to store the reason a drain pass was
// started ("manual", "schedule", "reconnect", ...).
var SyncTriggerCtxKey = contextKey("syncTrigger")

// WithSyncTrigger returns a copy of ctx carrying the sync trigger reason.
func WithSyncTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, SyncTriggerCtxKey, trigger)
}

// GetSyncTriggerFromContext retrieves the sync trigger reason from ctx.
//
// Returns the reason and an ok flag:
//   - ok == true: value is found and is a string
//   - ok == false: value is missing or has an unexpected type
func GetSyncTriggerFromContext(ctx context.Context) (string, bool) {
	trigger, ok := ctx.Value(SyncTriggerCtxKey).(string)
	return trigger, ok
}

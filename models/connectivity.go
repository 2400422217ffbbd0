package models

// NetworkState is a reachability observation from the connectivity source.
type NetworkState struct {
	// IsConnected reports whether any network interface is usable.
	IsConnected bool `json:"isConnected"`
	// IsInternetReachable is nil when reachability is unknown.
	IsInternetReachable *bool `json:"isInternetReachable"`
	// Type is a free-form transport label (e.g. "wifi", "ethernet").
	Type string `json:"type,omitempty"`
}

// IsOffline is true when the device is disconnected or the internet is known
// to be unreachable. Unknown reachability counts as online.
func (s NetworkState) IsOffline() bool {
	return !s.IsConnected || (s.IsInternetReachable != nil && !*s.IsInternetReachable)
}

// Equal compares two observations field by field.
func (s NetworkState) Equal(o NetworkState) bool {
	if s.IsConnected != o.IsConnected || s.Type != o.Type {
		return false
	}
	if (s.IsInternetReachable == nil) != (o.IsInternetReachable == nil) {
		return false
	}
	return s.IsInternetReachable == nil || *s.IsInternetReachable == *o.IsInternetReachable
}

// Reachable is a helper for building NetworkState literals.
func Reachable(v bool) *bool {
	return &v
}

// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Store operation names used as metric labels.
const (
	OpConnect    = "connect"
	OpListUsers  = "list_users"
	OpCreateUser = "create_user"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// User record metrics
	IncUserCreated()
	IncValidationRejected()

	// Store metrics
	IncStorageError(op string)
	ObserveStoreDuration(op string, duration time.Duration)

	// HTTP metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	IncRateLimited()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

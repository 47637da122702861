package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated       uint64
	ValidationRejected uint64
	RateLimited        uint64
	StorageErrors      map[string]uint64
	StoreOpCount       map[string]uint64
	HTTPRequests       uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersCreated       uint64
	validationRejected uint64
	rateLimited        uint64
	httpRequests       uint64

	mu            sync.Mutex
	storageErrors map[string]uint64
	storeOpCount  map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		storageErrors: make(map[string]uint64),
		storeOpCount:  make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	errs := make(map[string]uint64, len(m.storageErrors))
	for k, v := range m.storageErrors {
		errs[k] = v
	}
	ops := make(map[string]uint64, len(m.storeOpCount))
	for k, v := range m.storeOpCount {
		ops[k] = v
	}

	return Snapshot{
		UsersCreated:       atomic.LoadUint64(&m.usersCreated),
		ValidationRejected: atomic.LoadUint64(&m.validationRejected),
		RateLimited:        atomic.LoadUint64(&m.rateLimited),
		HTTPRequests:       atomic.LoadUint64(&m.httpRequests),
		StorageErrors:      errs,
		StoreOpCount:       ops,
	}
}

// IncUserCreated increments the created users counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncValidationRejected increments the rejected requests counter.
func (m *InMemoryRecorder) IncValidationRejected() {
	atomic.AddUint64(&m.validationRejected, 1)
}

// IncStorageError increments the storage error counter for op.
func (m *InMemoryRecorder) IncStorageError(op string) {
	m.mu.Lock()
	m.storageErrors[op]++
	m.mu.Unlock()
}

// ObserveStoreDuration counts a completed store operation.
func (m *InMemoryRecorder) ObserveStoreDuration(op string, duration time.Duration) {
	m.mu.Lock()
	m.storeOpCount[op]++
	m.mu.Unlock()
}

// ObserveHTTPRequest counts a served request.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
}

// IncRateLimited increments the rate limited counter.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}

// Package job tracks asynchronous processing runs submitted through the
// HTTP API. A job records which operation was requested, its lifecycle
// state, and the result payload once the run finishes.
//
// Two storage backends are provided:
//   - memory: in-process storage for single-instance deployments
//   - mongo: MongoDB-backed storage that survives restarts
//
// Jobs expire: finished jobs are retained for their TTL so clients can
// fetch results, then Cleanup drops them.
package job

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is a job's lifecycle phase.
type State string

const (
	StatePending State = "pending"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// DefaultTTL is how long finished jobs are retained.
const DefaultTTL = 24 * time.Hour

// Job is one tracked processing run.
type Job struct {
	ID        string          `json:"id" bson:"_id"`
	Operation string          `json:"operation" bson:"operation"`
	State     State           `json:"state" bson:"state"`
	Result    json.RawMessage `json:"result,omitempty" bson:"result,omitempty"`
	Error     string          `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at" bson:"expires_at"`
}

// IsExpired reports whether the job has passed its retention window.
func (j *Job) IsExpired() bool {
	return time.Now().After(j.ExpiresAt)
}

// New creates a pending job for the named operation.
func New(operation string, ttl time.Duration) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Operation: operation,
		State:     StatePending,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Complete marks the job done with its result payload.
func (j *Job) Complete(result json.RawMessage) {
	j.State = StateDone
	j.Result = result
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with the error message clients will see.
func (j *Job) Fail(msg string) {
	j.State = StateFailed
	j.Error = msg
	j.UpdatedAt = time.Now()
}

// Store is the interface for job storage backends.
type Store interface {
	// Get retrieves a job by ID. Returns nil, nil when the job does not
	// exist or has expired.
	Get(ctx context.Context, id string) (*Job, error)

	// Set stores or replaces a job.
	Set(ctx context.Context, j *Job) error

	// Delete removes a job.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired jobs.
	Cleanup(ctx context.Context) error
}

// ===== Memory store =====

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*Job)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok || j.IsExpired() {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (s *MemoryStore) Set(_ context.Context, j *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *j
	s.jobs[j.ID] = &cp
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.jobs, id)
	return nil
}

func (s *MemoryStore) Cleanup(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, j := range s.jobs {
		if j.IsExpired() {
			delete(s.jobs, id)
		}
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)

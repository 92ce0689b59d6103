package export

import (
	"context"
	"errors"
	"sync"
	"time"

	"ecid/api/internal/util"
)

// Job statuses.
const (
	JobQueued  = "queued"
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

// Job tracks one export request through the background worker.
type Job struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	Filename   string     `json:"filename,omitempty"`
	ObjectKey  string     `json:"objectKey,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// ErrQueueFull is returned when too many exports are already waiting.
var ErrQueueFull = errors.New("export queue is full")

const buildTimeout = 2 * time.Minute

// Runner executes export jobs one at a time on a background goroutine.
// Exports walk every table, so serializing them keeps load on the database
// predictable.
type Runner struct {
	svc      *Service
	requests chan string

	mu      sync.Mutex
	jobs    map[string]*Job
	results map[string]*Result
}

// NewRunner starts the worker goroutine.
func NewRunner(svc *Service) *Runner {
	r := &Runner{
		svc:      svc,
		requests: make(chan string, 8),
		jobs:     make(map[string]*Job),
		results:  make(map[string]*Result),
	}
	go r.loop()
	return r
}

// Enqueue registers a new export job and hands it to the worker.
func (r *Runner) Enqueue() (Job, error) {
	job := &Job{
		ID:        util.NewID("exp"),
		Status:    JobQueued,
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	select {
	case r.requests <- job.ID:
		return *job, nil
	default:
		r.mu.Lock()
		delete(r.jobs, job.ID)
		r.mu.Unlock()
		return Job{}, ErrQueueFull
	}
}

// Get returns a snapshot of the job and, once it finished successfully, the
// artifact it produced.
func (r *Runner) Get(jobID string) (Job, *Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return Job{}, nil, false
	}
	return *job, r.results[jobID], true
}

// Close stops the worker after the queued jobs drain.
func (r *Runner) Close() {
	close(r.requests)
}

func (r *Runner) loop() {
	for jobID := range r.requests {
		r.setRunning(jobID)

		ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
		result, err := r.svc.Build(ctx)
		cancel()

		r.finish(jobID, result, err)
	}
}

func (r *Runner) setRunning(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[jobID]; ok {
		job.Status = JobRunning
	}
}

func (r *Runner) finish(jobID string, result *Result, err error) {
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return
	}
	job.FinishedAt = &now
	if err != nil {
		job.Status = JobFailed
		job.Error = err.Error()
		return
	}
	job.Status = JobDone
	job.Filename = result.Filename
	job.ObjectKey = result.ObjectKey
	r.results[jobID] = result
}

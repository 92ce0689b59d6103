// Package autosave schedules draft persistence for an editing session. Text
// changes arm a debounce timer; when the author goes quiet the current
// snapshot is written through a narrow Saver interface. Explicit actions
// (save draft, submit for review) bypass the timer.
package autosave

import (
	"context"
	"log"
	"sync"
	"time"

	"ecid/api/internal/store"
)

// State describes what the editing surface should show for the session.
type State string

const (
	StateSaved   State = "saved"
	StateSaving  State = "saving"
	StateUnsaved State = "unsaved"
)

// DefaultDelay is the quiet period after the last text change before an
// autosave fires.
const DefaultDelay = 3000 * time.Millisecond

// SaveRequest is one snapshot handed to the Saver. ContentID is empty until
// the first save creates the row.
type SaveRequest struct {
	ContentID string
	TopicID   string
	Title     string
	Body      string
	Status    string
}

// Saver persists a snapshot and returns the content ID, which on the first
// save is the ID of the freshly created row.
type Saver interface {
	Save(ctx context.Context, req SaveRequest) (string, error)
}

// Coordinator drives autosave for a single editing session. One session edits
// one content row, so a single pending timer is enough; arming a new timer
// cancels the previous one.
type Coordinator struct {
	saver Saver
	delay time.Duration
	logf  func(format string, args ...any)

	// saveMu serializes save calls so two rapid explicit actions cannot
	// both run a create. The second save observes the content ID pinned
	// by the first and issues an update.
	saveMu sync.Mutex

	mu        sync.Mutex
	timer     *time.Timer
	contentID string
	topicID   string
	title     string
	body      string
	status    string
	dirty     bool
	inFlight  bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDelay overrides the debounce delay. Tests use short delays.
func WithDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.delay = d }
}

// WithLogger overrides where failed autosaves are reported.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(c *Coordinator) { c.logf = logf }
}

// WithContent resumes an editing session for an existing content row.
func WithContent(contentID, status string) Option {
	return func(c *Coordinator) {
		c.contentID = contentID
		c.status = status
	}
}

// NewCoordinator creates a coordinator for a new draft under the given topic.
func NewCoordinator(saver Saver, topicID string, opts ...Option) *Coordinator {
	c := &Coordinator{
		saver:   saver,
		delay:   DefaultDelay,
		logf:    log.Printf,
		topicID: topicID,
		status:  store.StatusDraft,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TextChanged records the latest editor snapshot and re-arms the save timer.
func (c *Coordinator) TextChanged(title, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.title = title
	c.body = body
	c.dirty = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, c.timerFired)
}

func (c *Coordinator) timerFired() {
	c.mu.Lock()
	if !c.dirty || c.title == "" || c.body == "" {
		// Nothing worth persisting, stay unsaved until the next change.
		c.mu.Unlock()
		return
	}
	status := c.status
	c.mu.Unlock()

	if err := c.save(context.Background(), status); err != nil {
		// No retry loop. The next text change re-arms the timer.
		c.logf("autosave failed: %v", err)
	}
}

// SaveDraft persists the current snapshot immediately, keeping the content in
// its current status.
func (c *Coordinator) SaveDraft(ctx context.Context) error {
	c.cancelTimer()
	c.mu.Lock()
	status := c.status
	c.mu.Unlock()
	return c.save(ctx, status)
}

// Submit persists the current snapshot and moves the content into review.
func (c *Coordinator) Submit(ctx context.Context) error {
	c.cancelTimer()
	return c.save(ctx, store.StatusPending)
}

// State reports what the editing surface should display.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.inFlight:
		return StateSaving
	case c.dirty:
		return StateUnsaved
	default:
		return StateSaved
	}
}

// ContentID returns the row this session is editing, or "" before the first
// successful save.
func (c *Coordinator) ContentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contentID
}

func (c *Coordinator) cancelTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coordinator) save(ctx context.Context, status string) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	req := SaveRequest{
		ContentID: c.contentID,
		TopicID:   c.topicID,
		Title:     c.title,
		Body:      c.body,
		Status:    status,
	}
	c.dirty = false
	c.inFlight = true
	c.mu.Unlock()

	id, err := c.saver.Save(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		c.dirty = true
		return err
	}
	if c.contentID == "" {
		c.contentID = id
	}
	c.status = status
	return nil
}

package autosave

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ecid/api/internal/store"
)

type fakeSaver struct {
	mu       sync.Mutex
	calls    []SaveRequest
	creates  int
	failNext bool
	saveLag  time.Duration
}

func (f *fakeSaver) Save(ctx context.Context, req SaveRequest) (string, error) {
	if f.saveLag > 0 {
		time.Sleep(f.saveLag)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return "", errors.New("store unavailable")
	}
	f.calls = append(f.calls, req)
	if req.ContentID != "" {
		return req.ContentID, nil
	}
	f.creates++
	return fmt.Sprintf("cnt_%d", f.creates), nil
}

func (f *fakeSaver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSaver) lastCall(t *testing.T) SaveRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("no save calls recorded")
	}
	return f.calls[len(f.calls)-1]
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAutosaveFiresAfterQuietPeriod(t *testing.T) {
	saver := &fakeSaver{}
	c := NewCoordinator(saver, "top_1", WithDelay(20*time.Millisecond))

	c.TextChanged("Title", "Body")
	if got := c.State(); got != StateUnsaved {
		t.Errorf("state before timer = %q, want unsaved", got)
	}

	waitFor(t, func() bool { return saver.callCount() == 1 })
	waitFor(t, func() bool { return c.State() == StateSaved })

	call := saver.lastCall(t)
	if call.ContentID != "" {
		t.Errorf("first save should create, got content id %q", call.ContentID)
	}
	if call.TopicID != "top_1" || call.Title != "Title" || call.Body != "Body" {
		t.Errorf("unexpected save request %+v", call)
	}
	if call.Status != store.StatusDraft {
		t.Errorf("autosave status = %q, want draft", call.Status)
	}
	if c.ContentID() != "cnt_1" {
		t.Errorf("content id = %q, want cnt_1", c.ContentID())
	}
}

func TestTextChangeReArmsTimer(t *testing.T) {
	saver := &fakeSaver{}
	c := NewCoordinator(saver, "top_1", WithDelay(50*time.Millisecond))

	// Keystrokes arriving faster than the delay keep pushing the save out.
	for i := 0; i < 5; i++ {
		c.TextChanged("Title", fmt.Sprintf("Body %d", i))
		time.Sleep(10 * time.Millisecond)
	}
	if n := saver.callCount(); n != 0 {
		t.Fatalf("save fired during typing, calls = %d", n)
	}

	waitFor(t, func() bool { return saver.callCount() == 1 })
	time.Sleep(100 * time.Millisecond)
	if n := saver.callCount(); n != 1 {
		t.Errorf("calls = %d, want exactly 1", n)
	}
	if got := saver.lastCall(t).Body; got != "Body 4" {
		t.Errorf("saved body = %q, want the final snapshot", got)
	}
}

func TestAutosaveSkipsIncompleteDrafts(t *testing.T) {
	saver := &fakeSaver{}
	c := NewCoordinator(saver, "top_1", WithDelay(10*time.Millisecond))

	c.TextChanged("Title only", "")
	time.Sleep(60 * time.Millisecond)

	if n := saver.callCount(); n != 0 {
		t.Errorf("calls = %d, want 0 for empty body", n)
	}
	if got := c.State(); got != StateUnsaved {
		t.Errorf("state = %q, want unsaved", got)
	}
}

func TestExplicitSaveCancelsTimer(t *testing.T) {
	saver := &fakeSaver{}
	c := NewCoordinator(saver, "top_1", WithDelay(30*time.Millisecond))

	c.TextChanged("Title", "Body")
	if err := c.SaveDraft(context.Background()); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	time.Sleep(80 * time.Millisecond)
	if n := saver.callCount(); n != 1 {
		t.Errorf("calls = %d, want 1 (timer should be cancelled)", n)
	}
	if got := c.State(); got != StateSaved {
		t.Errorf("state = %q, want saved", got)
	}
}

func TestSubmitMovesToPending(t *testing.T) {
	saver := &fakeSaver{}
	c := NewCoordinator(saver, "top_1", WithDelay(time.Hour))

	c.TextChanged("Title", "Body")
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if got := saver.lastCall(t).Status; got != store.StatusPending {
		t.Errorf("status = %q, want pending", got)
	}

	// Autosaves after submission must not move the content back.
	c.TextChanged("Title", "Body v2")
	if err := c.SaveDraft(context.Background()); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if got := saver.lastCall(t).Status; got != store.StatusPending {
		t.Errorf("status after edit while pending = %q, want pending", got)
	}
}

func TestDoubleSubmitCreatesOneRow(t *testing.T) {
	saver := &fakeSaver{saveLag: 20 * time.Millisecond}
	c := NewCoordinator(saver, "top_1", WithDelay(time.Hour))

	c.TextChanged("Title", "Body")

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Submit(context.Background()); err != nil {
				t.Errorf("submit: %v", err)
			}
		}()
	}
	wg.Wait()

	if saver.creates != 1 {
		t.Errorf("creates = %d, want 1", saver.creates)
	}
	if n := saver.callCount(); n != 2 {
		t.Fatalf("calls = %d, want 2", n)
	}
	saver.mu.Lock()
	second := saver.calls[1]
	saver.mu.Unlock()
	if second.ContentID != "cnt_1" {
		t.Errorf("second save content id = %q, want cnt_1", second.ContentID)
	}
}

func TestFailedAutosaveRetriesOnNextChange(t *testing.T) {
	var logged atomic.Int32
	saver := &fakeSaver{failNext: true}
	c := NewCoordinator(saver, "top_1",
		WithDelay(10*time.Millisecond),
		WithLogger(func(format string, args ...any) { logged.Add(1) }),
	)

	c.TextChanged("Title", "Body")
	waitFor(t, func() bool { return c.State() == StateUnsaved && logged.Load() > 0 })

	// No background retry. The failed snapshot waits for the next change.
	time.Sleep(60 * time.Millisecond)
	if n := saver.callCount(); n != 0 {
		t.Fatalf("calls = %d, want 0 after a failed save with no new input", n)
	}

	c.TextChanged("Title", "Body v2")
	waitFor(t, func() bool { return saver.callCount() == 1 })
	waitFor(t, func() bool { return c.State() == StateSaved })
}

func TestResumeExistingContent(t *testing.T) {
	saver := &fakeSaver{}
	c := NewCoordinator(saver, "top_1",
		WithDelay(time.Hour),
		WithContent("cnt_9", store.StatusDraft),
	)

	c.TextChanged("Title", "Body")
	if err := c.SaveDraft(context.Background()); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	if got := saver.lastCall(t).ContentID; got != "cnt_9" {
		t.Errorf("content id = %q, want cnt_9", got)
	}
	if saver.creates != 0 {
		t.Errorf("creates = %d, want 0 when resuming", saver.creates)
	}
}

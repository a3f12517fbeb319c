package removebg

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/digitalvision/viewfinder/util"
)

// Result is the single outcome a background-removal task delivers: exactly
// one of Data or Err is set.
type Result struct {
	Data []byte
	Err  error
}

// Task runs background-removal requests off the caller's goroutine while
// allowing at most one outstanding request at a time. After Close, results
// that are still in flight are discarded instead of delivered, so a
// torn-down image state is never mutated by a late completion.
type Task struct {
	client *Client
	sem    *semaphore.Weighted
	alive  *util.SafeFlag
}

// NewTask creates a Task submitting through client.
func NewTask(client *Client) *Task {
	return &Task{
		client: client,
		sem:    semaphore.NewWeighted(1),
		alive:  util.NewSafeBoolWithValue(true),
	}
}

// Start launches one request and reports whether it was accepted. It
// returns false while a previous request is still outstanding; callers
// disable the triggering action until deliver has run. deliver is invoked
// from the request goroutine with exactly one Result, unless the task was
// closed first.
func (t *Task) Start(ctx context.Context, imageData []byte, sizeHint string, deliver func(Result)) bool {
	if !t.sem.TryAcquire(1) {
		return false
	}
	go func() {
		defer t.sem.Release(1)
		data, err := t.client.RemoveBackground(ctx, imageData, sizeHint)
		if !t.alive.Value() {
			return
		}
		if err != nil {
			deliver(Result{Err: err})
			return
		}
		deliver(Result{Data: data})
	}()
	return true
}

// Busy reports whether a request is currently outstanding.
func (t *Task) Busy() bool {
	if !t.sem.TryAcquire(1) {
		return true
	}
	t.sem.Release(1)
	return false
}

// Close marks the task's target as gone; any in-flight completion is
// dropped.
func (t *Task) Close() {
	t.alive.Set(false)
}

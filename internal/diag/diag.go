// Package diag is the fire-and-forget diagnostic sink for source failures.
// It replaces module-level trace lists with an explicitly injected,
// capacity-bounded recorder.
package diag

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Reporter receives failure reports. Implementations must never block the
// pipeline and never panic.
type Reporter interface {
	Report(context string, err error)
}

// LogReporter writes reports to the process log.
type LogReporter struct{}

func (LogReporter) Report(context string, err error) {
	log.Printf("ERROR: %s: %v", context, err)
}

// Entry is one recorded failure.
type Entry struct {
	ID      uuid.UUID `json:"id"`
	At      time.Time `json:"at"`
	Context string    `json:"context"`
	Error   string    `json:"error"`
}

// Recorder keeps the most recent reports in a fixed-capacity ring buffer
// and forwards each one to an optional downstream sink.
type Recorder struct {
	sink Reporter

	mu      sync.Mutex
	entries []Entry
	next    int
	filled  bool
}

// NewRecorder creates a Recorder holding at most capacity entries.
func NewRecorder(capacity int, sink Reporter) *Recorder {
	if capacity <= 0 {
		capacity = 32
	}
	return &Recorder{
		sink:    sink,
		entries: make([]Entry, capacity),
	}
}

func (r *Recorder) Report(context string, err error) {
	if err == nil {
		return
	}

	e := Entry{
		ID:      uuid.New(),
		At:      time.Now().UTC(),
		Context: context,
		Error:   err.Error(),
	}

	r.mu.Lock()
	r.entries[r.next] = e
	r.next++
	if r.next == len(r.entries) {
		r.next = 0
		r.filled = true
	}
	r.mu.Unlock()

	if r.sink != nil {
		r.sink.Report(context, err)
	}
}

// Recent returns recorded entries, newest first.
func (r *Recorder) Recent() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.next
	if r.filled {
		n = len(r.entries)
	}
	out := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		idx := r.next - 1 - i
		if idx < 0 {
			idx += len(r.entries)
		}
		out = append(out, r.entries[idx])
	}
	return out
}

package stats

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Tracker counts what happened while the server was serving.
// All methods are safe to call from any worker.
type Tracker struct {
	mu            sync.Mutex
	writer        io.Writer
	startTime     time.Time
	accepted      int
	served        int
	fallbackHits  int
	parseWarnings int
	dropped       int
	acceptErrors  int
}

// NewTracker creates a tracker writing its summary to stdout
func NewTracker() *Tracker {
	return &Tracker{
		writer:    os.Stdout,
		startTime: time.Now(),
	}
}

// WithWriter sets the writer for the summary output
// This is primarily used for testing
func (t *Tracker) WithWriter(writer io.Writer) *Tracker {
	t.writer = writer
	return t
}

// ConnectionAccepted records one accepted connection
func (t *Tracker) ConnectionAccepted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accepted++
}

// ResponseServed records one response written successfully.
// fallback reports whether the fallback body was served.
func (t *Tracker) ResponseServed(fallback bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.served++
	if fallback {
		t.fallbackHits++
	}
}

// ParseWarnings records defaulted request-line fields
func (t *Tracker) ParseWarnings(count int) {
	if count == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.parseWarnings += count
}

// ConnectionDropped records a connection dropped on a read or write failure
func (t *Tracker) ConnectionDropped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dropped++
}

// AcceptError records a failed accept call
func (t *Tracker) AcceptError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.acceptErrors++
}

// Snapshot returns the current counter values
func (t *Tracker) Snapshot() (accepted, served, fallbackHits, parseWarnings, dropped, acceptErrors int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.accepted, t.served, t.fallbackHits, t.parseWarnings, t.dropped, t.acceptErrors
}

// Summary prints a colored report of everything served since startup
func (t *Tracker) Summary() {
	t.mu.Lock()
	defer t.mu.Unlock()

	uptime := time.Since(t.startTime).Round(time.Millisecond)

	header := color.New(color.FgCyan, color.Bold)
	good := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	bad := color.New(color.FgRed)

	fmt.Fprintln(t.writer)
	header.Fprintf(t.writer, "Serving summary (%s uptime)\n", uptime)
	good.Fprintf(t.writer, "  connections accepted: %d\n", t.accepted)
	good.Fprintf(t.writer, "  responses served:     %d\n", t.served)

	if t.fallbackHits > 0 {
		warn.Fprintf(t.writer, "  fallback hits:        %d\n", t.fallbackHits)
	}
	if t.parseWarnings > 0 {
		warn.Fprintf(t.writer, "  parse warnings:       %d\n", t.parseWarnings)
	}
	if t.dropped > 0 {
		bad.Fprintf(t.writer, "  dropped connections:  %d\n", t.dropped)
	}
	if t.acceptErrors > 0 {
		bad.Fprintf(t.writer, "  accept errors:        %d\n", t.acceptErrors)
	}
}

package stats

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestCounters(t *testing.T) {
	tracker := NewTracker()

	tracker.ConnectionAccepted()
	tracker.ConnectionAccepted()
	tracker.ConnectionAccepted()
	tracker.ResponseServed(false)
	tracker.ResponseServed(true)
	tracker.ParseWarnings(2)
	tracker.ParseWarnings(0)
	tracker.ConnectionDropped()
	tracker.AcceptError()

	accepted, served, fallbackHits, parseWarnings, dropped, acceptErrors := tracker.Snapshot()

	if accepted != 3 {
		t.Errorf("Expected 3 accepted, got %d", accepted)
	}
	if served != 2 {
		t.Errorf("Expected 2 served, got %d", served)
	}
	if fallbackHits != 1 {
		t.Errorf("Expected 1 fallback hit, got %d", fallbackHits)
	}
	if parseWarnings != 2 {
		t.Errorf("Expected 2 parse warnings, got %d", parseWarnings)
	}
	if dropped != 1 {
		t.Errorf("Expected 1 dropped, got %d", dropped)
	}
	if acceptErrors != 1 {
		t.Errorf("Expected 1 accept error, got %d", acceptErrors)
	}
}

func TestCountersAreConcurrencySafe(t *testing.T) {
	tracker := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tracker.ConnectionAccepted()
				tracker.ResponseServed(j%2 == 0)
			}
		}()
	}
	wg.Wait()

	accepted, served, fallbackHits, _, _, _ := tracker.Snapshot()
	if accepted != 2000 {
		t.Errorf("Expected 2000 accepted, got %d", accepted)
	}
	if served != 2000 {
		t.Errorf("Expected 2000 served, got %d", served)
	}
	if fallbackHits != 1000 {
		t.Errorf("Expected 1000 fallback hits, got %d", fallbackHits)
	}
}

func TestSummaryOutput(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker().WithWriter(&buf)

	tracker.ConnectionAccepted()
	tracker.ConnectionAccepted()
	tracker.ResponseServed(false)
	tracker.ResponseServed(true)
	tracker.ConnectionDropped()

	tracker.Summary()

	output := buf.String()
	if !strings.Contains(output, "connections accepted: 2") {
		t.Errorf("Summary should report accepted connections, got: %s", output)
	}
	if !strings.Contains(output, "responses served:     2") {
		t.Errorf("Summary should report served responses, got: %s", output)
	}
	if !strings.Contains(output, "fallback hits:        1") {
		t.Errorf("Summary should report fallback hits, got: %s", output)
	}
	if !strings.Contains(output, "dropped connections:  1") {
		t.Errorf("Summary should report dropped connections, got: %s", output)
	}
	// Zero counters are omitted from the summary
	if strings.Contains(output, "accept errors") {
		t.Errorf("Summary should omit zero accept errors, got: %s", output)
	}
}

package schedule

import (
	"testing"
	"time"
)

func TestManual_FiresInOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.AfterFunc(300*time.Millisecond, func() { got = append(got, "b") })
	m.AfterFunc(100*time.Millisecond, func() {
		got = append(got, "a")
		m.AfterFunc(100*time.Millisecond, func() { got = append(got, "a2") })
	})
	stopped := m.AfterFunc(200*time.Millisecond, func() { got = append(got, "never") })
	if !stopped.Stop() {
		t.Fatal("stop should report a pending timer")
	}
	if stopped.Stop() {
		t.Fatal("second stop should report false")
	}

	m.Advance(250 * time.Millisecond)
	if len(got) != 2 || got[0] != "a" || got[1] != "a2" {
		t.Fatalf("after 250ms: %v", got)
	}
	if m.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", m.Pending())
	}
	m.Advance(50 * time.Millisecond)
	if len(got) != 3 || got[2] != "b" {
		t.Fatalf("after 300ms: %v", got)
	}
}

func TestReal_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real{}.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

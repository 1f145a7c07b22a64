package sse

import (
	"strings"
	"testing"
	"time"
)

func waitForCount(t *testing.T, b *Broker, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d (got %d)", want, b.ClientCount())
}

func recvEvent(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return ""
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	waitForCount(t, b, 2)

	b.Unsubscribe(ch1)
	waitForCount(t, b, 1)

	// Unsubscribing the same channel twice is a no-op.
	b.Unsubscribe(ch1)
	waitForCount(t, b, 1)

	b.Unsubscribe(ch2)
	waitForCount(t, b, 0)
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	ch := b.Subscribe()
	waitForCount(t, b, 1)

	b.Publish(Event{Type: "note.created", Data: map[string]string{"path": "a.md"}})

	msg := recvEvent(t, ch)
	if !strings.Contains(msg, "event: note.created") {
		t.Errorf("msg = %q", msg)
	}
	if !strings.Contains(msg, `"path":"a.md"`) {
		t.Errorf("msg = %q", msg)
	}
	if !strings.HasSuffix(msg, "\n\n") {
		t.Errorf("msg not terminated by blank line: %q", msg)
	}
}

func TestPublishNoteEvent_Throttle(t *testing.T) {
	b := NewBroker(time.Hour) // throttle window longer than the test
	defer b.Close()

	ch := b.Subscribe()
	waitForCount(t, b, 1)

	b.PublishNoteEvent("created", "a.md")
	b.PublishNoteEvent("updated", "b.md")
	b.PublishNoteEvent("deleted", "c.md")

	// Drain: three note events plus exactly one vault.updated.
	var noteEvents, treeEvents int
	deadline := time.After(2 * time.Second)
	for noteEvents < 3 {
		select {
		case msg := <-ch:
			s := string(msg)
			if strings.Contains(s, "event: note.") {
				noteEvents++
			}
			if strings.Contains(s, "event: vault.updated") {
				treeEvents++
			}
		case <-deadline:
			t.Fatalf("timed out: %d note events, %d tree events", noteEvents, treeEvents)
		}
	}

	// Give any extra refresh signal a moment to arrive, then count leftovers.
	time.Sleep(50 * time.Millisecond)
	for {
		select {
		case msg := <-ch:
			if strings.Contains(string(msg), "event: vault.updated") {
				treeEvents++
			}
			continue
		default:
		}
		break
	}

	if treeEvents != 1 {
		t.Errorf("vault.updated events = %d, want 1 (throttled)", treeEvents)
	}
}

func TestSlowClientDoesNotBlock(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	slow := b.Subscribe()
	waitForCount(t, b, 1)

	// Overflow the slow client's buffer; the loop must keep running.
	for i := 0; i < 200; i++ {
		b.Publish(Event{Type: "note.updated", Data: map[string]string{}})
	}

	waitForCount(t, b, 1) // loop still responsive
	_ = slow
}

func TestClose(t *testing.T) {
	b := NewBroker(time.Second)
	ch := b.Subscribe()
	waitForCount(t, b, 1)

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			// Buffered event before close is fine; the channel must still
			// close afterwards.
			for range ch {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after Close")
	}

	// All post-close operations are safe no-ops.
	b.Publish(Event{Type: "x"})
	b.PublishNoteEvent("created", "a.md")
	b.Unsubscribe(ch)
	if n := b.ClientCount(); n != 0 {
		t.Errorf("client count after close = %d", n)
	}
	post := b.Subscribe()
	if _, ok := <-post; ok {
		t.Error("subscribe after close returned open channel")
	}

	b.Close() // idempotent
}

package mqtt

import (
	"fmt"
	"testing"
)

func msg(i int) queuedMsg {
	return queuedMsg{
		topic:   Topic,
		payload: []byte(fmt.Sprintf("payload-%d", i)),
		qos:     0,
	}
}

func TestRingBufferEmptyDrain(t *testing.T) {
	r := newRingBuffer(4)
	if got := r.drainAll(); got != nil {
		t.Errorf("expected nil from empty drain, got %v", got)
	}
	if r.len() != 0 {
		t.Errorf("expected len 0, got %d", r.len())
	}
}

func TestRingBufferPushDrainOrder(t *testing.T) {
	r := newRingBuffer(4)
	for i := 0; i < 3; i++ {
		r.push(msg(i))
	}
	if r.len() != 3 {
		t.Fatalf("expected len 3, got %d", r.len())
	}

	out := r.drainAll()
	if len(out) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(out))
	}
	for i, m := range out {
		want := fmt.Sprintf("payload-%d", i)
		if string(m.payload) != want {
			t.Errorf("message %d: got %q, want %q", i, m.payload, want)
		}
	}
	if r.len() != 0 {
		t.Errorf("expected empty after drain, got %d", r.len())
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	r := newRingBuffer(4)
	for i := 0; i < 6; i++ {
		r.push(msg(i))
	}
	if r.len() != 4 {
		t.Fatalf("expected len capped at 4, got %d", r.len())
	}

	out := r.drainAll()
	if len(out) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(out))
	}
	// Messages 0 and 1 were dropped; 2-5 remain in order.
	for i, m := range out {
		want := fmt.Sprintf("payload-%d", i+2)
		if string(m.payload) != want {
			t.Errorf("message %d: got %q, want %q", i, m.payload, want)
		}
	}
}

func TestRingBufferReusableAfterDrain(t *testing.T) {
	r := newRingBuffer(2)
	r.push(msg(0))
	r.push(msg(1))
	r.push(msg(2)) // overflow
	r.drainAll()

	r.push(msg(10))
	out := r.drainAll()
	if len(out) != 1 || string(out[0].payload) != "payload-10" {
		t.Errorf("buffer not clean after drain: %v", out)
	}
}

func TestRingBufferPreservesAttributes(t *testing.T) {
	r := newRingBuffer(2)
	r.push(queuedMsg{topic: TopicSystem, payload: []byte("x"), qos: 1, retained: true})
	out := r.drainAll()
	if len(out) != 1 {
		t.Fatalf("expected 1 message, got %d", len(out))
	}
	m := out[0]
	if m.topic != TopicSystem || m.qos != 1 || !m.retained {
		t.Errorf("attributes lost: %+v", m)
	}
}

package link

import (
	"fmt"
	"testing"
)

func msg(i int) outboundMsg {
	return outboundMsg{topic: TopicTelemetry, payload: []byte(fmt.Sprintf("m%d", i))}
}

func TestOfflineQueueFIFO(t *testing.T) {
	q := newOfflineQueue(4)
	for i := 0; i < 3; i++ {
		q.push(msg(i))
	}
	if q.size() != 3 {
		t.Fatalf("size = %d, want 3", q.size())
	}

	drained := q.drain()
	if len(drained) != 3 {
		t.Fatalf("drained %d, want 3", len(drained))
	}
	for i, m := range drained {
		want := fmt.Sprintf("m%d", i)
		if string(m.payload) != want {
			t.Errorf("drained[%d] = %q, want %q", i, m.payload, want)
		}
	}
	if q.size() != 0 {
		t.Errorf("size after drain = %d, want 0", q.size())
	}
}

func TestOfflineQueueDropsOldestAtCapacity(t *testing.T) {
	q := newOfflineQueue(3)
	for i := 0; i < 5; i++ {
		q.push(msg(i))
	}
	if q.size() != 3 {
		t.Fatalf("size = %d, want 3", q.size())
	}

	drained := q.drain()
	// Messages 0 and 1 were dropped; 2, 3, 4 remain in order.
	for i, m := range drained {
		want := fmt.Sprintf("m%d", i+2)
		if string(m.payload) != want {
			t.Errorf("drained[%d] = %q, want %q", i, m.payload, want)
		}
	}
}

func TestOfflineQueueDrainEmpty(t *testing.T) {
	q := newOfflineQueue(2)
	if got := q.drain(); got != nil {
		t.Errorf("drain of empty queue = %v, want nil", got)
	}
}

func TestOfflineQueueReuseAfterDrain(t *testing.T) {
	q := newOfflineQueue(2)
	q.push(msg(0))
	q.drain()
	q.push(msg(1))
	q.push(msg(2))
	drained := q.drain()
	if len(drained) != 2 {
		t.Fatalf("drained %d, want 2", len(drained))
	}
	if string(drained[0].payload) != "m1" || string(drained[1].payload) != "m2" {
		t.Errorf("drained = %q, %q", drained[0].payload, drained[1].payload)
	}
}

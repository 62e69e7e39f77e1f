package link

import "log"

// outboundMsg is one publish held for replay after reconnection.
type outboundMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// offlineQueue holds outbound messages while the broker is unreachable,
// keeping the most recent capacity entries in FIFO order. Not safe for
// concurrent use — caller must synchronize.
type offlineQueue struct {
	msgs    []outboundMsg
	tail    int // oldest entry
	count   int
	dropped bool // a message was discarded since the last drain
}

func newOfflineQueue(capacity int) *offlineQueue {
	return &offlineQueue{msgs: make([]outboundMsg, capacity)}
}

func (q *offlineQueue) push(m outboundMsg) {
	if q.count == len(q.msgs) {
		if !q.dropped {
			log.Printf("link: offline queue full (%d messages), dropping oldest", len(q.msgs))
			q.dropped = true
		}
		q.msgs[q.tail] = m
		q.tail = (q.tail + 1) % len(q.msgs)
		return
	}
	q.msgs[(q.tail+q.count)%len(q.msgs)] = m
	q.count++
}

// drain returns the queued messages oldest-first and empties the queue.
func (q *offlineQueue) drain() []outboundMsg {
	if q.count == 0 {
		return nil
	}
	out := make([]outboundMsg, q.count)
	for i := range out {
		out[i] = q.msgs[(q.tail+i)%len(q.msgs)]
	}
	q.tail = 0
	q.count = 0
	q.dropped = false
	return out
}

func (q *offlineQueue) size() int {
	return q.count
}

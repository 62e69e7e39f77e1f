// Package debounce smooths noisy scalar samples with a fixed-window average.
// A Buffer is written by exactly one owning task; callers must not share a
// Buffer between writers. Readers of Average on other goroutines get a stale
// but well-formed value; the telemetry it feeds is loosely real-time, not
// transactional.
package debounce

// Capacity is the fixed number of samples in every buffer's window.
const Capacity = 5

// Buffer is a fixed-capacity circular buffer of recent samples.
// The zero value is ready to use.
type Buffer struct {
	slots [Capacity]float64
	next  int // next write position, wraps mod Capacity
	count int // valid samples so far, saturates at Capacity
}

// Push writes sample at the current position and advances the write index.
func (b *Buffer) Push(sample float64) {
	b.slots[b.next] = sample
	b.next = (b.next + 1) % Capacity
	if b.count < Capacity {
		b.count++
	}
}

// Average returns the mean over all Capacity slots. Slots that have never
// been written count as 0, so the result is biased toward 0 during the
// first Capacity-1 pushes after init. Downstream thresholds are tuned to
// that warm-up artifact; do not divide by the valid count instead.
func (b *Buffer) Average() float64 {
	sum := 0.0
	for _, s := range b.slots {
		sum += s
	}
	return sum / Capacity
}

// Len returns the number of valid samples pushed so far, up to Capacity.
func (b *Buffer) Len() int {
	return b.count
}

// Filled reports whether a full window of samples has been written, i.e.
// Average is past its warm-up bias.
func (b *Buffer) Filled() bool {
	return b.count == Capacity
}

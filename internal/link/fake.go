package link

import "sync"

// FakeLink records outbound traffic and lets tests script inbound commands.
type FakeLink struct {
	mu sync.Mutex

	// Replies contains all replies sent.
	Replies []string

	// Telemetry contains all telemetry payloads published.
	Telemetry [][]byte

	// SystemEvents contains all lifecycle events published.
	SystemEvents []SystemEvent

	// ReplyError, if set, is returned by Reply.
	ReplyError error

	// PublishError, if set, is returned by PublishTelemetry/PublishSystem.
	PublishError error

	// Connected controls IsConnected.
	Connected bool

	// Closed tracks whether Close was called.
	Closed bool

	commands chan string
}

// NewFakeLink creates a FakeLink with a buffered command channel.
func NewFakeLink() *FakeLink {
	return &FakeLink{commands: make(chan string, 16), Connected: true}
}

// Inject delivers a command line as if it arrived from the broker.
func (f *FakeLink) Inject(line string) {
	f.commands <- line
}

// Commands returns the scripted command stream.
func (f *FakeLink) Commands() <-chan string {
	return f.commands
}

// Reply records the reply.
func (f *FakeLink) Reply(msg string) error {
	if f.ReplyError != nil {
		return f.ReplyError
	}
	f.mu.Lock()
	f.Replies = append(f.Replies, msg)
	f.mu.Unlock()
	return nil
}

// PublishTelemetry records the payload.
func (f *FakeLink) PublishTelemetry(payload []byte) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.mu.Lock()
	f.Telemetry = append(f.Telemetry, payload)
	f.mu.Unlock()
	return nil
}

// PublishSystem records the event.
func (f *FakeLink) PublishSystem(event SystemEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.mu.Lock()
	f.SystemEvents = append(f.SystemEvents, event)
	f.mu.Unlock()
	return nil
}

// IsConnected reports the scripted connection state.
func (f *FakeLink) IsConnected() bool {
	return f.Connected
}

// Close marks the link closed.
func (f *FakeLink) Close() error {
	f.Closed = true
	return nil
}

// SentReplies returns a copy of the recorded replies.
func (f *FakeLink) SentReplies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Replies))
	copy(out, f.Replies)
	return out
}

// Package link provides the wireless command channel with abstraction for
// testing. Commands arrive as terminator-delimited text lines; replies and
// telemetry go back as JSON. The real implementation speaks MQTT to the
// operator app's broker.
package link

import (
	"encoding/json"
	"time"
)

// MQTT topics for the control channel.
const (
	// TopicCommands carries inbound text command lines.
	TopicCommands = "rfboard/control/commands"

	// TopicReplies carries command replies.
	TopicReplies = "rfboard/control/replies"

	// TopicTelemetry carries periodic status snapshots.
	TopicTelemetry = "rfboard/telemetry"

	// TopicSystem carries lifecycle events (startup, shutdown, reset).
	TopicSystem = "rfboard/system"
)

// Link is the wireless command/telemetry channel.
type Link interface {
	// Commands returns the stream of received command lines, with the
	// message terminator already stripped.
	Commands() <-chan string

	// Reply sends a command reply. Returns an error if sending fails;
	// callers log and continue (the comms task must keep its period).
	Reply(msg string) error

	// PublishTelemetry sends a status payload on the telemetry topic.
	PublishTelemetry(payload []byte) error

	// PublishSystem sends a lifecycle event on the system topic.
	PublishSystem(event SystemEvent) error

	// IsConnected reports whether the underlying transport is up.
	IsConnected() bool

	// Close disconnects from the broker.
	Close() error
}

// SystemEvent is a lifecycle event (e.g., startup, shutdown, reset).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "RESET"
	Reason     string // offending task name, signal name
	RawPayload []byte // pre-formatted JSON; if set, returned directly
	Retained   bool
}

// SystemPayload is the JSON envelope for simple system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// A pre-formatted RawPayload is returned directly.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

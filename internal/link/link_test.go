package link

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestFormatSystemPayload(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: ts,
		Event:     "RESET",
		Reason:    "sensing",
	})
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	var decoded SystemPayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.System.Event != "RESET" {
		t.Errorf("event = %q, want RESET", decoded.System.Event)
	}
	if decoded.System.Reason != "sensing" {
		t.Errorf("reason = %q, want sensing", decoded.System.Reason)
	}
	if decoded.System.Timestamp != "2026-03-14T09:26:53Z" {
		t.Errorf("timestamp = %q", decoded.System.Timestamp)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"custom":true}`)
	payload, err := FormatSystemPayload(SystemEvent{RawPayload: raw})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("payload = %s, want raw passthrough", payload)
	}
}

func TestFakeLinkRoundTrip(t *testing.T) {
	f := NewFakeLink()

	f.Inject("GET_STATUS")
	select {
	case line := <-f.Commands():
		if line != "GET_STATUS" {
			t.Errorf("command = %q", line)
		}
	default:
		t.Fatal("injected command not delivered")
	}

	if err := f.Reply("OK"); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if err := f.PublishTelemetry([]byte("{}")); err != nil {
		t.Fatalf("telemetry: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("system: %v", err)
	}

	if got := f.SentReplies(); len(got) != 1 || got[0] != "OK" {
		t.Errorf("replies = %v", got)
	}
	if len(f.Telemetry) != 1 || len(f.SystemEvents) != 1 {
		t.Errorf("telemetry=%d system=%d, want 1/1", len(f.Telemetry), len(f.SystemEvents))
	}
}

func TestFakeLinkErrors(t *testing.T) {
	f := NewFakeLink()
	f.ReplyError = errors.New("down")
	if err := f.Reply("OK"); err == nil {
		t.Error("expected scripted reply error")
	}
	f.PublishError = errors.New("down")
	if err := f.PublishTelemetry(nil); err == nil {
		t.Error("expected scripted publish error")
	}
	if len(f.Replies) != 0 || len(f.Telemetry) != 0 {
		t.Error("failed sends must not be recorded")
	}
}

// Package command validates and dispatches the fixed text command
// vocabulary received over the wireless link. Lines that do not match the
// vocabulary are rejected with no further effect.
package command

import (
	"context"
	"log"
	"strings"

	"github.com/calder/rfboard/internal/metrics"
	"github.com/calder/rfboard/internal/nvm"
	"github.com/calder/rfboard/internal/status"
)

// Command verbs.
const (
	VerbSetFreq   = "SET_FREQ"
	VerbGetStatus = "GET_STATUS"
)

// FreqKey is the store key holding the programmed output frequency.
const FreqKey = "freq"

// Command is a validated command line.
type Command struct {
	Verb string
	Arg  string
}

// Parse validates one terminator-stripped command line against the fixed
// vocabulary by prefix match. It returns false for empty, malformed, or
// unknown commands.
func Parse(line string) (Command, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, false
	}

	switch {
	case strings.HasPrefix(line, VerbSetFreq):
		arg := strings.TrimSpace(line[len(VerbSetFreq):])
		if arg == "" {
			return Command{}, false
		}
		return Command{Verb: VerbSetFreq, Arg: arg}, true
	case strings.HasPrefix(line, VerbGetStatus):
		return Command{Verb: VerbGetStatus}, true
	}
	return Command{}, false
}

// Replier sends a text reply back over the link.
type Replier interface {
	Reply(msg string) error
}

// Dispatcher applies validated commands: SET_FREQ persists the frequency
// program, GET_STATUS answers with the status snapshot.
type Dispatcher struct {
	store   nvm.Store
	tracker *status.Tracker
	replier Replier
}

// NewDispatcher creates a dispatcher over the given collaborators.
func NewDispatcher(store nvm.Store, tracker *status.Tracker, replier Replier) *Dispatcher {
	return &Dispatcher{store: store, tracker: tracker, replier: replier}
}

// Handle parses and applies one command line. It returns false when the
// line was rejected. Reply or store failures are logged, not propagated:
// this runs inside the comms task, which must keep its period.
func (d *Dispatcher) Handle(ctx context.Context, line string) bool {
	cmd, ok := Parse(line)
	if !ok {
		metrics.CommandsRejected.Inc()
		log.Printf("command: rejected %q", strings.TrimSpace(line))
		return false
	}

	switch cmd.Verb {
	case VerbSetFreq:
		if err := d.store.Set(ctx, FreqKey, cmd.Arg); err != nil {
			log.Printf("command: persist %s: %v", FreqKey, err)
			d.reply("ERR SET_FREQ")
			return true
		}
		log.Printf("command: frequency program set to %s", cmd.Arg)
		d.reply("OK SET_FREQ")
	case VerbGetStatus:
		snap := d.tracker.Snapshot()
		d.reply(string(status.FormatStatusEvent(snap, "STATUS")))
	}
	return true
}

func (d *Dispatcher) reply(msg string) {
	if d.replier == nil {
		return
	}
	if err := d.replier.Reply(msg); err != nil {
		log.Printf("command: reply: %v", err)
	}
}

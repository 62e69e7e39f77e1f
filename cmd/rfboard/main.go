// Command rfboard runs the two-core measurement controller: pinned
// periodic sensing and battery tasks, the wireless command channel, and
// the shared watchdog that resets the board when a task stalls.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/calder/rfboard/internal/adc"
	"github.com/calder/rfboard/internal/command"
	"github.com/calder/rfboard/internal/debounce"
	"github.com/calder/rfboard/internal/link"
	"github.com/calder/rfboard/internal/metrics"
	"github.com/calder/rfboard/internal/nvm"
	"github.com/calder/rfboard/internal/reset"
	"github.com/calder/rfboard/internal/sched"
	"github.com/calder/rfboard/internal/sense"
	"github.com/calder/rfboard/internal/status"
	"github.com/calder/rfboard/internal/watchdog"
	"github.com/calder/rfboard/internal/web"
)

// DefaultIIODir is the sysfs directory of the board ADC.
const DefaultIIODir = "/sys/bus/iio/devices/iio:device0"

type options struct {
	broker        string
	redisAddr     string
	httpAddr      string
	iioDir        string
	watchdog      time.Duration
	sensePeriod   time.Duration
	batteryPeriod time.Duration
	commsPeriod   time.Duration
	diagPeriod    time.Duration
	resetChip     string
	resetPin      int
	printState    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	flag.StringVar(&opts.redisAddr, "redis", "localhost:6379", "Redis address for persistent settings")
	flag.StringVar(&opts.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.StringVar(&opts.iioDir, "iio", DefaultIIODir, "IIO device directory for the board ADC")
	flag.DurationVar(&opts.watchdog, "watchdog", 5*time.Second, "Watchdog timeout")
	flag.DurationVar(&opts.sensePeriod, "sense-period", 10*time.Millisecond, "Current/voltage sensing period")
	flag.DurationVar(&opts.batteryPeriod, "battery-period", time.Second, "Battery monitoring period")
	flag.DurationVar(&opts.commsPeriod, "comms-period", 100*time.Millisecond, "Command channel polling period")
	flag.DurationVar(&opts.diagPeriod, "diag-period", 10*time.Second, "Diagnostics logging period")
	flag.StringVar(&opts.resetChip, "reset-chip", "gpiochip0", "GPIO chip holding the reset line")
	flag.IntVar(&opts.resetPin, "reset-pin", reset.DefaultResetPin, "BCM pin of the hardware reset line (-1 to exit instead)")
	flag.BoolVar(&opts.printState, "print-state", false, "Print one debounced snapshot and exit")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(opts options) error {
	// Persistent settings store. A missing backend degrades to an
	// in-memory store: commands still work, programs just don't survive
	// a reset.
	ctx := context.Background()
	var store nvm.Store
	redisStore, err := nvm.NewRedisStore(ctx, opts.redisAddr)
	if err != nil {
		log.Printf("settings store unavailable, running volatile: %v", err)
		store = nvm.NewFakeStore()
	} else {
		store = redisStore
	}
	defer store.Close()

	// Wireless link. An unreachable broker degrades to a dead link: the
	// board keeps sensing, it just can't be commanded.
	var lnk link.Link
	realLink, err := link.NewRealLink(opts.broker)
	if err != nil {
		log.Printf("wireless link unavailable, running headless: %v", err)
		lnk = newNullLink()
	} else {
		lnk = realLink
	}
	defer lnk.Close()

	// Analog front end and sensing modules. Without the ADC the board has
	// no reason to exist, so this failure is fatal.
	reader, err := adc.NewRealReader(opts.iioDir,
		adc.DefaultIndexCurrent1, adc.DefaultIndexCurrent2,
		adc.DefaultIndexVoltage, adc.DefaultIndexBattery)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}

	if opts.printState {
		return printSnapshot(reader)
	}

	current := sense.NewCurrent(reader)
	voltage := sense.NewVoltage(reader)
	battery := sense.NewBattery(reader)
	for _, init := range []func() error{current.Init, voltage.Init, battery.Init} {
		if err := init(); err != nil {
			return fmt.Errorf("init sensing: %w", err)
		}
	}
	defer func() {
		for _, deinit := range []func() error{battery.Deinit, voltage.Deinit, current.Deinit} {
			if err := deinit(); err != nil {
				log.Printf("deinit sensing: %v", err)
			}
		}
	}()

	if freq, ok, err := store.Get(ctx, command.FreqKey); err != nil {
		log.Printf("restore frequency program: %v", err)
	} else if ok {
		log.Printf("restored frequency program: %s", freq)
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		SensePeriodMs:   opts.sensePeriod.Milliseconds(),
		BatteryPeriodMs: opts.batteryPeriod.Milliseconds(),
		CommsPeriodMs:   opts.commsPeriod.Milliseconds(),
		WatchdogMs:      opts.watchdog.Milliseconds(),
		Broker:          opts.broker,
		HTTPAddr:        opts.httpAddr,
	})
	tracker.SetCalibrated(reader.Calibrated())
	tracker.SetLinkConnected(lnk.IsConnected())

	snap := tracker.Snapshot()
	startup := link.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP"),
	}
	if err := lnk.PublishSystem(startup); err != nil {
		log.Printf("publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	resetter := newResetter(opts.resetChip, opts.resetPin)
	wd := watchdog.New(nil, func(task string) {
		metrics.WatchdogTrips.Inc()
		if err := resetter.Reset(task); err != nil {
			log.Printf("reset failed: %v", err)
		}
	})
	wd.Init(opts.watchdog)
	defer wd.Deinit()
	tracker.SetWatchdogArmed(true)

	sch := sched.New(wd)
	defer sch.Stop()

	g, gctx := errgroup.WithContext(ctx)
	dispatcher := command.NewDispatcher(store, tracker, lnk)

	tasks := []sched.Task{
		{Name: "sensing", Core: 1, Priority: 2, Period: opts.sensePeriod, Work: func() {
			current.Step()
			voltage.Step()
			tracker.SetCurrents(
				current.Debounced(sense.Sensor1), current.Debounced(sense.Sensor2),
				current.Limit(),
				current.OverLimit(sense.Sensor1), current.OverLimit(sense.Sensor2))
			tracker.SetLoadVoltage(voltage.Debounced())
		}},
		{Name: "battery", Core: 1, Priority: 1, Period: opts.batteryPeriod, Work: func() {
			battery.Step()
			tracker.SetBattery(battery.Debounced(), battery.SOC())
		}},
		{Name: "comms", Core: 0, Priority: 1, Period: opts.commsPeriod, Work: func() {
			drainCommands(gctx, lnk, dispatcher)
			tracker.SetLinkConnected(lnk.IsConnected())
			publishTelemetry(lnk, tracker)
		}},
		{Name: "diagnostics", Core: 0, Priority: 1, Period: opts.diagPeriod, Work: func() {
			logDiagnostics(tracker)
		}},
	}
	for _, t := range tasks {
		if err := sch.Schedule(t); err != nil {
			return fmt.Errorf("schedule %s: %w", t.Name, err)
		}
	}

	log.Printf("started: sense=%v battery=%v comms=%v watchdog=%v broker=%s",
		opts.sensePeriod, opts.batteryPeriod, opts.commsPeriod, opts.watchdog, opts.broker)

	g.Go(func() error {
		return monitor(gctx, wd, opts.watchdog/10)
	})
	g.Go(func() error {
		return awaitSignal(gctx, lnk, tracker)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		return err
	}
	return nil
}

// monitor drives the watchdog check loop, standing in for the platform's
// timer interrupt. It feeds the main context each tick and ends the run
// when any task misses its window. The tick is a small fraction of the
// timeout so detection lags the missed window by at most one tick.
func monitor(ctx context.Context, wd *watchdog.Supervisor, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			wd.Feed(watchdog.MainTask)
			if task, tripped := wd.Check(); tripped {
				return fmt.Errorf("watchdog tripped on task %q", task)
			}
		}
	}
}

// errShutdown marks a clean signal-driven exit.
var errShutdown = errors.New("shutdown")

func awaitSignal(ctx context.Context, lnk link.Link, tracker *status.Tracker) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		return nil
	case s := <-sigCh:
		log.Printf("received %v, shutting down", s)
		name := "UNKNOWN"
		if s == syscall.SIGINT {
			name = "SIGINT"
		} else if s == syscall.SIGTERM {
			name = "SIGTERM"
		}
		snap := tracker.Snapshot()
		event := link.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "SHUTDOWN",
			Reason:     name,
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN"),
		}
		if err := lnk.PublishSystem(event); err != nil {
			log.Printf("publish shutdown event: %v", err)
		} else {
			log.Printf("published shutdown event")
		}
		return errShutdown
	}
}

// drainCommands handles every command queued since the last period
// without blocking the comms task.
func drainCommands(ctx context.Context, lnk link.Link, d *command.Dispatcher) {
	for {
		select {
		case line := <-lnk.Commands():
			d.Handle(ctx, line)
		default:
			return
		}
	}
}

// publishTelemetry pushes the current snapshot to the telemetry topic.
// While the link is down the real implementation buffers the payload for
// replay, so only failures on a live connection are worth logging.
func publishTelemetry(lnk link.Link, tracker *status.Tracker) {
	snap := tracker.Snapshot()
	if err := lnk.PublishTelemetry(status.FormatStatusEvent(snap, "TELEMETRY")); err != nil && lnk.IsConnected() {
		log.Printf("telemetry publish: %v", err)
	}
}

func logDiagnostics(tracker *status.Tracker) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	snap := tracker.Snapshot()
	log.Printf("diag: up %v, goroutines %d, heap %d KiB, i1 %.3f A, i2 %.3f A, load %.2f V, battery %.2f V (%d%%)",
		snap.Uptime().Truncate(time.Second), runtime.NumGoroutine(), m.HeapAlloc/1024,
		snap.Current1, snap.Current2, snap.LoadVoltage, snap.BatteryVolts, snap.BatterySOC)
}

// newResetter picks the reset capability: the hardware line when one is
// wired, otherwise process exit with a supervisor restart.
func newResetter(chip string, pin int) reset.Resetter {
	if pin < 0 {
		return reset.NewExitResetter()
	}
	r, err := reset.NewLineResetter(chip, pin)
	if err != nil {
		log.Printf("reset line unavailable, falling back to process exit: %v", err)
		return reset.NewExitResetter()
	}
	return r
}

// printSnapshot fills the debounce windows once and prints the averaged
// readings. Used by -print-state for bench checks.
func printSnapshot(reader adc.Reader) error {
	current := sense.NewCurrent(reader)
	voltage := sense.NewVoltage(reader)
	battery := sense.NewBattery(reader)
	defer reader.Close()

	for i := 0; i < debounce.Capacity; i++ {
		current.Step()
		voltage.Step()
		battery.Step()
		time.Sleep(10 * time.Millisecond)
	}

	fmt.Printf("current1: %.3f A\n", current.Debounced(sense.Sensor1))
	fmt.Printf("current2: %.3f A\n", current.Debounced(sense.Sensor2))
	fmt.Printf("load: %.2f V\n", voltage.Debounced())
	fmt.Printf("battery: %.2f V (%d%%)\n", battery.Debounced(), battery.SOC())
	return nil
}

// nullLink stands in when the broker is unreachable at startup: commands
// never arrive and publishes report the link down.
type nullLink struct {
	commands chan string
}

var errNoLink = errors.New("link: not connected")

func newNullLink() *nullLink {
	return &nullLink{commands: make(chan string)}
}

func (n *nullLink) Commands() <-chan string              { return n.commands }
func (n *nullLink) Reply(string) error                   { return errNoLink }
func (n *nullLink) PublishTelemetry([]byte) error        { return errNoLink }
func (n *nullLink) PublishSystem(link.SystemEvent) error { return errNoLink }
func (n *nullLink) IsConnected() bool                    { return false }
func (n *nullLink) Close() error                         { return nil }

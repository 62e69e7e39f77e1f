package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func testTracker() *Tracker {
	return NewTracker(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), Config{
		SensePeriodMs:   10,
		BatteryPeriodMs: 1000,
		CommsPeriodMs:   100,
		WatchdogMs:      5000,
		Broker:          "tcp://broker:1883",
		HTTPAddr:        ":8080",
	})
}

func TestSnapshotReflectsWrites(t *testing.T) {
	tr := testTracker()

	tr.SetCurrents(0.05, 0.02, 0.1, false, false)
	tr.SetLoadVoltage(12.4)
	tr.SetBattery(10.8, 50)
	tr.SetCalibrated(true)
	tr.SetWatchdogArmed(true)
	tr.SetLinkConnected(true)

	snap := tr.Snapshot()
	if snap.Current1 != 0.05 || snap.Current2 != 0.02 {
		t.Errorf("currents = %v/%v", snap.Current1, snap.Current2)
	}
	if snap.LoadVoltage != 12.4 {
		t.Errorf("load voltage = %v", snap.LoadVoltage)
	}
	if snap.BatteryVolts != 10.8 || snap.BatterySOC != 50 {
		t.Errorf("battery = %v/%d", snap.BatteryVolts, snap.BatterySOC)
	}
	if !snap.Calibrated || !snap.WatchdogArmed || !snap.LinkConnected {
		t.Error("boolean flags not recorded")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tr := testTracker()
	tr.SetBattery(12.0, 85)
	snap := tr.Snapshot()
	tr.SetBattery(9.0, 0)
	if snap.BatterySOC != 85 {
		t.Error("snapshot mutated after later writes")
	}
}

func TestUptime(t *testing.T) {
	tr := testTracker()
	snap := tr.Snapshot()
	if snap.Uptime() < 0 {
		t.Errorf("uptime = %v, want >= 0", snap.Uptime())
	}
}

func TestFormatJSONRoundTrips(t *testing.T) {
	tr := testTracker()
	tr.SetCurrents(0.09, 0.01, 0.1, true, false)
	tr.SetBattery(11.0, 55)

	var decoded StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Status.Current1 != 0.09 {
		t.Errorf("current1 = %v", decoded.Status.Current1)
	}
	if !decoded.Status.Over1 || decoded.Status.Over2 {
		t.Errorf("over-limit flags = %v/%v", decoded.Status.Over1, decoded.Status.Over2)
	}
	if decoded.Status.BatterySOC != 55 {
		t.Errorf("soc = %d", decoded.Status.BatterySOC)
	}
	if decoded.Status.Event != "" {
		t.Errorf("web JSON should carry no event tag, got %q", decoded.Status.Event)
	}
	if decoded.Status.Config.WatchdogMs != 5000 {
		t.Errorf("watchdog ms = %d", decoded.Status.Config.WatchdogMs)
	}
}

func TestFormatStatusEventCarriesEvent(t *testing.T) {
	tr := testTracker()
	var decoded StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "STATUS"), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Status.Event != "STATUS" {
		t.Errorf("event = %q, want STATUS", decoded.Status.Event)
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	tr := testTracker()
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			tr.SetCurrents(float64(i), 0, 0.1, false, false)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			tr.SetBattery(float64(i), i%100)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = tr.Snapshot()
		}
	}()
	wg.Wait()
}

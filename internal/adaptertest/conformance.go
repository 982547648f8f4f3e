// Package adaptertest provides conformance testing for radio subsystem
// implementations of adapter.RadioControl.
package adaptertest

import (
	"fmt"
	"testing"
	"time"

	"github.com/radio-control/saltybridge/internal/adapter"
)

// Capabilities defines the expected shape of the radio under test.
type Capabilities struct {
	// Slots is the number of configured channel slots, numbered from 1.
	Slots            int
	DefaultFrequency string
	DefaultVolume    float64
}

// ConformanceResult represents the result of a conformance test.
type ConformanceResult struct {
	TestName string
	Passed   bool
	Error    string
	Duration time.Duration
}

// ConformanceReport represents the complete conformance test report.
type ConformanceReport struct {
	AdapterName   string
	TotalTests    int
	PassedTests   int
	FailedTests   int
	Results       []ConformanceResult
	OverallPassed bool
	Duration      time.Duration
}

// RunConformance runs the complete conformance suite. newRadio must return a
// fresh radio for every call.
func RunConformance(t *testing.T, name string, newRadio func() adapter.RadioControl, caps Capabilities) {
	t.Helper()
	start := time.Now()

	report := &ConformanceReport{
		AdapterName:   name,
		OverallPassed: true,
	}

	checks := []struct {
		name string
		run  func(adapter.RadioControl, Capabilities) error
	}{
		{"Defaults", checkDefaults},
		{"UnknownSlots", checkUnknownSlots},
		{"FrequencyVerbatim", checkFrequencyVerbatim},
		{"VolumeUnclamped", checkVolumeUnclamped},
		{"ChannelIsolation", checkChannelIsolation},
		{"Idempotency", checkIdempotency},
		{"ControlLeavesSettings", checkControlLeavesSettings},
	}
	for _, c := range checks {
		checkStart := time.Now()
		result := ConformanceResult{TestName: c.name, Passed: true}
		if err := c.run(newRadio(), caps); err != nil {
			result.Passed = false
			result.Error = err.Error()
		}
		result.Duration = time.Since(checkStart)
		report.addResult(result)
	}

	report.Duration = time.Since(start)
	printConformanceReport(t, report)

	if !report.OverallPassed {
		t.Fatalf("Radio conformance test failed: %d/%d tests passed", report.PassedTests, report.TotalTests)
	}
}

func checkDefaults(r adapter.RadioControl, caps Capabilities) error {
	for slot := 1; slot <= caps.Slots; slot++ {
		settings, ok := r.ChannelSettings(slot)
		if !ok {
			return fmt.Errorf("slot %d missing", slot)
		}
		if settings.Frequency != caps.DefaultFrequency {
			return fmt.Errorf("slot %d frequency %q, want %q", slot, settings.Frequency, caps.DefaultFrequency)
		}
		if settings.Volume != caps.DefaultVolume {
			return fmt.Errorf("slot %d volume %v, want %v", slot, settings.Volume, caps.DefaultVolume)
		}
	}
	return nil
}

func checkUnknownSlots(r adapter.RadioControl, caps Capabilities) error {
	for _, slot := range []int{0, -1, caps.Slots + 1} {
		r.ChangeRadioFrequencyRaw(slot, "123")
		r.ChangeRadioChannelVolumeRaw(slot, 0.5)
		if _, ok := r.ChannelSettings(slot); ok {
			return fmt.Errorf("slot %d must not exist", slot)
		}
	}
	return nil
}

func checkFrequencyVerbatim(r adapter.RadioControl, caps Capabilities) error {
	for _, token := range []string{"1337", "", "abc", "100.5", " 42 "} {
		r.ChangeRadioFrequencyRaw(1, token)
		settings, _ := r.ChannelSettings(1)
		if settings.Frequency != token {
			return fmt.Errorf("frequency %q stored as %q", token, settings.Frequency)
		}
	}
	return nil
}

func checkVolumeUnclamped(r adapter.RadioControl, caps Capabilities) error {
	for _, volume := range []float64{-1, 0, 0.3, 1.6, 100} {
		r.ChangeRadioChannelVolumeRaw(1, volume)
		settings, _ := r.ChannelSettings(1)
		if settings.Volume != volume {
			return fmt.Errorf("volume %v stored as %v", volume, settings.Volume)
		}
	}
	return nil
}

func checkChannelIsolation(r adapter.RadioControl, caps Capabilities) error {
	if caps.Slots < 2 {
		return nil
	}
	before, _ := r.ChannelSettings(2)
	r.ChangeRadioFrequencyRaw(1, "777")
	r.ChangeRadioChannelVolumeRaw(1, 0.1)
	after, _ := r.ChannelSettings(2)
	if before != after {
		return fmt.Errorf("slot 2 changed from %+v to %+v", before, after)
	}
	return nil
}

func checkIdempotency(r adapter.RadioControl, caps Capabilities) error {
	r.ChangeRadioFrequencyRaw(1, "55")
	first, _ := r.ChannelSettings(1)
	r.ChangeRadioFrequencyRaw(1, "55")
	second, _ := r.ChannelSettings(1)
	if first != second {
		return fmt.Errorf("repeated write changed settings from %+v to %+v", first, second)
	}
	return nil
}

func checkControlLeavesSettings(r adapter.RadioControl, caps Capabilities) error {
	before := make([]adapter.RadioSettings, caps.Slots)
	for slot := 1; slot <= caps.Slots; slot++ {
		before[slot-1], _ = r.ChannelSettings(slot)
	}

	r.EnableRadio(true)
	r.ChangeActiveRadioChannel(caps.Slots)
	r.RadioTalkingStart(true)
	r.RadioTalkingStart(false)
	r.EnableRadio(false)

	for slot := 1; slot <= caps.Slots; slot++ {
		after, _ := r.ChannelSettings(slot)
		if after != before[slot-1] {
			return fmt.Errorf("slot %d changed by control calls", slot)
		}
	}
	return nil
}

func (r *ConformanceReport) addResult(result ConformanceResult) {
	r.Results = append(r.Results, result)
	r.TotalTests++
	if result.Passed {
		r.PassedTests++
	} else {
		r.FailedTests++
		r.OverallPassed = false
	}
}

func printConformanceReport(t *testing.T, report *ConformanceReport) {
	t.Helper()
	t.Logf("Conformance report for %s: %d/%d passed in %v",
		report.AdapterName, report.PassedTests, report.TotalTests, report.Duration)
	for _, result := range report.Results {
		status := "PASS"
		if !result.Passed {
			status = "FAIL"
		}
		if result.Error != "" {
			t.Logf("  %s %s (%v): %s", status, result.TestName, result.Duration, result.Error)
			continue
		}
		t.Logf("  %s %s (%v)", status, result.TestName, result.Duration)
	}
}

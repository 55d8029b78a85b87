// SPDX-License-Identifier: EPL-2.0

package sequencer

import (
	"errors"
	"fmt"
	"time"
)

// Track is one instrument's part. Steps holds one flag per step and a
// non-zero flag plays the instrument on that step.
type Track struct {
	Instrument string `json:"instrument" yaml:"instrument"`
	Steps      []int  `json:"steps" yaml:"steps"`
}

// Pattern is a loopable drum pattern.
type Pattern struct {
	Name           string  `json:"name" yaml:"name"`
	StepCount      int     `json:"stepCount" yaml:"step_count"`
	BeatsPerMinute int     `json:"beatsPerMinute" yaml:"beats_per_minute"`
	Tracks         []Track `json:"tracks" yaml:"tracks"`
}

// Validate reports every problem with p, joined.
func (p Pattern) Validate() error {
	var errs []error
	if p.StepCount <= 0 {
		errs = append(errs, fmt.Errorf("step count %d must be positive", p.StepCount))
	}
	if p.BeatsPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("tempo %d bpm must be positive", p.BeatsPerMinute))
	}
	for i, tr := range p.Tracks {
		if tr.Instrument == "" {
			errs = append(errs, fmt.Errorf("track %d has no instrument", i))
		}
		if len(tr.Steps) > p.StepCount {
			errs = append(errs, fmt.Errorf("track %q has %d steps, pattern has %d",
				tr.Instrument, len(tr.Steps), p.StepCount))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidPattern, p.Name, errors.Join(errs...))
	}
	return nil
}

// Active returns the instruments that play on step, counted from zero.
func (p Pattern) Active(step int) []string {
	var out []string
	for _, tr := range p.Tracks {
		if step >= 0 && step < len(tr.Steps) && tr.Steps[step] != 0 {
			out = append(out, tr.Instrument)
		}
	}
	return out
}

// Instruments lists every instrument the pattern uses, in track order.
func (p Pattern) Instruments() []string {
	out := make([]string, 0, len(p.Tracks))
	seen := make(map[string]bool, len(p.Tracks))
	for _, tr := range p.Tracks {
		if !seen[tr.Instrument] {
			seen[tr.Instrument] = true
			out = append(out, tr.Instrument)
		}
	}
	return out
}

// StepDelay is the time between two steps at bpm: 60000/bpm milliseconds.
// A non-positive tempo yields zero.
func StepDelay(bpm int) time.Duration {
	if bpm <= 0 {
		return 0
	}
	return time.Minute / time.Duration(bpm)
}

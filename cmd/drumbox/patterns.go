// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ik5/drumbox/drumbot"
	"github.com/ik5/drumbox/internal/config"
	"github.com/ik5/drumbox/sequencer"
)

var errNoPattern = errors.New("pattern not found")

func newClient(cfg *config.Config) *drumbot.Client {
	return drumbot.New(cfg.Patterns.BaseURL, drumbot.WithTimeout(cfg.Patterns.Timeout))
}

func listPatterns(ctx context.Context, cfg *config.Config) ([]string, error) {
	if cfg.Patterns.Source == config.PatternsFile {
		names := make([]string, 0, len(cfg.Patterns.Definitions))
		for _, p := range cfg.Patterns.Definitions {
			names = append(names, p.Name)
		}
		return names, nil
	}
	return newClient(cfg).List(ctx)
}

func loadPatterns(ctx context.Context, cfg *config.Config) ([]sequencer.Pattern, error) {
	if cfg.Patterns.Source == config.PatternsFile {
		return cfg.Patterns.Definitions, nil
	}

	// A named pattern needs only one request.
	if cfg.Patterns.Name != "" {
		p, err := newClient(cfg).Get(ctx, cfg.Patterns.Name)
		if err != nil {
			return nil, err
		}
		return []sequencer.Pattern{p}, nil
	}
	return newClient(cfg).FetchAll(ctx)
}

// pickPattern returns the pattern called name, or the first one when name
// is empty.
func pickPattern(patterns []sequencer.Pattern, name string) (sequencer.Pattern, error) {
	if len(patterns) == 0 {
		return sequencer.Pattern{}, fmt.Errorf("%w: no patterns available", errNoPattern)
	}
	if name == "" {
		return patterns[0], nil
	}
	for _, p := range patterns {
		if p.Name == name {
			return p, nil
		}
	}
	return sequencer.Pattern{}, fmt.Errorf("%w: %q", errNoPattern, name)
}

// renderLoops is how many passes of p fill length, rounded up. Without
// looping the pattern plays once.
func renderLoops(p sequencer.Pattern, length time.Duration, loop bool) int {
	bar := sequencer.StepDelay(p.BeatsPerMinute) * time.Duration(p.StepCount)
	if !loop || bar <= 0 || length <= 0 {
		return 1
	}
	return int((length + bar - 1) / bar)
}

// SPDX-License-Identifier: EPL-2.0

package library

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/formats/aiff"
	"github.com/ik5/drumbox/formats/mp3"
	"github.com/ik5/drumbox/formats/vorbis"
	"github.com/ik5/drumbox/formats/wav"
)

// DefaultRegistry returns a decoder registry with every bundled format.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	return reg
}

// Option configures a Library.
type Option func(*Library)

// WithRegistry replaces the decoders used to read sample files.
func WithRegistry(r *audio.Registry) Option {
	return func(l *Library) {
		if r != nil {
			l.registry = r
		}
	}
}

// WithLogger sets the logger used when loading files.
func WithLogger(lg *slog.Logger) Option {
	return func(l *Library) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// Library maps instrument names to decoded clips. A clip is read from
// <dir>/<instrument>.<ext> the first time it is asked for and kept in
// memory; every Source call returns a new, independent source over it.
// An instrument with no sample file is remembered as missing until LoadFile
// stores a clip under its name.
//
// A Library is safe for concurrent use.
type Library struct {
	dir      string
	registry *audio.Registry
	logger   *slog.Logger

	mu      sync.RWMutex
	sounds  map[string]audio.Sound
	missing map[string]error
}

// New returns an empty library reading files from dir.
func New(dir string, opts ...Option) *Library {
	l := &Library{
		dir:      dir,
		registry: DefaultRegistry(),
		logger:   slog.Default(),
		sounds:   make(map[string]audio.Sound),
		missing:  make(map[string]error),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Preload loads every named instrument and stops at the first failure.
func (l *Library) Preload(instruments ...string) error {
	for _, name := range instruments {
		if _, err := l.Sound(name); err != nil {
			return err
		}
	}
	return nil
}

// Sound returns the decoded clip for instrument, loading it on first use.
func (l *Library) Sound(instrument string) (audio.Sound, error) {
	l.mu.RLock()
	s, ok := l.sounds[instrument]
	miss := l.missing[instrument]
	l.mu.RUnlock()
	if ok {
		return s, nil
	}
	if miss != nil {
		return nil, miss
	}

	path, err := l.find(instrument)
	if err != nil {
		l.mu.Lock()
		l.missing[instrument] = err
		l.mu.Unlock()
		l.logger.Debug("instrument not found", "instrument", instrument, "dir", l.dir)
		return nil, err
	}
	return l.LoadFile(instrument, path)
}

// Source returns a fresh source positioned at the start of instrument's
// clip. The caller owns it.
func (l *Library) Source(instrument string) (audio.Source, error) {
	s, err := l.Sound(instrument)
	if err != nil {
		return nil, err
	}
	return s.NewSource(), nil
}

// Format returns the mixing format implied by instrument's clip.
func (l *Library) Format(instrument string) (audio.Format, error) {
	s, err := l.Sound(instrument)
	if err != nil {
		return audio.Format{}, err
	}
	f, err := audio.DeriveFormat(s.Spec())
	if err != nil {
		return audio.Format{}, fmt.Errorf("instrument %q: %w", instrument, err)
	}
	return f, nil
}

// Instruments lists the loaded instruments in name order.
func (l *Library) Instruments() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.sounds))
	for name := range l.sounds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LoadFile decodes path and stores it under instrument, replacing any
// clip already there.
func (l *Library) LoadFile(instrument, path string) (audio.Sound, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	dec, ok := l.registry.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	s, err := audio.Load(src)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	l.mu.Lock()
	l.sounds[instrument] = s
	delete(l.missing, instrument)
	l.mu.Unlock()

	l.logger.Debug("instrument loaded",
		"instrument", instrument,
		"path", path,
		"spec", s.Spec(),
		"duration", s.Duration(),
	)
	return s, nil
}

// find looks for the first <instrument>.<ext> in dir, trying registered
// extensions in name order.
func (l *Library) find(instrument string) (string, error) {
	if instrument == "" || instrument != filepath.Base(instrument) {
		return "", fmt.Errorf("%w: %q", ErrUnknownInstrument, instrument)
	}

	exts := l.registry.Formats()
	slices.Sort(exts)
	for _, ext := range exts {
		path := filepath.Join(l.dir, instrument+"."+ext)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no sample for %q in %s", ErrUnknownInstrument, instrument, l.dir)
}

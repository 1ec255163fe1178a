// SPDX-License-Identifier: EPL-2.0

// Package scene reads mixdown descriptions from YAML:
//
//	sample_rate: 48000
//	duration: 30s
//	sync_delay: 250ms
//	sources:
//	  - name: voice
//	    file: voice.wav
//	  - name: music
//	    file: music.ogg
//	    volume: 25
//
// Relative file paths are resolved against the scene file's directory.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultVolume applies to sources that do not set one.
const DefaultVolume = 100.0

var (
	ErrNoSources    = errors.New("scene has no sources")
	ErrMissingFile  = errors.New("source has no file")
	ErrInvalidValue = errors.New("invalid scene value")
)

type Source struct {
	Name   string   `yaml:"name"`
	File   string   `yaml:"file"`
	Volume *float64 `yaml:"volume"`
}

// Level returns the source volume, DefaultVolume when unset.
func (s Source) Level() float64 {
	if s.Volume == nil {
		return DefaultVolume
	}
	return *s.Volume
}

type Scene struct {
	SampleRate int           `yaml:"sample_rate"`
	Duration   time.Duration `yaml:"duration"`
	SyncDelay  time.Duration `yaml:"sync_delay"`
	Sources    []Source      `yaml:"sources"`
}

// Load reads and validates the scene at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}

	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i := range s.Sources {
		if f := s.Sources[i].File; !filepath.IsAbs(f) {
			s.Sources[i].File = filepath.Join(base, f)
		}
	}

	return s, nil
}

// Parse decodes and validates a scene. Unknown keys are rejected.
func Parse(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scene
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoSources
		}
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Scene) Validate() error {
	if s.SampleRate < 0 {
		return fmt.Errorf("%w: sample_rate %d", ErrInvalidValue, s.SampleRate)
	}
	if s.Duration < 0 {
		return fmt.Errorf("%w: duration %v", ErrInvalidValue, s.Duration)
	}
	if s.SyncDelay < 0 {
		return fmt.Errorf("%w: sync_delay %v", ErrInvalidValue, s.SyncDelay)
	}
	if len(s.Sources) == 0 {
		return ErrNoSources
	}

	for i, src := range s.Sources {
		if src.File == "" {
			return fmt.Errorf("source %d: %w", i, ErrMissingFile)
		}
		if v := src.Level(); v < 0 || v > 100 {
			return fmt.Errorf("source %d: %w: volume %v outside 0-100", i, ErrInvalidValue, v)
		}
	}

	return nil
}

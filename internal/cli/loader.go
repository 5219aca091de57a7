package cli

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jmcortes/harmonia/internal/chord"
	"github.com/jmcortes/harmonia/internal/harness"
	"github.com/jmcortes/harmonia/internal/key"
	"github.com/jmcortes/harmonia/internal/pitch"
)

// Progression is the analyze command's input file: a keyed chord sequence
// with no expectations attached.
type Progression struct {
	Name   string              `yaml:"name,omitempty"`
	Key    harness.KeySpec     `yaml:"key"`
	Chords []harness.ChordSpec `yaml:"chords"`
}

// LoadProgression reads and validates a progression YAML file. Unknown
// fields are rejected.
func LoadProgression(path string) (*Progression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading progression: %w", err)
	}

	var prog Progression
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&prog); err != nil {
		return nil, fmt.Errorf("parsing progression: %w", err)
	}

	if prog.Key.Tonic == "" {
		return nil, fmt.Errorf("invalid progression: key.tonic is required")
	}
	switch key.Mode(prog.Key.Mode) {
	case key.Major, key.Minor:
	default:
		return nil, fmt.Errorf("invalid progression: key.mode must be %q or %q, got %q",
			key.Major, key.Minor, prog.Key.Mode)
	}
	if len(prog.Chords) == 0 {
		return nil, fmt.Errorf("invalid progression: chords list is required and must be non-empty")
	}
	return &prog, nil
}

// keyContext builds the tonal context for a key spec.
func keyContext(spec harness.KeySpec) (*key.Context, error) {
	tonic, err := pitch.Parse(spec.Tonic + "4")
	if err != nil {
		return nil, fmt.Errorf("key tonic: %w", err)
	}
	return key.New(tonic, key.Mode(spec.Mode)), nil
}

// chordSnapshots parses every voiced note in the progression. Empty
// voices are skipped so incomplete chords still analyze.
func chordSnapshots(chords []harness.ChordSpec) ([]chord.Snapshot, error) {
	snapshots := make([]chord.Snapshot, 0, len(chords))
	for i, spec := range chords {
		voices := map[chord.Voice]string{
			chord.Bass:    spec.B,
			chord.Tenor:   spec.T,
			chord.Alto:    spec.A,
			chord.Soprano: spec.S,
		}
		m := make(map[chord.Voice]pitch.Pitch, len(voices))
		for v, name := range voices {
			if name == "" {
				continue
			}
			p, err := pitch.Parse(name)
			if err != nil {
				return nil, fmt.Errorf("chord %d voice %s: %w", i, v, err)
			}
			m[v] = p
		}
		snapshots = append(snapshots, chord.NewSnapshot(m))
	}
	return snapshots, nil
}

// commandLogger returns a logger that writes to w in verbose mode and
// discards everything otherwise.
func commandLogger(verbose bool, w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

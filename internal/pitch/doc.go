// Package pitch provides spelled-pitch and interval types for tonal analysis.
//
// This package contains value types and pure arithmetic only. All other
// internal packages import pitch; pitch imports nothing internal. This keeps
// the pitch model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Pitches are spelled (letter + accidental), never bare semitone numbers.
//     F#4 and Gb4 share a pitch class but are different pitches.
//   - Rule logic compares intervals by NAME (P5, d5, A5, P8), not by
//     semitone-mod-12: a descending minor sixth and an ascending augmented
//     fifth both span 8 semitones but are different intervals.
//   - Interval names are reduced to one octave (P12 reports as P5); motion
//     classification stays direction-aware.
package pitch

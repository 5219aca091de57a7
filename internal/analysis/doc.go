// Package analysis labels classified chords within a key: scale-degree
// numeral, figured-bass cipher, harmonic function, and the chromatic
// special cases (secondary dominants, the Neapolitan, augmented sixths,
// chords borrowed from the parallel minor).
//
// Chromatic detectors run in a fixed priority order and the first match
// wins: Neapolitan, then augmented sixth, then secondary dominant, then
// modal borrowing. A chromatic chord matching none of them keeps its
// diatonic reading and is flagged with a trailing question mark.
package analysis

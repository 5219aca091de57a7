// Package chord models a four-voice chord snapshot and derives its vertical
// structure: root, quality, per-voice chord factors, and inversion.
//
// Root and quality come from an ordered template table: seventh-chord
// templates are tried before triads so that a full V7 never collapses to a
// bare major triad. Factors bucket each voice's semitone distance from the
// root; the bass factor fixes the inversion.
package chord

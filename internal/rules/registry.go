package rules

import (
	"github.com/jmcortes/harmonia/internal/chord"
)

type detectorFunc func(Step) (*finding, error)

// detectors binds rule names to their detection logic. Definitions name
// rules; an engine refuses a definition with no detector here.
var detectors = map[string]detectorFunc{
	"parallel_fifths":          detectParallelFifths,
	"parallel_octaves":         detectParallelOctaves,
	"direct_fifths":            detectDirectFifths,
	"direct_octaves":           detectDirectOctaves,
	"unequal_fifths":           detectUnequalFifths,
	"leading_tone_resolution":  detectLeadingToneResolution,
	"seventh_resolution":       detectSeventhResolution,
	"voice_crossing":           detectVoiceCrossing,
	"maximum_distance":         detectMaximumDistance,
	"voice_overlap":            detectVoiceOverlap,
	"duplicated_leading_tone":  detectDuplicatedLeadingTone,
	"duplicated_seventh":       detectDuplicatedSeventh,
	"excessive_melodic_motion": detectExcessiveMelodicMotion,
	"improper_omission":        detectImproperOmission,
}

// confidenceFor grades a finding. Most rules carry a fixed confidence;
// the direct-motion rules scale by how exposed the voice pair is.
func confidenceFor(rule string, f *finding) int {
	switch rule {
	case "direct_fifths", "direct_octaves":
		return pairConfidence(f.voices)
	case "unequal_fifths", "excessive_melodic_motion":
		return 90
	case "improper_omission":
		return 85
	case "maximum_distance", "voice_overlap":
		return 80
	}
	return 100
}

// pairConfidence grades a voice pair by audibility: the outer pair is
// unmistakable, pairs with the bass close behind, soprano pairs next,
// inner pairs least exposed.
func pairConfidence(voices []chord.Voice) int {
	var hasBass, hasSoprano, hasInner bool
	for _, v := range voices {
		switch v {
		case chord.Bass:
			hasBass = true
		case chord.Soprano:
			hasSoprano = true
		case chord.Alto, chord.Tenor:
			hasInner = true
		}
	}
	switch {
	case hasBass && hasSoprano:
		return 100
	case hasBass:
		return 90
	case hasSoprano && hasInner:
		return 80
	}
	return 70
}

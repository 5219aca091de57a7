package chord

// Quality tags a chord's template match.
type Quality string

// Recognized chord qualities. Seventh templates outrank triads.
const (
	QualityMajor       Quality = "major"
	QualityMinor       Quality = "minor"
	QualityDiminished  Quality = "diminished"
	QualityAugmented   Quality = "augmented"
	QualityDominant7   Quality = "dominant-seventh"
	QualityDiminished7 Quality = "diminished-seventh"
	QualityHalfDim7    Quality = "half-diminished-seventh"
	QualityMajor7      Quality = "major-seventh"
	QualityMinor7      Quality = "minor-seventh"
	QualityUnknown     Quality = "unknown"
)

// IsSeventh reports whether the quality carries a chordal seventh.
func (q Quality) IsSeventh() bool {
	switch q {
	case QualityDominant7, QualityDiminished7, QualityHalfDim7, QualityMajor7, QualityMinor7:
		return true
	}
	return false
}

// IsMajorish reports a major triad or dominant seventh, the shapes a
// secondary dominant can take.
func (q Quality) IsMajorish() bool {
	return q == QualityMajor || q == QualityDominant7
}

// IsDiminishedish reports the diminished shapes a secondary leading-tone
// chord can take.
func (q Quality) IsDiminishedish() bool {
	return q == QualityDiminished || q == QualityDiminished7 || q == QualityHalfDim7
}

// template pairs a quality with its relative-interval set above the root
// (semitones mod 12, root included as 0).
type template struct {
	quality   Quality
	intervals []int
}

// templates is the ordered inference table. Order matters twice: seventh
// templates come before triads (a template needing more distinct intervals
// wins), and within one snapshot candidate roots are tried bass-upward.
var templates = []template{
	{QualityDominant7, []int{0, 4, 7, 10}},
	{QualityDiminished7, []int{0, 3, 6, 9}},
	{QualityHalfDim7, []int{0, 3, 6, 10}},
	{QualityMajor7, []int{0, 4, 7, 11}},
	{QualityMinor7, []int{0, 3, 7, 10}},
	{QualityMajor, []int{0, 4, 7}},
	{QualityMinor, []int{0, 3, 7}},
	{QualityDiminished, []int{0, 3, 6}},
	{QualityAugmented, []int{0, 4, 8}},
}

// inferRoot finds the first (template, candidate root) pair whose relative
// pitch-class set matches the snapshot's, ignoring octave and duplication.
// Returns QualityUnknown when nothing matches.
func inferRoot(s Snapshot) (int, Quality) {
	classes := s.Classes()
	candidates := s.bassUpClasses()

	set := make(map[int]bool, len(classes))
	for _, pc := range classes {
		set[pc] = true
	}

	for _, t := range templates {
		if len(t.intervals) != len(classes) {
			continue
		}
		for _, root := range candidates {
			if matchesTemplate(set, root, t.intervals) {
				return root, t.quality
			}
		}
	}
	return -1, QualityUnknown
}

func matchesTemplate(set map[int]bool, root int, intervals []int) bool {
	for _, iv := range intervals {
		if !set[(root+iv)%12] {
			return false
		}
	}
	return true
}

package analysis

import (
	"io"
	"log/slog"
	"strings"

	"github.com/jmcortes/harmonia/internal/chord"
	"github.com/jmcortes/harmonia/internal/key"
)

// Analyzer labels chords in one key. It is cheap to construct; build a new
// one per tonality rather than sharing across keys.
type Analyzer struct {
	key    *key.Context
	logger *slog.Logger
}

// NewAnalyzer builds an analyzer for a key. A nil logger disables logging.
func NewAnalyzer(k *key.Context, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{key: k, logger: logger}
}

// Key returns the analyzer's key context.
func (a *Analyzer) Key() *key.Context { return a.key }

// Analyze classifies and labels one sonority. Snapshots with fewer than
// two voices come back as an empty analysis rather than an error so that
// progression batches keep going.
func (a *Analyzer) Analyze(s chord.Snapshot) Analysis {
	if s.Len() < 2 {
		a.logger.Debug("snapshot too thin to analyze", "voices", s.Len())
		return Analysis{Chord: chord.Analyze(s), Diatonic: true}
	}

	c := chord.Analyze(s)
	res := Analysis{
		Chord:      c,
		Diatonic:   a.isDiatonic(c),
		HasSeventh: c.HasSeventh(),
		HasNinth:   c.HasNinth,
		Inversion:  c.Inversion,
	}

	res.Degree, res.DegreeNum = degreeLabel(a.key, c.RootPC, c.Quality)
	res.Cipher = cipherFor(c.Quality, res.DegreeNum, c.Inversion)
	res.Function = functionForDegree(res.DegreeNum)
	res.Text = res.Degree + res.Cipher

	if res.HasNinth {
		res.Cipher = "9"
		res.Text = res.Degree + "9"
		if res.DegreeNum == 5 {
			res.HasSeventh = true
		}
	}

	// Chromatic special cases, first match wins.
	switch {
	case a.applyNeapolitan(c, &res):
	case a.applyAugmentedSixth(c, &res):
	case a.applySecondaryDominant(c, &res):
	case a.applyBorrowed(c, &res):
	}

	a.markUncertain(&res)

	a.logger.Debug("chord analyzed",
		"text", res.Text,
		"function", res.Function,
		"diatonic", res.Diatonic,
		"special", res.Special)
	return res
}

// AnalyzeProgression labels a chord sequence. Thin or unreadable snapshots
// produce empty analyses in place, so indices stay aligned with the input.
func (a *Analyzer) AnalyzeProgression(snapshots []chord.Snapshot) []Analysis {
	out := make([]Analysis, 0, len(snapshots))
	for _, s := range snapshots {
		res := a.Analyze(s)
		if len(out) > 0 {
			res.Cadence = DetectCadence(out[len(out)-1], res)
		}
		out = append(out, res)
	}
	return out
}

func (a *Analyzer) isDiatonic(c chord.Chord) bool {
	for _, pc := range c.Snapshot.Classes() {
		if !a.key.IsDiatonic(pc) {
			return false
		}
	}
	return true
}

// applyNeapolitan relabels a major triad rooted a semitone above the
// tonic as bII.
func (a *Analyzer) applyNeapolitan(c chord.Chord, res *Analysis) bool {
	if c.Quality != chord.QualityMajor {
		return false
	}
	if c.RootPC != (a.key.TonicClass()+1)%12 {
		return false
	}
	res.Degree = "bII"
	res.DegreeNum = 2
	res.Cipher = cipherAt(triadCipher, c.Inversion, 0)
	res.Text = res.Degree + res.Cipher
	res.Function = Subdominant
	res.Special = SpecialNeapolitan
	return true
}

// applyAugmentedSixth recognizes the Italian, French and German sixths by
// their pitch content: flat sixth, tonic and sharp fourth, plus the
// variant-defining fourth tone.
func (a *Analyzer) applyAugmentedSixth(c chord.Chord, res *Analysis) bool {
	tonic := a.key.TonicClass()
	flatSix := (tonic + 8) % 12
	sharpFour := (tonic + 6) % 12

	classes := c.Snapshot.Classes()
	if !c.Snapshot.HasClass(flatSix) || !c.Snapshot.HasClass(sharpFour) || !c.Snapshot.HasClass(tonic) {
		return false
	}

	var special Special
	var label string
	switch {
	case len(classes) == 3:
		special, label = SpecialItalianSixth, "+6it"
	case len(classes) == 4 && c.Snapshot.HasClass((tonic+3)%12):
		special, label = SpecialGermanSixth, "+6al"
	case len(classes) == 4 && c.Snapshot.HasClass((tonic+2)%12):
		special, label = SpecialFrenchSixth, "+6fr"
	default:
		return false
	}

	res.Degree = label
	res.Cipher = ""
	res.Text = label
	res.Function = Subdominant
	res.Special = special
	return true
}

// Secondary dominant target numerals per mode. Tonicizing the tonic or
// the leading-tone degree is excluded.
var (
	secondaryTargetsMajor = map[int]string{2: "ii", 3: "iii", 4: "IV", 5: "V", 6: "vi"}
	secondaryTargetsMinor = map[int]string{2: "ii°", 3: "III", 4: "iv", 5: "V", 6: "VI"}
)

// applySecondaryDominant relabels chromatic dominant-shaped chords as
// V/x or vii°/x. Major shapes resolve up a fourth to their target;
// diminished shapes resolve up a semitone.
func (a *Analyzer) applySecondaryDominant(c chord.Chord, res *Analysis) bool {
	if res.Diatonic {
		return false
	}

	var head string
	var targetPC int
	switch {
	case c.Quality.IsMajorish():
		head = "V"
		targetPC = (c.RootPC + 5) % 12
	case c.Quality == chord.QualityHalfDim7:
		head = "viiø"
		targetPC = (c.RootPC + 1) % 12
	case c.Quality.IsDiminishedish():
		head = "vii°"
		targetPC = (c.RootPC + 1) % 12
	default:
		return false
	}

	targetDegree, ok := a.key.DegreeOfClass(targetPC)
	if !ok || targetDegree < 2 || targetDegree > 6 {
		return false
	}

	targets := secondaryTargetsMajor
	if a.key.Mode() == key.Minor {
		targets = secondaryTargetsMinor
	}
	target := targets[targetDegree]

	var cipher string
	switch {
	case c.Quality == chord.QualityDominant7:
		cipher = cipherAt(dominant7Cipher, c.Inversion, 0)
	case c.Quality.IsDiminishedish() && c.HasSeventh():
		cipher = cipherAt(secondaryDim7Cipher, c.Inversion, 0)
	default:
		cipher = cipherAt(triadCipher, c.Inversion, 0)
	}

	res.Degree = head + "/" + target
	res.Cipher = cipher
	res.Text = head + cipher + "/" + target
	res.HasSeventh = c.HasSeventh()
	res.Function = Dominant
	res.Special = SpecialSecondaryDominant
	return true
}

// borrowedBases is the label whitelist for chords borrowed from the
// parallel minor. bII is absent: the Neapolitan detector owns it.
var borrowedBases = map[string]bool{
	"i": true, "iv": true, "ii°": true, "v": true,
	"bIII": true, "bVI": true, "bVII": true,
}

// applyBorrowed tags parallel-minor borrowings in major keys. The chord
// keeps the label the flat-degree reading already produced; only the tag
// and the function change.
func (a *Analyzer) applyBorrowed(c chord.Chord, res *Analysis) bool {
	if a.key.Mode() != key.Major || res.Diatonic {
		return false
	}
	base := res.Degree
	if !borrowedBases[base] {
		return false
	}
	res.Special = SpecialBorrowed
	switch base {
	case "iv", "ii°", "bVI", "bVII":
		res.Function = Subdominant
	default:
		res.Function = functionForDegree(res.DegreeNum)
	}
	return true
}

// uncertainWhitelist lists chromatic labels that stand on their own; any
// other undetected chromatic label carrying an accidental gets a trailing
// question mark.
var uncertainWhitelist = map[string]bool{
	"bII": true, "bIII": true, "bVI": true, "bVII": true,
	"N": true, "iv": true, "v": true, "ii°": true, "vii°7": true,
}

func (a *Analyzer) markUncertain(res *Analysis) {
	if res.Diatonic || res.Special != SpecialNone {
		return
	}
	if uncertainWhitelist[res.Degree] {
		return
	}
	if strings.ContainsAny(res.Degree, "b#") {
		res.Degree += "?"
		res.Text += "?"
	}
}

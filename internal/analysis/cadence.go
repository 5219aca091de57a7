package analysis

// Cadence classifies the arrival quality of a chord within a progression.
type Cadence string

// Cadence types.
const (
	CadenceNone             Cadence = ""
	CadencePerfectAuthentic Cadence = "PAC"
	CadenceImperfect        Cadence = "IAC"
	CadenceHalf             Cadence = "HC"
	CadenceDeceptive        Cadence = "DC"
	CadencePlagal           Cadence = "PC"
)

// DetectCadence classifies the cadence formed by two consecutive analyses.
//
// TODO: classify PAC, IAC, HC, DC and PC from the degree pair, chord
// inversions and the soprano's arrival tone. Until then every progression
// step reports CadenceNone.
func DetectCadence(prev, curr Analysis) Cadence {
	return CadenceNone
}

package chord

// Pair is two consecutive classified chords, the unit the voice-leading
// rules inspect.
type Pair struct {
	First  Chord
	Second Chord
}

// FactorMovement reports the factor a voice sings in each chord of the
// pair. Either side may be absent when a snapshot lacks the voice.
func (p Pair) FactorMovement(v Voice) (from Factor, to Factor, ok bool) {
	f1, ok1 := p.First.Factor(v)
	f2, ok2 := p.Second.Factor(v)
	return f1, f2, ok1 && ok2
}

// VoicesWithMovement lists the voices that move from one factor to
// another across the pair, ordered bass up.
func (p Pair) VoicesWithMovement(from, to Factor) []Voice {
	var out []Voice
	for _, v := range VoicesLowToHigh {
		f1, f2, ok := p.FactorMovement(v)
		if ok && f1 == from && f2 == to {
			out = append(out, v)
		}
	}
	return out
}

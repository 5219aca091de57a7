package key

// sharpOrder and flatOrder list major tonics by ascending signature size.
// The index in each slice is the accidental count.
var (
	sharpOrder = []string{"C", "G", "D", "A", "E", "B", "F#", "C#"}
	flatOrder  = []string{"C", "F", "Bb", "Eb", "Ab", "Db", "Gb", "Cb"}
)

// Signature returns the key-signature accidental count: positive for
// sharps, negative for flats, 0 for C major.
//
// Minor keys always return 0. The original system never computed the
// relative-major signature for minor tonics and downstream consumers grew
// around that behavior; left unresolved rather than silently corrected.
func (c *Context) Signature() int {
	if c.mode == Minor {
		return 0
	}

	name := c.tonic.Name()
	for i, t := range sharpOrder {
		if t == name {
			return i
		}
	}
	for i, t := range flatOrder {
		if t == name {
			return -i
		}
	}
	return 0
}

package extract

import "sort"

// Edit is a single byte-range text splice, in the teacher's style
// (providers/base/provider.go's doReplace/sortTargetsDescending): positions
// are taken against the ORIGINAL source, and ApplyEdits processes them in
// descending-start order so that applying one edit never invalidates the
// byte offsets recorded for another.
type Edit struct {
	Start       uint32
	End         uint32
	Replacement string
}

// ApplyEdits splices every edit into source and returns the result. Edits
// must not overlap; ApplyEdits does not itself check that invariant, the way the
// teacher's own splice step trusts its callers.
func ApplyEdits(source []byte, edits []Edit) []byte {
	if len(edits) == 0 {
		return source
	}
	ordered := make([]Edit, len(edits))
	copy(ordered, edits)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Start > ordered[j].Start
	})

	out := make([]byte, len(source))
	copy(out, source)
	for _, e := range ordered {
		var buf []byte
		buf = append(buf, out[:e.Start]...)
		buf = append(buf, []byte(e.Replacement)...)
		buf = append(buf, out[e.End:]...)
		out = buf
	}
	return out
}

package tuikit

// AttributeMask represents a bitmask of boolean attributes to style a cell
type AttributeMask uint16

const (
	AttrNone                   = 0
	AttrStandout AttributeMask = 1 << (iota - 1)
	AttrBold
	AttrDim
	AttrItalic
	AttrUnderline
	AttrDoubleUnderline
	AttrBlink
	AttrInverse
	AttrInvisible
	AttrCrossedOut
)

// Union returns the attributes set in either mask
func (a AttributeMask) Union(b AttributeMask) AttributeMask {
	return a | b
}

// Intersect returns the attributes set in both masks
func (a AttributeMask) Intersect(b AttributeMask) AttributeMask {
	return a & b
}

// Without returns a with the attributes of b cleared
func (a AttributeMask) Without(b AttributeMask) AttributeMask {
	return a &^ b
}

// Has reports whether every attribute of b is set in a
func (a AttributeMask) Has(b AttributeMask) bool {
	return a&b == b
}

// sgrAttribute describes how an attribute is switched on and off. Attributes
// which share a reset code are turned off together by it.
type sgrAttribute struct {
	mask  AttributeMask
	set   int
	reset int
}

var sgrAttributes = []sgrAttribute{
	{AttrStandout, 7, 27},
	{AttrBold, 1, 22},
	{AttrDim, 2, 22},
	{AttrItalic, 3, 23},
	{AttrUnderline, 4, 24},
	{AttrDoubleUnderline, 21, 24},
	{AttrBlink, 5, 25},
	{AttrInverse, 7, 27},
	{AttrInvisible, 8, 28},
	{AttrCrossedOut, 9, 29},
}

// appendAttributeParams appends the SGR parameters which change the pen from
// the attributes in prev to those in next. Resets come first; a shared reset
// (22, 24, 27) is followed by the set codes of any attribute in its group
// which stays on.
func appendAttributeParams(dst []int, prev AttributeMask, next AttributeMask) []int {
	dAttr := prev ^ next
	if dAttr == 0 {
		return dst
	}
	// If the bit is changed and in prev, it was turned off
	off := dAttr & prev
	// If the bit is changed and in next, it was turned on
	on := dAttr & next

	var resets []int
	for _, a := range sgrAttributes {
		if off&a.mask == 0 || containsInt(resets, a.reset) {
			continue
		}
		resets = append(resets, a.reset)
		dst = append(dst, a.reset)
		// Re-assert surviving attributes which the reset cleared
		for _, b := range sgrAttributes {
			if b.reset == a.reset && next&b.mask != 0 {
				on |= b.mask
			}
		}
	}
	var sets []int
	for _, a := range sgrAttributes {
		if on&a.mask == 0 || containsInt(sets, a.set) {
			continue
		}
		sets = append(sets, a.set)
		dst = append(dst, a.set)
	}
	return dst
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

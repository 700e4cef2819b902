package tuikit

import "git.sr.ht/~tuikit/tuikit/glyph"

// Cell is a single column of the screen grid
type Cell struct {
	Glyph      glyph.CodePoint
	Attribute  AttributeMask
	Foreground Color
	Background Color

	// continuation marks the right half of a wide glyph drawn in the cell
	// to the left. It is never drawn or diffed on its own.
	continuation bool
}

// IsContinuation reports whether the cell is covered by the wide glyph to its
// left
func (c Cell) IsContinuation() bool {
	return c.continuation
}

// CellFields selects which fields of a CellWrite are applied
type CellFields uint8

const (
	FieldGlyph CellFields = 1 << iota
	FieldAttribute
	FieldForeground
	FieldBackground

	FieldAll = FieldGlyph | FieldAttribute | FieldForeground | FieldBackground
)

// CellWrite is a partial update of a cell. Only the fields selected by Fields
// are merged into the existing cell.
type CellWrite struct {
	Fields     CellFields
	Glyph      rune
	Attribute  AttributeMask
	Foreground Color
	Background Color
}

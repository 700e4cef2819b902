package tuikit

// Style is the pen a Graphics draws with
type Style struct {
	// Foreground is the color to apply to the foreground of drawn cells.
	// An unset color leaves the grid's foreground untouched
	Foreground Color
	// Background is the color to apply to the background of drawn cells.
	// An unset color leaves the grid's background untouched
	Background Color
	// Attribute is the font of drawn cells (bold, dim, italic, etc)
	Attribute AttributeMask
}

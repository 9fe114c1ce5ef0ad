// Package display implements the monochrome framebuffer.
package display

import "fmt"

// Display is a fixed-size monochrome bit grid with XOR-toggle write
// semantics. A dirty flag records whether any cell changed since the
// consumer last asked.
type Display struct {
	width  int
	height int
	cells  []bool
	dirty  bool
}

// New creates a display of the given dimensions. All cells start off and the
// dirty flag starts set, so a consumer always renders the initial blank
// screen.
func New(width, height int) *Display {
	return &Display{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
		dirty:  true,
	}
}

// Width returns the display width in cells.
func (d *Display) Width() int {
	return d.width
}

// Height returns the display height in cells.
func (d *Display) Height() int {
	return d.height
}

// Toggle flips the cell at (x, y) and returns true iff the cell was on
// before the call, meaning this toggle turned a lit pixel off. Coordinates
// must already be wrapped into range by the caller.
func (d *Display) Toggle(x, y int) bool {
	d.check(x, y)

	index := y*d.width + x
	was := d.cells[index]
	d.cells[index] = !was
	d.dirty = true
	return was
}

// Pixel returns the state of the cell at (x, y).
func (d *Display) Pixel(x, y int) bool {
	d.check(x, y)
	return d.cells[y*d.width+x]
}

// Clear switches every cell off.
func (d *Display) Clear() {
	for i := range d.cells {
		d.cells[i] = false
	}
	d.dirty = true
}

// TakeDirty returns whether the display changed since the last call and
// resets the flag. It is an at-most-once redraw signal for the renderer.
func (d *Display) TakeDirty() bool {
	res := d.dirty
	d.dirty = false
	return res
}

func (d *Display) check(x, y int) {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		panic(fmt.Sprintf("display: pixel (%d, %d) is out of bounds of display size %dx%d",
			x, y, d.width, d.height))
	}
}

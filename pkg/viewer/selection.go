package viewer

import "image"

// AspectRatio is a width:height constraint for interactive cropping.
type AspectRatio struct {
	W int
	H int
}

// CropSelection is the transient rubber-band rectangle that exists only
// while crop mode is active. Coordinates are in display (container) space;
// MapDisplayRectToSource translates the finished rectangle back to base
// pixels.
type CropSelection struct {
	origin   image.Point
	current  image.Point
	ratio    *AspectRatio
	dragging bool
	started  bool
}

// NewCropSelection creates an empty selection, optionally locked to an
// aspect ratio. A nil ratio means free-form cropping.
func NewCropSelection(ratio *AspectRatio) *CropSelection {
	return &CropSelection{ratio: ratio}
}

// SetRatio changes the aspect constraint for subsequent drags.
func (cs *CropSelection) SetRatio(ratio *AspectRatio) {
	cs.ratio = ratio
}

// Begin anchors a new drag at p, discarding any previous rectangle.
func (cs *CropSelection) Begin(p image.Point) {
	cs.origin = p
	cs.current = p
	cs.dragging = true
	cs.started = true
}

// Update extends the drag to p. When an aspect ratio is set, the point's
// vertical coordinate is adjusted so the stored rectangle always satisfies
// height = width * H / W; the ratio is enforced here, before any
// display-to-source mapping sees the rectangle.
func (cs *CropSelection) Update(p image.Point) {
	if !cs.dragging {
		return
	}
	if cs.ratio != nil && cs.ratio.W != 0 {
		width := p.X - cs.origin.X
		height := width * cs.ratio.H / cs.ratio.W
		p.Y = cs.origin.Y + height
	}
	cs.current = p
}

// End finishes the drag, keeping the rectangle for a later crop apply.
func (cs *CropSelection) End() {
	cs.dragging = false
}

// Rect returns the normalized selection rectangle in display coordinates.
func (cs *CropSelection) Rect() image.Rectangle {
	return image.Rectangle{Min: cs.origin, Max: cs.current}.Canon()
}

// HasSelection reports whether a non-degenerate rectangle exists; crop
// application must stay disabled until it does.
func (cs *CropSelection) HasSelection() bool {
	return cs.started && !cs.Rect().Empty()
}

package viewer

import "image"

// floorDiv divides a by b rounding toward negative infinity, matching the
// centering arithmetic of integer widget coordinates.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// MapDisplayRectToSource converts a selection rectangle captured in
// container (display) coordinates into base-bitmap pixel coordinates, so a
// crop applies to full-resolution pixels rather than the on-screen scaled
// image.
//
// displaySize is the size of the rendered (rotated+scaled) bitmap,
// containerSize the size of the widget it is centered in, and sourceWidth
// the width of the base bitmap the crop will be applied to.
//
// The mapping: undo the centering letterbox offset, then undo the display
// scale. Coordinates are truncated, not rounded. No clamping is performed;
// if the selection lies fully within the displayed bitmap, the result lies
// fully within the source bounds, and callers must clip the selection
// first when that cannot be guaranteed.
func MapDisplayRectToSource(sel image.Rectangle, displaySize, containerSize image.Point, scaleFactor float64, sourceWidth int) image.Rectangle {
	offset := image.Pt(
		floorDiv(containerSize.X-displaySize.X, 2),
		floorDiv(containerSize.Y-displaySize.Y, 2),
	)
	onDisplay := sel.Sub(offset)

	// Ratio between the rotated-but-unscaled bitmap and the true source
	// bitmap; 1.0 unless rotation transposed the pixel dimensions relative
	// to what scaleFactor was computed against.
	sourceScale := float64(sourceWidth) / (float64(displaySize.X) / scaleFactor)

	x := int(float64(onDisplay.Min.X) * sourceScale)
	y := int(float64(onDisplay.Min.Y) * sourceScale)
	w := int(float64(onDisplay.Dx()) * sourceScale)
	h := int(float64(onDisplay.Dy()) * sourceScale)

	return image.Rect(x, y, x+w, y+h)
}

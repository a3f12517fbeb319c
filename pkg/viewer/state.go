package viewer

import "image"

// Zoom step factors, matching the classic 1.25 / 0.8 pair so that one
// zoom-in followed by one zoom-out returns to the starting scale.
const (
	ZoomInFactor  = 1.25
	ZoomOutFactor = 0.8
)

// State is the single mutable record describing the currently open image.
// Every displayed bitmap is derived as scale(rotate(base, angle), factor);
// there is no other derivation path. Zoom and rotation never touch the
// base pixels, only crop, background removal, and load do.
//
// A State instance is owned by a single goroutine and is not safe for
// concurrent use.
type State struct {
	base image.Image
	path string

	rotationAngle int     // degrees, one of 0, 90, 180, 270
	scaleFactor   float64 // display-only, never persisted into base

	modifiedByCrop              bool
	modifiedByBackgroundRemoval bool
}

// NewState returns an empty State at neutral scale.
func NewState() *State {
	return &State{scaleFactor: 1.0}
}

// SetImage installs a freshly loaded base bitmap. Rotation and scale are
// reset to neutral and the modification flags cleared; this is the only
// reset path and it runs on every successful load.
func (s *State) SetImage(img image.Image, path string) {
	s.base = img
	s.path = path
	s.rotationAngle = 0
	s.scaleFactor = 1.0
	s.modifiedByCrop = false
	s.modifiedByBackgroundRemoval = false
}

// Clear drops the current image, e.g. after deleting the last file in a
// directory.
func (s *State) Clear() {
	s.SetImage(nil, "")
}

// HasImage reports whether a base bitmap is present.
func (s *State) HasImage() bool {
	return s.base != nil
}

// Base returns the canonical base bitmap (post crop/background-removal,
// pre rotation and zoom).
func (s *State) Base() image.Image {
	return s.base
}

// Path returns the on-disk path of the current image, empty if unsaved.
func (s *State) Path() string {
	return s.path
}

// RotationAngle returns the pending rotation in degrees.
func (s *State) RotationAngle() int {
	return s.rotationAngle
}

// ScaleFactor returns the current display scale.
func (s *State) ScaleFactor() float64 {
	return s.scaleFactor
}

// SetScaleFactor sets the display scale; non-positive values are ignored.
func (s *State) SetScaleFactor(f float64) {
	if f > 0 {
		s.scaleFactor = f
	}
}

// RotateRight adds a 90° clockwise rotation.
func (s *State) RotateRight() {
	s.rotationAngle = (s.rotationAngle + 90) % 360
}

// RotateLeft adds a 90° counter-clockwise rotation.
func (s *State) RotateLeft() {
	s.rotationAngle = (s.rotationAngle + 270) % 360
}

// ZoomIn increases the display scale by one step.
func (s *State) ZoomIn() {
	s.scaleFactor *= ZoomInFactor
}

// ZoomOut decreases the display scale by one step.
func (s *State) ZoomOut() {
	s.scaleFactor *= ZoomOutFactor
}

// ActualSize resets the display scale to 100%.
func (s *State) ActualSize() {
	s.scaleFactor = 1.0
}

// ModifiedByCrop reports whether the base bitmap diverges from the on-disk
// file because of an applied crop.
func (s *State) ModifiedByCrop() bool {
	return s.modifiedByCrop
}

// ModifiedByBackgroundRemoval reports whether the base bitmap was replaced
// by a background-removal result.
func (s *State) ModifiedByBackgroundRemoval() bool {
	return s.modifiedByBackgroundRemoval
}

// HasUnsavedChanges reports whether saving would write something different
// from the on-disk file.
func (s *State) HasUnsavedChanges() bool {
	return s.rotationAngle != 0 || s.modifiedByCrop || s.modifiedByBackgroundRemoval
}

// RequiresSaveAs reports whether a plain save must be escalated to
// save-as: either there is no original file, or background removal
// replaced the pixels and the original, possibly non-transparent-capable
// file must be preserved as a fallback.
func (s *State) RequiresSaveAs() bool {
	return s.path == "" || s.modifiedByBackgroundRemoval
}

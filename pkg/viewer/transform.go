package viewer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// rotate applies the pending rotation to img. Multiples of 90° are exact
// pixel transposes/flips; anything else falls back to a general resampling
// rotation. The angle is clockwise, imaging rotates counter-clockwise.
func rotate(img image.Image, angle int) image.Image {
	switch ((angle % 360) + 360) % 360 {
	case 0:
		return img
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return imaging.Rotate(img, float64(-angle), color.Transparent)
	}
}

// RenderForDisplay produces the bitmap actually shown on screen:
// scale(rotate(base, angle), factor). It is a pure function of the state.
//
// The effective scale is corrected upward so that neither final dimension
// drops below one pixel; both correction factors are honored (the larger
// wins), so both constraints hold simultaneously.
func (s *State) RenderForDisplay() image.Image {
	if s.base == nil {
		return nil
	}

	rotated := rotate(s.base, s.rotationAngle)
	rw := rotated.Bounds().Dx()
	rh := rotated.Bounds().Dy()

	effective := s.scaleFactor
	if rw > 0 && float64(rw)*effective < 1 {
		effective = 1 / float64(rw)
	}
	if rh > 0 && float64(rh)*effective < 1 {
		effective = math.Max(effective, 1/float64(rh))
	}

	w := int(math.Round(float64(rw) * effective))
	h := int(math.Round(float64(rh) * effective))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	if w == rw && h == rh {
		// Identity scale; resampling would only soften pixels.
		return rotated
	}
	return imaging.Resize(rotated, w, h, imaging.Lanczos)
}

// FitToContainer computes and installs the scale factor that makes the
// rotated bitmap exactly fill the container on one axis without exceeding
// it on the other. A bitmap with a zero dimension leaves the scale
// untouched.
func (s *State) FitToContainer(containerW, containerH int) float64 {
	if s.base == nil {
		return s.scaleFactor
	}

	w := s.base.Bounds().Dx()
	h := s.base.Bounds().Dy()
	if s.rotationAngle%180 != 0 {
		// Odd multiple of 90°: the displayed footprint is transposed.
		w, h = h, w
	}
	if w == 0 || h == 0 {
		return s.scaleFactor
	}

	s.scaleFactor = math.Min(float64(containerW)/float64(w), float64(containerH)/float64(h))
	return s.scaleFactor
}

// CommitCrop replaces the base bitmap with the given sub-rectangle of it.
// Degenerate or out-of-bounds rectangles are silently refused; the return
// value reports whether the crop was applied. Pending rotation stays
// pending.
func (s *State) CommitCrop(sourceRect image.Rectangle) bool {
	if s.base == nil || sourceRect.Empty() {
		return false
	}
	if !sourceRect.In(s.base.Bounds()) {
		return false
	}

	s.base = imaging.Crop(s.base, sourceRect)
	s.modifiedByCrop = true
	return true
}

// CommitBackgroundRemoval replaces the base bitmap with the decoded service
// response. The pending rotation is discarded: the replacement bitmap is a
// new coordinate space unrelated to prior rotation intent. On decode
// failure the state is left unchanged.
func (s *State) CommitBackgroundRemoval(data []byte) error {
	img, _, err := DecodeBytes(data)
	if err != nil {
		return fmt.Errorf("background removal response: %w", err)
	}

	s.base = img
	s.rotationAngle = 0
	s.modifiedByBackgroundRemoval = true
	return nil
}

// CommitSave bakes the pending rotation at full resolution (display scale
// is never baked into saved pixels) and writes the result to targetPath in
// the given format. On success the rotation and modification flags reset
// and targetPath becomes the current path; on failure the state is left
// unmodified so the caller can retry elsewhere.
func (s *State) CommitSave(targetPath string, format Format) error {
	if s.base == nil {
		return fmt.Errorf("no image to save")
	}
	if s.modifiedByBackgroundRemoval && format != FormatPNG {
		return fmt.Errorf("background-removed images must be saved as PNG to preserve transparency")
	}

	baked := rotate(s.base, s.rotationAngle)

	f, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", targetPath, err)
	}
	if err := Encode(f, baked, format); err != nil {
		f.Close()
		os.Remove(targetPath)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", targetPath, err)
	}

	// The saved file now matches the baked bitmap, so it becomes the new
	// base and every divergence flag clears.
	s.base = baked
	s.path = targetPath
	s.rotationAngle = 0
	s.modifiedByCrop = false
	s.modifiedByBackgroundRemoval = false
	return nil
}

// DefaultSaveName proposes a file name for save-as, tagging the base name
// with the modifications applied and forcing the PNG extension when
// transparency must survive.
func (s *State) DefaultSaveName() string {
	base := "untitled"
	ext := ".png"
	if s.path != "" {
		name := filepath.Base(s.path)
		ext = filepath.Ext(name)
		base = strings.TrimSuffix(name, ext)
	}

	var suffix string
	if s.rotationAngle != 0 {
		suffix += "_rotated"
	}
	if s.modifiedByCrop {
		suffix += "_cropped"
	}
	if s.modifiedByBackgroundRemoval {
		suffix += "_no_bg"
		ext = ".png"
	}
	return base + suffix + ext
}

package viewer

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapDisplayRectToSource(t *testing.T) {
	t.Run("CenteredZoomedSelection", func(t *testing.T) {
		// 100x100 source at zoom 2.0 gives a 200x200 display bitmap,
		// centered at offset (50,50) in a 300x300 container. The inverse
		// scale is 100/(200/2.0) = 1.0, so only the offset is undone.
		sel := image.Rect(60, 60, 100, 100)
		got := MapDisplayRectToSource(sel, image.Pt(200, 200), image.Pt(300, 300), 2.0, 100)

		assert.Equal(t, image.Rect(10, 10, 50, 50), got)
	})

	t.Run("RotatedFootprint", func(t *testing.T) {
		// A 100x200 source rotated 90° displays as 200x100 at scale 1.0;
		// the inverse scale is 100/(200/1.0) = 0.5.
		sel := image.Rect(20, 10, 60, 50)
		got := MapDisplayRectToSource(sel, image.Pt(200, 100), image.Pt(200, 100), 1.0, 100)

		assert.Equal(t, image.Rect(10, 5, 30, 25), got)
	})

	t.Run("ContainmentProperty", func(t *testing.T) {
		// At fit-to-window scales (<= 1.0) any selection fully inside the
		// displayed bitmap maps to a rectangle fully inside the source
		// bounds. Zoomed-in selections must be clipped by the caller.
		const (
			sourceW = 640
			sourceH = 480
		)
		scales := []float64{0.25, 0.5, 0.75, 1.0}
		containers := []image.Point{{800, 600}, {1920, 1080}, {640, 480}}

		for _, scale := range scales {
			dispW := int(float64(sourceW) * scale)
			dispH := int(float64(sourceH) * scale)
			for _, container := range containers {
				if container.X < dispW || container.Y < dispH {
					continue
				}
				offX := (container.X - dispW) / 2
				offY := (container.Y - dispH) / 2

				// Selections hugging each corner and edge of the displayed
				// bitmap.
				sels := []image.Rectangle{
					image.Rect(offX, offY, offX+dispW/3, offY+dispH/3),
					image.Rect(offX+dispW/2, offY+dispH/2, offX+dispW, offY+dispH),
					image.Rect(offX, offY+dispH-1, offX+dispW, offY+dispH),
					image.Rect(offX+dispW-2, offY, offX+dispW, offY+dispH),
				}
				source := image.Rect(0, 0, sourceW, sourceH)
				for _, sel := range sels {
					got := MapDisplayRectToSource(sel, image.Pt(dispW, dispH), container, scale, sourceW)
					assert.True(t, got.In(source),
						"sel %v at scale %v in %v mapped to %v, outside %v", sel, scale, container, got, source)
				}
			}
		}
	})

	t.Run("TruncatesNotRounds", func(t *testing.T) {
		// Inverse scale 0.5 (rotated 200-wide display of a 100-wide
		// source): odd coordinates truncate toward zero.
		sel := image.Rect(3, 3, 9, 9)
		got := MapDisplayRectToSource(sel, image.Pt(200, 200), image.Pt(200, 200), 1.0, 100)

		assert.Equal(t, image.Rect(1, 1, 4, 4), got)
	})
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 2, floorDiv(5, 2))
	assert.Equal(t, 0, floorDiv(0, 2))
	assert.Equal(t, -3, floorDiv(-5, 2))
	assert.Equal(t, -1, floorDiv(-1, 2))
}

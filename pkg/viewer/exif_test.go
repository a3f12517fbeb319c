package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyOrientation(t *testing.T) {
	src := createPatternImage(40, 30)

	tests := []struct {
		name        string
		orientation int
		wantW       int
		wantH       int
	}{
		{name: "Upright", orientation: 1, wantW: 40, wantH: 30},
		{name: "MirrorHorizontal", orientation: 2, wantW: 40, wantH: 30},
		{name: "UpsideDown", orientation: 3, wantW: 40, wantH: 30},
		{name: "MirrorVertical", orientation: 4, wantW: 40, wantH: 30},
		{name: "Transposed", orientation: 5, wantW: 30, wantH: 40},
		{name: "RotatedCW90", orientation: 6, wantW: 30, wantH: 40},
		{name: "Transversed", orientation: 7, wantW: 30, wantH: 40},
		{name: "RotatedCCW90", orientation: 8, wantW: 30, wantH: 40},
		{name: "OutOfRange", orientation: 42, wantW: 40, wantH: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyOrientation(src, tt.orientation)
			assert.Equal(t, tt.wantW, got.Bounds().Dx())
			assert.Equal(t, tt.wantH, got.Bounds().Dy())
		})
	}

	t.Run("CameraRotationRoundTrip", func(t *testing.T) {
		// Orientation 6 (stored rotated CCW) followed by a clockwise 90°
		// must reproduce the original pixels.
		stored := ApplyOrientation(src, 8)
		upright := ApplyOrientation(stored, 6)
		assertPixelsEqual(t, src, upright)
	})
}

func TestMetadataReaderNil(t *testing.T) {
	var m *MetadataReader

	assert.Equal(t, 1, m.Orientation("/pics/a.jpg"))
	assert.NoError(t, m.Close())

	p, err := m.Properties("/pics/a.jpg")
	assert.Error(t, err)
	assert.Equal(t, 1, p.Orientation)
}

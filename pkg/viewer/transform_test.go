package viewer

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createPatternImage builds an image whose pixel values depend on their
// coordinates, so transpose and flip mistakes show up in comparisons.
func createPatternImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8(x ^ y), A: 255})
		}
	}
	return img
}

func assertPixelsEqual(t *testing.T, want, got image.Image) {
	t.Helper()
	require.Equal(t, want.Bounds().Dx(), got.Bounds().Dx())
	require.Equal(t, want.Bounds().Dy(), got.Bounds().Dy())
	wb, gb := want.Bounds(), got.Bounds()
	for y := 0; y < wb.Dy(); y++ {
		for x := 0; x < wb.Dx(); x++ {
			wr, wg, wbl, wa := want.At(wb.Min.X+x, wb.Min.Y+y).RGBA()
			gr, gg, gbl, ga := got.At(gb.Min.X+x, gb.Min.Y+y).RGBA()
			if wr != gr || wg != gg || wbl != gbl || wa != ga {
				t.Fatalf("pixel mismatch at (%d,%d)", x, y)
			}
		}
	}
}

func TestRenderForDisplay(t *testing.T) {
	t.Run("IdentityAtNeutralState", func(t *testing.T) {
		s := NewState()
		src := createPatternImage(40, 30)
		s.SetImage(src, "")

		assertPixelsEqual(t, src, s.RenderForDisplay())
	})

	t.Run("RotationTransposesDimensions", func(t *testing.T) {
		s := NewState()
		s.SetImage(createPatternImage(40, 30), "")
		s.RotateRight()

		out := s.RenderForDisplay()
		assert.Equal(t, 30, out.Bounds().Dx())
		assert.Equal(t, 40, out.Bounds().Dy())
	})

	t.Run("FourRotationsAreIdentity", func(t *testing.T) {
		s := NewState()
		src := createPatternImage(40, 30) // even dimensions
		s.SetImage(src, "")

		for i := 0; i < 4; i++ {
			s.RotateRight()
		}
		assert.Equal(t, 0, s.RotationAngle())
		assertPixelsEqual(t, src, s.RenderForDisplay())
	})

	t.Run("MinimumDimensionCorrection", func(t *testing.T) {
		// 100x10 at scale 0.01 would give a 1x0 bitmap; the corrected
		// scale must satisfy both constraints, not just one, so the
		// larger correction factor (0.1) wins and yields 10x1.
		s := NewState()
		s.SetImage(createPatternImage(100, 10), "")
		s.SetScaleFactor(0.01)

		out := s.RenderForDisplay()
		assert.Equal(t, 10, out.Bounds().Dx())
		assert.Equal(t, 1, out.Bounds().Dy())
	})

	t.Run("NoImage", func(t *testing.T) {
		assert.Nil(t, NewState().RenderForDisplay())
	})
}

func TestFitToContainer(t *testing.T) {
	t.Run("PlainFit", func(t *testing.T) {
		s := NewState()
		s.SetImage(createPatternImage(100, 200), "")

		got := s.FitToContainer(300, 300)
		assert.InDelta(t, 1.5, got, 1e-9)
	})

	t.Run("RotatedFootprintIsTransposed", func(t *testing.T) {
		// 100x200 rotated 90° occupies 200x100, so fitting a 300x300
		// container uses min(300/200, 300/100) = 1.5.
		s := NewState()
		s.SetImage(createPatternImage(100, 200), "")
		s.RotateRight()

		got := s.FitToContainer(300, 300)
		assert.InDelta(t, 1.5, got, 1e-9)

		out := s.RenderForDisplay()
		assert.LessOrEqual(t, out.Bounds().Dx(), 300+1)
		assert.LessOrEqual(t, out.Bounds().Dy(), 300+1)
		// Equality on at least one axis, within a pixel of rounding.
		assert.InDelta(t, 300, out.Bounds().Dx(), 1)
	})

	t.Run("RenderNeverExceedsContainer", func(t *testing.T) {
		// Containers are large enough that the fitted image keeps both
		// dimensions at >= 1px; below that the minimum-dimension guard
		// takes priority over the container bound.
		dims := []image.Point{{640, 480}, {33, 177}, {1000, 10}}
		containers := []image.Point{{300, 300}, {512, 100}, {128, 128}}
		for _, d := range dims {
			for _, c := range containers {
				s := NewState()
				s.SetImage(createPatternImage(d.X, d.Y), "")
				s.FitToContainer(c.X, c.Y)
				out := s.RenderForDisplay()
				assert.LessOrEqual(t, out.Bounds().Dx(), c.X+1, "dims %v container %v", d, c)
				assert.LessOrEqual(t, out.Bounds().Dy(), c.Y+1, "dims %v container %v", d, c)
			}
		}
	})

	t.Run("NoImageIsNoop", func(t *testing.T) {
		s := NewState()
		assert.Equal(t, 1.0, s.FitToContainer(300, 300))
	})
}

func TestCommitCrop(t *testing.T) {
	t.Run("CropMatchesSubRectangle", func(t *testing.T) {
		s := NewState()
		src := createPatternImage(20, 16)
		s.SetImage(src, "")

		rect := image.Rect(4, 2, 14, 12)
		require.True(t, s.CommitCrop(rect))
		assert.True(t, s.ModifiedByCrop())
		assert.True(t, s.HasUnsavedChanges())

		// Rendered at scale 1.0 / rotation 0 the output is pixel-for-pixel
		// the cropped sub-rectangle of the pre-crop base.
		want := imaging.Crop(src, rect)
		assertPixelsEqual(t, want, s.RenderForDisplay())
	})

	t.Run("KeepsPendingRotation", func(t *testing.T) {
		s := NewState()
		s.SetImage(createPatternImage(20, 16), "")
		s.RotateRight()

		require.True(t, s.CommitCrop(image.Rect(0, 0, 10, 10)))
		assert.Equal(t, 90, s.RotationAngle())
	})

	t.Run("RefusesDegenerateRect", func(t *testing.T) {
		s := NewState()
		src := createPatternImage(20, 16)
		s.SetImage(src, "")

		assert.False(t, s.CommitCrop(image.Rectangle{}))
		assert.False(t, s.CommitCrop(image.Rect(5, 5, 5, 10)))
		assert.False(t, s.ModifiedByCrop())
		assert.Equal(t, src, s.Base())
	})

	t.Run("RefusesOutOfBounds", func(t *testing.T) {
		s := NewState()
		s.SetImage(createPatternImage(20, 16), "")

		assert.False(t, s.CommitCrop(image.Rect(10, 10, 30, 30)))
		assert.False(t, s.CommitCrop(image.Rect(-2, 0, 10, 10)))
		assert.False(t, s.ModifiedByCrop())
	})

	t.Run("RefusesWithoutImage", func(t *testing.T) {
		assert.False(t, NewState().CommitCrop(image.Rect(0, 0, 10, 10)))
	})
}

func TestCommitBackgroundRemoval(t *testing.T) {
	t.Run("ReplacesBaseAndResetsRotation", func(t *testing.T) {
		s := NewState()
		s.SetImage(createPatternImage(20, 16), "/pics/a.jpg")
		s.RotateRight()

		replacement := createPatternImage(8, 8)
		data := encodePNG(t, replacement)

		require.NoError(t, s.CommitBackgroundRemoval(data))
		assert.Equal(t, 0, s.RotationAngle(), "pending rotation is discarded")
		assert.True(t, s.ModifiedByBackgroundRemoval())
		assert.True(t, s.RequiresSaveAs())
		assert.Equal(t, 8, s.Base().Bounds().Dx())
	})

	t.Run("JunkBytesLeaveStateUnchanged", func(t *testing.T) {
		s := NewState()
		src := createPatternImage(20, 16)
		s.SetImage(src, "/pics/a.jpg")
		s.RotateRight()

		err := s.CommitBackgroundRemoval([]byte("this is not an image"))
		assert.Error(t, err)
		assert.Equal(t, src, s.Base())
		assert.Equal(t, 90, s.RotationAngle())
		assert.False(t, s.ModifiedByBackgroundRemoval())
	})
}

func TestCommitSave(t *testing.T) {
	t.Run("BakesRotationAtFullResolution", func(t *testing.T) {
		s := NewState()
		s.SetImage(createPatternImage(40, 30), "")
		s.RotateRight()
		s.SetScaleFactor(0.25) // display-only, must not be baked

		target := filepath.Join(t.TempDir(), "out.png")
		require.NoError(t, s.CommitSave(target, FormatPNG))

		saved, err := imaging.Open(target)
		require.NoError(t, err)
		assert.Equal(t, 30, saved.Bounds().Dx())
		assert.Equal(t, 40, saved.Bounds().Dy())

		assert.Equal(t, 0, s.RotationAngle())
		assert.False(t, s.HasUnsavedChanges())
		assert.Equal(t, target, s.Path())
	})

	t.Run("BackgroundRemovalForcesPNG", func(t *testing.T) {
		s := NewState()
		s.SetImage(createPatternImage(20, 16), "/pics/a.jpg")
		require.NoError(t, s.CommitBackgroundRemoval(encodePNG(t, createPatternImage(8, 8))))

		target := filepath.Join(t.TempDir(), "out.jpg")
		err := s.CommitSave(target, FormatJPEG)
		assert.Error(t, err)
		assert.True(t, s.ModifiedByBackgroundRemoval(), "failed save leaves state unmodified")

		require.NoError(t, s.CommitSave(filepath.Join(t.TempDir(), "out.png"), FormatPNG))
		assert.False(t, s.ModifiedByBackgroundRemoval())
	})

	t.Run("FailedWriteLeavesStateUnmodified", func(t *testing.T) {
		s := NewState()
		s.SetImage(createPatternImage(20, 16), "/pics/a.jpg")
		s.RotateRight()

		err := s.CommitSave(filepath.Join(t.TempDir(), "missing", "dir", "out.png"), FormatPNG)
		assert.Error(t, err)
		assert.Equal(t, 90, s.RotationAngle())
		assert.Equal(t, "/pics/a.jpg", s.Path())
	})

	t.Run("NoImage", func(t *testing.T) {
		err := NewState().CommitSave(filepath.Join(t.TempDir(), "out.png"), FormatPNG)
		assert.Error(t, err)
	})
}

func TestDefaultSaveName(t *testing.T) {
	s := NewState()
	s.SetImage(createPatternImage(20, 16), "/pics/holiday.jpg")
	assert.Equal(t, "holiday.jpg", s.DefaultSaveName())

	s.RotateRight()
	assert.Equal(t, "holiday_rotated.jpg", s.DefaultSaveName())

	s.CommitCrop(image.Rect(0, 0, 10, 10))
	assert.Equal(t, "holiday_rotated_cropped.jpg", s.DefaultSaveName())

	require.NoError(t, s.CommitBackgroundRemoval(encodePNG(t, createPatternImage(8, 8))))
	// Background removal resets rotation and forces the PNG extension.
	assert.Equal(t, "holiday_cropped_no_bg.png", s.DefaultSaveName())

	assert.Equal(t, "untitled.png", NewState().DefaultSaveName())
}

package viewer

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
)

// cropResizer implements the smartcrop.Resizer interface on top of the
// same resampler the transform pipeline uses.
type cropResizer struct {
	resampler imaging.ResampleFilter
}

func (r *cropResizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}

// SuggestCrop proposes a crop rectangle over img with roughly the
// targetW:targetH aspect, favoring detail-rich regions. The result is in
// source coordinates and can be passed straight to CommitCrop.
func SuggestCrop(img image.Image, targetW, targetH int) (image.Rectangle, error) {
	if img == nil {
		return image.Rectangle{}, fmt.Errorf("no image to analyze")
	}
	if targetW <= 0 || targetH <= 0 {
		return image.Rectangle{}, fmt.Errorf("invalid target dimensions %dx%d", targetW, targetH)
	}

	analyzer := smartcrop.NewAnalyzer(&cropResizer{resampler: imaging.Lanczos})
	crop, err := analyzer.FindBestCrop(img, targetW, targetH)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("finding best crop: %w", err)
	}
	return crop, nil
}

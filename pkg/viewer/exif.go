package viewer

import (
	"fmt"
	"image"

	"github.com/barasher/go-exiftool"
	"github.com/disintegration/imaging"

	"github.com/digitalvision/viewfinder/util/log"
)

// Properties is the metadata shown in the image properties surface.
type Properties struct {
	Make        string
	Model       string
	Width       int64
	Height      int64
	Orientation int
}

// MetadataReader reads EXIF metadata through an external exiftool binary.
// The viewer works without one; construction simply fails and callers pass
// a nil reader, losing orientation correction and camera fields.
type MetadataReader struct {
	et *exiftool.Exiftool
}

// NewMetadataReader starts an exiftool session.
func NewMetadataReader() (*MetadataReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool unavailable: %w", err)
	}
	return &MetadataReader{et: et}, nil
}

// Close shuts the exiftool session down.
func (m *MetadataReader) Close() error {
	if m == nil || m.et == nil {
		return nil
	}
	return m.et.Close()
}

// Orientation returns the EXIF orientation tag for the file, 1 (upright)
// when absent or unreadable. Safe to call on a nil reader.
func (m *MetadataReader) Orientation(path string) int {
	if m == nil || m.et == nil {
		return 1
	}
	fms := m.et.ExtractMetadata(path)
	if len(fms) == 0 || fms[0].Err != nil {
		return 1
	}
	o, err := fms[0].GetInt("Orientation")
	if err != nil || o < 1 || o > 8 {
		return 1
	}
	return int(o)
}

// Properties extracts the metadata fields the properties surface displays.
func (m *MetadataReader) Properties(path string) (Properties, error) {
	p := Properties{Orientation: 1}
	if m == nil || m.et == nil {
		return p, fmt.Errorf("no metadata reader available")
	}

	fms := m.et.ExtractMetadata(path)
	if len(fms) == 0 {
		return p, fmt.Errorf("no metadata for %q", path)
	}
	fm := fms[0]
	if fm.Err != nil {
		return p, fmt.Errorf("extract fail for %q: %w", path, fm.Err)
	}

	// Camera fields are best-effort; many formats carry none.
	if v, err := fm.GetString("Make"); err == nil {
		p.Make = v
	}
	if v, err := fm.GetString("Model"); err == nil {
		p.Model = v
	}
	if v, err := fm.GetInt("ImageWidth"); err == nil {
		p.Width = v
	} else {
		log.Debugf("no ImageWidth for %s: %v", path, err)
	}
	if v, err := fm.GetInt("ImageHeight"); err == nil {
		p.Height = v
	}
	if v, err := fm.GetInt("Orientation"); err == nil && v >= 1 && v <= 8 {
		p.Orientation = int(v)
	}
	return p, nil
}

// ApplyOrientation normalizes img so it displays upright regardless of the
// EXIF orientation tag it was stored with.
func ApplyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

package viewer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // viewing support only, no encoder
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format identifies an on-disk image encoding the viewer can write.
type Format string

// Writable formats.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

var extToFormat = map[string]Format{
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".bmp":  FormatBMP,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
}

// decodeOnlyExts are viewable but not writable.
var decodeOnlyExts = map[string]bool{
	".gif": true,
}

// SupportedExtensions returns the lowercase extensions (with leading dot)
// the viewer can open, sorted alphabetically.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extToFormat)+len(decodeOnlyExts))
	for ext := range extToFormat {
		exts = append(exts, ext)
	}
	for ext := range decodeOnlyExts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupportedPath reports whether the file at path has a viewable extension.
func IsSupportedPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := extToFormat[ext]
	return ok || decodeOnlyExts[ext]
}

// FormatForPath derives the save format from a file extension.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extToFormat[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("no writable format for extension %q", ext)
}

// Ext returns the canonical file extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatBMP:
		return ".bmp"
	case FormatTIFF:
		return ".tif"
	default:
		return ".png"
	}
}

// Decode reads an image in any supported format. The bmp and tiff decoders
// register themselves with image via their package init.
func Decode(r io.Reader) (image.Image, string, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	return img, name, nil
}

// DecodeBytes decodes an image from a byte slice.
func DecodeBytes(data []byte) (image.Image, string, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes img to w in the given format. PNG is the only format that
// preserves transparency.
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return nil
}

// Command viewfinder exercises the image pipeline from the command line:
// inspecting files, applying rotations and crops, computing fit scales and
// running remote background removal.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/digitalvision/viewfinder/config"
	"github.com/digitalvision/viewfinder/pkg/browse"
	"github.com/digitalvision/viewfinder/pkg/removebg"
	"github.com/digitalvision/viewfinder/pkg/viewer"
	"github.com/digitalvision/viewfinder/util"
	"github.com/digitalvision/viewfinder/util/log"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:])
	case "rotate":
		err = runRotate(os.Args[2:])
	case "crop":
		err = runCrop(os.Args[2:])
	case "fit":
		err = runFit(os.Args[2:])
	case "removebg":
		err = runRemoveBg(os.Args[2:])
	case "update":
		err = runUpdate()
	case "version":
		fmt.Printf("%s %s\n", config.AppName, config.AppVersion)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: viewfinder <command> [flags] <file>

commands:
  info      show dimensions, format, metadata and directory position
  rotate    rotate by quarter turns and save
  crop      crop to a rectangle (or an auto-suggested one) and save
  fit       print the scale factor fitting the image into a container
  removebg  remove the background via the remote service and save as PNG
  update    check for a newer release
  version   print the application version
`)
}

func loadState(path string) (*viewer.State, error) {
	meta, err := viewer.NewMetadataReader()
	if err != nil {
		log.Debugf("metadata disabled: %v", err)
	}
	defer meta.Close()

	loader := viewer.NewLoader(meta, nil)
	img, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	s := viewer.NewState()
	s.SetImage(img, path)
	return s, nil
}

func saveState(s *viewer.State, out string) error {
	if out == "" {
		out = s.DefaultSaveName()
	}
	format, err := viewer.FormatForPath(out)
	if err != nil {
		return err
	}
	if err := s.CommitSave(out, format); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", out)
	return nil
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("info: exactly one file expected")
	}
	path := fs.Arg(0)

	s, err := loadState(path)
	if err != nil {
		return err
	}
	b := s.Base().Bounds()
	fmt.Printf("file:       %s\n", path)
	fmt.Printf("dimensions: %dx%d\n", b.Dx(), b.Dy())

	meta, err := viewer.NewMetadataReader()
	if err == nil {
		defer meta.Close()
		if p, err := meta.Properties(path); err == nil {
			if p.Make != "" || p.Model != "" {
				fmt.Printf("camera:     %s %s\n", p.Make, p.Model)
			}
			fmt.Printf("orientation: %d\n", p.Orientation)
		}
	}

	if siblings, err := browse.ListSiblingImages(path); err == nil {
		fmt.Printf("directory:  image %d of %d\n", browse.IndexOf(path, siblings)+1, len(siblings))
	}
	return nil
}

func runRotate(args []string) error {
	fs := flag.NewFlagSet("rotate", flag.ExitOnError)
	turns := fs.Int("turns", 1, "clockwise quarter turns (negative for counterclockwise)")
	out := fs.String("o", "", "output file (default: derived from the input name)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("rotate: exactly one file expected")
	}

	s, err := loadState(fs.Arg(0))
	if err != nil {
		return err
	}
	for i := 0; i < *turns; i++ {
		s.RotateRight()
	}
	for i := 0; i > *turns; i-- {
		s.RotateLeft()
	}
	return saveState(s, *out)
}

func parseRect(spec string) (image.Rectangle, error) {
	var x0, y0, x1, y1 int
	if _, err := fmt.Sscanf(spec, "%d,%d,%d,%d", &x0, &y0, &x1, &y1); err != nil {
		return image.Rectangle{}, fmt.Errorf("bad rectangle %q, want x0,y0,x1,y1", spec)
	}
	return image.Rect(x0, y0, x1, y1), nil
}

func runCrop(args []string) error {
	fs := flag.NewFlagSet("crop", flag.ExitOnError)
	rectSpec := fs.String("rect", "", "crop rectangle as x0,y0,x1,y1 in source pixels")
	suggest := fs.Bool("suggest", false, "pick a detail-rich crop automatically")
	width := fs.Int("w", 0, "target width for -suggest")
	height := fs.Int("h", 0, "target height for -suggest")
	out := fs.String("o", "", "output file (default: derived from the input name)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("crop: exactly one file expected")
	}

	s, err := loadState(fs.Arg(0))
	if err != nil {
		return err
	}

	var rect image.Rectangle
	switch {
	case *suggest:
		rect, err = viewer.SuggestCrop(s.Base(), *width, *height)
		if err != nil {
			return err
		}
		fmt.Printf("suggested crop: %v\n", rect)
	case *rectSpec != "":
		rect, err = parseRect(*rectSpec)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("crop: need -rect or -suggest")
	}

	if !s.CommitCrop(rect) {
		return fmt.Errorf("crop rectangle %v is empty or out of bounds", rect)
	}
	return saveState(s, *out)
}

func runFit(args []string) error {
	fs := flag.NewFlagSet("fit", flag.ExitOnError)
	width := fs.Int("w", 0, "container width")
	height := fs.Int("h", 0, "container height")
	fs.Parse(args)
	if fs.NArg() != 1 || *width <= 0 || *height <= 0 {
		return fmt.Errorf("fit: need -w and -h and exactly one file")
	}

	s, err := loadState(fs.Arg(0))
	if err != nil {
		return err
	}
	scale := s.FitToContainer(*width, *height)
	disp := s.RenderForDisplay().Bounds()
	fmt.Printf("scale:   %.4f\n", scale)
	fmt.Printf("display: %dx%d\n", disp.Dx(), disp.Dy())
	return nil
}

func runRemoveBg(args []string) error {
	fs := flag.NewFlagSet("removebg", flag.ExitOnError)
	out := fs.String("o", "", "output PNG (default: derived from the input name)")
	size := fs.String("size", removebg.SizeAuto, "service output-size hint")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("removebg: exactly one file expected")
	}
	path := fs.Arg(0)

	settings := config.GetSettings(config.NewFilePreferences(config.GetFilename()))
	apiKey := settings.GetRemoveBgAPIKey()
	if apiKey == "" {
		return fmt.Errorf("no background-removal API key configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	s, err := loadState(path)
	if err != nil {
		return err
	}

	client := removebg.NewClient(apiKey, http.DefaultClient)
	result, err := client.RemoveBackground(context.Background(), data, *size)
	if err != nil {
		return err
	}
	if err := s.CommitBackgroundRemoval(result); err != nil {
		return err
	}

	target := *out
	if target == "" {
		target = s.DefaultSaveName()
	}
	if !strings.EqualFold(filepath.Ext(target), ".png") {
		return fmt.Errorf("background-removed images must be saved as PNG, got %s", target)
	}
	return saveState(s, target)
}

func runUpdate() error {
	result, err := util.CheckForUpdates(nil)
	if err != nil {
		return err
	}
	if result.UpdateAvailable {
		fmt.Printf("update available: %s (current %s)\n", result.LatestVersion, result.CurrentVersion)
		fmt.Println(result.ReleaseURL)
	} else {
		fmt.Printf("up to date (%s)\n", result.CurrentVersion)
	}
	return nil
}

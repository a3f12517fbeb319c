package browse

import (
	"context"
	"image"
	"time"

	"github.com/digitalvision/viewfinder/util"
	"github.com/digitalvision/viewfinder/util/log"
)

// Slideshow advances a Navigator on a fixed interval. Advance callbacks run
// on the slideshow goroutine; as with the directory watcher, callers owning
// single-threaded state marshal the result back themselves.
type Slideshow struct {
	nav      *Navigator
	interval time.Duration
	running  *util.SafeFlag
	stop     chan struct{}
}

// NewSlideshow creates a slideshow over nav stepping every interval.
func NewSlideshow(nav *Navigator, interval time.Duration) *Slideshow {
	return &Slideshow{
		nav:      nav,
		interval: interval,
		running:  util.NewSafeBool(),
		stop:     make(chan struct{}),
	}
}

// Start begins advancing and reports whether the slideshow was started.
// It returns false when already running. onAdvance receives each new image;
// navigation errors stop the show.
func (s *Slideshow) Start(ctx context.Context, onAdvance func(path string, img image.Image)) bool {
	if !s.running.TrySet(true) {
		return false
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		defer s.running.Set(false)

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				path, img, err := s.nav.Next(ctx)
				if err != nil {
					log.Printf("Slideshow stopped: %v", err)
					return
				}
				onAdvance(path, img)
			}
		}
	}()
	return true
}

// Stop halts the slideshow. Safe to call when not running.
func (s *Slideshow) Stop() {
	if !s.running.Value() {
		return
	}
	select {
	case s.stop <- struct{}{}:
	default:
	}
}

// Running reports whether the slideshow is currently advancing.
func (s *Slideshow) Running() bool {
	return s.running.Value()
}

package render

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/rs/zerolog"

	"plan-editor/internal/background"
)

// Export describes one PNG export. Background is used when already
// decoded; otherwise BackgroundSrc is decoded first.
type Export struct {
	Scene         Scene
	Background    image.Image
	BackgroundSrc string
}

// Result is the outcome of an asynchronous export.
type Result struct {
	Image *image.RGBA
	Err   error
}

// ExportPNG rasterizes the export on its own goroutine. The channel
// receives exactly one Result. A background that fails to decode is logged
// and replaced by a white sheet.
func ExportPNG(ctx context.Context, ex Export, log zerolog.Logger) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)

		sc := ex.Scene
		bg := ex.Background
		if bg == nil && sc.Background && ex.BackgroundSrc != "" {
			res := <-background.LoadAsync(ctx, ex.BackgroundSrc)
			if res.Err != nil {
				log.Warn().Err(res.Err).Msg("export without background")
				sc.Paper = true
			} else {
				bg = res.Image.Image
			}
		}
		if bg == nil && sc.Background {
			sc.Paper = true
		}
		if err := ctx.Err(); err != nil {
			out <- Result{Err: err}
			return
		}

		img, err := Raster(sc, bg)
		out <- Result{Image: img, Err: err}
	}()
	return out
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

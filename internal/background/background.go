// Package background loads the plan image that defines the world extent.
package background

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"plan-editor/pkg/geometry"
)

var (
	// ErrUnsupportedSource is returned for sources that are neither a path,
	// a file:// URI nor a data: URL.
	ErrUnsupportedSource = errors.New("unsupported background source")
	// ErrDecode is returned when the bytes are not a known image format.
	ErrDecode = errors.New("failed to decode image")
)

// Image is a decoded background.
type Image struct {
	Src    string      // Source as given by the caller
	Format string      // Decoder name, e.g. "png"
	Image  image.Image // Decoded pixels
}

// Width returns the natural width in pixels.
func (b *Image) Width() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height returns the natural height in pixels.
func (b *Image) Height() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// Size returns the natural dimensions.
func (b *Image) Size() geometry.Size {
	return geometry.Size{
		Width:  float64(b.Width()),
		Height: float64(b.Height()),
	}
}

// Load resolves src and decodes it.
func Load(src string) (*Image, error) {
	r, err := open(src)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &Image{Src: src, Format: format, Image: img}, nil
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Image *Image
	Err   error
}

// LoadAsync decodes src on its own goroutine. The returned channel receives
// exactly one Result and is then closed. If ctx is done first the result
// carries ctx.Err().
func LoadAsync(ctx context.Context, src string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		done := make(chan Result, 1)
		go func() {
			img, err := Load(src)
			done <- Result{Image: img, Err: err}
		}()
		select {
		case res := <-done:
			out <- res
		case <-ctx.Done():
			out <- Result{Err: ctx.Err()}
		}
	}()
	return out
}

func open(src string) (io.ReadCloser, error) {
	switch {
	case src == "":
		return nil, fmt.Errorf("%w: empty", ErrUnsupportedSource)
	case strings.HasPrefix(src, "data:"):
		data, err := DecodeDataURL(src)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	case strings.HasPrefix(src, "file://"):
		u, err := url.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
		}
		return openFile(filepath.FromSlash(u.Path))
	case strings.Contains(src, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, src)
	default:
		return openFile(src)
	}
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return f, nil
}

// DecodeDataURL returns the payload of a data: URL. Both base64 and
// percent-encoded payloads are accepted.
func DecodeDataURL(src string) ([]byte, error) {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return nil, fmt.Errorf("%w: not a data URL", ErrUnsupportedSource)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: data URL without payload", ErrUnsupportedSource)
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return []byte(s), nil
}

// Resolve makes a relative file path found in a plan relative to the plan's
// directory. URLs and absolute paths are returned unchanged.
func Resolve(src, dir string) string {
	if src == "" || strings.Contains(src, ":") || filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(dir, src)
}

// Embed reads the image behind src and returns it as a data: URL, so a plan
// file can carry its image. A data: URL is returned unchanged.
func Embed(src string) (string, error) {
	if strings.HasPrefix(src, "data:") {
		return src, nil
	}
	r, err := open(src)
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return EncodeDataURL("image/"+format, data), nil
}

// EncodeDataURL embeds data as a base64 data: URL.
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// SourceForPath returns the value stored in a plan file for an image loaded
// from disk.
func SourceForPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// SupportedFormats returns the file extensions that can be loaded.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

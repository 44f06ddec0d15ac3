package background

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoadPath(t *testing.T) {
	path := writeFile(t, "plan.png", encodePNG(t, 40, 30))

	bg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "png", bg.Format)
	assert.Equal(t, 40, bg.Width())
	assert.Equal(t, 30, bg.Height())
	assert.Equal(t, path, bg.Src)
}

func TestLoadFileURI(t *testing.T) {
	path := writeFile(t, "plan.png", encodePNG(t, 8, 4))

	bg, err := Load("file://" + filepath.ToSlash(path))
	require.NoError(t, err)
	assert.Equal(t, 8.0, bg.Size().Width)
}

func TestLoadBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 5, 6))))
	path := writeFile(t, "plan.bmp", buf.Bytes())

	bg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bmp", bg.Format)
	assert.Equal(t, 6, bg.Height())
}

func TestLoadDataURL(t *testing.T) {
	src := EncodeDataURL("image/png", encodePNG(t, 3, 2))

	bg, err := Load(src)
	require.NoError(t, err)
	assert.Equal(t, 3, bg.Width())
	assert.Equal(t, 2, bg.Height())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	_, err = Load("blob:http://localhost/1234")
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	_, err = Load("https://example.com/plan.png")
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	_, err = Load(writeFile(t, "junk.png", []byte("not an image")))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Load("data:image/png;base64,!!!")
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeDataURL(t *testing.T) {
	data, err := DecodeDataURL("data:text/plain,hello%20world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	_, err = DecodeDataURL("data:image/png;base64")
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

func TestLoadAsync(t *testing.T) {
	src := EncodeDataURL("image/png", encodePNG(t, 16, 9))

	select {
	case res, ok := <-LoadAsync(context.Background(), src):
		require.True(t, ok)
		require.NoError(t, res.Err)
		assert.Equal(t, 16, res.Image.Width())
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for decode")
	}

	res := <-LoadAsync(context.Background(), "")
	assert.ErrorIs(t, res.Err, ErrUnsupportedSource)
	assert.Nil(t, res.Image)
}

func TestLoadAsyncCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch := LoadAsync(ctx, EncodeDataURL("image/png", encodePNG(t, 1, 1)))
	res := <-ch
	// Either the decode or the cancellation may win; both are valid results.
	if res.Err != nil {
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
	_, open := <-ch
	assert.False(t, open)
}

func TestNilImageSize(t *testing.T) {
	var bg *Image
	assert.Equal(t, 0, bg.Width())
	assert.Equal(t, 0, bg.Height())
}

func TestSupportedFormats(t *testing.T) {
	assert.True(t, IsSupportedFormat("PLAN.PNG"))
	assert.True(t, IsSupportedFormat("a.webp"))
	assert.False(t, IsSupportedFormat("a.pdf"))
}

func TestSourceForPath(t *testing.T) {
	assert.True(t, filepath.IsAbs(SourceForPath("plan.png")))
}

func TestResolve(t *testing.T) {
	dir := filepath.Join(string(filepath.Separator), "plans")
	tests := []struct {
		src  string
		want string
	}{
		{"", ""},
		{"bg.png", filepath.Join(dir, "bg.png")},
		{filepath.Join(dir, "x", "a.png"), filepath.Join(dir, "x", "a.png")},
		{"file:///tmp/a.png", "file:///tmp/a.png"},
		{"data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Resolve(tt.src, dir), "src %q", tt.src)
	}
}

func TestEmbed(t *testing.T) {
	data := encodePNG(t, 12, 7)
	path := writeFile(t, "plan.png", data)

	src, err := Embed(path)
	require.NoError(t, err)
	assert.Equal(t, EncodeDataURL("image/png", data), src)

	bg, err := Load(src)
	require.NoError(t, err)
	assert.Equal(t, 12, bg.Width())

	again, err := Embed(src)
	require.NoError(t, err)
	assert.Equal(t, src, again)

	_, err = Embed(writeFile(t, "bad.png", []byte("nope")))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Embed("https://example.com/a.png")
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

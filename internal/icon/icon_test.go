package icon

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawPixmap(w, h, rowstride int, alpha bool, channels int, data []byte) []any {
	return []any{int32(w), int32(h), int32(rowstride), alpha, int32(8), int32(channels), data}
}

func TestParsePixmap_RGBWithPadding(t *testing.T) {
	// 2x2 RGB, rowstride 8 (2 bytes of padding per row).
	data := []byte{
		255, 0, 0, 0, 255, 0, 9, 9,
		0, 0, 255, 10, 20, 30,
	}
	p, err := ParsePixmap(rawPixmap(2, 2, 8, false, 3, data))
	require.NoError(t, err)

	img, err := p.Image()
	require.NoError(t, err)

	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, img.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, img.NRGBAAt(0, 1))
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, img.NRGBAAt(1, 1))
}

func TestParsePixmap_RGBA(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	p, err := ParsePixmap(rawPixmap(1, 1, 4, true, 4, data))
	require.NoError(t, err)

	img, err := p.Image()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 4}, img.NRGBAAt(0, 0))
}

func TestParsePixmap_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"not a struct", "image"},
		{"short struct", []any{int32(1), int32(1)}},
		{"wrong field type", []any{"1", int32(1), int32(3), false, int32(8), int32(3), []byte{0, 0, 0}}},
		{"zero size", rawPixmap(0, 1, 3, false, 3, []byte{0, 0, 0})},
		{"channel mismatch", rawPixmap(1, 1, 4, false, 4, []byte{0, 0, 0, 0})},
		{"short rowstride", rawPixmap(2, 1, 3, false, 3, []byte{0, 0, 0, 0, 0, 0})},
		{"truncated data", rawPixmap(2, 2, 6, false, 3, []byte{0, 0, 0})},
		{"16 bit samples", []any{int32(1), int32(1), int32(6), false, int32(16), int32(3), make([]byte, 6)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePixmap(tt.value)
			assert.Error(t, err)
		})
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
		name  string
	}{
		{"", KindNone, ""},
		{"   ", KindNone, ""},
		{"/usr/share/icons/a.png", KindPath, "/usr/share/icons/a.png"},
		{"file:///tmp/my%20icon.png", KindPath, "/tmp/my icon.png"},
		{"dialog-information", KindName, "dialog-information"},
		{"~/icons/me.png", KindPath, "/home/tester/icons/me.png"},
	}

	t.Setenv("HOME", "/home/tester")

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			src := FromString(tt.input)
			assert.Equal(t, tt.kind, src.Kind)
			assert.Equal(t, tt.name, src.Name)
		})
	}
}

func TestPathFromURI(t *testing.T) {
	assert.Equal(t, "/a/b.png", PathFromURI("file:///a/b.png"))
	assert.Equal(t, "/a/b.png", PathFromURI("/a/b.png"))
	assert.Equal(t, "firefox", PathFromURI("firefox"))
}

func TestFit(t *testing.T) {
	big := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	out := Fit(big, 48)
	assert.Equal(t, 48, out.Bounds().Dx())
	assert.Equal(t, 24, out.Bounds().Dy())

	small := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	out = Fit(small, 48)
	assert.Equal(t, 16, out.Bounds().Dx())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.png")
	require.NoError(t, imaging.Save(image.NewNRGBA(image.Rect(0, 0, 96, 96)), path))

	img, err := Load(FromString("file://"+path), 48)
	require.NoError(t, err)
	assert.Equal(t, 48, img.Bounds().Dx())

	_, err = Load(FromString(filepath.Join(t.TempDir(), "missing.png")), 48)
	assert.Error(t, err)

	_, err = Load(FromString("firefox"), 48)
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	p, err := ParsePixmap(rawPixmap(1, 1, 3, false, 3, []byte{1, 2, 3}))
	require.NoError(t, err)
	img, err = Load(FromPixmap(p), 48)
	require.NoError(t, err)
	assert.Equal(t, 1, img.Bounds().Dx())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "pixmap", KindPixmap.String())
	assert.Equal(t, "unknown", Kind(9).String())
	assert.True(t, None().IsZero())
	assert.True(t, FromPixmap(nil).IsZero())
}

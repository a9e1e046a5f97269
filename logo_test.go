package vizitka

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 230, G: 63, B: 20, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// hugePNGHeader returns a PNG that declares w x h grayscale pixels but
// carries no image data, which is all DecodeConfig needs.
func hugePNGHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth, color type 0 follows

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func decodeDataURI(t *testing.T, uri string) (string, []byte) {
	t.Helper()
	require.True(t, strings.HasPrefix(uri, "data:"), uri)
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ";base64,")
	require.True(t, ok, "missing base64 marker")
	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	return meta, raw
}

func TestProcessLogoEmbedsSmallImage(t *testing.T) {
	src := testPNG(t, 40, 20)

	uri, err := processLogo(bytes.NewReader(src), 600, 0)
	require.NoError(t, err)

	mime, raw := decodeDataURI(t, uri)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, src, raw, "small images are embedded unchanged")
}

func TestProcessLogoDownscalesWideImage(t *testing.T) {
	src := testPNG(t, 1200, 300)

	uri, err := processLogo(bytes.NewReader(src), 600, 0)
	require.NoError(t, err)

	mime, raw := decodeDataURI(t, uri)
	assert.Equal(t, "image/png", mime)
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Width)
	assert.Equal(t, 150, cfg.Height)
}

func TestProcessLogoKeepsSVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`)

	uri, err := processLogo(bytes.NewReader(svg), 600, 0)
	require.NoError(t, err)

	mime, raw := decodeDataURI(t, uri)
	assert.Equal(t, "image/svg+xml", mime)
	assert.Equal(t, svg, raw)
}

func TestProcessLogoRejectsNonImages(t *testing.T) {
	_, err := processLogo(strings.NewReader("just some notes"), 600, 0)
	assert.ErrorIs(t, err, ErrUnreadableLogo)

	_, err = processLogo(bytes.NewReader(nil), 600, 0)
	assert.ErrorIs(t, err, ErrUnreadableLogo)
}

func TestProcessLogoRejectsCorruptRaster(t *testing.T) {
	src := testPNG(t, 10, 10)
	corrupt := append([]byte{}, src[:24]...)

	_, err := processLogo(bytes.NewReader(corrupt), 600, 0)
	assert.ErrorIs(t, err, ErrUnreadableLogo)
}

func TestProcessLogoRejectsTooManyPixels(t *testing.T) {
	src := hugePNGHeader(8000, 8000)

	_, err := processLogo(bytes.NewReader(src), 600, 40_000_000)
	require.ErrorIs(t, err, ErrUnreadableLogo)
	assert.Contains(t, err.Error(), "8000x8000")

	// Without caps the header is embedded as is.
	_, err = processLogo(bytes.NewReader(src), 0, 0)
	assert.NoError(t, err)
}

func TestProcessLogoPixelCapAllowsNormalImages(t *testing.T) {
	_, err := processLogo(bytes.NewReader(testPNG(t, 100, 100)), 600, 10_000)
	assert.NoError(t, err)

	_, err = processLogo(bytes.NewReader(testPNG(t, 101, 100)), 600, 10_000)
	assert.ErrorIs(t, err, ErrUnreadableLogo)
}

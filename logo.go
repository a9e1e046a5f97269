package vizitka

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/eringen/vizitka/card"
)

// ErrUnreadableLogo is returned when an upload cannot be turned into an
// embeddable image.
var ErrUnreadableLogo = errors.New("vizitka: unreadable logo image")

// rasterTypes are the formats whose dimensions can be decoded and which get
// scaled down when too wide.
var rasterTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp"}

// uploadSlack is the multipart framing allowed on top of MaxLogoBytes.
const uploadSlack = 64 << 10

// processLogo reads an uploaded image and returns it as a data URI. Raster
// images wider than maxWidth are scaled down and re-encoded as PNG so the
// card stays light; everything else is embedded byte for byte. Rasters
// declaring more than maxPixels pixels are rejected before decoding.
func processLogo(src io.Reader, maxWidth, maxPixels int) (string, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("%w: read: %v", ErrUnreadableLogo, err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrUnreadableLogo)
	}

	mime := mimetype.Detect(raw).String()
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s is not an image", ErrUnreadableLogo, mime)
	}

	if mimetype.EqualsAny(mime, rasterTypes...) {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
		if err != nil {
			return "", fmt.Errorf("%w: decode %s: %v", ErrUnreadableLogo, mime, err)
		}
		if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
			return "", fmt.Errorf("%w: %dx%d exceeds pixel limit", ErrUnreadableLogo, cfg.Width, cfg.Height)
		}
		if maxWidth > 0 && cfg.Width > maxWidth {
			raw, err = downscale(raw, maxWidth)
			if err != nil {
				return "", err
			}
			mime = "image/png"
		}
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// downscale decodes raw, resizes it to width keeping the aspect ratio, and
// encodes the result as PNG to keep transparency.
func downscale(raw []byte, width int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnreadableLogo, err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	newH := h * width / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (a *App) handleLogoUpload(c echo.Context) error {
	ws, err := a.workspace(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("logo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return a.renderRefresh(c, ws)
		}
		return c.String(http.StatusBadRequest, "Neplatný formulár")
	}
	if file.Size > a.Config.MaxLogoBytes {
		return c.String(http.StatusRequestEntityTooLarge, "Súbor je príliš veľký")
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	uri, err := processLogo(src, a.Config.LogoMaxWidth, a.Config.MaxLogoPixels)
	if err != nil {
		a.log.Warn().Err(err).Str("workspace", ws.ID).Str("file", file.Filename).Msg("logo rejected")
		return c.String(http.StatusUnprocessableEntity, "Logo sa nepodarilo načítať")
	}

	_, _ = ws.Card.Update(func(d card.Data) (card.Data, error) {
		return card.WithLogo(d, uri), nil
	})
	a.log.Debug().Str("workspace", ws.ID).Int("bytes", len(uri)).Msg("logo updated")
	return a.renderRefresh(c, ws)
}

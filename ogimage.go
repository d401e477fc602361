package blog

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Share image size and encoding.
const (
	ogWidth   = 1200
	ogHeight  = 630
	ogMargin  = 80
	ogQuality = 85
)

var (
	brandNavy = color.RGBA{0x00, 0x03, 0x3d, 0xff}
	brandBlue = color.RGBA{0x1d, 0x4e, 0xd8, 0xff}
	brandMint = color.RGBA{0x00, 0xff, 0xaa, 0xff}
	softWhite = color.RGBA{0xdb, 0xea, 0xfe, 0xff}
)

// FallbackImage renders the default share image: a navy to blue gradient with
// an accent bar, the site name and a tagline, encoded as JPEG.
func FallbackImage(title, tagline string) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, ogWidth, ogHeight))
	for y := 0; y < ogHeight; y++ {
		c := lerp(brandNavy, brandBlue, float64(y)/float64(ogHeight-1))
		for x := 0; x < ogWidth; x++ {
			dst.SetRGBA(x, y, c)
		}
	}
	draw.Draw(dst, image.Rect(ogMargin, 190, ogMargin+160, 204), image.NewUniform(brandMint), image.Point{}, draw.Src)

	drawText(dst, title, ogMargin, 240, 8, color.White)
	drawText(dst, tagline, ogMargin, 420, 3, softWhite)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: ogQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// drawText renders text with the built-in bitmap face at its native size and
// scales it up onto dst at (x, y), shrinking to fit the right margin.
func drawText(dst *image.RGBA, text string, x, y, scale int, col color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	if width == 0 {
		return
	}
	height := face.Metrics().Height.Ceil()
	src := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)

	w, h := width*scale, height*scale
	if limit := ogWidth - x - ogMargin; w > limit {
		h = h * limit / w
		w = limit
	}
	draw.CatmullRom.Scale(dst, image.Rect(x, y, x+w, y+h), src, src.Bounds(), draw.Over, nil)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 0xff}
}

func (a *App) fallbackImage() ([]byte, error) {
	a.ogOnce.Do(func() {
		a.ogImage, a.ogErr = FallbackImage(a.Config.Name, "Pagamentos internacionais, stablecoins e fintech")
	})
	return a.ogImage, a.ogErr
}

func (a *App) handleFallbackImage(c echo.Context) error {
	img, err := a.fallbackImage()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/jpeg", img)
}

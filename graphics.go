package main

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce   sync.Once
	fontSource *text.GoTextFaceSource
	fontErr    error
)

// FontSource returns the shared Go Regular face source
func FontSource() (*text.GoTextFaceSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if fontErr != nil {
			fontErr = fmt.Errorf("failed to load font: %w", fontErr)
		}
	})
	return fontSource, fontErr
}

// FontFace returns a face of the shared font at size, or nil when the font failed to load
func FontFace(size float64) *text.GoTextFace {
	src, err := FontSource()
	if err != nil {
		return nil
	}
	return &text.GoTextFace{Source: src, Size: size}
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	if font == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// MeasureText returns the rendered width of s
func MeasureText(s string, font *text.GoTextFace) float64 {
	if font == nil {
		return float64(len(s)) * 8
	}
	w, _ := text.Measure(s, font, 0)
	return w
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// DrawBorder strokes the inside edge of r
func DrawBorder(screen *ebiten.Image, r Rect, width float64, c color.RGBA) {
	vector.StrokeRect(screen, float32(r.X+width/2), float32(r.Y+width/2),
		float32(r.W-width), float32(r.H-width), float32(width), c, false)
}

// DrawImageInRect scales img to exactly cover r
func DrawImageInRect(screen, img *ebiten.Image, r Rect) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(r.W/float64(b.Dx()), r.H/float64(b.Dy()))
	op.GeoM.Translate(r.X, r.Y)
	screen.DrawImage(img, op)
}

// truncateText shortens s with an ellipsis until it fits in width
func truncateText(s string, font *text.GoTextFace, width float64) string {
	if MeasureText(s, font) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if MeasureText(candidate, font) <= width {
			return candidate
		}
	}
	return ""
}

// CreateErrorImage creates a placeholder shown in a slot whose page failed to decode
func CreateErrorImage(width, height int, filename, errorMsg string) *ebiten.Image {
	if width <= 0 || height <= 0 {
		width, height = 600, 850 // roughly a comic page
	}

	errorImg := ebiten.NewImage(width, height)
	errorImg.Fill(color.RGBA{120, 30, 30, 255})
	DrawBorder(errorImg, Rect{W: float64(width), H: float64(height)}, 3, colorWhite)

	font := FontFace(20)
	maxW := float64(width) - 20
	DrawText(errorImg, "ERROR", font, 10, 30, colorWhite)
	DrawText(errorImg, truncateText("File: "+filename, font, maxW), font, 10, 60, colorWhite)
	DrawText(errorImg, truncateText("Reason: "+errorMsg, font, maxW), font, 10, 90, colorWhite)

	return errorImg
}

package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Processor reformats generated images for delivery: resize to the
// configured dimensions, plus an optional branding mark in the corner.
type Processor struct {
	width    int
	height   int
	markText string
	fontPath string
}

// New creates a Processor. A zero width or height keeps the aspect
// ratio on that axis; an empty markText disables the branding mark.
func New(width, height int, markText, fontPath string) *Processor {
	return &Processor{
		width:    width,
		height:   height,
		markText: markText,
		fontPath: fontPath,
	}
}

// Process resizes the generated image and applies the branding mark when
// configured, returning PNG bytes ready for delivery.
func (p *Processor) Process(src []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}

	resized := imaging.Resize(img, p.width, p.height, imaging.Lanczos)

	out := image.Image(resized)
	if p.markText != "" && p.fontPath != "" {
		out, err = p.mark(resized)
		if err != nil {
			return nil, fmt.Errorf("failed to apply branding mark: %w", err)
		}
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode processed image: %w", err)
	}

	return buf.Bytes(), nil
}

// mark draws the branding text in the bottom-right corner.
func (p *Processor) mark(img image.Image) (image.Image, error) {
	dc := gg.NewContextForImage(img)
	dc.SetColor(color.White)

	fontSize := float64(dc.Width()) * 0.03

	if err := dc.LoadFontFace(p.fontPath, fontSize); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	tw, th := dc.MeasureString(p.markText)

	margin := 10.0
	x := float64(dc.Width()) - tw - margin
	y := float64(dc.Height()) - th - margin

	dc.DrawStringAnchored(p.markText, x, y, 1, 1)
	dc.Fill()

	return dc.Image(), nil
}

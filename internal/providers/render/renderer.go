// Package render is the deterministic flyer compositor that terminates the
// provider chain. It performs purely local drawing, so on a well-formed
// profile it cannot fail; total chain exhaustion therefore implies an
// invalid request, not a provider outage.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"flyergen/internal/domain"
	"flyergen/internal/pipeline"
)

const (
	canvasSize   = 1024
	bandHeight   = 160
	marginX      = 64
	lineSpacing  = 12
	headingScale = 4
	bodyScale    = 2
)

// Renderer implements pipeline.Provider with local deterministic composition.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string { return "template-renderer" }

// Generate composes the flyer from the profile and the niche style. The only
// failure mode is a profile that fails its own validation, which is terminal
// for the whole chain.
func (r *Renderer) Generate(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
	if err := req.Profile.Validate(); err != nil {
		return nil, pipeline.Terminal(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, pipeline.Transient(err)
	}

	style := req.Style
	canvas := image.NewRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	fillRect(canvas, canvas.Bounds(), parseHex(style.Background, color.RGBA{0xe8, 0xea, 0xf6, 0xff}))

	accent := parseHex(style.Accent, color.RGBA{0x39, 0x49, 0xab, 0xff})
	fillRect(canvas, image.Rect(0, 0, canvasSize, bandHeight), accent)
	fillRect(canvas, image.Rect(0, canvasSize-bandHeight/2, canvasSize, canvasSize), accent)

	textColor := parseHex(style.TextColor, color.RGBA{0x1a, 0x23, 0x7e, 0xff})

	y := bandHeight + 72
	y = drawScaledText(canvas, strings.TrimSpace(req.Profile.Name), marginX, y, headingScale, textColor)
	y += 2 * lineSpacing

	for _, line := range contactLines(req.Profile) {
		y = drawScaledText(canvas, line, marginX, y, bodyScale, textColor)
		y += lineSpacing
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, canvas); err != nil {
		return nil, pipeline.Terminal(fmt.Errorf("render: encode png: %w", err))
	}

	return &pipeline.Result{
		Data:   buf.Bytes(),
		Format: "image/png",
		Width:  canvasSize,
		Height: canvasSize,
	}, nil
}

// contactLines lists every contact value that must appear on the flyer, in a
// fixed order so output is reproducible.
func contactLines(p domain.BusinessProfile) []string {
	var lines []string
	if v := strings.TrimSpace(p.Phone); v != "" {
		lines = append(lines, "Tel: "+v)
	}
	if v := strings.TrimSpace(p.WhatsApp); v != "" {
		lines = append(lines, "WhatsApp: "+v)
	}
	if v := strings.TrimSpace(p.Instagram); v != "" {
		lines = append(lines, "Instagram: "+v)
	}
	if v := strings.TrimSpace(p.Address()); v != "" {
		lines = append(lines, v)
	}
	return lines
}

// drawScaledText renders one line with the bitmap face onto an offscreen
// layer and scales it up with nearest-neighbor so the 7x13 face stays crisp.
// Returns the baseline for the next line.
func drawScaledText(dst *image.RGBA, text string, x, y, scale int, col color.Color) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return y
	}
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	if width <= 0 {
		return y
	}
	height := face.Metrics().Height.Ceil()
	layer := image.NewRGBA(image.Rect(0, 0, width, height))
	drawer := font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)

	target := image.Rect(x, y, x+width*scale, y+height*scale)
	xdraw.NearestNeighbor.Scale(dst, target, layer, layer.Bounds(), xdraw.Over, nil)
	return y + height*scale
}

func fillRect(dst *image.RGBA, rect image.Rectangle, col color.Color) {
	xdraw.Draw(dst, rect, image.NewUniform(col), image.Point{}, xdraw.Src)
}

// parseHex decodes a #rrggbb string, falling back when the value is
// malformed so rendering never fails on bad style configuration.
func parseHex(raw string, fallback color.RGBA) color.RGBA {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(raw) != 6 {
		return fallback
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(raw, "%02x%02x%02x", &r, &g, &b); err != nil {
		return fallback
	}
	return color.RGBA{r, g, b, 0xff}
}

var _ pipeline.Provider = (*Renderer)(nil)

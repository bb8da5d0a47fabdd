// Package canvas renders one page: card images composited into grid cells,
// corner cut marks, and optional guide lines.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/kingbosman/card-print/pkg/geom"
	"github.com/kingbosman/card-print/pkg/layout"
)

var ErrRender = errors.New("render failed")

// Page is a finished page raster. It lives only until it is flushed to the
// output writer.
type Page struct {
	dst *image.RGBA
}

// Image returns the page raster.
func (p *Page) Image() *image.RGBA {
	return p.dst
}

// SaveAsPNG saves this page as a PNG file into the specified path.
func (p *Page) SaveAsPNG(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, p.dst); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RenderPage composites the given cards into the grid's cells in order,
// then draws guide lines and corner cut marks. Cards whose pixel size
// differs from the cell are resampled with a Lanczos filter; cells past
// the last card stay blank. The same inputs always produce a
// pixel-identical page.
func RenderPage(cards []image.Image, grid *layout.Grid, marks geom.MarkSpec, guides geom.GuideSpec) (*Page, error) {
	if grid.PageW <= 0 || grid.PageH <= 0 {
		return nil, fmt.Errorf("%w: page is %dx%d pixels", ErrRender, grid.PageW, grid.PageH)
	}
	if len(cards) > grid.CardsPerPage() {
		return nil, fmt.Errorf("%w: %d cards for %d cells", ErrRender, len(cards), grid.CardsPerPage())
	}

	dst := image.NewRGBA(image.Rect(0, 0, grid.PageW, grid.PageH))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	for i, card := range cards {
		cell := grid.Cell(i)
		if card.Bounds().Dx() != grid.CardW || card.Bounds().Dy() != grid.CardH {
			card = imaging.Resize(card, grid.CardW, grid.CardH, imaging.Lanczos)
		}
		// Over, not Src: the page is already white, so transparent card
		// regions show the page instead of punching holes through it.
		draw.Draw(dst, cell, card, card.Bounds().Min, draw.Over)
	}

	dc := gg.NewContextForRGBA(dst)

	// Guides go first so the cut marks stay on top of them.
	if guides.Enabled {
		drawGuides(dc, grid, guides)
	}
	gapPx, err := geom.MMToPixels(marks.GapMM, grid.DPI)
	if err != nil {
		return nil, fmt.Errorf("mark gap: %w", err)
	}
	lenPx, err := geom.MMToPixels(marks.LengthMM, grid.DPI)
	if err != nil {
		return nil, fmt.Errorf("mark length: %w", err)
	}
	occupied := make([]image.Rectangle, len(cards))
	for i := range cards {
		occupied[i] = grid.Cell(i)
	}
	for i := range cards {
		drawCornerMarks(dc, grid.Cell(i), gapPx, lenPx, marks, occupied)
	}

	return &Page{dst: dst}, nil
}

func drawGuides(dc *gg.Context, grid *layout.Grid, guides geom.GuideSpec) {
	dc.SetColor(guides.Color)
	dc.SetLineWidth(float64(guides.WidthPx))
	for _, x := range grid.ColumnEdges() {
		dc.DrawLine(float64(x), 0, float64(x), float64(grid.PageH))
	}
	for _, y := range grid.RowEdges() {
		dc.DrawLine(0, float64(y), float64(grid.PageW), float64(y))
	}
	dc.Stroke()
}

// drawCornerMarks strokes an outward-pointing L at each corner of the
// card, offset gap pixels away from the card edge so the marks never touch
// the card face. Cutting along a mark trims at the card boundary plus gap.
// Segments whose stroke would land on any occupied cell are suppressed:
// with a zero grid gap a card's "outside" is its neighbor's face, and the
// shared boundary is already marked by the perimeter corners.
func drawCornerMarks(dc *gg.Context, cell image.Rectangle, gap, length int, marks geom.MarkSpec, occupied []image.Rectangle) {
	left := float64(cell.Min.X - gap)
	top := float64(cell.Min.Y - gap)
	right := float64(cell.Max.X + gap)
	bottom := float64(cell.Max.Y + gap)
	l := float64(length)

	segments := [][4]float64{
		// top-left
		{left - l, top, left, top},
		{left, top - l, left, top},
		// top-right
		{right, top, right + l, top},
		{right, top - l, right, top},
		// bottom-left
		{left - l, bottom, left, bottom},
		{left, bottom, left, bottom + l},
		// bottom-right
		{right, bottom, right + l, bottom},
		{right, bottom, right, bottom + l},
	}

	dc.SetColor(marks.Color)
	dc.SetLineWidth(float64(marks.WidthPx))

	halfWidth := float64(marks.WidthPx) / 2
	for _, s := range segments {
		if segmentClearOfCards(s, halfWidth, occupied) {
			dc.DrawLine(s[0], s[1], s[2], s[3])
		}
	}

	dc.Stroke()
}

// segmentClearOfCards reports whether an axis-aligned segment, widened by
// the stroke's half width, stays off every occupied cell.
func segmentClearOfCards(s [4]float64, halfWidth float64, occupied []image.Rectangle) bool {
	minX := math.Min(s[0], s[2]) - halfWidth
	maxX := math.Max(s[0], s[2]) + halfWidth
	minY := math.Min(s[1], s[3]) - halfWidth
	maxY := math.Max(s[1], s[3]) + halfWidth
	for _, r := range occupied {
		if maxX > float64(r.Min.X) && minX < float64(r.Max.X) &&
			maxY > float64(r.Min.Y) && minY < float64(r.Max.Y) {
			return false
		}
	}
	return true
}

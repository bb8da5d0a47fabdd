// Package layout computes where every card lands on a page, in pixels.
package layout

import (
	"errors"
	"fmt"
	"image"

	"github.com/kingbosman/card-print/pkg/geom"
)

var ErrOverflow = errors.New("grid does not fit on paper")

// Grid is the pixel placement of one page's card grid. It is a pure
// function of the page and card specs; the same specs always produce the
// same grid.
type Grid struct {
	PageW, PageH int
	CardW, CardH int
	Gap          int
	OriginX      int
	OriginY      int
	Columns      int
	Rows         int
	DPI          float64
}

// Plan computes the grid for one page. The grid is centered on the paper
// and the configured margin is the minimum border on every side; a grid
// that needs more room than the paper offers is an error, never a silent
// shrink, since a shrunk grid would print cards at the wrong physical size.
func Plan(page geom.PageSpec, card geom.CardSpec) (*Grid, error) {
	page = page.Oriented()

	if card.Columns < 1 || card.Rows < 1 {
		return nil, fmt.Errorf("%w: grid is %dx%d, need at least 1x1", ErrOverflow, card.Columns, card.Rows)
	}

	needW := float64(card.Columns)*card.WidthMM + float64(card.Columns-1)*card.GapMM + 2*card.MarginMM
	needH := float64(card.Rows)*card.HeightMM + float64(card.Rows-1)*card.GapMM + 2*card.MarginMM
	if needW > page.WidthMM || needH > page.HeightMM {
		return nil, fmt.Errorf("%w: %d columns x %d rows of %gx%gmm cards need %.1fx%.1fmm, paper is %gx%gmm (%s)",
			ErrOverflow, card.Columns, card.Rows, card.WidthMM, card.HeightMM,
			needW, needH, page.WidthMM, page.HeightMM, page.Orientation)
	}

	g := &Grid{Columns: card.Columns, Rows: card.Rows, DPI: page.DPI}

	var err error
	if g.PageW, err = geom.MMToPixels(page.WidthMM, page.DPI); err != nil {
		return nil, fmt.Errorf("paper width: %w", err)
	}
	if g.PageH, err = geom.MMToPixels(page.HeightMM, page.DPI); err != nil {
		return nil, fmt.Errorf("paper height: %w", err)
	}
	if g.CardW, err = geom.MMToPixels(card.WidthMM, page.DPI); err != nil {
		return nil, fmt.Errorf("card width: %w", err)
	}
	if g.CardH, err = geom.MMToPixels(card.HeightMM, page.DPI); err != nil {
		return nil, fmt.Errorf("card height: %w", err)
	}
	if g.Gap, err = geom.MMToPixels(card.GapMM, page.DPI); err != nil {
		return nil, fmt.Errorf("gap: %w", err)
	}

	gridW := g.CardW*g.Columns + g.Gap*(g.Columns-1)
	gridH := g.CardH*g.Rows + g.Gap*(g.Rows-1)
	g.OriginX = (g.PageW - gridW) / 2
	g.OriginY = (g.PageH - gridH) / 2

	return g, nil
}

// CardsPerPage is the cell count of one page.
func (g *Grid) CardsPerPage() int {
	return g.Columns * g.Rows
}

// Cell returns the pixel rectangle of cell i, cells counted row-major:
// left to right, then top to bottom.
func (g *Grid) Cell(i int) image.Rectangle {
	col := i % g.Columns
	row := i / g.Columns
	x := g.OriginX + col*(g.CardW+g.Gap)
	y := g.OriginY + row*(g.CardH+g.Gap)
	return image.Rect(x, y, x+g.CardW, y+g.CardH)
}

// Cells returns every cell rectangle of one page in placement order.
func (g *Grid) Cells() []image.Rectangle {
	cells := make([]image.Rectangle, g.CardsPerPage())
	for i := range cells {
		cells[i] = g.Cell(i)
	}
	return cells
}

// ColumnEdges returns the x coordinates of every vertical card boundary,
// deduplicated when the gap is zero. Used for guide lines.
func (g *Grid) ColumnEdges() []int {
	return edges(g.OriginX, g.CardW, g.Gap, g.Columns)
}

// RowEdges returns the y coordinates of every horizontal card boundary.
func (g *Grid) RowEdges() []int {
	return edges(g.OriginY, g.CardH, g.Gap, g.Rows)
}

func edges(origin, size, gap, n int) []int {
	var out []int
	for i := 0; i < n; i++ {
		lead := origin + i*(size+gap)
		if len(out) == 0 || out[len(out)-1] != lead {
			out = append(out, lead)
		}
		out = append(out, lead+size)
	}
	return out
}

package canvas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/kingbosman/card-print/pkg/geom"
	"github.com/kingbosman/card-print/pkg/layout"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	black = color.RGBA{A: 0xff}
)

// testGrid is 100x80mm paper at 50dpi with two 30x40mm cells side by side.
func testGrid(t *testing.T) *layout.Grid {
	t.Helper()
	g, err := layout.Plan(
		geom.PageSpec{WidthMM: 100, HeightMM: 80, DPI: 50, Orientation: geom.Landscape},
		geom.CardSpec{WidthMM: 30, HeightMM: 40, Columns: 2, Rows: 1, GapMM: 5},
	)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func testMarks() geom.MarkSpec {
	return geom.MarkSpec{GapMM: 2, LengthMM: 4, WidthPx: 2, Color: black}
}

func uniformCard(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func TestRenderPageDimensions(t *testing.T) {
	grid := testGrid(t)
	page, err := RenderPage(nil, grid, testMarks(), geom.GuideSpec{})
	if err != nil {
		t.Fatal(err)
	}
	b := page.Image().Bounds()
	if b.Dx() != grid.PageW || b.Dy() != grid.PageH {
		t.Errorf("page is %dx%d px, want %dx%d", b.Dx(), b.Dy(), grid.PageW, grid.PageH)
	}
}

func TestRenderPageCardUntouchedByMarks(t *testing.T) {
	grid := testGrid(t)
	card := uniformCard(grid.CardW, grid.CardH, red)

	page, err := RenderPage([]image.Image{card}, grid, testMarks(), geom.GuideSpec{})
	if err != nil {
		t.Fatal(err)
	}

	cell := grid.Cell(0)
	img := page.Image()
	for y := cell.Min.Y; y < cell.Max.Y; y++ {
		for x := cell.Min.X; x < cell.Max.X; x++ {
			if img.RGBAAt(x, y) != red {
				t.Fatalf("card pixel (%d,%d) = %v, marks must not overlap the card", x, y, img.RGBAAt(x, y))
			}
		}
	}
}

func TestRenderPageDrawsMarks(t *testing.T) {
	grid := testGrid(t)
	card := uniformCard(grid.CardW, grid.CardH, red)

	page, err := RenderPage([]image.Image{card}, grid, testMarks(), geom.GuideSpec{})
	if err != nil {
		t.Fatal(err)
	}

	// midpoint of the top-left corner's horizontal mark segment
	gap, _ := geom.MMToPixels(2, grid.DPI)
	length, _ := geom.MMToPixels(4, grid.DPI)
	cell := grid.Cell(0)
	x := cell.Min.X - gap - length/2
	y := cell.Min.Y - gap
	if c := page.Image().RGBAAt(x, y); c.R > 0xf0 && c.G > 0xf0 && c.B > 0xf0 {
		t.Errorf("expected a mark at (%d,%d), found near-white %v", x, y, c)
	}
}

func TestRenderPageBlankCellsStayBlank(t *testing.T) {
	grid := testGrid(t)
	card := uniformCard(grid.CardW, grid.CardH, red)

	page, err := RenderPage([]image.Image{card}, grid, testMarks(), geom.GuideSpec{})
	if err != nil {
		t.Fatal(err)
	}

	// center of the unoccupied second cell is untouched white
	cell := grid.Cell(1)
	x := (cell.Min.X + cell.Max.X) / 2
	y := (cell.Min.Y + cell.Max.Y) / 2
	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	if c := page.Image().RGBAAt(x, y); c != white {
		t.Errorf("blank cell center = %v, want white", c)
	}
}

func TestRenderPageResamplesToCellSize(t *testing.T) {
	grid := testGrid(t)
	// native size differs from the cell, forcing a Lanczos resample
	card := uniformCard(10, 10, red)

	page, err := RenderPage([]image.Image{card}, grid, testMarks(), geom.GuideSpec{})
	if err != nil {
		t.Fatal(err)
	}

	cell := grid.Cell(0)
	c := page.Image().RGBAAt((cell.Min.X+cell.Max.X)/2, (cell.Min.Y+cell.Max.Y)/2)
	if c.R < 0xf0 || c.G > 0x10 || c.B > 0x10 {
		t.Errorf("resampled card center = %v, want red", c)
	}
	// the pixel just past the cell's right edge is outside the card
	if c := page.Image().RGBAAt(cell.Max.X+1, (cell.Min.Y+cell.Max.Y)/2); c.R == 0xff && c.G == 0 {
		t.Errorf("card bled past its cell: %v", c)
	}
}

func TestRenderPageIdempotent(t *testing.T) {
	grid := testGrid(t)
	cards := []image.Image{
		uniformCard(grid.CardW, grid.CardH, red),
		uniformCard(10, 20, color.RGBA{G: 0xff, A: 0xff}),
	}
	guides := geom.GuideSpec{Enabled: true, WidthPx: 1, Color: color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}}

	a, err := RenderPage(cards, grid, testMarks(), guides)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderPage(cards, grid, testMarks(), guides)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Image().Pix, b.Image().Pix) {
		t.Error("rendering the same chunk twice produced different pixels")
	}
}

func TestRenderPageGuideLines(t *testing.T) {
	grid := testGrid(t)
	guides := geom.GuideSpec{Enabled: true, WidthPx: 1, Color: black}

	page, err := RenderPage(nil, grid, testMarks(), guides)
	if err != nil {
		t.Fatal(err)
	}

	// guides span the full page, so the boundary column is drawn even
	// above the grid
	x := grid.ColumnEdges()[0]
	if c := page.Image().RGBAAt(x, 1); c.R > 0xf0 && c.G > 0xf0 && c.B > 0xf0 {
		t.Errorf("expected a guide line at x=%d, found near-white %v", x, c)
	}

	// disabled guides leave the same spot white
	plain, err := RenderPage(nil, grid, testMarks(), geom.GuideSpec{})
	if err != nil {
		t.Fatal(err)
	}
	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	if c := plain.Image().RGBAAt(x, 1); c != white {
		t.Errorf("guides disabled but pixel at x=%d is %v", x, c)
	}
}

func TestRenderPageMarksSkipNeighborCardsAtZeroGap(t *testing.T) {
	// full letter-landscape page of poker cards with no gap: every card
	// edge is a neighbor's edge, so interior marks must be suppressed
	grid, err := layout.Plan(
		geom.PageSpec{WidthMM: 279.4, HeightMM: 215.9, DPI: 300, Orientation: geom.Landscape},
		geom.CardSpec{WidthMM: 63, HeightMM: 88, Columns: 4, Rows: 2},
	)
	if err != nil {
		t.Fatal(err)
	}
	marks := geom.MarkSpec{GapMM: 1, LengthMM: 3, WidthPx: 2, Color: black}

	cards := make([]image.Image, grid.CardsPerPage())
	for i := range cards {
		cards[i] = uniformCard(grid.CardW, grid.CardH, red)
	}
	page, err := RenderPage(cards, grid, marks, geom.GuideSpec{})
	if err != nil {
		t.Fatal(err)
	}

	img := page.Image()
	for i := range cards {
		cell := grid.Cell(i)
		for y := cell.Min.Y; y < cell.Max.Y; y++ {
			for x := cell.Min.X; x < cell.Max.X; x++ {
				if img.RGBAAt(x, y) != red {
					t.Fatalf("cell %d pixel (%d,%d) = %v, a mark overlaps a card face",
						i, x, y, img.RGBAAt(x, y))
				}
			}
		}
	}

	// the page perimeter still gets its marks
	gap, _ := geom.MMToPixels(marks.GapMM, grid.DPI)
	length, _ := geom.MMToPixels(marks.LengthMM, grid.DPI)
	cell := grid.Cell(0)
	x := cell.Min.X - gap - length/2
	y := cell.Min.Y - gap
	if c := img.RGBAAt(x, y); c.R > 0xf0 && c.G > 0xf0 && c.B > 0xf0 {
		t.Errorf("expected a perimeter mark at (%d,%d), found near-white %v", x, y, c)
	}
}

func TestRenderPageTransparentCardShowsWhitePage(t *testing.T) {
	grid := testGrid(t)
	// opaque red card with a fully transparent square in the middle
	img := image.NewRGBA(image.Rect(0, 0, grid.CardW, grid.CardH))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = red.R
		img.Pix[i+3] = 0xff
	}
	cx, cy := grid.CardW/2, grid.CardH/2
	for y := cy - 2; y <= cy+2; y++ {
		for x := cx - 2; x <= cx+2; x++ {
			img.SetRGBA(x, y, color.RGBA{})
		}
	}

	page, err := RenderPage([]image.Image{img}, grid, testMarks(), geom.GuideSpec{})
	if err != nil {
		t.Fatal(err)
	}

	cell := grid.Cell(0)
	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	if c := page.Image().RGBAAt(cell.Min.X+cx, cell.Min.Y+cy); c != white {
		t.Errorf("transparent card region = %v, want the white page behind it", c)
	}
	if c := page.Image().RGBAAt(cell.Min.X+1, cell.Min.Y+1); c != red {
		t.Errorf("opaque card region = %v, want red", c)
	}
}

func TestRenderPageTooManyCards(t *testing.T) {
	grid := testGrid(t)
	cards := make([]image.Image, grid.CardsPerPage()+1)
	for i := range cards {
		cards[i] = uniformCard(4, 4, red)
	}
	if _, err := RenderPage(cards, grid, testMarks(), geom.GuideSpec{}); !errors.Is(err, ErrRender) {
		t.Errorf("RenderPage() error = %v, want ErrRender", err)
	}
}

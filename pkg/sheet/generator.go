// Package sheet drives a whole run: list the card images, split them into
// pages, render each page and flush it to PNG files or one PDF.
package sheet

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/kingbosman/card-print/pkg/canvas"
	"github.com/kingbosman/card-print/pkg/geom"
	"github.com/kingbosman/card-print/pkg/layout"
)

var (
	ErrNoCards = errors.New("no card images found")
	// ErrPartialWrite aborts the whole run when any page fails to flush;
	// files already written by the run are removed rather than left as a
	// gapped sequence or truncated document.
	ErrPartialWrite = errors.New("output incomplete")
)

// Generator runs one sheet job. Pages are rendered and flushed strictly in
// input order, one at a time; a page's raster is released once written.
type Generator struct {
	Page   geom.PageSpec
	Card   geom.CardSpec
	Marks  geom.MarkSpec
	Guides geom.GuideSpec

	ImagesDir  string
	OutputDir  string
	OutputFile string

	Lister Lister          // defaults to DirLister
	Now    func() time.Time // defaults to time.Now, injectable for tests
	Log    *log.Logger      // optional progress output
}

// Run generates every page and returns the written paths in page order.
// Nothing is written when the input folder holds no images.
func (g *Generator) Run() ([]string, error) {
	grid, err := layout.Plan(g.Page, g.Card)
	if err != nil {
		return nil, err
	}

	lister := g.Lister
	if lister == nil {
		lister = DirLister{}
	}
	files, err := lister.ListImages(g.ImagesDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %q (supported: png, jpg, jpeg, webp, bmp)", ErrNoCards, g.ImagesDir)
	}

	chunks := Paginate(files, grid.CardsPerPage())
	g.logf("found %d card images, %d per page, %d page(s)", len(files), grid.CardsPerPage(), len(chunks))

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return nil, err
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	base := filepath.Join(g.OutputDir, RunFilename(now(), g.OutputFile))

	if strings.EqualFold(filepath.Ext(g.OutputFile), ".pdf") {
		return g.writePDF(chunks, grid, base)
	}
	return g.writePNGs(chunks, grid, base)
}

func (g *Generator) writePNGs(chunks [][]string, grid *layout.Grid, base string) ([]string, error) {
	var written []string
	for i, chunk := range chunks {
		page, err := g.renderChunk(chunk, grid, i+1, len(chunks))
		if err != nil {
			cleanup(written)
			return nil, err
		}
		path := PageFilename(base, i+1)
		if err := page.SaveAsPNG(path); err != nil {
			cleanup(written)
			return nil, fmt.Errorf("%w: %v", ErrPartialWrite, err)
		}
		g.logf("wrote %s", path)
		written = append(written, path)
	}
	return written, nil
}

func (g *Generator) writePDF(chunks [][]string, grid *layout.Grid, path string) ([]string, error) {
	page := g.Page.Oriented()
	rect := gopdf.Rect{W: geom.MMToPoints(page.WidthMM), H: geom.MMToPoints(page.HeightMM)}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: rect})

	for i, chunk := range chunks {
		rendered, err := g.renderChunk(chunk, grid, i+1, len(chunks))
		if err != nil {
			return nil, err
		}
		pdf.AddPageWithOption(gopdf.PageOption{PageSize: &rect})
		if err := pdf.ImageFrom(rendered.Image(), 0, 0, &rect); err != nil {
			return nil, fmt.Errorf("placing page %d: %w", i+1, err)
		}
	}

	if err := pdf.WritePdf(path); err != nil {
		cleanup([]string{path})
		return nil, fmt.Errorf("%w: %v", ErrPartialWrite, err)
	}
	g.logf("wrote %s (%d page(s))", path, len(chunks))
	return []string{path}, nil
}

func (g *Generator) renderChunk(chunk []string, grid *layout.Grid, pageNum, total int) (*canvas.Page, error) {
	g.logf("page %d/%d: placing %d card(s)", pageNum, total, len(chunk))
	cards := make([]image.Image, 0, len(chunk))
	for _, path := range chunk {
		img, err := decodeImage(path)
		if err != nil {
			// A skipped card would shift every later card's cell, so a
			// bad image aborts the run instead.
			return nil, err
		}
		cards = append(cards, img)
	}
	return canvas.RenderPage(cards, grid, g.Marks, g.Guides)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening card image %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding card image %s: %w", path, err)
	}
	return img, nil
}

func (g *Generator) logf(format string, args ...interface{}) {
	if g.Log != nil {
		g.Log.Printf(format, args...)
	}
}

// cleanup removes files the run already produced so a failed run leaves no
// gapped or truncated output behind.
func cleanup(written []string) {
	for _, p := range written {
		os.Remove(p)
	}
}

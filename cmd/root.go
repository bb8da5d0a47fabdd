package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingbosman/card-print/pkg/config"
	"github.com/kingbosman/card-print/pkg/layout"
	"github.com/kingbosman/card-print/pkg/sheet"
)

const longDescription = `card-print arranges card images into a grid on printable sheets, draws
corner cut marks and optional guide lines, and writes the pages as
numbered PNG files or one multi-page PDF.

Configuration lives in config/current.yaml; on the first run it is
created as a copy of config/default.yaml. Card placement follows the
lexicographic order of the file names in the images folder.`

// NewRootCmd creates the root command of card-print.
func NewRootCmd() *cobra.Command {
	var (
		cfgPath string
		output  string
	)

	cmd := &cobra.Command{
		Use:           "card-print",
		Short:         "Generate printable card sheets with cut marks",
		Long:          longDescription,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stdout, "", 0)

			var cfg *config.Config
			var err error
			if cfgPath != "" {
				// An explicit config is used read-only, without touching
				// the active config.
				cfg, err = config.Load(cfgPath)
			} else {
				var copied bool
				cfg, copied, err = config.Resolve(config.ActivePath, config.TemplatePath)
				if copied {
					logger.Printf("%s not found, created it from %s", config.ActivePath, config.TemplatePath)
				}
			}
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Output.File = output
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			gen := &sheet.Generator{
				Page:       cfg.PageSpec(),
				Card:       cfg.CardSpec(),
				Marks:      cfg.MarkSpec(),
				Guides:     cfg.GuideSpec(),
				ImagesDir:  cfg.Images.Folder,
				OutputDir:  cfg.Output.Dir,
				OutputFile: cfg.Output.File,
				Log:        logger,
			}

			printSummary(logger, cfg)
			written, err := gen.Run()
			if err != nil {
				return err
			}
			logger.Printf("done, %d file(s) written", len(written))
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "alternate config file, used read-only")
	cmd.Flags().StringVarP(&output, "output", "o", "", "override the configured output file name")

	return cmd
}

func printSummary(logger *log.Logger, cfg *config.Config) {
	grid, err := layout.Plan(cfg.PageSpec(), cfg.CardSpec())
	if err != nil {
		// Run reports it with full context.
		return
	}
	page := cfg.PageSpec().Oriented()
	logger.Printf("paper: %gx%gmm (%s) at %gdpi, %dx%d pixels",
		page.WidthMM, page.HeightMM, page.Orientation, page.DPI, grid.PageW, grid.PageH)
	logger.Printf("cards: %gx%gmm (%dx%d pixels), grid %dx%d, %d per page",
		cfg.Card.WidthMM, cfg.Card.HeightMM, grid.CardW, grid.CardH,
		grid.Columns, grid.Rows, grid.CardsPerPage())
	logger.Printf("print at 100%% scale, borderless, then cut along the corner marks")
}

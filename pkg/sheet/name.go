package sheet

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// RunFilename prefixes the output name with the run's unix timestamp so
// consecutive runs never collide.
func RunFilename(now time.Time, name string) string {
	return fmt.Sprintf("%d_%s", now.Unix(), name)
}

// PageFilename inserts the 1-based page number before the extension:
// "sheet.png" page 2 becomes "sheet_2.png".
func PageFilename(name string, page int) string {
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), page, ext)
}

package extract

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseCoordinates recovers the page and figure ordinals embedded in a rendered
// image filename such as "report.pdf-2-0.png". The render provider numbers both
// from zero with figure numbering restarting on every page; the returned values
// are 1-indexed for display.
func ParseCoordinates(filename string) (page, figure int, err error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(base, "-")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("filename %q has no page-figure suffix", filename)
	}

	page, err = strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return 0, 0, fmt.Errorf("filename %q: bad page ordinal: %w", filename, err)
	}
	figure, err = strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, 0, fmt.Errorf("filename %q: bad figure ordinal: %w", filename, err)
	}

	return page + 1, figure + 1, nil
}

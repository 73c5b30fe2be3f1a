package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		filename string
		page     int
		figure   int
	}{
		{"report.pdf-0-0.png", 1, 1},
		{"report.pdf-2-10.png", 3, 11},
		{"multi-word-name.pdf-1-3.png", 2, 4},
		{"5-7.png", 6, 8},
	}

	for _, tt := range tests {
		page, figure, err := ParseCoordinates(tt.filename)
		require.NoError(t, err, tt.filename)
		assert.Equal(t, tt.page, page, tt.filename)
		assert.Equal(t, tt.figure, figure, tt.filename)
	}
}

func TestParseCoordinatesFigureRestartsPerPage(t *testing.T) {
	// the render provider restarts figure numbering on every page; parsing
	// must preserve that, not impose a global counter
	page1, fig1, err := ParseCoordinates("doc.pdf-0-1.png")
	require.NoError(t, err)
	page2, fig2, err := ParseCoordinates("doc.pdf-1-0.png")
	require.NoError(t, err)

	assert.Equal(t, 1, page1)
	assert.Equal(t, 2, fig1)
	assert.Equal(t, 2, page2)
	assert.Equal(t, 1, fig2)
}

func TestParseCoordinatesMalformed(t *testing.T) {
	for _, filename := range []string{
		"cover.png",
		"doc.pdf-x-0.png",
		"doc.pdf-0-y.png",
		"nodash.png",
	} {
		_, _, err := ParseCoordinates(filename)
		assert.Error(t, err, filename)
	}
}

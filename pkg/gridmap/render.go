package gridmap

import (
	"strings"

	"github.com/robotmaps/slam.go/pkg/geom"
)

// occupancy shades from free to occupied, one per eighth.
var shades = []rune(" ▁▂▃▄▅▆▇█")

const unknownCell = '░'

// RenderASCII renders the allocated grid as text, one rune per cell,
// highest Y first. The robot path is drawn as heading arrows and the
// start cell as 'X'.
func (m *Map) RenderASCII() string {
	grid := make([][]rune, m.rows)
	for r := range grid {
		row := make([]rune, m.cols)
		for c := range row {
			row[c] = cellRune(m.cells[r*m.cols+c])
		}
		grid[r] = row
	}

	put := func(row, col int, ch rune) {
		row -= m.minRow
		col -= m.minCol
		if row >= 0 && row < m.rows && col >= 0 && col < m.cols {
			grid[row][col] = ch
		}
	}
	for _, p := range m.path {
		r, c := m.CellIndex(p.X, p.Y)
		put(r, c, headingRune(p.Heading))
	}
	put(0, 0, 'X')

	var b strings.Builder
	for r := m.rows - 1; r >= 0; r-- {
		b.WriteString(string(grid[r]))
		b.WriteByte('\n')
	}
	return b.String()
}

func cellRune(logOdds float64) rune {
	if logOdds == 0 {
		return unknownCell
	}
	i := int(Probability(logOdds) * float64(len(shades)-1))
	if i < 0 {
		i = 0
	} else if i >= len(shades) {
		i = len(shades) - 1
	}
	return shades[i]
}

func headingRune(a geom.Angle) rune {
	switch d := a.Degrees(); {
	case d >= -45 && d < 45:
		return '>'
	case d >= 45 && d < 135:
		return '^'
	case d >= -135 && d < -45:
		return 'v'
	}
	return '<'
}

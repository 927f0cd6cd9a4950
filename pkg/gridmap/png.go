package gridmap

import (
	"io"

	"github.com/fogleman/gg"
)

// pixels per cell in PNG output.
const pngScale = 4

// WritePNG renders the allocated grid as a PNG image: grayscale
// occupancy (white free, black occupied, light gray unknown), the
// robot path as a red polyline and the start as a green dot.
func (m *Map) WritePNG(w io.Writer) error {
	return m.draw().EncodePNG(w)
}

// SavePNG is WritePNG to a file.
func (m *Map) SavePNG(path string) error {
	return m.draw().SavePNG(path)
}

func (m *Map) draw() *gg.Context {
	dc := gg.NewContext(m.cols*pngScale, m.rows*pngScale)
	dc.SetRGB(0.85, 0.85, 0.85)
	dc.Clear()

	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			l := m.cells[r*m.cols+c]
			if l == 0 {
				continue
			}
			shade := 1 - Probability(l)
			dc.SetRGB(shade, shade, shade)
			dc.DrawRectangle(float64(c*pngScale), float64((m.rows-1-r)*pngScale),
				pngScale, pngScale)
			dc.Fill()
		}
	}

	if len(m.path) > 0 {
		dc.SetRGB(0.8, 0.1, 0.1)
		dc.SetLineWidth(1.5)
		for _, p := range m.path {
			x, y := m.pixelAt(p.X, p.Y)
			dc.LineTo(x, y)
		}
		dc.Stroke()
	}

	dc.SetRGB(0.1, 0.7, 0.1)
	x, y := m.pixelAt(0, 0)
	dc.DrawCircle(x, y, pngScale)
	dc.Fill()
	return dc
}

// pixelAt maps cartesian cm to image coordinates (Y flipped).
func (m *Map) pixelAt(cx, cy float64) (x, y float64) {
	cs := float64(m.cellSize)
	x = (cx/cs - float64(m.minCol) + 0.5) * pngScale
	y = (float64(m.minRow+m.rows) - cy/cs - 0.5) * pngScale
	return
}

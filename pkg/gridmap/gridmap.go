// Package gridmap implements the growable log-odds occupancy grid
// the mapper draws into.
//
// The grid covers an unbounded plane: storage is allocated in whole
// blocks, and touching a coordinate outside the current bounds grows
// the grid in that direction. Coordinates are cartesian centimeters
// with the robot's start position at the center of the cell at the
// origin. Cells hold log odds of occupancy, 0 is unknown.
//
// A Map is not safe for concurrent use; the control loop owns it.
package gridmap

import (
	"errors"
	"math"
	"sort"

	"github.com/robotmaps/slam.go/pkg/geom"
)

// Defaults: 1m blocks of 5cm cells.
const (
	DefaultBlockSize = 100
	DefaultCellSize  = 5
)

// Map is the occupancy grid.
type Map struct {
	blockSize int // cm
	cellSize  int // cm
	perBlock  int // cells per block side

	cells      []float64 // row-major, rows*cols
	rows, cols int
	minRow     int // absolute cell row of cells[0]
	minCol     int // absolute cell col of cells[0]

	path []geom.Pose
}

// Config errors.
var (
	ErrBlockSize = errors.New("block size must be a multiple of cell size and larger than 1cm")
	ErrCellSize  = errors.New("cell size must be positive")
)

// New creates a Map. Both sizes are in cm; the block size must be a
// multiple of the cell size. The initial allocation covers one block
// in every direction around the origin.
func New(blockSize, cellSize int) (*Map, error) {
	if cellSize <= 0 {
		return nil, ErrCellSize
	}
	if blockSize <= 1 || blockSize <= cellSize || blockSize%cellSize != 0 {
		return nil, ErrBlockSize
	}
	m := &Map{
		blockSize: blockSize,
		cellSize:  cellSize,
		perBlock:  blockSize / cellSize,
	}
	m.rows, m.cols = 2*m.perBlock, 2*m.perBlock
	m.minRow, m.minCol = -m.perBlock, -m.perBlock
	m.cells = make([]float64, m.rows*m.cols)
	return m, nil
}

// MustNew is New for hard-coded sizes.
func MustNew(blockSize, cellSize int) *Map {
	m, err := New(blockSize, cellSize)
	if err != nil {
		panic(err)
	}
	return m
}

// CellSize is the cell edge in cm.
func (m *Map) CellSize() int { return m.cellSize }

// Size returns the currently allocated extent in cells.
func (m *Map) Size() (rows, cols int) { return m.rows, m.cols }

// Bounds returns the cartesian extent (cm) currently allocated.
// min is inclusive, max exclusive.
func (m *Map) Bounds() (min, max geom.Pos) {
	cs := float64(m.cellSize)
	min = geom.Pos{X: float64(m.minCol) * cs, Y: float64(m.minRow) * cs}
	max = geom.Pos{X: float64(m.minCol+m.cols) * cs, Y: float64(m.minRow+m.rows) * cs}
	return
}

// CellIndex converts cartesian cm to absolute cell row/col.
func (m *Map) CellIndex(x, y float64) (row, col int) {
	cs := float64(m.cellSize)
	return int(math.Round(y / cs)), int(math.Round(x / cs))
}

// CellCenter converts absolute cell row/col to cartesian cm.
func (m *Map) CellCenter(row, col int) geom.Pos {
	cs := float64(m.cellSize)
	return geom.Pos{X: float64(col) * cs, Y: float64(row) * cs}
}

// At reads the log odds at a cartesian position. Positions outside
// the allocated grid are unknown (0); reading never grows the grid.
func (m *Map) At(x, y float64) float64 {
	row, col := m.CellIndex(x, y)
	if row < m.minRow || row >= m.minRow+m.rows ||
		col < m.minCol || col >= m.minCol+m.cols {
		return 0
	}
	return m.cells[(row-m.minRow)*m.cols+(col-m.minCol)]
}

// Add accumulates log odds at a cartesian position, growing the
// grid by whole blocks when the position is out of bounds.
func (m *Map) Add(x, y, delta float64) {
	row, col := m.CellIndex(x, y)
	m.ensure(row, col)
	m.cells[(row-m.minRow)*m.cols+(col-m.minCol)] += delta
}

// AddPose appends a pose to the robot's path.
func (m *Map) AddPose(p geom.Pose) {
	m.path = append(m.path, p)
	m.ensure(m.CellIndex(p.X, p.Y))
}

// Path is the recorded robot path, oldest first.
func (m *Map) Path() []geom.Pose { return m.path }

func (m *Map) ensure(row, col int) {
	minRow, maxRow := m.minRow, m.minRow+m.rows
	minCol, maxCol := m.minCol, m.minCol+m.cols
	for row < minRow {
		minRow -= m.perBlock
	}
	for row >= maxRow {
		maxRow += m.perBlock
	}
	for col < minCol {
		minCol -= m.perBlock
	}
	for col >= maxCol {
		maxCol += m.perBlock
	}
	if minRow == m.minRow && maxRow == m.minRow+m.rows &&
		minCol == m.minCol && maxCol == m.minCol+m.cols {
		return
	}
	rows, cols := maxRow-minRow, maxCol-minCol
	cells := make([]float64, rows*cols)
	rowOff, colOff := m.minRow-minRow, m.minCol-minCol
	for r := 0; r < m.rows; r++ {
		src := m.cells[r*m.cols : (r+1)*m.cols]
		dst := cells[(r+rowOff)*cols+colOff:]
		copy(dst[:m.cols], src)
	}
	m.cells = cells
	m.rows, m.cols = rows, cols
	m.minRow, m.minCol = minRow, minCol
}

// ConeCell is a cell inside a view cone.
type ConeCell struct {
	Pos  geom.Pos // cell center
	Dist float64  // distance from the cone apex, cm
}

// Cone lists the cells whose centers fall inside the cone with its
// apex at pose, opening coneAngle around the pose heading, out to
// radius cm. The listed cells need not be allocated yet.
func (m *Map) Cone(pose geom.Pose, coneAngle geom.Angle, radius float64) []ConeCell {
	half := coneAngle.Radians() / 2
	if half < 0 || half > math.Pi {
		return nil
	}
	cs := float64(m.cellSize)
	minRow, minCol := m.CellIndex(pose.X-radius-cs, pose.Y-radius-cs)
	maxRow, maxCol := m.CellIndex(pose.X+radius+cs, pose.Y+radius+cs)

	var cells []ConeCell
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			center := m.CellCenter(row, col)
			rel := center.Sub(pose.Pos)
			dist := rel.Norm()
			if dist > radius {
				continue
			}
			if dist > 0 {
				if diff := rel.Bearing().Sub(pose.Heading).Radians(); diff < -half || diff > half {
					continue
				}
			}
			cells = append(cells, ConeCell{Pos: center, Dist: dist})
		}
	}
	return cells
}

// RangeHit is one entry of the distance/log-odds front returned by
// ClosestInCone.
type RangeHit struct {
	Dist    float64
	LogOdds float64
}

// ClosestInCone scans the cone for likely-occupied cells and returns
// the front of increasing occupancy confidence ordered by distance:
// the first entry is the nearest cell believed occupied, later
// entries are farther cells the map is even more certain about.
// Unknown and free cells are skipped.
func (m *Map) ClosestInCone(pose geom.Pose, coneAngle geom.Angle, radius float64) []RangeHit {
	cells := m.Cone(pose, coneAngle, radius)
	sort.Slice(cells, func(i, j int) bool { return cells[i].Dist < cells[j].Dist })

	var front []RangeHit
	currMax := 0.0
	for _, c := range cells {
		l := m.At(c.Pos.X, c.Pos.Y)
		if l <= currMax {
			continue
		}
		currMax = l
		front = append(front, RangeHit{Dist: c.Dist, LogOdds: l})
	}
	return front
}

// Probability converts log odds to a probability.
func Probability(logOdds float64) float64 {
	return 1 - 1/(1+math.Exp(math.Min(500, logOdds)))
}

// LogOdds converts a probability to log odds.
func LogOdds(p float64) float64 {
	return math.Log(p / (1 - p))
}

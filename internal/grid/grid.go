package grid

import (
	"errors"
	"fmt"
	"sync"
)

// MaxDimension bounds both grid height and width.
const MaxDimension = 6

var (
	ErrInvalidDimensions = errors.New("grid: invalid dimensions")
)

// Cell is either empty (Symbol == 0) or occupied by a mole symbol.
type Cell struct {
	Symbol rune
}

// Occupied returns a cell held by symbol.
func Occupied(symbol rune) Cell {
	return Cell{Symbol: symbol}
}

func (c Cell) Empty() bool {
	return c.Symbol == 0
}

func (c Cell) String() string {
	if c.Empty() {
		return "empty"
	}
	return fmt.Sprintf("occupied(%q)", c.Symbol)
}

// Position addresses one cell.
type Position struct {
	Row int
	Col int
}

// CellView is one entry of a row-major snapshot.
type CellView struct {
	Row  int
	Col  int
	Cell Cell
}

// Grid is the fixed height x width board shared by every mole and the input tracker.
// One mutex guards all cells and is held for a single read or write only.
type Grid struct {
	mu     sync.Mutex
	height int
	width  int
	cells  []rune
}

func New(height, width int) (*Grid, error) {
	if height < 1 || height > MaxDimension || width < 1 || width > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d (each must be in [1,%d])", ErrInvalidDimensions, height, width, MaxDimension)
	}
	return &Grid{
		height: height,
		width:  width,
		cells:  make([]rune, height*width),
	}, nil
}

func (g *Grid) Height() int {
	return g.height
}

func (g *Grid) Width() int {
	return g.width
}

// Size returns the number of cells.
func (g *Grid) Size() int {
	return g.height * g.width
}

// Contains reports whether (row, col) is inside the grid.
func (g *Grid) Contains(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

func (g *Grid) index(row, col int) int {
	return row*g.width + col
}

// TryClaim sets the cell to symbol iff it is currently empty.
func (g *Grid) TryClaim(row, col int, symbol rune) bool {
	if symbol == 0 || !g.Contains(row, col) {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.index(row, col)
	if g.cells[i] != 0 {
		return false
	}
	g.cells[i] = symbol
	return true
}

// Clear empties the cell unconditionally.
func (g *Grid) Clear(row, col int) {
	if !g.Contains(row, col) {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cells[g.index(row, col)] = 0
}

// Peek returns the current state of the cell. Out-of-range cells read as empty.
func (g *Grid) Peek(row, col int) Cell {
	if !g.Contains(row, col) {
		return Cell{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return Cell{Symbol: g.cells[g.index(row, col)]}
}

// Holds reports whether the cell is still occupied by symbol.
func (g *Grid) Holds(row, col int, symbol rune) bool {
	return symbol != 0 && g.Peek(row, col).Symbol == symbol
}

// Vacate clears the cell only if it still holds symbol and reports whether it did.
// A false result means someone else cleared it first.
func (g *Grid) Vacate(row, col int, symbol rune) bool {
	if symbol == 0 || !g.Contains(row, col) {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.index(row, col)
	if g.cells[i] != symbol {
		return false
	}
	g.cells[i] = 0
	return true
}

// ClearMatching empties every cell holding symbol in one critical section and
// returns the cleared positions in row-major order.
func (g *Grid) ClearMatching(symbol rune) []Position {
	if symbol == 0 {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var cleared []Position
	for i, held := range g.cells {
		if held != symbol {
			continue
		}
		g.cells[i] = 0
		cleared = append(cleared, Position{Row: i / g.width, Col: i % g.width})
	}
	return cleared
}

// Snapshot copies every cell in row-major order.
func (g *Grid) Snapshot() []CellView {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]CellView, len(g.cells))
	for i, held := range g.cells {
		out[i] = CellView{Row: i / g.width, Col: i % g.width, Cell: Cell{Symbol: held}}
	}
	return out
}

// Occupied counts non-empty cells.
func (g *Grid) Occupied() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, held := range g.cells {
		if held != 0 {
			n++
		}
	}
	return n
}

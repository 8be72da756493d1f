package entity

const (
	Rows    = 6
	Columns = 7

	// WinLength is the number of consecutive tokens that wins the game.
	WinLength = 4
)

// Token is the content of a single board cell.
type Token byte

const (
	Empty   Token = ' '
	PlayerX Token = 'X'
	PlayerO Token = 'O'
)

func (that Token) String() string {
	return string(that)
}

// Coordinate is a (row, column) pair; row 0 is the top of the board.
type Coordinate struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// NoPlacement is returned when a drop could not be applied.
var NoPlacement = Coordinate{Row: -1, Column: -1}

func (that Coordinate) IsPlaced() bool {
	return that != NoPlacement
}

// Board is a rows x columns grid of tokens. It has no notion of turns.
type Board struct {
	rows    int
	columns int
	cells   [][]Token
}

func NewBoard(rows, columns int) *Board {
	cells := make([][]Token, rows)
	for row := range cells {
		cells[row] = make([]Token, columns)
		for col := range cells[row] {
			cells[row][col] = Empty
		}
	}

	return &Board{
		rows:    rows,
		columns: columns,
		cells:   cells,
	}
}

func (that *Board) Rows() int {
	return that.rows
}

func (that *Board) Columns() int {
	return that.columns
}

// IsOnBoard - checks that the coordinate lies within the grid.
func (that *Board) IsOnBoard(row, col int) bool {
	return row >= 0 && row < that.rows && col >= 0 && col < that.columns
}

// IsOpen - checks that the coordinate is on the board and holds no token.
func (that *Board) IsOpen(row, col int) bool {
	return that.IsOnBoard(row, col) && that.cells[row][col] == Empty
}

// Place overwrites the cell. Callers validate with IsOpen first.
func (that *Board) Place(row, col int, token Token) {
	that.cells[row][col] = token
}

// At returns the token at the coordinate. Callers guard with IsOnBoard.
func (that *Board) At(row, col int) Token {
	return that.cells[row][col]
}

func (that *Board) IsFull() bool {
	for _, line := range that.cells {
		for _, cell := range line {
			if cell == Empty {
				return false
			}
		}
	}

	return true
}

// Filled - counts the non-empty cells.
func (that *Board) Filled() int {
	count := 0
	for _, line := range that.cells {
		for _, cell := range line {
			if cell != Empty {
				count++
			}
		}
	}

	return count
}

// Snapshot returns a copy of the grid that the caller may keep.
func (that *Board) Snapshot() [][]Token {
	snapshot := make([][]Token, that.rows)
	for row := range that.cells {
		snapshot[row] = make([]Token, that.columns)
		copy(snapshot[row], that.cells[row])
	}

	return snapshot
}

// Lines renders the grid as one string per row, used for logs and the session registry.
func (that *Board) Lines() []string {
	lines := make([]string, that.rows)
	for row, line := range that.cells {
		buf := make([]byte, len(line))
		for col, cell := range line {
			buf[col] = byte(cell)
		}
		lines[row] = string(buf)
	}

	return lines
}

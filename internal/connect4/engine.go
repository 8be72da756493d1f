package connect4

import (
	"fmt"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

// ray is a scan direction expressed as a row and column step.
type ray struct {
	dRow int
	dCol int
}

// winRays lists the directions walked from every cell. A line and its mirror are
// both walked, so every line is seen from both ends.
var winRays = []ray{
	{dRow: 1, dCol: 0},   // down
	{dRow: -1, dCol: -1}, // up-left
	{dRow: -1, dCol: 1},  // up-right
	{dRow: 0, dCol: 1},   // right
	{dRow: 0, dCol: -1},  // left
	{dRow: 1, dCol: -1},  // down-left
	{dRow: 1, dCol: 1},   // down-right
}

// Engine is the authoritative state of one game. It is not safe for concurrent
// use; a session owns its engine exclusively.
type Engine struct {
	board *entity.Board

	turn     entity.Side
	current  entity.Token
	lastMove entity.Coordinate
	outcome  entity.Outcome
}

func NewEngine(rows, columns int) *Engine {
	return &Engine{
		board:    entity.NewBoard(rows, columns),
		turn:     entity.SideX,
		current:  entity.Empty,
		lastMove: entity.NoPlacement,
		outcome:  entity.InProgress,
	}
}

// NewStandardEngine - creates an engine with the 6x7 geometry.
func NewStandardEngine() *Engine {
	return NewEngine(entity.Rows, entity.Columns)
}

// DropToken places the side-to-move's token at the lowest open row of the column.
// It returns entity.NoPlacement and mutates nothing when the column is full, out of
// range, or the game is over.
func (that *Engine) DropToken(col int) entity.Coordinate {
	if that.outcome.IsTerminal() {
		return entity.NoPlacement
	}

	that.current = that.turn.Token()

	for row := that.board.Rows() - 1; row >= 0; row-- {
		if that.IsLegalTarget(row, col) {
			that.board.Place(row, col, that.current)
			that.lastMove = entity.Coordinate{Row: row, Column: col}

			return that.lastMove
		}
	}

	return entity.NoPlacement
}

// Play is DropToken with the rejection reason spelled out.
func (that *Engine) Play(col int) (entity.Coordinate, error) {
	if that.outcome.IsTerminal() {
		return entity.NoPlacement, apperror.ErrGameFinished
	}

	if col < 0 || col >= that.board.Columns() {
		return entity.NoPlacement, fmt.Errorf("%w: column %d", apperror.ErrColumnOutOfRange, col)
	}

	coord := that.DropToken(col)
	if !coord.IsPlaced() {
		return entity.NoPlacement, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, col)
	}

	return coord, nil
}

// IsLegalTarget - checks that the cell is on the board and empty.
func (that *Engine) IsLegalTarget(row, col int) bool {
	return that.board.IsOpen(row, col)
}

// EvaluateOutcome scans the board for four tokens of the side that just moved and
// otherwise checks for a full board. Once terminal, the outcome never changes.
func (that *Engine) EvaluateOutcome() entity.Outcome {
	if that.outcome.IsTerminal() {
		return that.outcome
	}

	if that.current != entity.Empty && that.hasLine(that.current) {
		that.outcome = entity.WinFor(that.turn)
		return that.outcome
	}

	if that.board.IsFull() {
		that.outcome = entity.Tie
	}

	return that.outcome
}

func (that *Engine) hasLine(token entity.Token) bool {
	for row := 0; row < that.board.Rows(); row++ {
		for col := 0; col < that.board.Columns(); col++ {
			for _, r := range winRays {
				if that.lineFrom(row, col, r, token) {
					return true
				}
			}
		}
	}

	return false
}

func (that *Engine) lineFrom(row, col int, r ray, token entity.Token) bool {
	last := entity.WinLength - 1
	if !that.board.IsOnBoard(row+last*r.dRow, col+last*r.dCol) {
		return false
	}

	for i := last; i >= 0; i-- {
		if that.board.At(row+i*r.dRow, col+i*r.dCol) != token {
			return false
		}
	}

	return true
}

// AdvanceTurn hands the move to the other side. It is a no-op once the game is over.
func (that *Engine) AdvanceTurn() {
	if that.outcome.IsTerminal() {
		return
	}

	that.turn = that.turn.Other()
}

func (that *Engine) Outcome() entity.Outcome {
	return that.outcome
}

func (that *Engine) Turn() entity.Side {
	return that.turn
}

// CurrentToken is the token of the most recent DropToken call, the one win checks evaluate.
func (that *Engine) CurrentToken() entity.Token {
	return that.current
}

func (that *Engine) LastMove() entity.Coordinate {
	return that.lastMove
}

// Board exposes the grid for read-only use by the heuristic opponent.
func (that *Engine) Board() *entity.Board {
	return that.board
}

func (that *Engine) Snapshot() [][]entity.Token {
	return that.board.Snapshot()
}

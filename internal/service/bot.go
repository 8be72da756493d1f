package service

import (
	"fmt"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

// threatLength is the run of tokens the bot treats as an imminent win.
const threatLength = 3

// GameView is the part of the engine the bot needs to inspect cells.
type GameView interface {
	IsLegalTarget(row, col int) bool
	CurrentToken() entity.Token
}

type BotService interface {
	ProposeMove(last entity.Coordinate, snapshot [][]entity.Token, game GameView) (int, error)
}

type direction struct {
	dRow int
	dCol int
}

// threatDirections is the scan order of the block check; the first threat found wins.
var threatDirections = []direction{
	{dRow: 1, dCol: 0},   // down
	{dRow: -1, dCol: 0},  // up
	{dRow: -1, dCol: -1}, // up-left
	{dRow: -1, dCol: 1},  // up-right
	{dRow: 0, dCol: 1},   // right
	{dRow: 0, dCol: -1},  // left
	{dRow: 1, dCol: 1},   // down-right
	{dRow: 1, dCol: -1},  // down-left
}

// botService is a rule-ordered heuristic: block a three, shift two columns from the
// opponent's last token, stack on it, or take the first empty cell.
type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

func (that *botService) ProposeMove(last entity.Coordinate, snapshot [][]entity.Token, game GameView) (int, error) {
	if col, ok := that.blockingColumn(snapshot, game); ok {
		return col, nil
	}

	row, col := last.Row, last.Column

	for _, shifted := range []int{col - 2, col + 2} {
		if game.IsLegalTarget(row, shifted) {
			return shifted, nil
		}
	}

	if game.IsLegalTarget(row-1, col) {
		return col, nil
	}

	for iterRow := range snapshot {
		for iterCol, cell := range snapshot[iterRow] {
			if cell == entity.Empty {
				return iterCol, nil
			}
		}
	}

	return -1, fmt.Errorf("%w: last move (%d,%d)", apperror.ErrNoAvailableMoves, row, col)
}

// blockingColumn looks for three tokens of the current token in a line whose fourth
// cell is open and returns the column of that cell.
func (that *botService) blockingColumn(snapshot [][]entity.Token, game GameView) (int, bool) {
	token := game.CurrentToken()
	if token == entity.Empty {
		return -1, false
	}

	for row := range snapshot {
		for col := range snapshot[row] {
			for _, d := range threatDirections {
				openRow, openCol := row+threatLength*d.dRow, col+threatLength*d.dCol
				if !game.IsLegalTarget(openRow, openCol) {
					continue
				}

				inARow := 0
				for i := threatLength - 1; i >= 0; i-- {
					if snapshot[row+i*d.dRow][col+i*d.dCol] == token {
						inARow++
					}
				}

				if inARow == threatLength {
					return openCol, true
				}
			}
		}
	}

	return -1, false
}

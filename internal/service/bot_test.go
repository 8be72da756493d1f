package service

import (
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/connect4"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGame answers from a hand-built board; the bot only sees it through GameView.
type fakeGame struct {
	board *entity.Board
	token entity.Token
}

func (that *fakeGame) IsLegalTarget(row, col int) bool {
	return that.board.IsOpen(row, col)
}

func (that *fakeGame) CurrentToken() entity.Token {
	return that.token
}

func newFakeGame(t *testing.T, token entity.Token, rows ...string) *fakeGame {
	t.Helper()

	require.Len(t, rows, entity.Rows)

	board := entity.NewBoard(entity.Rows, entity.Columns)
	for row, line := range rows {
		for col, cell := range line {
			if cell != '.' {
				board.Place(row, col, entity.Token(cell))
			}
		}
	}

	return &fakeGame{board: board, token: token}
}

func TestBotService_ProposeMove(t *testing.T) {
	bot := NewBotService()

	t.Run("Blocks an open three", func(t *testing.T) {
		// Given: X has three in the bottom row with the fourth cell open
		game := newFakeGame(t, entity.PlayerX,
			".......",
			".......",
			".......",
			".......",
			"OO.....",
			"XXX....",
		)

		// When: the bot proposes a move after X played (5,2)
		col, err := bot.ProposeMove(entity.Coordinate{Row: 5, Column: 2}, game.board.Snapshot(), game)

		// Then: it blocks at column 3
		require.NoError(t, err)
		assert.Equal(t, 3, col)
	})

	t.Run("First threat in scan order wins", func(t *testing.T) {
		// Given: a horizontal and a vertical threat at the same time
		game := newFakeGame(t, entity.PlayerX,
			".......",
			".......",
			".......",
			"O.....X",
			"OO....X",
			"XXX...X",
		)

		// When: the bot proposes a move
		col, err := bot.ProposeMove(entity.Coordinate{Row: 3, Column: 6}, game.board.Snapshot(), game)

		// Then: the horizontal threat found first at row 5 is blocked
		require.NoError(t, err)
		assert.Equal(t, 3, col)
	})

	t.Run("Does not react to two in a row", func(t *testing.T) {
		// Given: X has only two in a row
		game := newFakeGame(t, entity.PlayerX,
			".......",
			".......",
			".......",
			".......",
			".......",
			"...XX..",
		)

		// When: the bot proposes a move after X played (5,4)
		col, err := bot.ProposeMove(entity.Coordinate{Row: 5, Column: 4}, game.board.Snapshot(), game)

		// Then: it shifts two columns to the left
		require.NoError(t, err)
		assert.Equal(t, 2, col)
	})

	t.Run("Shifts right when left is off the board", func(t *testing.T) {
		game := newFakeGame(t, entity.PlayerX,
			".......",
			".......",
			".......",
			".......",
			".......",
			"X......",
		)

		col, err := bot.ProposeMove(entity.Coordinate{Row: 5, Column: 0}, game.board.Snapshot(), game)

		require.NoError(t, err)
		assert.Equal(t, 2, col)
	})

	t.Run("Stacks on the last token when both shifts are taken", func(t *testing.T) {
		// Given: both cells two columns away in the same row are occupied
		game := newFakeGame(t, entity.PlayerX,
			".......",
			".......",
			".......",
			".......",
			".......",
			".O.X.O.",
		)

		// When: the bot proposes a move after X played (5,3)
		col, err := bot.ProposeMove(entity.Coordinate{Row: 5, Column: 3}, game.board.Snapshot(), game)

		// Then: it plays on top of X
		require.NoError(t, err)
		assert.Equal(t, 3, col)
	})

	t.Run("Falls back to the first empty cell", func(t *testing.T) {
		// Given: the last token is in the top row with both shifts taken
		game := newFakeGame(t, entity.PlayerX,
			"OO.X.O.",
			"XOXOXOX",
			"OXOXOXO",
			"OXOXOXO",
			"XOXOXOX",
			"XOXOXOX",
		)

		// When: the bot proposes a move after X played (0,3)
		col, err := bot.ProposeMove(entity.Coordinate{Row: 0, Column: 3}, game.board.Snapshot(), game)

		// Then: it takes the first empty cell scanning top-to-bottom, left-to-right
		require.NoError(t, err)
		assert.Equal(t, 2, col)
	})

	t.Run("Returns ErrNoAvailableMoves on a full board", func(t *testing.T) {
		// Given: a full board
		game := newFakeGame(t, entity.PlayerX,
			"XOXOXOX",
			"XOXOXOX",
			"OXOXOXO",
			"OXOXOXO",
			"XOXOXOX",
			"XOXOXOX",
		)

		// When: the bot proposes a move
		_, err := bot.ProposeMove(entity.Coordinate{Row: 0, Column: 0}, game.board.Snapshot(), game)

		// Then: it reports exhaustion
		require.ErrorIs(t, err, apperror.ErrNoAvailableMoves)
	})
}

func TestBotService_ProposeMove_AlwaysPlayable(t *testing.T) {
	bot := NewBotService()

	for seed := int64(1); seed <= 50; seed++ {
		rnd := rand.New(rand.NewSource(seed)) //nolint: gosec // deterministic test playouts
		engine := connect4.NewStandardEngine()

		for engine.Outcome() == entity.InProgress {
			// Given: a random human move
			human := engine.DropToken(rnd.Intn(entity.Columns))
			if !human.IsPlaced() {
				continue
			}
			if engine.EvaluateOutcome().IsTerminal() {
				break
			}
			engine.AdvanceTurn()

			// When: the bot answers
			col, err := bot.ProposeMove(human, engine.Snapshot(), engine)

			// Then: the proposed column still has an open cell
			require.NoError(t, err, "seed %d", seed)
			require.True(t, engine.IsLegalTarget(0, col), "seed %d column %d", seed, col)

			require.True(t, engine.DropToken(col).IsPlaced())
			if engine.EvaluateOutcome().IsTerminal() {
				break
			}
			engine.AdvanceTurn()
		}
	}
}

// Package client speaks the connect4 wire protocol from the player's side. It is
// what a GUI or text console drives; it keeps no board of its own.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/protocol"
)

var ErrUnexpectedCode = errors.New("unexpected code from server")

type Client struct {
	raw  net.Conn
	conn *protocol.Conn
}

func New(conn net.Conn) *Client {
	return &Client{
		raw:  conn,
		conn: protocol.NewConn(conn),
	}
}

func Dial(ctx context.Context, addr string) (*Client, error) {
	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	return New(conn), nil
}

// MoveResult is the server's verdict on a submitted column.
type MoveResult struct {
	Valid      bool
	Coordinate entity.Coordinate
}

// Report is what a player learns after a half-move: the outcome code and, when the
// server sends one, the placement it refers to.
type Report struct {
	Code int32
	Move *entity.Coordinate
}

func (that Report) IsTerminal() bool {
	return that.Code != protocol.NoWin
}

// ChooseOpponent - sends the opponent selector.
func (that *Client) ChooseOpponent(kind int32) error {
	return that.conn.WriteInt(kind)
}

// ReadSide - reads the side assigned in a human-vs-human game.
func (that *Client) ReadSide() (entity.Side, error) {
	code, err := that.conn.ReadInt()
	if err != nil {
		return entity.SideX, err
	}

	switch code {
	case protocol.PlayerX:
		return entity.SideX, nil
	case protocol.PlayerO:
		return entity.SideO, nil
	default:
		return entity.SideX, fmt.Errorf("%w: %d while waiting for a side", ErrUnexpectedCode, code)
	}
}

// ReadTurnStart - waits for the signal that the second player joined.
func (that *Client) ReadTurnStart() error {
	code, err := that.conn.ReadInt()
	if err != nil {
		return err
	}

	if code != protocol.PlayerXTurn {
		return fmt.Errorf("%w: %d while waiting for turn start", ErrUnexpectedCode, code)
	}

	return nil
}

// SubmitColumn - sends a column and reads the verdict.
func (that *Client) SubmitColumn(col int) (MoveResult, error) {
	if err := that.conn.WriteInt(int32(col)); err != nil {
		return MoveResult{}, err
	}

	verdict, err := that.conn.ReadInt()
	if err != nil {
		return MoveResult{}, err
	}

	switch verdict {
	case protocol.Invalid:
		return MoveResult{Valid: false, Coordinate: entity.NoPlacement}, nil
	case protocol.Valid:
		coord, err := that.readCoordinate()
		if err != nil {
			return MoveResult{}, err
		}
		return MoveResult{Valid: true, Coordinate: coord}, nil
	default:
		return MoveResult{}, fmt.Errorf("%w: %d as move verdict", ErrUnexpectedCode, verdict)
	}
}

// ReadOutcome - reads an outcome code that is not followed by a placement, as sent
// to the player whose own move ended the game.
func (that *Client) ReadOutcome() (Report, error) {
	code, err := that.conn.ReadInt()
	if err != nil {
		return Report{}, err
	}

	return Report{Code: code}, nil
}

// ReadOpponentMove - reads the outcome code and the opponent's placement.
// An internal error carries no placement.
func (that *Client) ReadOpponentMove() (Report, error) {
	code, err := that.conn.ReadInt()
	if err != nil {
		return Report{}, err
	}

	if code == protocol.InternalError {
		return Report{Code: code}, nil
	}

	coord, err := that.readCoordinate()
	if err != nil {
		return Report{}, err
	}

	return Report{Code: code, Move: &coord}, nil
}

func (that *Client) SetReadDeadline(deadline time.Time) error {
	return that.raw.SetReadDeadline(deadline)
}

func (that *Client) Close() error {
	return that.conn.Close()
}

func (that *Client) readCoordinate() (entity.Coordinate, error) {
	row, err := that.conn.ReadInt()
	if err != nil {
		return entity.NoPlacement, err
	}

	col, err := that.conn.ReadInt()
	if err != nil {
		return entity.NoPlacement, err
	}

	return entity.Coordinate{Row: int(row), Column: int(col)}, nil
}

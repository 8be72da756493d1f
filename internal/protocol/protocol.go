// Package protocol holds the wire codes and the framing used between the
// connect-four server and its clients. Every message is a big-endian int32.
package protocol

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"net"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

// Wire codes. The values are fixed by existing clients.
const (
	PlayerXTurn      int32 = 1
	PlayerXWon       int32 = 3
	PlayerOWon       int32 = 4
	Tie              int32 = 5
	Rows             int32 = entity.Rows
	Columns          int32 = entity.Columns
	ComputerOpponent int32 = 8
	HumanOpponent    int32 = 9
	PlayerX          int32 = 10
	PlayerO          int32 = 11
	NoWin            int32 = 12
	Valid            int32 = 13
	Invalid          int32 = 14
	InternalError    int32 = 15
)

const intSize = 4

// OutcomeCode maps an engine outcome to its wire code.
func OutcomeCode(outcome entity.Outcome) int32 {
	switch outcome {
	case entity.PlayerXWin:
		return PlayerXWon
	case entity.PlayerOWin:
		return PlayerOWon
	case entity.Tie:
		return Tie
	default:
		return NoWin
	}
}

// SideCode maps a side to the code announcing it.
func SideCode(side entity.Side) int32 {
	if side == entity.SideX {
		return PlayerX
	}
	return PlayerO
}

// Conn frames int32 messages over a stream connection. Reads and writes block
// without deadlines.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader
}

func NewConn(conn net.Conn) *Conn {
	return &Conn{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

// ReadInt - reads one message.
func (that *Conn) ReadInt() (int32, error) {
	var value int32
	if err := binary.Read(that.reader, binary.BigEndian, &value); err != nil {
		return 0, fmt.Errorf("failed to read from %s: %w", that.RemoteAddr(), err)
	}

	return value, nil
}

// WriteInt - writes the values as consecutive messages in a single write.
func (that *Conn) WriteInt(values ...int32) error {
	buf := make([]byte, 0, len(values)*intSize)
	for _, value := range values {
		buf = binary.BigEndian.AppendUint32(buf, uint32(value))
	}

	if _, err := that.conn.Write(buf); err != nil {
		return fmt.Errorf("failed to write to %s: %w", that.RemoteAddr(), err)
	}

	return nil
}

// WriteMove - writes the row and column of a placement.
func (that *Conn) WriteMove(coord entity.Coordinate) error {
	return that.WriteInt(int32(coord.Row), int32(coord.Column))
}

func (that *Conn) RemoteAddr() string {
	if addr := that.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}

func (that *Conn) Close() error {
	return that.conn.Close()
}

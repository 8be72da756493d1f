package socket

import (
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/protocol"
)

// readMove reads columns from the mover until one is legal, answering INVALID to
// every rejected column and VALID plus the placement to the accepted one.
func (that *session) readMove(mover *protocol.Conn) (entity.Coordinate, error) {
	log := that.logger.With("method", "readMove", "side", that.engine.Turn().String())

	for {
		col, err := mover.ReadInt()
		if err != nil {
			return entity.NoPlacement, err
		}

		coord, err := that.engine.Play(int(col))
		if err != nil {
			log.Debug("invalid move", "column", col, "reason", err)

			if err = mover.WriteInt(protocol.Invalid); err != nil {
				return entity.NoPlacement, err
			}
			continue
		}

		if err = mover.WriteInt(protocol.Valid, int32(coord.Row), int32(coord.Column)); err != nil {
			return entity.NoPlacement, err
		}

		return coord, nil
	}
}

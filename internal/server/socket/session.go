package socket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/connect4"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/protocol"
	"github.com/rocketscienceinc/connect4-backend/internal/service"
)

const registryTimeout = 5 * time.Second

// session is one game bound to its connections. Only the goroutine running it
// touches the engine.
type session struct {
	logger *slog.Logger
	repo   sessionRepo
	engine *connect4.Engine
	record *entity.Session
	conns  []*protocol.Conn

	closeOnce sync.Once
}

func newSession(logger *slog.Logger, repo sessionRepo, number int64, kind string, opts Options, conns []*protocol.Conn) *session {
	players := make([]string, 0, len(conns))
	for _, conn := range conns {
		players = append(players, conn.RemoteAddr())
	}

	engine := connect4.NewEngine(opts.Rows, opts.Columns)
	record := entity.NewSession(newSessionID(), number, kind, engine.Board().Lines(), players...)

	return &session{
		logger: logger.With("session_id", record.ID, "session_number", number, "kind", kind),
		repo:   repo,
		engine: engine,
		record: record,
		conns:  conns,
	}
}

// runTwoPlayer alternates between both humans until the game ends.
func (that *session) runTwoPlayer(ctx context.Context, playerX, playerO *protocol.Conn) error {
	if err := playerX.WriteInt(protocol.PlayerXTurn); err != nil {
		return err
	}

	players := map[entity.Side]*protocol.Conn{
		entity.SideX: playerX,
		entity.SideO: playerO,
	}

	for {
		side := that.engine.Turn()
		mover, opponent := players[side], players[side.Other()]

		coord, err := that.readMove(mover)
		if err != nil {
			return err
		}

		outcome := that.engine.EvaluateOutcome()
		that.save(ctx)

		if outcome.IsTerminal() {
			code := protocol.OutcomeCode(outcome)
			if err = mover.WriteInt(code); err != nil {
				return err
			}
			if err = opponent.WriteInt(code, int32(coord.Row), int32(coord.Column)); err != nil {
				return err
			}

			that.logger.Info("game over", "outcome", outcome.String())
			return nil
		}

		if err = opponent.WriteInt(protocol.NoWin, int32(coord.Row), int32(coord.Column)); err != nil {
			return err
		}

		that.engine.AdvanceTurn()
	}
}

// runComputer plays the human as X against the bot as O.
func (that *session) runComputer(ctx context.Context, bot service.BotService, player *protocol.Conn) error {
	for {
		humanMove, err := that.readMove(player)
		if err != nil {
			return err
		}

		outcome := that.engine.EvaluateOutcome()
		that.save(ctx)

		if outcome.IsTerminal() {
			that.logger.Info("game over", "outcome", outcome.String())
			return player.WriteInt(protocol.OutcomeCode(outcome))
		}

		that.engine.AdvanceTurn()

		botMove, err := that.botMove(bot, humanMove)
		if err != nil {
			if writeErr := player.WriteInt(protocol.InternalError); writeErr != nil {
				return errors.Join(err, writeErr)
			}
			return err
		}

		outcome = that.engine.EvaluateOutcome()
		that.save(ctx)

		if err = player.WriteInt(protocol.OutcomeCode(outcome), int32(botMove.Row), int32(botMove.Column)); err != nil {
			return err
		}

		if outcome.IsTerminal() {
			that.logger.Info("game over", "outcome", outcome.String())
			return nil
		}

		that.engine.AdvanceTurn()
	}
}

// botMove applies the bot's answer directly; the bot is trusted to pick a legal column.
func (that *session) botMove(bot service.BotService, humanMove entity.Coordinate) (entity.Coordinate, error) {
	col, err := bot.ProposeMove(humanMove, that.engine.Snapshot(), that.engine)
	if err != nil {
		return entity.NoPlacement, fmt.Errorf("bot failed to propose a move: %w", err)
	}

	coord := that.engine.DropToken(col)
	if !coord.IsPlaced() {
		return entity.NoPlacement, fmt.Errorf("%w: bot proposed column %d", apperror.ErrNoAvailableMoves, col)
	}

	return coord, nil
}

// guard turns a panic in run into an error so it ends only this session.
func (that *session) guard(run func(sess *session) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session panicked: %v", r)
		}
	}()

	return run(that)
}

// finish tears the session down: connections closed, registry record removed.
func (that *session) finish(ctx context.Context, err error) {
	that.closeConns()

	switch {
	case err == nil:
		that.logger.Info("session finished")
	case isDisconnect(err) || ctx.Err() != nil:
		that.logger.Info("session closed", "reason", err)
	default:
		that.logger.Error("session aborted", "error", err)
	}

	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), registryTimeout)
	defer cancel()

	if err = that.repo.DeleteByID(cleanupCtx, that.record.ID); err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
		that.logger.Error("failed to remove session from registry", "error", err)
	}
}

func (that *session) closeConns() {
	that.closeOnce.Do(func() {
		for _, conn := range that.conns {
			_ = conn.Close()
		}
	})
}

// save publishes the current state to the registry. Failures never end the game.
func (that *session) save(ctx context.Context) {
	last := that.engine.LastMove()

	that.record.Board = that.engine.Board().Lines()
	that.record.Turn = that.engine.Turn().String()
	that.record.Outcome = that.engine.Outcome().String()
	that.record.LastMove = &last
	that.record.UpdatedAt = time.Now().UTC()

	saveCtx, cancel := context.WithTimeout(ctx, registryTimeout)
	defer cancel()

	if err := that.repo.CreateOrUpdate(saveCtx, that.record); err != nil {
		that.logger.Error("failed to update session registry", "error", err)
	}
}

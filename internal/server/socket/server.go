package socket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/protocol"
	"github.com/rocketscienceinc/connect4-backend/internal/service"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	DeleteByID(ctx context.Context, id string) error
}

type Options struct {
	Rows    int
	Columns int

	// MaxSessions bounds concurrently running sessions; zero means unbounded.
	MaxSessions int
}

// Server accepts connections, pairs players and runs every game session on its
// own goroutine. The accept loop itself is sequential.
type Server struct {
	logger   *slog.Logger
	sessions sessionRepo
	bot      service.BotService
	opts     Options

	sessionNumber atomic.Int64
	limiter       chan struct{}
	wg            sync.WaitGroup
}

func New(logger *slog.Logger, sessions sessionRepo, bot service.BotService, opts Options) *Server {
	if opts.Rows <= 0 {
		opts.Rows = entity.Rows
	}
	if opts.Columns <= 0 {
		opts.Columns = entity.Columns
	}

	server := &Server{
		logger:   logger.With("component", "socket"),
		sessions: sessions,
		bot:      bot,
		opts:     opts,
	}

	if opts.MaxSessions > 0 {
		server.limiter = make(chan struct{}, opts.MaxSessions)
	}

	return server
}

// Start - listens on the port and serves until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return that.Serve(ctx, listener)
}

// Serve runs the accept loop on listener. After ctx is canceled it closes every
// running session, waits for them and returns nil.
func (that *Server) Serve(ctx context.Context, listener net.Listener) error {
	log := that.logger.With("method", "Serve", "addr", listener.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		_ = listener.Close()
	})
	defer stop()

	log.Info("connect4 server started")

	for {
		player, kind, err := that.acceptPlayer(ctx, listener)
		if err != nil {
			return that.acceptFailed(ctx, err)
		}

		switch kind {
		case protocol.ComputerOpponent:
			that.spawnComputerSession(ctx, player)

		case protocol.HumanOpponent:
			if err = player.WriteInt(protocol.PlayerX); err != nil {
				log.Error("failed to assign side", "remote", player.RemoteAddr(), "error", err)
				_ = player.Close()
				continue
			}

			otherPlayer, err := that.awaitSecondHuman(ctx, listener)
			if err != nil {
				_ = player.Close()
				return that.acceptFailed(ctx, err)
			}

			that.spawnTwoPlayerSession(ctx, player, otherPlayer)
		}
	}
}

// awaitSecondHuman accepts connections until one asks for a human opponent.
// Connections asking for the computer get their own session meanwhile.
func (that *Server) awaitSecondHuman(ctx context.Context, listener net.Listener) (*protocol.Conn, error) {
	log := that.logger.With("method", "awaitSecondHuman")

	for {
		otherPlayer, kind, err := that.acceptPlayer(ctx, listener)
		if err != nil {
			return nil, err
		}

		if kind == protocol.ComputerOpponent {
			that.spawnComputerSession(ctx, otherPlayer)
			continue
		}

		if err = otherPlayer.WriteInt(protocol.PlayerO); err != nil {
			log.Error("failed to assign side", "remote", otherPlayer.RemoteAddr(), "error", err)
			_ = otherPlayer.Close()
			continue
		}

		return otherPlayer, nil
	}
}

// acceptPlayer accepts the next connection that sends a valid opponent selector.
// Connections that fail before that are closed and skipped.
func (that *Server) acceptPlayer(ctx context.Context, listener net.Listener) (*protocol.Conn, int32, error) {
	log := that.logger.With("method", "acceptPlayer")

	for {
		rawConn, err := listener.Accept()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to accept connection: %w", err)
		}

		player := protocol.NewConn(rawConn)
		log.Info("a player joined", "remote", player.RemoteAddr())

		kind, err := readOpponentKind(ctx, player)
		if err != nil {
			log.Error("failed to read opponent kind", "remote", player.RemoteAddr(), "error", err)
			_ = player.Close()
			continue
		}

		return player, kind, nil
	}
}

func (that *Server) acceptFailed(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		that.wg.Wait()
		that.logger.Info("connect4 server stopped")
		return nil
	}

	return err
}

func (that *Server) spawnComputerSession(ctx context.Context, player *protocol.Conn) {
	that.spawn(ctx, entity.KindComputer, []*protocol.Conn{player}, func(sess *session) error {
		return sess.runComputer(ctx, that.bot, player)
	})
}

func (that *Server) spawnTwoPlayerSession(ctx context.Context, playerX, playerO *protocol.Conn) {
	that.spawn(ctx, entity.KindHuman, []*protocol.Conn{playerX, playerO}, func(sess *session) error {
		return sess.runTwoPlayer(ctx, playerX, playerO)
	})
}

// spawn starts a session goroutine bound to conns. The session owns the
// connections from here on and closes them when it ends.
func (that *Server) spawn(ctx context.Context, kind string, conns []*protocol.Conn, run func(sess *session) error) {
	if !that.acquire(ctx) {
		for _, conn := range conns {
			_ = conn.Close()
		}
		return
	}

	sess := newSession(that.logger, that.sessions, that.sessionNumber.Add(1), kind, that.opts, conns)
	sess.logger.Info("starting a session", "players", len(conns))

	that.wg.Add(1)
	go func() {
		defer that.wg.Done()
		defer that.release()

		stop := context.AfterFunc(ctx, sess.closeConns)
		defer stop()

		sess.finish(ctx, sess.guard(run))
	}()
}

func (that *Server) acquire(ctx context.Context) bool {
	if that.limiter == nil {
		return true
	}

	select {
	case that.limiter <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (that *Server) release() {
	if that.limiter != nil {
		<-that.limiter
	}
}

func readOpponentKind(ctx context.Context, player *protocol.Conn) (int32, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = player.Close()
	})
	defer stop()

	kind, err := player.ReadInt()
	if err != nil {
		return 0, err
	}

	if kind != protocol.ComputerOpponent && kind != protocol.HumanOpponent {
		return 0, fmt.Errorf("%w: %d", apperror.ErrUnknownOpponent, kind)
	}

	return kind, nil
}

// isDisconnect reports whether err means a peer went away or the connection was
// closed underneath a read or write.
func isDisconnect(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed)
}

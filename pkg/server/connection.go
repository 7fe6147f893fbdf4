package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/trtpd/trtpd/internal/broadcast"
	"github.com/trtpd/trtpd/internal/handlers"
	"github.com/trtpd/trtpd/internal/logger"
	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/session"
	"github.com/trtpd/trtpd/pkg/bufpool"
)

// Connection drives one accepted TCP socket through the handshake and
// transaction loop described by the protocol engine's connection pipeline.
// It has no public fields beyond what pkg/adapter.ConnectionHandler
// requires; all cooperation with the rest of the server happens through
// the shared *server.State and the session it creates.
type Connection struct {
	conn   net.Conn
	state  *server.State
	config Config
	sess   *session.Session
}

// NewConnection builds a Connection for a freshly accepted socket. The
// session is not registered with state until the handshake and an initial
// user id allocation succeed, in Serve.
func NewConnection(conn net.Conn, state *server.State, config Config) *Connection {
	return &Connection{conn: conn, state: state, config: config}
}

// Serve implements pkg/adapter.ConnectionHandler. It runs the full pipeline
// -- handshake, framed transaction loop, teardown -- and returns once the
// connection is closed for any reason. ctx is the adapter's shutdown
// context; its cancellation unblocks any in-flight read via the deadline
// the adapter already sets on the socket before cancelling.
func (c *Connection) Serve(ctx context.Context) {
	defer c.conn.Close()

	if c.state.Metrics != nil {
		c.state.Metrics.ConnectionOpened()
		defer c.state.Metrics.ConnectionClosed()
	}

	userID := c.state.AllocateUserID()
	c.sess = session.New(userID, c.conn.RemoteAddr())

	if err := c.handshake(); err != nil {
		logger.Debug("TRTP handshake failed", "address", c.conn.RemoteAddr(), logger.Err(err))
		return
	}

	c.state.Register(c.sess)

	c.runLoop(ctx)
	c.teardown()
}

// handshake implements Phase 2: read the 12-byte client greeting, validate
// it, and write the 8-byte reply. On any failure the caller closes the
// socket; no transaction loop is entered.
func (c *Connection) handshake() error {
	if c.config.HandshakeTimeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.config.HandshakeTimeout))
	}

	_, err := trtp.ReadClientHandshake(c.conn)
	if err != nil {
		code := trtp.HandshakeErrorCode(err)
		_, _ = c.conn.Write(trtp.ServerHandshakeReply(code))
		return err
	}

	_ = c.conn.SetReadDeadline(time.Time{})
	if _, err := c.conn.Write(trtp.ServerHandshakeReply(trtp.ErrorCodeNone)); err != nil {
		return err
	}

	c.sess.CompleteHandshake()
	return nil
}

// inboundResult carries either a decoded transaction or the error that
// ended the reader goroutine, so the main select loop never calls a
// blocking read directly.
type inboundResult struct {
	tx  *trtp.Transaction
	err error
}

// runLoop implements Phase 3: the framed two-way select between inbound
// transactions and outbound broadcast events, until an error, EOF, kick, or
// server shutdown ends it.
func (c *Connection) runLoop(ctx context.Context) {
	sub := c.state.Hub.Subscribe()
	defer sub.Unsubscribe()

	reader := bufio.NewReader(c.conn)
	inbound := make(chan inboundResult, 1)
	go c.readLoop(reader, inbound)

	var idleTick <-chan time.Time
	if c.config.IdleTimeout > 0 {
		ticker := time.NewTicker(c.config.IdleTimeout / 2)
		defer ticker.Stop()
		idleTick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-c.sess.Kicked():
			return

		case <-idleTick:
			if c.sess.IdleSince(time.Now()) >= c.config.IdleTimeout {
				logger.Debug("TRTP connection idle timeout", "user_id", c.sess.UserID)
				return
			}

		case in := <-inbound:
			if in.err != nil {
				if !errors.Is(in.err, io.EOF) {
					logger.Debug("TRTP connection read error", "user_id", c.sess.UserID, logger.Err(in.err))
				}
				return
			}
			if !c.handleTransaction(ctx, in.tx) {
				return
			}
			go c.readLoop(reader, inbound)

		case ev, ok := <-sub.Events:
			if !ok {
				return
			}
			if !c.handleEvent(ev) {
				return
			}
			if lag := sub.Lag(); lag > 0 {
				logger.Warn("TRTP connection missed broadcast events",
					"user_id", c.sess.UserID, "count", lag)
			}
		}
	}
}

// readLoop reads exactly one transaction and reports it on out. It is
// launched fresh after every transaction (rather than looping itself) so
// the select in runLoop always has at most one outstanding read and can
// observe a kick or shutdown without waiting for the next frame.
func (c *Connection) readLoop(r *bufio.Reader, out chan<- inboundResult) {
	tx, err := trtp.ReadTransaction(r)
	out <- inboundResult{tx: tx, err: err}
}

// handleTransaction dispatches one inbound transaction, writes its reply
// and any post-reply pushes, and reports whether the loop should continue.
func (c *Connection) handleTransaction(ctx context.Context, tx *trtp.Transaction) bool {
	c.sess.Touch()

	wasAuthenticated := c.sess.IsAuthenticated()
	if c.state.Metrics != nil {
		c.state.Metrics.TransactionHandled(strconv.Itoa(int(tx.Type)))
	}

	known, discarded := trtp.FilterKnown(tx.Fields)
	if len(discarded) > 0 {
		logger.Debug("TRTP discarding unrecognized fields",
			"user_id", c.sess.UserID, logger.RequestID(tx.ID), "field_ids", discarded)
	}
	tx.Fields = known

	result, err := handlers.Dispatch(ctx, c.state, c.sess, tx)
	if err != nil {
		logger.Warn("TRTP handler error",
			"user_id", c.sess.UserID, logger.RequestID(tx.ID), logger.Err(err))
		return true
	}

	if result.Reply != nil {
		if err := c.writeTransaction(result.Reply); err != nil {
			return false
		}
	}
	for _, push := range result.Pushes {
		if err := c.writeTransaction(push); err != nil {
			return false
		}
	}

	if !wasAuthenticated && c.sess.IsAuthenticated() && c.state.Metrics != nil {
		c.state.Metrics.SessionAuthenticated()
	}

	return true
}

// handleEvent converts one broadcast event to wire transactions and sends
// them, reporting whether the loop should continue. A session never
// receives its own UserJoined notification.
func (c *Connection) handleEvent(ev broadcast.Event) bool {
	switch ev.Kind {
	case broadcast.ServerShutdown:
		return false

	case broadcast.UserJoined:
		if ev.UserID == c.sess.UserID {
			return true
		}
		tx := trtp.NewPush(trtp.TypeNotifyChangeUser, trtp.ErrorCodeNone,
			trtp.Field{ID: trtp.FieldUserID, Raw: uint16Bytes(ev.UserID)},
			trtp.Field{ID: trtp.FieldUserName, Raw: []byte(ev.Nickname)},
		)
		return c.writeTransaction(tx) == nil

	case broadcast.UserLeft:
		tx := trtp.NewPush(trtp.TypeNotifyDeleteUser, trtp.ErrorCodeNone,
			trtp.Field{ID: trtp.FieldUserID, Raw: uint16Bytes(ev.UserID)},
		)
		return c.writeTransaction(tx) == nil

	case broadcast.ChatMessage:
		if !c.sess.IsAuthenticated() {
			return true
		}
		tx := trtp.NewPush(trtp.TypeChatMessage, trtp.ErrorCodeNone,
			trtp.Field{ID: trtp.FieldData, Raw: []byte(formatChatLine(ev))},
			trtp.Field{ID: trtp.FieldUserID, Raw: uint16Bytes(ev.SenderID)},
		)
		return c.writeTransaction(tx) == nil

	case broadcast.ServerMessage:
		tx := trtp.NewPush(trtp.TypeServerMessage, trtp.ErrorCodeNone,
			trtp.Field{ID: trtp.FieldData, Raw: ev.Message},
		)
		return c.writeTransaction(tx) == nil

	default:
		return true
	}
}

// formatChatLine reproduces the legacy server's line formatting for chat
// broadcast, exactly as spelled out by the protocol: a leading carriage
// return, the sender's nickname right-aligned to 13 characters, and either
// a ":  " separator or the " *** "-prefixed emote form.
func formatChatLine(ev broadcast.Event) string {
	if ev.Emote {
		return fmt.Sprintf("\r *** %s %s", ev.Nickname, ev.Message)
	}
	return fmt.Sprintf("\r%13s:  %s", ev.Nickname, ev.Message)
}

// writeTransaction encodes and writes tx, borrowing a pooled buffer sized
// to the encoded frame instead of letting every write allocate its own.
func (c *Connection) writeTransaction(tx *trtp.Transaction) error {
	encoded := tx.Encode()
	buf := bufpool.Get(len(encoded))
	defer bufpool.Put(buf)
	copy(buf, encoded)

	_, err := c.conn.Write(buf[:len(encoded)])
	if err != nil {
		logger.Debug("TRTP connection write error", "user_id", c.sess.UserID, logger.Err(err))
	}
	return err
}

// teardown implements Phase 4: remove the session from the registry and,
// if it had completed login, tell every other peer it is gone. Unregister
// returns nil if the session was already removed by a concurrent Kick (which
// publishes its own UserLeft), so this never double-publishes for a kicked
// session.
func (c *Connection) teardown() {
	wasAuthenticated := c.sess.IsAuthenticated()
	sess := c.state.Unregister(c.sess.UserID)
	if sess != nil && wasAuthenticated {
		c.state.Hub.Publish(broadcast.Event{
			Kind:     broadcast.UserLeft,
			UserID:   c.sess.UserID,
			Nickname: c.sess.Nickname,
		})
	}
}

func uint16Bytes(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

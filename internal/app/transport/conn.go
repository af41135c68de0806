/*
Package transport implements the duplex text channel to the chat server over a WebSocket.

A Conn runs two goroutines, as the server side does for each of its clients: a read pump
that hands every inbound text frame to a FrameHandler in delivery order, and a write pump
that drains a buffered send queue. Send only enqueues, so callers never block on the network.
*/
package transport

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"chatlink/internal/pkg/errs"
	"chatlink/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed to wait for a Pong message from the server.
	pongWait = 60 * time.Second

	// frequency at which the client sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// DefaultMaxFrameBytes caps one inbound frame when Options.MaxFrameBytes is not positive.
	// Users frames carry the whole roster, so this is sized for snapshots, not single messages.
	DefaultMaxFrameBytes = 1 << 20

	// DefaultSendQueueSize is used when Options.SendQueueSize is not positive.
	DefaultSendQueueSize = 256
)

// State is the lifecycle stage of a Conn.
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// FrameHandler receives inbound text frames, one at a time, in delivery order.
type FrameHandler func(text string)

// StateHandler is notified of lifecycle changes.
type StateHandler func(State)

// Options configures Dial.
type Options struct {
	// SendQueueSize is the capacity of the outbound queue.
	SendQueueSize int

	// SendRate and SendBurst pace outbound frames. A zero SendRate disables pacing.
	SendRate  rate.Limit
	SendBurst int

	// MaxFrameBytes is the largest inbound frame accepted. A larger frame closes the connection.
	MaxFrameBytes int64

	OnFrame FrameHandler
	OnState StateHandler

	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer
}

// Conn is an open WebSocket channel.
type Conn struct {
	// underlying WebSocket connection object.
	conn *websocket.Conn

	// a buffered channel used to queue frames waiting to be written.
	send chan []byte

	// paces the write pump.
	limiter *rate.Limiter

	readLimit int64

	onFrame FrameHandler
	onState StateHandler

	// ctx is cancelled when the connection shuts down.
	ctx    context.Context
	cancel context.CancelFunc

	// mu protects closed and the closing of send.
	mu     sync.RWMutex
	closed bool

	// done is closed when the read pump has exited.
	done chan struct{}

	logger zerolog.Logger
}

// Dial connects to url and starts the read and write pumps.
func Dial(ctx context.Context, url string, opts Options) (*Conn, error) {
	logger := logx.Component("transport").With().Str("url", url).Logger()

	notify := opts.OnState
	if notify == nil {
		notify = func(State) {}
	}
	notify(StateConnecting)

	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	wsConn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to chat server.")
		notify(StateClosed)
		return nil, errs.Wrap(errs.ErrChannelNotReady, err)
	}

	queueSize := opts.SendQueueSize
	if queueSize <= 0 {
		queueSize = DefaultSendQueueSize
	}

	limit, burst := opts.SendRate, opts.SendBurst
	if limit <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}

	readLimit := opts.MaxFrameBytes
	if readLimit <= 0 {
		readLimit = DefaultMaxFrameBytes
	}

	onFrame := opts.OnFrame
	if onFrame == nil {
		onFrame = func(string) {}
	}

	pumpCtx, cancel := context.WithCancel(context.Background())

	c := &Conn{
		conn:      wsConn,
		send:      make(chan []byte, queueSize),
		limiter:   rate.NewLimiter(limit, burst),
		readLimit: readLimit,
		onFrame:   onFrame,
		onState:   notify,
		ctx:       pumpCtx,
		cancel:    cancel,
		done:      make(chan struct{}),
		logger:    logger,
	}

	logger.Info().Msg("Connected to chat server.")
	notify(StateOpen)

	go c.writePump()
	go c.readPump()

	return c, nil
}

// Send enqueues text for transmission and returns immediately.
func (c *Conn) Send(text string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return errs.NewError(errs.ErrChannelClosed)
	}

	select {
	case c.send <- []byte(text):
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Send queue full, dropping frame")
		return errs.NewError(errs.ErrSendQueueFull)
	}
}

// Close stops accepting frames and asks the write pump to send a close frame.
// It is safe to call more than once.
func (c *Conn) Close() {
	c.shutdown()
}

// Done is closed once the connection has fully stopped reading.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// shutdown marks the connection closed and releases the write pump.
func (c *Conn) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	c.cancel()
}

// readPump delivers inbound frames until the connection fails or closes.
func (c *Conn) readPump() {
	defer func() {
		c.shutdown()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in readPump")
		}

		c.logger.Info().Msg("Disconnected from chat server.")
		c.onState(StateClosed)
		close(c.done)
	}()

	c.conn.SetReadLimit(c.readLimit)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn().Err(err).Msg("Unexpected close while reading")
			}
			return
		}

		if messageType != websocket.TextMessage {
			c.logger.Warn().Int("ws_message_type", messageType).Msg("Ignoring non-text frame")
			continue
		}

		c.onFrame(string(messageBytes))
	}
}

// writePump writes queued frames and periodic pings until the queue is closed or a write fails.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the read pump observes the failure
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one frame from the queue, or a close frame when the queue is closed.
// Returns true if the writePump loop should continue, false if it should terminate.
func (c *Conn) writeQueuedMessage(message []byte, ok bool) bool {
	if !ok {
		c.writeCloseMessage()
		return false
	}

	if err := c.limiter.Wait(c.ctx); err != nil {
		c.writeCloseMessage()
		return false
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

func (c *Conn) writeCloseMessage() {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on close")
		return
	}

	closeMessage := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
		c.logger.Debug().Err(err).Msg("Error writing close message")
	}
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the writePump loop should terminate due to write failure.
func (c *Conn) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

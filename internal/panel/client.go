package panel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrNotConnected is returned by command methods while the session to
// the base unit is down.
var ErrNotConnected = errors.New("panel: not connected")

var _ Driver = (*Client)(nil)

const (
	dialTimeout       = 10 * time.Second
	reconnectInterval = 30 * time.Second
)

// Client manages the TCP session to the base unit's network interface:
// connection lifecycle with reconnect, command writes, and reporting of
// the is_connected property on the bus. It deliberately does not decode
// the panel's notification wire format; it only derives session health
// from inbound traffic.
type Client struct {
	addr     string
	password string
	logger   *slog.Logger
	bus      *Bus

	mu      sync.Mutex
	conn    net.Conn
	stopped bool
	done    chan struct{}
}

// NewClient creates a client for the base unit at host:port. The
// password, when non-empty, is appended to every command frame.
func NewClient(host string, port int, password string, logger *slog.Logger) *Client {
	return &Client{
		addr:     fmt.Sprintf("%s:%d", host, port),
		password: password,
		logger:   logger.With("component", "panel"),
		bus:      NewBus(logger),
		done:     make(chan struct{}),
	}
}

// Events returns the listener registry.
func (c *Client) Events() *Bus {
	return c.bus
}

// Start dials the base unit and begins the session loop. The first
// connection attempt is made synchronously so misconfiguration fails
// fast; later drops reconnect in the background.
func (c *Client) Start() error {
	conn, err := net.DialTimeout("tcp", c.addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("dial base unit %s: %w", c.addr, err)
	}
	c.setConn(conn)
	go c.sessionLoop(conn)
	return nil
}

// Stop closes the session and stops reconnecting.
func (c *Client) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	conn := c.conn
	c.conn = nil
	close(c.done)
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (c *Client) setConn(conn net.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.logger.Info("base unit connected", "addr", c.addr)
	c.bus.EmitPropertiesChanged([]PropertyChange{{Name: PropIsConnected, Value: true}})
}

func (c *Client) clearConn() {
	c.mu.Lock()
	c.conn = nil
	c.mu.Unlock()
	c.bus.EmitPropertiesChanged([]PropertyChange{{Name: PropIsConnected, Value: false}})
}

// sessionLoop reads frames until the connection drops, then retries.
func (c *Client) sessionLoop(conn net.Conn) {
	for {
		c.readFrames(conn)
		c.clearConn()

		select {
		case <-c.done:
			return
		default:
		}
		c.logger.Warn("base unit connection lost; reconnecting",
			"addr", c.addr, "retry_in", reconnectInterval)

		var err error
		conn, err = c.redial()
		if err != nil {
			return
		}
		c.setConn(conn)
	}
}

func (c *Client) redial() (net.Conn, error) {
	for {
		select {
		case <-c.done:
			return nil, ErrNotConnected
		case <-time.After(reconnectInterval):
		}
		conn, err := net.DialTimeout("tcp", c.addr, dialTimeout)
		if err == nil {
			return conn, nil
		}
		c.logger.Warn("base unit reconnect failed", "addr", c.addr, "err", err)
	}
}

// readFrames consumes '&'-terminated frames. Frames are surfaced at
// debug level only; decoding them is the enrollment/protocol layer's
// concern, not the session manager's.
func (c *Client) readFrames(conn net.Conn) {
	reader := bufio.NewReader(conn)
	for {
		frame, err := reader.ReadString('&')
		if err != nil {
			return
		}
		frame = strings.TrimSpace(frame)
		if frame != "" {
			c.logger.Debug("frame received", "frame", frame)
		}
	}
}

// writeCommand frames and sends one command body, honoring the context
// deadline as the write deadline.
func (c *Client) writeCommand(ctx context.Context, body string) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetWriteDeadline(deadline); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}
	frame := "!" + body + c.password + "&"
	if _, err := conn.Write([]byte(frame)); err != nil {
		return fmt.Errorf("write command %q: %w", body, err)
	}
	return nil
}

// ClearStatus clears the alarm/warning LEDs and stops the siren.
func (c *Client) ClearStatus(ctx context.Context) error {
	return c.writeCommand(ctx, "l5")
}

// SetDateTime sets the base unit's remote clock.
func (c *Client) SetDateTime(ctx context.Context, t time.Time) error {
	return c.writeCommand(ctx, "dt"+t.Format("0601021504"))
}

// SetOperationMode arms or disarms the base unit.
func (c *Client) SetOperationMode(ctx context.Context, mode OperationMode) error {
	return c.writeCommand(ctx, fmt.Sprintf("n0%x", uint8(mode)))
}

// SetSwitchState turns an appliance switch on or off.
func (c *Client) SetSwitchState(ctx context.Context, sw SwitchNumber, on bool) error {
	state := 0
	if on {
		state = 1
	}
	return c.writeCommand(ctx, fmt.Sprintf("s%x%d", uint8(sw), state))
}

// Package marketdata supplies live market conditions from a websocket
// ticker feed. The simulator itself never does I/O; this client is the
// collaborator that refreshes BTC price and network difficulty before a
// run is seeded.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Ticker is one feed update. Zero fields mean "unchanged".
type Ticker struct {
	BTCPriceUSD float64 `json:"btc_price_usd"`
	Difficulty  float64 `json:"difficulty"`
	BlockReward float64 `json:"block_reward"`
}

// ClientConfig configures websocket client behavior.
type ClientConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing control frames.
	WriteTimeout time.Duration
}

// DefaultClientConfig returns default websocket configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// Client consumes a ticker feed over websocket with automatic reconnect.
type Client struct {
	endpoint string
	config   ClientConfig
	log      *logrus.Entry

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	updates chan Ticker
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewClient creates a ticker client and connects to the endpoint.
func NewClient(ctx context.Context, endpoint string, config *ClientConfig, log *logrus.Logger) (*Client, error) {
	cfg := DefaultClientConfig()
	if config != nil {
		cfg = *config
	}
	if log == nil {
		log = logrus.New()
	}

	c := &Client{
		endpoint: endpoint,
		config:   cfg,
		log:      log.WithField("component", "marketdata"),
		updates:  make(chan Ticker, 16),
		done:     make(chan struct{}),
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	c.wg.Add(1)
	go c.readLoop()

	c.wg.Add(1)
	go c.pingLoop()

	return c, nil
}

// Updates returns the channel of feed updates. Closed when the client is.
func (c *Client) Updates() <-chan Ticker {
	return c.updates
}

// Close shuts the client down and closes the updates channel.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.wg.Wait()
	close(c.updates)
	return nil
}

// connect establishes the websocket connection.
func (c *Client) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.conn = conn
	return nil
}

// readLoop reads feed messages and reconnects with backoff on failure.
func (c *Client) readLoop() {
	defer c.wg.Done()

	delay := c.config.ReconnectDelay
	for {
		select {
		case <-c.done:
			return
		default:
		}

		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}
			c.log.WithError(err).Warn("feed read failed, reconnecting")
			if !c.reconnect(&delay) {
				return
			}
			continue
		}
		delay = c.config.ReconnectDelay

		var tick Ticker
		if err := json.Unmarshal(msg, &tick); err != nil {
			c.log.WithError(err).Debug("skipping malformed feed message")
			continue
		}

		select {
		case c.updates <- tick:
		case <-c.done:
			return
		default:
			// Drop the oldest update; only the latest state matters.
			select {
			case <-c.updates:
			default:
			}
			c.updates <- tick
		}
	}
}

// reconnect redials with exponential backoff. Returns false on shutdown.
func (c *Client) reconnect(delay *time.Duration) bool {
	for {
		select {
		case <-c.done:
			return false
		case <-time.After(*delay):
		}

		if *delay < c.config.MaxReconnectDelay {
			*delay *= 2
			if *delay > c.config.MaxReconnectDelay {
				*delay = c.config.MaxReconnectDelay
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := c.connect(ctx)
		cancel()
		if err == nil {
			c.log.Info("feed reconnected")
			return true
		}
		c.log.WithError(err).Warn("feed reconnect failed")
	}
}

// pingLoop keeps the connection alive.
func (c *Client) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			conn := c.conn
			c.connMu.Unlock()
			deadline := time.Now().Add(c.config.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil && !c.closed.Load() {
				c.log.WithError(err).Debug("ping failed")
			}
		}
	}
}

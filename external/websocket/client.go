package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/tsuyaku/internal/protocol"
	gws "github.com/gorilla/websocket"
)

const closeWriteTimeout = time.Second

// Client is the capture side of the channel. It does not reconnect.
type Client struct {
	conn *gws.Conn
	mu   sync.Mutex
}

func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := gws.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	slog.Info("connected to translation server", "url", url)
	return &Client{conn: conn}, nil
}

// Send writes v as one JSON text frame. The context deadline, if any, bounds the write.
func (c *Client) Send(ctx context.Context, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline, _ := ctx.Deadline()
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Listen delivers every parsed server message to fn until the connection fails or ctx is done.
// It returns the terminal error; connection loss is not retried.
func (c *Client) Listen(ctx context.Context, fn func(protocol.Message)) error {
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.Close()
	})
	defer stop()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		msg, err := protocol.Parse(raw)
		if err != nil {
			slog.Warn("ignoring malformed server message", "error", err)
			continue
		}
		fn(msg)
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteControl(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseNormalClosure, ""), time.Now().Add(closeWriteTimeout))
	return c.conn.Close()
}

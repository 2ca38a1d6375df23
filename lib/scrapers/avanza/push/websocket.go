package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const DefaultUrl = "wss://www.avanza.se/_push/cometd"

// Channel is a bidirectional, message oriented transport to the push
// endpoint.
type Channel interface {
	Send(ctx context.Context, frame []byte) error
	// Receive blocks until the next frame arrives or ctx is done.
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

type DialOptions struct {
	Header           http.Header
	Jar              http.CookieJar
	Proxy            func(*http.Request) (*url.URL, error)
	HandshakeTimeout time.Duration
	// defaults to slog.Default()
	Logger *slog.Logger
}

// WebsocketChannel is a Channel over a gorilla websocket connection. gorilla
// allows one concurrent reader and one concurrent writer, so each direction
// has its own lock.
type WebsocketChannel struct {
	conn      *websocket.Conn
	logger    *slog.Logger
	readLock  sync.Mutex
	writeLock sync.Mutex
}

func Dial(ctx context.Context, endpoint string, opts DialOptions) (*WebsocketChannel, error) {
	ctx, span := tracer.Start(ctx, "push:Dial")
	defer span.End()

	dialer := websocket.Dialer{
		Proxy:            opts.Proxy,
		Jar:              opts.Jar,
		HandshakeTimeout: opts.HandshakeTimeout,
	}
	if dialer.HandshakeTimeout == 0 {
		dialer.HandshakeTimeout = 30 * time.Second
	}

	header := http.Header{}
	for key, values := range opts.Header {
		// set by the dialer itself
		if websocketManagedHeader(key) {
			continue
		}
		header[key] = values
	}

	conn, res, err := dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if res != nil {
			return nil, fmt.Errorf("dial %s: status %d: %w", endpoint, res.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WebsocketChannel{conn: conn, logger: logger}, nil
}

func websocketManagedHeader(key string) bool {
	switch http.CanonicalHeaderKey(key) {
	case "Upgrade", "Connection", "Sec-Websocket-Key", "Sec-Websocket-Version",
		"Sec-Websocket-Extensions", "Sec-Websocket-Protocol":
		return true
	}
	return false
}

func (c *WebsocketChannel) Send(ctx context.Context, frame []byte) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()

	deadline, _ := ctx.Deadline()
	err := c.conn.SetWriteDeadline(deadline)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

func (c *WebsocketChannel) Receive(ctx context.Context) ([]byte, error) {
	c.readLock.Lock()
	defer c.readLock.Unlock()

	deadline, _ := ctx.Deadline()
	err := c.conn.SetReadDeadline(deadline)
	if err != nil {
		return nil, err
	}
	// unblock the read when ctx is cancelled
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, errors.Join(ErrChannelClosed, err)
			}
			return nil, err
		}
		if mt == websocket.TextMessage {
			return data, nil
		}
	}
}

func (c *WebsocketChannel) Close() error {
	c.writeLock.Lock()
	err := c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.writeLock.Unlock()
	if err != nil {
		c.logger.Debug("failed to send close frame", "err", err)
	}
	return c.conn.Close()
}

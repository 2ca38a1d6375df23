package push

import (
	"avanza-scraper/lib/scrapers/avanza/core"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrChannelClosed = errors.New("push channel is closed")
	ErrNoClientId    = errors.New("handshake response carried no client id")
	ErrEmptyResponse = errors.New("push endpoint answered with no frames")
)

// FrameError is a response frame with successful set to false.
type FrameError struct {
	Channel string
	Reason  string
}

func (e *FrameError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s failed", e.Channel)
	}
	return fmt.Sprintf("%s failed: %s", e.Channel, e.Reason)
}

type State int

const (
	Unconnected State = iota
	TokenFetched
	Handshaking
	Connected
)

func (s State) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case TokenFetched:
		return "token_fetched"
	case Handshaking:
		return "handshaking"
	case Connected:
		return "connected"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Client speaks the Bayeux handshake/connect exchange over an already open
// Channel. a Client is not safe for concurrent use, frames are sent and
// answered one at a time.
type Client struct {
	tokens  TokenSource
	channel Channel
	logger  *slog.Logger

	state    State
	token    string
	clientId string
	nextId   MessageId
}

func NewClient(tokens TokenSource, channel Channel, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		tokens:  tokens,
		channel: channel,
		logger:  logger,
	}
}

type OpenOptions struct {
	// defaults to DefaultUrl
	Url string
	// overrides the token scraped from the overview page
	Token TokenSource
}

// Open dials the push endpoint with the session's headers, cookies and
// proxy and returns a Client for it. credentials are required.
func Open(ctx context.Context, session *core.Client, opts OpenOptions) (*Client, error) {
	ctx, span := tracer.Start(ctx, "push:Open")
	defer span.End()

	if err := session.RequireAuth(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	endpoint := opts.Url
	if endpoint == "" {
		endpoint = DefaultUrl
	}
	channel, err := Dial(ctx, endpoint, DialOptions{
		Header: session.Http.Header,
		Jar:    session.Cookies(),
		Proxy:  session.Proxy(),
		Logger: session.Logger,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	tokens := opts.Token
	if tokens == nil {
		tokens = PageTokenSource{Core: session}
	}
	session.Logger.InfoContext(ctx, "push channel open", "url", endpoint)
	return NewClient(tokens, channel, session.Logger), nil
}

func (c *Client) State() State {
	return c.state
}

func (c *Client) ClientId() string {
	return c.clientId
}

// NextId is the id the next sent frame will carry.
func (c *Client) NextId() MessageId {
	return c.nextId
}

// Token returns the subscription token, fetching it once per channel.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.token != "" {
		return c.token, nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	if c.state < TokenFetched {
		c.state = TokenFetched
	}
	return token, nil
}

// Handshake presents the token and returns the client id assigned by the
// server, a repeated call returns the cached id.
func (c *Client) Handshake(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "push:Handshake")
	defer span.End()

	if c.channel == nil {
		return "", ErrChannelClosed
	}
	if c.clientId != "" {
		return c.clientId, nil
	}

	token, err := c.Token(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	replies, err := c.SendFrame(ctx, handshakeMessage(token))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	clientId := replies[0].ClientId
	if clientId == "" {
		span.SetStatus(codes.Error, ErrNoClientId.Error())
		return "", ErrNoClientId
	}

	c.clientId = clientId
	c.state = Handshaking
	c.logger.DebugContext(ctx, "push handshake done", "client_id", clientId)
	return clientId, nil
}

// Connect handshakes when that has not happened yet and then sends the
// connect frame, it returns the server's reply.
func (c *Client) Connect(ctx context.Context) ([]Message, error) {
	ctx, span := tracer.Start(ctx, "push:Connect")
	defer span.End()

	clientId, err := c.Handshake(ctx)
	if err != nil {
		return nil, err
	}
	replies, err := c.SendFrame(ctx, connectMessage(clientId))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	c.state = Connected
	c.logger.DebugContext(ctx, "push channel connected", "client_id", clientId)
	return replies, nil
}

// Subscribe asks for updates on a topic, e.g. /quotes/5269.
func (c *Client) Subscribe(ctx context.Context, subscription string) error {
	ctx, span := tracer.Start(ctx, "push:Subscribe")
	defer span.End()
	span.SetAttributes(attribute.String("subscription", subscription))

	if c.state != Connected {
		_, err := c.Connect(ctx)
		if err != nil {
			return err
		}
	}
	_, err := c.SendFrame(ctx, subscribeMessage(c.clientId, subscription))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// SendFrame stamps msg with the next id, sends it as a single element array
// and waits for exactly one response frame.
func (c *Client) SendFrame(ctx context.Context, msg Message) ([]Message, error) {
	if c.channel == nil {
		return nil, ErrChannelClosed
	}

	msg.Id = c.nextId
	frame, err := json.Marshal([]Message{msg})
	if err != nil {
		return nil, err
	}
	err = c.channel.Send(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", msg.Channel, err)
	}
	c.nextId++
	c.logger.DebugContext(ctx, "push frame sent", "channel", msg.Channel, "id", int64(msg.Id))

	replies, err := c.Receive(ctx)
	if err != nil {
		return nil, fmt.Errorf("receive %s: %w", msg.Channel, err)
	}
	if len(replies) == 0 {
		return nil, ErrEmptyResponse
	}
	for _, reply := range replies {
		if reply.Successful != nil && !*reply.Successful {
			channel := reply.Channel
			if channel == "" {
				channel = msg.Channel
			}
			return replies, &FrameError{Channel: channel, Reason: reply.Error}
		}
	}
	return replies, nil
}

// Receive reads the next frame off the channel.
func (c *Client) Receive(ctx context.Context) ([]Message, error) {
	if c.channel == nil {
		return nil, ErrChannelClosed
	}
	data, err := c.channel.Receive(ctx)
	if err != nil {
		return nil, err
	}

	var replies []Message
	err = json.Unmarshal(data, &replies)
	if err != nil {
		// some servers answer with a bare object
		var single Message
		if json.Unmarshal(data, &single) != nil {
			return nil, fmt.Errorf("decode push frame: %w", err)
		}
		replies = []Message{single}
	}
	return replies, nil
}

// Close disconnects (best effort) and closes the channel, the client goes
// back to Unconnected and cannot be reused.
func (c *Client) Close(ctx context.Context) error {
	if c.channel == nil {
		return nil
	}
	if c.state == Connected {
		msg := disconnectMessage(c.clientId)
		msg.Id = c.nextId
		frame, err := json.Marshal([]Message{msg})
		if err == nil && c.channel.Send(ctx, frame) == nil {
			c.nextId++
		}
	}

	err := c.channel.Close()
	c.channel = nil
	c.state = Unconnected
	c.token = ""
	c.clientId = ""
	return err
}

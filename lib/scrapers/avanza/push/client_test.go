package push

import (
	"avanza-scraper/lib/scrapers/avanza/core"
	"avanza-scraper/lib/testutil"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeChannel answers every sent frame with respond(frame), queued for the
// next Receive.
type fakeChannel struct {
	respond func(frame []byte) []byte
	sent    [][]byte
	pending [][]byte
	closed  bool
}

func (c *fakeChannel) Send(ctx context.Context, frame []byte) error {
	if c.closed {
		return ErrChannelClosed
	}
	c.sent = append(c.sent, frame)
	if reply := c.respond(frame); reply != nil {
		c.pending = append(c.pending, reply)
	}
	return nil
}

func (c *fakeChannel) Receive(ctx context.Context) ([]byte, error) {
	if len(c.pending) == 0 {
		return nil, errors.New("nothing to receive")
	}
	frame := c.pending[0]
	c.pending = c.pending[1:]
	return frame, nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func reply(body string) func([]byte) []byte {
	return func([]byte) []byte {
		return []byte(body)
	}
}

type countingTokens struct {
	token string
	calls int
}

func (s *countingTokens) Token(ctx context.Context) (string, error) {
	s.calls++
	return s.token, nil
}

func TestHandshake(t *testing.T) {
	ch := &fakeChannel{respond: reply(`[{"clientId":"abc"}]`)}
	client := NewClient(StaticToken("tok"), ch, nil)
	require.Equal(t, Unconnected, client.State())

	clientId, err := client.Handshake(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc", clientId)
	require.Equal(t, Handshaking, client.State())

	require.Len(t, ch.sent, 1)
	require.JSONEq(t, `[{
		"id": 0,
		"channel": "/meta/handshake",
		"advice": {"timeout": 60000, "interval": 0},
		"ext": {"subscriptionId": "tok"},
		"version": "1.0",
		"minimumVersion": "1.0",
		"supportedConnectionTypes": ["websocket", "long-polling", "callback-polling"]
	}]`, string(ch.sent[0]))

	// cached, nothing more is sent
	clientId, err = client.Handshake(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc", clientId)
	require.Len(t, ch.sent, 1)
}

func TestConnectIncrementsIds(t *testing.T) {
	ch := &fakeChannel{respond: reply(`[{"clientId":"abc","successful":true}]`)}
	client := NewClient(StaticToken("tok"), ch, nil)

	_, err := client.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, Connected, client.State())
	require.Equal(t, MessageId(2), client.NextId())

	require.Len(t, ch.sent, 2)
	var handshake []Message
	require.NoError(t, json.Unmarshal(ch.sent[0], &handshake))
	require.Equal(t, MessageId(0), handshake[0].Id)

	require.JSONEq(t, `[{
		"id": 1,
		"channel": "/meta/connect",
		"clientId": "abc",
		"advice": {"timeout": 0},
		"connectionType": "websocket"
	}]`, string(ch.sent[1]))

	err = client.Subscribe(context.Background(), "/quotes/5269")
	require.NoError(t, err)
	require.JSONEq(t, `[{
		"id": 2,
		"channel": "/meta/subscribe",
		"clientId": "abc",
		"subscription": "/quotes/5269"
	}]`, string(ch.sent[2]))
}

func TestTokenFetchedOnce(t *testing.T) {
	tokens := &countingTokens{token: "tok"}
	client := NewClient(tokens, &fakeChannel{respond: reply(`[{}]`)}, nil)

	for range 3 {
		token, err := client.Token(context.Background())
		require.NoError(t, err)
		require.Equal(t, "tok", token)
	}
	require.Equal(t, 1, tokens.calls)
	require.Equal(t, TokenFetched, client.State())
}

func TestHandshakeWithoutClientId(t *testing.T) {
	ch := &fakeChannel{respond: reply(`[{"channel":"/meta/handshake"}]`)}
	client := NewClient(StaticToken("tok"), ch, nil)

	_, err := client.Handshake(context.Background())
	require.ErrorIs(t, err, ErrNoClientId)
	require.Equal(t, TokenFetched, client.State())
	require.Empty(t, client.ClientId())
}

func TestHandshakeRejected(t *testing.T) {
	ch := &fakeChannel{respond: reply(
		`[{"id":"0","channel":"/meta/handshake","successful":false,"error":"403::bad token"}]`,
	)}
	client := NewClient(StaticToken("tok"), ch, nil)

	_, err := client.Handshake(context.Background())
	var frameErr *FrameError
	require.True(t, errors.As(err, &frameErr), "expected FrameError, got %v", err)
	require.Equal(t, "/meta/handshake", frameErr.Channel)
	require.Equal(t, "403::bad token", frameErr.Reason)
}

func TestHandshakeWithoutToken(t *testing.T) {
	ch := &fakeChannel{respond: reply(`[{"clientId":"abc"}]`)}
	client := NewClient(StaticToken(""), ch, nil)

	_, err := client.Handshake(context.Background())
	require.ErrorIs(t, err, ErrNoToken)
	require.Empty(t, ch.sent)
	require.Equal(t, MessageId(0), client.NextId())
}

func TestClose(t *testing.T) {
	ch := &fakeChannel{respond: reply(`[{"clientId":"abc"}]`)}
	client := NewClient(StaticToken("tok"), ch, nil)

	_, err := client.Connect(context.Background())
	require.NoError(t, err)

	err = client.Close(context.Background())
	require.NoError(t, err)
	require.True(t, ch.closed)
	require.Equal(t, Unconnected, client.State())

	require.Len(t, ch.sent, 3)
	var disconnect []Message
	require.NoError(t, json.Unmarshal(ch.sent[2], &disconnect))
	require.Equal(t, MetaDisconnect, disconnect[0].Channel)
	require.Equal(t, MessageId(2), disconnect[0].Id)

	_, err = client.Handshake(context.Background())
	require.ErrorIs(t, err, ErrChannelClosed)
	_, err = client.Receive(context.Background())
	require.ErrorIs(t, err, ErrChannelClosed)
}

func TestMessageIdDecoding(t *testing.T) {
	cases := []struct {
		raw      string
		expected MessageId
	}{
		{`{"id":7}`, 7},
		{`{"id":"12"}`, 12},
		{`{"id":"not-a-number"}`, 0},
	}
	for _, c := range cases {
		var msg Message
		require.NoError(t, json.Unmarshal([]byte(c.raw), &msg), c.raw)
		require.Equal(t, c.expected, msg.Id, c.raw)
	}
}

func TestReceiveBareObject(t *testing.T) {
	ch := &fakeChannel{pending: [][]byte{[]byte(`{"channel":"/quotes/5269","data":{"lastPrice":1}}`)}}
	client := NewClient(StaticToken("tok"), ch, nil)

	messages, err := client.Receive(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "/quotes/5269", messages[0].Channel)
	require.JSONEq(t, `{"lastPrice":1}`, string(messages[0].Data))
}

const overviewWithToken = `<html><body>
<div class="loginWrapper" data-push_subscriptionid="sub-123"></div>
</body></html>`

func TestOpenRequiresCredentials(t *testing.T) {
	endpoint := testutil.NewPushEndpoint(t, reply(`[{"clientId":"abc"}]`))

	session, err := core.NewClient(context.Background(), core.ClientOptions{
		BaseUrl: "http://avanza.invalid",
	})
	require.NoError(t, err)

	_, err = Open(context.Background(), session, OpenOptions{Url: endpoint.URL()})
	require.ErrorIs(t, err, core.ErrAuthenticationRequired)
	require.Nil(t, endpoint.Headers(), "nothing should have been dialed")
}

func TestOpenOverWebsocket(t *testing.T) {
	site, cleanup := testutil.SetupSite(t, testutil.SiteParams{
		Name:     "scrapers/avanza/push",
		Username: "alice",
		Password: "hunter2",
		Pages: map[string]string{
			core.HomePage: overviewWithToken,
		},
	})
	defer cleanup()

	endpoint := testutil.NewPushEndpoint(t, func(frame []byte) []byte {
		var messages []Message
		if json.Unmarshal(frame, &messages) != nil || len(messages) == 0 {
			return nil
		}
		out, _ := json.Marshal([]map[string]any{{
			"id":         messages[0].Id,
			"channel":    messages[0].Channel,
			"clientId":   "abc",
			"successful": true,
		}})
		return out
	})

	ctx := context.Background()
	session, err := core.NewClient(ctx, core.ClientOptions{
		BaseUrl:  site.URL(),
		Username: "alice",
		Password: "hunter2",
	})
	require.NoError(t, err)
	require.NoError(t, session.Login(ctx))

	client, err := Open(ctx, session, OpenOptions{Url: endpoint.URL()})
	require.NoError(t, err)
	defer client.Close(ctx)

	headers := endpoint.Headers()
	require.Equal(t, core.DefaultHeaders["User-agent"], headers.Get("User-Agent"))
	require.Contains(t, headers.Get("Cookie"), testutil.SessionCookie)

	replies, err := client.Connect(ctx)
	require.NoError(t, err)
	require.Equal(t, "/meta/connect", replies[0].Channel)
	require.Equal(t, MessageId(1), replies[0].Id)
	require.Equal(t, "abc", client.ClientId())

	received := endpoint.Received()
	require.Len(t, received, 2)
	var handshake []Message
	require.NoError(t, json.Unmarshal(received[0], &handshake))
	require.Equal(t, "sub-123", handshake[0].Ext["subscriptionId"])
}

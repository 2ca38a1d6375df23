package push

import (
	"avanza-scraper/lib/testutil"
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWebsocketRoundTrip(t *testing.T) {
	endpoint := testutil.NewPushEndpoint(t, func(frame []byte) []byte {
		return append([]byte("echo:"), frame...)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := Dial(ctx, endpoint.URL(), DialOptions{})
	require.NoError(t, err)
	defer ch.Close()

	require.NoError(t, ch.Send(ctx, []byte("ping")))
	frame, err := ch.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, "echo:ping", string(frame))
}

func TestWebsocketReceiveCancelled(t *testing.T) {
	// never answers
	endpoint := testutil.NewPushEndpoint(t, func([]byte) []byte { return nil })

	ch, err := Dial(context.Background(), endpoint.URL(), DialOptions{})
	require.NoError(t, err)
	defer ch.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := ch.Receive(ctx)
		done <- err
	}()

	time.AfterFunc(50*time.Millisecond, cancel)
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Receive did not return after cancellation")
	}
}

func TestWebsocketCloseLogsFailedCloseFrame(t *testing.T) {
	endpoint := testutil.NewPushEndpoint(t, func([]byte) []byte { return nil })

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ch, err := Dial(context.Background(), endpoint.URL(), DialOptions{Logger: logger})
	require.NoError(t, err)

	require.NoError(t, ch.Close())
	require.NotContains(t, logs.String(), "failed to send close frame")

	// the connection is gone, the close frame cannot be written
	ch.Close()
	require.Contains(t, logs.String(), "failed to send close frame")
}

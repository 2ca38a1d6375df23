package restyutil

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	lock     sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.messages[id] = contents
}

func TestInstrumentClientDumpsMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<html>ok</html>")
	}))
	defer srv.Close()

	out := &memoryOutput{messages: map[string]string{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := resty.New().SetBaseURL(srv.URL)
	InstrumentClient(client, logger, out)

	_, err := client.R().
		SetFormData(map[string]string{"j_username": "alice", "j_password": "hunter2"}).
		Post("/ab/handlelogin")
	require.NoError(t, err)

	require.Len(t, out.messages, 1)
	dump := out.messages["1"]
	require.Contains(t, dump, "POST")
	require.Contains(t, dump, "<html>ok</html>")
	require.Contains(t, dump, "j_username=alice")
	require.False(t, strings.Contains(dump, "hunter2"), "password leaked into dump")
}

func TestInstrumentClientSilentWithoutDebug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	out := &memoryOutput{messages: map[string]string{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))

	client := resty.New().SetBaseURL(srv.URL)
	InstrumentClient(client, logger, out)

	_, err := client.R().Get("/")
	require.NoError(t, err)
	require.Empty(t, out.messages)
}

func TestInstrumentClientDumpsBodylessRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>overview</html>")
	}))
	defer srv.Close()

	out := &memoryOutput{messages: map[string]string{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := resty.New().SetBaseURL(srv.URL)
	InstrumentClient(client, logger, out)

	_, err := client.R().Get("/mina-sidor/kontooversikt.html")
	require.NoError(t, err)

	require.Len(t, out.messages, 1)
	require.Contains(t, out.messages["1"], "GET")
	require.Contains(t, out.messages["1"], "<html>overview</html>")
}

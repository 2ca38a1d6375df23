package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// PushEndpoint is a fake push endpoint, every text message received is
// recorded and answered with whatever Respond returns for it.
type PushEndpoint struct {
	Server  *httptest.Server
	Respond func(frame []byte) []byte

	lock     sync.Mutex
	received [][]byte
	headers  http.Header
}

func NewPushEndpoint(t testing.TB, respond func(frame []byte) []byte) *PushEndpoint {
	e := &PushEndpoint{Respond: respond}
	e.Server = httptest.NewServer(http.HandlerFunc(e.serve))
	t.Cleanup(e.Server.Close)
	return e
}

// URL is the ws:// address of the endpoint.
func (e *PushEndpoint) URL() string {
	return "ws" + strings.TrimPrefix(e.Server.URL, "http")
}

func (e *PushEndpoint) Received() [][]byte {
	e.lock.Lock()
	defer e.lock.Unlock()
	return append([][]byte(nil), e.received...)
}

// Headers are the headers of the last upgrade request.
func (e *PushEndpoint) Headers() http.Header {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.headers
}

func (e *PushEndpoint) serve(w http.ResponseWriter, r *http.Request) {
	e.lock.Lock()
	e.headers = r.Header.Clone()
	e.lock.Unlock()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		e.lock.Lock()
		e.received = append(e.received, message)
		e.lock.Unlock()

		reply := e.Respond(message)
		if reply == nil {
			continue
		}
		err = conn.WriteMessage(websocket.TextMessage, reply)
		if err != nil {
			return
		}
	}
}
